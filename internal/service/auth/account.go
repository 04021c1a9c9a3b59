// Package auth holds the admin account, the login gate and the session registry.
package auth

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password ChangePassword accepts.
const MinPasswordLength = 4

var (
	ErrMissingFields    = errors.New("auth: missing password fields")
	ErrWrongPassword    = errors.New("auth: wrong current password")
	ErrPasswordMismatch = errors.New("auth: password confirmation mismatch")
	ErrPasswordTooShort = fmt.Errorf("auth: password shorter than %d characters", MinPasswordLength)
)

// Account is the single administrator credential. Only a bcrypt hash is kept.
type Account struct {
	mu   sync.RWMutex
	hash []byte
	cost int
}

// NewAccount hashes the initial password.
func NewAccount(password string) (*Account, error) {
	return newAccount(password, bcrypt.DefaultCost)
}

func newAccount(password string, cost int) (*Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &Account{hash: hash, cost: cost}, nil
}

// Matches reports whether password is the current one.
func (a *Account) Matches(password string) bool {
	a.mu.RLock()
	hash := a.hash
	a.mu.RUnlock()
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// ChangePassword replaces the password. Checks run in order: every field filled, old
// password correct, confirmation equal, minimum length.
func (a *Account) ChangePassword(oldPassword, newPassword, confirm string) error {
	if oldPassword == "" || newPassword == "" || confirm == "" {
		return ErrMissingFields
	}
	if !a.Matches(oldPassword) {
		return ErrWrongPassword
	}
	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	if len([]rune(newPassword)) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), a.cost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	a.mu.Lock()
	a.hash = hash
	a.mu.Unlock()
	return nil
}
