package auth

import (
	"errors"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrInvalidCredentials is returned by Login when the checker refuses the input.
	ErrInvalidCredentials = errors.New("identifiants invalides")
	// ErrUnauthenticated is returned for a missing or unknown session token.
	ErrUnauthenticated = errors.New("session invalide")
)

// CredentialChecker decides whether a login attempt is accepted.
type CredentialChecker interface {
	Check(username, password string) bool
}

// CheckerFunc adapts a function to CredentialChecker.
type CheckerFunc func(username, password string) bool

func (f CheckerFunc) Check(username, password string) bool { return f(username, password) }

// OpenChecker accepts every attempt, as the desktop login screen did.
var OpenChecker = CheckerFunc(func(string, string) bool { return true })

// AccountChecker accepts the attempt when the password matches the admin account.
func AccountChecker(account *Account) CredentialChecker {
	return CheckerFunc(func(_, password string) bool {
		return password != "" && account.Matches(password)
	})
}

// Gate opens and validates sessions.
type Gate struct {
	checker  CredentialChecker
	sessions *SessionManager
	logger   *zap.Logger
}

// NewGate builds a gate. A nil checker behaves like OpenChecker.
func NewGate(checker CredentialChecker, sessions *SessionManager, logger *zap.Logger) *Gate {
	if checker == nil {
		checker = OpenChecker
	}
	if sessions == nil {
		sessions = NewSessionManager()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{checker: checker, sessions: sessions, logger: logger}
}

// Login opens a session when the checker accepts the credentials.
func (g *Gate) Login(username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	if !g.checker.Check(username, password) {
		g.logger.Warn("login refused", zap.String("username", username))
		return Session{}, ErrInvalidCredentials
	}
	session := g.sessions.Open(username)
	g.logger.Info("login", zap.String("username", username))
	return session, nil
}

// Logout closes the session named by token.
func (g *Gate) Logout(token string) error {
	if !g.sessions.Close(token) {
		return ErrUnauthenticated
	}
	return nil
}

// Authenticate returns the open session for token.
func (g *Gate) Authenticate(token string) (Session, error) {
	if token == "" {
		return Session{}, ErrUnauthenticated
	}
	session, ok := g.sessions.Get(token)
	if !ok {
		return Session{}, ErrUnauthenticated
	}
	return session, nil
}
