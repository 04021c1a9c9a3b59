package auth

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestAccount(t *testing.T) *Account {
	t.Helper()
	account, err := newAccount("admin", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("new account: %v", err)
	}
	return account
}

func TestChangePasswordChecksInOrder(t *testing.T) {
	cases := []struct {
		name               string
		oldPw, newPw, conf string
		want               error
	}{
		{"missing", "admin", "", "", ErrMissingFields},
		{"wrong old before mismatch", "nope", "abcd", "abce", ErrWrongPassword},
		{"mismatch before length", "admin", "ab", "ac", ErrPasswordMismatch},
		{"too short", "admin", "abc", "abc", ErrPasswordTooShort},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			account := newTestAccount(t)
			if err := account.ChangePassword(tc.oldPw, tc.newPw, tc.conf); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !account.Matches("admin") {
				t.Fatal("failed change must keep the old password")
			}
		})
	}
}

func TestChangePasswordSucceeds(t *testing.T) {
	account := newTestAccount(t)
	if err := account.ChangePassword("admin", "olive", "olive"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if account.Matches("admin") || !account.Matches("olive") {
		t.Fatal("password was not replaced")
	}
}

func TestOpenGateAcceptsAnything(t *testing.T) {
	gate := NewGate(nil, nil, nil)

	session, err := gate.Login("", "")
	if err != nil || session.Token == "" {
		t.Fatalf("open gate should accept: %+v %v", session, err)
	}
	if _, err := gate.Authenticate(session.Token); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if err := gate.Logout(session.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := gate.Authenticate(session.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("closed session should be refused, got %v", err)
	}
	if err := gate.Logout(session.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("double logout should fail, got %v", err)
	}
}

func TestAccountGate(t *testing.T) {
	gate := NewGate(AccountChecker(newTestAccount(t)), NewSessionManager(), nil)

	if _, err := gate.Login("admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := gate.Login("admin", "admin"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := gate.Authenticate(""); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("empty token should be refused, got %v", err)
	}
}
