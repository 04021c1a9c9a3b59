package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is an open login.
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionManager keeps the open sessions by token.
type SessionManager struct {
	sessions map[string]Session
	mu       sync.RWMutex
	now      func() time.Time
}

// NewSessionManager creates an empty registry.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Open registers a new session for username.
func (sm *SessionManager) Open(username string) Session {
	session := Session{Token: uuid.NewString(), Username: username, CreatedAt: sm.now()}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sessions[session.Token] = session
	return session
}

// Get retrieves the session for token.
func (sm *SessionManager) Get(token string) (Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	session, ok := sm.sessions[token]
	return session, ok
}

// Close removes a session. It reports whether the token was open.
func (sm *SessionManager) Close(token string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, ok := sm.sessions[token]; !ok {
		return false
	}
	delete(sm.sessions, token)
	return true
}
