package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/oliveraq/internal/service/auth"
)

// SessionHeader carries the token returned by login.
const SessionHeader = "X-Session-Token"

const sessionKey = "session"

// AuthHandler serves login, logout and the password change form.
type AuthHandler struct {
	gate    *auth.Gate
	account *auth.Account
	logger  *zap.Logger
}

// NewAuthHandler constructs the HTTP handler adapter.
func NewAuthHandler(gate *auth.Gate, account *auth.Account, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{gate: gate, account: account, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Login opens a session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	session, err := h.gate.Login(req.Username, req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Logout closes the caller's session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.gate.Logout(c.GetHeader(SessionHeader)); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ChangePassword replaces the admin password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	if err := h.account.ChangePassword(req.OldPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		writeError(c, h.logger, err)
		return
	}
	h.logger.Info("admin password changed")
	c.JSON(http.StatusOK, gin.H{"message": "Mot de passe modifié avec succès !"})
}

// RequireSession rejects requests without a valid session token.
func (h *AuthHandler) RequireSession(c *gin.Context) {
	session, err := h.gate.Authenticate(c.GetHeader(SessionHeader))
	if err != nil {
		writeError(c, h.logger, err)
		c.Abort()
		return
	}
	c.Set(sessionKey, session)
	c.Next()
}

func sessionToken(c *gin.Context) string {
	if v, ok := c.Get(sessionKey); ok {
		if session, ok := v.(auth.Session); ok {
			return session.Token
		}
	}
	return c.GetHeader(SessionHeader)
}
