package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/oliveraq/internal/domain/models"
	"github.com/mamadbah2/oliveraq/internal/service/auth"
	"github.com/mamadbah2/oliveraq/internal/service/quiz"
	"github.com/mamadbah2/oliveraq/internal/store"
)

// notices holds the French text shown to the user for service sentinels.
var notices = map[error]string{
	auth.ErrMissingFields:    "Veuillez remplir tous les champs.",
	auth.ErrWrongPassword:    "L'ancien mot de passe est incorrect.",
	auth.ErrPasswordMismatch: "Les mots de passe ne correspondent pas.",
	auth.ErrPasswordTooShort: fmt.Sprintf("Le mot de passe doit contenir au moins %d caractères.", auth.MinPasswordLength),
	quiz.ErrNoAnswer:         "Veuillez sélectionner une réponse avant de continuer.",
}

// notice returns the user-facing text for err, falling back to err.Error().
func notice(err error) string {
	for sentinel, text := range notices {
		if errors.Is(err, sentinel) {
			return text
		}
	}
	return err.Error()
}

// writeError maps service errors onto HTTP statuses. Unknown errors are logged and
// reported as 500 without detail.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	var vErr *models.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": vErr.Message, "field": vErr.Field})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "ligne introuvable"})
	case errors.Is(err, store.ErrNoSelection):
		c.JSON(http.StatusConflict, gin.H{"error": "aucune ligne sélectionnée"})
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrUnauthenticated), errors.Is(err, auth.ErrWrongPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": notice(err)})
	case errors.Is(err, auth.ErrMissingFields), errors.Is(err, auth.ErrPasswordMismatch), errors.Is(err, auth.ErrPasswordTooShort):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": notice(err), "field": "password"})
	case errors.Is(err, quiz.ErrNoAnswer):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": notice(err), "field": "option"})
	case errors.Is(err, quiz.ErrAlreadyAnswered), errors.Is(err, quiz.ErrNotAnswered), errors.Is(err, quiz.ErrFinished):
		c.JSON(http.StatusConflict, gin.H{"error": notice(err)})
	default:
		if logger != nil {
			logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, logger *zap.Logger, err error) {
	if logger != nil {
		logger.Warn("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

// confirmer turns ?confirm=true into the yes answer of a delete prompt.
func confirmer(c *gin.Context) store.Confirmer {
	if c.Query("confirm") == "true" {
		return store.Confirmed
	}
	return nil
}

func deleted(c *gin.Context, ok bool) {
	c.JSON(http.StatusOK, gin.H{"deleted": ok})
}
