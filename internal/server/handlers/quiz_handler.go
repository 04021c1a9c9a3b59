package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/oliveraq/internal/service/quiz"
)

// QuizHandler runs one quiz attempt per session.
type QuizHandler struct {
	registry *quiz.Registry
	logger   *zap.Logger
}

// NewQuizHandler constructs the HTTP handler adapter.
func NewQuizHandler(registry *quiz.Registry, logger *zap.Logger) *QuizHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuizHandler{registry: registry, logger: logger}
}

type answerRequest struct {
	Option *int `json:"option"`
}

// State returns the current question or the final score.
func (h *QuizHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.Attempt(sessionToken(c)).State())
}

// Answer grades the chosen option.
func (h *QuizHandler) Answer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	option := -1
	if req.Option != nil {
		option = *req.Option
	}

	attempt := h.registry.Attempt(sessionToken(c))
	feedback, err := attempt.Answer(option)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": feedback, "state": attempt.State()})
}

// Next moves to the following question.
func (h *QuizHandler) Next(c *gin.Context) {
	attempt := h.registry.Attempt(sessionToken(c))
	if err := attempt.Next(); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, attempt.State())
}

// Restart starts the quiz over.
func (h *QuizHandler) Restart(c *gin.Context) {
	attempt := h.registry.Attempt(sessionToken(c))
	attempt.Restart()
	c.JSON(http.StatusOK, attempt.State())
}
