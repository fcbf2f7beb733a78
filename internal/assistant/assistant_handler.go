package assistant

import (
	"net/http"
	"os"

	assistanterrors "leavetrack/internal/assistant/errors"
	"leavetrack/internal/shared/apperror"
	"leavetrack/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sessionCookieName = "assistant_session"

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("assistant.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("assistant.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) Chat(c *gin.Context) {
	userID := c.GetString("user_id")

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(assistanterrors.ErrEmptyMessage)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	sessionID := userID + ":" + h.sessionCookie(c)

	reply, err := h.service.Chat(c.Request.Context(), userID, sessionID, req.Message)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("chat turn failed",
			zap.String("user_id", userID),
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
		)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, ChatResponse{Reply: reply}, nil)
}

// sessionCookie returns the per-browser conversation id, minting one when
// the cookie is absent. Scoping the session key by user id as well keeps a
// shared browser from leaking transcripts across logins.
func (h *Handler) sessionCookie(c *gin.Context) string {
	if v, err := c.Cookie(sessionCookieName); err == nil && v != "" {
		return v
	}

	v := uuid.NewString()
	isProd := os.Getenv("APP_ENV") == "production"
	c.SetCookie(sessionCookieName, v, 3600*12, "/", "", isProd, true)
	return v
}
