package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"blockchainspace/internal/ratelimit"
	"blockchainspace/internal/service"
)

const msgTooManyRequests = "Too many requests. Please slow down."

type ChatHandler struct {
	Service *service.ChatService
	// Limiter is keyed by client IP. Nil disables limiting.
	Limiter ratelimit.Limiter
	Logger  *zap.Logger
}

func (h *ChatHandler) Register(r *gin.Engine) {
	r.POST("/api/chat", h.chat)
}

type chatRequest struct {
	Message any `json:"message"`
}

// @Summary Ask the blockchain assistant
// @Tags chat
// @Accept json
// @Produce json
// @Param body body chatRequest true "question of at most 200 words"
// @Success 200 {object} service.ChatReply
// @Failure 400 {object} errorBody
// @Failure 401 {object} errorBody
// @Failure 403 {object} errorBody
// @Failure 429 {object} errorBody
// @Failure 500 {object} errorBody
// @Router /api/chat [post]
func (h *ChatHandler) chat(c *gin.Context) {
	if h.Limiter != nil {
		allowed, err := h.Limiter.Allow(c.Request.Context(), "chat:"+c.ClientIP())
		if err != nil && h.Logger != nil {
			h.Logger.Warn("chat limiter failed", zap.Error(err))
		}
		if !allowed {
			c.Header("Retry-After", "1")
			Fail(c, http.StatusTooManyRequests, msgTooManyRequests)
			return
		}
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.Message = nil
	}
	reply, err := h.Service.Reply(c.Request.Context(), req.Message)
	if err != nil {
		var chatErr *service.ChatError
		if errors.As(err, &chatErr) {
			Fail(c, chatErr.Status, chatErr.Message)
			return
		}
		Fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, reply)
}
