package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"secondbrain/internal/rag"
	"secondbrain/pkg/logger"
)

type AskHandler struct {
	rag *rag.Service
	log *zap.Logger
}

func NewAskHandler(svc *rag.Service, log *zap.Logger) *AskHandler {
	return &AskHandler{
		rag: svc,
		log: log,
	}
}

// Ask handles POST /ask: a free-text question answered over the note corpus.
func (h *AskHandler) Ask(c *gin.Context) {
	var req struct {
		Question string `json:"question" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	answer, err := h.rag.Answer(c.Request.Context(), req.Question)
	if err != nil {
		logger.WithTrace(c.Request.Context(), h.log).Error("Failed to answer question", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to answer question"})
		return
	}

	c.JSON(http.StatusOK, answer)
}
