package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"secondbrain/internal/brain"
	"secondbrain/internal/model"
	"secondbrain/internal/mq"
	"secondbrain/pkg/logger"
)

type CaptureHandler struct {
	brain    *brain.Brain
	producer *mq.Producer
	log      *zap.Logger
}

func NewCaptureHandler(b *brain.Brain, producer *mq.Producer, log *zap.Logger) *CaptureHandler {
	return &CaptureHandler{
		brain:    b,
		producer: producer,
		log:      log,
	}
}

type captureRequest struct {
	Source  string `json:"source"`
	Content string `json:"content" binding:"required"`
	Sender  string `json:"sender"`
}

type captureResponse struct {
	ID               string   `json:"id"`
	ItemType         string   `json:"item_type"`
	Title            string   `json:"title"`
	Priority         string   `json:"priority"`
	Confidence       float64  `json:"confidence"`
	NeedsDecision    bool     `json:"needs_decision"`
	SuggestedActions []string `json:"suggested_actions"`
}

// Capture handles POST /capture: synchronous ingestion of one text blob.
func (h *CaptureHandler) Capture(c *gin.Context) {
	var req captureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	item := h.brain.IngestRaw(c.Request.Context(), req.Content, model.ParseSource(req.Source), req.Sender)

	c.JSON(http.StatusOK, captureResponse{
		ID:               item.ID,
		ItemType:         string(item.ItemType),
		Title:            item.Title,
		Priority:         string(item.Priority),
		Confidence:       item.Confidence,
		NeedsDecision:    item.NeedsHumanDecision,
		SuggestedActions: item.SuggestedActions,
	})
}

// QueueCapture handles POST /capture/queue: the capture is published to the
// exchange and picked up by the worker.
func (h *CaptureHandler) QueueCapture(c *gin.Context) {
	var req captureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	payload := mq.CaptureReceivedPayload{
		Source:     req.Source,
		Content:    req.Content,
		Sender:     req.Sender,
		ReceivedAt: time.Now(),
	}

	if err := h.producer.Publish(mq.CaptureReceived, payload); err != nil {
		logger.WithTrace(c.Request.Context(), h.log).Error("Failed to publish capture", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to queue capture"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "queued"})
}
