package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"secondbrain/internal/brain"
)

type BrainHandler struct {
	brain *brain.Brain
}

func NewBrainHandler(b *brain.Brain) *BrainHandler {
	return &BrainHandler{brain: b}
}

// DailyReview handles GET /review.
func (h *BrainHandler) DailyReview(c *gin.Context) {
	c.JSON(http.StatusOK, h.brain.DailyReview())
}

// TodayFocus handles GET /focus?n=3.
func (h *BrainHandler) TodayFocus(c *gin.Context) {
	n := 3
	if raw := c.Query("n"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			n = parsed
		}
	}
	c.JSON(http.StatusOK, gin.H{"items": h.brain.GetTodayFocus(n)})
}

// PendingDecisions handles GET /decisions.
func (h *BrainHandler) PendingDecisions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"decisions": h.brain.Snapshot().PendingDecisions})
}

// ResolveDecision handles POST /decisions/resolve.
func (h *BrainHandler) ResolveDecision(c *gin.Context) {
	var req struct {
		DecisionID   string `json:"decision_id" binding:"required"`
		ChosenOption string `json:"chosen_option" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	resolved := h.brain.ResolveDecision(req.DecisionID, req.ChosenOption)
	if !resolved {
		c.JSON(http.StatusNotFound, gin.H{"resolved": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"resolved": true})
}

// DeleteItem handles POST /items/delete.
func (h *BrainHandler) DeleteItem(c *gin.Context) {
	var req struct {
		Query string `json:"query" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": h.brain.DeleteItem(c.Request.Context(), req.Query)})
}
