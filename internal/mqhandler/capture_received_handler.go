package mqhandler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"secondbrain/internal/model"
	"secondbrain/internal/mq"
	"secondbrain/pkg/util"
)

// Ingester accepts raw capture text. Satisfied by *brain.Brain.
type Ingester interface {
	IngestRaw(ctx context.Context, content string, source model.Source, sender string) model.ClarifiedItem
}

// Deduper suppresses duplicate deliveries. Satisfied by *util.Deduper.
type Deduper interface {
	AcquireOnce(ctx context.Context, handler, key string) bool
}

// CaptureReceivedHandler feeds queued captures from channel bridges into
// the brain.
type CaptureReceivedHandler struct {
	brain   Ingester
	deduper Deduper
	logger  *zap.Logger
}

func NewCaptureReceivedHandler(b Ingester, deduper Deduper, logger *zap.Logger) *CaptureReceivedHandler {
	return &CaptureReceivedHandler{
		brain:   b,
		deduper: deduper,
		logger:  logger,
	}
}

// Handle processes one capture.received event. Channel bridges redeliver on
// reconnect, so duplicates within the dedup window are dropped.
func (h *CaptureReceivedHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	var p mq.CaptureReceivedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}

	key := util.ContentKey(p.Source, p.Content)
	if !h.deduper.AcquireOnce(ctx, "capture_received", key) {
		return nil
	}

	item := h.brain.IngestRaw(ctx, p.Content, model.ParseSource(p.Source), p.Sender)

	h.logger.Info("Queued capture ingested",
		zap.String("item_id", item.ID),
		zap.String("item_type", string(item.ItemType)),
		zap.String("source", p.Source),
	)
	return nil
}
