package processor

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"secondbrain/internal/classify"
	"secondbrain/internal/model"
	"secondbrain/pkg/metrics"
)

// decisionThreshold flags items whose classification confidence is too low
// to route without a human.
const decisionThreshold = 0.7

// urgencyTiers are scanned in order; the first tier with a keyword hit wins.
var urgencyTiers = []struct {
	urgency  model.Urgency
	keywords []string
}{
	{model.UrgencyImmediate, []string{"urgent", "asap", "now", "immediately", "critical"}},
	{model.UrgencyToday, []string{"today", "tonight", "by end of day", "eod"}},
	{model.UrgencySoon, []string{"this week", "soon", "quickly", "as soon as possible"}},
}

type Processor struct {
	oracle classify.Oracle
	logger *zap.Logger
}

func NewProcessor(oracle classify.Oracle, logger *zap.Logger) *Processor {
	return &Processor{
		oracle: oracle,
		logger: logger,
	}
}

// Process turns a raw capture into a clarified item. It never fails: when
// the oracle is unavailable the item falls back to a low-confidence note,
// and the fallback is recorded in the item's reasoning.
func (p *Processor) Process(ctx context.Context, capture model.Capture) model.ClarifiedItem {
	content := capture.Content

	var (
		itemType   model.ItemType
		title      string
		confidence float64
		dueDate    *time.Time
		reasoning  string
	)

	result, err := p.oracle.Classify(ctx, content)
	if err == nil && result != nil {
		itemType = result.Type
		title = result.Summary
		confidence = result.Confidence
		dueDate = parseDueDate(result.DueDate)
		reasoning = result.Reasoning
	} else {
		p.logger.Warn("Classification failed, using note fallback",
			zap.String("capture_id", capture.ID),
			zap.Error(err),
		)
		metrics.ClassificationFallbacks.Inc()
		itemType = model.TypeNote
		title = truncate(content, 80)
		confidence = 0.5
		reasoning = "fallback"
	}

	urgency := detectUrgency(strings.ToLower(content))
	priority := priorityFor(urgency)

	needsDecision := confidence < decisionThreshold || itemType == model.TypeUnknown

	item := model.ClarifiedItem{
		ID:                 capture.ID,
		ItemType:           itemType,
		Title:              title,
		Description:        content,
		Priority:           priority,
		DueDate:            dueDate,
		SourceCapture:      &capture,
		Confidence:         confidence,
		NeedsHumanDecision: needsDecision,
		DecisionContext:    reasoning,
	}
	item.SuggestedActions = suggestActions(item)

	return item
}

// parseDueDate handles ISO dates. Sentinel values and anything unparsable
// mean "no due date", never an error.
func parseDueDate(raw string) *time.Time {
	switch raw {
	case "", "None", "N/A", "null":
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

func detectUrgency(content string) model.Urgency {
	for _, tier := range urgencyTiers {
		for _, kw := range tier.keywords {
			if strings.Contains(content, kw) {
				return tier.urgency
			}
		}
	}
	return model.UrgencyUnknown
}

func priorityFor(urgency model.Urgency) model.Priority {
	switch urgency {
	case model.UrgencyImmediate:
		return model.PriorityCritical
	case model.UrgencyToday:
		return model.PriorityHigh
	case model.UrgencySoon:
		return model.PriorityNormal
	case model.UrgencySometime:
		return model.PriorityLow
	default:
		return model.PriorityNone
	}
}

func suggestActions(item model.ClarifiedItem) []string {
	var actions []string
	switch item.ItemType {
	case model.TypeTask:
		actions = append(actions, "Add to task list")
		if item.Priority == model.PriorityCritical {
			actions = append(actions, "Do now")
		}
	case model.TypeEvent:
		actions = append(actions, "Add to calendar")
	case model.TypeNote:
		actions = append(actions, "Archive")
	case model.TypeQuestion:
		actions = append(actions, "Search for an answer")
	case model.TypeProject, model.TypeReference, model.TypeChat, model.TypeDelete, model.TypeUnknown:
		// no canned action
	}
	return actions
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
