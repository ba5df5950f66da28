package decision

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"secondbrain/internal/model"
)

// Thresholds for escalating to a human and for trusting the pipeline's own
// recommendation.
const (
	lowConfidence       = 0.7
	recommendConfidence = 0.8
)

// DecisionContext carries optional facts that enrich a prepared decision.
type DecisionContext struct {
	RelatedItems  []model.ClarifiedItem
	Constraints   []string
	PastDecisions []string
}

type Engine struct {
	logger *zap.Logger
}

func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{logger: logger}
}

// NeedsDecision reports whether an item requires human arbitration.
func (e *Engine) NeedsDecision(item model.ClarifiedItem) bool {
	return len(e.DecisionReasons(item)) > 0
}

// DecisionReasons lists why an item needs a human, for observability.
func (e *Engine) DecisionReasons(item model.ClarifiedItem) []string {
	var reasons []string
	if item.Confidence < lowConfidence {
		reasons = append(reasons, "low_confidence")
	}
	if item.Priority == model.PriorityCritical {
		reasons = append(reasons, "critical_priority")
	}
	if item.NeedsHumanDecision {
		reasons = append(reasons, "flagged_for_decision")
	}
	return reasons
}

// Prepare builds a structured decision for the item. The id is derived from
// the item id, so an item can have at most one open decision.
func (e *Engine) Prepare(item model.ClarifiedItem, decisionType model.DecisionType, ctx *DecisionContext) model.Decision {
	if ctx == nil {
		ctx = &DecisionContext{}
	}

	dec := model.Decision{
		ID:             "dec-" + item.ID,
		Question:       formulateQuestion(item, decisionType),
		Options:        generateOptions(decisionType),
		Recommendation: makeRecommendation(item, decisionType),
		Reasoning:      buildReasoning(item, ctx),
		RelatedItems:   []string{item.ID},
	}

	if item.DueDate != nil {
		deadline := item.DueDate.Add(-24 * time.Hour)
		dec.Deadline = &deadline
	}

	e.logger.Info("Decision prepared",
		zap.String("decision_id", dec.ID),
		zap.String("type", string(decisionType)),
	)
	return dec
}

func formulateQuestion(item model.ClarifiedItem, dtype model.DecisionType) string {
	switch dtype {
	case model.DecisionClarification:
		return fmt.Sprintf("How should I handle: \"%s\"?", item.Title)
	case model.DecisionGoNoGo:
		return fmt.Sprintf("Should I move forward with: \"%s\"?", item.Title)
	case model.DecisionDelegation:
		return fmt.Sprintf("Who should take care of: \"%s\"?", item.Title)
	case model.DecisionPrioritization:
		return fmt.Sprintf("What priority for: \"%s\"?", item.Title)
	case model.DecisionConflict:
		return fmt.Sprintf("How should I resolve the conflict around: \"%s\"?", item.Title)
	default:
		return fmt.Sprintf("What should I do with: \"%s\"?", item.Title)
	}
}

func generateOptions(dtype model.DecisionType) []string {
	switch dtype {
	case model.DecisionClarification:
		return []string{
			"It's a task, add to reminders",
			"It's an event, add to calendar",
			"It's a note, archive it",
			"Ignore / delete",
		}
	case model.DecisionGoNoGo:
		return []string{"Go", "No-go", "Defer", "Need more info"}
	case model.DecisionDelegation:
		return []string{"Do it myself", "Delegate", "Automate", "Delete"}
	case model.DecisionPrioritization:
		return []string{"Critical", "High", "Normal", "Low"}
	default:
		return []string{"Yes", "No", "Defer"}
	}
}

func makeRecommendation(item model.ClarifiedItem, dtype model.DecisionType) string {
	if item.Confidence >= recommendConfidence && dtype == model.DecisionClarification {
		if len(item.SuggestedActions) > 0 {
			return item.SuggestedActions[0]
		}
	}
	return ""
}

// buildReasoning emits one observed fact per line; absent facts are skipped.
func buildReasoning(item model.ClarifiedItem, ctx *DecisionContext) string {
	parts := []string{
		fmt.Sprintf("Detected type: %s", item.ItemType),
		fmt.Sprintf("Confidence: %.0f%%", item.Confidence*100),
	}
	if item.DueDate != nil {
		parts = append(parts, fmt.Sprintf("Due: %s", item.DueDate.Format("2006-01-02")))
	}
	if item.Priority != model.PriorityNone {
		parts = append(parts, fmt.Sprintf("Priority: %s", item.Priority))
	}
	if len(ctx.Constraints) > 0 {
		parts = append(parts, fmt.Sprintf("Constraints: %s", strings.Join(ctx.Constraints, ", ")))
	}
	return strings.Join(parts, "\n")
}
