package decision

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"secondbrain/internal/model"
)

func newEngine() *Engine {
	return NewEngine(zap.NewNop())
}

func TestNeedsDecisionLowConfidence(t *testing.T) {
	e := newEngine()

	item := model.ClarifiedItem{Confidence: 0.5, Priority: model.PriorityNormal}
	assert.True(t, e.NeedsDecision(item))
	assert.Contains(t, e.DecisionReasons(item), "low_confidence")
}

func TestNeedsDecisionCriticalRegardlessOfConfidence(t *testing.T) {
	e := newEngine()

	item := model.ClarifiedItem{Confidence: 0.99, Priority: model.PriorityCritical}
	assert.True(t, e.NeedsDecision(item))
	assert.Equal(t, []string{"critical_priority"}, e.DecisionReasons(item))
}

func TestNeedsDecisionFlagged(t *testing.T) {
	e := newEngine()

	item := model.ClarifiedItem{Confidence: 0.9, Priority: model.PriorityNormal, NeedsHumanDecision: true}
	assert.True(t, e.NeedsDecision(item))
}

func TestNoDecisionForConfidentNormalItem(t *testing.T) {
	e := newEngine()

	item := model.ClarifiedItem{Confidence: 0.9, Priority: model.PriorityNormal}
	assert.False(t, e.NeedsDecision(item))
	assert.Empty(t, e.DecisionReasons(item))
}

func TestPrepareDeterministicID(t *testing.T) {
	e := newEngine()

	item := model.ClarifiedItem{ID: "abc123", Title: "Thing", Confidence: 0.5}

	first := e.Prepare(item, model.DecisionClarification, nil)
	second := e.Prepare(item, model.DecisionClarification, nil)

	assert.Equal(t, "dec-abc123", first.ID)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, []string{"abc123"}, first.RelatedItems)
}

func TestPrepareQuestionAndOptionsPerType(t *testing.T) {
	e := newEngine()
	item := model.ClarifiedItem{ID: "x", Title: "Fix the roof", Confidence: 0.5}

	tests := []struct {
		dtype       model.DecisionType
		questionHas string
		optionCount int
	}{
		{model.DecisionClarification, "How should I handle", 4},
		{model.DecisionGoNoGo, "Should I move forward", 4},
		{model.DecisionDelegation, "Who should take care", 4},
		{model.DecisionPrioritization, "What priority", 4},
		{model.DecisionConflict, "resolve the conflict", 3},
	}
	for _, tt := range tests {
		dec := e.Prepare(item, tt.dtype, nil)
		assert.Contains(t, dec.Question, tt.questionHas, string(tt.dtype))
		assert.Contains(t, dec.Question, "Fix the roof")
		assert.Len(t, dec.Options, tt.optionCount, string(tt.dtype))
	}
}

func TestPrepareRecommendationOnlyWhenConfident(t *testing.T) {
	e := newEngine()

	confident := model.ClarifiedItem{
		ID:               "a",
		Title:            "T",
		Confidence:       0.85,
		SuggestedActions: []string{"Add to task list"},
	}
	assert.Equal(t, "Add to task list", e.Prepare(confident, model.DecisionClarification, nil).Recommendation)

	// Below the threshold: no recommendation.
	hesitant := confident
	hesitant.Confidence = 0.6
	assert.Empty(t, e.Prepare(hesitant, model.DecisionClarification, nil).Recommendation)

	// Confident but not a clarification: no recommendation.
	assert.Empty(t, e.Prepare(confident, model.DecisionGoNoGo, nil).Recommendation)

	// Confident clarification without suggested actions: nothing to recommend.
	bare := confident
	bare.SuggestedActions = nil
	assert.Empty(t, e.Prepare(bare, model.DecisionClarification, nil).Recommendation)
}

func TestPrepareDeadlineDayBeforeDue(t *testing.T) {
	e := newEngine()

	due := time.Date(2025, 7, 10, 9, 0, 0, 0, time.UTC)
	item := model.ClarifiedItem{ID: "a", Title: "T", Confidence: 0.5, DueDate: &due}

	dec := e.Prepare(item, model.DecisionClarification, nil)

	require.NotNil(t, dec.Deadline)
	assert.Equal(t, due.Add(-24*time.Hour), *dec.Deadline)

	noDue := model.ClarifiedItem{ID: "b", Title: "T", Confidence: 0.5}
	assert.Nil(t, e.Prepare(noDue, model.DecisionClarification, nil).Deadline)
}

func TestPrepareReasoningOneFactPerLine(t *testing.T) {
	e := newEngine()

	due := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	item := model.ClarifiedItem{
		ID:         "a",
		Title:      "T",
		ItemType:   model.TypeTask,
		Priority:   model.PriorityHigh,
		Confidence: 0.92,
		DueDate:    &due,
	}

	dec := e.Prepare(item, model.DecisionClarification, &DecisionContext{Constraints: []string{"budget", "time"}})

	lines := strings.Split(dec.Reasoning, "\n")
	assert.Equal(t, []string{
		"Detected type: task",
		"Confidence: 92%",
		"Due: 2025-07-10",
		"Priority: high",
		"Constraints: budget, time",
	}, lines)
}

func TestPrepareReasoningSkipsAbsentFacts(t *testing.T) {
	e := newEngine()

	item := model.ClarifiedItem{ID: "a", Title: "T", ItemType: model.TypeNote, Priority: model.PriorityNone, Confidence: 0.5}

	dec := e.Prepare(item, model.DecisionClarification, nil)

	lines := strings.Split(dec.Reasoning, "\n")
	assert.Equal(t, []string{
		"Detected type: note",
		"Confidence: 50%",
	}, lines)
}
