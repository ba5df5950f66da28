package prioritize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secondbrain/internal/model"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestPrioritizer() *Prioritizer {
	p := NewPrioritizer()
	p.now = func() time.Time { return testNow }
	return p
}

func itemWithDue(due time.Time) model.ClarifiedItem {
	return model.ClarifiedItem{
		ID:         model.NewID(),
		ItemType:   model.TypeTask,
		Title:      "t",
		Priority:   model.PriorityNormal,
		DueDate:    &due,
		Confidence: 0.9,
	}
}

func TestScoreDeadlineSteps(t *testing.T) {
	p := newTestPrioritizer()

	tests := []struct {
		name string
		due  *time.Time
		want float64
	}{
		{"no due date", nil, 30},
		{"overdue", ptr(testNow.Add(-24 * time.Hour)), 100},
		{"under 24h", ptr(testNow.Add(6 * time.Hour)), 90},
		{"under 72h", ptr(testNow.Add(48 * time.Hour)), 70},
		{"under a week", ptr(testNow.Add(120 * time.Hour)), 50},
		{"far out", ptr(testNow.Add(400 * time.Hour)), 30},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.scoreDeadline(tt.due), tt.name)
	}
}

func TestScoreOverdueRegardlessOfPriority(t *testing.T) {
	p := newTestPrioritizer()

	yesterday := testNow.Add(-24 * time.Hour)
	item := itemWithDue(yesterday)
	item.Priority = model.PriorityNone

	assert.Equal(t, float64(100), p.scoreDeadline(item.DueDate))
}

func TestScoreAlwaysInRange(t *testing.T) {
	p := newTestPrioritizer()

	due := testNow.Add(-time.Hour)
	extremes := []model.ClarifiedItem{
		{ItemType: model.TypeTask, Priority: model.PriorityCritical, DueDate: &due, Confidence: 1.0, Title: "apollo work"},
		{ItemType: model.TypeReference, Priority: model.PriorityNone, Confidence: 0, Title: "complex thing", Description: "complex"},
	}
	contexts := []*UserContext{
		nil,
		{CurrentEnergy: "low"},
		{IsDeepWorkTime: true, FocusProject: "apollo"},
		{CurrentEnergy: "low", IsDeepWorkTime: true, FocusProject: "apollo"},
	}

	for _, item := range extremes {
		for _, ctx := range contexts {
			score := p.Score(item, ctx)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 100.0)
		}
	}
}

func TestScoreModifiersCompoundAndClamp(t *testing.T) {
	p := newTestPrioritizer()

	due := testNow.Add(-time.Hour)
	item := model.ClarifiedItem{
		ItemType:   model.TypeTask,
		Title:      "apollo launch",
		Priority:   model.PriorityCritical,
		DueDate:    &due,
		Confidence: 1.0,
	}
	// Base score is already 96; x1.3 focus and x1.2 deep work push it
	// past 100, the clamp holds.
	score := p.Score(item, &UserContext{IsDeepWorkTime: true, FocusProject: "apollo"})
	assert.Equal(t, 100.0, score)
}

func TestScoreLowEnergyComplexPenalty(t *testing.T) {
	p := newTestPrioritizer()

	item := model.ClarifiedItem{
		ItemType:   model.TypeTask,
		Title:      "Refactor the complex billing module",
		Priority:   model.PriorityNormal,
		Confidence: 0.8,
	}

	base := p.Score(item, nil)
	penalized := p.Score(item, &UserContext{CurrentEnergy: "low"})

	assert.InDelta(t, base*0.7, penalized, 0.001)
}

func TestScoreDeepWorkDeprioritizesNotes(t *testing.T) {
	p := newTestPrioritizer()

	note := model.ClarifiedItem{ItemType: model.TypeNote, Title: "n", Priority: model.PriorityNormal, Confidence: 0.8}

	base := p.Score(note, nil)
	deep := p.Score(note, &UserContext{IsDeepWorkTime: true})

	assert.InDelta(t, base*0.5, deep, 0.001)
}

func TestRankDescendingAndStable(t *testing.T) {
	p := newTestPrioritizer()

	a := model.ClarifiedItem{ID: "a", ItemType: model.TypeNote, Priority: model.PriorityLow, Confidence: 0.5}
	b := model.ClarifiedItem{ID: "b", ItemType: model.TypeTask, Priority: model.PriorityCritical, Confidence: 0.9}
	// c has the exact same inputs as a: same score, input order must hold.
	c := model.ClarifiedItem{ID: "c", ItemType: model.TypeNote, Priority: model.PriorityLow, Confidence: 0.5}

	ranked := p.Rank([]model.ClarifiedItem{a, b, c}, nil, 0)

	require.Len(t, ranked, 3)
	assert.Equal(t, "b", ranked[0].Item.ID)
	assert.Equal(t, "a", ranked[1].Item.ID)
	assert.Equal(t, "c", ranked[2].Item.ID)
	assert.GreaterOrEqual(t, ranked[0].Score, ranked[1].Score)
	assert.Equal(t, ranked[1].Score, ranked[2].Score)
}

func TestRankLimit(t *testing.T) {
	p := newTestPrioritizer()

	items := []model.ClarifiedItem{
		{ID: "a", ItemType: model.TypeTask, Confidence: 0.9},
		{ID: "b", ItemType: model.TypeTask, Confidence: 0.8},
		{ID: "c", ItemType: model.TypeTask, Confidence: 0.7},
	}
	assert.Len(t, p.Rank(items, nil, 2), 2)
}

func TestTopActionsExcludesNonTasks(t *testing.T) {
	p := newTestPrioritizer()

	due := testNow.Add(-time.Hour)
	// The note scores far higher than the task but must not appear.
	note := model.ClarifiedItem{ID: "note", ItemType: model.TypeNote, Priority: model.PriorityCritical, DueDate: &due, Confidence: 1.0}
	task := model.ClarifiedItem{ID: "task", ItemType: model.TypeTask, Priority: model.PriorityNone, Confidence: 0.1}

	top := p.TopActions([]model.ClarifiedItem{note, task}, nil, 3)

	require.Len(t, top, 1)
	assert.Equal(t, "task", top[0].ID)
}

func TestNeedsAttentionToday(t *testing.T) {
	p := newTestPrioritizer()

	dueToday := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)
	dueTomorrow := time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)
	overdue := testNow.Add(-48 * time.Hour)

	items := []model.ClarifiedItem{
		{ID: "due-today", ItemType: model.TypeTask, DueDate: &dueToday},
		{ID: "due-tomorrow", ItemType: model.TypeTask, DueDate: &dueTomorrow},
		{ID: "overdue", ItemType: model.TypeTask, DueDate: &overdue},
		{ID: "critical", ItemType: model.TypeNote, Priority: model.PriorityCritical},
		{ID: "flagged", ItemType: model.TypeNote, NeedsHumanDecision: true},
		{ID: "calm", ItemType: model.TypeNote, Priority: model.PriorityLow},
	}

	got := p.NeedsAttentionToday(items)

	ids := make([]string, 0, len(got))
	for _, item := range got {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"due-today", "overdue", "critical", "flagged"}, ids)
}

func TestNeedsAttentionNoDuplicates(t *testing.T) {
	p := newTestPrioritizer()

	overdue := testNow.Add(-time.Hour)
	// Matches all three conditions, must appear once.
	item := model.ClarifiedItem{
		ID:                 "all",
		ItemType:           model.TypeTask,
		DueDate:            &overdue,
		Priority:           model.PriorityCritical,
		NeedsHumanDecision: true,
	}

	assert.Len(t, p.NeedsAttentionToday([]model.ClarifiedItem{item}), 1)
}

func ptr(t time.Time) *time.Time { return &t }
