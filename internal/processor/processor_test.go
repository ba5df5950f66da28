package processor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"secondbrain/internal/model"
)

type fakeOracle struct {
	result *model.Classification
	err    error
}

func (f *fakeOracle) Classify(ctx context.Context, text string) (*model.Classification, error) {
	return f.result, f.err
}

func newCapture(content string) model.Capture {
	return model.NewCapture(model.SourceManual, content, "")
}

func TestProcessOracleFailureFallsBackToNote(t *testing.T) {
	p := NewProcessor(&fakeOracle{err: errors.New("provider down")}, zap.NewNop())

	item := p.Process(context.Background(), newCapture("buy milk on the way home"))

	assert.Equal(t, model.TypeNote, item.ItemType)
	assert.Equal(t, 0.5, item.Confidence)
	assert.True(t, item.NeedsHumanDecision)
	assert.Nil(t, item.DueDate)
	assert.Equal(t, "fallback", item.DecisionContext)
	assert.Equal(t, "buy milk on the way home", item.Title)
}

func TestProcessFallbackTruncatesLongTitles(t *testing.T) {
	p := NewProcessor(&fakeOracle{err: errors.New("timeout")}, zap.NewNop())

	content := strings.Repeat("x", 200)
	item := p.Process(context.Background(), newCapture(content))

	assert.Len(t, item.Title, 80)
	assert.Equal(t, content, item.Description)
}

func TestProcessEmptyTextStillYieldsNote(t *testing.T) {
	p := NewProcessor(&fakeOracle{err: errors.New("nope")}, zap.NewNop())

	item := p.Process(context.Background(), newCapture(""))

	assert.Equal(t, model.TypeNote, item.ItemType)
	assert.Equal(t, 0.5, item.Confidence)
}

func TestProcessNilClassificationFallsBackToNote(t *testing.T) {
	// A degenerate oracle returning neither a result nor an error is treated
	// like a failure.
	p := NewProcessor(&fakeOracle{}, zap.NewNop())

	item := p.Process(context.Background(), newCapture("stray thought"))

	assert.Equal(t, model.TypeNote, item.ItemType)
	assert.Equal(t, 0.5, item.Confidence)
	assert.Equal(t, "fallback", item.DecisionContext)
	assert.True(t, item.NeedsHumanDecision)
}

func TestProcessUrgentKeywordWithOracleDown(t *testing.T) {
	// "URGENT: renew insurance by friday" with the oracle unavailable:
	// the keyword heuristic is independent of classification.
	p := NewProcessor(&fakeOracle{err: errors.New("unavailable")}, zap.NewNop())

	item := p.Process(context.Background(), newCapture("URGENT: renew insurance by friday"))

	assert.Equal(t, model.TypeNote, item.ItemType)
	assert.Equal(t, model.PriorityCritical, item.Priority)
	assert.Equal(t, 0.5, item.Confidence)
	assert.True(t, item.NeedsHumanDecision)
}

func TestProcessConfidentTaskClassification(t *testing.T) {
	p := NewProcessor(&fakeOracle{result: &model.Classification{
		Type:       model.TypeTask,
		Summary:    "Renew insurance",
		Confidence: 0.95,
		DueDate:    "2025-01-10",
	}}, zap.NewNop())

	item := p.Process(context.Background(), newCapture("please renew the insurance"))

	assert.Equal(t, model.TypeTask, item.ItemType)
	assert.Equal(t, "Renew insurance", item.Title)
	assert.Equal(t, 0.95, item.Confidence)
	// No urgency keyword matched; the heuristic does not look at due dates.
	assert.Equal(t, model.PriorityNone, item.Priority)
	assert.False(t, item.NeedsHumanDecision)
	assert.Equal(t, []string{"Add to task list"}, item.SuggestedActions)

	require.NotNil(t, item.DueDate)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), *item.DueDate)
}

func TestProcessLowConfidenceFlagsDecision(t *testing.T) {
	p := NewProcessor(&fakeOracle{result: &model.Classification{
		Type:       model.TypeTask,
		Summary:    "Maybe a task",
		Confidence: 0.6,
	}}, zap.NewNop())

	item := p.Process(context.Background(), newCapture("hmm"))

	assert.True(t, item.NeedsHumanDecision)
}

func TestProcessUnknownTypeFlagsDecision(t *testing.T) {
	p := NewProcessor(&fakeOracle{result: &model.Classification{
		Type:       model.TypeUnknown,
		Summary:    "No idea",
		Confidence: 0.9,
	}}, zap.NewNop())

	item := p.Process(context.Background(), newCapture("???"))

	assert.True(t, item.NeedsHumanDecision)
}

func TestProcessPastDueDateAccepted(t *testing.T) {
	p := NewProcessor(&fakeOracle{result: &model.Classification{
		Type:       model.TypeTask,
		Summary:    "Old thing",
		Confidence: 0.9,
		DueDate:    "2001-01-01",
	}}, zap.NewNop())

	item := p.Process(context.Background(), newCapture("do the old thing"))

	require.NotNil(t, item.DueDate)
	assert.Equal(t, 2001, item.DueDate.Year())
}

func TestParseDueDateSentinels(t *testing.T) {
	for _, raw := range []string{"", "None", "N/A", "null", "next tuesday-ish"} {
		assert.Nil(t, parseDueDate(raw), "raw=%q", raw)
	}
}

func TestDetectUrgencyTierOrder(t *testing.T) {
	tests := []struct {
		content string
		want    model.Urgency
	}{
		{"this is urgent, do it asap", model.UrgencyImmediate},
		{"finish today please", model.UrgencyToday},
		{"sometime this week maybe", model.UrgencySoon},
		// immediate-tier keyword outranks today-tier even when both appear
		{"critical fix needed today", model.UrgencyImmediate},
		{"nothing pressing here", model.UrgencyUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, detectUrgency(tt.content), "content=%q", tt.content)
	}
}

func TestSuggestActionsCriticalTask(t *testing.T) {
	item := model.ClarifiedItem{ItemType: model.TypeTask, Priority: model.PriorityCritical}
	assert.Equal(t, []string{"Add to task list", "Do now"}, suggestActions(item))
}

func TestSuggestActionsByType(t *testing.T) {
	tests := []struct {
		itemType model.ItemType
		want     []string
	}{
		{model.TypeEvent, []string{"Add to calendar"}},
		{model.TypeNote, []string{"Archive"}},
		{model.TypeQuestion, []string{"Search for an answer"}},
		{model.TypeReference, nil},
		{model.TypeChat, nil},
	}
	for _, tt := range tests {
		item := model.ClarifiedItem{ItemType: tt.itemType, Priority: model.PriorityNormal}
		assert.Equal(t, tt.want, suggestActions(item), "type=%s", tt.itemType)
	}
}
