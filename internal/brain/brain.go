package brain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"secondbrain/internal/decision"
	"secondbrain/internal/model"
	"secondbrain/internal/notify"
	"secondbrain/internal/prioritize"
	"secondbrain/internal/processor"
	"secondbrain/internal/repository"
	"secondbrain/internal/semantic"
	"secondbrain/pkg/metrics"
)

const (
	// Score at or above which an item triggers an urgent notification.
	// Distinct from the decision-escalation threshold.
	urgentScoreThreshold = 80

	// Minimum similarity for semantic deletion to act on the closest note.
	deleteSimilarityThreshold = 0.75
)

// TaskStore persists task items.
type TaskStore interface {
	Insert(ctx context.Context, title, description string, dueAt *time.Time) (int, error)
	FindByTitleLike(ctx context.Context, pattern string) (*repository.TaskRecord, error)
	Delete(ctx context.Context, id int) error
}

// NoteStore persists everything that is not a task.
type NoteStore interface {
	Insert(ctx context.Context, title, content string) (int, error)
}

// SemanticStore indexes non-task items for similarity search.
type SemanticStore interface {
	Upsert(ctx context.Context, id, content string, metadata map[string]string) error
	SearchNearest(ctx context.Context, query string, limit int) ([]semantic.Match, error)
	Delete(ctx context.Context, id string) error
}

// State is the orchestrator's transient working set. It is rebuilt empty on
// every process restart; durable facts live in the stores.
type State struct {
	PendingItems     []model.ClarifiedItem
	PendingDecisions []model.Decision
	ProcessedToday   int
	LastReview       *time.Time
}

// Review is the output of a daily review.
type Review struct {
	Date             time.Time `json:"date"`
	NeedsAttention   int       `json:"needs_attention"`
	FocusItems       []string  `json:"focus_items"`
	PendingDecisions int       `json:"pending_decisions"`
	TotalPending     int       `json:"total_pending"`
}

// Brain orchestrates the capture pipeline: process, score, escalate,
// persist, notify. Collaborators are injected so tests can run against
// fakes. All state mutations go through a single mutex.
type Brain struct {
	processor   *processor.Processor
	prioritizer *prioritize.Prioritizer
	decisions   *decision.Engine
	tasks       TaskStore
	notes       NoteStore
	index       SemanticStore
	notifier    notify.Notifier
	logger      *zap.Logger

	mu    sync.Mutex
	state State
}

func NewBrain(
	proc *processor.Processor,
	prioritizer *prioritize.Prioritizer,
	decisions *decision.Engine,
	tasks TaskStore,
	notes NoteStore,
	index SemanticStore,
	notifier notify.Notifier,
	logger *zap.Logger,
) *Brain {
	return &Brain{
		processor:   proc,
		prioritizer: prioritizer,
		decisions:   decisions,
		tasks:       tasks,
		notes:       notes,
		index:       index,
		notifier:    notifier,
		logger:      logger,
	}
}

// Ingest runs the full pipeline for one capture. Persistence and
// notification failures are logged, never propagated: the item always ends
// up in the pending list.
func (b *Brain) Ingest(ctx context.Context, capture model.Capture) model.ClarifiedItem {
	b.logger.Info("Ingesting capture",
		zap.String("capture_id", capture.ID),
		zap.String("source", string(capture.Source)),
		zap.String("preview", preview(capture.Content, 50)),
	)

	// 1. Clarify
	item := b.processor.Process(ctx, capture)

	// 2. Score. Logged and used for notification thresholding only; the
	// stored item does not carry it.
	score := b.prioritizer.Score(item, nil)
	b.logger.Info("Priority score computed",
		zap.String("item_id", item.ID),
		zap.Float64("score", score),
	)

	// 3. Escalate to a human if needed
	if b.decisions.NeedsDecision(item) {
		dec := b.decisions.Prepare(item, model.DecisionClarification, nil)
		b.appendDecision(dec)
		b.notifyDecisionNeeded(dec)
	}

	// 4. Urgent notification
	if score >= urgentScoreThreshold {
		b.notifyUrgentItem(item, score)
	}

	// 5. Persist
	b.persistItem(ctx, item, capture.Content)

	// 6. Update working set
	b.mu.Lock()
	b.state.PendingItems = append(b.state.PendingItems, item)
	b.state.ProcessedToday++
	b.mu.Unlock()

	metrics.CapturesProcessed.WithLabelValues(string(capture.Source), string(item.ItemType)).Inc()

	return item
}

// IngestRaw wraps plain text in a capture and ingests it.
func (b *Brain) IngestRaw(ctx context.Context, content string, source model.Source, sender string) model.ClarifiedItem {
	return b.Ingest(ctx, model.NewCapture(source, content, sender))
}

// GetTodayFocus returns the n highest-scoring pending tasks.
func (b *Brain) GetTodayFocus(n int) []model.ClarifiedItem {
	b.mu.Lock()
	items := append([]model.ClarifiedItem(nil), b.state.PendingItems...)
	b.mu.Unlock()

	return b.prioritizer.TopActions(items, nil, n)
}

// DailyReview summarises the working set and notifies when there is
// anything worth looking at.
func (b *Brain) DailyReview() Review {
	b.mu.Lock()
	items := append([]model.ClarifiedItem(nil), b.state.PendingItems...)
	pendingDecisions := len(b.state.PendingDecisions)
	b.mu.Unlock()

	attention := b.prioritizer.NeedsAttentionToday(items)
	focus := b.prioritizer.TopActions(items, nil, 3)

	focusTitles := make([]string, 0, len(focus))
	for _, item := range focus {
		focusTitles = append(focusTitles, item.Title)
	}

	review := Review{
		Date:             time.Now(),
		NeedsAttention:   len(attention),
		FocusItems:       focusTitles,
		PendingDecisions: pendingDecisions,
		TotalPending:     len(items),
	}

	now := time.Now()
	b.mu.Lock()
	b.state.LastReview = &now
	b.mu.Unlock()

	if len(focus) > 0 || len(attention) > 0 {
		top := "None"
		if len(focus) > 0 {
			top = focus[0].Title
		}
		b.notifier.Notify(
			"📋 Daily review",
			fmt.Sprintf("%d items need attention\n%d decisions pending\nFocus: %s",
				len(attention), pendingDecisions, top),
			notify.SeverityInfo,
		)
	}

	return review
}

// ResolveDecision removes a pending decision by id. The chosen option is
// recorded in the log but not validated against the decision's option list.
func (b *Brain) ResolveDecision(decisionID, chosenOption string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, dec := range b.state.PendingDecisions {
		if dec.ID == decisionID {
			b.logger.Info("Decision resolved",
				zap.String("decision_id", decisionID),
				zap.String("chosen_option", chosenOption),
			)
			b.state.PendingDecisions = append(b.state.PendingDecisions[:i], b.state.PendingDecisions[i+1:]...)
			metrics.PendingDecisions.Set(float64(len(b.state.PendingDecisions)))
			return true
		}
	}
	return false
}

// DeleteItem deletes by fuzzy text match: tasks by title substring first,
// then the nearest semantic note if it is similar enough. The outcome is a
// human-readable string in every case.
func (b *Brain) DeleteItem(ctx context.Context, query string) string {
	b.logger.Info("Attempting deletion", zap.String("query", query))

	task, err := b.tasks.FindByTitleLike(ctx, query)
	if err != nil {
		b.logger.Error("Task lookup failed during deletion", zap.Error(err))
	} else if task != nil {
		if err := b.tasks.Delete(ctx, task.ID); err != nil {
			b.logger.Error("Task deletion failed", zap.Int("task_id", task.ID), zap.Error(err))
		} else {
			return fmt.Sprintf("🗑️ Deleted task: %s", task.Title)
		}
	}

	matches, err := b.index.SearchNearest(ctx, query, 1)
	if err != nil {
		b.logger.Error("Semantic lookup failed during deletion", zap.Error(err))
		return "❌ Nothing found to delete."
	}
	if len(matches) == 0 || matches[0].Similarity < deleteSimilarityThreshold {
		if len(matches) > 0 {
			b.logger.Info("Deletion aborted, low similarity",
				zap.Float64("similarity", matches[0].Similarity),
			)
		}
		return "❌ Nothing found to delete."
	}

	top := matches[0]
	if err := b.index.Delete(ctx, top.ID); err != nil {
		b.logger.Error("Semantic deletion failed", zap.String("note_id", top.ID), zap.Error(err))
		return "❌ Nothing found to delete."
	}

	return fmt.Sprintf("🗑️ Deleted note: %s", preview(top.Content, 60))
}

// Snapshot returns a copy of the current working set.
func (b *Brain) Snapshot() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return State{
		PendingItems:     append([]model.ClarifiedItem(nil), b.state.PendingItems...),
		PendingDecisions: append([]model.Decision(nil), b.state.PendingDecisions...),
		ProcessedToday:   b.state.ProcessedToday,
		LastReview:       b.state.LastReview,
	}
}

func (b *Brain) appendDecision(dec model.Decision) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state.PendingDecisions = append(b.state.PendingDecisions, dec)
	metrics.PendingDecisions.Set(float64(len(b.state.PendingDecisions)))
}

func (b *Brain) notifyDecisionNeeded(dec model.Decision) {
	optionPreview := strings.Join(dec.Options[:min(2, len(dec.Options))], ", ")
	b.notifier.Notify(
		"🧠 Decision required",
		fmt.Sprintf("%s\nOptions: %s...", dec.Question, optionPreview),
		notify.SeverityWarning,
	)
}

func (b *Brain) notifyUrgentItem(item model.ClarifiedItem, score float64) {
	action := "Action required"
	if len(item.SuggestedActions) > 0 {
		action = item.SuggestedActions[0]
	}
	b.notifier.Notify(
		fmt.Sprintf("⚡ Urgent (%.0f/100)", score),
		fmt.Sprintf("%s\n→ %s", item.Title, action),
		notify.SeverityWarning,
	)
}

// persistItem writes the item to the task store or the note store, and
// indexes non-task items semantically. Failures leave an observable gap
// between the working set and durable storage; they are logged at error
// level and absorbed.
func (b *Brain) persistItem(ctx context.Context, item model.ClarifiedItem, content string) {
	if item.ItemType == model.TypeTask {
		if _, err := b.tasks.Insert(ctx, item.Title, content, item.DueDate); err != nil {
			b.logger.Error("Task persistence failed",
				zap.String("item_id", item.ID),
				zap.Error(err),
			)
			metrics.PersistenceFailures.WithLabelValues("tasks").Inc()
		}
		return
	}

	noteID, err := b.notes.Insert(ctx, item.Title, content)
	if err != nil {
		b.logger.Error("Note persistence failed",
			zap.String("item_id", item.ID),
			zap.Error(err),
		)
		metrics.PersistenceFailures.WithLabelValues("notes").Inc()
		return
	}

	err = b.index.Upsert(ctx, strconv.Itoa(noteID), content, map[string]string{
		"title":    item.Title,
		"type":     string(item.ItemType),
		"priority": string(item.Priority),
	})
	if err != nil {
		b.logger.Error("Semantic index sync failed",
			zap.String("item_id", item.ID),
			zap.Error(err),
		)
		metrics.PersistenceFailures.WithLabelValues("semantic").Inc()
	}
}

func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
