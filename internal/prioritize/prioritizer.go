package prioritize

import (
	"sort"
	"strings"
	"time"

	"secondbrain/internal/model"
)

// Weights for the four sub-scores. They sum to 1.0.
const (
	weightDeadline   = 0.4
	weightPriority   = 0.3
	weightType       = 0.2
	weightConfidence = 0.1
)

// UserContext is the situational context that modulates scores.
type UserContext struct {
	CurrentEnergy       string  // low | normal | high
	AvailableHoursToday float64
	IsDeepWorkTime      bool
	FocusProject        string
}

// ScoredItem pairs an item with its computed score.
type ScoredItem struct {
	Item  model.ClarifiedItem
	Score float64
}

type Prioritizer struct {
	now func() time.Time
}

func NewPrioritizer() *Prioritizer {
	return &Prioritizer{now: time.Now}
}

// Score computes a 0-100 urgency/importance score for an item. A nil
// context means no modifiers apply.
func (p *Prioritizer) Score(item model.ClarifiedItem, ctx *UserContext) float64 {
	total := weightDeadline*p.scoreDeadline(item.DueDate) +
		weightPriority*scorePriority(item.Priority) +
		weightType*scoreType(item.ItemType) +
		weightConfidence*item.Confidence*100

	if ctx != nil {
		total = applyContextModifiers(total, item, ctx)
	}

	return clamp(total, 0, 100)
}

// Rank sorts items by descending score. Ties keep input order.
func (p *Prioritizer) Rank(items []model.ClarifiedItem, ctx *UserContext, limit int) []ScoredItem {
	scored := make([]ScoredItem, 0, len(items))
	for _, item := range items {
		scored = append(scored, ScoredItem{Item: item, Score: p.Score(item, ctx)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if limit > 0 && limit < len(scored) {
		scored = scored[:limit]
	}
	return scored
}

// TopActions returns the n best-scoring task items. Non-task items never
// appear, whatever their score.
func (p *Prioritizer) TopActions(items []model.ClarifiedItem, ctx *UserContext, n int) []model.ClarifiedItem {
	var tasks []model.ClarifiedItem
	for _, item := range items {
		if item.ItemType == model.TypeTask {
			tasks = append(tasks, item)
		}
	}

	ranked := p.Rank(tasks, ctx, n)
	out := make([]model.ClarifiedItem, 0, len(ranked))
	for _, s := range ranked {
		out = append(out, s.Item)
	}
	return out
}

// NeedsAttentionToday returns items due today or earlier, critical items,
// and items flagged for a human decision, in input order without duplicates.
func (p *Prioritizer) NeedsAttentionToday(items []model.ClarifiedItem) []model.ClarifiedItem {
	now := p.now()
	y, m, d := now.Date()
	endOfToday := time.Date(y, m, d, 23, 59, 59, 0, now.Location())

	var urgent []model.ClarifiedItem
	for _, item := range items {
		switch {
		case item.DueDate != nil && !item.DueDate.After(endOfToday):
			urgent = append(urgent, item)
		case item.Priority == model.PriorityCritical:
			urgent = append(urgent, item)
		case item.NeedsHumanDecision:
			urgent = append(urgent, item)
		}
	}
	return urgent
}

// scoreDeadline is a step function over time-to-due.
func (p *Prioritizer) scoreDeadline(dueDate *time.Time) float64 {
	if dueDate == nil {
		return 30
	}

	hours := dueDate.Sub(p.now()).Hours()
	switch {
	case hours < 0:
		return 100 // overdue
	case hours < 24:
		return 90
	case hours < 72:
		return 70
	case hours < 168:
		return 50
	default:
		return 30
	}
}

func scorePriority(priority model.Priority) float64 {
	switch priority {
	case model.PriorityCritical:
		return 100
	case model.PriorityHigh:
		return 75
	case model.PriorityNormal:
		return 50
	case model.PriorityLow:
		return 25
	default:
		return 10
	}
}

func scoreType(itemType model.ItemType) float64 {
	switch itemType {
	case model.TypeTask:
		return 80
	case model.TypeEvent:
		return 70
	case model.TypeProject:
		return 60
	case model.TypeNote:
		return 30
	case model.TypeReference:
		return 20
	default:
		return 50
	}
}

func applyContextModifiers(score float64, item model.ClarifiedItem, ctx *UserContext) float64 {
	if ctx.CurrentEnergy == "low" {
		text := strings.ToLower(item.Title + " " + item.Description)
		if strings.Contains(text, "complex") {
			score *= 0.7
		}
	}

	if ctx.FocusProject != "" {
		if strings.Contains(strings.ToLower(item.Title), strings.ToLower(ctx.FocusProject)) {
			score *= 1.3
		}
	}

	if ctx.IsDeepWorkTime {
		switch item.ItemType {
		case model.TypeTask:
			score *= 1.2
		case model.TypeNote:
			score *= 0.5
		}
	}

	return score
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
