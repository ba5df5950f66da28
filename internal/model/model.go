package model

import (
	"time"

	"github.com/google/uuid"
)

// Source is the channel a capture came from. Informational only, the
// pipeline does not branch on it.
type Source string

const (
	SourceWhatsApp Source = "whatsapp"
	SourceTelegram Source = "telegram"
	SourceEmail    Source = "email"
	SourceCall     Source = "call"
	SourceManual   Source = "manual"
	SourceShortcut Source = "shortcut"
)

// ParseSource maps a raw channel string to a Source, defaulting to manual.
func ParseSource(s string) Source {
	switch Source(s) {
	case SourceWhatsApp, SourceTelegram, SourceEmail, SourceCall, SourceManual, SourceShortcut:
		return Source(s)
	default:
		return SourceManual
	}
}

// ItemType is the type assigned to an item after clarification.
type ItemType string

const (
	TypeTask      ItemType = "task"
	TypeEvent     ItemType = "event"
	TypeProject   ItemType = "project"
	TypeNote      ItemType = "note"
	TypeReference ItemType = "reference"
	TypeQuestion  ItemType = "question"
	TypeChat      ItemType = "chat"
	TypeDelete    ItemType = "delete"
	TypeUnknown   ItemType = "unknown"
)

// Priority is the final priority tier, derived deterministically from Urgency.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityNormal   Priority = "normal"
	PriorityLow      Priority = "low"
	PriorityNone     Priority = "none"
)

// Urgency is the perceived time pressure detected from the raw text.
// It is distinct from Priority.
type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencyToday     Urgency = "today"
	UrgencySoon      Urgency = "soon"
	UrgencySometime  Urgency = "sometime"
	UrgencyUnknown   Urgency = "unknown"
)

// DecisionType selects which question/options template the decision
// engine uses.
type DecisionType string

const (
	DecisionClarification  DecisionType = "clarification"
	DecisionConflict       DecisionType = "conflict"
	DecisionDelegation     DecisionType = "delegation"
	DecisionPrioritization DecisionType = "prioritization"
	DecisionGoNoGo         DecisionType = "go_no_go"
)

// Context is per-capture metadata, owned by its Capture.
type Context struct {
	CapturedAt time.Time `json:"captured_at"`
	Sender     string    `json:"sender,omitempty"`
	Urgency    Urgency   `json:"urgency"`
	RawSource  string    `json:"raw_source,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
}

// Capture is the raw unit of input. Immutable once created.
type Capture struct {
	ID      string  `json:"id"`
	Source  Source  `json:"source"`
	Content string  `json:"content"`
	Context Context `json:"context"`
}

// NewCapture builds a capture with a fresh short id and a stamped context.
func NewCapture(source Source, content, sender string) Capture {
	return Capture{
		ID:      NewID(),
		Source:  source,
		Content: content,
		Context: Context{
			CapturedAt: time.Now(),
			Sender:     sender,
			Urgency:    UrgencyUnknown,
		},
	}
}

// NewID returns a short opaque token, the first 8 hex chars of a UUID.
func NewID() string {
	return uuid.NewString()[:8]
}

// ClarifiedItem is the structured result of processing a Capture.
type ClarifiedItem struct {
	ID                 string     `json:"id"`
	ItemType           ItemType   `json:"item_type"`
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	Priority           Priority   `json:"priority"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	SourceCapture      *Capture   `json:"source_capture,omitempty"`
	SuggestedActions   []string   `json:"suggested_actions,omitempty"`
	Confidence         float64    `json:"confidence"`
	NeedsHumanDecision bool       `json:"needs_human_decision"`
	DecisionContext    string     `json:"decision_context,omitempty"`
}

// Decision is a structured question prepared for a human. At most one open
// decision exists per item because the id is derived from the item id.
type Decision struct {
	ID             string     `json:"id"`
	Question       string     `json:"question"`
	Options        []string   `json:"options"`
	Recommendation string     `json:"recommendation,omitempty"`
	Reasoning      string     `json:"reasoning,omitempty"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	RelatedItems   []string   `json:"related_items"`
}

// Classification is the oracle's structured guess for a piece of text.
type Classification struct {
	Type       ItemType `json:"type"`
	Summary    string   `json:"summary"`
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
	DueDate    string   `json:"due_date,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}
