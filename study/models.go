// Package study implements the core of the password usability study: the
// emoji tokenizer, structural feature extraction, timed event recording,
// per-session secret handling, and the three-stage flow state machine.
package study

import "time"

// Condition identifies the experimental arm a stage run belongs to.
type Condition string

const (
	// ConditionText is the plain text password arm.
	ConditionText Condition = "A"
	// ConditionEmoji is the emoji-augmented password arm.
	ConditionEmoji Condition = "B"
)

// Valid reports whether c is a recognized condition.
func (c Condition) Valid() bool {
	return c == ConditionText || c == ConditionEmoji
}

// EventType identifies which stage of the password lifecycle an event times.
type EventType string

const (
	EventCreate  EventType = "create"
	EventConfirm EventType = "confirm"
	EventLogin   EventType = "login"
)

// Valid reports whether t is a recognized event type.
func (t EventType) Valid() bool {
	return t == EventCreate || t == EventConfirm || t == EventLogin
}

// Participant is the root record for one study run.
type Participant struct {
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// Event is one timed interaction record. It is created open on Start and
// finalized exactly once on End; abandoned events stay open forever.
type Event struct {
	ID        string    `json:"id"`
	Condition Condition `json:"condition"`
	Type      EventType `json:"event_type"`
	StartedAt time.Time `json:"started_at"`

	Ended      bool      `json:"ended"`
	EndedAt    time.Time `json:"ended_at,omitzero"`
	DurationMS int64     `json:"duration_ms,omitempty"`
	Success    bool      `json:"success,omitempty"`
	Attempts   int       `json:"attempts,omitempty"`
	Note       string    `json:"note,omitempty"`
}

// Questionnaire holds the post-study answers. Scale answers are 1-7.
type Questionnaire struct {
	EaseA   int `json:"ease_a"`
	EaseB   int `json:"ease_b"`
	SecureA int `json:"secure_a"`
	SecureB int `json:"secure_b"`
	MemoryA int `json:"memory_a"`
	MemoryB int `json:"memory_b"`
	EffortB int `json:"effort_b"`

	StructureB string `json:"structure_b"`
	PlacementB string `json:"placement_b"`
	StrategyB  string `json:"strategy_b"`
	SemanticB  int    `json:"semantic_b"`

	Prefer  int    `json:"prefer"`
	Willing int    `json:"willing"`
	Comment string `json:"comment"`

	CreatedAt time.Time `json:"created_at"`
}
