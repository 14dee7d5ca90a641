package study

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SPR1NGQAQ/Emoji-password-prototype/storage"
)

// ErrUnknownEvent is returned by End for an ID that was never started or
// has already been finalized.
var ErrUnknownEvent = errors.New("unknown or already finalized event")

// ErrInvalidEventType is returned by Start for a type outside create/confirm/login.
var ErrInvalidEventType = errors.New("invalid event type")

// ErrNegativeDuration is returned by End for a negative duration.
var ErrNegativeDuration = errors.New("duration must be non-negative")

// Recorder tracks open timing events keyed by opaque IDs and persists every
// event row. A started event is finalized exactly once; events abandoned by
// the participant stay open in the dataset forever. Concurrent opens (rapid
// retries) are independent records.
type Recorder struct {
	repo storage.Repository

	mu   sync.Mutex
	open map[string]openEvent
}

type openEvent struct {
	participantID string
	event         Event
}

// NewRecorder returns a Recorder persisting event rows to repo.
func NewRecorder(repo storage.Repository) *Recorder {
	return &Recorder{
		repo: repo,
		open: make(map[string]openEvent),
	}
}

// Start allocates a fresh opaque event ID, begins its timer, and persists
// the open row.
func (r *Recorder) Start(participantID string, cond Condition, typ EventType) (string, error) {
	if !cond.Valid() {
		return "", ErrInvalidCondition
	}
	if !typ.Valid() {
		return "", ErrInvalidEventType
	}

	ev := Event{
		ID:        uuid.NewString(),
		Condition: cond,
		Type:      typ,
		StartedAt: time.Now().UTC(),
	}
	if err := r.persist(participantID, ev); err != nil {
		return "", err
	}

	r.mu.Lock()
	r.open[ev.ID] = openEvent{participantID: participantID, event: ev}
	r.mu.Unlock()
	return ev.ID, nil
}

// End finalizes the event. It fails if the ID is unknown or already
// finalized; a second End with the same ID is always rejected.
func (r *Recorder) End(eventID string, durationMS int64, success bool, attempts int, note string) error {
	if durationMS < 0 {
		return ErrNegativeDuration
	}

	r.mu.Lock()
	oe, ok := r.open[eventID]
	if ok {
		delete(r.open, eventID)
	}
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%s: %w", eventID, ErrUnknownEvent)
	}

	ev := oe.event
	ev.Ended = true
	ev.EndedAt = time.Now().UTC()
	ev.DurationMS = durationMS
	ev.Success = success
	ev.Attempts = attempts
	ev.Note = note
	return r.persist(oe.participantID, ev)
}

// OpenCount returns the number of started, not-yet-finalized events.
func (r *Recorder) OpenCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.open)
}

func (r *Recorder) persist(participantID string, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	if err := r.repo.Put(participantID, storage.RecordTypeEvent, ev.ID, data); err != nil {
		return fmt.Errorf("storing event: %w", err)
	}
	return nil
}
