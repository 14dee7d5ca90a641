package study

import (
	"errors"
	"sync"
	"time"

	"github.com/SPR1NGQAQ/Emoji-password-prototype/storage"
)

// Stage is a phase of the three-stage wizard.
type Stage string

const (
	StageCreate  Stage = "create"
	StageConfirm Stage = "confirm"
	StageLogin   Stage = "login"
	StageDone    Stage = "done"
)

// MismatchNote is the fixed note recorded on failed confirm/login events.
const MismatchNote = "mismatch"

// DefaultAttemptLimit is the number of login attempts before the flow
// terminates in failure.
const DefaultAttemptLimit = 3

var (
	// ErrEmptyInput is returned for an empty submission; it has no event
	// side effects and never advances the stage.
	ErrEmptyInput = errors.New("input must not be empty")
	// ErrBusy is returned when a submission is already in flight.
	ErrBusy = errors.New("submission already in flight")
	// ErrFlowDone is returned for submissions after the terminal stage.
	ErrFlowDone = errors.New("flow already finished")
	// ErrNotBegun is returned for submissions before Begin.
	ErrNotBegun = errors.New("flow not started")
)

// Flow is the stage state machine for one condition run:
// CREATE -> CONFIRM -> LOGIN -> DONE, with retry sub-loops in CONFIRM and
// LOGIN. All stage-scoped state (open event, stage entry instant, attempt
// counter, busy flag) lives here rather than in free-floating variables, so
// the machine is testable in isolation from the UI.
//
// The busy flag makes rapid double-submission safe: while one submission is
// being processed, further submissions fail with ErrBusy instead of starting
// a second event for the same logical action.
type Flow struct {
	participantID string
	cond          Condition
	ordering      []string
	recorder      *Recorder
	secrets       *SecretStore
	repo          storage.Repository
	attemptLimit  int
	now           func() time.Time

	mu         sync.Mutex
	busy       bool
	stage      Stage
	eventID    string
	stageStart time.Time
	attempts   int
}

// SubmitResult reports the outcome of one submission.
type SubmitResult struct {
	Stage    Stage
	Match    bool
	Attempts int
	Message  string
}

// NewFlow creates a flow for one participant and condition. The ordering is
// the session's emoji menu permutation (nil for condition A). attemptLimit
// <= 0 selects DefaultAttemptLimit.
func NewFlow(participantID string, cond Condition, ordering []string, recorder *Recorder, secrets *SecretStore, repo storage.Repository, attemptLimit int) *Flow {
	if attemptLimit <= 0 {
		attemptLimit = DefaultAttemptLimit
	}
	return &Flow{
		participantID: participantID,
		cond:          cond,
		ordering:      ordering,
		recorder:      recorder,
		secrets:       secrets,
		repo:          repo,
		attemptLimit:  attemptLimit,
		now:           time.Now,
	}
}

// Begin enters CREATE and starts the create event. Repeated calls (page
// reloads) are no-ops once the flow is underway.
func (f *Flow) Begin() error {
	if !f.acquire() {
		return ErrBusy
	}
	defer f.release()
	if f.currentStage() != "" {
		return nil
	}
	return f.enterStage(StageCreate)
}

// Stage returns the current stage.
func (f *Flow) Stage() Stage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stage
}

// Attempts returns the login attempt counter.
func (f *Flow) Attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

// Done reports whether the flow reached the terminal stage.
func (f *Flow) Done() bool {
	return f.Stage() == StageDone
}

// Submit processes one submission for the current stage. A submission while
// another is in flight returns ErrBusy with no side effects.
func (f *Flow) Submit(input string) (SubmitResult, error) {
	if !f.acquire() {
		return SubmitResult{}, ErrBusy
	}
	defer f.release()

	stage := f.currentStage()
	switch stage {
	case "":
		return SubmitResult{}, ErrNotBegun
	case StageDone:
		return SubmitResult{Stage: StageDone}, ErrFlowDone
	}
	if input == "" {
		return SubmitResult{Stage: stage, Attempts: f.Attempts(), Message: "Please enter a value."}, ErrEmptyInput
	}

	elapsed := f.now().Sub(f.stageStart).Milliseconds()

	switch stage {
	case StageCreate:
		return f.submitCreate(input, elapsed)
	case StageConfirm:
		return f.submitConfirm(input, elapsed)
	default:
		return f.submitLogin(input, elapsed)
	}
}

// acquire claims the busy flag; it returns false when a submission is
// already in flight. While held, no other goroutine touches flow state.
func (f *Flow) acquire() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return false
	}
	f.busy = true
	return true
}

func (f *Flow) release() {
	f.mu.Lock()
	f.busy = false
	f.mu.Unlock()
}

func (f *Flow) currentStage() Stage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stage
}

func (f *Flow) setStage(stage Stage) {
	f.mu.Lock()
	f.stage = stage
	f.mu.Unlock()
}

func (f *Flow) submitCreate(input string, elapsed int64) (SubmitResult, error) {
	if err := f.recorder.End(f.eventID, elapsed, true, 0, ""); err != nil {
		return SubmitResult{}, err
	}
	if err := f.secrets.Set(f.cond, input); err != nil {
		return SubmitResult{}, err
	}
	if err := f.enterStage(StageConfirm); err != nil {
		return SubmitResult{}, err
	}
	return SubmitResult{Stage: StageConfirm, Match: true}, nil
}

func (f *Flow) submitConfirm(input string, elapsed int64) (SubmitResult, error) {
	match, err := f.secrets.Check(f.cond, input)
	if err != nil {
		return SubmitResult{}, err
	}

	if !match {
		if err := f.recorder.End(f.eventID, elapsed, false, 0, MismatchNote); err != nil {
			return SubmitResult{}, err
		}
		// The failed event is finalized, not resumed: confirm retries
		// are fresh records.
		if err := f.enterStage(StageConfirm); err != nil {
			return SubmitResult{}, err
		}
		return SubmitResult{Stage: StageConfirm, Message: "Passwords do not match. Try again."}, nil
	}

	if err := f.recorder.End(f.eventID, elapsed, true, 0, ""); err != nil {
		return SubmitResult{}, err
	}
	if err := f.persistFeatures(input); err != nil {
		return SubmitResult{}, err
	}
	f.mu.Lock()
	f.attempts = 0
	f.mu.Unlock()
	if err := f.enterStage(StageLogin); err != nil {
		return SubmitResult{}, err
	}
	return SubmitResult{Stage: StageLogin, Match: true}, nil
}

func (f *Flow) submitLogin(input string, elapsed int64) (SubmitResult, error) {
	f.mu.Lock()
	f.attempts++
	attempts := f.attempts
	f.mu.Unlock()

	match, err := f.secrets.Check(f.cond, input)
	if err != nil {
		return SubmitResult{}, err
	}

	note := ""
	if !match {
		note = MismatchNote
	}
	if err := f.recorder.End(f.eventID, elapsed, match, attempts, note); err != nil {
		return SubmitResult{}, err
	}

	if match {
		f.setStage(StageDone)
		return SubmitResult{Stage: StageDone, Match: true, Attempts: attempts}, nil
	}
	if attempts >= f.attemptLimit {
		// Failure terminal: no further event is started.
		f.setStage(StageDone)
		return SubmitResult{Stage: StageDone, Attempts: attempts, Message: "Too many failed attempts."}, nil
	}
	if err := f.enterStage(StageLogin); err != nil {
		return SubmitResult{}, err
	}
	return SubmitResult{Stage: StageLogin, Attempts: attempts, Message: "Incorrect password. Try again."}, nil
}

// enterStage starts the stage's event and resets the stage entry instant.
// Callers hold the busy flag.
func (f *Flow) enterStage(stage Stage) error {
	id, err := f.recorder.Start(f.participantID, f.cond, EventType(stage))
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.stage = stage
	f.eventID = id
	f.stageStart = f.now()
	f.mu.Unlock()
	return nil
}

// persistFeatures derives and stores the structural feature record for the
// confirmed secret. Only derived values are written; the raw text stays in
// the session's secret store.
func (f *Flow) persistFeatures(secret string) error {
	_, err := StoreFeatures(f.repo, f.participantID, f.cond, secret, f.ordering)
	return err
}
