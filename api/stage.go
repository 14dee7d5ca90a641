package api

import (
	"log/slog"
	"net/http"

	"github.com/SPR1NGQAQ/Emoji-password-prototype/study"
)

// flowFor returns the session's stage flow for the condition, creating and
// starting it on first use. Page reloads land here again; Begin is a no-op
// once the flow is underway.
func (a *API) flowFor(s *session, cond study.Condition) (*study.Flow, error) {
	s.mu.Lock()
	f := s.flows[cond]
	if f == nil {
		var ordering []string
		if cond == study.ConditionEmoji {
			ordering = s.ordering
		}
		f = study.NewFlow(s.participantID, cond, ordering, a.recorder, s.secrets, a.repo, a.attemptLimit)
		s.flows[cond] = f
	}
	s.mu.Unlock()

	if err := f.Begin(); err != nil {
		return nil, err
	}
	return f, nil
}

// StageSubmit handles POST /api/stage/submit. The server owns the stage
// machine; the client only forwards the typed input and renders the result.
func (a *API) StageSubmit(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	req, ok := decodeJSON[StageSubmitRequest](w, r)
	if !ok {
		return
	}

	cond := study.Condition(req.Condition)
	if !cond.Valid() {
		writeError(w, http.StatusBadRequest, "bad params")
		return
	}

	f, err := a.flowFor(s, cond)
	if err != nil {
		mapError(w, err)
		return
	}

	result, err := f.Submit(req.Input)
	if err != nil {
		mapError(w, err)
		return
	}

	a.audit.logParticipant(AuditStageSubmitted, r, s.participantID,
		slog.String("condition", req.Condition),
		slog.String("stage", string(result.Stage)),
		slog.Bool("match", result.Match),
		slog.Int("attempts", result.Attempts),
	)
	writeJSON(w, http.StatusOK, StageSubmitResponse{
		OK:       true,
		Stage:    string(result.Stage),
		Match:    result.Match,
		Attempts: result.Attempts,
		Message:  result.Message,
	})
}

// StageState handles GET /api/stage/state. It reports the current stage
// without side effects, so a reloaded task page can resume where it was.
func (a *API) StageState(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	cond := study.Condition(r.URL.Query().Get("condition"))
	if !cond.Valid() {
		writeError(w, http.StatusBadRequest, "bad params")
		return
	}

	s.mu.Lock()
	f := s.flows[cond]
	s.mu.Unlock()

	stage := study.StageCreate
	attempts := 0
	if f != nil {
		if st := f.Stage(); st != "" {
			stage = st
		}
		attempts = f.Attempts()
	}
	writeJSON(w, http.StatusOK, StageStateResponse{OK: true, Stage: string(stage), Attempts: attempts})
}
