package api

import (
	"log/slog"
	"net/http"

	"github.com/SPR1NGQAQ/Emoji-password-prototype/study"
)

// EventStart handles POST /api/event/start. It opens a timing event and
// returns its opaque ID; the event stays open until ended exactly once.
func (a *API) EventStart(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	req, ok := decodeJSON[EventStartRequest](w, r)
	if !ok {
		return
	}

	cond := study.Condition(req.Condition)
	typ := study.EventType(req.EventType)
	if !cond.Valid() || !typ.Valid() {
		writeError(w, http.StatusBadRequest, "bad params")
		return
	}

	eventID, err := a.recorder.Start(s.participantID, cond, typ)
	if err != nil {
		mapError(w, err)
		return
	}

	a.audit.logParticipant(AuditEventStarted, r, s.participantID,
		slog.String("condition", req.Condition),
		slog.String("event_type", req.EventType),
		slog.String("event_id", eventID),
	)
	writeJSON(w, http.StatusOK, EventStartResponse{OK: true, EventID: eventID})
}

// EventEnd handles POST /api/event/end. Ending an unknown or already
// finalized event fails; abandoned events are never closed retroactively.
func (a *API) EventEnd(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	req, ok := decodeJSON[EventEndRequest](w, r)
	if !ok {
		return
	}
	if req.EventID == "" {
		writeError(w, http.StatusBadRequest, "bad event_id")
		return
	}

	if err := a.recorder.End(req.EventID, req.DurationMS, req.Success != 0, req.Attempts, req.Note); err != nil {
		mapError(w, err)
		return
	}

	a.audit.logParticipant(AuditEventEnded, r, s.participantID,
		slog.String("event_id", req.EventID),
		slog.Int64("duration_ms", req.DurationMS),
		slog.Int("success", req.Success),
	)
	writeJSON(w, http.StatusOK, OKResponse{OK: true})
}
