package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SPR1NGQAQ/Emoji-password-prototype/storage"
	"github.com/SPR1NGQAQ/Emoji-password-prototype/study"
)

const maxBodySize = 64 << 10

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{OK: false, Error: msg})
}

func mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, study.ErrBusy):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, study.ErrFlowDone):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, study.ErrEmptyInput),
		errors.Is(err, study.ErrEmptySecret),
		errors.Is(err, study.ErrNoSecret),
		errors.Is(err, study.ErrInvalidCondition),
		errors.Is(err, study.ErrInvalidEventType),
		errors.Is(err, study.ErrNegativeDuration):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, study.ErrUnknownEvent):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, storage.ErrParticipantNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeJSON reads a small strict JSON body into T. Unknown fields,
// malformed JSON, and oversized bodies are rejected.
func decodeJSON[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		} else {
			writeError(w, http.StatusBadRequest, "invalid request body")
		}
		return req, false
	}
	return req, true
}
