package api

import (
	"log/slog"
	"net/http"

	"github.com/SPR1NGQAQ/Emoji-password-prototype/study"
)

// SecretSet handles POST /api/secret/set. The raw text goes into the
// session's enclave store for later matching; the repository only ever sees
// the derived structural features.
func (a *API) SecretSet(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	req, ok := decodeJSON[SecretSetRequest](w, r)
	if !ok {
		return
	}

	cond := study.Condition(req.Condition)
	if !cond.Valid() || req.SecretText == "" {
		writeError(w, http.StatusBadRequest, "bad params")
		return
	}

	if err := s.secrets.Set(cond, req.SecretText); err != nil {
		mapError(w, err)
		return
	}

	var ordering []string
	if cond == study.ConditionEmoji {
		ordering = s.emojiOrdering()
	}
	feats, err := study.StoreFeatures(a.repo, s.participantID, cond, req.SecretText, ordering)
	if err != nil {
		mapError(w, err)
		return
	}

	a.audit.logParticipant(AuditSecretSet, r, s.participantID,
		slog.String("condition", req.Condition),
		slog.Int("pw_tokens_len", feats.TokenLen),
		slog.Int("emoji_count", feats.EmojiCount),
	)
	writeJSON(w, http.StatusOK, OKResponse{OK: true})
}

// SecretCheck handles POST /api/secret/check. Matching is exact string
// equality: case-sensitive, no trimming, no normalization.
func (a *API) SecretCheck(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	req, ok := decodeJSON[SecretCheckRequest](w, r)
	if !ok {
		return
	}

	cond := study.Condition(req.Condition)
	if !cond.Valid() {
		writeError(w, http.StatusBadRequest, "bad params")
		return
	}

	match, err := s.secrets.Check(cond, req.AttemptText)
	if err != nil {
		mapError(w, err)
		return
	}

	a.audit.logParticipant(AuditSecretChecked, r, s.participantID,
		slog.String("condition", req.Condition),
		slog.Bool("match", match),
	)
	writeJSON(w, http.StatusOK, SecretCheckResponse{OK: true, Match: match})
}
