package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/SPR1NGQAQ/Emoji-password-prototype/internal/util"
	"github.com/SPR1NGQAQ/Emoji-password-prototype/storage"
	"github.com/SPR1NGQAQ/Emoji-password-prototype/study"
)

// Home handles GET /.
func (a *API) Home(w http.ResponseWriter, r *http.Request) {
	a.renderer.Render(w, "home", nil)
}

// ConsentPage handles GET /consent.
func (a *API) ConsentPage(w http.ResponseWriter, r *http.Request) {
	a.renderer.Render(w, "consent", map[string]any{"Error": ""})
}

// ConsentSubmit handles POST /consent. Agreement creates a fresh participant
// and session; an old cookie is simply replaced, so re-consenting always
// starts a clean run.
func (a *API) ConsentSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil || r.PostFormValue("agree") != "yes" {
		a.renderer.Render(w, "consent", map[string]any{"Error": "You must agree to continue."})
		return
	}

	code, err := util.Token(6)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	p := study.Participant{Code: code, CreatedAt: time.Now().UTC()}
	data, err := json.Marshal(p)
	if err == nil {
		err = a.repo.Put(code, storage.RecordTypeParticipant, "info", data)
	}
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	s, err := a.sessions.create(code)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	a.audit.logParticipant(AuditParticipantCreated, r, code)
	writeSessionCookie(w, s.token)
	http.Redirect(w, r, "/choose-order", http.StatusSeeOther)
}

// ChooseOrderPage handles GET /choose-order.
func (a *API) ChooseOrderPage(w http.ResponseWriter, r *http.Request) {
	a.renderer.Render(w, "choose_order", map[string]any{"Error": ""})
}

// ChooseOrderSubmit handles POST /choose-order.
func (a *API) ChooseOrderSubmit(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		a.renderer.Render(w, "choose_order", map[string]any{"Error": "Please select an order."})
		return
	}
	switch r.PostFormValue("order") {
	case "A_first":
		s.setOrder(study.ConditionText, study.ConditionEmoji)
	case "B_first":
		s.setOrder(study.ConditionEmoji, study.ConditionText)
	default:
		a.renderer.Render(w, "choose_order", map[string]any{"Error": "Please select an order."})
		return
	}

	a.audit.logParticipant(AuditOrderChosen, r, s.participantID,
		slog.String("first", string(s.conditionOrder()[0])),
	)
	http.Redirect(w, r, "/start", http.StatusSeeOther)
}

// StartPage handles GET /start: the progress hub between tasks. Once both
// conditions are done it routes to the questionnaire, then to the thanks
// page.
func (a *API) StartPage(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	order := s.conditionOrder()
	if order == nil {
		http.Redirect(w, r, "/choose-order", http.StatusSeeOther)
		return
	}
	first, second := order[0], order[1]
	doneFirst := s.conditionDone(first)
	doneSecond := s.conditionDone(second)

	if doneFirst && doneSecond {
		if a.questionnaireExists(s.participantID) {
			http.Redirect(w, r, "/done", http.StatusSeeOther)
		} else {
			http.Redirect(w, r, "/questionnaire", http.StatusSeeOther)
		}
		return
	}

	nextCond := first
	if doneFirst {
		nextCond = second
	}

	a.renderer.Render(w, "start", map[string]any{
		"ParticipantCode": s.participantID,
		"First":           string(first),
		"Second":          string(second),
		"DoneFirst":       doneFirst,
		"DoneSecond":      doneSecond,
		"NextCond":        string(nextCond),
	})
}

// TaskPage handles GET /task/{cond}. The second condition is locked until
// the first is done; a finished condition bounces back to the progress hub.
func (a *API) TaskPage(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	cond := study.Condition(chi.URLParam(r, "cond"))
	if !cond.Valid() {
		http.NotFound(w, r)
		return
	}

	order := s.conditionOrder()
	if order == nil {
		http.Redirect(w, r, "/choose-order", http.StatusSeeOther)
		return
	}
	first, second := order[0], order[1]

	if cond == second && !s.conditionDone(first) {
		http.Redirect(w, r, "/task/"+string(first), http.StatusSeeOther)
		return
	}
	if s.conditionDone(cond) {
		http.Redirect(w, r, "/start", http.StatusSeeOther)
		return
	}

	var emojis []string
	if cond == study.ConditionEmoji {
		emojis = s.emojiOrdering()
	}

	a.renderer.Render(w, "task", map[string]any{
		"Condition": string(cond),
		"Emojis":    emojis,
		"MaxGlyphs": a.maxGlyphs,
	})
}

// DonePage handles GET /done. The first visit of a finished run appends the
// participant's row to the CSV dataset; a failed export is retried on
// reload.
func (a *API) DonePage(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	// An unfinished run goes back through the hub. The gate also protects
	// the one-shot export below: a premature visit must not latch the
	// exported flag on an incomplete row.
	order := s.conditionOrder()
	if order == nil || !s.conditionDone(order[0]) || !s.conditionDone(order[1]) ||
		!a.questionnaireExists(s.participantID) {
		http.Redirect(w, r, "/start", http.StatusSeeOther)
		return
	}

	if a.csvPath != "" && s.markExported() {
		if err := a.exportParticipant(s.participantID); err != nil {
			s.mu.Lock()
			s.exported = false
			s.mu.Unlock()
			a.audit.logParticipant(AuditExportFailed, r, s.participantID,
				slog.String("error", err.Error()),
			)
		} else {
			a.audit.logParticipant(AuditParticipantExported, r, s.participantID)
		}
	}

	a.renderer.Render(w, "done", map[string]any{
		"ParticipantCode": s.participantID,
	})
}

func (a *API) exportParticipant(participantID string) error {
	summary, err := study.BuildSummary(a.repo, participantID)
	if err != nil {
		return err
	}
	return study.AppendCSV(a.csvPath, summary)
}

func (a *API) questionnaireExists(participantID string) bool {
	_, err := a.repo.Get(participantID, storage.RecordTypeQuestionnaire, study.QuestionnaireRecordID)
	return err == nil
}
