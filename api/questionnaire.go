package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SPR1NGQAQ/Emoji-password-prototype/storage"
	"github.com/SPR1NGQAQ/Emoji-password-prototype/study"
)

var likertScale = []int{1, 2, 3, 4, 5, 6, 7}

// QuestionnairePage handles GET /questionnaire. It is gated behind both
// conditions being done; a participant who already answered goes straight to
// the thanks page.
func (a *API) QuestionnairePage(w http.ResponseWriter, r *http.Request) {
	if done, target := a.questionnaireGate(r); !done {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	a.renderer.Render(w, "questionnaire", map[string]any{"Error": "", "Scale": likertScale})
}

// QuestionnaireSubmit handles POST /questionnaire.
func (a *API) QuestionnaireSubmit(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	if done, target := a.questionnaireGate(r); !done {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		a.renderQuestionnaireError(w, "Please answer all required scale questions (1-7).")
		return
	}

	q, errMsg := parseQuestionnaire(r)
	if errMsg != "" {
		a.renderQuestionnaireError(w, errMsg)
		return
	}
	q.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(q)
	if err == nil {
		err = a.repo.Put(s.participantID, storage.RecordTypeQuestionnaire, study.QuestionnaireRecordID, data)
	}
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	a.audit.logParticipant(AuditQuestionnaireSaved, r, s.participantID)
	http.Redirect(w, r, "/done", http.StatusSeeOther)
}

// questionnaireGate reports whether the questionnaire is reachable; when it
// is not, it names the page to bounce to.
func (a *API) questionnaireGate(r *http.Request) (bool, string) {
	s := sessionFromContext(r.Context())

	order := s.conditionOrder()
	if order == nil {
		return false, "/choose-order"
	}
	if !s.conditionDone(order[0]) || !s.conditionDone(order[1]) {
		return false, "/start"
	}
	if a.questionnaireExists(s.participantID) {
		return false, "/done"
	}
	return true, ""
}

func (a *API) renderQuestionnaireError(w http.ResponseWriter, msg string) {
	a.renderer.Render(w, "questionnaire", map[string]any{"Error": msg, "Scale": likertScale})
}

// parseQuestionnaire validates the submitted form. Scale answers must be
// 1-7; the emoji-only structure answer switches which strategy and meaning
// fields apply, and voids the placement question.
func parseQuestionnaire(r *http.Request) (study.Questionnaire, string) {
	toInt := func(name string) int {
		n, err := strconv.Atoi(r.PostFormValue(name))
		if err != nil {
			return 0
		}
		return n
	}
	text := func(name string) string {
		return strings.TrimSpace(r.PostFormValue(name))
	}
	inScale := func(n int) bool { return n >= 1 && n <= 7 }

	q := study.Questionnaire{
		EaseA:   toInt("ease_a"),
		EaseB:   toInt("ease_b"),
		SecureA: toInt("secure_a"),
		SecureB: toInt("secure_b"),
		MemoryA: toInt("memory_a"),
		MemoryB: toInt("memory_b"),
		EffortB: toInt("effort_b"),

		StructureB: text("structure_b"),
		PlacementB: text("placement_b"),
		StrategyB:  text("strategy_b"),
		SemanticB:  toInt("semantic_b"),

		Prefer:  toInt("prefer"),
		Willing: toInt("willing"),
		Comment: text("comment"),
	}

	if q.StructureB == "emoji_only" {
		// Placement is not applicable for an all-emoji password.
		q.PlacementB = ""
		q.StrategyB = text("strategy_b_emoji_only")
		q.SemanticB = toInt("semantic_b_emoji_only")
	}

	for _, n := range []int{q.EaseA, q.EaseB, q.SecureA, q.SecureB, q.MemoryA, q.MemoryB, q.EffortB, q.Prefer, q.Willing} {
		if !inScale(n) {
			return q, "Please answer all required scale questions (1-7)."
		}
	}

	if q.StructureB == "" {
		return q, "Please choose the emoji-password structure option."
	}

	if q.StructureB == "emoji_only" {
		if q.StrategyB == "" {
			return q, "Please choose a strategy for the emoji-only password."
		}
		if !inScale(q.SemanticB) {
			return q, "Please answer the meaning/story question (1-7)."
		}
	} else {
		if q.PlacementB == "" {
			return q, "Please choose the emoji placement option."
		}
		if q.StrategyB == "" {
			return q, "Please choose a strategy option for emoji selection."
		}
		if !inScale(q.SemanticB) {
			return q, "Please answer the semantic relation question (1-7)."
		}
	}

	return q, ""
}
