package study

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/SPR1NGQAQ/Emoji-password-prototype/storage"
)

// QuestionnaireRecordID is the record ID under which the single
// questionnaire row of a participant is stored.
const QuestionnaireRecordID = "answers"

// csvColumns is the exported dataset header, one row per participant.
// Raw secrets never appear here; only durations, outcomes, derived
// structural features, and questionnaire answers.
var csvColumns = []string{
	"participant_code",

	"A_create_time_ms", "A_confirm_time_ms", "A_login_time_ms",
	"A_login_success", "A_login_attempts",

	"B_create_time_ms", "B_confirm_time_ms", "B_login_time_ms",
	"B_login_success", "B_login_attempts",

	"A_pw_tokens_len", "B_pw_tokens_len",
	"B_emoji_count", "B_emoji_single", "B_emoji_at_end", "B_emoji_within",
	"B_emoji_first", "B_emoji_only", "B_emojis_used", "B_first_emoji_bias",

	"ease_a", "ease_b", "secure_a", "secure_b",
	"memory_a", "memory_b", "effort_b",
	"strategy_b", "semantic_b", "prefer", "willing", "comment",
	"structure_b", "placement_b",
}

// Summary is one participant's export row, keyed by CSV column. Missing
// values stay empty.
type Summary map[string]string

// Record returns the row values in CSV column order.
func (s Summary) Record() []string {
	rec := make([]string, len(csvColumns))
	for i, col := range csvColumns {
		rec[i] = s[col]
	}
	return rec
}

func flag01(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// BuildSummary assembles the export row for one participant from the stored
// event, feature, and questionnaire records.
func BuildSummary(repo storage.Repository, participantID string) (Summary, error) {
	s := Summary{"participant_code": participantID}

	events, err := loadEvents(repo, participantID)
	if err != nil {
		return nil, err
	}
	// Last observed value wins: the final confirm retry and final login
	// attempt overwrite earlier ones.
	for _, ev := range events {
		if !ev.Ended {
			continue
		}
		prefix := string(ev.Condition) + "_"
		switch ev.Type {
		case EventCreate:
			s[prefix+"create_time_ms"] = strconv.FormatInt(ev.DurationMS, 10)
		case EventConfirm:
			s[prefix+"confirm_time_ms"] = strconv.FormatInt(ev.DurationMS, 10)
		case EventLogin:
			s[prefix+"login_time_ms"] = strconv.FormatInt(ev.DurationMS, 10)
			s[prefix+"login_success"] = flag01(ev.Success)
			s[prefix+"login_attempts"] = strconv.Itoa(ev.Attempts)
		}
	}

	for _, cond := range []Condition{ConditionText, ConditionEmoji} {
		feats, err := loadFeatures(repo, participantID, cond)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrParticipantNotFound) {
				continue
			}
			return nil, err
		}
		s[string(cond)+"_pw_tokens_len"] = strconv.Itoa(feats.TokenLen)
		if cond == ConditionEmoji {
			s["B_emoji_count"] = strconv.Itoa(feats.EmojiCount)
			s["B_emoji_single"] = flag01(feats.EmojiSingle)
			s["B_emoji_at_end"] = flag01(feats.EmojiAtEnd)
			s["B_emoji_within"] = flag01(feats.EmojiWithin)
			s["B_emoji_first"] = flag01(feats.EmojiFirst)
			s["B_emoji_only"] = flag01(feats.EmojiOnly)
			s["B_emojis_used"] = strings.Join(feats.EmojisUsed, ",")
			s["B_first_emoji_bias"] = flag01(feats.FirstEmojiBias)
		}
	}

	q, err := loadQuestionnaire(repo, participantID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) && !errors.Is(err, storage.ErrParticipantNotFound) {
			return nil, err
		}
	} else {
		s["ease_a"] = strconv.Itoa(q.EaseA)
		s["ease_b"] = strconv.Itoa(q.EaseB)
		s["secure_a"] = strconv.Itoa(q.SecureA)
		s["secure_b"] = strconv.Itoa(q.SecureB)
		s["memory_a"] = strconv.Itoa(q.MemoryA)
		s["memory_b"] = strconv.Itoa(q.MemoryB)
		s["effort_b"] = strconv.Itoa(q.EffortB)
		s["strategy_b"] = q.StrategyB
		s["semantic_b"] = strconv.Itoa(q.SemanticB)
		s["prefer"] = strconv.Itoa(q.Prefer)
		s["willing"] = strconv.Itoa(q.Willing)
		s["comment"] = q.Comment
		s["structure_b"] = q.StructureB
		s["placement_b"] = q.PlacementB
	}

	return s, nil
}

func loadEvents(repo storage.Repository, participantID string) ([]Event, error) {
	ids, err := repo.List(participantID, storage.RecordTypeEvent)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	events := make([]Event, 0, len(ids))
	for _, id := range ids {
		data, err := repo.Get(participantID, storage.RecordTypeEvent, id)
		if err != nil {
			return nil, fmt.Errorf("loading event %s: %w", id, err)
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decoding event %s: %w", id, err)
		}
		events = append(events, ev)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartedAt.Before(events[j].StartedAt)
	})
	return events, nil
}

func loadFeatures(repo storage.Repository, participantID string, cond Condition) (*Features, error) {
	data, err := repo.Get(participantID, storage.RecordTypeFeatures, string(cond))
	if err != nil {
		return nil, err
	}
	var f Features
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding features: %w", err)
	}
	return &f, nil
}

func loadQuestionnaire(repo storage.Repository, participantID string) (*Questionnaire, error) {
	data, err := repo.Get(participantID, storage.RecordTypeQuestionnaire, QuestionnaireRecordID)
	if err != nil {
		return nil, err
	}
	var q Questionnaire
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("decoding questionnaire: %w", err)
	}
	return &q, nil
}

// AppendCSV appends one participant row to the dataset file, writing the
// UTF-8 BOM and header when the file is new so spreadsheet tools pick up
// the emoji columns correctly.
func AppendCSV(path string, s Summary) error {
	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening csv: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := f.WriteString("\xEF\xBB\xBF"); err != nil {
			return fmt.Errorf("writing BOM: %w", err)
		}
	}

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(csvColumns); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := w.Write(s.Record()); err != nil {
		return fmt.Errorf("writing row: %w", err)
	}
	w.Flush()
	return w.Error()
}

// RebuildCSV regenerates the full dataset file from the repository,
// replacing any existing file. It returns the number of participant rows
// written.
func RebuildCSV(repo storage.Repository, path string) (int, error) {
	participants, err := repo.ListParticipants()
	if err != nil {
		return 0, fmt.Errorf("listing participants: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating csv: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString("\xEF\xBB\xBF"); err != nil {
		return 0, fmt.Errorf("writing BOM: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvColumns); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}
	count := 0
	for _, pid := range participants {
		s, err := BuildSummary(repo, pid)
		if err != nil {
			return count, fmt.Errorf("participant %s: %w", pid, err)
		}
		if err := w.Write(s.Record()); err != nil {
			return count, fmt.Errorf("writing row: %w", err)
		}
		count++
	}
	w.Flush()
	return count, w.Error()
}
