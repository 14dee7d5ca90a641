package study

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SPR1NGQAQ/Emoji-password-prototype/storage"
	"github.com/SPR1NGQAQ/Emoji-password-prototype/storage/memory"
)

// seedParticipant runs a complete condition pass for both arms plus a
// questionnaire, the way a finished session leaves the repository.
func seedParticipant(t *testing.T, repo storage.Repository, pid string) {
	t.Helper()
	rec := NewRecorder(repo)

	for _, cond := range []Condition{ConditionText, ConditionEmoji} {
		for _, typ := range []EventType{EventCreate, EventConfirm, EventLogin} {
			id, err := rec.Start(pid, cond, typ)
			require.NoError(t, err)
			require.NoError(t, rec.End(id, 1200, true, 1, ""))
		}
	}

	_, err := StoreFeatures(repo, pid, ConditionText, "hunter2", nil)
	require.NoError(t, err)
	_, err = StoreFeatures(repo, pid, ConditionEmoji, "cat🔥", []string{"🔥"})
	require.NoError(t, err)

	q := Questionnaire{
		EaseA: 5, EaseB: 4, SecureA: 3, SecureB: 6,
		MemoryA: 5, MemoryB: 6, EffortB: 2,
		StructureB: "mixed", PlacementB: "end", StrategyB: "meaning", SemanticB: 5,
		Prefer: 6, Willing: 4, Comment: "fun",
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(q)
	require.NoError(t, err)
	require.NoError(t, repo.Put(pid, storage.RecordTypeQuestionnaire, QuestionnaireRecordID, data))
}

func TestBuildSummary(t *testing.T) {
	repo := memory.NewRepository()
	seedParticipant(t, repo, "p1")

	s, err := BuildSummary(repo, "p1")
	require.NoError(t, err)

	assert.Equal(t, "p1", s["participant_code"])
	assert.Equal(t, "1200", s["A_create_time_ms"])
	assert.Equal(t, "1200", s["B_login_time_ms"])
	assert.Equal(t, "1", s["B_login_success"])
	assert.Equal(t, "1", s["B_login_attempts"])
	assert.Equal(t, "7", s["A_pw_tokens_len"])
	assert.Equal(t, "4", s["B_pw_tokens_len"])
	assert.Equal(t, "1", s["B_emoji_count"])
	assert.Equal(t, "1", s["B_emoji_at_end"])
	assert.Equal(t, "0", s["B_emoji_within"])
	assert.Equal(t, "🔥", s["B_emojis_used"])
	assert.Equal(t, "1", s["B_first_emoji_bias"])
	assert.Equal(t, "5", s["ease_a"])
	assert.Equal(t, "mixed", s["structure_b"])
	assert.Equal(t, "end", s["placement_b"])
}

func TestBuildSummaryPartialData(t *testing.T) {
	repo := memory.NewRepository()
	rec := NewRecorder(repo)

	// Abandoned mid-task: one finished create, one open confirm, no
	// features, no questionnaire.
	id, err := rec.Start("p2", ConditionText, EventCreate)
	require.NoError(t, err)
	require.NoError(t, rec.End(id, 900, true, 0, ""))
	_, err = rec.Start("p2", ConditionText, EventConfirm)
	require.NoError(t, err)

	s, err := BuildSummary(repo, "p2")
	require.NoError(t, err)

	assert.Equal(t, "900", s["A_create_time_ms"])
	assert.Empty(t, s["A_confirm_time_ms"], "open events contribute nothing")
	assert.Empty(t, s["B_create_time_ms"])
	assert.Empty(t, s["ease_a"])
}

func TestSummaryRecordNeverHoldsRawSecret(t *testing.T) {
	repo := memory.NewRepository()
	seedParticipant(t, repo, "p1")

	s, err := BuildSummary(repo, "p1")
	require.NoError(t, err)

	row := strings.Join(s.Record(), ",")
	assert.NotContains(t, row, "hunter2")
	assert.NotContains(t, row, "cat🔥")
}

func TestAppendCSV(t *testing.T) {
	repo := memory.NewRepository()
	seedParticipant(t, repo, "p1")
	path := filepath.Join(t.TempDir(), "data.csv")

	s, err := BuildSummary(repo, "p1")
	require.NoError(t, err)
	require.NoError(t, AppendCSV(path, s))
	require.NoError(t, AppendCSV(path, s))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	// BOM and header exactly once, then one line per row.
	require.True(t, strings.HasPrefix(string(raw), "\xEF\xBB\xBF"))
	assert.Equal(t, 1, strings.Count(string(raw), "participant_code"))

	rdr := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(raw), "\xEF\xBB\xBF")))
	records, err := rdr.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "participant_code", records[0][0])
	assert.Equal(t, "p1", records[1][0])
}

func TestRebuildCSV(t *testing.T) {
	repo := memory.NewRepository()
	seedParticipant(t, repo, "p1")
	seedParticipant(t, repo, "p2")
	path := filepath.Join(t.TempDir(), "data.csv")

	n, err := RebuildCSV(repo, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	rdr := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(raw), "\xEF\xBB\xBF")))
	records, err := rdr.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
}
