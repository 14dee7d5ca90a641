package study

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SPR1NGQAQ/Emoji-password-prototype/storage"
	"github.com/SPR1NGQAQ/Emoji-password-prototype/storage/memory"
)

func loadEvent(t *testing.T, repo storage.Repository, participantID, eventID string) Event {
	t.Helper()
	data, err := repo.Get(participantID, storage.RecordTypeEvent, eventID)
	require.NoError(t, err)
	var ev Event
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

func TestRecorderStartPersistsOpenRow(t *testing.T) {
	repo := memory.NewRepository()
	rec := NewRecorder(repo)

	id, err := rec.Start("p1", ConditionText, EventCreate)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, 1, rec.OpenCount())

	ev := loadEvent(t, repo, "p1", id)
	assert.Equal(t, ConditionText, ev.Condition)
	assert.Equal(t, EventCreate, ev.Type)
	assert.False(t, ev.Ended)
	assert.False(t, ev.StartedAt.IsZero())
}

func TestRecorderStartIDsAreOpaque(t *testing.T) {
	rec := NewRecorder(memory.NewRepository())

	a, err := rec.Start("p1", ConditionText, EventCreate)
	require.NoError(t, err)
	b, err := rec.Start("p1", ConditionText, EventCreate)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestRecorderEndFinalizesOnce(t *testing.T) {
	repo := memory.NewRepository()
	rec := NewRecorder(repo)

	id, err := rec.Start("p1", ConditionEmoji, EventLogin)
	require.NoError(t, err)

	require.NoError(t, rec.End(id, 1500, true, 2, ""))
	assert.Zero(t, rec.OpenCount())

	ev := loadEvent(t, repo, "p1", id)
	assert.True(t, ev.Ended)
	assert.EqualValues(t, 1500, ev.DurationMS)
	assert.True(t, ev.Success)
	assert.Equal(t, 2, ev.Attempts)
	assert.False(t, ev.EndedAt.IsZero())

	// A second End for the same ID is always rejected.
	assert.ErrorIs(t, rec.End(id, 2000, false, 3, ""), ErrUnknownEvent)
}

func TestRecorderEndValidation(t *testing.T) {
	rec := NewRecorder(memory.NewRepository())

	assert.ErrorIs(t, rec.End("no-such-id", 100, true, 0, ""), ErrUnknownEvent)

	id, err := rec.Start("p1", ConditionText, EventConfirm)
	require.NoError(t, err)
	assert.ErrorIs(t, rec.End(id, -1, true, 0, ""), ErrNegativeDuration)

	// The failed End did not consume the event.
	require.NoError(t, rec.End(id, 0, false, 0, MismatchNote))
}

func TestRecorderStartValidation(t *testing.T) {
	rec := NewRecorder(memory.NewRepository())

	_, err := rec.Start("p1", Condition("C"), EventCreate)
	assert.ErrorIs(t, err, ErrInvalidCondition)

	_, err = rec.Start("p1", ConditionText, EventType("signup"))
	assert.ErrorIs(t, err, ErrInvalidEventType)
}

func TestRecorderAbandonedEventsStayOpen(t *testing.T) {
	repo := memory.NewRepository()
	rec := NewRecorder(repo)

	abandoned, err := rec.Start("p1", ConditionText, EventCreate)
	require.NoError(t, err)
	fresh, err := rec.Start("p1", ConditionText, EventCreate)
	require.NoError(t, err)
	require.NoError(t, rec.End(fresh, 800, true, 0, ""))

	assert.Equal(t, 1, rec.OpenCount())
	ev := loadEvent(t, repo, "p1", abandoned)
	assert.False(t, ev.Ended)
}
