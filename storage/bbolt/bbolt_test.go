package bbolt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SPR1NGQAQ/Emoji-password-prototype/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewRepositoryFromFile(filepath.Join(t.TempDir(), "study.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPutGetRoundtrip(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Put("p1", storage.RecordTypeEvent, "e1", []byte(`{"a":1}`)))

	data, err := store.Get("p1", storage.RecordTypeEvent, "e1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), data)
}

func TestGetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get("nobody", storage.RecordTypeEvent, "e1")
	assert.ErrorIs(t, err, storage.ErrParticipantNotFound)

	require.NoError(t, store.Put("p1", storage.RecordTypeEvent, "e1", []byte("x")))
	_, err = store.Get("p1", storage.RecordTypeEvent, "e2")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListScopedByType(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Put("p1", storage.RecordTypeEvent, "e2", []byte("x")))
	require.NoError(t, store.Put("p1", storage.RecordTypeEvent, "e1", []byte("x")))
	require.NoError(t, store.Put("p1", storage.RecordTypeFeatures, "A", []byte("x")))
	require.NoError(t, store.Put("p2", storage.RecordTypeEvent, "e3", []byte("x")))

	ids, err := store.List("p1", storage.RecordTypeEvent)
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2"}, ids)

	ids, err = store.List("p1", storage.RecordTypeQuestionnaire)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Put("p1", storage.RecordTypeEvent, "e1", []byte("x")))
	require.NoError(t, store.Delete("p1", storage.RecordTypeEvent, "e1"))

	_, err := store.Get("p1", storage.RecordTypeEvent, "e1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, store.Delete("p1", storage.RecordTypeEvent, "e1"), storage.ErrNotFound)
	assert.ErrorIs(t, store.Delete("p9", storage.RecordTypeEvent, "e1"), storage.ErrParticipantNotFound)
}

func TestListParticipants(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Put("p2", storage.RecordTypeEvent, "e1", []byte("x")))
	require.NoError(t, store.Put("p1", storage.RecordTypeEvent, "e1", []byte("x")))

	participants, err := store.ListParticipants()
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, participants)
}

func TestDataSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "study.db")

	store, err := NewRepositoryFromFile(path, nil)
	require.NoError(t, err)
	require.NoError(t, store.Put("p1", storage.RecordTypeEvent, "e1", []byte("persisted")))
	require.NoError(t, store.Close())

	store, err = NewRepositoryFromFile(path, nil)
	require.NoError(t, err)
	defer store.Close()

	data, err := store.Get("p1", storage.RecordTypeEvent, "e1")
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), data)
}
