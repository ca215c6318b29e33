package trash

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuchigta/mdsticker/internal/host"
	"github.com/fuchigta/mdsticker/internal/host/hosttest"
	"github.com/fuchigta/mdsticker/internal/note"
	"github.com/fuchigta/mdsticker/internal/search"
	"github.com/fuchigta/mdsticker/internal/storage"
)

func setup(t *testing.T, ids ...string) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for i, id := range ids {
		n := note.New(id, note.Geometry{
			Position: note.Position{X: 100 + i, Y: 200 + i},
			Size:     note.Size{Width: 300, Height: 400},
		})
		n.Content = "note " + id
		_, err := db.Create(ctx, n)
		require.NoError(t, err)
		require.NoError(t, db.Archive(ctx, id))
	}
	return db
}

func TestList(t *testing.T) {
	db := setup(t, "b", "a")
	_, err := db.Create(context.Background(), note.New("live", note.Geometry{}))
	require.NoError(t, err)

	notes, err := New(db, hosttest.New()).List(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "a", notes[0].ID)
	assert.Equal(t, "b", notes[1].ID)
}

func TestDelete(t *testing.T) {
	db := setup(t, "a", "b", "c")
	h := hosttest.New()
	ctx := context.Background()

	deleted, err := New(db, h).Delete(ctx, []string{"a", "c"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, err = db.Get(ctx, "a")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	notes, err := db.ListArchived(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "b", notes[0].ID)
	assert.Empty(t, h.Opened())
}

func TestRecoverReopensWindows(t *testing.T) {
	db := setup(t, "a", "b")
	ctx := context.Background()
	_, err := db.TogglePinned(ctx, "b")
	require.NoError(t, err)

	idx, err := search.OpenInMemory()
	require.NoError(t, err)
	defer idx.Close()

	h := hosttest.New()
	result, err := New(db, h, WithIndexer(idx)).Recover(ctx, []string{"b", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, result.Reopened)
	assert.Len(t, result.Restored, 2)

	w, ok := h.Window("a")
	require.True(t, ok)
	assert.Equal(t, note.Position{X: 100, Y: 200}, w.Geometry.Position)
	assert.Equal(t, note.Size{Width: 300, Height: 400}, w.Geometry.Size)
	assert.False(t, w.AlwaysOnTop)

	w, ok = h.Window("b")
	require.True(t, ok)
	assert.True(t, w.AlwaysOnTop)

	live, err := db.ListLive(ctx)
	require.NoError(t, err)
	assert.Len(t, live, 2)
	assert.True(t, live[1].Pinned)

	results, err := idx.Search("note", 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestRecoverPartialFailure(t *testing.T) {
	db := setup(t, "a", "b", "c")
	h := hosttest.New()
	h.OpenErr["b"] = errors.New("webview failed")
	ctx := context.Background()

	result, err := New(db, h).Recover(ctx, []string{"a", "b", "c"})
	require.Error(t, err)
	assert.ErrorIs(t, err, host.ErrOperationFailed)
	require.NotNil(t, result)
	assert.Equal(t, []string{"a"}, result.Reopened)
	assert.Len(t, result.Restored, 3)
	assert.Equal(t, []string{"a"}, h.OpenIDs())

	// The store transaction committed before any window opened.
	live, err := db.ListLive(ctx)
	require.NoError(t, err)
	assert.Len(t, live, 3)

	archived, err := db.ListArchived(ctx)
	require.NoError(t, err)
	assert.Empty(t, archived)
}

func TestRecoverSkipsLiveNotes(t *testing.T) {
	db := setup(t, "a")
	ctx := context.Background()
	_, err := db.Create(ctx, note.New("live", note.Geometry{}))
	require.NoError(t, err)

	h := hosttest.New()
	result, err := New(db, h).Recover(ctx, []string{"a", "live", "missing"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, result.Reopened)
	assert.Equal(t, []string{"a"}, h.Opened())
}

func TestRecoverNothing(t *testing.T) {
	db := setup(t)

	result, err := New(db, hosttest.New()).Recover(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Restored)
	assert.Empty(t, result.Reopened)
}
