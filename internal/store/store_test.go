package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/undock/pkg/dock"
	"github.com/bnema/undock/pkg/tiles"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "layouts.sqlite"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// snapshotOfPanes builds a real bridge layout and serializes it: a lone
// pane for one name, a horizontal split otherwise.
func snapshotOfPanes(t *testing.T, names ...string) dock.LayoutSnapshot {
	t.Helper()
	b := dock.New(dock.DefaultOptions(), nil, nil, zerolog.Nop())
	tr := b.Tree()

	var kids []tiles.TileID
	for _, n := range names {
		kids = append(kids, tr.NewPane(tiles.PaneID(n)))
	}
	root := kids[0]
	if len(kids) > 1 {
		root = tr.NewSplit(tiles.Horizontal, kids...)
	}
	require.NoError(t, tr.SetRoot(root))
	return b.Snapshot()
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	b := dock.New(dock.DefaultOptions(), nil, nil, zerolog.Nop())
	tr := b.Tree()
	split := tr.NewSplit(tiles.Horizontal,
		tr.NewPane("left"),
		tr.NewTabs(tr.NewPane("mid"), tr.NewPane("right")),
	)
	require.NoError(t, tr.SetRoot(split))
	snap := b.Snapshot()

	require.NoError(t, st.Save(ctx, "main", snap))

	loaded, err := st.Load(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, snap, loaded)
}

func TestStore_LoadMissingLayout(t *testing.T) {
	st := openTestStore(t)

	_, err := st.Load(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_SaveReplacesPrevious(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	first := snapshotOfPanes(t, "one")
	second := snapshotOfPanes(t, "one", "two")
	require.NoError(t, st.Save(ctx, "main", first))
	require.NoError(t, st.Save(ctx, "main", second))

	loaded, err := st.Load(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, second, loaded)

	entries, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].UpdatedAt.Before(entries[0].CreatedAt))
}

func TestStore_ListSortedByName(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	snap := snapshotOfPanes(t, "one")
	for _, name := range []string{"work", "home", "demo"} {
		require.NoError(t, st.Save(ctx, name, snap))
	}

	entries, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
		assert.WithinDuration(t, time.Now(), e.UpdatedAt, time.Minute)
	}
	assert.Equal(t, []string{"demo", "home", "work"}, names)
}

func TestStore_Delete(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, "main", snapshotOfPanes(t, "one")))
	require.NoError(t, st.Delete(ctx, "main"))

	_, err := st.Load(ctx, "main")
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, st.Delete(ctx, "main"), ErrNotFound)
}

func TestStore_OpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("", zerolog.Nop())
	require.Error(t, err)
}

func TestAutosaver_DebouncedWrite(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	a := NewAutosaver(st, "session", 50, zerolog.Nop())
	a.Start(ctx)
	t.Cleanup(func() { _ = a.Stop(ctx) })

	first := snapshotOfPanes(t, "one")
	second := snapshotOfPanes(t, "one", "two")
	a.MarkDirty(first)
	a.MarkDirty(second)

	require.Eventually(t, func() bool {
		got, err := st.Load(ctx, "session")
		return err == nil && len(got.Root.Tiles) == len(second.Root.Tiles)
	}, 2*time.Second, 10*time.Millisecond)

	got, err := st.Load(ctx, "session")
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestAutosaver_StopFlushesPending(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	a := NewAutosaver(st, "session", 60_000, zerolog.Nop())
	a.Start(ctx)

	snap := snapshotOfPanes(t, "one")
	a.MarkDirty(snap)
	require.NoError(t, a.Stop(ctx))

	got, err := st.Load(ctx, "session")
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestAutosaver_SaveNowWithoutChanges(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	a := NewAutosaver(st, "session", 50, zerolog.Nop())
	a.Start(ctx)
	t.Cleanup(func() { _ = a.Stop(ctx) })

	require.NoError(t, a.SaveNow(ctx))

	_, err := st.Load(ctx, "session")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAutosaver_TimerBeforeStartDoesNotSave(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	a := NewAutosaver(st, "session", 10, zerolog.Nop())
	a.MarkDirty(snapshotOfPanes(t, "one"))

	require.Never(t, func() bool {
		_, err := st.Load(ctx, "session")
		return err == nil
	}, 150*time.Millisecond, 25*time.Millisecond)
}
