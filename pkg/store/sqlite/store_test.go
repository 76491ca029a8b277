package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ourohead/ourohead/pkg/definition"
	"github.com/ourohead/ourohead/pkg/store"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), store.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func defWith(paths ...string) *definition.APIDefinition {
	def := &definition.APIDefinition{}
	for _, p := range paths {
		def.Endpoints = append(def.Endpoints, definition.Endpoint{
			Path:      p,
			Method:    "post",
			Responses: []definition.StatusResponse{{StatusCode: 201}},
		})
	}
	return def
}

func TestStore_EmptyLoad(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	def, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, def.Endpoints)
	assert.Empty(t, def.Endpoints)
}

func TestStore_SaveLoadHistory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Save(ctx, defWith("/a")))
	require.NoError(t, s.Save(ctx, defWith("/a", "/b")))

	def, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, def.Endpoints, 2)
	assert.Equal(t, "POST", def.Endpoints[1].Method)

	hist, err := s.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, int64(2), hist[0].Revision)
	assert.Equal(t, 2, hist[0].Endpoints)
	assert.Equal(t, int64(1), hist[1].Revision)

	first, err := s.LoadRevision(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, first.Endpoints, 1)

	_, err = s.LoadRevision(ctx, 99)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_ReopenKeepsData(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "defs.db")

	s, err := Open(ctx, store.Config{Path: path})
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, defWith("/persisted")))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, store.ErrClosed)

	reopened, err := Open(ctx, store.Config{Path: path})
	require.NoError(t, err)
	defer reopened.Close()

	def, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.Len(t, def.Endpoints, 1)
	assert.Equal(t, "/persisted", def.Endpoints[0].Path)
}

func TestStore_ReadOnlyAndNil(t *testing.T) {
	t.Parallel()

	s, err := Open(context.Background(), store.Config{DataDir: t.TempDir(), ReadOnly: true})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, DefaultFileName, filepath.Base(s.Path()))
	assert.ErrorIs(t, s.Save(context.Background(), defWith("/x")), store.ErrReadOnly)
	assert.ErrorIs(t, s.Save(context.Background(), nil), store.ErrNilInput)
}

func TestStore_Notifies(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	got := make(chan store.ChangeEvent, 1)
	s.AddChangeListener(func(e store.ChangeEvent) { got <- e })

	require.NoError(t, s.Save(context.Background(), defWith("/a", "/b", "/c")))
	select {
	case e := <-got:
		assert.Equal(t, 3, e.Endpoints)
	case <-time.After(time.Second):
		t.Fatal("no change event")
	}
}
