package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ourohead/ourohead/pkg/store"
	"github.com/ourohead/ourohead/pkg/store/file"
	"github.com/ourohead/ourohead/pkg/store/sqlite"
)

func TestOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tests := []struct {
		backend store.Backend
		check   func(t *testing.T, s store.Store)
	}{
		{"", func(t *testing.T, s store.Store) { assert.IsType(t, &file.Store{}, s) }},
		{store.BackendFile, func(t *testing.T, s store.Store) { assert.IsType(t, &file.Store{}, s) }},
		{store.BackendSQLite, func(t *testing.T, s store.Store) { assert.IsType(t, &sqlite.Store{}, s) }},
		{store.BackendMemory, func(t *testing.T, s store.Store) { assert.IsType(t, &store.MemoryStore{}, s) }},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			t.Parallel()
			s, err := Open(ctx, store.Config{Backend: tt.backend, DataDir: t.TempDir()})
			require.NoError(t, err)
			defer s.Close()
			tt.check(t, s)

			def, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, def.Endpoints)
		})
	}

	_, err := Open(ctx, store.Config{Backend: "redis"})
	assert.ErrorContains(t, err, `unknown store backend "redis"`)
}
