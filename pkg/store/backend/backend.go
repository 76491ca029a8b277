// Package backend opens the store.Store selected by configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/ourohead/ourohead/pkg/store"
	"github.com/ourohead/ourohead/pkg/store/file"
	"github.com/ourohead/ourohead/pkg/store/sqlite"
)

// Open returns the backend named by cfg.Backend. An empty backend means file.
func Open(ctx context.Context, cfg store.Config) (store.Store, error) {
	switch cfg.Backend {
	case store.BackendFile, "":
		return file.New(cfg)
	case store.BackendSQLite:
		return sqlite.Open(ctx, cfg)
	case store.BackendMemory:
		return store.NewMemoryStore(nil), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
