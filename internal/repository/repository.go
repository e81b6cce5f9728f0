// Package repository persists criteria progress and achievement completions
// in Postgres or SQLite.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/realmcore/achievement-server-go/internal/game/storage"
	"go.uber.org/zap"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown database driver")

const tracerName = "repository"

// Config selects and configures the store.
type Config struct {
	// Driver is "postgres" or "sqlite".
	Driver     string
	URL        string
	MaxConns   int32
	SQLitePath string
}

// Open connects the configured store and creates its tables.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (storage.Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Driver {
	case "postgres", "postgresql":
		return OpenPostgres(ctx, cfg.URL, cfg.MaxConns, logger)
	case "sqlite", "sqlite3":
		return OpenSQLite(ctx, cfg.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
