package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/realmcore/achievement-server-go/internal/game/storage"
	"github.com/realmcore/achievement-server-go/internal/game/world"
	"github.com/realmcore/achievement-server-go/internal/platform/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

// SQLite is a single file store for development and tests.
type SQLite struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ storage.Store = (*SQLite)(nil)

// OpenSQLite opens or creates the database file at path.
func OpenSQLite(ctx context.Context, path string, logger *zap.Logger) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("empty db path")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init schema: %w", err)
		}
	}
	logger.Info("opened sqlite store", zap.String("path", path))
	return &SQLite{db: db, logger: logger}, nil
}

func initPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// LoadOwner reads every stored row for owner.
func (s *SQLite) LoadOwner(ctx context.Context, owner world.Owner) (out storage.OwnerRows, err error) {
	ctx, span := otel.StartSpan(ctx, tracerName, "repository.LoadOwner",
		attribute.String("owner.kind", owner.Kind.String()),
		attribute.Int64("owner.id", int64(owner.ID)))
	defer func() { otel.EndSpan(span, err) }()

	kind, id := ownerKey(owner)
	out.Owner = owner

	rows, err := s.db.QueryContext(ctx, selectProgress, kind, id)
	if err != nil {
		return storage.OwnerRows{}, fmt.Errorf("query progress: %w", err)
	}
	out.Progress, err = scanProgress(rows)
	rows.Close()
	if err != nil {
		return storage.OwnerRows{}, err
	}

	rows, err = s.db.QueryContext(ctx, selectCompletions, kind, id)
	if err != nil {
		return storage.OwnerRows{}, fmt.Errorf("query completions: %w", err)
	}
	out.Completions, err = scanCompletions(rows)
	rows.Close()
	if err != nil {
		return storage.OwnerRows{}, err
	}
	return out, nil
}

// SaveBatches writes all batches in one transaction.
func (s *SQLite) SaveBatches(ctx context.Context, batches []storage.Batch) (err error) {
	ctx, span := otel.StartSpan(ctx, tracerName, "repository.SaveBatches",
		attribute.Int("batches", len(batches)))
	defer func() { otel.EndSpan(span, err) }()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	exec := func(ctx context.Context, query string, args ...any) error {
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	}
	for _, b := range batches {
		if err := applyBatch(ctx, exec, b); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("save %s %d: %w", b.Owner.Kind, b.Owner.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// LoadRealmFirsts returns the earliest completion date of each id that has
// been completed by any owner.
func (s *SQLite) LoadRealmFirsts(ctx context.Context, achievementIDs []uint32) ([]storage.RealmFirstRow, error) {
	if len(achievementIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(selectRealmFirsts, placeholders(len(achievementIDs)))
	rows, err := s.db.QueryContext(ctx, query, realmFirstArgs(achievementIDs)...)
	if err != nil {
		return nil, fmt.Errorf("query realm firsts: %w", err)
	}
	defer rows.Close()
	return scanRealmFirsts(rows)
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
