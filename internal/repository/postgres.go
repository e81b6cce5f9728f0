package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/realmcore/achievement-server-go/internal/game/storage"
	"github.com/realmcore/achievement-server-go/internal/game/world"
	"github.com/realmcore/achievement-server-go/internal/platform/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Postgres is a store backed by a pgx connection pool.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

var _ storage.Store = (*Postgres)(nil)

// OpenPostgres connects to url and creates the tables.
func OpenPostgres(ctx context.Context, url string, maxConns int32, logger *zap.Logger) (*Postgres, error) {
	if url == "" {
		return nil, errors.New("empty database url")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	p := &Postgres{pool: pool, logger: logger}
	if err := p.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("connected to postgres", zap.Int32("max_conns", cfg.MaxConns))
	return p, nil
}

// Migrate creates missing tables and indexes.
func (p *Postgres) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// LoadOwner reads every stored row for owner.
func (p *Postgres) LoadOwner(ctx context.Context, owner world.Owner) (out storage.OwnerRows, err error) {
	ctx, span := otel.StartSpan(ctx, tracerName, "repository.LoadOwner",
		attribute.String("owner.kind", owner.Kind.String()),
		attribute.Int64("owner.id", int64(owner.ID)))
	defer func() { otel.EndSpan(span, err) }()

	kind, id := ownerKey(owner)
	out.Owner = owner

	rows, err := p.pool.Query(ctx, rebind(selectProgress), kind, id)
	if err != nil {
		return storage.OwnerRows{}, fmt.Errorf("query progress: %w", err)
	}
	out.Progress, err = scanProgress(rows)
	rows.Close()
	if err != nil {
		return storage.OwnerRows{}, err
	}

	rows, err = p.pool.Query(ctx, rebind(selectCompletions), kind, id)
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
func (p *Postgres) SaveBatches(ctx context.Context, batches []storage.Batch) (err error) {
	ctx, span := otel.StartSpan(ctx, tracerName, "repository.SaveBatches",
		attribute.Int("batches", len(batches)))
	defer func() { otel.EndSpan(span, err) }()

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := SaveBatchesTx(ctx, tx, batches); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Begin starts a transaction for use with SaveBatchesTx.
func (p *Postgres) Begin(ctx context.Context) (pgx.Tx, error) {
	return p.pool.Begin(ctx)
}

// SaveBatchesTx applies batches inside a caller supplied transaction so the
// writes can share it with other character data.
func SaveBatchesTx(ctx context.Context, tx pgx.Tx, batches []storage.Batch) error {
	exec := func(ctx context.Context, query string, args ...any) error {
		_, err := tx.Exec(ctx, rebind(query), args...)
		return err
	}
	for _, b := range batches {
		if err := applyBatch(ctx, exec, b); err != nil {
			return fmt.Errorf("save %s %d: %w", b.Owner.Kind, b.Owner.ID, err)
		}
	}
	return nil
}

// LoadRealmFirsts returns the earliest completion date of each id that has
// been completed by any owner.
func (p *Postgres) LoadRealmFirsts(ctx context.Context, achievementIDs []uint32) (out []storage.RealmFirstRow, err error) {
	if len(achievementIDs) == 0 {
		return nil, nil
	}
	ctx, span := otel.StartSpan(ctx, tracerName, "repository.LoadRealmFirsts",
		attribute.Int("achievements", len(achievementIDs)))
	defer func() { otel.EndSpan(span, err) }()

	query := rebind(fmt.Sprintf(selectRealmFirsts, placeholders(len(achievementIDs))))
	rows, err := p.pool.Query(ctx, query, realmFirstArgs(achievementIDs)...)
	if err != nil {
		return nil, fmt.Errorf("query realm firsts: %w", err)
	}
	defer rows.Close()
	return scanRealmFirsts(rows)
}

// Close releases the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
