package realm

import (
	"context"
	"fmt"
	"time"

	"github.com/realmcore/achievement-server-go/internal/game/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// saveTarget is an owner whose dirty state can be captured and re-marked.
type saveTarget interface {
	Snapshot() storage.Batch
	Restore(batch storage.Batch)
}

// SaveAll writes the dirty state of every loaded owner. Chunks are written in
// parallel; a failed chunk is marked dirty again for the next pass.
func (r *Realm) SaveAll(ctx context.Context) error {
	r.mu.RLock()
	targets := make([]saveTarget, 0, len(r.players)+len(r.guilds))
	for _, s := range r.players {
		targets = append(targets, s.achievements)
	}
	for _, g := range r.guilds {
		targets = append(targets, g.manager)
	}
	r.mu.RUnlock()

	return r.save(ctx, targets)
}

type pending struct {
	target saveTarget
	batch  storage.Batch
}

func (r *Realm) save(ctx context.Context, targets []saveTarget) error {
	if r.opts.Store == nil {
		for _, t := range targets {
			t.Snapshot()
		}
		return nil
	}

	start := time.Now()
	var dirty []pending
	rows := 0
	for _, t := range targets {
		batch := t.Snapshot()
		if batch.Empty() {
			continue
		}
		dirty = append(dirty, pending{target: t, batch: batch})
		rows += batch.Size()
	}
	if len(dirty) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.SaveConcurrency)
	for i := 0; i < len(dirty); i += r.cfg.SaveChunk {
		chunk := dirty[i:min(i+r.cfg.SaveChunk, len(dirty))]
		g.Go(func() error {
			batches := make([]storage.Batch, len(chunk))
			for j, p := range chunk {
				batches[j] = p.batch
			}
			if err := r.opts.Store.SaveBatches(gctx, batches); err != nil {
				for _, p := range chunk {
					p.target.Restore(p.batch)
				}
				return fmt.Errorf("save %d owners: %w", len(chunk), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.logger.Error("save pass failed", zap.Int("owners", len(dirty)), zap.Error(err))
		return err
	}

	r.logger.Info("save pass complete",
		zap.Int("owners", len(dirty)),
		zap.Int("rows", rows),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}
