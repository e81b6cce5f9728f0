// Package storage defines the row shapes exchanged between the in-memory
// trackers and a persistent store.
package storage

import (
	"context"
	"time"

	"github.com/realmcore/achievement-server-go/internal/game/world"
)

// ProgressRow is one persisted criteria counter.
type ProgressRow struct {
	CriteriaID uint32
	Counter    uint64
	Date       time.Time
	Actor      world.ObjectGUID
}

// CompletionRow is one persisted achievement grant.
type CompletionRow struct {
	AchievementID     uint32
	Date              time.Time
	CompletingPlayers []world.ObjectGUID
}

// OwnerRows is everything stored for one owner.
type OwnerRows struct {
	Owner       world.Owner
	Progress    []ProgressRow
	Completions []CompletionRow
}

// Batch is the dirty subset of one owner's state captured by a save pass.
// Saving a row first deletes the stored row with the same key; rows listed
// only under Deleted* are removed.
type Batch struct {
	Owner              world.Owner
	Progress           []ProgressRow
	DeletedProgress    []uint32
	Completions        []CompletionRow
	DeletedCompletions []uint32
}

// Empty reports whether the batch carries no changes.
func (b Batch) Empty() bool {
	return len(b.Progress) == 0 &&
		len(b.DeletedProgress) == 0 &&
		len(b.Completions) == 0 &&
		len(b.DeletedCompletions) == 0
}

// Size returns the number of rows the batch touches.
func (b Batch) Size() int {
	return len(b.Progress) + len(b.DeletedProgress) + len(b.Completions) + len(b.DeletedCompletions)
}

// Loader reads an owner's stored rows.
type Loader interface {
	LoadOwner(ctx context.Context, owner world.Owner) (OwnerRows, error)
}

// Saver writes dirty batches. Implementations apply all batches of one call
// atomically.
type Saver interface {
	SaveBatches(ctx context.Context, batches []Batch) error
}

// RealmFirstRow is a stored realm-first completion.
type RealmFirstRow struct {
	AchievementID uint32
	Date          time.Time
}

// RealmFirstLoader reads every realm-first achievement that has been
// completed by anyone.
type RealmFirstLoader interface {
	LoadRealmFirsts(ctx context.Context, achievementIDs []uint32) ([]RealmFirstRow, error)
}

// Store is the full persistence surface used by the realm.
type Store interface {
	Loader
	Saver
	RealmFirstLoader
	Close() error
}
