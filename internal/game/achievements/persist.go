package achievements

import (
	"github.com/realmcore/achievement-server-go/internal/game/criteria"
	"github.com/realmcore/achievement-server-go/internal/game/storage"
	"github.com/realmcore/achievement-server-go/internal/game/world"
	"go.uber.org/zap"
)

// Load installs the stored rows of the owner. Completions of achievements
// that no longer exist are scheduled for deletion.
func (m *manager) Load(rows storage.OwnerRows) {
	m.mu.Lock()
	for _, row := range rows.Completions {
		ach := m.registry.Achievement(row.AchievementID)
		if ach == nil {
			m.logger.Warn("stored completion for unknown achievement removed",
				zap.Uint32("achievement_id", row.AchievementID),
			)
			m.removed[row.AchievementID] = struct{}{}
			continue
		}
		m.completed[ach.ID] = &Completion{
			Date:              row.Date,
			CompletingPlayers: append([]world.ObjectGUID(nil), row.CompletingPlayers...),
		}
		if !ach.Flags.Has(criteria.AchievementFlagTrackingFlag) {
			m.points += ach.Points
		}
	}
	completed := len(m.completed)
	m.mu.Unlock()

	m.tracker.LoadRows(rows.Progress)
	m.logger.Debug("achievements loaded",
		zap.Int("completed", completed),
		zap.Int("criteria", m.tracker.Len()),
	)
}

// Snapshot captures the dirty state as a storage batch and clears it.
func (m *manager) Snapshot() storage.Batch {
	batch := storage.Batch{Owner: m.owner}
	batch.Progress, batch.DeletedProgress = m.tracker.Snapshot()

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.completed {
		if !c.Changed {
			continue
		}
		batch.Completions = append(batch.Completions, storage.CompletionRow{
			AchievementID:     id,
			Date:              c.Date,
			CompletingPlayers: append([]world.ObjectGUID(nil), c.CompletingPlayers...),
		})
		c.Changed = false
	}
	for id := range m.removed {
		batch.DeletedCompletions = append(batch.DeletedCompletions, id)
	}
	m.removed = make(map[uint32]struct{})

	sortCompletions(batch.Completions)
	sortUint32(batch.DeletedCompletions)
	return batch
}

// Restore marks a batch dirty again after its save failed.
func (m *manager) Restore(batch storage.Batch) {
	m.tracker.Restore(batch.Progress, batch.DeletedProgress)

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range batch.Completions {
		if c, ok := m.completed[row.AchievementID]; ok {
			c.Changed = true
		}
	}
	for _, id := range batch.DeletedCompletions {
		if _, ok := m.completed[id]; !ok {
			m.removed[id] = struct{}{}
		}
	}
}
