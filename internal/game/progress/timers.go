package progress

import (
	"github.com/realmcore/achievement-server-go/internal/game/counters"
	"github.com/realmcore/achievement-server-go/internal/game/criteria"
	"go.uber.org/zap"
)

// StartCriteriaTimer arms every timed criterion started by event on asset.
// timeLost is how many milliseconds of the window already passed.
func (t *Tracker) StartCriteriaTimer(event criteria.StartEvent, asset uint32, timeLost uint32) {
	for _, c := range t.registry.TimedCriteria(event) {
		if c.Scope&t.scope == 0 || c.Entry.StartAsset != asset {
			continue
		}

		canStart := false
		window := c.Entry.StartTimer * 1000
		for _, tree := range t.registry.TreesForCriteria(c.ID) {
			_, running := t.timers[tree.ID]
			if running && !c.Entry.Flags.Has(criteria.CriteriaFlagResetOnStart) {
				continue
			}
			if t.IsCompletedCriteriaTree(tree) || window <= timeLost {
				continue
			}
			t.timers[tree.ID] = window - timeLost
			canStart = true
		}
		if !canStart {
			continue
		}

		t.logger.Debug("criteria timer started",
			zap.Uint32("criteria_id", c.ID),
			zap.Uint32("window_ms", window-timeLost),
		)
		t.SetCriteriaProgress(c, 0, nil, counters.ProgressSet)
	}
}

// RemoveCriteriaTimer disarms the timed criteria of event on asset and drops
// their progress.
func (t *Tracker) RemoveCriteriaTimer(event criteria.StartEvent, asset uint32) {
	for _, c := range t.registry.TimedCriteria(event) {
		if c.Scope&t.scope == 0 || c.Entry.StartAsset != asset {
			continue
		}
		for _, tree := range t.registry.TreesForCriteria(c.ID) {
			delete(t.timers, tree.ID)
		}
		t.RemoveCriteriaProgress(c)
	}
}

// Tick advances every running timer by elapsed milliseconds. Expired timers
// drop the progress of their tree's criterion.
func (t *Tracker) Tick(elapsed uint32) {
	if len(t.timers) == 0 {
		return
	}
	expired := make([]uint32, 0)
	for treeID, remaining := range t.timers {
		if remaining <= elapsed {
			expired = append(expired, treeID)
			continue
		}
		t.timers[treeID] = remaining - elapsed
	}
	sortIDs(expired)
	for _, treeID := range expired {
		delete(t.timers, treeID)
		tree := t.registry.CriteriaTree(treeID)
		if tree == nil || tree.Criteria == nil {
			continue
		}
		t.logger.Debug("criteria timer expired",
			zap.Uint32("criteria_tree_id", treeID),
			zap.Uint32("criteria_id", tree.Criteria.ID),
		)
		t.RemoveCriteriaProgress(tree.Criteria)
	}
}

// TimerRemaining returns the milliseconds left on the timer of a tree.
func (t *Tracker) TimerRemaining(treeID uint32) (uint32, bool) {
	remaining, ok := t.timers[treeID]
	return remaining, ok
}

// ActiveTimers returns the number of running timers.
func (t *Tracker) ActiveTimers() int {
	return len(t.timers)
}

func (t *Tracker) hasActiveTimer(trees []*criteria.CriteriaTree) bool {
	for _, tree := range trees {
		if _, ok := t.timers[tree.ID]; ok {
			return true
		}
	}
	return false
}
