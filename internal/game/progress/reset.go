package progress

import (
	"github.com/realmcore/achievement-server-go/internal/game/criteria"
	"github.com/realmcore/achievement-server-go/internal/game/world"
)

// ResetCriteria drops the progress of every criterion that fails on event
// with asset. Criteria whose trees are all complete and granted keep their
// progress unless evenIfCompleted is set.
func (t *Tracker) ResetCriteria(event criteria.FailEvent, asset uint32, evenIfCompleted bool, player world.Player) {
	if player != nil && player.IsGameMaster() {
		return
	}
	for _, c := range t.registry.CriteriaByFailEvent(event, asset) {
		if c.Scope&t.scope == 0 {
			continue
		}
		allComplete := true
		for _, tree := range t.registry.TreesForCriteria(c.ID) {
			if evenIfCompleted || !t.IsCompletedCriteriaTree(tree) || !t.policy.HasAchievedTree(tree) {
				allComplete = false
				break
			}
		}
		if allComplete {
			continue
		}
		t.RemoveCriteriaProgress(c)
	}
}
