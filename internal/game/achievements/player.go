package achievements

import (
	"github.com/realmcore/achievement-server-go/internal/game/criteria"
	"github.com/realmcore/achievement-server-go/internal/game/world"
	"go.uber.org/zap"
)

// PlayerManager tracks the achievements of one character.
type PlayerManager struct {
	*manager
}

// NewPlayerManager creates the achievement state of a character.
func NewPlayerManager(guid world.ObjectGUID, opts Options) *PlayerManager {
	p := &PlayerManager{manager: newManager(world.PlayerOwner(guid), false, opts)}
	p.grant = p.CompletedAchievement
	return p
}

// CompletedAchievement grants ach to the character. Calling it again for an
// earned achievement does nothing.
func (p *PlayerManager) CompletedAchievement(ach *criteria.AchievementRecord, player world.Player) {
	if player == nil {
		return
	}
	if player.IsGameMaster() || !player.CanEarnAchievements() {
		p.logger.Debug("achievement not granted to exempt player", zap.Uint32("achievement_id", ach.ID))
		return
	}
	if !factionAllows(ach, player) {
		return
	}
	if ach.Flags.Has(criteria.AchievementFlagCounter) || p.HasAchieved(ach.ID) {
		return
	}
	if !p.claimRealmFirst(ach) {
		return
	}

	date, ok := p.record(ach, nil)
	if !ok {
		return
	}
	p.afterGrant(ach, player, date, player.IsLoading())

	if reward := p.registry.Reward(ach.ID); reward != nil {
		p.hooks.RewardAchievement(player, ach, reward)
	}
}
