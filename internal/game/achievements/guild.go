package achievements

import (
	"github.com/realmcore/achievement-server-go/internal/game/criteria"
	"github.com/realmcore/achievement-server-go/internal/game/world"
)

// GuildManager tracks the achievements of one guild. Its criteria advance on
// the actions of guild members.
type GuildManager struct {
	*manager
}

// NewGuildManager creates the achievement state of a guild.
func NewGuildManager(guildID uint64, opts Options) *GuildManager {
	g := &GuildManager{manager: newManager(world.GuildOwner(guildID), true, opts)}
	g.grant = g.CompletedAchievement
	return g
}

// GuildID returns the guild the manager belongs to.
func (g *GuildManager) GuildID() uint64 {
	return g.owner.ID
}

// CompletedAchievement grants ach to the guild. Achievements that show guild
// members record the acting member and the members of their group who belong
// to the guild.
func (g *GuildManager) CompletedAchievement(ach *criteria.AchievementRecord, player world.Player) {
	if ach.Flags.Has(criteria.AchievementFlagCounter) || g.HasAchieved(ach.ID) {
		return
	}
	if !g.claimRealmFirst(ach) {
		return
	}

	var members []world.ObjectGUID
	if ach.Flags.Has(criteria.AchievementFlagShowGuildMembers) && player != nil {
		members = g.completingPlayers(player)
	}
	date, ok := g.record(ach, members)
	if !ok {
		return
	}
	g.afterGrant(ach, player, date, false)
}

func (g *GuildManager) completingPlayers(player world.Player) []world.ObjectGUID {
	guildID := g.GuildID()
	seen := make(map[world.ObjectGUID]struct{})
	var out []world.ObjectGUID
	add := func(p world.Player) {
		if p == nil || p.GuildID() != guildID {
			return
		}
		if _, dup := seen[p.GUID()]; dup {
			return
		}
		seen[p.GUID()] = struct{}{}
		out = append(out, p.GUID())
	}
	add(player)
	for _, member := range player.Group() {
		add(member)
	}
	return out
}
