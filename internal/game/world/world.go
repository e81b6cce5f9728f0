// Package world declares the read-only views of the surrounding game
// simulation that criteria evaluation consults. Every lookup has a defined
// "absent" result (zero, false, nil) which callers treat as condition not met.
package world

import (
	"strconv"
	"time"
)

// ObjectGUID identifies a unit, player or game object.
type ObjectGUID uint64

// Team is the faction side of a unit.
type Team uint8

const (
	TeamNeutral Team = iota
	TeamAlliance
	TeamHorde
)

// String returns the string representation of the team.
func (t Team) String() string {
	switch t {
	case TeamAlliance:
		return "ALLIANCE"
	case TeamHorde:
		return "HORDE"
	default:
		return "NEUTRAL"
	}
}

// QuestStatus is the state of a quest in a player's log.
type QuestStatus uint8

const (
	QuestStatusNone QuestStatus = iota
	QuestStatusComplete
	QuestStatusIncomplete
	QuestStatusFailed
	QuestStatusRewarded
)

// ReputationRank is the standing band of a faction reputation.
type ReputationRank uint8

const (
	RankHated ReputationRank = iota
	RankHostile
	RankUnfriendly
	RankNeutral
	RankFriendly
	RankHonored
	RankRevered
	RankExalted
)

// GuildFactionID is the reputation faction representing standing with the
// player's own guild.
const GuildFactionID = 1168

// Unit is any creature or player that can be an actor or a target.
type Unit interface {
	GUID() ObjectGUID
	IsPlayer() bool
	// Entry is the creature template id; zero for players.
	Entry() uint32
	IsAlive() bool
	Level() uint32
	Race() uint32
	Class() uint32
	Gender() uint32
	Team() Team
	Health() uint64
	MaxHealth() uint64
	HasAura(spellID uint32) bool
	HasAuraType(auraType uint32) bool
	HasAuraState(state uint32) bool
	MapID() uint32
	ZoneID() uint32
	AreaID() uint32
	CreatureType() uint32
	CreatureFamily() uint32
}

// Player is the acting player whose progress is being evaluated.
type Player interface {
	Unit

	IsGameMaster() bool
	CanEarnAchievements() bool
	CanEarnRealmFirst() bool
	IsLoading() bool

	GuildID() uint64
	// Group returns the other members of the player's party or raid, or nil
	// when the player is not grouped.
	Group() []Player
	InBattleground() bool
	CovenantID() uint32
	DifficultyID() uint32
	ScenarioID() uint32
	ScenarioStepID() uint32
	IsInPhase(phaseID uint32) bool
	Expansion() uint32

	DrunkValue() uint32
	BaseSkillValue(skillID uint32) uint32
	MaxSkillValue(skillID uint32) uint32
	HasSpell(spellID uint32) bool
	HasTitle(titleID uint32) bool
	PersonalRating(slot uint32) uint32
	LifetimeHonorableKills() uint32
	BankSlots() uint32

	ItemCount(itemID uint32, includeBank bool) uint32
	HasItemEquipped(itemID uint32) bool
	EquippedItem(slot uint32) uint32

	Reputation(factionID uint32) int32
	ReputationRank(factionID uint32) ReputationRank
	ParagonLevel(factionID uint32) uint32
	ExaltedFactionCount() uint32
	Currency(currencyID uint32) uint32

	QuestStatus(questID uint32) QuestStatus
	IsQuestRewarded(questID uint32) bool
	RewardedQuestCount() uint32
	IsQuestObjectiveComplete(objectiveID uint32) bool

	HasAchieved(achievementID uint32) bool
	AchievementPoints() uint32
	HasExploredArea(areaID uint32) bool
	HasMount(spellID uint32) bool
	MountCount() uint32
	HasToy(itemID uint32) bool
	HasTransmogAppearance(appearanceID uint32) bool
}

// ItemTemplate is the static description of an item.
type ItemTemplate struct {
	ID        uint32
	Quality   uint32
	Class     uint32
	SubClass  uint32
	ItemLevel uint32
}

// Globals exposes process-wide state that is not tied to a single unit.
type Globals interface {
	Now() time.Time
	WorldStateValue(worldStateID uint32, mapID uint32) int64
	ItemTemplate(itemID uint32) (ItemTemplate, bool)
	IsGameEventActive(eventID uint32) bool
	PlayersInMap(mapID uint32) uint32
	// PlayerMeetsCondition evaluates an externally defined condition by id.
	PlayerMeetsCondition(player Player, conditionID uint32) bool
	// EvaluateWorldStateExpression evaluates an externally defined
	// world-state expression by id.
	EvaluateWorldStateExpression(expressionID uint32, player Player) bool
}

// SafeHealthPct returns the unit's health as a percentage of its maximum,
// or zero when the maximum is unknown.
func SafeHealthPct(u Unit) float64 {
	if u == nil {
		return 0
	}
	maxHealth := u.MaxHealth()
	if maxHealth == 0 {
		return 0
	}
	return float64(u.Health()) * 100 / float64(maxHealth)
}

// OwnerKind distinguishes the entities that accumulate progress.
type OwnerKind uint8

const (
	OwnerPlayer OwnerKind = iota + 1
	OwnerGuild
)

// String returns the string representation of the owner kind.
func (k OwnerKind) String() string {
	switch k {
	case OwnerPlayer:
		return "player"
	case OwnerGuild:
		return "guild"
	default:
		return "unknown"
	}
}

// Owner identifies a player or a guild.
type Owner struct {
	Kind OwnerKind `json:"kind"`
	ID   uint64    `json:"id"`
}

// PlayerOwner returns the owner key of a player.
func PlayerOwner(guid ObjectGUID) Owner {
	return Owner{Kind: OwnerPlayer, ID: uint64(guid)}
}

// GuildOwner returns the owner key of a guild.
func GuildOwner(guildID uint64) Owner {
	return Owner{Kind: OwnerGuild, ID: guildID}
}

// String renders the owner as "kind:id".
func (o Owner) String() string {
	return o.Kind.String() + ":" + strconv.FormatUint(o.ID, 10)
}
