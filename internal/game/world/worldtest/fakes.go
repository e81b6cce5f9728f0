// Package worldtest provides in-memory implementations of the world
// collaborator interfaces for tests.
package worldtest

import (
	"time"

	"github.com/realmcore/achievement-server-go/internal/game/world"
)

// Unit is a configurable creature or player body.
type Unit struct {
	ID             world.ObjectGUID
	Player         bool
	CreatureEntry  uint32
	Dead           bool
	UnitLevel      uint32
	UnitRace       uint32
	UnitClass      uint32
	UnitGender     uint32
	UnitTeam       world.Team
	CurHealth      uint64
	MaxHP          uint64
	Auras          map[uint32]bool
	AuraTypes      map[uint32]bool
	AuraStates     map[uint32]bool
	Map            uint32
	Zone           uint32
	Area           uint32
	TypeOfCreature uint32
	Family         uint32
}

// NewCreature returns a live creature of the given entry at full health.
func NewCreature(guid world.ObjectGUID, entry uint32) *Unit {
	return &Unit{ID: guid, CreatureEntry: entry, UnitLevel: 1, CurHealth: 100, MaxHP: 100}
}

func (u *Unit) GUID() world.ObjectGUID { return u.ID }
func (u *Unit) IsPlayer() bool         { return u.Player }
func (u *Unit) Entry() uint32          { return u.CreatureEntry }
func (u *Unit) IsAlive() bool          { return !u.Dead }
func (u *Unit) Level() uint32          { return u.UnitLevel }
func (u *Unit) Race() uint32           { return u.UnitRace }
func (u *Unit) Class() uint32          { return u.UnitClass }
func (u *Unit) Gender() uint32         { return u.UnitGender }
func (u *Unit) Team() world.Team       { return u.UnitTeam }
func (u *Unit) Health() uint64         { return u.CurHealth }
func (u *Unit) MaxHealth() uint64      { return u.MaxHP }
func (u *Unit) HasAura(id uint32) bool { return u.Auras[id] }
func (u *Unit) HasAuraType(t uint32) bool {
	return u.AuraTypes[t]
}
func (u *Unit) HasAuraState(s uint32) bool {
	return u.AuraStates[s]
}
func (u *Unit) MapID() uint32          { return u.Map }
func (u *Unit) ZoneID() uint32         { return u.Zone }
func (u *Unit) AreaID() uint32         { return u.Area }
func (u *Unit) CreatureType() uint32   { return u.TypeOfCreature }
func (u *Unit) CreatureFamily() uint32 { return u.Family }

// Player is a configurable player. Zero-valued maps read as absent.
type Player struct {
	Unit

	GM               bool
	CannotEarn       bool
	RealmFirstDenied bool
	Loading          bool

	Guild        uint64
	Members      []world.Player
	Battleground bool
	Covenant     uint32
	Difficulty   uint32
	Scenario     uint32
	ScenarioStep uint32
	Phases       map[uint32]bool
	Exp          uint32

	Drunk      uint32
	Skills     map[uint32]uint32
	SkillMax   map[uint32]uint32
	Spells     map[uint32]bool
	Titles     map[uint32]bool
	Ratings    map[uint32]uint32
	HonorKills uint32
	Bank       uint32

	Items     map[uint32]uint32
	BankItems map[uint32]uint32
	Equipped  map[uint32]uint32

	Reputations map[uint32]int32
	Ranks       map[uint32]world.ReputationRank
	Paragon     map[uint32]uint32
	Exalted     uint32
	Currencies  map[uint32]uint32

	Quests              map[uint32]world.QuestStatus
	Rewarded            map[uint32]bool
	CompletedObjectives map[uint32]bool

	Achieved    map[uint32]bool
	Points      uint32
	Explored    map[uint32]bool
	Mounts      map[uint32]bool
	Toys        map[uint32]bool
	Appearances map[uint32]bool
}

// NewPlayer returns a level 1 alliance player with empty collections.
func NewPlayer(guid world.ObjectGUID) *Player {
	return &Player{
		Unit: Unit{
			ID:        guid,
			Player:    true,
			UnitLevel: 1,
			UnitTeam:  world.TeamAlliance,
			CurHealth: 100,
			MaxHP:     100,
		},
	}
}

func (p *Player) IsGameMaster() bool        { return p.GM }
func (p *Player) CanEarnAchievements() bool { return !p.CannotEarn }
func (p *Player) CanEarnRealmFirst() bool   { return !p.RealmFirstDenied }
func (p *Player) IsLoading() bool           { return p.Loading }
func (p *Player) GuildID() uint64           { return p.Guild }
func (p *Player) Group() []world.Player     { return p.Members }
func (p *Player) InBattleground() bool      { return p.Battleground }
func (p *Player) CovenantID() uint32        { return p.Covenant }
func (p *Player) DifficultyID() uint32      { return p.Difficulty }
func (p *Player) ScenarioID() uint32        { return p.Scenario }
func (p *Player) ScenarioStepID() uint32    { return p.ScenarioStep }
func (p *Player) IsInPhase(id uint32) bool  { return p.Phases[id] }
func (p *Player) Expansion() uint32         { return p.Exp }
func (p *Player) DrunkValue() uint32        { return p.Drunk }
func (p *Player) BaseSkillValue(id uint32) uint32 {
	return p.Skills[id]
}
func (p *Player) MaxSkillValue(id uint32) uint32 {
	return p.SkillMax[id]
}
func (p *Player) HasSpell(id uint32) bool           { return p.Spells[id] }
func (p *Player) HasTitle(id uint32) bool           { return p.Titles[id] }
func (p *Player) PersonalRating(slot uint32) uint32 { return p.Ratings[slot] }
func (p *Player) LifetimeHonorableKills() uint32    { return p.HonorKills }
func (p *Player) BankSlots() uint32                 { return p.Bank }

func (p *Player) ItemCount(id uint32, includeBank bool) uint32 {
	n := p.Items[id]
	if includeBank {
		n += p.BankItems[id]
	}
	return n
}

func (p *Player) HasItemEquipped(id uint32) bool {
	for _, item := range p.Equipped {
		if item == id {
			return true
		}
	}
	return false
}

func (p *Player) EquippedItem(slot uint32) uint32 { return p.Equipped[slot] }

func (p *Player) Reputation(factionID uint32) int32 { return p.Reputations[factionID] }

func (p *Player) ReputationRank(factionID uint32) world.ReputationRank {
	if rank, ok := p.Ranks[factionID]; ok {
		return rank
	}
	return world.RankNeutral
}

func (p *Player) ParagonLevel(factionID uint32) uint32 { return p.Paragon[factionID] }
func (p *Player) ExaltedFactionCount() uint32          { return p.Exalted }
func (p *Player) Currency(id uint32) uint32            { return p.Currencies[id] }

func (p *Player) QuestStatus(id uint32) world.QuestStatus {
	if p.Rewarded[id] {
		return world.QuestStatusRewarded
	}
	return p.Quests[id]
}

func (p *Player) IsQuestRewarded(id uint32) bool { return p.Rewarded[id] }

func (p *Player) RewardedQuestCount() uint32 {
	var n uint32
	for _, ok := range p.Rewarded {
		if ok {
			n++
		}
	}
	return n
}

func (p *Player) IsQuestObjectiveComplete(id uint32) bool {
	return p.CompletedObjectives[id]
}

func (p *Player) HasAchieved(id uint32) bool     { return p.Achieved[id] }
func (p *Player) AchievementPoints() uint32      { return p.Points }
func (p *Player) HasExploredArea(id uint32) bool { return p.Explored[id] }
func (p *Player) HasMount(id uint32) bool        { return p.Mounts[id] }
func (p *Player) MountCount() uint32             { return uint32(len(p.Mounts)) }
func (p *Player) HasToy(id uint32) bool          { return p.Toys[id] }
func (p *Player) HasTransmogAppearance(id uint32) bool {
	return p.Appearances[id]
}

// Globals is a configurable world with a settable clock.
type Globals struct {
	Clock       time.Time
	WorldStates map[uint32]int64
	Items       map[uint32]world.ItemTemplate
	GameEvents  map[uint32]bool
	MapPlayers  map[uint32]uint32
	Conditions  map[uint32]bool
	Expressions map[uint32]bool
}

// NewGlobals returns globals frozen at the given instant.
func NewGlobals(now time.Time) *Globals {
	return &Globals{Clock: now}
}

// Advance moves the clock forward.
func (g *Globals) Advance(d time.Duration) {
	g.Clock = g.Clock.Add(d)
}

func (g *Globals) Now() time.Time { return g.Clock }

func (g *Globals) WorldStateValue(id uint32, mapID uint32) int64 {
	return g.WorldStates[id]
}

func (g *Globals) ItemTemplate(id uint32) (world.ItemTemplate, bool) {
	tpl, ok := g.Items[id]
	return tpl, ok
}

func (g *Globals) IsGameEventActive(id uint32) bool { return g.GameEvents[id] }
func (g *Globals) PlayersInMap(mapID uint32) uint32 { return g.MapPlayers[mapID] }

func (g *Globals) PlayerMeetsCondition(player world.Player, id uint32) bool {
	return g.Conditions[id]
}

func (g *Globals) EvaluateWorldStateExpression(id uint32, player world.Player) bool {
	return g.Expressions[id]
}

var (
	_ world.Unit    = (*Unit)(nil)
	_ world.Player  = (*Player)(nil)
	_ world.Globals = (*Globals)(nil)
)
