package conditions

import (
	"time"

	"github.com/realmcore/achievement-server-go/internal/game/criteria"
	"github.com/realmcore/achievement-server-go/internal/game/world"
)

// Reputation factions and phases referenced by fixed-purpose leaves.
const (
	factionTillers              = 1272
	factionOrderOfCloudSerpent  = 1271
	normalPhaseID               = 169
	ratedBattlegroundRatingSlot = 3
	raidMinimumSize             = 6
)

type playerFunc func(p world.Player, m *criteria.ModifierTreeRecord) bool

type targetFunc func(t world.Unit, m *criteria.ModifierTreeRecord) bool

type itemFunc func(item world.ItemTemplate, m *criteria.ModifierTreeRecord) bool

// onPlayer adapts a check that only reads the acting player.
func onPlayer(fn playerFunc) LeafFunc {
	return func(_ *Evaluator, ctx Context, m *criteria.ModifierTreeRecord) bool {
		return fn(ctx.Player, m)
	}
}

// onSelf adapts a unit check to run against the acting player.
func onSelf(fn targetFunc) LeafFunc {
	return func(_ *Evaluator, ctx Context, m *criteria.ModifierTreeRecord) bool {
		return fn(ctx.Player, m)
	}
}

// onTarget adapts a check of the event target; a missing target fails.
func onTarget(fn targetFunc) LeafFunc {
	return func(_ *Evaluator, ctx Context, m *criteria.ModifierTreeRecord) bool {
		if ctx.Target == nil {
			return false
		}
		return fn(ctx.Target, m)
	}
}

// onItem adapts a check of the item template named by misc1.
func onItem(fn itemFunc) LeafFunc {
	return func(e *Evaluator, ctx Context, m *criteria.ModifierTreeRecord) bool {
		item, ok := e.globals.ItemTemplate(uint32(ctx.Misc1))
		if !ok {
			return false
		}
		return fn(item, m)
	}
}

// never is registered for kinds that are obsolete or not implemented.
func never(*Evaluator, Context, *criteria.ModifierTreeRecord) bool {
	return false
}

func healthPctBelow(u world.Unit, m *criteria.ModifierTreeRecord) bool {
	return world.SafeHealthPct(u) < float64(m.Asset)
}

func healthPctAbove(u world.Unit, m *criteria.ModifierTreeRecord) bool {
	return world.SafeHealthPct(u) > float64(m.Asset)
}

func healthPctEquals(u world.Unit, m *criteria.ModifierTreeRecord) bool {
	return world.SafeHealthPct(u) == float64(m.Asset)
}

func healthBelow(u world.Unit, m *criteria.ModifierTreeRecord) bool {
	return u.Health() < uint64(m.Asset)
}

func healthAbove(u world.Unit, m *criteria.ModifierTreeRecord) bool {
	return u.Health() > uint64(m.Asset)
}

func healthEquals(u world.Unit, m *criteria.ModifierTreeRecord) bool {
	return u.Health() == uint64(m.Asset)
}

func inZoneOrArea(u world.Unit, id uint32) bool {
	return u.ZoneID() == id || u.AreaID() == id
}

func groupSize(p world.Player) int {
	members := p.Group()
	if members == nil {
		return 0
	}
	return len(members) + 1
}

func guildMembersInGroup(p world.Player) uint32 {
	if p.GuildID() == 0 || p.Group() == nil {
		return 0
	}
	n := uint32(1)
	for _, member := range p.Group() {
		if member != nil && member.GuildID() == p.GuildID() {
			n++
		}
	}
	return n
}

func factionIndex(t world.Team) (uint32, bool) {
	switch t {
	case world.TeamHorde:
		return uint32(criteria.FactionHorde), true
	case world.TeamAlliance:
		return uint32(criteria.FactionAlliance), true
	default:
		return 0, false
	}
}

func questInLog(status world.QuestStatus) bool {
	switch status {
	case world.QuestStatusComplete, world.QuestStatusIncomplete, world.QuestStatusFailed:
		return true
	default:
		return false
	}
}

func defaultLeaves() map[criteria.ModifierType]LeafFunc {
	return map[criteria.ModifierType]LeafFunc{
		criteria.PlayerInebriationLevelEqualOrGreaterThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			drunk := p.DrunkValue()
			if drunk > 100 {
				drunk = 100
			}
			return drunk >= m.Asset
		}),
		criteria.PlayerMeetsCondition: func(e *Evaluator, ctx Context, m *criteria.ModifierTreeRecord) bool {
			return e.globals.PlayerMeetsCondition(ctx.Player, m.Asset)
		},
		criteria.MinimumItemLevel: onItem(func(item world.ItemTemplate, m *criteria.ModifierTreeRecord) bool {
			return item.ItemLevel >= m.Asset
		}),
		criteria.TargetCreatureID: onTarget(func(t world.Unit, m *criteria.ModifierTreeRecord) bool {
			return !t.IsPlayer() && t.Entry() == m.Asset
		}),
		criteria.TargetIsPlayer: onTarget(func(t world.Unit, _ *criteria.ModifierTreeRecord) bool {
			return t.IsPlayer()
		}),
		criteria.TargetIsDead: onTarget(func(t world.Unit, _ *criteria.ModifierTreeRecord) bool {
			return !t.IsAlive()
		}),
		criteria.TargetIsOppositeFaction: func(_ *Evaluator, ctx Context, _ *criteria.ModifierTreeRecord) bool {
			if ctx.Target == nil || ctx.Target.Team() == world.TeamNeutral {
				return false
			}
			return ctx.Target.Team() != ctx.Player.Team()
		},
		criteria.PlayerHasAura: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.HasAura(m.Asset)
		}),
		criteria.PlayerHasAuraEffect: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.HasAuraType(m.Asset)
		}),
		criteria.TargetHasAura: onTarget(func(t world.Unit, m *criteria.ModifierTreeRecord) bool {
			return t.HasAura(m.Asset)
		}),
		criteria.TargetHasAuraEffect: onTarget(func(t world.Unit, m *criteria.ModifierTreeRecord) bool {
			return t.HasAuraType(m.Asset)
		}),
		criteria.TargetHasAuraState: onTarget(func(t world.Unit, m *criteria.ModifierTreeRecord) bool {
			return t.HasAuraState(m.Asset)
		}),
		criteria.PlayerHasAuraState: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.HasAuraState(m.Asset)
		}),
		criteria.ItemQualityIsAtLeast: onItem(func(item world.ItemTemplate, m *criteria.ModifierTreeRecord) bool {
			return item.Quality >= m.Asset
		}),
		criteria.ItemQualityIsExactly: onItem(func(item world.ItemTemplate, m *criteria.ModifierTreeRecord) bool {
			return item.Quality == m.Asset
		}),
		criteria.PlayerIsAlive: onPlayer(func(p world.Player, _ *criteria.ModifierTreeRecord) bool {
			return p.IsAlive()
		}),
		criteria.PlayerIsInArea: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return inZoneOrArea(p, m.Asset)
		}),
		criteria.TargetIsInArea: onTarget(func(t world.Unit, m *criteria.ModifierTreeRecord) bool {
			return inZoneOrArea(t, m.Asset)
		}),
		criteria.ItemID: func(_ *Evaluator, ctx Context, m *criteria.ModifierTreeRecord) bool {
			return ctx.Misc1 == uint64(m.Asset)
		},
		criteria.LegacyDungeonDifficulty: never,
		criteria.PlayerToTargetLevelDeltaGreaterThan: func(_ *Evaluator, ctx Context, m *criteria.ModifierTreeRecord) bool {
			if ctx.Target == nil {
				return false
			}
			return ctx.Player.Level() > ctx.Target.Level()+m.Asset
		},
		criteria.TargetToPlayerLevelDeltaGreaterThan: func(_ *Evaluator, ctx Context, m *criteria.ModifierTreeRecord) bool {
			if ctx.Target == nil {
				return false
			}
			return ctx.Target.Level() > ctx.Player.Level()+m.Asset
		},
		criteria.PlayerLevelEqualTargetLevel: func(_ *Evaluator, ctx Context, _ *criteria.ModifierTreeRecord) bool {
			return ctx.Target != nil && ctx.Player.Level() == ctx.Target.Level()
		},
		criteria.PlayerInArenaWithTeamSize: never,
		criteria.PlayerRace: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.Race() == m.Asset
		}),
		criteria.PlayerClass: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.Class() == m.Asset
		}),
		criteria.TargetRace: onTarget(func(t world.Unit, m *criteria.ModifierTreeRecord) bool {
			return t.Race() == m.Asset
		}),
		criteria.TargetClass: onTarget(func(t world.Unit, m *criteria.ModifierTreeRecord) bool {
			return t.Class() == m.Asset
		}),
		criteria.LessThanTappers: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			size := groupSize(p)
			return size == 0 || uint32(size) < m.Asset
		}),
		criteria.CreatureType: onTarget(func(t world.Unit, m *criteria.ModifierTreeRecord) bool {
			return !t.IsPlayer() && t.CreatureType() == m.Asset
		}),
		criteria.CreatureFamily: onTarget(func(t world.Unit, m *criteria.ModifierTreeRecord) bool {
			return !t.IsPlayer() && t.CreatureFamily() == m.Asset
		}),
		criteria.PlayerMap: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.MapID() == m.Asset
		}),
		criteria.ClientVersionEqualOrLessThan: never,
		criteria.BattlePetTeamLevel:           never,
		criteria.PlayerIsNotInParty: onPlayer(func(p world.Player, _ *criteria.ModifierTreeRecord) bool {
			return p.Group() == nil
		}),
		criteria.PlayerIsNotInRaid: onPlayer(func(p world.Player, _ *criteria.ModifierTreeRecord) bool {
			return groupSize(p) < raidMinimumSize
		}),
		criteria.PlayerHasPvpRank: never,
		criteria.PlayerHasTitle: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.HasTitle(m.Asset)
		}),
		criteria.PlayerLevelEqual: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.Level() == m.Asset
		}),
		criteria.TargetLevelEqual: onTarget(func(t world.Unit, m *criteria.ModifierTreeRecord) bool {
			return t.Level() == m.Asset
		}),
		criteria.PlayerIsInZone: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.ZoneID() == m.Asset
		}),
		criteria.TargetIsInZone: onTarget(func(t world.Unit, m *criteria.ModifierTreeRecord) bool {
			return t.ZoneID() == m.Asset
		}),

		criteria.PlayerHealthBelowPercent:  onSelf(healthPctBelow),
		criteria.PlayerHealthAbovePercent:  onSelf(healthPctAbove),
		criteria.PlayerHealthEqualsPercent: onSelf(healthPctEquals),
		criteria.TargetHealthBelowPercent:  onTarget(healthPctBelow),
		criteria.TargetHealthAbovePercent:  onTarget(healthPctAbove),
		criteria.TargetHealthEqualsPercent: onTarget(healthPctEquals),
		criteria.PlayerHealthBelowValue:    onSelf(healthBelow),
		criteria.PlayerHealthAboveValue:    onSelf(healthAbove),
		criteria.PlayerHealthEqualsValue:   onSelf(healthEquals),
		criteria.TargetHealthBelowValue:    onTarget(healthBelow),
		criteria.TargetHealthAboveValue:    onTarget(healthAbove),
		criteria.TargetHealthEqualsValue:   onTarget(healthEquals),

		criteria.TargetIsPlayerAndMeetsCondition: func(e *Evaluator, ctx Context, m *criteria.ModifierTreeRecord) bool {
			target := ctx.TargetPlayer()
			return target != nil && e.globals.PlayerMeetsCondition(target, m.Asset)
		},
		criteria.PlayerHasMoreThanAchievementPoints: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.AchievementPoints() > m.Asset
		}),
		criteria.PlayerInLfgDungeon:            never,
		criteria.PlayerInRandomLfgDungeon:      never,
		criteria.PlayerInFirstRandomLfgDungeon: never,
		criteria.PlayerInRankedArenaMatch:      never,
		criteria.PlayerInGuildParty: onPlayer(func(p world.Player, _ *criteria.ModifierTreeRecord) bool {
			return guildMembersInGroup(p) >= 2
		}),
		criteria.PlayerGuildReputationEqualOrGreaterThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return int64(p.Reputation(world.GuildFactionID)) >= int64(m.Asset)
		}),
		criteria.PlayerInRatedBattleground: never,
		criteria.PlayerBattlegroundRatingEqualOrGreaterThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.PersonalRating(ratedBattlegroundRatingSlot) >= m.Asset
		}),
		criteria.ResearchProjectRarity: never,
		criteria.ResearchProjectBranch: never,
		criteria.WorldStateExpression: func(e *Evaluator, ctx Context, m *criteria.ModifierTreeRecord) bool {
			return e.globals.EvaluateWorldStateExpression(m.Asset, ctx.Player)
		},
		criteria.DungeonDifficulty: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.DifficultyID() == m.Asset
		}),
		criteria.PlayerLevelEqualOrGreaterThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.Level() >= m.Asset
		}),
		criteria.TargetLevelEqualOrGreaterThan: onTarget(func(t world.Unit, m *criteria.ModifierTreeRecord) bool {
			return t.Level() >= m.Asset
		}),
		criteria.PlayerLevelEqualOrLessThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.Level() <= m.Asset
		}),
		criteria.TargetLevelEqualOrLessThan: onTarget(func(t world.Unit, m *criteria.ModifierTreeRecord) bool {
			return t.Level() <= m.Asset
		}),
		criteria.PlayerScenario: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.ScenarioID() == m.Asset
		}),
		criteria.TillersReputationGreaterThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return int64(p.Reputation(factionTillers)) > int64(m.Asset)
		}),
		criteria.BattlePetAchievementPointsEqualOrGreaterThan: never,
		criteria.UniqueBattlePetsEqualOrGreaterThan:           never,
		criteria.BattlePetType:                                never,
		criteria.BattlePetHealthPercentLessThan:               never,
		criteria.GuildGroupMemberCountEqualOrGreaterThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return guildMembersInGroup(p) >= m.Asset
		}),
		criteria.BattlePetOpponentCreatureID: never,
		criteria.PlayerScenarioStep: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.ScenarioStepID() == m.Asset
		}),
		criteria.ChallengeModeMedal: never,
		criteria.PlayerOnQuest: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return questInLog(p.QuestStatus(m.Asset))
		}),
		criteria.ExaltedWithFaction: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.ReputationRank(m.Asset) >= world.RankExalted
		}),
		criteria.EarnedAchievementOnAccount: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.HasAchieved(m.Asset)
		}),
		criteria.EarnedAchievementOnPlayer: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.HasAchieved(m.Asset)
		}),
		criteria.OrderOfTheCloudSerpentReputationGreaterThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return int64(p.Reputation(factionOrderOfCloudSerpent)) > int64(m.Asset)
		}),
		criteria.BattlePetQuality:     never,
		criteria.BattlePetFightWasPVP: never,
		criteria.BattlePetSpecies:     never,
		criteria.ServerExpansionEqualOrGreaterThan: func(e *Evaluator, _ Context, m *criteria.ModifierTreeRecord) bool {
			return e.serverExpansion >= m.Asset
		},
		criteria.PlayerHasBattlePetJournalLock: never,
		criteria.FriendshipRepReactionIsMet:    never,
		criteria.ReputationWithFactionIsEqualOrGreaterThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return int64(p.Reputation(m.Asset)) >= int64(m.SecondaryAsset)
		}),
		criteria.ItemClassAndSubclass: onItem(func(item world.ItemTemplate, m *criteria.ModifierTreeRecord) bool {
			return item.Class == m.Asset && item.SubClass == m.SecondaryAsset
		}),
		criteria.PlayerGender: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.Gender() == m.Asset
		}),
		criteria.PlayerNativeGender: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.Gender() == m.Asset
		}),
		criteria.PlayerSkillEqualOrGreaterThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.BaseSkillValue(m.Asset) >= m.SecondaryAsset
		}),
		criteria.PlayerLanguageSkillEqualOrGreaterThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.BaseSkillValue(m.Asset) >= m.SecondaryAsset
		}),
		criteria.PlayerIsInNormalPhase: onPlayer(func(p world.Player, _ *criteria.ModifierTreeRecord) bool {
			return p.IsInPhase(normalPhaseID)
		}),
		criteria.PlayerIsInPhase: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.IsInPhase(m.Asset)
		}),
		criteria.PlayerIsInPhaseGroup: never,
		criteria.PlayerKnowsSpell: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.HasSpell(m.Asset)
		}),
		criteria.PlayerHasItemQuantity: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.ItemCount(m.Asset, false) >= m.SecondaryAsset
		}),
		criteria.PlayerExpansionLevelEqualOrGreaterThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.Expansion() >= m.Asset
		}),
		criteria.PlayerHasAuraWithLabel: never,
		criteria.PlayersRealmWorldState: func(e *Evaluator, ctx Context, m *criteria.ModifierTreeRecord) bool {
			return e.globals.WorldStateValue(m.Asset, ctx.Player.MapID()) == int64(m.SecondaryAsset)
		},
		criteria.TimeBetween: func(e *Evaluator, _ Context, m *criteria.ModifierTreeRecord) bool {
			now := e.globals.Now()
			from := time.Unix(int64(m.Asset), 0)
			to := time.Unix(int64(m.SecondaryAsset), 0)
			return !now.Before(from) && !now.After(to)
		},
		criteria.PlayerHasCompletedQuest: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.IsQuestRewarded(m.Asset)
		}),
		criteria.PlayerIsReadyToTurnInQuest: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.QuestStatus(m.Asset) == world.QuestStatusComplete
		}),
		criteria.PlayerHasCompletedQuestObjective: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.IsQuestObjectiveComplete(m.Asset)
		}),
		criteria.PlayerHasExploredArea: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.HasExploredArea(m.Asset)
		}),
		criteria.PlayerHasItemCount: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.ItemCount(m.Asset, true) >= m.SecondaryAsset
		}),
		criteria.Weather: never,
		criteria.PlayerFaction: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			index, ok := factionIndex(p.Team())
			return ok && index == m.Asset
		}),
		criteria.LfgStatusEqual:              never,
		criteria.LFgStatusEqualOrGreaterThan: never,
		criteria.PlayerHasCurrencyEqualOrGreaterThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.Currency(m.Asset) >= m.SecondaryAsset
		}),
		criteria.TargetThreatListSizeLessThan: never,
		criteria.PlayerHasTrackedCurrencyEqualOrGreaterThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.Currency(m.Asset) >= m.SecondaryAsset
		}),
		criteria.PlayerMapInstanceType:          never,
		criteria.PlayerInTimeWalkerInstance:     never,
		criteria.PvpSeasonIsActive:              never,
		criteria.PvpSeason:                      never,
		criteria.GarrisonTierEqualOrGreaterThan: never,
		criteria.PlayerHasCurrencyEqual: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.Currency(m.Asset) == m.SecondaryAsset
		}),
		criteria.PlayerHasCurrencyLessThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.Currency(m.Asset) < m.SecondaryAsset
		}),
		criteria.PlayerReputationRankEqual: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return uint32(p.ReputationRank(m.Asset)) == m.SecondaryAsset
		}),
		criteria.PlayerParagonReputationLevelEqualOrGreaterThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			if p.ParagonLevel(m.Asset) < m.SecondaryAsset {
				return false
			}
			// Kept unsatisfiable even when the level check passes.
			return false
		}),
		criteria.PlayerHasMount: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.HasMount(m.Asset)
		}),
		criteria.PlayerMountCountEqualOrGreaterThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.MountCount() >= m.Asset
		}),
		criteria.PlayerHasToy: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.HasToy(m.Asset)
		}),
		criteria.PlayerHasTransmogAppearance: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.HasTransmogAppearance(m.Asset)
		}),
		criteria.GameEventActive: func(e *Evaluator, _ Context, m *criteria.ModifierTreeRecord) bool {
			return e.globals.IsGameEventActive(m.Asset)
		},
		criteria.PlayerCovenant: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.CovenantID() == m.Asset
		}),
		criteria.PlayerInGroupWithAtLeastMembers: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return groupSize(p) > 0 && uint32(groupSize(p)) >= m.Asset
		}),
		criteria.PlayerDifficultyID: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.DifficultyID() == m.Asset
		}),
		criteria.PlayerGuildMemberCountInGroupEqualOrGreaterThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return guildMembersInGroup(p) >= m.Asset
		}),
		criteria.PlayerBankSlotsEqualOrGreaterThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.BankSlots() >= m.Asset
		}),
		criteria.PlayerHonorableKillsEqualOrGreaterThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.LifetimeHonorableKills() >= m.Asset
		}),
		criteria.PlayerReputationLessThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return int64(p.Reputation(m.Asset)) < int64(m.SecondaryAsset)
		}),
		criteria.PlayerReputationGreaterThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return int64(p.Reputation(m.Asset)) > int64(m.SecondaryAsset)
		}),
		criteria.PlayerDrunkValueLessThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.DrunkValue() < m.Asset
		}),
		criteria.PlayerAchievementPointsEqualOrLessThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.AchievementPoints() <= m.Asset
		}),
		criteria.PlayerRewardedQuestCountEqualOrGreaterThan: onPlayer(func(p world.Player, m *criteria.ModifierTreeRecord) bool {
			return p.RewardedQuestCount() >= m.Asset
		}),
		criteria.PlayerIsGameMaster: onPlayer(func(p world.Player, _ *criteria.ModifierTreeRecord) bool {
			return p.IsGameMaster()
		}),
	}
}
