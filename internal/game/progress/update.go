package progress

import (
	"github.com/realmcore/achievement-server-go/internal/game/conditions"
	"github.com/realmcore/achievement-server-go/internal/game/counters"
	"github.com/realmcore/achievement-server-go/internal/game/criteria"
	"github.com/realmcore/achievement-server-go/internal/game/world"
	"go.uber.org/zap"
)

// UpdateCriteria dispatches one world event of type ct to every candidate
// criterion of the owner's scope. misc1 usually names the asset involved and
// misc2 a quantity; ref is the unit the event refers to, if any.
func (t *Tracker) UpdateCriteria(ct criteria.CriteriaType, misc1, misc2, misc3 uint64, ref world.Unit, player world.Player) {
	if player == nil {
		t.logger.Debug("criteria update without reference player ignored", zap.Stringer("criteria_type", ct))
		return
	}
	if player.IsGameMaster() {
		t.logger.Debug("criteria update skipped for game master",
			zap.Stringer("criteria_type", ct),
			zap.Uint64("misc1", misc1),
		)
		return
	}

	for _, c := range t.registry.Candidates(t.scope, ct, uint32(misc1)) {
		trees := t.registry.TreesForCriteria(c.ID)
		if !t.canUpdateCriteria(c, trees, misc1, misc2, misc3, ref, player) {
			continue
		}

		change, progressType, ok := t.progressChange(c, misc1, misc2, player)
		if !ok {
			continue
		}
		t.SetCriteriaProgress(c, change, player, progressType)

		for _, tree := range trees {
			if t.IsCompletedCriteriaTree(tree) {
				t.policy.CompletedCriteriaTree(tree, player)
			}
			t.policy.AfterCriteriaTreeUpdate(tree, player)
		}
	}
}

// CheckAllCriteria re-dispatches every criteria type with zero event values
// so that set-style counters pick up the player's current state.
func (t *Tracker) CheckAllCriteria(player world.Player) {
	for ct := criteria.CriteriaType(0); ct < criteria.CriteriaTypeCount; ct++ {
		t.UpdateCriteria(ct, 0, 0, 0, nil, player)
	}
}

func (t *Tracker) canUpdateCriteria(c *criteria.Criteria, trees []*criteria.CriteriaTree, misc1, misc2, misc3 uint64, ref world.Unit, player world.Player) bool {
	if t.disabled[c.ID] {
		t.logger.Debug("disabled criteria skipped", zap.Uint32("criteria_id", c.ID))
		return false
	}

	treePassed := false
	for _, tree := range trees {
		if t.canUpdateCriteriaTree(c, tree, player) {
			treePassed = true
			break
		}
	}
	if !treePassed {
		return false
	}

	if !t.requirementsSatisfied(c, misc1, misc2, misc3, ref, player) {
		t.logger.Debug("criteria requirements not satisfied",
			zap.Uint32("criteria_id", c.ID),
			zap.Stringer("criteria_type", c.Entry.Type),
		)
		return false
	}

	ctx := conditions.Context{Player: player, Target: ref, Misc1: misc1, Misc2: misc2}
	if c.Modifier != nil && t.eval != nil && !t.eval.Satisfied(c.Modifier, ctx) {
		t.logger.Debug("criteria modifier tree not satisfied", zap.Uint32("criteria_id", c.ID))
		return false
	}

	if !conditionsSatisfied(c, player) {
		return false
	}

	if id := c.Entry.EligibilityWorldStateID; id != 0 {
		if t.globals.WorldStateValue(id, player.MapID()) != c.Entry.EligibilityWorldStateValue {
			return false
		}
	}

	if t.eval != nil && !t.eval.DataSatisfied(c, ctx) {
		return false
	}
	return true
}

func (t *Tracker) canUpdateCriteriaTree(c *criteria.Criteria, tree *criteria.CriteriaTree, player world.Player) bool {
	flags := tree.Entry.Flags
	if flags.Has(criteria.TreeFlagHordeOnly) && player.Team() != world.TeamHorde {
		return false
	}
	if flags.Has(criteria.TreeFlagAllianceOnly) && player.Team() != world.TeamAlliance {
		return false
	}
	return t.policy.CanUpdateCriteriaTree(c, tree, player)
}

// conditionsSatisfied applies the implicit conditions of a criterion's fail
// event: progress that would be reset by leaving a battleground only counts
// inside one, and progress reset by group changes only counts while solo.
func conditionsSatisfied(c *criteria.Criteria, player world.Player) bool {
	switch c.Entry.FailEvent {
	case criteria.FailEventLeaveBattleground:
		return player.InBattleground()
	case criteria.FailEventModifyPartyStatus:
		return player.Group() == nil
	default:
		return true
	}
}

func (t *Tracker) requirementsSatisfied(c *criteria.Criteria, misc1, misc2, misc3 uint64, ref world.Unit, player world.Player) bool {
	asset := uint64(c.Entry.Asset)
	switch c.Entry.Type {
	case criteria.AcceptSummon,
		criteria.CompleteDailyQuest,
		criteria.ItemsPostedAtAuction,
		criteria.MoneySpentOnRespecs,
		criteria.MoneySpentAtBarberShop,
		criteria.MoneySpentOnPostage,
		criteria.MoneySpentOnTaxis,
		criteria.MoneyEarnedFromSales,
		criteria.MoneyEarnedFromQuesting,
		criteria.MoneyLootedFromCreatures,
		criteria.MoneyEarnedFromAuctions,
		criteria.AuctionsWon,
		criteria.DamageDealt,
		criteria.HealingDone,
		criteria.TotalDamageTaken,
		criteria.TotalHealReceived,
		criteria.HighestAuctionBid,
		criteria.HighestAuctionSale,
		criteria.HighestDamageDone,
		criteria.HighestDamageTaken,
		criteria.LargestHealCast,
		criteria.LargestHealReceived,
		criteria.MostMoneyOwned,
		criteria.MaxDistFallenWithoutDying,
		criteria.DieAnywhere,
		criteria.DieInInstance,
		criteria.ReleaseSpirit,
		criteria.EarnHonorableKill,
		criteria.DeliveredKillingBlow,
		criteria.KillPlayer,
		criteria.KillAnyCreature,
		criteria.WinAnyRankedArena,
		criteria.ParticipateInArena,
		criteria.WinDuel,
		criteria.LoseDuel,
		criteria.TotalRespecs,
		criteria.GotHaircut,
		criteria.EarnTitle,
		criteria.RollNeed,
		criteria.RollGreed,
		criteria.RollAnything,
		criteria.RollAnyNeed,
		criteria.RollAnyGreed,
		criteria.RollDisenchant,
		criteria.RollAnyDisenchant,
		criteria.AbandonAnyQuest,
		criteria.BuyTaxi,
		criteria.CompleteAnyDailyQuestPerDay,
		criteria.CompletedLFGDungeon,
		criteria.CompletedLFGDungeonWithStrangers,
		criteria.KickInitiatorInLFGDungeon,
		criteria.KickVoterInLFGDungeon,
		criteria.KickTargetInLFGDungeon,
		criteria.AbandonedLFGDungeon,
		criteria.LootAnyItem,
		criteria.ObtainAnyItem,
		criteria.EarnAchievementPoints,
		criteria.EarnTeamArenaRating,
		criteria.EarnPersonalArenaRating,
		criteria.CompleteChallengeMode,
		criteria.KilledAllUnitsInSpawnRegion,
		criteria.PlayerTriggerGameEvent,
		criteria.AnyoneTriggerGameEventScenario,
		criteria.CreatedItemsByCastingSpell:
		return misc1 != 0
	case criteria.KillCreature,
		criteria.KilledByCreature,
		criteria.BeSpellTarget,
		criteria.CastSpell,
		criteria.GainAura,
		criteria.UseItem,
		criteria.LootItem,
		criteria.EquipItemInSlot,
		criteria.DoEmote,
		criteria.DeliverKillingBlowToClass,
		criteria.DeliverKillingBlowToRace,
		criteria.UseGameobject,
		criteria.CatchFishInFishingHole,
		criteria.TrackedWorldStateUIModified,
		criteria.LearnSpellFromSkillLine,
		criteria.LearnTradeskillSkillLine,
		criteria.GetLootByType,
		criteria.LandTargetedSpellOnTarget,
		criteria.DefeatDungeonEncounter,
		criteria.DefeatDungeonEncounterWhileElegibleForLoot:
		return misc1 != 0 && misc1 == asset
	case criteria.EquipItem:
		if misc1 == 0 {
			return player.HasItemEquipped(c.Entry.Asset)
		}
		return misc1 == asset
	case criteria.WinBattleground,
		criteria.ParticipateInBattleground,
		criteria.DieOnMap,
		criteria.WinArena:
		return misc1 != 0 && uint64(player.MapID()) == asset
	case criteria.SkillRaised,
		criteria.AchieveSkillStep,
		criteria.CompleteQuestsInZone,
		criteria.ReputationGained,
		criteria.AcquireItem,
		criteria.CompleteQuest:
		return misc1 == 0 || misc1 == asset
	case criteria.LearnOrKnowSpell:
		if misc1 != 0 && misc1 != asset {
			return false
		}
		return player.HasSpell(c.Entry.Asset)
	case criteria.EarnAchievement:
		return player.HasAchieved(c.Entry.Asset) || (misc1 != 0 && misc1 == asset)
	case criteria.RevealWorldMapOverlay:
		return t.overlayRevealed(c, misc1, player)
	case criteria.KilledByPlayer:
		return misc1 != 0 && ref != nil && ref.IsPlayer()
	case criteria.DieFromEnviromentalDamage:
		return misc1 != 0 && misc2 == asset
	case criteria.CurrencyGained:
		return misc1 != 0 && misc1 == asset && misc2 != 0
	case criteria.PVPKillInArea:
		return misc1 != 0 && uint64(player.AreaID()) == asset
	case criteria.Login,
		criteria.ReachLevel,
		criteria.CompleteQuestsCount,
		criteria.BankSlotsPurchased,
		criteria.TotalExaltedFactions,
		criteria.HonorableKills:
		return true
	default:
		return true
	}
}

func (t *Tracker) overlayRevealed(c *criteria.Criteria, misc1 uint64, player world.Player) bool {
	overlay := t.registry.WorldMapOverlay(c.Entry.Asset)
	if overlay == nil {
		return false
	}
	for _, area := range overlay.AreaIDs {
		if area == 0 {
			continue
		}
		if misc1 != 0 {
			if uint64(area) == misc1 {
				return true
			}
			continue
		}
		if player.HasExploredArea(area) {
			return true
		}
	}
	return false
}

// progressChange computes how an accepted event moves the counter of c. It
// reports false when the event carries nothing to record.
func (t *Tracker) progressChange(c *criteria.Criteria, misc1, misc2 uint64, player world.Player) (uint64, counters.ProgressType, bool) {
	asset := c.Entry.Asset
	switch c.Entry.Type {
	// one per event
	case criteria.WinBattleground,
		criteria.CompleteDailyQuest,
		criteria.ParticipateInBattleground,
		criteria.DieOnMap,
		criteria.DieAnywhere,
		criteria.DieInInstance,
		criteria.KilledByCreature,
		criteria.KilledByPlayer,
		criteria.DieFromEnviromentalDamage,
		criteria.BeSpellTarget,
		criteria.CastSpell,
		criteria.TrackedWorldStateUIModified,
		criteria.PVPKillInArea,
		criteria.WinArena,
		criteria.ParticipateInArena,
		criteria.EarnHonorableKill,
		criteria.WinAnyRankedArena,
		criteria.UseItem,
		criteria.EarnTitle,
		criteria.GotHaircut,
		criteria.RollNeed,
		criteria.RollGreed,
		criteria.DeliverKillingBlowToClass,
		criteria.DeliverKillingBlowToRace,
		criteria.DoEmote,
		criteria.DeliveredKillingBlow,
		criteria.TotalRespecs,
		criteria.KilledAllUnitsInSpawnRegion,
		criteria.UseGameobject,
		criteria.GainAura,
		criteria.KillPlayer,
		criteria.CompleteChallengeMode,
		criteria.CatchFishInFishingHole,
		criteria.PlayerTriggerGameEvent,
		criteria.LearnSpellFromSkillLine,
		criteria.WinDuel,
		criteria.LoseDuel,
		criteria.KillAnyCreature,
		criteria.CreatedItemsByCastingSpell,
		criteria.ItemsPostedAtAuction,
		criteria.AuctionsWon,
		criteria.AnyoneTriggerGameEventScenario,
		criteria.RollAnything,
		criteria.RollAnyNeed,
		criteria.RollAnyGreed,
		criteria.ReleaseSpirit,
		criteria.DefeatDungeonEncounterWhileElegibleForLoot,
		criteria.AbandonAnyQuest,
		criteria.BuyTaxi,
		criteria.GetLootByType,
		criteria.LandTargetedSpellOnTarget,
		criteria.LearnTradeskillSkillLine,
		criteria.AcceptSummon,
		criteria.RollDisenchant,
		criteria.RollAnyDisenchant,
		criteria.CompletedLFGDungeon,
		criteria.CompletedLFGDungeonWithStrangers,
		criteria.KickInitiatorInLFGDungeon,
		criteria.KickVoterInLFGDungeon,
		criteria.KickTargetInLFGDungeon,
		criteria.AbandonedLFGDungeon,
		criteria.CompleteAnyDailyQuestPerDay,
		criteria.DefeatDungeonEncounter:
		return 1, counters.ProgressAccumulate, true

	// amount carried in misc1
	case criteria.DamageDealt,
		criteria.HealingDone,
		criteria.MoneyEarnedFromSales,
		criteria.MoneySpentOnRespecs,
		criteria.MoneyEarnedFromQuesting,
		criteria.MoneySpentOnTaxis,
		criteria.MoneySpentAtBarberShop,
		criteria.MoneySpentOnPostage,
		criteria.MoneyLootedFromCreatures,
		criteria.MoneyEarnedFromAuctions,
		criteria.TotalDamageTaken,
		criteria.TotalHealReceived,
		criteria.EarnAchievementPoints:
		return misc1, counters.ProgressAccumulate, true

	// amount carried in misc2
	case criteria.AcquireItem,
		criteria.LootItem,
		criteria.CurrencyGained,
		criteria.LootAnyItem,
		criteria.ObtainAnyItem:
		return misc2, counters.ProgressAccumulate, true
	case criteria.KillCreature:
		if misc2 == 0 {
			return 1, counters.ProgressAccumulate, true
		}
		return misc2, counters.ProgressAccumulate, true

	// running maximum of misc1
	case criteria.HighestAuctionBid,
		criteria.HighestAuctionSale,
		criteria.MostMoneyOwned,
		criteria.HighestDamageDone,
		criteria.HighestDamageTaken,
		criteria.LargestHealCast,
		criteria.LargestHealReceived,
		criteria.MaxDistFallenWithoutDying,
		criteria.EarnTeamArenaRating,
		criteria.EarnPersonalArenaRating:
		return misc1, counters.ProgressHighest, true

	// absolute values read from the player
	case criteria.ReachLevel:
		return uint64(player.Level()), counters.ProgressSet, true
	case criteria.SkillRaised:
		value := player.BaseSkillValue(asset)
		return uint64(value), counters.ProgressSet, value != 0
	case criteria.AchieveSkillStep:
		value := player.MaxSkillValue(asset)
		return uint64(value), counters.ProgressSet, value != 0
	case criteria.CompleteQuestsCount:
		return uint64(player.RewardedQuestCount()), counters.ProgressSet, true
	case criteria.CompleteQuestsInZone:
		if misc1 == 0 {
			return 0, counters.ProgressAccumulate, false
		}
		return 1, counters.ProgressAccumulate, true
	case criteria.BankSlotsPurchased:
		return uint64(player.BankSlots()), counters.ProgressSet, true
	case criteria.TotalExaltedFactions:
		return uint64(player.ExaltedFactionCount()), counters.ProgressSet, true
	case criteria.ReputationGained:
		rep := player.Reputation(asset)
		return uint64(max(rep, 0)), counters.ProgressSet, rep > 0
	case criteria.HonorableKills:
		return uint64(player.LifetimeHonorableKills()), counters.ProgressSet, true
	case criteria.Login,
		criteria.EquipItem,
		criteria.EquipItemInSlot,
		criteria.RevealWorldMapOverlay,
		criteria.EarnAchievement:
		return 1, counters.ProgressSet, true
	case criteria.CompleteQuest:
		return 1, counters.ProgressSet, misc1 != 0 || player.IsQuestRewarded(asset)
	case criteria.LearnOrKnowSpell:
		return 1, counters.ProgressSet, misc1 != 0 || player.HasSpell(asset)

	default:
		t.logger.Debug("unhandled criteria type",
			zap.Uint32("criteria_id", c.ID),
			zap.Stringer("criteria_type", c.Entry.Type),
		)
		return 0, counters.ProgressAccumulate, false
	}
}
