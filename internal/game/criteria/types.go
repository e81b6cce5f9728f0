// Package criteria holds the static data model of criteria, criteria trees
// and modifier trees, and the Registry that indexes them.
package criteria

import "fmt"

// CriteriaType identifies the kind of world event a criterion tracks.
type CriteriaType uint16

const (
	KillCreature                               CriteriaType = 0
	WinBattleground                            CriteriaType = 1
	CompleteResearchProject                    CriteriaType = 2
	ReachLevel                                 CriteriaType = 5
	SkillRaised                                CriteriaType = 7
	EarnAchievement                            CriteriaType = 8
	CompleteQuestsCount                        CriteriaType = 9
	CompleteAnyDailyQuestPerDay                CriteriaType = 10
	CompleteQuestsInZone                       CriteriaType = 11
	CurrencyGained                             CriteriaType = 12
	DamageDealt                                CriteriaType = 13
	CompleteDailyQuest                         CriteriaType = 14
	ParticipateInBattleground                  CriteriaType = 15
	DieOnMap                                   CriteriaType = 16
	DieAnywhere                                CriteriaType = 17
	DieInInstance                              CriteriaType = 18
	KilledByCreature                           CriteriaType = 20
	KilledByPlayer                             CriteriaType = 23
	MaxDistFallenWithoutDying                  CriteriaType = 24
	DieFromEnviromentalDamage                  CriteriaType = 26
	CompleteQuest                              CriteriaType = 27
	BeSpellTarget                              CriteriaType = 28
	CastSpell                                  CriteriaType = 29
	TrackedWorldStateUIModified                CriteriaType = 30
	PVPKillInArea                              CriteriaType = 31
	WinArena                                   CriteriaType = 32
	ParticipateInArena                         CriteriaType = 33
	LearnOrKnowSpell                           CriteriaType = 34
	EarnHonorableKill                          CriteriaType = 35
	AcquireItem                                CriteriaType = 36
	WinAnyRankedArena                          CriteriaType = 37
	EarnTeamArenaRating                        CriteriaType = 38
	EarnPersonalArenaRating                    CriteriaType = 39
	AchieveSkillStep                           CriteriaType = 40
	UseItem                                    CriteriaType = 41
	LootItem                                   CriteriaType = 42
	RevealWorldMapOverlay                      CriteriaType = 43
	EarnTitle                                  CriteriaType = 44
	BankSlotsPurchased                         CriteriaType = 45
	ReputationGained                           CriteriaType = 46
	TotalExaltedFactions                       CriteriaType = 47
	GotHaircut                                 CriteriaType = 48
	EquipItemInSlot                            CriteriaType = 49
	RollNeed                                   CriteriaType = 50
	RollGreed                                  CriteriaType = 51
	DeliverKillingBlowToClass                  CriteriaType = 52
	DeliverKillingBlowToRace                   CriteriaType = 53
	DoEmote                                    CriteriaType = 54
	HealingDone                                CriteriaType = 55
	DeliveredKillingBlow                       CriteriaType = 56
	EquipItem                                  CriteriaType = 57
	MoneyEarnedFromSales                       CriteriaType = 59
	MoneySpentOnRespecs                        CriteriaType = 60
	TotalRespecs                               CriteriaType = 61
	MoneyEarnedFromQuesting                    CriteriaType = 62
	MoneySpentOnTaxis                          CriteriaType = 63
	KilledAllUnitsInSpawnRegion                CriteriaType = 64
	MoneySpentAtBarberShop                     CriteriaType = 65
	MoneySpentOnPostage                        CriteriaType = 66
	MoneyLootedFromCreatures                   CriteriaType = 67
	UseGameobject                              CriteriaType = 68
	GainAura                                   CriteriaType = 69
	KillPlayer                                 CriteriaType = 70
	CompleteChallengeMode                      CriteriaType = 71
	CatchFishInFishingHole                     CriteriaType = 72
	PlayerTriggerGameEvent                     CriteriaType = 73
	Login                                      CriteriaType = 74
	LearnSpellFromSkillLine                    CriteriaType = 75
	WinDuel                                    CriteriaType = 76
	LoseDuel                                   CriteriaType = 77
	KillAnyCreature                            CriteriaType = 78
	CreatedItemsByCastingSpell                 CriteriaType = 79
	MoneyEarnedFromAuctions                    CriteriaType = 80
	BattlePetAchievementPointsEarned           CriteriaType = 81
	ItemsPostedAtAuction                       CriteriaType = 82
	HighestAuctionBid                          CriteriaType = 83
	AuctionsWon                                CriteriaType = 84
	HighestAuctionSale                         CriteriaType = 85
	MostMoneyOwned                             CriteriaType = 86
	TotalReveredFactions                       CriteriaType = 87
	TotalHonoredFactions                       CriteriaType = 88
	TotalFactionsEncountered                   CriteriaType = 89
	LootAnyItem                                CriteriaType = 90
	ObtainAnyItem                              CriteriaType = 91
	AnyoneTriggerGameEventScenario             CriteriaType = 92
	RollAnything                               CriteriaType = 93
	RollAnyNeed                                CriteriaType = 94
	RollAnyGreed                               CriteriaType = 95
	ReleaseSpirit                              CriteriaType = 96
	AccountKnownPet                            CriteriaType = 97
	DefeatDungeonEncounterWhileElegibleForLoot CriteriaType = 98
	HighestDamageDone                          CriteriaType = 101
	HighestDamageTaken                         CriteriaType = 102
	TotalDamageTaken                           CriteriaType = 103
	LargestHealCast                            CriteriaType = 104
	TotalHealReceived                          CriteriaType = 105
	LargestHealReceived                        CriteriaType = 106
	AbandonAnyQuest                            CriteriaType = 107
	BuyTaxi                                    CriteriaType = 108
	GetLootByType                              CriteriaType = 109
	LandTargetedSpellOnTarget                  CriteriaType = 110
	LearnTradeskillSkillLine                   CriteriaType = 112
	HonorableKills                             CriteriaType = 113
	AcceptSummon                               CriteriaType = 114
	EarnAchievementPoints                      CriteriaType = 115
	RollDisenchant                             CriteriaType = 117
	RollAnyDisenchant                          CriteriaType = 118
	CompletedLFGDungeon                        CriteriaType = 119
	CompletedLFGDungeonWithStrangers           CriteriaType = 120
	KickInitiatorInLFGDungeon                  CriteriaType = 121
	KickVoterInLFGDungeon                      CriteriaType = 122
	KickTargetInLFGDungeon                     CriteriaType = 123
	AbandonedLFGDungeon                        CriteriaType = 124
	GuildAttainedLevel                         CriteriaType = 125
	DefeatDungeonEncounter                     CriteriaType = 165

	// CriteriaTypeCount bounds the dense type range.
	CriteriaTypeCount CriteriaType = 256
)

var criteriaTypeNames = map[CriteriaType]string{
	KillCreature:                "KILL_CREATURE",
	WinBattleground:             "WIN_BATTLEGROUND",
	CompleteResearchProject:     "COMPLETE_RESEARCH_PROJECT",
	ReachLevel:                  "REACH_LEVEL",
	SkillRaised:                 "SKILL_RAISED",
	EarnAchievement:             "EARN_ACHIEVEMENT",
	CompleteQuestsCount:         "COMPLETE_QUESTS_COUNT",
	CompleteAnyDailyQuestPerDay: "COMPLETE_ANY_DAILY_QUEST_PER_DAY",
	CompleteQuestsInZone:        "COMPLETE_QUESTS_IN_ZONE",
	CurrencyGained:              "CURRENCY_GAINED",
	DamageDealt:                 "DAMAGE_DEALT",
	CompleteDailyQuest:          "COMPLETE_DAILY_QUEST",
	ParticipateInBattleground:   "PARTICIPATE_IN_BATTLEGROUND",
	DieOnMap:                    "DIE_ON_MAP",
	DieAnywhere:                 "DIE_ANYWHERE",
	DieInInstance:               "DIE_IN_INSTANCE",
	KilledByCreature:            "KILLED_BY_CREATURE",
	KilledByPlayer:              "KILLED_BY_PLAYER",
	MaxDistFallenWithoutDying:   "MAX_DIST_FALLEN_WITHOUT_DYING",
	DieFromEnviromentalDamage:   "DIE_FROM_ENVIRONMENTAL_DAMAGE",
	CompleteQuest:               "COMPLETE_QUEST",
	BeSpellTarget:               "BE_SPELL_TARGET",
	CastSpell:                   "CAST_SPELL",
	PVPKillInArea:               "PVP_KILL_IN_AREA",
	WinArena:                    "WIN_ARENA",
	LearnOrKnowSpell:            "LEARN_OR_KNOW_SPELL",
	EarnHonorableKill:           "EARN_HONORABLE_KILL",
	AcquireItem:                 "ACQUIRE_ITEM",
	EarnTeamArenaRating:         "EARN_TEAM_ARENA_RATING",
	EarnPersonalArenaRating:     "EARN_PERSONAL_ARENA_RATING",
	AchieveSkillStep:            "ACHIEVE_SKILL_STEP",
	UseItem:                     "USE_ITEM",
	LootItem:                    "LOOT_ITEM",
	RevealWorldMapOverlay:       "REVEAL_WORLD_MAP_OVERLAY",
	BankSlotsPurchased:          "BANK_SLOTS_PURCHASED",
	ReputationGained:            "REPUTATION_GAINED",
	TotalExaltedFactions:        "TOTAL_EXALTED_FACTIONS",
	GotHaircut:                  "GOT_HAIRCUT",
	EquipItemInSlot:             "EQUIP_ITEM_IN_SLOT",
	DeliverKillingBlowToClass:   "DELIVER_KILLING_BLOW_TO_CLASS",
	DeliverKillingBlowToRace:    "DELIVER_KILLING_BLOW_TO_RACE",
	DoEmote:                     "DO_EMOTE",
	HealingDone:                 "HEALING_DONE",
	DeliveredKillingBlow:        "DELIVERED_KILLING_BLOW",
	EquipItem:                   "EQUIP_ITEM",
	MoneyEarnedFromSales:        "MONEY_EARNED_FROM_SALES",
	MoneyEarnedFromQuesting:     "MONEY_EARNED_FROM_QUESTING",
	MoneyLootedFromCreatures:    "MONEY_LOOTED_FROM_CREATURES",
	UseGameobject:               "USE_GAMEOBJECT",
	GainAura:                    "GAIN_AURA",
	KillPlayer:                  "KILL_PLAYER",
	CatchFishInFishingHole:      "CATCH_FISH_IN_FISHING_HOLE",
	Login:                       "LOGIN",
	WinDuel:                     "WIN_DUEL",
	LoseDuel:                    "LOSE_DUEL",
	KillAnyCreature:             "KILL_ANY_CREATURE",
	MoneyEarnedFromAuctions:     "MONEY_EARNED_FROM_AUCTIONS",
	ItemsPostedAtAuction:        "ITEMS_POSTED_AT_AUCTION",
	HighestAuctionBid:           "HIGHEST_AUCTION_BID",
	AuctionsWon:                 "AUCTIONS_WON",
	HighestAuctionSale:          "HIGHEST_AUCTION_SALE",
	LootAnyItem:                 "LOOT_ANY_ITEM",
	ObtainAnyItem:               "OBTAIN_ANY_ITEM",
	ReleaseSpirit:               "RELEASE_SPIRIT",
	HighestDamageDone:           "HIGHEST_DAMAGE_DONE",
	HighestDamageTaken:          "HIGHEST_DAMAGE_TAKEN",
	TotalDamageTaken:            "TOTAL_DAMAGE_TAKEN",
	LargestHealCast:             "LARGEST_HEAL_CAST",
	TotalHealReceived:           "TOTAL_HEAL_RECEIVED",
	LargestHealReceived:         "LARGEST_HEAL_RECEIVED",
	AbandonAnyQuest:             "ABANDON_ANY_QUEST",
	LandTargetedSpellOnTarget:   "LAND_TARGETED_SPELL_ON_TARGET",
	HonorableKills:              "HONORABLE_KILLS",
	AcceptSummon:                "ACCEPT_SUMMON",
	EarnAchievementPoints:       "EARN_ACHIEVEMENT_POINTS",
}

// String returns the string representation of the criteria type.
func (t CriteriaType) String() string {
	if name, ok := criteriaTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("CRITERIA_TYPE_%d", uint16(t))
}

// StoredByAsset reports whether criteria of this type are indexed by their
// asset so that an event only visits definitions matching misc1.
func (t CriteriaType) StoredByAsset() bool {
	switch t {
	case KillCreature,
		WinBattleground,
		SkillRaised,
		EarnAchievement,
		CompleteQuestsInZone,
		ParticipateInBattleground,
		KilledByCreature,
		CompleteQuest,
		BeSpellTarget,
		CastSpell,
		TrackedWorldStateUIModified,
		PVPKillInArea,
		LearnOrKnowSpell,
		AcquireItem,
		AchieveSkillStep,
		UseItem,
		LootItem,
		RevealWorldMapOverlay,
		ReputationGained,
		EquipItemInSlot,
		DeliverKillingBlowToClass,
		DeliverKillingBlowToRace,
		DoEmote,
		EquipItem,
		UseGameobject,
		GainAura,
		CatchFishInFishingHole,
		LearnSpellFromSkillLine,
		DefeatDungeonEncounterWhileElegibleForLoot,
		GetLootByType,
		LandTargetedSpellOnTarget,
		LearnTradeskillSkillLine,
		DefeatDungeonEncounter:
		return true
	default:
		return false
	}
}

// CriteriaFlags are per-definition behavior flags.
type CriteriaFlags uint32

const (
	CriteriaFlagFailAchievement        CriteriaFlags = 0x01
	CriteriaFlagResetOnStart           CriteriaFlags = 0x02
	CriteriaFlagServerOnly             CriteriaFlags = 0x04
	CriteriaFlagAlwaysSaveToDB         CriteriaFlags = 0x08
	CriteriaFlagAllowCriteriaDecrement CriteriaFlags = 0x10
	CriteriaFlagIsForQuest             CriteriaFlags = 0x20
)

// Has reports whether all bits in f are set.
func (c CriteriaFlags) Has(f CriteriaFlags) bool { return c&f == f }

// CriteriaTreeOperator is the aggregation rule of a criteria tree node.
type CriteriaTreeOperator uint8

const (
	OperatorComplete        CriteriaTreeOperator = 0
	OperatorNotComplete     CriteriaTreeOperator = 1
	OperatorCompleteAll     CriteriaTreeOperator = 4
	OperatorSum             CriteriaTreeOperator = 5
	OperatorHighest         CriteriaTreeOperator = 6
	OperatorStartedAtLeast  CriteriaTreeOperator = 7
	OperatorCompleteAtLeast CriteriaTreeOperator = 8
	OperatorProgressBar     CriteriaTreeOperator = 9
)

// String returns the string representation of the operator.
func (o CriteriaTreeOperator) String() string {
	switch o {
	case OperatorComplete:
		return "COMPLETE"
	case OperatorNotComplete:
		return "NOT_COMPLETE"
	case OperatorCompleteAll:
		return "COMPLETE_ALL"
	case OperatorSum:
		return "SUM"
	case OperatorHighest:
		return "HIGHEST"
	case OperatorStartedAtLeast:
		return "STARTED_AT_LEAST"
	case OperatorCompleteAtLeast:
		return "COMPLETE_AT_LEAST"
	case OperatorProgressBar:
		return "PROGRESS_BAR"
	default:
		return fmt.Sprintf("OPERATOR_%d", uint8(o))
	}
}

// CriteriaTreeFlags are per-node flags of a criteria tree.
type CriteriaTreeFlags uint16

const (
	TreeFlagProgressBar       CriteriaTreeFlags = 0x0001
	TreeFlagProgressIsDate    CriteriaTreeFlags = 0x0004
	TreeFlagShowCurrencyIcon  CriteriaTreeFlags = 0x0008
	TreeFlagAllianceOnly      CriteriaTreeFlags = 0x0200
	TreeFlagHordeOnly         CriteriaTreeFlags = 0x0400
	TreeFlagShowRequiredCount CriteriaTreeFlags = 0x0800
)

// Has reports whether all bits in f are set.
func (c CriteriaTreeFlags) Has(f CriteriaTreeFlags) bool { return c&f == f }

// ModifierTreeOperator is the boolean rule of a modifier tree node.
type ModifierTreeOperator uint8

const (
	ModifierSingleTrue  ModifierTreeOperator = 2
	ModifierSingleFalse ModifierTreeOperator = 3
	ModifierAll         ModifierTreeOperator = 4
	ModifierSome        ModifierTreeOperator = 8
)

// String returns the string representation of the operator.
func (o ModifierTreeOperator) String() string {
	switch o {
	case ModifierSingleTrue:
		return "SINGLE_TRUE"
	case ModifierSingleFalse:
		return "SINGLE_FALSE"
	case ModifierAll:
		return "ALL"
	case ModifierSome:
		return "SOME"
	default:
		return fmt.Sprintf("MODIFIER_OPERATOR_%d", uint8(o))
	}
}

// StartEvent arms a criterion's countdown timer.
type StartEvent uint8

const (
	StartEventNone                            StartEvent = 0
	StartEventReachLevel                      StartEvent = 1
	StartEventCompleteDailyQuest              StartEvent = 2
	StartEventStartBattleground               StartEvent = 3
	StartEventWinRankedArenaMatchWithTeamSize StartEvent = 4
	StartEventCompleteQuest                   StartEvent = 5
	StartEventBeSpellTarget                   StartEvent = 6
	StartEventCastSpell                       StartEvent = 7
	StartEventKillNPC                         StartEvent = 8
	StartEventKillPlayer                      StartEvent = 9
	StartEventCompleteDungeonEncounter        StartEvent = 10

	StartEventCount StartEvent = 11
)

// FailEvent resets a criterion's progress when it occurs.
type FailEvent uint8

const (
	FailEventNone                               FailEvent = 0
	FailEventDeath                              FailEvent = 1
	FailEventHours24WithoutCompletingDailyQuest FailEvent = 2
	FailEventLeaveBattleground                  FailEvent = 3
	FailEventLoseRankedArenaMatchWithTeamSize   FailEvent = 4
	FailEventLoseAura                           FailEvent = 5
	FailEventGainAura                           FailEvent = 6
	FailEventGainAuraEffect                     FailEvent = 7
	FailEventCastSpell                          FailEvent = 8
	FailEventBeSpellTarget                      FailEvent = 9
	FailEventModifyPartyStatus                  FailEvent = 10
	FailEventLosePetBattle                      FailEvent = 11
	FailEventBattlePetDies                      FailEvent = 12
	FailEventDailyQuestsCleared                 FailEvent = 13
	FailEventSendEvent                          FailEvent = 14

	FailEventCount FailEvent = 15
)

// AchievementFlags describe how an achievement completes and is announced.
type AchievementFlags uint32

const (
	AchievementFlagCounter             AchievementFlags = 0x00000001
	AchievementFlagHidden              AchievementFlags = 0x00000002
	AchievementFlagPlayNoVisual        AchievementFlags = 0x00000004
	AchievementFlagSumm                AchievementFlags = 0x00000008
	AchievementFlagMaxUsed             AchievementFlags = 0x00000010
	AchievementFlagReqCount            AchievementFlags = 0x00000020
	AchievementFlagAverage             AchievementFlags = 0x00000040
	AchievementFlagProgressBar         AchievementFlags = 0x00000080
	AchievementFlagRealmFirstReach     AchievementFlags = 0x00000100
	AchievementFlagRealmFirstKill      AchievementFlags = 0x00000200
	AchievementFlagShowInGuildNews     AchievementFlags = 0x00001000
	AchievementFlagShowInGuildHeader   AchievementFlags = 0x00002000
	AchievementFlagGuild               AchievementFlags = 0x00004000
	AchievementFlagShowGuildMembers    AchievementFlags = 0x00008000
	AchievementFlagShowCriteriaMembers AchievementFlags = 0x00010000
	AchievementFlagAccount             AchievementFlags = 0x00020000
	AchievementFlagTrackingFlag        AchievementFlags = 0x00100000
)

// Has reports whether any bit in f is set.
func (a AchievementFlags) Has(f AchievementFlags) bool { return a&f != 0 }

// RealmFirst reports whether the achievement is a realm-first kind.
func (a AchievementFlags) RealmFirst() bool {
	return a.Has(AchievementFlagRealmFirstReach | AchievementFlagRealmFirstKill)
}

// Faction restricts which side may earn an achievement.
type Faction int8

const (
	FactionAny      Faction = -1
	FactionHorde    Faction = 0
	FactionAlliance Faction = 1
)

// Scope is the kind of owner a criterion can progress for.
type Scope uint8

const (
	ScopePlayer Scope = 1 << iota
	ScopeGuild
	ScopeScenario
	ScopeQuestObjective
)

// String returns the string representation of the scope.
func (s Scope) String() string {
	switch s {
	case ScopePlayer:
		return "PLAYER"
	case ScopeGuild:
		return "GUILD"
	case ScopeScenario:
		return "SCENARIO"
	case ScopeQuestObjective:
		return "QUEST_OBJECTIVE"
	default:
		return fmt.Sprintf("SCOPE_%d", uint8(s))
	}
}
