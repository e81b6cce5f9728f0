package criteria

import "fmt"

// ModifierType selects the leaf condition a modifier tree node checks.
type ModifierType uint16

const (
	ModifierNone ModifierType = 0

	PlayerInebriationLevelEqualOrGreaterThan        ModifierType = 1
	PlayerMeetsCondition                            ModifierType = 2
	MinimumItemLevel                                ModifierType = 3
	TargetCreatureID                                ModifierType = 4
	TargetIsPlayer                                  ModifierType = 5
	TargetIsDead                                    ModifierType = 6
	TargetIsOppositeFaction                         ModifierType = 7
	PlayerHasAura                                   ModifierType = 8
	PlayerHasAuraEffect                             ModifierType = 9
	TargetHasAura                                   ModifierType = 10
	TargetHasAuraEffect                             ModifierType = 11
	TargetHasAuraState                              ModifierType = 12
	PlayerHasAuraState                              ModifierType = 13
	ItemQualityIsAtLeast                            ModifierType = 14
	ItemQualityIsExactly                            ModifierType = 15
	PlayerIsAlive                                   ModifierType = 16
	PlayerIsInArea                                  ModifierType = 17
	TargetIsInArea                                  ModifierType = 18
	ItemID                                          ModifierType = 19
	LegacyDungeonDifficulty                         ModifierType = 20
	PlayerToTargetLevelDeltaGreaterThan             ModifierType = 21
	TargetToPlayerLevelDeltaGreaterThan             ModifierType = 22
	PlayerLevelEqualTargetLevel                     ModifierType = 23
	PlayerInArenaWithTeamSize                       ModifierType = 24
	PlayerRace                                      ModifierType = 25
	PlayerClass                                     ModifierType = 26
	TargetRace                                      ModifierType = 27
	TargetClass                                     ModifierType = 28
	LessThanTappers                                 ModifierType = 29
	CreatureType                                    ModifierType = 30
	CreatureFamily                                  ModifierType = 31
	PlayerMap                                       ModifierType = 32
	ClientVersionEqualOrLessThan                    ModifierType = 33
	BattlePetTeamLevel                              ModifierType = 34
	PlayerIsNotInParty                              ModifierType = 35
	PlayerIsNotInRaid                               ModifierType = 36
	PlayerHasPvpRank                                ModifierType = 37
	PlayerHasTitle                                  ModifierType = 38
	PlayerLevelEqual                                ModifierType = 39
	TargetLevelEqual                                ModifierType = 40
	PlayerIsInZone                                  ModifierType = 41
	TargetIsInZone                                  ModifierType = 42
	PlayerHealthBelowPercent                        ModifierType = 43
	PlayerHealthAbovePercent                        ModifierType = 44
	PlayerHealthEqualsPercent                       ModifierType = 45
	TargetHealthBelowPercent                        ModifierType = 46
	TargetHealthAbovePercent                        ModifierType = 47
	TargetHealthEqualsPercent                       ModifierType = 48
	PlayerHealthBelowValue                          ModifierType = 49
	PlayerHealthAboveValue                          ModifierType = 50
	PlayerHealthEqualsValue                         ModifierType = 51
	TargetHealthBelowValue                          ModifierType = 52
	TargetHealthAboveValue                          ModifierType = 53
	TargetHealthEqualsValue                         ModifierType = 54
	TargetIsPlayerAndMeetsCondition                 ModifierType = 55
	PlayerHasMoreThanAchievementPoints              ModifierType = 56
	PlayerInLfgDungeon                              ModifierType = 57
	PlayerInRandomLfgDungeon                        ModifierType = 58
	PlayerInFirstRandomLfgDungeon                   ModifierType = 59
	PlayerInRankedArenaMatch                        ModifierType = 60
	PlayerInGuildParty                              ModifierType = 61
	PlayerGuildReputationEqualOrGreaterThan         ModifierType = 62
	PlayerInRatedBattleground                       ModifierType = 63
	PlayerBattlegroundRatingEqualOrGreaterThan      ModifierType = 64
	ResearchProjectRarity                           ModifierType = 65
	ResearchProjectBranch                           ModifierType = 66
	WorldStateExpression                            ModifierType = 67
	DungeonDifficulty                               ModifierType = 68
	PlayerLevelEqualOrGreaterThan                   ModifierType = 69
	TargetLevelEqualOrGreaterThan                   ModifierType = 70
	PlayerLevelEqualOrLessThan                      ModifierType = 71
	TargetLevelEqualOrLessThan                      ModifierType = 72
	ModifierTree                                    ModifierType = 73
	PlayerScenario                                  ModifierType = 74
	TillersReputationGreaterThan                    ModifierType = 75
	BattlePetAchievementPointsEqualOrGreaterThan    ModifierType = 76
	UniqueBattlePetsEqualOrGreaterThan              ModifierType = 77
	BattlePetType                                   ModifierType = 78
	BattlePetHealthPercentLessThan                  ModifierType = 79
	GuildGroupMemberCountEqualOrGreaterThan         ModifierType = 80
	BattlePetOpponentCreatureID                     ModifierType = 81
	PlayerScenarioStep                              ModifierType = 82
	ChallengeModeMedal                              ModifierType = 83
	PlayerOnQuest                                   ModifierType = 84
	ExaltedWithFaction                              ModifierType = 85
	EarnedAchievementOnAccount                      ModifierType = 86
	EarnedAchievementOnPlayer                       ModifierType = 87
	OrderOfTheCloudSerpentReputationGreaterThan     ModifierType = 88
	BattlePetQuality                                ModifierType = 89
	BattlePetFightWasPVP                            ModifierType = 90
	BattlePetSpecies                                ModifierType = 91
	ServerExpansionEqualOrGreaterThan               ModifierType = 92
	PlayerHasBattlePetJournalLock                   ModifierType = 93
	FriendshipRepReactionIsMet                      ModifierType = 94
	ReputationWithFactionIsEqualOrGreaterThan       ModifierType = 95
	ItemClassAndSubclass                            ModifierType = 96
	PlayerGender                                    ModifierType = 97
	PlayerNativeGender                              ModifierType = 98
	PlayerSkillEqualOrGreaterThan                   ModifierType = 99
	PlayerLanguageSkillEqualOrGreaterThan           ModifierType = 100
	PlayerIsInNormalPhase                           ModifierType = 101
	PlayerIsInPhase                                 ModifierType = 102
	PlayerIsInPhaseGroup                            ModifierType = 103
	PlayerKnowsSpell                                ModifierType = 104
	PlayerHasItemQuantity                           ModifierType = 105
	PlayerExpansionLevelEqualOrGreaterThan          ModifierType = 106
	PlayerHasAuraWithLabel                          ModifierType = 107
	PlayersRealmWorldState                          ModifierType = 108
	TimeBetween                                     ModifierType = 109
	PlayerHasCompletedQuest                         ModifierType = 110
	PlayerIsReadyToTurnInQuest                      ModifierType = 111
	PlayerHasCompletedQuestObjective                ModifierType = 112
	PlayerHasExploredArea                           ModifierType = 113
	PlayerHasItemCount                              ModifierType = 114
	Weather                                         ModifierType = 115
	PlayerFaction                                   ModifierType = 116
	LfgStatusEqual                                  ModifierType = 117
	LFgStatusEqualOrGreaterThan                     ModifierType = 118
	PlayerHasCurrencyEqualOrGreaterThan             ModifierType = 119
	TargetThreatListSizeLessThan                    ModifierType = 120
	PlayerHasTrackedCurrencyEqualOrGreaterThan      ModifierType = 121
	PlayerMapInstanceType                           ModifierType = 122
	PlayerInTimeWalkerInstance                      ModifierType = 123
	PvpSeasonIsActive                               ModifierType = 124
	PvpSeason                                       ModifierType = 125
	GarrisonTierEqualOrGreaterThan                  ModifierType = 126
	PlayerHasCurrencyEqual                          ModifierType = 127
	PlayerHasCurrencyLessThan                       ModifierType = 128
	PlayerReputationRankEqual                       ModifierType = 129
	PlayerParagonReputationLevelEqualOrGreaterThan  ModifierType = 130
	PlayerHasMount                                  ModifierType = 131
	PlayerMountCountEqualOrGreaterThan              ModifierType = 132
	PlayerHasToy                                    ModifierType = 133
	PlayerHasTransmogAppearance                     ModifierType = 134
	GameEventActive                                 ModifierType = 135
	PlayerCovenant                                  ModifierType = 136
	PlayerInGroupWithAtLeastMembers                 ModifierType = 137
	PlayerDifficultyID                              ModifierType = 138
	PlayerGuildMemberCountInGroupEqualOrGreaterThan ModifierType = 139
	PlayerBankSlotsEqualOrGreaterThan               ModifierType = 140
	PlayerHonorableKillsEqualOrGreaterThan          ModifierType = 141
	PlayerReputationLessThan                        ModifierType = 142
	PlayerReputationGreaterThan                     ModifierType = 143
	PlayerDrunkValueLessThan                        ModifierType = 144
	PlayerAchievementPointsEqualOrLessThan          ModifierType = 145
	PlayerRewardedQuestCountEqualOrGreaterThan      ModifierType = 146
	PlayerIsGameMaster                              ModifierType = 147
)

var modifierTypeNames = map[ModifierType]string{
	ModifierNone:                                   "NONE",
	PlayerInebriationLevelEqualOrGreaterThan:       "PLAYER_INEBRIATION_LEVEL_EQUAL_OR_GREATER_THAN",
	PlayerMeetsCondition:                           "PLAYER_MEETS_CONDITION",
	TargetCreatureID:                               "TARGET_CREATURE_ID",
	TargetIsPlayer:                                 "TARGET_IS_PLAYER",
	PlayerHasAura:                                  "PLAYER_HAS_AURA",
	TargetHasAura:                                  "TARGET_HAS_AURA",
	PlayerHealthBelowPercent:                       "PLAYER_HEALTH_BELOW_PERCENT",
	PlayerHealthAbovePercent:                       "PLAYER_HEALTH_ABOVE_PERCENT",
	TargetHealthBelowPercent:                       "TARGET_HEALTH_BELOW_PERCENT",
	TargetHealthAbovePercent:                       "TARGET_HEALTH_ABOVE_PERCENT",
	PlayerLevelEqualOrGreaterThan:                  "PLAYER_LEVEL_EQUAL_OR_GREATER_THAN",
	PlayerLevelEqualOrLessThan:                     "PLAYER_LEVEL_EQUAL_OR_LESS_THAN",
	ModifierTree:                                   "MODIFIER_TREE",
	PlayerOnQuest:                                  "PLAYER_ON_QUEST",
	ExaltedWithFaction:                             "EXALTED_WITH_FACTION",
	EarnedAchievementOnPlayer:                      "EARNED_ACHIEVEMENT_ON_PLAYER",
	ReputationWithFactionIsEqualOrGreaterThan:      "REPUTATION_WITH_FACTION_IS_EQUAL_OR_GREATER_THAN",
	PlayerHasCurrencyEqualOrGreaterThan:            "PLAYER_HAS_CURRENCY_EQUAL_OR_GREATER_THAN",
	PlayerParagonReputationLevelEqualOrGreaterThan: "PLAYER_PARAGON_REPUTATION_LEVEL_EQUAL_OR_GREATER_THAN",
}

// String returns the string representation of the modifier type.
func (t ModifierType) String() string {
	if name, ok := modifierTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("MODIFIER_TYPE_%d", uint16(t))
}
