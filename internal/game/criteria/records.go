package criteria

// CriteriaRecord is one flat criteria definition row.
type CriteriaRecord struct {
	ID                         uint32        `yaml:"id" json:"id"`
	Type                       CriteriaType  `yaml:"type" json:"type"`
	Asset                      uint32        `yaml:"asset" json:"asset"`
	ModifierTreeID             uint32        `yaml:"modifier_tree_id" json:"modifier_tree_id"`
	StartEvent                 StartEvent    `yaml:"start_event" json:"start_event"`
	StartAsset                 uint32        `yaml:"start_asset" json:"start_asset"`
	StartTimer                 uint32        `yaml:"start_timer" json:"start_timer"`
	FailEvent                  FailEvent     `yaml:"fail_event" json:"fail_event"`
	FailAsset                  uint32        `yaml:"fail_asset" json:"fail_asset"`
	Flags                      CriteriaFlags `yaml:"flags" json:"flags"`
	EligibilityWorldStateID    uint32        `yaml:"eligibility_world_state_id" json:"eligibility_world_state_id"`
	EligibilityWorldStateValue int64         `yaml:"eligibility_world_state_value" json:"eligibility_world_state_value"`
}

// CriteriaTreeRecord is one flat criteria tree row. A zero Parent marks a
// root and a zero CriteriaID an inner node.
type CriteriaTreeRecord struct {
	ID          uint32               `yaml:"id" json:"id"`
	Parent      uint32               `yaml:"parent" json:"parent"`
	CriteriaID  uint32               `yaml:"criteria_id" json:"criteria_id"`
	Amount      uint64               `yaml:"amount" json:"amount"`
	Operator    CriteriaTreeOperator `yaml:"operator" json:"operator"`
	Flags       CriteriaTreeFlags    `yaml:"flags" json:"flags"`
	OrderIndex  int32                `yaml:"order_index" json:"order_index"`
	Description string               `yaml:"description" json:"description"`
}

// ModifierTreeRecord is one flat modifier tree row.
type ModifierTreeRecord struct {
	ID             uint32               `yaml:"id" json:"id"`
	Parent         uint32               `yaml:"parent" json:"parent"`
	Type           ModifierType         `yaml:"type" json:"type"`
	Asset          uint32               `yaml:"asset" json:"asset"`
	SecondaryAsset uint32               `yaml:"secondary_asset" json:"secondary_asset"`
	TertiaryAsset  int32                `yaml:"tertiary_asset" json:"tertiary_asset"`
	Operator       ModifierTreeOperator `yaml:"operator" json:"operator"`
	Amount         int8                 `yaml:"amount" json:"amount"`
}

// AchievementRecord is the static definition of an achievement.
type AchievementRecord struct {
	ID             uint32           `yaml:"id" json:"id"`
	Title          string           `yaml:"title" json:"title"`
	Faction        Faction          `yaml:"faction" json:"faction"`
	InstanceID     int32            `yaml:"instance_id" json:"instance_id"`
	Supercedes     uint32           `yaml:"supercedes" json:"supercedes"`
	Category       uint32           `yaml:"category" json:"category"`
	Points         uint32           `yaml:"points" json:"points"`
	Flags          AchievementFlags `yaml:"flags" json:"flags"`
	CriteriaTree   uint32           `yaml:"criteria_tree" json:"criteria_tree"`
	SharesCriteria uint32           `yaml:"shares_criteria" json:"shares_criteria"`
	CovenantID     uint32           `yaml:"covenant_id" json:"covenant_id"`
}

// ScenarioStepRecord anchors a criteria tree to a scenario step.
type ScenarioStepRecord struct {
	ID             uint32 `yaml:"id" json:"id"`
	ScenarioID     uint32 `yaml:"scenario_id" json:"scenario_id"`
	OrderIndex     uint32 `yaml:"order_index" json:"order_index"`
	CriteriaTreeID uint32 `yaml:"criteria_tree_id" json:"criteria_tree_id"`
}

// QuestObjectiveRecord anchors a criteria tree to a quest objective.
type QuestObjectiveRecord struct {
	ID             uint32 `yaml:"id" json:"id"`
	QuestID        uint32 `yaml:"quest_id" json:"quest_id"`
	StorageIndex   int8   `yaml:"storage_index" json:"storage_index"`
	CriteriaTreeID uint32 `yaml:"criteria_tree_id" json:"criteria_tree_id"`
	Description    string `yaml:"description" json:"description"`
}

// WorldMapOverlayRecord lists the areas one map overlay reveals.
type WorldMapOverlayRecord struct {
	ID      uint32   `yaml:"id" json:"id"`
	AreaIDs []uint32 `yaml:"area_ids" json:"area_ids"`
}

// CriteriaDataType selects the check an extra gating row performs.
type CriteriaDataType uint8

const (
	DataTypeNone               CriteriaDataType = 0
	DataTypeTargetCreature     CriteriaDataType = 1
	DataTypeTargetClassRace    CriteriaDataType = 2
	DataTypeTargetLessHealth   CriteriaDataType = 3
	DataTypeSourceAura         CriteriaDataType = 5
	DataTypeTargetAura         CriteriaDataType = 7
	DataTypeValue              CriteriaDataType = 8
	DataTypeTargetLevel        CriteriaDataType = 9
	DataTypeTargetGender       CriteriaDataType = 10
	DataTypeScript             CriteriaDataType = 11
	DataTypeMapPlayerCount     CriteriaDataType = 13
	DataTypeTargetTeam         CriteriaDataType = 14
	DataTypeSourceDrunk        CriteriaDataType = 15
	DataTypeHoliday            CriteriaDataType = 16
	DataTypeSourceEquippedItem CriteriaDataType = 19
	DataTypeMapID              CriteriaDataType = 20
	DataTypeSourceClassRace    CriteriaDataType = 21
	DataTypeSourceKnownTitle   CriteriaDataType = 23
	DataTypeGameEvent          CriteriaDataType = 24
	DataTypeSourceItemQuality  CriteriaDataType = 25
)

// CriteriaDataRecord is an extra gating condition attached to a criterion.
type CriteriaDataRecord struct {
	CriteriaID uint32           `yaml:"criteria_id" json:"criteria_id"`
	Type       CriteriaDataType `yaml:"type" json:"type"`
	Value1     uint32           `yaml:"value1" json:"value1"`
	Value2     uint32           `yaml:"value2" json:"value2"`
	ScriptName string           `yaml:"script_name" json:"script_name"`
}

// AchievementRewardRecord is what a player receives on completion.
type AchievementRewardRecord struct {
	AchievementID  uint32 `yaml:"achievement_id" json:"achievement_id"`
	TitleAlliance  uint32 `yaml:"title_alliance" json:"title_alliance"`
	TitleHorde     uint32 `yaml:"title_horde" json:"title_horde"`
	ItemID         uint32 `yaml:"item_id" json:"item_id"`
	SenderCreature uint32 `yaml:"sender_creature" json:"sender_creature"`
	Subject        string `yaml:"subject" json:"subject"`
	Body           string `yaml:"body" json:"body"`
}

// Data is the full set of flat rows the Registry is built from.
type Data struct {
	Criteria           []CriteriaRecord
	CriteriaTrees      []CriteriaTreeRecord
	ModifierTrees      []ModifierTreeRecord
	Achievements       []AchievementRecord
	ScenarioSteps      []ScenarioStepRecord
	QuestObjectives    []QuestObjectiveRecord
	WorldMapOverlays   []WorldMapOverlayRecord
	CriteriaData       []CriteriaDataRecord
	AchievementRewards []AchievementRewardRecord
}
