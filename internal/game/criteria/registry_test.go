package criteria

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleData() Data {
	return Data{
		Achievements: []AchievementRecord{
			{ID: 100, Title: "Slayer", Faction: FactionAny, InstanceID: -1, Points: 10, CriteriaTree: 1000},
			{ID: 200, Title: "Guild Slayer", Faction: FactionAny, InstanceID: -1, Points: 25, Flags: AchievementFlagGuild, CriteriaTree: 2000},
			{ID: 300, Title: "World First", Faction: FactionAny, InstanceID: -1, Flags: AchievementFlagRealmFirstKill, CriteriaTree: 3000},
			{ID: 400, Title: "Shared", Faction: FactionAny, InstanceID: -1, SharesCriteria: 100},
		},
		// Children are listed before their parents on purpose.
		CriteriaTrees: []CriteriaTreeRecord{
			{ID: 1002, Parent: 1000, CriteriaID: 11, Amount: 5, OrderIndex: 2},
			{ID: 1001, Parent: 1000, CriteriaID: 10, Amount: 10, OrderIndex: 1},
			{ID: 1000, Operator: OperatorCompleteAll},
			{ID: 2000, CriteriaID: 10, Amount: 100},
			{ID: 3000, CriteriaID: 12, Amount: 1},
			{ID: 9000, CriteriaID: 13, Amount: 1},
		},
		Criteria: []CriteriaRecord{
			{ID: 10, Type: KillCreature, Asset: 5001},
			{ID: 11, Type: RevealWorldMapOverlay, Asset: 77, ModifierTreeID: 500},
			{ID: 12, Type: Login, StartEvent: StartEventCastSpell, StartAsset: 42, StartTimer: 30, FailEvent: FailEventDeath},
			{ID: 13, Type: Login},
			{ID: 14, Type: Login},
		},
		ModifierTrees: []ModifierTreeRecord{
			{ID: 501, Parent: 500, Type: PlayerLevelEqualOrGreaterThan, Asset: 10, Operator: ModifierSingleTrue},
			{ID: 500, Operator: ModifierAll},
		},
		WorldMapOverlays: []WorldMapOverlayRecord{
			{ID: 77, AreaIDs: []uint32{3, 4, 4, 0}},
		},
	}
}

func TestLoad_LinksForwardReferences(t *testing.T) {
	r, stats := Load(sampleData(), zap.NewNop())

	root := r.CriteriaTree(1000)
	require.NotNil(t, root)
	require.Len(t, root.Children, 2)
	assert.Equal(t, uint32(1001), root.Children[0].ID, "children are ordered by order index")
	assert.Equal(t, uint32(1002), root.Children[1].ID)
	assert.Equal(t, uint32(100), root.Children[0].Achievement.ID, "anchor is inherited from the root")

	mod := r.ModifierTree(500)
	require.NotNil(t, mod)
	require.Len(t, mod.Children, 1)
	assert.Equal(t, uint32(501), mod.Children[0].Entry.ID)

	assert.Equal(t, 5, stats.CriteriaTrees)
	assert.Equal(t, 1, stats.CriteriaTreesUnanchored)
}

func TestLoad_DropsUnreferencedAndUnanchored(t *testing.T) {
	r, stats := Load(sampleData(), zap.NewNop())

	assert.Nil(t, r.Criteria(14), "criteria without a tree is dropped")
	assert.Nil(t, r.Criteria(13), "criteria whose only tree has no anchor is dropped")
	assert.Nil(t, r.CriteriaTree(9000))
	assert.Equal(t, 2, stats.CriteriaUnreferenced)
	assert.Equal(t, 3, stats.Criteria)
}

func TestLoad_TreesContainingSharedCriteria(t *testing.T) {
	r, _ := Load(sampleData(), zap.NewNop())

	trees := r.TreesForCriteria(10)
	ids := make([]uint32, 0, len(trees))
	for _, tree := range trees {
		ids = append(ids, tree.ID)
		assert.Same(t, r.Criteria(10), tree.Criteria)
	}
	assert.Empty(t, cmp.Diff([]uint32{1001, 2000}, ids))
	assert.Equal(t, ScopePlayer|ScopeGuild, r.Criteria(10).Scope)
}

func TestLoad_UnknownModifierTreeSkipsCriteria(t *testing.T) {
	data := sampleData()
	data.Criteria[0].ModifierTreeID = 999

	r, stats := Load(data, zap.NewNop())

	assert.Nil(t, r.Criteria(10))
	assert.Nil(t, r.CriteriaTree(1001).Criteria)
	assert.Empty(t, r.Candidates(ScopePlayer, KillCreature, 5001))
	assert.Equal(t, 1, stats.SkippedRows)
}

func TestLoad_UnknownCriteriaInTreeRowSkipped(t *testing.T) {
	data := sampleData()
	data.CriteriaTrees = append(data.CriteriaTrees, CriteriaTreeRecord{ID: 1003, Parent: 1000, CriteriaID: 4242})

	r, stats := Load(data, zap.NewNop())

	assert.Nil(t, r.CriteriaTree(1003))
	assert.Len(t, r.CriteriaTree(1000).Children, 2)
	assert.Equal(t, 1, stats.SkippedRows)
}

func TestLoad_CriteriaDataForUnknownCriteriaSkipped(t *testing.T) {
	data := sampleData()
	data.CriteriaData = []CriteriaDataRecord{
		{CriteriaID: 99999, Type: DataTypeTargetCreature, Value1: 1},
		{CriteriaID: 10, Type: DataTypeTargetLevel, Value1: 80},
		{CriteriaID: 10, Type: DataTypeValue, Value1: 1, Value2: 9},
	}

	var r *Registry
	var stats LoadStats
	require.NotPanics(t, func() { r, stats = Load(data, zap.NewNop()) })

	assert.Equal(t, 1, stats.CriteriaData)
	assert.Equal(t, 2, stats.SkippedRows)
	require.Len(t, r.Criteria(10).Data, 1)
	assert.Equal(t, DataTypeTargetLevel, r.Criteria(10).Data[0].Type)
}

func TestCandidates(t *testing.T) {
	r, _ := Load(sampleData(), zap.NewNop())

	t.Run("by asset", func(t *testing.T) {
		got := r.Candidates(ScopePlayer, KillCreature, 5001)
		require.Len(t, got, 1)
		assert.Equal(t, uint32(10), got[0].ID)
		assert.Empty(t, r.Candidates(ScopePlayer, KillCreature, 5002))
	})

	t.Run("zero asset returns whole type", func(t *testing.T) {
		assert.Len(t, r.Candidates(ScopePlayer, KillCreature, 0), 1)
	})

	t.Run("guild scope", func(t *testing.T) {
		assert.Len(t, r.Candidates(ScopeGuild, KillCreature, 5001), 1)
		assert.Empty(t, r.Candidates(ScopeGuild, RevealWorldMapOverlay, 3))
	})

	t.Run("map overlay fans out to distinct areas", func(t *testing.T) {
		assert.Len(t, r.Candidates(ScopePlayer, RevealWorldMapOverlay, 3), 1)
		assert.Len(t, r.Candidates(ScopePlayer, RevealWorldMapOverlay, 4), 1, "duplicate area ids are indexed once")
		assert.Empty(t, r.Candidates(ScopePlayer, RevealWorldMapOverlay, 77))
	})
}

func TestTimedAndFailEventIndices(t *testing.T) {
	r, _ := Load(sampleData(), zap.NewNop())

	timed := r.TimedCriteria(StartEventCastSpell)
	require.Len(t, timed, 1)
	assert.Equal(t, uint32(12), timed[0].ID)
	assert.True(t, timed[0].Timed())

	assert.Len(t, r.CriteriaByFailEvent(FailEventDeath, 0), 1)
	assert.Empty(t, r.CriteriaByFailEvent(FailEventDeath, 1))
}

func TestAchievementIndices(t *testing.T) {
	r, _ := Load(sampleData(), zap.NewNop())

	refs := r.AchievementsReferencing(100)
	require.Len(t, refs, 1)
	assert.Equal(t, uint32(400), refs[0].ID)

	realmFirst := r.RealmFirstAchievements()
	require.Len(t, realmFirst, 1)
	assert.Equal(t, uint32(300), realmFirst[0].ID)
}

func TestWalk_PostOrder(t *testing.T) {
	data := sampleData()
	data.CriteriaTrees = append(data.CriteriaTrees,
		CriteriaTreeRecord{ID: 1010, Parent: 1001, CriteriaID: 10},
		CriteriaTreeRecord{ID: 1011, Parent: 1001, CriteriaID: 10},
	)
	r, _ := Load(data, zap.NewNop())

	var order []uint32
	Walk(r.CriteriaTree(1000), func(tree *CriteriaTree) {
		order = append(order, tree.ID)
	})

	want := []uint32{1010, 1011, 1001, 1002, 1000}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Fatalf("walk order mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_BreaksCycles(t *testing.T) {
	data := Data{
		Achievements: []AchievementRecord{{ID: 1, CriteriaTree: 10, InstanceID: -1, Faction: FactionAny}},
		Criteria:     []CriteriaRecord{{ID: 1, Type: Login}},
		CriteriaTrees: []CriteriaTreeRecord{
			{ID: 10, Parent: 11, CriteriaID: 1},
			{ID: 11, Parent: 10},
		},
		ModifierTrees: []ModifierTreeRecord{
			{ID: 20, Parent: 21, Operator: ModifierAll},
			{ID: 21, Parent: 20, Operator: ModifierAll},
		},
	}

	r, _ := Load(data, zap.NewNop())

	visited := 0
	Walk(r.CriteriaTree(10), func(*CriteriaTree) { visited++ })
	assert.LessOrEqual(t, visited, 2)
	assert.Empty(t, r.ModifierTree(20).Children)
	assert.Empty(t, r.ModifierTree(21).Children)
}
