package objectives

import (
	"testing"
	"time"

	"github.com/realmcore/achievement-server-go/internal/game/criteria"
	"github.com/realmcore/achievement-server-go/internal/game/world"
	"github.com/realmcore/achievement-server-go/internal/game/world/worldtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testRegistry(t *testing.T) *criteria.Registry {
	t.Helper()
	registry, stats := criteria.Load(criteria.Data{
		QuestObjectives: []criteria.QuestObjectiveRecord{
			{ID: 900, QuestID: 50, CriteriaTreeID: 10},
		},
		CriteriaTrees: []criteria.CriteriaTreeRecord{
			{ID: 10, CriteriaID: 1, Amount: 3},
		},
		Criteria: []criteria.CriteriaRecord{
			{ID: 1, Type: criteria.KillCreature, Asset: 100},
		},
	}, zap.NewNop())
	require.Equal(t, 1, stats.Criteria)
	return registry
}

func newManager(t *testing.T) (*Manager, *[]uint32) {
	t.Helper()
	var completed []uint32
	m := NewManager(1, Options{
		Registry: testRegistry(t),
		Globals:  worldtest.NewGlobals(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		Hooks: HooksFunc(func(_ world.Player, objective *criteria.QuestObjectiveRecord) {
			completed = append(completed, objective.ID)
		}),
		Logger: zap.NewNop(),
	})
	return m, &completed
}

func kill(m *Manager, player world.Player) {
	m.UpdateCriteria(criteria.KillCreature, 100, 1, 0, worldtest.NewCreature(9, 100), player)
}

func TestObjective_RequiresQuestInLog(t *testing.T) {
	m, completed := newManager(t)
	player := worldtest.NewPlayer(1)

	kill(m, player)
	assert.Zero(t, m.Tracker().Len())

	player.Quests = map[uint32]world.QuestStatus{50: world.QuestStatusIncomplete}
	for i := 0; i < 3; i++ {
		kill(m, player)
	}
	assert.True(t, m.HasCompletedObjective(900))
	assert.Equal(t, []uint32{900}, *completed)

	kill(m, player)
	assert.Len(t, *completed, 1, "completed objectives stop progressing")
}

func TestObjective_RewardedQuestIgnored(t *testing.T) {
	m, _ := newManager(t)
	player := worldtest.NewPlayer(1)
	player.Quests = map[uint32]world.QuestStatus{50: world.QuestStatusRewarded}

	kill(m, player)

	assert.Zero(t, m.Tracker().Len())
}

func TestObjective_Reset(t *testing.T) {
	m, completed := newManager(t)
	player := worldtest.NewPlayer(1)
	player.Quests = map[uint32]world.QuestStatus{50: world.QuestStatusIncomplete}
	for i := 0; i < 3; i++ {
		kill(m, player)
	}

	m.ResetObjective(900, 10)

	assert.False(t, m.HasCompletedObjective(900))
	assert.Zero(t, m.Tracker().Len())

	for i := 0; i < 3; i++ {
		kill(m, player)
	}
	assert.Equal(t, []uint32{900, 900}, *completed)
}

func TestObjective_CompletesOnlyWithRootTree(t *testing.T) {
	registry, _ := criteria.Load(criteria.Data{
		QuestObjectives: []criteria.QuestObjectiveRecord{
			{ID: 900, QuestID: 50, CriteriaTreeID: 10},
		},
		CriteriaTrees: []criteria.CriteriaTreeRecord{
			{ID: 10, Operator: criteria.OperatorCompleteAll},
			{ID: 11, Parent: 10, CriteriaID: 1, Amount: 1, OrderIndex: 1},
			{ID: 12, Parent: 10, CriteriaID: 2, Amount: 1, OrderIndex: 2},
		},
		Criteria: []criteria.CriteriaRecord{
			{ID: 1, Type: criteria.KillCreature, Asset: 100},
			{ID: 2, Type: criteria.KillCreature, Asset: 200},
		},
	}, zap.NewNop())

	var completed []uint32
	m := NewManager(1, Options{
		Registry: registry,
		Globals:  worldtest.NewGlobals(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		Hooks: HooksFunc(func(_ world.Player, objective *criteria.QuestObjectiveRecord) {
			completed = append(completed, objective.ID)
		}),
		Logger: zap.NewNop(),
	})
	player := worldtest.NewPlayer(1)
	player.Quests = map[uint32]world.QuestStatus{50: world.QuestStatusIncomplete}

	m.UpdateCriteria(criteria.KillCreature, 100, 1, 0, worldtest.NewCreature(9, 100), player)

	assert.False(t, m.Tracker().IsCompletedCriteriaTree(registry.CriteriaTree(10)))
	assert.False(t, m.HasCompletedObjective(900), "one finished leaf does not complete the objective")
	assert.Empty(t, completed)

	m.UpdateCriteria(criteria.KillCreature, 200, 1, 0, worldtest.NewCreature(10, 200), player)

	assert.True(t, m.HasCompletedObjective(900))
	assert.Equal(t, []uint32{900}, completed)
}
