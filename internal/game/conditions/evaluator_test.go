package conditions

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/realmcore/achievement-server-go/internal/game/criteria"
	"github.com/realmcore/achievement-server-go/internal/game/world"
	"github.com/realmcore/achievement-server-go/internal/game/world/worldtest"
)

func leaf(t criteria.ModifierType, asset, secondary uint32) *criteria.ModifierTreeNode {
	return &criteria.ModifierTreeNode{Entry: &criteria.ModifierTreeRecord{
		Type:           t,
		Asset:          asset,
		SecondaryAsset: secondary,
		Operator:       criteria.ModifierSingleTrue,
	}}
}

func group(op criteria.ModifierTreeOperator, amount int8, children ...*criteria.ModifierTreeNode) *criteria.ModifierTreeNode {
	return &criteria.ModifierTreeNode{
		Entry:    &criteria.ModifierTreeRecord{Operator: op, Amount: amount},
		Children: children,
	}
}

func newEvaluator(globals world.Globals) *Evaluator {
	return NewEvaluator(nil, globals, zap.NewNop())
}

func TestSatisfied_Operators(t *testing.T) {
	e := newEvaluator(worldtest.NewGlobals(time.Unix(0, 0)))
	player := worldtest.NewPlayer(1)
	player.UnitLevel = 20
	ctx := Context{Player: player}

	yes := leaf(criteria.PlayerLevelEqualOrGreaterThan, 10, 0)
	no := leaf(criteria.PlayerLevelEqualOrGreaterThan, 30, 0)

	t.Run("nil tree holds", func(t *testing.T) {
		assert.True(t, e.Satisfied(nil, ctx))
	})

	t.Run("single true", func(t *testing.T) {
		assert.True(t, e.Satisfied(yes, ctx))
		assert.False(t, e.Satisfied(no, ctx))
	})

	t.Run("single false negates", func(t *testing.T) {
		neg := leaf(criteria.PlayerLevelEqualOrGreaterThan, 30, 0)
		neg.Entry.Operator = criteria.ModifierSingleFalse
		assert.True(t, e.Satisfied(neg, ctx))
	})

	t.Run("zero leaf type never holds", func(t *testing.T) {
		none := leaf(criteria.ModifierNone, 0, 0)
		assert.False(t, e.Satisfied(none, ctx))
		none.Entry.Operator = criteria.ModifierSingleFalse
		assert.False(t, e.Satisfied(none, ctx))
	})

	t.Run("all", func(t *testing.T) {
		assert.True(t, e.Satisfied(group(criteria.ModifierAll, 0, yes, yes), ctx))
		assert.False(t, e.Satisfied(group(criteria.ModifierAll, 0, yes, no), ctx))
		assert.True(t, e.Satisfied(group(criteria.ModifierAll, 0), ctx), "empty all holds")
	})

	t.Run("some", func(t *testing.T) {
		assert.True(t, e.Satisfied(group(criteria.ModifierSome, 0, no, yes), ctx), "zero amount means one")
		assert.False(t, e.Satisfied(group(criteria.ModifierSome, 2, no, yes, no), ctx))
		assert.True(t, e.Satisfied(group(criteria.ModifierSome, 2, yes, no, yes), ctx))
		assert.False(t, e.Satisfied(group(criteria.ModifierSome, 1), ctx), "empty some fails")
	})

	t.Run("unknown operator fails", func(t *testing.T) {
		assert.False(t, e.Satisfied(group(criteria.ModifierTreeOperator(99), 0, yes), ctx))
	})
}

func TestSome_OrderIndependent(t *testing.T) {
	e := newEvaluator(worldtest.NewGlobals(time.Unix(0, 0)))
	player := worldtest.NewPlayer(1)
	player.UnitLevel = 20
	ctx := Context{Player: player}

	truth := []bool{true, false, true, false, true}
	nodes := make([]*criteria.ModifierTreeNode, len(truth))
	for i, ok := range truth {
		asset := uint32(30)
		if ok {
			asset = 10
		}
		nodes[i] = leaf(criteria.PlayerLevelEqualOrGreaterThan, asset, 0)
	}

	perms := permutations(nodes)
	for amount := int8(0); amount <= 5; amount++ {
		want := e.Satisfied(group(criteria.ModifierSome, amount, nodes...), ctx)
		for _, perm := range perms {
			got := e.Satisfied(group(criteria.ModifierSome, amount, perm...), ctx)
			require.Equal(t, want, got, "amount %d", amount)
		}
		assert.Equal(t, amount <= 3, want, "amount %d", amount)
	}
}

func permutations(in []*criteria.ModifierTreeNode) [][]*criteria.ModifierTreeNode {
	if len(in) <= 1 {
		return [][]*criteria.ModifierTreeNode{append([]*criteria.ModifierTreeNode(nil), in...)}
	}
	var out [][]*criteria.ModifierTreeNode
	for i := range in {
		rest := make([]*criteria.ModifierTreeNode, 0, len(in)-1)
		rest = append(rest, in[:i]...)
		rest = append(rest, in[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]*criteria.ModifierTreeNode{in[i]}, p...))
		}
	}
	return out
}

func TestLeafComparisons(t *testing.T) {
	globals := worldtest.NewGlobals(time.Unix(0, 0))
	e := newEvaluator(globals)

	player := worldtest.NewPlayer(1)
	player.UnitLevel = 60
	player.CurHealth = 50
	player.MaxHP = 100
	player.Items = map[uint32]uint32{900: 5}
	player.BankItems = map[uint32]uint32{900: 3}
	player.Currencies = map[uint32]uint32{7: 100}
	player.Reputations = map[uint32]int32{72: 3000, world.GuildFactionID: 500}

	target := worldtest.NewCreature(2, 1234)
	target.UnitLevel = 58
	target.CurHealth = 20
	target.MaxHP = 80

	ctx := Context{Player: player, Target: target}

	tests := []struct {
		name      string
		kind      criteria.ModifierType
		asset     uint32
		secondary uint32
		want      bool
	}{
		{"player health pct below is strict", criteria.PlayerHealthBelowPercent, 50, 0, false},
		{"player health pct below", criteria.PlayerHealthBelowPercent, 51, 0, true},
		{"player health pct above is strict", criteria.PlayerHealthAbovePercent, 50, 0, false},
		{"player health pct above", criteria.PlayerHealthAbovePercent, 49, 0, true},
		{"player health pct equals", criteria.PlayerHealthEqualsPercent, 50, 0, true},
		{"target health pct below", criteria.TargetHealthBelowPercent, 26, 0, true},
		{"target health pct below at boundary", criteria.TargetHealthBelowPercent, 25, 0, false},
		{"target health pct above", criteria.TargetHealthAbovePercent, 24, 0, true},
		{"target health value equals", criteria.TargetHealthEqualsValue, 20, 0, true},
		{"player health value below", criteria.PlayerHealthBelowValue, 50, 0, false},

		{"level at least inclusive", criteria.PlayerLevelEqualOrGreaterThan, 60, 0, true},
		{"level at least", criteria.PlayerLevelEqualOrGreaterThan, 61, 0, false},
		{"level at most inclusive", criteria.PlayerLevelEqualOrLessThan, 60, 0, true},
		{"level at most", criteria.PlayerLevelEqualOrLessThan, 59, 0, false},
		{"target level at least", criteria.TargetLevelEqualOrGreaterThan, 58, 0, true},
		{"target level at most", criteria.TargetLevelEqualOrLessThan, 57, 0, false},
		{"level equal", criteria.PlayerLevelEqual, 60, 0, true},
		{"level delta strict", criteria.PlayerToTargetLevelDeltaGreaterThan, 2, 0, false},
		{"level delta", criteria.PlayerToTargetLevelDeltaGreaterThan, 1, 0, true},

		{"item quantity excludes bank", criteria.PlayerHasItemQuantity, 900, 6, false},
		{"item quantity inclusive", criteria.PlayerHasItemQuantity, 900, 5, true},
		{"item count includes bank", criteria.PlayerHasItemCount, 900, 8, true},
		{"item count", criteria.PlayerHasItemCount, 900, 9, false},

		{"currency at least inclusive", criteria.PlayerHasCurrencyEqualOrGreaterThan, 7, 100, true},
		{"currency at least", criteria.PlayerHasCurrencyEqualOrGreaterThan, 7, 101, false},
		{"currency equal", criteria.PlayerHasCurrencyEqual, 7, 100, true},
		{"currency less is strict", criteria.PlayerHasCurrencyLessThan, 7, 100, false},
		{"currency less", criteria.PlayerHasCurrencyLessThan, 7, 101, true},
		{"missing currency reads zero", criteria.PlayerHasCurrencyLessThan, 8, 1, true},

		{"reputation at least inclusive", criteria.ReputationWithFactionIsEqualOrGreaterThan, 72, 3000, true},
		{"reputation at least", criteria.ReputationWithFactionIsEqualOrGreaterThan, 72, 3001, false},
		{"reputation less is strict", criteria.PlayerReputationLessThan, 72, 3000, false},
		{"reputation greater is strict", criteria.PlayerReputationGreaterThan, 72, 3000, false},
		{"reputation greater", criteria.PlayerReputationGreaterThan, 72, 2999, true},
		{"guild reputation", criteria.PlayerGuildReputationEqualOrGreaterThan, 500, 0, true},
		{"exalted requires rank", criteria.ExaltedWithFaction, 72, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Satisfied(leaf(tt.kind, tt.asset, tt.secondary), ctx))
		})
	}
}

func TestLeafTargetAbsentFailsClosed(t *testing.T) {
	e := newEvaluator(worldtest.NewGlobals(time.Unix(0, 0)))
	ctx := Context{Player: worldtest.NewPlayer(1)}

	for _, kind := range []criteria.ModifierType{
		criteria.TargetCreatureID,
		criteria.TargetIsPlayer,
		criteria.TargetHasAura,
		criteria.TargetHealthBelowPercent,
		criteria.TargetLevelEqualOrLessThan,
		criteria.PlayerLevelEqualTargetLevel,
		criteria.TargetIsPlayerAndMeetsCondition,
	} {
		t.Run(kind.String(), func(t *testing.T) {
			assert.False(t, e.Satisfied(leaf(kind, 0, 0), ctx))
		})
	}
}

func TestStubsAndUnknownKindsFail(t *testing.T) {
	e := newEvaluator(worldtest.NewGlobals(time.Unix(0, 0)))
	player := worldtest.NewPlayer(1)
	player.Paragon = map[uint32]uint32{5: 10}
	ctx := Context{Player: player}

	for _, kind := range []criteria.ModifierType{
		criteria.LegacyDungeonDifficulty,
		criteria.ClientVersionEqualOrLessThan,
		criteria.BattlePetTeamLevel,
		criteria.PlayerInLfgDungeon,
		criteria.ResearchProjectBranch,
		criteria.PlayerHasPvpRank,
		criteria.Weather,
		criteria.ModifierType(900),
	} {
		t.Run(fmt.Sprintf("kind %d", kind), func(t *testing.T) {
			assert.False(t, e.Satisfied(leaf(kind, 0, 0), ctx))
		})
	}

	t.Run("paragon level never holds", func(t *testing.T) {
		assert.False(t, e.Satisfied(leaf(criteria.PlayerParagonReputationLevelEqualOrGreaterThan, 5, 1), ctx))
	})
}

func TestRegisterOverridesLeaf(t *testing.T) {
	e := newEvaluator(worldtest.NewGlobals(time.Unix(0, 0)))
	ctx := Context{Player: worldtest.NewPlayer(1)}
	node := leaf(criteria.Weather, 3, 0)

	assert.False(t, e.Satisfied(node, ctx))
	e.Register(criteria.Weather, func(_ *Evaluator, _ Context, m *criteria.ModifierTreeRecord) bool {
		return m.Asset == 3
	})
	assert.True(t, e.Satisfied(node, ctx))

	e.Register(criteria.Weather, nil)
	assert.False(t, e.Satisfied(node, ctx))
}

func TestNestedModifierTree(t *testing.T) {
	registry, _ := criteria.Load(criteria.Data{
		ModifierTrees: []criteria.ModifierTreeRecord{
			{ID: 1, Type: criteria.ModifierTree, Asset: 2, Operator: criteria.ModifierSingleTrue},
			{ID: 2, Type: criteria.PlayerLevelEqualOrGreaterThan, Asset: 10, Operator: criteria.ModifierSingleTrue},
			{ID: 3, Type: criteria.ModifierTree, Asset: 3, Operator: criteria.ModifierSingleTrue},
			{ID: 4, Type: criteria.ModifierTree, Asset: 404, Operator: criteria.ModifierSingleTrue},
		},
	}, zap.NewNop())
	e := NewEvaluator(registry, worldtest.NewGlobals(time.Unix(0, 0)), zap.NewNop(), WithMaxDepth(8))

	player := worldtest.NewPlayer(1)
	player.UnitLevel = 12
	ctx := Context{Player: player}

	assert.True(t, e.Satisfied(registry.ModifierTree(1), ctx))
	assert.False(t, e.Satisfied(registry.ModifierTree(3), ctx), "self reference is cut by the depth bound")
	assert.False(t, e.Satisfied(registry.ModifierTree(4), ctx), "unknown reference fails")
}

func TestGlobalsLeaves(t *testing.T) {
	globals := worldtest.NewGlobals(time.Unix(1_000, 0))
	globals.GameEvents = map[uint32]bool{12: true}
	globals.WorldStates = map[uint32]int64{5: 3}
	globals.Items = map[uint32]world.ItemTemplate{77: {ID: 77, Quality: 4, ItemLevel: 200, Class: 2, SubClass: 7}}
	e := newEvaluator(globals)
	ctx := Context{Player: worldtest.NewPlayer(1), Misc1: 77}

	assert.True(t, e.Satisfied(leaf(criteria.GameEventActive, 12, 0), ctx))
	assert.False(t, e.Satisfied(leaf(criteria.GameEventActive, 13, 0), ctx))
	assert.True(t, e.Satisfied(leaf(criteria.PlayersRealmWorldState, 5, 3), ctx))
	assert.True(t, e.Satisfied(leaf(criteria.TimeBetween, 900, 1_000), ctx))
	assert.False(t, e.Satisfied(leaf(criteria.TimeBetween, 1_001, 2_000), ctx))
	assert.True(t, e.Satisfied(leaf(criteria.ItemQualityIsAtLeast, 4, 0), ctx))
	assert.False(t, e.Satisfied(leaf(criteria.ItemQualityIsExactly, 3, 0), ctx))
	assert.True(t, e.Satisfied(leaf(criteria.MinimumItemLevel, 200, 0), ctx))
	assert.True(t, e.Satisfied(leaf(criteria.ItemClassAndSubclass, 2, 7), ctx))

	ctx.Misc1 = 78
	assert.False(t, e.Satisfied(leaf(criteria.ItemQualityIsAtLeast, 0, 0), ctx), "unknown item fails")
}

func TestPlayerAbsentFailsClosed(t *testing.T) {
	e := newEvaluator(nil)
	assert.False(t, e.Satisfied(leaf(criteria.PlayerIsAlive, 0, 0), Context{}))
}
