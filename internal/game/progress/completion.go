package progress

import (
	"github.com/realmcore/achievement-server-go/internal/game/counters"
	"github.com/realmcore/achievement-server-go/internal/game/criteria"
)

const (
	// skillStepSize is the skill value covered by one skill step.
	skillStepSize = 75
	// achievementPointsGoal is the point total that completes an
	// EarnAchievementPoints criterion regardless of its tree amount.
	achievementPointsGoal = 9000
)

// IsCompletedCriteria reports whether the stored counter of c reaches
// requiredAmount under the counting rule of its type.
func (t *Tracker) IsCompletedCriteria(c *criteria.Criteria, requiredAmount uint64) bool {
	if c == nil {
		return false
	}
	value, ok := t.counter(c)
	if !ok {
		return false
	}

	switch c.Entry.Type {
	case criteria.EarnAchievement,
		criteria.CompleteQuest,
		criteria.LearnOrKnowSpell,
		criteria.RevealWorldMapOverlay,
		criteria.EquipItem,
		criteria.EquipItemInSlot:
		return value >= 1
	case criteria.AchieveSkillStep:
		return value >= requiredAmount*skillStepSize
	case criteria.EarnAchievementPoints:
		return value >= achievementPointsGoal
	case criteria.WinArena:
		return requiredAmount != 0 && value >= requiredAmount
	case criteria.Login:
		return true
	}
	if isStatistic(c.Entry.Type) {
		return false
	}
	return value >= requiredAmount
}

// isStatistic reports whether a type only records a running value and never
// completes on its own.
func isStatistic(ct criteria.CriteriaType) bool {
	switch ct {
	case criteria.HighestAuctionBid,
		criteria.HighestAuctionSale,
		criteria.MostMoneyOwned,
		criteria.HighestDamageDone,
		criteria.HighestDamageTaken,
		criteria.LargestHealCast,
		criteria.LargestHealReceived,
		criteria.TotalDamageTaken,
		criteria.TotalHealReceived,
		criteria.MaxDistFallenWithoutDying:
		return true
	default:
		return false
	}
}

// IsCompletedCriteriaTree evaluates the aggregation operator of tree against
// the stored counters.
func (t *Tracker) IsCompletedCriteriaTree(tree *criteria.CriteriaTree) bool {
	if tree == nil || !t.policy.CanCompleteCriteriaTree(tree) {
		return false
	}

	amount := tree.Entry.Amount
	switch tree.Entry.Operator {
	case criteria.OperatorComplete:
		return tree.Criteria != nil && t.IsCompletedCriteria(tree.Criteria, amount)
	case criteria.OperatorNotComplete:
		return tree.Criteria == nil || !t.IsCompletedCriteria(tree.Criteria, amount)
	case criteria.OperatorCompleteAll:
		for _, child := range tree.Children {
			if !t.IsCompletedCriteriaTree(child) {
				return false
			}
		}
		return true
	case criteria.OperatorSum:
		return t.SumProgress(tree) >= amount
	case criteria.OperatorHighest:
		var highest uint64
		criteria.Walk(tree, func(node *criteria.CriteriaTree) {
			if value, ok := t.counter(node.Criteria); ok {
				highest = max(highest, value)
			}
		})
		return highest >= amount
	case criteria.OperatorStartedAtLeast:
		var started uint64
		for _, child := range tree.Children {
			if value, ok := t.counter(child.Criteria); ok && value >= 1 {
				started++
				if started >= amount {
					return true
				}
			}
		}
		return false
	case criteria.OperatorCompleteAtLeast:
		var completed uint64
		for _, child := range tree.Children {
			if t.IsCompletedCriteriaTree(child) {
				completed++
				if completed >= amount {
					return true
				}
			}
		}
		return false
	case criteria.OperatorProgressBar:
		var progress uint64
		criteria.Walk(tree, func(node *criteria.CriteriaTree) {
			if value, ok := t.counter(node.Criteria); ok {
				progress = counters.SaturatingAdd(progress, counters.SaturatingMul(value, node.Entry.Amount))
			}
		})
		return progress >= amount
	default:
		return false
	}
}

// SumProgress adds up the counters of every criterion in the subtree.
func (t *Tracker) SumProgress(tree *criteria.CriteriaTree) uint64 {
	var sum uint64
	criteria.Walk(tree, func(node *criteria.CriteriaTree) {
		if value, ok := t.counter(node.Criteria); ok {
			sum = counters.SaturatingAdd(sum, value)
		}
	})
	return sum
}
