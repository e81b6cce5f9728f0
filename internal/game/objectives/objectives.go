// Package objectives tracks quest objectives whose completion is described by
// a criteria tree.
package objectives

import (
	"sync"

	"github.com/realmcore/achievement-server-go/internal/game/conditions"
	"github.com/realmcore/achievement-server-go/internal/game/criteria"
	"github.com/realmcore/achievement-server-go/internal/game/events"
	"github.com/realmcore/achievement-server-go/internal/game/progress"
	"github.com/realmcore/achievement-server-go/internal/game/world"
	"go.uber.org/zap"
)

// Hooks is notified when a tracked objective completes.
type Hooks interface {
	OnObjectiveCompleted(player world.Player, objective *criteria.QuestObjectiveRecord)
}

// HooksFunc adapts a function to Hooks.
type HooksFunc func(player world.Player, objective *criteria.QuestObjectiveRecord)

func (f HooksFunc) OnObjectiveCompleted(player world.Player, objective *criteria.QuestObjectiveRecord) {
	f(player, objective)
}

// Options configures a Manager.
type Options struct {
	Registry  *criteria.Registry
	Evaluator *conditions.Evaluator
	Globals   world.Globals
	Publisher events.Publisher
	Hooks     Hooks
	Logger    *zap.Logger
}

// Manager holds one character's quest objective progress. Completed
// objectives live only as long as the session.
type Manager struct {
	registry *criteria.Registry
	hooks    Hooks
	logger   *zap.Logger
	tracker  *progress.Tracker

	mu        sync.Mutex
	completed map[uint32]struct{}
}

// NewManager creates the objective state of a character.
func NewManager(guid world.ObjectGUID, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	owner := world.PlayerOwner(guid)
	m := &Manager{
		registry:  opts.Registry,
		hooks:     opts.Hooks,
		logger:    logger.With(zap.Stringer("owner", owner)),
		completed: make(map[uint32]struct{}),
	}
	m.tracker = progress.NewTracker(progress.Options{
		Owner:     owner,
		Scope:     criteria.ScopeQuestObjective,
		Registry:  opts.Registry,
		Evaluator: opts.Evaluator,
		Globals:   opts.Globals,
		Policy:    m,
		Publisher: opts.Publisher,
		Logger:    logger,
	})
	return m
}

// Tracker returns the objective criteria progress.
func (m *Manager) Tracker() *progress.Tracker {
	return m.tracker
}

// UpdateCriteria forwards a world event to the objective tracker.
func (m *Manager) UpdateCriteria(ct criteria.CriteriaType, misc1, misc2, misc3 uint64, ref world.Unit, player world.Player) {
	m.tracker.UpdateCriteria(ct, misc1, misc2, misc3, ref, player)
}

// HasCompletedObjective reports whether the objective completed this session.
func (m *Manager) HasCompletedObjective(objectiveID uint32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.completed[objectiveID]
	return ok
}

// ResetObjective forgets the completion and the criteria progress of an
// objective, e.g. after its quest was abandoned.
func (m *Manager) ResetObjective(objectiveID uint32, treeID uint32) {
	m.mu.Lock()
	delete(m.completed, objectiveID)
	m.mu.Unlock()

	criteria.Walk(m.registry.CriteriaTree(treeID), func(tree *criteria.CriteriaTree) {
		if tree.Criteria != nil {
			m.tracker.RemoveCriteriaProgress(tree.Criteria)
		}
	})
}

// IsCompletedObjective evaluates the root tree of an objective against current
// progress.
func (m *Manager) IsCompletedObjective(objective *criteria.QuestObjectiveRecord) bool {
	tree := m.registry.CriteriaTree(objective.CriteriaTreeID)
	if tree == nil {
		return false
	}
	return m.tracker.IsCompletedCriteriaTree(tree)
}

func (m *Manager) CanUpdateCriteriaTree(_ *criteria.Criteria, tree *criteria.CriteriaTree, player world.Player) bool {
	objective := tree.QuestObjective
	if objective == nil {
		return false
	}
	if m.HasCompletedObjective(objective.ID) || player.IsQuestObjectiveComplete(objective.ID) {
		return false
	}
	switch player.QuestStatus(objective.QuestID) {
	case world.QuestStatusIncomplete, world.QuestStatusComplete:
		return true
	default:
		return false
	}
}

func (m *Manager) CanCompleteCriteriaTree(tree *criteria.CriteriaTree) bool {
	return tree.QuestObjective != nil
}

func (m *Manager) CompletedCriteriaTree(tree *criteria.CriteriaTree, player world.Player) {
	objective := tree.QuestObjective
	if objective == nil {
		return
	}
	if m.HasCompletedObjective(objective.ID) || !m.IsCompletedObjective(objective) {
		return
	}
	m.mu.Lock()
	if _, done := m.completed[objective.ID]; done {
		m.mu.Unlock()
		return
	}
	m.completed[objective.ID] = struct{}{}
	m.mu.Unlock()

	m.logger.Debug("quest objective completed",
		zap.Uint32("objective_id", objective.ID),
		zap.Uint32("quest_id", objective.QuestID),
	)
	if m.hooks != nil {
		m.hooks.OnObjectiveCompleted(player, objective)
	}
}

func (m *Manager) AfterCriteriaTreeUpdate(*criteria.CriteriaTree, world.Player) {}

func (m *Manager) HasAchievedTree(tree *criteria.CriteriaTree) bool {
	return tree.QuestObjective != nil && m.HasCompletedObjective(tree.QuestObjective.ID)
}

var _ progress.Policy = (*Manager)(nil)
