// Package achievements turns criteria tree results into earned achievements
// for players and guilds.
package achievements

import (
	"sort"
	"sync"
	"time"

	"github.com/realmcore/achievement-server-go/internal/game/conditions"
	"github.com/realmcore/achievement-server-go/internal/game/criteria"
	"github.com/realmcore/achievement-server-go/internal/game/events"
	"github.com/realmcore/achievement-server-go/internal/game/progress"
	"github.com/realmcore/achievement-server-go/internal/game/storage"
	"github.com/realmcore/achievement-server-go/internal/game/world"
	"go.uber.org/zap"
)

// Hooks receives completion side effects handled outside the engine.
type Hooks interface {
	OnAchievementCompleted(owner world.Owner, ach *criteria.AchievementRecord, player world.Player)
	RewardAchievement(player world.Player, ach *criteria.AchievementRecord, reward *criteria.AchievementRewardRecord)
}

// NopHooks ignores every completion.
type NopHooks struct{}

func (NopHooks) OnAchievementCompleted(world.Owner, *criteria.AchievementRecord, world.Player) {}

func (NopHooks) RewardAchievement(world.Player, *criteria.AchievementRecord, *criteria.AchievementRewardRecord) {}

// Completion is an earned achievement.
type Completion struct {
	Date              time.Time
	CompletingPlayers []world.ObjectGUID
	Changed           bool
}

// Options holds the services shared by every manager.
type Options struct {
	Registry   *criteria.Registry
	Evaluator  *conditions.Evaluator
	Globals    world.Globals
	RealmFirst *RealmFirst
	Publisher  events.Publisher
	Hooks      Hooks
	// Disabled criteria never progress.
	Disabled map[uint32]bool
	Logger   *zap.Logger
}

// manager holds what player and guild achievements have in common. It is the
// progress.Policy of its tracker.
type manager struct {
	owner      world.Owner
	guild      bool
	registry   *criteria.Registry
	globals    world.Globals
	realmFirst *RealmFirst
	publisher  events.Publisher
	hooks      Hooks
	logger     *zap.Logger
	tracker    *progress.Tracker

	// grant completes an achievement the way the concrete manager does.
	grant func(ach *criteria.AchievementRecord, player world.Player)

	mu        sync.Mutex
	completed map[uint32]*Completion
	removed   map[uint32]struct{}
	points    uint32
}

func newManager(owner world.Owner, guild bool, opts Options) *manager {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	globals := opts.Globals
	if globals == nil && opts.Evaluator != nil {
		globals = opts.Evaluator.Globals()
	}
	if globals == nil {
		globals = world.NewNullGlobals(logger)
	}
	publisher := opts.Publisher
	if publisher == nil {
		publisher = events.Discard{}
	}
	hooks := opts.Hooks
	if hooks == nil {
		hooks = NopHooks{}
	}
	realmFirst := opts.RealmFirst
	if realmFirst == nil {
		realmFirst = NewRealmFirst(globals, 0, logger)
	}

	m := &manager{
		owner:      owner,
		guild:      guild,
		registry:   opts.Registry,
		globals:    globals,
		realmFirst: realmFirst,
		publisher:  publisher,
		hooks:      hooks,
		logger:     logger.With(zap.Stringer("owner", owner)),
		completed:  make(map[uint32]*Completion),
		removed:    make(map[uint32]struct{}),
	}
	scope := criteria.ScopePlayer
	if guild {
		scope = criteria.ScopeGuild
	}
	m.tracker = progress.NewTracker(progress.Options{
		Owner:     owner,
		Scope:     scope,
		Registry:  opts.Registry,
		Evaluator: opts.Evaluator,
		Globals:   globals,
		Policy:    m,
		Publisher: publisher,
		Disabled:  opts.Disabled,
		Logger:    logger,
	})
	return m
}

// Owner returns the owner key.
func (m *manager) Owner() world.Owner {
	return m.owner
}

// Tracker returns the criteria progress of the owner.
func (m *manager) Tracker() *progress.Tracker {
	return m.tracker
}

// UpdateCriteria forwards a world event to the owner's tracker.
func (m *manager) UpdateCriteria(ct criteria.CriteriaType, misc1, misc2, misc3 uint64, ref world.Unit, player world.Player) {
	m.tracker.UpdateCriteria(ct, misc1, misc2, misc3, ref, player)
}

// HasAchieved reports whether the owner earned the achievement.
func (m *manager) HasAchieved(id uint32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.completed[id]
	return ok
}

// Completion returns the completion record of an achievement.
func (m *manager) Completion(id uint32) (Completion, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.completed[id]
	if !ok {
		return Completion{}, false
	}
	out := *c
	out.CompletingPlayers = append([]world.ObjectGUID(nil), c.CompletingPlayers...)
	return out, true
}

// CompletedAchievements returns the earned achievement ids in ascending order.
func (m *manager) CompletedAchievements() []uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]uint32, 0, len(m.completed))
	for id := range m.completed {
		ids = append(ids, id)
	}
	sortUint32(ids)
	return ids
}

// Points returns the achievement points of the owner.
func (m *manager) Points() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.points
}

// CheckAllAchievementCriteria recomputes every set-style counter.
func (m *manager) CheckAllAchievementCriteria(player world.Player) {
	m.tracker.CheckAllCriteria(player)
}

// Tick advances the owner's criteria timers.
func (m *manager) Tick(elapsedMs uint32) {
	m.tracker.Tick(elapsedMs)
}

// rootTree returns the tree an achievement completes through. Achievements
// without their own tree use the tree of the achievement they share
// criteria with.
func (m *manager) rootTree(ach *criteria.AchievementRecord) *criteria.CriteriaTree {
	if ach.CriteriaTree != 0 {
		return m.registry.CriteriaTree(ach.CriteriaTree)
	}
	if ach.SharesCriteria != 0 {
		if shared := m.registry.Achievement(ach.SharesCriteria); shared != nil && shared.CriteriaTree != 0 {
			return m.registry.CriteriaTree(shared.CriteriaTree)
		}
	}
	return nil
}

// IsCompletedAchievement evaluates an achievement against current progress.
func (m *manager) IsCompletedAchievement(ach *criteria.AchievementRecord) bool {
	if ach.Flags.Has(criteria.AchievementFlagCounter) {
		return false
	}
	tree := m.rootTree(ach)
	if tree == nil {
		return false
	}
	if ach.Flags.Has(criteria.AchievementFlagSumm) {
		return m.tracker.SumProgress(tree) >= tree.Entry.Amount
	}
	return m.tracker.IsCompletedCriteriaTree(tree)
}

// CanUpdateCriteriaTree implements progress.Policy.
func (m *manager) CanUpdateCriteriaTree(c *criteria.Criteria, tree *criteria.CriteriaTree, player world.Player) bool {
	ach := tree.Achievement
	if ach == nil {
		return false
	}
	if ach.Flags.Has(criteria.AchievementFlagGuild) != m.guild {
		return false
	}
	if m.HasAchieved(ach.ID) {
		m.logger.Debug("criteria of earned achievement skipped",
			zap.Uint32("criteria_id", c.ID),
			zap.Uint32("achievement_id", ach.ID),
		)
		return false
	}
	if ach.InstanceID != -1 && player.MapID() != uint32(ach.InstanceID) {
		return false
	}
	if !factionAllows(ach, player) {
		return false
	}
	if ach.CovenantID != 0 && player.CovenantID() != ach.CovenantID {
		return false
	}
	if ach.Flags.RealmFirst() {
		if m.realmFirst.IsRealmCompleted(ach) {
			return false
		}
		if !player.CanEarnRealmFirst() {
			return false
		}
	}
	return true
}

// CanCompleteCriteriaTree implements progress.Policy.
func (m *manager) CanCompleteCriteriaTree(tree *criteria.CriteriaTree) bool {
	ach := tree.Achievement
	if ach == nil {
		return false
	}
	if ach.Flags.Has(criteria.AchievementFlagCounter) {
		return false
	}
	if ach.Flags.RealmFirst() && m.realmFirst.IsRealmCompleted(ach) {
		return false
	}
	return true
}

// CompletedCriteriaTree implements progress.Policy.
func (m *manager) CompletedCriteriaTree(tree *criteria.CriteriaTree, player world.Player) {
	ach := tree.Achievement
	if ach == nil || ach.Flags.Has(criteria.AchievementFlagCounter) || m.HasAchieved(ach.ID) {
		return
	}
	if m.IsCompletedAchievement(ach) {
		m.grant(ach, player)
	}
}

// AfterCriteriaTreeUpdate implements progress.Policy. Sum-style achievements
// and achievements sharing this one's criteria are rechecked here since their
// completion does not follow from the updated tree alone.
func (m *manager) AfterCriteriaTreeUpdate(tree *criteria.CriteriaTree, player world.Player) {
	ach := tree.Achievement
	if ach == nil {
		return
	}
	if ach.Flags.Has(criteria.AchievementFlagSumm) && m.IsCompletedAchievement(ach) {
		m.grant(ach, player)
	}
	for _, ref := range m.registry.AchievementsReferencing(ach.ID) {
		if m.IsCompletedAchievement(ref) {
			m.grant(ref, player)
		}
	}
}

// HasAchievedTree implements progress.Policy.
func (m *manager) HasAchievedTree(tree *criteria.CriteriaTree) bool {
	return tree.Achievement != nil && m.HasAchieved(tree.Achievement.ID)
}

// record stores a new completion and adds its points. It reports false when
// the achievement was already earned.
func (m *manager) record(ach *criteria.AchievementRecord, players []world.ObjectGUID) (time.Time, bool) {
	now := m.globals.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.completed[ach.ID]; ok {
		return time.Time{}, false
	}
	m.completed[ach.ID] = &Completion{Date: now, CompletingPlayers: players, Changed: true}
	delete(m.removed, ach.ID)
	if !ach.Flags.Has(criteria.AchievementFlagTrackingFlag) {
		m.points += ach.Points
	}
	return now, true
}

// claimRealmFirst registers a realm-first claim. Rejected claims are not
// granted.
func (m *manager) claimRealmFirst(ach *criteria.AchievementRecord) bool {
	if !ach.Flags.RealmFirst() {
		return true
	}
	if m.realmFirst.SetRealmCompleted(ach) {
		return true
	}
	m.logger.Warn("realm first claim rejected", zap.Uint32("achievement_id", ach.ID))
	return false
}

func (m *manager) afterGrant(ach *criteria.AchievementRecord, player world.Player, date time.Time, silent bool) {
	if !silent {
		m.publisher.Publish(events.NewAchievementEvent(events.EventAchievementEarned, m.owner, ach.ID, date))
	}

	m.tracker.UpdateCriteria(criteria.EarnAchievement, uint64(ach.ID), 0, 0, nil, player)
	m.tracker.UpdateCriteria(criteria.EarnAchievementPoints, uint64(ach.Points), 0, 0, nil, player)

	if broadcast, ok := m.broadcast(ach, player, date); ok {
		m.publisher.Publish(broadcast)
	}

	m.hooks.OnAchievementCompleted(m.owner, ach, player)
	m.logger.Info("achievement completed",
		zap.Uint32("achievement_id", ach.ID),
		zap.String("title", ach.Title),
		zap.Uint32("points", ach.Points),
	)
}

func (m *manager) broadcast(ach *criteria.AchievementRecord, player world.Player, date time.Time) (events.Event, bool) {
	event := events.NewAchievementEvent(events.EventAchievementBroadcast, m.owner, ach.ID, date)
	if player != nil {
		event.Actor = player.GUID()
	}
	switch {
	case ach.Flags.RealmFirst():
		event.Scope = events.BroadcastRealm
	case m.guild:
		event.Scope = events.BroadcastGuild
		event.GuildID = m.owner.ID
	case ach.Flags.Has(criteria.AchievementFlagShowInGuildNews) && player != nil && player.GuildID() != 0:
		event.Scope = events.BroadcastGuild
		event.GuildID = player.GuildID()
	default:
		return events.Event{}, false
	}
	return event, true
}

// RemoveAchievement deletes an earned achievement and its points.
func (m *manager) RemoveAchievement(id uint32) bool {
	m.mu.Lock()
	if _, ok := m.completed[id]; !ok {
		m.mu.Unlock()
		return false
	}
	delete(m.completed, id)
	m.removed[id] = struct{}{}
	if ach := m.registry.Achievement(id); ach != nil && !ach.Flags.Has(criteria.AchievementFlagTrackingFlag) {
		m.points -= min(m.points, ach.Points)
	}
	m.mu.Unlock()

	m.publisher.Publish(events.NewAchievementEvent(events.EventAchievementDeleted, m.owner, id, m.globals.Now()))
	return true
}

// Reset deletes every completion and every criteria counter of the owner.
func (m *manager) Reset() {
	for _, id := range m.CompletedAchievements() {
		m.RemoveAchievement(id)
	}
	m.tracker.Reset()
}

func factionAllows(ach *criteria.AchievementRecord, player world.Player) bool {
	switch ach.Faction {
	case criteria.FactionHorde:
		return player.Team() == world.TeamHorde
	case criteria.FactionAlliance:
		return player.Team() == world.TeamAlliance
	default:
		return true
	}
}

var _ progress.Policy = (*manager)(nil)

func sortUint32(ids []uint32) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func sortCompletions(rows []storage.CompletionRow) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].AchievementID < rows[j].AchievementID })
}
