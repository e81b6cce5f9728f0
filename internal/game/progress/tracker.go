// Package progress keeps one owner's criteria counters and decides, for every
// world event, which counters advance and which criteria trees complete.
package progress

import (
	"sort"
	"sync"
	"time"

	"github.com/realmcore/achievement-server-go/internal/game/conditions"
	"github.com/realmcore/achievement-server-go/internal/game/counters"
	"github.com/realmcore/achievement-server-go/internal/game/criteria"
	"github.com/realmcore/achievement-server-go/internal/game/events"
	"github.com/realmcore/achievement-server-go/internal/game/storage"
	"github.com/realmcore/achievement-server-go/internal/game/world"
	"go.uber.org/zap"
)

// Progress is the mutable state of one criterion for one owner.
type Progress struct {
	Counter uint64
	Date    time.Time
	Actor   world.ObjectGUID
	Changed bool
}

// Policy turns tree-level results into anchor-specific effects. Achievement
// and quest objective managers implement it.
type Policy interface {
	// CanUpdateCriteriaTree gates progress for one containing tree.
	CanUpdateCriteriaTree(c *criteria.Criteria, tree *criteria.CriteriaTree, player world.Player) bool
	// CanCompleteCriteriaTree gates tree completion.
	CanCompleteCriteriaTree(tree *criteria.CriteriaTree) bool
	// CompletedCriteriaTree is called when a containing tree is complete
	// after an update.
	CompletedCriteriaTree(tree *criteria.CriteriaTree, player world.Player)
	// AfterCriteriaTreeUpdate is called for every containing tree after an
	// update, complete or not.
	AfterCriteriaTreeUpdate(tree *criteria.CriteriaTree, player world.Player)
	// HasAchievedTree reports whether the tree's anchor is already granted.
	HasAchievedTree(tree *criteria.CriteriaTree) bool
}

// NopPolicy lets every tree update and complete without side effects.
type NopPolicy struct{}

func (NopPolicy) CanUpdateCriteriaTree(*criteria.Criteria, *criteria.CriteriaTree, world.Player) bool {
	return true
}

func (NopPolicy) CanCompleteCriteriaTree(*criteria.CriteriaTree) bool          { return true }
func (NopPolicy) CompletedCriteriaTree(*criteria.CriteriaTree, world.Player)   {}
func (NopPolicy) AfterCriteriaTreeUpdate(*criteria.CriteriaTree, world.Player) {}
func (NopPolicy) HasAchievedTree(*criteria.CriteriaTree) bool                  { return false }

// Options configures a Tracker.
type Options struct {
	Owner     world.Owner
	Scope     criteria.Scope
	Registry  *criteria.Registry
	Evaluator *conditions.Evaluator
	Globals   world.Globals
	Policy    Policy
	Publisher events.Publisher
	// Disabled criteria never progress. The map is shared and read-only.
	Disabled map[uint32]bool
	Logger   *zap.Logger
}

// Tracker is the per-owner progress store and event dispatcher. It is driven
// by a single goroutine; only Snapshot may run concurrently with it.
type Tracker struct {
	owner     world.Owner
	scope     criteria.Scope
	registry  *criteria.Registry
	eval      *conditions.Evaluator
	globals   world.Globals
	policy    Policy
	publisher events.Publisher
	disabled  map[uint32]bool
	logger    *zap.Logger

	mu       sync.Mutex
	progress map[uint32]*Progress
	removed  map[uint32]struct{}

	// timers maps a criteria tree id to its remaining time in milliseconds.
	timers map[uint32]uint32
}

// NewTracker creates an empty tracker.
func NewTracker(opts Options) *Tracker {
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
	policy := opts.Policy
	if policy == nil {
		policy = NopPolicy{}
	}
	scope := opts.Scope
	if scope == 0 {
		scope = criteria.ScopePlayer
	}
	return &Tracker{
		owner:     opts.Owner,
		scope:     scope,
		registry:  opts.Registry,
		eval:      opts.Evaluator,
		globals:   globals,
		policy:    policy,
		publisher: publisher,
		disabled:  opts.Disabled,
		logger:    logger.With(zap.Stringer("owner", opts.Owner)),
		progress:  make(map[uint32]*Progress),
		removed:   make(map[uint32]struct{}),
		timers:    make(map[uint32]uint32),
	}
}

// Owner returns the owner key.
func (t *Tracker) Owner() world.Owner {
	return t.owner
}

// Scope returns the criteria scope the tracker dispatches.
func (t *Tracker) Scope() criteria.Scope {
	return t.scope
}

// Registry returns the registry the tracker reads.
func (t *Tracker) Registry() *criteria.Registry {
	return t.registry
}

// GetCriteriaProgress returns a copy of the stored progress of c.
func (t *Tracker) GetCriteriaProgress(c *criteria.Criteria) (Progress, bool) {
	if c == nil {
		return Progress{}, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.progress[c.ID]
	if !ok {
		return Progress{}, false
	}
	return *p, true
}

// counter returns the stored counter of c, or zero.
func (t *Tracker) counter(c *criteria.Criteria) (uint64, bool) {
	p, ok := t.GetCriteriaProgress(c)
	return p.Counter, ok
}

// SetCriteriaProgress folds change into the counter of c.
func (t *Tracker) SetCriteriaProgress(c *criteria.Criteria, change uint64, player world.Player, progressType counters.ProgressType) {
	var trees []*criteria.CriteriaTree
	if c.Timed() {
		trees = t.registry.TreesForCriteria(c.ID)
		if !t.hasActiveTimer(trees) {
			t.logger.Debug("timed criteria progress without active timer ignored",
				zap.Uint32("criteria_id", c.ID),
			)
			return
		}
	}

	var actor world.ObjectGUID
	if player != nil {
		actor = player.GUID()
	}
	now := t.globals.Now()

	t.mu.Lock()
	p, ok := t.progress[c.ID]
	if !ok {
		if change == 0 && !c.Timed() {
			t.mu.Unlock()
			return
		}
		p = &Progress{Counter: change}
		t.progress[c.ID] = p
		delete(t.removed, c.ID)
	} else {
		counter := counters.Counter{Value: p.Counter}
		if !counter.Apply(change, progressType) && !c.Timed() {
			t.mu.Unlock()
			return
		}
		p.Counter = counter.Value
	}
	p.Changed = true
	p.Date = now
	p.Actor = actor
	snapshot := *p
	t.mu.Unlock()

	var elapsed uint32
	if c.Timed() {
		for _, tree := range trees {
			remaining, running := t.timers[tree.ID]
			if !running {
				continue
			}
			elapsed = c.Entry.StartTimer - remaining/1000
			if t.IsCompletedCriteriaTree(tree) {
				delete(t.timers, tree.ID)
			}
		}
	}

	event := events.NewCriteriaUpdate(t.owner, c.ID, snapshot.Counter, snapshot.Actor, snapshot.Date)
	event.Timed = c.Timed()
	event.TimeElapsed = elapsed
	t.publisher.Publish(event)
}

// RemoveCriteriaProgress drops the stored progress of c and schedules its
// deletion from storage.
func (t *Tracker) RemoveCriteriaProgress(c *criteria.Criteria) {
	if c == nil {
		return
	}
	t.mu.Lock()
	if _, ok := t.progress[c.ID]; !ok {
		t.mu.Unlock()
		return
	}
	delete(t.progress, c.ID)
	t.removed[c.ID] = struct{}{}
	t.mu.Unlock()

	t.logger.Debug("criteria progress removed", zap.Uint32("criteria_id", c.ID))
	t.publisher.Publish(events.NewCriteriaDeleted(t.owner, c.ID))
}

// Reset removes every counter, notifying observers per record first.
func (t *Tracker) Reset() {
	t.mu.Lock()
	ids := make([]uint32, 0, len(t.progress))
	for id := range t.progress {
		ids = append(ids, id)
	}
	t.mu.Unlock()
	sortIDs(ids)

	for _, id := range ids {
		t.publisher.Publish(events.NewCriteriaDeleted(t.owner, id))
	}

	t.mu.Lock()
	for _, id := range ids {
		t.removed[id] = struct{}{}
	}
	t.progress = make(map[uint32]*Progress)
	t.mu.Unlock()
	t.timers = make(map[uint32]uint32)
}

// LoadRows installs stored progress. Rows for unknown criteria are scheduled
// for deletion; timed rows whose window has passed are dropped.
func (t *Tracker) LoadRows(rows []storage.ProgressRow) {
	now := t.globals.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, row := range rows {
		c := t.registry.Criteria(row.CriteriaID)
		if c == nil {
			t.logger.Warn("stored progress for unknown criteria removed",
				zap.Uint32("criteria_id", row.CriteriaID),
			)
			t.removed[row.CriteriaID] = struct{}{}
			continue
		}
		if c.Timed() && row.Date.Add(time.Duration(c.Entry.StartTimer)*time.Second).Before(now) {
			continue
		}
		t.progress[row.CriteriaID] = &Progress{
			Counter: row.Counter,
			Date:    row.Date,
			Actor:   row.Actor,
		}
	}
}

// Snapshot returns the changed rows and the pending deletions, and clears
// the dirty state. Rows with a zero counter are only deleted by the store.
func (t *Tracker) Snapshot() (changed []storage.ProgressRow, deleted []uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, p := range t.progress {
		if !p.Changed {
			continue
		}
		changed = append(changed, storage.ProgressRow{
			CriteriaID: id,
			Counter:    p.Counter,
			Date:       p.Date,
			Actor:      p.Actor,
		})
		p.Changed = false
	}
	for id := range t.removed {
		deleted = append(deleted, id)
	}
	t.removed = make(map[uint32]struct{})

	sortRows(changed)
	sortIDs(deleted)
	return changed, deleted
}

// Len returns the number of stored counters.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.progress)
}

// Restore marks a snapshot dirty again after a failed save.
func (t *Tracker) Restore(changed []storage.ProgressRow, deleted []uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, row := range changed {
		if p, ok := t.progress[row.CriteriaID]; ok {
			p.Changed = true
		}
	}
	for _, id := range deleted {
		if _, ok := t.progress[id]; !ok {
			t.removed[id] = struct{}{}
		}
	}
}

func sortIDs(ids []uint32) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func sortRows(rows []storage.ProgressRow) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].CriteriaID < rows[j].CriteriaID })
}
