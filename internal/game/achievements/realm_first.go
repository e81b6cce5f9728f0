package achievements

import (
	"sort"
	"sync"
	"time"

	"github.com/realmcore/achievement-server-go/internal/game/criteria"
	"github.com/realmcore/achievement-server-go/internal/game/storage"
	"github.com/realmcore/achievement-server-go/internal/game/world"
	"go.uber.org/zap"
)

// DefaultRealmFirstKillWindow is how long after the first claim a realm
// first kill still accepts further claims.
const DefaultRealmFirstKillWindow = 60 * time.Second

type claimState uint8

const (
	claimNever claimState = iota
	claimAt
	claimPermanent
)

type claim struct {
	state claimState
	at    time.Time
}

// RealmClaim is one completed realm-first achievement.
type RealmClaim struct {
	AchievementID uint32    `json:"achievement_id"`
	Date          time.Time `json:"date"`
	Permanent     bool      `json:"permanent"`
}

// RealmFirst is the process-wide registrar of realm-first completions. It is
// shared by every owner and safe for concurrent use.
type RealmFirst struct {
	globals    world.Globals
	killWindow time.Duration
	logger     *zap.Logger

	mu     sync.Mutex
	claims map[uint32]claim
}

// NewRealmFirst creates an empty registrar. A non-positive window selects
// DefaultRealmFirstKillWindow.
func NewRealmFirst(globals world.Globals, killWindow time.Duration, logger *zap.Logger) *RealmFirst {
	if logger == nil {
		logger = zap.NewNop()
	}
	if globals == nil {
		globals = world.NewNullGlobals(logger)
	}
	if killWindow <= 0 {
		killWindow = DefaultRealmFirstKillWindow
	}
	return &RealmFirst{
		globals:    globals,
		killWindow: killWindow,
		logger:     logger,
		claims:     make(map[uint32]claim),
	}
}

// Init registers every realm-first achievement of the registry as never
// completed and marks the stored completions permanent.
func (r *RealmFirst) Init(registry *criteria.Registry, rows []storage.RealmFirstRow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ach := range registry.RealmFirstAchievements() {
		r.claims[ach.ID] = claim{state: claimNever}
	}
	for _, row := range rows {
		if _, ok := r.claims[row.AchievementID]; !ok {
			r.logger.Warn("stored realm first for unknown achievement ignored",
				zap.Uint32("achievement_id", row.AchievementID),
			)
			continue
		}
		r.claims[row.AchievementID] = claim{state: claimPermanent, at: row.Date}
	}
	r.logger.Info("realm first registrar initialized",
		zap.Int("achievements", len(r.claims)),
		zap.Int("completed", len(rows)),
	)
}

// IsRealmCompleted reports whether no further owner may claim ach.
func (r *RealmFirst) IsRealmCompleted(ach *criteria.AchievementRecord) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completedLocked(ach)
}

func (r *RealmFirst) completedLocked(ach *criteria.AchievementRecord) bool {
	c, ok := r.claims[ach.ID]
	if !ok {
		return false
	}
	switch c.state {
	case claimNever:
		return false
	case claimPermanent:
		return true
	}
	if ach.Flags.Has(criteria.AchievementFlagRealmFirstKill) {
		return r.globals.Now().Sub(c.at) > r.killWindow
	}
	return true
}

// SetRealmCompleted claims ach and reports whether the claim was accepted.
// Claims on a realm first kill inside the grace window are accepted and
// keep the time of the first claim.
func (r *RealmFirst) SetRealmCompleted(ach *criteria.AchievementRecord) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.completedLocked(ach) {
		return false
	}
	if c, ok := r.claims[ach.ID]; ok && c.state == claimAt {
		return true
	}
	r.claims[ach.ID] = claim{state: claimAt, at: r.globals.Now()}
	return true
}

// Claims lists the completed realm-first achievements by id.
func (r *RealmFirst) Claims() []RealmClaim {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RealmClaim, 0, len(r.claims))
	for id, c := range r.claims {
		if c.state == claimNever {
			continue
		}
		out = append(out, RealmClaim{AchievementID: id, Date: c.at, Permanent: c.state == claimPermanent})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AchievementID < out[j].AchievementID })
	return out
}
