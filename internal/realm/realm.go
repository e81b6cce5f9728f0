// Package realm keeps the achievement state of every online character and
// guild, routes world events to it and persists it periodically.
package realm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/realmcore/achievement-server-go/internal/game/achievements"
	"github.com/realmcore/achievement-server-go/internal/game/conditions"
	"github.com/realmcore/achievement-server-go/internal/game/criteria"
	"github.com/realmcore/achievement-server-go/internal/game/events"
	"github.com/realmcore/achievement-server-go/internal/game/objectives"
	"github.com/realmcore/achievement-server-go/internal/game/storage"
	"github.com/realmcore/achievement-server-go/internal/game/world"
	"go.uber.org/zap"
)

// ErrNotLoggedIn is returned for a character without a session.
var ErrNotLoggedIn = errors.New("character not logged in")

const (
	DefaultTickInterval    = 100 * time.Millisecond
	DefaultSaveInterval    = 30 * time.Second
	DefaultSaveConcurrency = 4
)

// Config tunes the update and save loops.
type Config struct {
	TickInterval    time.Duration
	SaveInterval    time.Duration
	SaveConcurrency int
	// SaveChunk is the number of owner batches written per transaction.
	SaveChunk int
}

// Options holds the shared services of a realm.
type Options struct {
	Registry         *criteria.Registry
	Evaluator        *conditions.Evaluator
	Globals          world.Globals
	Store            storage.Store
	RealmFirst       *achievements.RealmFirst
	Publisher        events.Publisher
	AchievementHooks achievements.Hooks
	ObjectiveHooks   objectives.Hooks
	Disabled         map[uint32]bool
	Config           Config
	Logger           *zap.Logger
}

type session struct {
	player       world.Player
	achievements *achievements.PlayerManager
	objectives   *objectives.Manager
	guildID      uint64
}

type guildSession struct {
	manager *achievements.GuildManager
	online  int
}

// Realm is the directory of loaded owners. World events are dispatched under
// a single lock, which matches the one writer the trackers expect.
type Realm struct {
	opts   Options
	cfg    Config
	logger *zap.Logger

	dispatch sync.Mutex
	// sessions serializes logins and logouts.
	sessions sync.Mutex

	mu      sync.RWMutex
	players map[world.ObjectGUID]*session
	guilds  map[uint64]*guildSession
}

// New creates an empty realm.
func New(opts Options) *Realm {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := opts.Config
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.SaveInterval <= 0 {
		cfg.SaveInterval = DefaultSaveInterval
	}
	if cfg.SaveConcurrency <= 0 {
		cfg.SaveConcurrency = DefaultSaveConcurrency
	}
	if cfg.SaveChunk <= 0 {
		cfg.SaveChunk = 64
	}
	if opts.Publisher == nil {
		opts.Publisher = events.Discard{}
	}
	if opts.RealmFirst == nil {
		opts.RealmFirst = achievements.NewRealmFirst(opts.Globals, 0, logger)
	}
	return &Realm{
		opts:    opts,
		cfg:     cfg,
		logger:  logger,
		players: make(map[world.ObjectGUID]*session),
		guilds:  make(map[uint64]*guildSession),
	}
}

// RealmFirst returns the realm-first registrar.
func (r *Realm) RealmFirst() *achievements.RealmFirst {
	return r.opts.RealmFirst
}

// LoadRealmFirsts seeds the realm-first registrar from stored completions.
func (r *Realm) LoadRealmFirsts(ctx context.Context) error {
	var rows []storage.RealmFirstRow
	if r.opts.Store != nil {
		realmFirst := r.opts.Registry.RealmFirstAchievements()
		ids := make([]uint32, 0, len(realmFirst))
		for _, ach := range realmFirst {
			ids = append(ids, ach.ID)
		}
		var err error
		rows, err = r.opts.Store.LoadRealmFirsts(ctx, ids)
		if err != nil {
			return fmt.Errorf("load realm firsts: %w", err)
		}
	}
	r.opts.RealmFirst.Init(r.opts.Registry, rows)
	return nil
}

func (r *Realm) achievementOptions() achievements.Options {
	return achievements.Options{
		Registry:   r.opts.Registry,
		Evaluator:  r.opts.Evaluator,
		Globals:    r.opts.Globals,
		RealmFirst: r.opts.RealmFirst,
		Publisher:  r.opts.Publisher,
		Hooks:      r.opts.AchievementHooks,
		Disabled:   r.opts.Disabled,
		Logger:     r.logger,
	}
}

func (r *Realm) loadRows(ctx context.Context, owner world.Owner) (storage.OwnerRows, error) {
	if r.opts.Store == nil {
		return storage.OwnerRows{Owner: owner}, nil
	}
	rows, err := r.opts.Store.LoadOwner(ctx, owner)
	if err != nil {
		return storage.OwnerRows{}, fmt.Errorf("load %s: %w", owner, err)
	}
	return rows, nil
}

// Login loads the character's achievements and its guild's, then re-checks
// every criteria so state derived values are current.
func (r *Realm) Login(ctx context.Context, player world.Player) (*achievements.PlayerManager, error) {
	guid := player.GUID()
	r.sessions.Lock()
	defer r.sessions.Unlock()

	r.mu.RLock()
	existing, ok := r.players[guid]
	r.mu.RUnlock()
	if ok {
		return existing.achievements, nil
	}

	rows, err := r.loadRows(ctx, world.PlayerOwner(guid))
	if err != nil {
		return nil, err
	}
	s := &session{
		player:       player,
		achievements: achievements.NewPlayerManager(guid, r.achievementOptions()),
		objectives: objectives.NewManager(guid, objectives.Options{
			Registry:  r.opts.Registry,
			Evaluator: r.opts.Evaluator,
			Globals:   r.opts.Globals,
			Publisher: r.opts.Publisher,
			Hooks:     r.opts.ObjectiveHooks,
			Logger:    r.logger,
		}),
		guildID: player.GuildID(),
	}
	s.achievements.Load(rows)

	if s.guildID != 0 {
		if err := r.joinGuild(ctx, s.guildID); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.players[guid] = s
	r.mu.Unlock()

	r.dispatch.Lock()
	s.achievements.CheckAllAchievementCriteria(player)
	r.dispatch.Unlock()

	r.logger.Info("character logged in",
		zap.Uint64("guid", uint64(guid)),
		zap.Int("achievements", len(s.achievements.CompletedAchievements())),
		zap.Uint64("guild_id", s.guildID),
	)
	return s.achievements, nil
}

func (r *Realm) joinGuild(ctx context.Context, guildID uint64) error {
	r.mu.Lock()
	if g, ok := r.guilds[guildID]; ok {
		g.online++
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	rows, err := r.loadRows(ctx, world.GuildOwner(guildID))
	if err != nil {
		return err
	}
	manager := achievements.NewGuildManager(guildID, r.achievementOptions())
	manager.Load(rows)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.guilds[guildID] = &guildSession{manager: manager, online: 1}
	return nil
}

// Logout saves and drops the character. The guild is saved and dropped with
// its last online member.
func (r *Realm) Logout(ctx context.Context, guid world.ObjectGUID) error {
	r.sessions.Lock()
	defer r.sessions.Unlock()

	// Events already dispatched to the session land before the final save.
	r.dispatch.Lock()
	r.mu.Lock()
	s, ok := r.players[guid]
	if !ok {
		r.mu.Unlock()
		r.dispatch.Unlock()
		return ErrNotLoggedIn
	}
	delete(r.players, guid)

	var guild *achievements.GuildManager
	if g, ok := r.guilds[s.guildID]; ok {
		g.online--
		if g.online <= 0 {
			delete(r.guilds, s.guildID)
			guild = g.manager
		}
	}
	r.mu.Unlock()
	r.dispatch.Unlock()

	targets := []saveTarget{s.achievements}
	if guild != nil {
		targets = append(targets, guild)
	}
	err := r.save(ctx, targets)

	r.logger.Info("character logged out", zap.Uint64("guid", uint64(guid)))
	return err
}

// Player returns the achievement manager of an online character.
func (r *Realm) Player(guid world.ObjectGUID) (*achievements.PlayerManager, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.players[guid]
	if !ok {
		return nil, false
	}
	return s.achievements, true
}

// Objectives returns the quest objective state of an online character.
func (r *Realm) Objectives(guid world.ObjectGUID) (*objectives.Manager, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.players[guid]
	if !ok {
		return nil, false
	}
	return s.objectives, true
}

// Guild returns the achievement manager of a loaded guild.
func (r *Realm) Guild(guildID uint64) (*achievements.GuildManager, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.guilds[guildID]
	if !ok {
		return nil, false
	}
	return g.manager, true
}

// Online returns the number of characters with a session.
func (r *Realm) Online() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

func (r *Realm) lookup(guid world.ObjectGUID) (*session, *achievements.GuildManager, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.players[guid]
	if !ok {
		return nil, nil, ErrNotLoggedIn
	}
	var guild *achievements.GuildManager
	if g, ok := r.guilds[s.guildID]; ok {
		guild = g.manager
	}
	return s, guild, nil
}

// UpdateCriteria routes a world event of the character to its achievements,
// then its quest objectives, then its guild.
func (r *Realm) UpdateCriteria(guid world.ObjectGUID, ct criteria.CriteriaType, misc1, misc2, misc3 uint64, ref world.Unit) error {
	r.dispatch.Lock()
	defer r.dispatch.Unlock()
	s, guild, err := r.lookup(guid)
	if err != nil {
		return err
	}

	s.achievements.UpdateCriteria(ct, misc1, misc2, misc3, ref, s.player)
	s.objectives.UpdateCriteria(ct, misc1, misc2, misc3, ref, s.player)
	if guild != nil {
		guild.UpdateCriteria(ct, misc1, misc2, misc3, ref, s.player)
	}
	return nil
}

// StartCriteriaTimer starts the timed criteria of the character matching the
// start event.
func (r *Realm) StartCriteriaTimer(guid world.ObjectGUID, event criteria.StartEvent, asset, timeLost uint32) error {
	r.dispatch.Lock()
	defer r.dispatch.Unlock()
	s, _, err := r.lookup(guid)
	if err != nil {
		return err
	}
	s.achievements.Tracker().StartCriteriaTimer(event, asset, timeLost)
	s.objectives.Tracker().StartCriteriaTimer(event, asset, timeLost)
	return nil
}

// RemoveCriteriaTimer cancels running timers of the character matching the
// start event.
func (r *Realm) RemoveCriteriaTimer(guid world.ObjectGUID, event criteria.StartEvent, asset uint32) error {
	r.dispatch.Lock()
	defer r.dispatch.Unlock()
	s, _, err := r.lookup(guid)
	if err != nil {
		return err
	}
	s.achievements.Tracker().RemoveCriteriaTimer(event, asset)
	s.objectives.Tracker().RemoveCriteriaTimer(event, asset)
	return nil
}

// ResetCriteria drops the character's progress on criteria failed by event.
func (r *Realm) ResetCriteria(guid world.ObjectGUID, event criteria.FailEvent, asset uint32, evenIfCompleted bool) error {
	r.dispatch.Lock()
	defer r.dispatch.Unlock()
	s, _, err := r.lookup(guid)
	if err != nil {
		return err
	}
	s.achievements.Tracker().ResetCriteria(event, asset, evenIfCompleted, s.player)
	s.objectives.Tracker().ResetCriteria(event, asset, evenIfCompleted, s.player)
	return nil
}

// Tick advances every running criteria timer.
func (r *Realm) Tick(elapsed time.Duration) {
	ms := uint32(elapsed.Milliseconds())
	if ms == 0 {
		return
	}

	r.dispatch.Lock()
	defer r.dispatch.Unlock()

	r.mu.RLock()
	sessions := make([]*session, 0, len(r.players))
	for _, s := range r.players {
		sessions = append(sessions, s)
	}
	guilds := make([]*achievements.GuildManager, 0, len(r.guilds))
	for _, g := range r.guilds {
		guilds = append(guilds, g.manager)
	}
	r.mu.RUnlock()

	for _, s := range sessions {
		s.achievements.Tick(ms)
		s.objectives.Tracker().Tick(ms)
	}
	for _, g := range guilds {
		g.Tick(ms)
	}
}

// Run drives the tick and save loops until ctx is done, then saves once
// more.
func (r *Realm) Run(ctx context.Context) error {
	tick := time.NewTicker(r.cfg.TickInterval)
	defer tick.Stop()
	save := time.NewTicker(r.cfg.SaveInterval)
	defer save.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
			err := r.SaveAll(saveCtx)
			cancel()
			if err != nil {
				return fmt.Errorf("final save: %w", err)
			}
			return nil
		case now := <-tick.C:
			r.Tick(now.Sub(last))
			last = now
		case <-save.C:
			if err := r.SaveAll(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error("save pass failed", zap.Error(err))
			}
		}
	}
}
