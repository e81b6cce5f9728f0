package realm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/realmcore/achievement-server-go/internal/game/achievements"
	"github.com/realmcore/achievement-server-go/internal/game/criteria"
	"github.com/realmcore/achievement-server-go/internal/game/events"
	"github.com/realmcore/achievement-server-go/internal/game/storage"
	"github.com/realmcore/achievement-server-go/internal/game/world"
	"github.com/realmcore/achievement-server-go/internal/game/world/worldtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testEpoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// memoryStore keeps rows in maps keyed by owner.
type memoryStore struct {
	mu          sync.Mutex
	progress    map[world.Owner]map[uint32]storage.ProgressRow
	completions map[world.Owner]map[uint32]storage.CompletionRow
	failures    int
	saves       int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		progress:    make(map[world.Owner]map[uint32]storage.ProgressRow),
		completions: make(map[world.Owner]map[uint32]storage.CompletionRow),
	}
}

func (s *memoryStore) LoadOwner(_ context.Context, owner world.Owner) (storage.OwnerRows, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := storage.OwnerRows{Owner: owner}
	for _, row := range s.progress[owner] {
		rows.Progress = append(rows.Progress, row)
	}
	for _, row := range s.completions[owner] {
		rows.Completions = append(rows.Completions, row)
	}
	return rows, nil
}

func (s *memoryStore) SaveBatches(_ context.Context, batches []storage.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("connection reset")
	}
	s.saves++
	for _, b := range batches {
		if s.progress[b.Owner] == nil {
			s.progress[b.Owner] = make(map[uint32]storage.ProgressRow)
			s.completions[b.Owner] = make(map[uint32]storage.CompletionRow)
		}
		for _, id := range b.DeletedProgress {
			delete(s.progress[b.Owner], id)
		}
		for _, row := range b.Progress {
			delete(s.progress[b.Owner], row.CriteriaID)
			if row.Counter != 0 {
				s.progress[b.Owner][row.CriteriaID] = row
			}
		}
		for _, id := range b.DeletedCompletions {
			delete(s.completions[b.Owner], id)
		}
		for _, row := range b.Completions {
			s.completions[b.Owner][row.AchievementID] = row
		}
	}
	return nil
}

func (s *memoryStore) LoadRealmFirsts(_ context.Context, ids []uint32) ([]storage.RealmFirstRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []storage.RealmFirstRow
	for _, id := range ids {
		var first *storage.RealmFirstRow
		for _, rows := range s.completions {
			row, ok := rows[id]
			if !ok {
				continue
			}
			if first == nil || row.Date.Before(first.Date) {
				first = &storage.RealmFirstRow{AchievementID: id, Date: row.Date}
			}
		}
		if first != nil {
			out = append(out, *first)
		}
	}
	return out, nil
}

func (s *memoryStore) Close() error { return nil }

func (s *memoryStore) completed(owner world.Owner, id uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.completions[owner][id]
	return ok
}

func (s *memoryStore) counter(owner world.Owner, id uint32) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress[owner][id].Counter
}

func ach(id, tree, points uint32, flags criteria.AchievementFlags) criteria.AchievementRecord {
	return criteria.AchievementRecord{
		ID:           id,
		Faction:      criteria.FactionAny,
		InstanceID:   -1,
		Points:       points,
		Flags:        flags,
		CriteriaTree: tree,
	}
}

func testData() criteria.Data {
	return criteria.Data{
		Achievements: []criteria.AchievementRecord{
			ach(1, 10, 10, 0),
			ach(2, 20, 5, 0),
			ach(3, 30, 0, criteria.AchievementFlagRealmFirstReach),
			ach(4, 40, 25, criteria.AchievementFlagGuild),
			ach(5, 50, 10, 0),
		},
		CriteriaTrees: []criteria.CriteriaTreeRecord{
			{ID: 10, CriteriaID: 1, Amount: 3},
			{ID: 20, CriteriaID: 2, Amount: 1},
			{ID: 30, CriteriaID: 3, Amount: 1},
			{ID: 40, CriteriaID: 4, Amount: 2},
			{ID: 50, CriteriaID: 5, Amount: 1000000},
		},
		Criteria: []criteria.CriteriaRecord{
			{ID: 1, Type: criteria.KillCreature, Asset: 100},
			{ID: 2, Type: criteria.Login},
			{ID: 3, Type: criteria.KillCreature, Asset: 300},
			{ID: 4, Type: criteria.KillCreature, Asset: 400},
			{ID: 5, Type: criteria.KillCreature, Asset: 500},
		},
	}
}

type fixture struct {
	realm    *Realm
	store    *memoryStore
	events   *events.Recorder
	registry *criteria.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	registry, _ := criteria.Load(testData(), zap.NewNop())
	store := newMemoryStore()
	recorder := &events.Recorder{}
	globals := worldtest.NewGlobals(testEpoch)
	r := New(Options{
		Registry:   registry,
		Globals:    globals,
		Store:      store,
		RealmFirst: achievements.NewRealmFirst(globals, 0, zap.NewNop()),
		Publisher:  recorder,
		Config:     Config{SaveChunk: 1, SaveConcurrency: 2},
		Logger:     zap.NewNop(),
	})
	require.NoError(t, r.LoadRealmFirsts(context.Background()))
	return &fixture{realm: r, store: store, events: recorder, registry: registry}
}

func (f *fixture) kill(t *testing.T, guid world.ObjectGUID, entry uint32) {
	t.Helper()
	err := f.realm.UpdateCriteria(guid, criteria.KillCreature, uint64(entry), 1, 0, worldtest.NewCreature(900, entry))
	require.NoError(t, err)
}

func TestUnknownCharacter(t *testing.T) {
	f := newFixture(t)

	err := f.realm.UpdateCriteria(42, criteria.KillCreature, 100, 1, 0, nil)
	assert.True(t, errors.Is(err, ErrNotLoggedIn))
	assert.ErrorIs(t, f.realm.Logout(context.Background(), 42), ErrNotLoggedIn)
	assert.ErrorIs(t, f.realm.ResetCriteria(42, criteria.FailEventDeath, 0, false), ErrNotLoggedIn)
	_, ok := f.realm.Player(42)
	assert.False(t, ok)
}

func TestLogin_ChecksAllCriteria(t *testing.T) {
	f := newFixture(t)

	m, err := f.realm.Login(context.Background(), worldtest.NewPlayer(1))
	require.NoError(t, err)

	assert.True(t, m.HasAchieved(2), "login criteria complete on login")
	assert.Equal(t, 1, f.realm.Online())

	again, err := f.realm.Login(context.Background(), worldtest.NewPlayer(1))
	require.NoError(t, err)
	assert.Same(t, m, again)
}

func TestProgressSurvivesLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	player := worldtest.NewPlayer(1)
	owner := world.PlayerOwner(1)

	_, err := f.realm.Login(ctx, player)
	require.NoError(t, err)
	f.kill(t, 1, 100)
	f.kill(t, 1, 100)

	require.NoError(t, f.realm.Logout(ctx, 1))
	assert.Equal(t, uint64(2), f.store.counter(owner, 1))
	assert.True(t, f.store.completed(owner, 2))
	assert.Equal(t, 0, f.realm.Online())

	m, err := f.realm.Login(ctx, player)
	require.NoError(t, err)
	f.kill(t, 1, 100)

	assert.True(t, m.HasAchieved(1), "third kill completes with the stored two")
	assert.Equal(t, uint32(15), m.Points())
}

func TestGuildRouting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := worldtest.NewPlayer(1)
	alice.Guild = 9
	bob := worldtest.NewPlayer(2)
	bob.Guild = 9

	_, err := f.realm.Login(ctx, alice)
	require.NoError(t, err)
	_, err = f.realm.Login(ctx, bob)
	require.NoError(t, err)

	f.kill(t, 1, 400)
	f.kill(t, 2, 400)

	guild, ok := f.realm.Guild(9)
	require.True(t, ok)
	assert.True(t, guild.HasAchieved(4), "guild progress is shared by members")

	alicePlayer, _ := f.realm.Player(1)
	assert.False(t, alicePlayer.HasAchieved(4))

	require.NoError(t, f.realm.Logout(ctx, 1))
	_, ok = f.realm.Guild(9)
	assert.True(t, ok, "guild stays while a member is online")

	require.NoError(t, f.realm.Logout(ctx, 2))
	_, ok = f.realm.Guild(9)
	assert.False(t, ok)
	assert.True(t, f.store.completed(world.GuildOwner(9), 4))
}

func TestSaveAll_RestoresFailedBatches(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := world.PlayerOwner(1)

	_, err := f.realm.Login(ctx, worldtest.NewPlayer(1))
	require.NoError(t, err)
	f.kill(t, 1, 100)

	f.store.failures = 1
	require.Error(t, f.realm.SaveAll(ctx))
	assert.Zero(t, f.store.counter(owner, 1))

	require.NoError(t, f.realm.SaveAll(ctx))
	assert.Equal(t, uint64(1), f.store.counter(owner, 1), "failed rows are written by the next pass")
	assert.True(t, f.store.completed(owner, 2))

	saves := f.store.saves
	require.NoError(t, f.realm.SaveAll(ctx))
	assert.Equal(t, saves, f.store.saves, "clean owners are not written")
}

func TestRealmFirst_StoredCompletionBlocksClaims(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.realm.Login(ctx, worldtest.NewPlayer(1))
	require.NoError(t, err)
	f.kill(t, 1, 300)
	require.NoError(t, f.realm.Logout(ctx, 1))

	// A restarted realm reads the claim back from the store.
	registry, _ := criteria.Load(testData(), zap.NewNop())
	restarted := New(Options{Registry: registry, Store: f.store})
	require.NoError(t, restarted.LoadRealmFirsts(ctx))
	assert.True(t, restarted.RealmFirst().IsRealmCompleted(registry.Achievement(3)))

	m, err := restarted.Login(ctx, worldtest.NewPlayer(2))
	require.NoError(t, err)
	require.NoError(t, restarted.UpdateCriteria(2, criteria.KillCreature, 300, 1, 0, worldtest.NewCreature(900, 300)))
	assert.False(t, m.HasAchieved(3))
}

func TestRun_SavesOnShutdown(t *testing.T) {
	f := newFixture(t)
	_, err := f.realm.Login(context.Background(), worldtest.NewPlayer(1))
	require.NoError(t, err)
	f.kill(t, 1, 100)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.realm.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop")
	}
	assert.Equal(t, uint64(1), f.store.counter(world.PlayerOwner(1), 1))
}

func TestLogout_SavesEventsDispatchedBeforeIt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.realm.Login(ctx, worldtest.NewPlayer(1))
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted uint64
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				err := f.realm.UpdateCriteria(1, criteria.KillCreature, 500, 1, 0, worldtest.NewCreature(900, 500))
				if errors.Is(err, ErrNotLoggedIn) {
					return
				}
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}

	time.Sleep(time.Millisecond)
	require.NoError(t, f.realm.Logout(ctx, 1))
	wg.Wait()

	assert.Equal(t, accepted, f.store.counter(world.PlayerOwner(1), 5), "every accepted event is saved")
}
