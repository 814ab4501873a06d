package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandrarotta/microestado/internal/catalog"
	"github.com/alexandrarotta/microestado/internal/engine"
	"github.com/alexandrarotta/microestado/internal/entropy"
	"github.com/alexandrarotta/microestado/internal/persistence"
	"github.com/alexandrarotta/microestado/internal/state"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type memStore struct {
	mu     sync.Mutex
	saves  map[string]*state.Save
	writes int
	medals map[string][]string
}

func newMemStore() *memStore {
	return &memStore{saves: make(map[string]*state.Save), medals: make(map[string][]string)}
}

func (m *memStore) LoadSave(id string) (*state.Save, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.saves[id]
	if !ok {
		return nil, persistence.ErrNotFound
	}
	return s.Clone()
}

func (m *memStore) WriteSave(id string, s *state.Save) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves[id] = s
	m.writes++
	return nil
}

func (m *memStore) AwardMedals(id string, medals []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.medals[id] = medals
	return medals, nil
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return NewGame(cat, entropy.NewSequence(0.99), func() time.Time { return testNow })
}

func newTestSave(t *testing.T, g *Game) *state.Save {
	t.Helper()
	s, err := g.L1.NewGame(engine.NewGameInput{
		Country:  state.Country{BaseName: "Valle Alto", StateTypeID: "REPUBLIC", Geography: "coastal"},
		Leader:   state.Leader{Name: "Ana", Gender: state.GenderFemale, RoleID: "PRESIDENT"},
		PresetID: "BALANCED",
		Seed:     42,
	})
	require.NoError(t, err)
	return s
}

func TestSessionWithoutGame(t *testing.T) {
	m := NewManager(newTestGame(t), newMemStore())
	sess, err := m.Open("p1")
	require.NoError(t, err)
	assert.False(t, sess.HasSave())

	r := sess.Do(testNow, func(s *state.Save) state.Result { return state.Ok() })
	assert.Equal(t, 404, r.HTTPStatus())

	again, err := m.Open("p1")
	require.NoError(t, err)
	assert.Same(t, sess, again)
	assert.Equal(t, 1, m.Len())
}

func TestBeatTicksAndNotifies(t *testing.T) {
	g := newTestGame(t)
	m := NewManager(g, nil)
	sess, err := m.Open("p1")
	require.NoError(t, err)
	sess.Replace(newTestSave(t, g))

	id, ch := sess.Subscribe()
	assert.Equal(t, 1, sess.Subscribers())

	m.Beat(1)
	u := <-ch
	require.NotNil(t, u.Summary)
	assert.Equal(t, 1, u.Summary.Level)
	require.NotNil(t, u.Summary.Level1)

	sess.View(func(s *state.Save) {
		assert.Equal(t, 1, s.TickCount)
		assert.Equal(t, testNow.UTC(), s.UpdatedAt)
	})

	sess.Unsubscribe(id)
	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, sess.Subscribers())
}

func TestDoPushesNews(t *testing.T) {
	g := newTestGame(t)
	m := NewManager(g, nil)
	sess, err := m.Open("p1")
	require.NoError(t, err)
	sess.Replace(newTestSave(t, g))
	_, ch := sess.Subscribe()

	r := sess.Do(testNow, g.L1.RescueTreasury)
	require.True(t, r.OK)

	u := <-ch
	assert.Nil(t, u.Summary)
	require.Len(t, u.News, 1)
	assert.Contains(t, u.News[0].Text, "Rescate rapido")

	r = sess.Do(testNow, func(s *state.Save) state.Result { return g.L1.StartProject(s, "NOPE") })
	assert.False(t, r.OK)
	select {
	case u := <-ch:
		t.Fatalf("unexpected update %+v", u)
	default:
	}
}

func TestAutosaveWritesChangedSessions(t *testing.T) {
	g := newTestGame(t)
	store := newMemStore()
	m := NewManager(g, store)
	sess, err := m.Open("p1")
	require.NoError(t, err)
	sess.Replace(newTestSave(t, g))

	m.Autosave(1)
	assert.Equal(t, 1, store.writes)
	m.Autosave(2)
	assert.Equal(t, 1, store.writes)

	m.Beat(3)
	m.Autosave(3)
	assert.Equal(t, 2, store.writes)
	assert.Equal(t, 1, store.saves["p1"].TickCount)

	m.Drop("p1")
	_, ok := m.Get("p1")
	assert.False(t, ok)
}

func TestEvictIdleSessions(t *testing.T) {
	g := newTestGame(t)
	store := newMemStore()
	m := NewManager(g, store)

	idle, err := m.Open("idle")
	require.NoError(t, err)
	idle.Replace(newTestSave(t, g))
	watched, err := m.Open("watched")
	require.NoError(t, err)
	id, _ := watched.Subscribe()

	assert.Zero(t, m.EvictIdle(testNow.Add(DefaultIdleAfter-time.Second)))
	assert.Equal(t, 2, m.Len())

	later := testNow.Add(DefaultIdleAfter + time.Minute)
	assert.Equal(t, 1, m.EvictIdle(later))
	_, ok := m.Get("idle")
	assert.False(t, ok)
	require.Contains(t, store.saves, "idle")

	// Once nobody listens, the watched session goes too.
	watched.Unsubscribe(id)
	assert.Equal(t, 1, m.EvictIdle(later))
	assert.Zero(t, m.Len())

	// Reopening loads the written save back.
	back, err := m.Open("idle")
	require.NoError(t, err)
	assert.True(t, back.HasSave())
}

func TestEvictIdleDisabled(t *testing.T) {
	m := NewManager(newTestGame(t), nil)
	_, err := m.Open("p1")
	require.NoError(t, err)
	m.IdleAfter = 0
	assert.Zero(t, m.EvictIdle(testNow.Add(24*time.Hour)))
	assert.Equal(t, 1, m.Len())
}

func TestOpenCatchesUp(t *testing.T) {
	g := newTestGame(t)
	store := newMemStore()
	s := newTestSave(t, g)
	s.LastTickAt = testNow.Add(-time.Minute).UnixMilli()
	require.NoError(t, store.WriteSave("p1", s))

	m := NewManager(g, store)
	sess, err := m.Open("p1")
	require.NoError(t, err)
	sess.View(func(s *state.Save) {
		assert.Equal(t, 12, s.TickCount)
		assert.Empty(t, s.ActiveEventID)
	})
}

func TestCatchUpLevel2(t *testing.T) {
	g := newTestGame(t)
	s := newTestSave(t, g)
	s.Level1Complete = true
	require.True(t, g.L2.ContinueToLevel2(s).OK)
	s.LastTickAt = testNow.Add(-time.Minute).UnixMilli()

	rep := g.CatchUp(s, testNow)
	assert.Equal(t, 12, rep.Ticks)
	assert.Equal(t, 12, s.TickCount)
	assert.Nil(t, s.Level2.Events.Pending)

	s.Level2.GameOver = true
	assert.True(t, Over(s))
	assert.Zero(t, g.CatchUp(s, testNow.Add(time.Hour)).Ticks)
}
