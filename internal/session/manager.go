package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexandrarotta/microestado/internal/engine"
	"github.com/alexandrarotta/microestado/internal/persistence"
	"github.com/alexandrarotta/microestado/internal/state"
)

// Store is the storage the manager loads from and autosaves to.
type Store interface {
	LoadSave(playerID string) (*state.Save, error)
	WriteSave(playerID string, s *state.Save) error
	AwardMedals(playerID string, medals []string) ([]string, error)
}

// DefaultIdleAfter is how long a session without requests or subscribers
// stays live.
const DefaultIdleAfter = 30 * time.Minute

// Manager holds the live sessions.
type Manager struct {
	game  *Game
	store Store

	// IdleAfter evicts sessions nobody opened for this long and nobody is
	// subscribed to. Zero keeps every session live.
	IdleAfter time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
	seen     map[string]time.Time
}

// NewManager creates a manager. A nil store keeps sessions in memory only.
func NewManager(g *Game, store Store) *Manager {
	return &Manager{
		game:      g,
		store:     store,
		IdleAfter: DefaultIdleAfter,
		sessions:  make(map[string]*Session),
		seen:      make(map[string]time.Time),
	}
}

// Game returns the rules the manager applies.
func (m *Manager) Game() *Game { return m.game }

// Open returns the player's live session, loading the stored save and
// replaying the ticks owed since it was last played.
func (m *Manager) Open(playerID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[playerID]; ok {
		m.seen[playerID] = m.game.L1.Now()
		return sess, nil
	}

	var save *state.Save
	if m.store != nil {
		s, err := m.store.LoadSave(playerID)
		switch {
		case errors.Is(err, persistence.ErrNotFound):
		case err != nil:
			return nil, fmt.Errorf("load save %s: %w", playerID, err)
		default:
			save = s
		}
	}

	sess := newSession(playerID, save)
	if save != nil {
		rep := m.game.CatchUp(save, m.game.L1.Now())
		if rep.Ticks > 0 {
			save.Touch(m.game.L1.Now())
			sess.dirty = true
			slog.Info("offline catch-up", "player", playerID, "ticks", rep.Ticks, "bonus", rep.Bonus)
		}
		sess.setSave(save)
	}
	m.sessions[playerID] = sess
	m.seen[playerID] = m.game.L1.Now()
	return sess, nil
}

// Get returns a session that is already live.
func (m *Manager) Get(playerID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[playerID]
	if ok {
		m.seen[playerID] = m.game.L1.Now()
	}
	return sess, ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) list() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// Beat advances every live session by one tick.
func (m *Manager) Beat(beat uint64) {
	for _, sess := range m.list() {
		sess.tick(m.game)
	}
}

// Autosave writes every changed session to the store and records medals
// won since the last write.
func (m *Manager) Autosave(beat uint64) {
	if m.store == nil {
		return
	}
	saved := 0
	for _, sess := range m.list() {
		cp := sess.flush()
		if cp == nil {
			continue
		}
		if err := m.store.WriteSave(sess.PlayerID, cp); err != nil {
			slog.Error("autosave failed", "player", sess.PlayerID, "error", err)
			sess.markDirty()
			continue
		}
		if len(cp.Medals) > 0 {
			if _, err := m.store.AwardMedals(sess.PlayerID, cp.Medals); err != nil {
				slog.Warn("medal sync failed", "player", sess.PlayerID, "error", err)
			}
		}
		saved++
	}
	if saved > 0 {
		slog.Debug("autosave", "beat", beat, "sessions", saved)
	}
}

// Drop writes a session back and forgets it.
func (m *Manager) Drop(playerID string) {
	m.mu.Lock()
	sess, ok := m.sessions[playerID]
	delete(m.sessions, playerID)
	delete(m.seen, playerID)
	m.mu.Unlock()
	if ok {
		m.writeBack(sess)
	}
}

// EvictIdle drops every session last opened before now-IdleAfter that has
// no subscribers, and returns how many it dropped.
func (m *Manager) EvictIdle(now time.Time) int {
	if m.IdleAfter <= 0 {
		return 0
	}
	cutoff := now.Add(-m.IdleAfter)

	m.mu.Lock()
	var idle []*Session
	for id, sess := range m.sessions {
		if m.seen[id].Before(cutoff) && sess.Subscribers() == 0 {
			idle = append(idle, sess)
			delete(m.sessions, id)
			delete(m.seen, id)
		}
	}
	m.mu.Unlock()

	for _, sess := range idle {
		m.writeBack(sess)
	}
	if len(idle) > 0 {
		slog.Info("evicted idle sessions", "count", len(idle), "live", m.Len())
	}
	return len(idle)
}

func (m *Manager) writeBack(sess *Session) {
	if m.store == nil {
		return
	}
	if cp := sess.flush(); cp != nil {
		if err := m.store.WriteSave(sess.PlayerID, cp); err != nil {
			slog.Error("save on drop failed", "player", sess.PlayerID, "error", err)
		}
	}
}

// Run drives every live session from one clock until ctx is done, then
// writes all pending changes.
func (m *Manager) Run(ctx context.Context, interval time.Duration, autosaveEvery uint64) {
	clock := engine.NewClock(interval)
	if autosaveEvery > 0 {
		clock.AutosaveEvery = autosaveEvery
	}
	clock.OnBeat = m.Beat
	clock.OnAutosave = func(beat uint64) {
		m.Autosave(beat)
		m.EvictIdle(m.game.L1.Now())
	}
	clock.Run(ctx)
	m.Autosave(clock.Beat)
}
