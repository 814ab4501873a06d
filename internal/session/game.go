// Package session keeps live games in memory. Each save is owned by one
// Session and only mutated under its lock; a shared clock advances every
// live session once per beat and periodically writes them back to storage.
package session

import (
	"time"

	"github.com/alexandrarotta/microestado/internal/catalog"
	"github.com/alexandrarotta/microestado/internal/engine"
	"github.com/alexandrarotta/microestado/internal/entropy"
	"github.com/alexandrarotta/microestado/internal/macro"
	"github.com/alexandrarotta/microestado/internal/state"
)

// Game routes a save to the rules of its level.
type Game struct {
	L1 *engine.Engine
	L2 *macro.Engine
}

// NewGame builds both level engines over one catalog and randomness source.
func NewGame(cat *catalog.Bundle, src entropy.Source, now func() time.Time) *Game {
	if now == nil {
		now = time.Now
	}
	return &Game{
		L1: engine.New(cat, src).WithClock(now),
		L2: macro.New(cat, src).WithClock(now),
	}
}

// Catalog returns the shared catalog bundle.
func (g *Game) Catalog() *catalog.Bundle { return g.L1.Catalog() }

// TickSummary is the level-independent view of one tick.
type TickSummary struct {
	Level    int                `json:"level"`
	Tick     int                `json:"tick"`
	Skipped  bool               `json:"skipped,omitempty"`
	GameOver bool               `json:"gameOver,omitempty"`
	Level1   *engine.TickReport `json:"level1,omitempty"`
	Level2   *macro.TickReport  `json:"level2,omitempty"`
}

// Tick advances s by one tick of its current level.
func (g *Game) Tick(s *state.Save) TickSummary {
	if s.Level >= 2 {
		rep := g.L2.Tick(s, macro.TickOptions{})
		return TickSummary{Level: 2, Tick: rep.Tick, Skipped: rep.Skipped, GameOver: rep.GameOver, Level2: &rep}
	}
	rep := g.L1.Tick(s, engine.TickOptions{})
	return TickSummary{Level: 1, Tick: rep.Tick, Skipped: rep.Skipped, GameOver: rep.GameOver, Level1: &rep}
}

// Over reports whether the save accepts no more ticks.
func Over(s *state.Save) bool {
	if s.Level >= 2 && s.Level2 != nil {
		return s.Level2.GameOver
	}
	return s.GameOver
}

// CatchUp replays the ticks owed since the save last ticked, with events
// suppressed, using the tick function of the save's level.
func (g *Game) CatchUp(s *state.Save, now time.Time) engine.OfflineReport {
	n := g.L1.OfflineTicks(s, now)
	if s.Level < 2 {
		return g.L1.ApplyOfflineTicks(s, n)
	}
	if Over(s) {
		return engine.OfflineReport{}
	}
	return g.L1.Replay(s, n, func(s *state.Save) bool {
		g.L2.Tick(s, macro.TickOptions{SuppressEvents: true})
		return Over(s)
	})
}
