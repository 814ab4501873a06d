// Package engine implements the Level-1 simulation: the tick orchestrator
// and the project, decree, event and coup-risk state machines that it
// sequences, plus the player actions that mutate a save between ticks.
//
// Every function mutates the save it is given and performs no I/O. Callers
// own the save exclusively for the duration of a call.
package engine

import (
	"time"

	"github.com/alexandrarotta/microestado/internal/catalog"
	"github.com/alexandrarotta/microestado/internal/entropy"
	"github.com/alexandrarotta/microestado/internal/social"
	"github.com/alexandrarotta/microestado/internal/state"
)

// Engine binds the static catalog and a randomness source. It holds no
// per-save state and is safe to share between sessions when the source is.
type Engine struct {
	cat  *catalog.Bundle
	rand entropy.Source
	now  func() time.Time
}

// New creates an engine. A nil source falls back to crypto randomness.
func New(cat *catalog.Bundle, src entropy.Source) *Engine {
	if src == nil {
		src = entropy.Crypto{}
	}
	return &Engine{cat: cat, rand: src, now: time.Now}
}

// WithClock returns a copy of the engine that reads wall time from now.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	cp := *e
	cp.now = now
	return &cp
}

// Catalog returns the bundle the engine was built with.
func (e *Engine) Catalog() *catalog.Bundle { return e.cat }

// Rand returns the engine's randomness source.
func (e *Engine) Rand() entropy.Source { return e.rand }

// Now returns the engine's wall-clock time.
func (e *Engine) Now() time.Time { return e.now() }

func (e *Engine) role(s *state.Save) *catalog.Role {
	return e.cat.Role(s.Leader.RoleID)
}

func (e *Engine) remote(s *state.Save) catalog.RemoteDefaults {
	return e.cat.Remote.Defaults.With(s.RemoteOverrides)
}

// leaderTitle returns the leader's role title for the current gender.
func (e *Engine) leaderTitle(s *state.Save) string {
	return social.RoleTitle(e.role(s), string(s.Leader.Gender))
}

// leaderSignature is "<title> <name>", the subject of most news lines.
func (e *Engine) leaderSignature(s *state.Save) string {
	return e.leaderTitle(s) + " " + s.Leader.Name
}

func (e *Engine) publish(s *state.Save, text string, kind state.NewsType, sev state.Severity) {
	s.PublishItem(state.NewsItem{
		Text:      text,
		Type:      kind,
		Severity:  sev,
		CreatedAt: e.now().UnixMilli(),
	})
}
