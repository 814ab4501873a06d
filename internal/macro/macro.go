// Package macro implements Level 2: inflation and its regimes, the central
// bank, elections, Level-2 industries, projects, advisors, events and the
// regime-gated decree catalogs.
//
// Like the Level-1 engine, every function mutates the save it is given and
// performs no I/O.
package macro

import (
	"time"

	"github.com/alexandrarotta/microestado/internal/catalog"
	"github.com/alexandrarotta/microestado/internal/entropy"
	"github.com/alexandrarotta/microestado/internal/state"
)

// Engine runs the Level-2 rules against a catalog bundle.
type Engine struct {
	cat  *catalog.Bundle
	rand entropy.Source
	now  func() time.Time
}

// New creates a Level-2 engine. A nil source falls back to crypto
// randomness.
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

// active returns the Level-2 state, or a failed result when the save is
// not playing Level 2.
func active(s *state.Save) (*state.Level2, state.Result, bool) {
	if s.Level != 2 || s.Level2 == nil {
		return nil, state.BadRequest("Level 2 not active"), false
	}
	s.Level2.Normalize()
	return s.Level2, state.Ok(), true
}

// playable is active plus the Level-2 game-over guard.
func playable(s *state.Save) (*state.Level2, state.Result, bool) {
	l2, r, ok := active(s)
	if !ok {
		return nil, r, false
	}
	if l2.GameOver {
		return nil, state.BadRequest("Game over"), false
	}
	return l2, r, true
}

func (e *Engine) publish(s *state.Save, text string, kind state.NewsType, sev state.Severity) {
	s.PublishItem(state.NewsItem{
		Text:      text,
		Type:      kind,
		Severity:  sev,
		CreatedAt: e.now().UnixMilli(),
	})
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
