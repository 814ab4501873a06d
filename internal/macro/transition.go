package macro

import (
	"log/slog"

	"github.com/alexandrarotta/microestado/internal/state"
)

// ContinueToLevel2 moves a finished Level-1 save into Level 2. Calling it on
// a save already in Level 2 is a no-op.
func (e *Engine) ContinueToLevel2(s *state.Save) state.Result {
	if s.Level == 2 && s.Level2 != nil {
		return state.Ok()
	}
	if !s.Level1Complete && s.Phase < 4 {
		return state.BadRequest("Level 1 not complete")
	}
	if s.GameOver {
		return state.BadRequest("Game over")
	}
	s.Level = 2
	s.Level1Complete = true
	s.Level2 = state.NewLevel2()
	e.RebuildProjects(s)
	e.publish(s, "Nivel 2: comienza la macroeconomia.", state.NewsSystem, state.SeverityOK)
	slog.Info("level 2 started", "country", s.Country.FormalName, "tick", s.TickCount)
	return state.Ok()
}
