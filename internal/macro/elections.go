package macro

import (
	"log/slog"

	"github.com/alexandrarotta/microestado/internal/social"
	"github.com/alexandrarotta/microestado/internal/state"
)

// Election tuning.
const (
	ElectionCooldownTicks = 600
	ElectionCost          = 100

	minWinChance = 0.05
	maxWinChance = 0.95
)

// MedalReelection is awarded for winning a Level-2 election.
const MedalReelection = "REELECTION_L2"

const (
	narrativeWin  = "La coalicion ratifica el mandato con respaldo amplio."
	narrativeLoss = "La oposicion gana y el gabinete entrega el poder."
)

// WinChance is the probability of winning an election with the save's
// current indicators.
func WinChance(s *state.Save) float64 {
	score := 0.35*s.Happiness + 0.35*s.Stability + 0.25*s.InstitutionalTrust -
		0.3*s.Corruption + 0.1*s.Reputation
	return clamp(score/100, minWinChance, maxWinChance)
}

// RunElection calls an election. Only democratic roles may do so; the
// campaign is paid whatever the outcome and a loss ends the game.
func (e *Engine) RunElection(s *state.Save) state.Result {
	l2, r, ok := playable(s)
	if !ok {
		return r
	}
	return e.runElection(s, l2)
}

// runElection is shared by the election endpoint, the election decree and
// event options that call elections.
func (e *Engine) runElection(s *state.Save, l2 *state.Level2) state.Result {
	if !social.IsDemocratic(s.Leader.RoleID) {
		return state.Forbidden("Regime not democratic")
	}
	if s.TickCount < l2.Elections.CooldownUntilTick {
		res := state.BadRequest("Cooldown active")
		res.CooldownUntil = l2.Elections.CooldownUntilTick
		return res
	}

	chance := WinChance(s)
	s.Treasury = max(0, s.Treasury-ElectionCost)
	l2.Elections.CooldownUntilTick = s.TickCount + ElectionCooldownTicks

	win := e.rand.Float() < chance
	res := state.Ok()
	res.Win = &win
	res.WinChance = chance
	if win {
		s.Reputation = clamp(s.Reputation+5, 0, 100)
		s.InstitutionalTrust = clamp(s.InstitutionalTrust+5, 0, 100)
		if !s.HasMedal(MedalReelection) {
			s.Medals = append(s.Medals, MedalReelection)
		}
		res.Narrative = narrativeWin
		e.publish(s, "Elecciones: "+narrativeWin, state.NewsSystem, state.SeverityOK)
	} else {
		l2.GameOver = true
		l2.GameOverReason = "Derrota electoral"
		res.Narrative = narrativeLoss
		e.publish(s, "Elecciones: "+narrativeLoss, state.NewsSystem, state.SeverityCritical)
	}
	slog.Info("election held", "country", s.Country.FormalName, "win", win, "chance", chance, "tick", s.TickCount)
	return res
}
