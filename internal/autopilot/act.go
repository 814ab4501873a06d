package autopilot

import (
	"log/slog"

	"github.com/alexandrarotta/microestado/internal/macro"
	"github.com/alexandrarotta/microestado/internal/session"
	"github.com/alexandrarotta/microestado/internal/state"
)

// Pilot plays a save through the engines of a session.Game.
type Pilot struct {
	game    *session.Game
	journal *Journal
}

// New creates a pilot.
func New(g *session.Game) *Pilot {
	return &Pilot{game: g, journal: NewJournal()}
}

// Journal returns the pilot's record of steps.
func (p *Pilot) Journal() *Journal { return p.journal }

// Step runs one observe, triage, decide and act cycle.
func (p *Pilot) Step(s *state.Save) Record {
	o := Observe(s)
	h := Triage(o)
	d := p.Decide(s, o, h)
	res := p.Act(s, d)

	rec := Record{
		Tick:      s.TickCount,
		Level:     s.Level,
		Action:    d.Action,
		Target:    d.Target,
		Crisis:    h.Level,
		OK:        res.OK,
		Error:     res.Error,
		Treasury:  s.Treasury,
		Rationale: d.Rationale,
	}
	if d.Action != ActNone {
		p.journal.Add(rec)
		if !res.OK {
			slog.Debug("autopilot action rejected", "tick", rec.Tick, "action", d.Action, "target", d.Target, "error", res.Error)
		}
	}
	return rec
}

// Act applies a decision. ActNone always succeeds.
func (p *Pilot) Act(s *state.Save, d Decision) state.Result {
	l1, l2 := p.game.L1, p.game.L2
	switch d.Action {
	case ActNone:
		return state.Ok()
	case ActResolveEvent:
		return l1.ResolveEvent(s, d.Target, d.Option)
	case ActPlanAnticrisis:
		return l1.ActivatePlanAnticrisis(s)
	case ActWelfare:
		return l1.UpdateBudget(s, state.BudgetArea(d.Target), d.Value)
	case ActStartProject:
		return l1.StartProject(s, d.Target)
	case ActContinue:
		return l2.ContinueToLevel2(s)
	case ActResolveL2Event:
		return l2.ResolveEvent(s, d.Target, d.Option)
	case ActCentralBank:
		return l2.RunCentralBank(s, macro.CentralBankAction(d.Target))
	case ActBaseIndustry:
		return l2.ChooseBaseIndustry(s, d.Target)
	case ActStartL2Project:
		return l2.StartProject(s, d.Target)
	case ActElection:
		return l2.RunElection(s)
	default:
		return state.BadRequest("Unknown action")
	}
}
