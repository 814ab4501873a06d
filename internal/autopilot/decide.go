package autopilot

import (
	"fmt"

	"github.com/alexandrarotta/microestado/internal/catalog"
	"github.com/alexandrarotta/microestado/internal/effects"
	"github.com/alexandrarotta/microestado/internal/macro"
	"github.com/alexandrarotta/microestado/internal/state"
)

// Action names one cabinet move.
type Action string

const (
	ActNone           Action = "none"
	ActResolveEvent   Action = "resolve_event"
	ActPlanAnticrisis Action = "plan_anticrisis"
	ActWelfare        Action = "welfare"
	ActStartProject   Action = "start_project"
	ActContinue       Action = "continue_level2"
	ActResolveL2Event Action = "resolve_l2_event"
	ActCentralBank    Action = "central_bank"
	ActBaseIndustry   Action = "base_industry"
	ActStartL2Project Action = "start_l2_project"
	ActElection       Action = "election"
)

// Tuning of the rule set.
const (
	treasuryReserve  = 50
	unrestThreshold  = 35
	welfareTarget    = 45
	minElectionOdds  = 0.8
	criticalStatMult = 2
)

// Decision is the single move chosen for a step.
type Decision struct {
	Action    Action  `json:"action"`
	Target    string  `json:"target,omitempty"`
	Option    string  `json:"option,omitempty"`
	Value     float64 `json:"value,omitempty"`
	Rationale string  `json:"rationale"`
}

var none = Decision{Action: ActNone, Rationale: "nothing to do"}

// Decide picks at most one move. Rules are checked in priority order and
// the first that applies wins.
func (p *Pilot) Decide(s *state.Save, o Observation, h Health) Decision {
	if o.GameOver {
		return Decision{Action: ActNone, Rationale: "game over"}
	}
	if o.Level >= 2 {
		return p.decideLevel2(s, o, h)
	}
	return p.decideLevel1(s, o, h)
}

func (p *Pilot) decideLevel1(s *state.Save, o Observation, h Health) Decision {
	cat := p.game.Catalog()

	if o.ActiveEventID != "" {
		if ev := cat.Event(o.ActiveEventID); ev != nil && len(ev.Options) > 0 {
			best, bestScore := "", 0.0
			for i := range ev.Options {
				opt := &ev.Options[i]
				sc := score(p.game.L1.OptionEffects(s, ev, opt), h)
				if best == "" || sc > bestScore {
					best, bestScore = opt.ID, sc
				}
			}
			return Decision{Action: ActResolveEvent, Target: ev.ID, Option: best,
				Rationale: fmt.Sprintf("best option scores %.1f", bestScore)}
		}
	}

	if o.Level1Complete {
		return Decision{Action: ActContinue, Rationale: "level 1 complete"}
	}

	if h.Critical() && o.PlanReady {
		return Decision{Action: ActPlanAnticrisis, Rationale: "crisis: " + fmt.Sprint(h.Reasons)}
	}

	if (o.Happiness < unrestThreshold || o.Stability < unrestThreshold) && o.WelfarePct < welfareTarget {
		return Decision{Action: ActWelfare, Target: string(state.AreaWelfare), Value: welfareTarget,
			Rationale: "unrest, shifting budget to welfare"}
	}

	if id, cost := p.cheapestStartable(s, h); id != "" {
		return Decision{Action: ActStartProject, Target: id,
			Rationale: fmt.Sprintf("cheapest startable project (%.0f)", cost)}
	}
	return none
}

// cheapestStartable finds the cheapest Level-1 project that can start
// without draining the reserve. Under stress the reserve doubles.
func (p *Pilot) cheapestStartable(s *state.Save, h Health) (string, float64) {
	reserve := float64(treasuryReserve)
	if h.Stressed() {
		reserve *= 2
	}
	best, bestCost := "", 0.0
	cat := p.game.Catalog()
	for i := range cat.Projects {
		pr := &cat.Projects[i]
		if !p.game.L1.Startable(pr, s) {
			continue
		}
		cost := p.game.L1.ProjectCost(pr, s)
		if s.Treasury-cost < reserve {
			continue
		}
		if best == "" || cost < bestCost {
			best, bestCost = pr.ID, cost
		}
	}
	return best, bestCost
}

func (p *Pilot) decideLevel2(s *state.Save, o Observation, h Health) Decision {
	cat := p.game.Catalog()
	l2 := s.Level2

	if pending := l2.Events.Pending; pending != nil {
		if def := cat.L2Event(pending.EventID); def != nil && len(def.Options) > 0 {
			best, bestScore := "", 0.0
			for i := range def.Options {
				opt := &def.Options[i]
				set, _ := effects.Normalize(opt.Effects)
				sc := score(set, h)
				if opt.Action == catalog.ActionCallElections && o.WinChance < minElectionOdds {
					continue
				}
				if best == "" || sc > bestScore {
					best, bestScore = opt.ID, sc
				}
			}
			if best != "" {
				return Decision{Action: ActResolveL2Event, Target: pending.InstanceID, Option: best,
					Rationale: fmt.Sprintf("%s: best option scores %.1f", def.ID, bestScore)}
			}
		}
	}

	if o.BankReady {
		switch o.Regime {
		case state.RegimeHigh, state.RegimeHyper:
			return Decision{Action: ActCentralBank, Target: string(macro.RaiseRate), Rationale: "inflation " + string(o.Regime)}
		case state.RegimeDeflation:
			return Decision{Action: ActCentralBank, Target: string(macro.LowerRate), Rationale: "deflation"}
		}
	}

	if o.BaseIndustry == "" {
		if id := p.cheapestIndustry(s); id != "" {
			return Decision{Action: ActBaseIndustry, Target: id, Rationale: "cheapest unlocked base industry"}
		}
	}

	best, bestCost := "", 0.0
	for id, ps := range l2.Projects {
		if ps.Status != state.ProjectAvailable {
			continue
		}
		def := cat.L2Project(id)
		if def == nil || s.Treasury-def.Cost < treasuryReserve {
			continue
		}
		if best == "" || def.Cost < bestCost || (def.Cost == bestCost && id < best) {
			best, bestCost = id, def.Cost
		}
	}
	if best != "" {
		return Decision{Action: ActStartL2Project, Target: best,
			Rationale: fmt.Sprintf("cheapest available project (%.0f)", bestCost)}
	}

	if o.ElectionReady && o.WinChance >= minElectionOdds && s.Treasury-macro.ElectionCost >= treasuryReserve {
		return Decision{Action: ActElection, Rationale: fmt.Sprintf("win chance %.2f", o.WinChance)}
	}
	return none
}

func (p *Pilot) cheapestIndustry(s *state.Save) string {
	best, bestCost := "", 0.0
	cat := p.game.Catalog()
	for i := range cat.L2Industries {
		ind := &cat.L2Industries[i]
		if !macro.IndustryUnlocked(ind, s.Level2) {
			continue
		}
		cost := ind.Attributes.Capex * macro.CapexCostMultiplier
		if s.Treasury-cost < treasuryReserve {
			continue
		}
		if best == "" || cost < bestCost {
			best, bestCost = ind.ID, cost
		}
	}
	return best
}

// weights of each effect key when comparing options. Keys that hurt the
// country when they grow carry negative weights.
var weights = map[effects.Key]float64{
	effects.Treasury:            0.05,
	effects.Debt:                -0.05,
	effects.InflationPct:        -2,
	effects.Happiness:           1,
	effects.Stability:           1,
	effects.InstitutionalTrust:  1,
	effects.Corruption:          -1,
	effects.Reputation:          0.5,
	effects.Employment:          0.5,
	effects.Inequality:          -0.5,
	effects.Innovation:          0.3,
	effects.Energy:              0.3,
	effects.Resources:           0.2,
	effects.EnvironmentalImpact: -0.3,
	effects.GrowthPct:           2,
	effects.GDP:                 0.01,
	effects.TourismPressure:     -0.2,
}

// score rates an effect set. In a crisis, stability and happiness count
// double.
func score(set effects.Set, h Health) float64 {
	total := 0.0
	for k, v := range set {
		w := weights[k]
		if h.Critical() && (k == effects.Stability || k == effects.Happiness) {
			w *= criticalStatMult
		}
		total += w * v
	}
	return total
}
