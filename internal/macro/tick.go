package macro

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/alexandrarotta/microestado/internal/catalog"
	"github.com/alexandrarotta/microestado/internal/effects"
	"github.com/alexandrarotta/microestado/internal/state"
)

// Level-2 tick tuning.
const (
	incomeBaseScale = 0.02
	opexCostScale   = 2.5

	deflationIncomeMult = 0.95
	deflationTrustDecay = 0.1
)

// regimePenalty is the growth and happiness cost of an inflation regime.
var regimePenalty = map[state.InflationRegime]struct{ growth, happiness float64 }{
	state.RegimeHigh:  {0.3, 0.1},
	state.RegimeHyper: {0.6, 0.3},
}

// TickOptions tune one call to Tick.
type TickOptions struct {
	// SuppressEvents skips the event check, as offline replay does.
	SuppressEvents bool
}

// TickReport summarizes one Level-2 tick.
type TickReport struct {
	Tick            int                   `json:"tick"`
	NetIncome       float64               `json:"netIncome"`
	InflationPct    float64               `json:"inflationPct"`
	Regime          state.InflationRegime `json:"regime"`
	EffectiveGrowth float64               `json:"effectiveGrowth"`
	Phase           int                   `json:"phase"`
	EventInstanceID string                `json:"eventInstanceId,omitempty"`
	Complete        bool                  `json:"complete,omitempty"`
	GameOver        bool                  `json:"gameOver,omitempty"`
	Skipped         bool                  `json:"skipped,omitempty"`
}

// aggregate is the combined modifier set of the active industries.
type aggregate struct {
	incomeMult float64
	growthAdd  float64
	inflation  float64
	pollution  float64
	opex       float64
}

func (e *Engine) aggregate(l2 *state.Level2) aggregate {
	var a aggregate
	for _, id := range l2.Industries.ActiveIndustries {
		ind := e.cat.L2Industry(id)
		if ind == nil {
			continue
		}
		a.incomeMult += ind.Modifiers.IncomeMult
		a.growthAdd += ind.Modifiers.BaseGrowthAddPct
		a.inflation += ind.Modifiers.InflationPressureAdd
		a.pollution += ind.Modifiers.PollutionAdd
		a.opex += ind.Attributes.Opex * opexCostScale
	}
	return a
}

// Tick advances a Level-2 save by one step: industry income against opex,
// pollution, inflation and its regime, the central-bank effect window, GDP,
// projects, phase and the event check. Treasury floors at zero; Level 2
// does not turn deficits into debt.
func (e *Engine) Tick(s *state.Save, opts TickOptions) TickReport {
	if s.Level != 2 || s.Level2 == nil || s.Level2.GameOver {
		rep := TickReport{Tick: s.TickCount, Skipped: true}
		if s.Level2 != nil {
			rep.Phase = s.Level2.Phase
			rep.GameOver = s.Level2.GameOver
		}
		return rep
	}
	l2 := s.Level2
	l2.Normalize()
	e.RebuildProjects(s)

	if base := l2.Industries.ChosenBaseIndustryID; base != "" && !l2.Industries.IsActive(base) {
		l2.Industries.ActiveIndustries = append(l2.Industries.ActiveIndustries, base)
	}
	agg := e.aggregate(l2)

	income := s.GDP * incomeBaseScale
	if agg.incomeMult > 0 {
		income *= agg.incomeMult
	}
	net := income - agg.opex
	if l2.Macro.Regime == state.RegimeDeflation {
		net *= deflationIncomeMult
		s.InstitutionalTrust = clamp(s.InstitutionalTrust-deflationTrustDecay, 0, 100)
	}
	s.Treasury = math.Max(0, s.Treasury+net)

	if agg.pollution != 0 {
		s.EnvironmentalImpact = clamp(s.EnvironmentalImpact+agg.pollution, 0, 100)
	}
	effects.SetInflation(s, l2.Macro.InflationPct+agg.inflation)

	cb := &l2.Macro.CentralBank
	if cb.EffectUntilTick != 0 && s.TickCount >= cb.EffectUntilTick {
		cb.EffectUntilTick = 0
		cb.GrowthEffectPct = 0
	}

	penalty := regimePenalty[l2.Macro.Regime]
	if penalty.happiness != 0 {
		s.Happiness = clamp(s.Happiness-penalty.happiness, 0, 100)
	}
	growth := agg.growthAdd + s.GrowthPct*e.cat.Economy.GDPGrowthScale + cb.GrowthEffectPct - penalty.growth
	s.GDP = math.Max(1, s.GDP*(1+growth/100))

	e.advanceProjects(s, l2)
	e.refreshProjects(s, l2)

	wasComplete := l2.Complete
	l2.Phase = phaseFor(l2)
	if l2.Phase >= 4 {
		l2.Complete = true
	}
	if l2.Complete && !wasComplete {
		slog.Info("level 2 complete", "country", s.Country.FormalName, "tick", s.TickCount)
	}

	rep := TickReport{Tick: s.TickCount, NetIncome: net, EffectiveGrowth: growth}
	if !opts.SuppressEvents && e.MaybeTriggerEvent(s) && l2.Events.Pending != nil {
		rep.EventInstanceID = l2.Events.Pending.InstanceID
	}

	s.TickCount++
	s.LastTickAt = e.now().UnixMilli()

	rep.InflationPct = l2.Macro.InflationPct
	rep.Regime = l2.Macro.Regime
	rep.Phase = l2.Phase
	rep.Complete = l2.Complete
	return rep
}

// advanceProjects moves every in-progress project one tick forward.
func (e *Engine) advanceProjects(s *state.Save, l2 *state.Level2) {
	for i := range e.cat.L2Projects {
		p := &e.cat.L2Projects[i]
		ps := l2.Projects[p.ID]
		if ps == nil || ps.Status != state.ProjectInProgress {
			continue
		}
		ps.Progress++
		if ps.Progress >= p.DurationTicks {
			e.completeProject(s, p, ps)
		}
	}
}

func (e *Engine) completeProject(s *state.Save, p *catalog.L2Project, ps *state.ProjectState) {
	ps.Status = state.ProjectCompleted
	effects.ApplyMap(s, p.Effects)
	e.publish(s, fmt.Sprintf("Nivel 2 completa: %s.", p.Name), state.NewsProject, state.SeverityOK)
}
