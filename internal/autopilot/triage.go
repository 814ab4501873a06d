package autopilot

import (
	"github.com/alexandrarotta/microestado/internal/engine"
	"github.com/alexandrarotta/microestado/internal/state"
)

// Crisis levels, worst first.
const (
	Critical = "CRITICAL"
	Warning  = "WARNING"
	Watch    = "WATCH"
	Healthy  = "HEALTHY"
)

// Health is the triage verdict for one observation.
type Health struct {
	Level   string   `json:"level"`
	Reasons []string `json:"reasons,omitempty"`
}

// Critical reports whether the save needs emergency measures.
func (h Health) Critical() bool { return h.Level == Critical }

// Stressed reports whether the save is at Warning or worse.
func (h Health) Stressed() bool { return h.Level == Critical || h.Level == Warning }

// Triage grades an observation. It is deterministic and cheap, so it runs
// on every step before any decision.
func Triage(o Observation) Health {
	var h Health
	add := func(level, reason string) {
		if rank(level) < rank(h.Level) || h.Level == "" {
			h.Level = level
		}
		h.Reasons = append(h.Reasons, reason)
	}

	if o.Risk >= engine.RiskThreshold {
		add(Critical, "coup risk")
	}
	if o.Treasury <= 0 && o.DebtRatio > 2.5 {
		add(Critical, "insolvent")
	}
	if o.Regime == state.RegimeHyper {
		add(Critical, "hyperinflation")
	}

	if o.Risk >= 60 {
		add(Warning, "risk rising")
	}
	if o.Happiness < 25 || o.Stability < 25 {
		add(Warning, "unrest")
	}
	if o.Regime == state.RegimeHigh || o.Regime == state.RegimeDeflation {
		add(Warning, "prices")
	}

	if o.Risk >= 40 {
		add(Watch, "risk")
	}
	if o.Treasury < 100 {
		add(Watch, "low treasury")
	}

	if h.Level == "" {
		h.Level = Healthy
	}
	return h
}

func rank(level string) int {
	switch level {
	case Critical:
		return 0
	case Warning:
		return 1
	case Watch:
		return 2
	default:
		return 3
	}
}
