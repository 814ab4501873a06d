package engine

import (
	"github.com/alexandrarotta/microestado/internal/state"
)

// Soft requirements soften the leading industry when its supporting stat is
// weak: each unmet one multiplies revenue and growth by softRequirementMult.
const (
	softRequirementThreshold = 45
	softRequirementMult      = 0.85
)

// leaderModifier is the extra bonus an industry grants while it leads.
type leaderModifier struct {
	revenueMult        float64
	growthBase         float64
	happinessDelta     float64
	stabilityDelta     float64
	reputationDelta    float64
	resourceDelta      float64
	requiresEnergy     bool
	requiresStability  bool
	requiresInnovation bool
}

var leaderModifiers = map[string]leaderModifier{
	"AGRICULTURE": {revenueMult: 1.05, growthBase: 0.002, happinessDelta: 0.01},
	"EXTRACTION": {
		revenueMult:     1.2,
		growthBase:      0.001,
		resourceDelta:   -0.05,
		reputationDelta: -0.01,
	},
	"LIGHT_MANUFACTURING": {revenueMult: 1.1, growthBase: 0.0025, requiresEnergy: true},
	"SERVICES":            {revenueMult: 1.08, growthBase: 0.002, requiresStability: true},
	"TECHNOLOGY":          {revenueMult: 1.03, growthBase: 0.0035, requiresInnovation: true},
	"SECURITY_DEFENSE_ABSTRACT": {
		revenueMult:     1.02,
		growthBase:      0.001,
		stabilityDelta:  0.02,
		reputationDelta: -0.005,
	},
}

// industryShortKeys are the lowercase aliases catalog conditions may use.
var industryShortKeys = map[string]string{
	"AGRICULTURE":               "agriculture",
	"EXTRACTION":                "extraction",
	"LIGHT_MANUFACTURING":       "light_mfg",
	"SERVICES":                  "services",
	"TECHNOLOGY":                "tech",
	"SECURITY_DEFENSE_ABSTRACT": "security",
}

// softRequirementMultiplier returns the revenue and growth factor of the
// leading industry given the save's supporting stats.
func softRequirementMultiplier(s *state.Save, m *leaderModifier) float64 {
	if m == nil {
		return 1
	}
	mult := 1.0
	if m.requiresEnergy && s.Energy < softRequirementThreshold {
		mult *= softRequirementMult
	}
	if m.requiresStability && s.Stability < softRequirementThreshold {
		mult *= softRequirementMult
	}
	if m.requiresInnovation && s.Innovation < softRequirementThreshold {
		mult *= softRequirementMult
	}
	return mult
}

func leaderModifierFor(id string) *leaderModifier {
	m, ok := leaderModifiers[id]
	if !ok {
		return nil
	}
	return &m
}

// MaxIndustriesByPhase is the number of industries, leader included, a
// country may run once it has reached phase.
func MaxIndustriesByPhase(phase int) int {
	switch {
	case phase >= 4:
		return 4
	case phase >= 3:
		return 3
	case phase >= 2:
		return 2
	default:
		return 1
	}
}

// ActiveDiversified returns the diversified industries that count this
// tick: the leader is skipped and the list is cut to the phase cap.
func ActiveDiversified(s *state.Save) []string {
	limit := MaxIndustriesByPhase(s.MaxPhaseReached) - 1
	if limit <= 0 {
		return nil
	}
	out := make([]string, 0, limit)
	for _, id := range s.DiversifiedIndustries {
		if id == s.IndustryLeaderID {
			continue
		}
		out = append(out, id)
		if len(out) == limit {
			break
		}
	}
	return out
}

// SetIndustryLeader makes id the leading industry and drops it from the
// diversified list.
func (e *Engine) SetIndustryLeader(s *state.Save, id string) state.Result {
	if s.GameOver {
		return state.BadRequest("Game over")
	}
	if e.cat.Industry(id) == nil {
		return state.NotFound("Industry not found")
	}
	s.IndustryLeaderID = id
	s.DiversifiedIndustries = without(s.DiversifiedIndustries, id)
	return state.Ok()
}

// AddDiversifiedIndustry appends id to the diversified industries. Without
// a leader the industry becomes the leader instead.
func (e *Engine) AddDiversifiedIndustry(s *state.Save, id string) state.Result {
	if s.GameOver {
		return state.BadRequest("Game over")
	}
	if e.cat.Industry(id) == nil {
		return state.NotFound("Industry not found")
	}
	if s.MaxPhaseReached < 2 {
		return state.BadRequest("Phase locked")
	}
	maxDiversified := MaxIndustriesByPhase(s.MaxPhaseReached) - 1
	if maxDiversified <= 0 {
		return state.BadRequest("Phase locked")
	}
	if s.IndustryLeaderID == "" {
		s.IndustryLeaderID = id
		return state.Ok()
	}
	if id == s.IndustryLeaderID || contains(s.DiversifiedIndustries, id) {
		return state.Ok()
	}
	if len(s.DiversifiedIndustries) >= maxDiversified {
		return state.BadRequest("Industry limit reached")
	}
	s.DiversifiedIndustries = append(s.DiversifiedIndustries, id)
	return state.Ok()
}

// RemoveDiversifiedIndustry drops id from the diversified list.
func (e *Engine) RemoveDiversifiedIndustry(s *state.Save, id string) state.Result {
	if s.GameOver {
		return state.BadRequest("Game over")
	}
	s.DiversifiedIndustries = without(s.DiversifiedIndustries, id)
	return state.Ok()
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func without(list []string, id string) []string {
	out := list[:0:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}
