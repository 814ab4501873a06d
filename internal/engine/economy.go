package engine

import (
	"math"

	"github.com/alexandrarotta/microestado/internal/catalog"
	"github.com/alexandrarotta/microestado/internal/state"
)

// Tax rate bounds. The player's tax slider maps linearly onto them.
const (
	minTaxRate = 0.08
	maxTaxRate = 0.3
)

var taxLevelPct = map[state.TaxLevel]float64{
	state.TaxLow:  20,
	state.TaxMed:  50,
	state.TaxHigh: 85,
}

// ResolveTaxRatePct picks the slider value for a new save: an explicit
// percentage wins, otherwise the legacy three-step level is translated.
func ResolveTaxRatePct(level state.TaxLevel, pct float64) float64 {
	if pct > 0 {
		return clamp(pct, 0, 100)
	}
	if v, ok := taxLevelPct[level]; ok {
		return v
	}
	return taxLevelPct[state.TaxMed]
}

// TaxRate returns the effective tax rate of the save.
func TaxRate(s *state.Save) float64 {
	return minTaxRate + (maxTaxRate-minTaxRate)*clamp(s.TaxRatePct, 0, 100)/100
}

// Tourism tuning.
const (
	tourismRevenuePerUnit  = 0.4
	tourismGDPPerUnit      = 0.8
	tourismPressureFactor  = 0.05
	tourismPressureDecay   = 0.02
	tourismPressureHigh    = 60
	tourismPressureCalm    = 30
	tourismHappyThroughput = 40
)

// Tourism is the per-tick tourism outcome derived from the current save.
type Tourism struct {
	Demand        float64 `json:"demand"`
	Throughput    float64 `json:"throughput"`
	Revenue       float64 `json:"revenue"`
	GDPBoost      float64 `json:"gdpBoost"`
	PressureDelta float64 `json:"pressureDelta"`
	NextPressure  float64 `json:"nextPressure"`
}

// TourismMetrics computes demand against capacity. Demand above capacity
// builds pressure; spare capacity lets it decay.
func TourismMetrics(s *state.Save) Tourism {
	reputationFactor := 0.6 + s.Reputation/100*0.8
	stabilityFactor := 0.6 + s.Stability/100*0.8
	geographyFactor := 1.0
	if s.Country.Geography == "archipelago" {
		geographyFactor = 1.1
	}
	industryFactor := 1.0
	if s.IndustryLeaderID == "SERVICES" {
		industryFactor = 1.1
	}

	var t Tourism
	t.Demand = clamp(s.TourismIndex*reputationFactor*stabilityFactor*geographyFactor*industryFactor, 0, 100)
	t.Throughput = math.Min(t.Demand, s.TourismCapacity)
	t.Revenue = t.Throughput * tourismRevenuePerUnit
	t.GDPBoost = t.Throughput * tourismGDPPerUnit
	t.PressureDelta = math.Max(0, t.Demand-s.TourismCapacity) * tourismPressureFactor
	if t.Demand <= s.TourismCapacity {
		t.PressureDelta -= tourismPressureDecay
	}
	t.NextPressure = clamp(s.TourismPressure+t.PressureDelta, 0, 100)
	return t
}

// tourismDeltas are the stat drifts caused by the next tourism pressure.
type tourismDeltas struct {
	happiness, stability, environmental, reputation float64
}

func (t Tourism) deltas() tourismDeltas {
	var d tourismDeltas
	switch {
	case t.NextPressure > tourismPressureHigh:
		d.happiness = -1
		d.stability = -0.8
		d.environmental = 1
	case t.NextPressure < tourismPressureCalm && t.Throughput > tourismHappyThroughput:
		d.happiness = 0.2
	}
	switch {
	case t.NextPressure > tourismPressureHigh+10:
		d.reputation = -0.3
	case t.Throughput > 50 && t.NextPressure < tourismPressureCalm:
		d.reputation = 0.2
	}
	return d
}

// industryEffects is the weighted aggregate of the leading and diversified
// catalog industries.
type industryEffects struct {
	incomeMult         float64
	resourceDrain      float64
	environmentalDrift float64
	reputationDrift    float64
	stabilityDrift     float64
	innovationDrift    float64
	energyDemand       float64
	climateSensitivity float64
}

func (ie *industryEffects) add(ind *catalog.Industry, w float64) {
	if ind == nil {
		return
	}
	ie.incomeMult *= 1 + (ind.IncomeMult-1)*w
	ie.resourceDrain += ind.ResourceDrain * w
	ie.environmentalDrift += ind.EnvironmentalDrift * w
	ie.reputationDrift += ind.ReputationDrift * w
	ie.stabilityDrift += ind.StabilityDrift * w
	ie.innovationDrift += ind.InnovationDrift * w
	ie.energyDemand += ind.EnergyDemand * w
	ie.climateSensitivity += ind.ClimateSensitivity * w
}

func (e *Engine) industryEffects(s *state.Save) industryEffects {
	ie := industryEffects{incomeMult: 1}
	if s.IndustryLeaderID != "" {
		ie.add(e.cat.Industry(s.IndustryLeaderID), 1)
	}
	w := e.cat.Economy.IndustryDiversificationWeight
	for _, id := range ActiveDiversified(s) {
		ie.add(e.cat.Industry(id), w)
	}
	return ie
}

// decreeModifiers folds the passive modifiers of every active decree.
type decreeModifiers struct {
	incomeMult      float64
	growthBonus     float64
	happinessDrift  float64
	stabilityDrift  float64
	trustDrift      float64
	corruptionDrift float64
	reputationDrift float64
}

func (e *Engine) decreeModifiers(s *state.Save) decreeModifiers {
	m := decreeModifiers{incomeMult: 1}
	for _, slot := range s.DecreeSlots {
		if slot.DecreeID == "" || s.TickCount >= slot.ActiveUntil {
			continue
		}
		d := e.cat.Decree(slot.DecreeID)
		if d == nil {
			continue
		}
		if v, ok := d.Modifiers["incomeMult"]; ok {
			m.incomeMult *= v
		}
		m.growthBonus += d.Modifiers["growthBonus"]
		m.happinessDrift += d.Modifiers["happinessDrift"]
		m.stabilityDrift += d.Modifiers["stabilityDrift"]
		m.trustDrift += d.Modifiers["institutionalTrustDrift"]
		m.corruptionDrift += d.Modifiers["corruptionDrift"]
		m.reputationDrift += d.Modifiers["reputationDrift"]
	}
	return m
}

// coalitionBlocked reports whether the governing coalition is stalling:
// a coalition role with happiness under 45.
func coalitionBlocked(role *catalog.Role, s *state.Save) bool {
	return role != nil && role.CoalitionBlock && s.Happiness < 45
}

// DecisionSpeed is the per-tick project progress of the leader's role.
func DecisionSpeed(role *catalog.Role, s *state.Save) float64 {
	speed := role.Modifier("decisionSpeed", 1)
	if coalitionBlocked(role, s) {
		speed *= 0.75
	}
	return speed
}

// SanctionRisk scales the weight of sanction-tagged events.
func SanctionRisk(role *catalog.Role, s *state.Save) float64 {
	if role == nil {
		return 0
	}
	risk := role.SanctionRiskBase
	switch role.ID {
	case "KING_ABSOLUTE":
		if s.Budget.SecurityDiplomacyPct > 40 && s.Reputation < 40 {
			risk += 0.15
		}
	case "DICTATOR", "SUPREME_LEADER", "DICTATORSHIP":
		risk += 0.1
		if s.Reputation < 30 {
			risk += 0.2
		}
	}
	if s.Budget.SecurityDiplomacyPct > 50 {
		risk += 0.05
	}
	return risk
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
