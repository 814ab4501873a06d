package engine

import (
	"math"

	"github.com/alexandrarotta/microestado/internal/state"
)

// TickOptions tune one call to Tick.
type TickOptions struct {
	// SuppressEvents skips the event block, as offline replay does.
	SuppressEvents bool
}

// TickReport summarizes what one tick did. It is pushed to live
// subscribers and used by the headless simulator.
type TickReport struct {
	Tick            int     `json:"tick"`
	Income          float64 `json:"income"`
	TourismRevenue  float64 `json:"tourismRevenue"`
	Spending        float64 `json:"spending"`
	EffectiveGrowth float64 `json:"effectiveGrowth"`
	Phase           int     `json:"phase"`
	Risk            float64 `json:"risk"`
	EventID         string  `json:"eventId,omitempty"`
	PlanActivated   bool    `json:"planActivated,omitempty"`
	GameOver        bool    `json:"gameOver,omitempty"`
	Skipped         bool    `json:"skipped,omitempty"`
}

// Tick advances a Level-1 save by one step. The order is fixed: budget and
// taxes, treasury and debt, resources, growth and GDP, stat drifts,
// projects, admin, phase, events, automatic emergency plan and coup risk.
// Later stages read values mutated by earlier ones.
func (e *Engine) Tick(s *state.Save, opts TickOptions) TickReport {
	if s.GameOver || s.Level >= 2 {
		return TickReport{Tick: s.TickCount, Phase: s.Phase, Risk: s.LastRisk, GameOver: s.GameOver, Skipped: true}
	}
	s.Normalize()
	eco := &e.cat.Economy
	role := e.role(s)
	remote := e.remote(s)
	ind := e.industryEffects(s)
	dec := e.decreeModifiers(s)
	leader := leaderModifierFor(s.IndustryLeaderID)
	softMult := softRequirementMultiplier(s, leader)
	var lm leaderModifier
	if leader != nil {
		lm = *leader
	} else {
		lm.revenueMult = 1
	}
	leaderRevenueMult := lm.revenueMult * softMult
	leaderGrowthBase := lm.growthBase * softMult
	speed := DecisionSpeed(role, s)
	blocked := coalitionBlocked(role, s)
	driftScale := eco.StatDriftScale * role.Modifier("statDriftMultiplier", 1)
	tourism := TourismMetrics(s)
	td := tourism.deltas()
	adminDrift := adminCorruptionDrift(s)

	report := TickReport{Tick: s.TickCount, TourismRevenue: tourism.Revenue}

	// Budget and taxes.
	spending := s.GDP * eco.SpendingScale
	industrySpend := spending * s.Budget.IndustryPct / 100
	welfareSpend := spending * s.Budget.WelfarePct / 100
	taxRate := TaxRate(s)
	taxPct := clamp(s.TaxRatePct, 0, 100) / 100
	efficiency := clamp(eco.CollectionEfficiencyBase+(s.InstitutionalTrust-50)*0.003-s.Corruption*0.004, 0.2, 1.2)
	evasionReduction := 0.0
	agencyIncomeMult := 1.0
	if s.Agencies.Revenue {
		evasionReduction = eco.Agencies.Revenue.EvasionReduction
		agencyIncomeMult = eco.Agencies.Revenue.IncomeMult
	}
	evasion := clamp(eco.EvasionBase+s.Corruption*0.002-s.InstitutionalTrust*0.0015-evasionReduction+taxPct*0.08, 0.05, 0.85)
	treatyIncomeMult := 1.0
	if s.Treaties {
		treatyIncomeMult = eco.Treaties.IncomeMult
	}
	income := s.GDP * taxRate * efficiency * (1 - evasion) * eco.IncomeScale
	income *= dec.incomeMult * agencyIncomeMult * treatyIncomeMult * leaderRevenueMult
	if s.Phase == 1 && s.CompletedProjects() < 1 {
		income = math.Max(income, math.Max(eco.MinimumRevenue.Floor, s.GDP*eco.MinimumRevenue.Phase1Scale))
	}
	report.Income = income
	report.Spending = spending

	// Treasury and debt. Deficits become debt.
	s.Treasury += income + tourism.Revenue - spending
	if s.Treasury < 0 {
		s.Debt += -s.Treasury
		s.Treasury = 0
	}
	s.Debt += s.Debt * eco.DebtInterestRate
	e.maybeUnlockPlan(s)

	// Resources.
	use := eco.ResourceUseBase + ind.resourceDrain + s.Budget.IndustryPct/100*eco.ResourceUseIndustryBoost
	s.Resources = clamp(s.Resources-use+lm.resourceDelta, 0, 200)
	if s.IndustryLeaderID == "EXTRACTION" {
		s.Resources = clamp(s.Resources+eco.ExtractionBaseYield, 0, 200)
	}

	// Growth and GDP.
	gdpDiv := math.Max(s.GDP, 1)
	industryFactor := industrySpend / gdpDiv
	growth := industryFactor*0.6 + (s.Innovation-50)/100*0.25 + (s.Stability-50)/100*0.25
	growth += role.Modifier("gdpGrowthBonus", 0)
	if s.Agencies.Promotion {
		growth += eco.Agencies.Promotion.GrowthBonus
	}
	if p := role.Modifier("reputationGrowthPenalty", 0); p != 0 && s.Reputation > 65 {
		growth -= p
	}
	resourcePenalty := 0.0
	if s.Resources <= 0 {
		resourcePenalty = eco.ResourceGrowthPenalty
	}
	growth -= s.Corruption/100*0.3 +
		s.Debt/gdpDiv*0.2 +
		math.Max(0, s.EnvironmentalImpact-50)/100*0.2 +
		resourcePenalty +
		remote.TaxElasticity*(taxPct*1.5-0.5)
	s.GrowthPct = clamp(s.GrowthPct+(growth+dec.growthBonus)*driftScale, -6, 12)

	effective := leaderGrowthBase*100 + s.GrowthPct*eco.GDPGrowthScale
	growthIsNegative := effective <= 0
	s.GDP = math.Max(1, s.GDP*(1+effective/100))
	s.GDP = math.Max(1, s.GDP+tourism.GDPBoost)
	report.EffectiveGrowth = effective

	e.driftStats(s, driftInputs{
		scale:          driftScale,
		taxRate:        taxRate,
		taxPct:         taxPct,
		industryFactor: industryFactor,
		welfareSpend:   welfareSpend,
		penalty:        remote.HappinessTaxPenalty,
		adminDrift:     adminDrift,
		ind:            ind,
		dec:            dec,
		leader:         lm,
		tourism:        td,
	})
	s.TourismPressure = tourism.NextPressure

	// Projects, admin capacity and startable notices.
	e.advanceProjects(s, speed, blocked)
	syncAdminUnlock(s)
	s.Admin = math.Max(0, s.Admin+refreshAdminPerTick(s))
	e.notifyStartable(s)

	e.updatePhase(s)
	s.MaxPhaseReached = max(s.MaxPhaseReached, s.Phase)
	if s.Phase >= 4 {
		s.Treaties = true
	}

	if !opts.SuppressEvents {
		before := s.ActiveEventID
		e.runEvents(s, role, ind.climateSensitivity)
		if s.ActiveEventID != before {
			report.EventID = s.ActiveEventID
		}
	}

	if growthIsNegative && s.PlanAnticrisisUnlocked && s.TickCount >= s.PlanAnticrisisCooldownUntil {
		report.PlanActivated = e.activatePlan(s, true).OK
	}

	e.applyCoupRisk(s)
	s.TickCount++
	s.LastTickAt = e.now().UnixMilli()

	report.Phase = s.Phase
	report.Risk = s.LastRisk
	report.GameOver = s.GameOver
	return report
}

// driftInputs carries the per-tick inputs of the indicator drifts.
type driftInputs struct {
	scale          float64
	taxRate        float64
	taxPct         float64
	industryFactor float64
	welfareSpend   float64
	penalty        float64
	adminDrift     float64
	ind            industryEffects
	dec            decreeModifiers
	leader         leaderModifier
	tourism        tourismDeltas
}

// driftStats moves the ten social and structural indicators. Each delta is
// scaled by the drift scale and clamped to [0, 100], in a fixed order.
func (e *Engine) driftStats(s *state.Save, d driftInputs) {
	eco := &e.cat.Economy
	role := e.role(s)
	gdpDiv := math.Max(s.GDP, 1)
	move := func(p *float64, delta float64) {
		*p = clamp(*p+delta*d.scale, 0, 100)
	}

	taxTerm := d.penalty * d.taxRate / maxTaxRate
	move(&s.Happiness, d.welfareSpend/gdpDiv*3+
		(s.Employment-50)*0.01-
		(s.Inequality-50)*0.01+
		taxTerm+
		d.dec.happinessDrift+
		d.leader.happinessDelta+
		d.tourism.happiness+
		eco.BaseDrifts.Happiness)

	move(&s.Stability, (s.InstitutionalTrust-50)*0.012-
		(s.Corruption-30)*0.01+
		role.Modifier("stabilityDrift", 0)+
		d.dec.stabilityDrift+
		role.Modifier("protestRisk", 0)*0.5+
		d.ind.stabilityDrift+
		d.leader.stabilityDelta+
		d.tourism.stability+
		eco.BaseDrifts.Stability)

	move(&s.InstitutionalTrust, (s.Stability-50)*0.01-
		(s.Corruption-30)*0.01+
		d.dec.trustDrift+
		role.Modifier("institutionalTrustDrift", 0))

	inspectionCorruption, inspectionEnvironment := 0.0, 0.0
	if s.Agencies.Inspection {
		inspectionCorruption = eco.Agencies.Inspection.CorruptionDrift
		inspectionEnvironment = eco.Agencies.Inspection.EnvironmentalDrift
	}
	move(&s.Corruption, (-0.1+d.taxPct*0.3)+
		role.Modifier("corruptionDrift", 0)+
		d.dec.corruptionDrift+
		inspectionCorruption-
		(s.InstitutionalTrust-50)*0.01+
		d.adminDrift+
		eco.BaseDrifts.Corruption)

	promotion, treaty := 0.0, 0.0
	if s.Agencies.Promotion {
		promotion = eco.Agencies.Promotion.ReputationDrift
	}
	if s.Treaties {
		treaty = eco.Treaties.ReputationDrift
	}
	move(&s.Reputation, role.Modifier("reputationDrift", 0)+
		d.dec.reputationDrift+
		(s.Stability-50)*0.01-
		s.Budget.SecurityDiplomacyPct/100*eco.SecurityReputationPenalty-
		math.Max(0, s.EnvironmentalImpact-50)*0.008+
		d.ind.reputationDrift+
		d.leader.reputationDelta+
		d.tourism.reputation+
		promotion+
		treaty+
		eco.BaseDrifts.Reputation)

	move(&s.Employment, s.GrowthPct/100*1.5+d.industryFactor*0.8-(s.Inequality-50)*0.01)
	move(&s.Energy, d.industryFactor*1.2-math.Max(0, s.EnvironmentalImpact-50)*0.01-d.ind.energyDemand)
	move(&s.Innovation, d.industryFactor*0.9+
		(s.InstitutionalTrust-50)*0.005-
		(s.Corruption-30)*0.01+
		d.ind.innovationDrift)
	move(&s.Inequality, (0.4-d.taxPct*0.9)+(s.Corruption-30)*0.01-d.welfareSpend/gdpDiv*1.2)
	move(&s.EnvironmentalImpact, d.industryFactor*1.4-
		d.welfareSpend/gdpDiv*0.4+
		d.ind.environmentalDrift+
		inspectionEnvironment+
		d.tourism.environmental)
}
