package catalog

import (
	"github.com/alexandrarotta/microestado/internal/effects"
	"github.com/alexandrarotta/microestado/internal/rules"
	"github.com/alexandrarotta/microestado/internal/state"
)

// RoleLabels are the gendered display titles of a role.
type RoleLabels struct {
	Male    string `yaml:"male" json:"male"`
	Female  string `yaml:"female" json:"female"`
	Neutral string `yaml:"neutral" json:"neutral"`
}

// Role is a leader role and its simulation modifiers.
type Role struct {
	ID                      string             `yaml:"id" json:"id"`
	Labels                  RoleLabels         `yaml:"labels" json:"labels"`
	Modifiers               map[string]float64 `yaml:"modifiers" json:"modifiers"`
	FlavorText              []string           `yaml:"flavorText" json:"flavorText"`
	ChecksBalances          bool               `yaml:"checksBalances" json:"checksBalances,omitempty"`
	CoalitionBlock          bool               `yaml:"coalitionBlock" json:"coalitionBlock,omitempty"`
	SanctionRiskBase        float64            `yaml:"sanctionRiskBase" json:"sanctionRiskBase,omitempty"`
	CrisisSeverity          float64            `yaml:"crisisSeverity" json:"crisisSeverity,omitempty"`
	LowHappinessCrisisBoost float64            `yaml:"lowHappinessCrisisBoost" json:"lowHappinessCrisisBoost,omitempty"`
}

// Modifier returns a named role modifier or def when absent.
func (r *Role) Modifier(name string, def float64) float64 {
	if r == nil {
		return def
	}
	if v, ok := r.Modifiers[name]; ok {
		return v
	}
	return def
}

// Project is a Level-1 project.
type Project struct {
	ID            string             `yaml:"id" json:"id"`
	Name          string             `yaml:"name" json:"name"`
	Description   string             `yaml:"description" json:"description"`
	Phase         int                `yaml:"phase" json:"phase"`
	Cost          float64            `yaml:"cost" json:"cost"`
	ValueScore    float64            `yaml:"valueScore" json:"valueScore,omitempty"`
	AdminCost     float64            `yaml:"adminCost" json:"adminCost,omitempty"`
	DurationTicks float64            `yaml:"durationTicks" json:"durationTicks"`
	Requirements  map[string]float64 `yaml:"requirements" json:"requirements"`
	Effects       effects.Map        `yaml:"effects" json:"effects"`
}

// Conditions gate an event or scale an option's effects. Every set field
// must hold.
type Conditions struct {
	GeographyIn  []string           `yaml:"geographyIn" json:"geographyIn,omitempty"`
	IndustryIn   []string           `yaml:"industryIn" json:"industryIn,omitempty"`
	StatGte      map[string]float64 `yaml:"statGte" json:"statGte,omitempty"`
	StatLte      map[string]float64 `yaml:"statLte" json:"statLte,omitempty"`
	DebtToGdpGte *float64           `yaml:"debtToGdpGte" json:"debtToGdpGte,omitempty"`
	ResourcesLte *float64           `yaml:"resourcesLte" json:"resourcesLte,omitempty"`
	When         string             `yaml:"when" json:"when,omitempty"`

	when *rules.Program
}

// WhenProgram returns the compiled `when` expression, or nil.
func (c *Conditions) WhenProgram() *rules.Program {
	if c == nil {
		return nil
	}
	return c.when
}

// EffectModifier multiplies an option's effects when its conditions hold.
type EffectModifier struct {
	Conditions `yaml:",inline"`
	Mult       float64 `yaml:"mult" json:"mult"`
}

// EventOption is one choice of a Level-1 event.
type EventOption struct {
	ID              string           `yaml:"id" json:"id"`
	Text            string           `yaml:"text" json:"text"`
	Effects         effects.Map      `yaml:"effects" json:"effects"`
	News            string           `yaml:"news" json:"news,omitempty"`
	Modifiers       []EffectModifier `yaml:"modifiers" json:"modifiers,omitempty"`
	FollowUpEventID string           `yaml:"followUpEventId" json:"followUpEventId,omitempty"`
}

// Event is a Level-1 catalog event.
type Event struct {
	ID                  string      `yaml:"id" json:"id"`
	Title               string      `yaml:"title" json:"title"`
	Description         string      `yaml:"description" json:"description"`
	PhaseMin            int         `yaml:"phaseMin" json:"phaseMin,omitempty"`
	PhaseMax            int         `yaml:"phaseMax" json:"phaseMax,omitempty"`
	Weight              *float64    `yaml:"weight" json:"weight,omitempty"`
	Conditions          *Conditions `yaml:"conditions" json:"conditions,omitempty"`
	CooldownTicks       int         `yaml:"cooldownTicks" json:"cooldownTicks,omitempty"`
	RequiredGeographyID string      `yaml:"requiredGeographyId" json:"requiredGeographyId,omitempty"`
	RequiredIndustryID  string      `yaml:"requiredIndustryId" json:"requiredIndustryId,omitempty"`
	RequiredRoleID      string      `yaml:"requiredRoleId" json:"requiredRoleId,omitempty"`

	MinReputation *float64 `yaml:"minReputation" json:"minReputation,omitempty"`
	MaxReputation *float64 `yaml:"maxReputation" json:"maxReputation,omitempty"`
	MinStability  *float64 `yaml:"minStability" json:"minStability,omitempty"`
	MaxStability  *float64 `yaml:"maxStability" json:"maxStability,omitempty"`
	MinHappiness  *float64 `yaml:"minHappiness" json:"minHappiness,omitempty"`
	MaxHappiness  *float64 `yaml:"maxHappiness" json:"maxHappiness,omitempty"`
	MinCorruption *float64 `yaml:"minCorruption" json:"minCorruption,omitempty"`
	MaxCorruption *float64 `yaml:"maxCorruption" json:"maxCorruption,omitempty"`
	MinResources  *float64 `yaml:"minResources" json:"minResources,omitempty"`
	MaxResources  *float64 `yaml:"maxResources" json:"maxResources,omitempty"`

	Tags    []string      `yaml:"tags" json:"tags"`
	Options []EventOption `yaml:"options" json:"options"`
}

// Default event bounds.
const (
	DefaultEventPhaseMin = 1
	DefaultEventPhaseMax = 4
)

// Phases returns the inclusive phase window of the event.
func (e *Event) Phases() (lo, hi int) {
	lo, hi = e.PhaseMin, e.PhaseMax
	if lo == 0 {
		lo = DefaultEventPhaseMin
	}
	if hi == 0 {
		hi = DefaultEventPhaseMax
	}
	return lo, hi
}

// EffectiveWeight returns the declared weight, defaulting to 1.
func (e *Event) EffectiveWeight() float64 {
	if e.Weight == nil {
		return 1
	}
	return *e.Weight
}

// HasTag reports whether the event carries tag.
func (e *Event) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Option returns the option with the given id.
func (e *Event) Option(id string) *EventOption {
	for i := range e.Options {
		if e.Options[i].ID == id {
			return &e.Options[i]
		}
	}
	return nil
}

// Decree is a Level-1 decree that occupies a slot.
type Decree struct {
	ID            string             `yaml:"id" json:"id"`
	Name          string             `yaml:"name" json:"name"`
	Description   string             `yaml:"description" json:"description"`
	DurationTicks int                `yaml:"durationTicks" json:"durationTicks"`
	CooldownTicks int                `yaml:"cooldownTicks" json:"cooldownTicks"`
	Cost          effects.Map        `yaml:"cost" json:"cost"`
	Modifiers     map[string]float64 `yaml:"modifiers" json:"modifiers"`
}

// PhaseThreshold is the minimum headline state for a phase.
type PhaseThreshold struct {
	GDP       float64 `yaml:"gdp" json:"gdp"`
	Stability float64 `yaml:"stability" json:"stability"`
	Trust     float64 `yaml:"trust" json:"trust"`
	Projects  int     `yaml:"projects" json:"projects"`
}

// PhaseDefinition names a phase for the client.
type PhaseDefinition struct {
	ID      int      `yaml:"id" json:"id"`
	Name    string   `yaml:"name" json:"name"`
	Unlocks []string `yaml:"unlocks" json:"unlocks"`
}

// StartingState seeds every new save.
type StartingState struct {
	Treasury            float64        `yaml:"treasury" json:"treasury"`
	GDP                 float64        `yaml:"gdp" json:"gdp"`
	GrowthPct           float64        `yaml:"growthPct" json:"growthPct"`
	Happiness           float64        `yaml:"happiness" json:"happiness"`
	Stability           float64        `yaml:"stability" json:"stability"`
	InstitutionalTrust  float64        `yaml:"institutionalTrust" json:"institutionalTrust"`
	Corruption          float64        `yaml:"corruption" json:"corruption"`
	Resources           float64        `yaml:"resources" json:"resources"`
	Reputation          float64        `yaml:"reputation" json:"reputation"`
	Debt                float64        `yaml:"debt" json:"debt"`
	Employment          float64        `yaml:"employment" json:"employment"`
	Energy              float64        `yaml:"energy" json:"energy"`
	Innovation          float64        `yaml:"innovation" json:"innovation"`
	Inequality          float64        `yaml:"inequality" json:"inequality"`
	EnvironmentalImpact float64        `yaml:"environmentalImpact" json:"environmentalImpact"`
	TourismIndex        float64        `yaml:"tourismIndex" json:"tourismIndex"`
	TourismCapacity     float64        `yaml:"tourismCapacity" json:"tourismCapacity"`
	TourismPressure     float64        `yaml:"tourismPressure" json:"tourismPressure"`
	TaxRatePct          float64        `yaml:"taxRatePct" json:"taxRatePct"`
	TaxLevel            state.TaxLevel `yaml:"taxLevel" json:"taxLevel"`
	Budget              state.Budget   `yaml:"budget" json:"budget"`
}

// Economy holds every tuning constant of the Level-1 tick.
type Economy struct {
	TickMs          int64                      `yaml:"tickMs" json:"tickMs"`
	OfflineCapHours float64                    `yaml:"offlineCapHours" json:"offlineCapHours"`
	TaxRates        map[state.TaxLevel]float64 `yaml:"taxRates" json:"taxRates"`
	IncomeScale     float64                    `yaml:"incomeScale" json:"incomeScale"`
	SpendingScale   float64                    `yaml:"spendingScale" json:"spendingScale"`
	GDPGrowthScale  float64                    `yaml:"gdpGrowthScale" json:"gdpGrowthScale"`
	StatDriftScale  float64                    `yaml:"statDriftScale" json:"statDriftScale"`
	BaseDrifts      struct {
		Happiness  float64 `yaml:"happiness" json:"happiness"`
		Stability  float64 `yaml:"stability" json:"stability"`
		Corruption float64 `yaml:"corruption" json:"corruption"`
		Reputation float64 `yaml:"reputation" json:"reputation"`
	} `yaml:"baseDrifts" json:"baseDrifts"`
	CollectionEfficiencyBase  float64 `yaml:"collectionEfficiencyBase" json:"collectionEfficiencyBase"`
	EvasionBase               float64 `yaml:"evasionBase" json:"evasionBase"`
	EventBaseChance           float64 `yaml:"eventBaseChance" json:"eventBaseChance"`
	EventCooldownTicks        int     `yaml:"eventCooldownTicks" json:"eventCooldownTicks"`
	ProjectCostCurve          float64 `yaml:"projectCostCurve" json:"projectCostCurve"`
	ResourceUseBase           float64 `yaml:"resourceUseBase" json:"resourceUseBase"`
	ResourceUseIndustryBoost  float64 `yaml:"resourceUseIndustryBoost" json:"resourceUseIndustryBoost"`
	ResourceGrowthPenalty     float64 `yaml:"resourceGrowthPenalty" json:"resourceGrowthPenalty"`
	DebtInterestRate          float64 `yaml:"debtInterestRate" json:"debtInterestRate"`
	SecurityReputationPenalty float64 `yaml:"securityReputationPenalty" json:"securityReputationPenalty"`
	MinimumRevenue            struct {
		Phase1Scale float64 `yaml:"phase1Scale" json:"phase1Scale"`
		Floor       float64 `yaml:"floor" json:"floor"`
	} `yaml:"minimumRevenue" json:"minimumRevenue"`
	ExtractionBaseYield           float64 `yaml:"extractionBaseYield" json:"extractionBaseYield"`
	IndustryDiversificationWeight float64 `yaml:"industryDiversificationWeight" json:"industryDiversificationWeight"`
	PhaseThresholds               struct {
		Phase2 PhaseThreshold `yaml:"phase2" json:"phase2"`
		Phase3 PhaseThreshold `yaml:"phase3" json:"phase3"`
		Phase4 PhaseThreshold `yaml:"phase4" json:"phase4"`
	} `yaml:"phaseThresholds" json:"phaseThresholds"`
	PhaseDefinitions []PhaseDefinition `yaml:"phaseDefinitions" json:"phaseDefinitions"`
	Agencies         struct {
		Revenue struct {
			IncomeMult       float64 `yaml:"incomeMult" json:"incomeMult"`
			EvasionReduction float64 `yaml:"evasionReduction" json:"evasionReduction"`
		} `yaml:"revenue" json:"revenue"`
		Inspection struct {
			CorruptionDrift    float64 `yaml:"corruptionDrift" json:"corruptionDrift"`
			EnvironmentalDrift float64 `yaml:"environmentalDrift" json:"environmentalDrift"`
		} `yaml:"inspection" json:"inspection"`
		Promotion struct {
			ReputationDrift float64 `yaml:"reputationDrift" json:"reputationDrift"`
			GrowthBonus     float64 `yaml:"growthBonus" json:"growthBonus"`
		} `yaml:"promotion" json:"promotion"`
	} `yaml:"agencies" json:"agencies"`
	Treaties struct {
		IncomeMult      float64 `yaml:"incomeMult" json:"incomeMult"`
		ReputationDrift float64 `yaml:"reputationDrift" json:"reputationDrift"`
	} `yaml:"treaties" json:"treaties"`
	Decrees       []Decree      `yaml:"decrees" json:"decrees"`
	StartingState StartingState `yaml:"startingState" json:"startingState"`
}

// Industry is a Level-1 industry.
type Industry struct {
	ID                 string  `yaml:"id" json:"id"`
	Label              string  `yaml:"label" json:"label"`
	Description        string  `yaml:"description" json:"description"`
	IncomeMult         float64 `yaml:"incomeMult" json:"incomeMult"`
	ResourceDrain      float64 `yaml:"resourceDrain" json:"resourceDrain"`
	EnvironmentalDrift float64 `yaml:"environmentalDrift" json:"environmentalDrift"`
	ReputationDrift    float64 `yaml:"reputationDrift" json:"reputationDrift"`
	StabilityDrift     float64 `yaml:"stabilityDrift" json:"stabilityDrift"`
	InnovationDrift    float64 `yaml:"innovationDrift" json:"innovationDrift"`
	EnergyDemand       float64 `yaml:"energyDemand" json:"energyDemand"`
	ClimateSensitivity float64 `yaml:"climateSensitivity" json:"climateSensitivity"`
}

// Offer is a token bundle.
type Offer struct {
	ID     string  `yaml:"id" json:"id"`
	Name   string  `yaml:"name" json:"name"`
	Price  string  `yaml:"price" json:"price"`
	Tokens float64 `yaml:"tokens" json:"tokens"`
	Label  string  `yaml:"label" json:"label"`
}

// RewardedIncentive grants effects without a token cost.
type RewardedIncentive struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description" json:"description"`
	Effect      effects.Map `yaml:"effect" json:"effect"`
}

// TreasuryPack exchanges treasury for tokens.
type TreasuryPack struct {
	ID           string  `yaml:"id" json:"id"`
	TreasuryCost float64 `yaml:"treasuryCost" json:"treasuryCost"`
	Tokens       float64 `yaml:"tokens" json:"tokens"`
}

// IAP is the token catalog.
type IAP struct {
	Currency struct {
		ID   string `yaml:"id" json:"id"`
		Name string `yaml:"name" json:"name"`
	} `yaml:"currency" json:"currency"`
	Offers  []Offer `yaml:"offers" json:"offers"`
	Actions struct {
		ProjectSpeedCost        float64 `yaml:"projectSpeedCost" json:"projectSpeedCost"`
		EventMitigationCost     float64 `yaml:"eventMitigationCost" json:"eventMitigationCost"`
		OfflineCapBoostCost     float64 `yaml:"offlineCapBoostCost" json:"offlineCapBoostCost"`
		OfflineCapBoostHours    float64 `yaml:"offlineCapBoostHours" json:"offlineCapBoostHours"`
		AutoBalanceUnlockCost   float64 `yaml:"autoBalanceUnlockCost" json:"autoBalanceUnlockCost"`
		ReportClarityUnlockCost float64 `yaml:"reportClarityUnlockCost" json:"reportClarityUnlockCost"`
		CarbonCreditsCost       float64 `yaml:"carbonCreditsCost" json:"carbonCreditsCost"`
		CarbonCreditsReduction  float64 `yaml:"carbonCreditsReduction" json:"carbonCreditsReduction"`
		TokenTreasuryCost       float64 `yaml:"tokenTreasuryCost" json:"tokenTreasuryCost"`
	} `yaml:"actions" json:"actions"`
	TreasuryPacks []TreasuryPack      `yaml:"treasuryPacks" json:"treasuryPacks"`
	RewardedAds   []RewardedIncentive `yaml:"rewardedAds" json:"rewardedAds"`
}

// CrisisThresholds raise the event chance when any indicator is below.
type CrisisThresholds struct {
	Happiness float64 `yaml:"happiness" json:"happiness"`
	Stability float64 `yaml:"stability" json:"stability"`
	Trust     float64 `yaml:"trust" json:"trust"`
}

// RemoteDefaults are the tunables a save may override per player.
type RemoteDefaults struct {
	TaxElasticity                float64            `yaml:"tax_elasticity" json:"tax_elasticity"`
	HappinessTaxPenalty          float64            `yaml:"happiness_tax_penalty" json:"happiness_tax_penalty"`
	ProjectCostMultiplierByPhase map[string]float64 `yaml:"project_cost_multiplier_by_phase" json:"project_cost_multiplier_by_phase"`
	OfflineCapHours              float64            `yaml:"offline_cap_hours" json:"offline_cap_hours"`
	EventFrequency               float64            `yaml:"event_frequency" json:"event_frequency"`
	CrisisThresholds             CrisisThresholds   `yaml:"crisis_thresholds" json:"crisis_thresholds"`
	IAPOfferRotation             string             `yaml:"iap_offer_rotation" json:"iap_offer_rotation"`
	StarterPackEligibility       bool               `yaml:"starter_pack_eligibility" json:"starter_pack_eligibility"`
	MandateRoleWeights           map[string]float64 `yaml:"mandate_role_weights" json:"mandate_role_weights"`
	MandateTraits                []string           `yaml:"mandate_traits" json:"mandate_traits"`
	MandateTaglines              []string           `yaml:"mandate_taglines" json:"mandate_taglines"`
}

// RemoteKey documents one tunable.
type RemoteKey struct {
	Key         string `yaml:"key" json:"key"`
	Type        string `yaml:"type" json:"type"`
	Description string `yaml:"description" json:"description"`
}

// Remote is the remote-config catalog.
type Remote struct {
	Defaults RemoteDefaults `yaml:"defaults" json:"defaults"`
	Keys     []RemoteKey    `yaml:"keys" json:"keys"`
}

// PolicyPreset is a starting budget and a set of one-off adjustments.
type PolicyPreset struct {
	ID          string       `yaml:"id" json:"id"`
	Name        string       `yaml:"name" json:"name"`
	Description string       `yaml:"description" json:"description"`
	Budget      state.Budget `yaml:"budget" json:"budget"`
	Adjustments effects.Map  `yaml:"adjustments" json:"adjustments"`
}

// StateType builds the formal country name.
type StateType struct {
	ID     string `yaml:"id" json:"id"`
	Label  string `yaml:"label" json:"label"`
	Prefix string `yaml:"prefix" json:"prefix"`
}

// L2IndustryAttributes describe a Level-2 industry for the client.
type L2IndustryAttributes struct {
	Capex              float64 `yaml:"capex" json:"capex"`
	Opex               float64 `yaml:"opex" json:"opex"`
	Employment         float64 `yaml:"employment" json:"employment"`
	FiscalIncome       float64 `yaml:"fiscalIncome" json:"fiscalIncome"`
	Exports            float64 `yaml:"exports" json:"exports"`
	EnvImpact          float64 `yaml:"envImpact" json:"envImpact"`
	EnergyDemand       float64 `yaml:"energyDemand" json:"energyDemand"`
	WaterDemand        float64 `yaml:"waterDemand" json:"waterDemand"`
	HumanCapitalReq    float64 `yaml:"humanCapitalReq" json:"humanCapitalReq"`
	Risk               float64 `yaml:"risk" json:"risk"`
	PoliticalInfluence float64 `yaml:"politicalInfluence" json:"politicalInfluence"`
}

// L2Industry is a Level-2 industry.
type L2Industry struct {
	ID          string               `yaml:"id" json:"id"`
	Name        string               `yaml:"name" json:"name"`
	Group       string               `yaml:"group" json:"group"`
	Description string               `yaml:"description" json:"description"`
	Tags        []string             `yaml:"tags" json:"tags"`
	Attributes  L2IndustryAttributes `yaml:"attributes" json:"attributes"`
	Modifiers   struct {
		IncomeMult           float64  `yaml:"incomeMult" json:"incomeMult"`
		BaseGrowthAddPct     float64  `yaml:"baseGrowthAddPct" json:"baseGrowthAddPct"`
		InflationPressureAdd float64  `yaml:"inflationPressureAdd" json:"inflationPressureAdd"`
		PollutionAdd         float64  `yaml:"pollutionAdd" json:"pollutionAdd"`
		SynergyTags          []string `yaml:"synergyTags" json:"synergyTags"`
	} `yaml:"modifiers" json:"modifiers"`
	Unlock struct {
		MinPhaseL2         int      `yaml:"minPhaseL2" json:"minPhaseL2"`
		RequiresProjectsL2 []string `yaml:"requiresProjectsL2" json:"requiresProjectsL2"`
	} `yaml:"unlock" json:"unlock"`
	ShortImpactText string `yaml:"shortImpactText" json:"shortImpactText"`
}

// L2ProjectRequirements gate a Level-2 project.
type L2ProjectRequirements struct {
	MinPhaseL2                int      `yaml:"minPhaseL2" json:"minPhaseL2,omitempty"`
	RequiresBaseIndustryID    string   `yaml:"requiresBaseIndustryId" json:"requiresBaseIndustryId,omitempty"`
	RequiresIndustries        []string `yaml:"requiresIndustries" json:"requiresIndustries,omitempty"`
	RequiresAdvisorIDs        []string `yaml:"requiresAdvisorIds" json:"requiresAdvisorIds,omitempty"`
	RequiresProjects          []string `yaml:"requiresProjects" json:"requiresProjects,omitempty"`
	RequiresCentralBankAction bool     `yaml:"requiresCentralBankAction" json:"requiresCentralBankAction,omitempty"`
}

// L2Project is a Level-2 project.
type L2Project struct {
	ID            string                `yaml:"id" json:"id"`
	Name          string                `yaml:"name" json:"name"`
	Description   string                `yaml:"description" json:"description"`
	Phase         int                   `yaml:"phase" json:"phase"`
	Cost          float64               `yaml:"cost" json:"cost"`
	DurationTicks float64               `yaml:"durationTicks" json:"durationTicks"`
	ImpactScore   float64               `yaml:"impactScore" json:"impactScore"`
	Requirements  L2ProjectRequirements `yaml:"requirements" json:"requirements"`
	Effects       effects.Map           `yaml:"effects" json:"effects"`
	Tags          []string              `yaml:"tags" json:"tags,omitempty"`
	RecommendedBy []string              `yaml:"recommendedBy" json:"recommendedBy,omitempty"`
}

// Special actions of Level-2 options and decrees.
const ActionCallElections = "CALL_ELECTIONS"

// L2EventOption is one choice of a Level-2 event.
type L2EventOption struct {
	ID      string      `yaml:"id" json:"id"`
	Label   string      `yaml:"label" json:"label"`
	Hint    string      `yaml:"hint" json:"hint,omitempty"`
	Outcome string      `yaml:"outcome" json:"outcome,omitempty"`
	Effects effects.Map `yaml:"effects" json:"effects"`
	Action  string      `yaml:"action" json:"action,omitempty"`
}

// L2Event is a Level-2 catalog event.
type L2Event struct {
	ID       string   `yaml:"id" json:"id"`
	Title    string   `yaml:"title" json:"title"`
	Body     string   `yaml:"body" json:"body"`
	Weight   *float64 `yaml:"weight" json:"weight,omitempty"`
	MinPhase int      `yaml:"minPhase" json:"minPhase,omitempty"`
	Requires struct {
		IndustryTagsAny     []string `yaml:"industryTagsAny" json:"industryTagsAny,omitempty"`
		RegimesAny          []string `yaml:"regimesAny" json:"regimesAny,omitempty"`
		InflationRegimesAny []string `yaml:"inflationRegimesAny" json:"inflationRegimesAny,omitempty"`
	} `yaml:"requires" json:"requires"`
	Options []L2EventOption `yaml:"options" json:"options"`
}

// EffectiveWeight returns the declared weight, defaulting to 1.
func (e *L2Event) EffectiveWeight() float64 {
	if e.Weight == nil {
		return 1
	}
	return *e.Weight
}

// Option returns the option with the given id.
func (e *L2Event) Option(id string) *L2EventOption {
	for i := range e.Options {
		if e.Options[i].ID == id {
			return &e.Options[i]
		}
	}
	return nil
}

// L2Decree is a regime-gated Level-2 decree.
type L2Decree struct {
	ID            string      `yaml:"id" json:"id"`
	Title         string      `yaml:"title" json:"title"`
	Body          string      `yaml:"body" json:"body"`
	CooldownTicks int         `yaml:"cooldownTicks" json:"cooldownTicks"`
	Cost          effects.Map `yaml:"cost" json:"cost"`
	Requires      struct {
		MinPhase   int      `yaml:"minPhase" json:"minPhase,omitempty"`
		RegimesAny []string `yaml:"regimesAny" json:"regimesAny,omitempty"`
	} `yaml:"requires" json:"requires"`
	Effects effects.Map `yaml:"effects" json:"effects"`
	Action  string      `yaml:"action" json:"action,omitempty"`
	Summary string      `yaml:"summary" json:"summary,omitempty"`
}

// L2DecreeCatalog holds the three regime catalogs.
type L2DecreeCatalog struct {
	Democracy     []L2Decree `yaml:"democracy" json:"democracy"`
	Authoritarian []L2Decree `yaml:"authoritarian" json:"authoritarian"`
	Neutral       []L2Decree `yaml:"neutral" json:"neutral"`
}

// All returns every decree across the three catalogs.
func (c *L2DecreeCatalog) All() []L2Decree {
	out := make([]L2Decree, 0, len(c.Democracy)+len(c.Authoritarian)+len(c.Neutral))
	out = append(out, c.Democracy...)
	out = append(out, c.Authoritarian...)
	return append(out, c.Neutral...)
}

// Advisor groups.
const (
	AdvisorGroupDemocracy     = "DEMOCRACY"
	AdvisorGroupMonarchy      = "MONARCHY"
	AdvisorGroupAuthoritarian = "AUTHORITARIAN"
)

// Advisor is a Level-2 cabinet advisor.
type Advisor struct {
	ID         string   `yaml:"id" json:"id"`
	Name       string   `yaml:"name" json:"name"`
	Group      string   `yaml:"group" json:"group"`
	Tips       []string `yaml:"tips" json:"tips"`
	Recommends []string `yaml:"recommends" json:"recommends"`
}
