// Package effects applies sparse maps of named deltas to a save. The key
// vocabulary is closed: every catalog spelling resolves to one Key, and each
// Key has a fixed clamping rule.
package effects

import "sort"

// Key identifies one mutable quantity of a save.
type Key uint8

// Declaration order is the order used by Summary.
const (
	Treasury Key = iota
	Debt
	InflationPct
	Happiness
	Stability
	InstitutionalTrust
	Corruption
	Reputation
	Admin
	Employment
	Inequality
	Innovation
	Energy
	Resources
	EnvironmentalImpact
	GrowthPct
	GDP
	TourismIndex
	TourismCapacity
	TourismPressure

	// Unlock flags. Any positive delta sets the flag; nothing unsets it.
	AdminUnlocked
	AgencyRevenue
	AgencyInspection
	AgencyPromotion
	EmergencyPlanUnlocked
	TreatiesUnlocked

	// OfflineIncomeBonus raises the stored offline reward multiplier to at
	// least the given value.
	OfflineIncomeBonus

	numKeys
)

var names = [numKeys]string{
	Treasury:              "treasury",
	Debt:                  "debt",
	InflationPct:          "inflationPct",
	Happiness:             "happiness",
	Stability:             "stability",
	InstitutionalTrust:    "institutionalTrust",
	Corruption:            "corruption",
	Reputation:            "reputation",
	Admin:                 "admin",
	Employment:            "employment",
	Inequality:            "inequality",
	Innovation:            "innovation",
	Energy:                "energy",
	Resources:             "resources",
	EnvironmentalImpact:   "environmentalImpact",
	GrowthPct:             "growthPct",
	GDP:                   "gdp",
	TourismIndex:          "tourismIndex",
	TourismCapacity:       "tourismCapacity",
	TourismPressure:       "tourismPressure",
	AdminUnlocked:         "adminUnlocked",
	AgencyRevenue:         "agencyRevenue",
	AgencyInspection:      "agencyInspection",
	AgencyPromotion:       "agencyPromotion",
	EmergencyPlanUnlocked: "emergencyPlanUnlocked",
	TreatiesUnlocked:      "treatiesUnlocked",
	OfflineIncomeBonus:    "offlineIncomeBonus",
}

// aliases maps legacy and Level-2 spellings onto canonical keys.
var aliases = map[string]Key{
	"adminCapacity":            Admin,
	"treasuryDelta":            Treasury,
	"gdpDelta":                 GDP,
	"growthDelta":              GrowthPct,
	"happinessDelta":           Happiness,
	"stabilityDelta":           Stability,
	"trustDelta":               InstitutionalTrust,
	"corruptionDelta":          Corruption,
	"reputationDelta":          Reputation,
	"resourcesDelta":           Resources,
	"debtDelta":                Debt,
	"employmentDelta":          Employment,
	"energyDelta":              Energy,
	"innovationDelta":          Innovation,
	"inequalityDelta":          Inequality,
	"environmentalDelta":       EnvironmentalImpact,
	"environmentalImpactDelta": EnvironmentalImpact,
	"tourismIndexDelta":        TourismIndex,
	"tourismCapacityDelta":     TourismCapacity,
	"tourismPressureDelta":     TourismPressure,
	"jobs":                     Employment,
	"water":                    Resources,
	"envFootprint":             EnvironmentalImpact,
}

var byName = func() map[string]Key {
	m := make(map[string]Key, int(numKeys)+len(aliases))
	for k, n := range names {
		m[n] = Key(k)
	}
	for n, k := range aliases {
		m[n] = k
	}
	return m
}()

// String returns the canonical key name.
func (k Key) String() string {
	if k < numKeys {
		return names[k]
	}
	return "unknown"
}

// IsFlag reports whether the key is a one-way unlock flag.
func (k Key) IsFlag() bool {
	return k >= AdminUnlocked && k <= TreatiesUnlocked
}

// Parse resolves a catalog key name, including legacy spellings.
func Parse(name string) (Key, bool) {
	k, ok := byName[name]
	return k, ok
}

// Known reports whether name resolves to a key.
func Known(name string) bool {
	_, ok := byName[name]
	return ok
}

// Names returns every accepted spelling, sorted.
func Names() []string {
	out := make([]string, 0, len(byName))
	for n := range byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
