package effects

import (
	"log/slog"
	"math"
	"strings"

	"github.com/alexandrarotta/microestado/internal/state"
)

// Map is an effect map as written in catalogs: key name to delta.
type Map map[string]float64

// Set is a normalized effect map keyed by canonical Key.
type Set map[Key]float64

// Normalize resolves every name in m and sums deltas that alias the same key.
// Names that resolve to nothing are returned in unknown.
func Normalize(m Map) (Set, []string) {
	out := make(Set, len(m))
	var unknown []string
	for name, v := range m {
		k, ok := Parse(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		out[k] += v
	}
	return out, unknown
}

// Unknown lists the names in m outside the key vocabulary.
func Unknown(m Map) []string {
	_, unknown := Normalize(m)
	return unknown
}

// Scaled returns a copy with every delta multiplied by f.
func (s Set) Scaled(f float64) Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v * f
	}
	return out
}

// AmplifyNegative returns a copy where negative deltas are multiplied by f.
func (s Set) AmplifyNegative(f float64) Set {
	out := make(Set, len(s))
	for k, v := range s {
		if v < 0 {
			v *= f
		}
		out[k] = v
	}
	return out
}

// Merge adds other into s in place.
func (s Set) Merge(other Set) {
	for k, v := range other {
		s[k] += v
	}
}

// ApplyMap normalizes m and applies it to save. Unknown names are skipped.
func ApplyMap(save *state.Save, m Map) {
	set, unknown := Normalize(m)
	for _, name := range unknown {
		slog.Debug("ignoring unknown effect key", "key", name)
	}
	Apply(save, set)
}

// Apply adds every delta of set to save in key order and clamps the result.
func Apply(save *state.Save, set Set) {
	for k := Key(0); k < numKeys; k++ {
		v, ok := set[k]
		if !ok || v == 0 {
			continue
		}
		apply(save, k, v)
	}
}

func apply(save *state.Save, k Key, v float64) {
	switch k {
	case AdminUnlocked:
		save.AdminUnlocked = save.AdminUnlocked || v > 0
		return
	case AgencyRevenue:
		save.Agencies.Revenue = save.Agencies.Revenue || v > 0
		return
	case AgencyInspection:
		save.Agencies.Inspection = save.Agencies.Inspection || v > 0
		return
	case AgencyPromotion:
		save.Agencies.Promotion = save.Agencies.Promotion || v > 0
		return
	case EmergencyPlanUnlocked:
		save.PlanAnticrisisUnlocked = save.PlanAnticrisisUnlocked || v > 0
		return
	case TreatiesUnlocked:
		save.Treaties = save.Treaties || v > 0
		return
	case OfflineIncomeBonus:
		save.OfflineRewardMultiplier = math.Max(save.OfflineRewardMultiplier, v)
		return
	case InflationPct:
		applyInflation(save, v)
		return
	}

	p := Field(save, k)
	if p == nil {
		return
	}
	lo, hi := Bounds(k)
	*p = clamp(*p+v, lo, hi)
}

func applyInflation(save *state.Save, v float64) {
	l2 := save.Level2
	if l2 == nil {
		return
	}
	SetInflation(save, l2.Macro.InflationPct+v)
}

// SetInflation stores a new Level-2 inflation value, clamped to its range,
// and publishes a news entry when the regime changes.
func SetInflation(save *state.Save, pct float64) {
	l2 := save.Level2
	if l2 == nil {
		return
	}
	l2.Macro.InflationPct = clamp(pct, state.InflationMin, state.InflationMax)
	next := state.ClassifyInflation(l2.Macro.InflationPct)
	if next == l2.Macro.Regime {
		return
	}
	l2.Macro.Regime = next
	save.Publish("Inflacion cambia a regimen "+strings.ToLower(string(next))+".", state.NewsSystem, state.SeverityWarn)
}

// Field returns a pointer to the numeric save field behind k, or nil for
// flags and Level-2 keys.
func Field(save *state.Save, k Key) *float64 {
	switch k {
	case Treasury:
		return &save.Treasury
	case Debt:
		return &save.Debt
	case Happiness:
		return &save.Happiness
	case Stability:
		return &save.Stability
	case InstitutionalTrust:
		return &save.InstitutionalTrust
	case Corruption:
		return &save.Corruption
	case Reputation:
		return &save.Reputation
	case Admin:
		return &save.Admin
	case Employment:
		return &save.Employment
	case Inequality:
		return &save.Inequality
	case Innovation:
		return &save.Innovation
	case Energy:
		return &save.Energy
	case Resources:
		return &save.Resources
	case EnvironmentalImpact:
		return &save.EnvironmentalImpact
	case GrowthPct:
		return &save.GrowthPct
	case GDP:
		return &save.GDP
	case TourismIndex:
		return &save.TourismIndex
	case TourismCapacity:
		return &save.TourismCapacity
	case TourismPressure:
		return &save.TourismPressure
	}
	return nil
}

// Bounds returns the clamping range of a numeric key.
func Bounds(k Key) (lo, hi float64) {
	switch k {
	case Treasury, Debt, Admin:
		return 0, math.Inf(1)
	case GDP:
		return 1, math.Inf(1)
	case GrowthPct:
		return -6, 12
	case Resources:
		return 0, 200
	case InflationPct:
		return state.InflationMin, state.InflationMax
	}
	return 0, 100
}

// Stat reads a named indicator for condition checks. It accepts every key
// spelling plus the short forms "trust" and "environmental".
func Stat(save *state.Save, name string) (float64, bool) {
	switch name {
	case "trust":
		return save.InstitutionalTrust, true
	case "environmental":
		return save.EnvironmentalImpact, true
	case "debtToGdp":
		return save.DebtRatio(), true
	}
	k, ok := Parse(name)
	if !ok {
		return 0, false
	}
	if k == InflationPct {
		if save.Level2 == nil {
			return 0, false
		}
		return save.Level2.Macro.InflationPct, true
	}
	p := Field(save, k)
	if p == nil {
		return 0, false
	}
	return *p, true
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
