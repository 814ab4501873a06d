package state

import "math"

func clampf(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// get/set by area keep Adjust symmetric across the three fields.
func (b *Budget) get(a BudgetArea) float64 {
	switch a {
	case AreaIndustry:
		return b.IndustryPct
	case AreaWelfare:
		return b.WelfarePct
	default:
		return b.SecurityDiplomacyPct
	}
}

func (b *Budget) set(a BudgetArea, v float64) {
	switch a {
	case AreaIndustry:
		b.IndustryPct = v
	case AreaWelfare:
		b.WelfarePct = v
	default:
		b.SecurityDiplomacyPct = v
	}
}

// Valid reports whether area names a budget field.
func (a BudgetArea) Valid() bool {
	return a == AreaIndustry || a == AreaWelfare || a == AreaSecurityDiplomacy
}

// Adjust sets one area to value (clamped to [0,100]) and redistributes the
// remainder across the other two areas in proportion to their current share.
// The first of the other two is rounded to a whole percent and the second
// absorbs the rest, so the total stays exactly 100.
func (b Budget) Adjust(area BudgetArea, value float64) Budget {
	areas := [3]BudgetArea{AreaIndustry, AreaWelfare, AreaSecurityDiplomacy}
	var others []BudgetArea
	for _, a := range areas {
		if a != area {
			others = append(others, a)
		}
	}

	next := b
	v := clampf(value, 0, 100)
	next.set(area, v)
	remainder := clampf(100-v, 0, 100)
	total := b.get(others[0]) + b.get(others[1])

	if total <= 0 {
		next.set(others[0], remainder)
		next.set(others[1], 0)
		return next
	}
	first := clampf(math.Round(b.get(others[0])*remainder/total), 0, remainder)
	next.set(others[0], first)
	next.set(others[1], clampf(remainder-first, 0, 100))
	return next
}

// Balanced is the even split applied by the auto-balance action.
func Balanced() Budget {
	return Budget{IndustryPct: 34, WelfarePct: 33, SecurityDiplomacyPct: 33}
}

// Sum returns the total of the three areas.
func (b Budget) Sum() float64 {
	return b.IndustryPct + b.WelfarePct + b.SecurityDiplomacyPct
}
