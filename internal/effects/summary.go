package effects

import (
	"fmt"
	"math"
	"strings"
)

var labels = map[Key]string{
	Treasury:            "Tesoro",
	Debt:                "Deuda",
	InflationPct:        "Inflacion",
	Happiness:           "Felicidad",
	Stability:           "Estabilidad",
	InstitutionalTrust:  "Confianza",
	Corruption:          "Corrupcion",
	Reputation:          "Reputacion",
	Admin:               "Admin",
	Employment:          "Empleo",
	Inequality:          "Inequidad",
	Innovation:          "Innovacion",
	Energy:              "Energia",
	Resources:           "Recursos",
	EnvironmentalImpact: "Huella",
	GrowthPct:           "Crecimiento",
}

// summaryParts bounds how many deltas Summary lists.
const summaryParts = 4

// Summary renders the first non-zero labeled deltas of set, such as
// "Tesoro -60, Confianza +4". It returns "" when nothing is labeled.
func Summary(set Set) string {
	parts := make([]string, 0, summaryParts)
	for k := Key(0); k < numKeys && len(parts) < summaryParts; k++ {
		label, ok := labels[k]
		if !ok {
			continue
		}
		v := set[k]
		if v == 0 {
			continue
		}
		parts = append(parts, label+" "+formatDelta(k, v))
	}
	return strings.Join(parts, ", ")
}

func formatDelta(k Key, v float64) string {
	var s string
	switch k {
	case InflationPct:
		s = fmt.Sprintf("%.1f", v)
	case GrowthPct:
		s = fmt.Sprintf("%.2f", v)
	default:
		s = fmt.Sprintf("%d", int64(math.Floor(v+0.5)))
	}
	if v > 0 {
		return "+" + s
	}
	return s
}
