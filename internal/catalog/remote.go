package catalog

import (
	"strconv"
	"strings"
)

// With returns a copy of the defaults with numeric overrides applied. Keys
// are the remote names; nested values use a dot, as in
// "crisis_thresholds.happiness" or "project_cost_multiplier_by_phase.2".
// Unknown keys are ignored.
func (d RemoteDefaults) With(overrides map[string]float64) RemoteDefaults {
	if len(overrides) == 0 {
		return d
	}
	out := d
	out.ProjectCostMultiplierByPhase = make(map[string]float64, len(d.ProjectCostMultiplierByPhase))
	for k, v := range d.ProjectCostMultiplierByPhase {
		out.ProjectCostMultiplierByPhase[k] = v
	}
	out.MandateRoleWeights = make(map[string]float64, len(d.MandateRoleWeights))
	for k, v := range d.MandateRoleWeights {
		out.MandateRoleWeights[k] = v
	}

	for key, v := range overrides {
		head, tail, _ := strings.Cut(key, ".")
		switch head {
		case "tax_elasticity":
			out.TaxElasticity = v
		case "happiness_tax_penalty":
			out.HappinessTaxPenalty = v
		case "offline_cap_hours":
			out.OfflineCapHours = v
		case "event_frequency":
			out.EventFrequency = v
		case "starter_pack_eligibility":
			out.StarterPackEligibility = v != 0
		case "project_cost_multiplier_by_phase":
			if tail != "" {
				out.ProjectCostMultiplierByPhase[tail] = v
			}
		case "mandate_role_weights":
			if tail != "" {
				out.MandateRoleWeights[tail] = v
			}
		case "crisis_thresholds":
			switch tail {
			case "happiness":
				out.CrisisThresholds.Happiness = v
			case "stability":
				out.CrisisThresholds.Stability = v
			case "trust":
				out.CrisisThresholds.Trust = v
			}
		}
	}
	return out
}

// ProjectCostMultiplier returns the cost multiplier for a project phase,
// defaulting to 1.
func (d RemoteDefaults) ProjectCostMultiplier(phase int) float64 {
	if m, ok := d.ProjectCostMultiplierByPhase[strconv.Itoa(phase)]; ok && m > 0 {
		return m
	}
	return 1
}
