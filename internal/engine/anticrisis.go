package engine

import (
	"fmt"
	"strings"

	"github.com/alexandrarotta/microestado/internal/effects"
	"github.com/alexandrarotta/microestado/internal/state"
)

// Plan anticrisis tuning.
const (
	planCooldownTicks = 70
	planBonusAmount   = 10
)

var planBaseEffects = effects.Set{
	effects.Stability:  50,
	effects.Happiness:  10,
	effects.Treasury:   200,
	effects.Corruption: -40,
}

// planMetric is an indicator that receives the plan's bonus while its
// alert level is critical.
type planMetric struct {
	key      effects.Key
	label    string
	critical func(v float64) bool
}

var planMetrics = []planMetric{
	{effects.Stability, "Estabilidad", func(v float64) bool { return v < 25 }},
	{effects.Happiness, "Felicidad", func(v float64) bool { return v < 25 }},
	{effects.Corruption, "Corrupcion", func(v float64) bool { return v > 75 }},
	{effects.TourismPressure, "Presion turismo", func(v float64) bool { return v > 80 }},
}

// maybeUnlockPlan unlocks the plan the first time the treasury is empty.
func (e *Engine) maybeUnlockPlan(s *state.Save) bool {
	if s.PlanAnticrisisUnlocked || s.Treasury > 0 {
		return false
	}
	s.PlanAnticrisisUnlocked = true
	e.publish(s, "Se desbloquea el plan anticrisis por tesoro en cero.", state.NewsSystem, state.SeverityOK)
	return true
}

// ActivatePlanAnticrisis is the manual activation of the emergency plan.
func (e *Engine) ActivatePlanAnticrisis(s *state.Save) state.Result {
	if s.GameOver {
		return state.BadRequest("Game over")
	}
	return e.activatePlan(s, false)
}

func (e *Engine) activatePlan(s *state.Save, auto bool) state.Result {
	if !s.PlanAnticrisisUnlocked {
		return state.BadRequest("Locked")
	}
	if s.TickCount < s.PlanAnticrisisCooldownUntil {
		r := state.BadRequest("Cooldown")
		r.CooldownUntil = s.PlanAnticrisisCooldownUntil
		return r
	}

	var critical []planMetric
	for _, m := range planMetrics {
		if v := effects.Field(s, m.key); v != nil && m.critical(*v) {
			critical = append(critical, m)
		}
	}
	effects.Apply(s, planBaseEffects)
	keys := make([]string, 0, len(critical))
	labels := make([]string, 0, len(critical))
	for _, m := range critical {
		effects.Apply(s, effects.Set{m.key: planBonusAmount})
		keys = append(keys, m.key.String())
		labels = append(labels, m.label)
	}
	s.PlanAnticrisisCooldownUntil = s.TickCount + planCooldownTicks

	e.publish(s, planNewsText(auto, labels), state.NewsSystem, state.SeverityWarn)
	r := state.Ok()
	r.Bonus = keys
	return r
}

func planNewsText(auto bool, labels []string) string {
	prefix := "Plan anticrisis activado"
	if auto {
		prefix += " (auto)"
	}
	bonus := "ninguno"
	if len(labels) > 0 {
		bonus = strings.Join(labels, ", ")
	}
	return fmt.Sprintf("%s: +%g Estabilidad, +%g Felicidad, +%g Tesoro, %g Corrupcion. Bonus CRITICAL: +%d a %s.",
		prefix,
		planBaseEffects[effects.Stability],
		planBaseEffects[effects.Happiness],
		planBaseEffects[effects.Treasury],
		planBaseEffects[effects.Corruption],
		planBonusAmount, bonus)
}
