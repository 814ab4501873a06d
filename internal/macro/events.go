package macro

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/alexandrarotta/microestado/internal/catalog"
	"github.com/alexandrarotta/microestado/internal/effects"
	"github.com/alexandrarotta/microestado/internal/entropy"
	"github.com/alexandrarotta/microestado/internal/state"
)

// Event pacing.
const (
	eventCheckMin      = 10
	eventCheckMax      = 18
	eventHistoryLimit  = 40
	defaultOutcomeText = "La decision deja una estela confusa."
)

func (e *Engine) eventEligible(ev *catalog.L2Event, s *state.Save, tags map[string]bool) bool {
	l2 := s.Level2
	if l2.Phase < ev.MinPhase {
		return false
	}
	req := &ev.Requires
	if len(req.RegimesAny) > 0 && !contains(req.RegimesAny, s.Leader.RoleID) {
		return false
	}
	if len(req.InflationRegimesAny) > 0 && !contains(req.InflationRegimesAny, string(l2.Macro.Regime)) {
		return false
	}
	if len(req.IndustryTagsAny) > 0 {
		hit := false
		for _, t := range req.IndustryTagsAny {
			if tags[t] {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// MaybeTriggerEvent draws a pending Level-2 event once the check tick has
// been reached and no event is waiting. It reports whether the save
// changed.
func (e *Engine) MaybeTriggerEvent(s *state.Save) bool {
	if s.Level != 2 || s.Level2 == nil || s.Level2.GameOver {
		return false
	}
	l2 := s.Level2
	l2.Normalize()
	ev := &l2.Events
	if ev.Pending != nil || s.TickCount < ev.NextCheckTick {
		return false
	}

	tags := e.ActiveTags(l2)
	var eligible []*catalog.L2Event
	var weights []float64
	for i := range e.cat.L2Events {
		def := &e.cat.L2Events[i]
		if e.eventEligible(def, s, tags) {
			eligible = append(eligible, def)
			weights = append(weights, def.EffectiveWeight())
		}
	}
	if len(eligible) == 0 {
		ev.NextCheckTick = s.TickCount + eventCheckMin
		return true
	}

	def := eligible[entropy.WeightedIndex(e.rand, weights)]
	pending := &state.L2PendingEvent{
		InstanceID:  "l2evt_" + uuid.NewString(),
		EventID:     def.ID,
		Title:       def.Title,
		Body:        def.Body,
		CreatedTick: s.TickCount,
		Options:     make([]state.L2EventOption, 0, len(def.Options)),
	}
	for _, o := range def.Options {
		pending.Options = append(pending.Options, state.L2EventOption{OptionID: o.ID, Label: o.Label, Hint: o.Hint})
	}
	ev.Pending = pending
	ev.NextCheckTick = s.TickCount + entropy.Between(e.rand, eventCheckMin, eventCheckMax)
	e.publish(s, fmt.Sprintf("EVENTO: %s - Se requiere decision.", def.Title), state.NewsEvent, state.SeverityWarn)
	return true
}

// ResolveEvent applies the chosen option of the pending event.
func (e *Engine) ResolveEvent(s *state.Save, instanceID, optionID string) state.Result {
	l2, r, ok := playable(s)
	if !ok {
		return r
	}
	pending := l2.Events.Pending
	if pending == nil {
		return state.BadRequest("No pending event")
	}
	if pending.InstanceID != instanceID {
		return state.BadRequest("Event mismatch")
	}
	def := e.cat.L2Event(pending.EventID)
	if def == nil {
		return state.BadRequest("Event not found")
	}
	opt := def.Option(optionID)
	if opt == nil {
		return state.BadRequest("Option not found")
	}

	res := state.Ok()
	if opt.Action == catalog.ActionCallElections {
		res = e.runElection(s, l2)
		if !res.OK {
			return res
		}
	} else {
		effects.ApplyMap(s, opt.Effects)
	}

	outcome := opt.Outcome
	if outcome == "" {
		outcome = defaultOutcomeText
	}
	set, _ := effects.Normalize(opt.Effects)
	if sum := effects.Summary(set); sum != "" {
		outcome = fmt.Sprintf("%s (%s).", outcome, sum)
	}

	l2.Events.History = append([]state.L2EventRecord{{
		InstanceID:     pending.InstanceID,
		EventID:        def.ID,
		Title:          def.Title,
		ChosenOptionID: opt.ID,
		CreatedTick:    pending.CreatedTick,
		ResolvedTick:   s.TickCount,
		OutcomeSummary: outcome,
	}}, l2.Events.History...)
	if len(l2.Events.History) > eventHistoryLimit {
		l2.Events.History = l2.Events.History[:eventHistoryLimit]
	}
	l2.Events.Pending = nil
	e.refreshProjects(s, l2)

	e.publish(s, fmt.Sprintf("EVENTO: %s. Decision: %s. Resultado: %s", def.Title, opt.Label, outcome), state.NewsEvent, state.SeverityOK)
	res.Summary = outcome
	return res
}
