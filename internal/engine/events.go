package engine

import (
	"fmt"
	"strings"

	"github.com/alexandrarotta/microestado/internal/catalog"
	"github.com/alexandrarotta/microestado/internal/effects"
	"github.com/alexandrarotta/microestado/internal/entropy"
	"github.com/alexandrarotta/microestado/internal/rules"
	"github.com/alexandrarotta/microestado/internal/social"
	"github.com/alexandrarotta/microestado/internal/state"
)

const (
	followUpDelayTicks = 3
	crisisEventFactor  = 1.2
	defaultEventNews   = "{{leaderName}} decide: {{optionText}}."
)

// Event tags with weight adjustments.
const (
	TagSanction    = "sanction"
	TagNegotiation = "negotiation"
	TagDiplomacy   = "diplomacy"
	TagCrisis      = "crisis"
	TagClimate     = "climate"
)

// matchesIndustry reports whether entry names the leading industry by id,
// short key or case-insensitive id.
func matchesIndustry(entry, leaderID string) bool {
	if leaderID == "" {
		return false
	}
	if entry == leaderID || strings.EqualFold(entry, leaderID) {
		return true
	}
	key, ok := industryShortKeys[leaderID]
	return ok && strings.EqualFold(entry, key)
}

func meetsStats(limits map[string]float64, s *state.Save, ok func(v, limit float64) bool) bool {
	for name, limit := range limits {
		v, found := effects.Stat(s, name)
		if !found || !ok(v, limit) {
			return false
		}
	}
	return true
}

// meetsConditions evaluates a condition set. A nil set always holds.
func meetsConditions(c *catalog.Conditions, s *state.Save) bool {
	if c == nil {
		return true
	}
	if len(c.GeographyIn) > 0 {
		found := false
		for _, g := range c.GeographyIn {
			if strings.EqualFold(g, s.Country.Geography) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(c.IndustryIn) > 0 {
		found := false
		for _, id := range c.IndustryIn {
			if matchesIndustry(id, s.IndustryLeaderID) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if !meetsStats(c.StatGte, s, func(v, l float64) bool { return v >= l }) {
		return false
	}
	if !meetsStats(c.StatLte, s, func(v, l float64) bool { return v <= l }) {
		return false
	}
	if c.DebtToGdpGte != nil && s.Debt/max(s.GDP, 1) < *c.DebtToGdpGte {
		return false
	}
	if c.ResourcesLte != nil && s.Resources > *c.ResourcesLte {
		return false
	}
	if prg := c.WhenProgram(); prg != nil && !prg.Match(rules.Vars(s)) {
		return false
	}
	return true
}

func outside(v float64, lo, hi *float64) bool {
	return (lo != nil && v < *lo) || (hi != nil && v > *hi)
}

// EventEligible reports whether ev may fire for the save, ignoring its
// cooldown.
func EventEligible(ev *catalog.Event, s *state.Save) bool {
	lo, hi := ev.Phases()
	if s.Phase < lo || s.Phase > hi {
		return false
	}
	if ev.RequiredGeographyID != "" && !strings.EqualFold(ev.RequiredGeographyID, s.Country.Geography) {
		return false
	}
	if ev.RequiredIndustryID != "" && !matchesIndustry(ev.RequiredIndustryID, s.IndustryLeaderID) {
		return false
	}
	if ev.RequiredRoleID != "" && ev.RequiredRoleID != s.Leader.RoleID {
		return false
	}
	if outside(s.Reputation, ev.MinReputation, ev.MaxReputation) ||
		outside(s.Stability, ev.MinStability, ev.MaxStability) ||
		outside(s.Happiness, ev.MinHappiness, ev.MaxHappiness) ||
		outside(s.Corruption, ev.MinCorruption, ev.MaxCorruption) ||
		outside(s.Resources, ev.MinResources, ev.MaxResources) {
		return false
	}
	return meetsConditions(ev.Conditions, s)
}

// EventOnCooldown reports whether ev fired fewer than its cooldown ticks ago.
func EventOnCooldown(ev *catalog.Event, s *state.Save) bool {
	if ev.CooldownTicks <= 0 {
		return false
	}
	last, ok := s.EventHistory[ev.ID]
	if !ok {
		return false
	}
	return s.TickCount-last < ev.CooldownTicks
}

// eventWeight adjusts the catalog weight of ev by its tags.
func (e *Engine) eventWeight(ev *catalog.Event, s *state.Save, role *catalog.Role, sanctionRisk, climate float64) float64 {
	w := ev.EffectiveWeight()
	if ev.HasTag(TagSanction) {
		w *= 1 + sanctionRisk
	}
	if ev.HasTag(TagNegotiation) {
		w *= 1 + role.Modifier("negotiationEventFreq", 0)
	}
	if ev.HasTag(TagDiplomacy) {
		w *= 1 + role.Modifier("diplomacyEventFreq", 0)
	}
	if ev.HasTag(TagCrisis) {
		w *= 1 + role.Modifier("protestRisk", 0)
		if role != nil && role.LowHappinessCrisisBoost != 0 && s.Happiness < 45 {
			w *= 1 + role.LowHappinessCrisisBoost
		}
	}
	if ev.HasTag(TagClimate) {
		w *= 1 + climate
	}
	return w
}

// triggerEvent makes ev the active event and restarts the global cooldown.
func (e *Engine) triggerEvent(s *state.Save, ev *catalog.Event) {
	s.ActiveEventID = ev.ID
	s.EventHistory[ev.ID] = s.TickCount
	s.EventCooldown = e.cat.Economy.EventCooldownTicks
}

// runEvents is the per-tick event bookkeeping: the global cooldown, the
// delayed follow-up and the random roll.
func (e *Engine) runEvents(s *state.Save, role *catalog.Role, climate float64) {
	s.EventCooldown = max(0, s.EventCooldown-1)
	if s.EventHistory == nil {
		s.EventHistory = make(map[string]int)
	}
	if s.ActiveEventID != "" {
		return
	}

	if s.PendingEventID != "" {
		s.PendingEventDelay = max(0, s.PendingEventDelay-1)
		if s.PendingEventDelay == 0 {
			if ev := e.cat.Event(s.PendingEventID); ev != nil && EventEligible(ev, s) {
				e.triggerEvent(s, ev)
			}
			s.PendingEventID = ""
			s.PendingEventDelay = 0
		}
	}
	if s.ActiveEventID != "" || s.EventCooldown != 0 {
		return
	}

	remote := e.remote(s)
	chance := remote.EventFrequency
	if chance == 0 {
		chance = e.cat.Economy.EventBaseChance
	}
	th := remote.CrisisThresholds
	if s.Happiness < th.Happiness || s.Stability < th.Stability || s.InstitutionalTrust < th.Trust {
		chance *= crisisEventFactor
	}
	if !entropy.Chance(e.rand, chance) {
		return
	}

	var candidates []*catalog.Event
	for i := range e.cat.Events {
		ev := &e.cat.Events[i]
		if ev.EffectiveWeight() > 0 && EventEligible(ev, s) && !EventOnCooldown(ev, s) {
			candidates = append(candidates, ev)
		}
	}
	if len(candidates) == 0 {
		return
	}
	sanctionRisk := SanctionRisk(role, s)
	weights := make([]float64, len(candidates))
	for i, ev := range candidates {
		weights[i] = e.eventWeight(ev, s, role, sanctionRisk, climate)
	}
	e.triggerEvent(s, candidates[entropy.WeightedIndex(e.rand, weights)])
}

// OptionEffects computes the effect set an option would apply right now:
// normalized keys, compounded conditional multipliers and, for crisis
// events, negative deltas amplified by the role's crisis severity.
func (e *Engine) OptionEffects(s *state.Save, ev *catalog.Event, opt *catalog.EventOption) effects.Set {
	set, _ := effects.Normalize(opt.Effects)
	mult := 1.0
	for i := range opt.Modifiers {
		m := &opt.Modifiers[i]
		if meetsConditions(&m.Conditions, s) {
			mult *= m.Mult
		}
	}
	if mult != 1 {
		set = set.Scaled(mult)
	}
	role := e.role(s)
	if ev.HasTag(TagCrisis) && role != nil && role.CrisisSeverity > 0 {
		set = set.AmplifyNegative(1 + role.CrisisSeverity)
	}
	return set
}

// ResolveEvent applies the chosen option of an event.
func (e *Engine) ResolveEvent(s *state.Save, eventID, optionID string) state.Result {
	if s.GameOver {
		return state.BadRequest("Game over")
	}
	ev := e.cat.Event(eventID)
	if ev == nil {
		return state.NotFound("Event not found")
	}
	opt := ev.Option(optionID)
	if opt == nil {
		return state.NotFound("Option not found")
	}

	set := e.OptionEffects(s, ev, opt)
	effects.Apply(s, set)
	if opt.FollowUpEventID != "" {
		s.PendingEventID = opt.FollowUpEventID
		s.PendingEventDelay = followUpDelayTicks
	}

	tmpl := opt.News
	if tmpl == "" {
		tmpl = defaultEventNews
	}
	text := social.FormatTemplate(tmpl, map[string]string{
		"leaderName":  s.Leader.Name,
		"countryName": s.Country.FormalName,
		"roleTitle":   e.leaderTitle(s),
		"optionText":  opt.Text,
	})
	e.publish(s, text, state.NewsEvent, state.SeverityOK)
	s.ActiveEventID = ""

	r := state.Ok()
	r.Summary = effects.Summary(set)
	return r
}

// MitigateEvent spends tokens to close the active event with a small
// stability and trust bump instead of choosing an option.
func (e *Engine) MitigateEvent(s *state.Save) state.Result {
	if s.GameOver {
		return state.BadRequest("Game over")
	}
	if s.ActiveEventID == "" {
		return state.BadRequest("No active event")
	}
	cost := e.cat.IAP.Actions.EventMitigationCost
	if s.PremiumTokens < cost {
		return state.BadRequest("Insufficient tokens")
	}
	s.PremiumTokens -= cost
	effects.Apply(s, effects.Set{effects.Stability: 1, effects.InstitutionalTrust: 1})
	s.ActiveEventID = ""
	e.publish(s, fmt.Sprintf("%s mitiga el evento con un decreto especial.", e.leaderSignature(s)),
		state.NewsEvent, state.SeverityOK)
	return state.Ok()
}

// DismissEvent postpones the active event without applying any option.
func (e *Engine) DismissEvent(s *state.Save) state.Result {
	if s.GameOver {
		return state.BadRequest("Game over")
	}
	if s.ActiveEventID == "" {
		return state.BadRequest("No active event")
	}
	s.ActiveEventID = ""
	e.publish(s, fmt.Sprintf("El gabinete de %s posterga la decision del evento.", s.Leader.Name),
		state.NewsEvent, state.SeverityOK)
	return state.Ok()
}
