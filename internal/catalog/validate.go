package catalog

import (
	"errors"
	"fmt"

	"github.com/alexandrarotta/microestado/internal/effects"
	"github.com/alexandrarotta/microestado/internal/rules"
	"github.com/alexandrarotta/microestado/internal/state"
)

// RoleModifierKeys are the modifiers a role may declare.
var RoleModifierKeys = map[string]bool{
	"decisionSpeed":           true,
	"statDriftMultiplier":     true,
	"gdpGrowthBonus":          true,
	"reputationGrowthPenalty": true,
	"protestRisk":             true,
	"stabilityDrift":          true,
	"institutionalTrustDrift": true,
	"corruptionDrift":         true,
	"reputationDrift":         true,
	"negotiationEventFreq":    true,
	"diplomacyEventFreq":      true,
}

// DecreeModifierKeys are the passive modifiers a Level-1 decree may declare.
var DecreeModifierKeys = map[string]bool{
	"incomeMult":              true,
	"growthBonus":             true,
	"happinessDrift":          true,
	"stabilityDrift":          true,
	"institutionalTrustDrift": true,
	"corruptionDrift":         true,
	"reputationDrift":         true,
}

// RequirementKeys are the project requirement names.
var RequirementKeys = map[string]bool{
	"minPhase":              true,
	"minGdp":                true,
	"minStability":          true,
	"minInstitutionalTrust": true,
	"minReputation":         true,
	"minInnovation":         true,
	"minResources":          true,
	"minHappiness":          true,
}

type checker struct {
	errs []error
}

func (c *checker) failf(format string, args ...any) {
	c.errs = append(c.errs, fmt.Errorf(format, args...))
}

func (c *checker) effects(where string, m effects.Map) {
	for _, k := range effects.Unknown(m) {
		c.failf("%s: unknown effect key %q", where, k)
	}
}

func (c *checker) ids(kind string, ids []string) map[string]bool {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			c.failf("%s: duplicate id %q", kind, id)
		}
		seen[id] = true
	}
	return seen
}

func statKnown(name string) bool {
	if name == "trust" || name == "environmental" {
		return true
	}
	k, ok := effects.Parse(name)
	return ok && !k.IsFlag() && k != effects.OfflineIncomeBonus
}

func (c *checker) conditions(where string, cond *Conditions, env *rules.Env) {
	if cond == nil {
		return
	}
	for name := range cond.StatGte {
		if !statKnown(name) {
			c.failf("%s: unknown stat %q", where, name)
		}
	}
	for name := range cond.StatLte {
		if !statKnown(name) {
			c.failf("%s: unknown stat %q", where, name)
		}
	}
	if cond.When == "" {
		return
	}
	prg, err := env.Compile(cond.When)
	if err != nil {
		c.failf("%s: %v", where, err)
		return
	}
	cond.when = prg
}

func collect[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}

// check runs the semantic validation and compiles CEL conditions in place.
func (b *Bundle) check(env *rules.Env) error {
	c := &checker{}

	roles := c.ids("roles", collect(b.Roles, func(r Role) string { return r.ID }))
	for _, r := range b.Roles {
		for k := range r.Modifiers {
			if !RoleModifierKeys[k] {
				c.failf("role %s: unknown modifier %q", r.ID, k)
			}
		}
	}

	for _, p := range b.Projects {
		for k := range p.Requirements {
			if !RequirementKeys[k] {
				c.failf("project %s: unknown requirement %q", p.ID, k)
			}
		}
		c.effects("project "+p.ID, p.Effects)
	}
	c.ids("projects", collect(b.Projects, func(p Project) string { return p.ID }))

	events := c.ids("events", collect(b.Events, func(e Event) string { return e.ID }))
	for i := range b.Events {
		e := &b.Events[i]
		lo, hi := e.Phases()
		if lo > hi {
			c.failf("event %s: phase window %d..%d is empty", e.ID, lo, hi)
		}
		c.conditions("event "+e.ID, e.Conditions, env)
		for j := range e.Options {
			o := &e.Options[j]
			where := fmt.Sprintf("event %s option %s", e.ID, o.ID)
			c.effects(where, o.Effects)
			if o.FollowUpEventID != "" && !events[o.FollowUpEventID] {
				c.failf("%s: follow-up %q does not exist", where, o.FollowUpEventID)
			}
			for k := range o.Modifiers {
				c.conditions(where, &o.Modifiers[k].Conditions, env)
			}
		}
		if e.RequiredRoleID != "" && !roles[e.RequiredRoleID] {
			c.failf("event %s: unknown role %q", e.ID, e.RequiredRoleID)
		}
	}

	c.ids("decrees", collect(b.Economy.Decrees, func(d Decree) string { return d.ID }))
	for _, d := range b.Economy.Decrees {
		c.effects("decree "+d.ID+" cost", d.Cost)
		for k := range d.Modifiers {
			if !DecreeModifierKeys[k] {
				c.failf("decree %s: unknown modifier %q", d.ID, k)
			}
		}
	}
	if b.Economy.TickMs <= 0 {
		c.failf("economy: tickMs must be positive")
	}

	c.ids("industries", collect(b.Industries, func(i Industry) string { return i.ID }))
	for _, a := range b.IAP.RewardedAds {
		c.effects("rewarded "+a.ID, a.Effect)
	}

	c.ids("policyPresets", collect(b.PolicyPresets, func(p PolicyPreset) string { return p.ID }))
	for _, p := range b.PolicyPresets {
		c.effects("preset "+p.ID, p.Adjustments)
		if sum := p.Budget.Sum(); sum < 99.5 || sum > 100.5 {
			c.failf("preset %s: budget sums to %.1f", p.ID, sum)
		}
	}
	c.ids("stateTypes", collect(b.StateTypes, func(s StateType) string { return s.ID }))

	l2Projects := c.ids("level2 projects", collect(b.L2Projects, func(p L2Project) string { return p.ID }))
	l2Industries := c.ids("level2 industries", collect(b.L2Industries, func(i L2Industry) string { return i.ID }))
	advisors := c.ids("advisors", collect(b.Advisors, func(a Advisor) string { return a.ID }))

	for _, ind := range b.L2Industries {
		for _, p := range ind.Unlock.RequiresProjectsL2 {
			if !l2Projects[p] {
				c.failf("level2 industry %s: unknown project %q", ind.ID, p)
			}
		}
	}
	for _, p := range b.L2Projects {
		req := p.Requirements
		c.effects("level2 project "+p.ID, p.Effects)
		if req.RequiresBaseIndustryID != "" && !l2Industries[req.RequiresBaseIndustryID] {
			c.failf("level2 project %s: unknown base industry %q", p.ID, req.RequiresBaseIndustryID)
		}
		for _, id := range req.RequiresIndustries {
			if !l2Industries[id] {
				c.failf("level2 project %s: unknown industry %q", p.ID, id)
			}
		}
		for _, id := range req.RequiresAdvisorIDs {
			if !advisors[id] {
				c.failf("level2 project %s: unknown advisor %q", p.ID, id)
			}
		}
		for _, id := range req.RequiresProjects {
			if !l2Projects[id] {
				c.failf("level2 project %s: unknown project %q", p.ID, id)
			}
		}
	}
	for _, a := range b.Advisors {
		for _, id := range a.Recommends {
			if !l2Projects[id] {
				c.failf("advisor %s: recommends unknown project %q", a.ID, id)
			}
		}
	}

	c.ids("level2 events", collect(b.L2Events, func(e L2Event) string { return e.ID }))
	for _, e := range b.L2Events {
		for _, r := range e.Requires.RegimesAny {
			if !roles[r] {
				c.failf("level2 event %s: unknown role %q", e.ID, r)
			}
		}
		for _, r := range e.Requires.InflationRegimesAny {
			switch state.InflationRegime(r) {
			case state.RegimeDeflation, state.RegimeStable, state.RegimeHigh, state.RegimeHyper:
			default:
				c.failf("level2 event %s: unknown inflation regime %q", e.ID, r)
			}
		}
		for _, o := range e.Options {
			c.effects(fmt.Sprintf("level2 event %s option %s", e.ID, o.ID), o.Effects)
		}
	}

	c.ids("level2 decrees", collect(b.L2Decrees.All(), func(d L2Decree) string { return d.ID }))
	for _, d := range b.L2Decrees.All() {
		c.effects("level2 decree "+d.ID+" cost", d.Cost)
		c.effects("level2 decree "+d.ID, d.Effects)
		for _, r := range d.Requires.RegimesAny {
			if !roles[r] {
				c.failf("level2 decree %s: unknown role %q", d.ID, r)
			}
		}
	}

	if len(c.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(c.errs...))
}
