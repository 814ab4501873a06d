package macro

import (
	"fmt"

	"github.com/alexandrarotta/microestado/internal/catalog"
	"github.com/alexandrarotta/microestado/internal/effects"
	"github.com/alexandrarotta/microestado/internal/social"
	"github.com/alexandrarotta/microestado/internal/state"
)

const decreeHistoryLimit = 30

// DecreesFor returns the Level-2 decree catalog of a role.
func (e *Engine) DecreesFor(roleID string) []catalog.L2Decree {
	switch social.DecreeCatalogFor(roleID) {
	case social.DecreesDemocracy:
		return e.cat.L2Decrees.Democracy
	case social.DecreesAuthoritarian:
		return e.cat.L2Decrees.Authoritarian
	default:
		return e.cat.L2Decrees.Neutral
	}
}

func (e *Engine) decreeFor(roleID, id string) *catalog.L2Decree {
	list := e.DecreesFor(roleID)
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}

// decreeCost splits a decree cost map into its treasury and admin parts.
func decreeCost(d *catalog.L2Decree) (treasury, admin float64) {
	set, _ := effects.Normalize(d.Cost)
	return set[effects.Treasury], set[effects.Admin]
}

// EnactDecree enacts a Level-2 decree from the role's catalog. The cost is
// checked before anything changes; the election decree pays through the
// election itself.
func (e *Engine) EnactDecree(s *state.Save, decreeID string) state.Result {
	l2, r, ok := playable(s)
	if !ok {
		return r
	}
	roleID := s.Leader.RoleID
	d := e.decreeFor(roleID, decreeID)
	if d == nil {
		return state.NotFound("Decree not found")
	}
	if d.Requires.MinPhase > 0 && l2.Phase < d.Requires.MinPhase {
		return state.BadRequest("Phase locked")
	}
	if len(d.Requires.RegimesAny) > 0 && !contains(d.Requires.RegimesAny, roleID) {
		return state.Forbidden("Regime not allowed")
	}
	if until := l2.Decrees.CooldownUntilByID[d.ID]; s.TickCount < until {
		res := state.BadRequest("Cooldown active")
		res.CooldownUntil = until
		return res
	}
	treasury, admin := decreeCost(d)
	if s.Treasury < treasury || s.Admin < admin {
		return state.BadRequest("Insufficient resources")
	}

	res := state.Ok()
	if d.Action == catalog.ActionCallElections {
		res = e.runElection(s, l2)
		if !res.OK {
			return res
		}
	} else {
		s.Treasury = max(0, s.Treasury-treasury)
		s.Admin = max(0, s.Admin-admin)
		effects.ApplyMap(s, d.Effects)
	}

	l2.Decrees.CooldownUntilByID[d.ID] = s.TickCount + d.CooldownTicks
	summary := d.Summary
	if summary == "" {
		set, _ := effects.Normalize(d.Effects)
		summary = effects.Summary(set)
	}
	if summary == "" {
		summary = d.Title
	}
	l2.Decrees.History = append([]state.L2DecreeRecord{{
		DecreeID:    d.ID,
		EnactedTick: s.TickCount,
		Summary:     summary,
	}}, l2.Decrees.History...)
	if len(l2.Decrees.History) > decreeHistoryLimit {
		l2.Decrees.History = l2.Decrees.History[:decreeHistoryLimit]
	}
	e.refreshProjects(s, l2)

	e.publish(s, fmt.Sprintf("DECRETO: %s - %s", d.Title, summary), state.NewsSystem, state.SeverityOK)
	res.Summary = summary
	return res
}
