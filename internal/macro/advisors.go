package macro

import (
	"github.com/alexandrarotta/microestado/internal/catalog"
	"github.com/alexandrarotta/microestado/internal/social"
	"github.com/alexandrarotta/microestado/internal/state"
)

// Cabinet returns the advisors a role may appoint.
func (e *Engine) Cabinet(roleID string) []catalog.Advisor {
	group := string(social.CabinetGroup(roleID))
	var out []catalog.Advisor
	for _, a := range e.cat.Advisors {
		if a.Group == group {
			out = append(out, a)
		}
	}
	return out
}

// SetAdvisors replaces the cabinet. Duplicates are dropped and every
// advisor must belong to the role's cabinet group.
func (e *Engine) SetAdvisors(s *state.Save, advisorIDs []string) state.Result {
	l2, r, ok := playable(s)
	if !ok {
		return r
	}
	group := string(social.CabinetGroup(s.Leader.RoleID))
	next := make([]string, 0, len(advisorIDs))
	for _, id := range advisorIDs {
		a := e.cat.Advisor(id)
		if a == nil {
			return state.NotFound("Advisor not found")
		}
		if a.Group != group {
			return state.Forbidden("Advisor not in cabinet")
		}
		if !contains(next, id) {
			next = append(next, id)
		}
	}
	l2.Advisors = next
	e.RebuildProjects(s)
	e.refreshProjects(s, l2)
	return state.Ok()
}
