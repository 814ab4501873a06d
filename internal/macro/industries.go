package macro

import (
	"fmt"

	"github.com/alexandrarotta/microestado/internal/catalog"
	"github.com/alexandrarotta/microestado/internal/state"
)

// CapexCostMultiplier scales an industry's capex into its treasury price.
const CapexCostMultiplier = 15

// IndustryUnlocked reports whether a Level-2 industry may be activated.
func IndustryUnlocked(ind *catalog.L2Industry, l2 *state.Level2) bool {
	if ind.Unlock.MinPhaseL2 > 0 && l2.Phase < ind.Unlock.MinPhaseL2 {
		return false
	}
	for _, id := range ind.Unlock.RequiresProjectsL2 {
		if ps := l2.Projects[id]; ps == nil || ps.Status != state.ProjectCompleted {
			return false
		}
	}
	return true
}

// ChooseBaseIndustry picks the one base industry of the Level-2 economy.
// The choice is final.
func (e *Engine) ChooseBaseIndustry(s *state.Save, industryID string) state.Result {
	l2, r, ok := playable(s)
	if !ok {
		return r
	}
	if l2.Industries.ChosenBaseIndustryID != "" {
		return state.BadRequest("Base industry already chosen")
	}
	ind := e.cat.L2Industry(industryID)
	if ind == nil {
		return state.NotFound("Industry not found")
	}
	if !IndustryUnlocked(ind, l2) {
		return state.BadRequest("Industry locked")
	}
	cost := ind.Attributes.Capex * CapexCostMultiplier
	if s.Treasury < cost {
		return state.BadRequest("Insufficient treasury")
	}

	s.Treasury -= cost
	l2.Industries.ChosenBaseIndustryID = ind.ID
	if !l2.Industries.IsActive(ind.ID) {
		l2.Industries.ActiveIndustries = append(l2.Industries.ActiveIndustries, ind.ID)
	}
	e.RebuildProjects(s)
	e.refreshProjects(s, l2)
	e.publish(s, fmt.Sprintf("Base industrial L2: %s.", ind.Name), state.NewsSystem, state.SeverityOK)
	return state.Ok()
}

// ActivateIndustry buys an unlocked industry into the active set.
// Activation is permanent.
func (e *Engine) ActivateIndustry(s *state.Save, industryID string) state.Result {
	l2, r, ok := playable(s)
	if !ok {
		return r
	}
	ind := e.cat.L2Industry(industryID)
	if ind == nil {
		return state.NotFound("Industry not found")
	}
	if l2.Industries.IsActive(ind.ID) {
		return state.BadRequest("Industry already active")
	}
	if !IndustryUnlocked(ind, l2) {
		return state.BadRequest("Industry locked")
	}
	cost := ind.Attributes.Capex * CapexCostMultiplier
	if s.Treasury < cost {
		return state.BadRequest("Insufficient treasury")
	}
	s.Treasury -= cost
	l2.Industries.ActiveIndustries = append(l2.Industries.ActiveIndustries, ind.ID)
	e.RebuildProjects(s)
	e.refreshProjects(s, l2)
	e.publish(s, fmt.Sprintf("Industria activada: %s.", ind.Name), state.NewsSystem, state.SeverityOK)
	return state.Ok()
}

// ActiveTags returns the union of the tags of every active industry.
func (e *Engine) ActiveTags(l2 *state.Level2) map[string]bool {
	tags := make(map[string]bool)
	for _, id := range l2.Industries.ActiveIndustries {
		if ind := e.cat.L2Industry(id); ind != nil {
			for _, t := range ind.Tags {
				tags[t] = true
			}
		}
	}
	return tags
}
