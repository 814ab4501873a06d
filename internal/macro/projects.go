package macro

import (
	"fmt"

	"github.com/alexandrarotta/microestado/internal/catalog"
	"github.com/alexandrarotta/microestado/internal/state"
)

// Completed-project counts that open Level-2 phases 2, 3 and 4.
var phaseThresholds = [...]int{3, 6, 10}

func phaseFor(l2 *state.Level2) int {
	done := 0
	for _, ps := range l2.Projects {
		if ps != nil && ps.Status == state.ProjectCompleted {
			done++
		}
	}
	phase := 1
	for _, n := range phaseThresholds {
		if done >= n {
			phase++
		}
	}
	return phase
}

// ProjectRequirementsMet checks every requirement of a Level-2 project.
// Advisor requirements are satisfied by any one of the listed advisors;
// the others need all of their entries.
func ProjectRequirementsMet(p *catalog.L2Project, s *state.Save) bool {
	l2 := s.Level2
	if l2 == nil {
		return false
	}
	req := &p.Requirements
	if req.MinPhaseL2 > 0 && l2.Phase < req.MinPhaseL2 {
		return false
	}
	if req.RequiresBaseIndustryID != "" && l2.Industries.ChosenBaseIndustryID != req.RequiresBaseIndustryID {
		return false
	}
	for _, id := range req.RequiresIndustries {
		if !l2.Industries.IsActive(id) {
			return false
		}
	}
	if len(req.RequiresAdvisorIDs) > 0 {
		found := false
		for _, id := range req.RequiresAdvisorIDs {
			if contains(l2.Advisors, id) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, id := range req.RequiresProjects {
		if ps := l2.Projects[id]; ps == nil || ps.Status != state.ProjectCompleted {
			return false
		}
	}
	if req.RequiresCentralBankAction && !l2.Macro.CentralBank.HasActed() {
		return false
	}
	return true
}

// RebuildProjects adds a state entry for every catalog project the save
// does not track yet.
func (e *Engine) RebuildProjects(s *state.Save) {
	l2 := s.Level2
	if l2 == nil {
		return
	}
	for i := range e.cat.L2Projects {
		p := &e.cat.L2Projects[i]
		if _, ok := l2.Projects[p.ID]; ok {
			continue
		}
		status := state.ProjectLocked
		if ProjectRequirementsMet(p, s) {
			status = state.ProjectAvailable
		}
		l2.Projects[p.ID] = &state.ProjectState{Status: status}
	}
}

// refreshProjects re-evaluates every project that has not been started.
func (e *Engine) refreshProjects(s *state.Save, l2 *state.Level2) {
	for i := range e.cat.L2Projects {
		p := &e.cat.L2Projects[i]
		ps := l2.Projects[p.ID]
		if ps == nil || ps.Status == state.ProjectCompleted || ps.Status == state.ProjectInProgress {
			continue
		}
		if ProjectRequirementsMet(p, s) {
			ps.Status = state.ProjectAvailable
		} else {
			ps.Status = state.ProjectLocked
		}
	}
}

// StartProject pays for an available Level-2 project.
func (e *Engine) StartProject(s *state.Save, projectID string) state.Result {
	l2, r, ok := playable(s)
	if !ok {
		return r
	}
	p := e.cat.L2Project(projectID)
	if p == nil {
		return state.NotFound("Project not found")
	}
	e.RebuildProjects(s)
	ps := l2.Projects[p.ID]
	if ps.Status != state.ProjectAvailable || !ProjectRequirementsMet(p, s) {
		return state.BadRequest("Project not available")
	}
	if s.Treasury < p.Cost {
		return state.BadRequest("Insufficient treasury")
	}
	s.Treasury -= p.Cost
	ps.Status = state.ProjectInProgress
	ps.Progress = 0
	e.publish(s, fmt.Sprintf("Nivel 2 inicia: %s.", p.Name), state.NewsProject, state.SeverityOK)
	return state.Ok()
}
