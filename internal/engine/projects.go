package engine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/alexandrarotta/microestado/internal/catalog"
	"github.com/alexandrarotta/microestado/internal/effects"
	"github.com/alexandrarotta/microestado/internal/state"
)

// meetsRequirements checks the conjunctive requirement set of a project.
// minPhase defaults to the project's own phase.
func meetsRequirements(p *catalog.Project, s *state.Save) bool {
	minPhase, ok := p.Requirements["minPhase"]
	if !ok {
		minPhase = float64(p.Phase)
	}
	if float64(s.Phase) < minPhase {
		return false
	}
	checks := []struct {
		key   string
		value float64
	}{
		{"minGdp", s.GDP},
		{"minStability", s.Stability},
		{"minInstitutionalTrust", s.InstitutionalTrust},
		{"minReputation", s.Reputation},
		{"minInnovation", s.Innovation},
		{"minResources", s.Resources},
		{"minHappiness", s.Happiness},
	}
	for _, c := range checks {
		if limit, ok := p.Requirements[c.key]; ok && c.value < limit {
			return false
		}
	}
	return true
}

// ProjectCost is the treasury cost of starting p, scaled by the phase
// multiplier and the global cost curve.
func (e *Engine) ProjectCost(p *catalog.Project, s *state.Save) float64 {
	mult := e.remote(s).ProjectCostMultiplier(p.Phase)
	return math.Round(p.Cost * mult * e.cat.Economy.ProjectCostCurve)
}

// Startable reports whether p can be started right now.
func (e *Engine) Startable(p *catalog.Project, s *state.Save) bool {
	ps := s.Projects[p.ID]
	if ps == nil || ps.Status != state.ProjectAvailable || ps.Progress != 0 {
		return false
	}
	if !meetsRequirements(p, s) {
		return false
	}
	if s.Treasury < e.ProjectCost(p, s) {
		return false
	}
	return adminSatisfied(p, s)
}

func adminSatisfied(p *catalog.Project, s *state.Save) bool {
	if p.AdminCost <= 0 {
		return true
	}
	return adminUnlockedByProjects(s) && s.Admin >= p.AdminCost
}

// StartProject pays for an available project and puts it in progress.
func (e *Engine) StartProject(s *state.Save, projectID string) state.Result {
	if s.GameOver {
		return state.BadRequest("Game over")
	}
	p := e.cat.Project(projectID)
	if p == nil {
		return state.NotFound("Project not found")
	}
	cost := e.ProjectCost(p, s)
	if s.Treasury < cost {
		return state.BadRequest("Insufficient treasury")
	}
	if p.AdminCost > 0 && !adminUnlockedByProjects(s) {
		return state.BadRequest("Admin locked")
	}
	if p.AdminCost > 0 && s.Admin < p.AdminCost {
		return state.BadRequest("Insufficient admin")
	}
	ps := s.Projects[p.ID]
	if ps == nil || ps.Status != state.ProjectAvailable {
		return state.BadRequest("Project not available")
	}

	s.Treasury -= cost
	if p.AdminCost > 0 {
		s.Admin = math.Max(0, s.Admin-p.AdminCost)
	}
	ps.Status = state.ProjectInProgress
	ps.Progress = 0
	e.publish(s, fmt.Sprintf("%s inicia %s.", e.leaderSignature(s), p.Name), state.NewsProject, state.SeverityOK)
	e.updatePhase(s)
	return state.Ok()
}

// BoostProject spends tokens to complete an in-progress project at once.
func (e *Engine) BoostProject(s *state.Save, projectID string) state.Result {
	if s.GameOver {
		return state.BadRequest("Game over")
	}
	p := e.cat.Project(projectID)
	if p == nil {
		return state.NotFound("Project not found")
	}
	cost := e.cat.IAP.Actions.ProjectSpeedCost
	if s.PremiumTokens < cost {
		return state.BadRequest("Insufficient tokens")
	}
	if !e.completeProject(s, p) {
		return state.BadRequest("Project not in progress")
	}
	s.PremiumTokens -= cost
	return state.Ok()
}

// completeProject force-completes an in-progress project.
func (e *Engine) completeProject(s *state.Save, p *catalog.Project) bool {
	ps := s.Projects[p.ID]
	if ps == nil || ps.Status != state.ProjectInProgress {
		return false
	}
	ps.Progress = p.DurationTicks
	ps.Status = state.ProjectCompleted
	effects.ApplyMap(s, p.Effects)
	syncAdminUnlock(s)
	refreshAdminPerTick(s)
	e.publish(s, fmt.Sprintf("%s acelera y completa %s.", e.leaderSignature(s), p.Name), state.NewsProject, state.SeverityOK)
	e.updatePhase(s)
	return true
}

// advanceProjects runs the per-tick project lifecycle in catalog order.
func (e *Engine) advanceProjects(s *state.Save, speed float64, blocked bool) {
	for i := range e.cat.Projects {
		p := &e.cat.Projects[i]
		ps := s.Projects[p.ID]
		if ps == nil || ps.Status == state.ProjectCompleted {
			continue
		}

		switch ps.Status {
		case state.ProjectInProgress, state.ProjectPaused:
			if blocked {
				ps.Status = state.ProjectPaused
				continue
			}
			ps.Status = state.ProjectInProgress
			ps.Progress += speed
			if ps.Progress >= p.DurationTicks {
				ps.Status = state.ProjectCompleted
				effects.ApplyMap(s, p.Effects)
				e.publish(s, fmt.Sprintf("%s completa el proyecto %s.", e.leaderSignature(s), p.Name),
					state.NewsProject, state.SeverityOK)
			}
		default:
			wasLocked := ps.Status == state.ProjectLocked
			if meetsRequirements(p, s) {
				ps.Status = state.ProjectAvailable
			} else {
				ps.Status = state.ProjectLocked
			}
			if wasLocked && ps.Status == state.ProjectAvailable {
				e.publish(s, fmt.Sprintf("Proyecto desbloqueado: %s.", p.Name),
					state.NewsProjectUnlock, state.SeverityCritical)
			}
		}
	}
}

// notifyStartable announces every project that just became startable.
// Each project is announced at most once per save.
func (e *Engine) notifyStartable(s *state.Save) {
	for i := range e.cat.Projects {
		p := &e.cat.Projects[i]
		if !e.Startable(p, s) || contains(s.NotifiedStartable, p.ID) {
			continue
		}
		s.PublishItem(state.NewsItem{
			ID:        "NEWS_PROJ_READY_" + p.ID,
			Text:      "Proyecto listo para iniciar: " + p.Name,
			Type:      state.NewsProjectReady,
			Severity:  state.SeverityCritical,
			CreatedAt: e.now().UnixMilli(),
		})
		s.NotifiedStartable = append(s.NotifiedStartable, p.ID)
	}
}

// RecalcPhase returns the highest phase whose thresholds the save meets.
func (e *Engine) RecalcPhase(s *state.Save) int {
	completed := s.CompletedProjects()
	t := e.cat.Economy.PhaseThresholds
	tiers := []struct {
		phase int
		th    catalog.PhaseThreshold
	}{{4, t.Phase4}, {3, t.Phase3}, {2, t.Phase2}}
	for _, tier := range tiers {
		if s.GDP >= tier.th.GDP &&
			s.Stability >= tier.th.Stability &&
			s.InstitutionalTrust >= tier.th.Trust &&
			completed >= tier.th.Projects {
			return tier.phase
		}
	}
	return 1
}

// updatePhase recomputes the phase and the level-1 completion flag.
func (e *Engine) updatePhase(s *state.Save) {
	next := e.RecalcPhase(s)
	if next != s.Phase {
		slog.Info("phase changed", "country", s.Country.FormalName, "from", s.Phase, "to", next, "tick", s.TickCount)
	}
	s.Phase = next
	if s.Level <= 1 && s.Phase >= 4 {
		s.Level1Complete = true
	}
}

// RebuildProjects adds a locked entry for every catalog project the save
// does not know yet, so catalogs can grow under existing saves.
func (e *Engine) RebuildProjects(s *state.Save) {
	if s.Projects == nil {
		s.Projects = make(map[string]*state.ProjectState, len(e.cat.Projects))
	}
	for _, p := range e.cat.Projects {
		if _, ok := s.Projects[p.ID]; !ok {
			s.Projects[p.ID] = &state.ProjectState{Status: state.ProjectLocked}
		}
	}
}
