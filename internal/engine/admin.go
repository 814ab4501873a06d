package engine

import (
	"github.com/alexandrarotta/microestado/internal/state"
)

// Projects that drive administrative capacity.
const (
	AuditOfficeProjectID       = "P2_AUDIT_OFFICE"
	ProcurementProjectID       = "P2_PROCUREMENT"
	AutomatedTaxesProjectID    = "P3_AUTOMATED_COLLECTION"
	adminBaseGrowth            = 0.05
	auditOfficeCorruptionDrift = -0.02
)

func adminUnlockedByProjects(s *state.Save) bool {
	return s.ProjectCompleted(AuditOfficeProjectID)
}

// syncAdminUnlock derives the admin unlock flag from the audit office.
func syncAdminUnlock(s *state.Save) bool {
	s.AdminUnlocked = adminUnlockedByProjects(s)
	return s.AdminUnlocked
}

func adminPerkMultiplier(s *state.Save) float64 {
	mult := 1.0
	if s.ProjectCompleted(AuditOfficeProjectID) {
		mult *= 1.1
	}
	if s.ProjectCompleted(ProcurementProjectID) {
		mult *= 1.1
	}
	if s.ProjectCompleted(AutomatedTaxesProjectID) {
		mult *= 1.25
	}
	return mult
}

func adminCorruptionDrift(s *state.Save) float64 {
	if s.ProjectCompleted(AuditOfficeProjectID) {
		return auditOfficeCorruptionDrift
	}
	return 0
}

// AdminDelta is the admin capacity gained per tick. It is zero until the
// audit office is complete and the country has reached phase 2.
func AdminDelta(s *state.Save) float64 {
	if !adminUnlockedByProjects(s) || s.Phase < 2 {
		return 0
	}
	budgetFactor := 0.5 + s.Budget.IndustryPct/100*0.8
	trustFactor := 0.7 + s.InstitutionalTrust/100*0.9
	corruptionFactor := clamp(1-s.Corruption/120, 0.2, 1)
	return adminBaseGrowth * budgetFactor * trustFactor * corruptionFactor * adminPerkMultiplier(s)
}

func refreshAdminPerTick(s *state.Save) float64 {
	s.AdminPerTick = AdminDelta(s)
	return s.AdminPerTick
}
