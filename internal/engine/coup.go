package engine

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/alexandrarotta/microestado/internal/state"
)

// Hysteresis thresholds of the coup-risk detector.
const (
	RiskThreshold      = 85
	RiskTicksLimit     = 60
	ZeroMoraleLimit    = 20
	DebtOverLimit      = 30
	TreasuryRiskTicks  = 10
	debtOverRatio      = 4.0
	debtRiskRatio      = 2.5
	reliefPerCondition = 10
)

// Game-over reasons.
const (
	ReasonSocialCollapse = "Colapso social sostenido"
	ReasonFiscalCrisis   = "Crisis fiscal estructural"
	ReasonOverthrow      = "Riesgo de derrocamiento sostenido"
)

// RiskCause is one active penalty of the risk score.
type RiskCause struct {
	Label string `json:"label"`
	Score int    `json:"score"`
}

// RiskScore computes the clamped 0-100 coup risk and its active causes. It
// reads ZeroTreasuryTicks, so counters must be advanced first.
func RiskScore(s *state.Save) (float64, []RiskCause) {
	ratio := s.DebtRatio()
	var causes []RiskCause
	add := func(cond bool, label string, score int) {
		if cond {
			causes = append(causes, RiskCause{Label: label, Score: score})
		}
	}
	add(s.Happiness <= 10, "Felicidad <= 10", 25)
	add(s.Stability <= 10, "Estabilidad <= 10", 25)
	add(s.InstitutionalTrust <= 10, "Confianza <= 10", 20)
	add(s.ZeroTreasuryTicks >= TreasuryRiskTicks, "Tesoro en cero sostenido", 20)
	add(ratio > debtRiskRatio, fmt.Sprintf("Deuda/PIB %.1f", ratio), 20)
	add(s.GrowthPct <= -5, "Crecimiento <= -5%", 10)
	add(s.Corruption >= 90, "Corrupcion >= 90", 20)

	risk := 0.0
	for _, c := range causes {
		risk += float64(c.Score)
	}
	if s.Treasury > 200 {
		risk -= reliefPerCondition
	}
	if s.Happiness > 50 {
		risk -= reliefPerCondition
	}
	if s.Stability > 50 {
		risk -= reliefPerCondition
	}
	return clamp(risk, 0, 100), causes
}

// Advice picks a generic recovery hint for the game-over screen.
func Advice(s *state.Save) string {
	switch {
	case s.DebtRatio() >= 3:
		return "Reduce gasto y ajusta impuestos para frenar la deuda."
	case s.Corruption >= 85:
		return "Baja corrupcion con contraloria y controles."
	case s.Happiness <= 15:
		return "Sube bienestar y empleo para recuperar felicidad."
	case s.Stability <= 15:
		return "Equilibra presupuesto y sube confianza institucional."
	default:
		return "Sube bienestar 10-15% y reduce desigualdad."
	}
}

func step(cond bool, n int) int {
	if cond {
		return n + 1
	}
	return 0
}

// applyCoupRisk advances the hysteresis counters and ends the game the
// first tick any of them reaches its limit.
func (e *Engine) applyCoupRisk(s *state.Save) {
	s.ZeroTreasuryTicks = step(s.Treasury <= 0, s.ZeroTreasuryTicks)
	s.ZeroMoraleTicks = step(s.Happiness <= 0 && s.Stability <= 0, s.ZeroMoraleTicks)
	s.DebtOverTicks = step(s.DebtRatio() >= debtOverRatio, s.DebtOverTicks)

	risk, causes := RiskScore(s)
	s.LastRisk = risk
	s.RiskTicks = step(risk >= RiskThreshold, s.RiskTicks)

	overByRisk := s.RiskTicks >= RiskTicksLimit
	overByMorale := s.ZeroMoraleTicks >= ZeroMoraleLimit
	overByDebt := s.DebtOverTicks >= DebtOverLimit
	if s.GameOver || !(overByRisk || overByMorale || overByDebt) {
		return
	}

	reason := ReasonOverthrow
	switch {
	case overByMorale:
		reason = ReasonSocialCollapse
	case overByDebt:
		reason = ReasonFiscalCrisis
	}
	sort.SliceStable(causes, func(i, j int) bool { return causes[i].Score > causes[j].Score })
	top := make([]string, 0, 3)
	for i := 0; i < len(causes) && i < 3; i++ {
		top = append(top, causes[i].Label)
	}

	now := e.now().UTC()
	s.GameOver = true
	s.GameOverReason = reason
	s.GameOverAt = &now
	s.GameOverAtTick = s.TickCount
	s.GameOverCauses = top
	s.GameOverAdvice = Advice(s)
	s.ActiveEventID = ""
	e.publish(s, "El gabinete declara el fin del mandato.", state.NewsSystem, state.SeverityOK)
	slog.Info("game over", "country", s.Country.FormalName, "reason", reason, "tick", s.TickCount, "risk", risk)
}
