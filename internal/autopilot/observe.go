// Package autopilot is a rule-based cabinet that plays a save without a
// human. Each step observes the save, triages its health, decides on at
// most one action and applies it through the same engine calls the API
// uses. The simulate command drives it.
package autopilot

import (
	"github.com/alexandrarotta/microestado/internal/macro"
	"github.com/alexandrarotta/microestado/internal/social"
	"github.com/alexandrarotta/microestado/internal/state"
)

// Observation is the slice of a save the cabinet looks at.
type Observation struct {
	Tick     int  `json:"tick"`
	Level    int  `json:"level"`
	Phase    int  `json:"phase"`
	GameOver bool `json:"gameOver"`

	Treasury   float64 `json:"treasury"`
	DebtRatio  float64 `json:"debtRatio"`
	Risk       float64 `json:"risk"`
	Happiness  float64 `json:"happiness"`
	Stability  float64 `json:"stability"`
	Trust      float64 `json:"trust"`
	Corruption float64 `json:"corruption"`
	WelfarePct float64 `json:"welfarePct"`

	ActiveEventID  string `json:"activeEventId,omitempty"`
	PlanReady      bool   `json:"planReady"`
	Level1Complete bool   `json:"level1Complete"`

	// Level 2 only.
	Inflation     float64               `json:"inflation,omitempty"`
	Regime        state.InflationRegime `json:"regime,omitempty"`
	PendingEvent  string                `json:"pendingEvent,omitempty"`
	BaseIndustry  string                `json:"baseIndustry,omitempty"`
	BankReady     bool                  `json:"bankReady,omitempty"`
	ElectionReady bool                  `json:"electionReady,omitempty"`
	WinChance     float64               `json:"winChance,omitempty"`
}

// Observe reads an Observation off the save.
func Observe(s *state.Save) Observation {
	o := Observation{
		Tick:           s.TickCount,
		Level:          s.Level,
		Phase:          s.Phase,
		GameOver:       s.GameOver,
		Treasury:       s.Treasury,
		DebtRatio:      s.DebtRatio(),
		Risk:           s.LastRisk,
		Happiness:      s.Happiness,
		Stability:      s.Stability,
		Trust:          s.InstitutionalTrust,
		Corruption:     s.Corruption,
		WelfarePct:     s.Budget.WelfarePct,
		ActiveEventID:  s.ActiveEventID,
		PlanReady:      s.PlanAnticrisisUnlocked && s.TickCount >= s.PlanAnticrisisCooldownUntil,
		Level1Complete: s.Level1Complete,
	}

	l2 := s.Level2
	if s.Level < 2 || l2 == nil {
		return o
	}
	o.GameOver = l2.GameOver
	o.Phase = l2.Phase
	o.Inflation = l2.Macro.InflationPct
	o.Regime = l2.Macro.Regime
	if l2.Events.Pending != nil {
		o.PendingEvent = l2.Events.Pending.InstanceID
	}
	o.BaseIndustry = l2.Industries.ChosenBaseIndustryID
	o.BankReady = s.TickCount >= l2.Macro.CentralBank.CooldownUntilTick
	o.ElectionReady = social.IsDemocratic(s.Leader.RoleID) && s.TickCount >= l2.Elections.CooldownUntilTick
	o.WinChance = macro.WinChance(s)
	return o
}
