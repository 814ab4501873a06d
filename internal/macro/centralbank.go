package macro

import (
	"log/slog"

	"github.com/alexandrarotta/microestado/internal/effects"
	"github.com/alexandrarotta/microestado/internal/state"
)

// CentralBankAction is a monetary action.
type CentralBankAction string

const (
	RaiseRate CentralBankAction = "RAISE"
	LowerRate CentralBankAction = "LOWER"
	Intervene CentralBankAction = "INTERVENE"
)

// Central bank tuning.
const (
	CentralBankCooldownTicks = 30
	CentralBankEffectTicks   = 120
	InterventionCost         = 80
)

type monetaryMove struct {
	inflation float64
	growth    float64
	news      string
}

var monetaryMoves = map[CentralBankAction]monetaryMove{
	RaiseRate: {-0.4, -0.4, "Banco Central: sube tasa de referencia."},
	LowerRate: {0.3, 0.3, "Banco Central: baja tasa de referencia."},
	Intervene: {-0.6, 0, "Banco Central: intervencion directa en mercado."},
}

// RunCentralBank applies a monetary action. Rate moves leave a time-boxed
// growth effect; an intervention costs treasury and clears any effect.
func (e *Engine) RunCentralBank(s *state.Save, action CentralBankAction) state.Result {
	l2, r, ok := playable(s)
	if !ok {
		return r
	}
	move, known := monetaryMoves[action]
	if !known {
		return state.BadRequest("Unknown action")
	}
	cb := &l2.Macro.CentralBank
	if s.TickCount < cb.CooldownUntilTick {
		res := state.BadRequest("Cooldown active")
		res.CooldownUntil = cb.CooldownUntilTick
		return res
	}
	if action == Intervene {
		if s.Treasury < InterventionCost {
			return state.BadRequest("Insufficient treasury")
		}
		s.Treasury -= InterventionCost
		cb.EffectUntilTick = 0
		cb.GrowthEffectPct = 0
	} else {
		cb.EffectUntilTick = s.TickCount + CentralBankEffectTicks
		cb.GrowthEffectPct = move.growth
	}

	effects.SetInflation(s, l2.Macro.InflationPct+move.inflation)
	cb.CooldownUntilTick = s.TickCount + CentralBankCooldownTicks
	cb.LastActionTick = s.TickCount
	cb.Actions++

	e.RebuildProjects(s)
	e.refreshProjects(s, l2)
	e.publish(s, move.news, state.NewsSystem, state.SeverityOK)
	slog.Debug("central bank action", "country", s.Country.FormalName, "action", string(action), "inflation", l2.Macro.InflationPct)
	return state.Ok()
}
