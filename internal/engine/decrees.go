package engine

import (
	"fmt"

	"github.com/alexandrarotta/microestado/internal/effects"
	"github.com/alexandrarotta/microestado/internal/state"
)

// legitimacyFloor is the stability and trust level under which checks and
// balances charge an extra cost on every decree.
const legitimacyFloor = 45

var checksBalancesCost = effects.Set{
	effects.Stability:          -2,
	effects.InstitutionalTrust: -2,
}

// AssignDecree puts decreeID in a slot. A decree occupies at most one slot,
// so any other slot holding it is emptied. An empty id clears the slot.
func (e *Engine) AssignDecree(s *state.Save, slotID int, decreeID string) state.Result {
	if s.GameOver {
		return state.BadRequest("Game over")
	}
	slot := s.Slot(slotID)
	if slot == nil {
		return state.NotFound("Slot not found")
	}
	if decreeID != "" && e.cat.Decree(decreeID) == nil {
		return state.NotFound("Missing decree")
	}
	if decreeID != "" {
		for i := range s.DecreeSlots {
			other := &s.DecreeSlots[i]
			if other.SlotID != slotID && other.DecreeID == decreeID {
				other.DecreeID = ""
			}
		}
	}
	slot.DecreeID = decreeID
	return state.Ok()
}

// canAfford reports whether the treasury and admin costs in set can be
// paid. Indicator costs always apply and floor at zero.
func canAfford(s *state.Save, set effects.Set) bool {
	return s.Treasury+set[effects.Treasury] >= 0 && s.Admin+set[effects.Admin] >= 0
}

// ActivateDecree charges the decree in slotID and opens its activity window.
func (e *Engine) ActivateDecree(s *state.Save, slotID int) state.Result {
	if s.GameOver {
		return state.BadRequest("Game over")
	}
	slot := s.Slot(slotID)
	if slot == nil || slot.DecreeID == "" {
		return state.BadRequest("No decree")
	}
	d := e.cat.Decree(slot.DecreeID)
	if d == nil {
		return state.NotFound("Missing decree")
	}
	if s.TickCount < slot.CooldownUntil {
		r := state.BadRequest("Cooldown")
		r.CooldownUntil = slot.CooldownUntil
		return r
	}

	cost, _ := effects.Normalize(d.Cost)
	role := e.role(s)
	if role != nil && role.ChecksBalances &&
		(s.Stability < legitimacyFloor || s.InstitutionalTrust < legitimacyFloor) {
		cost.Merge(checksBalancesCost)
	}
	if !canAfford(s, cost) {
		return state.BadRequest("Insufficient resources")
	}
	effects.Apply(s, cost)

	slot.ActiveUntil = s.TickCount + d.DurationTicks
	slot.CooldownUntil = slot.ActiveUntil + d.CooldownTicks
	e.publish(s, fmt.Sprintf("%s activa el decreto %s.", e.leaderSignature(s), d.Name), state.NewsSystem, state.SeverityOK)
	return state.Ok()
}
