package engine

import (
	"github.com/alexandrarotta/microestado/internal/state"
)

// SetTaxRate moves the tax slider.
func (e *Engine) SetTaxRate(s *state.Save, pct float64) state.Result {
	if s.GameOver {
		return state.BadRequest("Game over")
	}
	s.TaxRatePct = clamp(pct, 0, 100)
	return state.Ok()
}

// UpdateBudget sets one budget area and redistributes the other two so the
// total stays 100.
func (e *Engine) UpdateBudget(s *state.Save, area state.BudgetArea, value float64) state.Result {
	if s.GameOver {
		return state.BadRequest("Game over")
	}
	if !area.Valid() {
		return state.BadRequest("Unknown budget area")
	}
	s.Budget = s.Budget.Adjust(area, value)
	return state.Ok()
}

// AutoBalance resets the budget to the even split. It is a premium unlock.
func (e *Engine) AutoBalance(s *state.Save) state.Result {
	if s.GameOver {
		return state.BadRequest("Game over")
	}
	if !s.Premium.AutoBalanceUnlocked {
		return state.Forbidden("Auto balance locked")
	}
	s.Budget = state.Balanced()
	return state.Ok()
}
