package engine

import (
	"fmt"
	"math"

	"github.com/alexandrarotta/microestado/internal/effects"
	"github.com/alexandrarotta/microestado/internal/state"
)

// RescueAmount is the treasury injected by a quick rescue.
const RescueAmount = 200

// Player interventions outside the regular tick: token purchases and
// spending, rewarded incentives and emergency treasury injections.

// PurchaseOffer credits the tokens of a catalog offer. Payment happens
// outside the engine.
func (e *Engine) PurchaseOffer(s *state.Save, offerID string) state.Result {
	for _, o := range e.cat.IAP.Offers {
		if o.ID == offerID {
			s.PremiumTokens += o.Tokens
			return state.Ok()
		}
	}
	return state.NotFound("Offer not found")
}

// RedeemRewarded applies a rewarded incentive.
func (e *Engine) RedeemRewarded(s *state.Save, rewardedID string) state.Result {
	if s.GameOver {
		return state.BadRequest("Game over")
	}
	for _, r := range e.cat.IAP.RewardedAds {
		if r.ID != rewardedID {
			continue
		}
		effects.ApplyMap(s, r.Effect)
		e.publish(s, e.leaderSignature(s)+" activa un incentivo rapido.", state.NewsSystem, state.SeverityOK)
		return state.Ok()
	}
	return state.NotFound("Incentive not found")
}

// spendTokens deducts cost when the save can pay it.
func spendTokens(s *state.Save, cost float64) bool {
	if s.PremiumTokens < cost {
		return false
	}
	s.PremiumTokens = math.Max(0, s.PremiumTokens-cost)
	return true
}

// UnlockAutoBalance buys the one-time automatic budget balance.
func (e *Engine) UnlockAutoBalance(s *state.Save) state.Result {
	if s.Premium.AutoBalanceUnlocked {
		return state.Ok()
	}
	if !spendTokens(s, e.cat.IAP.Actions.AutoBalanceUnlockCost) {
		return state.BadRequest("Insufficient tokens")
	}
	s.Premium.AutoBalanceUnlocked = true
	return state.Ok()
}

// UnlockReportClarity buys the one-time detailed reports.
func (e *Engine) UnlockReportClarity(s *state.Save) state.Result {
	if s.Premium.ReportClarityUnlocked {
		return state.Ok()
	}
	if !spendTokens(s, e.cat.IAP.Actions.ReportClarityUnlockCost) {
		return state.BadRequest("Insufficient tokens")
	}
	s.Premium.ReportClarityUnlocked = true
	return state.Ok()
}

// BoostOfflineCap extends the offline catch-up window.
func (e *Engine) BoostOfflineCap(s *state.Save) state.Result {
	a := e.cat.IAP.Actions
	if !spendTokens(s, a.OfflineCapBoostCost) {
		return state.BadRequest("Insufficient tokens")
	}
	s.Premium.OfflineCapBonusHours += a.OfflineCapBoostHours
	return state.Ok()
}

// PurchaseCarbonCredits trades tokens for a lower environmental impact.
func (e *Engine) PurchaseCarbonCredits(s *state.Save) state.Result {
	if s.GameOver {
		return state.BadRequest("Game over")
	}
	a := e.cat.IAP.Actions
	if !spendTokens(s, a.CarbonCreditsCost) {
		return state.BadRequest("Insufficient tokens")
	}
	effects.Apply(s, effects.Set{effects.EnvironmentalImpact: -a.CarbonCreditsReduction})
	e.publish(s, fmt.Sprintf("Mercado de carbono: compraste creditos (-%g huella, -%g tokens).",
		a.CarbonCreditsReduction, a.CarbonCreditsCost), state.NewsSystem, state.SeverityOK)
	return state.Ok()
}

// PurchaseTokenWithTreasury exchanges treasury for one token.
func (e *Engine) PurchaseTokenWithTreasury(s *state.Save) state.Result {
	if s.GameOver {
		return state.BadRequest("Game over")
	}
	cost := e.cat.IAP.Actions.TokenTreasuryCost
	if s.Treasury < cost {
		return state.BadRequest("Insufficient treasury")
	}
	s.Treasury = math.Max(0, s.Treasury-cost)
	s.PremiumTokens++
	e.publish(s, e.leaderSignature(s)+" canjea tesoro por 1 token.", state.NewsSystem, state.SeverityOK)
	return state.Ok()
}

// RescueTreasury injects emergency funds.
func (e *Engine) RescueTreasury(s *state.Save) state.Result {
	if s.GameOver {
		return state.BadRequest("Game over")
	}
	s.Treasury += RescueAmount
	e.publish(s, "Rescate rapido: se inyecta tesoro de emergencia.", state.NewsSystem, state.SeverityWarn)
	return state.Ok()
}

// SetRemoteOverrides replaces the per-save remote tunables.
func (e *Engine) SetRemoteOverrides(s *state.Save, overrides map[string]float64) state.Result {
	s.RemoteOverrides = make(map[string]float64, len(overrides))
	for k, v := range overrides {
		s.RemoteOverrides[k] = v
	}
	return state.Ok()
}
