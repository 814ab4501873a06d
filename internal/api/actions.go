package api

import (
	"net/http"
	"strconv"

	"github.com/alexandrarotta/microestado/internal/macro"
	"github.com/alexandrarotta/microestado/internal/persistence"
	"github.com/alexandrarotta/microestado/internal/session"
	"github.com/alexandrarotta/microestado/internal/state"
)

// op is a player action bound to its request, run under the session lock.
type op func(g *session.Game, s *state.Save) state.Result

// binder turns a request into an op. It runs before the session is locked.
type binder func(r *http.Request) (op, error)

type route struct {
	method string
	path   string
	bind   binder
}

// plain binds an action that takes no input.
func plain(o op) binder {
	return func(*http.Request) (op, error) { return o, nil }
}

// withID binds an action on the {id} path segment.
func withID(fn func(id string) op) binder {
	return func(r *http.Request) (op, error) { return fn(r.PathValue("id")), nil }
}

// withBody binds an action on a JSON request body.
func withBody[T any](fn func(in T, r *http.Request) op) binder {
	return func(r *http.Request) (op, error) {
		var in T
		if err := decodeBody(r, &in); err != nil {
			return nil, err
		}
		return fn(in, r), nil
	}
}

type taxRequest struct {
	RatePct float64 `json:"ratePct"`
}

type budgetRequest struct {
	Area  state.BudgetArea `json:"area"`
	Value float64          `json:"value"`
}

type optionRequest struct {
	OptionID string `json:"optionId"`
}

type decreeRequest struct {
	DecreeID string `json:"decreeId"`
}

type industryRequest struct {
	IndustryID string `json:"industryId"`
}

type centralBankRequest struct {
	Action macro.CentralBankAction `json:"action"`
}

type advisorsRequest struct {
	AdvisorIDs []string `json:"advisorIds"`
}

// slot parses the {slot} path segment. Invalid input maps to slot 0, which
// the engine rejects as not found.
func slot(r *http.Request) int {
	n, _ := strconv.Atoi(r.PathValue("slot"))
	return n
}

func actions() []route {
	return []route{
		// Level 1: policy.
		{"POST", "tax", withBody(func(in taxRequest, _ *http.Request) op {
			return func(g *session.Game, s *state.Save) state.Result { return g.L1.SetTaxRate(s, in.RatePct) }
		})},
		{"POST", "budget", withBody(func(in budgetRequest, _ *http.Request) op {
			return func(g *session.Game, s *state.Save) state.Result { return g.L1.UpdateBudget(s, in.Area, in.Value) }
		})},
		{"POST", "budget/auto", plain(func(g *session.Game, s *state.Save) state.Result { return g.L1.AutoBalance(s) })},
		{"POST", "plan-anticrisis", plain(func(g *session.Game, s *state.Save) state.Result { return g.L1.ActivatePlanAnticrisis(s) })},
		{"POST", "rescue", plain(func(g *session.Game, s *state.Save) state.Result { return g.L1.RescueTreasury(s) })},

		// Level 1: projects.
		{"POST", "projects/{id}/start", withID(func(id string) op {
			return func(g *session.Game, s *state.Save) state.Result { return g.L1.StartProject(s, id) }
		})},
		{"POST", "projects/{id}/boost", withID(func(id string) op {
			return func(g *session.Game, s *state.Save) state.Result { return g.L1.BoostProject(s, id) }
		})},

		// Level 1: events.
		{"POST", "events/{id}/resolve", withBody(func(in optionRequest, r *http.Request) op {
			id := r.PathValue("id")
			return func(g *session.Game, s *state.Save) state.Result { return g.L1.ResolveEvent(s, id, in.OptionID) }
		})},
		{"POST", "events/mitigate", plain(func(g *session.Game, s *state.Save) state.Result { return g.L1.MitigateEvent(s) })},
		{"POST", "events/dismiss", plain(func(g *session.Game, s *state.Save) state.Result { return g.L1.DismissEvent(s) })},

		// Level 1: decree slots.
		{"POST", "decrees/{slot}/assign", withBody(func(in decreeRequest, r *http.Request) op {
			n := slot(r)
			return func(g *session.Game, s *state.Save) state.Result { return g.L1.AssignDecree(s, n, in.DecreeID) }
		})},
		{"POST", "decrees/{slot}/activate", withBody(func(_ struct{}, r *http.Request) op {
			n := slot(r)
			return func(g *session.Game, s *state.Save) state.Result { return g.L1.ActivateDecree(s, n) }
		})},

		// Level 1: industries.
		{"POST", "industries/leader", withBody(func(in industryRequest, _ *http.Request) op {
			return func(g *session.Game, s *state.Save) state.Result { return g.L1.SetIndustryLeader(s, in.IndustryID) }
		})},
		{"POST", "industries/diversified", withBody(func(in industryRequest, _ *http.Request) op {
			return func(g *session.Game, s *state.Save) state.Result { return g.L1.AddDiversifiedIndustry(s, in.IndustryID) }
		})},
		{"DELETE", "industries/diversified/{id}", withID(func(id string) op {
			return func(g *session.Game, s *state.Save) state.Result { return g.L1.RemoveDiversifiedIndustry(s, id) }
		})},

		// Token shop.
		{"POST", "shop/offers/{id}", withID(func(id string) op {
			return func(g *session.Game, s *state.Save) state.Result { return g.L1.PurchaseOffer(s, id) }
		})},
		{"POST", "shop/rewarded/{id}", withID(func(id string) op {
			return func(g *session.Game, s *state.Save) state.Result { return g.L1.RedeemRewarded(s, id) }
		})},
		{"POST", "shop/auto-balance", plain(func(g *session.Game, s *state.Save) state.Result { return g.L1.UnlockAutoBalance(s) })},
		{"POST", "shop/report-clarity", plain(func(g *session.Game, s *state.Save) state.Result { return g.L1.UnlockReportClarity(s) })},
		{"POST", "shop/offline-cap", plain(func(g *session.Game, s *state.Save) state.Result { return g.L1.BoostOfflineCap(s) })},
		{"POST", "shop/carbon-credits", plain(func(g *session.Game, s *state.Save) state.Result { return g.L1.PurchaseCarbonCredits(s) })},
		{"POST", "shop/token", plain(func(g *session.Game, s *state.Save) state.Result { return g.L1.PurchaseTokenWithTreasury(s) })},

		// Level 2.
		{"POST", "level2/continue", plain(func(g *session.Game, s *state.Save) state.Result { return g.L2.ContinueToLevel2(s) })},
		{"POST", "level2/central-bank", withBody(func(in centralBankRequest, _ *http.Request) op {
			return func(g *session.Game, s *state.Save) state.Result { return g.L2.RunCentralBank(s, in.Action) }
		})},
		{"POST", "level2/elections", plain(func(g *session.Game, s *state.Save) state.Result { return g.L2.RunElection(s) })},
		{"POST", "level2/decrees/{id}", withID(func(id string) op {
			return func(g *session.Game, s *state.Save) state.Result { return g.L2.EnactDecree(s, id) }
		})},
		{"POST", "level2/events/{id}/resolve", withBody(func(in optionRequest, r *http.Request) op {
			id := r.PathValue("id")
			return func(g *session.Game, s *state.Save) state.Result { return g.L2.ResolveEvent(s, id, in.OptionID) }
		})},
		{"POST", "level2/industries/base", withBody(func(in industryRequest, _ *http.Request) op {
			return func(g *session.Game, s *state.Save) state.Result { return g.L2.ChooseBaseIndustry(s, in.IndustryID) }
		})},
		{"POST", "level2/industries/{id}/activate", withID(func(id string) op {
			return func(g *session.Game, s *state.Save) state.Result { return g.L2.ActivateIndustry(s, id) }
		})},
		{"POST", "level2/projects/{id}/start", withID(func(id string) op {
			return func(g *session.Game, s *state.Save) state.Result { return g.L2.StartProject(s, id) }
		})},
		{"PUT", "level2/advisors", withBody(func(in advisorsRequest, _ *http.Request) op {
			return func(g *session.Game, s *state.Save) state.Result { return g.L2.SetAdvisors(s, in.AdvisorIDs) }
		})},
	}
}

// action runs a bound op against the caller's live session.
func (s *Server) action(bind binder) playerHandler {
	return func(w http.ResponseWriter, r *http.Request, p *persistence.Player) {
		o, err := bind(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		sess, ok := s.open(w, p.ID)
		if !ok {
			return
		}
		g := s.Sessions.Game()
		res := sess.Do(s.now(), func(save *state.Save) state.Result { return o(g, save) })
		writeResult(w, sess, res)
	}
}
