package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexandrarotta/microestado/internal/effects"
	"github.com/alexandrarotta/microestado/internal/entropy"
	"github.com/alexandrarotta/microestado/internal/social"
	"github.com/alexandrarotta/microestado/internal/state"
	"github.com/alexandrarotta/microestado/internal/world"
)

// NewGameInput is everything the player picks before the first tick.
type NewGameInput struct {
	Country  state.Country `json:"country"`
	Leader   state.Leader  `json:"leader"`
	PresetID string        `json:"presetId"`

	// Seed fixes the geography profile. Zero draws one.
	Seed int64 `json:"seed,omitempty"`
}

// startClamp bounds one indicator of a brand new save.
type startClamp struct {
	key    effects.Key
	lo, hi float64
}

var startClamps = []startClamp{
	{effects.Treasury, 80, math.Inf(1)},
	{effects.GDP, 300, math.Inf(1)},
	{effects.Happiness, 30, 80},
	{effects.Stability, 30, 80},
	{effects.InstitutionalTrust, 30, 80},
	{effects.Employment, 30, 80},
	{effects.Energy, 30, 80},
	{effects.Innovation, 30, 80},
	{effects.Inequality, 30, 80},
	{effects.Corruption, 10, 70},
	{effects.Resources, 20, 200},
	{effects.Reputation, 20, 80},
	{effects.EnvironmentalImpact, 20, 80},
}

// NewGame builds the first save of a country.
func (e *Engine) NewGame(in NewGameInput) (*state.Save, error) {
	name := strings.TrimSpace(in.Leader.Name)
	base := strings.TrimSpace(in.Country.BaseName)
	if name == "" || base == "" {
		return nil, fmt.Errorf("new game: country and leader names are required")
	}
	leader := in.Leader
	leader.Name = name
	if leader.RoleSelectionMode == "" {
		leader.RoleSelectionMode = state.RoleManual
	}
	if leader.RoleSelectionMode == state.RoleRandom || leader.RoleID == "" {
		leader.RoleID = e.RandomRole(nil)
		e.fillMandate(&leader)
	}
	if e.cat.Role(leader.RoleID) == nil {
		return nil, fmt.Errorf("new game: unknown role %q", leader.RoleID)
	}

	country := in.Country
	country.BaseName = base
	if formal := social.FormalName(base, e.cat.StateType(country.StateTypeID), country.StateTypeOtherText); formal != "" {
		country.FormalName = formal
	} else {
		country.FormalName = base
	}
	seed := in.Seed
	if seed == 0 {
		seed = int64(e.rand.Float()*math.MaxInt32) + 1
	}
	profile := world.NewProfile(country.Geography, seed)
	country.Geography = profile.Geography

	eco := &e.cat.Economy
	st := eco.StartingState
	now := e.now()
	s := &state.Save{
		Version:         e.cat.Version,
		Country:         country,
		Leader:          leader,
		PresetID:        in.PresetID,
		Level:           1,
		Phase:           1,
		MaxPhaseReached: 1,
		GameOverCauses:  []string{},
		LastTickAt:      now.UnixMilli(),

		Treasury:            st.Treasury,
		GDP:                 st.GDP,
		GrowthPct:           st.GrowthPct,
		Happiness:           st.Happiness,
		Stability:           st.Stability,
		InstitutionalTrust:  st.InstitutionalTrust,
		Corruption:          st.Corruption,
		Resources:           st.Resources,
		Reputation:          st.Reputation,
		Debt:                st.Debt,
		Employment:          st.Employment,
		Energy:              st.Energy,
		Innovation:          st.Innovation,
		Inequality:          st.Inequality,
		EnvironmentalImpact: st.EnvironmentalImpact,
		TourismIndex:        st.TourismIndex,
		TourismCapacity:     st.TourismCapacity,
		TourismPressure:     st.TourismPressure,
		TaxLevel:            st.TaxLevel,
		TaxRatePct:          ResolveTaxRatePct(st.TaxLevel, st.TaxRatePct),
		Budget:              st.Budget,

		EventCooldown: eco.EventCooldownTicks / 2,
		EventHistory:  make(map[string]int),
		DecreeSlots: []state.DecreeSlot{
			{SlotID: 1},
			{SlotID: 2},
		},
	}
	if p := e.cat.Preset(in.PresetID); p != nil {
		s.Budget = p.Budget
		effects.ApplyMap(s, p.Adjustments)
	}
	effects.ApplyMap(s, profile.Adjustments)
	for _, c := range startClamps {
		if f := effects.Field(s, c.key); f != nil {
			*f = clamp(*f, c.lo, c.hi)
		}
	}
	s.BaselineGDP = s.GDP
	s.Normalize()

	e.RebuildProjects(s)
	for i := range e.cat.Projects {
		p := &e.cat.Projects[i]
		if meetsRequirements(p, s) {
			s.Projects[p.ID].Status = state.ProjectAvailable
		}
	}
	s.Touch(now)
	e.publish(s, fmt.Sprintf("%s inaugura %s con un discurso breve.", e.leaderSignature(s), country.FormalName),
		state.NewsSystem, state.SeverityOK)
	return s, nil
}

// Reset rebuilds a save with the same country, leader and preset.
func (e *Engine) Reset(old *state.Save) (*state.Save, error) {
	return e.NewGame(NewGameInput{
		Country:  old.Country,
		Leader:   old.Leader,
		PresetID: old.PresetID,
	})
}

// RandomRole draws a role id by the mandate role weights. Roles without a
// weight count as 1. Overrides may be nil.
func (e *Engine) RandomRole(overrides map[string]float64) string {
	if len(e.cat.Roles) == 0 {
		return ""
	}
	weights := e.cat.Remote.Defaults.With(overrides).MandateRoleWeights
	w := make([]float64, len(e.cat.Roles))
	for i, r := range e.cat.Roles {
		w[i] = 1
		if v, ok := weights[r.ID]; ok {
			w[i] = v
		}
	}
	idx := entropy.WeightedIndex(e.rand, w)
	if idx < 0 {
		idx = 0
	}
	return e.cat.Roles[idx].ID
}

// fillMandate gives a randomly chosen leader a trait and a tagline.
func (e *Engine) fillMandate(l *state.Leader) {
	d := e.cat.Remote.Defaults
	if l.Trait == "" && len(d.MandateTraits) > 0 {
		l.Trait = d.MandateTraits[entropy.Between(e.rand, 0, len(d.MandateTraits)-1)]
	}
	if l.Tagline == "" && len(d.MandateTaglines) > 0 {
		l.Tagline = d.MandateTaglines[entropy.Between(e.rand, 0, len(d.MandateTaglines)-1)]
	}
	l.RoleSelectionMode = state.RoleRandom
}
