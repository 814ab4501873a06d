package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandrarotta/microestado/internal/catalog"
	"github.com/alexandrarotta/microestado/internal/entropy"
	"github.com/alexandrarotta/microestado/internal/state"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	// 0.99 never wins an event roll.
	return New(cat, entropy.NewSequence(0.99)).WithClock(func() time.Time { return testNow })
}

func newTestSave(t *testing.T, e *Engine) *state.Save {
	t.Helper()
	s, err := e.NewGame(NewGameInput{
		Country:  state.Country{BaseName: " Valle Alto ", StateTypeID: "REPUBLIC", Geography: "coastal"},
		Leader:   state.Leader{Name: "Ana", Gender: state.GenderFemale, RoleID: "PRESIDENT"},
		PresetID: "BALANCED",
		Seed:     42,
	})
	require.NoError(t, err)
	return s
}

func countNews(s *state.Save, text string) int {
	n := 0
	for _, item := range s.News {
		if item.Text == text {
			n++
		}
	}
	return n
}

func TestNewGame(t *testing.T) {
	e := newTestEngine(t)
	s := newTestSave(t, e)

	assert.Equal(t, "Republica de Valle Alto", s.Country.FormalName)
	assert.Equal(t, "coastal", s.Country.Geography)
	assert.Equal(t, state.RoleManual, s.Leader.RoleSelectionMode)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 1, s.Phase)
	assert.Len(t, s.DecreeSlots, state.DecreeSlotCount)
	assert.Equal(t, e.Catalog().Economy.EventCooldownTicks/2, s.EventCooldown)
	assert.Equal(t, testNow.UnixMilli(), s.LastTickAt)
	assert.Equal(t, s.GDP, s.BaselineGDP)

	assert.GreaterOrEqual(t, s.Treasury, 80.0)
	assert.GreaterOrEqual(t, s.GDP, 300.0)
	for _, v := range []float64{s.Happiness, s.Stability, s.InstitutionalTrust, s.Employment, s.Energy, s.Innovation, s.Inequality} {
		assert.GreaterOrEqual(t, v, 30.0)
		assert.LessOrEqual(t, v, 80.0)
	}

	assert.Len(t, s.Projects, len(e.Catalog().Projects))
	assert.Equal(t, state.ProjectAvailable, s.Projects["P1_RURAL_ROADS"].Status)
	assert.Equal(t, state.ProjectLocked, s.Projects["P2_AUDIT_OFFICE"].Status)

	require.Len(t, s.News, 1)
	assert.Equal(t, "Presidenta Ana inaugura Republica de Valle Alto con un discurso breve.", s.News[0].Text)
}

func TestNewGameRequiresNames(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.NewGame(NewGameInput{
		Country: state.Country{BaseName: "  "},
		Leader:  state.Leader{Name: "Ana", RoleID: "PRESIDENT"},
	})
	assert.Error(t, err)
}

func TestNewGameRandomRole(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	// A zero roll lands on the first role with weight.
	e := New(cat, entropy.NewSequence(0)).WithClock(func() time.Time { return testNow })

	s, err := e.NewGame(NewGameInput{
		Country: state.Country{BaseName: "Norte"},
		Leader:  state.Leader{Name: "Leo", RoleSelectionMode: state.RoleRandom},
		Seed:    7,
	})
	require.NoError(t, err)
	assert.Equal(t, "PRESIDENT", s.Leader.RoleID)
	assert.Equal(t, state.RoleRandom, s.Leader.RoleSelectionMode)
	assert.NotEmpty(t, s.Leader.Trait)
	assert.NotEmpty(t, s.Leader.Tagline)
	assert.Equal(t, "Norte", s.Country.FormalName)
}

func TestRandomRoleSkipsZeroWeights(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	e := New(cat, entropy.NewSequence(0.01))

	overrides := map[string]float64{"mandate_role_weights.PRESIDENT": 0}
	assert.Equal(t, "PRIME_MINISTER", e.RandomRole(overrides))
}

func TestResetKeepsIdentity(t *testing.T) {
	e := newTestEngine(t)
	s := newTestSave(t, e)
	s.Treasury = 5
	s.TickCount = 900

	fresh, err := e.Reset(s)
	require.NoError(t, err)
	assert.Equal(t, s.Country.FormalName, fresh.Country.FormalName)
	assert.Equal(t, "Ana", fresh.Leader.Name)
	assert.Equal(t, 0, fresh.TickCount)
	assert.GreaterOrEqual(t, fresh.Treasury, 80.0)
}

func TestTickKeepsIndicatorsInRange(t *testing.T) {
	e := newTestEngine(t)
	s := newTestSave(t, e)
	s.Happiness = 150
	s.Corruption = -20
	s.EnvironmentalImpact = 500
	s.GrowthPct = 50
	s.Resources = 900

	rep := e.Tick(s, TickOptions{SuppressEvents: true})
	assert.False(t, rep.Skipped)
	assert.Equal(t, 1, s.TickCount)

	for name, v := range map[string]float64{
		"happiness":           s.Happiness,
		"stability":           s.Stability,
		"institutionalTrust":  s.InstitutionalTrust,
		"corruption":          s.Corruption,
		"reputation":          s.Reputation,
		"employment":          s.Employment,
		"energy":              s.Energy,
		"innovation":          s.Innovation,
		"inequality":          s.Inequality,
		"environmentalImpact": s.EnvironmentalImpact,
	} {
		assert.GreaterOrEqual(t, v, 0.0, name)
		assert.LessOrEqual(t, v, 100.0, name)
	}
	assert.LessOrEqual(t, s.GrowthPct, 12.0)
	assert.LessOrEqual(t, s.Resources, 200.0)
	assert.GreaterOrEqual(t, s.Treasury, 0.0)
	assert.GreaterOrEqual(t, s.GDP, 1.0)
}

func TestTickSkipsFinishedSaves(t *testing.T) {
	e := newTestEngine(t)
	s := newTestSave(t, e)
	s.GameOver = true
	treasury := s.Treasury

	rep := e.Tick(s, TickOptions{})
	assert.True(t, rep.Skipped)
	assert.Equal(t, 0, s.TickCount)
	assert.Equal(t, treasury, s.Treasury)

	s.GameOver = false
	s.Level = 2
	assert.True(t, e.Tick(s, TickOptions{}).Skipped)
}

func TestTickTurnsDeficitIntoDebt(t *testing.T) {
	e := newTestEngine(t)
	s := newTestSave(t, e)
	s.Treasury = 0
	s.Debt = 0
	// A completed project lifts the phase-one revenue floor.
	s.Projects["P1_RURAL_ROADS"].Status = state.ProjectCompleted
	s.TaxRatePct = 0
	s.GDP = 100000

	e.Tick(s, TickOptions{SuppressEvents: true})
	assert.Greater(t, s.Debt, 0.0)
	assert.True(t, s.PlanAnticrisisUnlocked)
	assert.Equal(t, 1, countNews(s, "Se desbloquea el plan anticrisis por tesoro en cero."))
}

func TestOfflineTicks(t *testing.T) {
	e := newTestEngine(t)
	s := newTestSave(t, e)

	s.LastTickAt = testNow.Add(-time.Hour).UnixMilli()
	assert.Equal(t, 720, e.OfflineTicks(s, testNow))

	s.LastTickAt = testNow.Add(-10 * time.Hour).UnixMilli()
	assert.Equal(t, 8*720, e.OfflineTicks(s, testNow))

	s.PremiumTokens = 100
	require.True(t, e.BoostOfflineCap(s).OK)
	assert.Greater(t, e.OfflineTicks(s, testNow), 8*720)

	s.LastTickAt = testNow.Add(time.Minute).UnixMilli()
	assert.Zero(t, e.OfflineTicks(s, testNow))
}

func TestApplyOfflineTicks(t *testing.T) {
	e := newTestEngine(t)
	s := newTestSave(t, e)

	rep := e.ApplyOfflineTicks(s, 10)
	assert.Equal(t, 10, rep.Ticks)
	assert.Equal(t, 10, s.TickCount)
	assert.Empty(t, s.ActiveEventID)

	s.GameOver = true
	assert.Zero(t, e.ApplyOfflineTicks(s, 10).Ticks)
}

func TestApplyOfflineTicksConsumesMultiplier(t *testing.T) {
	e := newTestEngine(t)
	s := newTestSave(t, e)
	s.OfflineRewardMultiplier = 2

	rep := e.ApplyOfflineTicks(s, 5)
	if rep.TreasuryGain > 0 {
		assert.InDelta(t, rep.TreasuryGain, rep.Bonus, 1e-9)
		assert.Zero(t, s.OfflineRewardMultiplier)
	} else {
		assert.Zero(t, rep.Bonus)
	}
}

func TestBudget(t *testing.T) {
	e := newTestEngine(t)
	s := newTestSave(t, e)

	require.True(t, e.UpdateBudget(s, state.AreaIndustry, 60).OK)
	assert.Equal(t, 60.0, s.Budget.IndustryPct)
	assert.InDelta(t, 100, s.Budget.Sum(), 1e-9)

	r := e.UpdateBudget(s, "militaryPct", 10)
	assert.False(t, r.OK)
	assert.Equal(t, "Unknown budget area", r.Error)

	r = e.AutoBalance(s)
	assert.Equal(t, 403, r.HTTPStatus())
	s.Premium.AutoBalanceUnlocked = true
	require.True(t, e.AutoBalance(s).OK)
	assert.InDelta(t, 100, s.Budget.Sum(), 1e-9)

	require.True(t, e.SetTaxRate(s, 140).OK)
	assert.Equal(t, 100.0, s.TaxRatePct)
}

func TestInterventions(t *testing.T) {
	e := newTestEngine(t)
	s := newTestSave(t, e)
	treasury := s.Treasury

	require.True(t, e.RescueTreasury(s).OK)
	assert.Equal(t, treasury+RescueAmount, s.Treasury)

	r := e.UnlockReportClarity(s)
	assert.Equal(t, "Insufficient tokens", r.Error)

	s.PremiumTokens = 100
	require.True(t, e.UnlockReportClarity(s).OK)
	assert.True(t, s.Premium.ReportClarityUnlocked)
	spent := 100 - s.PremiumTokens
	require.True(t, e.UnlockReportClarity(s).OK)
	assert.Equal(t, 100-spent, s.PremiumTokens)

	assert.Equal(t, 404, e.PurchaseOffer(s, "NOPE").HTTPStatus())
	assert.True(t, strings.HasPrefix(s.News[0].Text, "Rescate rapido"))
}
