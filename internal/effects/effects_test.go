package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandrarotta/microestado/internal/state"
)

func newSave() *state.Save {
	s := &state.Save{
		Treasury:           100,
		GDP:                500,
		Happiness:          50,
		Stability:          50,
		InstitutionalTrust: 50,
		Corruption:         20,
		Resources:          80,
	}
	s.Normalize()
	return s
}

func TestParse_Aliases(t *testing.T) {
	cases := map[string]Key{
		"treasury":           Treasury,
		"trustDelta":         InstitutionalTrust,
		"adminCapacity":      Admin,
		"jobs":               Employment,
		"water":              Resources,
		"envFootprint":       EnvironmentalImpact,
		"environmentalDelta": EnvironmentalImpact,
	}
	for name, want := range cases {
		got, ok := Parse(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := Parse("morale")
	assert.False(t, ok)
}

func TestNormalize_SumsAliases(t *testing.T) {
	set, unknown := Normalize(Map{"jobs": 2, "employment": 3, "bogus": 1})
	assert.Equal(t, []string{"bogus"}, unknown)
	assert.InDelta(t, 5, set[Employment], 1e-9)
}

func TestApply_Clamps(t *testing.T) {
	s := newSave()
	ApplyMap(s, Map{
		"treasury":   -1000,
		"gdp":        -10000,
		"happiness":  80,
		"stability":  -90,
		"growthPct":  50,
		"resources":  500,
		"unknownKey": 3,
	})
	assert.Equal(t, 0.0, s.Treasury)
	assert.Equal(t, 1.0, s.GDP)
	assert.Equal(t, 100.0, s.Happiness)
	assert.Equal(t, 0.0, s.Stability)
	assert.Equal(t, 12.0, s.GrowthPct)
	assert.Equal(t, 200.0, s.Resources)
}

func TestApply_FlagsAreOneWay(t *testing.T) {
	s := newSave()
	ApplyMap(s, Map{"adminUnlocked": 1, "agencyRevenue": 1, "treatiesUnlocked": 1})
	assert.True(t, s.AdminUnlocked)
	assert.True(t, s.Agencies.Revenue)
	assert.True(t, s.Treaties)

	ApplyMap(s, Map{"adminUnlocked": -1})
	assert.True(t, s.AdminUnlocked)
}

func TestApply_OfflineBonusKeepsMax(t *testing.T) {
	s := newSave()
	ApplyMap(s, Map{"offlineIncomeBonus": 0.5})
	ApplyMap(s, Map{"offlineIncomeBonus": 0.2})
	assert.Equal(t, 0.5, s.OfflineRewardMultiplier)
}

func TestApply_InflationRegimeChangePublishesOnce(t *testing.T) {
	s := newSave()
	s.Level2 = state.NewLevel2()
	s.Level2.Macro.InflationPct = 0.45

	ApplyMap(s, Map{"inflationPct": 0.1})

	assert.InDelta(t, 0.55, s.Level2.Macro.InflationPct, 1e-9)
	assert.Equal(t, state.RegimeHigh, s.Level2.Macro.Regime)
	require.Len(t, s.News, 1)
	assert.Equal(t, "Inflacion cambia a regimen high.", s.News[0].Text)

	ApplyMap(s, Map{"inflationPct": 0.1})
	assert.Len(t, s.News, 1)
}

func TestApply_InflationClamped(t *testing.T) {
	s := newSave()
	s.Level2 = state.NewLevel2()
	ApplyMap(s, Map{"inflationPct": 50})
	assert.Equal(t, state.InflationMax, s.Level2.Macro.InflationPct)
	ApplyMap(s, Map{"inflationPct": -50})
	assert.Equal(t, state.InflationMin, s.Level2.Macro.InflationPct)
}

func TestApply_InflationIgnoredOnLevelOne(t *testing.T) {
	s := newSave()
	ApplyMap(s, Map{"inflationPct": 1})
	assert.Nil(t, s.Level2)
	assert.Empty(t, s.News)
}

func TestAmplifyNegative(t *testing.T) {
	set := Set{Happiness: -10, Treasury: 20}.AmplifyNegative(1.5)
	assert.InDelta(t, -15, set[Happiness], 1e-9)
	assert.InDelta(t, 20, set[Treasury], 1e-9)
}

func TestStat(t *testing.T) {
	s := newSave()
	v, ok := Stat(s, "trust")
	require.True(t, ok)
	assert.Equal(t, 50.0, v)

	_, ok = Stat(s, "inflationPct")
	assert.False(t, ok)

	_, ok = Stat(s, "adminUnlocked")
	assert.False(t, ok)
}

func TestSummary(t *testing.T) {
	set, _ := Normalize(Map{
		"institutionalTrust": 4,
		"treasury":           -60,
		"inflationPct":       -0.3,
		"growthPct":          0.3,
		"jobs":               2.5,
	})
	assert.Equal(t, "Tesoro -60, Inflacion -0.3, Confianza +4, Empleo +3", Summary(set))
	assert.Equal(t, "", Summary(Set{AdminUnlocked: 1}))
}
