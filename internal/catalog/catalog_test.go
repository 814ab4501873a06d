package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandrarotta/microestado/internal/state"
)

func TestDefaultLoads(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)

	assert.Len(t, b.Version, 16)
	assert.Len(t, b.Digests, len(Files))
	for _, name := range Files {
		assert.Len(t, b.Digests[name], 64, name)
	}

	assert.NotEmpty(t, b.Roles)
	assert.NotEmpty(t, b.Projects)
	assert.NotEmpty(t, b.Events)
	assert.NotEmpty(t, b.Economy.Decrees)
	assert.NotEmpty(t, b.L2Industries)
	assert.NotEmpty(t, b.L2Projects)
	assert.NotEmpty(t, b.L2Events)
	assert.NotEmpty(t, b.L2Decrees.Democracy)
	assert.NotEmpty(t, b.Advisors)
	assert.Equal(t, []int{1, 2, 3, 4}, b.ProjectPhases())
}

func TestLookups(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)

	require.NotNil(t, b.Role("PRESIDENT"))
	assert.Equal(t, "Presidenta", b.Role("PRESIDENT").Labels.Female)
	assert.Nil(t, b.Role("EMPEROR"))

	require.NotNil(t, b.Project("P2_AUDIT_OFFICE"))
	require.NotNil(t, b.Decree("D1_AUSTERITY"))
	require.NotNil(t, b.Industry("EXTRACTION"))
	require.NotNil(t, b.Preset("BALANCED"))
	require.NotNil(t, b.StateType("REPUBLIC"))
	require.NotNil(t, b.L2Industry("LOGISTICS_HUB"))
	require.NotNil(t, b.L2Project("L2_CENTRAL_BANK_REFORM"))
	assert.True(t, b.L2Project("L2_CENTRAL_BANK_REFORM").Requirements.RequiresCentralBankAction)
	require.NotNil(t, b.Advisor("ADV_CENTRAL_BANK"))

	ev := b.Event("EVT_TRADE_SANCTIONS")
	require.NotNil(t, ev)
	assert.Equal(t, 240, ev.CooldownTicks)
	assert.True(t, ev.HasTag("sanction"))
	assert.NotNil(t, ev.Option("LOBBY"))
	assert.Nil(t, ev.Option("NOPE"))
}

func TestWhenConditionsAreCompiled(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)

	ev := b.Event("EVT_TECH_INVESTOR")
	require.NotNil(t, ev)
	require.NotNil(t, ev.Conditions)
	assert.NotNil(t, ev.Conditions.WhenProgram())

	opt := ev.Option("STRICT_TERMS")
	require.NotNil(t, opt)
	require.Len(t, opt.Modifiers, 1)
	assert.NotNil(t, opt.Modifiers[0].WhenProgram())
}

func TestPresetBudgetsSumTo100(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)
	for _, p := range b.PolicyPresets {
		assert.InDelta(t, 100, p.Budget.Sum(), 0.5, p.ID)
	}
}

func TestBudgetFieldsDecodeFromYAML(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)

	ind := b.Preset("INDUSTRIAL")
	require.NotNil(t, ind)
	assert.Equal(t, state.Budget{IndustryPct: 55, WelfarePct: 25, SecurityDiplomacyPct: 20}, ind.Budget)

	start := b.Economy.StartingState.Budget
	assert.Equal(t, state.Budget{IndustryPct: 34, WelfarePct: 33, SecurityDiplomacyPct: 33}, start)
}

func writeOverride(t *testing.T, name, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	return dir
}

func TestLoadDirOverlay(t *testing.T) {
	dir := writeOverride(t, "industries.yaml", `industries:
- id: AGRICULTURE
  label: Campo
  incomeMult: 1.5
`)
	b, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, b.Industries, 1)
	assert.Equal(t, "Campo", b.Industries[0].Label)
	assert.NotEmpty(t, b.Roles)

	def, err := Default()
	require.NoError(t, err)
	assert.NotEqual(t, def.Version, b.Version)
	assert.Equal(t, def.Digests["roles.yaml"], b.Digests["roles.yaml"])
}

func TestLoadDirMissing(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestInvalidCatalogs(t *testing.T) {
	cases := []struct {
		name string
		file string
		body string
	}{
		{
			name: "unknown effect key",
			file: "events.yaml",
			body: `events:
- id: EVT_X
  title: X
  tags: [crisis]
  options:
  - id: A
    text: A
    effects: {happines: 3}
`,
		},
		{
			name: "dangling follow-up",
			file: "events.yaml",
			body: `events:
- id: EVT_X
  title: X
  tags: [crisis]
  options:
  - id: A
    text: A
    effects: {happiness: 3}
    followUpEventId: EVT_MISSING
`,
		},
		{
			name: "bad condition expression",
			file: "events.yaml",
			body: `events:
- id: EVT_X
  title: X
  tags: [crisis]
  conditions:
    when: stats.happiness + 
  options:
  - id: A
    text: A
    effects: {happiness: 3}
`,
		},
		{
			name: "non-bool condition",
			file: "events.yaml",
			body: `events:
- id: EVT_X
  title: X
  tags: [crisis]
  conditions:
    when: stats.happiness
  options:
  - id: A
    text: A
    effects: {happiness: 3}
`,
		},
		{
			name: "schema violation",
			file: "events.yaml",
			body: `events:
- id: lowercase-id
  title: X
  tags: [crisis]
  options:
  - id: A
    text: A
    effects: {happiness: 3}
`,
		},
		{
			name: "duplicate role",
			file: "roles.yaml",
			body: `roles:
- id: PRESIDENT
  labels: {male: A, female: B, neutral: C}
- id: PRESIDENT
  labels: {male: A, female: B, neutral: C}
`,
		},
		{
			name: "unbalanced preset",
			file: "presets.yaml",
			body: `policyPresets:
- id: BROKEN
  name: Roto
  budget: {industryPct: 50, welfarePct: 50, securityDiplomacyPct: 50}
stateTypes:
- {id: REPUBLIC, label: Republica, prefix: "Republica de "}
`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeOverride(t, tc.file, tc.body)
			_, err := LoadDir(dir)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestRemoteWith(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)

	base := b.Remote.Defaults
	got := base.With(map[string]float64{
		"tax_elasticity":                     0.3,
		"crisis_thresholds.stability":        25,
		"project_cost_multiplier_by_phase.2": 2,
		"no_such_key":                        9,
	})
	assert.Equal(t, 0.3, got.TaxElasticity)
	assert.Equal(t, 25.0, got.CrisisThresholds.Stability)
	assert.Equal(t, 2.0, got.ProjectCostMultiplier(2))
	assert.Equal(t, 1.1, base.ProjectCostMultiplier(2))
	assert.Equal(t, 1.0, base.ProjectCostMultiplier(9))
	assert.Equal(t, base.HappinessTaxPenalty, got.HappinessTaxPenalty)
}
