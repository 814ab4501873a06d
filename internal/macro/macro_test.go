package macro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandrarotta/microestado/internal/catalog"
	"github.com/alexandrarotta/microestado/internal/entropy"
	"github.com/alexandrarotta/microestado/internal/state"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, rolls ...float64) *Engine {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	if len(rolls) == 0 {
		rolls = []float64{0.99}
	}
	return New(cat, entropy.NewSequence(rolls...)).WithClock(func() time.Time { return testNow })
}

func newLevel2Save(t *testing.T, e *Engine, roleID string) *state.Save {
	t.Helper()
	s := &state.Save{
		Country:            state.Country{BaseName: "Prueba", FormalName: "Republica de Prueba"},
		Leader:             state.Leader{Name: "Ana", RoleID: roleID},
		Phase:              4,
		Level1Complete:     true,
		Treasury:           500,
		GDP:                1000,
		Happiness:          50,
		Stability:          50,
		InstitutionalTrust: 50,
		Corruption:         20,
		Reputation:         50,
	}
	s.Normalize()
	require.True(t, e.ContinueToLevel2(s).OK)
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

func TestContinueToLevel2(t *testing.T) {
	e := newTestEngine(t)

	s := &state.Save{Phase: 2}
	s.Normalize()
	r := e.ContinueToLevel2(s)
	assert.Equal(t, "Level 1 not complete", r.Error)
	assert.Equal(t, 400, r.HTTPStatus())
	assert.Equal(t, 1, s.Level)

	s = newLevel2Save(t, e, "PRESIDENT")
	assert.Equal(t, 2, s.Level)
	require.NotNil(t, s.Level2)
	assert.Equal(t, state.InitialInflationPct, s.Level2.Macro.InflationPct)
	assert.Equal(t, state.RegimeStable, s.Level2.Macro.Regime)
	assert.Len(t, s.Level2.Projects, len(e.cat.L2Projects))
	assert.Equal(t, state.ProjectAvailable, s.Level2.Projects["L2_DIGITAL_GOV"].Status)
	assert.Equal(t, state.ProjectLocked, s.Level2.Projects["L2_CIVIC_DATA"].Status)

	s.Level2.Macro.InflationPct = 1.5
	require.True(t, e.ContinueToLevel2(s).OK)
	assert.Equal(t, 1.5, s.Level2.Macro.InflationPct)
}

func TestLevel2ActionsRequireLevel2(t *testing.T) {
	e := newTestEngine(t)
	s := &state.Save{}
	s.Normalize()

	for _, r := range []state.Result{
		e.RunElection(s),
		e.EnactDecree(s, "DEC_TRANSPARENCY"),
		e.RunCentralBank(s, RaiseRate),
		e.StartProject(s, "L2_DIGITAL_GOV"),
		e.ResolveEvent(s, "x", "y"),
	} {
		assert.Equal(t, "Level 2 not active", r.Error)
	}
	assert.True(t, e.Tick(s, TickOptions{}).Skipped)
}

func TestTickIncome(t *testing.T) {
	e := newTestEngine(t)
	s := newLevel2Save(t, e, "PRESIDENT")

	rep := e.Tick(s, TickOptions{SuppressEvents: true})
	assert.False(t, rep.Skipped)
	assert.Equal(t, 1, s.TickCount)
	assert.InDelta(t, 20, rep.NetIncome, 1e-9)
	assert.InDelta(t, 520, s.Treasury, 1e-9)
	assert.Equal(t, state.RegimeStable, rep.Regime)
	assert.Equal(t, testNow.UnixMilli(), s.LastTickAt)
	assert.Zero(t, s.Debt)
}

func TestTickDeflationDrag(t *testing.T) {
	e := newTestEngine(t)
	s := newLevel2Save(t, e, "PRESIDENT")
	s.Level2.Macro.InflationPct = -0.5
	s.Level2.Macro.Regime = state.RegimeDeflation

	rep := e.Tick(s, TickOptions{SuppressEvents: true})
	assert.InDelta(t, 19, rep.NetIncome, 1e-9)
	assert.InDelta(t, 49.9, s.InstitutionalTrust, 1e-9)
}

func TestTickHyperinflationPenalty(t *testing.T) {
	e := newTestEngine(t)
	s := newLevel2Save(t, e, "PRESIDENT")
	s.Level2.Macro.InflationPct = 3
	s.Level2.Macro.Regime = state.RegimeHyper

	rep := e.Tick(s, TickOptions{SuppressEvents: true})
	assert.InDelta(t, 49.7, s.Happiness, 1e-9)
	assert.Less(t, rep.EffectiveGrowth, 0.0)
	assert.Less(t, s.GDP, 1000.0)
}

func TestTickSkipsGameOver(t *testing.T) {
	e := newTestEngine(t)
	s := newLevel2Save(t, e, "PRESIDENT")
	s.Level2.GameOver = true

	rep := e.Tick(s, TickOptions{})
	assert.True(t, rep.Skipped)
	assert.True(t, rep.GameOver)
	assert.Equal(t, 0, s.TickCount)
}

func TestCentralBank(t *testing.T) {
	e := newTestEngine(t)
	s := newLevel2Save(t, e, "PRESIDENT")
	cb := &s.Level2.Macro.CentralBank

	require.True(t, e.RunCentralBank(s, RaiseRate).OK)
	assert.InDelta(t, -0.2, s.Level2.Macro.InflationPct, 1e-9)
	assert.Equal(t, state.RegimeDeflation, s.Level2.Macro.Regime)
	assert.Equal(t, CentralBankCooldownTicks, cb.CooldownUntilTick)
	assert.Equal(t, CentralBankEffectTicks, cb.EffectUntilTick)
	assert.Equal(t, -0.4, cb.GrowthEffectPct)
	assert.True(t, cb.HasActed())
	assert.Equal(t, 1, countNews(s, "Banco Central: sube tasa de referencia."))
	assert.Equal(t, 1, countNews(s, "Inflacion cambia a regimen deflation."))

	r := e.RunCentralBank(s, LowerRate)
	assert.Equal(t, "Cooldown active", r.Error)
	assert.Equal(t, CentralBankCooldownTicks, r.CooldownUntil)

	assert.Equal(t, "Unknown action", e.RunCentralBank(s, "PRINT").Error)

	s.TickCount = CentralBankCooldownTicks
	require.True(t, e.RunCentralBank(s, Intervene).OK)
	assert.InDelta(t, 420, s.Treasury, 1e-9)
	assert.InDelta(t, -0.8, s.Level2.Macro.InflationPct, 1e-9)
	assert.Zero(t, cb.EffectUntilTick)
	assert.Zero(t, cb.GrowthEffectPct)
	assert.Equal(t, 2, cb.Actions)
}

func TestCentralBankEffectExpires(t *testing.T) {
	e := newTestEngine(t)
	s := newLevel2Save(t, e, "PRESIDENT")
	require.True(t, e.RunCentralBank(s, RaiseRate).OK)

	s.TickCount = CentralBankEffectTicks
	e.Tick(s, TickOptions{SuppressEvents: true})
	assert.Zero(t, s.Level2.Macro.CentralBank.GrowthEffectPct)
}

func TestElectionWin(t *testing.T) {
	e := newTestEngine(t, 0)
	s := newLevel2Save(t, e, "PRESIDENT")

	r := e.RunElection(s)
	require.True(t, r.OK)
	require.NotNil(t, r.Win)
	assert.True(t, *r.Win)
	assert.Equal(t, narrativeWin, r.Narrative)
	assert.InDelta(t, 400, s.Treasury, 1e-9)
	assert.Equal(t, 55.0, s.Reputation)
	assert.Equal(t, 55.0, s.InstitutionalTrust)
	assert.True(t, s.HasMedal(MedalReelection))
	assert.False(t, s.Level2.GameOver)

	r = e.RunElection(s)
	assert.Equal(t, "Cooldown active", r.Error)
	assert.Equal(t, ElectionCooldownTicks, r.CooldownUntil)
}

func TestElectionLoss(t *testing.T) {
	e := newTestEngine(t, 0.99)
	s := newLevel2Save(t, e, "PRESIDENT")
	s.Treasury = 40

	r := e.RunElection(s)
	require.True(t, r.OK)
	assert.False(t, *r.Win)
	assert.Zero(t, s.Treasury)
	assert.True(t, s.Level2.GameOver)
	assert.Equal(t, "Derrota electoral", s.Level2.GameOverReason)
	assert.Equal(t, "Game over", e.RunElection(s).Error)
}

func TestWinChanceBounds(t *testing.T) {
	s := &state.Save{Corruption: 100}
	assert.Equal(t, minWinChance, WinChance(s))
	s = &state.Save{Happiness: 100, Stability: 100, InstitutionalTrust: 100, Reputation: 100}
	assert.Equal(t, maxWinChance, WinChance(s))
}

func TestElectionRequiresDemocracy(t *testing.T) {
	e := newTestEngine(t)
	s := newLevel2Save(t, e, "DICTATOR")

	r := e.RunElection(s)
	assert.Equal(t, 403, r.HTTPStatus())
	assert.Equal(t, "Regime not democratic", r.Error)
	assert.InDelta(t, 500, s.Treasury, 1e-9)
}

func TestEnactDecree(t *testing.T) {
	e := newTestEngine(t)
	s := newLevel2Save(t, e, "PRESIDENT")
	s.Treasury = 200
	s.TickCount = 10

	r := e.EnactDecree(s, "DEC_TRANSPARENCY")
	require.True(t, r.OK)
	assert.Equal(t, "Se abren contratos y licitaciones al publico.", r.Summary)
	assert.InDelta(t, 140, s.Treasury, 1e-9)
	assert.Equal(t, 10.0, s.Corruption)
	assert.Equal(t, 210, s.Level2.Decrees.CooldownUntilByID["DEC_TRANSPARENCY"])
	require.Len(t, s.Level2.Decrees.History, 1)
	assert.Equal(t, 10, s.Level2.Decrees.History[0].EnactedTick)
	assert.Equal(t, 1, countNews(s, "DECRETO: Transparencia - Se abren contratos y licitaciones al publico."))

	r = e.EnactDecree(s, "DEC_TRANSPARENCY")
	assert.Equal(t, "Cooldown active", r.Error)
	assert.Equal(t, 210, r.CooldownUntil)
}

func TestEnactDecreeChecks(t *testing.T) {
	e := newTestEngine(t)
	s := newLevel2Save(t, e, "PRESIDENT")

	r := e.EnactDecree(s, "DEC_CURFEW")
	assert.Equal(t, 404, r.HTTPStatus())
	assert.Equal(t, "Decree not found", r.Error)

	assert.Equal(t, "Phase locked", e.EnactDecree(s, "DEC_DIGITALIZATION").Error)

	s.Treasury = 10
	assert.Equal(t, "Insufficient resources", e.EnactDecree(s, "DEC_SOCIAL_PACT").Error)
	assert.Empty(t, s.Level2.Decrees.History)
}

func TestDecreeCallsElections(t *testing.T) {
	e := newTestEngine(t, 0.99)
	s := newLevel2Save(t, e, "PRESIDENT")

	r := e.EnactDecree(s, "DEC_CALL_ELECTIONS")
	require.True(t, r.OK)
	require.NotNil(t, r.Win)
	assert.False(t, *r.Win)
	assert.InDelta(t, 400, s.Treasury, 1e-9)
	assert.True(t, s.Level2.GameOver)
	assert.Equal(t, 600, s.Level2.Decrees.CooldownUntilByID["DEC_CALL_ELECTIONS"])
}

func TestDecreesFollowRegime(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, e.cat.L2Decrees.Democracy, e.DecreesFor("PRESIDENT"))
	assert.Equal(t, e.cat.L2Decrees.Authoritarian, e.DecreesFor("DICTATOR"))
	assert.Equal(t, e.cat.L2Decrees.Neutral, e.DecreesFor("KING_ABSOLUTE"))
}

func TestEventTriggerAndResolve(t *testing.T) {
	e := newTestEngine(t, 0)
	s := newLevel2Save(t, e, "PRESIDENT")

	require.True(t, e.MaybeTriggerEvent(s))
	pending := s.Level2.Events.Pending
	require.NotNil(t, pending)
	assert.Equal(t, "L2_CORRUPTION_SCANDAL", pending.EventID)
	assert.Len(t, pending.Options, 3)
	assert.Equal(t, 10, s.Level2.Events.NextCheckTick)
	assert.Equal(t, 1, countNews(s, "EVENTO: Escandalo de corrupcion - Se requiere decision."))

	assert.False(t, e.MaybeTriggerEvent(s))

	assert.Equal(t, "Event mismatch", e.ResolveEvent(s, "l2evt_other", "INVESTIGATE").Error)
	assert.Equal(t, "Option not found", e.ResolveEvent(s, pending.InstanceID, "NOPE").Error)

	r := e.ResolveEvent(s, pending.InstanceID, "INVESTIGATE")
	require.True(t, r.OK)
	want := "Se abren sumarios con aplausos tibios. (Tesoro -40, Estabilidad -1, Confianza +3, Corrupcion -6)."
	assert.Equal(t, want, r.Summary)
	assert.InDelta(t, 460, s.Treasury, 1e-9)
	assert.Equal(t, 14.0, s.Corruption)
	assert.Nil(t, s.Level2.Events.Pending)
	require.Len(t, s.Level2.Events.History, 1)
	assert.Equal(t, "INVESTIGATE", s.Level2.Events.History[0].ChosenOptionID)
	assert.Equal(t, 1, countNews(s, "EVENTO: Escandalo de corrupcion. Decision: Investigar. Resultado: "+want))

	assert.Equal(t, "No pending event", e.ResolveEvent(s, pending.InstanceID, "INVESTIGATE").Error)
}

func TestEventCheckWaitsForNextTick(t *testing.T) {
	e := newTestEngine(t, 0)
	s := newLevel2Save(t, e, "PRESIDENT")
	s.Level2.Events.NextCheckTick = 5

	assert.False(t, e.MaybeTriggerEvent(s))
	assert.Nil(t, s.Level2.Events.Pending)
}

func TestTickTriggersEvent(t *testing.T) {
	e := newTestEngine(t, 0)
	s := newLevel2Save(t, e, "PRESIDENT")

	rep := e.Tick(s, TickOptions{})
	require.NotNil(t, s.Level2.Events.Pending)
	assert.Equal(t, s.Level2.Events.Pending.InstanceID, rep.EventInstanceID)
}

func TestProjects(t *testing.T) {
	e := newTestEngine(t)
	s := newLevel2Save(t, e, "PRESIDENT")

	assert.Equal(t, "Project not found", e.StartProject(s, "NOPE").Error)
	assert.Equal(t, "Project not available", e.StartProject(s, "L2_CIVIC_DATA").Error)

	require.True(t, e.StartProject(s, "L2_DIGITAL_GOV").OK)
	assert.InDelta(t, 340, s.Treasury, 1e-9)
	ps := s.Level2.Projects["L2_DIGITAL_GOV"]
	assert.Equal(t, state.ProjectInProgress, ps.Status)
	assert.Equal(t, 1, countNews(s, "Nivel 2 inicia: Gobierno digital."))
	assert.Equal(t, "Project not available", e.StartProject(s, "L2_DIGITAL_GOV").Error)

	for range 24 {
		e.Tick(s, TickOptions{SuppressEvents: true})
	}
	assert.Equal(t, state.ProjectCompleted, ps.Status)
	assert.Equal(t, 1, countNews(s, "Nivel 2 completa: Gobierno digital."))
}

func TestProjectNeedsTreasury(t *testing.T) {
	e := newTestEngine(t)
	s := newLevel2Save(t, e, "PRESIDENT")
	s.Treasury = 10

	assert.Equal(t, "Insufficient treasury", e.StartProject(s, "L2_DIGITAL_GOV").Error)
	assert.Equal(t, state.ProjectAvailable, s.Level2.Projects["L2_DIGITAL_GOV"].Status)
}

func TestAdvisorsUnlockProjects(t *testing.T) {
	e := newTestEngine(t)
	s := newLevel2Save(t, e, "PRESIDENT")

	r := e.SetAdvisors(s, []string{"ADV_ROYAL_COUNCIL"})
	assert.Equal(t, 403, r.HTTPStatus())
	assert.Equal(t, 404, e.SetAdvisors(s, []string{"ADV_NOBODY"}).HTTPStatus())

	require.True(t, e.SetAdvisors(s, []string{"ADV_OPPOSITION", "ADV_OPPOSITION"}).OK)
	assert.Equal(t, []string{"ADV_OPPOSITION"}, s.Level2.Advisors)
	assert.Equal(t, state.ProjectAvailable, s.Level2.Projects["L2_CIVIC_DATA"].Status)

	for _, a := range e.Cabinet("KING_ABSOLUTE") {
		assert.Equal(t, catalog.AdvisorGroupMonarchy, a.Group)
	}
}

func TestPhaseAdvancesWithProjects(t *testing.T) {
	e := newTestEngine(t)
	s := newLevel2Save(t, e, "PRESIDENT")

	n := 0
	for _, ps := range s.Level2.Projects {
		if n == 3 {
			break
		}
		ps.Status = state.ProjectCompleted
		n++
	}
	rep := e.Tick(s, TickOptions{SuppressEvents: true})
	assert.Equal(t, 2, rep.Phase)
	assert.False(t, rep.Complete)

	for _, ps := range s.Level2.Projects {
		ps.Status = state.ProjectCompleted
	}
	rep = e.Tick(s, TickOptions{SuppressEvents: true})
	assert.Equal(t, 4, rep.Phase)
	assert.True(t, s.Level2.Complete)
}

func TestIndustries(t *testing.T) {
	e := newTestEngine(t)
	s := newLevel2Save(t, e, "PRESIDENT")

	assert.Equal(t, "Industry locked", e.ChooseBaseIndustry(s, "RENEWABLE_ENERGY").Error)

	require.True(t, e.ChooseBaseIndustry(s, "AGRO_EXPORT").OK)
	assert.InDelta(t, 500-5*CapexCostMultiplier, s.Treasury, 1e-9)
	assert.Equal(t, "AGRO_EXPORT", s.Level2.Industries.ChosenBaseIndustryID)
	assert.True(t, s.Level2.Industries.IsActive("AGRO_EXPORT"))
	assert.Equal(t, 1, countNews(s, "Base industrial L2: "+e.cat.L2Industry("AGRO_EXPORT").Name+"."))
	assert.Equal(t, "Base industry already chosen", e.ChooseBaseIndustry(s, "BLUE_ECONOMY").Error)

	require.True(t, e.ActivateIndustry(s, "BLUE_ECONOMY").OK)
	assert.Equal(t, "Industry already active", e.ActivateIndustry(s, "BLUE_ECONOMY").Error)

	tags := e.ActiveTags(s.Level2)
	assert.True(t, tags["agro"])
	assert.True(t, tags["ocean"])
	assert.False(t, tags["software"])
}
