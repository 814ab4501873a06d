package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alexandrarotta/microestado/internal/autopilot"
	"github.com/alexandrarotta/microestado/internal/engine"
	"github.com/alexandrarotta/microestado/internal/entropy"
	"github.com/alexandrarotta/microestado/internal/session"
	"github.com/alexandrarotta/microestado/internal/state"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0A0A0")).Width(18)
	goodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	badStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4672")).Bold(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a game offline, optionally under the autopilot",
		RunE:  runSimulate,
	}
	f := cmd.Flags()
	f.Int("ticks", 2000, "ticks to run")
	f.Int("every", 5, "ticks between autopilot steps (0 disables the autopilot)")
	f.Uint64("seed", 1, "seed for all simulation randomness")
	f.String("country", "Valle Alto", "country base name")
	f.String("state-type", "REPUBLIC", "state type id")
	f.String("geography", "coastal", "geography")
	f.String("leader", "Ana", "leader name")
	f.String("role", "", "leader role id (empty rolls one)")
	f.String("preset", "BALANCED", "policy preset id")
	f.String("journal", "", "write the autopilot journal to this JSON file")
	f.String("out", "", "write the final save to this JSON file")
	return cmd
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	// Simulated time advances one tick interval per tick.
	now := time.Now().UTC()
	step := time.Duration(cat.Economy.TickMs) * time.Millisecond
	clock := func() time.Time { return now }

	seed := viper.GetUint64("seed")
	game := session.NewGame(cat, entropy.NewSeeded(seed), clock)
	s, err := game.L1.NewGame(engine.NewGameInput{
		Country: state.Country{
			BaseName:    viper.GetString("country"),
			StateTypeID: viper.GetString("state-type"),
			Geography:   viper.GetString("geography"),
		},
		Leader: state.Leader{
			Name:   viper.GetString("leader"),
			Gender: state.GenderPreferNotSay,
			RoleID: viper.GetString("role"),
		},
		PresetID: viper.GetString("preset"),
		Seed:     int64(seed),
	})
	if err != nil {
		return fmt.Errorf("new game: %w", err)
	}

	every := viper.GetInt("every")
	var pilot *autopilot.Pilot
	if every > 0 {
		pilot = autopilot.New(game)
	}

	ticks := viper.GetInt("ticks")
	bar := progressbar.Default(int64(ticks), "simulating")
	ran := 0
	for i := range ticks {
		if session.Over(s) {
			break
		}
		now = now.Add(step)
		game.Tick(s)
		if pilot != nil && i%every == 0 {
			pilot.Step(s)
		}
		ran++
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, report(s, ran, pilot))

	if path := viper.GetString("journal"); path != "" && pilot != nil {
		if err := pilot.Journal().WriteFile(path); err != nil {
			return err
		}
	}
	if path := viper.GetString("out"); path != "" {
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal save: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write save: %w", err)
		}
	}
	return nil
}

func report(s *state.Save, ran int, pilot *autopilot.Pilot) string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + value + "\n")
	}

	name := s.Country.FormalName
	if name == "" {
		name = s.Country.BaseName
	}
	b.WriteString(titleStyle.Render(name) + "\n\n")

	row("ticks run", humanize.Comma(int64(ran)))
	row("level", fmt.Sprintf("%d (phase %d)", s.Level, s.Phase))
	row("treasury", humanize.CommafWithDigits(s.Treasury, 0))
	row("gdp", humanize.CommafWithDigits(s.GDP, 0))
	row("debt", fmt.Sprintf("%s (%.2f of gdp)", humanize.CommafWithDigits(s.Debt, 0), s.DebtRatio()))
	row("happiness", fmt.Sprintf("%.1f", s.Happiness))
	row("stability", fmt.Sprintf("%.1f", s.Stability))
	row("trust", fmt.Sprintf("%.1f", s.InstitutionalTrust))
	row("corruption", fmt.Sprintf("%.1f", s.Corruption))
	if l2 := s.Level2; l2 != nil {
		row("inflation", fmt.Sprintf("%.2f%% %s", l2.Macro.InflationPct, l2.Macro.Regime))
		row("level 2 phase", fmt.Sprint(l2.Phase))
	}
	if len(s.Medals) > 0 {
		row("medals", strings.Join(s.Medals, ", "))
	}

	switch {
	case s.Level2 != nil && s.Level2.GameOver:
		row("outcome", badStyle.Render("game over: "+s.Level2.GameOverReason))
	case s.GameOver:
		row("outcome", badStyle.Render("game over: "+s.GameOverReason))
	default:
		row("outcome", goodStyle.Render("still governing"))
	}

	if pilot != nil {
		j := pilot.Journal()
		row("autopilot", fmt.Sprintf("%d actions, %d rejected", j.Total(), j.Failures))
		if sum := j.Summary(); sum != "" {
			row("", sum)
		}
	}

	if n := min(len(s.News), 5); n > 0 {
		b.WriteString("\n")
		for _, item := range s.News[:n] {
			b.WriteString("  " + item.Text + "\n")
		}
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
