// Package rules compiles the optional `when:` expressions that catalog
// events and option modifiers carry. Expressions are CEL and must evaluate
// to a bool.
package rules

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"

	"github.com/alexandrarotta/microestado/internal/state"
)

// Env wraps a CEL environment declaring every variable a condition can read.
type Env struct {
	env *cel.Env
}

// Program is one compiled condition.
type Program struct {
	Source string
	prg    cel.Program
}

// NewEnv creates the condition environment.
func NewEnv() (*Env, error) {
	env, err := cel.NewEnv(
		ext.Strings(),

		cel.Variable("stats", cel.MapType(cel.StringType, cel.DoubleType)),
		cel.Variable("phase", cel.IntType),
		cel.Variable("maxPhase", cel.IntType),
		cel.Variable("level", cel.IntType),
		cel.Variable("tick", cel.IntType),
		cel.Variable("geography", cel.StringType),
		cel.Variable("role", cel.StringType),
		cel.Variable("industry", cel.StringType),
		cel.Variable("industries", cel.ListType(cel.StringType)),
		cel.Variable("inflation", cel.DoubleType),
		cel.Variable("regime", cel.StringType),
		cel.Variable("debtRatio", cel.DoubleType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Env{env: env}, nil
}

// Compile parses and checks src. The expression must have type bool.
func (e *Env) Compile(src string) (*Program, error) {
	ast, issues := e.env.Compile(src)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("CEL compile error in %q: %w", src, issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("CEL expression %q has type %s, want bool", src, ast.OutputType())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("CEL program error: %w", err)
	}
	return &Program{Source: src, prg: prg}, nil
}

// Eval runs the program against vars.
func (p *Program) Eval(vars map[string]any) (bool, error) {
	out, _, err := p.prg.Eval(vars)
	if err != nil {
		return false, fmt.Errorf("CEL eval error in %q: %w", p.Source, err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("CEL expression %q returned %T", p.Source, out.Value())
	}
	return b, nil
}

// Match evaluates the program and treats evaluation errors as a failed
// condition. A nil program always matches.
func (p *Program) Match(vars map[string]any) bool {
	if p == nil {
		return true
	}
	ok, err := p.Eval(vars)
	return err == nil && ok
}

// Vars builds the evaluation context for a save.
func Vars(s *state.Save) map[string]any {
	stats := map[string]float64{
		"treasury":            s.Treasury,
		"gdp":                 s.GDP,
		"growthPct":           s.GrowthPct,
		"happiness":           s.Happiness,
		"stability":           s.Stability,
		"trust":               s.InstitutionalTrust,
		"institutionalTrust":  s.InstitutionalTrust,
		"corruption":          s.Corruption,
		"resources":           s.Resources,
		"reputation":          s.Reputation,
		"debt":                s.Debt,
		"employment":          s.Employment,
		"energy":              s.Energy,
		"innovation":          s.Innovation,
		"inequality":          s.Inequality,
		"environmentalImpact": s.EnvironmentalImpact,
		"tourismIndex":        s.TourismIndex,
		"tourismCapacity":     s.TourismCapacity,
		"tourismPressure":     s.TourismPressure,
		"admin":               s.Admin,
	}

	industries := make([]string, 0, 1+len(s.DiversifiedIndustries))
	if s.IndustryLeaderID != "" {
		industries = append(industries, s.IndustryLeaderID)
	}
	industries = append(industries, s.DiversifiedIndustries...)

	inflation := 0.0
	regime := ""
	if s.Level2 != nil {
		inflation = s.Level2.Macro.InflationPct
		regime = string(s.Level2.Macro.Regime)
	}

	return map[string]any{
		"stats":      stats,
		"phase":      int64(s.Phase),
		"maxPhase":   int64(s.MaxPhaseReached),
		"level":      int64(s.Level),
		"tick":       int64(s.TickCount),
		"geography":  strings.ToLower(s.Country.Geography),
		"role":       s.Leader.RoleID,
		"industry":   s.IndustryLeaderID,
		"industries": industries,
		"inflation":  inflation,
		"regime":     regime,
		"debtRatio":  s.DebtRatio(),
	}
}
