package state

// InflationRegime classifies the current inflation percentage.
type InflationRegime string

const (
	RegimeDeflation InflationRegime = "DEFLATION"
	RegimeStable    InflationRegime = "STABLE"
	RegimeHigh      InflationRegime = "HIGH"
	RegimeHyper     InflationRegime = "HYPER"
)

// Inflation bounds for the macro layer.
const (
	InflationMin = -1.0
	InflationMax = 5.0
)

// ClassifyInflation maps an inflation percentage to its regime.
func ClassifyInflation(pct float64) InflationRegime {
	switch {
	case pct < 0:
		return RegimeDeflation
	case pct < 0.5:
		return RegimeStable
	case pct < 2:
		return RegimeHigh
	default:
		return RegimeHyper
	}
}

// CentralBank holds the cooldown and time-boxed growth effect of the last
// monetary action.
type CentralBank struct {
	CooldownUntilTick int     `json:"cooldownUntilTick"`
	EffectUntilTick   int     `json:"effectUntilTick,omitempty"`
	GrowthEffectPct   float64 `json:"growthEffectPct,omitempty"`
	LastActionTick    int     `json:"lastActionTick,omitempty"`
	Actions           int     `json:"actions,omitempty"`
}

// HasActed reports whether the central bank has ever been used.
func (c *CentralBank) HasActed() bool {
	return c.Actions > 0 || c.LastActionTick > 0
}

// Macro is the Level-2 macroeconomic state.
type Macro struct {
	InflationPct float64         `json:"inflationPct"`
	Regime       InflationRegime `json:"regime"`
	CentralBank  CentralBank     `json:"centralBank"`
}

// Elections tracks the election cooldown.
type Elections struct {
	CooldownUntilTick int `json:"cooldownUntilTick"`
}

// L2Industries records the base industry and the append-only active set.
type L2Industries struct {
	ChosenBaseIndustryID string   `json:"chosenBaseIndustryId,omitempty"`
	ActiveIndustries     []string `json:"activeIndustries"`
}

// IsActive reports whether the industry is in the active set.
func (i *L2Industries) IsActive(id string) bool {
	for _, a := range i.ActiveIndustries {
		if a == id {
			return true
		}
	}
	return false
}

// L2EventOption is the client view of one pending event option.
type L2EventOption struct {
	OptionID string `json:"optionId"`
	Label    string `json:"label"`
	Hint     string `json:"hint,omitempty"`
}

// L2PendingEvent is an event awaiting a decision.
type L2PendingEvent struct {
	InstanceID  string          `json:"instanceId"`
	EventID     string          `json:"eventId"`
	Title       string          `json:"title"`
	Body        string          `json:"body"`
	CreatedTick int             `json:"createdTick"`
	Options     []L2EventOption `json:"options"`
}

// L2EventRecord is a resolved event in the history ring.
type L2EventRecord struct {
	InstanceID     string `json:"instanceId"`
	EventID        string `json:"eventId"`
	Title          string `json:"title"`
	ChosenOptionID string `json:"chosenOptionId"`
	CreatedTick    int    `json:"createdTick"`
	ResolvedTick   int    `json:"resolvedTick"`
	OutcomeSummary string `json:"outcomeSummary"`
}

// L2Events is the Level-2 event pacing state.
type L2Events struct {
	Pending       *L2PendingEvent `json:"pending"`
	NextCheckTick int             `json:"nextCheckTick"`
	History       []L2EventRecord `json:"history"`
}

// L2DecreeRecord is an enacted decree in the history ring.
type L2DecreeRecord struct {
	DecreeID    string `json:"decreeId"`
	EnactedTick int    `json:"enactedTick"`
	Summary     string `json:"summary"`
}

// L2Decrees tracks per-decree cooldowns and the enactment history.
type L2Decrees struct {
	CooldownUntilByID map[string]int   `json:"cooldownUntilById"`
	History           []L2DecreeRecord `json:"history"`
}

// Level2 is created once, on the Level-1 to Level-2 transition.
type Level2 struct {
	Phase          int    `json:"phase"`
	Complete       bool   `json:"complete"`
	GameOver       bool   `json:"gameOver"`
	GameOverReason string `json:"gameOverReason,omitempty"`

	Elections  Elections                `json:"elections"`
	Macro      Macro                    `json:"macro"`
	Advisors   []string                 `json:"advisors"`
	Industries L2Industries             `json:"industries"`
	Projects   map[string]*ProjectState `json:"projects"`
	Events     L2Events                 `json:"events"`
	Decrees    L2Decrees                `json:"decrees"`
}

// InitialInflationPct is the inflation a country starts Level 2 with.
const InitialInflationPct = 0.2

// NewLevel2 returns the starting Level-2 state.
func NewLevel2() *Level2 {
	l := &Level2{
		Phase: 1,
		Macro: Macro{InflationPct: InitialInflationPct, Regime: RegimeStable},
	}
	l.Normalize()
	return l
}

// Normalize fills nil maps and slices and defaults the phase and regime.
func (l *Level2) Normalize() {
	if l.Phase == 0 {
		l.Phase = 1
	}
	if l.Macro.Regime == "" {
		l.Macro.Regime = ClassifyInflation(l.Macro.InflationPct)
	}
	if l.Advisors == nil {
		l.Advisors = []string{}
	}
	if l.Industries.ActiveIndustries == nil {
		l.Industries.ActiveIndustries = []string{}
	}
	if l.Projects == nil {
		l.Projects = make(map[string]*ProjectState)
	}
	if l.Events.History == nil {
		l.Events.History = []L2EventRecord{}
	}
	if l.Decrees.CooldownUntilByID == nil {
		l.Decrees.CooldownUntilByID = make(map[string]int)
	}
	if l.Decrees.History == nil {
		l.Decrees.History = []L2DecreeRecord{}
	}
}
