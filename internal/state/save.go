// Package state defines the save aggregate of one MicroEstado game: the
// country, its leader, every indicator the simulation mutates, and the
// bookkeeping for projects, decrees, events and risk.
package state

import "time"

// Gender selects which role label is used for the leader.
type Gender string

const (
	GenderMale         Gender = "MALE"
	GenderFemale       Gender = "FEMALE"
	GenderPreferNotSay Gender = "PREFER_NOT_SAY"
	GenderOther        Gender = "OTHER"
)

// RoleSelectionMode records whether the leader role was picked or rolled.
type RoleSelectionMode string

const (
	RoleManual RoleSelectionMode = "MANUAL"
	RoleRandom RoleSelectionMode = "RANDOM"
)

// TaxLevel is the legacy three-step tax setting.
type TaxLevel string

const (
	TaxLow  TaxLevel = "LOW"
	TaxMed  TaxLevel = "MED"
	TaxHigh TaxLevel = "HIGH"
)

// Country describes the nation being governed.
type Country struct {
	BaseName           string `json:"baseName"`
	StateTypeID        string `json:"stateTypeId"`
	StateTypeOtherText string `json:"stateTypeOtherText,omitempty"`
	FormalName         string `json:"formalName"`
	Geography          string `json:"geography"`
	Motto              string `json:"motto,omitempty"`
	Demonym            string `json:"demonym,omitempty"`
}

// Leader is the player's persona.
type Leader struct {
	Name              string            `json:"name"`
	Gender            Gender            `json:"gender"`
	GenderOther       string            `json:"genderOther,omitempty"`
	RoleID            string            `json:"roleId"`
	RoleSelectionMode RoleSelectionMode `json:"roleSelectionMode"`
	Trait             string            `json:"trait,omitempty"`
	Tagline           string            `json:"tagline,omitempty"`
}

// Budget splits spending across three areas. The fields always sum to 100.
type Budget struct {
	IndustryPct          float64 `yaml:"industryPct" json:"industryPct"`
	WelfarePct           float64 `yaml:"welfarePct" json:"welfarePct"`
	SecurityDiplomacyPct float64 `yaml:"securityDiplomacyPct" json:"securityDiplomacyPct"`
}

// BudgetArea names one of the three budget fields.
type BudgetArea string

const (
	AreaIndustry          BudgetArea = "industryPct"
	AreaWelfare           BudgetArea = "welfarePct"
	AreaSecurityDiplomacy BudgetArea = "securityDiplomacyPct"
)

// ProjectStatus is the lifecycle state of one project.
type ProjectStatus string

const (
	ProjectLocked     ProjectStatus = "locked"
	ProjectAvailable  ProjectStatus = "available"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectPaused     ProjectStatus = "paused"
	ProjectCompleted  ProjectStatus = "completed"
)

// ProjectState tracks one catalog project inside a save.
type ProjectState struct {
	Status   ProjectStatus `json:"status"`
	Progress float64       `json:"progress"`
}

// DecreeSlot holds an optional decree and its activity window.
type DecreeSlot struct {
	SlotID        int    `json:"slotId"`
	DecreeID      string `json:"decreeId,omitempty"`
	ActiveUntil   int    `json:"activeUntil"`
	CooldownUntil int    `json:"cooldownUntil"`
}

// DecreeSlotCount is the fixed number of Level-1 decree slots.
const DecreeSlotCount = 2

// Agencies are the government agencies unlocked through projects.
type Agencies struct {
	Revenue    bool `json:"revenue"`
	Inspection bool `json:"inspection"`
	Promotion  bool `json:"promotion"`
}

// PremiumFlags are permanent unlocks bought with tokens.
type PremiumFlags struct {
	AutoBalanceUnlocked   bool    `json:"autoBalanceUnlocked"`
	ReportClarityUnlocked bool    `json:"reportClarityUnlocked"`
	OfflineCapBonusHours  float64 `json:"offlineCapBonusHours"`
}

// Save is the root aggregate of a game. It is owned by exactly one session
// at a time and mutated in place by the engine.
type Save struct {
	Version  string  `json:"version,omitempty"`
	Country  Country `json:"country"`
	Leader   Leader  `json:"leader"`
	PresetID string  `json:"presetId"`

	Level          int     `json:"level"`
	Level1Complete bool    `json:"level1Complete"`
	Level2         *Level2 `json:"level2,omitempty"`

	Phase           int `json:"phase"`
	MaxPhaseReached int `json:"maxPhaseReached"`

	GameOver       bool       `json:"gameOver"`
	GameOverReason string     `json:"gameOverReason,omitempty"`
	GameOverAt     *time.Time `json:"gameOverAt,omitempty"`
	GameOverAtTick int        `json:"gameOverAtTick,omitempty"`
	GameOverCauses []string   `json:"gameOverCauses"`
	GameOverAdvice string     `json:"gameOverAdvice,omitempty"`

	LastRisk          float64 `json:"lastRisk"`
	RiskTicks         int     `json:"riskTicks"`
	ZeroTreasuryTicks int     `json:"zeroTreasuryTicks"`
	ZeroMoraleTicks   int     `json:"zeroMoraleTicks"`
	DebtOverTicks     int     `json:"debtOverTicks"`

	Admin         float64  `json:"admin"`
	AdminPerTick  float64  `json:"adminPerTick"`
	AdminUnlocked bool     `json:"adminUnlocked"`
	Agencies      Agencies `json:"agenciesUnlocked"`
	Treaties      bool     `json:"treatiesUnlocked"`

	IndustryLeaderID      string   `json:"industryLeaderId,omitempty"`
	DiversifiedIndustries []string `json:"diversifiedIndustries"`

	PremiumTokens           float64      `json:"premiumTokens"`
	Premium                 PremiumFlags `json:"iapFlags"`
	OfflineRewardMultiplier float64      `json:"offlineRewardMultiplier"`

	PlanAnticrisisUnlocked      bool `json:"emergencyPlanUnlocked"`
	PlanAnticrisisCooldownUntil int  `json:"emergencyPlanCooldownUntil"`

	RemoteOverrides map[string]float64 `json:"remoteConfigOverrides,omitempty"`

	TickCount  int       `json:"tickCount"`
	LastTickAt int64     `json:"lastTickAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Treasury            float64 `json:"treasury"`
	GDP                 float64 `json:"gdp"`
	BaselineGDP         float64 `json:"baselineGdp"`
	GrowthPct           float64 `json:"growthPct"`
	Happiness           float64 `json:"happiness"`
	Stability           float64 `json:"stability"`
	InstitutionalTrust  float64 `json:"institutionalTrust"`
	Corruption          float64 `json:"corruption"`
	Resources           float64 `json:"resources"`
	Reputation          float64 `json:"reputation"`
	Debt                float64 `json:"debt"`
	Employment          float64 `json:"employment"`
	Energy              float64 `json:"energy"`
	Innovation          float64 `json:"innovation"`
	Inequality          float64 `json:"inequality"`
	EnvironmentalImpact float64 `json:"environmentalImpact"`
	TourismIndex        float64 `json:"tourismIndex"`
	TourismCapacity     float64 `json:"tourismCapacity"`
	TourismPressure     float64 `json:"tourismPressure"`

	TaxLevel   TaxLevel `json:"taxLevel,omitempty"`
	TaxRatePct float64  `json:"taxRatePct"`
	Budget     Budget   `json:"budget"`

	Projects map[string]*ProjectState `json:"projects"`

	EventCooldown     int            `json:"eventCooldown"`
	EventHistory      map[string]int `json:"eventHistory"`
	PendingEventID    string         `json:"pendingEventId,omitempty"`
	PendingEventDelay int            `json:"pendingEventDelay"`
	ActiveEventID     string         `json:"activeEventId,omitempty"`

	DecreeSlots []DecreeSlot `json:"decreeSlots"`

	News              []NewsItem `json:"news"`
	NotifiedStartable []string   `json:"notifiedStartableProjectIds"`

	Medals []string `json:"medals,omitempty"`
}

// DebtRatio returns debt over GDP, or 0 when GDP is not positive.
func (s *Save) DebtRatio() float64 {
	if s.GDP <= 0 {
		return 0
	}
	return s.Debt / s.GDP
}

// CompletedProjects counts projects in the completed state.
func (s *Save) CompletedProjects() int {
	n := 0
	for _, p := range s.Projects {
		if p != nil && p.Status == ProjectCompleted {
			n++
		}
	}
	return n
}

// ProjectCompleted reports whether the given project has been completed.
func (s *Save) ProjectCompleted(id string) bool {
	p, ok := s.Projects[id]
	return ok && p != nil && p.Status == ProjectCompleted
}

// Slot returns the decree slot with the given id, or nil.
func (s *Save) Slot(slotID int) *DecreeSlot {
	for i := range s.DecreeSlots {
		if s.DecreeSlots[i].SlotID == slotID {
			return &s.DecreeSlots[i]
		}
	}
	return nil
}

// HasMedal reports whether the medal has already been awarded.
func (s *Save) HasMedal(medal string) bool {
	for _, m := range s.Medals {
		if m == medal {
			return true
		}
	}
	return false
}

// Touch stamps the save as modified now.
func (s *Save) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// Normalize fills nil maps and slices left by older snapshots so callers can
// index into them without checks.
func (s *Save) Normalize() {
	if s.Level == 0 {
		s.Level = 1
	}
	if s.Phase == 0 {
		s.Phase = 1
	}
	if s.MaxPhaseReached < s.Phase {
		s.MaxPhaseReached = s.Phase
	}
	if s.Projects == nil {
		s.Projects = make(map[string]*ProjectState)
	}
	if s.EventHistory == nil {
		s.EventHistory = make(map[string]int)
	}
	if s.GameOverCauses == nil {
		s.GameOverCauses = []string{}
	}
	if s.DiversifiedIndustries == nil {
		s.DiversifiedIndustries = []string{}
	}
	if s.NotifiedStartable == nil {
		s.NotifiedStartable = []string{}
	}
	if s.News == nil {
		s.News = []NewsItem{}
	}
	for len(s.DecreeSlots) < DecreeSlotCount {
		s.DecreeSlots = append(s.DecreeSlots, DecreeSlot{SlotID: len(s.DecreeSlots) + 1})
	}
	if s.Level2 != nil {
		s.Level2.Normalize()
	}
}
