package world

import (
	"math"
	"strings"

	"github.com/alexandrarotta/microestado/internal/effects"
)

// Geography ids understood by event conditions.
const (
	Archipelago = "archipelago"
	Coastal     = "coastal"
	Mountain    = "mountain"
	Desert      = "desert"
	Forest      = "forest"
	Urban       = "urban"
)

// Geographies lists every geography id.
var Geographies = []string{Archipelago, Coastal, Mountain, Desert, Forest, Urban}

// IsGeography reports whether id names a known geography.
func IsGeography(id string) bool {
	for _, g := range Geographies {
		if g == id {
			return true
		}
	}
	return false
}

func configFor(geography string, seed int64) GenConfig {
	cfg := DefaultGenConfig(seed)
	switch geography {
	case Archipelago:
		cfg.SeaLevel = 0.45
	case Coastal:
		cfg.SeaLevel = 0.3
	case Mountain:
		cfg.SeaLevel = 0.12
		cfg.MountainLvl = 0.5
	case Desert:
		cfg.SeaLevel = 0.15
		cfg.Aridity = 0.25
	case Forest:
		cfg.SeaLevel = 0.15
		cfg.Aridity = -0.2
	case Urban:
		cfg.SeaLevel = 0.15
	}
	return cfg
}

// Profile is the terrain summary of a new country.
type Profile struct {
	Geography   string              `json:"geography"`
	Seed        int64               `json:"seed"`
	Shares      map[Terrain]float64 `json:"-"`
	Adjustments effects.Map         `json:"adjustments"`
}

// NewProfile sketches a country for geography. An empty or unknown
// geography is classified from a neutral map instead.
func NewProfile(geography string, seed int64) Profile {
	geography = strings.ToLower(strings.TrimSpace(geography))
	if !IsGeography(geography) {
		geography = Classify(Generate(DefaultGenConfig(seed)))
	}
	m := Generate(configFor(geography, seed))
	shares := Shares(m)
	return Profile{
		Geography:   geography,
		Seed:        seed,
		Shares:      shares,
		Adjustments: adjustments(geography, shares),
	}
}

// Shares returns the fraction of hexes per terrain.
func Shares(m *Map) map[Terrain]float64 {
	out := make(map[Terrain]float64)
	if len(m.Hexes) == 0 {
		return out
	}
	n := float64(len(m.Hexes))
	for t, c := range m.Counts() {
		out[t] = float64(c) / n
	}
	return out
}

// Classify picks the geography a map most resembles.
func Classify(m *Map) string {
	s := Shares(m)
	switch {
	case s[TerrainOcean] > 0.45:
		return Archipelago
	case s[TerrainMountain] > 0.2:
		return Mountain
	case s[TerrainDesert] > 0.3:
		return Desert
	case s[TerrainForest] > 0.3:
		return Forest
	case s[TerrainCoast] > 0.15:
		return Coastal
	default:
		return Urban
	}
}

func adjustments(geography string, s map[Terrain]float64) effects.Map {
	adj := effects.Map{
		"resources":           round1(s[TerrainMountain]*30 + s[TerrainForest]*15 - s[TerrainDesert]*20),
		"tourismCapacity":     round1(s[TerrainCoast]*25 + s[TerrainForest]*5),
		"tourismIndex":        round1(s[TerrainCoast] * 10),
		"energy":              round1(s[TerrainMountain]*10 + s[TerrainDesert]*8),
		"environmentalImpact": round1(-s[TerrainForest] * 10),
	}
	if geography == Urban {
		adj["innovation"] = 5
		adj["employment"] = 3
		adj["environmentalImpact"] += 5
	}
	for k, v := range adj {
		if v == 0 {
			delete(adj, k)
		}
	}
	return adj
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
