package world

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds generation parameters.
type GenConfig struct {
	Radius      int
	Seed        int64
	SeaLevel    float64 // elevation threshold for ocean
	MountainLvl float64 // elevation threshold for mountains
	Aridity     float64 // subtracted from rainfall
}

// DefaultGenConfig returns a small, balanced country.
func DefaultGenConfig(seed int64) GenConfig {
	return GenConfig{
		Radius:      6,
		Seed:        seed,
		SeaLevel:    0.22,
		MountainLvl: 0.72,
	}
}

// Generate creates a hex map from layered simplex noise.
func Generate(cfg GenConfig) *Map {
	elevNoise := opensimplex.NewNormalized(cfg.Seed)
	rainNoise := opensimplex.NewNormalized(cfg.Seed + 1)

	m := NewMap(cfg.Radius)
	for q := -cfg.Radius; q <= cfg.Radius; q++ {
		for r := -cfg.Radius; r <= cfg.Radius; r++ {
			coord := HexCoord{Q: q, R: r}
			if coord.Ring() > cfg.Radius {
				continue
			}

			// Hex axial to cartesian: x = q + r/2, y = r*sqrt(3)/2
			x := float64(q) + float64(r)*0.5
			y := float64(r) * math.Sqrt(3.0) / 2.0

			elev := octaveNoise(elevNoise, x, y, 4, 0.18, 0.5)
			rain := octaveNoise(rainNoise, x, y, 3, 0.12, 0.5) - cfg.Aridity

			// Continental shaping: lower the edges so the country has a shore.
			dist := math.Sqrt(x*x+y*y) / float64(cfg.Radius)
			falloff := 1.0 - math.Pow(dist, 3.0)
			if falloff < 0 {
				falloff = 0
			}
			elev *= falloff

			m.Set(&Hex{
				Coord:     coord,
				Terrain:   deriveTerrain(elev, rain, cfg),
				Elevation: elev,
				Rainfall:  rain,
			})
		}
	}

	markCoastalHexes(m)
	return m
}

func deriveTerrain(elev, rain float64, cfg GenConfig) Terrain {
	switch {
	case elev < cfg.SeaLevel:
		return TerrainOcean
	case elev > cfg.MountainLvl:
		return TerrainMountain
	case rain < 0.3:
		return TerrainDesert
	case rain > 0.55:
		return TerrainForest
	default:
		return TerrainPlains
	}
}

// markCoastalHexes turns low land next to the ocean into coast.
func markCoastalHexes(m *Map) {
	var toMark []HexCoord
	for coord, hex := range m.Hexes {
		if hex.Terrain == TerrainOcean || hex.Terrain == TerrainMountain {
			continue
		}
		for _, n := range coord.Neighbors() {
			if nh := m.Get(n); nh != nil && nh.Terrain == TerrainOcean {
				toMark = append(toMark, coord)
				break
			}
		}
	}
	for _, coord := range toMark {
		if hex := m.Get(coord); hex.Elevation < 0.5 {
			hex.Terrain = TerrainCoast
		}
	}
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
