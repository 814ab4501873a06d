// Package world sketches the terrain of a new country on a small hex grid
// and derives its geography profile: the geography id used by event
// conditions and the starting adjustments that terrain implies.
// Uses axial coordinates (q, r) for the hex grid.
package world

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// Terrain types for hex tiles.
type Terrain uint8

const (
	TerrainPlains Terrain = iota
	TerrainForest
	TerrainMountain
	TerrainCoast
	TerrainDesert
	TerrainOcean
)

// Hex is a single tile of the country sketch.
type Hex struct {
	Coord     HexCoord `json:"coord"`
	Terrain   Terrain  `json:"terrain"`
	Elevation float64  `json:"elevation"` // 0.0 (sea level) to 1.0 (peak)
	Rainfall  float64  `json:"rainfall"`  // 0.0 (arid) to 1.0 (tropical)
}

// HexNeighborDirections defines the six neighbor offsets in axial coordinates.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// Ring returns max(|q|, |r|, |s|), the distance from the origin.
func (h HexCoord) Ring() int {
	return max(abs(h.Q), abs(h.R), abs(h.S()))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
