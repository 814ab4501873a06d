package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFillsHexagon(t *testing.T) {
	m := Generate(DefaultGenConfig(42))
	// 3r(r+1)+1 hexes for radius r
	assert.Len(t, m.Hexes, 3*6*7+1)
	for c := range m.Hexes {
		assert.True(t, m.InBounds(c))
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(DefaultGenConfig(7))
	b := Generate(DefaultGenConfig(7))
	for c, h := range a.Hexes {
		require.NotNil(t, b.Get(c))
		assert.Equal(t, h.Terrain, b.Get(c).Terrain)
	}
}

func TestArchipelagoHasMoreSea(t *testing.T) {
	arch := Shares(Generate(configFor(Archipelago, 3)))
	urban := Shares(Generate(configFor(Urban, 3)))
	assert.Greater(t, arch[TerrainOcean], urban[TerrainOcean])
}

func TestProfileKeepsKnownGeography(t *testing.T) {
	p := NewProfile("Desert", 11)
	assert.Equal(t, Desert, p.Geography)
	for k, v := range p.Adjustments {
		assert.LessOrEqual(t, v, 30.0, k)
		assert.GreaterOrEqual(t, v, -30.0, k)
	}
}

func TestProfileClassifiesUnknown(t *testing.T) {
	p := NewProfile("", 5)
	assert.True(t, IsGeography(p.Geography))
	assert.Equal(t, p, NewProfile("  ", 5))
}

func TestUrbanAdjustments(t *testing.T) {
	p := NewProfile(Urban, 9)
	assert.Equal(t, 5.0, p.Adjustments["innovation"])
	assert.Equal(t, 3.0, p.Adjustments["employment"])
}

func TestNeighborsAreAdjacent(t *testing.T) {
	c := HexCoord{Q: 1, R: -2}
	for _, n := range c.Neighbors() {
		d := HexCoord{Q: n.Q - c.Q, R: n.R - c.R}
		assert.Equal(t, 1, d.Ring())
	}
}
