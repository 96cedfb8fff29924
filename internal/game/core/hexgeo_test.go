package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCubeRoundTrip(t *testing.T) {
	for row := -3; row < 12; row++ {
		for col := -2; col < 22; col++ {
			c := NewCoordinate(row, col)
			h := c.ToCube()
			assert.Equal(t, 0, h.Q+h.R+h.S)
			assert.Equal(t, c, h.ToOffset())
		}
	}
}

func TestNeighbors(t *testing.T) {
	tests := []struct {
		name     string
		coord    Coordinate
		expected [6]Coordinate
	}{
		{
			name:  "even row",
			coord: NewCoordinate(2, 2),
			expected: [6]Coordinate{
				{Row: 2, Col: 3}, {Row: 1, Col: 2}, {Row: 1, Col: 1},
				{Row: 2, Col: 1}, {Row: 3, Col: 1}, {Row: 3, Col: 2},
			},
		},
		{
			name:  "odd row",
			coord: NewCoordinate(1, 2),
			expected: [6]Coordinate{
				{Row: 1, Col: 3}, {Row: 0, Col: 3}, {Row: 0, Col: 2},
				{Row: 1, Col: 1}, {Row: 2, Col: 2}, {Row: 2, Col: 3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.coord.Neighbors()
			assert.Equal(t, tt.expected, got)
			for _, n := range got {
				assert.Equal(t, 1, tt.coord.DistanceTo(n))
				assert.True(t, tt.coord.IsAdjacentTo(n))
			}
		})
	}
}

func TestValidNeighbors_Corner(t *testing.T) {
	got := NewCoordinate(0, 0).ValidNeighbors(17, 11)
	assert.ElementsMatch(t, []Coordinate{{Row: 0, Col: 1}, {Row: 1, Col: 0}}, got)
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b     Coordinate
		expected int
	}{
		{NewCoordinate(0, 0), NewCoordinate(0, 0), 0},
		{NewCoordinate(0, 0), NewCoordinate(0, 5), 5},
		{NewCoordinate(0, 0), NewCoordinate(2, 0), 2},
		{NewCoordinate(0, 0), NewCoordinate(2, 1), 2},
		{NewCoordinate(5, 0), NewCoordinate(5, 16), 16},
		{NewCoordinate(1, 0), NewCoordinate(3, 1), 2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.a.DistanceTo(tt.b), "%s -> %s", tt.a, tt.b)
		assert.Equal(t, tt.expected, tt.b.DistanceTo(tt.a), "%s -> %s", tt.b, tt.a)
	}
}

func TestLine(t *testing.T) {
	t.Run("same hex", func(t *testing.T) {
		c := NewCoordinate(4, 4)
		assert.Equal(t, []Coordinate{c}, c.Line(c))
	})

	t.Run("straight row", func(t *testing.T) {
		got := NewCoordinate(0, 0).Line(NewCoordinate(0, 3))
		assert.Equal(t, []Coordinate{{0, 0}, {0, 1}, {0, 2}, {0, 3}}, got)
	})

	t.Run("contiguous and bounded", func(t *testing.T) {
		pairs := [][2]Coordinate{
			{NewCoordinate(0, 0), NewCoordinate(10, 16)},
			{NewCoordinate(5, 2), NewCoordinate(3, 4)},
			{NewCoordinate(7, 9), NewCoordinate(1, 1)},
			{NewCoordinate(2, 2), NewCoordinate(4, 2)},
		}
		for _, p := range pairs {
			line := p[0].Line(p[1])
			require.Len(t, line, p[0].DistanceTo(p[1])+1)
			assert.Equal(t, p[0], line[0])
			assert.Equal(t, p[1], line[len(line)-1])
			for i := 1; i < len(line); i++ {
				assert.Equal(t, 1, line[i-1].DistanceTo(line[i]), "step %d of %s -> %s", i, p[0], p[1])
			}
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		a, b := NewCoordinate(1, 3), NewCoordinate(8, 12)
		assert.Equal(t, a.Line(b), a.Line(b))
	})
}
