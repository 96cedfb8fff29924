package core

import "github.com/mitchelldurbincs/HexSkirmish/internal/common"

// Cube is a hex position in cube coordinates; Q+R+S is always zero.
type Cube struct {
	Q, R, S int
}

// cubeDirections lists the six neighbour offsets: E, NE, NW, W, SW, SE.
var cubeDirections = [6]Cube{
	{Q: 1, R: 0, S: -1},
	{Q: 1, R: -1, S: 0},
	{Q: 0, R: -1, S: 1},
	{Q: -1, R: 0, S: 1},
	{Q: -1, R: 1, S: 0},
	{Q: 0, R: 1, S: -1},
}

// ToCube converts an odd-r offset coordinate to cube coordinates.
func (c Coordinate) ToCube() Cube {
	q := c.Col - (c.Row-(c.Row&1))/2
	r := c.Row
	return Cube{Q: q, R: r, S: -q - r}
}

// ToOffset converts cube coordinates back to the odd-r offset layout.
func (h Cube) ToOffset() Coordinate {
	col := h.Q + (h.R-(h.R&1))/2
	return Coordinate{Row: h.R, Col: col}
}

func (h Cube) Add(other Cube) Cube {
	return Cube{Q: h.Q + other.Q, R: h.R + other.R, S: h.S + other.S}
}

// Neighbors returns the six surrounding coordinates in fixed direction order.
// Results may lie outside the board.
func (c Coordinate) Neighbors() [6]Coordinate {
	var out [6]Coordinate
	h := c.ToCube()
	for i, d := range cubeDirections {
		out[i] = h.Add(d).ToOffset()
	}
	return out
}

// ValidNeighbors returns only the neighbours that are within the given bounds
func (c Coordinate) ValidNeighbors(columns, rows int) []Coordinate {
	valid := make([]Coordinate, 0, 6)
	for _, n := range c.Neighbors() {
		if n.IsValid(columns, rows) {
			valid = append(valid, n)
		}
	}
	return valid
}

// DistanceTo returns the hex (cube) distance to another coordinate.
func (c Coordinate) DistanceTo(other Coordinate) int {
	a, b := c.ToCube(), other.ToCube()
	return (common.Abs(a.Q-b.Q) + common.Abs(a.R-b.R) + common.Abs(a.S-b.S)) / 2
}

// IsAdjacentTo reports whether the two hexes share an edge.
func (c Coordinate) IsAdjacentTo(other Coordinate) bool {
	return c.DistanceTo(other) == 1
}

// Line returns every hex on the straight line from c to other, both ends
// included. Interpolation is done in integer arithmetic over a common
// denominator of 8*N, with a (+1, +2, -3) nudge so no sample ever lands
// exactly on a hex edge.
func (c Coordinate) Line(other Coordinate) []Coordinate {
	n := c.DistanceTo(other)
	if n == 0 {
		return []Coordinate{c}
	}
	a, b := c.ToCube(), other.ToCube()
	den := 8 * n
	line := make([]Coordinate, 0, n+1)
	for i := 0; i <= n; i++ {
		q := 8*(a.Q*n+(b.Q-a.Q)*i) + 1
		r := 8*(a.R*n+(b.R-a.R)*i) + 2
		s := 8*(a.S*n+(b.S-a.S)*i) - 3
		line = append(line, roundCube(q, r, s, den).ToOffset())
	}
	return line
}

// roundCube rounds the fractional cube (q/den, r/den, s/den) to the nearest hex.
func roundCube(q, r, s, den int) Cube {
	rq := common.RoundDiv(q, den)
	rr := common.RoundDiv(r, den)
	rs := common.RoundDiv(s, den)

	dq := common.Abs(rq*den - q)
	dr := common.Abs(rr*den - r)
	ds := common.Abs(rs*den - s)

	switch {
	case dq > dr && dq > ds:
		rq = -rr - rs
	case dr > ds:
		rr = -rq - rs
	default:
		rs = -rq - rr
	}
	return Cube{Q: rq, R: rr, S: rs}
}
