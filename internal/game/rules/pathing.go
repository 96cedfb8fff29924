package rules

import "github.com/mitchelldurbincs/HexSkirmish/internal/game/core"

// Reach describes the shortest way a unit can get to one hex.
type Reach struct {
	Distance int
	// ThroughForest is false when at least one shortest path avoids forest
	// on every hex after the origin.
	ThroughForest bool
}

// Reachable runs a breadth-first search from the unit's hex, one movement
// point per hex, and returns a board-indexed slice. Unreachable hexes and
// hexes beyond budget have Distance -1. Paths may cross empty or friendly
// hexes but never enemy-occupied ones.
func Reachable(s *core.MatchState, u *core.Unit, budget int) []Reach {
	board := &s.Board
	reach := make([]Reach, len(board.Hexes))
	for i := range reach {
		reach[i].Distance = -1
	}
	start, ok := board.Lookup(u.Position)
	if !ok || budget <= 0 {
		return reach
	}
	reach[start] = Reach{Distance: 0}

	queue := []int{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		d := reach[cur].Distance
		if d >= budget {
			continue
		}
		for _, n := range board.Neighbors(board.CoordOf(cur)) {
			idx := board.Idx(n)
			hex := &board.Hexes[idx]
			if !passable(s, hex, u.Owner) {
				continue
			}
			forest := reach[cur].ThroughForest || hex.Type == core.TerrainForest
			switch {
			case reach[idx].Distance == -1:
				reach[idx] = Reach{Distance: d + 1, ThroughForest: forest}
				queue = append(queue, idx)
			case reach[idx].Distance == d+1 && reach[idx].ThroughForest && !forest:
				reach[idx].ThroughForest = false
			}
		}
	}
	return reach
}

// passable reports whether a unit of owner may path through the hex.
func passable(s *core.MatchState, hex *core.Hex, owner core.PlayerID) bool {
	for _, id := range hex.UnitIDs {
		if u := s.Unit(id); u != nil && u.Owner != owner {
			return false
		}
	}
	return true
}

// canStackOnto reports whether u may end its move on the hex.
func canStackOnto(s *core.MatchState, hex *core.Hex, u *core.Unit) bool {
	for _, id := range hex.UnitIDs {
		other := s.Unit(id)
		if other == nil || other.Owner != u.Owner || other.Type != u.Type {
			return false
		}
	}
	return true
}

// HasLineOfSight reports whether a ranged attacker at from can see to.
// Forest on the target blocks. Units on an intervening hex block unless
// the attacker stands on high ground.
func HasLineOfSight(s *core.MatchState, from, to core.Coordinate) bool {
	board := &s.Board
	target := board.At(to)
	origin := board.At(from)
	if from == to || target == nil || origin == nil || target.Type == core.TerrainForest {
		return false
	}
	highGround := origin.Type == core.TerrainHighGround

	line := from.Line(to)
	for _, c := range line[1 : len(line)-1] {
		hex := board.At(c)
		if hex == nil {
			continue
		}
		if !hex.IsEmpty() && !highGround {
			return false
		}
	}
	return true
}
