package core

// Terrain is the type of a hex.
type Terrain string

const (
	TerrainPlains      Terrain = "plains"
	TerrainForest      Terrain = "forest"
	TerrainHills       Terrain = "hills"
	TerrainHighGround  Terrain = "high_ground"
	TerrainGoldMine    Terrain = "gold_mine"
	TerrainLumberCamp  Terrain = "lumber_camp"
	TerrainCrown       Terrain = "crown"
	TerrainStrongholdA Terrain = "stronghold_a"
	TerrainStrongholdB Terrain = "stronghold_b"
	TerrainDeployA     Terrain = "deploy_a"
	TerrainDeployB     Terrain = "deploy_b"
)

func (t Terrain) IsStronghold() bool {
	return t == TerrainStrongholdA || t == TerrainStrongholdB
}

func (t Terrain) IsResourceNode() bool {
	return t == TerrainGoldMine || t == TerrainLumberCamp
}

// StrongholdOf returns the player a stronghold belongs to, or NoPlayer.
func (t Terrain) StrongholdOf() PlayerID {
	switch t {
	case TerrainStrongholdA:
		return PlayerA
	case TerrainStrongholdB:
		return PlayerB
	}
	return NoPlayer
}

// Hex represents a single cell on the map.
// ControlledBy is sticky: an empty hex keeps its last controller.
type Hex struct {
	ID           string   `json:"id"`
	Type         Terrain  `json:"type"`
	ControlledBy PlayerID `json:"controlledBy"`
	Reserve      int      `json:"reserve,omitempty"`
	UnitIDs      []string `json:"unitIds,omitempty"`
}

func (h *Hex) IsEmpty() bool { return len(h.UnitIDs) == 0 }

// Board is a fixed-size row-major grid of hexes.
type Board struct {
	Columns int   `json:"columns"`
	Rows    int   `json:"rows"`
	Hexes   []Hex `json:"hexes"`
}

// NewBoard builds an all-plains board with ids filled in.
func NewBoard(columns, rows int) Board {
	b := Board{Columns: columns, Rows: rows, Hexes: make([]Hex, columns*rows)}
	for i := range b.Hexes {
		b.Hexes[i] = Hex{
			ID:   FromIndex(i, columns).HexID(),
			Type: TerrainPlains,
		}
	}
	return b
}

// InBounds checks if the coordinate is within board boundaries
func (b *Board) InBounds(c Coordinate) bool {
	return c.IsValid(b.Columns, b.Rows)
}

func (b *Board) Idx(c Coordinate) int { return c.ToIndex(b.Columns) }

func (b *Board) CoordOf(idx int) Coordinate { return FromIndex(idx, b.Columns) }

// At returns the hex at c, or nil when c is off the board.
func (b *Board) At(c Coordinate) *Hex {
	if !b.InBounds(c) {
		return nil
	}
	return &b.Hexes[b.Idx(c)]
}

// Lookup resolves a hex id to its board index.
func (b *Board) Lookup(id string) (int, bool) {
	c, err := ParseHexID(id)
	if err != nil || !b.InBounds(c) {
		return -1, false
	}
	return b.Idx(c), true
}

// Neighbors returns the on-board neighbours of c in direction order.
func (b *Board) Neighbors(c Coordinate) []Coordinate {
	return c.ValidNeighbors(b.Columns, b.Rows)
}

// ControlledCount returns how many hexes the player currently controls.
func (b *Board) ControlledCount(p PlayerID) int {
	n := 0
	for i := range b.Hexes {
		if b.Hexes[i].ControlledBy == p {
			n++
		}
	}
	return n
}

// FindTerrain returns the indices of every hex of the given type in board order.
func (b *Board) FindTerrain(t Terrain) []int {
	var out []int
	for i := range b.Hexes {
		if b.Hexes[i].Type == t {
			out = append(out, i)
		}
	}
	return out
}
