package mapgen

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
)

// MapConfig holds configuration for map generation
type MapConfig struct {
	Columns     int
	Rows        int
	HillPairs   int
	ForestPairs int
	// SafeRadius keeps random terrain this far away from both strongholds.
	SafeRadius int
}

// DefaultMapConfig returns the configuration for a supported board width.
func DefaultMapConfig(columns int) (MapConfig, error) {
	rows := core.RowsForColumns(columns)
	if rows == 0 {
		return MapConfig{}, fmt.Errorf("%w: %d", core.ErrUnsupportedBoardWidth, columns)
	}
	return MapConfig{
		Columns:     columns,
		Rows:        rows,
		HillPairs:   4,
		ForestPairs: 6,
		SafeRadius:  2,
	}, nil
}

// Layout records where the fixed features of a generated map ended up.
type Layout struct {
	StrongholdA int
	StrongholdB int
	// DeployA and DeployB list deployment hexes in placement order; index i
	// of one side mirrors index i of the other.
	DeployA []int
	DeployB []int
}

// Generator builds point-symmetric maps from a seeded rng
type Generator struct {
	config MapConfig
	rng    *rand.Rand
}

// NewGenerator creates a new map generator
func NewGenerator(config MapConfig, rng *rand.Rand) *Generator {
	return &Generator{
		config: config,
		rng:    rng,
	}
}

// GenerateMap lays out strongholds, deployment zones, the crown, resource
// nodes and high ground at fixed mirrored positions, then scatters mirrored
// pairs of hills and forest.
func (g *Generator) GenerateMap() (core.Board, Layout, error) {
	cols, rows := g.config.Columns, g.config.Rows
	if cols < 9 || rows < 7 {
		return core.Board{}, Layout{}, fmt.Errorf("%w: %dx%d board too small", core.ErrInvalidConfig, cols, rows)
	}
	board := core.NewBoard(cols, rows)
	mid, centre := rows/2, cols/2

	sa := core.NewCoordinate(mid, 0)
	g.placePair(&board, sa, core.TerrainStrongholdA, core.TerrainStrongholdB)
	board.At(sa).ControlledBy = core.PlayerA
	board.At(g.mirror(sa)).ControlledBy = core.PlayerB

	layout := Layout{StrongholdA: board.Idx(sa), StrongholdB: board.Idx(g.mirror(sa))}
	deploy := []core.Coordinate{
		core.NewCoordinate(mid, 1),
		core.NewCoordinate(mid-1, 1),
		core.NewCoordinate(mid+1, 1),
		core.NewCoordinate(mid-1, 0),
		core.NewCoordinate(mid+1, 0),
	}
	for _, c := range deploy {
		g.placePair(&board, c, core.TerrainDeployA, core.TerrainDeployB)
		layout.DeployA = append(layout.DeployA, board.Idx(c))
		layout.DeployB = append(layout.DeployB, board.Idx(g.mirror(c)))
	}

	board.At(core.NewCoordinate(mid, centre)).Type = core.TerrainCrown
	g.placePair(&board, core.NewCoordinate(mid-2, centre), core.TerrainHighGround, core.TerrainHighGround)
	g.placePair(&board, core.NewCoordinate(mid-3, centre-3), core.TerrainGoldMine, core.TerrainGoldMine)
	g.placePair(&board, core.NewCoordinate(mid+3, centre-4), core.TerrainLumberCamp, core.TerrainLumberCamp)

	g.scatter(&board, layout, core.TerrainHills, g.config.HillPairs)
	g.scatter(&board, layout, core.TerrainForest, g.config.ForestPairs)
	return board, layout, nil
}

// mirror reflects a coordinate through the centre of the board.
func (g *Generator) mirror(c core.Coordinate) core.Coordinate {
	return core.NewCoordinate(g.config.Rows-1-c.Row, g.config.Columns-1-c.Col)
}

func (g *Generator) placePair(b *core.Board, c core.Coordinate, here, there core.Terrain) {
	b.At(c).Type = here
	b.At(g.mirror(c)).Type = there
}

// scatter places up to n mirrored pairs of terrain on plains hexes outside
// the stronghold safe radius.
func (g *Generator) scatter(b *core.Board, layout Layout, terrain core.Terrain, n int) {
	sa, sb := b.CoordOf(layout.StrongholdA), b.CoordOf(layout.StrongholdB)
	placed := 0
	maxAttempts := n * 20
	for attempts := 0; placed < n && attempts < maxAttempts; attempts++ {
		c := core.NewCoordinate(g.rng.Intn(b.Rows), g.rng.Intn(b.Columns))
		m := g.mirror(c)
		if c == m || b.At(c).Type != core.TerrainPlains || b.At(m).Type != core.TerrainPlains {
			continue
		}
		if c.DistanceTo(sa) <= g.config.SafeRadius || c.DistanceTo(sb) <= g.config.SafeRadius ||
			m.DistanceTo(sa) <= g.config.SafeRadius || m.DistanceTo(sb) <= g.config.SafeRadius {
			continue
		}
		g.placePair(b, c, terrain, terrain)
		placed++
	}
}
