package match

import (
	"context"
	"math"

	"golang.org/x/exp/rand"

	"github.com/mitchelldurbincs/HexSkirmish/internal/game"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
)

// RandomBot plays a random legal move, leaving end_turn out of the draw
// three times in four.
type RandomBot struct{}

func (RandomBot) Provide(_ context.Context, _ *core.MatchState, legal []core.Move, _ int, rng *rand.Rand) ([]core.Move, error) {
	if len(legal) == 0 {
		return []core.Move{core.EndTurnAction{}}, nil
	}
	if len(legal) > 1 {
		// end_turn is always last in the legal list
		if core.IsEndTurn(legal[len(legal)-1]) && rng.Intn(4) != 0 {
			legal = legal[:len(legal)-1]
		}
	}
	return []core.Move{legal[rng.Intn(len(legal))]}, nil
}

// GreedyBot looks one move ahead and plays the move with the best
// material evaluation, breaking ties at random.
type GreedyBot struct {
	engine *game.Engine
}

func NewGreedyBot(engine *game.Engine) *GreedyBot {
	return &GreedyBot{engine: engine}
}

// Evaluation weights.
const (
	weightWin      = 10000
	weightVP       = 40
	weightUnit     = 12
	weightHP       = 4
	weightHex      = 1
	weightResource = 1
	weightAdvance  = 2
)

func (g *GreedyBot) Provide(ctx context.Context, s *core.MatchState, legal []core.Move, _ int, rng *rand.Rand) ([]core.Move, error) {
	me := s.ActivePlayer
	best := math.MinInt
	var candidates []core.Move

	for _, m := range legal {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := g.engine.ApplyMove(s, m)
		if !res.OK {
			continue
		}
		score := Evaluate(res.State, me)
		switch {
		case score > best:
			best = score
			candidates = append(candidates[:0], m)
		case score == best:
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return []core.Move{core.EndTurnAction{}}, nil
	}
	return []core.Move{candidates[rng.Intn(len(candidates))]}, nil
}

// Evaluate scores s from me's point of view. Higher is better.
func Evaluate(s *core.MatchState, me core.PlayerID) int {
	if s.IsEnded() {
		switch s.Winner {
		case me:
			return weightWin
		case core.NoPlayer:
			return 0
		default:
			return -weightWin
		}
	}

	stats := game.ComputeStats(s)
	mine, theirs := stats[me.Index()], stats[me.Opponent().Index()]
	score := weightVP*(mine.VP-theirs.VP) +
		weightUnit*(mine.Units-theirs.Units) +
		weightHP*(mine.TotalHP-theirs.TotalHP) +
		weightHex*(mine.ControlledHexes-theirs.ControlledHexes) +
		weightResource*(mine.Gold+mine.Wood-theirs.Gold-theirs.Wood)/4

	return score - weightAdvance*distanceToEnemyStronghold(s, me)
}

// distanceToEnemyStronghold sums the distance from each of me's units to
// the opposing stronghold.
func distanceToEnemyStronghold(s *core.MatchState, me core.PlayerID) int {
	terrain := core.TerrainStrongholdB
	if me == core.PlayerB {
		terrain = core.TerrainStrongholdA
	}
	targets := s.Board.FindTerrain(terrain)
	if len(targets) == 0 {
		return 0
	}
	target := s.Board.CoordOf(targets[0])

	total := 0
	for _, u := range s.UnitsOf(me) {
		idx, ok := s.Board.Lookup(u.Position)
		if !ok {
			continue
		}
		total += s.Board.CoordOf(idx).DistanceTo(target)
	}
	return total
}
