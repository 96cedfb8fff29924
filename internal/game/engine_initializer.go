package game

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"

	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/mapgen"
)

// matchNamespace scopes the name-based UUIDs used as match ids.
var matchNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("hexskirmish/match"))

// StartingArmy is the roster each side deploys, in deployment order.
var StartingArmy = []core.UnitType{core.Cavalry, core.Infantry, core.Infantry, core.Archer}

// MatchID derives the stable id of a match from its seed and participants.
func MatchID(seed int64, participants [2]string) string {
	name := strconv.FormatInt(seed, 10) + "\x00" + participants[0] + "\x00" + participants[1]
	return uuid.NewSHA1(matchNamespace, []byte(name)).String()
}

// MatchInitializer builds the initial snapshot of a match
type MatchInitializer struct {
	config MatchConfig
	rules  core.Ruleset
	logger zerolog.Logger
}

// NewMatchInitializer creates a new match initializer
func NewMatchInitializer(cfg MatchConfig, rs core.Ruleset, logger zerolog.Logger) *MatchInitializer {
	return &MatchInitializer{
		config: cfg,
		rules:  rs,
		logger: logger.With().Str("component", "MatchInitializer").Logger(),
	}
}

// Initialize generates the map from seed, seats both participants and
// deploys their starting armies. The same arguments always produce the same
// snapshot.
func (mi *MatchInitializer) Initialize(ctx context.Context, seed int64, participants [2]string) (*core.MatchState, error) {
	select {
	case <-ctx.Done():
		mi.logger.Error().Err(ctx.Err()).Msg("Match creation cancelled before map generation")
		return nil, ctx.Err()
	default:
	}

	for i, name := range participants {
		if name == "" {
			return nil, fmt.Errorf("%w: participant %d has no name", core.ErrInvalidConfig, i)
		}
	}

	board, layout, err := mi.generateMap(seed)
	if err != nil {
		return nil, fmt.Errorf("map generation failed: %w", err)
	}

	s := &core.MatchState{
		MatchID:          MatchID(seed, participants),
		Seed:             seed,
		Board:            board,
		Turn:             1,
		ActivePlayer:     core.PlayerA,
		ActionsRemaining: mi.config.ActionsPerTurn,
		ActionsPerTurn:   mi.config.ActionsPerTurn,
		TurnLimit:        mi.config.TurnLimit,
		Status:           core.StatusActive,
	}
	mi.initializePlayers(s, participants)

	if err := mi.deployArmy(s, core.PlayerA, layout.DeployA); err != nil {
		return nil, err
	}
	if err := mi.deployArmy(s, core.PlayerB, layout.DeployB); err != nil {
		return nil, err
	}

	mi.logger.Info().
		Str("match_id", s.MatchID).
		Int64("seed", seed).
		Int("columns", board.Columns).
		Int("rows", board.Rows).
		Str("player_a", participants[0]).
		Str("player_b", participants[1]).
		Msg("Match created")
	return s, nil
}

// generateMap lays out the board and fills resource node reserves
func (mi *MatchInitializer) generateMap(seed int64) (core.Board, mapgen.Layout, error) {
	mapCfg, err := mapgen.DefaultMapConfig(mi.config.BoardColumns)
	if err != nil {
		return core.Board{}, mapgen.Layout{}, err
	}
	rng := rand.New(rand.NewSource(uint64(seed)))
	board, layout, err := mapgen.NewGenerator(mapCfg, rng).GenerateMap()
	if err != nil {
		return core.Board{}, mapgen.Layout{}, err
	}
	for i := range board.Hexes {
		if _, reserve := mi.rules.NodeYield(board.Hexes[i].Type); reserve > 0 {
			board.Hexes[i].Reserve = reserve
		}
	}
	return board, layout, nil
}

// initializePlayers seats both sides with starting resources
func (mi *MatchInitializer) initializePlayers(s *core.MatchState, participants [2]string) {
	for i, id := range core.Players {
		s.Players[i] = core.Player{
			ID:          id,
			Name:        participants[i],
			Gold:        mi.rules.StartingGold,
			Wood:        mi.rules.StartingWood,
			NextUnitSeq: 1,
		}
	}
}

// deployArmy places the starting army of one side on its deployment hexes
func (mi *MatchInitializer) deployArmy(s *core.MatchState, owner core.PlayerID, deploy []int) error {
	if len(deploy) < len(StartingArmy) {
		return fmt.Errorf("%w: %d deployment hexes for %d units", core.ErrInvalidConfig, len(deploy), len(StartingArmy))
	}
	p := s.Player(owner)
	for i, t := range StartingArmy {
		hex := &s.Board.Hexes[deploy[i]]
		stats := mi.rules.StatsFor(t, 1)
		u := core.Unit{
			ID:             fmt.Sprintf("%s-%d", owner, p.NextUnitSeq),
			Type:           t,
			Tier:           1,
			Owner:          owner,
			Position:       hex.ID,
			HP:             stats.HP,
			MaxHP:          stats.HP,
			CanActThisTurn: true,
		}
		if err := s.PlaceUnit(u); err != nil {
			return err
		}
		p.NextUnitSeq++
		hex.ControlledBy = owner
	}
	return nil
}
