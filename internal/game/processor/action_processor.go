// Package processor applies batches of moves from one provider call and
// checkpoints the state hash around every accepted move.
package processor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexSkirmish/internal/game"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/encoding"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/events"
)

// Applier is the engine surface the processor needs.
type Applier interface {
	ApplyMove(s *core.MatchState, m core.Move) game.Result
}

// AppliedMove is one accepted move with the hashes of the snapshots on
// either side of it.
type AppliedMove struct {
	Ply      int
	Player   core.PlayerID
	Move     core.Move
	PreHash  string
	PostHash string
	Events   []events.Event
}

// Rejection is a move from the batch the engine refused.
type Rejection struct {
	Index  int
	Move   core.Move
	Reason core.RejectReason
	Err    error
}

// BatchResult is the outcome of ProcessBatch.
type BatchResult struct {
	State    *core.MatchState
	Applied  []AppliedMove
	Rejected []Rejection
	// Skipped counts moves left unprocessed because the turn passed or the
	// match ended part way through the batch.
	Skipped int
}

// TurnPassed reports whether the batch handed the turn to the other player.
func (r BatchResult) TurnPassed(before core.PlayerID) bool {
	return r.State.ActivePlayer != before
}

// ActionProcessor applies move batches for the active player
type ActionProcessor struct {
	engine Applier
	logger zerolog.Logger
}

// NewActionProcessor creates a new action processor
func NewActionProcessor(engine Applier, logger zerolog.Logger) *ActionProcessor {
	return &ActionProcessor{
		engine: engine,
		logger: logger.With().Str("component", "ActionProcessor").Logger(),
	}
}

// ProcessBatch applies moves in order. Every move is validated against the
// snapshot it lands on; rejected moves are recorded and skipped. Processing
// stops once the turn passes to the other player or the match ends. On
// context cancellation the partial result is returned with ctx.Err().
func (ap *ActionProcessor) ProcessBatch(ctx context.Context, s *core.MatchState, moves []core.Move) (BatchResult, error) {
	res := BatchResult{State: s}
	player := s.ActivePlayer
	preHash, err := encoding.StateHash(s)
	if err != nil {
		return res, fmt.Errorf("hash state at ply %d: %w", s.Ply, err)
	}

	for i, m := range moves {
		select {
		case <-ctx.Done():
			ap.logger.Warn().Err(ctx.Err()).Int("processed", i).Msg("Batch processing interrupted by context cancellation")
			return res, ctx.Err()
		default:
		}

		if res.State.IsEnded() || res.State.ActivePlayer != player {
			res.Skipped = len(moves) - i
			ap.logger.Debug().Int("skipped", res.Skipped).Msg("Dropping moves after turn hand-over")
			break
		}

		out := ap.engine.ApplyMove(res.State, m)
		if !out.OK {
			ap.logger.Debug().
				Err(out.Err()).
				Str("player", string(player)).
				Str("reason", string(out.Reason)).
				Msg("Move rejected")
			res.Rejected = append(res.Rejected, Rejection{Index: i, Move: m, Reason: out.Reason, Err: out.Err()})
			continue
		}

		postHash, err := encoding.StateHash(out.State)
		if err != nil {
			return res, fmt.Errorf("hash state at ply %d: %w", out.State.Ply, err)
		}
		res.Applied = append(res.Applied, AppliedMove{
			Ply:      out.State.Ply,
			Player:   player,
			Move:     core.Normalize(m),
			PreHash:  preHash,
			PostHash: postHash,
			Events:   out.Events,
		})
		res.State = out.State
		preHash = postHash
	}
	return res, nil
}
