package replay

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexSkirmish/internal/game"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/encoding"
)

// Mismatch kinds reported by Verify.
const (
	KindPreState   = "pre-state hash mismatch"
	KindPostState  = "post-state hash mismatch"
	KindFinalState = "final state hash mismatch"
	KindRejected   = "rejected move"
	KindPly        = "ply number mismatch"
	KindPlayer     = "acting player mismatch"
)

// MismatchError is a verification failure at one ply. Ply is 0 for the
// final-state check.
type MismatchError struct {
	Ply      int
	Kind     string
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("ply %d: %s: expected %s, got %s", e.Ply, e.Kind, e.Expected, e.Actual)
}

// Options tunes Verify.
type Options struct {
	Logger zerolog.Logger
}

// Report describes a successful verification.
type Report struct {
	MatchID        string
	Plies          int
	FinalStateHash string
	Final          *core.MatchState
}

// Verify rebuilds the match from the artifact's seed, participants and
// config, replays every accepted move through a fresh engine and checks
// each hash. It stops at the first mismatch.
func Verify(ctx context.Context, a *Artifact, opts Options) (Report, error) {
	if err := a.CheckFormat(); err != nil {
		return Report{}, err
	}
	logger := opts.Logger.With().Str("component", "ReplayVerifier").Str("match_id", a.MatchID).Logger()

	engine, err := game.NewEngine(game.Config{MatchConfig: a.Config, Logger: opts.Logger})
	if err != nil {
		return Report{}, fmt.Errorf("engine config: %w", err)
	}
	s, err := engine.NewMatch(ctx, a.Seed, a.Participants)
	if err != nil {
		return Report{}, fmt.Errorf("rebuild initial state: %w", err)
	}

	for _, rec := range a.AcceptedMoves {
		select {
		case <-ctx.Done():
			return Report{}, ctx.Err()
		default:
		}

		ply := s.Ply + 1
		if rec.Ply != ply {
			return Report{}, &MismatchError{Ply: ply, Kind: KindPly, Expected: fmt.Sprint(ply), Actual: fmt.Sprint(rec.Ply)}
		}
		if rec.PlayerID != s.ActivePlayer {
			return Report{}, &MismatchError{Ply: ply, Kind: KindPlayer, Expected: string(s.ActivePlayer), Actual: string(rec.PlayerID)}
		}

		pre, err := encoding.StateHash(s)
		if err != nil {
			return Report{}, err
		}
		if pre != rec.PreHash {
			return Report{}, &MismatchError{Ply: rec.Ply, Kind: KindPreState, Expected: rec.PreHash, Actual: pre}
		}

		res := engine.ApplyMove(s, rec.EngineMove.Move)
		if !res.OK {
			return Report{}, &MismatchError{Ply: rec.Ply, Kind: KindRejected, Expected: "accepted", Actual: res.Err().Error()}
		}
		s = res.State

		post, err := encoding.StateHash(s)
		if err != nil {
			return Report{}, err
		}
		if post != rec.PostHash {
			return Report{}, &MismatchError{Ply: rec.Ply, Kind: KindPostState, Expected: rec.PostHash, Actual: post}
		}
	}

	final, err := encoding.StateHash(s)
	if err != nil {
		return Report{}, err
	}
	if final != a.FinalStateHash {
		return Report{}, &MismatchError{Kind: KindFinalState, Expected: a.FinalStateHash, Actual: final}
	}

	logger.Info().Int("plies", len(a.AcceptedMoves)).Str("final_hash", final).Msg("Replay verified")
	return Report{MatchID: a.MatchID, Plies: len(a.AcceptedMoves), FinalStateHash: final, Final: s}, nil
}
