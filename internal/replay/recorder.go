package replay

import (
	"fmt"

	"github.com/mitchelldurbincs/HexSkirmish/internal/game"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/encoding"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/processor"
)

// Recorder accumulates the accepted moves of one match.
type Recorder struct {
	artifact Artifact
}

// NewRecorder starts an artifact for the match whose initial snapshot is s.
func NewRecorder(s *core.MatchState, cfg game.MatchConfig, participants [2]string) *Recorder {
	return &Recorder{artifact: Artifact{
		ArtifactVersion: ArtifactVersion,
		HashAlgo:        encoding.HashAlgo,
		StateHashInput:  encoding.StateHashInput,
		MatchID:         s.MatchID,
		Seed:            s.Seed,
		Config:          cfg,
		Participants:    participants,
		AcceptedMoves:   []AcceptedMove{},
	}}
}

// Record appends accepted moves in the order they were applied.
func (r *Recorder) Record(moves ...processor.AppliedMove) {
	for _, m := range moves {
		r.artifact.AcceptedMoves = append(r.artifact.AcceptedMoves, AcceptedMove{
			Ply:        m.Ply,
			PlayerID:   m.Player,
			EngineMove: core.EncodedMove{Move: m.Move},
			PreHash:    m.PreHash,
			PostHash:   m.PostHash,
		})
	}
}

// Len returns the number of recorded plies.
func (r *Recorder) Len() int { return len(r.artifact.AcceptedMoves) }

// Finish seals the artifact with the final snapshot and illegal-move counts.
func (r *Recorder) Finish(final *core.MatchState, illegal map[core.PlayerID]int) (*Artifact, error) {
	hash, err := encoding.StateHash(final)
	if err != nil {
		return nil, fmt.Errorf("hash final state: %w", err)
	}
	counts := make(map[core.PlayerID]int, len(core.Players))
	for _, id := range core.Players {
		counts[id] = illegal[id]
	}

	a := r.artifact
	a.AcceptedMoves = append([]AcceptedMove(nil), r.artifact.AcceptedMoves...)
	a.Result = MatchResult{
		Winner:       final.Winner,
		Reason:       final.EndReason,
		Turns:        final.Turn,
		IllegalMoves: counts,
	}
	a.FinalStateHash = hash
	return &a, nil
}
