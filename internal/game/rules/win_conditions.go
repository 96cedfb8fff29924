package rules

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
)

// Outcome is the verdict of a victory check.
type Outcome struct {
	Ended  bool
	Reason core.EndReason
	// Winner is core.NoPlayer for a draw.
	Winner core.PlayerID
}

// WinConditionChecker handles game over detection and winner determination
type WinConditionChecker struct {
	logger zerolog.Logger
}

// NewWinConditionChecker creates a new win condition checker
func NewWinConditionChecker(logger zerolog.Logger) *WinConditionChecker {
	return &WinConditionChecker{
		logger: logger.With().Str("component", "WinConditionChecker").Logger(),
	}
}

// Check evaluates the terminal conditions in priority order: stronghold
// capture, elimination, then the turn limit. limitReached is set when B has
// just ended the final turn.
func (wc *WinConditionChecker) Check(s *core.MatchState, limitReached bool) Outcome {
	if winner := strongholdCapturer(s); winner != core.NoPlayer {
		wc.logger.Info().Str("winner", string(winner)).Msg("Stronghold captured")
		return Outcome{Ended: true, Reason: core.EndStrongholdCapture, Winner: winner}
	}

	aUnits, bUnits := s.UnitCount(core.PlayerA), s.UnitCount(core.PlayerB)
	switch {
	case aUnits == 0 && bUnits == 0:
		wc.logger.Info().Msg("Both sides eliminated")
		return Outcome{Ended: true, Reason: core.EndDraw}
	case aUnits == 0:
		return Outcome{Ended: true, Reason: core.EndElimination, Winner: core.PlayerB}
	case bUnits == 0:
		return Outcome{Ended: true, Reason: core.EndElimination, Winner: core.PlayerA}
	}

	if limitReached {
		out := wc.tiebreak(s)
		wc.logger.Info().
			Str("reason", string(out.Reason)).
			Str("winner", string(out.Winner)).
			Int("turn", s.Turn).
			Msg("Turn limit reached")
		return out
	}

	wc.logger.Debug().Int("a_units", aUnits).Int("b_units", bUnits).Msg("Game over check complete")
	return Outcome{}
}

// tiebreak resolves a turn-limit finish: VP, then controlled hexes, else draw.
func (wc *WinConditionChecker) tiebreak(s *core.MatchState) Outcome {
	a, b := s.Player(core.PlayerA), s.Player(core.PlayerB)
	switch {
	case a.VP > b.VP:
		return Outcome{Ended: true, Reason: core.EndTurnLimit, Winner: core.PlayerA}
	case b.VP > a.VP:
		return Outcome{Ended: true, Reason: core.EndTurnLimit, Winner: core.PlayerB}
	}

	aHexes, bHexes := s.Board.ControlledCount(core.PlayerA), s.Board.ControlledCount(core.PlayerB)
	switch {
	case aHexes > bHexes:
		return Outcome{Ended: true, Reason: core.EndTurnLimit, Winner: core.PlayerA}
	case bHexes > aHexes:
		return Outcome{Ended: true, Reason: core.EndTurnLimit, Winner: core.PlayerB}
	}
	return Outcome{Ended: true, Reason: core.EndDraw}
}

// strongholdCapturer returns the side occupying the other side's stronghold.
func strongholdCapturer(s *core.MatchState) core.PlayerID {
	for idx := range s.Board.Hexes {
		hex := &s.Board.Hexes[idx]
		owner := hex.Type.StrongholdOf()
		if owner == core.NoPlayer || hex.IsEmpty() {
			continue
		}
		if u := s.Unit(hex.UnitIDs[0]); u != nil && u.Owner != owner {
			return u.Owner
		}
	}
	return core.NoPlayer
}
