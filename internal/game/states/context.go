package states

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
)

// MatchContext provides match information to states for making decisions
type MatchContext struct {
	// MatchID uniquely identifies this match
	MatchID string

	// Logger for state-specific logging
	Logger zerolog.Logger

	// Turn is the turn number of the most recent OnTurnBegin
	Turn int

	// Ply is the number of accepted moves at the last sync
	Ply int

	// Winner and EndReason are set once the match has ended
	Winner    core.PlayerID
	EndReason core.EndReason
}

// NewMatchContext creates a new match context
func NewMatchContext(matchID string, logger zerolog.Logger) *MatchContext {
	return &MatchContext{
		MatchID: matchID,
		Logger:  logger.With().Str("match_id", matchID).Logger(),
	}
}
