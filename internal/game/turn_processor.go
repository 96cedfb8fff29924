package game

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/events"
)

// TurnProcessor handles the hand-over between players on end_turn
type TurnProcessor struct {
	production *ProductionManager
	logger     zerolog.Logger
}

// NewTurnProcessor creates a new turn processor
func NewTurnProcessor(production *ProductionManager, logger zerolog.Logger) *TurnProcessor {
	return &TurnProcessor{
		production: production,
		logger:     logger.With().Str("component", "TurnProcessor").Logger(),
	}
}

// EndTurn passes control to the other player and resets that player's
// units. When A becomes active the round is complete. limitReached reports
// that the round just finished was the last one; the turn counter and the
// economy then stay put and the caller's victory check ends the match.
func (tp *TurnProcessor) EndTurn(s *core.MatchState) (evs []events.Event, limitReached bool) {
	from := s.ActivePlayer
	to := from.Opponent()
	roundComplete := to == core.PlayerA
	limitReached = roundComplete && s.Turn >= s.TurnLimit

	s.ActivePlayer = to
	s.ActionsRemaining = s.ActionsPerTurn
	for _, u := range s.UnitsOf(to) {
		u.ResetTurnFlags()
	}

	var income []events.Event
	if roundComplete && !limitReached {
		s.Turn++
		income = tp.production.ProcessIncome(s)
	}

	tp.logger.Debug().
		Str("from", string(from)).
		Str("to", string(to)).
		Int("turn", s.Turn).
		Bool("round_complete", roundComplete).
		Msg("Turn ended")

	evs = append(evs, &events.TurnEndEvent{
		BaseEvent:     events.Base(events.TypeTurnEnd, s),
		From:          from,
		To:            to,
		Turn:          s.Turn,
		RoundComplete: roundComplete,
	})
	return append(evs, income...), limitReached
}
