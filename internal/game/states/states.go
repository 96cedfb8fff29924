package states

import "fmt"

// SetupState is the phase before the first player is handed the turn
type SetupState struct{}

func NewSetupState() State {
	return &SetupState{}
}

func (s *SetupState) Phase() MatchPhase {
	return PhaseSetup
}

func (s *SetupState) Enter(ctx *MatchContext) error {
	ctx.Logger.Debug().Msg("Entering Setup state")
	return nil
}

func (s *SetupState) Exit(ctx *MatchContext) error {
	ctx.Logger.Debug().Msg("Match setup complete")
	return nil
}

func (s *SetupState) Validate(ctx *MatchContext) error {
	return nil
}

// AwaitingState waits for one player's actions
type AwaitingState struct {
	phase MatchPhase
}

func NewAwaitingState(phase MatchPhase) State {
	return &AwaitingState{phase: phase}
}

func (s *AwaitingState) Phase() MatchPhase {
	return s.phase
}

func (s *AwaitingState) Enter(ctx *MatchContext) error {
	ctx.Logger.Debug().
		Str("player", string(s.phase.Player())).
		Int("turn", ctx.Turn).
		Msg("Awaiting actions")
	return nil
}

func (s *AwaitingState) Exit(ctx *MatchContext) error {
	return nil
}

func (s *AwaitingState) Validate(ctx *MatchContext) error {
	if ctx.Turn < 1 {
		return fmt.Errorf("cannot await actions before turn 1, got %d", ctx.Turn)
	}
	return nil
}

// EndedState represents a completed match
type EndedState struct{}

func NewEndedState() State {
	return &EndedState{}
}

func (s *EndedState) Phase() MatchPhase {
	return PhaseEnded
}

func (s *EndedState) Enter(ctx *MatchContext) error {
	ctx.Logger.Info().
		Str("winner", string(ctx.Winner)).
		Str("reason", string(ctx.EndReason)).
		Int("turn", ctx.Turn).
		Msg("Match ended")
	return nil
}

func (s *EndedState) Exit(ctx *MatchContext) error {
	return fmt.Errorf("cannot exit ended state")
}

func (s *EndedState) Validate(ctx *MatchContext) error {
	if ctx.EndReason == "" {
		return fmt.Errorf("ended state requires an end reason")
	}
	return nil
}
