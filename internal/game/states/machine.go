package states

import (
	"fmt"
	"sync"

	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/events"
)

// State represents a match phase with lifecycle callbacks
type State interface {
	// Phase returns the MatchPhase this state represents
	Phase() MatchPhase

	// Enter is called when transitioning into this state
	Enter(ctx *MatchContext) error

	// Exit is called when transitioning out of this state
	Exit(ctx *MatchContext) error

	// Validate checks if the state is valid given the context
	Validate(ctx *MatchContext) error
}

// TurnScheduler decides who acts. The engine state stays authoritative;
// a scheduler only mirrors it and reports hand-overs.
type TurnScheduler interface {
	FirstPlayer() core.PlayerID
	NextPlayer(current core.PlayerID) core.PlayerID
	OnTurnBegin(player core.PlayerID, turn int) error
}

// Transition represents a phase change in the history
type Transition struct {
	From   MatchPhase
	To     MatchPhase
	Ply    int
	Reason string
}

// StateMachine tracks the phase of one match and implements TurnScheduler
type StateMachine struct {
	mu             sync.RWMutex
	currentPhase   MatchPhase
	states         map[MatchPhase]State
	context        *MatchContext
	history        []Transition
	maxHistorySize int
	publisher      events.Publisher
}

var _ TurnScheduler = (*StateMachine)(nil)

// NewStateMachine creates a new state machine in PhaseSetup. publisher may
// be nil.
func NewStateMachine(ctx *MatchContext, publisher events.Publisher) *StateMachine {
	sm := &StateMachine{
		currentPhase:   PhaseSetup,
		states:         make(map[MatchPhase]State),
		context:        ctx,
		history:        make([]Transition, 0, 64),
		maxHistorySize: 1000,
		publisher:      publisher,
	}

	sm.registerDefaultStates()
	return sm
}

// registerDefaultStates registers the built-in state implementations
func (sm *StateMachine) registerDefaultStates() {
	sm.RegisterState(NewSetupState())
	sm.RegisterState(NewAwaitingState(PhaseAwaitingA))
	sm.RegisterState(NewAwaitingState(PhaseAwaitingB))
	sm.RegisterState(NewEndedState())
}

// RegisterState registers a state implementation
func (sm *StateMachine) RegisterState(state State) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.states[state.Phase()] = state
}

// CurrentPhase returns the current match phase
func (sm *StateMachine) CurrentPhase() MatchPhase {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase
}

// TransitionTo attempts to transition to the specified phase
func (sm *StateMachine) TransitionTo(targetPhase MatchPhase, reason string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return sm.transitionLocked(targetPhase, reason)
}

func (sm *StateMachine) transitionLocked(targetPhase MatchPhase, reason string) error {
	if !sm.currentPhase.CanTransitionTo(targetPhase) {
		return fmt.Errorf("invalid transition from %s to %s", sm.currentPhase, targetPhase)
	}

	currentState, hasCurrentState := sm.states[sm.currentPhase]
	targetState, hasTargetState := sm.states[targetPhase]
	if !hasTargetState {
		return fmt.Errorf("no state implementation for phase %s", targetPhase)
	}

	if err := targetState.Validate(sm.context); err != nil {
		return fmt.Errorf("target state validation failed: %w", err)
	}

	if hasCurrentState {
		if err := currentState.Exit(sm.context); err != nil {
			sm.context.Logger.Error().
				Err(err).
				Str("from_phase", sm.currentPhase.String()).
				Str("to_phase", targetPhase.String()).
				Msg("Error exiting state")
			// Continue with transition despite exit error
		}
	}

	sm.addToHistory(Transition{
		From:   sm.currentPhase,
		To:     targetPhase,
		Ply:    sm.context.Ply,
		Reason: reason,
	})

	previousPhase := sm.currentPhase
	sm.currentPhase = targetPhase

	if err := targetState.Enter(sm.context); err != nil {
		// Rollback on enter failure
		sm.currentPhase = previousPhase
		return fmt.Errorf("failed to enter state %s: %w", targetPhase, err)
	}

	if sm.publisher != nil {
		sm.publisher.Publish(&events.StateTransitionEvent{
			BaseEvent: events.BaseEvent{EventType: events.TypeStateTransition, Match: sm.context.MatchID, AtPly: sm.context.Ply},
			From:      previousPhase.String(),
			To:        targetPhase.String(),
			Reason:    reason,
		})
	}

	sm.context.Logger.Debug().
		Str("from_phase", previousPhase.String()).
		Str("to_phase", targetPhase.String()).
		Str("reason", reason).
		Msg("State transition completed")

	return nil
}

// FirstPlayer returns the player who opens every match.
func (sm *StateMachine) FirstPlayer() core.PlayerID { return core.PlayerA }

// NextPlayer returns who acts after current ends their turn.
func (sm *StateMachine) NextPlayer(current core.PlayerID) core.PlayerID { return current.Opponent() }

// OnTurnBegin records a hand-over to player.
func (sm *StateMachine) OnTurnBegin(player core.PlayerID, turn int) error {
	if !player.Valid() {
		return fmt.Errorf("%w: %q", core.ErrInvalidPlayer, player)
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.context.Turn = turn
	target := PhaseFor(player)
	if sm.currentPhase == target {
		return nil
	}
	return sm.transitionLocked(target, fmt.Sprintf("turn %d begins for %s", turn, player))
}

// Sync brings the machine in line with a snapshot: an ended snapshot moves
// it to PhaseEnded, otherwise it waits on the snapshot's active player.
func (sm *StateMachine) Sync(s *core.MatchState) error {
	sm.mu.Lock()
	sm.context.Ply = s.Ply
	if s.IsEnded() {
		defer sm.mu.Unlock()
		if sm.currentPhase == PhaseEnded {
			return nil
		}
		sm.context.Turn = s.Turn
		sm.context.Winner = s.Winner
		sm.context.EndReason = s.EndReason
		return sm.transitionLocked(PhaseEnded, string(s.EndReason))
	}
	sm.mu.Unlock()
	return sm.OnTurnBegin(s.ActivePlayer, s.Turn)
}

// addToHistory adds a transition to the history, maintaining max size
func (sm *StateMachine) addToHistory(transition Transition) {
	sm.history = append(sm.history, transition)

	if len(sm.history) > sm.maxHistorySize {
		sm.history = sm.history[len(sm.history)-sm.maxHistorySize:]
	}
}

// GetHistory returns a copy of the transition history
func (sm *StateMachine) GetHistory() []Transition {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	history := make([]Transition, len(sm.history))
	copy(history, sm.history)
	return history
}

// GetContext returns the match context
func (sm *StateMachine) GetContext() *MatchContext {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.context
}

// CanTransitionTo checks if a transition to the target phase is allowed
func (sm *StateMachine) CanTransitionTo(targetPhase MatchPhase) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase.CanTransitionTo(targetPhase)
}
