package states

import (
	"fmt"

	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
)

// MatchPhase represents the current phase of a match
type MatchPhase int

const (
	// PhaseSetup - Map generated, armies deployed, nobody to move yet
	PhaseSetup MatchPhase = iota

	// PhaseAwaitingA - Waiting for player A's actions
	PhaseAwaitingA

	// PhaseAwaitingB - Waiting for player B's actions
	PhaseAwaitingB

	// PhaseEnded - Final state
	PhaseEnded
)

// String returns the string representation of a MatchPhase
func (p MatchPhase) String() string {
	switch p {
	case PhaseSetup:
		return "Setup"
	case PhaseAwaitingA:
		return "AwaitingA"
	case PhaseAwaitingB:
		return "AwaitingB"
	case PhaseEnded:
		return "Ended"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if the phase represents a terminal state
func (p MatchPhase) IsTerminal() bool {
	return p == PhaseEnded
}

// CanReceiveActions returns true if a player may act in this phase
func (p MatchPhase) CanReceiveActions() bool {
	return p == PhaseAwaitingA || p == PhaseAwaitingB
}

// Player returns the player a phase waits on, or core.NoPlayer.
func (p MatchPhase) Player() core.PlayerID {
	switch p {
	case PhaseAwaitingA:
		return core.PlayerA
	case PhaseAwaitingB:
		return core.PlayerB
	}
	return core.NoPlayer
}

// PhaseFor returns the awaiting phase of a player.
func PhaseFor(p core.PlayerID) MatchPhase {
	if p == core.PlayerB {
		return PhaseAwaitingB
	}
	return PhaseAwaitingA
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p MatchPhase) AllowedTransitions() []MatchPhase {
	switch p {
	case PhaseSetup:
		return []MatchPhase{PhaseAwaitingA, PhaseEnded}
	case PhaseAwaitingA:
		return []MatchPhase{PhaseAwaitingB, PhaseEnded}
	case PhaseAwaitingB:
		return []MatchPhase{PhaseAwaitingA, PhaseEnded}
	default:
		return []MatchPhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p MatchPhase) CanTransitionTo(target MatchPhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// ParsePhase converts a string to a MatchPhase
func ParsePhase(s string) (MatchPhase, error) {
	switch s {
	case "Setup":
		return PhaseSetup, nil
	case "AwaitingA":
		return PhaseAwaitingA, nil
	case "AwaitingB":
		return PhaseAwaitingB, nil
	case "Ended":
		return PhaseEnded, nil
	default:
		return PhaseSetup, fmt.Errorf("unknown phase %q", s)
	}
}
