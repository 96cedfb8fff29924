// Package match drives complete matches: it asks move providers for moves,
// applies them through the engine, records artifacts and runs many matches
// on a bounded worker pool.
package match

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/mitchelldurbincs/HexSkirmish/internal/game"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
)

var ErrUnknownProvider = errors.New("unknown move provider")

// MoveProvider chooses moves for the active player. It may return several
// moves; they are applied in order and each one is re-validated.
type MoveProvider interface {
	Provide(ctx context.Context, s *core.MatchState, legal []core.Move, turn int, rng *rand.Rand) ([]core.Move, error)
}

// ProviderFunc adapts a plain function to MoveProvider.
type ProviderFunc func(ctx context.Context, s *core.MatchState, legal []core.Move, turn int, rng *rand.Rand) ([]core.Move, error)

func (f ProviderFunc) Provide(ctx context.Context, s *core.MatchState, legal []core.Move, turn int, rng *rand.Rand) ([]core.Move, error) {
	return f(ctx, s, legal, turn, rng)
}

// Provider names accepted by NewProvider.
const (
	ProviderRandom = "random"
	ProviderGreedy = "greedy"
)

// NewProvider builds a built-in bot by name.
func NewProvider(name string, engine *game.Engine) (MoveProvider, error) {
	switch name {
	case ProviderRandom:
		return RandomBot{}, nil
	case ProviderGreedy:
		return NewGreedyBot(engine), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
}
