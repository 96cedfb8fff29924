package match

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"

	"github.com/mitchelldurbincs/HexSkirmish/internal/game"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/events"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/processor"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/states"
	"github.com/mitchelldurbincs/HexSkirmish/internal/replay"
)

// FallbackPolicy decides what happens to a player whose provider times out,
// fails, or keeps sending illegal moves.
type FallbackPolicy string

const (
	FallbackEndTurn FallbackPolicy = "end_turn"
	FallbackForfeit FallbackPolicy = "forfeit"
)

// EndForfeit is the result reason for a match stopped by FallbackForfeit.
// It never appears in engine state.
const EndForfeit core.EndReason = "forfeit"

var (
	ErrInvalidFallback = errors.New("invalid fallback policy")
	ErrProviderPanic   = errors.New("move provider panicked")
)

// ParseFallback validates a policy name.
func ParseFallback(s string) (FallbackPolicy, error) {
	switch p := FallbackPolicy(s); p {
	case FallbackEndTurn, FallbackForfeit:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFallback, s)
}

// RunnerConfig configures how matches are driven.
type RunnerConfig struct {
	Match             game.MatchConfig
	ProviderTimeout   time.Duration
	Fallback          FallbackPolicy
	MaxIllegalPerTurn int
	Logger            zerolog.Logger
	Publisher         events.Publisher
}

// Spec describes one match to run.
type Spec struct {
	Seed         int64
	Participants [2]string
	Providers    [2]MoveProvider
}

// Outcome is the result of one match.
type Outcome struct {
	MatchID  string
	Seed     int64
	Winner   core.PlayerID
	Reason   core.EndReason
	Turns    int
	Plies    int
	Illegal  map[core.PlayerID]int
	Stats    [2]game.PlayerStats
	Artifact *replay.Artifact
	Err      error
}

// Runner plays matches to completion.
type Runner struct {
	config    RunnerConfig
	logger    zerolog.Logger
	abandoned atomic.Int64
}

func NewRunner(cfg RunnerConfig) (*Runner, error) {
	cfg.Match = cfg.Match.WithDefaults()
	if err := cfg.Match.Validate(); err != nil {
		return nil, err
	}
	if cfg.Fallback == "" {
		cfg.Fallback = FallbackEndTurn
	}
	if _, err := ParseFallback(string(cfg.Fallback)); err != nil {
		return nil, err
	}
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = 2 * time.Second
	}
	if cfg.MaxIllegalPerTurn <= 0 {
		cfg.MaxIllegalPerTurn = 3
	}
	return &Runner{
		config: cfg,
		logger: cfg.Logger.With().Str("component", "MatchRunner").Logger(),
	}, nil
}

// matchRun is the per-match state owned by one goroutine.
type matchRun struct {
	spec      Spec
	engine    *game.Engine
	processor *processor.ActionProcessor
	machine   *states.StateMachine
	recorder  *replay.Recorder
	rng       *rand.Rand
	logger    zerolog.Logger

	state           *core.MatchState
	illegal         map[core.PlayerID]int
	illegalThisTurn int
	forfeiter       core.PlayerID
}

// Run plays one match. Errors from providers are handled by the fallback
// policy; the returned error is reserved for cancellation and engine faults.
func (r *Runner) Run(ctx context.Context, spec Spec) (Outcome, error) {
	engine, err := game.NewEngine(game.Config{
		MatchConfig: r.config.Match,
		Logger:      r.config.Logger,
		Publisher:   r.config.Publisher,
	})
	if err != nil {
		return Outcome{}, err
	}
	for i, p := range spec.Providers {
		if p == nil {
			return Outcome{}, fmt.Errorf("%w: no provider for %s", ErrUnknownProvider, core.Players[i])
		}
	}

	s, err := engine.NewMatch(ctx, spec.Seed, spec.Participants)
	if err != nil {
		return Outcome{}, fmt.Errorf("create match: %w", err)
	}
	logger := r.logger.With().Str("match_id", s.MatchID).Int64("seed", spec.Seed).Logger()

	run := &matchRun{
		spec:      spec,
		engine:    engine,
		processor: processor.NewActionProcessor(engine, r.config.Logger),
		machine:   states.NewStateMachine(states.NewMatchContext(s.MatchID, r.config.Logger), r.config.Publisher),
		recorder:  replay.NewRecorder(s, engine.Config(), spec.Participants),
		rng:       rand.New(rand.NewSource(uint64(spec.Seed))),
		logger:    logger,
		state:     s,
		illegal:   map[core.PlayerID]int{core.PlayerA: 0, core.PlayerB: 0},
	}
	if first := run.machine.FirstPlayer(); s.ActivePlayer != first {
		return Outcome{}, fmt.Errorf("match opens with %s, scheduler expects %s", s.ActivePlayer, first)
	}
	logger.Info().Str("player_a", spec.Participants[0]).Str("player_b", spec.Participants[1]).Msg("Match started")

	if err := r.loop(ctx, run); err != nil {
		return Outcome{}, err
	}
	return r.finish(run)
}

func (r *Runner) loop(ctx context.Context, run *matchRun) error {
	for !run.state.IsEnded() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := run.machine.Sync(run.state); err != nil {
			return fmt.Errorf("sync state machine: %w", err)
		}

		s := run.state
		player := s.ActivePlayer
		legal := run.engine.LegalMoves(s)

		moves, err := r.provide(ctx, run.spec.Providers[player.Index()], s, legal, run.rng)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			run.logger.Warn().Err(err).Str("player", string(player)).Int("turn", s.Turn).Msg("Move provider failed")
			if done, err := r.fallback(ctx, run); done || err != nil {
				return err
			}
			continue
		}
		if len(moves) == 0 {
			moves = []core.Move{core.EndTurnAction{}}
		}

		res, err := run.processor.ProcessBatch(ctx, s, moves)
		if err != nil {
			return err
		}
		run.recorder.Record(res.Applied...)
		run.state = res.State

		if n := len(res.Rejected); n > 0 {
			run.illegal[player] += n
			run.illegalThisTurn += n
			for _, rej := range res.Rejected {
				run.logger.Debug().Err(rej.Err).Str("player", string(player)).Str("reason", string(rej.Reason)).Msg("Move rejected")
			}
		}
		if res.TurnPassed(player) {
			run.illegalThisTurn = 0
			if next := run.machine.NextPlayer(player); !run.state.IsEnded() && run.state.ActivePlayer != next {
				return fmt.Errorf("hand-over to %s, scheduler expects %s", run.state.ActivePlayer, next)
			}
			continue
		}
		if run.state.IsEnded() {
			break
		}
		if run.illegalThisTurn >= r.config.MaxIllegalPerTurn {
			run.logger.Warn().Str("player", string(player)).Int("illegal", run.illegalThisTurn).Msg("Illegal move limit reached")
			if done, err := r.fallback(ctx, run); done || err != nil {
				return err
			}
		}
	}
	return run.machine.Sync(run.state)
}

// provide calls the provider under the per-call timeout. A provider that
// ignores its context is abandoned when the timeout fires.
func (r *Runner) provide(ctx context.Context, p MoveProvider, s *core.MatchState, legal []core.Move, rng *rand.Rand) ([]core.Move, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.config.ProviderTimeout)
	defer cancel()

	type reply struct {
		moves []core.Move
		err   error
	}
	// The provider gets its own rng so an abandoned call cannot race the
	// match stream.
	providerRNG := rand.New(rand.NewSource(rng.Uint64()))
	done := make(chan reply, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- reply{err: fmt.Errorf("%w: %v", ErrProviderPanic, rec)}
			}
		}()
		moves, err := p.Provide(callCtx, s, legal, s.Turn, providerRNG)
		done <- reply{moves: moves, err: err}
	}()

	select {
	case rep := <-done:
		return rep.moves, rep.err
	case <-callCtx.Done():
		r.abandoned.Add(1)
		return nil, callCtx.Err()
	}
}

// Abandoned counts provider calls given up on after their timeout.
func (r *Runner) Abandoned() int64 { return r.abandoned.Load() }

// fallback applies the configured policy to the active player. It reports
// done when the match is over.
func (r *Runner) fallback(ctx context.Context, run *matchRun) (bool, error) {
	player := run.state.ActivePlayer
	run.illegalThisTurn = 0

	if r.config.Fallback == FallbackForfeit {
		run.forfeiter = player
		mc := run.machine.GetContext()
		mc.Winner = player.Opponent()
		mc.EndReason = EndForfeit
		mc.Turn = run.state.Turn
		if err := run.machine.TransitionTo(states.PhaseEnded, fmt.Sprintf("%s forfeits", player)); err != nil {
			return true, fmt.Errorf("forfeit transition: %w", err)
		}
		run.logger.Info().Str("player", string(player)).Msg("Player forfeits")
		return true, nil
	}

	res, err := run.processor.ProcessBatch(ctx, run.state, []core.Move{core.EndTurnAction{}})
	if err != nil {
		return true, err
	}
	if len(res.Applied) == 0 {
		return true, fmt.Errorf("fallback end_turn rejected at ply %d", run.state.Ply)
	}
	run.recorder.Record(res.Applied...)
	run.state = res.State
	return false, nil
}

func (r *Runner) finish(run *matchRun) (Outcome, error) {
	artifact, err := run.recorder.Finish(run.state, run.illegal)
	if err != nil {
		return Outcome{}, err
	}
	if run.forfeiter != core.NoPlayer {
		artifact.Result.Winner = run.forfeiter.Opponent()
		artifact.Result.Reason = EndForfeit
	}

	out := Outcome{
		MatchID:  run.state.MatchID,
		Seed:     run.spec.Seed,
		Winner:   artifact.Result.Winner,
		Reason:   artifact.Result.Reason,
		Turns:    run.state.Turn,
		Plies:    run.recorder.Len(),
		Illegal:  artifact.Result.IllegalMoves,
		Stats:    game.ComputeStats(run.state),
		Artifact: artifact,
	}
	run.logger.Info().
		Str("winner", string(out.Winner)).
		Str("reason", string(out.Reason)).
		Int("turns", out.Turns).
		Int("plies", out.Plies).
		Msg("Match finished")
	return out, nil
}
