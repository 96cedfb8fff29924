package game

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/events"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/rules"
)

// MatchConfig is the part of the engine configuration a replay needs to
// rebuild a match. It is recorded verbatim in artifacts.
type MatchConfig struct {
	TurnLimit      int `json:"turnLimit"`
	ActionsPerTurn int `json:"actionsPerTurn"`
	BoardColumns   int `json:"boardColumns"`
}

// DefaultMatchConfig returns the standard 17-column, 30-turn setup.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		TurnLimit:      core.DefaultTurnLimit,
		ActionsPerTurn: core.DefaultActionsPerTurn,
		BoardColumns:   core.StandardColumns,
	}
}

// WithDefaults fills zero fields from DefaultMatchConfig.
func (c MatchConfig) WithDefaults() MatchConfig {
	def := DefaultMatchConfig()
	if c.TurnLimit == 0 {
		c.TurnLimit = def.TurnLimit
	}
	if c.ActionsPerTurn == 0 {
		c.ActionsPerTurn = def.ActionsPerTurn
	}
	if c.BoardColumns == 0 {
		c.BoardColumns = def.BoardColumns
	}
	return c
}

func (c MatchConfig) Validate() error {
	if c.TurnLimit < 1 {
		return fmt.Errorf("%w: turnLimit must be positive, got %d", core.ErrInvalidConfig, c.TurnLimit)
	}
	if c.ActionsPerTurn < 1 {
		return fmt.Errorf("%w: actionsPerTurn must be positive, got %d", core.ErrInvalidConfig, c.ActionsPerTurn)
	}
	if core.RowsForColumns(c.BoardColumns) == 0 {
		return fmt.Errorf("%w: %d columns (want %d or %d)",
			core.ErrUnsupportedBoardWidth, c.BoardColumns, core.StandardColumns, core.AlternateColumns)
	}
	return nil
}

// Config wires an Engine. Logger and Publisher are optional; a zero Logger
// discards output and a nil Publisher drops events after they are returned
// in the Result.
type Config struct {
	MatchConfig
	Logger    zerolog.Logger
	Publisher events.Publisher
}

// Engine applies moves to match snapshots. It keeps no per-match state, so
// one Engine can serve any number of matches sequentially.
type Engine struct {
	config            MatchConfig
	rules             core.Ruleset
	logger            zerolog.Logger
	publisher         events.Publisher
	legalMoves        *rules.LegalMoveCalculator
	combat            *rules.CombatResolver
	winCondition      *rules.WinConditionChecker
	productionManager *ProductionManager
	turnProcessor     *TurnProcessor
	initializer       *MatchInitializer
}

// NewEngine validates cfg and builds an engine around the standard ruleset.
func NewEngine(cfg Config) (*Engine, error) {
	mc := cfg.MatchConfig.WithDefaults()
	if err := mc.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger.With().Str("component", "GameEngine").Logger()
	rs := core.StandardRuleset()
	e := &Engine{
		config:       mc,
		rules:        rs,
		logger:       logger,
		publisher:    cfg.Publisher,
		legalMoves:   rules.NewLegalMoveCalculator(rs),
		combat:       rules.NewCombatResolver(rs),
		winCondition: rules.NewWinConditionChecker(logger),
	}
	e.productionManager = NewProductionManager(rs, logger)
	e.turnProcessor = NewTurnProcessor(e.productionManager, logger)
	e.initializer = NewMatchInitializer(mc, rs, logger)
	return e, nil
}

func (e *Engine) Config() MatchConfig   { return e.config }
func (e *Engine) Ruleset() core.Ruleset { return e.rules }

// NewMatch builds the initial snapshot for a seed and two participants.
func (e *Engine) NewMatch(ctx context.Context, seed int64, participants [2]string) (*core.MatchState, error) {
	s, err := e.initializer.Initialize(ctx, seed, participants)
	if err != nil {
		return nil, err
	}
	e.publish([]events.Event{events.NewMatchStartedEvent(s)})
	return s, nil
}

// LegalMoves lists the legal moves of the active player in s.
func (e *Engine) LegalMoves(s *core.MatchState) []core.Move {
	return e.legalMoves.LegalMoves(s)
}

// Result is the outcome of ApplyMove.
type Result struct {
	OK     bool
	State  *core.MatchState
	Events []events.Event
	// Reason is set on rejected moves only.
	Reason core.RejectReason
	err    error
}

// Err returns nil for accepted moves and a wrapped ErrInvalidMoveSchema or
// ErrIllegalMove otherwise.
func (r Result) Err() error { return r.err }

// ApplyMove validates m against s and, when legal, returns the next
// snapshot. s is never modified. Rejections are reported in the Result,
// never as a panic.
func (e *Engine) ApplyMove(s *core.MatchState, m core.Move) Result {
	m = core.Normalize(m)
	if m == nil {
		return e.reject(s, nil, core.ReasonInvalidMoveSchema, core.ErrInvalidMoveSchema)
	}
	if err := m.Validate(); err != nil {
		return e.reject(s, m, core.ReasonInvalidMoveSchema, err)
	}
	if s.IsEnded() {
		return e.reject(s, m, core.ReasonIllegalMove, fmt.Errorf("%w: %w", core.ErrIllegalMove, core.ErrMatchEnded))
	}
	if !e.legalMoves.IsLegal(s, m) {
		return e.reject(s, m, core.ReasonIllegalMove, core.ErrIllegalMove)
	}

	next := s.Clone()
	next.Ply++
	if !core.IsEndTurn(m) {
		next.ActionsRemaining--
	}
	var (
		evs          []events.Event
		limitReached bool
		err          error
	)
	switch mv := m.(type) {
	case core.MoveAction:
		evs, err = e.applyMoveAction(next, mv)
	case core.AttackAction:
		evs, err = e.applyAttack(next, mv)
	case core.RecruitAction:
		evs, err = e.applyRecruit(next, mv)
	case core.FortifyAction:
		evs, err = e.applyFortify(next, mv)
	case core.UpgradeAction:
		evs, err = e.applyUpgrade(next, mv)
	case core.EndTurnAction, core.PassAction:
		evs, limitReached = e.turnProcessor.EndTurn(next)
	default:
		err = core.ErrUnknownAction
	}
	if err != nil {
		// The legality check passed, so this means the state itself is
		// inconsistent. Refuse the move rather than return a half-applied clone.
		e.logger.Error().Err(err).Str("move", m.Key()).Int("ply", s.Ply).Msg("Failed to apply legal move")
		return e.reject(s, m, core.ReasonIllegalMove, fmt.Errorf("%w: %w", core.ErrIllegalMove, err))
	}

	if out := e.winCondition.Check(next, limitReached); out.Ended {
		next.Status = core.StatusEnded
		next.Winner = out.Winner
		next.EndReason = out.Reason
		evs = append(evs, &events.GameEndEvent{
			BaseEvent: events.Base(events.TypeGameEnd, next),
			Reason:    out.Reason,
			Winner:    out.Winner,
			Turn:      next.Turn,
		})
	}

	e.logger.Debug().
		Str("player", string(s.ActivePlayer)).
		Str("move", m.Key()).
		Int("ply", next.Ply).
		Int("actions_remaining", next.ActionsRemaining).
		Msg("Move applied")
	e.publish(evs)
	return Result{OK: true, State: next, Events: evs}
}

func (e *Engine) reject(s *core.MatchState, m core.Move, reason core.RejectReason, err error) Result {
	wrapped := core.WrapMoveError(m, err)
	e.logger.Debug().Err(wrapped).Str("reason", string(reason)).Int("ply", s.Ply).Msg("Move rejected")
	return Result{State: s, Events: []events.Event{}, Reason: reason, err: wrapped}
}

func (e *Engine) publish(evs []events.Event) {
	if e.publisher == nil {
		return
	}
	for _, ev := range evs {
		e.publisher.Publish(ev)
	}
}
