package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidHexID          = errors.New("invalid hex id")
	ErrInvalidPlayer         = errors.New("invalid player ID")
	ErrDuplicateUnit         = errors.New("duplicate unit id")
	ErrUnsupportedBoardWidth = errors.New("unsupported board width")
	ErrInvalidConfig         = errors.New("invalid match config")
	ErrInvalidMoveSchema     = errors.New("invalid move schema")
	ErrUnknownAction         = errors.New("unknown action")
	ErrIllegalMove           = errors.New("illegal move")
	ErrMatchEnded            = errors.New("match has ended")
)

// RejectReason is the stable code reported for a rejected move.
type RejectReason string

const (
	ReasonInvalidMoveSchema RejectReason = "invalid_move_schema"
	ReasonIllegalMove       RejectReason = "illegal_move"
)

// Err maps a reason code to its sentinel error.
func (r RejectReason) Err() error {
	switch r {
	case ReasonInvalidMoveSchema:
		return ErrInvalidMoveSchema
	case ReasonIllegalMove:
		return ErrIllegalMove
	}
	return nil
}

// WrapMoveError adds the move's action and key to an error.
func WrapMoveError(m Move, err error) error {
	if err == nil {
		return nil
	}
	if m == nil {
		return fmt.Errorf("move: %w", err)
	}
	return fmt.Errorf("%s %s: %w", m.Action(), m.Key(), err)
}
