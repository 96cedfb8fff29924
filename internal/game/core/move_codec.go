package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

func (m MoveAction) MarshalJSON() ([]byte, error) {
	type plain MoveAction
	return json.Marshal(struct {
		Action ActionType `json:"action"`
		plain
	}{ActionMove, plain(m)})
}

func (m AttackAction) MarshalJSON() ([]byte, error) {
	type plain AttackAction
	return json.Marshal(struct {
		Action ActionType `json:"action"`
		plain
	}{ActionAttack, plain(m)})
}

func (m RecruitAction) MarshalJSON() ([]byte, error) {
	type plain RecruitAction
	return json.Marshal(struct {
		Action ActionType `json:"action"`
		plain
	}{ActionRecruit, plain(m)})
}

func (m FortifyAction) MarshalJSON() ([]byte, error) {
	type plain FortifyAction
	return json.Marshal(struct {
		Action ActionType `json:"action"`
		plain
	}{ActionFortify, plain(m)})
}

func (m UpgradeAction) MarshalJSON() ([]byte, error) {
	type plain UpgradeAction
	return json.Marshal(struct {
		Action ActionType `json:"action"`
		plain
	}{ActionUpgrade, plain(m)})
}

func (m EndTurnAction) MarshalJSON() ([]byte, error) {
	type plain EndTurnAction
	return json.Marshal(struct {
		Action ActionType `json:"action"`
		plain
	}{ActionEndTurn, plain(m)})
}

func (m PassAction) MarshalJSON() ([]byte, error) {
	type plain PassAction
	return json.Marshal(struct {
		Action ActionType `json:"action"`
		plain
	}{ActionPass, plain(m)})
}

// DecodeMove parses a move tagged by its "action" field. Decoding errors
// wrap ErrInvalidMoveSchema; the decoded move is also validated.
func DecodeMove(data []byte) (Move, error) {
	var head struct {
		Action ActionType `json:"action"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMoveSchema, err)
	}

	var m Move
	var err error
	switch head.Action {
	case ActionMove:
		m, err = decodeInto[MoveAction](data)
	case ActionAttack:
		m, err = decodeInto[AttackAction](data)
	case ActionRecruit:
		m, err = decodeInto[RecruitAction](data)
	case ActionFortify:
		m, err = decodeInto[FortifyAction](data)
	case ActionUpgrade:
		m, err = decodeInto[UpgradeAction](data)
	case ActionEndTurn:
		m, err = decodeInto[EndTurnAction](data)
	case ActionPass:
		m, err = decodeInto[PassAction](data)
	default:
		return nil, fmt.Errorf("%w: %w %q", ErrInvalidMoveSchema, ErrUnknownAction, head.Action)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMoveSchema, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeInto[T Move](data []byte) (Move, error) {
	var v T
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// EncodedMove wraps a Move so it can be embedded in JSON documents.
type EncodedMove struct {
	Move Move
}

func (e EncodedMove) MarshalJSON() ([]byte, error) {
	if e.Move == nil {
		return []byte("null"), nil
	}
	return json.Marshal(e.Move)
}

func (e *EncodedMove) UnmarshalJSON(data []byte) error {
	m, err := DecodeMove(data)
	if err != nil {
		return err
	}
	e.Move = m
	return nil
}
