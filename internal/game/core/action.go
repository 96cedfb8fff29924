package core

import "fmt"

// ActionType tags a move variant on the wire.
type ActionType string

const (
	ActionMove    ActionType = "move"
	ActionAttack  ActionType = "attack"
	ActionRecruit ActionType = "recruit"
	ActionFortify ActionType = "fortify"
	ActionUpgrade ActionType = "upgrade"
	ActionEndTurn ActionType = "end_turn"
	ActionPass    ActionType = "pass"
)

// Move is one player action. The concrete types below are the only
// implementations.
type Move interface {
	Action() ActionType
	// Key identifies the move for legality comparison. Cosmetic fields such
	// as Reasoning are not part of it.
	Key() string
	// Validate checks that the move is structurally well formed.
	Validate() error
	isMove()
}

// MoveAction moves a unit to another hex.
type MoveAction struct {
	UnitID    string `json:"unitId"`
	To        string `json:"to"`
	Reasoning string `json:"reasoning,omitempty"`
}

// AttackAction attacks the units on a target hex.
type AttackAction struct {
	UnitID    string `json:"unitId"`
	Target    string `json:"target"`
	Reasoning string `json:"reasoning,omitempty"`
}

// RecruitAction creates a unit on one of the player's strongholds.
type RecruitAction struct {
	UnitType  UnitType `json:"unitType"`
	At        string   `json:"at"`
	Reasoning string   `json:"reasoning,omitempty"`
}

// FortifyAction digs a unit in until its owner's next turn.
type FortifyAction struct {
	UnitID    string `json:"unitId"`
	Reasoning string `json:"reasoning,omitempty"`
}

// UpgradeAction promotes a unit to tier 2.
type UpgradeAction struct {
	UnitID    string `json:"unitId"`
	Reasoning string `json:"reasoning,omitempty"`
}

// EndTurnAction hands control to the other player.
type EndTurnAction struct {
	Reasoning string `json:"reasoning,omitempty"`
}

// PassAction is an alias of EndTurnAction.
type PassAction struct {
	Reasoning string `json:"reasoning,omitempty"`
}

const endTurnKey = "end_turn"

func (MoveAction) Action() ActionType    { return ActionMove }
func (AttackAction) Action() ActionType  { return ActionAttack }
func (RecruitAction) Action() ActionType { return ActionRecruit }
func (FortifyAction) Action() ActionType { return ActionFortify }
func (UpgradeAction) Action() ActionType { return ActionUpgrade }
func (EndTurnAction) Action() ActionType { return ActionEndTurn }
func (PassAction) Action() ActionType    { return ActionPass }

func (m MoveAction) Key() string    { return "move:" + m.UnitID + ":" + m.To }
func (m AttackAction) Key() string  { return "attack:" + m.UnitID + ":" + m.Target }
func (m RecruitAction) Key() string { return "recruit:" + string(m.UnitType) + ":" + m.At }
func (m FortifyAction) Key() string { return "fortify:" + m.UnitID }
func (m UpgradeAction) Key() string { return "upgrade:" + m.UnitID }
func (EndTurnAction) Key() string   { return endTurnKey }
func (PassAction) Key() string      { return endTurnKey }

func (MoveAction) isMove()    {}
func (AttackAction) isMove()  {}
func (RecruitAction) isMove() {}
func (FortifyAction) isMove() {}
func (UpgradeAction) isMove() {}
func (EndTurnAction) isMove() {}
func (PassAction) isMove()    {}

func (m MoveAction) Validate() error {
	if err := requireUnitID(m.UnitID); err != nil {
		return err
	}
	return requireHexID("to", m.To)
}

func (m AttackAction) Validate() error {
	if err := requireUnitID(m.UnitID); err != nil {
		return err
	}
	return requireHexID("target", m.Target)
}

func (m RecruitAction) Validate() error {
	if !m.UnitType.Valid() {
		return fmt.Errorf("%w: unknown unit type %q", ErrInvalidMoveSchema, m.UnitType)
	}
	return requireHexID("at", m.At)
}

func (m FortifyAction) Validate() error { return requireUnitID(m.UnitID) }
func (m UpgradeAction) Validate() error { return requireUnitID(m.UnitID) }
func (EndTurnAction) Validate() error   { return nil }
func (PassAction) Validate() error      { return nil }

// IsEndTurn reports whether m hands the turn over.
func IsEndTurn(m Move) bool {
	switch m.(type) {
	case EndTurnAction, PassAction, *EndTurnAction, *PassAction:
		return true
	}
	return false
}

// ActingUnit returns the unit id a move acts with, or "" for moves that do
// not act with a unit.
func ActingUnit(m Move) string {
	switch mv := m.(type) {
	case MoveAction:
		return mv.UnitID
	case AttackAction:
		return mv.UnitID
	case FortifyAction:
		return mv.UnitID
	case UpgradeAction:
		return mv.UnitID
	}
	return ""
}

// Normalize dereferences pointer variants so callers can switch on value types.
func Normalize(m Move) Move {
	switch mv := m.(type) {
	case *MoveAction:
		if mv != nil {
			return *mv
		}
	case *AttackAction:
		if mv != nil {
			return *mv
		}
	case *RecruitAction:
		if mv != nil {
			return *mv
		}
	case *FortifyAction:
		if mv != nil {
			return *mv
		}
	case *UpgradeAction:
		if mv != nil {
			return *mv
		}
	case *EndTurnAction:
		if mv != nil {
			return *mv
		}
	case *PassAction:
		if mv != nil {
			return *mv
		}
	default:
		return m
	}
	return nil
}

func requireUnitID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: missing unitId", ErrInvalidMoveSchema)
	}
	return nil
}

func requireHexID(field, id string) error {
	if _, err := ParseHexID(id); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidMoveSchema, field, err)
	}
	return nil
}
