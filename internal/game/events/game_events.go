package events

import "github.com/mitchelldurbincs/HexSkirmish/internal/game/core"

// Event type constants
const (
	TypeMatchStarted    = "match_started"
	TypeMove            = "move"
	TypeAttack          = "attack"
	TypeRecruit         = "recruit"
	TypeFortify         = "fortify"
	TypeUpgrade         = "upgrade"
	TypeTurnEnd         = "turn_end"
	TypeIncome          = "income"
	TypeGameEnd         = "game_end"
	TypeStateTransition = "state_transition"
)

// MatchStartedEvent is published when a match is created
type MatchStartedEvent struct {
	BaseEvent
	Seed         int64     `json:"seed"`
	Columns      int       `json:"columns"`
	Rows         int       `json:"rows"`
	Participants [2]string `json:"participants"`
}

func NewMatchStartedEvent(s *core.MatchState) *MatchStartedEvent {
	return &MatchStartedEvent{
		BaseEvent:    BaseEvent{EventType: TypeMatchStarted, Match: s.MatchID, AtPly: s.Ply},
		Seed:         s.Seed,
		Columns:      s.Board.Columns,
		Rows:         s.Board.Rows,
		Participants: [2]string{s.Players[0].Name, s.Players[1].Name},
	}
}

// MoveEvent describes a unit relocation
type MoveEvent struct {
	BaseEvent
	Player      core.PlayerID `json:"player"`
	UnitID      string        `json:"unitId"`
	From        string        `json:"from"`
	To          string        `json:"to"`
	Distance    int           `json:"distance"`
	ChargeReady bool          `json:"chargeReady"`
}

// AttackEvent carries the full combat breakdown of one attack
type AttackEvent struct {
	BaseEvent
	Player         core.PlayerID `json:"player"`
	UnitID         string        `json:"unitId"`
	From           string        `json:"from"`
	Target         string        `json:"target"`
	Defenders      []string      `json:"defenders"`
	Melee          bool          `json:"melee"`
	AttackPower    int           `json:"attackPower"`
	DefensePower   int           `json:"defensePower"`
	DamageDealt    int           `json:"damageDealt"`
	DamageTaken    int           `json:"damageTaken"`
	Abilities      []string      `json:"abilities"`
	Killed         []string      `json:"killed,omitempty"`
	AttackerKilled bool          `json:"attackerKilled"`
	Captured       bool          `json:"captured"`
	VPAwarded      int           `json:"vpAwarded"`
}

// RecruitEvent describes a newly created unit
type RecruitEvent struct {
	BaseEvent
	Player   core.PlayerID `json:"player"`
	UnitID   string        `json:"unitId"`
	UnitType core.UnitType `json:"unitType"`
	At       string        `json:"at"`
	Cost     core.Cost     `json:"cost"`
}

// FortifyEvent describes a unit digging in
type FortifyEvent struct {
	BaseEvent
	Player    core.PlayerID `json:"player"`
	UnitID    string        `json:"unitId"`
	WoodSpent int           `json:"woodSpent"`
}

// UpgradeEvent describes a promotion
type UpgradeEvent struct {
	BaseEvent
	Player core.PlayerID `json:"player"`
	UnitID string        `json:"unitId"`
	Tier   int           `json:"tier"`
	Cost   core.Cost     `json:"cost"`
}

// TurnEndEvent is published when control passes to the other player
type TurnEndEvent struct {
	BaseEvent
	From          core.PlayerID `json:"from"`
	To            core.PlayerID `json:"to"`
	Turn          int           `json:"turn"`
	RoundComplete bool          `json:"roundComplete"`
}

// IncomeEvent reports one player's share of a round's economy tick
type IncomeEvent struct {
	BaseEvent
	Player   core.PlayerID `json:"player"`
	Turn     int           `json:"turn"`
	Gold     int           `json:"gold"`
	Wood     int           `json:"wood"`
	VP       int           `json:"vp"`
	Depleted []string      `json:"depleted,omitempty"`
}

// GameEndEvent is published once, when the match ends
type GameEndEvent struct {
	BaseEvent
	Reason core.EndReason `json:"reason"`
	Winner core.PlayerID  `json:"winner"`
	Turn   int            `json:"turn"`
}

// StateTransitionEvent is published by the turn scheduler on phase changes
type StateTransitionEvent struct {
	BaseEvent
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason"`
}

// Base builds the common part of an event for a state snapshot.
func Base(eventType string, s *core.MatchState) BaseEvent {
	return BaseEvent{EventType: eventType, Match: s.MatchID, AtPly: s.Ply}
}
