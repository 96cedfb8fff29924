package core

import "encoding/json"

// PlayerID identifies a side. The empty string means no player.
type PlayerID string

const (
	NoPlayer PlayerID = ""
	PlayerA  PlayerID = "A"
	PlayerB  PlayerID = "B"
)

// Players lists both sides in seat order.
var Players = [2]PlayerID{PlayerA, PlayerB}

func (p PlayerID) Valid() bool { return p == PlayerA || p == PlayerB }

// MarshalJSON encodes NoPlayer as null, so a draw reads "winner": null.
func (p PlayerID) MarshalJSON() ([]byte, error) {
	if p == NoPlayer {
		return []byte("null"), nil
	}
	return json.Marshal(string(p))
}

func (p *PlayerID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = NoPlayer
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = PlayerID(s)
	return nil
}

// Index returns the seat index (0 for A, 1 for B), or -1.
func (p PlayerID) Index() int {
	switch p {
	case PlayerA:
		return 0
	case PlayerB:
		return 1
	}
	return -1
}

// Opponent returns the other side.
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	}
	return NoPlayer
}

// Player holds one side's resources and roster.
type Player struct {
	ID          PlayerID `json:"id"`
	Name        string   `json:"name"`
	Units       []string `json:"units,omitempty"`
	Gold        int      `json:"gold"`
	Wood        int      `json:"wood"`
	VP          int      `json:"vp"`
	NextUnitSeq int      `json:"nextUnitSeq"`
}

// CanAfford reports whether the player holds at least cost.
func (p *Player) CanAfford(cost Cost) bool {
	return p.Gold >= cost.Gold && p.Wood >= cost.Wood
}
