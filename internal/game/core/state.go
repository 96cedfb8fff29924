package core

import "fmt"

// MatchStatus is the lifecycle state of a match.
type MatchStatus string

const (
	StatusActive MatchStatus = "active"
	StatusEnded  MatchStatus = "ended"
)

// EndReason explains how a match ended.
type EndReason string

const (
	EndStrongholdCapture EndReason = "stronghold_capture"
	EndElimination       EndReason = "elimination"
	EndTurnLimit         EndReason = "turn_limit"
	EndDraw              EndReason = "draw"
)

// MatchState is one immutable snapshot of a match.
//
// Snapshots share backing arrays for hex unit lists and player rosters.
// Mutating helpers below must only be called on a state obtained from Clone,
// and they always replace those slices instead of writing into them.
type MatchState struct {
	MatchID          string      `json:"matchId"`
	Seed             int64       `json:"seed"`
	Board            Board       `json:"board"`
	Units            []Unit      `json:"units"`
	Players          [2]Player   `json:"players"`
	Turn             int         `json:"turn"`
	ActivePlayer     PlayerID    `json:"activePlayer"`
	ActionsRemaining int         `json:"actionsRemaining"`
	ActionsPerTurn   int         `json:"actionsPerTurn"`
	TurnLimit        int         `json:"turnLimit"`
	Status           MatchStatus `json:"status"`
	Winner           PlayerID    `json:"winner"`
	EndReason        EndReason   `json:"endReason,omitempty"`
	Ply              int         `json:"ply"`
}

// Clone returns a snapshot that can be mutated without affecting s.
func (s *MatchState) Clone() *MatchState {
	c := *s
	c.Board.Hexes = append([]Hex(nil), s.Board.Hexes...)
	c.Units = append([]Unit(nil), s.Units...)
	return &c
}

func (s *MatchState) IsEnded() bool { return s.Status == StatusEnded }

// Player returns the player with the given id, or nil.
func (s *MatchState) Player(id PlayerID) *Player {
	idx := id.Index()
	if idx < 0 {
		return nil
	}
	return &s.Players[idx]
}

// Unit returns the unit with the given id, or nil.
func (s *MatchState) Unit(id string) *Unit {
	for i := range s.Units {
		if s.Units[i].ID == id {
			return &s.Units[i]
		}
	}
	return nil
}

// UnitsOf returns the units owned by p in creation order.
func (s *MatchState) UnitsOf(p PlayerID) []*Unit {
	var out []*Unit
	for i := range s.Units {
		if s.Units[i].Owner == p {
			out = append(out, &s.Units[i])
		}
	}
	return out
}

// UnitsAt returns the units occupying a hex in stacking order.
func (s *MatchState) UnitsAt(h *Hex) []*Unit {
	out := make([]*Unit, 0, len(h.UnitIDs))
	for _, id := range h.UnitIDs {
		if u := s.Unit(id); u != nil {
			out = append(out, u)
		}
	}
	return out
}

// HexOf returns the hex a unit stands on.
func (s *MatchState) HexOf(u *Unit) *Hex {
	idx, ok := s.Board.Lookup(u.Position)
	if !ok {
		return nil
	}
	return &s.Board.Hexes[idx]
}

// SetHexUnits replaces the occupant list of a hex.
func (s *MatchState) SetHexUnits(idx int, ids []string) {
	if len(ids) == 0 {
		ids = nil
	}
	s.Board.Hexes[idx].UnitIDs = ids
}

// PlaceUnit adds a new unit to the state, its hex and its owner's roster.
func (s *MatchState) PlaceUnit(u Unit) error {
	idx, ok := s.Board.Lookup(u.Position)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidHexID, u.Position)
	}
	p := s.Player(u.Owner)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrInvalidPlayer, u.Owner)
	}
	if s.Unit(u.ID) != nil {
		return fmt.Errorf("%w: %q", ErrDuplicateUnit, u.ID)
	}
	s.Units = append(s.Units, u)
	s.SetHexUnits(idx, appendCopy(s.Board.Hexes[idx].UnitIDs, u.ID))
	p.Units = appendCopy(p.Units, u.ID)
	return nil
}

// RemoveUnit deletes a unit from the state, its hex and its owner's roster.
func (s *MatchState) RemoveUnit(id string) {
	u := s.Unit(id)
	if u == nil {
		return
	}
	if idx, ok := s.Board.Lookup(u.Position); ok {
		s.SetHexUnits(idx, without(s.Board.Hexes[idx].UnitIDs, id))
	}
	if p := s.Player(u.Owner); p != nil {
		p.Units = without(p.Units, id)
	}
	units := make([]Unit, 0, len(s.Units)-1)
	for i := range s.Units {
		if s.Units[i].ID != id {
			units = append(units, s.Units[i])
		}
	}
	s.Units = units
}

// RelocateUnit moves a unit from its current hex to the hex at toIdx.
func (s *MatchState) RelocateUnit(id string, toIdx int) {
	u := s.Unit(id)
	if u == nil {
		return
	}
	if from, ok := s.Board.Lookup(u.Position); ok {
		s.SetHexUnits(from, without(s.Board.Hexes[from].UnitIDs, id))
	}
	s.SetHexUnits(toIdx, appendCopy(s.Board.Hexes[toIdx].UnitIDs, id))
	u.Position = s.Board.Hexes[toIdx].ID
}

// UnitCount returns how many live units p owns.
func (s *MatchState) UnitCount(p PlayerID) int {
	n := 0
	for i := range s.Units {
		if s.Units[i].Owner == p {
			n++
		}
	}
	return n
}

func appendCopy(ids []string, id string) []string {
	out := make([]string, len(ids), len(ids)+1)
	copy(out, ids)
	return append(out, id)
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
