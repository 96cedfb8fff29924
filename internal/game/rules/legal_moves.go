package rules

import "github.com/mitchelldurbincs/HexSkirmish/internal/game/core"

// LegalMoveCalculator computes the legal moves of the active player
type LegalMoveCalculator struct {
	rules core.Ruleset
}

// NewLegalMoveCalculator creates a new legal move calculator
func NewLegalMoveCalculator(rs core.Ruleset) *LegalMoveCalculator {
	return &LegalMoveCalculator{rules: rs}
}

// LegalMoves lists every legal move for the active player in a fixed order:
// per unit (creation order) its moves, attacks, fortify and upgrade; then
// recruits; then a single end_turn. An ended match has no legal moves.
func (lmc *LegalMoveCalculator) LegalMoves(s *core.MatchState) []core.Move {
	if s.IsEnded() {
		return nil
	}
	var moves []core.Move
	if s.ActionsRemaining > 0 {
		for _, u := range s.UnitsOf(s.ActivePlayer) {
			moves = append(moves, lmc.unitMoves(s, u)...)
			moves = append(moves, lmc.unitAttacks(s, u)...)
			if lmc.canFortify(s, u) {
				moves = append(moves, core.FortifyAction{UnitID: u.ID})
			}
			if lmc.canUpgrade(s, u) {
				moves = append(moves, core.UpgradeAction{UnitID: u.ID})
			}
		}
		moves = append(moves, lmc.recruits(s)...)
	}
	return append(moves, core.EndTurnAction{})
}

// IsLegal reports whether m is among the legal moves of s. Cosmetic fields
// are ignored.
func (lmc *LegalMoveCalculator) IsLegal(s *core.MatchState, m core.Move) bool {
	key := m.Key()
	for _, legal := range lmc.LegalMoves(s) {
		if legal.Key() == key {
			return true
		}
	}
	return false
}

// MoveBudget returns how many more hexes u may move this turn.
func (lmc *LegalMoveCalculator) MoveBudget(u *core.Unit) int {
	if !u.CanActThisTurn || u.AttackedThisTurn {
		return 0
	}
	return lmc.rules.StatsFor(u.Type, u.Tier).Move - u.MovedDistance
}

func (lmc *LegalMoveCalculator) unitMoves(s *core.MatchState, u *core.Unit) []core.Move {
	budget := lmc.MoveBudget(u)
	if budget <= 0 {
		return nil
	}
	var moves []core.Move
	for idx, r := range Reachable(s, u, budget) {
		if r.Distance < 1 {
			continue
		}
		hex := &s.Board.Hexes[idx]
		if canStackOnto(s, hex, u) {
			moves = append(moves, core.MoveAction{UnitID: u.ID, To: hex.ID})
		}
	}
	return moves
}

func (lmc *LegalMoveCalculator) unitAttacks(s *core.MatchState, u *core.Unit) []core.Move {
	if !u.CanActThisTurn || u.AttackedThisTurn {
		return nil
	}
	from, err := core.ParseHexID(u.Position)
	if err != nil {
		return nil
	}
	rng := lmc.rules.StatsFor(u.Type, u.Tier).Range
	var moves []core.Move
	for idx := range s.Board.Hexes {
		hex := &s.Board.Hexes[idx]
		if !holdsEnemy(s, hex, u.Owner) {
			continue
		}
		to := s.Board.CoordOf(idx)
		dist := from.DistanceTo(to)
		if dist < 1 || dist > rng {
			continue
		}
		if rng > 1 && !HasLineOfSight(s, from, to) {
			continue
		}
		moves = append(moves, core.AttackAction{UnitID: u.ID, Target: hex.ID})
	}
	return moves
}

func (lmc *LegalMoveCalculator) canFortify(s *core.MatchState, u *core.Unit) bool {
	return u.CanActThisTurn && !u.MovedThisTurn && !u.AttackedThisTurn && !u.IsFortified &&
		s.Player(u.Owner).Wood >= lmc.rules.FortifyWood
}

func (lmc *LegalMoveCalculator) canUpgrade(s *core.MatchState, u *core.Unit) bool {
	return u.CanActThisTurn && u.Tier < 2 && s.Player(u.Owner).CanAfford(lmc.rules.Upgrade)
}

func (lmc *LegalMoveCalculator) recruits(s *core.MatchState) []core.Move {
	p := s.Player(s.ActivePlayer)
	var moves []core.Move
	for idx := range s.Board.Hexes {
		hex := &s.Board.Hexes[idx]
		if hex.Type.StrongholdOf() != s.ActivePlayer || !hex.IsEmpty() {
			continue
		}
		for _, t := range core.UnitTypes {
			if p.CanAfford(lmc.rules.RecruitCost(t)) {
				moves = append(moves, core.RecruitAction{UnitType: t, At: hex.ID})
			}
		}
	}
	return moves
}

func holdsEnemy(s *core.MatchState, hex *core.Hex, owner core.PlayerID) bool {
	if hex.IsEmpty() {
		return false
	}
	u := s.Unit(hex.UnitIDs[0])
	return u != nil && u.Owner != owner
}
