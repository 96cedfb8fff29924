package testutil

import (
	"fmt"
	"testing"

	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
)

// EmptyMatch returns an active match on an all-plains board with no units,
// no resources, A to act on turn 1.
func EmptyMatch(columns int) *core.MatchState {
	return &core.MatchState{
		MatchID: "test-match",
		Board:   core.NewBoard(columns, core.RowsForColumns(columns)),
		Players: [2]core.Player{
			{ID: core.PlayerA, Name: "alpha", NextUnitSeq: 1},
			{ID: core.PlayerB, Name: "bravo", NextUnitSeq: 1},
		},
		Turn:             1,
		ActivePlayer:     core.PlayerA,
		ActionsRemaining: core.DefaultActionsPerTurn,
		ActionsPerTurn:   core.DefaultActionsPerTurn,
		TurnLimit:        core.DefaultTurnLimit,
		Status:           core.StatusActive,
	}
}

// Scenario builds hand-placed board positions for rule tests.
type Scenario struct {
	t     testing.TB
	rules core.Ruleset
	State *core.MatchState
}

// NewScenario starts from EmptyMatch on the standard board.
func NewScenario(t testing.TB) *Scenario {
	t.Helper()
	return &Scenario{t: t, rules: core.StandardRuleset(), State: EmptyMatch(core.StandardColumns)}
}

// Terrain sets the type of a hex.
func (sc *Scenario) Terrain(hexID string, terrain core.Terrain) *Scenario {
	sc.t.Helper()
	sc.hex(hexID).Type = terrain
	return sc
}

// Control sets the controller of a hex.
func (sc *Scenario) Control(hexID string, p core.PlayerID) *Scenario {
	sc.t.Helper()
	sc.hex(hexID).ControlledBy = p
	return sc
}

// Reserve sets the remaining reserve of a resource hex.
func (sc *Scenario) Reserve(hexID string, reserve int) *Scenario {
	sc.t.Helper()
	sc.hex(hexID).Reserve = reserve
	return sc
}

// Resources sets a player's gold and wood.
func (sc *Scenario) Resources(p core.PlayerID, gold, wood int) *Scenario {
	pl := sc.State.Player(p)
	pl.Gold, pl.Wood = gold, wood
	return sc
}

// VP sets a player's victory points.
func (sc *Scenario) VP(p core.PlayerID, vp int) *Scenario {
	sc.State.Player(p).VP = vp
	return sc
}

// Unit places a ready-to-act tier-1 unit and returns its id.
func (sc *Scenario) Unit(owner core.PlayerID, t core.UnitType, hexID string) string {
	sc.t.Helper()
	p := sc.State.Player(owner)
	id := fmt.Sprintf("%s-%d", owner, p.NextUnitSeq)
	p.NextUnitSeq++
	stats := sc.rules.StatsFor(t, 1)
	u := core.Unit{
		ID:             id,
		Type:           t,
		Tier:           1,
		Owner:          owner,
		Position:       hexID,
		HP:             stats.HP,
		MaxHP:          stats.HP,
		CanActThisTurn: true,
	}
	if err := sc.State.PlaceUnit(u); err != nil {
		sc.t.Fatalf("place unit %s at %s: %v", id, hexID, err)
	}
	sc.hex(hexID).ControlledBy = owner
	return id
}

// Edit applies an arbitrary change to a placed unit.
func (sc *Scenario) Edit(unitID string, fn func(u *core.Unit)) *Scenario {
	sc.t.Helper()
	u := sc.State.Unit(unitID)
	if u == nil {
		sc.t.Fatalf("unknown unit %s", unitID)
	}
	fn(u)
	return sc
}

// Active sets whose turn it is.
func (sc *Scenario) Active(p core.PlayerID) *Scenario {
	sc.State.ActivePlayer = p
	return sc
}

// Build returns the scenario state.
func (sc *Scenario) Build() *core.MatchState {
	return sc.State
}

func (sc *Scenario) hex(hexID string) *core.Hex {
	sc.t.Helper()
	idx, ok := sc.State.Board.Lookup(hexID)
	if !ok {
		sc.t.Fatalf("unknown hex %s", hexID)
	}
	return &sc.State.Board.Hexes[idx]
}
