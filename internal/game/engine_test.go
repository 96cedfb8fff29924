package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/encoding"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/events"
	"github.com/mitchelldurbincs/HexSkirmish/internal/testutil"
)

var participants = [2]string{"alpha", "bravo"}

func newTestEngine(t testing.TB) *Engine {
	t.Helper()
	e, err := NewEngine(Config{Logger: testutil.NopLogger()})
	require.NoError(t, err)
	return e
}

func mustApply(t *testing.T, e *Engine, s *core.MatchState, m core.Move) *core.MatchState {
	t.Helper()
	res := e.ApplyMove(s, m)
	require.True(t, res.OK, "move %s rejected: %v", m.Key(), res.Err())
	return res.State
}

func TestNewEngine(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, DefaultMatchConfig(), e.Config())

	_, err := NewEngine(Config{MatchConfig: MatchConfig{BoardColumns: 19}})
	assert.ErrorIs(t, err, core.ErrUnsupportedBoardWidth)

	_, err = NewEngine(Config{MatchConfig: MatchConfig{TurnLimit: -1}})
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	e, err = NewEngine(Config{MatchConfig: MatchConfig{BoardColumns: core.AlternateColumns, ActionsPerTurn: 3}})
	require.NoError(t, err)
	assert.Equal(t, MatchConfig{TurnLimit: 30, ActionsPerTurn: 3, BoardColumns: 21}, e.Config())
}

func TestNewMatch(t *testing.T) {
	e := newTestEngine(t)
	s, err := e.NewMatch(context.Background(), 42, participants)
	require.NoError(t, err)

	assert.Equal(t, 17, s.Board.Columns)
	assert.Equal(t, 11, s.Board.Rows)
	assert.Len(t, s.Board.Hexes, 187)
	assert.Equal(t, 1, s.Turn)
	assert.Equal(t, core.PlayerA, s.ActivePlayer)
	assert.Equal(t, 5, s.ActionsRemaining)
	assert.Equal(t, core.StatusActive, s.Status)
	assert.Zero(t, s.Ply)
	assert.Equal(t, MatchID(42, participants), s.MatchID)

	for i, id := range core.Players {
		p := s.Players[i]
		assert.Equal(t, id, p.ID)
		assert.Equal(t, participants[i], p.Name)
		assert.Equal(t, 20, p.Gold)
		assert.Equal(t, 10, p.Wood)
		assert.Equal(t, len(StartingArmy)+1, p.NextUnitSeq)
		assert.Len(t, p.Units, len(StartingArmy))
	}
	assert.Equal(t, []string{"A-1", "A-2", "A-3", "A-4"}, s.Players[0].Units)
	assert.Equal(t, core.Cavalry, s.Unit("A-1").Type)
	assert.Equal(t, core.Archer, s.Unit("B-4").Type)

	for _, idx := range s.Board.FindTerrain(core.TerrainGoldMine) {
		assert.Equal(t, 24, s.Board.Hexes[idx].Reserve)
	}
	for _, idx := range s.Board.FindTerrain(core.TerrainLumberCamp) {
		assert.Equal(t, 16, s.Board.Hexes[idx].Reserve)
	}
	sa := s.Board.FindTerrain(core.TerrainStrongholdA)
	require.Len(t, sa, 1)
	assert.Equal(t, core.PlayerA, s.Board.Hexes[sa[0]].ControlledBy)
	assert.True(t, s.Board.Hexes[sa[0]].IsEmpty(), "strongholds start empty so recruiting is possible")
}

func TestNewMatch_Deterministic(t *testing.T) {
	e := newTestEngine(t)
	a, err := e.NewMatch(context.Background(), 7, participants)
	require.NoError(t, err)
	b, err := e.NewMatch(context.Background(), 7, participants)
	require.NoError(t, err)
	assert.Equal(t, encoding.MustStateHash(a), encoding.MustStateHash(b))

	c, err := e.NewMatch(context.Background(), 8, participants)
	require.NoError(t, err)
	assert.NotEqual(t, a.MatchID, c.MatchID)
}

func TestNewMatch_Errors(t *testing.T) {
	e := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.NewMatch(ctx, 1, participants)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = e.NewMatch(context.Background(), 1, [2]string{"alpha", ""})
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestApplyMove_SchemaRejection(t *testing.T) {
	e := newTestEngine(t)
	s, err := e.NewMatch(context.Background(), 1, participants)
	require.NoError(t, err)

	tests := []struct {
		name string
		move core.Move
	}{
		{"nil move", nil},
		{"missing unit", core.MoveAction{To: "r5c2"}},
		{"bad hex", core.AttackAction{UnitID: "A-1", Target: "x"}},
		{"unknown unit type", core.RecruitAction{UnitType: "dragon", At: "r5c0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.ApplyMove(s, tt.move)
			assert.False(t, res.OK)
			assert.Same(t, s, res.State)
			assert.Empty(t, res.Events)
			assert.Equal(t, core.ReasonInvalidMoveSchema, res.Reason)
			assert.ErrorIs(t, res.Err(), core.ErrInvalidMoveSchema)
		})
	}
}

func TestApplyMove_IllegalRejection(t *testing.T) {
	sc := testutil.NewScenario(t)
	sc.Unit(core.PlayerA, core.Infantry, "r4c3")
	enemy := sc.Unit(core.PlayerB, core.Infantry, "r4c8")
	s := sc.Build()
	before := encoding.MustStateHash(s)

	res := newTestEngine(t).ApplyMove(s, core.MoveAction{UnitID: enemy, To: "r4c7"})

	assert.False(t, res.OK)
	assert.Equal(t, core.ReasonIllegalMove, res.Reason)
	assert.ErrorIs(t, res.Err(), core.ErrIllegalMove)
	assert.Contains(t, res.Err().Error(), "move:"+enemy+":r4c7")
	assert.Same(t, s, res.State)
	assert.Equal(t, before, encoding.MustStateHash(s))
}

func TestApplyMove_ReasoningIgnored(t *testing.T) {
	sc := testutil.NewScenario(t)
	inf := sc.Unit(core.PlayerA, core.Infantry, "r4c3")
	sc.Unit(core.PlayerB, core.Infantry, "r4c10")

	res := newTestEngine(t).ApplyMove(sc.Build(), &core.MoveAction{UnitID: inf, To: "r4c4", Reasoning: "advance"})
	require.True(t, res.OK, "%v", res.Err())
	assert.Equal(t, "r4c4", res.State.Unit(inf).Position)
}

func TestApplyMove_CopyOnWrite(t *testing.T) {
	sc := testutil.NewScenario(t)
	inf := sc.Unit(core.PlayerA, core.Infantry, "r4c3")
	sc.Unit(core.PlayerB, core.Infantry, "r4c10")
	s := sc.Build()
	before := encoding.MustStateHash(s)

	next := mustApply(t, newTestEngine(t), s, core.MoveAction{UnitID: inf, To: "r4c5"})

	assert.Equal(t, before, encoding.MustStateHash(s), "input snapshot must not change")
	assert.Equal(t, "r4c3", s.Unit(inf).Position)
	assert.Equal(t, "r4c5", next.Unit(inf).Position)
	assert.Equal(t, 1, next.Ply)
	assert.Equal(t, 4, next.ActionsRemaining)
}

func TestApplyMove_MoveEffects(t *testing.T) {
	sc := testutil.NewScenario(t)
	cav := sc.Unit(core.PlayerA, core.Cavalry, "r4c1")
	sc.Unit(core.PlayerB, core.Infantry, "r4c10")

	res := newTestEngine(t).ApplyMove(sc.Build(), core.MoveAction{UnitID: cav, To: "r4c3"})
	require.True(t, res.OK, "%v", res.Err())

	u := res.State.Unit(cav)
	assert.True(t, u.MovedThisTurn)
	assert.Equal(t, 2, u.MovedDistance)
	assert.False(t, u.MovedThroughForest)
	assert.True(t, u.ChargeEligible(core.StandardRuleset()))

	idx, _ := res.State.Board.Lookup("r4c3")
	assert.Equal(t, core.PlayerA, res.State.Board.Hexes[idx].ControlledBy)
	assert.Equal(t, []string{cav}, res.State.Board.Hexes[idx].UnitIDs)

	require.Len(t, res.Events, 1)
	ev, ok := res.Events[0].(*events.MoveEvent)
	require.True(t, ok)
	assert.Equal(t, "r4c1", ev.From)
	assert.Equal(t, 2, ev.Distance)
	assert.True(t, ev.ChargeReady)
	assert.Equal(t, 1, ev.Ply())
}

func TestApplyMove_ForestPathBlocksCharge(t *testing.T) {
	sc := testutil.NewScenario(t)
	cav := sc.Unit(core.PlayerA, core.Cavalry, "r4c1")
	sc.Unit(core.PlayerB, core.Infantry, "r4c10")
	sc.Terrain("r4c3", core.TerrainForest)

	next := mustApply(t, newTestEngine(t), sc.Build(), core.MoveAction{UnitID: cav, To: "r4c3"})
	u := next.Unit(cav)
	assert.True(t, u.MovedThroughForest)
	assert.False(t, u.ChargeEligible(core.StandardRuleset()))
}

func TestApplyMove_AttackCapture(t *testing.T) {
	sc := testutil.NewScenario(t)
	cav := sc.Unit(core.PlayerA, core.Cavalry, "r4c3")
	archer := sc.Unit(core.PlayerB, core.Archer, "r4c4")
	sc.Unit(core.PlayerB, core.Infantry, "r8c12")
	bus := events.NewEventBus(testutil.NopLogger())
	collector := events.NewCollector("test")
	bus.Subscribe(collector)
	e, err := NewEngine(Config{Publisher: bus})
	require.NoError(t, err)

	res := e.ApplyMove(sc.Build(), core.AttackAction{UnitID: cav, Target: "r4c4"})
	require.True(t, res.OK, "%v", res.Err())
	s := res.State

	assert.Nil(t, s.Unit(archer))
	assert.Equal(t, "r4c4", s.Unit(cav).Position)
	assert.True(t, s.Unit(cav).AttackedThisTurn)
	assert.Equal(t, 1, s.Player(core.PlayerA).VP)
	idx, _ := s.Board.Lookup("r4c4")
	assert.Equal(t, core.PlayerA, s.Board.Hexes[idx].ControlledBy)
	from, _ := s.Board.Lookup("r4c3")
	assert.True(t, s.Board.Hexes[from].IsEmpty())
	assert.NotContains(t, s.Player(core.PlayerB).Units, archer)

	attacks := collector.OfType(events.TypeAttack)
	require.Len(t, attacks, 1)
	ev := attacks[0].(*events.AttackEvent)
	assert.True(t, ev.Captured)
	assert.Equal(t, []string{archer}, ev.Killed)
	assert.Equal(t, 1, ev.VPAwarded)
	assert.Equal(t, res.Events, collector.Events())
}

func TestApplyMove_StackCapture(t *testing.T) {
	sc := testutil.NewScenario(t)
	first := sc.Unit(core.PlayerA, core.Infantry, "r4c3")
	second := sc.Unit(core.PlayerA, core.Infantry, "r4c3")
	sc.Unit(core.PlayerB, core.Archer, "r4c4")
	sc.Unit(core.PlayerB, core.Infantry, "r8c12")

	next := mustApply(t, newTestEngine(t), sc.Build(), core.AttackAction{UnitID: first, Target: "r4c4"})

	assert.Equal(t, "r4c4", next.Unit(first).Position)
	assert.Equal(t, "r4c4", next.Unit(second).Position)
	assert.True(t, next.Unit(second).AttackedThisTurn)
	idx, _ := next.Board.Lookup("r4c4")
	assert.Equal(t, []string{first, second}, next.Board.Hexes[idx].UnitIDs)
}

func TestApplyMove_RangedNeverCaptures(t *testing.T) {
	sc := testutil.NewScenario(t)
	archer := sc.Unit(core.PlayerA, core.Archer, "r4c2")
	target := sc.Unit(core.PlayerB, core.Archer, "r4c4")
	sc.Unit(core.PlayerB, core.Infantry, "r8c12")

	next := mustApply(t, newTestEngine(t), sc.Build(), core.AttackAction{UnitID: archer, Target: "r4c4"})

	assert.Nil(t, next.Unit(target))
	assert.Equal(t, "r4c2", next.Unit(archer).Position)
	idx, _ := next.Board.Lookup("r4c4")
	assert.True(t, next.Board.Hexes[idx].IsEmpty())
	assert.Equal(t, core.PlayerB, next.Board.Hexes[idx].ControlledBy, "control stays sticky")
}

func TestApplyMove_CounterattackKillsAttacker(t *testing.T) {
	sc := testutil.NewScenario(t)
	inf := sc.Unit(core.PlayerA, core.Infantry, "r4c3")
	sc.Unit(core.PlayerA, core.Cavalry, "r8c2")
	sc.Unit(core.PlayerB, core.Infantry, "r4c4")
	sc.Edit(inf, func(u *core.Unit) { u.HP = 1 })

	next := mustApply(t, newTestEngine(t), sc.Build(), core.AttackAction{UnitID: inf, Target: "r4c4"})

	assert.Nil(t, next.Unit(inf))
	assert.Equal(t, 1, next.Player(core.PlayerB).VP)
	assert.Zero(t, next.Player(core.PlayerA).VP)
}

// Recruiting at an owned stronghold locks the new unit for the rest of the turn.
func TestApplyMove_RecruitLocksUnit(t *testing.T) {
	sc := testutil.NewScenario(t)
	sc.Terrain("r5c0", core.TerrainStrongholdA).Control("r5c0", core.PlayerA)
	sc.Resources(core.PlayerA, 100, 0)
	sc.Unit(core.PlayerA, core.Infantry, "r2c3")
	sc.Unit(core.PlayerB, core.Infantry, "r4c10")
	e := newTestEngine(t)

	res := e.ApplyMove(sc.Build(), core.RecruitAction{UnitType: core.Infantry, At: "r5c0"})
	require.True(t, res.OK, "%v", res.Err())
	s := res.State

	assert.Equal(t, 90, s.Player(core.PlayerA).Gold)
	recruit := s.Unit("A-2")
	require.NotNil(t, recruit)
	assert.False(t, recruit.CanActThisTurn)
	assert.Equal(t, 3, recruit.HP)
	assert.Equal(t, 3, s.Player(core.PlayerA).NextUnitSeq)

	res = e.ApplyMove(s, core.MoveAction{UnitID: "A-2", To: "r5c1"})
	assert.False(t, res.OK)
	assert.Equal(t, core.ReasonIllegalMove, res.Reason)
}

func TestApplyMove_FortifyAndUpgrade(t *testing.T) {
	sc := testutil.NewScenario(t)
	inf := sc.Unit(core.PlayerA, core.Infantry, "r4c3")
	archer := sc.Unit(core.PlayerA, core.Archer, "r6c3")
	sc.Unit(core.PlayerB, core.Infantry, "r4c10")
	sc.Resources(core.PlayerA, 20, 10)
	sc.Edit(archer, func(u *core.Unit) { u.HP = 1 })
	e := newTestEngine(t)

	s := mustApply(t, e, sc.Build(), core.FortifyAction{UnitID: inf})
	assert.True(t, s.Unit(inf).IsFortified)
	assert.False(t, s.Unit(inf).CanActThisTurn)
	assert.Equal(t, 8, s.Player(core.PlayerA).Wood)

	s = mustApply(t, e, s, core.UpgradeAction{UnitID: archer})
	u := s.Unit(archer)
	assert.Equal(t, 2, u.Tier)
	assert.Equal(t, 3, u.MaxHP)
	assert.Equal(t, 2, u.HP)
	assert.False(t, u.CanActThisTurn)
	assert.Equal(t, 12, s.Player(core.PlayerA).Gold)
	assert.Equal(t, 4, s.Player(core.PlayerA).Wood)
}

func TestApplyMove_ActionBudget(t *testing.T) {
	sc := testutil.NewScenario(t)
	inf := sc.Unit(core.PlayerA, core.Infantry, "r4c3")
	sc.Unit(core.PlayerB, core.Infantry, "r4c10")
	s := sc.Build()
	s.ActionsRemaining = 1
	e := newTestEngine(t)

	s = mustApply(t, e, s, core.MoveAction{UnitID: inf, To: "r4c4"})
	assert.Zero(t, s.ActionsRemaining)
	assert.Equal(t, []core.Move{core.EndTurnAction{}}, e.LegalMoves(s))

	res := e.ApplyMove(s, core.MoveAction{UnitID: inf, To: "r4c5"})
	assert.Equal(t, core.ReasonIllegalMove, res.Reason)
}

func TestApplyMove_TurnParity(t *testing.T) {
	e := newTestEngine(t)
	s, err := e.NewMatch(context.Background(), 3, participants)
	require.NoError(t, err)

	res := e.ApplyMove(s, core.EndTurnAction{})
	require.True(t, res.OK)
	s = res.State
	assert.Equal(t, 1, s.Turn, "A's end_turn never advances the turn")
	assert.Equal(t, core.PlayerB, s.ActivePlayer)
	assert.Equal(t, 5, s.ActionsRemaining)
	require.Len(t, res.Events, 1)
	assert.Equal(t, events.TypeTurnEnd, res.Events[0].Type())

	res = e.ApplyMove(s, core.PassAction{Reasoning: "nothing to do"})
	require.True(t, res.OK)
	s = res.State
	assert.Equal(t, 2, s.Turn)
	assert.Equal(t, core.PlayerA, s.ActivePlayer)
	assert.Equal(t, 2, s.Ply)

	types := make([]string, len(res.Events))
	for i, ev := range res.Events {
		types[i] = ev.Type()
	}
	assert.Equal(t, []string{events.TypeTurnEnd, events.TypeIncome, events.TypeIncome}, types)
	// Each side controls its stronghold from the start.
	assert.Equal(t, 25, s.Player(core.PlayerA).Gold)
	assert.Equal(t, 25, s.Player(core.PlayerB).Gold)
}

func TestApplyMove_TurnLimit(t *testing.T) {
	tests := []struct {
		name   string
		vpA    int
		vpB    int
		reason core.EndReason
		winner core.PlayerID
	}{
		{"higher VP wins", 5, 3, core.EndTurnLimit, core.PlayerA},
		{"tied VP and control is a draw", 0, 0, core.EndDraw, core.NoPlayer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := testutil.NewScenario(t)
			sc.Unit(core.PlayerA, core.Infantry, "r4c3")
			sc.Unit(core.PlayerB, core.Infantry, "r4c10")
			sc.Control("r4c3", core.NoPlayer).Control("r4c10", core.NoPlayer)
			sc.VP(core.PlayerA, tt.vpA).VP(core.PlayerB, tt.vpB).Active(core.PlayerB)
			s := sc.Build()
			s.Turn = s.TurnLimit

			res := newTestEngine(t).ApplyMove(s, core.EndTurnAction{})
			require.True(t, res.OK)
			assert.True(t, res.State.IsEnded())
			assert.Equal(t, tt.reason, res.State.EndReason)
			assert.Equal(t, tt.winner, res.State.Winner)
			assert.Equal(t, s.TurnLimit, res.State.Turn, "turn never passes the limit")

			last := res.Events[len(res.Events)-1].(*events.GameEndEvent)
			assert.Equal(t, tt.reason, last.Reason)
			assert.Equal(t, tt.winner, last.Winner)
		})
	}
}

func TestApplyMove_TurnLimitPlaysEveryRound(t *testing.T) {
	e, err := NewEngine(Config{MatchConfig: MatchConfig{TurnLimit: 3}, Logger: testutil.NopLogger()})
	require.NoError(t, err)
	s, err := e.NewMatch(context.Background(), 7, participants)
	require.NoError(t, err)

	rounds := 0
	for ply := 0; !s.IsEnded(); ply++ {
		require.Less(t, ply, 20, "match never ended")
		res := e.ApplyMove(s, core.EndTurnAction{})
		require.True(t, res.OK, "%v", res.Err())
		for _, ev := range res.Events {
			if te, ok := ev.(*events.TurnEndEvent); ok && te.RoundComplete {
				rounds++
			}
		}
		s = res.State
	}

	assert.Equal(t, 3, rounds)
	assert.Equal(t, 6, s.Ply, "both players end each of the three turns")
	assert.Equal(t, 3, s.Turn)
	assert.Contains(t, []core.EndReason{core.EndTurnLimit, core.EndDraw}, s.EndReason)
}

func TestApplyMove_StrongholdCapture(t *testing.T) {
	sc := testutil.NewScenario(t)
	sc.Terrain("r5c16", core.TerrainStrongholdB).Control("r5c16", core.PlayerB)
	inf := sc.Unit(core.PlayerA, core.Infantry, "r5c15")
	sc.Unit(core.PlayerB, core.Infantry, "r1c1")
	e := newTestEngine(t)

	res := e.ApplyMove(sc.Build(), core.MoveAction{UnitID: inf, To: "r5c16"})
	require.True(t, res.OK, "%v", res.Err())
	assert.True(t, res.State.IsEnded())
	assert.Equal(t, core.EndStrongholdCapture, res.State.EndReason)
	assert.Equal(t, core.PlayerA, res.State.Winner)

	assert.Empty(t, e.LegalMoves(res.State))
	after := e.ApplyMove(res.State, core.EndTurnAction{})
	assert.False(t, after.OK)
	assert.ErrorIs(t, after.Err(), core.ErrMatchEnded)
	assert.ErrorIs(t, after.Err(), core.ErrIllegalMove)
}

// Two engines fed the same seeded choices must produce identical hash chains.
func TestEngine_Determinism(t *testing.T) {
	play := func() []string {
		e := newTestEngine(t)
		s, err := e.NewMatch(context.Background(), 2024, participants)
		require.NoError(t, err)
		rng := testutil.NewTestRNG(99)
		var hashes []string
		for ply := 0; ply < 300 && !s.IsEnded(); ply++ {
			legal := e.LegalMoves(s)
			s = mustApply(t, e, s, legal[rng.Intn(len(legal))])
			hashes = append(hashes, encoding.MustStateHash(s))
		}
		return hashes
	}
	assert.Equal(t, play(), play())
}

func TestEngine_StackingInvariant(t *testing.T) {
	e := newTestEngine(t)
	s, err := e.NewMatch(context.Background(), 5, participants)
	require.NoError(t, err)
	rng := testutil.NewTestRNG(5)
	for ply := 0; ply < 400 && !s.IsEnded(); ply++ {
		legal := e.LegalMoves(s)
		s = mustApply(t, e, s, legal[rng.Intn(len(legal))])
		for _, hex := range s.Board.Hexes {
			units := s.UnitsAt(&hex)
			for _, u := range units {
				require.Equal(t, units[0].Owner, u.Owner, "mixed owners on %s", hex.ID)
				require.Equal(t, units[0].Type, u.Type, "mixed types on %s", hex.ID)
			}
		}
		require.GreaterOrEqual(t, s.ActionsRemaining, 0)
	}
}
