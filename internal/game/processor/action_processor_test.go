package processor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/HexSkirmish/internal/game"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/encoding"
	"github.com/mitchelldurbincs/HexSkirmish/internal/testutil"
)

func setup(t *testing.T) (*ActionProcessor, *core.MatchState) {
	t.Helper()
	e, err := game.NewEngine(game.Config{})
	require.NoError(t, err)
	s, err := e.NewMatch(context.Background(), 11, [2]string{"alpha", "bravo"})
	require.NoError(t, err)
	return NewActionProcessor(e, testutil.NopLogger()), s
}

func TestProcessBatch_HashChain(t *testing.T) {
	ap, s := setup(t)
	start := encoding.MustStateHash(s)

	res, err := ap.ProcessBatch(context.Background(), s, []core.Move{
		core.FortifyAction{UnitID: "A-2"},
		core.FortifyAction{UnitID: "A-2"}, // already fortified
		core.EndTurnAction{},
		core.FortifyAction{UnitID: "A-3"}, // arrives after the hand-over
	})
	require.NoError(t, err)

	require.Len(t, res.Applied, 2)
	assert.Equal(t, start, res.Applied[0].PreHash)
	assert.Equal(t, res.Applied[0].PostHash, res.Applied[1].PreHash)
	assert.Equal(t, encoding.MustStateHash(res.State), res.Applied[1].PostHash)
	assert.Equal(t, 1, res.Applied[0].Ply)
	assert.Equal(t, 2, res.Applied[1].Ply)
	assert.Equal(t, core.PlayerA, res.Applied[1].Player)

	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 1, res.Rejected[0].Index)
	assert.Equal(t, core.ReasonIllegalMove, res.Rejected[0].Reason)
	assert.ErrorIs(t, res.Rejected[0].Err, core.ErrIllegalMove)

	assert.Equal(t, 1, res.Skipped)
	assert.True(t, res.TurnPassed(core.PlayerA))
	assert.Equal(t, start, encoding.MustStateHash(s), "input snapshot untouched")
}

func TestProcessBatch_Cancelled(t *testing.T) {
	ap, s := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := ap.ProcessBatch(ctx, s, []core.Move{core.EndTurnAction{}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.Applied)
	assert.Same(t, s, res.State)
}

func TestProcessBatch_Empty(t *testing.T) {
	ap, s := setup(t)
	res, err := ap.ProcessBatch(context.Background(), s, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Applied)
	assert.False(t, res.TurnPassed(core.PlayerA))
}
