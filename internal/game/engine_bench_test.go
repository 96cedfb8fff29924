package game

import (
	"context"
	"testing"

	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
	"github.com/mitchelldurbincs/HexSkirmish/internal/testutil"
)

func benchMatch(b *testing.B, columns int) (*Engine, *core.MatchState) {
	b.Helper()
	e, err := NewEngine(Config{MatchConfig: MatchConfig{BoardColumns: columns}})
	if err != nil {
		b.Fatal(err)
	}
	s, err := e.NewMatch(context.Background(), 12345, participants)
	if err != nil {
		b.Fatal(err)
	}
	return e, s
}

func BenchmarkLegalMoves(b *testing.B) {
	for _, tc := range []struct {
		name    string
		columns int
	}{
		{"Standard_17x11", core.StandardColumns},
		{"Alternate_21x9", core.AlternateColumns},
	} {
		b.Run(tc.name, func(b *testing.B) {
			e, s := benchMatch(b, tc.columns)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = e.LegalMoves(s)
			}
			b.ReportMetric(float64(len(s.Board.Hexes)), "hexes")
		})
	}
}

func BenchmarkRandomPlayout(b *testing.B) {
	e, start := benchMatch(b, core.StandardColumns)
	rng := testutil.NewTestRNG(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := start
		for ply := 0; ply < 200 && !s.IsEnded(); ply++ {
			legal := e.LegalMoves(s)
			res := e.ApplyMove(s, legal[rng.Intn(len(legal))])
			if !res.OK {
				b.Fatalf("legal move rejected: %v", res.Err())
			}
			s = res.State
		}
	}
}
