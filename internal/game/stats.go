package game

import "github.com/mitchelldurbincs/HexSkirmish/internal/game/core"

// PlayerStats is a per-side summary of a snapshot, used for logging and
// match reports.
type PlayerStats struct {
	Player          core.PlayerID `json:"player"`
	Units           int           `json:"units"`
	TotalHP         int           `json:"totalHp"`
	ControlledHexes int           `json:"controlledHexes"`
	Gold            int           `json:"gold"`
	Wood            int           `json:"wood"`
	VP              int           `json:"vp"`
}

// ComputeStats does a full scan of s and returns the stats of A then B.
func ComputeStats(s *core.MatchState) [2]PlayerStats {
	var stats [2]PlayerStats
	for i, id := range core.Players {
		p := s.Player(id)
		stats[i] = PlayerStats{
			Player:          id,
			ControlledHexes: s.Board.ControlledCount(id),
			Gold:            p.Gold,
			Wood:            p.Wood,
			VP:              p.VP,
		}
	}
	for i := range s.Units {
		u := &s.Units[i]
		if idx := u.Owner.Index(); idx >= 0 {
			stats[idx].Units++
			stats[idx].TotalHP += u.HP
		}
	}
	return stats
}
