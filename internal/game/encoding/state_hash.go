package encoding

import "github.com/mitchelldurbincs/HexSkirmish/internal/game/core"

// StateHash hashes a match snapshot. MatchState only holds JSON-safe
// values, so an error here means the state is corrupt.
func StateHash(s *core.MatchState) (string, error) {
	return ContentHash(s)
}

// MustStateHash is StateHash for callers that treat failure as a bug.
func MustStateHash(s *core.MatchState) string {
	h, err := StateHash(s)
	if err != nil {
		panic(err)
	}
	return h
}
