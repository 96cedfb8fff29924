// Package replay records accepted moves as hash-chained artifacts and
// verifies that an artifact reproduces bit for bit from its seed.
package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchelldurbincs/HexSkirmish/internal/game"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
	"github.com/mitchelldurbincs/HexSkirmish/internal/game/encoding"
)

// ArtifactVersion is the only artifact layout this package reads and writes.
const ArtifactVersion = 1

var ErrUnsupportedArtifact = errors.New("unsupported artifact")

// AcceptedMove is one ply of the hash chain.
type AcceptedMove struct {
	Ply        int              `json:"ply"`
	PlayerID   core.PlayerID    `json:"playerID"`
	EngineMove core.EncodedMove `json:"engineMove"`
	PreHash    string           `json:"preHash"`
	PostHash   string           `json:"postHash"`
}

// MatchResult summarises how a match finished. Winner is NoPlayer, encoded
// as null, for a draw or for a match stopped before it ended.
type MatchResult struct {
	Winner       core.PlayerID         `json:"winner"`
	Reason       core.EndReason        `json:"reason"`
	Turns        int                   `json:"turns"`
	IllegalMoves map[core.PlayerID]int `json:"illegalMoves"`
}

// Artifact is everything needed to rebuild and check a match.
type Artifact struct {
	ArtifactVersion int              `json:"artifactVersion"`
	HashAlgo        string           `json:"hashAlgo"`
	StateHashInput  string           `json:"stateHashInput"`
	MatchID         string           `json:"matchId"`
	Seed            int64            `json:"seed"`
	Config          game.MatchConfig `json:"config"`
	Participants    [2]string        `json:"participants"`
	AcceptedMoves   []AcceptedMove   `json:"acceptedMoves"`
	Result          MatchResult      `json:"result"`
	FinalStateHash  string           `json:"finalStateHash"`
}

// CheckFormat rejects artifacts written with a layout or hash this build
// cannot reproduce.
func (a *Artifact) CheckFormat() error {
	switch {
	case a.ArtifactVersion != ArtifactVersion:
		return fmt.Errorf("%w: version %d", ErrUnsupportedArtifact, a.ArtifactVersion)
	case a.HashAlgo != encoding.HashAlgo:
		return fmt.Errorf("%w: hash algorithm %q", ErrUnsupportedArtifact, a.HashAlgo)
	case a.StateHashInput != encoding.StateHashInput:
		return fmt.Errorf("%w: state hash input %q", ErrUnsupportedArtifact, a.StateHashInput)
	}
	return nil
}

// Save writes the artifact as indented JSON. The file is written next to
// path and renamed into place so readers never see a partial artifact.
func Save(path string, a *Artifact) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := path + ".tmp"
	_ = os.Remove(tmpPath)
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename artifact: %w", err)
	}
	return nil
}

// Load reads an artifact and checks its format.
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", path, err)
	}
	if err := a.CheckFormat(); err != nil {
		return nil, err
	}
	return &a, nil
}
