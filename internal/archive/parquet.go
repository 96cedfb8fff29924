// Package archive exports accepted plies to Parquet for offline analysis
// and reads them back.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/mitchelldurbincs/HexSkirmish/internal/game/core"
	"github.com/mitchelldurbincs/HexSkirmish/internal/replay"
)

// SchemaVersion is stored in the file's key/value metadata.
const SchemaVersion = "hex_ply_v1"

// PlyRow is one accepted move. Move holds the move's wire JSON so rows can
// be decoded back with core.DecodeMove.
type PlyRow struct {
	MatchID  string `parquet:"match_id,dict"`
	Seed     int64  `parquet:"seed"`
	Ply      int32  `parquet:"ply"`
	PlayerID string `parquet:"player_id,dict"`
	Action   string `parquet:"action,dict"`
	Move     []byte `parquet:"move"`
	PreHash  string `parquet:"pre_hash"`
	PostHash string `parquet:"post_hash"`

	// Match-level columns repeat on every row of a match.
	Winner string `parquet:"winner,dict,optional"`
	Reason string `parquet:"reason,dict,optional"`
}

// RowsFromArtifact flattens an artifact into one row per accepted move.
func RowsFromArtifact(a *replay.Artifact) ([]PlyRow, error) {
	rows := make([]PlyRow, 0, len(a.AcceptedMoves))
	for _, m := range a.AcceptedMoves {
		if m.EngineMove.Move == nil {
			return nil, fmt.Errorf("ply %d: %w", m.Ply, core.ErrInvalidMoveSchema)
		}
		data, err := json.Marshal(m.EngineMove)
		if err != nil {
			return nil, fmt.Errorf("ply %d: encode move: %w", m.Ply, err)
		}
		rows = append(rows, PlyRow{
			MatchID:  a.MatchID,
			Seed:     a.Seed,
			Ply:      int32(m.Ply),
			PlayerID: string(m.PlayerID),
			Action:   string(m.EngineMove.Move.Action()),
			Move:     data,
			PreHash:  m.PreHash,
			PostHash: m.PostHash,
			Winner:   string(a.Result.Winner),
			Reason:   string(a.Result.Reason),
		})
	}
	return rows, nil
}

// DecodeMove parses the row's move column.
func (r PlyRow) DecodeMove() (core.Move, error) {
	return core.DecodeMove(r.Move)
}

// WritePlies writes rows to outPath through a temp file and rename.
func WritePlies(outPath string, rows []PlyRow) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", SchemaVersion),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// ReadPlies loads every row of a ply file.
func ReadPlies(path string) ([]PlyRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet %s: %w", path, err)
	}
	if schema, ok := pf.Lookup("schema"); ok && schema != SchemaVersion {
		return nil, fmt.Errorf("%s: unexpected schema %q", path, schema)
	}

	reader := parquet.NewGenericReader[PlyRow](pf)
	defer reader.Close()

	rows := make([]PlyRow, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	return rows[:n], nil
}
