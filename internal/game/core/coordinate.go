package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Coordinate is a board position in the odd-r offset layout: odd rows are
// shifted half a hex to the right.
type Coordinate struct {
	Row int
	Col int
}

// NewCoordinate creates a new coordinate with the given row and column
func NewCoordinate(row, col int) Coordinate {
	return Coordinate{Row: row, Col: col}
}

// FromIndex creates a coordinate from a board array index using row-major ordering
func FromIndex(idx, columns int) Coordinate {
	return Coordinate{
		Row: idx / columns,
		Col: idx % columns,
	}
}

// IsValid checks if the coordinate is within the given bounds
func (c Coordinate) IsValid(columns, rows int) bool {
	return c.Row >= 0 && c.Row < rows && c.Col >= 0 && c.Col < columns
}

// ToIndex converts the coordinate to a board array index using row-major ordering
func (c Coordinate) ToIndex(columns int) int {
	return c.Row*columns + c.Col
}

// HexID encodes the coordinate as a stable hex id, e.g. "r5c0".
func (c Coordinate) HexID() string {
	return "r" + strconv.Itoa(c.Row) + "c" + strconv.Itoa(c.Col)
}

func (c Coordinate) String() string {
	return c.HexID()
}

// ParseHexID decodes a hex id produced by HexID. Only the canonical form is
// accepted: no signs, no leading zeros, no surrounding whitespace.
func ParseHexID(id string) (Coordinate, error) {
	if !strings.HasPrefix(id, "r") {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrInvalidHexID, id)
	}
	rowPart, colPart, ok := strings.Cut(id[1:], "c")
	if !ok {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrInvalidHexID, id)
	}
	row, err := parseIndex(rowPart)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrInvalidHexID, id)
	}
	col, err := parseIndex(colPart)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrInvalidHexID, id)
	}
	return Coordinate{Row: row, Col: col}, nil
}

func parseIndex(s string) (int, error) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, ErrInvalidHexID
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrInvalidHexID
		}
	}
	return strconv.Atoi(s)
}
