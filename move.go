package cubesim

import (
	"fmt"
	"strings"
	"time"

	"github.com/SeamusWaldron/cubesim/internal/cube"
)

// Face names a layer in standard notation. R, L, U, D, F and B are the
// outer faces; M, E and S are the middle slices.
type Face string

const (
	FaceR Face = "R" // Right, +X
	FaceL Face = "L" // Left, -X
	FaceU Face = "U" // Up, +Y
	FaceD Face = "D" // Down, -Y
	FaceF Face = "F" // Front, +Z
	FaceB Face = "B" // Back, -Z
	FaceM Face = "M" // Middle slice between L and R, turns like L
	FaceE Face = "E" // Equator slice between U and D, turns like D
	FaceS Face = "S" // Standing slice between F and B, turns like F
)

// Turn represents the direction and magnitude of a face turn.
type Turn int

const (
	CW     Turn = 1  // Clockwise (90 degrees) looking at the face
	CCW    Turn = -1 // Counter-clockwise (90 degrees)
	Double Turn = 2  // Half turn (180 degrees)
)

// Move represents a single move with face, turn direction, and optional timestamp.
type Move struct {
	Face Face      // Which layer to turn
	Turn Turn      // Direction and amount
	Time time.Time // When the move occurred (optional)
}

// layerTurn is how a face's clockwise quarter turn maps onto the engine's
// slice turns. Faces on the negative side of an axis turn the opposite way
// about it.
type layerTurn struct {
	axis      cube.Axis
	index     int
	clockwise bool
}

var faceTurns = map[Face]layerTurn{
	FaceR: {cube.AxisX, 2, false},
	FaceL: {cube.AxisX, 0, true},
	FaceM: {cube.AxisX, 1, true},
	FaceU: {cube.AxisY, 2, false},
	FaceD: {cube.AxisY, 0, true},
	FaceE: {cube.AxisY, 1, true},
	FaceF: {cube.AxisZ, 2, false},
	FaceB: {cube.AxisZ, 0, true},
	FaceS: {cube.AxisZ, 1, false},
}

// Valid reports whether the move names a known layer and direction.
func (m Move) Valid() bool {
	_, ok := faceTurns[m.Face]
	return ok && (m.Turn == CW || m.Turn == CCW || m.Turn == Double)
}

// Notation returns the standard notation string for this move.
// Examples: R, R', R2, M, E'
func (m Move) Notation() string {
	suffix := ""
	switch m.Turn {
	case CCW:
		suffix = "'"
	case Double:
		suffix = "2"
	}
	return string(m.Face) + suffix
}

// Inverse returns the inverse of this move.
// R becomes R', R' becomes R, R2 stays R2.
func (m Move) Inverse() Move {
	inv := m
	switch m.Turn {
	case CW:
		inv.Turn = CCW
	case CCW:
		inv.Turn = CW
	}
	return inv
}

// WithTime returns a copy of the move with the specified timestamp.
func (m Move) WithTime(t time.Time) Move {
	m.Time = t
	return m
}

// String returns the notation string (alias for Notation).
func (m Move) String() string {
	return m.Notation()
}

// Turns expands the move into engine quarter turns: one for R or R', two
// identical ones for R2. An invalid move yields nil.
func (m Move) Turns() []cube.Turn {
	lt, ok := faceTurns[m.Face]
	if !ok {
		return nil
	}
	t := cube.Turn{Axis: lt.axis, Index: lt.index, Clockwise: lt.clockwise}
	switch m.Turn {
	case CW:
		return []cube.Turn{t}
	case CCW:
		return []cube.Turn{t.Inverse()}
	case Double:
		return []cube.Turn{t, t}
	}
	return nil
}

// MoveForTurn returns the quarter-turn move that performs t. Every slice
// turn has exactly one name.
func MoveForTurn(t cube.Turn) Move {
	for face, lt := range faceTurns {
		if lt.axis != t.Axis || lt.index != t.Index {
			continue
		}
		if lt.clockwise == t.Clockwise {
			return Move{Face: face, Turn: CW}
		}
		return Move{Face: face, Turn: CCW}
	}
	return Move{}
}

// ParseMove parses a standard notation string into a Move.
// Examples: R, R', R2, M2, S'
// Lowercase letters name wide turns, which are not supported.
// Returns ErrInvalidNotation if the notation is invalid.
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return Move{}, ErrInvalidNotation
	}

	face := Face(s[:1])
	if _, ok := faceTurns[face]; !ok {
		if _, wide := faceTurns[Face(strings.ToUpper(s[:1]))]; wide {
			return Move{}, fmt.Errorf("%w: wide turn %q", ErrInvalidNotation, s)
		}
		return Move{}, fmt.Errorf("%w: unknown layer %q", ErrInvalidNotation, s[:1])
	}

	turn := CW
	switch s[1:] {
	case "":
	case "'", "`":
		turn = CCW
	case "2", "2'", "2`":
		turn = Double
	default:
		return Move{}, fmt.Errorf("%w: bad suffix in %q", ErrInvalidNotation, s)
	}

	return Move{Face: face, Turn: turn}, nil
}

// ParseMoves parses a space-separated sequence of moves.
// Example: "R U R' U'"
// The first invalid token fails the whole sequence.
func ParseMoves(s string) ([]Move, error) {
	parts := strings.Fields(s)
	moves := make([]Move, 0, len(parts))

	for i, part := range parts {
		move, err := ParseMove(part)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		moves = append(moves, move)
	}

	return moves, nil
}

// FormatMoves formats a slice of moves as a space-separated notation string.
func FormatMoves(moves []Move) string {
	if len(moves) == 0 {
		return ""
	}

	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.Notation()
	}

	return strings.Join(parts, " ")
}

// InverseSequence returns the moves that undo seq.
func InverseSequence(seq []Move) []Move {
	inv := make([]Move, len(seq))
	for i, m := range seq {
		inv[len(seq)-1-i] = m.Inverse()
	}
	return inv
}

// TurnsFor expands a sequence of moves into quarter turns.
func TurnsFor(moves []Move) ([]cube.Turn, error) {
	var turns []cube.Turn
	for _, m := range moves {
		if !m.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidNotation, m.Notation())
		}
		turns = append(turns, m.Turns()...)
	}
	return turns, nil
}
