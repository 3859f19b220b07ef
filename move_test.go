package cubesim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubesim/internal/cube"
)

func TestParseMove(t *testing.T) {
	tests := []struct {
		input    string
		expected Move
	}{
		{"R", R},
		{"R'", RPrime},
		{"R`", RPrime},
		{"R2", R2},
		{" U2' ", U2},
		{"M", M},
		{"E'", EPrime},
		{"S2", S2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, err := ParseMove(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, m)
		})
	}
}

func TestParseMoveInvalid(t *testing.T) {
	for _, s := range []string{"", "X", "R3", "R''", "2R", "r", "u'", "f2", "m"} {
		_, err := ParseMove(s)
		assert.ErrorIs(t, err, ErrInvalidNotation, "%q", s)
	}
}

func TestParseMovesIsStrict(t *testing.T) {
	moves, err := ParseMoves("R U R' U'")
	require.NoError(t, err)
	assert.Equal(t, SexyMove, moves)

	_, err = ParseMoves("R U Q U'")
	assert.ErrorIs(t, err, ErrInvalidNotation)

	moves, err = ParseMoves("   ")
	require.NoError(t, err)
	assert.Empty(t, moves)
}

func TestFormatMovesRoundTrip(t *testing.T) {
	s := FormatMoves(TPerm)
	assert.Equal(t, "R U R' U' R' F R2 U' R' U' R U R' F'", s)
	back, err := ParseMoves(s)
	require.NoError(t, err)
	assert.Equal(t, TPerm, back)
	assert.Equal(t, "", FormatMoves(nil))
}

func TestInverse(t *testing.T) {
	assert.Equal(t, RPrime, R.Inverse())
	assert.Equal(t, R, RPrime.Inverse())
	assert.Equal(t, R2, R2.Inverse())
	assert.Equal(t, []Move{U, R, UPrime, RPrime}, InverseSequence(SexyMove))
}

func TestWithTimeKeepsMove(t *testing.T) {
	now := time.Now()
	m := F.WithTime(now)
	assert.Equal(t, now, m.Time)
	assert.Equal(t, "F", m.String())
}

func TestTurnsMapping(t *testing.T) {
	assert.Equal(t, []cube.Turn{{Axis: cube.AxisX, Index: 2, Clockwise: false}}, R.Turns())
	assert.Equal(t, []cube.Turn{{Axis: cube.AxisX, Index: 0, Clockwise: false}}, LPrime.Turns())
	assert.Equal(t, []cube.Turn{{Axis: cube.AxisZ, Index: 1, Clockwise: false}}, S.Turns())
	assert.Len(t, U2.Turns(), 2)
	assert.Nil(t, Move{Face: "Q", Turn: CW}.Turns())
}

func TestMoveForTurnCoversEveryTurn(t *testing.T) {
	seen := make(map[string]bool)
	for a := cube.AxisX; a <= cube.AxisZ; a++ {
		for idx := 0; idx < 3; idx++ {
			for _, cw := range []bool{true, false} {
				turn := cube.Turn{Axis: a, Index: idx, Clockwise: cw}
				m := MoveForTurn(turn)
				require.True(t, m.Valid(), "%v", turn)
				assert.Equal(t, []cube.Turn{turn}, m.Turns())
				seen[m.Notation()] = true
			}
		}
	}
	assert.Len(t, seen, 18)
}

func TestFaceTurnsAreClockwiseFromOutside(t *testing.T) {
	// Looking at the right face, clockwise carries the front-top corner to
	// the back-top: (2,2,2) goes to (2,2,0).
	perm := cube.PermutationFor(R.Turns()[0].Axis, R.Turns()[0].Clockwise)
	assert.Equal(t, cube.Slot{X: 2, Y: 2, Z: 0}, perm(cube.Slot{X: 2, Y: 2, Z: 2}))

	// Looking at the top, clockwise carries front-right to front-left.
	perm = cube.PermutationFor(U.Turns()[0].Axis, U.Turns()[0].Clockwise)
	assert.Equal(t, cube.Slot{X: 0, Y: 2, Z: 2}, perm(cube.Slot{X: 2, Y: 2, Z: 2}))

	// Looking at the front, clockwise carries top-right to bottom-right.
	perm = cube.PermutationFor(F.Turns()[0].Axis, F.Turns()[0].Clockwise)
	assert.Equal(t, cube.Slot{X: 2, Y: 0, Z: 2}, perm(cube.Slot{X: 2, Y: 2, Z: 2}))
}

func TestTurnsForRejectsInvalid(t *testing.T) {
	_, err := TurnsFor([]Move{R, {Face: FaceU, Turn: Turn(7)}})
	assert.ErrorIs(t, err, ErrInvalidNotation)

	turns, err := TurnsFor([]Move{R2, U})
	require.NoError(t, err)
	assert.Len(t, turns, 3)
}
