package cube

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Axis is one of the three principal axes of the grid.
type Axis int

const (
	AxisX Axis = 0
	AxisY Axis = 1
	AxisZ Axis = 2
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Valid reports whether a is X, Y or Z.
func (a Axis) Valid() bool {
	return a >= AxisX && a <= AxisZ
}

// Vec returns the unit vector of the axis.
func (a Axis) Vec() mgl32.Vec3 {
	var v mgl32.Vec3
	v[a] = 1
	return v
}

// Turn is a quarter turn of one slice. Clockwise is a positive rotation
// about the +axis (right-hand rule).
type Turn struct {
	Axis      Axis
	Index     int
	Clockwise bool
}

// Valid reports whether the axis and slice index are in range.
func (t Turn) Valid() bool {
	return t.Axis.Valid() && t.Index >= 0 && t.Index <= 2
}

// Inverse returns the turn that undoes t.
func (t Turn) Inverse() Turn {
	t.Clockwise = !t.Clockwise
	return t
}

func (t Turn) String() string {
	dir := "cw"
	if !t.Clockwise {
		dir = "ccw"
	}
	return fmt.Sprintf("%s%d %s", t.Axis, t.Index, dir)
}

// Selection is the slice picked for one turn.
type Selection struct {
	Members []int      // Construction indices of the selected sub-cubes
	Pivot   mgl32.Vec3 // Centroid of the members' rest offsets
}

// SliceSize is the number of sub-cubes in one slice.
const SliceSize = 9

// Select returns the sub-cubes whose current slot lies on the given slice.
// Any count other than nine means the set is corrupt and panics.
func Select(s *Set, axis Axis, index int) Selection {
	sel := Selection{Members: make([]int, 0, SliceSize)}
	for i := 0; i < Count; i++ {
		p := s.cubes[i].Pos
		if p.Coord(axis) != index {
			continue
		}
		sel.Members = append(sel.Members, i)
		sel.Pivot = sel.Pivot.Add(s.Offset(p))
	}
	if len(sel.Members) != SliceSize {
		panic(fmt.Sprintf("cube: slice %s=%d has %d members, want %d", axis, index, len(sel.Members), SliceSize))
	}
	sel.Pivot = sel.Pivot.Mul(1 / float32(SliceSize))
	return sel
}

// freeAxes lists, per turn axis, the two coordinates a turn moves as (i, j).
// The order fixes the handedness: a positive rotation about the turn axis
// carries the i axis onto the j axis.
var freeAxes = [3][2]Axis{
	AxisX: {AxisY, AxisZ},
	AxisY: {AxisZ, AxisX},
	AxisZ: {AxisX, AxisY},
}

// rotate2D is the quarter-turn law on a 3x3 grid.
func rotate2D(i, j int, clockwise bool) (int, int) {
	if clockwise {
		return 2 - j, i
	}
	return j, 2 - i
}

// PermutationFor returns the slot remap applied when a turn about axis
// completes. The coordinate along axis is left unchanged.
func PermutationFor(axis Axis, clockwise bool) func(Slot) Slot {
	pair := freeAxes[axis]
	return func(p Slot) Slot {
		ni, nj := rotate2D(p.Coord(pair[0]), p.Coord(pair[1]), clockwise)
		return p.With(pair[0], ni).With(pair[1], nj)
	}
}
