package cube

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectReturnsNineWithPivotOnAxis(t *testing.T) {
	s := NewSet(DefaultSpacing)
	for a := AxisX; a <= AxisZ; a++ {
		for idx := 0; idx < 3; idx++ {
			sel := Select(s, a, idx)
			require.Len(t, sel.Members, SliceSize)
			for _, i := range sel.Members {
				assert.Equal(t, idx, s.At(i).Pos.Coord(a))
			}

			want := a.Vec().Mul(float32(idx-1) * DefaultSpacing)
			assert.True(t, sel.Pivot.ApproxEqualThreshold(want, 1e-5), "pivot %v, want %v", sel.Pivot, want)
		}
	}
}

func TestSelectPanicsOnCorruptSet(t *testing.T) {
	s := NewSet(DefaultSpacing)
	s.At(0).Pos = Slot{2, 2, 2} // two sub-cubes in one slot
	require.Panics(t, func() { Select(s, AxisX, 0) })
}

func TestRotate2DLaw(t *testing.T) {
	i, j := rotate2D(0, 0, true)
	assert.Equal(t, [2]int{2, 0}, [2]int{i, j})
	i, j = rotate2D(0, 0, false)
	assert.Equal(t, [2]int{0, 2}, [2]int{i, j})

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			ci, cj := rotate2D(i, j, true)
			bi, bj := rotate2D(ci, cj, false)
			assert.Equal(t, [2]int{i, j}, [2]int{bi, bj})
		}
	}
}

// geometricTarget rotates the slot's rest offset by a quarter turn and snaps
// the result back onto the grid. It is derived from the rotation matrix alone,
// independently of the per-axis coordinate table.
func geometricTarget(p Slot, axis Axis, clockwise bool) Slot {
	deg := float32(90)
	if !clockwise {
		deg = -90
	}
	o := mgl32.Vec3{float32(p.X - 1), float32(p.Y - 1), float32(p.Z - 1)}
	r := mgl32.HomogRotate3D(mgl32.DegToRad(deg), axis.Vec()).Mul4x1(o.Vec4(1)).Vec3()
	round := func(f float32) int { return int(math.Round(float64(f))) + 1 }
	return Slot{round(r.X()), round(r.Y()), round(r.Z())}
}

func TestPermutationMatchesGeometryPerAxis(t *testing.T) {
	for _, axis := range []Axis{AxisX, AxisY, AxisZ} {
		for _, cw := range []bool{true, false} {
			perm := PermutationFor(axis, cw)
			for i := 0; i < Count; i++ {
				p := SlotAt(i)
				assert.Equal(t, geometricTarget(p, axis, cw), perm(p), "axis %v cw=%v slot %v", axis, cw, p)
			}
		}
	}
}

func TestPermutationKnownCases(t *testing.T) {
	// Positive quarter turn about Z carries +X onto +Y.
	assert.Equal(t, Slot{1, 2, 2}, PermutationFor(AxisZ, true)(Slot{2, 1, 2}))
	// About X it carries +Y onto +Z.
	assert.Equal(t, Slot{0, 1, 2}, PermutationFor(AxisX, true)(Slot{0, 2, 1}))
	// About Y it carries +Z onto +X.
	assert.Equal(t, Slot{2, 0, 1}, PermutationFor(AxisY, true)(Slot{1, 0, 2}))
	// Counter-clockwise goes the other way.
	assert.Equal(t, Slot{1, 0, 2}, PermutationFor(AxisY, false)(Slot{2, 0, 1}))
}

func TestPermutationPreservesAxisCoordinate(t *testing.T) {
	for _, axis := range []Axis{AxisX, AxisY, AxisZ} {
		perm := PermutationFor(axis, true)
		for i := 0; i < Count; i++ {
			p := SlotAt(i)
			assert.Equal(t, p.Coord(axis), perm(p).Coord(axis))
		}
	}
}
