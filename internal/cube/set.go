// Package cube implements the logical model and kinematics of a 3x3x3 puzzle:
// the 27 sub-cubes, slice selection, the quarter-turn permutation law, the
// per-frame turn animator and the turn sequencer.
package cube

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Count is the number of sub-cubes in the assembly.
const Count = 27

// DefaultSpacing is the distance between neighbouring slot centres.
const DefaultSpacing float32 = 1.1

// Slot is a position in the 3x3x3 logical grid. Each coordinate is in 0..2.
type Slot struct {
	X, Y, Z int
}

// SlotAt returns the slot for a flat index in 0..26.
func SlotAt(i int) Slot {
	return Slot{X: i / 9, Y: (i / 3) % 3, Z: i % 3}
}

// Index returns the flat index of the slot (X*9 + Y*3 + Z).
func (s Slot) Index() int {
	return s.X*9 + s.Y*3 + s.Z
}

// Coord returns the coordinate along an axis.
func (s Slot) Coord(a Axis) int {
	switch a {
	case AxisX:
		return s.X
	case AxisY:
		return s.Y
	default:
		return s.Z
	}
}

// With returns a copy of s with the coordinate along a replaced by v.
func (s Slot) With(a Axis, v int) Slot {
	switch a {
	case AxisX:
		s.X = v
	case AxisY:
		s.Y = v
	default:
		s.Z = v
	}
	return s
}

// Valid reports whether every coordinate lies in 0..2.
func (s Slot) Valid() bool {
	return s.X >= 0 && s.X <= 2 && s.Y >= 0 && s.Y <= 2 && s.Z >= 0 && s.Z <= 2
}

func (s Slot) String() string {
	return fmt.Sprintf("(%d,%d,%d)", s.X, s.Y, s.Z)
}

// SubCube is one of the 27 pieces of the assembly.
type SubCube struct {
	Home      Slot       // Construction slot, never changes
	Pos       Slot       // Current logical slot
	Transform mgl32.Mat4 // Pose relative to the unrotated grid
	Colors    [6]Color   // Sticker per Face, fixed at construction
}

// Set holds the 27 sub-cubes, indexed by construction slot.
type Set struct {
	cubes   [Count]SubCube
	spacing float32
}

// NewSet creates the assembly with every sub-cube in its home slot.
func NewSet(spacing float32) *Set {
	if spacing <= 0 {
		spacing = DefaultSpacing
	}
	s := &Set{spacing: spacing}
	s.Reset()
	return s
}

// Reset puts every sub-cube back into its home slot at rest.
func (s *Set) Reset() {
	for i := 0; i < Count; i++ {
		home := SlotAt(i)
		c := SubCube{
			Home:      home,
			Pos:       home,
			Transform: s.RestTransform(home),
		}
		// Only faces on the outside of the assembly carry a sticker.
		for _, f := range Faces {
			if home.Coord(f.Axis()) == f.Outer() {
				c.Colors[f] = homeColor(f)
			} else {
				c.Colors[f] = Black
			}
		}
		s.cubes[i] = c
	}
}

// Spacing returns the slot spacing.
func (s *Set) Spacing() float32 {
	return s.spacing
}

// At returns the sub-cube built at flat construction index i.
func (s *Set) At(i int) *SubCube {
	return &s.cubes[i]
}

// Subcube returns the sub-cube built at the given home slot.
func (s *Set) Subcube(home Slot) *SubCube {
	return &s.cubes[home.Index()]
}

// Occupant returns the construction index of the sub-cube currently in pos.
func (s *Set) Occupant(pos Slot) int {
	for i := range s.cubes {
		if s.cubes[i].Pos == pos {
			return i
		}
	}
	return -1
}

// Offset returns the rest position of a slot relative to the grid centre.
func (s *Set) Offset(pos Slot) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(pos.X-1) * s.spacing,
		float32(pos.Y-1) * s.spacing,
		float32(pos.Z-1) * s.spacing,
	}
}

// RestTransform returns the axis-aligned rest pose of a slot.
func (s *Set) RestTransform(pos Slot) mgl32.Mat4 {
	o := s.Offset(pos)
	return mgl32.Translate3D(o.X(), o.Y(), o.Z())
}

// CommitPermutation moves the given sub-cubes to mapping(Pos). All new
// positions are computed before any is written. The mapping must be a
// bijection on the members' current positions; anything else is a
// programming error and panics.
func (s *Set) CommitPermutation(members []int, mapping func(Slot) Slot) {
	from := make(map[Slot]bool, len(members))
	next := make([]Slot, len(members))
	for k, i := range members {
		from[s.cubes[i].Pos] = true
		next[k] = mapping(s.cubes[i].Pos)
	}
	seen := make(map[Slot]bool, len(members))
	for _, p := range next {
		if !from[p] || seen[p] {
			panic(fmt.Sprintf("cube: permutation is not a bijection on its subset (target %v)", p))
		}
		seen[p] = true
	}
	for k, i := range members {
		s.cubes[i].Pos = next[k]
	}
}

// Positions returns the current slot of every sub-cube by construction index.
func (s *Set) Positions() [Count]Slot {
	var out [Count]Slot
	for i := range s.cubes {
		out[i] = s.cubes[i].Pos
	}
	return out
}

// IsBijection reports whether the current slots cover the grid exactly once.
func (s *Set) IsBijection() bool {
	var seen [Count]bool
	for i := range s.cubes {
		p := s.cubes[i].Pos
		if !p.Valid() || seen[p.Index()] {
			return false
		}
		seen[p.Index()] = true
	}
	return true
}

// IsHome reports whether every sub-cube sits in its construction slot.
// Sub-cube orientation is not tracked, so this is the model's notion of solved.
func (s *Set) IsHome() bool {
	for i := range s.cubes {
		if s.cubes[i].Pos != s.cubes[i].Home {
			return false
		}
	}
	return true
}
