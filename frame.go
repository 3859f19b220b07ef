package cubesim

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/SeamusWaldron/cubesim/internal/cube"
)

// Axis is a principal axis.
type Axis = cube.Axis

const (
	AxisX = cube.AxisX
	AxisY = cube.AxisY
	AxisZ = cube.AxisZ
)

// Color is a sticker color; Black marks an interior face.
type Color = cube.Color

// Slot is a grid coordinate in {0,1,2}³.
type Slot = cube.Slot

// SliceTurn is one quarter turn of one slice.
type SliceTurn = cube.Turn

// Pose is the renderable state of one sub-cube.
type Pose struct {
	Home      Slot       // Construction slot, the sub-cube's identity
	Pos       Slot       // Current logical slot
	Transform mgl32.Mat4 // Local transform including any turn in progress
	Colors    [6]Color   // Indexed by face: +X, -X, +Y, -Y, +Z, -Z
}

// Frame is everything a renderer needs for one tick. Cubes is indexed by
// construction slot, so a renderer can keep per-cube resources by index.
type Frame struct {
	Cubes       [cube.Count]Pose
	Rotation    mgl32.Mat4 // Global rotation from the arcball
	Scale       float32
	Shuffling   bool
	Animating   bool
	AxisVisible bool
	Tick        uint64
}

// Model returns the model matrix of sub-cube i: the global rotation, then
// the uniform scale, then the sub-cube's local transform.
func (f *Frame) Model(i int) mgl32.Mat4 {
	return f.Rotation.Mul4(mgl32.Scale3D(f.Scale, f.Scale, f.Scale)).Mul4(f.Cubes[i].Transform)
}

// ShowAxes reports whether the axis gizmo should be drawn. Renderers
// suppress it while a shuffle runs.
func (f *Frame) ShowAxes() bool {
	return f.AxisVisible && !f.Shuffling
}

// Solved reports whether every sub-cube is in its construction slot.
func (f *Frame) Solved() bool {
	for _, p := range f.Cubes {
		if p.Pos != p.Home {
			return false
		}
	}
	return true
}

// Facelets returns the colors a renderer shows on one outer face as a 3x3
// grid: row 0 is the top row and column 0 the left column, looking at the
// face from outside in the usual net layout (U above F, D below, L F R B
// around). Sub-cubes rest axis-aligned, so each cell is the occupant's home
// color for that face, which is Black when the occupant came from inside.
func (f *Frame) Facelets(face cube.Face) [3][3]Color {
	var grid [3][3]Color
	axis := face.Axis()
	outer := face.Outer()
	for _, p := range f.Cubes {
		if p.Pos.Coord(axis) != outer {
			continue
		}
		r, c := netCell(face, p.Pos)
		grid[r][c] = p.Colors[face]
	}
	return grid
}

// netCell maps a slot on a face to its row and column in the flattened net.
func netCell(face cube.Face, p Slot) (row, col int) {
	switch face {
	case cube.FacePosZ: // F
		return 2 - p.Y, p.X
	case cube.FaceNegZ: // B
		return 2 - p.Y, 2 - p.X
	case cube.FacePosX: // R
		return 2 - p.Y, 2 - p.Z
	case cube.FaceNegX: // L
		return 2 - p.Y, p.Z
	case cube.FacePosY: // U
		return p.Z, p.X
	default: // D
		return 2 - p.Z, p.X
	}
}
