package cube

import "github.com/go-gl/mathgl/mgl32"

// Color represents a sticker color.
type Color byte

const (
	Black  Color = 0 // Interior faces
	Red    Color = 1 // +X when home
	Orange Color = 2 // -X when home
	Green  Color = 3 // +Y when home
	White  Color = 4 // -Y when home
	Blue   Color = 5 // +Z when home
	Yellow Color = 6 // -Z when home
)

func (c Color) String() string {
	switch c {
	case Black:
		return "."
	case Red:
		return "R"
	case Orange:
		return "O"
	case Green:
		return "G"
	case White:
		return "W"
	case Blue:
		return "B"
	case Yellow:
		return "Y"
	default:
		return "?"
	}
}

// RGB returns the color as linear RGB in [0,1].
func (c Color) RGB() mgl32.Vec3 {
	switch c {
	case Red:
		return mgl32.Vec3{1, 0, 0}
	case Orange:
		return mgl32.Vec3{1, 0.5, 0}
	case Green:
		return mgl32.Vec3{0, 1, 0}
	case White:
		return mgl32.Vec3{1, 1, 1}
	case Blue:
		return mgl32.Vec3{0, 0, 1}
	case Yellow:
		return mgl32.Vec3{1, 1, 0}
	default:
		return mgl32.Vec3{0, 0, 0}
	}
}

// Face identifies one of the six faces of a sub-cube in grid space.
type Face int

const (
	FacePosX Face = 0
	FaceNegX Face = 1
	FacePosY Face = 2
	FaceNegY Face = 3
	FacePosZ Face = 4
	FaceNegZ Face = 5
)

// Faces lists every face in index order.
var Faces = [6]Face{FacePosX, FaceNegX, FacePosY, FaceNegY, FacePosZ, FaceNegZ}

func (f Face) String() string {
	switch f {
	case FacePosX:
		return "+X"
	case FaceNegX:
		return "-X"
	case FacePosY:
		return "+Y"
	case FaceNegY:
		return "-Y"
	case FacePosZ:
		return "+Z"
	case FaceNegZ:
		return "-Z"
	default:
		return "?"
	}
}

// Axis returns the axis the face is perpendicular to.
func (f Face) Axis() Axis {
	return Axis(f / 2)
}

// Outer returns the grid coordinate of the outer layer the face points out of.
func (f Face) Outer() int {
	if f%2 == 0 {
		return 2
	}
	return 0
}

// Normal returns the outward unit normal of the face.
func (f Face) Normal() mgl32.Vec3 {
	var n mgl32.Vec3
	if f%2 == 0 {
		n[f.Axis()] = 1
	} else {
		n[f.Axis()] = -1
	}
	return n
}

// homeColor returns the sticker color of an outer face of the solved puzzle.
func homeColor(f Face) Color {
	switch f {
	case FacePosX:
		return Red
	case FaceNegX:
		return Orange
	case FacePosY:
		return Green
	case FaceNegY:
		return White
	case FacePosZ:
		return Blue
	case FaceNegZ:
		return Yellow
	default:
		return Black
	}
}
