// Package arcball turns pointer drags into an orbit of the whole assembly.
//
// A drag is projected onto a virtual unit sphere inscribed in the viewport.
// Each motion event rotates the accumulated global matrix by the arc between
// the previous and the current sphere point, pre-multiplied so the rotation
// happens about a world-space axis. The controller never touches puzzle state.
package arcball

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Defaults for the tunables.
const (
	DefaultGain      float32 = 2.0
	DefaultThreshold float64 = 4 // squared pixels
	MinScale         float32 = 0.05
)

// Mode selects what a drag manipulates.
type Mode int

const (
	ModeNone Mode = iota
	ModeRotate
	ModeScale
	ModeTranslate
)

func (m Mode) String() string {
	switch m {
	case ModeRotate:
		return "rotate"
	case ModeScale:
		return "scale"
	case ModeTranslate:
		return "translate"
	default:
		return "none"
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithGain sets the multiplier applied to the arc angle. The default of 2
// makes a drag across the sphere a full turn.
func WithGain(g float32) Option {
	return func(c *Controller) {
		c.gain = g
	}
}

// WithThreshold sets the squared pixel displacement a motion event must reach
// before it updates the rotation.
func WithThreshold(d2 float64) Option {
	return func(c *Controller) {
		c.threshold = d2
	}
}

// Controller holds the global rotation and the state of the current drag.
type Controller struct {
	width, height int
	view          mgl32.Mat4
	viewInv       mgl32.Mat4
	gain          float32
	threshold     float64

	global mgl32.Mat4
	scale  float32

	mode   Mode
	active bool
	anchor [2]float64
	cur    [2]float64
}

// New creates a controller for a width x height viewport seen through view.
func New(width, height int, view mgl32.Mat4, opts ...Option) *Controller {
	c := &Controller{
		gain:      DefaultGain,
		threshold: DefaultThreshold,
		global:    mgl32.Ident4(),
		scale:     1,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Resize(width, height)
	c.SetView(view)
	return c
}

// Resize updates the viewport size. Non-positive sizes are clamped to 1.
func (c *Controller) Resize(width, height int) {
	c.width = max(width, 1)
	c.height = max(height, 1)
}

// Size returns the viewport size.
func (c *Controller) Size() (int, int) {
	return c.width, c.height
}

// SetView replaces the camera view matrix used to map rotation axes to world space.
func (c *Controller) SetView(view mgl32.Mat4) {
	c.view = view
	c.viewInv = view.Inv()
}

// View returns the camera view matrix.
func (c *Controller) View() mgl32.Mat4 {
	return c.view
}

// Project maps a window position onto the virtual sphere. The sphere is
// inscribed in the shorter side of the viewport; points outside its
// silhouette land on the silhouette circle.
func (c *Controller) Project(x, y float64) mgl32.Vec3 {
	short := float64(min(c.width, c.height))
	p := mgl32.Vec3{
		float32(2*x/short - 1),
		float32(-2*y/short + 1),
		0,
	}
	d2 := p.X()*p.X() + p.Y()*p.Y()
	if d2 <= 1 {
		p[2] = float32(math.Sqrt(float64(1 - d2)))
		return p
	}
	return p.Normalize()
}

// BeginDrag starts a drag at (x, y). ModeNone ends any drag in progress.
func (c *Controller) BeginDrag(x, y float64, mode Mode) {
	if mode == ModeNone {
		c.EndDrag()
		return
	}
	c.mode = mode
	c.active = true
	c.anchor = [2]float64{x, y}
	c.cur = c.anchor
}

// Drag handles a motion event. Events closer to the anchor than the
// threshold are ignored and leave the anchor in place.
func (c *Controller) Drag(x, y float64) {
	if !c.active {
		return
	}
	c.cur = [2]float64{x, y}
	dx := c.cur[0] - c.anchor[0]
	dy := c.cur[1] - c.anchor[1]
	if dx*dx+dy*dy < c.threshold {
		return
	}

	switch c.mode {
	case ModeRotate:
		c.rotate()
	case ModeScale:
		c.scale += float32(c.anchor[1]-c.cur[1]) / float32(c.height)
		if c.scale < MinScale {
			c.scale = MinScale
		}
	case ModeTranslate:
	}
	c.anchor = c.cur
}

func (c *Controller) rotate() {
	u := c.Project(c.anchor[0], c.anchor[1])
	v := c.Project(c.cur[0], c.cur[1])
	if u == v {
		return
	}
	axis := u.Cross(v)
	if axis.Len() < 1e-5 {
		return
	}
	dot := mgl32.Clamp(u.Dot(v), -1, 1)
	angle := c.gain * float32(math.Acos(float64(dot)))
	world := c.viewInv.Mul4x1(axis.Vec4(0)).Vec3()
	c.global = mgl32.HomogRotate3D(angle, world.Normalize()).Mul4(c.global)
}

// EndDrag ends the current drag.
func (c *Controller) EndDrag() {
	c.active = false
	c.mode = ModeNone
}

// Active reports whether a drag is in progress.
func (c *Controller) Active() bool {
	return c.active
}

// Mode returns the mode of the drag in progress.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Rotation returns the accumulated global rotation.
func (c *Controller) Rotation() mgl32.Mat4 {
	return c.global
}

// Scale returns the uniform scale factor set by scale drags.
func (c *Controller) Scale() float32 {
	return c.scale
}

// Reset restores the identity rotation and unit scale and ends any drag.
func (c *Controller) Reset() {
	c.global = mgl32.Ident4()
	c.scale = 1
	c.EndDrag()
}
