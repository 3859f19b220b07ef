package cube

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultStep is the animation step in degrees per tick (30 ticks per turn).
const DefaultStep float32 = 3

// QuarterTurn is the angle of one face turn in degrees.
const QuarterTurn float32 = 90

// State is the animator state.
type State int

const (
	Idle State = iota
	Animating
)

func (s State) String() string {
	if s == Animating {
		return "animating"
	}
	return "idle"
}

// Animator drives one quarter turn at a time over successive ticks and
// commits the slot permutation when the turn completes.
type Animator struct {
	set   *Set
	state State
	turn  Turn
	sel   Selection
	ref   []mgl32.Mat4 // Member transforms captured at Begin
	angle float32      // Signed accumulated angle in degrees
}

// NewAnimator creates an idle animator over the given set.
func NewAnimator(set *Set) *Animator {
	return &Animator{set: set}
}

// State returns the current state.
func (a *Animator) State() State {
	return a.state
}

// Animating reports whether a turn is in progress.
func (a *Animator) Animating() bool {
	return a.state == Animating
}

// Current returns the turn in progress, if any.
func (a *Animator) Current() (Turn, bool) {
	return a.turn, a.state == Animating
}

// Angle returns the signed angle accumulated by the turn in progress.
func (a *Animator) Angle() float32 {
	return a.angle
}

// Selection returns the slice of the turn in progress.
func (a *Animator) Selection() Selection {
	return a.sel
}

// Begin starts a turn. Calling it while a turn is in progress is a
// programming error and panics; queueing belongs to the Sequencer.
func (a *Animator) Begin(t Turn) {
	if a.state == Animating {
		panic("cube: Begin called while a turn is animating")
	}
	if !t.Valid() {
		panic("cube: Begin called with an out-of-range turn " + t.String())
	}
	a.turn = t
	a.sel = Select(a.set, t.Axis, t.Index)
	a.ref = a.ref[:0]
	for _, i := range a.sel.Members {
		a.ref = append(a.ref, a.set.cubes[i].Transform)
	}
	a.angle = 0
	a.state = Animating
}

// Step advances the turn by stepDeg degrees and reports whether this step
// completed it. Poses are recomputed from the transforms captured at Begin
// using the total angle. The step that reaches 90 degrees applies the full
// quarter turn, commits the permutation and returns the members to rest.
func (a *Animator) Step(stepDeg float32) bool {
	if a.state != Animating {
		panic("cube: Step called while idle")
	}
	if stepDeg < 0 {
		stepDeg = -stepDeg
	}
	sign := float32(1)
	if !a.turn.Clockwise {
		sign = -1
	}
	a.angle += sign * stepDeg

	done := (sign > 0 && a.angle >= QuarterTurn) || (sign < 0 && a.angle <= -QuarterTurn)
	if done {
		a.angle = sign * QuarterTurn
	}
	a.pose(a.angle)
	if !done {
		return false
	}

	a.set.CommitPermutation(a.sel.Members, PermutationFor(a.turn.Axis, a.turn.Clockwise))
	for _, i := range a.sel.Members {
		c := &a.set.cubes[i]
		c.Transform = a.set.RestTransform(c.Pos)
	}
	a.state = Idle
	return true
}

// pose sets every member's transform to its reference rotated by deg about
// the turn axis through the pivot.
func (a *Animator) pose(deg float32) {
	m := PivotRotation(a.turn.Axis, a.sel.Pivot, deg)
	for k, i := range a.sel.Members {
		a.set.cubes[i].Transform = m.Mul4(a.ref[k])
	}
}

// Reset abandons any turn in progress without committing it. Callers reset
// the set as well; a half-applied pose is not restored here.
func (a *Animator) Reset() {
	a.state = Idle
	a.angle = 0
	a.sel = Selection{}
	a.ref = a.ref[:0]
}

// PivotRotation returns the rotation by deg degrees about axis through pivot.
func PivotRotation(axis Axis, pivot mgl32.Vec3, deg float32) mgl32.Mat4 {
	to := mgl32.Translate3D(pivot.X(), pivot.Y(), pivot.Z())
	back := mgl32.Translate3D(-pivot.X(), -pivot.Y(), -pivot.Z())
	rot := mgl32.HomogRotate3D(mgl32.DegToRad(deg), axis.Vec())
	return to.Mul4(rot).Mul4(back)
}
