package cube

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runTurn drives one turn to completion and returns the number of steps.
func runTurn(t *testing.T, a *Animator, turn Turn, step float32) int {
	t.Helper()
	a.Begin(turn)
	for n := 1; n <= 1000; n++ {
		if a.Step(step) {
			return n
		}
	}
	t.Fatalf("turn %v never completed", turn)
	return 0
}

func TestTurnTakesThirtyTicksAndCommitsOnce(t *testing.T) {
	s := NewSet(DefaultSpacing)
	a := NewAnimator(s)
	before := s.Positions()

	a.Begin(Turn{Axis: AxisY, Index: 2, Clockwise: true})
	require.Equal(t, Animating, a.State())
	for n := 1; n < 30; n++ {
		require.False(t, a.Step(DefaultStep), "step %d committed early", n)
		require.Equal(t, before, s.Positions(), "slots changed before the turn finished")
	}
	require.True(t, a.Step(DefaultStep))
	assert.Equal(t, Idle, a.State())
	assert.Equal(t, QuarterTurn, a.Angle())
	assert.NotEqual(t, before, s.Positions())

	require.Panics(t, func() { a.Step(DefaultStep) }, "stepping an idle animator is a programming error")
}

func TestOvershootingStepCommitsExactlyOnce(t *testing.T) {
	s := NewSet(DefaultSpacing)
	a := NewAnimator(s)
	steps := runTurn(t, a, Turn{Axis: AxisX, Index: 0, Clockwise: false}, 7)
	assert.Equal(t, 13, steps) // 13 * 7 = 91
	assert.Equal(t, -QuarterTurn, a.Angle())
	assert.True(t, s.IsBijection())
}

func TestBeginWhileAnimatingPanics(t *testing.T) {
	a := NewAnimator(NewSet(DefaultSpacing))
	a.Begin(Turn{Axis: AxisZ, Index: 1, Clockwise: true})
	require.Panics(t, func() { a.Begin(Turn{Axis: AxisX, Index: 0, Clockwise: true}) })
}

func TestMidTurnPoseIsRecomputedFromReference(t *testing.T) {
	s := NewSet(DefaultSpacing)
	a := NewAnimator(s)
	turn := Turn{Axis: AxisZ, Index: 2, Clockwise: false}
	a.Begin(turn)
	sel := a.Selection()
	for n := 0; n < 10; n++ {
		a.Step(DefaultStep)
	}
	want := PivotRotation(AxisZ, sel.Pivot, -30)
	for _, i := range sel.Members {
		c := s.At(i)
		expected := want.Mul4(s.RestTransform(c.Home))
		assert.True(t, c.Transform.ApproxEqualThreshold(expected, 1e-5), "member %v", c.Home)
	}

	// Sub-cubes outside the slice stay at rest.
	for i := 0; i < Count; i++ {
		c := s.At(i)
		if c.Pos.Z != 2 {
			assert.Equal(t, s.RestTransform(c.Pos), c.Transform)
		}
	}
}

func TestCommitAgreesWithVisualPose(t *testing.T) {
	for _, axis := range []Axis{AxisX, AxisY, AxisZ} {
		for _, cw := range []bool{true, false} {
			s := NewSet(DefaultSpacing)
			a := NewAnimator(s)
			turn := Turn{Axis: axis, Index: 0, Clockwise: cw}

			a.Begin(turn)
			sel := a.Selection()
			deg := QuarterTurn
			if !cw {
				deg = -deg
			}
			full := PivotRotation(axis, sel.Pivot, deg)
			visual := make(map[int][3]float32)
			for _, i := range sel.Members {
				m := full.Mul4(s.At(i).Transform)
				visual[i] = [3]float32{m.At(0, 3), m.At(1, 3), m.At(2, 3)}
			}
			for !a.Step(DefaultStep) {
			}

			for _, i := range sel.Members {
				c := s.At(i)
				rest := s.RestTransform(c.Pos)
				got := [3]float32{rest.At(0, 3), rest.At(1, 3), rest.At(2, 3)}
				want := visual[i]
				assert.InDeltaSlice(t, want[:], got[:], 1e-4, "axis %v cw=%v member %v", axis, cw, c.Home)
				assert.Equal(t, rest, c.Transform, "member must rest axis-aligned after the turn")
			}
		}
	}
}

func TestFourTurnsAreIdentity(t *testing.T) {
	for _, axis := range []Axis{AxisX, AxisY, AxisZ} {
		for idx := 0; idx < 3; idx++ {
			s := NewSet(DefaultSpacing)
			a := NewAnimator(s)
			turn := Turn{Axis: axis, Index: idx, Clockwise: true}
			for k := 0; k < 4; k++ {
				runTurn(t, a, turn, DefaultStep)
				if k < 3 {
					assert.False(t, s.IsHome())
				}
			}
			assert.True(t, s.IsHome(), "%v x4", turn)
		}
	}
}

func TestTurnThenInverseRestores(t *testing.T) {
	s := NewSet(DefaultSpacing)
	a := NewAnimator(s)
	rng := rand.New(rand.NewPCG(1, 2))
	seq := NewSequencer(rng)

	// Scramble first so the inverse is checked from a non-home state.
	for k := 0; k < 20; k++ {
		runTurn(t, a, seq.RandomTurn(), DefaultStep)
	}
	for k := 0; k < 20; k++ {
		turn := seq.RandomTurn()
		before := s.Positions()
		runTurn(t, a, turn, DefaultStep)
		runTurn(t, a, turn.Inverse(), DefaultStep)
		assert.Equal(t, before, s.Positions(), "%v then inverse", turn)
	}
}

func TestTurnIsLocal(t *testing.T) {
	s := NewSet(DefaultSpacing)
	a := NewAnimator(s)
	runTurn(t, a, Turn{Axis: AxisY, Index: 1, Clockwise: true}, DefaultStep)

	before := s.Positions()
	runTurn(t, a, Turn{Axis: AxisX, Index: 0, Clockwise: true}, DefaultStep)
	after := s.Positions()
	for i := 0; i < Count; i++ {
		if before[i].X != 0 {
			assert.Equal(t, before[i], after[i], "sub-cube %d moved", i)
		} else {
			assert.Equal(t, 0, after[i].X)
		}
	}
}

func TestBijectionAfterRandomTurns(t *testing.T) {
	s := NewSet(DefaultSpacing)
	a := NewAnimator(s)
	seq := NewSequencer(rand.New(rand.NewPCG(42, 7)))
	for k := 0; k < 200; k++ {
		runTurn(t, a, seq.RandomTurn(), DefaultStep)
		require.True(t, s.IsBijection(), "after %d turns", k+1)
	}
}

func TestZTurnScenario(t *testing.T) {
	s := NewSet(DefaultSpacing)
	a := NewAnimator(s)
	before := s.Positions()
	runTurn(t, a, Turn{Axis: AxisZ, Index: 2, Clockwise: true}, DefaultStep)
	after := s.Positions()

	for i := 0; i < Count; i++ {
		p := before[i]
		if p.Z != 2 {
			assert.Equal(t, p, after[i])
			continue
		}
		assert.Equal(t, Slot{2 - p.Y, p.X, 2}, after[i])
	}
}
