package cube

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drive ticks the sequencer and animator the way the engine does until the
// sequencer reports completion. It returns the turns begun and the number of
// ticks taken.
func drive(t *testing.T, seq *Sequencer, a *Animator) ([]Turn, int) {
	t.Helper()
	var begun []Turn
	for tick := 1; tick <= 100000; tick++ {
		turn, done := seq.Tick(a)
		if turn != nil {
			begun = append(begun, *turn)
		}
		if done {
			return begun, tick
		}
		if a.Animating() && a.Step(DefaultStep) && seq.Pending() == 0 {
			if _, done := seq.Tick(a); done {
				return begun, tick
			}
		}
	}
	t.Fatal("sequence never completed")
	return nil, 0
}

func TestShuffleRunsExactlyN(t *testing.T) {
	for _, n := range []int{1, 5, 25, 35} {
		s := NewSet(DefaultSpacing)
		a := NewAnimator(s)
		seq := NewSequencer(rand.New(rand.NewPCG(uint64(n), 99)))

		require.NoError(t, seq.Start(n, a))
		require.True(t, seq.Running())
		assert.Equal(t, n, seq.Pending())

		begun, _ := drive(t, seq, a)
		assert.Len(t, begun, n)
		assert.False(t, seq.Running())
		assert.Equal(t, 0, seq.Pending())
		assert.Equal(t, n, seq.Total())
		assert.False(t, a.Animating())
		assert.True(t, s.IsBijection())
	}
}

func TestSingleTurnShuffleTiming(t *testing.T) {
	s := NewSet(DefaultSpacing)
	a := NewAnimator(s)
	seq := NewSequencer(rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, seq.Start(1, a))

	// The thirtieth tick commits the turn and completes the shuffle.
	begun, ticks := drive(t, seq, a)
	require.Len(t, begun, 1)
	assert.Equal(t, 30, ticks)
}

func TestStartRejectsNegativeCount(t *testing.T) {
	a := NewAnimator(NewSet(DefaultSpacing))
	seq := NewSequencer(rand.New(rand.NewPCG(1, 2)))

	assert.ErrorIs(t, seq.Start(-1, a), ErrInvalidTurn)
	assert.False(t, seq.Running())
	assert.Equal(t, 0, seq.Pending())

	require.NoError(t, seq.Start(0, a))
	assert.True(t, seq.Running())
}

func TestShuffleTurnsAreValid(t *testing.T) {
	seq := NewSequencer(rand.New(rand.NewPCG(11, 12)))
	seen := make(map[Turn]bool)
	for k := 0; k < 2000; k++ {
		turn := seq.RandomTurn()
		require.True(t, turn.Valid(), "%v", turn)
		seen[turn] = true
	}
	assert.Len(t, seen, 18, "every axis, index and direction should come up")
}

func TestStartRejectedWhileBusy(t *testing.T) {
	s := NewSet(DefaultSpacing)
	a := NewAnimator(s)
	seq := NewSequencer(nil)

	require.NoError(t, seq.Start(3, a))
	assert.ErrorIs(t, seq.Start(3, a), ErrSequenceRunning)
	assert.Equal(t, 3, seq.Total())

	other := NewSequencer(nil)
	seq.Tick(a)
	require.True(t, a.Animating())
	assert.ErrorIs(t, other.Start(2, a), ErrAnimating)
}

func TestPlayRejectsInvalidTurns(t *testing.T) {
	a := NewAnimator(NewSet(DefaultSpacing))
	seq := NewSequencer(nil)
	err := seq.Play([]Turn{{Axis: AxisX, Index: 0}, {Axis: AxisY, Index: 3}}, a)
	assert.ErrorIs(t, err, ErrInvalidTurn)
	assert.False(t, seq.Running())
}

func TestPlayRunsTurnsInOrder(t *testing.T) {
	s := NewSet(DefaultSpacing)
	a := NewAnimator(s)
	seq := NewSequencer(nil)
	script := []Turn{
		{Axis: AxisX, Index: 2, Clockwise: true},
		{Axis: AxisY, Index: 0, Clockwise: false},
		{Axis: AxisZ, Index: 1, Clockwise: true},
	}
	require.NoError(t, seq.Play(script, a))
	begun, _ := drive(t, seq, a)
	assert.Equal(t, script, begun)

	// Playing the inverses backwards undoes it.
	undo := make([]Turn, len(script))
	for i, turn := range script {
		undo[len(script)-1-i] = turn.Inverse()
	}
	require.NoError(t, seq.Play(undo, a))
	drive(t, seq, a)
	assert.True(t, s.IsHome())
}

func TestEmptySequenceCompletesOnFirstTick(t *testing.T) {
	a := NewAnimator(NewSet(DefaultSpacing))
	seq := NewSequencer(nil)
	require.NoError(t, seq.Start(0, a))
	begun, ticks := drive(t, seq, a)
	assert.Empty(t, begun)
	assert.Equal(t, 1, ticks)
}

func TestCancel(t *testing.T) {
	a := NewAnimator(NewSet(DefaultSpacing))
	seq := NewSequencer(nil)
	require.NoError(t, seq.Start(10, a))
	seq.Cancel()
	assert.False(t, seq.Running())
	assert.Empty(t, seq.Queue())
}
