package cube

import (
	"math/rand/v2"
)

// Sequencer queues turns and feeds them to an Animator one at a time.
// Shuffles are random sequences; Play runs a given script the same way.
type Sequencer struct {
	rng     *rand.Rand
	queue   []Turn
	running bool
	total   int
}

// NewSequencer creates an idle sequencer. A nil rng uses the global source.
func NewSequencer(rng *rand.Rand) *Sequencer {
	return &Sequencer{rng: rng}
}

func (s *Sequencer) intN(n int) int {
	if s.rng == nil {
		return rand.IntN(n)
	}
	return s.rng.IntN(n)
}

// RandomTurn returns a uniformly random turn out of the 18 possible ones.
func (s *Sequencer) RandomTurn() Turn {
	return Turn{
		Axis:      Axis(s.intN(3)),
		Index:     s.intN(3),
		Clockwise: s.intN(2) == 0,
	}
}

// Start enqueues n random turns and starts running them. A negative n
// returns ErrInvalidTurn.
func (s *Sequencer) Start(n int, anim *Animator) error {
	if n < 0 {
		return ErrInvalidTurn
	}
	turns := make([]Turn, n)
	for i := range turns {
		turns[i] = s.RandomTurn()
	}
	return s.Play(turns, anim)
}

// Play enqueues the given turns and starts running them.
func (s *Sequencer) Play(turns []Turn, anim *Animator) error {
	if s.running {
		return ErrSequenceRunning
	}
	if anim.Animating() {
		return ErrAnimating
	}
	for _, t := range turns {
		if !t.Valid() {
			return ErrInvalidTurn
		}
	}
	s.queue = append(s.queue[:0], turns...)
	s.total = len(turns)
	s.running = true
	return nil
}

// Tick begins the next queued turn once the animator is idle. When the
// queue is drained and the last turn has finished it stops running and
// reports completion.
func (s *Sequencer) Tick(anim *Animator) (begun *Turn, completed bool) {
	if !s.running || anim.Animating() {
		return nil, false
	}
	if len(s.queue) == 0 {
		s.running = false
		return nil, true
	}
	t := s.queue[0]
	s.queue = s.queue[1:]
	anim.Begin(t)
	return &t, false
}

// Running reports whether a sequence is in progress.
func (s *Sequencer) Running() bool {
	return s.running
}

// Pending returns the number of turns not yet begun.
func (s *Sequencer) Pending() int {
	return len(s.queue)
}

// Total returns the length of the current or last sequence.
func (s *Sequencer) Total() int {
	return s.total
}

// Queue returns a copy of the turns not yet begun.
func (s *Sequencer) Queue() []Turn {
	return append([]Turn(nil), s.queue...)
}

// Cancel drops the queue and stops running. Only a full engine reset uses it.
func (s *Sequencer) Cancel() {
	s.queue = s.queue[:0]
	s.running = false
}
