package cube

import "errors"

// Sentinel errors for requests the sequencer refuses.
var (
	ErrSequenceRunning = errors.New("cube: a turn sequence is already running")
	ErrAnimating       = errors.New("cube: a turn is animating")
	ErrInvalidTurn     = errors.New("cube: turn axis or index out of range")
)
