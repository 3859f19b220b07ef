package cubesim

import "errors"

// Sentinel errors for the cubesim package.
var (
	// Request errors. The engine rejects a request instead of queueing it.
	ErrBusy       = errors.New("cubesim: a turn is already animating")
	ErrShuffling  = errors.New("cubesim: a sequence is in progress")
	ErrOutOfRange = errors.New("cubesim: axis or layer out of range")

	// Parsing errors
	ErrInvalidNotation = errors.New("cubesim: invalid move notation")

	// Device errors
	ErrNotConnected   = errors.New("cubesim: not connected to device")
	ErrDeviceNotFound = errors.New("cubesim: device not found")
)
