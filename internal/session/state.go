package session

import (
	"errors"
	"fmt"
)

// State is a step of the AR flow.
type State int

const (
	StateCalibrate State = iota
	StateAutoDetect
	StateConfirmed
)

var stateNames = [...]string{"calibrate", "auto_detect", "confirmed"}

func (s State) String() string {
	if s < StateCalibrate || s > StateConfirmed {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Sentinel errors.
var (
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrFirstFrameTimeout = errors.New("timed out waiting for the first frame")
	ErrSourceUnavailable = errors.New("frame source unavailable")
	ErrAlreadyRunning    = errors.New("session already running")
)

// next reports whether from -> to is a forward step.
func next(from, to State) bool {
	return to == from+1 && to <= StateConfirmed
}

func transitionError(from, to State) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
