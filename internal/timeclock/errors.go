package timeclock

import (
	"errors"
	"fmt"
)

// ErrClockState is matched by every StateError.
var ErrClockState = errors.New("clock state error")

// ErrInvariant marks a state the resolver should never produce.
var ErrInvariant = errors.New("invariant violation")

// StateError reports a transition attempted from the wrong state.
type StateError struct {
	Clock string
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("clock %q: cannot %s while clocked %s", e.Clock, e.Op, e.State)
}

func (e *StateError) Is(target error) bool {
	return target == ErrClockState
}
