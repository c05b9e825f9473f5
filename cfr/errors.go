package cfr

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is wrapped by errors a caller could have avoided:
// a bad player identifier, a mismatched configuration, iterating with
// Chance selected under alternating updates. Engine state is left
// unchanged when this error is returned.
var ErrInvalidArgument = errors.New("cfr: invalid argument")

// ErrLogicError is wrapped by errors that indicate a bug in the engine or
// in the game implementation it is traversing (an internal invariant
// broken), as opposed to caller misuse.
var ErrLogicError = errors.New("cfr: internal invariant violated")

// InvalidArgumentf formats a message and wraps it in ErrInvalidArgument,
// so callers can test the kind with errors.Is.
func InvalidArgumentf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// LogicErrorf formats a message and wraps it in ErrLogicError.
func LogicErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrLogicError, fmt.Sprintf(format, args...))
}
