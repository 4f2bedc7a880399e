package interp

import "fmt"

// ConditionError is the abort-with-message raised by stop() or by a failed
// stopifnot() check. It terminates the current evaluation immediately;
// remaining statements in the function body are skipped.
type ConditionError struct {
	// Call is the source form of the innermost call in progress when the
	// condition was raised. Empty when raised at top level.
	Call    string
	Message string
	// Err is the underlying runtime error, nil for conditions raised
	// directly by stop() or stopifnot().
	Err error
}

func (e *ConditionError) Unwrap() error {
	return e.Err
}

func (e *ConditionError) Error() string {
	if e.Call != "" {
		return fmt.Sprintf("Error in %s: %s", e.Call, e.Message)
	}
	return fmt.Sprintf("Error: %s", e.Message)
}

// returnValue carries an early return() out of a function body.
// It travels as an error so every statement in between is skipped,
// and is intercepted at the call boundary.
type returnValue struct {
	value Value
}

func (returnValue) Error() string {
	return "return used outside a function"
}
