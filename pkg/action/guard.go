package action

import "errors"

// Guard is a client-side precondition checked before an action is dispatched.
type Guard func() error

// GuardError is returned by Run when a guard blocks an action.
type GuardError struct {
	Family string
	Kind   Kind
	Err    error
}

func (e *GuardError) Error() string {
	return e.Err.Error()
}

func (e *GuardError) Unwrap() error {
	return e.Err
}

// Check returns a guard that fails with msg when ok returns false.
func Check(ok func() bool, msg string) Guard {
	return func() error {
		if !ok() {
			return errors.New(msg)
		}
		return nil
	}
}

// CheckGuards evaluates guards in order without dispatching anything. The
// first failure is returned as a *GuardError for meta's family and kind.
func CheckGuards(meta Meta, guards ...Guard) error {
	for _, g := range guards {
		if err := g(); err != nil {
			return &GuardError{Family: meta.Family, Kind: meta.Kind, Err: err}
		}
	}
	return nil
}
