// SPDX-License-Identifier: MPL-2.0

package observe

import (
	"fmt"
)

// SafeExecute runs fn and converts both a returned error and a panic into a
// logged fault. The error returned is the one fn returned, or a *PanicError
// when fn panicked. Nothing escapes as a panic.
func SafeExecute(o Observer, operation string, fn func() error) error {
	err := Recover(operation, fn)
	if err != nil {
		OrNop(o).Observe(Error(KindFault, operation+" failed", "", err))
	}
	return err
}

// Recover runs fn and turns a panic into a *PanicError. Nothing is logged.
func Recover(operation string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Operation: operation, Value: r}
		}
	}()
	return fn()
}

// PanicError carries a value recovered from a panic.
type PanicError struct {
	Operation string
	Value     any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: panic: %v", e.Operation, e.Value)
}

// Unwrap returns the recovered value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
