package wm

import "errors"

// ErrNotFound is returned when an operation references a window, group or
// icon id that does not exist. The operation is a no-op.
var ErrNotFound = errors.New("not found")

// ErrInvalidOperation is returned when an operation is rejected, for
// example deleting the default group. State is unchanged.
var ErrInvalidOperation = errors.New("invalid operation")

// ErrMalformedSnapshot is returned by Restore and DecodeSnapshot when the
// input fails structural validation. The in-memory state is retained.
var ErrMalformedSnapshot = errors.New("malformed snapshot")
