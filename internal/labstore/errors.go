package labstore

import "errors"

// Lookup failures.  A mutation that returns one of these has not changed
// any state and has not been persisted.
var (
	ErrLabNotFound      = errors.New("lab not found")
	ErrLightNotFound    = errors.New("light not found")
	ErrPracticeNotFound = errors.New("practice not found")
)
