package process

import "errors"

var (
	// ErrInvalidTransition indicates a lifecycle transition was attempted
	// from a state that does not permit it. This is a programming bug:
	// it should never occur when the scheduler drives transitions
	// correctly, so callers should treat it as fatal.
	ErrInvalidTransition = errors.New("process: invalid state transition")

	// ErrDuplicateName indicates Table.Insert was called with a name
	// already present in the table.
	ErrDuplicateName = errors.New("process: duplicate name")

	// ErrNotFound indicates Table.Get found no record for the given name.
	ErrNotFound = errors.New("process: not found")
)
