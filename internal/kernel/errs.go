package kernel

import "errors"

// ErrNotInitialized is returned when an operation that requires a live
// run (create, snapshot, report, generator toggles) is attempted before
// the first Initialize call.
var ErrNotInitialized = errors.New("kernel: not initialized")
