package sched

import "errors"

// ErrInvalidState describes a dequeued process found outside the state
// the ready queue contract promises. The scheduler logs it and neither
// runs nor requeues that process. It should never occur under normal
// operation.
var ErrInvalidState = errors.New("sched: process dequeued in an unexpected state")
