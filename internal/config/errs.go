package config

import "errors"

var (
	// ErrBadScheduler indicates the scheduler key was neither "fcfs" nor "rr".
	ErrBadScheduler = errors.New("config: scheduler must be \"fcfs\" or \"rr\"")

	// ErrInsRange indicates min-ins > max-ins.
	ErrInsRange = errors.New("config: min-ins must be <= max-ins")

	// ErrMemRange indicates min-mem-per-proc > max-mem-per-proc.
	ErrMemRange = errors.New("config: min-mem-per-proc must be <= max-mem-per-proc")
)
