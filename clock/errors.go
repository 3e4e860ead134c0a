package clock

import "errors"

// Sentinel errors for clock operations.
var (
	// ErrLocked indicates a reentrant attempt to advance or lock the clock.
	ErrLocked = errors.New("clock: already locked")

	// ErrNegativeChange indicates an attempt to elapse a negative change.
	ErrNegativeChange = errors.New("clock: change must be positive or zero")

	// ErrPastEvent indicates an attempt to schedule before the current instant.
	ErrPastEvent = errors.New("clock: time must be in the future")

	// ErrAwareStart indicates a start instant that carries a timezone offset.
	ErrAwareStart = errors.New("clock: start may not carry a timezone offset")

	// ErrNonPositiveStep indicates an integer step seed that is zero or negative.
	ErrNonPositiveStep = errors.New("clock: step must be a positive number of seconds")

	// ErrInvalidStep indicates a step value of an unsupported type.
	ErrInvalidStep = errors.New("clock: invalid step")

	// ErrInvalidChange indicates a change value of an unsupported type.
	ErrInvalidChange = errors.New("clock: invalid change")

	// ErrInvalidDelay indicates a sleep delay that is not an int or float64.
	ErrInvalidDelay = errors.New("clock: delay must be int or float64")

	// ErrWakeUnsupported indicates an external wake source was supplied to a
	// simulated sleep. No real event loop backs the clock, so there is
	// nothing that could service it.
	ErrWakeUnsupported = errors.New("clock: external wake source is unsupported")

	// ErrClockMismatch indicates marks from different clocks were combined.
	ErrClockMismatch = errors.New("clock: marks belong to different clocks")

	// ErrInvalidOperand indicates an unsupported operand in mark arithmetic.
	ErrInvalidOperand = errors.New("clock: invalid mark operand")
)
