package clock

import (
	"fmt"
	"time"
)

// FromStep converts a step value into a canonical time.Duration.
//
// An int counts whole seconds; a time.Duration passes through unchanged.
// Any other type fails with ErrInvalidStep. FromStep is a pure conversion:
// the positivity rule for integer step seeds belongs to New, not here.
func FromStep(step any) (time.Duration, error) {
	switch v := step.(type) {
	case int:
		return time.Duration(v) * time.Second, nil
	case time.Duration:
		return v, nil
	default:
		return 0, fmt.Errorf("%w: got %T", ErrInvalidStep, step)
	}
}

// FromChange converts a change value into a canonical time.Duration.
//
// An int counts whole seconds, a float64 fractional seconds, and a
// time.Duration passes through unchanged. Any other type fails with
// ErrInvalidChange. Zero and negative values are accepted here; Elapse
// applies its own change >= 0 domain rule.
func FromChange(change any) (time.Duration, error) {
	switch v := change.(type) {
	case int:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	case time.Duration:
		return v, nil
	default:
		return 0, fmt.Errorf("%w: got %T", ErrInvalidChange, change)
	}
}

// seconds validates a sleep delay and converts it to fractional seconds.
func seconds(delay any) (float64, error) {
	switch v := delay.(type) {
	case int:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("%w: got %T", ErrInvalidDelay, delay)
	}
}
