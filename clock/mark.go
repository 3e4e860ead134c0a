package clock

import (
	"fmt"
	"time"
)

// Mark is an immutable snapshot of a clock's instant. Marks from the same
// clock are totally ordered by (instant, sequence number), so two marks
// taken at the same instant still compare unequal, ordered by creation.
// Combining marks from different clocks is unsupported and fails with
// ErrClockMismatch.
type Mark struct {
	clock *Clock
	when  time.Time
	seq   int
}

// Clock returns the clock the mark was taken from.
func (m *Mark) Clock() *Clock { return m.clock }

// When returns the naive instant the mark was taken at.
func (m *Mark) When() time.Time { return m.when }

// TZWhen returns the mark's instant interpreted in the clock's local offset.
func (m *Mark) TZWhen() time.Time { return m.clock.AsTZ(m.when) }

// UTCWhen returns the mark's instant converted to UTC.
func (m *Mark) UTCWhen() time.Time { return m.clock.AsUTC(m.when) }

// Seq returns the mark's sequence number.
func (m *Mark) Seq() int { return m.seq }

// Elapsed returns how far the mark's instant lies past the clock's start.
func (m *Mark) Elapsed() time.Duration { return m.when.Sub(m.clock.start) }

// Compare orders m against other: -1 if m is earlier, 0 if equal, +1 if
// later. Ties on the instant fall back to the sequence number.
func (m *Mark) Compare(other *Mark) (int, error) {
	if other == nil || m.clock != other.clock {
		return 0, ErrClockMismatch
	}
	if c := m.when.Compare(other.when); c != 0 {
		return c, nil
	}
	switch {
	case m.seq < other.seq:
		return -1, nil
	case m.seq > other.seq:
		return 1, nil
	default:
		return 0, nil
	}
}

// Before reports whether m orders strictly before other.
func (m *Mark) Before(other *Mark) (bool, error) {
	c, err := m.Compare(other)
	return c < 0, err
}

// After reports whether m orders strictly after other.
func (m *Mark) After(other *Mark) (bool, error) {
	c, err := m.Compare(other)
	return c > 0, err
}

// Equal reports whether m and other snapshot the same instant and sequence.
func (m *Mark) Equal(other *Mark) (bool, error) {
	c, err := m.Compare(other)
	return c == 0, err
}

// Add returns the instant v past the mark. An int counts whole seconds
// (the step form of the normalizer); a time.Duration is used as-is.
func (m *Mark) Add(v any) (time.Time, error) {
	d, err := FromStep(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %T", ErrInvalidOperand, v)
	}
	return m.when.Add(d), nil
}

// Sub returns the instant v before the mark. Operand rules match Add.
func (m *Mark) Sub(v any) (time.Time, error) {
	d, err := FromStep(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %T", ErrInvalidOperand, v)
	}
	return m.when.Add(-d), nil
}

// Diff returns the duration from v up to the mark. v may be another Mark
// of the same clock or a time.Time, which is coerced to the clock's naive
// representation first.
func (m *Mark) Diff(v any) (time.Duration, error) {
	switch other := v.(type) {
	case *Mark:
		if other == nil || m.clock != other.clock {
			return 0, ErrClockMismatch
		}
		return m.when.Sub(other.when), nil
	case time.Time:
		return m.when.Sub(m.clock.AsNaive(other)), nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrInvalidOperand, v)
	}
}

// Until returns the duration from the mark up to t, coercing t to the
// clock's naive representation first.
func (m *Mark) Until(t time.Time) time.Duration {
	return m.clock.AsNaive(t).Sub(m.when)
}
