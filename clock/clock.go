package clock

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Action is a callback scheduled to run at a virtual instant. It receives
// the clock whose advancement fired it; the clock's current instant is the
// event's instant for the duration of the call. A non-nil error aborts the
// advancement that is in progress.
type Action func(*Clock) error

// Config holds the tunable parts of a Clock.
type Config struct {
	// Step is the default advancement granularity, used by ElapseSteps and
	// the by-step scheduling APIs. An int counts whole seconds and must be
	// positive; an explicit time.Duration is accepted as-is. A nil Step
	// means one second.
	Step any

	// LocalZone is the fixed offset used to interpret naive instants as
	// local time. A nil LocalZone means UTC.
	LocalZone *time.Location

	// Logger receives debug-level traces of advancement and event firing.
	// A nil Logger disables tracing.
	Logger *slog.Logger
}

// DefaultConfig returns the default clock configuration: a one second step
// and a UTC local offset.
func DefaultConfig() Config {
	return Config{Step: 1, LocalZone: time.UTC}
}

// event pairs a scheduled instant with its action. Entries sharing an
// instant fire in insertion order; actions are never compared.
type event struct {
	when   time.Time
	action Action
}

// Clock is a virtual clock. Its current instant moves only through Elapse
// and the operations built on it, firing any scheduled actions that fall
// due along the way.
type Clock struct {
	id      uuid.UUID
	current time.Time
	start   time.Time
	zone    *time.Location
	step    time.Duration
	locked  bool
	events  []event
	markSeq int
	logger  *slog.Logger
}

// New creates a Clock starting at the given naive instant.
//
// The start must not carry a timezone offset: it is taken as a wall-clock
// reading in time.UTC (the canonical naive form). Constructing from an
// offset-aware instant is a user error; use FromInstant for that.
func New(start time.Time, cfg Config) (*Clock, error) {
	if start.Location() != time.UTC {
		return nil, fmt.Errorf("%w: location %q", ErrAwareStart, start.Location())
	}

	step, err := stepFromConfig(cfg.Step)
	if err != nil {
		return nil, err
	}

	zone := cfg.LocalZone
	if zone == nil {
		zone = time.UTC
	}

	id := uuid.New()
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With(slog.String("clock_id", id.String()))

	return &Clock{
		id:      id,
		current: start,
		start:   start,
		zone:    zone,
		step:    step,
		logger:  logger,
	}, nil
}

// FromInstant creates a Clock from an instant that may carry an offset.
// An offset-aware instant contributes its zone as the clock's local offset
// and its wall-clock fields as the naive start; a naive instant behaves
// exactly like New with a UTC local offset.
func FromInstant(t time.Time, cfg Config) (*Clock, error) {
	if t.Location() != time.UTC {
		cfg.LocalZone = t.Location()
		t = stripZone(t)
	} else {
		cfg.LocalZone = time.UTC
	}
	return New(t, cfg)
}

func stepFromConfig(step any) (time.Duration, error) {
	if step == nil {
		return time.Second, nil
	}
	if n, ok := step.(int); ok && n <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrNonPositiveStep, n)
	}
	return FromStep(step)
}

// stripZone rebuilds t's wall-clock fields in the canonical naive form.
func stripZone(t time.Time) time.Time {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	return time.Date(y, mo, d, h, mi, s, t.Nanosecond(), time.UTC)
}

// ID returns the clock's unique identity, used in trace attributes.
func (c *Clock) ID() uuid.UUID { return c.id }

// Time returns the current naive instant.
func (c *Clock) Time() time.Time { return c.current }

// TZTime returns the current instant interpreted in the local offset.
func (c *Clock) TZTime() time.Time { return c.AsTZ(c.current) }

// UTCTime returns the current instant converted to UTC.
func (c *Clock) UTCTime() time.Time { return c.AsUTC(c.current) }

// Timestamp returns the current naive instant as POSIX seconds, with the
// naive reading interpreted as UTC.
func (c *Clock) Timestamp() float64 { return toTimestamp(c.current) }

// TZTimestamp returns the current local-offset instant as POSIX seconds.
func (c *Clock) TZTimestamp() float64 { return toTimestamp(c.TZTime()) }

// UTCTimestamp returns the current UTC instant as POSIX seconds.
func (c *Clock) UTCTimestamp() float64 { return toTimestamp(c.UTCTime()) }

// Start returns the naive instant the clock was created with.
func (c *Clock) Start() time.Time { return c.start }

// TZStart returns the start instant interpreted in the local offset.
func (c *Clock) TZStart() time.Time { return c.AsTZ(c.start) }

// UTCStart returns the start instant converted to UTC.
func (c *Clock) UTCStart() time.Time { return c.AsUTC(c.start) }

// Elapsed returns how far the clock has advanced since its start.
func (c *Clock) Elapsed() time.Duration { return c.current.Sub(c.start) }

// Step returns the default advancement granularity.
func (c *Clock) Step() time.Duration { return c.step }

// LocalZone returns the fixed offset interpreting naive instants.
func (c *Clock) LocalZone() *time.Location { return c.zone }

// IsLocked reports whether an advancement is in progress.
func (c *Clock) IsLocked() bool { return c.locked }

// Pending returns the number of scheduled actions not yet fired.
func (c *Clock) Pending() int { return len(c.events) }

// AsNaive coerces t to the clock's naive representation. Offset-aware
// times are converted to the local offset first, then stripped.
func (c *Clock) AsNaive(t time.Time) time.Time {
	if t.Location() == time.UTC {
		return t
	}
	return stripZone(t.In(c.zone))
}

// AsTZ interprets a naive t in the local offset, or converts an aware t
// into it.
func (c *Clock) AsTZ(t time.Time) time.Time {
	if t.Location() == time.UTC {
		y, mo, d := t.Date()
		h, mi, s := t.Clock()
		return time.Date(y, mo, d, h, mi, s, t.Nanosecond(), c.zone)
	}
	return t.In(c.zone)
}

// AsUTC converts t to UTC, interpreting a naive t in the local offset first.
func (c *Clock) AsUTC(t time.Time) time.Time {
	return c.AsTZ(t).UTC()
}

// TimeAtStep returns the naive instant n steps after the start.
func (c *Clock) TimeAtStep(n int) time.Time {
	return c.start.Add(c.step * time.Duration(n))
}

// TZTimeAtStep returns the local-offset instant n steps after the start.
func (c *Clock) TZTimeAtStep(n int) time.Time { return c.AsTZ(c.TimeAtStep(n)) }

// UTCTimeAtStep returns the UTC instant n steps after the start.
func (c *Clock) UTCTimeAtStep(n int) time.Time { return c.AsUTC(c.TimeAtStep(n)) }

// Elapse advances the clock by the given change (int seconds, float64
// seconds, or time.Duration), firing scheduled actions that fall due.
//
// Actions fire in ascending instant order, insertion order among equals,
// and each sees the clock set to its own instant rather than the final
// target. A negative change fails with ErrNegativeChange. Elapse holds the
// clock's reentrancy lock for its full critical section, so an action that
// tries to advance time again fails with ErrLocked. An action error aborts
// the advancement immediately; actions still due stay queued and the lock
// is released on every exit path.
func (c *Clock) Elapse(change any) error {
	d, err := FromChange(change)
	if err != nil {
		return err
	}
	if d < 0 {
		return fmt.Errorf("%w: got %s", ErrNegativeChange, d)
	}

	release, err := c.Lock()
	if err != nil {
		return err
	}
	defer release()

	target := c.current.Add(d)
	c.logger.Debug("elapsing", slog.Time("from", c.current), slog.Time("to", target))

	for len(c.events) > 0 && !c.events[0].when.After(target) {
		ev := c.events[0]
		c.events = c.events[1:]
		c.current = ev.when
		c.logger.Debug("firing scheduled action", slog.Time("when", ev.when))
		if err := ev.action(c); err != nil {
			return err
		}
	}
	c.current = target
	return nil
}

// ElapseSteps advances the clock by n default steps.
func (c *Clock) ElapseSteps(n int) error {
	return c.Elapse(c.step * time.Duration(n))
}

// NextTime returns the current naive instant and then advances the clock
// by one step. This is the building block for the now-query redirection.
func (c *Clock) NextTime() (time.Time, error) {
	cur := c.current
	if err := c.ElapseSteps(1); err != nil {
		return time.Time{}, err
	}
	return cur, nil
}

// NextTZTime is NextTime viewed in the local offset.
func (c *Clock) NextTZTime() (time.Time, error) {
	t, err := c.NextTime()
	if err != nil {
		return time.Time{}, err
	}
	return c.AsTZ(t), nil
}

// NextUTCTime is NextTime converted to UTC.
func (c *Clock) NextUTCTime() (time.Time, error) {
	t, err := c.NextTime()
	if err != nil {
		return time.Time{}, err
	}
	return c.AsUTC(t), nil
}

// NextTimestamp returns the current naive timestamp and then advances the
// clock by one step.
func (c *Clock) NextTimestamp() (float64, error) {
	ts := c.Timestamp()
	if err := c.ElapseSteps(1); err != nil {
		return 0, err
	}
	return ts, nil
}

// NextTZTimestamp returns the current local-offset timestamp and then
// advances the clock by one step.
func (c *Clock) NextTZTimestamp() (float64, error) {
	ts := c.TZTimestamp()
	if err := c.ElapseSteps(1); err != nil {
		return 0, err
	}
	return ts, nil
}

// NextUTCTimestamp returns the current UTC timestamp and then advances the
// clock by one step.
func (c *Clock) NextUTCTimestamp() (float64, error) {
	ts := c.UTCTimestamp()
	if err := c.ElapseSteps(1); err != nil {
		return 0, err
	}
	return ts, nil
}

// TimeFunc adapts the clock to "get the current time as a POSIX
// timestamp" semantics: it returns the pre-advance timestamp and steps the
// clock forward. When called while the clock is locked (a reentrant query
// from inside a running action), it degrades to a non-advancing read of
// the current timestamp instead of failing.
func (c *Clock) TimeFunc() (float64, error) {
	ts, err := c.NextTimestamp()
	if err == nil {
		return ts, nil
	}
	if IsLockedErr(err) {
		return c.Timestamp(), nil
	}
	return 0, err
}

// SleepFunc elapses the clock by the given number of seconds (int or
// float64) instead of suspending the caller.
func (c *Clock) SleepFunc(delay any) error {
	secs, err := seconds(delay)
	if err != nil {
		return err
	}
	return c.Elapse(secs)
}

// AsyncSleepFunc simulates an asynchronous sleep: it elapses the clock by
// the given number of seconds and returns the caller-supplied result. The
// context is checked but never waited on; a non-nil wake channel fails
// with ErrWakeUnsupported because no real event loop backs the clock.
func (c *Clock) AsyncSleepFunc(ctx context.Context, delay any, result any, wake <-chan struct{}) (any, error) {
	if wake != nil {
		return nil, ErrWakeUnsupported
	}
	secs, err := seconds(delay)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.Elapse(secs); err != nil {
		return nil, err
	}
	return result, nil
}

// RunAt schedules action to fire when the clock reaches the given instant.
// The instant is coerced to the clock's naive representation; scheduling
// before the current instant fails with ErrPastEvent and leaves the queue
// untouched. Entries sharing an instant keep their insertion order.
func (c *Clock) RunAt(action Action, when time.Time) error {
	when = c.AsNaive(when)
	if when.Before(c.current) {
		return fmt.Errorf("%w: %s is before %s", ErrPastEvent,
			when.Format(time.RFC3339Nano), c.current.Format(time.RFC3339Nano))
	}
	i := sort.Search(len(c.events), func(i int) bool {
		return c.events[i].when.After(when)
	})
	c.events = slices.Insert(c.events, i, event{when: when, action: action})
	c.logger.Debug("scheduled action", slog.Time("when", when), slog.Int("pending", len(c.events)))
	return nil
}

// RunIn schedules action to fire after the given change from now.
func (c *Clock) RunIn(action Action, change any) error {
	d, err := FromChange(change)
	if err != nil {
		return err
	}
	return c.RunAt(action, c.current.Add(d))
}

// RunInSteps schedules action to fire after n default steps from now.
func (c *Clock) RunInSteps(action Action, n int) error {
	return c.RunIn(action, c.step*time.Duration(n))
}

// Mark snapshots the current instant. Marks taken at the same instant are
// still totally ordered: the later one carries a higher sequence number.
func (c *Clock) Mark() *Mark {
	m := &Mark{clock: c, when: c.current, seq: c.markSeq}
	c.markSeq++
	return m
}

// Lock acquires the clock's non-reentrant guard and returns its release
// function. Acquiring while held fails with ErrLocked. Callers must
// release on every exit path, normally via defer.
func (c *Clock) Lock() (release func(), err error) {
	if c.locked {
		return nil, ErrLocked
	}
	c.locked = true
	return func() { c.locked = false }, nil
}

// IsLockedErr reports whether err is the reentrancy error.
func IsLockedErr(err error) bool {
	return errors.Is(err, ErrLocked)
}

func toTimestamp(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
