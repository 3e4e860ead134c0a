package timewarp

import (
	"errors"
	"fmt"
	"time"

	"github.com/smnsjas/timewarp/clock"
	"github.com/smnsjas/timewarp/patch"
)

// ErrInvalidClock indicates an installation target that is neither a
// *clock.Clock nor a time.Time.
var ErrInvalidClock = errors.New("timewarp: clock must be a *clock.Clock or time.Time")

// InstallConfig selects which bindings an installation redirects. Zero
// values mean the process defaults: the time module's now, sleep, and
// asyncsleep entry points resolved against the default registry. Nested
// test harnesses can point the specs at alternate callables of their own.
type InstallConfig struct {
	// Now, Sleep, and AsyncSleep each name a binding to redirect, as a
	// patch.Spec or patch.Target.
	Now        any
	Sleep      any
	AsyncSleep any

	// Registry resolves the bindings. Nil means patch.DefaultRegistry.
	Registry *patch.Registry
}

// Installation is an installed clock plus the patch set that will undo it.
type Installation struct {
	// Patches holds the captured originals; its Restore undoes the
	// installation.
	Patches *patch.Set

	// Clock is the virtual clock now serving the redirected bindings.
	Clock *clock.Clock
}

// Installed redirects the configured time entry points to a virtual clock
// and returns the installation. The target may be a ready-made
// *clock.Clock or a plain time.Time, which is wrapped via
// clock.FromInstant. Callers must Restore when done, normally via defer.
func Installed(clockish any, cfg InstallConfig) (*Installation, error) {
	c, err := coerceClock(clockish)
	if err != nil {
		return nil, err
	}

	now := cfg.Now
	if now == nil {
		now = NowSpec
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = SleepSpec
	}
	asyncSleep := cfg.AsyncSleep
	if asyncSleep == nil {
		asyncSleep = AsyncSleepSpec
	}

	set, err := patch.NewSet(cfg.Registry, map[string]any{
		"now":         now,
		"sleep":       sleep,
		"async_sleep": asyncSleep,
	})
	if err != nil {
		return nil, err
	}
	err = set.Install(map[string]any{
		"now":         NowFunc(c.TimeFunc),
		"sleep":       SleepFunc(c.SleepFunc),
		"async_sleep": AsyncSleepFunc(c.AsyncSleepFunc),
	})
	if err != nil {
		return nil, err
	}
	return &Installation{Patches: set, Clock: c}, nil
}

// Restore reinstalls the original bindings unconditionally.
func (i *Installation) Restore() error {
	return i.Patches.Restore()
}

// With installs a clock for the duration of fn and restores the original
// bindings on every exit path, including panics.
func With(clockish any, cfg InstallConfig, fn func(*Installation) error) (err error) {
	inst, err := Installed(clockish, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := inst.Restore(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	return fn(inst)
}

func coerceClock(clockish any) (*clock.Clock, error) {
	switch v := clockish.(type) {
	case *clock.Clock:
		return v, nil
	case time.Time:
		return clock.FromInstant(v, clock.DefaultConfig())
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidClock, clockish)
	}
}
