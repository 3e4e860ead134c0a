package timewarp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smnsjas/timewarp/clock"
	"github.com/smnsjas/timewarp/patch"
)

// Binding signatures for the three redirectable time entry points. They
// are aliases so both plain functions and clock method values satisfy
// them.
type (
	// NowFunc returns the current time as POSIX seconds.
	NowFunc = func() (float64, error)

	// SleepFunc blocks for the given number of seconds (int or float64).
	SleepFunc = func(delay any) error

	// AsyncSleepFunc blocks cooperatively for the given number of seconds
	// and returns the caller-supplied result. A non-nil wake channel ends
	// the sleep early when it fires, where the implementation supports it.
	AsyncSleepFunc = func(ctx context.Context, delay any, result any, wake <-chan struct{}) (any, error)
)

// TimeModule is the registry name of the default time module.
const TimeModule = "time"

// Default binding specs for the three time entry points. Installation
// contexts patch these unless configured otherwise.
var (
	NowSpec        = patch.Spec{ModuleName: TimeModule, QualifiedName: "now"}
	SleepSpec      = patch.Spec{ModuleName: TimeModule, QualifiedName: "sleep"}
	AsyncSleepSpec = patch.Spec{ModuleName: TimeModule, QualifiedName: "asyncsleep"}
)

// ErrBinding indicates a registry binding with an unexpected type.
var ErrBinding = errors.New("timewarp: binding has unexpected type")

func init() {
	m := patch.NewModule(TimeModule)
	_ = m.SetAttr(NowSpec.Name(), NowFunc(realNow))
	_ = m.SetAttr(SleepSpec.Name(), SleepFunc(realSleep))
	_ = m.SetAttr(AsyncSleepSpec.Name(), AsyncSleepFunc(realAsyncSleep))
	patch.DefaultRegistry.Register(m.Name(), m)
}

// Now dispatches through the default registry, so it reads either the
// real wall clock or whichever virtual clock is installed.
func Now() (float64, error) {
	v, err := NowSpec.Resolve(patch.DefaultRegistry)
	if err != nil {
		return 0, err
	}
	fn, ok := v.(NowFunc)
	if !ok {
		return 0, fmt.Errorf("%w: %s is %T", ErrBinding, NowSpec, v)
	}
	return fn()
}

// Sleep dispatches through the default registry: a real suspension
// normally, an instantaneous virtual advancement under an installed clock.
func Sleep(delay any) error {
	v, err := SleepSpec.Resolve(patch.DefaultRegistry)
	if err != nil {
		return err
	}
	fn, ok := v.(SleepFunc)
	if !ok {
		return fmt.Errorf("%w: %s is %T", ErrBinding, SleepSpec, v)
	}
	return fn(delay)
}

// AsyncSleep dispatches through the default registry.
func AsyncSleep(ctx context.Context, delay any, result any, wake <-chan struct{}) (any, error) {
	v, err := AsyncSleepSpec.Resolve(patch.DefaultRegistry)
	if err != nil {
		return nil, err
	}
	fn, ok := v.(AsyncSleepFunc)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T", ErrBinding, AsyncSleepSpec, v)
	}
	return fn(ctx, delay, result, wake)
}

func realNow() (float64, error) {
	return float64(time.Now().UnixNano()) / float64(time.Second), nil
}

func realSleep(delay any) error {
	d, err := delayDuration(delay)
	if err != nil {
		return err
	}
	time.Sleep(d)
	return nil
}

func realAsyncSleep(ctx context.Context, delay any, result any, wake <-chan struct{}) (any, error) {
	d, err := delayDuration(delay)
	if err != nil {
		return nil, err
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return result, nil
	case <-wake:
		return result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func delayDuration(delay any) (time.Duration, error) {
	switch v := delay.(type) {
	case int:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	default:
		return 0, fmt.Errorf("%w: got %T", clock.ErrInvalidDelay, delay)
	}
}
