// Package clock implements a virtual clock for deterministic tests.
//
// A Clock owns a simulated "current" instant that only moves when told to.
// Code under test reads time and sleeps through the clock instead of the
// operating system, so tests that depend on timing become reproducible and
// fast: a ten minute backoff elapses in microseconds.
//
// # Quick Start
//
//	c, err := clock.New(time.Date(2014, 7, 28, 14, 30, 0, 0, time.UTC), clock.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	c.RunIn(func(c *clock.Clock) error {
//	    fmt.Println("fired at", c.Time())
//	    return nil
//	}, 30)
//
//	if err := c.Elapse(60); err != nil {
//	    log.Fatal(err)
//	}
//
// # Instants and offsets
//
// The clock keeps its instants timezone-naive: a wall-clock reading with no
// attached offset, represented as a time.Time in time.UTC. A fixed local
// offset (Config.LocalZone) interprets naive instants as local time on
// demand, and a UTC view is derived from that. Times carrying any other
// location are treated as offset-aware and converted before use.
//
// # Concurrency
//
// A Clock models a single-threaded, cooperative timeline and is not safe
// for concurrent use from multiple goroutines. The only guarded hazard is
// reentrancy: a scheduled action that tries to advance time again fails
// with ErrLocked instead of corrupting queue iteration.
package clock
