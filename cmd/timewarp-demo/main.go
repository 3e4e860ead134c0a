// timewarp-demo drives a virtual clock through a scripted timeline.
//
// Usage:
//
//	timewarp-demo [-epoch RFC3339] [-step duration] [-offset hours] [-events N]
//
// The demo installs a clock over the default time bindings, schedules a few
// actions, elapses simulated time, and logs everything with virtual
// timestamps.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/smnsjas/timewarp"
	"github.com/smnsjas/timewarp/clock"
	"github.com/smnsjas/timewarp/clocklog"
)

func main() {
	epochArg := flag.String("epoch", "2014-07-28T14:30:00Z", "Simulation start instant (RFC3339, no offset)")
	step := flag.Duration("step", time.Second, "Default advancement granularity")
	offset := flag.Int("offset", 2, "Local timezone offset in hours")
	events := flag.Int("events", 4, "Number of actions to schedule")
	flag.Parse()

	epoch, err := time.ParseInLocation(time.RFC3339, *epochArg, time.UTC)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -epoch: %v\n", err)
		os.Exit(1)
	}

	zone := time.FixedZone(fmt.Sprintf("UTC%+d", *offset), *offset*60*60)
	c, err := clock.New(epoch.UTC(), clock.Config{Step: *step, LocalZone: zone})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating clock: %v\n", err)
		os.Exit(1)
	}

	// Every log line carries simulated, not wall-clock, time
	logger := slog.New(clocklog.NewHandler(slog.NewTextHandler(os.Stdout, nil), c))

	inst, err := timewarp.Installed(c, timewarp.InstallConfig{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error installing clock: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := inst.Restore(); err != nil {
			fmt.Fprintf(os.Stderr, "Error restoring bindings: %v\n", err)
		}
	}()

	begin := c.Mark()
	for i := 1; i <= *events; i++ {
		n := i
		err := c.RunInSteps(func(c *clock.Clock) error {
			logger.Info("action fired", "n", n, "elapsed", c.Elapsed().String())
			return nil
		}, n)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error scheduling action %d: %v\n", n, err)
			os.Exit(1)
		}
	}

	logger.Info("sleeping through the schedule", "steps", *events)
	if err := timewarp.Sleep(int(*step/time.Second) * *events); err != nil {
		fmt.Fprintf(os.Stderr, "Error sleeping: %v\n", err)
		os.Exit(1)
	}

	end := c.Mark()
	total, err := end.Diff(begin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error diffing marks: %v\n", err)
		os.Exit(1)
	}
	logger.Info("schedule complete", "simulated", total.String(), "pending", c.Pending())
}
