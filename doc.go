// Package timewarp provides a deterministic, fully controllable notion of
// current time for automated test suites.
//
// The library pairs a virtual clock with a binding-redirection framework:
// tests install a clock over the process's time entry points, the code
// under test reads time and sleeps through those entry points as usual,
// and every observed instant becomes reproducible.
//
// # Architecture
//
// The library is organized into layers:
//
//	┌─────────────────────────────────────────────────────────┐
//	│  timewarp      Default bindings + installation context  │
//	├─────────────────────────────────────────────────────────┤
//	│  clock/        Virtual clock, marks, event scheduling   │
//	├─────────────────────────────────────────────────────────┤
//	│  patch/        Registry, specs, patches, patch sets     │
//	├─────────────────────────────────────────────────────────┤
//	│  clocklog/     slog handler stamped with virtual time   │
//	└─────────────────────────────────────────────────────────┘
//
// # Quick Start
//
//	epoch := time.Date(2014, 7, 28, 14, 30, 0, 0, time.UTC)
//	inst, err := timewarp.Installed(epoch, timewarp.InstallConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Restore()
//
//	before, _ := timewarp.Now() // reads the virtual clock, then steps it
//	_ = timewarp.Sleep(90)     // elapses 90 virtual seconds instantly
//	after, _ := timewarp.Now()
//	fmt.Println(after - before) // 91, exactly, every run
package timewarp
