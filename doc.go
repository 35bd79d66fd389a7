// Package bte drives interactive terminal applications through a PTY under
// deterministic scheduling and checks their behavior against declarative
// scenarios.
//
// A scenario describes a command to spawn, a sequence of steps (send keys,
// wait for screen content, resize, send a signal, assert cursor position),
// and a set of invariants to hold throughout. Running a scenario produces a
// sealed, checksummed Trace that can be replayed and compared against a
// live terminal to detect divergence.
//
// # Quick Start
//
//	scn := scenario.Scenario{
//	    Name:     "vim-quits-cleanly",
//	    Command:  scenario.Command{Program: "vim"},
//	    Terminal: scenario.TerminalSize{Cols: 80, Rows: 24},
//	    Steps: []scenario.Step{
//	        scenario.WaitFor{Pattern: "~", TimeoutTicks: 200},
//	        scenario.SendKeys{Keys: keys.Text(":q")},
//	        scenario.SendKeys{Keys: keys.Special(keys.Enter)},
//	    },
//	}
//	tr, err := bte.Run(scn, bte.WithLogger(log))
//
// # Architecture
//
// The package is organized around these subsystems:
//
//   - [github.com/tuiharness/bte/scheduler]: the logical clock, seeded RNG,
//     and boundary counter that make a run reproducible
//   - [github.com/tuiharness/bte/ptyhost]: PTY allocation, spawn, resize,
//     and signal delivery
//   - [github.com/tuiharness/bte/ioloop]: non-blocking, bounded I/O pumping
//   - [github.com/tuiharness/bte/screen]: the 2D grid model fed by the VT
//     parser
//   - [github.com/tuiharness/bte/keys]: key injection vocabulary
//   - [github.com/tuiharness/bte/invariant]: the invariant engine
//   - [github.com/tuiharness/bte/trace]: recording, sealing, and replaying
//   - [github.com/tuiharness/bte/termination]: classifying how a run ended
//   - [github.com/tuiharness/bte/runner]: the driver wiring all of the
//     above together for a single scenario
//
// Run and RunMany in this package are thin convenience wrappers over
// [github.com/tuiharness/bte/runner].
package bte
