// Package main hosts the cinebo CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the weekly back-office routine: import
// SumUp sales exports (one-shot or watched), maintain the film register and
// bookkeeping settings, inspect history, and produce the settlement reports
// and weekly posters. Configuration resolution, database access, and logging
// are set up once per invocation so subcommands stay declarative; the heavy
// lifting lives in the internal packages.
package main
