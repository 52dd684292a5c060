// Package logging assembles the structured slog loggers used across cinebo.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and writes to both stderr and the configured log file. Console
// output gets ANSI level colors only when stderr is a terminal.
//
// Prefer these constructors over hand-rolled slog setup so every command
// emits log lines with the same shape.
package logging
