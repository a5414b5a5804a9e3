// Package logging assembles structured slog loggers and formatting helpers used
// across podlinks.
//
// It owns the console and JSON handlers, the per-run process log file, and
// context-aware helpers that tag log lines with run IDs, stage names, and
// correlation IDs. A no-op logger is provided for tests and wiring code that
// cannot fail.
package logging
