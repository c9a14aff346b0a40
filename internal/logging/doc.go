// Package logging assembles the structured slog loggers used across butler.
//
// It owns the console/JSON handler selection, level and output plumbing, and
// context-aware helpers so pipeline code automatically tags log lines with
// the project, source file, and run identifier. A no-op logger is provided
// for tests and wiring code that cannot fail.
package logging
