// Package logging assembles the structured slog loggers used across
// reelfetch.
//
// It centralizes level parsing, console/JSON handler selection, and optional
// log-file teeing so every component emits diagnostics with the same shape.
// Prefer these constructors over hand-rolled slog setup.
package logging
