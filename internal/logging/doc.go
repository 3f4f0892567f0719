// Package logging assembles the structured slog loggers used across cplscan.
//
// It owns the console and JSON handler setup and exposes a no-op logger plus
// component tagging so library code can accept a nil logger without
// conditionals. Prefer these constructors over hand-rolled slog setup so all
// diagnostics share one shape.
package logging
