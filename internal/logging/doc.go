// Package logging builds the slog loggers used across mediaconv.
//
// Two handler formats are supported: a compact console format for interactive
// use and JSON for machine consumption. Component loggers carry a standard
// component attribute so one conversion's output can be filtered per
// subsystem, and ProgressSampler keeps progress logging readable when the
// native backend samples its export session every 100ms.
package logging
