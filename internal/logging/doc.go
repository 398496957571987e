// Package logging builds the slog loggers used across longbox.
//
// Two output formats are supported: a compact console format with color when
// attached to a terminal, and line-delimited JSON for machine consumption.
// The daemon duplicates output into a log file when one is configured.
package logging
