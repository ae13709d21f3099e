// Package logger provides structured logging for the answers core using the
// standard library log/slog package with JSON output.
package logger
