// Package slog provides logging decorators for docsum services. Each wrapper
// logs one line per call with its duration and error, then delegates.
package slog
