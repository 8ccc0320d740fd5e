package capture

import "log/slog"

// NopLogger returns a logger that drops every record before formatting.
// Runs are already silent without WithLogger; pass it explicitly to mute a
// run whose options would otherwise carry a logger.
func NopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
