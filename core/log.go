package core

import "log/slog"

var discardLogger = slog.New(slog.DiscardHandler)

// orDiscard returns logger, or a logger that drops everything if it is nil.
func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return discardLogger
	}
	return logger
}
