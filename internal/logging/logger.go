package logging

import (
	"log/slog"
	"os"
)

// Setup installs a JSON slog logger on stdout as the process default.
// main replaces it after the database comes up, wrapping this handler in
// a MultiHandler that also feeds the system_logs writer.
func Setup() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}
