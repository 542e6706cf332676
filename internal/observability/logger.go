// Package observability provides logging and metrics setup for the service.
package observability

import (
	"log/slog"
	"os"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/config"
)

// Version identifies the running build. Stamped via
// -ldflags "-X .../internal/observability.Version=<tag>".
var Version = "dev"

// SetupLogger returns the process-wide JSON logger. Every record
// carries the service, environment and build version; dev lowers the
// level to debug so prompt and provider diagnostics show up locally.
func SetupLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.IsDev() {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h).With(
		slog.String("service", cfg.ServiceName),
		slog.String("env", cfg.AppEnv),
		slog.String("version", Version),
	)
}
