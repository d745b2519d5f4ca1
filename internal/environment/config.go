package environment

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config is the immutable session configuration. It is constructed
// once at startup and passed explicitly into every component; there
// are no ambient mutable statics.
type Config struct {
	// RootDir is the benchmark suite root holding the per-language
	// implementation directories.
	RootDir string
	// Runner invokes the measurement helper script (the suite ships a
	// Python helper, so this defaults to python3).
	Runner string
	// HelperScript is the path to the measurement helper.
	HelperScript string
	// MeasureTimeout bounds one measurement; zero means no deadline.
	MeasureTimeout time.Duration

	// Optional progress event transports; empty means disabled.
	ProgressNatsURL     string
	ProgressNatsSubject string
	ProgressSqsURL      string

	LogLevel slog.Level
}

// Read loads the configuration from an optional .env file and
// MEMBENCH_* environment variables. CLI flags override the result.
func Read() Config {
	// A missing .env file is fine; env vars still apply.
	_ = godotenv.Load()

	cfg := Config{
		Runner:              "python3",
		ProgressNatsSubject: "membench.progress",
		LogLevel:            slog.LevelInfo,
	}

	if v := os.Getenv("MEMBENCH_ROOT"); v != "" {
		cfg.RootDir = v
	}
	if v := os.Getenv("MEMBENCH_RUNNER"); v != "" {
		cfg.Runner = v
	}
	if v := os.Getenv("MEMBENCH_HELPER"); v != "" {
		cfg.HelperScript = v
	}
	if v := os.Getenv("MEMBENCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.MeasureTimeout = d
		}
	}
	if v := os.Getenv("MEMBENCH_NATS_URL"); v != "" {
		cfg.ProgressNatsURL = v
	}
	if v := os.Getenv("MEMBENCH_NATS_SUBJECT"); v != "" {
		cfg.ProgressNatsSubject = v
	}
	if v := os.Getenv("MEMBENCH_SQS_URL"); v != "" {
		cfg.ProgressSqsURL = v
	}
	switch os.Getenv("MEMBENCH_LOG_LEVEL") {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	}

	return cfg
}
