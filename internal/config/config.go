package config

import (
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	LogLevel   slog.Level
	LogFormat  string
	Policy     *PolicyConfig
	Instance   *InstanceConfig
	SolveCache *SolveCacheConfig
}

func Load() (*Config, error) {
	solveCache, err := LoadSolveCacheConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		LogLevel:   parseLogLevel(os.Getenv("LOG_LEVEL")),
		LogFormat:  parseLogFormat(os.Getenv("LOG_FORMAT")),
		Policy:     LoadPolicyConfig(),
		Instance:   LoadInstanceConfig(),
		SolveCache: solveCache,
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseLogFormat(format string) string {
	if strings.EqualFold(format, "text") {
		return "text"
	}
	return "json"
}
