package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName tags every production log entry.
const ServiceName = "mediadex"

// NewLogger creates a zap logger for the given environment.
// prod uses JSON output tagged with the service name, local/dev/test use
// colored console output. levelOverride (if non-empty) overrides the log
// level: debug, info, warn, error.
func NewLogger(env string, levelOverride ...string) (*zap.Logger, error) {
	var cfg zap.Config
	var opts []zap.Option
	switch env {
	case "prod":
		cfg = zap.NewProductionConfig()
		opts = append(opts, zap.Fields(zap.String("service", ServiceName)))
	case "local", "dev", "docker", "test":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown environment %q for logger", env)
	}

	if len(levelOverride) > 0 && levelOverride[0] != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(levelOverride[0])); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", levelOverride[0], err)
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	l, err := cfg.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}
