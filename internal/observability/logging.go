package observability

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/scalebit/admin-console/internal/config"
)

// NewLogger creates a structured zap.Logger configured via env settings.
func NewLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	return buildLogger(cfg.Level, zapcore.InfoLevel, "stdout")
}

// NewCLILogger writes to stderr and stays quiet below warn unless LOG_LEVEL says otherwise,
// keeping command output on stdout clean.
func NewCLILogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	level := cfg.Level
	if strings.EqualFold(level, "info") {
		level = "warn"
	}
	return buildLogger(level, zapcore.WarnLevel, "stderr")
}

func buildLogger(levelName string, fallback zapcore.Level, output string) (*zap.Logger, error) {
	level := fallback
	if err := level.Set(strings.ToLower(levelName)); err != nil {
		level = fallback
	}

	zapCfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(level),
		Development: false,
		Encoding:    "json",
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "message",
			LevelKey:   "level",
			TimeKey:    "ts",
			CallerKey:  "caller",
			EncodeLevel: func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
				enc.AppendString(l.String())
			},
			EncodeTime:   zapcore.ISO8601TimeEncoder,
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	return zapCfg.Build()
}
