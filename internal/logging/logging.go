package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jaekwang-park/todos/internal/config"
)

// New builds the process logger. Local environments get the development
// encoder and stack traces on warnings.
func New(cfg config.Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.IsLocal() {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}

	zc.Level = zap.NewAtomicLevelAt(cfg.ParseLogLevel())
	zc.Encoding = cfg.LogFormat
	zc.EncoderConfig.TimeKey = "time"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zc.Build(zap.Fields(zap.String("env", cfg.AppEnv)))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
