package bclientfx

import (
	"time"

	"github.com/advdv/bclient"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger configured from the environment.
// BCLIENT_LOG_LEVEL controls the level (debug, info, warn, error).
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogDispatch(method, url string, status int, took time.Duration) {
	l.Logger.Debug("dispatched request",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", status),
		zap.Duration("took", took))
}

func (l zapLogger) LogDispatchError(method, url string, err error) {
	l.Logger.Error("failed to dispatch request",
		zap.String("method", method),
		zap.String("url", url),
		zap.Stringer("kind", bclient.KindOf(err)),
		zap.Error(err))
}

// NewZapLogger adapts l to the client's logger.
func NewZapLogger(l *zap.Logger) bclient.Logger {
	return zapLogger{l.Named("bclient")}
}
