package bclientfx

import (
	"context"
	"testing"
	"time"

	"github.com/advdv/bclient"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testEnv struct {
	level   zapcore.Level
	otelExp string
}

func (e testEnv) serviceName() string           { return "test" }
func (e testEnv) logLevel() zapcore.Level       { return e.level }
func (e testEnv) readTimeout() time.Duration    { return time.Second }
func (e testEnv) connectTimeout() time.Duration { return 100 * time.Millisecond }
func (e testEnv) followRedirects() bool         { return false }
func (e testEnv) chunkedEncodingSize() int      { return 512 }
func (e testEnv) maxConcurrency() int           { return 4 }
func (e testEnv) otelExporter() string {
	if e.otelExp == "" {
		return "stdout"
	}
	return e.otelExp
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		env     testEnv
		wantErr bool
	}{
		{
			name:    "info level",
			env:     testEnv{level: zapcore.InfoLevel},
			wantErr: false,
		},
		{
			name:    "debug level",
			env:     testEnv{level: zapcore.DebugLevel},
			wantErr: false,
		},
		{
			name:    "error level",
			env:     testEnv{level: zapcore.ErrorLevel},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.env)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewLogger() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if logger == nil {
				t.Error("NewLogger() returned nil logger")
				return
			}
			if !logger.Core().Enabled(tt.env.level) {
				t.Errorf("NewLogger() not enabled at %s", tt.env.level)
			}
		})
	}
}

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	l.LogDispatch("GET", "http://localhost/fixed", 200, 3*time.Millisecond)
	l.LogDispatchError("POST", "http://localhost/echo",
		bclient.NewHandlerError(bclient.KindTransport, errors.Wrap(context.DeadlineExceeded, "wait")))

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)

	assert.Equal(t, "bclient", entries[0].LoggerName)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "dispatched request", entries[0].Message)
	assert.Equal(t, int64(200), entries[0].ContextMap()["status"])
	assert.Equal(t, 3*time.Millisecond, entries[0].ContextMap()["took"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "transport", entries[1].ContextMap()["kind"])
	assert.Contains(t, entries[1].ContextMap()["error"], "context deadline exceeded")
}
