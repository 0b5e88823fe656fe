package bclientfx_test

import (
	"testing"
	"time"

	"github.com/advdv/bclient"
	"github.com/advdv/bclient/bclientfx"
	"github.com/advdv/bclient/bclientfx/bclientfxtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseEnv(t *testing.T) {
	bclientfxtest.SetBaseEnv(t).ReadTimeout("250ms").FollowRedirects(false).ChunkedEncodingSize(1024)

	env, err := bclientfx.ParseEnv[bclientfx.BaseEnvironment]()()
	require.NoError(t, err)

	assert.Equal(t, "test", env.ServiceName)
	assert.Equal(t, zapcore.DebugLevel, env.LogLevel)
	assert.Equal(t, 250*time.Millisecond, env.ReadTimeout)
	assert.Equal(t, time.Second, env.ConnectTimeout)
	assert.False(t, env.FollowRedirects)
	assert.Equal(t, 1024, env.ChunkedEncodingSize)
	assert.Equal(t, 8, env.MaxConcurrency)
}

func TestParseEnvDefaults(t *testing.T) {
	env, err := bclientfx.ParseEnv[bclientfx.BaseEnvironment]()()
	require.NoError(t, err)

	assert.Equal(t, "bclient", env.ServiceName)
	assert.Equal(t, zapcore.InfoLevel, env.LogLevel)
	assert.Equal(t, "stdout", env.OtelExporter)
	assert.Equal(t, 30*time.Second, env.ReadTimeout)
	assert.True(t, env.FollowRedirects)
}

func TestParseEnvInvalid(t *testing.T) {
	bclientfxtest.SetBaseEnv(t).ReadTimeout("soon")

	_, err := bclientfx.ParseEnv[bclientfx.BaseEnvironment]()()
	require.ErrorContains(t, err, "failed to parse environment")
}

func TestBaseEnvironment_LogLevel_Parsing(t *testing.T) {
	tests := []struct {
		name      string
		envValue  string
		wantLevel zapcore.Level
	}{
		{"debug", "debug", zapcore.DebugLevel},
		{"warn", "warn", zapcore.WarnLevel},
		{"ERROR uppercase", "ERROR", zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bclientfxtest.SetBaseEnv(t)
			t.Setenv("BCLIENT_LOG_LEVEL", tt.envValue)

			env, err := bclientfx.ParseEnv[bclientfx.BaseEnvironment]()()
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, env.LogLevel)
		})
	}
}

func TestNewConfig(t *testing.T) {
	cfg := bclientfx.NewConfig(bclientfx.BaseEnvironment{
		ReadTimeout:         2 * time.Second,
		ConnectTimeout:      time.Second,
		FollowRedirects:     true,
		ChunkedEncodingSize: 64,
		MaxConcurrency:      3,
	})

	props := cfg.Properties()
	assert.Equal(t, 2*time.Second, props[bclient.PropertyReadTimeout])
	assert.Equal(t, time.Second, props[bclient.PropertyConnectTimeout])
	assert.Equal(t, true, props[bclient.PropertyFollowRedirects])
	assert.Equal(t, 64, props[bclient.PropertyChunkedEncodingSize])
	assert.Equal(t, 3, cfg.TransportOptions().MaxConcurrency)
}
