package bclientfx

import (
	"time"

	"github.com/advdv/bclient"
	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Environment defines the interface that all environment configurations must implement.
// Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	serviceName() string
	logLevel() zapcore.Level
	otelExporter() string
	readTimeout() time.Duration
	connectTimeout() time.Duration
	followRedirects() bool
	chunkedEncodingSize() int
	maxConcurrency() int
}

// BaseEnvironment contains the client's environment variables.
// Embed this in your custom environment struct.
type BaseEnvironment struct {
	ServiceName  string        `env:"BCLIENT_SERVICE_NAME" envDefault:"bclient"`
	LogLevel     zapcore.Level `env:"BCLIENT_LOG_LEVEL" envDefault:"info"`
	OtelExporter string        `env:"BCLIENT_OTEL_EXPORTER" envDefault:"stdout"`

	// ReadTimeout bounds every exchange, zero means no timeout.
	ReadTimeout         time.Duration `env:"BCLIENT_READ_TIMEOUT" envDefault:"30s"`
	ConnectTimeout      time.Duration `env:"BCLIENT_CONNECT_TIMEOUT" envDefault:"5s"`
	FollowRedirects     bool          `env:"BCLIENT_FOLLOW_REDIRECTS" envDefault:"true"`
	ChunkedEncodingSize int           `env:"BCLIENT_CHUNKED_ENCODING_SIZE" envDefault:"0"`
	MaxConcurrency      int           `env:"BCLIENT_MAX_CONCURRENCY" envDefault:"64"`
}

func (e BaseEnvironment) serviceName() string           { return e.ServiceName }
func (e BaseEnvironment) logLevel() zapcore.Level       { return e.LogLevel }
func (e BaseEnvironment) otelExporter() string          { return e.OtelExporter }
func (e BaseEnvironment) readTimeout() time.Duration    { return e.ReadTimeout }
func (e BaseEnvironment) connectTimeout() time.Duration { return e.ConnectTimeout }
func (e BaseEnvironment) followRedirects() bool         { return e.FollowRedirects }
func (e BaseEnvironment) chunkedEncodingSize() int      { return e.ChunkedEncodingSize }
func (e BaseEnvironment) maxConcurrency() int           { return e.MaxConcurrency }

var _ Environment = BaseEnvironment{}

// ParseEnv parses environment variables into the given Environment type.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}
		return e, nil
	}
}

// NewConfig turns the environment into a client configuration.
func NewConfig(env Environment) *bclient.Config {
	cfg := bclient.NewConfig().
		SetProperty(bclient.PropertyReadTimeout, env.readTimeout()).
		SetProperty(bclient.PropertyConnectTimeout, env.connectTimeout()).
		SetProperty(bclient.PropertyFollowRedirects, env.followRedirects()).
		SetProperty(bclient.PropertyChunkedEncodingSize, env.chunkedEncodingSize())

	cfg.TransportOptions().MaxConcurrency = env.maxConcurrency()
	return cfg
}
