package transport

import (
	"crypto/tls"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultMaxConcurrency      = 64
	defaultMaxRedirects        = 10
	defaultMaxIdleConnsPerHost = 16
	defaultIdleConnTimeout     = 90 * time.Second
	defaultTLSHandshakeTimeout = 10 * time.Second
	defaultKeepAlive           = 30 * time.Second
)

// Options configures a [Client]. Zero durations disable the corresponding timeout.
type Options struct {
	// ConnectTimeout caps connection establishment (dial only).
	ConnectTimeout time.Duration

	// RequestTimeout caps a whole exchange, including reading the response body.
	// A per-request timeout replaces it for that request.
	RequestTimeout time.Duration

	// FollowRedirects makes the client follow 3xx responses up to MaxRedirects.
	// When false the redirect response itself is returned.
	FollowRedirects bool

	// MaxRedirects defaults to 10.
	MaxRedirects int

	// MaxConcurrency bounds the number of exchanges waiting for response headers at
	// the same time. Defaults to 64.
	MaxConcurrency int

	// MaxIdleConnsPerHost and IdleConnTimeout configure the connection pool.
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration

	// EnableHTTP2 configures HTTP/2 support on the connection pool.
	EnableHTTP2 bool

	// TLSClientConfig is used for https connections when set.
	TLSClientConfig *tls.Config

	// TracerProvider enables an OpenTelemetry span per outbound exchange.
	TracerProvider trace.TracerProvider

	// Propagator injects the trace context into outbound headers. Only used when
	// TracerProvider is set.
	Propagator propagation.TextMapPropagator

	// RoundTripper replaces the pooled transport the client builds for itself.
	RoundTripper http.RoundTripper
}

// DefaultOptions returns the options used by a default client: redirects are followed
// and the pool is sized for moderate fan-out.
func DefaultOptions() Options {
	return Options{
		FollowRedirects:     true,
		MaxRedirects:        defaultMaxRedirects,
		MaxConcurrency:      defaultMaxConcurrency,
		MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
		IdleConnTimeout:     defaultIdleConnTimeout,
	}
}

func (o *Options) applyDefaults() {
	if o.MaxRedirects <= 0 {
		o.MaxRedirects = defaultMaxRedirects
	}
	if o.MaxConcurrency <= 0 {
		o.MaxConcurrency = defaultMaxConcurrency
	}
	if o.MaxIdleConnsPerHost <= 0 {
		o.MaxIdleConnsPerHost = defaultMaxIdleConnsPerHost
	}
	if o.IdleConnTimeout <= 0 {
		o.IdleConnTimeout = defaultIdleConnTimeout
	}
}

// PerRequestConfig overrides client options for a single exchange.
type PerRequestConfig struct {
	RequestTimeout time.Duration
}
