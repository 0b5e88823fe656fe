package bclient

import "github.com/advdv/bclient/transport"

// Recognized configuration properties. Durations are given as integer milliseconds or
// as a time.Duration.
const (
	// PropertyReadTimeout bounds the wait for a response. On a client configuration it
	// is the default for every request; on a request it overrides that default.
	PropertyReadTimeout = "bclient.config.property.readTimeout"

	// PropertyConnectTimeout bounds connection establishment.
	PropertyConnectTimeout = "bclient.config.property.connectTimeout"

	// PropertyFollowRedirects (bool) makes the transport follow redirects.
	PropertyFollowRedirects = "bclient.config.property.followRedirects"

	// PropertyChunkedEncodingSize (int) streams request entities with chunked transfer
	// encoding in chunks of this many bytes. Zero sends a Content-Length instead.
	PropertyChunkedEncodingSize = "bclient.config.property.chunkedEncodingSize"

	// PropertyLegacyBodyPredicate (bool) attaches entities to every method except GET,
	// which is how the handler this client descends from behaved. By default GET,
	// HEAD, OPTIONS and TRACE never carry an entity.
	PropertyLegacyBodyPredicate = "bclient.config.property.legacyBodyPredicate"
)

// ClientConfig is the transport-independent configuration of a client.
type ClientConfig interface {
	Properties() map[string]any
	Workers() *Workers
}

// TransportConfig is a [ClientConfig] that also carries the transport options, which is
// what [Create] requires.
type TransportConfig interface {
	ClientConfig
	TransportOptions() *transport.Options
}

// Config is the default [TransportConfig].
type Config struct {
	props   map[string]any
	workers *Workers
	opts    *transport.Options
}

// NewConfig returns a configuration with default transport options and the default
// entity writers.
func NewConfig() *Config {
	opts := transport.DefaultOptions()
	return &Config{
		props:   map[string]any{},
		workers: NewWorkers(),
		opts:    &opts,
	}
}

// Properties returns the mutable property map.
func (c *Config) Properties() map[string]any { return c.props }

// SetProperty sets a property and returns the config.
func (c *Config) SetProperty(name string, value any) *Config {
	c.props[name] = value
	return c
}

// Workers returns the entity writer registry.
func (c *Config) Workers() *Workers { return c.workers }

// TransportOptions returns the mutable transport options. Properties that are set
// take precedence over them when the client is created.
func (c *Config) TransportOptions() *transport.Options { return c.opts }

// transportOptions merges the recognized properties into a copy of the options of cfg.
func transportOptions(cfg TransportConfig) transport.Options {
	opts := *cfg.TransportOptions()
	props := cfg.Properties()

	if d, ok := durationProperty(props, PropertyReadTimeout); ok {
		opts.RequestTimeout = d
	}
	if d, ok := durationProperty(props, PropertyConnectTimeout); ok {
		opts.ConnectTimeout = d
	}
	if follow, ok := boolProperty(props, PropertyFollowRedirects); ok {
		opts.FollowRedirects = follow
	}

	return opts
}

// handlerOptions derives the handler options the properties of cfg ask for.
func handlerOptions(cfg ClientConfig) []HandlerOption {
	props := cfg.Properties()

	opts := []HandlerOption{WithWorkers(cfg.Workers())}
	if size, ok := intProperty(props, PropertyChunkedEncodingSize); ok {
		opts = append(opts, WithChunkedEncodingSize(size))
	}
	if legacy, ok := boolProperty(props, PropertyLegacyBodyPredicate); ok && legacy {
		opts = append(opts, WithLegacyBodyPredicate())
	}

	return opts
}
