package bclientfx

import (
	"context"

	"github.com/advdv/bclient"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// App wraps an fx.App for lifecycle management.
type App struct {
	app *fx.App
}

// AppConfig holds configuration for the app.
type AppConfig struct {
	HandlerOptions []bclient.HandlerOption
	Middleware     []bclient.Middleware
	FxOptions      []fx.Option
}

// Option configures the App.
type Option func(*AppConfig)

// WithHandlerOptions adds options for the client's handler.
func WithHandlerOptions(opts ...bclient.HandlerOption) Option {
	return func(c *AppConfig) {
		c.HandlerOptions = append(c.HandlerOptions, opts...)
	}
}

// WithMiddleware wraps the client's dispatch, see [bclient.Client.Use].
func WithMiddleware(m ...bclient.Middleware) Option {
	return func(c *AppConfig) {
		c.Middleware = append(c.Middleware, m...)
	}
}

// WithFx adds fx options for dependency injection.
func WithFx(fxOpts ...fx.Option) Option {
	return func(c *AppConfig) {
		c.FxOptions = append(c.FxOptions, fxOpts...)
	}
}

// ClientParams holds the dependencies of [NewClient].
type ClientParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Env        Environment
	Logger     *zap.Logger
	Tracer     trace.TracerProvider
	Propagator propagation.TextMapPropagator
	App        AppConfig
}

// NewClient creates the client from the environment. Outbound requests are traced and
// the client is destroyed when the app stops.
func NewClient(p ClientParams) (*bclient.Client, error) {
	cfg := NewConfig(p.Env)
	cfg.TransportOptions().TracerProvider = p.Tracer
	cfg.TransportOptions().Propagator = p.Propagator

	opts := append([]bclient.HandlerOption{
		bclient.WithLogger(NewZapLogger(p.Logger)),
	}, p.App.HandlerOptions...)

	client, err := bclient.Create(cfg, opts...)
	if err != nil {
		return nil, err
	}

	client.Use(p.App.Middleware...)

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Destroy()
		},
	})

	return client, nil
}

// FxOptions returns the fx options that make up the app's DI graph. The invoke
// function can request any provided type, at minimum *bclient.Client.
func FxOptions[E Environment](invoke any, opts ...Option) []fx.Option {
	var cfg AppConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	baseOpts := make([]fx.Option, 0, 9+len(cfg.FxOptions))
	baseOpts = append(baseOpts, []fx.Option{
		fx.Provide(ParseEnv[E]()),
		fx.Provide(func(e E) Environment { return e }),
		fx.Provide(func(e E) (*zap.Logger, error) { return NewLogger(e) }),
		fx.Provide(NewTracerProvider),
		fx.Provide(NewPropagator),
		fx.Supply(cfg),
		fx.Provide(NewClient),
		fx.Provide(func(c *bclient.Client) bclient.Dispatcher { return c }),
		fx.Invoke(invoke),
	}...)

	return append(baseOpts, cfg.FxOptions...)
}

// NewApp creates an app around a configured client.
//
// Example:
//
//	bclientfx.NewApp[Env](func(c *bclient.Client, lc fx.Lifecycle) {
//	    lc.Append(fx.StartHook(func(ctx context.Context) error {
//	        resp, err := c.Do(ctx, http.MethodGet, "https://example.com/health", nil)
//	        ...
//	    }))
//	},
//	    bclientfx.WithMiddleware(bclient.GzipContentEncoding()),
//	).Run()
func NewApp[E Environment](invoke any, opts ...Option) *App {
	return &App{
		app: fx.New(append([]fx.Option{fx.NopLogger}, FxOptions[E](invoke, opts...)...)...),
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() {
	a.app.Run()
}

// Start starts the application with the given context.
func (a *App) Start(ctx context.Context) error {
	if err := a.app.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), a.app.StopTimeout())
	defer cancel()

	return a.app.Stop(stopCtx)
}
