// Package bclientfx wires a [bclient.Client] into an fx application.
//
// # Overview
//
// bclientfx handles the boilerplate around a client: environment parsing, structured
// logging, OpenTelemetry tracing of outbound requests and destroying the client on
// shutdown. A complete application can be created in a single call:
//
//	bclientfx.NewApp[Env](func(c *bclient.Client, lc fx.Lifecycle) {
//	    lc.Append(fx.StartHook(func(ctx context.Context) error {
//	        return poll(ctx, c)
//	    }))
//	}).Run()
//
// # Environment Configuration
//
// Define your environment by embedding [BaseEnvironment]:
//
//	type Env struct {
//	    bclientfx.BaseEnvironment
//	    UpstreamURL string `env:"UPSTREAM_URL,required"`
//	}
//
// BaseEnvironment provides the following environment variables:
//
//	| Variable                      | Default | Description                                   |
//	|-------------------------------|---------|-----------------------------------------------|
//	| BCLIENT_SERVICE_NAME          | bclient | Service name for tracing                      |
//	| BCLIENT_LOG_LEVEL             | info    | Log level (debug, info, warn, error)          |
//	| BCLIENT_OTEL_EXPORTER         | stdout  | Trace exporter: "stdout" or "none"            |
//	| BCLIENT_READ_TIMEOUT          | 30s     | Timeout of a whole exchange, 0 disables it    |
//	| BCLIENT_CONNECT_TIMEOUT       | 5s      | Timeout of establishing a connection          |
//	| BCLIENT_FOLLOW_REDIRECTS      | true    | Follow 3xx responses                          |
//	| BCLIENT_CHUNKED_ENCODING_SIZE | 0       | Chunk size of streamed entities, 0 disables   |
//	| BCLIENT_MAX_CONCURRENCY       | 64      | Exchanges waiting for a response at once      |
//
// # Dependency Injection
//
// The app provides the parsed environment (as E and as [Environment]), a *zap.Logger,
// a trace.TracerProvider, a propagation.TextMapPropagator, the *bclient.Client and the
// client as a [bclient.Dispatcher]. Handler options and middleware are added with
// [WithHandlerOptions] and [WithMiddleware]; anything else goes through [WithFx].
//
// # Testing
//
// The bclientfxtest package builds the same graph on fxtest:
//
//	bclientfxtest.SetBaseEnv(t).ReadTimeout("1s")
//	app := bclientfxtest.New[bclientfx.BaseEnvironment](t, func(c *bclient.Client) { ... })
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
package bclientfx
