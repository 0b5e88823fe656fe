package transport

import (
	"context"
	"io"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/http2"
)

// ErrClosed is returned for exchanges submitted after [Client.Close].
var ErrClosed = errors.New("transport: client is closed")

// Client executes HTTP exchanges asynchronously. Execute returns immediately with a
// [Future]; the exchange runs on its own goroutine and at most MaxConcurrency
// exchanges wait for response headers at the same time. The connection pool is shared
// by all exchanges and the client is safe for concurrent use.
type Client struct {
	http *http.Client
	pool *http.Transport
	sem  chan struct{}

	maxRedirects    int
	followRedirects atomic.Bool
	requestTimeout  atomic.Int64
	connectTimeout  atomic.Int64

	closed    atomic.Bool
	closeOnce sync.Once
}

// New builds a client from opts.
func New(opts Options) (*Client, error) {
	opts.applyDefaults()

	c := &Client{
		sem:          make(chan struct{}, opts.MaxConcurrency),
		maxRedirects: opts.MaxRedirects,
	}
	c.followRedirects.Store(opts.FollowRedirects)
	c.requestTimeout.Store(int64(opts.RequestTimeout))
	c.connectTimeout.Store(int64(opts.ConnectTimeout))

	rt := opts.RoundTripper
	if rt == nil {
		pool, err := c.newPool(opts)
		if err != nil {
			return nil, err
		}

		c.pool, rt = pool, pool
	}

	if opts.TracerProvider != nil {
		topts := []otelhttp.Option{otelhttp.WithTracerProvider(opts.TracerProvider)}
		if opts.Propagator != nil {
			topts = append(topts, otelhttp.WithPropagators(opts.Propagator))
		}

		rt = otelhttp.NewTransport(rt, topts...)
	}

	c.http = &http.Client{
		Transport:     rt,
		CheckRedirect: c.checkRedirect,
	}

	return c, nil
}

func (c *Client) newPool(opts Options) (*http.Transport, error) {
	pool := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           c.dial,
		MaxIdleConnsPerHost:   opts.MaxIdleConnsPerHost,
		IdleConnTimeout:       opts.IdleConnTimeout,
		TLSHandshakeTimeout:   defaultTLSHandshakeTimeout,
		ExpectContinueTimeout: time.Second,
		TLSClientConfig:       opts.TLSClientConfig,
	}

	if opts.EnableHTTP2 {
		if _, err := http2.ConfigureTransports(pool); err != nil {
			return nil, errors.Wrap(err, "configure http2")
		}
	}

	return pool, nil
}

// dial reads the connect timeout on every dial so SetConnectTimeout applies to new
// connections of a live client.
func (c *Client) dial(ctx context.Context, network, addr string) (net.Conn, error) {
	d := net.Dialer{Timeout: c.ConnectTimeout(), KeepAlive: defaultKeepAlive}
	return d.DialContext(ctx, network, addr)
}

func (c *Client) checkRedirect(_ *http.Request, via []*http.Request) error {
	if !c.followRedirects.Load() {
		return http.ErrUseLastResponse
	}
	if len(via) >= c.maxRedirects {
		return errors.Newf("transport: stopped after %d redirects", c.maxRedirects)
	}

	return nil
}

// Execute submits req and returns without waiting for the exchange. The request's
// context cancels the exchange. A response delivered through the future must have its
// body closed by the receiver.
func (c *Client) Execute(req *http.Request, prc PerRequestConfig) *Future {
	f := newFuture()
	if c.closed.Load() {
		closeRequestBody(req)
		f.resolve(nil, ErrClosed)
		return f
	}

	go func() {
		f.resolve(c.execute(req, prc))
	}()

	return f
}

func (c *Client) execute(req *http.Request, prc PerRequestConfig) (*http.Response, error) {
	ctx := req.Context()
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		closeRequestBody(req)
		return nil, errors.Wrap(ctx.Err(), "waiting for a free worker")
	}
	defer func() { <-c.sem }()

	timeout := prc.RequestTimeout
	if timeout <= 0 {
		timeout = c.RequestTimeout()
	}

	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
		req = req.WithContext(ctx)
	}

	resp, err := c.http.Do(req) //nolint:bodyclose // ownership moves to the future's receiver
	if err != nil {
		cancel()
		return nil, errors.Wrapf(err, "%s %s", req.Method, req.URL.Redacted())
	}

	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}

	return resp, nil
}

func closeRequestBody(req *http.Request) {
	if req.Body != nil {
		_ = req.Body.Close()
	}
}

// SetFollowRedirects changes redirect handling for subsequent exchanges.
func (c *Client) SetFollowRedirects(follow bool) { c.followRedirects.Store(follow) }

// FollowRedirects reports whether redirects are followed.
func (c *Client) FollowRedirects() bool { return c.followRedirects.Load() }

// SetRequestTimeout changes the client-wide exchange timeout.
func (c *Client) SetRequestTimeout(d time.Duration) { c.requestTimeout.Store(int64(d)) }

// RequestTimeout returns the client-wide exchange timeout.
func (c *Client) RequestTimeout() time.Duration { return time.Duration(c.requestTimeout.Load()) }

// SetConnectTimeout changes the dial timeout for connections opened from now on.
func (c *Client) SetConnectTimeout(d time.Duration) { c.connectTimeout.Store(int64(d)) }

// ConnectTimeout returns the dial timeout.
func (c *Client) ConnectTimeout() time.Duration { return time.Duration(c.connectTimeout.Load()) }

// Close rejects new exchanges and releases the pooled idle connections. Only the first
// call has an effect. Exchanges in flight are not interrupted.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		if c.pool != nil {
			c.pool.CloseIdleConnections()
		}
		c.http.CloseIdleConnections()
	})

	return nil
}

// Closed reports whether Close has been called.
func (c *Client) Closed() bool { return c.closed.Load() }

// cancelOnClose keeps a per-exchange deadline alive until the body is released.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	defer b.cancel()
	return b.ReadCloser.Close()
}
