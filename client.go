package bclient

import (
	"context"
	"sync"
	"time"

	"github.com/advdv/bclient/transport"
	"github.com/cockroachdb/errors"
)

// Client is the caller facing side: a [Handler] on a transport it owns, with optional
// middleware around it.
type Client struct {
	cfg     ClientConfig
	handler *Handler
	disp    Dispatcher

	destroyOnce sync.Once
	destroyErr  error
}

// Create builds a client and its transport from cfg. Configurations that do not carry
// transport options are rejected with [ErrUnsupportedConfig].
func Create(cfg ClientConfig, opts ...HandlerOption) (*Client, error) {
	tcfg, ok := cfg.(TransportConfig)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedConfig, "%T", cfg)
	}

	tc, err := transport.New(transportOptions(tcfg))
	if err != nil {
		return nil, errors.Wrap(err, "create transport")
	}

	c := NewClient(NewHandler(tc, append(handlerOptions(tcfg), opts...)...))
	c.cfg = tcfg
	return c, nil
}

// CreateDefault builds a client from [NewConfig].
func CreateDefault(opts ...HandlerOption) (*Client, error) {
	return Create(NewConfig(), opts...)
}

// NewClient wraps a handler. Destroying the client closes the handler's transport.
func NewClient(h *Handler) *Client {
	return &Client{handler: h, disp: h}
}

// Use wraps the dispatch with middleware, see [Wrap]. Middleware added by a later call
// sits outside the middleware added earlier. Not safe to call while dispatching.
func (c *Client) Use(m ...Middleware) *Client {
	c.disp = Wrap(c.disp, m...)
	return c
}

// Handle dispatches req through the middleware and the handler.
func (c *Client) Handle(ctx context.Context, req *Request) (*Response, error) {
	return c.disp.Handle(ctx, req)
}

// Do is a shorthand that builds a request and handles it.
func (c *Client) Do(ctx context.Context, method, uri string, entity any) (*Response, error) {
	req, err := NewRequest(method, uri, entity)
	if err != nil {
		return nil, NewHandlerError(KindBuild, err)
	}

	return c.Handle(ctx, req)
}

// SetFollowRedirects changes whether redirects are followed by subsequent requests.
func (c *Client) SetFollowRedirects(follow bool) {
	c.setProperty(PropertyFollowRedirects, follow)
	if t, ok := c.handler.Transport().(interface{ SetFollowRedirects(bool) }); ok {
		t.SetFollowRedirects(follow)
	}
}

// SetReadTimeout changes the default timeout of subsequent requests.
func (c *Client) SetReadTimeout(d time.Duration) {
	c.setProperty(PropertyReadTimeout, d)
	if t, ok := c.handler.Transport().(interface{ SetRequestTimeout(time.Duration) }); ok {
		t.SetRequestTimeout(d)
	}
}

// SetConnectTimeout changes the timeout of subsequently established connections.
func (c *Client) SetConnectTimeout(d time.Duration) {
	c.setProperty(PropertyConnectTimeout, d)
	if t, ok := c.handler.Transport().(interface{ SetConnectTimeout(time.Duration) }); ok {
		t.SetConnectTimeout(d)
	}
}

func (c *Client) setProperty(name string, v any) {
	if c.cfg == nil {
		return
	}
	c.cfg.Properties()[name] = v
}

// Destroy closes the transport and its pooled connections. Only the first call has an
// effect; later calls return the first result.
func (c *Client) Destroy() error {
	c.destroyOnce.Do(func() {
		c.destroyErr = c.handler.Transport().Close()
	})
	return c.destroyErr
}

// Handler returns the handler.
func (c *Client) Handler() *Handler { return c.handler }

// Config returns the configuration the client was created from, or nil.
func (c *Client) Config() ClientConfig { return c.cfg }
