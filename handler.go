package bclient

import (
	"context"
	"net/http"
	"strings"

	"github.com/advdv/bclient/transport"
	"github.com/benbjohnson/clock"
	"github.com/cockroachdb/errors"
)

// Transport executes wire requests asynchronously. [*transport.Client] implements it.
type Transport interface {
	Execute(req *http.Request, prc transport.PerRequestConfig) *transport.Future
	Close() error
}

// HandlerOption configures a [Handler].
type HandlerOption func(*Handler)

// WithLogger sets the logger that is informed of every dispatch.
func WithLogger(logs Logger) HandlerOption {
	return func(h *Handler) { h.logs = logs }
}

// WithClock sets the clock used to time dispatches.
func WithClock(clk clock.Clock) HandlerOption {
	return func(h *Handler) { h.clock = clk }
}

// WithWorkers sets the entity writer registry.
func WithWorkers(w *Workers) HandlerOption {
	return func(h *Handler) { h.workers = w }
}

// WithCookieJar sets the jar, for example to share one between handlers.
func WithCookieJar(jar *CookieJar) HandlerOption {
	return func(h *Handler) { h.jar = jar }
}

// WithChunkedEncodingSize streams entities chunked, see [PropertyChunkedEncodingSize].
func WithChunkedEncodingSize(size int) HandlerOption {
	return func(h *Handler) { h.chunkSize = size }
}

// WithLegacyBodyPredicate, see [PropertyLegacyBodyPredicate].
func WithLegacyBodyPredicate() HandlerOption {
	return func(h *Handler) { h.legacyBodyPredicate = true }
}

// Handler turns requests into wire requests, executes them on the transport and waits
// for the result. It is safe for concurrent use.
type Handler struct {
	transport Transport
	workers   *Workers
	jar       *CookieJar
	logs      Logger
	clock     clock.Clock
	chunkSize int

	legacyBodyPredicate bool
}

// NewHandler returns a handler that executes on t.
func NewHandler(t Transport, opts ...HandlerOption) *Handler {
	h := &Handler{
		transport: t,
		workers:   NewWorkers(),
		jar:       NewCookieJar(),
		logs:      NewNopLogger(),
		clock:     clock.New(),
	}
	for _, o := range opts {
		o(h)
	}

	return h
}

// builders construct the wire request builder per method. Methods not listed use the
// method string as given.
var builders = map[string]func(url string) *transport.Builder{
	http.MethodGet:     func(url string) *transport.Builder { return transport.NewBuilder(http.MethodGet, url) },
	http.MethodPost:    func(url string) *transport.Builder { return transport.NewBuilder(http.MethodPost, url) },
	http.MethodPut:     func(url string) *transport.Builder { return transport.NewBuilder(http.MethodPut, url) },
	http.MethodDelete:  func(url string) *transport.Builder { return transport.NewBuilder(http.MethodDelete, url) },
	http.MethodHead:    func(url string) *transport.Builder { return transport.NewBuilder(http.MethodHead, url) },
	http.MethodOptions: func(url string) *transport.Builder { return transport.NewBuilder(http.MethodOptions, url) },
}

func newBuilder(method, url string) *transport.Builder {
	if nb, ok := builders[method]; ok {
		return nb(url)
	}
	return transport.NewBuilder(method, url)
}

// allowsBody reports whether an entity is sent with method, ignoring case.
func (h *Handler) allowsBody(method string) bool {
	method = strings.ToUpper(method)
	if h.legacyBodyPredicate {
		return method != http.MethodGet
	}

	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

// Handle dispatches req and blocks until the response headers have arrived. Statuses
// are never errors. Every error is a [*HandlerError]. The caller must Close a response
// that has an entity; a response without one is already closed.
func (h *Handler) Handle(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.URI == nil {
		return nil, NewHandlerError(KindBuild, errors.New("request without uri"))
	}

	method, url := req.Method, req.URI.String()
	if method == "" {
		method = http.MethodGet
	}

	start := h.clock.Now()
	resp, err := h.dispatch(ctx, method, url, req)
	if err != nil {
		h.logs.LogDispatchError(method, url, err)
		return nil, err
	}

	h.logs.LogDispatch(method, url, resp.Status, h.clock.Since(start))
	return resp, nil
}

func (h *Handler) dispatch(ctx context.Context, method, url string, req *Request) (*Response, error) {
	b := newBuilder(method, url)
	h.jar.Apply(b)

	rw := requestWriter{workers: h.workers, chunkSize: h.chunkSize}
	if err := rw.configureRequest(b, req, h.allowsBody(method)); err != nil {
		return nil, NewHandlerError(KindSerialization, err)
	}

	hreq, err := b.Request(ctx)
	if err != nil {
		return nil, NewHandlerError(KindBuild, err)
	}

	hresp, err := h.transport.Execute(hreq, b.PerRequestConfig()).Get()
	if err != nil {
		return nil, NewHandlerError(KindTransport, err)
	}

	resp, err := h.wrap(hresp)
	if err != nil {
		return nil, NewHandlerError(KindTransport, err)
	}

	return resp, nil
}

// wrap converts the wire response and stores its cookies. A response without an entity
// is buffered and closed so the connection goes back to the pool.
func (h *Handler) wrap(hresp *http.Response) (*Response, error) {
	h.jar.Update(hresp.Cookies())

	resp := NewResponse(hresp.StatusCode, toAbstractHeaders(hresp.Header), hresp.Body)
	if resp.HasEntity() {
		return resp, nil
	}

	if err := resp.BufferEntity(); err != nil {
		return nil, err
	}
	if err := resp.Close(); err != nil {
		return nil, err
	}

	return resp, nil
}

// Jar returns the cookie jar.
func (h *Handler) Jar() *CookieJar { return h.jar }

// Workers returns the entity writer registry.
func (h *Handler) Workers() *Workers { return h.workers }

// Transport returns the transport.
func (h *Handler) Transport() Transport { return h.transport }
