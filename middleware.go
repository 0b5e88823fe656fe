package bclient

import "context"

// Dispatcher sends a request and returns its response.
type Dispatcher interface {
	Handle(ctx context.Context, req *Request) (*Response, error)
}

// DispatcherFunc allow casting a function to implement [Dispatcher].
type DispatcherFunc func(context.Context, *Request) (*Response, error)

// Handle implements the [Dispatcher] interface.
func (f DispatcherFunc) Handle(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Middleware for cross-cutting concerns around a dispatch.
type Middleware func(Dispatcher) Dispatcher

// Wrap takes the inner dispatcher d and wraps it with middleware. The middleware provided
// first is called first and is the "outer" most wrapping, the middleware provided last
// will be the "inner most" wrapping (closest to the transport).
func Wrap(d Dispatcher, m ...Middleware) Dispatcher {
	if len(m) < 1 {
		return d
	}

	wrapped := d
	for i := len(m) - 1; i >= 0; i-- {
		wrapped = m[i](wrapped)
	}

	return wrapped
}
