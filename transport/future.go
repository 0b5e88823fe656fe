package transport

import (
	"context"
	"net/http"
)

// Future is the pending result of [Client.Execute]. It resolves exactly once.
type Future struct {
	done chan struct{}
	resp *http.Response
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(resp *http.Response, err error) {
	f.resp, f.err = resp, err
	close(f.done)
}

// Done is closed once the exchange has completed or failed.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Get blocks until the exchange completes. There is no timeout here: a hung exchange
// blocks until the request's context or the configured transport timeouts end it.
func (f *Future) Get() (*http.Response, error) {
	<-f.done
	return f.resp, f.err
}

// Wait is like Get but gives up when ctx is done. A response that arrives after
// that point is closed so its connection is returned to the pool.
func (f *Future) Wait(ctx context.Context) (*http.Response, error) {
	select {
	case <-f.done:
		return f.resp, f.err
	case <-ctx.Done():
		go func() {
			if resp, err := f.Get(); err == nil {
				_ = resp.Body.Close()
			}
		}()

		return nil, ctx.Err()
	}
}
