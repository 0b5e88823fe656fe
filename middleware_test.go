package bclient_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/advdv/bclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapWithoutMiddleware(t *testing.T) {
	d1 := bclient.DispatcherFunc(func(context.Context, *bclient.Request) (*bclient.Response, error) {
		return nil, nil
	})

	d2 := bclient.Wrap(d1)
	assert.Equal(t, fmt.Sprint(d1), fmt.Sprint(d2)) // compare addrs
}

func TestWrapOrder(t *testing.T) {
	var res string
	inner := bclient.DispatcherFunc(func(ctx context.Context, req *bclient.Request) (*bclient.Response, error) {
		res += fmt.Sprintf("inner %v", ctx.Value("foo"))
		return nil, errors.New("inner error")
	})

	mw := func(name string) bclient.Middleware {
		return func(next bclient.Dispatcher) bclient.Dispatcher {
			return bclient.DispatcherFunc(func(ctx context.Context, req *bclient.Request) (*bclient.Response, error) {
				res += name + "("
				ctx = context.WithValue(ctx, "foo", name) //nolint:staticcheck // test only
				resp, err := next.Handle(ctx, req)
				res += ")"
				return resp, err
			})
		}
	}

	d := bclient.Wrap(inner, mw("1"), mw("2"))

	_, err := d.Handle(context.Background(), &bclient.Request{})
	require.EqualError(t, err, "inner error")
	assert.Equal(t, "1(2(inner 2))", res)
}
