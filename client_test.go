package bclient_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/advdv/bclient"
	"github.com/advdv/bclient/internal/testserver"
	"github.com/advdv/bclient/transport"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// bareConfig has properties but no transport options.
type bareConfig struct{}

func (bareConfig) Properties() map[string]any { return map[string]any{} }
func (bareConfig) Workers() *bclient.Workers  { return bclient.NewWorkers() }

func newClient(t *testing.T, cfg *bclient.Config) *bclient.Client {
	t.Helper()

	c, err := bclient.Create(cfg, bclient.WithLogger(bclient.NewTestLogger(t)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Destroy() })

	return c
}

func TestCreate(t *testing.T) {
	t.Run("unsupported config", func(t *testing.T) {
		_, err := bclient.Create(bareConfig{})
		require.ErrorIs(t, err, bclient.ErrUnsupportedConfig)
	})

	t.Run("properties configure the transport", func(t *testing.T) {
		cfg := bclient.NewConfig().
			SetProperty(bclient.PropertyReadTimeout, 250).
			SetProperty(bclient.PropertyConnectTimeout, time.Second).
			SetProperty(bclient.PropertyFollowRedirects, false)
		c := newClient(t, cfg)

		tc, ok := c.Handler().Transport().(*transport.Client)
		require.True(t, ok)
		assert.Equal(t, 250*time.Millisecond, tc.RequestTimeout())
		assert.Equal(t, time.Second, tc.ConnectTimeout())
		assert.False(t, tc.FollowRedirects())
		assert.Same(t, cfg, c.Config())
		assert.Same(t, cfg.Workers(), c.Handler().Workers())
	})

	t.Run("default", func(t *testing.T) {
		c, err := bclient.CreateDefault()
		require.NoError(t, err)
		require.NoError(t, c.Destroy())
	})
}

func TestClientChunkedProperty(t *testing.T) {
	srv := testserver.New(t)
	c := newClient(t, bclient.NewConfig().SetProperty(bclient.PropertyChunkedEncodingSize, 2))

	res := inspect(t, c, newRequest(t, http.MethodPost, srv.URLFor("/inspect"), "abcde"))
	assert.Equal(t, "chunked", res.Get("transfer_encoding.0").String())
	assert.Equal(t, "abcde", res.Get("body").String())
}

func TestClientLegacyBodyProperty(t *testing.T) {
	srv := testserver.New(t)
	c := newClient(t, bclient.NewConfig().SetProperty(bclient.PropertyLegacyBodyPredicate, true))

	res := inspect(t, c, newRequest(t, http.MethodOptions, srv.URLFor("/inspect"), "kept"))
	assert.Equal(t, "kept", res.Get("body").String())
}

func TestClientSetters(t *testing.T) {
	srv := testserver.New(t)
	cfg := bclient.NewConfig()
	c := newClient(t, cfg)
	ctx := context.Background()

	resp, err := c.Do(ctx, http.MethodGet, srv.URLFor("/redirect"), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	require.NoError(t, resp.Close())

	c.SetFollowRedirects(false)
	resp, err = c.Do(ctx, http.MethodGet, srv.URLFor("/redirect"), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.Status)
	require.NoError(t, resp.Close())
	assert.Equal(t, false, cfg.Properties()[bclient.PropertyFollowRedirects])

	c.SetReadTimeout(50 * time.Millisecond)
	_, err = c.Do(ctx, http.MethodGet, srv.URLFor("/slow?d=2s"), nil)
	assert.Equal(t, bclient.KindTransport, bclient.KindOf(err))
	assert.Equal(t, 50*time.Millisecond, cfg.Properties()[bclient.PropertyReadTimeout])

	c.SetConnectTimeout(time.Second)
	assert.Equal(t, time.Second, c.Handler().Transport().(*transport.Client).ConnectTimeout())
}

func TestClientDo(t *testing.T) {
	srv := testserver.New(t)
	c := newClient(t, bclient.NewConfig())

	resp, err := c.Do(context.Background(), http.MethodPost, srv.URLFor("/echo"), "ping")
	require.NoError(t, err)

	text, err := resp.Text()
	require.NoError(t, err)
	assert.Equal(t, "ping", text)

	_, err = c.Do(context.Background(), http.MethodGet, "http://local host/%zz", nil)
	assert.Equal(t, bclient.KindBuild, bclient.KindOf(err))
}

func TestDestroy(t *testing.T) {
	srv := testserver.New(t)

	c, err := bclient.Create(bclient.NewConfig())
	require.NoError(t, err)

	require.NoError(t, c.Destroy())
	require.NoError(t, c.Destroy())
	assert.True(t, c.Handler().Transport().(*transport.Client).Closed())

	_, err = c.Do(context.Background(), http.MethodGet, srv.URLFor("/fixed"), nil)
	require.Error(t, err)
	assert.Equal(t, bclient.KindTransport, bclient.KindOf(err))
	assert.True(t, errors.Is(err, transport.ErrClosed))
}

func TestDispatchAfterDestroyReleasesEntity(t *testing.T) {
	c, err := bclient.Create(bclient.NewConfig())
	require.NoError(t, err)
	require.NoError(t, c.Destroy())

	opts := []goleak.Option{goleak.IgnoreCurrent()}
	for range 3 {
		_, err := c.Do(context.Background(), http.MethodPost, "http://127.0.0.1:1/", []byte("payload"))
		require.ErrorIs(t, err, transport.ErrClosed)
	}

	goleak.VerifyNone(t, opts...)
}

func TestClientUse(t *testing.T) {
	srv := testserver.New(t)
	c := newClient(t, bclient.NewConfig())

	header := func(name, value string) bclient.Middleware {
		return func(next bclient.Dispatcher) bclient.Dispatcher {
			return bclient.DispatcherFunc(func(ctx context.Context, req *bclient.Request) (*bclient.Response, error) {
				req.WithHeader(name, value)
				return next.Handle(ctx, req)
			})
		}
	}

	c.Use(header("X-Order", "1"), header("X-Order", "2"))
	c.Use(header("X-Order", "0"))

	res := inspect(t, c, newRequest(t, http.MethodGet, srv.URLFor("/inspect"), nil))
	assert.Equal(t, `["0","1","2"]`, res.Get("header.X-Order").Raw)
}
