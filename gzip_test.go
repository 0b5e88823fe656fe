package bclient_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/advdv/bclient"
	"github.com/advdv/bclient/internal/testserver"
	"github.com/advdv/bclient/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGzipContentEncoding(t *testing.T) {
	srv := testserver.New(t)
	h := newHandler(t, transport.DefaultOptions())
	d := bclient.Wrap(h, bclient.GzipContentEncoding())

	t.Run("entity is compressed", func(t *testing.T) {
		res := inspect(t, d, newRequest(t, http.MethodPost, srv.URLFor("/inspect"), "compress me"))
		assert.Equal(t, "gzip", res.Get("header.Content-Encoding.0").String())
		assert.Equal(t, "text/plain; charset=utf-8", res.Get("header.Content-Type.0").String())
		assert.Equal(t, "compress me", res.Get("body").String())
	})

	t.Run("echo", func(t *testing.T) {
		req := newRequest(t, http.MethodPost, srv.URLFor("/echo"), []byte("round trip"))

		resp, err := d.Handle(context.Background(), req)
		require.NoError(t, err)

		text, err := resp.Text()
		require.NoError(t, err)
		assert.Equal(t, "round trip", text)
		assert.Empty(t, req.Encoders)
	})

	t.Run("no entity", func(t *testing.T) {
		res := inspect(t, d, newRequest(t, http.MethodGet, srv.URLFor("/inspect"), nil))
		assert.False(t, res.Get("header.Content-Encoding").Exists())
	})
}
