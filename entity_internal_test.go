package bclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/advdv/bclient/transport"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommittingSink(t *testing.T) {
	t.Run("commits before the first write", func(t *testing.T) {
		var buf bytes.Buffer
		var commits int
		s := newCommittingSink(&buf, func() error {
			assert.Equal(t, 0, buf.Len())
			commits++
			return nil
		})

		_, err := s.Write([]byte("ab"))
		require.NoError(t, err)
		_, err = s.Write([]byte("cd"))
		require.NoError(t, err)
		require.NoError(t, s.Close())

		assert.Equal(t, 1, commits)
		assert.Equal(t, "abcd", buf.String())
	})

	t.Run("commits on close without writes", func(t *testing.T) {
		var commits int
		s := newCommittingSink(io.Discard, func() error { commits++; return nil })

		require.NoError(t, s.Close())
		require.NoError(t, s.Close())
		assert.Equal(t, 1, commits)
	})

	t.Run("commit error stops the write", func(t *testing.T) {
		var buf bytes.Buffer
		s := newCommittingSink(&buf, func() error { return errors.New("no") })

		_, err := s.Write([]byte("ab"))
		require.EqualError(t, err, "no")
		assert.Equal(t, 0, buf.Len())
	})
}

func headerNames(b *transport.Builder) []string {
	var names []string
	for _, h := range b.Headers() {
		names = append(names, h.Name+": "+h.Value)
	}
	return names
}

func TestConfigureRequest(t *testing.T) {
	rw := requestWriter{workers: NewWorkers()}

	t.Run("headers set before writing are committed", func(t *testing.T) {
		w := EntityWriterFunc(func(entity any, header *Metadata, out io.Writer) error {
			header.Set("X-Writer", "before")
			if _, err := io.WriteString(out, "body"); err != nil {
				return err
			}
			header.Set("X-Late", "after")
			return nil
		})

		req := &Request{Method: http.MethodPost, Entity: "body", Encoders: []EntityEncoder{
			func(EntityWriter) EntityWriter { return w },
		}}
		req.WithHeader("X-First", "1")

		b := transport.NewBuilder(http.MethodPost, "http://localhost")
		require.NoError(t, rw.configureRequest(b, req, true))

		assert.Equal(t, []string{"X-First: 1", "X-Writer: before"}, headerNames(b))
		assert.True(t, b.HasBody())
		assert.True(t, req.Header.Has("X-Late"))
	})

	t.Run("without entity headers go straight through", func(t *testing.T) {
		req := (&Request{Method: http.MethodGet}).WithHeader("Accept", "text/plain")

		b := transport.NewBuilder(http.MethodGet, "http://localhost")
		require.NoError(t, rw.configureRequest(b, req, true))

		assert.Equal(t, []string{"Accept: text/plain"}, headerNames(b))
		assert.False(t, b.HasBody())
	})

	t.Run("entity is dropped when no body is allowed", func(t *testing.T) {
		req := &Request{Method: http.MethodGet, Entity: "ignored"}

		b := transport.NewBuilder(http.MethodGet, "http://localhost")
		require.NoError(t, rw.configureRequest(b, req, false))

		assert.False(t, b.HasBody())
		assert.Empty(t, headerNames(b))
	})

	t.Run("body is buffered with its length", func(t *testing.T) {
		req := &Request{Method: http.MethodPost, Entity: []byte("abcdef")}

		b := transport.NewBuilder(http.MethodPost, "http://localhost")
		require.NoError(t, rw.configureRequest(b, req, true))

		hreq, err := b.Request(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(6), hreq.ContentLength)

		data, err := io.ReadAll(hreq.Body)
		require.NoError(t, err)
		assert.Equal(t, "abcdef", string(data))
	})

	t.Run("writer error", func(t *testing.T) {
		w := NewWorkers()
		w.Register(0, EntityWriterFunc(func(any, *Metadata, io.Writer) error {
			return errors.New("boom")
		}))

		req := &Request{Method: http.MethodPost, Entity: 5}
		b := transport.NewBuilder(http.MethodPost, "http://localhost")

		err := requestWriter{workers: w}.configureRequest(b, req, true)
		require.ErrorContains(t, err, "write int entity: boom")
		assert.False(t, b.HasBody())
	})

	t.Run("read timeout property", func(t *testing.T) {
		req := (&Request{Method: http.MethodGet}).WithProperty(PropertyReadTimeout, 1500)

		b := transport.NewBuilder(http.MethodGet, "http://localhost")
		require.NoError(t, rw.configureRequest(b, req, true))

		assert.Equal(t, 1500*time.Millisecond, b.PerRequestConfig().RequestTimeout)
	})
}

func TestProperties(t *testing.T) {
	props := map[string]any{
		"int":      int64(20),
		"duration": 3 * time.Second,
		"bool":     true,
		"string":   "10",
	}

	d, ok := durationProperty(props, "int")
	assert.True(t, ok)
	assert.Equal(t, 20*time.Millisecond, d)

	d, ok = durationProperty(props, "duration")
	assert.True(t, ok)
	assert.Equal(t, 3*time.Second, d)

	_, ok = durationProperty(props, "string")
	assert.False(t, ok)

	_, ok = durationProperty(nil, "int")
	assert.False(t, ok)

	v, ok := boolProperty(props, "bool")
	assert.True(t, ok)
	assert.True(t, v)

	n, ok := intProperty(props, "int")
	assert.True(t, ok)
	assert.Equal(t, 20, n)
}
