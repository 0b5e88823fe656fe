package transport

import (
	"context"
	"io"
	"net/http"
	"slices"

	"github.com/carlmjohnson/requests"
	"github.com/cockroachdb/errors"
)

// HeaderField is one header line of an outbound request.
type HeaderField struct {
	Name  string
	Value string
}

// BodyWriter writes a request entity to the wire.
type BodyWriter func(w io.Writer) error

// Builder accumulates one outbound request. It is used by a single goroutine and
// discarded after [Builder.Request].
type Builder struct {
	method    string
	url       string
	headers   []HeaderField
	cookies   []*http.Cookie
	body      BodyWriter
	length    int64
	chunkSize int
	prc       PerRequestConfig
}

// NewBuilder starts a request for method and url.
func NewBuilder(method, url string) *Builder {
	return &Builder{method: method, url: url, length: -1}
}

// Method returns the request method.
func (b *Builder) Method() string { return b.method }

// URL returns the request url.
func (b *Builder) URL() string { return b.url }

// SetURL replaces the request url.
func (b *Builder) SetURL(url string) *Builder {
	b.url = url
	return b
}

// SetMethod replaces the request method.
func (b *Builder) SetMethod(method string) *Builder {
	b.method = method
	return b
}

// AddHeader appends a header line. Values for the same name keep their order.
func (b *Builder) AddHeader(name, value string) *Builder {
	b.headers = append(b.headers, HeaderField{Name: name, Value: value})
	return b
}

// Headers returns a copy of the header lines added so far.
func (b *Builder) Headers() []HeaderField {
	return slices.Clone(b.headers)
}

// AddCookie adds a cookie to the Cookie header.
func (b *Builder) AddCookie(c *http.Cookie) *Builder {
	b.cookies = append(b.cookies, c)
	return b
}

// Cookies returns a copy of the cookies added so far.
func (b *Builder) Cookies() []*http.Cookie {
	return slices.Clone(b.cookies)
}

// SetBody attaches the entity writer. A non-negative length is sent as Content-Length,
// in which case w must write exactly length bytes.
func (b *Builder) SetBody(w BodyWriter, length int64) *Builder {
	b.body, b.length = w, length
	return b
}

// HasBody reports whether a body writer was attached.
func (b *Builder) HasBody() bool { return b.body != nil }

// SetChunkedEncodingSize streams the body with chunked transfer encoding, in chunks of
// at most size bytes. Zero or less sends the body with a fixed length.
func (b *Builder) SetChunkedEncodingSize(size int) *Builder {
	b.chunkSize = size
	return b
}

// SetPerRequestConfig attaches per-request overrides of the client options.
func (b *Builder) SetPerRequestConfig(prc PerRequestConfig) *Builder {
	b.prc = prc
	return b
}

// PerRequestConfig returns the per-request overrides.
func (b *Builder) PerRequestConfig() PerRequestConfig { return b.prc }

// Request builds the wire request. Header lines are grouped by name in order of first
// appearance; the values of one name keep the order they were added in.
func (b *Builder) Request(ctx context.Context) (*http.Request, error) {
	rb := requests.URL(b.url).Method(b.method)

	var names []string
	values := map[string][]string{}
	for _, h := range b.headers {
		key := http.CanonicalHeaderKey(h.Name)
		if _, ok := values[key]; !ok {
			names = append(names, key)
		}
		values[key] = append(values[key], h.Value)
	}
	for _, name := range names {
		rb.Header(name, values[name]...)
	}

	for _, c := range b.cookies {
		rb.Cookie(c.Name, c.Value)
	}

	if b.body != nil {
		rb.BodyWriter(b.wireBody())
	}

	req, err := rb.Request(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s request", b.method)
	}

	if b.body != nil {
		switch {
		case b.chunkSize > 0:
			req.ContentLength = -1
		case b.length >= 0:
			req.ContentLength = b.length
			if b.length == 0 {
				_ = req.Body.Close()
				req.Body = http.NoBody
			}
		}
	}

	return req, nil
}

func (b *Builder) wireBody() func(io.Writer) error {
	if b.chunkSize <= 0 {
		return b.body
	}

	size := b.chunkSize
	return func(w io.Writer) error {
		return b.body(&chunkWriter{w: w, size: size})
	}
}

// chunkWriter splits writes so every write to w is at most size bytes.
type chunkWriter struct {
	w    io.Writer
	size int
}

func (cw *chunkWriter) Write(p []byte) (n int, err error) {
	for len(p) > 0 {
		chunk := p[:min(len(p), cw.size)]

		m, err := cw.w.Write(chunk)
		n += m
		if err != nil {
			return n, err
		}

		p = p[len(chunk):]
	}

	return n, nil
}
