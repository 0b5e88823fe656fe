package bclient

import (
	"bufio"
	"bytes"
	"io"

	"github.com/cockroachdb/errors"
)

// ErrResponseClosed is returned when reading a response that was closed without being
// buffered.
var ErrResponseClosed = errors.New("bclient: response is closed")

// Response is a received response. The body is read lazily from the connection; the
// caller must Close a response that has an entity, or the connection is not released.
// A Response is not safe for concurrent use.
type Response struct {
	Status int
	Header Headers

	body     io.ReadCloser
	r        *bufio.Reader
	data     []byte
	buffered bool
	closed   bool
}

// NewResponse wraps a status, headers and a body stream. A nil body has no entity.
func NewResponse(status int, header Headers, body io.ReadCloser) *Response {
	if body == nil {
		body = io.NopCloser(bytes.NewReader(nil))
	}

	return &Response{
		Status: status,
		Header: header,
		body:   body,
		r:      bufio.NewReader(body),
	}
}

// HasEntity reports whether the body has at least one byte left to read. It may block
// until the first byte arrives.
func (r *Response) HasEntity() bool {
	if r.closed && !r.buffered {
		return false
	}

	_, err := r.r.Peek(1)
	return err == nil
}

// BufferEntity reads the rest of the body into memory and releases the connection. The
// buffered entity stays readable after Close and can be read again with Bytes.
func (r *Response) BufferEntity() error {
	if r.buffered {
		return nil
	}
	if r.closed {
		return ErrResponseClosed
	}

	data, err := io.ReadAll(r.r)
	closeErr := r.body.Close()
	if err != nil {
		return errors.Wrap(err, "buffer entity")
	}
	if closeErr != nil {
		return errors.Wrap(closeErr, "close buffered entity")
	}

	r.data, r.buffered = data, true
	r.r = bufio.NewReader(bytes.NewReader(data))

	return nil
}

// Buffered reports whether the entity was buffered.
func (r *Response) Buffered() bool { return r.buffered }

// Read reads from the entity.
func (r *Response) Read(p []byte) (int, error) {
	if r.closed && !r.buffered {
		return 0, ErrResponseClosed
	}
	return r.r.Read(p)
}

// Close releases the connection. Closing more than once is a no-op.
func (r *Response) Close() error {
	if r.closed {
		return nil
	}

	r.closed = true
	if r.buffered {
		return nil
	}

	return r.body.Close()
}

// Closed reports whether Close was called.
func (r *Response) Closed() bool { return r.closed }

// Bytes returns the entity. A buffered entity is returned in full every time; otherwise
// the rest of the stream is read and the response is closed.
func (r *Response) Bytes() ([]byte, error) {
	if r.buffered {
		return bytes.Clone(r.data), nil
	}

	data, err := io.ReadAll(r)
	if cerr := r.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, errors.Wrap(err, "read entity")
	}

	return data, nil
}

// Text returns the entity as a string, see [Response.Bytes].
func (r *Response) Text() (string, error) {
	data, err := r.Bytes()
	return string(data), err
}
