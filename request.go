package bclient

import (
	"net/url"

	"github.com/cockroachdb/errors"
)

// Request describes an outgoing request independent of the transport.
type Request struct {
	Method string
	URI    *url.URL

	// Header holds the request headers. Entity writers may add to it while
	// serializing.
	Header *Metadata

	// Entity is the request body. Nil means no body. It is serialized by the writer
	// the client's [Workers] resolve for its type.
	Entity any

	// Encoders decorate the resolved entity writer, first one innermost.
	Encoders []EntityEncoder

	// Properties carry per-request overrides such as [PropertyReadTimeout].
	Properties map[string]any
}

// NewRequest parses uri and returns a request with empty headers and properties.
func NewRequest(method, uri string, entity any) (*Request, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, errors.Wrapf(err, "parse request uri %q", uri)
	}

	return &Request{
		Method:     method,
		URI:        u,
		Header:     NewMetadata(),
		Entity:     entity,
		Properties: map[string]any{},
	}, nil
}

// WithHeader adds header values and returns the request.
func (r *Request) WithHeader(name string, values ...any) *Request {
	if r.Header == nil {
		r.Header = NewMetadata()
	}
	r.Header.Add(name, values...)
	return r
}

// WithProperty sets a property and returns the request.
func (r *Request) WithProperty(name string, value any) *Request {
	if r.Properties == nil {
		r.Properties = map[string]any{}
	}
	r.Properties[name] = value
	return r
}
