package bclient

import (
	"net/http"
	"slices"
	"strings"

	"github.com/advdv/bclient/transport"
	"github.com/samber/lo"
)

// Metadata holds the headers of an outgoing request. Names are canonicalized like
// [http.Header] and iterate in the order they were first added; values are kept in the
// order they were added and may be of any type. The zero value is ready to use.
type Metadata struct {
	keys []string
	vals map[string][]any
}

// NewMetadata returns empty metadata.
func NewMetadata() *Metadata {
	return &Metadata{vals: map[string][]any{}}
}

// Add appends values to name.
func (m *Metadata) Add(name string, values ...any) *Metadata {
	key := http.CanonicalHeaderKey(name)
	if m.vals == nil {
		m.vals = map[string][]any{}
	}
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}

	m.vals[key] = append(m.vals[key], values...)
	return m
}

// Set replaces the values of name. The position of an existing name is kept.
func (m *Metadata) Set(name string, values ...any) *Metadata {
	key := http.CanonicalHeaderKey(name)
	if _, ok := m.vals[key]; ok {
		m.vals[key] = slices.Clone(values)
		return m
	}

	return m.Add(name, values...)
}

// Get returns the first value of name, or nil.
func (m *Metadata) Get(name string) any {
	if vs := m.Values(name); len(vs) > 0 {
		return vs[0]
	}
	return nil
}

// Values returns the values of name.
func (m *Metadata) Values(name string) []any {
	if m == nil {
		return nil
	}
	return m.vals[http.CanonicalHeaderKey(name)]
}

// Has reports whether name is present.
func (m *Metadata) Has(name string) bool {
	if m == nil {
		return false
	}
	_, ok := m.vals[http.CanonicalHeaderKey(name)]
	return ok
}

// Del removes name.
func (m *Metadata) Del(name string) {
	key := http.CanonicalHeaderKey(name)
	if _, ok := m.vals[key]; !ok {
		return
	}

	delete(m.vals, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
}

// Keys returns the names in insertion order.
func (m *Metadata) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// Len returns the number of names.
func (m *Metadata) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Clone returns a deep copy of the name and value lists.
func (m *Metadata) Clone() *Metadata {
	out := NewMetadata()
	for _, k := range m.Keys() {
		out.Add(k, m.vals[k]...)
	}
	return out
}

// Headers holds the headers of an incoming response, as delivered by the transport.
type Headers map[string][]string

// Get returns the first value of name. Names are matched case-insensitively.
func (h Headers) Get(name string) string {
	if vs := h.Values(name); len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Values returns all values of name. Names are matched case-insensitively.
func (h Headers) Values(name string) []string {
	if vs, ok := h[name]; ok {
		return vs
	}
	if vs, ok := h[http.CanonicalHeaderKey(name)]; ok {
		return vs
	}

	for k, vs := range h {
		if strings.EqualFold(k, name) {
			return vs
		}
	}
	return nil
}

// Keys returns the header names sorted.
func (h Headers) Keys() []string {
	keys := lo.Keys(h)
	slices.Sort(keys)
	return keys
}

// toTransportHeaders flattens md into header lines: names in insertion order, values
// in the order they were added. Text values are used verbatim, everything else goes
// through the registered header value conversion.
func toTransportHeaders(md *Metadata, w *Workers) []transport.HeaderField {
	return lo.FlatMap(md.Keys(), func(name string, _ int) []transport.HeaderField {
		return lo.Map(md.Values(name), func(v any, _ int) transport.HeaderField {
			if s, ok := v.(string); ok {
				return transport.HeaderField{Name: name, Value: s}
			}
			return transport.HeaderField{Name: name, Value: w.HeaderValueToString(v)}
		})
	})
}

// toAbstractHeaders copies the transport's headers. A nil value list becomes empty.
func toAbstractHeaders(h http.Header) Headers {
	out := make(Headers, len(h))
	for name, vs := range h {
		out[name] = append([]string{}, vs...)
	}
	return out
}

// configureHeaders pushes the request metadata into the builder.
func configureHeaders(md *Metadata, w *Workers, b *transport.Builder) {
	for _, f := range toTransportHeaders(md, w) {
		b.AddHeader(f.Name, f.Value)
	}
}
