package bclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// EntityWriter serializes request entities. A writer that decides headers (a content
// type, a content encoding, a digest) sets them on header before its first write to
// w: the headers are committed to the wire request at that moment.
type EntityWriter interface {
	WriteEntity(entity any, header *Metadata, w io.Writer) error
}

// EntityWriterFunc allow casting a function to implement [EntityWriter].
type EntityWriterFunc func(entity any, header *Metadata, w io.Writer) error

// WriteEntity implements the [EntityWriter] interface.
func (f EntityWriterFunc) WriteEntity(entity any, header *Metadata, w io.Writer) error {
	return f(entity, header, w)
}

// EntityEncoder decorates the writer resolved for a request, for example to compress
// its output.
type EntityEncoder func(next EntityWriter) EntityWriter

// Workers resolves entity writers by the entity's type and converts header values to
// strings. Safe for concurrent use; registration is expected to happen before
// dispatching.
type Workers struct {
	mu         sync.RWMutex
	writers    map[reflect.Type]EntityWriter
	ifaces     []typedWriter
	formatters map[reflect.Type]func(any) string
	fallback   EntityWriter
}

type typedWriter struct {
	typ reflect.Type
	w   EntityWriter
}

// NewWorkers returns a registry with writers for []byte, string, io.Reader and
// url.Values; any other entity is written as JSON.
func NewWorkers() *Workers {
	w := &Workers{
		writers:    map[reflect.Type]EntityWriter{},
		formatters: map[reflect.Type]func(any) string{},
		fallback:   EntityWriterFunc(writeJSON),
	}

	w.Register([]byte(nil), EntityWriterFunc(writeBytes))
	w.Register("", EntityWriterFunc(writeString))
	w.Register(url.Values(nil), EntityWriterFunc(writeForm))
	RegisterFor[io.Reader](w, EntityWriterFunc(writeReader))

	return w
}

// Register uses ew for entities with the same dynamic type as prototype.
func (w *Workers) Register(prototype any, ew EntityWriter) {
	w.registerType(reflect.TypeOf(prototype), ew)
}

// RegisterFor uses ew for entities of type T. When T is an interface, ew is used for
// every entity implementing it that has no writer of its own.
func RegisterFor[T any](w *Workers, ew EntityWriter) {
	w.registerType(reflect.TypeFor[T](), ew)
}

func (w *Workers) registerType(typ reflect.Type, ew EntityWriter) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if typ.Kind() == reflect.Interface {
		w.ifaces = append(w.ifaces, typedWriter{typ, ew})
		return
	}
	w.writers[typ] = ew
}

// SetFallback replaces the writer used when no registered writer matches. A nil
// fallback makes unmatched entities an error.
func (w *Workers) SetFallback(ew EntityWriter) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fallback = ew
}

// WriterFor returns the writer for entity: the writer registered for its exact type,
// then the most recently registered matching interface writer, then the fallback.
func (w *Workers) WriterFor(entity any) (EntityWriter, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	typ := reflect.TypeOf(entity)
	if typ == nil {
		return nil, errors.New("no entity writer for a nil entity")
	}

	if ew, ok := w.writers[typ]; ok {
		return ew, nil
	}

	for i := len(w.ifaces) - 1; i >= 0; i-- {
		if typ.Implements(w.ifaces[i].typ) {
			return w.ifaces[i].w, nil
		}
	}

	if w.fallback != nil {
		return w.fallback, nil
	}

	return nil, errors.Newf("no entity writer for %s", typ)
}

// RegisterHeaderFormatter converts header values with the same dynamic type as
// prototype using f.
func (w *Workers) RegisterHeaderFormatter(prototype any, f func(any) string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.formatters[reflect.TypeOf(prototype)] = f
}

// HeaderValueToString converts a header value to its wire form.
func (w *Workers) HeaderValueToString(v any) string {
	if w != nil {
		w.mu.RLock()
		f, ok := w.formatters[reflect.TypeOf(v)]
		w.mu.RUnlock()

		if ok {
			return f(v)
		}
	}

	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.UTC().Format(http.TimeFormat)
	case fmt.Stringer:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func setDefaultContentType(header *Metadata, ct string) {
	if !header.Has("Content-Type") {
		header.Set("Content-Type", ct)
	}
}

func writeBytes(entity any, header *Metadata, w io.Writer) error {
	setDefaultContentType(header, "application/octet-stream")
	_, err := w.Write(entity.([]byte))
	return err
}

func writeString(entity any, header *Metadata, w io.Writer) error {
	setDefaultContentType(header, "text/plain; charset=utf-8")
	_, err := io.WriteString(w, entity.(string))
	return err
}

func writeForm(entity any, header *Metadata, w io.Writer) error {
	setDefaultContentType(header, "application/x-www-form-urlencoded")
	_, err := io.WriteString(w, entity.(url.Values).Encode())
	return err
}

func writeReader(entity any, header *Metadata, w io.Writer) error {
	setDefaultContentType(header, "application/octet-stream")
	_, err := io.Copy(w, entity.(io.Reader))
	return err
}

func writeJSON(entity any, header *Metadata, w io.Writer) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return errors.Wrap(err, "encode json entity")
	}

	setDefaultContentType(header, "application/json")
	_, err = w.Write(data)
	return err
}
