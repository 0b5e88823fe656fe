package bclient

import (
	"bytes"
	"io"
	"time"

	"github.com/advdv/bclient/transport"
	"github.com/cockroachdb/errors"
)

// committingSink passes writes to w and calls commit exactly once: before the first
// write, or on Close when nothing was written.
type committingSink struct {
	w         io.Writer
	commit    func() error
	committed bool
}

func newCommittingSink(w io.Writer, commit func() error) *committingSink {
	return &committingSink{w: w, commit: commit}
}

func (s *committingSink) Write(p []byte) (int, error) {
	if err := s.ensureCommitted(); err != nil {
		return 0, err
	}
	return s.w.Write(p)
}

func (s *committingSink) Close() error {
	return s.ensureCommitted()
}

func (s *committingSink) ensureCommitted() error {
	if s.committed {
		return nil
	}

	s.committed = true
	return s.commit()
}

// requestWriter moves a request's timeout, headers and entity into a transport builder.
type requestWriter struct {
	workers   *Workers
	chunkSize int
}

// configureRequest serializes the entity (when there is one and needsBody allows it)
// into memory and attaches it to b. Headers are pushed at the commit point of the
// serialization so headers the writer sets are part of the request. Without an entity
// the headers are pushed right away.
func (rw requestWriter) configureRequest(b *transport.Builder, req *Request, needsBody bool) error {
	if d, ok := durationProperty(req.Properties, PropertyReadTimeout); ok {
		b.SetPerRequestConfig(transport.PerRequestConfig{RequestTimeout: d})
	}

	if req.Header == nil {
		req.Header = NewMetadata()
	}

	if req.Entity == nil || !needsBody {
		configureHeaders(req.Header, rw.workers, b)
		return nil
	}

	ew, err := rw.workers.WriterFor(req.Entity)
	if err != nil {
		return err
	}
	for _, enc := range req.Encoders {
		ew = enc(ew)
	}

	var buf bytes.Buffer
	sink := newCommittingSink(&buf, func() error {
		configureHeaders(req.Header, rw.workers, b)
		return nil
	})

	if err := ew.WriteEntity(req.Entity, req.Header, sink); err != nil {
		return errors.Wrapf(err, "write %T entity", req.Entity)
	}
	if err := sink.Close(); err != nil {
		return err
	}

	content := buf.Bytes()
	b.SetChunkedEncodingSize(rw.chunkSize)
	b.SetBody(func(w io.Writer) error {
		_, err := w.Write(content)
		return err
	}, int64(len(content)))

	return nil
}

// durationProperty reads a duration property. Integers are milliseconds.
func durationProperty(props map[string]any, name string) (time.Duration, bool) {
	switch v := props[name].(type) {
	case time.Duration:
		return v, true
	case int:
		return time.Duration(v) * time.Millisecond, true
	case int32:
		return time.Duration(v) * time.Millisecond, true
	case int64:
		return time.Duration(v) * time.Millisecond, true
	default:
		return 0, false
	}
}

func boolProperty(props map[string]any, name string) (bool, bool) {
	v, ok := props[name].(bool)
	return v, ok
}

func intProperty(props map[string]any, name string) (int, bool) {
	switch v := props[name].(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}
