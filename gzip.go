package bclient

import (
	"compress/gzip"
	"context"
	"io"
	"slices"
)

// GzipEncoder compresses the output of the request's entity writer and marks the
// entity with Content-Encoding: gzip. The header is set before any compressed byte is
// written, so it is committed together with the writer's own headers.
func GzipEncoder(next EntityWriter) EntityWriter {
	return EntityWriterFunc(func(entity any, header *Metadata, w io.Writer) error {
		header.Set("Content-Encoding", "gzip")

		zw := gzip.NewWriter(w)
		if err := next.WriteEntity(entity, header, zw); err != nil {
			return err
		}
		return zw.Close()
	})
}

// GzipContentEncoding returns middleware that gzips every request entity. Response
// bodies are decompressed by the transport, which asks for gzip on its own.
func GzipContentEncoding() Middleware {
	return func(next Dispatcher) Dispatcher {
		return DispatcherFunc(func(ctx context.Context, req *Request) (*Response, error) {
			if req.Entity == nil {
				return next.Handle(ctx, req)
			}

			r2 := *req
			r2.Encoders = append(slices.Clone(req.Encoders), GzipEncoder)
			return next.Handle(ctx, &r2)
		})
	}
}
