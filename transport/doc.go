// Package transport is the asynchronous HTTP execution engine behind bclient.
//
// A [Client] owns a pooled [net/http.Transport] (optionally HTTP/2 enabled and
// wrapped with OpenTelemetry instrumentation) and runs each exchange on its own
// goroutine. [Client.Execute] returns a [Future] immediately:
//
//	b := transport.NewBuilder(http.MethodPost, "https://example.com/items").
//	    AddHeader("Content-Type", "application/json")
//	b.SetBody(func(w io.Writer) error {
//	    _, err := w.Write(payload)
//	    return err
//	}, int64(len(payload)))
//
//	req, err := b.Request(ctx)
//	if err != nil {
//	    return err
//	}
//
//	resp, err := tc.Execute(req, b.PerRequestConfig()).Get()
//
// Timeouts are owned here: the connect timeout applies to dialing, the request timeout
// (client wide, or per request through [PerRequestConfig]) covers the whole exchange
// including reading the response body. Redirect and pooling policy are those of
// net/http; this package only configures them.
package transport
