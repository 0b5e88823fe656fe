// Package bclient sends transport independent HTTP requests over an asynchronous
// transport and waits for the result.
//
// # Overview
//
// A [Request] describes an exchange without committing to a wire format: a method, a
// URI, ordered headers with values of any type, an entity of any type and a property
// bag with per-request overrides. A [Handler] turns it into a wire request, executes it
// on a [Transport] that works asynchronously, and blocks the caller until the response
// headers arrive. The result is a [Response] whose body is read lazily.
//
// A minimal example:
//
//	client, err := bclient.CreateDefault()
//	if err != nil {
//	    return err
//	}
//	defer client.Destroy()
//
//	resp, err := client.Do(ctx, http.MethodPost, "http://localhost:8080/items", item)
//	if err != nil {
//	    return err
//	}
//	defer resp.Close()
//
// # Entities
//
// Entities are serialized by the [EntityWriter] the client's [Workers] resolve for the
// entity's type. []byte, string, io.Reader and url.Values have writers out of the box;
// everything else is written as JSON. Register writers for your own types with
// [Workers.Register] or [RegisterFor].
//
// A writer may decide headers while it serializes, such as a content type or a digest.
// Headers are copied into the wire request at the moment the writer first writes to
// its output (or when it finishes without writing), so anything set before that is
// sent. Encoders such as [GzipEncoder] decorate the resolved writer:
//
//	req, _ := bclient.NewRequest(http.MethodPut, url, payload)
//	req.Encoders = append(req.Encoders, bclient.GzipEncoder)
//
// GET, HEAD, OPTIONS and TRACE requests never carry an entity, even when one is set.
// [PropertyLegacyBodyPredicate] restores the older behavior where only GET drops it.
//
// # Responses
//
// Status codes are never errors: a 409 is a [Response] with Status 409. The caller owns
// the body and must Close the response. Responses without an entity are buffered and
// closed before they are returned, so ignoring them does not leak a connection:
//
//	resp, err := client.Do(ctx, http.MethodDelete, url, nil)
//	if err != nil {
//	    return err
//	}
//	if resp.Status == http.StatusConflict {
//	    ...
//	}
//
// # Errors
//
// Every dispatch error is a [*HandlerError] and keeps its cause. [KindOf] tells whether
// building, serialization or the transport failed:
//
//	if bclient.KindOf(err) == bclient.KindTransport {
//	    // retry?
//	}
//
// # Cookies
//
// Every client holds a [CookieJar]. Cookies from responses are stored and sent with all
// later requests of that client. A cookie replaces an earlier one with the same
// domain, path and name.
//
// # Configuration
//
// [Config] carries properties and [transport.Options]. The properties
// [PropertyReadTimeout], [PropertyConnectTimeout], [PropertyFollowRedirects] and
// [PropertyChunkedEncodingSize] take precedence over the options. A request can
// override the read timeout for itself:
//
//	req.WithProperty(bclient.PropertyReadTimeout, 250) // milliseconds
//
// # Middleware
//
// [Middleware] wraps the dispatch for cross-cutting concerns. The middleware provided
// first is the outermost:
//
//	client.Use(bclient.GzipContentEncoding(), authMiddleware)
package bclient
