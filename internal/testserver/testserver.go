// Package testserver implements the HTTP endpoints the client tests talk to.
package testserver

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

// Fixed is the body served by the idempotent endpoint.
const Fixed = "the same bytes every time"

// Server is a running test server.
type Server struct {
	*httptest.Server

	// Hits counts requests per route pattern.
	hits map[string]*atomic.Int64
}

// New starts a server with all test endpoints and closes it when the test ends.
//
//	POST /echo       returns the (gzip-decoded) request body with the same Content-Type
//	GET  /cookie     returns the "name" cookie value or NO-COOKIE and sets name=value
//	POST /cookie     returns "wo-cookie" without touching cookies
//	GET  /conflict   responds 409 without a body
//	GET  /fixed      returns [Fixed]
//	     /inspect    returns the received request as JSON, see [Inspection]
//	GET  /slow       sleeps for the "d" query duration, or until the client gives up
//	GET  /redirect   redirects to /inspect with 302
func New(tb testing.TB) *Server {
	tb.Helper()

	s := &Server{hits: map[string]*atomic.Int64{}}
	mux := http.NewServeMux()
	s.handle(mux, "POST /echo", echo)
	s.handle(mux, "GET /cookie", cookieGet)
	s.handle(mux, "POST /cookie", cookiePost)
	s.handle(mux, "GET /conflict", conflict)
	s.handle(mux, "GET /fixed", fixed)
	s.handle(mux, "/inspect", inspect)
	s.handle(mux, "GET /slow", slow)
	s.handle(mux, "GET /redirect", redirect)

	s.Server = httptest.NewServer(mux)
	tb.Cleanup(s.Close)

	return s
}

// Hits returns how many requests the route pattern received.
func (s *Server) Hits(pattern string) int64 {
	if c, ok := s.hits[pattern]; ok {
		return c.Load()
	}

	return 0
}

// URLFor returns the absolute url of path on this server.
func (s *Server) URLFor(path string) string {
	return s.URL + path
}

func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	c := &atomic.Int64{}
	s.hits[pattern] = c
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		c.Add(1)
		h(w, r)
	})
}

func requestBody(r *http.Request) (io.Reader, error) {
	if r.Header.Get("Content-Encoding") != "gzip" {
		return r.Body, nil
	}

	return gzip.NewReader(r.Body)
}

func echo(w http.ResponseWriter, r *http.Request) {
	body, err := requestBody(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if ct := r.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	_, _ = w.Write(data)
}

func cookieGet(w http.ResponseWriter, r *http.Request) {
	out := "NO-COOKIE"
	if c, err := r.Cookie("name"); err == nil {
		out = c.Value
	}

	http.SetCookie(w, &http.Cookie{Name: "name", Value: "value"})
	_, _ = io.WriteString(w, out)
}

func cookiePost(w http.ResponseWriter, _ *http.Request) {
	_, _ = io.WriteString(w, "wo-cookie")
}

func conflict(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusConflict)
}

func fixed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = io.WriteString(w, Fixed)
}

// Inspection is what /inspect returns.
type Inspection struct {
	Method           string              `json:"method"`
	Header           map[string][]string `json:"header"`
	Cookies          map[string]string   `json:"cookies"`
	ContentLength    int64               `json:"content_length"`
	TransferEncoding []string            `json:"transfer_encoding"`
	Body             string              `json:"body"`
}

func inspect(w http.ResponseWriter, r *http.Request) {
	body, err := requestBody(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cookies := map[string]string{}
	for _, c := range r.Cookies() {
		cookies[c.Name] = c.Value
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Inspection{
		Method:           r.Method,
		Header:           r.Header,
		Cookies:          cookies,
		ContentLength:    r.ContentLength,
		TransferEncoding: r.TransferEncoding,
		Body:             string(data),
	})
}

func slow(w http.ResponseWriter, r *http.Request) {
	d, err := time.ParseDuration(r.URL.Query().Get("d"))
	if err != nil {
		d = time.Second
	}

	select {
	case <-time.After(d):
	case <-r.Context().Done():
		return
	}

	_, _ = io.WriteString(w, "slept "+strconv.FormatInt(d.Milliseconds(), 10)+"ms")
}

func redirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/inspect", http.StatusFound)
}
