package bclientfxtest

import (
	"strconv"
	"testing"
)

// Env provides a chainable builder for setting [bclientfx.BaseEnvironment] env vars
// via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets all [bclientfx.BaseEnvironment] env vars to sensible test defaults.
//
// Defaults:
//   - BCLIENT_SERVICE_NAME: "test"
//   - BCLIENT_LOG_LEVEL: "debug"
//   - BCLIENT_OTEL_EXPORTER: "none"
//   - BCLIENT_READ_TIMEOUT: "5s"
//   - BCLIENT_CONNECT_TIMEOUT: "1s"
//   - BCLIENT_FOLLOW_REDIRECTS: "true"
//   - BCLIENT_CHUNKED_ENCODING_SIZE: "0"
//   - BCLIENT_MAX_CONCURRENCY: "8"
//
// Use the returned [Env] to override individual values:
//
//	bclientfxtest.SetBaseEnv(t).ReadTimeout("100ms").FollowRedirects(false)
func SetBaseEnv(t testing.TB) *Env {
	t.Helper()
	t.Setenv("BCLIENT_SERVICE_NAME", "test")
	t.Setenv("BCLIENT_LOG_LEVEL", "debug")
	t.Setenv("BCLIENT_OTEL_EXPORTER", "none")
	t.Setenv("BCLIENT_READ_TIMEOUT", "5s")
	t.Setenv("BCLIENT_CONNECT_TIMEOUT", "1s")
	t.Setenv("BCLIENT_FOLLOW_REDIRECTS", "true")
	t.Setenv("BCLIENT_CHUNKED_ENCODING_SIZE", "0")
	t.Setenv("BCLIENT_MAX_CONCURRENCY", "8")
	return &Env{t: t}
}

// ServiceName overrides BCLIENT_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("BCLIENT_SERVICE_NAME", name)
	return e
}

// OtelExporter overrides BCLIENT_OTEL_EXPORTER.
func (e *Env) OtelExporter(exporter string) *Env {
	e.t.Helper()
	e.t.Setenv("BCLIENT_OTEL_EXPORTER", exporter)
	return e
}

// ReadTimeout overrides BCLIENT_READ_TIMEOUT.
func (e *Env) ReadTimeout(d string) *Env {
	e.t.Helper()
	e.t.Setenv("BCLIENT_READ_TIMEOUT", d)
	return e
}

// FollowRedirects overrides BCLIENT_FOLLOW_REDIRECTS.
func (e *Env) FollowRedirects(follow bool) *Env {
	e.t.Helper()
	e.t.Setenv("BCLIENT_FOLLOW_REDIRECTS", strconv.FormatBool(follow))
	return e
}

// ChunkedEncodingSize overrides BCLIENT_CHUNKED_ENCODING_SIZE.
func (e *Env) ChunkedEncodingSize(size int) *Env {
	e.t.Helper()
	e.t.Setenv("BCLIENT_CHUNKED_ENCODING_SIZE", strconv.Itoa(size))
	return e
}
