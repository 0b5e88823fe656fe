package bclient

import (
	"log"
	"sync/atomic"
	"testing"
	"time"
)

// Logger can be implemented to get informed about dispatched requests.
type Logger interface {
	LogDispatch(method, url string, status int, took time.Duration)
	LogDispatchError(method, url string, err error)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogDispatch(method, url string, status int, took time.Duration) {
	l.Logger.Printf("bclient: %s %s: %d (%s)", method, url, status, took)
}

func (l stdLogger) LogDispatchError(method, url string, err error) {
	l.Logger.Printf("bclient: %s %s failed: %s", method, url, err)
}

// NewStdLogger logs through l, or through the standard logger when l is nil.
func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}
	return stdLogger{l}
}

type nopLogger struct{}

func (nopLogger) LogDispatch(string, string, int, time.Duration) {}
func (nopLogger) LogDispatchError(string, string, error)        {}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() Logger { return nopLogger{} }

type TestLogger struct {
	tb testing.TB

	NumLogDispatch      int64
	NumLogDispatchError int64

	// LastTook is the duration of the most recent successful dispatch in nanoseconds.
	LastTook int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogDispatch(method, url string, status int, took time.Duration) {
	atomic.AddInt64(&l.NumLogDispatch, 1)
	atomic.StoreInt64(&l.LastTook, int64(took))
	l.tb.Logf("bclient: %s %s: %d (%s)", method, url, status, took)
}

func (l *TestLogger) LogDispatchError(method, url string, err error) {
	atomic.AddInt64(&l.NumLogDispatchError, 1)
	l.tb.Logf("bclient: %s %s failed: %s", method, url, err)
}

var _ Logger = &TestLogger{}
