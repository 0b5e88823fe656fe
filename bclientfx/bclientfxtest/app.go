// Package bclientfxtest provides test helpers for bclientfx applications.
//
// It constructs the identical DI graph as [bclientfx.NewApp] but uses
// [fxtest.App] which fails the test immediately on DI errors.
//
// Example:
//
//	bclientfxtest.SetBaseEnv(t)
//	app := bclientfxtest.New[TestEnv](t, func(c *bclient.Client) { ... })
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
package bclientfxtest

import (
	"testing"

	"github.com/advdv/bclient/bclientfx"
	"go.uber.org/fx/fxtest"
)

// App embeds *fxtest.App for testing bclientfx applications.
type App struct {
	*fxtest.App
}

// New creates a test app with the same DI graph as [bclientfx.NewApp].
func New[E bclientfx.Environment](t testing.TB, invoke any, opts ...bclientfx.Option) *App {
	return &App{App: fxtest.New(t, bclientfx.FxOptions[E](invoke, opts...)...)}
}
