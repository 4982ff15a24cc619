// Package pages holds the admin-side page state machines. Each machine talks
// to the JSON API through the typed client and exposes the state a view
// would render.
package pages

import (
	"context"
	"errors"

	"blogcms/client"
)

// Navigator replaces the current route, the way a page redirect would.
type Navigator interface {
	Replace(path string)
}

const (
	PostsIndex      = "/admin/posts"
	CategoriesIndex = "/admin/categories"
)

// guard tracks the latest operation of a page. A result is committed only
// while the page is mounted and no newer operation has started. Callers hold
// the page mutex.
type guard struct {
	seq    uint64
	closed bool
	cancel context.CancelFunc
}

func (g *guard) begin(ctx context.Context) (context.Context, uint64, context.CancelFunc) {
	if g.cancel != nil {
		g.cancel()
	}
	g.seq++
	ctx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	return ctx, g.seq, cancel
}

func (g *guard) current(ctx context.Context, seq uint64) bool {
	return !g.closed && seq == g.seq && ctx.Err() == nil
}

func (g *guard) close() {
	g.closed = true
	if g.cancel != nil {
		g.cancel()
	}
}

func describe(err error) string {
	var statusErr *client.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}
	var transportErr *client.TransportError
	if errors.As(err, &transportErr) {
		return "could not reach the server: " + transportErr.Err.Error()
	}
	return err.Error()
}
