// Package guard gates protected commands on the stored session and the
// user's permissions.
package guard

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/mihotel/internal/auth"
	"github.com/wolfeidau/mihotel/internal/client"
	"github.com/wolfeidau/mihotel/internal/session"
	"github.com/wolfeidau/mihotel/internal/views"
	"golang.org/x/text/message"
)

// Sentinel errors
var (
	// ErrNotReady is returned when the session store has not been initialised.
	ErrNotReady = errors.New("session not ready")

	// ErrAccessDenied is returned after the access denied view was rendered.
	ErrAccessDenied = errors.New("access denied")
)

// Decision is the outcome of evaluating a Guard.
type Decision int

const (
	Unknown Decision = iota
	Unauthenticated
	Authorized
	Unauthorized
)

func (d Decision) String() string {
	switch d {
	case Unauthenticated:
		return "unauthenticated"
	case Authorized:
		return "authorized"
	case Unauthorized:
		return "unauthorized"
	}
	return "unknown"
}

// RenderFunc renders the protected content.
type RenderFunc func(ctx context.Context) error

// Guard protects content behind a permission or a route. Permission takes
// precedence over Route; a Guard with neither only requires a signed in user.
type Guard struct {
	Permission auth.Permission
	Route      string

	// Fallback replaces the access denied view when set.
	Fallback RenderFunc

	// RedirectTo is offered as the way out of the access denied view.
	// Defaults to the dashboard.
	RedirectTo string

	// Out receives the loading and access denied views. Defaults to stdout.
	Out     io.Writer
	Printer *message.Printer
}

// Evaluate decides access for the session held by store. It only reads the
// store and performs no I/O.
func (g Guard) Evaluate(store *session.Store) Decision {
	if store == nil || !store.Ready() {
		return Unknown
	}

	user := store.User()
	if user == nil {
		return Unauthenticated
	}

	var ok bool
	switch {
	case g.Permission != "":
		ok = auth.HasPermission(user, g.Permission)
	case g.Route != "":
		ok = auth.CanAccessRoute(user, g.Route)
	default:
		ok = true
	}

	if ok {
		return Authorized
	}
	return Unauthorized
}

// Run evaluates the guard and acts on the decision: render on Authorized,
// redirect to login on Unauthenticated, show the fallback or the access
// denied view on Unauthorized, and the loading view on Unknown.
func (g Guard) Run(ctx context.Context, store *session.Store, nav client.Navigator, render RenderFunc) error {
	decision := g.Evaluate(store)

	log.Debug().
		Str("decision", decision.String()).
		Str("permission", string(g.Permission)).
		Str("route", g.Route).
		Msg("guard")

	switch decision {
	case Authorized:
		return render(ctx)

	case Unauthenticated:
		if nav == nil {
			return client.ErrLoginRequired
		}
		return nav.Redirect(auth.RouteLogin)

	case Unauthorized:
		if g.Fallback != nil {
			return g.Fallback(ctx)
		}
		if err := RenderAccessDenied(g.out(), g.printer(), g.target(), g.redirectTo()); err != nil {
			return err
		}
		return ErrAccessDenied
	}

	if err := RenderLoading(g.out(), g.printer()); err != nil {
		return err
	}
	return ErrNotReady
}

func (g Guard) redirectTo() string {
	if g.RedirectTo == "" {
		return auth.RouteDashboard
	}
	return g.RedirectTo
}

// target names what the guard protects in the access denied message.
func (g Guard) target() string {
	if g.Route != "" {
		return g.Route
	}
	return string(g.Permission)
}

func (g Guard) out() io.Writer {
	if g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g Guard) printer() *message.Printer {
	if g.Printer == nil {
		return views.NewPrinter("en")
	}
	return g.Printer
}
