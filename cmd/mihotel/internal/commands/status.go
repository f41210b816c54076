package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wolfeidau/mihotel/internal/auth"
)

type StatusCmd struct {
	Wait time.Duration `help:"Keep retrying for up to this long (e.g. 30s)" default:"0s"`
}

func (s *StatusCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if s.Wait > 0 {
		err = a.client.WaitReady(ctx, s.Wait)
	} else {
		err = a.client.Ping(ctx)
	}
	if err != nil {
		return fmt.Errorf("api %s is not reachable: %w", a.cfg.APIURL, err)
	}

	fmt.Fprintf(a.out, "API %s is reachable\n", a.cfg.APIURL)
	if user := a.sessions.User(); user != nil {
		fmt.Fprintf(a.out, "Signed in as %s\n", user.Email)
	} else {
		fmt.Fprintln(a.out, "Not signed in")
	}
	return nil
}

type RoutesCmd struct{}

func (r *RoutesCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	user := a.sessions.User()

	fmt.Fprintf(a.out, "%-15s %-8s %s\n", "Command", "Access", "Requires")
	fmt.Fprintln(a.out, strings.Repeat("─", 70))

	for _, route := range auth.NavigationOrder {
		perms, _ := auth.LookupRoute(route)

		requires := "signed in"
		if len(perms) > 0 {
			names := make([]string, len(perms))
			for i, p := range perms {
				names[i] = string(p)
			}
			requires = strings.Join(names, " or ")
		}

		access := "-"
		if user != nil {
			access = "no"
			if auth.CanAccessRoute(user, route) {
				access = "yes"
			}
		}

		fmt.Fprintf(a.out, "%-15s %-8s %s\n", strings.TrimPrefix(route, "/"), access, requires)
	}

	if user == nil {
		fmt.Fprintln(a.out, "\nSign in to see which sections you can open.")
	}
	return nil
}
