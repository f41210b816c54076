package commands

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/mihotel/internal/auth"
	"github.com/wolfeidau/mihotel/internal/client"
	"github.com/wolfeidau/mihotel/internal/dashboard"
	"github.com/wolfeidau/mihotel/internal/guard"
	"github.com/wolfeidau/mihotel/internal/models"
	"github.com/wolfeidau/mihotel/internal/util"
	"github.com/wolfeidau/mihotel/internal/views"
)

// recentReservations is the number of reservations shown on the dashboard.
const recentReservations = 5

type DashboardCmd struct {
	Watch    bool          `help:"Refresh periodically" default:"false"`
	Interval time.Duration `help:"Refresh interval when watching" default:"30s"`
}

func (d *DashboardCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	return a.guarded(ctx, guard.Guard{Route: auth.RouteDashboard}, func(ctx context.Context) error {
		agg := dashboard.New(a.sessions, dashboard.SourcesFromClient(a.client), client.NavigatorFunc(a.redirect))
		defer agg.Close()

		agg.OnChange(func(c dashboard.Collection, s dashboard.Status) {
			log.Debug().Str("collection", string(c)).Str("status", s.String()).Msg("collection changed")
		})

		if d.Watch {
			return d.watch(ctx, a, agg)
		}
		return d.show(ctx, a, agg)
	})
}

func (d *DashboardCmd) show(ctx context.Context, a *app, agg *dashboard.Aggregator) error {
	err := agg.RefreshAll(ctx)
	if errors.Is(err, client.ErrUnauthorized) || errors.Is(err, client.ErrLoginRequired) {
		return err
	}

	printDashboard(a, agg)
	return nil
}

func (d *DashboardCmd) watch(ctx context.Context, a *app, agg *dashboard.Aggregator) error {
	fmt.Fprintln(a.out, "Watching dashboard (press Ctrl+C to stop)...")
	fmt.Fprintln(a.out)

	ticker := time.NewTicker(d.Interval)
	defer ticker.Stop()

	if err := d.show(ctx, a, agg); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fmt.Fprint(a.out, "\033[2J\033[H")
			fmt.Fprintf(a.out, "Dashboard (updated at %s)\n\n", time.Now().Format("15:04:05"))

			if err := d.show(ctx, a, agg); err != nil {
				return err
			}
		}
	}
}

func printDashboard(a *app, agg *dashboard.Aggregator) {
	if user := agg.User(); user != nil {
		fmt.Fprintf(a.out, "Welcome, %s", user.Name)
		if t := agg.Tenant(); t != nil && t.Name != "" {
			fmt.Fprintf(a.out, " (%s)", t.Name)
		}
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out)
	}

	props := views.PropertyStatsOf(agg.Properties())
	rooms := views.RoomStatsOf(agg.Rooms())
	reservations := views.ReservationStatsOf(agg.Reservations())
	guests := views.GuestStatsOf(agg.Guests())

	fmt.Fprintf(a.out, "%-14s %6d   rooms %d, available %d, occupancy %.1f%%\n",
		"Properties", props.Total, props.TotalRooms, props.AvailableRooms, props.OccupancyRate)
	fmt.Fprintf(a.out, "%-14s %6d   occupied %d, cleaning %d, maintenance %d\n",
		"Rooms", rooms.Total,
		rooms.ByStatus[models.RoomStatusOccupied],
		rooms.ByStatus[models.RoomStatusCleaning],
		rooms.ByStatus[models.RoomStatusMaintenance])
	fmt.Fprintf(a.out, "%-14s %6d   revenue %s, pending %s\n",
		"Reservations", reservations.Total,
		util.Money(reservations.Revenue, ""), util.Money(reservations.PendingBalance, ""))
	fmt.Fprintf(a.out, "%-14s %6d   vip %d\n", "Guests", guests.Total, guests.VIP)

	if recent := latest(agg.Reservations(), recentReservations); len(recent) > 0 {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Recent reservations:")
		fmt.Fprintf(a.out, "%-12s %-22s %-10s %-10s %-12s\n", "Confirmation", "Guest", "Check in", "Check out", "Status")
		fmt.Fprintln(a.out, strings.Repeat("─", 70))
		for _, r := range recent {
			fmt.Fprintf(a.out, "%-12s %-22s %-10s %-10s %-12s\n",
				util.Truncate(r.ConfirmationNumber, 12),
				util.Truncate(r.GuestName, 22),
				util.Date(r.CheckIn),
				util.Date(r.CheckOut),
				r.Status)
		}
	}

	if agg.Err() != nil {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Some data could not be loaded:")
		for _, c := range dashboard.Collections {
			if s := agg.Status(c); s.State == dashboard.StateFailed {
				fmt.Fprintf(a.out, "  %-14s %s\n", c, s.Reason())
			}
		}
	}
}

// latest returns up to n reservations, most recent check in first.
func latest(reservations []models.Reservation, n int) []models.Reservation {
	slices.SortStableFunc(reservations, func(x, y models.Reservation) int {
		return y.CheckIn.Compare(x.CheckIn)
	})
	return reservations[:min(n, len(reservations))]
}
