package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wolfeidau/mihotel/internal/client"
	"github.com/wolfeidau/mihotel/internal/guard"
	"github.com/wolfeidau/mihotel/internal/models"
	"github.com/wolfeidau/mihotel/internal/util"
	"github.com/wolfeidau/mihotel/internal/views"
)

type ListCmd struct {
	Kind   string        `hidden:"" default:"${kind}"`
	Search string        `short:"s" help:"Case-insensitive search term" default:""`
	Status string        `help:"Status to filter by" default:"all"`
	Page   int           `help:"Page number" default:"1"`
	Limit  int           `help:"Records per page (max 200)" default:"100"`
	Watch  bool          `help:"Watch for changes" default:"false"`
	Every  time.Duration `help:"Refresh interval when watching" default:"5s"`
}

// query is the state of a list: the page requested from the API and the
// search and status applied to it locally.
type query struct {
	Search string
	Status string
	Page   int
	Limit  int
}

func (q query) options() client.ListOptions {
	return client.ListOptions{Limit: q.Limit, Page: q.Page}
}

func (l *ListCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := lookup(l.Kind)
	if err != nil {
		return err
	}

	a, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	q := query{Search: l.Search, Status: l.Status, Page: l.Page, Limit: l.Limit}

	return a.guarded(ctx, guard.Guard{Route: e.route}, func(ctx context.Context) error {
		if !l.Watch {
			return e.list(ctx, a, q)
		}

		fmt.Fprintf(a.out, "Watching %s (press Ctrl+C to stop)...\n\n", strings.TrimPrefix(e.route, "/"))

		ticker := time.NewTicker(l.Every)
		defer ticker.Stop()

		if err := e.list(ctx, a, q); err != nil {
			return err
		}

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				fmt.Fprint(a.out, "\033[2J\033[H")
				fmt.Fprintf(a.out, "Updated at %s\n\n", time.Now().Format("15:04:05"))

				if err := e.list(ctx, a, q); err != nil {
					fmt.Fprintf(a.out, "Error updating list: %v\n", err)
				}
			}
		}
	})
}

func printHeader(a *app, title string, q query) {
	search := q.Search
	if search == "" {
		search = "-"
	}
	status := q.Status
	if status == "" {
		status = views.StatusAll
	}
	fmt.Fprintf(a.out, "%s (search: %s, status: %s, page: %d):\n", title, search, status, max(q.Page, 1))
}

func listProperties(ctx context.Context, a *app, q query) error {
	items, err := a.client.Properties().List(ctx, q.options())
	if err != nil {
		return fmt.Errorf("failed to list properties: %w", err)
	}
	for i := range items {
		items[i].DeriveRoomCounts()
	}

	f := views.PropertyFilter(q.Search)
	f.Status = q.Status
	items = f.Apply(items)

	printHeader(a, "Properties", q)
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No properties found.")
		return nil
	}

	fmt.Fprintf(a.out, "%-24s %-24s %-16s %-12s %6s %6s %6s\n",
		"ID", "Name", "City", "Status", "Rooms", "Free", "Used")
	fmt.Fprintln(a.out, strings.Repeat("─", 100))
	for _, p := range items {
		fmt.Fprintf(a.out, "%-24s %-24s %-16s %-12s %6d %6d %6d\n",
			util.Truncate(p.ID, 24),
			util.Truncate(p.Name, 24),
			util.Truncate(p.City, 16),
			p.Status,
			p.TotalRooms,
			p.AvailableRooms,
			p.OccupiedRooms)
	}

	s := views.PropertyStatsOf(items)
	fmt.Fprintf(a.out, "\nTotal: %d  Rooms: %d  Available: %d  Occupancy: %.1f%%\n",
		s.Total, s.TotalRooms, s.AvailableRooms, s.OccupancyRate)
	return nil
}

func listRooms(ctx context.Context, a *app, q query) error {
	items, err := a.client.Rooms().List(ctx, q.options())
	if err != nil {
		return fmt.Errorf("failed to list rooms: %w", err)
	}

	items = views.RoomFilter(q.Search, models.RoomStatus(q.Status)).Apply(items)

	printHeader(a, "Rooms", q)
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No rooms found.")
		return nil
	}

	fmt.Fprintf(a.out, "%-24s %-8s %-20s %-20s %-10s %4s %10s %-12s\n",
		"ID", "Number", "Name", "Property", "Type", "Cap", "Price", "Status")
	fmt.Fprintln(a.out, strings.Repeat("─", 120))
	for _, r := range items {
		fmt.Fprintf(a.out, "%-24s %-8s %-20s %-20s %-10s %4d %10s %-12s\n",
			util.Truncate(r.ID, 24),
			util.Truncate(r.Number, 8),
			util.Truncate(r.Name, 20),
			util.Truncate(r.PropertyName, 20),
			util.Truncate(r.Type, 10),
			r.Capacity,
			util.Money(r.PricePerNight, ""),
			r.Status)
	}

	s := views.RoomStatsOf(items)
	fmt.Fprintf(a.out, "\nTotal: %d  Available: %d  Occupied: %d  Cleaning: %d  Maintenance: %d  Occupancy: %.1f%%\n",
		s.Total,
		s.ByStatus[models.RoomStatusAvailable],
		s.ByStatus[models.RoomStatusOccupied],
		s.ByStatus[models.RoomStatusCleaning],
		s.ByStatus[models.RoomStatusMaintenance],
		s.OccupancyRate)
	return nil
}

func listReservations(ctx context.Context, a *app, q query) error {
	items, err := a.client.Reservations().List(ctx, q.options())
	if err != nil {
		return fmt.Errorf("failed to list reservations: %w", err)
	}

	items = views.ReservationFilter(q.Search, models.ReservationStatus(q.Status)).Apply(items)

	printHeader(a, "Reservations", q)
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No reservations found.")
		return nil
	}

	fmt.Fprintf(a.out, "%-24s %-12s %-22s %-8s %-10s %-10s %-12s %10s %10s\n",
		"ID", "Confirmation", "Guest", "Room", "Check in", "Check out", "Status", "Total", "Balance")
	fmt.Fprintln(a.out, strings.Repeat("─", 130))
	for i := range items {
		r := &items[i]
		fmt.Fprintf(a.out, "%-24s %-12s %-22s %-8s %-10s %-10s %-12s %10s %10s\n",
			util.Truncate(r.ID, 24),
			util.Truncate(r.ConfirmationNumber, 12),
			util.Truncate(r.GuestName, 22),
			util.Truncate(r.RoomNumber, 8),
			util.Date(r.CheckIn),
			util.Date(r.CheckOut),
			r.Status,
			util.Money(r.TotalAmount, ""),
			util.Money(r.Balance(), ""))
	}

	s := views.ReservationStatsOf(items)
	fmt.Fprintf(a.out, "\nTotal: %d  Confirmed: %d  Checked in: %d  Revenue: %s  Pending: %s\n",
		s.Total,
		s.ByStatus[models.ReservationStatusConfirmed],
		s.ByStatus[models.ReservationStatusCheckedIn],
		util.Money(s.Revenue, ""),
		util.Money(s.PendingBalance, ""))
	return nil
}

func listGuests(ctx context.Context, a *app, q query) error {
	items, err := a.client.Guests().List(ctx, q.options())
	if err != nil {
		return fmt.Errorf("failed to list guests: %w", err)
	}

	// guests carry no status
	items = views.GuestFilter(q.Search).Apply(items)

	printHeader(a, "Guests", q)
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No guests found.")
		return nil
	}

	fmt.Fprintf(a.out, "%-24s %-24s %-28s %-16s %5s %10s %-3s\n",
		"ID", "Name", "Email", "Document", "Stays", "Spent", "VIP")
	fmt.Fprintln(a.out, strings.Repeat("─", 120))
	for i := range items {
		g := &items[i]
		vip := ""
		if g.IsVIP {
			vip = "yes"
		}
		fmt.Fprintf(a.out, "%-24s %-24s %-28s %-16s %5d %10s %-3s\n",
			util.Truncate(g.ID, 24),
			util.Truncate(g.FullName(), 24),
			util.Truncate(g.Email, 28),
			util.Truncate(g.DocumentNumber, 16),
			g.TotalStays,
			util.Money(g.TotalSpent, ""),
			vip)
	}

	s := views.GuestStatsOf(items)
	fmt.Fprintf(a.out, "\nTotal: %d  VIP: %d  Stays: %d  Spent: %s\n",
		s.Total, s.VIP, s.TotalStays, util.Money(s.TotalSpent, ""))
	return nil
}

func listPayments(ctx context.Context, a *app, q query) error {
	items, err := a.client.Payments().List(ctx, q.options())
	if err != nil {
		return fmt.Errorf("failed to list payments: %w", err)
	}

	items = views.PaymentFilter(q.Search, models.PaymentStatus(q.Status)).Apply(items)

	printHeader(a, "Payments", q)
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No payments found.")
		return nil
	}

	fmt.Fprintf(a.out, "%-24s %-20s %-12s %-22s %-10s %14s %10s %-18s\n",
		"ID", "Transaction", "Confirmation", "Guest", "Method", "Amount", "Refunded", "Status")
	fmt.Fprintln(a.out, strings.Repeat("─", 140))
	for i := range items {
		p := &items[i]
		fmt.Fprintf(a.out, "%-24s %-20s %-12s %-22s %-10s %14s %10s %-18s\n",
			util.Truncate(p.ID, 24),
			util.Truncate(p.TransactionID, 20),
			util.Truncate(p.ConfirmationNumber, 12),
			util.Truncate(p.GuestName, 22),
			util.Truncate(p.Method, 10),
			util.Money(p.Amount, p.Currency),
			util.Money(p.RefundedAmount, ""),
			p.Status)
	}

	s := views.PaymentStatsOf(items)
	fmt.Fprintf(a.out, "\nTotal: %d  Collected: %s  Refunded: %s  Pending: %s\n",
		s.Total, util.Money(s.Collected, ""), util.Money(s.Refunded, ""), util.Money(s.Pending, ""))
	return nil
}

func listUsers(ctx context.Context, a *app, q query) error {
	items, err := a.client.Users().List(ctx, q.options())
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	f := views.UserFilter(q.Search)
	f.Status = q.Status
	items = f.Apply(items)

	printHeader(a, "Users", q)
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No users found.")
		return nil
	}

	fmt.Fprintf(a.out, "%-24s %-22s %-28s %-10s %-8s\n", "ID", "Name", "Email", "Role", "Active")
	fmt.Fprintln(a.out, strings.Repeat("─", 96))
	for _, u := range items {
		active := "no"
		if u.IsActive {
			active = "yes"
		}
		fmt.Fprintf(a.out, "%-24s %-22s %-28s %-10s %-8s\n",
			util.Truncate(u.ID, 24),
			util.Truncate(u.Name, 22),
			util.Truncate(u.Email, 28),
			u.Role,
			active)
	}

	s := views.UserStatsOf(items)
	fmt.Fprintf(a.out, "\nTotal: %d  Active: %d  Admins: %d  Staff: %d  Cleaning: %d\n",
		s.Total, s.Active,
		s.ByRole[models.RoleAdmin], s.ByRole[models.RoleStaff], s.ByRole[models.RoleCleaning])
	return nil
}
