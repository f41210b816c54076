// Package views derives page state from the dashboard collections: search and
// status filtering, summary statistics and the list row actions.
package views

import (
	"strings"

	"github.com/wolfeidau/mihotel/internal/models"
	"golang.org/x/text/cases"
)

// StatusAll disables status filtering.
const StatusAll = "all"

// Filter selects the records of a collection matching a search term and an
// optional status. Search is a case-insensitive substring match over a fixed
// set of fields per entity.
type Filter[T any] struct {
	Search string
	Status string

	fields func(*T) []string
	status func(*T) string
}

// Apply returns the matching records in their original order. The input is
// never modified.
func (f Filter[T]) Apply(items []T) []T {
	term := strings.TrimSpace(f.Search)
	status := f.Status
	if status == StatusAll {
		status = ""
	}

	out := make([]T, 0, len(items))
	if term == "" && status == "" {
		return append(out, items...)
	}

	fold := cases.Fold()
	needle := fold.String(term)

	for i := range items {
		item := &items[i]
		if status != "" && (f.status == nil || f.status(item) != status) {
			continue
		}
		if needle != "" && !matchAny(fold, needle, f.fields(item)) {
			continue
		}
		out = append(out, *item)
	}
	return out
}

func matchAny(fold cases.Caser, needle string, fields []string) bool {
	for _, field := range fields {
		if field == "" {
			continue
		}
		if strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	return false
}

// PropertyFilter matches properties on name and city.
func PropertyFilter(search string) Filter[models.Property] {
	return Filter[models.Property]{
		Search: search,
		fields: func(p *models.Property) []string { return []string{p.Name, p.City} },
		status: func(p *models.Property) string { return p.Status },
	}
}

// RoomFilter matches rooms on name and number.
func RoomFilter(search string, status models.RoomStatus) Filter[models.Room] {
	return Filter[models.Room]{
		Search: search,
		Status: string(status),
		fields: func(r *models.Room) []string { return []string{r.Name, r.Number} },
		status: func(r *models.Room) string { return string(r.Status) },
	}
}

// ReservationFilter matches reservations on confirmation number and guest name.
func ReservationFilter(search string, status models.ReservationStatus) Filter[models.Reservation] {
	return Filter[models.Reservation]{
		Search: search,
		Status: string(status),
		fields: func(r *models.Reservation) []string { return []string{r.ConfirmationNumber, r.GuestName} },
		status: func(r *models.Reservation) string { return string(r.Status) },
	}
}

// GuestFilter matches guests on names, email and document number.
func GuestFilter(search string) Filter[models.Guest] {
	return Filter[models.Guest]{
		Search: search,
		fields: func(g *models.Guest) []string {
			return []string{g.FirstName, g.LastName, g.FullName(), g.Email, g.DocumentNumber}
		},
	}
}

// PaymentFilter matches payments on transaction id, confirmation number and
// guest name.
func PaymentFilter(search string, status models.PaymentStatus) Filter[models.Payment] {
	return Filter[models.Payment]{
		Search: search,
		Status: string(status),
		fields: func(p *models.Payment) []string {
			return []string{p.TransactionID, p.ConfirmationNumber, p.GuestName}
		},
		status: func(p *models.Payment) string { return string(p.Status) },
	}
}

// UserFilter matches users on name and email.
func UserFilter(search string) Filter[models.User] {
	return Filter[models.User]{
		Search: search,
		fields: func(u *models.User) []string { return []string{u.Name, u.Email} },
		status: func(u *models.User) string {
			if u.IsActive {
				return "active"
			}
			return "inactive"
		},
	}
}
