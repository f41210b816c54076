package views

import "github.com/wolfeidau/mihotel/internal/models"

// PropertyStats summarises room capacity across properties.
type PropertyStats struct {
	Total          int
	TotalRooms     int
	AvailableRooms int
	OccupiedRooms  int
	OccupancyRate  float64 // percent, 0 when there are no rooms
}

// PropertyStatsOf reduces properties whose room counts have been derived.
func PropertyStatsOf(props []models.Property) PropertyStats {
	s := PropertyStats{Total: len(props)}
	for _, p := range props {
		s.TotalRooms += p.TotalRooms
		s.AvailableRooms += p.AvailableRooms
		s.OccupiedRooms += p.OccupiedRooms
	}
	s.OccupancyRate = percent(s.OccupiedRooms, s.TotalRooms)
	return s
}

// RoomStats counts rooms by status.
type RoomStats struct {
	Total         int
	ByStatus      map[models.RoomStatus]int
	OccupancyRate float64
}

func RoomStatsOf(rooms []models.Room) RoomStats {
	s := RoomStats{Total: len(rooms), ByStatus: make(map[models.RoomStatus]int, len(models.RoomStatuses))}
	for _, st := range models.RoomStatuses {
		s.ByStatus[st] = 0
	}
	for _, r := range rooms {
		s.ByStatus[r.Status]++
	}
	s.OccupancyRate = percent(s.ByStatus[models.RoomStatusOccupied], s.Total)
	return s
}

// ReservationStats counts reservations by status and sums their amounts.
// Cancelled reservations are excluded from Revenue and PendingBalance.
type ReservationStats struct {
	Total          int
	ByStatus       map[models.ReservationStatus]int
	Revenue        float64
	Paid           float64
	PendingBalance float64
}

func ReservationStatsOf(reservations []models.Reservation) ReservationStats {
	s := ReservationStats{
		Total:    len(reservations),
		ByStatus: make(map[models.ReservationStatus]int, len(models.ReservationStatuses)),
	}
	for _, st := range models.ReservationStatuses {
		s.ByStatus[st] = 0
	}
	for i := range reservations {
		r := &reservations[i]
		s.ByStatus[r.Status]++
		if r.Status == models.ReservationStatusCancelled {
			continue
		}
		s.Revenue += r.TotalAmount
		s.Paid += r.PaidAmount
		if b := r.Balance(); b > 0 {
			s.PendingBalance += b
		}
	}
	return s
}

// GuestStats summarises the guest book.
type GuestStats struct {
	Total      int
	VIP        int
	TotalSpent float64
	TotalStays int
}

func GuestStatsOf(guests []models.Guest) GuestStats {
	s := GuestStats{Total: len(guests)}
	for _, g := range guests {
		if g.IsVIP {
			s.VIP++
		}
		s.TotalSpent += g.TotalSpent
		s.TotalStays += g.TotalStays
	}
	return s
}

// PaymentStats counts payments by status. Collected is the amount settled
// by completed and partially refunded payments, net of refunds.
type PaymentStats struct {
	Total     int
	ByStatus  map[models.PaymentStatus]int
	Collected float64
	Refunded  float64
	Pending   float64
}

func PaymentStatsOf(payments []models.Payment) PaymentStats {
	s := PaymentStats{Total: len(payments), ByStatus: make(map[models.PaymentStatus]int, len(models.PaymentStatuses))}
	for _, st := range models.PaymentStatuses {
		s.ByStatus[st] = 0
	}
	for i := range payments {
		p := &payments[i]
		s.ByStatus[p.Status]++
		s.Refunded += p.RefundedAmount

		switch p.Status {
		case models.PaymentStatusCompleted, models.PaymentStatusPartiallyRefunded:
			s.Collected += p.Refundable()
		case models.PaymentStatusPending:
			s.Pending += p.Amount
		}
	}
	return s
}

// UserStats counts users by role.
type UserStats struct {
	Total  int
	Active int
	ByRole map[models.Role]int
}

func UserStatsOf(users []models.User) UserStats {
	s := UserStats{Total: len(users), ByRole: map[models.Role]int{
		models.RoleAdmin:    0,
		models.RoleStaff:    0,
		models.RoleCleaning: 0,
	}}
	for _, u := range users {
		s.ByRole[u.Role]++
		if u.IsActive {
			s.Active++
		}
	}
	return s
}

func percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
