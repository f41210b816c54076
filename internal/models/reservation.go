package models

import "time"

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationStatusPending    ReservationStatus = "pending"
	ReservationStatusConfirmed  ReservationStatus = "confirmed"
	ReservationStatusCheckedIn  ReservationStatus = "checked_in"
	ReservationStatusCheckedOut ReservationStatus = "checked_out"
	ReservationStatusCancelled  ReservationStatus = "cancelled"
)

// ReservationStatuses lists every reservation status in lifecycle order.
var ReservationStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusCheckedIn,
	ReservationStatusCheckedOut,
	ReservationStatusCancelled,
}

// Reservation is a booking of a room by a guest for a date range.
type Reservation struct {
	ID                 string            `json:"id"`
	ConfirmationNumber string            `json:"confirmationNumber"`
	PropertyID         string            `json:"propertyId"`
	RoomID             string            `json:"roomId"`
	RoomNumber         string            `json:"roomNumber,omitempty"`
	GuestID            string            `json:"guestId"`
	GuestName          string            `json:"guestName,omitempty"`
	CheckIn            time.Time         `json:"checkIn"`
	CheckOut           time.Time         `json:"checkOut"`
	Adults             int               `json:"adults"`
	Children           int               `json:"children,omitempty"`
	Status             ReservationStatus `json:"status"`
	TotalAmount        float64           `json:"totalAmount"`
	PaidAmount         float64           `json:"paidAmount"`
	Notes              string            `json:"notes,omitempty"`
	CreatedAt          time.Time         `json:"createdAt,omitzero"`
}

// Balance returns the amount still owed on the reservation.
func (r *Reservation) Balance() float64 {
	return r.TotalAmount - r.PaidAmount
}

// Nights returns the number of nights between check-in and check-out.
func (r *Reservation) Nights() int {
	if !r.CheckOut.After(r.CheckIn) {
		return 0
	}
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}
