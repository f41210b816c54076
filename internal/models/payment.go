package models

import "time"

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusCompleted         PaymentStatus = "completed"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
)

// PaymentStatuses lists every payment status.
var PaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusCompleted,
	PaymentStatusFailed,
	PaymentStatusRefunded,
	PaymentStatusPartiallyRefunded,
}

// Payment is money received against a reservation.
type Payment struct {
	ID                 string        `json:"id"`
	TransactionID      string        `json:"transactionId"`
	ReservationID      string        `json:"reservationId"`
	ConfirmationNumber string        `json:"confirmationNumber,omitempty"`
	GuestName          string        `json:"guestName,omitempty"`
	Amount             float64       `json:"amount"`
	RefundedAmount     float64       `json:"refundedAmount"`
	Currency           string        `json:"currency,omitempty"`
	Method             string        `json:"method"`
	Status             PaymentStatus `json:"status"`
	CreatedAt          time.Time     `json:"createdAt,omitzero"`
}

// Refundable returns the amount that can still be refunded.
func (p *Payment) Refundable() float64 {
	return p.Amount - p.RefundedAmount
}
