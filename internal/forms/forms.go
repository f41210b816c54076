// Package forms holds the create and update forms for each entity. A form is
// validated locally, sent to the API, and on success hands control back to
// the caller so the affected collections can be refreshed.
package forms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/mihotel/internal/client"
	"github.com/wolfeidau/mihotel/internal/models"
	"gopkg.in/yaml.v3"
)

// SuccessFunc runs after the API accepted a form, typically a dashboard
// refresh such as (*dashboard.Aggregator).RefreshRooms.
type SuccessFunc func(ctx context.Context) error

// PropertyForm creates or updates a property. ID selects update.
type PropertyForm struct {
	ID          string `json:"-" yaml:"id"`
	Name        string `json:"name" yaml:"name" validate:"required,max=120"`
	Description string `json:"description,omitempty" yaml:"description" validate:"max=1000"`
	Address     string `json:"address" yaml:"address" validate:"required,max=255"`
	City        string `json:"city" yaml:"city" validate:"required,max=100"`
	Country     string `json:"country,omitempty" yaml:"country" validate:"max=100"`
	Phone       string `json:"phone,omitempty" yaml:"phone" validate:"max=30"`
	Email       string `json:"email,omitempty" yaml:"email" validate:"omitempty,email"`
	Status      string `json:"status,omitempty" yaml:"status" validate:"omitempty,oneof=active inactive maintenance"`
}

// RoomForm creates or updates a room.
type RoomForm struct {
	ID            string            `json:"-" yaml:"id"`
	PropertyID    string            `json:"propertyId" yaml:"propertyId" validate:"required"`
	Number        string            `json:"number" yaml:"number" validate:"required,max=10"`
	Name          string            `json:"name" yaml:"name" validate:"required,max=100"`
	Type          string            `json:"type" yaml:"type" validate:"required"`
	Floor         int               `json:"floor" yaml:"floor" validate:"gte=0"`
	Capacity      int               `json:"capacity" yaml:"capacity" validate:"required,gte=1,lte=20"`
	PricePerNight float64           `json:"pricePerNight" yaml:"pricePerNight" validate:"required,gt=0"`
	Status        models.RoomStatus `json:"status,omitempty" yaml:"status" validate:"omitempty,oneof=available occupied cleaning maintenance"`
	Amenities     []string          `json:"amenities,omitempty" yaml:"amenities"`
}

// ReservationForm creates or updates a reservation.
type ReservationForm struct {
	ID          string                   `json:"-" yaml:"id"`
	PropertyID  string                   `json:"propertyId" yaml:"propertyId" validate:"required"`
	RoomID      string                   `json:"roomId" yaml:"roomId" validate:"required"`
	GuestID     string                   `json:"guestId" yaml:"guestId" validate:"required"`
	CheckIn     time.Time                `json:"checkIn" yaml:"checkIn" validate:"required"`
	CheckOut    time.Time                `json:"checkOut" yaml:"checkOut" validate:"required,gtfield=CheckIn"`
	Adults      int                      `json:"adults" yaml:"adults" validate:"required,gte=1"`
	Children    int                      `json:"children" yaml:"children" validate:"gte=0"`
	TotalAmount float64                  `json:"totalAmount" yaml:"totalAmount" validate:"gte=0"`
	Status      models.ReservationStatus `json:"status,omitempty" yaml:"status" validate:"omitempty,oneof=pending confirmed checked_in checked_out cancelled"`
	Notes       string                   `json:"notes,omitempty" yaml:"notes" validate:"max=500"`
}

// GuestForm creates or updates a guest.
type GuestForm struct {
	ID             string `json:"-" yaml:"id"`
	FirstName      string `json:"firstName" yaml:"firstName" validate:"required,max=100"`
	LastName       string `json:"lastName" yaml:"lastName" validate:"required,max=100"`
	Email          string `json:"email,omitempty" yaml:"email" validate:"omitempty,email"`
	Phone          string `json:"phone,omitempty" yaml:"phone" validate:"max=30"`
	DocumentType   string `json:"documentType,omitempty" yaml:"documentType" validate:"omitempty,oneof=id passport license other"`
	DocumentNumber string `json:"documentNumber,omitempty" yaml:"documentNumber" validate:"required_with=DocumentType,max=50"`
	Nationality    string `json:"nationality,omitempty" yaml:"nationality" validate:"max=100"`
	IsVIP          bool   `json:"isVip" yaml:"isVip"`
}

// UserForm creates or updates a tenant user. Password is required on create
// and left unchanged on update when empty.
type UserForm struct {
	ID          string             `json:"-" yaml:"id"`
	Name        string             `json:"name" yaml:"name" validate:"required,max=100"`
	Email       string             `json:"email" yaml:"email" validate:"required,email"`
	Password    string             `json:"password,omitempty" yaml:"password" validate:"omitempty,min=6"`
	Role        models.Role        `json:"role" yaml:"role" validate:"required,oneof=admin staff cleaning"`
	Permissions models.Permissions `json:"permissions" yaml:"permissions"`
	IsActive    bool               `json:"isActive" yaml:"isActive"`
}

// RefundForm refunds part or all of a payment. Available, when set, is the
// amount that can still be refunded and bounds Amount. A zero Available
// rejects every refund.
type RefundForm struct {
	PaymentID string   `json:"-" yaml:"paymentId" validate:"required"`
	Amount    float64  `json:"amount" yaml:"amount" validate:"required,gt=0"`
	Reason    string   `json:"reason,omitempty" yaml:"reason" validate:"max=250"`
	Available *float64 `json:"-" yaml:"-"`
}

func (f *PropertyForm) Validate() FieldErrors    { return check(f) }
func (f *RoomForm) Validate() FieldErrors        { return check(f) }
func (f *ReservationForm) Validate() FieldErrors { return check(f) }
func (f *GuestForm) Validate() FieldErrors       { return check(f) }
func (f *UserForm) Validate() FieldErrors        { return check(f) }
func (f *RefundForm) Validate() FieldErrors      { return check(f) }

// Submit creates or updates the property.
func (f *PropertyForm) Submit(ctx context.Context, c *client.Client, onSuccess SuccessFunc) (*models.Property, error) {
	return save(ctx, c.Properties(), f.ID, f, f.Validate, onSuccess)
}

// Submit creates or updates the room.
func (f *RoomForm) Submit(ctx context.Context, c *client.Client, onSuccess SuccessFunc) (*models.Room, error) {
	return save(ctx, c.Rooms(), f.ID, f, f.Validate, onSuccess)
}

// Submit creates or updates the reservation.
func (f *ReservationForm) Submit(ctx context.Context, c *client.Client, onSuccess SuccessFunc) (*models.Reservation, error) {
	return save(ctx, c.Reservations(), f.ID, f, f.Validate, onSuccess)
}

// Submit creates or updates the guest.
func (f *GuestForm) Submit(ctx context.Context, c *client.Client, onSuccess SuccessFunc) (*models.Guest, error) {
	return save(ctx, c.Guests(), f.ID, f, f.Validate, onSuccess)
}

// Submit creates or updates the user.
func (f *UserForm) Submit(ctx context.Context, c *client.Client, onSuccess SuccessFunc) (*models.User, error) {
	return save(ctx, c.Users(), f.ID, f, f.Validate, onSuccess)
}

// Submit sends the refund.
func (f *RefundForm) Submit(ctx context.Context, c *client.Client, onSuccess SuccessFunc) (*models.Payment, error) {
	if fields := f.Validate(); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	payment, err := c.Refund(ctx, f.PaymentID, client.RefundRequest{Amount: f.Amount, Reason: f.Reason})
	if err != nil {
		return nil, merge(err)
	}

	succeeded(ctx, "payment", onSuccess)
	return payment, nil
}

// writer is the subset of client.Resource used by forms.
type writer[T any] interface {
	Kind() string
	Create(ctx context.Context, body any) (*T, error)
	Update(ctx context.Context, id string, body any) (*T, error)
}

func save[T any](ctx context.Context, w writer[T], id string, body any, validate func() FieldErrors, onSuccess SuccessFunc) (*T, error) {
	if fields := validate(); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	var (
		out *T
		err error
	)
	if id == "" {
		out, err = w.Create(ctx, body)
	} else {
		out, err = w.Update(ctx, id, body)
	}
	if err != nil {
		return nil, merge(err)
	}

	succeeded(ctx, w.Kind(), onSuccess)
	return out, nil
}

// succeeded runs the success callback. The mutation has already been
// accepted, so a failing callback is logged rather than returned.
func succeeded(ctx context.Context, kind string, onSuccess SuccessFunc) {
	if onSuccess == nil {
		return
	}
	if err := onSuccess(ctx); err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("refresh after submit failed")
	}
}

// Load decodes a YAML form file into form. Unknown keys are rejected.
func Load(path string, form any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open form file: %w", err)
	}
	defer f.Close()

	return Decode(f, form)
}

// Decode reads a YAML form from r into form.
func Decode(r io.Reader, form any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(form); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("form is empty")
		}
		return fmt.Errorf("failed to decode form: %w", err)
	}
	return nil
}
