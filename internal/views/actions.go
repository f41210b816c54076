package views

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/mihotel/internal/client"
	"github.com/wolfeidau/mihotel/internal/models"
	"github.com/wolfeidau/mihotel/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/text/message"
)

// Kind names an entity type in user facing text.
type Kind string

const (
	KindProperty    Kind = "property"
	KindRoom        Kind = "room"
	KindReservation Kind = "reservation"
	KindGuest       Kind = "guest"
	KindPayment     Kind = "payment"
	KindUser        Kind = "user"
)

// Sentinel errors
var (
	// ErrDeclined is returned when the confirmation step is declined.
	ErrDeclined = errors.New("action declined")

	// ErrBusy is returned while another action of the same Actions is running.
	ErrBusy = errors.New("another action is in progress")
)

// ConfirmFunc asks the user to confirm prompt.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// RefreshFunc reloads the page data after a successful action.
type RefreshFunc func(ctx context.Context) error

// Mutator performs the mutations behind list row actions.
type Mutator interface {
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id, status string) error
}

type resourceMutator[T any] struct {
	r client.Resource[T]
}

func (m resourceMutator[T]) Delete(ctx context.Context, id string) error {
	return m.r.Delete(ctx, id)
}

func (m resourceMutator[T]) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := m.r.UpdateStatus(ctx, id, status)
	return err
}

// MutatorFor adapts a client resource to Mutator.
func MutatorFor[T any](r client.Resource[T]) Mutator {
	return resourceMutator[T]{r: r}
}

// Mutators binds every entity kind to its client endpoints.
func Mutators(c *client.Client) map[Kind]Mutator {
	return map[Kind]Mutator{
		KindProperty:    MutatorFor(c.Properties()),
		KindRoom:        MutatorFor(c.Rooms()),
		KindReservation: MutatorFor(c.Reservations()),
		KindGuest:       MutatorFor(c.Guests()),
		KindPayment:     MutatorFor(c.Payments()),
		KindUser:        MutatorFor(c.Users()),
	}
}

// Statuses lists the values ChangeStatus accepts per kind. Kinds without an
// entry do not support status changes.
var Statuses = map[Kind][]string{
	KindProperty:    {"active", "inactive", "maintenance"},
	KindRoom:        stringsOf(models.RoomStatuses),
	KindReservation: stringsOf(models.ReservationStatuses),
	KindPayment:     stringsOf(models.PaymentStatuses),
	KindUser:        {"active", "inactive"},
}

func stringsOf[S ~string](values []S) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// ActionError is a failed action carrying a message ready to show the user.
type ActionError struct {
	Message string
	Err     error
}

func (e *ActionError) Error() string { return e.Message }

func (e *ActionError) Unwrap() error { return e.Err }

// Actions runs delete and status change actions from entity lists.
//
// Each action asks for confirmation, reports loading through OnLoading,
// sends one request and, on success, calls Refresh. Failures are returned as
// *ActionError with a localized message and are never retried. An expired
// session is returned as client.ErrUnauthorized unchanged.
type Actions struct {
	Targets   map[Kind]Mutator
	Confirm   ConfirmFunc
	Refresh   RefreshFunc
	Printer   *message.Printer
	OnLoading func(bool)

	busy atomic.Bool
}

// NewActions creates actions against the API client.
func NewActions(c *client.Client, confirm ConfirmFunc, refresh RefreshFunc, p *message.Printer) *Actions {
	return &Actions{
		Targets: Mutators(c),
		Confirm: confirm,
		Refresh: refresh,
		Printer: p,
	}
}

// Busy returns true while an action is running.
func (a *Actions) Busy() bool {
	return a.busy.Load()
}

// Delete removes the record id of the given kind.
func (a *Actions) Delete(ctx context.Context, kind Kind, id string) error {
	p := a.printer()
	prompt := p.Sprintf(msgConfirmDelete, p.Sprintf(string(kind)), id)

	return a.run(ctx, kind, "delete", prompt, func(m Mutator) error {
		return m.Delete(ctx, id)
	}, func() string {
		return p.Sprintf(msgDeleteFailed, p.Sprintf(string(kind)), id)
	})
}

// ChangeStatus sets the status of record id of the given kind.
func (a *Actions) ChangeStatus(ctx context.Context, kind Kind, id, status string) error {
	p := a.printer()

	allowed, ok := Statuses[kind]
	if !ok {
		return &ActionError{Message: p.Sprintf(msgUnsupported, p.Sprintf(string(kind)))}
	}
	if !slices.Contains(allowed, status) {
		return &ActionError{Message: p.Sprintf(msgInvalidStatus, status, p.Sprintf(string(kind)))}
	}

	prompt := p.Sprintf(msgConfirmStatus, p.Sprintf(string(kind)), id, status)

	return a.run(ctx, kind, "status", prompt, func(m Mutator) error {
		return m.UpdateStatus(ctx, id, status)
	}, func() string {
		return p.Sprintf(msgStatusFailed, p.Sprintf(string(kind)), id)
	})
}

func (a *Actions) run(ctx context.Context, kind Kind, op, prompt string, do func(Mutator) error, failed func() string) error {
	target, ok := a.Targets[kind]
	if !ok {
		return fmt.Errorf("no target configured for %s", kind)
	}

	metrics := telemetry.GetMetrics()
	attrs := metric.WithAttributes(attribute.String("kind", string(kind)), attribute.String("op", op))

	if a.Confirm != nil {
		confirmed, err := a.Confirm(ctx, prompt)
		if err != nil {
			return err
		}
		if !confirmed {
			metrics.ActionsDeclined.Add(ctx, 1, attrs)
			return ErrDeclined
		}
	}

	if !a.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	a.loading(true)
	defer func() {
		a.loading(false)
		a.busy.Store(false)
	}()

	metrics.ActionsTotal.Add(ctx, 1, attrs)

	if err := do(target); err != nil {
		metrics.ActionsErrorsTotal.Add(ctx, 1, attrs)
		log.Warn().Err(err).Str("kind", string(kind)).Str("op", op).Msg("action failed")
		return a.describe(err, failed)
	}

	if a.Refresh != nil {
		if err := a.Refresh(ctx); err != nil {
			log.Warn().Err(err).Str("kind", string(kind)).Msg("refresh after action failed")
		}
	}
	return nil
}

// describe maps err to the message shown to the user.
func (a *Actions) describe(err error, failed func() string) error {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrUnauthorized), errors.Is(err, client.ErrLoginRequired):
		return err
	case errors.Is(err, client.ErrConnection):
		return &ActionError{Message: a.printer().Sprintf(msgConnection), Err: err}
	case errors.As(err, &apiErr) && apiErr.Message != "":
		// business rule rejections are shown verbatim
		return &ActionError{Message: apiErr.Message, Err: err}
	}
	return &ActionError{Message: failed(), Err: err}
}

func (a *Actions) loading(on bool) {
	if a.OnLoading != nil {
		a.OnLoading(on)
	}
}

func (a *Actions) printer() *message.Printer {
	if a.Printer == nil {
		return NewPrinter("en")
	}
	return a.Printer
}
