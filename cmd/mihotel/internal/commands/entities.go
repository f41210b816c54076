package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/mihotel/internal/auth"
	"github.com/wolfeidau/mihotel/internal/client"
	"github.com/wolfeidau/mihotel/internal/forms"
	"github.com/wolfeidau/mihotel/internal/models"
	"github.com/wolfeidau/mihotel/internal/views"
)

type PropertiesCmd struct {
	List   ListCmd      `cmd:"" default:"withargs" help:"List properties"`
	Create CreateCmd    `cmd:"" help:"Create a property from a YAML form"`
	Update UpdateCmd    `cmd:"" help:"Update a property from a YAML form"`
	Delete DeleteCmd    `cmd:"" help:"Delete a property"`
	Status SetStatusCmd `cmd:"" help:"Change the status of a property"`
}

type RoomsCmd struct {
	List   ListCmd      `cmd:"" default:"withargs" help:"List rooms"`
	Create CreateCmd    `cmd:"" help:"Create a room from a YAML form"`
	Update UpdateCmd    `cmd:"" help:"Update a room from a YAML form"`
	Delete DeleteCmd    `cmd:"" help:"Delete a room"`
	Status SetStatusCmd `cmd:"" help:"Change the status of a room"`
}

type ReservationsCmd struct {
	List   ListCmd      `cmd:"" default:"withargs" help:"List reservations"`
	Create CreateCmd    `cmd:"" help:"Create a reservation from a YAML form"`
	Update UpdateCmd    `cmd:"" help:"Update a reservation from a YAML form"`
	Delete DeleteCmd    `cmd:"" help:"Delete a reservation"`
	Status SetStatusCmd `cmd:"" help:"Change the status of a reservation"`
}

type GuestsCmd struct {
	List   ListCmd   `cmd:"" default:"withargs" help:"List guests"`
	Create CreateCmd `cmd:"" help:"Create a guest from a YAML form"`
	Update UpdateCmd `cmd:"" help:"Update a guest from a YAML form"`
	Delete DeleteCmd `cmd:"" help:"Delete a guest"`
}

type PaymentsCmd struct {
	List   ListCmd      `cmd:"" default:"withargs" help:"List payments"`
	Refund RefundCmd    `cmd:"" help:"Refund part or all of a payment"`
	Status SetStatusCmd `cmd:"" help:"Change the status of a payment"`
}

type UsersCmd struct {
	List   ListCmd      `cmd:"" default:"withargs" help:"List users"`
	Create CreateCmd    `cmd:"" help:"Create a user from a YAML form"`
	Update UpdateCmd    `cmd:"" help:"Update a user from a YAML form"`
	Delete DeleteCmd    `cmd:"" help:"Delete a user"`
	Status SetStatusCmd `cmd:"" help:"Activate or deactivate a user"`
}

// entity binds a kind to the section guarding it, its list printer and its
// form.
type entity struct {
	route string
	list  func(ctx context.Context, a *app, q query) error

	// editor is nil for kinds that cannot be created or edited.
	editor func() editor
}

var entities = map[views.Kind]entity{
	views.KindProperty:    {route: auth.RouteProperties, list: listProperties, editor: propertyEditor},
	views.KindRoom:        {route: auth.RouteRooms, list: listRooms, editor: roomEditor},
	views.KindReservation: {route: auth.RouteReservations, list: listReservations, editor: reservationEditor},
	views.KindGuest:       {route: auth.RouteGuests, list: listGuests, editor: guestEditor},
	views.KindPayment:     {route: auth.RoutePayments, list: listPayments},
	views.KindUser:        {route: auth.RouteUsers, list: listUsers, editor: userEditor},
}

func lookup(kind string) (entity, error) {
	e, ok := entities[views.Kind(kind)]
	if !ok {
		return entity{}, fmt.Errorf("unknown entity kind %q", kind)
	}
	return e, nil
}

// editor wraps a form so commands can fill and submit it without knowing
// its type.
type editor struct {
	form   any
	setID  func(id string)
	submit func(ctx context.Context, c *client.Client, onSuccess forms.SuccessFunc) (string, error)
}

type submitter[T any] interface {
	Submit(ctx context.Context, c *client.Client, onSuccess forms.SuccessFunc) (*T, error)
}

func editorFor[T any](form submitter[T], setID func(string), idOf func(*T) string) editor {
	return editor{
		form:  form,
		setID: setID,
		submit: func(ctx context.Context, c *client.Client, onSuccess forms.SuccessFunc) (string, error) {
			out, err := form.Submit(ctx, c, onSuccess)
			if err != nil || out == nil {
				return "", err
			}
			return idOf(out), nil
		},
	}
}

func propertyEditor() editor {
	f := &forms.PropertyForm{}
	return editorFor(f, func(id string) { f.ID = id }, func(p *models.Property) string { return p.ID })
}

func roomEditor() editor {
	f := &forms.RoomForm{}
	return editorFor(f, func(id string) { f.ID = id }, func(r *models.Room) string { return r.ID })
}

func reservationEditor() editor {
	f := &forms.ReservationForm{}
	return editorFor(f, func(id string) { f.ID = id }, func(r *models.Reservation) string { return r.ID })
}

func guestEditor() editor {
	f := &forms.GuestForm{}
	return editorFor(f, func(id string) { f.ID = id }, func(g *models.Guest) string { return g.ID })
}

func userEditor() editor {
	f := &forms.UserForm{}
	return editorFor(f, func(id string) { f.ID = id }, func(u *models.User) string { return u.ID })
}
