package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/mihotel/internal/auth"
	"github.com/wolfeidau/mihotel/internal/client"
	"github.com/wolfeidau/mihotel/internal/forms"
	"github.com/wolfeidau/mihotel/internal/guard"
	"github.com/wolfeidau/mihotel/internal/util"
	"github.com/wolfeidau/mihotel/internal/views"
)

type CreateCmd struct {
	Kind string `hidden:"" default:"${kind}"`
	File string `short:"f" help:"YAML form file" required:"" type:"existingfile"`
}

func (c *CreateCmd) Run(ctx context.Context, globals *Globals) error {
	return saveForm(ctx, globals, c.Kind, "", c.File)
}

type UpdateCmd struct {
	Kind string `hidden:"" default:"${kind}"`
	ID   string `arg:"" help:"ID of the record to update"`
	File string `short:"f" help:"YAML form file" required:"" type:"existingfile"`
}

func (u *UpdateCmd) Run(ctx context.Context, globals *Globals) error {
	return saveForm(ctx, globals, u.Kind, u.ID, u.File)
}

// saveForm loads a form file and submits it, creating the record when id is
// empty and updating it otherwise.
func saveForm(ctx context.Context, globals *Globals, kind, id, path string) error {
	e, err := lookup(kind)
	if err != nil {
		return err
	}
	if e.editor == nil {
		return fmt.Errorf("%s records cannot be edited", kind)
	}

	a, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	return a.guarded(ctx, guard.Guard{Route: e.route}, func(ctx context.Context) error {
		ed := e.editor()
		if err := forms.Load(path, ed.form); err != nil {
			return err
		}
		// the command line decides between create and update
		ed.setID(id)

		verb := "Created"
		if id != "" {
			verb = "Updated"
		}

		saved, err := ed.submit(ctx, a.client, func(ctx context.Context) error {
			fmt.Fprintf(a.out, "%s %s\n\n", verb, kind)
			return e.list(ctx, a, firstPage)
		})
		if err != nil {
			return a.formError(err)
		}
		if saved == "" {
			saved = id
		}

		log.Debug().Str("kind", kind).Str("id", saved).Msg("form saved")
		return nil
	})
}

// formError prints field errors under the form and returns a short error.
func (a *app) formError(err error) error {
	var verr *forms.ValidationError
	if !errors.As(err, &verr) {
		return err
	}

	if verr.Message != "" {
		fmt.Fprintln(a.out, verr.Message)
	}
	for _, field := range verr.Fields.Fields() {
		fmt.Fprintf(a.out, "  %s: %s\n", field, verr.Fields[field])
	}
	return errors.New("form has errors")
}

// firstPage is the list shown after a successful change.
var firstPage = query{Status: views.StatusAll, Page: 1, Limit: client.DefaultPageSize}

type DeleteCmd struct {
	Kind string `hidden:"" default:"${kind}"`
	ID   string `arg:"" help:"ID of the record to delete"`
}

func (d *DeleteCmd) Run(ctx context.Context, globals *Globals) error {
	return runAction(ctx, globals, d.Kind, func(ctx context.Context, actions *views.Actions) error {
		return actions.Delete(ctx, views.Kind(d.Kind), d.ID)
	})
}

type SetStatusCmd struct {
	Kind   string `hidden:"" default:"${kind}"`
	ID     string `arg:"" help:"ID of the record"`
	Status string `arg:"" help:"New status"`
}

func (s *SetStatusCmd) Run(ctx context.Context, globals *Globals) error {
	return runAction(ctx, globals, s.Kind, func(ctx context.Context, actions *views.Actions) error {
		return actions.ChangeStatus(ctx, views.Kind(s.Kind), s.ID, s.Status)
	})
}

// runAction runs a row action behind the section guard and prints the
// refreshed list once it succeeds.
func runAction(ctx context.Context, globals *Globals, kind string, do func(context.Context, *views.Actions) error) error {
	e, err := lookup(kind)
	if err != nil {
		return err
	}

	a, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	return a.guarded(ctx, guard.Guard{Route: e.route}, func(ctx context.Context) error {
		refresh := func(ctx context.Context) error {
			fmt.Fprintln(a.out)
			return e.list(ctx, a, firstPage)
		}

		actions := views.NewActions(a.client, a.confirm, refresh, a.printer)
		actions.OnLoading = func(on bool) {
			log.Debug().Bool("loading", on).Str("kind", kind).Msg("action")
		}

		err := do(ctx, actions)
		if errors.Is(err, views.ErrDeclined) {
			return nil
		}

		var actionErr *views.ActionError
		if errors.As(err, &actionErr) {
			fmt.Fprintln(a.out, actionErr.Message)
		}
		return err
	})
}

type RefundCmd struct {
	ID     string  `arg:"" help:"ID of the payment to refund"`
	Amount float64 `help:"Amount to refund, defaults to the full refundable amount"`
	Reason string  `help:"Reason recorded with the refund"`
}

func (r *RefundCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	return a.guarded(ctx, guard.Guard{Route: auth.RoutePayments}, func(ctx context.Context) error {
		payment, err := a.client.Payments().Get(ctx, r.ID)
		if err != nil {
			return fmt.Errorf("failed to get payment: %w", err)
		}

		available := payment.Refundable()
		if available <= 0 {
			fmt.Fprintf(a.out, "Payment %s has nothing left to refund.\n", r.ID)
			return errors.New("nothing to refund")
		}

		form := &forms.RefundForm{
			PaymentID: r.ID,
			Amount:    r.Amount,
			Reason:    r.Reason,
			Available: &available,
		}
		if form.Amount == 0 {
			form.Amount = available
		}

		ok, err := a.confirm(ctx, fmt.Sprintf("Refund %s of payment %s?", util.Money(form.Amount, payment.Currency), r.ID))
		if err != nil || !ok {
			return err
		}

		updated, err := form.Submit(ctx, a.client, func(ctx context.Context) error {
			fmt.Fprintln(a.out)
			return listPayments(ctx, a, firstPage)
		})
		if err != nil {
			return a.formError(err)
		}

		refunded := util.Money(form.Amount, payment.Currency)
		if updated == nil {
			fmt.Fprintf(a.out, "\nRefunded %s of payment %s\n", refunded, r.ID)
			return nil
		}
		fmt.Fprintf(a.out, "\nRefunded %s, payment %s is now %s\n", refunded, updated.ID, updated.Status)
		return nil
	})
}
