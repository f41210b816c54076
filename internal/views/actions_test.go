package views

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/mihotel/internal/client"
)

type fakeMutator struct {
	deleted  []string
	statuses map[string]string
	err      error
}

func (f *fakeMutator) Delete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeMutator) UpdateStatus(_ context.Context, id, status string) error {
	if f.err != nil {
		return f.err
	}
	if f.statuses == nil {
		f.statuses = map[string]string{}
	}
	f.statuses[id] = status
	return nil
}

type actionsHarness struct {
	actions   *Actions
	target    *fakeMutator
	prompts   []string
	refreshes int
	loading   []bool
}

func newHarness(lang string, confirm bool) *actionsHarness {
	h := &actionsHarness{target: &fakeMutator{}}
	h.actions = &Actions{
		Targets: map[Kind]Mutator{KindRoom: h.target, KindGuest: h.target, KindPayment: h.target},
		Confirm: func(_ context.Context, prompt string) (bool, error) {
			h.prompts = append(h.prompts, prompt)
			return confirm, nil
		},
		Refresh: func(context.Context) error {
			h.refreshes++
			return nil
		},
		Printer:   NewPrinter(lang),
		OnLoading: func(on bool) { h.loading = append(h.loading, on) },
	}
	return h
}

func TestActions_deleteConfirmedRefreshes(t *testing.T) {
	h := newHarness("en", true)

	require.NoError(t, h.actions.Delete(context.Background(), KindRoom, "r1"))
	require.Equal(t, []string{"r1"}, h.target.deleted)
	require.Equal(t, []string{"Delete room r1?"}, h.prompts)
	require.Equal(t, 1, h.refreshes)
	require.Equal(t, []bool{true, false}, h.loading)
	require.False(t, h.actions.Busy())
}

func TestActions_declinedSendsNothing(t *testing.T) {
	h := newHarness("en", false)

	err := h.actions.Delete(context.Background(), KindGuest, "g1")
	require.ErrorIs(t, err, ErrDeclined)
	require.Empty(t, h.target.deleted)
	require.Zero(t, h.refreshes)
	require.Empty(t, h.loading)
}

func TestActions_changeStatus(t *testing.T) {
	h := newHarness("es", true)

	require.NoError(t, h.actions.ChangeStatus(context.Background(), KindRoom, "r1", "cleaning"))
	require.Equal(t, "cleaning", h.target.statuses["r1"])
	require.Equal(t, []string{"¿Cambiar el estado de habitación r1 a cleaning?"}, h.prompts)
	require.Equal(t, 1, h.refreshes)
}

func TestActions_changeStatusRejectedLocally(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		status string
		want   string
	}{
		{name: "unknown status", kind: KindRoom, status: "flooded", want: `Invalid status "flooded" for room.`},
		{name: "unsupported kind", kind: KindGuest, status: "active", want: "The status of a guest cannot be changed."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness("en", true)

			err := h.actions.ChangeStatus(context.Background(), tt.kind, "x1", tt.status)

			var actionErr *ActionError
			require.ErrorAs(t, err, &actionErr)
			require.Equal(t, tt.want, actionErr.Message)
			require.Empty(t, h.prompts)
			require.Empty(t, h.target.statuses)
		})
	}
}

func TestActions_failureMessages(t *testing.T) {
	tests := []struct {
		name string
		lang string
		err  error
		want string
	}{
		{
			name: "business rule verbatim",
			lang: "es",
			err:  &client.APIError{Status: 409, Message: "La habitación tiene reservas activas"},
			want: "La habitación tiene reservas activas",
		},
		{
			name: "connection english",
			lang: "en",
			err:  fmt.Errorf("%w: dial tcp: refused", client.ErrConnection),
			want: "Unable to connect to the server. Check your connection and try again.",
		},
		{
			name: "connection spanish",
			lang: "es-VE",
			err:  fmt.Errorf("%w: dial tcp: refused", client.ErrConnection),
			want: "No se pudo conectar con el servidor. Verifique su conexión e intente de nuevo.",
		},
		{
			name: "generic spanish",
			lang: "es",
			err:  &client.APIError{Status: 500},
			want: "No se pudo eliminar habitación r1.",
		},
		{
			name: "unsupported language falls back to english",
			lang: "fr",
			err:  errors.New("boom"),
			want: "Could not delete room r1.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(tt.lang, true)
			h.target.err = tt.err

			err := h.actions.Delete(context.Background(), KindRoom, "r1")

			var actionErr *ActionError
			require.ErrorAs(t, err, &actionErr)
			require.Equal(t, tt.want, actionErr.Message)
			require.ErrorIs(t, err, tt.err)
			require.Zero(t, h.refreshes)
			require.Equal(t, []bool{true, false}, h.loading)
		})
	}
}

func TestActions_unauthorizedPassesThrough(t *testing.T) {
	h := newHarness("en", true)
	h.target.err = client.ErrUnauthorized

	err := h.actions.Delete(context.Background(), KindRoom, "r1")
	require.ErrorIs(t, err, client.ErrUnauthorized)

	var actionErr *ActionError
	require.False(t, errors.As(err, &actionErr))
}

func TestActions_busyBlocksResubmission(t *testing.T) {
	h := newHarness("en", true)
	h.actions.busy.Store(true)

	require.ErrorIs(t, h.actions.Delete(context.Background(), KindRoom, "r1"), ErrBusy)
	require.Empty(t, h.target.deleted)
}

func TestNewPrinter(t *testing.T) {
	require.Equal(t, "Acceso denegado", NewPrinter("es").Sprintf(MsgAccessDenied))
	require.Equal(t, "Access denied", NewPrinter("not a tag!").Sprintf(MsgAccessDenied))
	require.Equal(t, "Access denied", NewPrinter("").Sprintf(MsgAccessDenied))
}
