package forms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/mihotel/internal/client"
	"github.com/wolfeidau/mihotel/internal/models"
	"github.com/wolfeidau/mihotel/internal/session"
)

func validRoom() RoomForm {
	return RoomForm{
		PropertyID:    "p1",
		Number:        "101",
		Name:          "Suite",
		Type:          "suite",
		Capacity:      2,
		PricePerNight: 120,
	}
}

func TestRoomForm_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *RoomForm)
		want   FieldErrors
	}{
		{name: "valid", mutate: func(f *RoomForm) {}, want: nil},
		{
			name:   "missing number",
			mutate: func(f *RoomForm) { f.Number = "" },
			want:   FieldErrors{"number": "is required"},
		},
		{
			name:   "capacity too large",
			mutate: func(f *RoomForm) { f.Capacity = 50 },
			want:   FieldErrors{"capacity": "must be at most 20"},
		},
		{
			name:   "unknown status",
			mutate: func(f *RoomForm) { f.Status = "flooded" },
			want:   FieldErrors{"status": "must be one of: available, occupied, cleaning, maintenance"},
		},
		{
			name:   "negative price",
			mutate: func(f *RoomForm) { f.PricePerNight = -1 },
			want:   FieldErrors{"pricePerNight": "must be greater than 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validRoom()
			tt.mutate(&f)
			require.Equal(t, tt.want, f.Validate())
		})
	}
}

func TestReservationForm_checkOutAfterCheckIn(t *testing.T) {
	checkIn := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	f := ReservationForm{
		PropertyID: "p1",
		RoomID:     "r1",
		GuestID:    "g1",
		CheckIn:    checkIn,
		CheckOut:   checkIn,
		Adults:     2,
	}
	require.Equal(t, FieldErrors{"checkOut": "must be after checkIn"}, f.Validate())

	f.CheckOut = checkIn.AddDate(0, 0, 3)
	require.Empty(t, f.Validate())
}

func TestGuestForm_Validate(t *testing.T) {
	f := GuestForm{FirstName: "Ana", LastName: "Pérez", Email: "not-an-email", DocumentType: "passport"}

	errs := f.Validate()
	require.Equal(t, "must be a valid email address", errs["email"])
	require.Equal(t, "is required", errs["documentNumber"])
}

func TestUserForm_passwordRequiredOnCreate(t *testing.T) {
	f := UserForm{Name: "Luis", Email: "luis@example.com", Role: models.RoleStaff}
	require.Equal(t, FieldErrors{"password": "is required"}, f.Validate())

	f.ID = "u1"
	require.Empty(t, f.Validate())

	f.Password = "123"
	require.Equal(t, FieldErrors{"password": "must be at least 6 characters"}, f.Validate())

	f.Password = "123456"
	f.Role = "owner"
	require.Equal(t, FieldErrors{"role": "must be one of: admin, staff, cleaning"}, f.Validate())
}

func amount(v float64) *float64 { return &v }

func TestRefundForm_boundedByAvailable(t *testing.T) {
	f := RefundForm{PaymentID: "pay1", Amount: 150, Available: amount(100)}
	require.Equal(t, FieldErrors{"amount": "exceeds the refundable amount of 100.00"}, f.Validate())

	f.Amount = 100
	require.Empty(t, f.Validate())

	f.Amount = 0
	require.Equal(t, FieldErrors{"amount": "is required"}, f.Validate())
}

func TestRefundForm_fullyRefunded(t *testing.T) {
	f := RefundForm{PaymentID: "pay1", Amount: 50, Available: amount(0)}
	require.Equal(t, FieldErrors{"amount": "nothing left to refund"}, f.Validate())

	f.Available = nil
	require.Empty(t, f.Validate())
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Fields: FieldErrors{"name": "is required", "city": "is required"}}
	require.Equal(t, "validation failed: city is required; name is required", err.Error())
}

func newTestClient(t *testing.T, handler http.Handler) *client.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewStore(session.NewMemoryStorage())
	require.NoError(t, store.Init())
	require.NoError(t, store.SetSession("t1", &models.User{ID: "u1", Role: models.RoleAdmin}, &models.Tenant{ID: "tn1"}))

	c, err := client.New(client.Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, store, nil)
	require.NoError(t, err)
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestSubmit_createThenRefresh(t *testing.T) {
	var got map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /rooms", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(t, w, http.StatusCreated, map[string]any{
			"success": true,
			"data":    map[string]any{"room": map[string]any{"id": "r9", "number": "101"}},
		})
	})

	c := newTestClient(t, mux)

	refreshed := 0
	f := validRoom()
	room, err := f.Submit(context.Background(), c, func(context.Context) error {
		refreshed++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, "r9", room.ID)
	require.Equal(t, 1, refreshed)

	require.Equal(t, "101", got["number"])
	require.NotContains(t, got, "ID")
	require.NotContains(t, got, "id")
}

func TestSubmit_updateUsesPut(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /guests/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"id": r.PathValue("id"), "firstName": "Ana"},
		})
	})

	c := newTestClient(t, mux)

	f := GuestForm{ID: "g1", FirstName: "Ana", LastName: "Pérez"}
	guest, err := f.Submit(context.Background(), c, nil)
	require.NoError(t, err)
	require.Equal(t, "g1", guest.ID)
}

func TestSubmit_invalidFormSendsNothing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})

	c := newTestClient(t, mux)

	f := PropertyForm{Name: "Hotel Sol"}
	_, err := f.Submit(context.Background(), c, nil)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, []string{"address", "city"}, verr.Fields.Fields())
}

func TestSubmit_serverFieldErrorsMerged(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Validation failed",
			"errors": []map[string]string{
				{"field": "email", "message": "Email already in use"},
			},
		})
	})

	c := newTestClient(t, mux)

	f := UserForm{Name: "Luis", Email: "luis@example.com", Password: "secret1", Role: models.RoleStaff}
	refreshed := false
	_, err := f.Submit(context.Background(), c, func(context.Context) error {
		refreshed = true
		return nil
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, FieldErrors{"email": "Email already in use"}, verr.Fields)
	require.Equal(t, "Validation failed", verr.Message)
	require.False(t, refreshed)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
}

func TestSubmit_businessRuleVerbatim(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /payments/{id}/refund", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "El monto del reembolso excede el monto disponible",
		})
	})

	c := newTestClient(t, mux)

	f := RefundForm{PaymentID: "pay1", Amount: 10}
	_, err := f.Submit(context.Background(), c, nil)
	require.EqualError(t, err, "El monto del reembolso excede el monto disponible")
}

func TestSubmit_refreshFailureDoesNotFailSubmit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /properties", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusCreated, map[string]any{"success": true, "data": map[string]any{"id": "p1"}})
	})

	c := newTestClient(t, mux)

	f := PropertyForm{Name: "Hotel Sol", Address: "Av. 1", City: "Mérida"}
	prop, err := f.Submit(context.Background(), c, func(context.Context) error {
		return errors.New("refresh failed")
	})
	require.NoError(t, err)
	require.Equal(t, "p1", prop.ID)
}

func TestDecode(t *testing.T) {
	src := `
propertyId: p1
roomId: r1
guestId: g1
checkIn: 2025-03-10
checkOut: 2025-03-13
adults: 2
notes: late arrival
`
	var f ReservationForm
	require.NoError(t, Decode(strings.NewReader(src), &f))
	require.Equal(t, "r1", f.RoomID)
	require.Equal(t, time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC), f.CheckOut)
	require.Empty(t, f.Validate())
}

func TestDecode_rejectsUnknownAndEmpty(t *testing.T) {
	var f GuestForm
	require.Error(t, Decode(strings.NewReader("firstName: Ana\nnickname: A\n"), &f))
	require.EqualError(t, Decode(strings.NewReader(""), &f), "form is empty")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: Luis
email: luis@example.com
password: secret1
role: staff
permissions:
  canManageReservations: true
`), 0o600))

	var f UserForm
	require.NoError(t, Load(path, &f))
	require.True(t, f.Permissions.CanManageReservations)
	require.False(t, f.Permissions.CanManageProperties)
	require.Empty(t, f.Validate())

	require.Error(t, Load(filepath.Join(t.TempDir(), "missing.yaml"), &f))
}
