package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/mihotel/internal/client"
	"github.com/wolfeidau/mihotel/internal/guard"
)

// fakeAPI serves the endpoints used by the commands and records the
// mutations it receives.
type fakeAPI struct {
	t   *testing.T
	srv *httptest.Server

	mu       sync.Mutex
	requests []string
	bodies   map[string]map[string]any
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	f := &fakeAPI{t: t, bodies: map[string]map[string]any{}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		f.write(w, http.StatusOK, map[string]any{"success": true})
	})
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["email"] == "kiosk@mihotel.com" {
			f.write(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{
				"token":  "t2",
				"user":   nil,
				"tenant": map[string]any{"id": "tn1", "name": "Hotel Demo"},
			}})
			return
		}
		if body["email"] != "demo@mihotel.com" || body["password"] != "123456" {
			f.write(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Credenciales inválidas"})
			return
		}
		f.write(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"token": "t1",
				"user": map[string]any{
					"id":    "u1",
					"name":  "Demo",
					"email": "demo@mihotel.com",
					"role":  "staff",
					"permissions": map[string]bool{
						"canManageProperties":   true,
						"canManageReservations": true,
					},
				},
				"tenant": map[string]any{"id": "tn1", "name": "Hotel Demo", "type": "hotel", "plan": "basic"},
			},
		})
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		f.record(r, nil)
		f.write(w, http.StatusOK, map[string]any{"success": true})
	})
	mux.HandleFunc("GET /api/properties", func(w http.ResponseWriter, r *http.Request) {
		f.write(w, http.StatusOK, map[string]any{"success": true, "data": []map[string]any{
			{"id": "p1", "name": "Hotel Sol", "city": "Caracas", "status": "active", "roomsCount": 10, "availableRoomsCount": 4},
		}})
	})
	mux.HandleFunc("GET /api/rooms", func(w http.ResponseWriter, r *http.Request) {
		f.write(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"rooms": []map[string]any{
			{"id": "r1", "number": "101", "name": "Suite Mar", "type": "suite", "capacity": 2, "pricePerNight": 120, "status": "available"},
			{"id": "r2", "number": "102", "name": "Doble Jardín", "type": "double", "capacity": 2, "pricePerNight": 80, "status": "occupied"},
		}}})
	})
	mux.HandleFunc("POST /api/rooms", func(w http.ResponseWriter, r *http.Request) {
		f.record(r, r.Body)
		f.write(w, http.StatusCreated, map[string]any{"success": true, "data": map[string]any{"room": map[string]any{"id": "r9"}}})
	})
	mux.HandleFunc("PUT /api/rooms/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r, r.Body)
		f.write(w, http.StatusOK, map[string]any{"success": true, "message": "Habitación actualizada"})
	})
	mux.HandleFunc("DELETE /api/rooms/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r, nil)
		f.write(w, http.StatusOK, map[string]any{"success": true})
	})
	mux.HandleFunc("PATCH /api/rooms/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		f.record(r, r.Body)
		f.write(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"id": r.PathValue("id")}})
	})
	mux.HandleFunc("GET /api/reservations", func(w http.ResponseWriter, r *http.Request) {
		f.write(w, http.StatusOK, map[string]any{"success": true, "data": []map[string]any{
			{"id": "res1", "confirmationNumber": "MH-1", "guestName": "Ana Pérez", "status": "confirmed",
				"checkIn": "2025-03-10T15:00:00Z", "checkOut": "2025-03-12T12:00:00Z", "totalAmount": 240, "paidAmount": 100},
		}})
	})
	mux.HandleFunc("GET /api/guests", func(w http.ResponseWriter, r *http.Request) {
		f.write(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "guest service unavailable"})
	})
	mux.HandleFunc("GET /api/payments/{id}", func(w http.ResponseWriter, r *http.Request) {
		refunded := 20
		if r.PathValue("id") == "pay2" {
			refunded = 100
		}
		f.write(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"payment": map[string]any{
			"id": r.PathValue("id"), "amount": 100, "refundedAmount": refunded, "status": "partially_refunded",
		}}})
	})
	mux.HandleFunc("GET /api/payments", func(w http.ResponseWriter, r *http.Request) {
		f.write(w, http.StatusOK, map[string]any{"success": true, "data": []map[string]any{}})
	})
	mux.HandleFunc("POST /api/payments/{id}/refund", func(w http.ResponseWriter, r *http.Request) {
		f.record(r, r.Body)
		if r.PathValue("id") == "pay3" {
			f.write(w, http.StatusOK, map[string]any{"success": true, "message": "Reembolso registrado"})
			return
		}
		f.write(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{
			"id": r.PathValue("id"), "amount": 100, "refundedAmount": 100, "status": "refunded",
		}})
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) write(w http.ResponseWriter, status int, env map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(f.t, json.NewEncoder(w).Encode(env))
}

func (f *fakeAPI) record(r *http.Request, body io.Reader) {
	key := r.Method + " " + r.URL.Path

	var decoded map[string]any
	if body != nil {
		require.NoError(f.t, json.NewDecoder(body).Decode(&decoded))
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, key)
	f.bodies[key] = decoded
}

func (f *fakeAPI) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeAPI) Body(key string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[key]
}

// env is a command environment sharing one session directory.
type env struct {
	api        *fakeAPI
	sessionDir string
	out        bytes.Buffer
}

func newEnv(t *testing.T) *env {
	t.Helper()
	t.Setenv("MIHOTEL_LANG", "")
	t.Setenv("LANG", "")
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	return &env{api: newFakeAPI(t), sessionDir: t.TempDir()}
}

func (e *env) globals(input string) *Globals {
	e.out.Reset()
	return &Globals{
		APIURL:     e.api.srv.URL + "/api",
		SessionDir: e.sessionDir,
		Lang:       "en",
		Out:        &e.out,
		In:         strings.NewReader(input),
	}
}

func (e *env) login(t *testing.T) {
	t.Helper()
	cmd := &LoginCmd{Email: "demo@mihotel.com", Password: "123456"}
	require.NoError(t, cmd.Run(context.Background(), e.globals("")))
}

func TestLoginCmd_storesSession(t *testing.T) {
	e := newEnv(t)

	cmd := &LoginCmd{Email: "demo@mihotel.com", Password: "123456"}
	require.NoError(t, cmd.Run(context.Background(), e.globals("")))
	require.Equal(t, "Signed in as Demo (staff) at Hotel Demo\n", e.out.String())

	whoami := &WhoamiCmd{}
	require.NoError(t, whoami.Run(context.Background(), e.globals("")))

	out := e.out.String()
	require.Contains(t, out, "User:         Demo <demo@mihotel.com>")
	require.Contains(t, out, "Organization: Hotel Demo (hotel, basic plan)")
	require.Contains(t, out, "[x] canManageReservations")
	require.Contains(t, out, "[ ] canManageUsers")
	require.Contains(t, out, "Sections:     /dashboard /properties /rooms /reservations /guests /payments /settings")
}

func TestLoginCmd_prompts(t *testing.T) {
	e := newEnv(t)

	cmd := &LoginCmd{}
	require.NoError(t, cmd.Run(context.Background(), e.globals("demo@mihotel.com\n123456\n")))
	require.Contains(t, e.out.String(), "Email: Password: Signed in as Demo")
}

func TestLoginCmd_sessionWithoutUser(t *testing.T) {
	e := newEnv(t)

	cmd := &LoginCmd{Email: "kiosk@mihotel.com", Password: "123456"}
	require.NoError(t, cmd.Run(context.Background(), e.globals("")))
	require.Equal(t, "Signed in at Hotel Demo\n", e.out.String())
}

func TestLoginCmd_rejected(t *testing.T) {
	e := newEnv(t)

	cmd := &LoginCmd{Email: "demo@mihotel.com", Password: "wrong"}
	err := cmd.Run(context.Background(), e.globals(""))
	require.Error(t, err)
	require.Contains(t, e.out.String(), "Credenciales inválidas")

	whoami := &WhoamiCmd{}
	require.ErrorIs(t, whoami.Run(context.Background(), e.globals("")), client.ErrLoginRequired)
}

func TestLogoutCmd_clearsSession(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	cmd := &LogoutCmd{}
	require.NoError(t, cmd.Run(context.Background(), e.globals("")))
	require.Equal(t, "Signed out.\n", e.out.String())
	require.Equal(t, []string{"POST /api/auth/logout"}, e.api.Requests())

	list := &ListCmd{Kind: "room", Status: "all", Page: 1, Limit: 100}
	err := list.Run(context.Background(), e.globals(""))
	require.ErrorIs(t, err, client.ErrLoginRequired)
	require.Contains(t, e.out.String(), "You are not signed in. Run: mihotel login")
}

func TestListCmd_filtersRooms(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	cmd := &ListCmd{Kind: "room", Search: "SUITE", Status: "all", Page: 1, Limit: 100}
	require.NoError(t, cmd.Run(context.Background(), e.globals("")))

	out := e.out.String()
	require.Contains(t, out, "Rooms (search: SUITE, status: all, page: 1):")
	require.Contains(t, out, "Suite Mar")
	require.NotContains(t, out, "Doble Jardín")
	require.Contains(t, out, "Total: 1  Available: 1  Occupied: 0")
}

func TestListCmd_statusFilter(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	cmd := &ListCmd{Kind: "room", Status: "maintenance", Page: 1, Limit: 100}
	require.NoError(t, cmd.Run(context.Background(), e.globals("")))
	require.Contains(t, e.out.String(), "No rooms found.")
}

func TestListCmd_propertiesDeriveRoomCounts(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	cmd := &ListCmd{Kind: "property", Status: "all", Page: 1, Limit: 100}
	require.NoError(t, cmd.Run(context.Background(), e.globals("")))
	require.Contains(t, e.out.String(), "Total: 1  Rooms: 10  Available: 4  Occupancy: 60.0%")
}

func TestListCmd_accessDenied(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	cmd := &ListCmd{Kind: "user", Status: "all", Page: 1, Limit: 100}
	err := cmd.Run(context.Background(), e.globals(""))
	require.ErrorIs(t, err, guard.ErrAccessDenied)

	out := e.out.String()
	require.Contains(t, out, "Access denied")
	require.Contains(t, out, "You do not have permission to view /users.")
	require.Contains(t, out, "Go to dashboard: mihotel dashboard")
}

func TestListCmd_unknownKind(t *testing.T) {
	e := newEnv(t)
	cmd := &ListCmd{Kind: "invoice"}
	require.ErrorContains(t, cmd.Run(context.Background(), e.globals("")), `unknown entity kind "invoice"`)
}

func TestDeleteCmd_confirmed(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	cmd := &DeleteCmd{Kind: "room", ID: "r1"}
	require.NoError(t, cmd.Run(context.Background(), e.globals("y\n")))

	require.Equal(t, []string{"DELETE /api/rooms/r1"}, e.api.Requests())
	out := e.out.String()
	require.Contains(t, out, "Delete room r1? [y/N]: ")
	// the list is printed again once the action succeeded
	require.Contains(t, out, "Rooms (search: -, status: all, page: 1):")
}

func TestDeleteCmd_declined(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	cmd := &DeleteCmd{Kind: "room", ID: "r1"}
	require.NoError(t, cmd.Run(context.Background(), e.globals("n\n")))
	require.Empty(t, e.api.Requests())
	require.Contains(t, e.out.String(), "Aborted.")
}

func TestSetStatusCmd(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	cmd := &SetStatusCmd{Kind: "room", ID: "r2", Status: "cleaning"}
	g := e.globals("")
	g.Yes = true
	require.NoError(t, cmd.Run(context.Background(), g))

	require.Equal(t, []string{"PATCH /api/rooms/r2/status"}, e.api.Requests())
	require.Equal(t, map[string]any{"status": "cleaning"}, e.api.Body("PATCH /api/rooms/r2/status"))
}

func TestSetStatusCmd_invalidStatus(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	cmd := &SetStatusCmd{Kind: "room", ID: "r2", Status: "dirty"}
	err := cmd.Run(context.Background(), e.globals("y\n"))
	require.Error(t, err)
	require.Contains(t, e.out.String(), `Invalid status "dirty" for room.`)
	require.Empty(t, e.api.Requests())
}

func writeForm(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "form.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCreateCmd_room(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	path := writeForm(t, `
propertyId: p1
number: "201"
name: Suite Montaña
type: suite
capacity: 3
pricePerNight: 150
`)

	cmd := &CreateCmd{Kind: "room", File: path}
	require.NoError(t, cmd.Run(context.Background(), e.globals("")))

	require.Equal(t, []string{"POST /api/rooms"}, e.api.Requests())
	body := e.api.Body("POST /api/rooms")
	require.Equal(t, "201", body["number"])
	require.NotContains(t, body, "id")
	require.Contains(t, e.out.String(), "Created room")
}

func TestUpdateCmd_responseWithoutRecord(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	path := writeForm(t, `
propertyId: p1
number: "101"
name: Suite Mar Renovada
type: suite
capacity: 2
pricePerNight: 140
`)

	cmd := &UpdateCmd{Kind: "room", ID: "r1", File: path}
	require.NoError(t, cmd.Run(context.Background(), e.globals("")))

	require.Equal(t, []string{"PUT /api/rooms/r1"}, e.api.Requests())
	require.Equal(t, "Suite Mar Renovada", e.api.Body("PUT /api/rooms/r1")["name"])
	require.Contains(t, e.out.String(), "Updated room")
	require.Contains(t, e.out.String(), "Suite Mar")
}

func TestCreateCmd_validationErrors(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	path := writeForm(t, `
propertyId: p1
name: Suite
type: suite
capacity: 3
pricePerNight: 150
`)

	cmd := &CreateCmd{Kind: "room", File: path}
	err := cmd.Run(context.Background(), e.globals(""))
	require.EqualError(t, err, "form has errors")
	require.Contains(t, e.out.String(), "  number: is required")
	require.Empty(t, e.api.Requests())
}

func TestCreateCmd_unknownField(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	path := writeForm(t, "name: Sol\nstars: 5\n")

	cmd := &CreateCmd{Kind: "property", File: path}
	require.Error(t, cmd.Run(context.Background(), e.globals("")))
	require.Empty(t, e.api.Requests())
}

func TestCreateCmd_paymentsNotEditable(t *testing.T) {
	e := newEnv(t)
	cmd := &CreateCmd{Kind: "payment", File: "unused.yaml"}
	require.ErrorContains(t, cmd.Run(context.Background(), e.globals("")), "cannot be edited")
}

func TestRefundCmd_fullRefundable(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	cmd := &RefundCmd{ID: "pay1", Reason: "early checkout"}
	g := e.globals("")
	g.Yes = true
	require.NoError(t, cmd.Run(context.Background(), g))

	body := e.api.Body("POST /api/payments/pay1/refund")
	require.InDelta(t, 80, body["amount"], 0.001)
	require.Equal(t, "early checkout", body["reason"])
	require.Contains(t, e.out.String(), "Refunded 80.00, payment pay1 is now refunded")
}

func TestRefundCmd_exceedsRefundable(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	cmd := &RefundCmd{ID: "pay1", Amount: 90}
	g := e.globals("")
	g.Yes = true
	require.EqualError(t, cmd.Run(context.Background(), g), "form has errors")
	require.Contains(t, e.out.String(), "amount: exceeds the refundable amount of 80.00")
	require.Empty(t, e.api.Requests())
}

func TestRefundCmd_responseWithoutPayment(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	cmd := &RefundCmd{ID: "pay3"}
	g := e.globals("")
	g.Yes = true
	require.NoError(t, cmd.Run(context.Background(), g))

	require.Equal(t, []string{"POST /api/payments/pay3/refund"}, e.api.Requests())
	require.Contains(t, e.out.String(), "Refunded 80.00 of payment pay3\n")
}

func TestRefundCmd_nothingLeftToRefund(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	cmd := &RefundCmd{ID: "pay2", Amount: 50}
	g := e.globals("")
	g.Yes = true
	require.EqualError(t, cmd.Run(context.Background(), g), "nothing to refund")
	require.Contains(t, e.out.String(), "Payment pay2 has nothing left to refund.")
	require.Empty(t, e.api.Requests())
}

func TestDashboardCmd_partialFailure(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	cmd := &DashboardCmd{}
	require.NoError(t, cmd.Run(context.Background(), e.globals("")))

	out := e.out.String()
	require.Contains(t, out, "Welcome, Demo (Hotel Demo)")
	require.Contains(t, out, "rooms 10, available 4, occupancy 60.0%")
	require.Contains(t, out, "MH-1")
	require.Contains(t, out, "Some data could not be loaded:")
	require.Contains(t, out, "guest service unavailable")
}

func TestDashboardCmd_signedOut(t *testing.T) {
	e := newEnv(t)

	cmd := &DashboardCmd{}
	require.ErrorIs(t, cmd.Run(context.Background(), e.globals("")), client.ErrLoginRequired)
}

func TestStatusCmd(t *testing.T) {
	e := newEnv(t)

	cmd := &StatusCmd{}
	require.NoError(t, cmd.Run(context.Background(), e.globals("")))
	require.Contains(t, e.out.String(), "is reachable")
	require.Contains(t, e.out.String(), "Not signed in")
}

func TestRoutesCmd(t *testing.T) {
	e := newEnv(t)

	cmd := &RoutesCmd{}
	require.NoError(t, cmd.Run(context.Background(), e.globals("")))
	require.Contains(t, e.out.String(), "Sign in to see which sections you can open.")

	e.login(t)
	require.NoError(t, cmd.Run(context.Background(), e.globals("")))

	out := e.out.String()
	require.Contains(t, out, "rooms           yes      canManageProperties")
	require.Contains(t, out, "users           no       canManageUsers")
	require.Contains(t, out, "payments        yes      canManageReservations or canViewReports")
}
