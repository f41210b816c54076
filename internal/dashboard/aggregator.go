package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/mihotel/internal/auth"
	"github.com/wolfeidau/mihotel/internal/client"
	"github.com/wolfeidau/mihotel/internal/models"
	"github.com/wolfeidau/mihotel/internal/session"
	"github.com/wolfeidau/mihotel/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// PageSize is the number of records requested per collection refresh.
const PageSize = client.MaxPageSize

// ErrClosed is returned by refreshes started after Close.
var ErrClosed = errors.New("dashboard closed")

// Lister fetches one page of a collection.
type Lister[T any] interface {
	List(ctx context.Context, opts client.ListOptions) ([]T, error)
}

// Sources are the collection endpoints the aggregator reads from.
type Sources struct {
	Properties   Lister[models.Property]
	Reservations Lister[models.Reservation]
	Rooms        Lister[models.Room]
	Guests       Lister[models.Guest]
}

// SourcesFromClient binds Sources to the API client endpoints.
func SourcesFromClient(c *client.Client) Sources {
	return Sources{
		Properties:   c.Properties(),
		Reservations: c.Reservations(),
		Rooms:        c.Rooms(),
		Guests:       c.Guests(),
	}
}

// Listener is notified whenever the status of a collection changes.
type Listener func(Collection, Status)

// Aggregator loads the dashboard collections for the current tenant.
//
// Each collection is refreshed independently: a failure is recorded in that
// collection's Status and leaves the other collections and the previously
// loaded data untouched. Concurrent refreshes of one collection share a
// single request. Close cancels everything in flight.
type Aggregator struct {
	sessions *session.Store
	nav      client.Navigator
	src      Sources
	metrics  *telemetry.Metrics

	ctx    context.Context
	cancel context.CancelFunc
	group  singleflight.Group

	mu           sync.RWMutex
	refreshing   int
	user         *models.User
	tenant       *models.Tenant
	properties   []models.Property
	reservations []models.Reservation
	rooms        []models.Room
	guests       []models.Guest
	status       map[Collection]Status
	listeners    []Listener
}

// New creates an aggregator. nav receives the login redirect when RefreshAll
// runs without a session and may be nil.
func New(sessions *session.Store, src Sources, nav client.Navigator) *Aggregator {
	ctx, cancel := context.WithCancel(context.Background())

	status := make(map[Collection]Status, len(Collections))
	for _, c := range Collections {
		status[c] = Status{}
	}

	return &Aggregator{
		sessions:     sessions,
		nav:          nav,
		src:          src,
		metrics:      telemetry.GetMetrics(),
		ctx:          ctx,
		cancel:       cancel,
		properties:   []models.Property{},
		reservations: []models.Reservation{},
		rooms:        []models.Room{},
		guests:       []models.Guest{},
		status:       status,
	}
}

// Close cancels in-flight refreshes. Later refreshes fail with ErrClosed.
func (a *Aggregator) Close() {
	a.cancel()
}

// OnChange registers fn to be called after every status change.
func (a *Aggregator) OnChange(fn Listener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// RefreshAll reloads every collection concurrently and waits for all of them
// to settle. Without a session it redirects to login and sends no requests.
func (a *Aggregator) RefreshAll(ctx context.Context) error {
	if !a.sessions.IsAuthenticated() {
		log.Debug().Msg("no session, redirecting to login")
		if a.nav == nil {
			return client.ErrLoginRequired
		}
		return a.nav.Redirect(auth.RouteLogin)
	}

	a.mu.Lock()
	a.user = a.sessions.User()
	a.tenant = a.sessions.Tenant()
	a.refreshing++
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.refreshing--
		a.mu.Unlock()
	}()

	refreshes := []func(context.Context) error{
		a.RefreshProperties,
		a.RefreshReservations,
		a.RefreshRooms,
		a.RefreshGuests,
	}

	// a failed collection must not cancel its siblings, so no shared context
	var g errgroup.Group
	errs := make([]error, len(refreshes))
	for i, refresh := range refreshes {
		g.Go(func() error {
			errs[i] = refresh(ctx)
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// RefreshProperties reloads properties and derives their room counts.
func (a *Aggregator) RefreshProperties(ctx context.Context) error {
	return refresh(ctx, a, CollectionProperties, a.src.Properties, func(items []models.Property) {
		for i := range items {
			items[i].DeriveRoomCounts()
		}
		a.properties = items
	})
}

// RefreshReservations reloads reservations.
func (a *Aggregator) RefreshReservations(ctx context.Context) error {
	return refresh(ctx, a, CollectionReservations, a.src.Reservations, func(items []models.Reservation) {
		a.reservations = items
	})
}

// RefreshRooms reloads rooms.
func (a *Aggregator) RefreshRooms(ctx context.Context) error {
	return refresh(ctx, a, CollectionRooms, a.src.Rooms, func(items []models.Room) {
		a.rooms = items
	})
}

// RefreshGuests reloads guests.
func (a *Aggregator) RefreshGuests(ctx context.Context) error {
	return refresh(ctx, a, CollectionGuests, a.src.Guests, func(items []models.Guest) {
		a.guests = items
	})
}

// refresh loads one collection through the singleflight group. The load runs
// under the aggregator's context so a caller giving up does not cancel it for
// the other callers sharing it.
func refresh[T any](ctx context.Context, a *Aggregator, c Collection, src Lister[T], store func([]T)) error {
	if a.ctx.Err() != nil {
		return ErrClosed
	}
	if src == nil {
		return fmt.Errorf("no source configured for %s", c)
	}

	ch := a.group.DoChan(string(c), func() (any, error) {
		return nil, load(a, c, src, store)
	})

	select {
	case res := <-ch:
		if res.Shared {
			a.metrics.RefreshCoalesced.Add(ctx, 1, collectionAttr(c))
		}
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	case <-a.ctx.Done():
		return ErrClosed
	}
}

func load[T any](a *Aggregator, c Collection, src Lister[T], store func([]T)) error {
	ctx := a.ctx
	attrs := collectionAttr(c)

	prev := a.setStatus(c, Status{State: StateLoading})

	a.metrics.RefreshTotal.Add(ctx, 1, attrs)
	a.metrics.RefreshInflight.Add(ctx, 1, attrs)
	started := time.Now()
	defer func() {
		a.metrics.RefreshInflight.Add(context.Background(), -1, attrs)
		a.metrics.RefreshDuration.Record(context.Background(), float64(time.Since(started).Milliseconds()), attrs)
	}()

	items, err := src.List(ctx, client.ListOptions{Limit: PageSize})
	if err != nil {
		if ctx.Err() != nil {
			a.setStatus(c, prev)
			return ErrClosed
		}

		a.metrics.RefreshErrorsTotal.Add(ctx, 1, attrs)
		log.Warn().Err(err).Str("collection", string(c)).Msg("refresh failed")

		a.setStatus(c, Status{State: StateFailed, Err: err})
		return fmt.Errorf("failed to load %s: %w", c, err)
	}

	if items == nil {
		items = []T{}
	}
	a.metrics.RecordsLoaded.Record(ctx, int64(len(items)), attrs)

	a.mu.Lock()
	store(items)
	a.mu.Unlock()

	a.setStatus(c, Status{State: StateReady})
	return nil
}

// setStatus records s for c, notifies listeners and returns the prior status.
func (a *Aggregator) setStatus(c Collection, s Status) Status {
	a.mu.Lock()
	prev := a.status[c]
	a.status[c] = s
	listeners := slices.Clone(a.listeners)
	a.mu.Unlock()

	for _, fn := range listeners {
		fn(c, s)
	}
	return prev
}

// Status returns the load status of collection c.
func (a *Aggregator) Status(c Collection) Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status[c]
}

// IsLoading returns true while RefreshAll or any collection refresh is running.
func (a *Aggregator) IsLoading() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.refreshing > 0 {
		return true
	}
	for _, s := range a.status {
		if s.State == StateLoading {
			return true
		}
	}
	return false
}

// Err returns the failure of the first failed collection, in Collections
// order, or nil.
func (a *Aggregator) Err() error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, c := range Collections {
		if s := a.status[c]; s.State == StateFailed {
			return s.Err
		}
	}
	return nil
}

// User returns the user captured by the last RefreshAll.
func (a *Aggregator) User() *models.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return nil
	}
	u := *a.user
	return &u
}

// Tenant returns the tenant captured by the last RefreshAll.
func (a *Aggregator) Tenant() *models.Tenant {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.tenant == nil {
		return nil
	}
	t := *a.tenant
	return &t
}

// Properties returns a copy of the loaded properties.
func (a *Aggregator) Properties() []models.Property {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.properties)
}

// Reservations returns a copy of the loaded reservations.
func (a *Aggregator) Reservations() []models.Reservation {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.reservations)
}

// Rooms returns a copy of the loaded rooms.
func (a *Aggregator) Rooms() []models.Room {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.rooms)
}

// Guests returns a copy of the loaded guests.
func (a *Aggregator) Guests() []models.Guest {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.guests)
}

func collectionAttr(c Collection) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("collection", string(c)))
}
