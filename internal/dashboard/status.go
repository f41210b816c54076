package dashboard

// Collection names a dashboard collection.
type Collection string

const (
	CollectionProperties   Collection = "properties"
	CollectionReservations Collection = "reservations"
	CollectionRooms        Collection = "rooms"
	CollectionGuests       Collection = "guests"
)

// Collections lists every collection in the order failures are reported.
var Collections = []Collection{
	CollectionProperties,
	CollectionReservations,
	CollectionRooms,
	CollectionGuests,
}

// State is the load state of a collection.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "idle"
}

// Status is the load status of a collection. Err is set only when State is
// StateFailed.
type Status struct {
	State State
	Err   error
}

// Reason returns the failure message, or "" if the collection has not failed.
func (s Status) Reason() string {
	if s.State != StateFailed || s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

func (s Status) String() string {
	if r := s.Reason(); r != "" {
		return s.State.String() + ": " + r
	}
	return s.State.String()
}
