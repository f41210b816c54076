package models

import "time"

// Property is a lodging establishment managed by a tenant.
//
// RoomsCount and AvailableRoomsCount are reported by the backend; the Total,
// Available and Occupied room fields are derived on the client by
// DeriveRoomCounts.
type Property struct {
	ID                  string    `json:"id"`
	TenantID            string    `json:"tenantId,omitempty"`
	Name                string    `json:"name"`
	Description         string    `json:"description,omitempty"`
	Address             string    `json:"address,omitempty"`
	City                string    `json:"city,omitempty"`
	Country             string    `json:"country,omitempty"`
	Phone               string    `json:"phone,omitempty"`
	Email               string    `json:"email,omitempty"`
	Status              string    `json:"status,omitempty"`
	RoomsCount          int       `json:"roomsCount"`
	AvailableRoomsCount int       `json:"availableRoomsCount"`
	CreatedAt           time.Time `json:"createdAt,omitzero"`
	UpdatedAt           time.Time `json:"updatedAt,omitzero"`

	TotalRooms     int `json:"-"`
	AvailableRooms int `json:"-"`
	OccupiedRooms  int `json:"-"`
}

// DeriveRoomCounts fills the derived room fields from the backend counters.
func (p *Property) DeriveRoomCounts() {
	p.TotalRooms = p.RoomsCount
	p.AvailableRooms = p.AvailableRoomsCount
	p.OccupiedRooms = p.TotalRooms - p.AvailableRooms
}
