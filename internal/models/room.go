package models

import "time"

// RoomStatus is the housekeeping state of a room.
type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "available"
	RoomStatusOccupied    RoomStatus = "occupied"
	RoomStatusCleaning    RoomStatus = "cleaning"
	RoomStatusMaintenance RoomStatus = "maintenance"
)

// RoomStatuses lists every room status in display order.
var RoomStatuses = []RoomStatus{
	RoomStatusAvailable,
	RoomStatusOccupied,
	RoomStatusCleaning,
	RoomStatusMaintenance,
}

// Room is a bookable unit within a property.
type Room struct {
	ID            string     `json:"id"`
	PropertyID    string     `json:"propertyId"`
	PropertyName  string     `json:"propertyName,omitempty"`
	Number        string     `json:"number"`
	Name          string     `json:"name"`
	Type          string     `json:"type"`
	Floor         int        `json:"floor,omitempty"`
	Capacity      int        `json:"capacity"`
	PricePerNight float64    `json:"pricePerNight"`
	Status        RoomStatus `json:"status"`
	Amenities     []string   `json:"amenities,omitempty"`
	CreatedAt     time.Time  `json:"createdAt,omitzero"`
	UpdatedAt     time.Time  `json:"updatedAt,omitzero"`
}
