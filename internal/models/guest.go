package models

import "time"

// Guest is a person who has stayed, or will stay, at a tenant's property.
type Guest struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	DocumentType   string    `json:"documentType,omitempty"`
	DocumentNumber string    `json:"documentNumber,omitempty"`
	Nationality    string    `json:"nationality,omitempty"`
	TotalStays     int       `json:"totalStays"`
	TotalSpent     float64   `json:"totalSpent"`
	IsVIP          bool      `json:"isVip"`
	CreatedAt      time.Time `json:"createdAt,omitzero"`
}

// FullName joins the guest's first and last names.
func (g *Guest) FullName() string {
	switch {
	case g.FirstName == "":
		return g.LastName
	case g.LastName == "":
		return g.FirstName
	}
	return g.FirstName + " " + g.LastName
}
