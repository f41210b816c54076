package models

// TenantType describes the kind of lodging business a tenant runs.
type TenantType string

const (
	TenantTypeHotel  TenantType = "hotel"
	TenantTypeAirbnb TenantType = "airbnb"
	TenantTypePosada TenantType = "posada"
)

// Tenant is an isolated customer account. All entity queries are scoped to
// the tenant encoded in the session token.
type Tenant struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Type     TenantType     `json:"type"`
	Plan     string         `json:"plan"`
	Settings map[string]any `json:"settings,omitempty"`
}
