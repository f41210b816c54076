package models

// Role is the coarse role assigned to a user within a tenant.
type Role string

const (
	RoleAdmin    Role = "admin"    // Full access, overrides permission flags
	RoleStaff    Role = "staff"    // Front desk staff
	RoleCleaning Role = "cleaning" // Housekeeping
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleCleaning:
		return true
	}
	return false
}

// Permissions holds the capability flags assigned to a non-admin user.
type Permissions struct {
	CanManageProperties   bool `json:"canManageProperties" yaml:"canManageProperties"`
	CanManageUsers        bool `json:"canManageUsers" yaml:"canManageUsers"`
	CanManageReservations bool `json:"canManageReservations" yaml:"canManageReservations"`
	CanViewReports        bool `json:"canViewReports" yaml:"canViewReports"`
}

// Profile is the optional personal information attached to a user.
type Profile struct {
	Phone    string `json:"phone,omitempty" yaml:"phone"`
	Avatar   string `json:"avatar,omitempty" yaml:"avatar"`
	Language string `json:"language,omitempty" yaml:"language"`
	Timezone string `json:"timezone,omitempty" yaml:"timezone"`
}

// User is an operator account belonging to exactly one tenant.
type User struct {
	ID          string      `json:"id"`
	TenantID    string      `json:"tenantId"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        Role        `json:"role"`
	Permissions Permissions `json:"permissions"`
	Profile     Profile     `json:"profile"`
	IsActive    bool        `json:"isActive"`
}

// IsAdmin returns true if the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
