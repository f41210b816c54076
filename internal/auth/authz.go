package auth

import (
	"github.com/wolfeidau/mihotel/internal/models"
)

// Permission names a capability flag on models.Permissions.
type Permission string

const (
	PermManageProperties   Permission = "canManageProperties"
	PermManageUsers        Permission = "canManageUsers"
	PermManageReservations Permission = "canManageReservations"
	PermViewReports        Permission = "canViewReports"
)

// AllPermissions lists every known permission.
var AllPermissions = []Permission{
	PermManageProperties,
	PermManageUsers,
	PermManageReservations,
	PermViewReports,
}

// flag returns the value of the permission flag p in perms.
// Unknown permissions are never granted.
func (p Permission) flag(perms models.Permissions) bool {
	switch p {
	case PermManageProperties:
		return perms.CanManageProperties
	case PermManageUsers:
		return perms.CanManageUsers
	case PermManageReservations:
		return perms.CanManageReservations
	case PermViewReports:
		return perms.CanViewReports
	default:
		return false
	}
}

// authorize is the single authorization predicate. An absent user is never
// authorized, an admin always is, and everyone else is subject to check.
func authorize(user *models.User, check func(models.Permissions) bool) bool {
	if user == nil {
		return false
	}
	if user.Role == models.RoleAdmin {
		return true
	}
	return check(user.Permissions)
}

// HasPermission checks if the user holds a specific permission.
func HasPermission(user *models.User, perm Permission) bool {
	return authorize(user, perm.flag)
}

// HasAnyPermission checks if the user holds at least one of perms.
func HasAnyPermission(user *models.User, perms ...Permission) bool {
	return authorize(user, func(flags models.Permissions) bool {
		for _, p := range perms {
			if p.flag(flags) {
				return true
			}
		}
		return false
	})
}

// HasAllPermissions checks if the user holds every one of perms.
func HasAllPermissions(user *models.User, perms ...Permission) bool {
	return authorize(user, func(flags models.Permissions) bool {
		for _, p := range perms {
			if !p.flag(flags) {
				return false
			}
		}
		return true
	})
}

// CanAccessRoute checks if the user may navigate to route.
//
// Routes mapped to nil are open to any authenticated user, routes mapped to
// permissions require any one of them. Routes missing from RoutePermissions
// follow DefaultRoutePolicy.
func CanAccessRoute(user *models.User, route string) bool {
	return authorize(user, func(flags models.Permissions) bool {
		perms, ok := LookupRoute(route)
		if !ok {
			return DefaultRoutePolicy == PolicyAllow
		}
		if len(perms) == 0 {
			return true
		}
		for _, p := range perms {
			if p.flag(flags) {
				return true
			}
		}
		return false
	})
}

// AccessibleRoutes returns the mapped routes the user may navigate to, in
// navigation order.
func AccessibleRoutes(user *models.User) []string {
	var routes []string
	for _, route := range NavigationOrder {
		if CanAccessRoute(user, route) {
			routes = append(routes, route)
		}
	}
	return routes
}
