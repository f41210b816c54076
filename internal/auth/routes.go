package auth

import "strings"

// Navigation routes.
const (
	RouteLogin        = "/login"
	RouteDashboard    = "/dashboard"
	RouteProperties   = "/properties"
	RouteRooms        = "/rooms"
	RouteReservations = "/reservations"
	RouteGuests       = "/guests"
	RoutePayments     = "/payments"
	RouteReports      = "/reports"
	RouteUsers        = "/users"
	RouteSettings     = "/settings"
)

// RoutePolicy decides access to routes that have no entry in RoutePermissions.
type RoutePolicy int

const (
	PolicyAllow RoutePolicy = iota
	PolicyDeny
)

// DefaultRoutePolicy applies to unmapped routes. Navigation fails open; the
// backend enforces authorization on every request regardless.
const DefaultRoutePolicy = PolicyAllow

// RoutePermissions maps routes to the permissions that grant access to them.
// A nil entry opens the route to every authenticated user; a list grants
// access if the user holds any one of its permissions.
var RoutePermissions = map[string][]Permission{
	RouteDashboard:    nil,
	RouteProperties:   {PermManageProperties},
	RouteRooms:        {PermManageProperties},
	RouteReservations: {PermManageReservations},
	RouteGuests:       {PermManageReservations},
	RoutePayments:     {PermManageReservations, PermViewReports},
	RouteReports:      {PermViewReports},
	RouteUsers:        {PermManageUsers},
	RouteSettings:     nil,
}

// NavigationOrder is the order routes appear in navigation menus.
var NavigationOrder = []string{
	RouteDashboard,
	RouteProperties,
	RouteRooms,
	RouteReservations,
	RouteGuests,
	RoutePayments,
	RouteReports,
	RouteUsers,
	RouteSettings,
}

// LookupRoute returns the permissions mapped to route. Sub-paths resolve to
// their top level route, so "/rooms/42/edit" resolves as "/rooms".
func LookupRoute(route string) ([]Permission, bool) {
	perms, ok := RoutePermissions[normalizeRoute(route)]
	return perms, ok
}

func normalizeRoute(route string) string {
	route = strings.TrimSpace(route)
	if before, _, ok := strings.Cut(route, "?"); ok {
		route = before
	}
	route = strings.Trim(route, "/")
	if first, _, ok := strings.Cut(route, "/"); ok {
		route = first
	}
	return "/" + route
}
