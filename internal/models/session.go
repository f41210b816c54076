package models

// Session is the authenticated state held by the client.
// An empty Token means there is no session, whatever User and Tenant hold.
type Session struct {
	Token  string
	User   *User
	Tenant *Tenant
}

// IsAuthenticated returns true if the session carries a token.
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}
