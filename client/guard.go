package client

import (
	"github.com/trezcool/shule/core/user"
)

// Decision is the route guard's verdict for a navigation attempt.
type Decision int

const (
	// Allow lets the navigation proceed.
	Allow Decision = iota
	// RedirectLogin sends an unauthenticated user to the login page.
	RedirectLogin
	// RedirectHome sends an authenticated user without the required role
	// back to the home page.
	RedirectHome
)

// Guard decides whether the current session may enter a route requiring any
// of the given roles. An empty role set only requires authentication. The
// check runs on decoded, unverified claims; a user tampering with their local
// token only changes what the UI attempts, the server still rejects the
// actual requests.
func (s *Session) Guard(roles ...user.Role) Decision {
	if !s.IsAuthenticated() {
		return RedirectLogin
	}
	if s.claims.HasAnyRole(roles...) {
		return Allow
	}
	return RedirectHome
}
