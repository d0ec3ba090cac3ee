package client

import (
	"testing"

	"github.com/trezcool/shule/core/user"
)

func TestSessionGuard(t *testing.T) {
	loggedOut := NewSession(newTestStorage(t))

	parent := NewSession(newTestStorage(t))
	if err := parent.SetToken(newToken(t, user.RoleParent)); err != nil {
		t.Fatalf("SetToken(): %v", err)
	}

	// an expired token restores to a logged-out session
	expired := NewSession(newTestStorage(t))
	_ = expired.storage.Set(TokenKey, newExpiredToken(t))
	if err := expired.Restore(); err != nil {
		t.Fatalf("Restore(): %v", err)
	}

	tests := []struct {
		name  string
		sess  *Session
		roles []user.Role
		want  Decision
	}{
		{name: "unauthenticated", sess: loggedOut, roles: []user.Role{user.RoleParent}, want: RedirectLogin},
		{name: "unauthenticated; no role required", sess: loggedOut, want: RedirectLogin},
		{name: "expired session", sess: expired, roles: []user.Role{user.RoleParent}, want: RedirectLogin},
		{name: "matching role", sess: parent, roles: []user.Role{user.RoleParent}, want: Allow},
		{name: "one of several roles", sess: parent, roles: []user.Role{user.RoleAdmin, user.RoleParent}, want: Allow},
		{name: "no role required", sess: parent, want: Allow},
		{name: "wrong role", sess: parent, roles: []user.Role{user.RoleAdmin}, want: RedirectHome},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sess.Guard(tt.roles...); got != tt.want {
				t.Errorf("Guard() = %v, want %v", got, tt.want)
			}
		})
	}
}
