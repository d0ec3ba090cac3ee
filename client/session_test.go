package client

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/auth"
	"github.com/trezcool/shule/core/user"
)

func testConfig() *core.Config {
	return &core.Config{
		AppName:   "shule",
		SecretKey: "secret",
		Server:    core.ServerConfig{JWTExpirationDelta: 12 * time.Hour},
	}
}

func newToken(t *testing.T, role user.Role) string {
	t.Helper()
	conf := testConfig()
	usr := user.User{
		ID:    "0b51cd34-b14a-47f2-9e27-54d1b363cbf3",
		Name:  "Awa Ndiaye",
		Email: "awa@test.test",
		Role:  role,
	}
	token, err := auth.GenerateToken(auth.GetUserClaims(usr, conf), conf)
	if err != nil {
		t.Fatalf("GenerateToken(): %v", err)
	}
	return token
}

func newExpiredToken(t *testing.T) string {
	t.Helper()
	conf := testConfig()
	token, err := auth.GenerateToken(&auth.Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   "someone",
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		},
	}, conf)
	if err != nil {
		t.Fatalf("GenerateToken(): %v", err)
	}
	return token
}

func newTestStorage(t *testing.T) Storage {
	t.Helper()
	storage, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage(): %v", err)
	}
	return storage
}

func TestSessionPersistsAcrossRestores(t *testing.T) {
	storage := newTestStorage(t)
	token := newToken(t, user.RoleParent)

	sess := NewSession(storage)
	if err := sess.SetToken(token); err != nil {
		t.Fatalf("SetToken(): %v", err)
	}
	if !sess.IsAuthenticated() {
		t.Fatal("expected authenticated session")
	}

	// a new session over the same storage finds the token under the
	// well-known key
	sess2 := NewSession(storage)
	if err := sess2.Restore(); err != nil {
		t.Fatalf("Restore(): %v", err)
	}
	if !sess2.IsAuthenticated() {
		t.Fatal("expected restored session to be authenticated")
	}
	if sess2.Token() != token {
		t.Errorf("Token() = %v, want %v", sess2.Token(), token)
	}
	if id := sess2.Identity(); id == nil || id.Role != user.RoleParent {
		t.Errorf("Identity() = %+v, want parent role", id)
	}
}

func TestSessionRestoreDropsBadTokens(t *testing.T) {
	t.Run("expired token", func(t *testing.T) {
		storage := newTestStorage(t)
		_ = storage.Set(TokenKey, newExpiredToken(t))

		sess := NewSession(storage)
		if err := sess.Restore(); err != nil {
			t.Fatalf("Restore(): %v", err)
		}
		if sess.IsAuthenticated() {
			t.Error("expected expired token to be dropped")
		}
		if _, err := storage.Get(TokenKey); err != ErrKeyNotFound {
			t.Errorf("expected token cleared from storage, got err %v", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		storage := newTestStorage(t)
		_ = storage.Set(TokenKey, "lmaooolol")

		sess := NewSession(storage)
		if err := sess.Restore(); err != nil {
			t.Fatalf("Restore(): %v", err)
		}
		if sess.IsAuthenticated() {
			t.Error("expected undecodable token to be dropped")
		}
	})

	t.Run("no token", func(t *testing.T) {
		sess := NewSession(newTestStorage(t))
		if err := sess.Restore(); err != nil {
			t.Fatalf("Restore(): %v", err)
		}
		if sess.IsAuthenticated() {
			t.Error("expected empty storage to leave session logged out")
		}
	})
}

func TestSessionClear(t *testing.T) {
	storage := newTestStorage(t)
	sess := NewSession(storage)
	if err := sess.SetToken(newToken(t, user.RoleAdmin)); err != nil {
		t.Fatalf("SetToken(): %v", err)
	}

	if err := sess.Clear(); err != nil {
		t.Fatalf("Clear(): %v", err)
	}
	if sess.IsAuthenticated() {
		t.Error("expected cleared session to be logged out")
	}
	if sess.Token() != "" {
		t.Error("expected token to be forgotten")
	}
	if _, err := storage.Get(TokenKey); err != ErrKeyNotFound {
		t.Errorf("expected token removed from storage, got err %v", err)
	}

	// clearing twice is fine
	if err := sess.Clear(); err != nil {
		t.Errorf("second Clear(): %v", err)
	}
}
