package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/trezcool/shule/core/user"
)

func TestAPILogin(t *testing.T) {
	token := newToken(t, user.RoleParent)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/users/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(loginResponse{Token: token})
	}))
	defer srv.Close()

	storage := newTestStorage(t)
	api := NewAPI(srv.URL, NewSession(storage))

	if err := api.Login("awa@test.test", "secret1"); err != nil {
		t.Fatalf("Login(): %v", err)
	}
	if !api.Session.IsAuthenticated() {
		t.Error("expected authenticated session after login")
	}
	if got, err := storage.Get(TokenKey); err != nil || got != token {
		t.Errorf("storage.Get(TokenKey) = %v, %v; want the issued token", got, err)
	}

	if err := api.Logout(); err != nil {
		t.Fatalf("Logout(): %v", err)
	}
	if api.Session.IsAuthenticated() {
		t.Error("expected logged-out session after logout")
	}
}

func TestAPIDoAttachesToken(t *testing.T) {
	token := newToken(t, user.RoleParent)
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	sess := NewSession(newTestStorage(t))
	if err := sess.SetToken(token); err != nil {
		t.Fatalf("SetToken(): %v", err)
	}
	api := NewAPI(srv.URL, sess)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/v1/students", nil)
	res, err := api.Do(req)
	if err != nil {
		t.Fatalf("Do(): %v", err)
	}
	res.Body.Close()

	if want := "Bearer " + token; gotAuth != want {
		t.Errorf("Authorization = %q, want %q", gotAuth, want)
	}
	if !sess.IsAuthenticated() {
		t.Error("expected session to survive a successful request")
	}
}

// A session may believe it is authenticated while the server no longer agrees
// (secret rotated, account deactivated). The first 401 must drop the session
// so the UI re-enters the logged-out state instead of retrying forever.
func TestAPIDoClearsSessionOnUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	storage := newTestStorage(t)
	sess := NewSession(storage)
	if err := sess.SetToken(newToken(t, user.RoleParent)); err != nil {
		t.Fatalf("SetToken(): %v", err)
	}
	api := NewAPI(srv.URL, sess)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/v1/students", nil)
	res, err := api.Do(req)
	if err != nil {
		t.Fatalf("Do(): %v", err)
	}
	res.Body.Close()

	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("StatusCode = %v, want %v", res.StatusCode, http.StatusUnauthorized)
	}
	if sess.IsAuthenticated() {
		t.Error("expected session to be dropped after a 401")
	}
	if sess.Token() != "" {
		t.Error("expected token to be forgotten")
	}
	if _, err := storage.Get(TokenKey); err != ErrKeyNotFound {
		t.Errorf("expected token removed from storage, got err %v", err)
	}
}
