package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/user"
)

func Test_userApi_login(t *testing.T) {
	usr := createUser(t, "Login User", "login@test.test", "secret1", user.RoleParent)
	deactivated := createUser(t, "Deactivated", "deactivated@test.test", "secret1", user.RoleParent)
	f := false
	if _, err := usrSvc.Update(ctxBg(), deactivated.ID, user.UpdateUser{IsActive: &f}); err != nil {
		t.Fatalf("deactivating user: %v", err)
	}

	tests := []httpTest{
		{
			name:     "valid credentials",
			body:     marchallObj(t, LoginRequest{Email: usr.Email, Password: "secret1"}),
			wantCode: http.StatusOK,
		},
		{
			name:     "unknown email",
			body:     marchallObj(t, LoginRequest{Email: "nobody@test.test", Password: "secret1"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name:     "wrong password",
			body:     marchallObj(t, LoginRequest{Email: usr.Email, Password: "wrongpass"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name:     "deactivated account",
			body:     marchallObj(t, LoginRequest{Email: deactivated.Email, Password: "secret1"}),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var res LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
					t.Fatalf("decoding response: %v", err)
				}
				if res.Token == "" {
					t.Error("expected a token")
				}
			}
		})
	}
}

func Test_userApi_registerLoginAccess(t *testing.T) {
	// a visitor registers a parent account...
	body := marchallObj(t, user.NewUser{
		Name:            "New Parent",
		Email:           "newparent@test.test",
		Password:        "secret1",
		PasswordConfirm: "secret1",
		Role:            user.RoleParent,
	})
	req, rec := newRequest(http.MethodPost, "/v1/users/register", body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register code = %v, want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var created user.User
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding created user: %v", err)
	}
	if created.Role != user.RoleParent {
		t.Errorf("Role = %v, want %v", created.Role, user.RoleParent)
	}

	// ...logs in...
	req, rec = newRequest(http.MethodPost, "/v1/users/login",
		marchallObj(t, LoginRequest{Email: "newparent@test.test", Password: "secret1"}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login code = %v, want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var res LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding login response: %v", err)
	}

	// ...is denied an admin-only route with a uniform message...
	tt := httpTest{
		wantCode: http.StatusForbidden,
		wantData: marchallObj(t, errForbidden),
	}
	req, rec = newAuthRequest(http.MethodGet, "/v1/users", res.Token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)

	// ...but can reach their own dashboard
	req, rec = newAuthRequest(http.MethodGet, "/v1/dashboard/parent", res.Token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("parent dashboard code = %v, want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func Test_userApi_register_rejectsShortPassword(t *testing.T) {
	body := marchallObj(t, user.NewUser{
		Name:            "Short Pwd",
		Email:           "shortpwd@test.test",
		Password:        "abc",
		PasswordConfirm: "abc",
		Role:            user.RoleParent,
	})
	req, rec := newRequest(http.MethodPost, "/v1/users/register", body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %v, want %v; body %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}

func Test_userApi_register_roles(t *testing.T) {
	newUser := func(email string, role user.Role) []byte {
		return marchallObj(t, user.NewUser{
			Name:            "Signup User",
			Email:           email,
			Password:        "secret1",
			PasswordConfirm: "secret1",
			Role:            role,
		})
	}

	tests := []httpTest{
		{
			name:     "teacher may sign up",
			body:     newUser("signupteacher@test.test", user.RoleTeacher),
			wantCode: http.StatusCreated,
		},
		{
			name:     "admin may not sign up",
			body:     newUser("signupadmin@test.test", user.RoleAdmin),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "staff may not sign up",
			body:     newUser("signupstaff@test.test", user.RoleStaff),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "role is required",
			body:     newUser("signupnorole@test.test", ""),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/register", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusCreated {
				var created user.User
				if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
					t.Fatalf("decoding created user: %v", err)
				}
				if created.Role != user.RoleTeacher {
					t.Errorf("Role = %v, want %v", created.Role, user.RoleTeacher)
				}
			}
		})
	}

	// rejected signups must not create accounts
	for _, email := range []string{"signupadmin@test.test", "signupstaff@test.test", "signupnorole@test.test"} {
		if _, err := usrSvc.GetByEmail(ctxBg(), email); errors.Cause(err) != user.ErrNotFound {
			t.Errorf("GetByEmail(%q) error = %v, want %v", email, err, user.ErrNotFound)
		}
	}
}

func Test_userApi_query(t *testing.T) {
	admin := createUser(t, "Query Admin", "queryadmin@test.test", "secret1", user.RoleAdmin)
	parent := createUser(t, "Query Parent", "queryparent@test.test", "secret1", user.RoleParent)

	tests := []httpTest{
		{
			name:     "auth required",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "parent forbidden",
			token:    getToken(t, parent),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "admin allowed",
			token:    getToken(t, admin),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/users", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_retrieve(t *testing.T) {
	admin := createUser(t, "Retrieve Admin", "retradmin@test.test", "secret1", user.RoleAdmin)
	owner := createUser(t, "Retrieve Owner", "retrowner@test.test", "secret1", user.RoleParent)
	other := createUser(t, "Retrieve Other", "retrother@test.test", "secret1", user.RoleParent)

	tests := []httpTest{
		{
			name:     "owner can see own account",
			path:     "/v1/users/" + owner.ID,
			token:    getToken(t, owner),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, owner),
		},
		{
			name:     "admin can see any account",
			path:     "/v1/users/" + owner.ID,
			token:    getToken(t, admin),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, owner),
		},
		{
			name:     "other user gets 404",
			path:     "/v1/users/" + owner.ID,
			token:    getToken(t, other),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_passwordResetFlow(t *testing.T) {
	createUser(t, "Reset User", "reset@test.test", "secret1", user.RoleParent)

	req, rec := newRequest(http.MethodPost, "/v1/users/password-reset",
		marchallObj(t, PasswordResetRequest{Email: "reset@test.test"}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v, want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	// the endpoint answers the same for unknown addresses
	req, rec = newRequest(http.MethodPost, "/v1/users/password-reset",
		marchallObj(t, PasswordResetRequest{Email: "unknown@test.test"}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("code = %v, want %v for unknown address", rec.Code, http.StatusOK)
	}
}
