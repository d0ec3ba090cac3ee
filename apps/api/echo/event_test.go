package echoapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/trezcool/shule/core/event"
	"github.com/trezcool/shule/core/user"
)

func Test_eventApi_publicReadAdminWrite(t *testing.T) {
	admin := createUser(t, "Evt Admin", "evtadmin@test.test", "secret1", user.RoleAdmin)
	parent := createUser(t, "Evt Parent", "evtparent@test.test", "secret1", user.RoleParent)

	// the calendar is public
	req, rec := newRequest(http.MethodGet, "/v1/events")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("public list code = %v, want %v", rec.Code, http.StatusOK)
	}

	body := marchallObj(t, event.NewEvent{
		Title:       "Open Day",
		Description: "Doors open to families.",
		Date:        time.Now().UTC().Add(7 * 24 * time.Hour),
		Location:    "Main Hall",
	})

	tests := []httpTest{
		{
			name:     "auth required to publish",
			body:     body,
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "parent cannot publish",
			token:    getToken(t, parent),
			body:     body,
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "admin publishes",
			token:    getToken(t, admin),
			body:     body,
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/events", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_galleryApi_publicRead(t *testing.T) {
	parent := createUser(t, "Gal Parent", "galparent@test.test", "secret1", user.RoleParent)

	req, rec := newRequest(http.MethodGet, "/v1/gallery")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("public list code = %v, want %v", rec.Code, http.StatusOK)
	}

	req, rec = newRequest(http.MethodGet, "/v1/gallery?category=sports")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("category list code = %v, want %v", rec.Code, http.StatusOK)
	}

	// publishing requires admin rights
	tt := httpTest{
		wantCode: http.StatusForbidden,
		wantData: marchallObj(t, errForbidden),
	}
	req, rec = newAuthRequest(http.MethodPost, "/v1/gallery", getToken(t, parent))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}
