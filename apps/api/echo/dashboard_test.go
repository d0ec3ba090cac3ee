package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/shule/core/user"
)

func Test_dashboardApi_roleGates(t *testing.T) {
	admin := createUser(t, "Dash Admin", "dashadmin@test.test", "secret1", user.RoleAdmin)
	tch := createUser(t, "Dash Teacher", "dashteacher@test.test", "secret1", user.RoleTeacher)
	parent := createUser(t, "Dash Parent", "dashparent@test.test", "secret1", user.RoleParent)

	tests := []httpTest{
		{
			name:     "stats requires auth",
			path:     "/v1/dashboard/stats",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "stats is admin only",
			path:     "/v1/dashboard/stats",
			token:    getToken(t, tch),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "stats for admin",
			path:     "/v1/dashboard/stats",
			token:    getToken(t, admin),
			wantCode: http.StatusOK,
		},
		{
			name:     "teacher board for teacher",
			path:     "/v1/dashboard/teacher",
			token:    getToken(t, tch),
			wantCode: http.StatusOK,
		},
		{
			name:     "teacher board denied to parent",
			path:     "/v1/dashboard/teacher",
			token:    getToken(t, parent),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "parent board for parent",
			path:     "/v1/dashboard/parent",
			token:    getToken(t, parent),
			wantCode: http.StatusOK,
		},
		{
			name:     "parent board denied to admin",
			path:     "/v1/dashboard/parent",
			token:    getToken(t, admin),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
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

func Test_dashboardApi_parentBoardContents(t *testing.T) {
	parent := createUser(t, "Board Parent", "boardparent@test.test", "secret1", user.RoleParent)
	child := createStudent(t, "Board Child", "Grade 4", parent.ID)
	createStudent(t, "Board Stranger", "Grade 4", "someone-else")

	req, rec := newAuthRequest(http.MethodGet, "/v1/dashboard/parent", getToken(t, parent))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v, want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var res parentBoardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(res.Children) != 1 {
		t.Fatalf("len(Children) = %v, want 1", len(res.Children))
	}
	if res.Children[0].ID != child.ID {
		t.Errorf("Children[0].ID = %v, want %v", res.Children[0].ID, child.ID)
	}
}
