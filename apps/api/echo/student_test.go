package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/user"
)

func createStudent(t *testing.T, name, class, parentID string) student.Student {
	t.Helper()
	std, err := stdRepo.CreateStudent(ctxBg(), student.Student{
		Name:        name,
		Age:         6,
		Gender:      "F",
		DateOfBirth: time.Date(2020, 3, 14, 0, 0, 0, 0, time.UTC),
		ParentID:    parentID,
		Class:       class,
		Attendance:  []student.AttendanceEntry{},
	})
	if err != nil {
		t.Fatalf("createStudent(): %v", err)
	}
	return std
}

func Test_studentApi_query(t *testing.T) {
	admin := createUser(t, "Std Admin", "stdadmin@test.test", "secret1", user.RoleAdmin)
	tch := createUser(t, "Std Teacher", "stdteacher@test.test", "secret1", user.RoleTeacher)
	parent := createUser(t, "Std Parent", "stdparent@test.test", "secret1", user.RoleParent)

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
			name:     "teacher allowed",
			token:    getToken(t, tch),
			wantCode: http.StatusOK,
		},
		{
			name:     "admin allowed",
			token:    getToken(t, admin),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/students", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_retrieve_parentOwnChild(t *testing.T) {
	parent := createUser(t, "Own Parent", "ownparent@test.test", "secret1", user.RoleParent)
	otherParent := createUser(t, "Other Parent", "otherparent@test.test", "secret1", user.RoleParent)
	tch := createUser(t, "Own Teacher", "ownteacher@test.test", "secret1", user.RoleTeacher)
	child := createStudent(t, "Own Child", "Grade 1", parent.ID)

	tests := []httpTest{
		{
			name:     "parent sees own child",
			token:    getToken(t, parent),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, child),
		},
		{
			name:     "other parent denied",
			token:    getToken(t, otherParent),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "teacher sees any student",
			token:    getToken(t, tch),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, child),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/students/"+child.ID, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_create(t *testing.T) {
	admin := createUser(t, "Create Admin", "createadmin@test.test", "secret1", user.RoleAdmin)
	tch := createUser(t, "Create Teacher", "createteacher@test.test", "secret1", user.RoleTeacher)
	parent := createUser(t, "Create Parent", "createparent@test.test", "secret1", user.RoleParent)

	body := marchallObj(t, student.NewStudent{
		Name:        "Enroll Me",
		Age:         7,
		Gender:      "M",
		DateOfBirth: time.Date(2019, 5, 2, 0, 0, 0, 0, time.UTC),
		ParentID:    parent.ID,
		Class:       "Grade 2",
	})

	tests := []httpTest{
		{
			name:     "teacher forbidden",
			token:    getToken(t, tch),
			body:     body,
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "admin allowed",
			token:    getToken(t, admin),
			body:     body,
			wantCode: http.StatusCreated,
		},
		{
			name:     "missing fields rejected",
			token:    getToken(t, admin),
			body:     marchallObj(t, student.NewStudent{Name: "No Class"}),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/students", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_addAttendance(t *testing.T) {
	tch := createUser(t, "Att Teacher", "attteacher@test.test", "secret1", user.RoleTeacher)
	parent := createUser(t, "Att Parent", "attparent@test.test", "secret1", user.RoleParent)
	std := createStudent(t, "Att Child", "Grade 3", parent.ID)

	body := marchallObj(t, student.NewAttendance{
		Date:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Status: student.Present,
	})

	tests := []httpTest{
		{
			name:     "parent forbidden",
			token:    getToken(t, parent),
			body:     body,
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "teacher allowed",
			token:    getToken(t, tch),
			body:     body,
			wantCode: http.StatusOK,
		},
		{
			name:     "invalid status rejected",
			token:    getToken(t, tch),
			body:     marchallObj(t, student.NewAttendance{Date: time.Now().UTC(), Status: "asleep"}),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/students/"+std.ID+"/attendance", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var res student.Student
				if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
					t.Fatalf("decoding response: %v", err)
				}
				if len(res.Attendance) == 0 {
					t.Error("expected attendance entry to be recorded")
				}
			}
		})
	}
}
