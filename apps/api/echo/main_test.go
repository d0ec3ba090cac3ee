package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/admission"
	"github.com/trezcool/shule/core/auth"
	"github.com/trezcool/shule/core/event"
	"github.com/trezcool/shule/core/gallery"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/teacher"
	"github.com/trezcool/shule/core/user"
	appfs "github.com/trezcool/shule/fs"
	emailsvc "github.com/trezcool/shule/services/email"
	uploadsvc "github.com/trezcool/shule/services/upload"
	dummydb "github.com/trezcool/shule/storage/database/dummy"
)

var (
	app  *Server
	conf *core.Config

	usrRepo user.Repository
	stdRepo student.Repository
	tchRepo teacher.Repository
	evtRepo event.Repository
	galRepo gallery.Repository
	admRepo admission.Repository

	usrSvc *user.Service

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

type testLogger struct{}

func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}

func TestMain(m *testing.M) {
	conf = &core.Config{
		TestMode:  true,
		AppName:   "shule",
		SecretKey: "test-secret",
		Server: core.ServerConfig{
			JWTExpirationDelta: 12 * time.Hour,
		},
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		Uploads: core.UploadsConfig{
			Dir:             os.TempDir(),
			MaxImageSize:    2 << 20,
			MaxDocumentSize: 5 << 20,
		},
	}

	// set up DB & repos
	db, _ := dummydb.Open()
	usrRepo = dummydb.NewUserRepository(db)
	stdRepo = dummydb.NewStudentRepository(db)
	tchRepo = dummydb.NewTeacherRepository(db)
	evtRepo = dummydb.NewEventRepository(db)
	galRepo = dummydb.NewGalleryRepository(db)
	admRepo = dummydb.NewAdmissionRepository(db)

	// set up services
	logger := testLogger{}
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc = user.NewService(usrRepo, mailSvc, conf)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	admission.InitValidators(validate, translator)

	core.ParseEmailTemplates(appfs.FS, logger)

	// set up server
	app = NewServer(ServerDeps{
		Conf:         conf,
		Logger:       logger,
		UserSvc:      usrSvc,
		StudentSvc:   student.NewService(stdRepo),
		TeacherSvc:   teacher.NewService(tchRepo),
		EventSvc:     event.NewService(evtRepo),
		GallerySvc:   gallery.NewService(galRepo),
		AdmissionSvc: admission.NewService(admRepo, mailSvc),
		UploadSvc:    uploadsvc.NewService(conf),
		Validate:     validate,
		Translator:   translator,
	})

	os.Exit(m.Run())
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func ctxBg() context.Context { return context.Background() }

func createUser(t *testing.T, name, email, pwd string, role user.Role) user.User {
	t.Helper()
	usr, err := usrSvc.Create(context.Background(), user.NewUser{
		Name:            name,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
		Role:            role,
	})
	if err != nil {
		t.Fatalf("createUser(): %v", err)
	}
	return usr
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := auth.GenerateToken(auth.GetUserClaims(usr, conf), conf)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// the JWT middleware guards every protected route; bad bearer tokens must be
// rejected before any handler runs.
func Test_api_rejectsBadBearerTokens(t *testing.T) {
	usr := createUser(t, "Bearer User", "bearer@test.test", "secret1", user.RoleAdmin)
	valid := getToken(t, usr)

	expired, err := auth.GenerateToken(&auth.Claims{
		StandardClaims: jwt.StandardClaims{
			Audience:  auth.Audience,
			Subject:   usr.ID,
			IssuedAt:  time.Now().Add(-2 * time.Hour).Unix(),
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		},
	}, conf)
	if err != nil {
		t.Fatalf("generating expired token: %v", err)
	}

	// break the signature
	tampered := valid[:len(valid)-10] + "AAAAAAAAAA"

	errInvalidToken := httpErr{Error: "invalid or expired jwt"}
	tests := []httpTest{
		{
			name:     "no token",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "expired token",
			token:    expired,
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errInvalidToken),
		},
		{
			name:     "tampered token",
			token:    tampered,
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errInvalidToken),
		},
		{
			name:     "valid token",
			token:    valid,
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
