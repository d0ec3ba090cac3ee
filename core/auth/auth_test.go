package auth

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

func testConfig() *core.Config {
	return &core.Config{
		AppName:   "shule",
		SecretKey: "secret",
		Server:    core.ServerConfig{JWTExpirationDelta: 12 * time.Hour},
	}
}

func testUser() user.User {
	return user.User{
		ID:       "0b51cd34-b14a-47f2-9e27-54d1b363cbf3",
		Name:     "Awa Ndiaye",
		Email:    "awa@test.test",
		IsActive: true,
		Role:     user.RoleParent,
	}
}

func TestGenerateVerifyTokenRoundtrip(t *testing.T) {
	conf := testConfig()
	usr := testUser()

	token, err := GenerateToken(GetUserClaims(usr, conf), conf)
	if err != nil {
		t.Fatalf("GenerateToken(): %v", err)
	}

	claims, err := VerifyToken(token, conf)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if claims.Subject != usr.ID {
		t.Errorf("Subject = %v, want %v", claims.Subject, usr.ID)
	}
	if claims.Email != usr.Email {
		t.Errorf("Email = %v, want %v", claims.Email, usr.Email)
	}
	if claims.Role != usr.Role {
		t.Errorf("Role = %v, want %v", claims.Role, usr.Role)
	}
	if claims.Issuer != conf.AppName {
		t.Errorf("Issuer = %v, want %v", claims.Issuer, conf.AppName)
	}
	if claims.Audience != Audience {
		t.Errorf("Audience = %v, want %v", claims.Audience, Audience)
	}

	// verification is stateless: a second call returns the same claims
	claims2, err := VerifyToken(token, conf)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if *claims2 != *claims {
		t.Errorf("repeated VerifyToken() = %+v, want %+v", claims2, claims)
	}
}

func TestVerifyTokenErrors(t *testing.T) {
	conf := testConfig()
	usr := testUser()

	validToken, err := GenerateToken(GetUserClaims(usr, conf), conf)
	if err != nil {
		t.Fatalf("GenerateToken(): %v", err)
	}

	// token signed with a different secret
	otherConf := testConfig()
	otherConf.SecretKey = "other-secret"
	foreignToken, err := GenerateToken(GetUserClaims(usr, conf), otherConf)
	if err != nil {
		t.Fatalf("GenerateToken(): %v", err)
	}

	// tampered payload keeps the original signature
	tamperedToken := validToken[:len(validToken)-20] + "AAAAAAAAAAAAAAAAAAAA"

	// expired token
	expiredToken, err := GenerateToken(&Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   usr.ID,
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		},
	}, conf)
	if err != nil {
		t.Fatalf("GenerateToken(): %v", err)
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "missing", token: "", wantErr: ErrTokenMissing},
		{name: "malformed", token: "not.a.jwt", wantErr: ErrTokenMalformed},
		{name: "garbage", token: "lmaooolol", wantErr: ErrTokenMalformed},
		{name: "bad signature", token: foreignToken, wantErr: ErrTokenSignatureInvalid},
		{name: "tampered", token: tamperedToken, wantErr: ErrTokenSignatureInvalid},
		{name: "expired", token: expiredToken, wantErr: ErrTokenExpired},
		{name: "valid", token: validToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := VerifyToken(tt.token, conf); err != tt.wantErr {
				t.Errorf("VerifyToken() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHasAnyRole(t *testing.T) {
	tests := []struct {
		name  string
		role  user.Role
		roles []user.Role
		want  bool
	}{
		{name: "empty set allows any", role: user.RoleParent, roles: nil, want: true},
		{name: "matching role", role: user.RoleAdmin, roles: []user.Role{user.RoleAdmin}, want: true},
		{name: "one of several", role: user.RoleTeacher, roles: []user.Role{user.RoleAdmin, user.RoleTeacher}, want: true},
		{name: "no match", role: user.RoleParent, roles: []user.Role{user.RoleAdmin, user.RoleTeacher}, want: false},
		{name: "staff not admin", role: user.RoleStaff, roles: []user.Role{user.RoleAdmin}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := &Claims{Role: tt.role}
			if got := claims.HasAnyRole(tt.roles...); got != tt.want {
				t.Errorf("HasAnyRole() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeToken(t *testing.T) {
	conf := testConfig()
	usr := testUser()

	token, err := GenerateToken(GetUserClaims(usr, conf), conf)
	if err != nil {
		t.Fatalf("GenerateToken(): %v", err)
	}

	// decode works without knowing the secret
	claims, err := DecodeToken(token)
	if err != nil {
		t.Fatalf("DecodeToken() error = %v", err)
	}
	if claims.Subject != usr.ID {
		t.Errorf("Subject = %v, want %v", claims.Subject, usr.ID)
	}
	if claims.Role != usr.Role {
		t.Errorf("Role = %v, want %v", claims.Role, usr.Role)
	}

	if _, err = DecodeToken("lmaooolol"); err != ErrTokenMalformed {
		t.Errorf("DecodeToken() error = %v, wantErr %v", err, ErrTokenMalformed)
	}
}
