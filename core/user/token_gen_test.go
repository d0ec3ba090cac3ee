package user

import (
	"testing"
	"time"

	"github.com/trezcool/shule/core"
)

func TestMakeVerifyToken(t *testing.T) {
	conf := &core.Config{
		SecretKey:                 "secret",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
	}

	now := time.Now()
	usr := User{
		ID:        "0b51cd34-b14a-47f2-9e27-54d1b363cbf3",
		Name:      "T",
		Email:     "t@test.test",
		IsActive:  true,
		Role:      RoleParent,
		CreatedAt: now,
		UpdatedAt: now,
		LastLogin: now,
	}
	_ = usr.SetPassword("pwd")

	validToken, err := MakeToken(usr, conf)
	if err != nil {
		t.Fatalf("MakeToken(): %v", err)
	}

	// generate an expired token
	dayLate := conf.PasswordResetTimeoutDelta + (24 * time.Hour)
	NowFunc = func() time.Time { return time.Now().Add(-dayLate) }
	expiredToken, err := MakeToken(usr, conf)
	if err != nil {
		t.Fatalf("MakeToken(): %v", err)
	}
	NowFunc = time.Now // reset

	// a token minted for another account must not verify
	otherUsr := usr
	otherUsr.ID = "e8a7e515-5b43-4b4a-9e3a-6a35d0e54b39"
	otherToken, err := MakeToken(otherUsr, conf)
	if err != nil {
		t.Fatalf("MakeToken(): %v", err)
	}

	tests := []struct {
		name    string
		usr     User
		token   string
		wantErr error
	}{
		{name: "no token", usr: usr, wantErr: errInvalidToken},
		{name: "invalid parts len", usr: usr, token: "lmaooolol", wantErr: errInvalidToken},
		{name: "invalid base32", usr: usr, token: "hahaha-sigsig-sig", wantErr: errInvalidToken},
		{name: "invalid timestamp", usr: usr, token: "NRXWY-sigsig-sig", wantErr: errInvalidToken},
		{name: "invalid token", usr: usr, token: "HE4TS-sigsig-sig", wantErr: errInvalidToken},
		{name: "another user's token", usr: usr, token: otherToken, wantErr: errInvalidToken},
		{name: "expired token", usr: usr, token: expiredToken, wantErr: errTokenExpired},
		{name: "valid token", usr: usr, token: validToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := verifyToken(tt.usr, tt.token, conf); err != tt.wantErr {
				t.Errorf("verifyToken() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTokenInvalidatedByUse(t *testing.T) {
	conf := &core.Config{
		SecretKey:                 "secret",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
	}

	usr := User{ID: "72aa1ef8-bae9-4f11-b714-08e1e6b9ca55", LastLogin: time.Now()}
	_ = usr.SetPassword("old-password")

	token, err := MakeToken(usr, conf)
	if err != nil {
		t.Fatalf("MakeToken(): %v", err)
	}
	if err = verifyToken(usr, token, conf); err != nil {
		t.Fatalf("verifyToken() error = %v", err)
	}

	// changing the password embeds a new hash in the signed value
	_ = usr.SetPassword("new-password")
	if err = verifyToken(usr, token, conf); err != errInvalidToken {
		t.Errorf("verifyToken() error = %v, wantErr %v", err, errInvalidToken)
	}
}

func TestEncodeDecodeUID(t *testing.T) {
	usr := User{ID: "0b51cd34-b14a-47f2-9e27-54d1b363cbf3"}
	uid := EncodeUID(usr)
	id, err := decodeUID(uid)
	if err != nil {
		t.Fatalf("decodeUID(): %v", err)
	}
	if id != usr.ID {
		t.Errorf("decodeUID() = %v, want %v", id, usr.ID)
	}

	if _, err = decodeUID("%%%not-base64%%%"); err == nil {
		t.Error("decodeUID() expected error for invalid input")
	}
}
