// Package auth implements issuance and stateless verification of the signed
// session credential carried by API clients, plus the role check applied to
// verified identities. Verification is a pure function of (token, clock,
// secret): any server instance sharing the secret can verify any token with
// no session store lookup.
package auth

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

const Audience = "Academia"

var (
	ErrTokenMissing          = errors.New("missing token")
	ErrTokenMalformed        = errors.New("malformed token")
	ErrTokenSignatureInvalid = errors.New("invalid token signature")
	ErrTokenExpired          = errors.New("token expired")
)

// Claims represents the authorization claims transmitted via a JWT.
// Consumers of a verified Claims may trust Subject and Role without
// re-querying the user store.
type Claims struct {
	jwt.StandardClaims
	Name  string    `json:"name,omitempty"`
	Email string    `json:"email,omitempty"`
	Role  user.Role `json:"role,omitempty"`
}

// HasAnyRole reports whether the identity's role belongs to the allowed set.
// An empty set means "any authenticated identity".
func (c *Claims) HasAnyRole(roles ...user.Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, role := range roles {
		if c.Role == role {
			return true
		}
	}
	return false
}

// GetUserClaims builds the claims encoded into a user's session token.
func GetUserClaims(usr user.User, conf *core.Config) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   usr.ID,
			Audience:  Audience,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:  usr.Name,
		Email: usr.Email,
		Role:  usr.Role,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims, conf *core.Config) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// VerifyToken validates a token's signature and expiry and returns its claims.
// It performs no I/O and keeps no state: repeated calls on the same token
// return equivalent claims.
func VerifyToken(tokenStr string, conf *core.Config) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrTokenMissing
	}

	claims := new(Claims)
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return []byte(conf.SecretKey), nil
	})
	if err != nil {
		vErr, ok := err.(*jwt.ValidationError)
		if !ok {
			return nil, ErrTokenMalformed
		}
		switch {
		case vErr.Errors&jwt.ValidationErrorMalformed != 0:
			return nil, ErrTokenMalformed
		case vErr.Errors&(jwt.ValidationErrorSignatureInvalid|jwt.ValidationErrorUnverifiable) != 0:
			return nil, ErrTokenSignatureInvalid
		case vErr.Errors&jwt.ValidationErrorExpired != 0:
			return nil, ErrTokenExpired
		default:
			return nil, ErrTokenMalformed
		}
	}
	return claims, nil
}

// DecodeToken parses a token's claims WITHOUT verifying the signature.
// It is advisory only: clients use it to drive UI, never for enforcement.
func DecodeToken(tokenStr string) (*Claims, error) {
	claims := new(Claims)
	if _, _, err := new(jwt.Parser).ParseUnverified(tokenStr, claims); err != nil {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
