// Package client implements the session handling used by frontend apps of the
// API: a persisted token store keyed by a well-known name, an advisory decode
// of the token's claims to drive UI, and a route guard. The decode is never
// trusted for enforcement; the server re-verifies every request.
package client

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/auth"
)

// TokenKey is the well-known storage key holding the session token, shared
// by all frontend apps so a login in one is visible to the others.
const TokenKey = "token"

// Storage persists small string values across sessions.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// ErrKeyNotFound is returned by Storage.Get for absent keys.
var ErrKeyNotFound = errors.New("key not found")

// fileStorage keeps each value in its own file under dir.
type fileStorage struct {
	dir string
}

var _ Storage = (*fileStorage)(nil)

func NewFileStorage(dir string) (Storage, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "creating storage dir")
	}
	return &fileStorage{dir: dir}, nil
}

func (fs *fileStorage) Get(key string) (string, error) {
	data, err := ioutil.ReadFile(filepath.Join(fs.dir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrKeyNotFound
		}
		return "", errors.Wrap(err, "reading key")
	}
	return string(data), nil
}

func (fs *fileStorage) Set(key, value string) error {
	return errors.Wrap(ioutil.WriteFile(filepath.Join(fs.dir, key), []byte(value), 0o600), "writing key")
}

func (fs *fileStorage) Delete(key string) error {
	if err := os.Remove(filepath.Join(fs.dir, key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "deleting key")
	}
	return nil
}

// Session holds the current token and its advisorily-decoded claims.
type Session struct {
	storage Storage
	token   string
	claims  *auth.Claims
}

func NewSession(storage Storage) *Session {
	return &Session{storage: storage}
}

// Restore loads a previously persisted token. A token that cannot be decoded
// or has visibly expired is discarded so the user is sent to login instead of
// bouncing off 401s.
func (s *Session) Restore() error {
	token, err := s.storage.Get(TokenKey)
	if err != nil {
		if errors.Cause(err) == ErrKeyNotFound {
			return nil
		}
		return err
	}

	claims, err := auth.DecodeToken(token)
	if err != nil || isExpired(claims) {
		return s.Clear()
	}
	s.token = token
	s.claims = claims
	return nil
}

// SetToken persists a freshly issued token and decodes its claims.
func (s *Session) SetToken(token string) error {
	claims, err := auth.DecodeToken(token)
	if err != nil {
		return errors.Wrap(err, "decoding token")
	}
	if err = s.storage.Set(TokenKey, token); err != nil {
		return err
	}
	s.token = token
	s.claims = claims
	return nil
}

func (s *Session) Token() string { return s.token }

// Identity returns the session's decoded claims, nil when logged out. The
// claims are advisory: they drive what the UI shows, not what the server
// allows.
func (s *Session) Identity() *auth.Claims { return s.claims }

func (s *Session) IsAuthenticated() bool {
	return s.claims != nil && !isExpired(s.claims)
}

// Clear forgets the session locally. No server call is involved: tokens are
// stateless and simply age out.
func (s *Session) Clear() error {
	s.token = ""
	s.claims = nil
	return s.storage.Delete(TokenKey)
}

func isExpired(claims *auth.Claims) bool {
	return claims.ExpiresAt != 0 && time.Now().Unix() >= claims.ExpiresAt
}
