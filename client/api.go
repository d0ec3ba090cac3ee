package client

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

// API is a thin HTTP client for the school API that attaches the session
// token to every request and drops the session when the server rejects it.
type API struct {
	BaseURL string
	Session *Session
	HTTP    *http.Client
}

func NewAPI(baseURL string, sess *Session) *API {
	return &API{
		BaseURL: baseURL,
		Session: sess,
		HTTP:    http.DefaultClient,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a token and stores it in the session.
func (api *API) Login(email, password string) error {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return errors.Wrap(err, "encoding login request")
	}

	res, err := api.HTTP.Post(api.BaseURL+"/v1/users/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "posting login")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return errors.Errorf("login failed: %s", res.Status)
	}

	var data loginResponse
	if err = json.NewDecoder(res.Body).Decode(&data); err != nil {
		return errors.Wrap(err, "decoding login response")
	}
	return api.Session.SetToken(data.Token)
}

// Logout forgets the session locally.
func (api *API) Logout() error {
	return api.Session.Clear()
}

// Do sends an authenticated request. A 401 response clears the session: the
// token has expired or been revoked server-side, so the UI must re-login.
func (api *API) Do(req *http.Request) (*http.Response, error) {
	if token := api.Session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := api.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode == http.StatusUnauthorized {
		_ = api.Session.Clear()
	}
	return res, nil
}
