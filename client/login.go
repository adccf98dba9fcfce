package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/habedi/suds/auth"
	"github.com/rs/zerolog/log"
)

const (
	loginPath    = "/auth/login/"
	logoutPath   = "/auth/logout/"
	refreshPath  = "/auth/token/refresh/"
	registerPath = "/register/"
	// The server has no dedicated session endpoint; any cheap authenticated GET works.
	sessionProbePath = "/staff/drivers/"
)

var (
	_ auth.Refresher     = (*Authenticator)(nil)
	_ auth.Authenticator = (*Authenticator)(nil)
)

// Authenticator talks to the authentication endpoints.
type Authenticator struct {
	c *Client
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login exchanges username and password for a credential pair. It does not
// store the pair; auth.Service does.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*auth.Credentials, error) {
	log.Info().Str("user", username).Msg("Logging in")
	resp, err := a.c.send(ctx, &Request{
		Method: http.MethodPost,
		Path:   loginPath,
		Body:   map[string]string{"username": username, "password": password},
	})
	if err != nil {
		return nil, err
	}
	var pair tokenPair
	if err := resp.Decode(&pair); err != nil {
		return nil, err
	}
	return &auth.Credentials{Access: pair.Access, Refresh: pair.Refresh}, nil
}

// Refresh exchanges a refresh token for a new access token. It bypasses the
// pipeline's 401 handling so a rejected refresh never triggers another one.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", errors.New("refresh token cannot be empty")
	}
	resp, err := a.c.send(ctx, &Request{
		Method: http.MethodPost,
		Path:   refreshPath,
		Body:   map[string]string{"refresh": refreshToken},
	})
	if err != nil {
		return "", fmt.Errorf("token refresh failed: %w", err)
	}
	var pair tokenPair
	if err := resp.Decode(&pair); err != nil {
		return "", err
	}
	if pair.Access == "" {
		return "", errors.New("token refresh response did not contain an access token")
	}
	return pair.Access, nil
}

// Logout asks the server to invalidate the refresh token.
func (a *Authenticator) Logout(ctx context.Context, refreshToken string) error {
	_, err := a.c.Execute(ctx, &Request{
		Method: http.MethodPost,
		Path:   logoutPath,
		Body:   map[string]string{"refresh": refreshToken},
	})
	return err
}

// Register creates a staff account.
func (a *Authenticator) Register(ctx context.Context, in RegisterInput) (*StaffMember, error) {
	return fetch[StaffMember](ctx, a.c, &Request{Method: http.MethodPost, Path: registerPath, Body: in})
}

// CheckSession makes one authenticated call to find out whether the stored
// session is still usable. A stale access token is refreshed on the way.
func (a *Authenticator) CheckSession(ctx context.Context) error {
	_, err := a.c.Execute(ctx, &Request{Method: http.MethodGet, Path: sessionProbePath})
	return err
}
