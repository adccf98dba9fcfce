package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// Service orchestrates login, logout and session inspection using its dependencies.
type Service struct {
	Store         CredentialStore
	Authenticator Authenticator
}

// NewService is the constructor for our auth service.
func NewService(store CredentialStore, authenticator Authenticator) *Service {
	return &Service{
		Store:         store,
		Authenticator: authenticator,
	}
}

// Status describes the locally stored session. It says nothing about whether
// the server still accepts it; that is only known on the next API call.
type Status struct {
	LoggedIn      bool
	HasRefresh    bool
	AccessExpires time.Time // zero when the token carries no readable exp claim
}

// Expired reports whether the access token's exp claim lies in the past.
func (s Status) Expired(now time.Time) bool {
	return !s.AccessExpires.IsZero() && now.After(s.AccessExpires)
}

// Login exchanges username and password for a credential pair and stores it.
func (s *Service) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("username and password cannot be empty")
	}
	if s.Authenticator == nil || s.Store == nil {
		return fmt.Errorf("auth service is not configured")
	}

	creds, err := s.Authenticator.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("failed to login: %w", err)
	}
	if creds == nil || creds.Access == "" || creds.Refresh == "" {
		return fmt.Errorf("login response did not contain both tokens")
	}

	if err := s.Store.Set(creds.Access, creds.Refresh); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	log.Info().Str("user", username).Msg("Login was successful")
	return nil
}

// Logout tells the server to drop the session and always clears the local
// credentials, even when the server call fails.
func (s *Service) Logout(ctx context.Context) error {
	if s.Store == nil {
		return fmt.Errorf("auth service is not configured")
	}

	creds, err := s.Store.Get()
	if err != nil {
		return fmt.Errorf("failed to retrieve credentials: %w", err)
	}

	var serverErr error
	if creds != nil && creds.Refresh != "" && s.Authenticator != nil {
		serverErr = s.Authenticator.Logout(ctx, creds.Refresh)
		if serverErr != nil && !errors.Is(serverErr, ErrSessionExpired) {
			log.Warn().Err(serverErr).Msg("Server-side logout failed")
		}
	}

	if err := s.Store.Clear(); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	if serverErr != nil && !errors.Is(serverErr, ErrSessionExpired) {
		return fmt.Errorf("logged out locally, but the server call failed: %w", serverErr)
	}
	return nil
}

// Status reports what the store holds without contacting the server.
func (s *Service) Status() (Status, error) {
	if s.Store == nil {
		return Status{}, fmt.Errorf("auth service is not configured")
	}
	creds, err := s.Store.Get()
	if err != nil {
		return Status{}, fmt.Errorf("failed to retrieve credentials: %w", err)
	}
	if creds == nil {
		return Status{}, nil
	}

	st := Status{
		LoggedIn:   creds.Access != "" || creds.Refresh != "",
		HasRefresh: creds.Refresh != "",
	}
	if exp, ok := AccessExpiry(creds.Access); ok {
		st.AccessExpires = exp
	}
	return st, nil
}

// AccessExpiry reads the exp claim of a JWT without verifying its signature.
// The client never trusts it for decisions; it is only shown to the user.
func AccessExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		log.Debug().Err(err).Msg("Access token is not a readable JWT")
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
