package auth

import "context"

// Credentials is the access/refresh credential pair.
type Credentials struct {
	Access  string
	Refresh string
}

// CredentialStore persists the current credential pair.
// Get returns nil, nil when nothing is stored. Set writes both values or
// neither. Clear on an empty store is a no-op.
// Implementations must be safe for concurrent use.
type CredentialStore interface {
	Get() (*Credentials, error)
	Set(access, refresh string) error
	Clear() error
}

// Refresher exchanges a refresh credential for a new access credential.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
}

// Authenticator performs the interactive login and the server-side logout.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*Credentials, error)
	Logout(ctx context.Context, refreshToken string) error
}
