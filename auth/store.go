package auth

import (
	"context"
	"sync"

	"github.com/habedi/suds/db"
)

// RepoStore adapts a db.TokenRepository to the CredentialStore interface.
type RepoStore struct{ repo db.TokenRepository }

// NewRepoStore returns a CredentialStore backed by the credential table.
func NewRepoStore(repo db.TokenRepository) *RepoStore { return &RepoStore{repo: repo} }

func (s *RepoStore) Get() (*Credentials, error) {
	token, err := s.repo.Get(context.Background())
	if err != nil {
		return nil, err
	}
	if token.Empty() {
		return nil, nil
	}
	return &Credentials{Access: token.AccessToken, Refresh: token.RefreshToken}, nil
}

func (s *RepoStore) Set(access, refresh string) error {
	return s.repo.Upsert(context.Background(), &db.Token{AccessToken: access, RefreshToken: refresh})
}

func (s *RepoStore) Clear() error {
	return s.repo.Clear(context.Background())
}

// MemoryStore keeps the credential pair in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	creds *Credentials
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Get() (*Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return nil, nil
	}
	c := *s.creds
	return &c, nil
}

func (s *MemoryStore) Set(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = &Credentials{Access: access, Refresh: refresh}
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = nil
	return nil
}
