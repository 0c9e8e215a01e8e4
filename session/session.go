// Package session holds the current authentication credential and its lifecycle.
//
// Two strategies back the same Store contract: bearer-token mode, where a
// backend-issued token is persisted verbatim (FileStore, MemStore), and
// delegated-session mode, where an external identity provider issues a fresh
// token before each request (Delegated). The API client is constructed with a
// Store and never branches on which strategy is behind it.
package session

import (
	"context"
	"sync"
)

// Store is the credential source injected into the API client.
type Store interface {
	// Credential returns the current credential, or "" when unauthenticated.
	// Absence is not an error.
	Credential(ctx context.Context) (string, error)
	// SetCredential replaces the current credential.
	SetCredential(token string) error
	// Clear removes the credential. Clearing an absent credential is a no-op.
	Clear() error
}

// MemStore keeps the credential in process memory. The zero value is usable.
type MemStore struct {
	mu    sync.Mutex
	token string
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore { return &MemStore{} }

func (m *MemStore) Credential(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemStore) SetCredential(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
