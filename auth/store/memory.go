package store

import (
	"context"
	"sync"

	"github.com/sistematransporte/transporte-go/auth"
)

// MemoryStore is a volatile auth.Store for tests and ephemeral processes.
type MemoryStore struct {
	mu        sync.Mutex
	tokens    auth.Tokens
	principal *auth.Principal
	present   bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(ctx context.Context, tokens auth.Tokens, principal *auth.Principal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens = tokens
	m.principal = principal
	m.present = true
	return nil
}

func (m *MemoryStore) Load(ctx context.Context) (auth.Tokens, *auth.Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.present {
		return auth.Tokens{}, nil, nil
	}
	return m.tokens, m.principal, nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens = auth.Tokens{}
	m.principal = nil
	m.present = false
	return nil
}
