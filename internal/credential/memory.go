package credential

import (
	"context"
	"sync"
)

// Memory is a Credential Gate holding the hash in process memory. It
// backs memory storage mode and the offline admin gate.
type Memory struct {
	mu   sync.RWMutex
	hash string
}

// NewMemory returns a gate with password set. An empty password leaves
// the gate unconfigured.
func NewMemory(password string) (*Memory, error) {
	m := &Memory{}
	if password == "" {
		return m, nil
	}
	if err := m.Reset(context.Background(), password); err != nil {
		return nil, err
	}
	return m, nil
}

// Authenticate checks password against the held hash.
func (m *Memory) Authenticate(_ context.Context, password string) error {
	m.mu.RLock()
	hash := m.hash
	m.mu.RUnlock()

	if hash == "" {
		return ErrNotConfigured
	}
	return CheckPassword(hash, password)
}

// Change replaces the hash after verifying current.
func (m *Memory) Change(ctx context.Context, current, next string) error {
	if err := CheckLength(next); err != nil {
		return err
	}
	if err := m.Authenticate(ctx, current); err != nil {
		return err
	}
	return m.Reset(ctx, next)
}

// Reset sets the password unconditionally.
func (m *Memory) Reset(_ context.Context, password string) error {
	if err := CheckLength(password); err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.hash = hash
	m.mu.Unlock()
	return nil
}
