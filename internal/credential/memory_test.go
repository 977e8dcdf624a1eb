package credential

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUnconfigured(t *testing.T) {
	m, err := NewMemory("")
	require.NoError(t, err)
	assert.ErrorIs(t, m.Authenticate(context.Background(), "x"), ErrNotConfigured)
}

func TestMemoryGate(t *testing.T) {
	ctx := context.Background()
	m, err := NewMemory("admin123")
	require.NoError(t, err)

	assert.NoError(t, m.Authenticate(ctx, "admin123"))
	assert.ErrorIs(t, m.Authenticate(ctx, "nope"), ErrInvalidPassword)

	assert.ErrorIs(t, m.Change(ctx, "admin123", "short"), ErrPasswordTooShort)
	assert.ErrorIs(t, m.Change(ctx, "nope", "longenough"), ErrInvalidPassword)
	require.NoError(t, m.Change(ctx, "admin123", "longenough"))

	assert.ErrorIs(t, m.Authenticate(ctx, "admin123"), ErrInvalidPassword)
	assert.NoError(t, m.Authenticate(ctx, "longenough"))
}

func TestNewMemoryRejectsShort(t *testing.T) {
	_, err := NewMemory("abc")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}
