package middleware_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/persistence/middleware"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	underlyingStore := NewMockStore()
	mw, err := middleware.NewPIIMiddleware([]string{"password", "ssn"})
	require.NoError(t, err)
	secureStore := mw(underlyingStore)

	ctx := context.Background()
	sessionID := "pii-session"
	snap := domain.NewScopeSnapshot()
	snap.Variables["username"] = "jdoe"
	snap.Variables["user_password"] = "secret123"
	snap.Storage["details"] = map[string]any{
		"address":    "123 St",
		"ssn_number": "999-99-9999",
	}
	snap.Storage["safe_data"] = "public"

	require.NoError(t, secureStore.Save(ctx, sessionID, snap))

	// The caller's snapshot is untouched.
	assert.Equal(t, "secret123", snap.Variables["user_password"])
	assert.Equal(t, "999-99-9999", snap.Storage["details"].(map[string]any)["ssn_number"])

	stored, err := underlyingStore.Load(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", stored.Variables["username"])
	assert.Equal(t, middleware.Mask, stored.Variables["user_password"])
	assert.Equal(t, "public", stored.Storage["safe_data"])

	details := stored.Storage["details"].(map[string]any)
	assert.Equal(t, middleware.Mask, details["ssn_number"])
	assert.Equal(t, "123 St", details["address"])
}

func TestPIIMiddleware_InvalidPattern(t *testing.T) {
	_, err := middleware.NewPIIMiddleware([]string{"("})
	assert.Error(t, err)
}

func TestChain_OuterFirst(t *testing.T) {
	underlyingStore := NewMockStore()
	pii, err := middleware.NewPIIMiddleware([]string{"secret"})
	require.NoError(t, err)
	enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	require.NoError(t, err)

	store := middleware.Chain(underlyingStore, pii, enc)
	ctx := context.Background()
	snap := domain.NewScopeSnapshot()
	snap.Variables["secret"] = "x"
	require.NoError(t, store.Save(ctx, "s", snap))

	loaded, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, middleware.Mask, loaded.Variables["secret"], "masking happens before encryption")
}
