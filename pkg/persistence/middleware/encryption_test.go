package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/canopy/pkg/adapters/memory"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/persistence/middleware"
	"github.com/aretw0/canopy/pkg/ports"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func encrypted(t *testing.T, config middleware.EncryptionConfig, next ports.ScopeStore) ports.ScopeStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(config)
	require.NoError(t, err)
	return mw(next)
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := NewMockStore()
	secureStore := encrypted(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)}, underlyingStore)

	ctx := context.Background()
	sessionID := "test-session"
	original := domain.NewScopeSnapshot()
	original.Variables["secret"] = "my-secret-sauce"
	original.Storage["token"] = "abc"

	if err := secureStore.Save(ctx, sessionID, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	stored, err := underlyingStore.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}
	if _, ok := stored.Variables["secret"]; ok {
		t.Fatal("Expected variables to be hidden")
	}
	if _, ok := stored.Storage["__encrypted__"]; !ok {
		t.Fatal("Expected __encrypted__ entry in storage")
	}

	loaded, err := secureStore.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Load via middleware failed: %v", err)
	}
	assert.Equal(t, "my-secret-sauce", loaded.Variables["secret"])
	assert.Equal(t, "abc", loaded.Storage["token"])
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := NewMockStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()
	sessionID := "rotation-session"

	storeOld := encrypted(t, middleware.EncryptionConfig{ActiveKey: oldKey}, underlyingStore)
	original := domain.NewScopeSnapshot()
	original.Variables["data"] = "encrypted-with-old-key"
	require.NoError(t, storeOld.Save(ctx, sessionID, original))

	storeNew := encrypted(t, middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	}, underlyingStore)

	loaded, err := storeNew.Load(ctx, sessionID)
	require.NoError(t, err, "fallback key should decrypt")
	assert.Equal(t, "encrypted-with-old-key", loaded.Variables["data"])

	loaded.Variables["data"] = "encrypted-with-new-key"
	require.NoError(t, storeNew.Save(ctx, sessionID, loaded))

	_, err = storeOld.Load(ctx, sessionID)
	assert.Error(t, err, "old key alone cannot read data sealed with the new key")
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	assert.ErrorIs(t, err, middleware.ErrInvalidKey)

	_, err = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    generateKey(t),
		FallbackKeys: [][]byte{[]byte("short")},
	})
	assert.ErrorIs(t, err, middleware.ErrInvalidKey)
}

func TestEncryptionMiddleware_RejectsPlainSnapshots(t *testing.T) {
	underlyingStore := NewMockStore()
	ctx := context.Background()
	require.NoError(t, underlyingStore.Save(ctx, "plain", domain.NewScopeSnapshot()))

	secureStore := encrypted(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)}, underlyingStore)
	_, err := secureStore.Load(ctx, "plain")
	assert.ErrorContains(t, err, "missing encrypted data envelope")

	_, err = secureStore.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	ports.RunScopeStoreContract(t, encrypted(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)}, memory.NewStore()))
}
