package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/onclick/pkg/adapters/memory"
	"github.com/aretw0/onclick/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskMiddleware(t *testing.T) {
	underlying := memory.NewStore()
	mw, err := middleware.NewMaskMiddleware([]string{"(?i)password", "^token$"})
	require.NoError(t, err)
	store := mw(underlying)
	ctx := context.Background()

	snapshot := map[string]any{
		"user_password": "hunter2",
		"token":         "abc",
		"clicks":        2,
		"profile":       map[string]any{"Password": "x", "name": "ann"},
	}
	require.NoError(t, store.Save(ctx, "lobby", snapshot))

	loaded, err := underlying.Load(ctx, "lobby")
	require.NoError(t, err)
	assert.Equal(t, middleware.Mask, loaded["user_password"])
	assert.Equal(t, middleware.Mask, loaded["token"])
	assert.Equal(t, 2, loaded["clicks"])
	profile := loaded["profile"].(map[string]any)
	assert.Equal(t, middleware.Mask, profile["Password"])
	assert.Equal(t, "ann", profile["name"])

	assert.Equal(t, "hunter2", snapshot["user_password"], "caller snapshot untouched")
	assert.Equal(t, "x", snapshot["profile"].(map[string]any)["Password"])
}

func TestMaskMiddleware_InvalidPattern(t *testing.T) {
	_, err := middleware.NewMaskMiddleware([]string{"("})
	assert.Error(t, err)
}

func TestChain_Order(t *testing.T) {
	underlying := memory.NewStore()
	mask, err := middleware.NewMaskMiddleware([]string{"secret"})
	require.NoError(t, err)
	enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: make([]byte, 32)})
	require.NoError(t, err)

	store := middleware.Chain(underlying, mask, enc)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "lobby", map[string]any{"secret": "s", "clicks": 1.0}))

	loaded, err := store.Load(ctx, "lobby")
	require.NoError(t, err)
	assert.Equal(t, middleware.Mask, loaded["secret"])
	assert.Equal(t, 1.0, loaded["clicks"])

	raw, err := underlying.Load(ctx, "lobby")
	require.NoError(t, err)
	assert.Len(t, raw, 1)
}
