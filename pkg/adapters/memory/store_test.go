package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/onclick/pkg/adapters/memory"
	"github.com/aretw0/onclick/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSnapshotStoreContract(t, store)
}

func TestMemoryStore_DeepCopy(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	nested := map[string]any{"hp": int64(10)}
	require.NoError(t, store.Save(ctx, "w", map[string]any{"player": nested, "tags": []any{"a"}}))
	nested["hp"] = int64(0)

	loaded, err := store.Load(ctx, "w")
	require.NoError(t, err)
	assert.Equal(t, int64(10), loaded["player"].(map[string]any)["hp"])

	loaded["tags"].([]any)[0] = "mutated"
	again, err := store.Load(ctx, "w")
	require.NoError(t, err)
	assert.Equal(t, "a", again["tags"].([]any)[0])
}
