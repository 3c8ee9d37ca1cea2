package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/onclick/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore
// implementation adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	worldID := "contract-test-world-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snapshot := map[string]any{
			"screen": "menu",
			"clicks": int64(42),
		}

		err := store.Save(ctx, worldID, snapshot)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, worldID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "menu", loaded["screen"])
		// JSON-backed stores may decode numbers as float64; only presence is required.
		assert.NotNil(t, loaded["clicks"])
	})

	t.Run("Load is isolated from the caller", func(t *testing.T) {
		snapshot := map[string]any{"screen": "menu"}
		require.NoError(t, store.Save(ctx, worldID, snapshot))
		snapshot["screen"] = "mutated"

		loaded, err := store.Load(ctx, worldID)
		require.NoError(t, err)
		assert.Equal(t, "menu", loaded["screen"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+worldID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, worldID, map[string]any{"a": "b"}))

		err := store.Delete(ctx, worldID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, worldID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := worldID + "-1"
		id2 := worldID + "-2"
		_ = store.Save(ctx, id1, map[string]any{})
		_ = store.Save(ctx, id2, map[string]any{})

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
