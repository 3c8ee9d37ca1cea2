package ports

import "context"

// SnapshotStore defines the interface for persisting world blackboards.
// A snapshot is the world.Vars contents, keyed by world id.
type SnapshotStore interface {
	// Save persists the snapshot for a given world id.
	Save(ctx context.Context, worldID string, snapshot map[string]any) error

	// Load retrieves the snapshot for a given world id.
	// Returns domain.ErrSnapshotNotFound if the world has no snapshot.
	Load(ctx context.Context, worldID string) (map[string]any, error)

	// Delete removes the snapshot for a given world id.
	Delete(ctx context.Context, worldID string) error

	// List returns the ids of worlds with a stored snapshot.
	List(ctx context.Context) ([]string, error)
}
