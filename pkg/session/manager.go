package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/onclick/internal/logging"
	"github.com/aretw0/onclick/pkg/domain"
	"github.com/aretw0/onclick/pkg/ports"
	"github.com/aretw0/onclick/pkg/world"
)

// Host is a tickable world owner, typically an *onclick.App.
type Host interface {
	World() *world.World
	Tick(ctx context.Context) error
}

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates world access, ensuring a single pass at a time per world.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.SnapshotStore

	mu    sync.Mutex            // guards locks and hosts
	locks map[string]*lockEntry // active locks
	hosts map[string]Host

	locker   ports.DistributedLocker
	lockTTL  time.Duration
	autoSave bool
	logger   *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks. Defaults to 30s.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithAutoSave persists the Vars snapshot after every successful Tick.
func WithAutoSave(enabled bool) Option {
	return func(m *Manager) {
		m.autoSave = enabled
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Manager with the given snapshot store.
func NewManager(store ports.SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		hosts:   make(map[string]Host),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register makes host reachable under worldID, replacing any previous host.
func (m *Manager) Register(worldID string, host Host) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hosts[worldID] = host
}

// Host returns the host registered under worldID.
func (m *Manager) Host(worldID string) (Host, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hosts[worldID]
	return h, ok
}

// Worlds returns the registered world ids in lexical order.
func (m *Manager) Worlds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.hosts))
	for id := range m.hosts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(worldID) after unlocking.
func (m *Manager) acquire(worldID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[worldID]
	if !exists {
		entry = &lockEntry{}
		m.locks[worldID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(worldID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[worldID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, worldID)
	}
}

// WithLock executes fn while holding the critical section for worldID.
func (m *Manager) WithLock(ctx context.Context, worldID string, fn func(context.Context) error) error {
	entry := m.acquire(worldID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(worldID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, worldID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"world_id", worldID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Do runs fn against the host of worldID inside its critical section.
func (m *Manager) Do(ctx context.Context, worldID string, fn func(context.Context, Host) error) error {
	host, ok := m.Host(worldID)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrWorldNotFound, worldID)
	}
	return m.WithLock(ctx, worldID, func(ctx context.Context) error {
		return fn(ctx, host)
	})
}

// Tick runs one frame of the world's schedule.
func (m *Manager) Tick(ctx context.Context, worldID string) error {
	return m.Do(ctx, worldID, func(ctx context.Context, h Host) error {
		if err := h.Tick(ctx); err != nil {
			return err
		}
		if m.autoSave {
			return m.save(ctx, worldID, h)
		}
		return nil
	})
}

// Save persists the world's Vars snapshot.
func (m *Manager) Save(ctx context.Context, worldID string) error {
	return m.Do(ctx, worldID, func(ctx context.Context, h Host) error {
		return m.save(ctx, worldID, h)
	})
}

func (m *Manager) save(ctx context.Context, worldID string, h Host) error {
	snapshot := world.VarsOf(h.World()).Snapshot()
	if err := m.store.Save(ctx, worldID, snapshot); err != nil {
		return fmt.Errorf("failed to save world %s: %w", worldID, err)
	}
	return nil
}

// Load replaces the world's Vars with the stored snapshot.
// It returns domain.ErrSnapshotNotFound when nothing was saved yet.
func (m *Manager) Load(ctx context.Context, worldID string) error {
	return m.Do(ctx, worldID, func(ctx context.Context, h Host) error {
		snapshot, err := m.store.Load(ctx, worldID)
		if err != nil {
			return err
		}
		world.VarsOf(h.World()).Restore(snapshot)
		return nil
	})
}

// Resume loads the stored snapshot if there is one. It reports whether
// anything was restored.
func (m *Manager) Resume(ctx context.Context, worldID string) (bool, error) {
	err := m.Load(ctx, worldID)
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the stored snapshot and unregisters the host.
func (m *Manager) Delete(ctx context.Context, worldID string) error {
	return m.WithLock(ctx, worldID, func(ctx context.Context) error {
		m.mu.Lock()
		delete(m.hosts, worldID)
		m.mu.Unlock()
		return m.store.Delete(ctx, worldID)
	})
}

// List returns the world ids known to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}
