package cli

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/onclick/internal/adapters/http"
	"github.com/aretw0/onclick/pkg/adapters/file"
	"github.com/aretw0/onclick/pkg/adapters/memory"
	"github.com/aretw0/onclick/pkg/adapters/redis"
	"github.com/aretw0/onclick/pkg/observability"
	"github.com/aretw0/onclick/pkg/persistence/middleware"
	"github.com/aretw0/onclick/pkg/ports"
	"github.com/aretw0/onclick/pkg/scenario"
	"github.com/aretw0/onclick/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"
)

// ServeOptions contains the configuration for the serve command.
type ServeOptions struct {
	Paths         []string
	Addr          string
	Interpreter   string
	CommandsPath  string
	StoreDir      string
	RedisAddr     string
	RedisPass     string
	RedisDB       int
	TTL           time.Duration
	AutoSave      bool
	EncryptionKey string // base64 AES-256 key; snapshots are sealed when set
	Mask          []string
	Log           LogOptions
	Ready         chan<- string // receives the bound address once listening
}

// Serve hosts one world per scenario file behind the HTTP API until ctx is done.
// Scenario ticks are not played; clients drive the worlds.
func Serve(ctx context.Context, opts ServeOptions, logOut io.Writer) error {
	logger, err := createLogger(opts.Log, logOut)
	if err != nil {
		return err
	}

	store, locker, closeStore, err := newPersistence(opts)
	if err != nil {
		return err
	}
	defer closeStore()

	mgrOpts := []session.Option{session.WithLogger(logger), session.WithAutoSave(opts.AutoSave)}
	if locker != nil {
		mgrOpts = append(mgrOpts, session.WithLocker(locker))
	}
	manager := session.NewManager(store, mgrOpts...)

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(observability.WithRegisterer(registry))
	events := httpAdapter.NewEvents(64)

	for _, path := range opts.Paths {
		s, err := scenario.Load(path)
		if err != nil {
			return err
		}
		app, closer, err := newApp(s, opts.Interpreter, opts.CommandsPath, logger.With("world", s.Name),
			withHooks(metrics, events)...)
		if err != nil {
			return err
		}
		defer closer()
		if _, err := s.Build(app); err != nil {
			return err
		}
		manager.Register(s.Name, app)

		resumed, err := manager.Resume(ctx, s.Name)
		if err != nil {
			return fmt.Errorf("failed to resume world %s: %w", s.Name, err)
		}
		logger.Info("World Registered", "world", s.Name, "resumed", resumed)
	}

	handler := httpAdapter.NewHandler(manager,
		httpAdapter.WithEvents(events),
		httpAdapter.WithGatherer(registry),
		httpAdapter.WithLogger(logger),
	)
	srv := &http.Server{Addr: opts.Addr, Handler: handler}

	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", opts.Addr, err)
	}
	logger.Info("Server Started", "addr", ln.Addr().String(), "worlds", len(opts.Paths))
	if opts.Ready != nil {
		opts.Ready <- ln.Addr().String()
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Graceful shutdown did not complete", "err", err)
		return srv.Close()
	}
	logger.Info("Server Stopped")
	return nil
}

func newPersistence(opts ServeOptions) (ports.SnapshotStore, ports.DistributedLocker, func(), error) {
	var (
		store  ports.SnapshotStore
		locker ports.DistributedLocker
		closer = func() {}
	)
	switch {
	case opts.RedisAddr != "":
		client := backend.NewClient(&backend.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPass,
			DB:       opts.RedisDB,
		})
		rs := redis.NewFromClient(client, redis.WithTTL(opts.TTL))
		store, locker = rs, redis.NewLocker(client, "onclick:")
		closer = func() { _ = rs.Close() }
	case opts.StoreDir != "":
		store = file.NewStore(opts.StoreDir)
	default:
		store = memory.NewStore()
	}

	mws, err := storeMiddleware(opts)
	if err != nil {
		closer()
		return nil, nil, nil, err
	}
	return middleware.Chain(store, mws...), locker, closer, nil
}

func storeMiddleware(opts ServeOptions) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(opts.Mask) > 0 {
		mw, err := middleware.NewMaskMiddleware(opts.Mask)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	if opts.EncryptionKey != "" {
		key, err := base64.StdEncoding.DecodeString(opts.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("invalid encryption key: %w", err)
		}
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, fmt.Errorf("invalid encryption key: %w", err)
		}
		mws = append(mws, mw)
	}
	return mws, nil
}
