package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	httpAdapter "github.com/aretw0/fsm/pkg/adapters/http"
	"github.com/aretw0/fsm/pkg/adapters/file"
	"github.com/aretw0/fsm/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// shutdownTimeout gives outstanding requests a deadline on shutdown.
const shutdownTimeout = 5 * time.Second

// servedDefinition is the session manager and HTTP adapter built for one definition file.
type servedDefinition struct {
	manager     *session.Manager
	server      *httpAdapter.Server
	persistence *Persistence
}

func (d *servedDefinition) Close() error {
	return d.persistence.Close()
}

// newServedDefinition loads exactly opts.File and wires the store, manager and HTTP adapter.
// With opts.Watch the same file is reloaded whenever it changes.
func newServedDefinition(ctx context.Context, opts ServeOptions, logger *slog.Logger) (*servedDefinition, error) {
	cfg, err := file.LoadFile(opts.File, file.WithValidation(), file.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	persistence, err := OpenStore(opts.Store)
	if err != nil {
		return nil, err
	}

	mgrOpts := append(persistence.ManagerOptions(), session.WithLogger(logger))
	mgr, err := session.NewManager(cfg, persistence.Store, mgrOpts...)
	if err != nil {
		_ = persistence.Close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	server, err := httpAdapter.NewServer(mgr, httpAdapter.WithLogger(logger), httpAdapter.WithRegistry(reg))
	if err != nil {
		_ = persistence.Close()
		return nil, err
	}

	if opts.Watch {
		if err := watchDefinition(ctx, opts.File, mgr, server, logger); err != nil {
			_ = persistence.Close()
			return nil, err
		}
	}
	return &servedDefinition{manager: mgr, server: server, persistence: persistence}, nil
}

// Serve exposes the definition over HTTP until ctx is cancelled.
func Serve(ctx context.Context, opts ServeOptions, logger *slog.Logger) error {
	served, err := newServedDefinition(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer served.Close()

	srv := &http.Server{
		Addr:    opts.Addr,
		Handler: served.server.Routes(),
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "definition", opts.File, "backend", opts.Store.Backend)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		return nil
	}
}

// watchDefinition reloads the definition at path whenever that file changes.
// A definition that fails to load or validate is ignored and the previous one stays active.
func watchDefinition(ctx context.Context, path string, mgr *session.Manager, server *httpAdapter.Server, logger *slog.Logger) error {
	loader := file.NewLoader(filepath.Dir(path), file.WithValidation(), file.WithLogger(logger))
	changes, err := loader.WatchFile(ctx, path)
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	go func() {
		for range changes {
			cfg, err := file.LoadFile(path, file.WithValidation(), file.WithLogger(logger))
			if err != nil {
				logger.Error("reload failed, keeping previous definition", "definition", path, "err", err)
				continue
			}
			if err := mgr.SetConfig(cfg); err != nil {
				logger.Error("reload rejected", "definition", path, "err", err)
				continue
			}
			logger.Info("definition reloaded", "definition", path)
			server.NotifyReload(name)
		}
	}()
	return nil
}
