package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/photodesk/photodesk/internal/auth"
	"github.com/photodesk/photodesk/internal/collection"
	"github.com/photodesk/photodesk/internal/config"
	"github.com/photodesk/photodesk/internal/editing"
	"github.com/photodesk/photodesk/internal/gateway"
	"github.com/photodesk/photodesk/internal/mutation"
	"github.com/photodesk/photodesk/internal/sharing"
	"github.com/photodesk/photodesk/internal/snapshot"
	"github.com/photodesk/photodesk/internal/watermark"
	"github.com/photodesk/photodesk/pkg/logging"
)

// Runtime wires the client subsystems together: the gateway and auth
// collaborators, the collection store and selection, and the mutation
// coordinator. Edit and share sessions are created per workflow.
type Runtime struct {
	Config    *config.Config
	Logger    *slog.Logger
	Auth      *auth.Client
	Gateway   gateway.Gateway
	Snapshots *snapshot.Cache
	Store     *collection.Store
	Selection *collection.SelectionSet
	Mutations *mutation.Coordinator
	Watermark *watermark.System
}

// NewRuntime builds the full client runtime from configuration.
func NewRuntime(cfg *config.Config) (*Runtime, error) {
	logger := logging.New(&cfg.Logging)

	authClient, err := auth.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.TimeoutDuration(), logger)
	if err != nil {
		return nil, fmt.Errorf("auth init failed: %w", err)
	}

	gw, err := gateway.NewHTTP(&cfg.Gateway, authClient, logger)
	if err != nil {
		return nil, fmt.Errorf("gateway init failed: %w", err)
	}

	cache, err := snapshot.New(&cfg.Snapshot, logger)
	if err != nil {
		return nil, fmt.Errorf("snapshot cache init failed: %w", err)
	}

	store := collection.NewStore(gw, logger, cfg.Pagination, cache)
	selection := collection.NewSelectionSet()

	// The store never touches the selection itself; pruning dangling ids
	// after each successful fetch is wired here.
	store.OnRefresh(func(images []collection.Image) {
		ids := make([]string, 0, len(images))
		for _, img := range images {
			ids = append(ids, img.ID)
		}
		selection.Prune(ids)
	})

	return &Runtime{
		Config:    cfg,
		Logger:    logger,
		Auth:      authClient,
		Gateway:   gw,
		Snapshots: cache,
		Store:     store,
		Selection: selection,
		Mutations: mutation.NewCoordinator(gw, store, selection, logger, cfg.Upload),
		Watermark: watermark.NewSystem(gw, logger),
	}, nil
}

// EditImage starts an edit session for the given image. Committing the
// session refreshes the collection.
func (r *Runtime) EditImage(imageID string) *editing.Session {
	return editing.NewSession(r.Gateway, r.Logger, imageID, func(ctx context.Context) {
		if err := r.Store.Fetch(ctx); err != nil {
			r.Logger.Warn("post-commit refresh failed", "error", err)
		}
	})
}

// ShareDialog starts a share session.
func (r *Runtime) ShareDialog() *sharing.Session {
	return sharing.NewSession(r.Gateway, r.Logger, r.Config.Share)
}

// Close releases held resources.
func (r *Runtime) Close() error {
	return r.Snapshots.Close()
}
