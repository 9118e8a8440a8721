// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package layerscout

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/poiesic/layerscout/catalog"
	"github.com/poiesic/layerscout/core"
	"github.com/poiesic/layerscout/session"
	"github.com/poiesic/layerscout/storage"
	"github.com/poiesic/layerscout/storage/badger"
)

var (
	// ErrPathRequired is returned when a workspace is created without a catalog path.
	ErrPathRequired = errors.New("catalog path required")

	// ErrCacheDisabled is returned by cache maintenance when no cache is configured.
	ErrCacheDisabled = errors.New("catalog cache disabled")
)

// Workspace owns one catalog and hands out sessions over it.
type Workspace struct {
	path        string
	source      core.ID
	store       *catalog.Store
	backend     *badger.Backend
	cache       storage.CatalogRepository
	sessionOpts []session.Option
	logger      *slog.Logger
}

// Option configures a Workspace.
type Option func(*workspaceOptions)

type workspaceOptions struct {
	cacheDir    string
	memoryCache bool
	sessionOpts []session.Option
	logger      *slog.Logger
}

// WithCacheDir keeps parsed catalogs in a BadgerDB directory, keyed by the
// content hash of the source file. Empty disables the cache.
func WithCacheDir(dir string) Option {
	return func(o *workspaceOptions) {
		o.cacheDir = dir
	}
}

// WithMemoryCache uses an in-memory cache, mostly useful in tests.
func WithMemoryCache() Option {
	return func(o *workspaceOptions) {
		o.memoryCache = true
	}
}

// WithSessionOptions sets the options applied to every new session.
func WithSessionOptions(opts ...session.Option) Option {
	return func(o *workspaceOptions) {
		o.sessionOpts = append(o.sessionOpts, opts...)
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *workspaceOptions) {
		o.logger = logger
	}
}

// New creates a workspace for the catalog at path without loading it.
// Sessions handed out before Load completes report core.ErrCatalogNotReady.
func New(path string, opts ...Option) (*Workspace, error) {
	if path == "" {
		return nil, ErrPathRequired
	}

	options := &workspaceOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	ws := &Workspace{
		path:        path,
		store:       catalog.NewStore(catalog.WithLogger(options.logger)),
		sessionOpts: options.sessionOpts,
		logger:      options.logger,
	}

	if options.cacheDir != "" || options.memoryCache {
		backend, err := badger.OpenBackend(options.cacheDir, options.memoryCache, badger.WithLogger(options.logger))
		if err != nil {
			return nil, fmt.Errorf("open catalog cache: %w", err)
		}
		ws.backend = backend
		ws.cache = badger.NewCatalogRepository(backend)
	}

	return ws, nil
}

// Open creates a workspace and loads its catalog.
func Open(ctx context.Context, path string, opts ...Option) (*Workspace, error) {
	ws, err := New(path, opts...)
	if err != nil {
		return nil, err
	}
	if err := ws.Load(ctx); err != nil {
		ws.Close()
		return nil, err
	}
	return ws, nil
}

// Load reads the catalog file, preferring a cached parse of identical
// content, and loads it into the store. It may only succeed once.
func (ws *Workspace) Load(ctx context.Context) error {
	data, err := os.ReadFile(ws.path)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	source := core.IDFromContent(string(data))

	records, ok := ws.cached(ctx, source)
	if !ok {
		records, err = catalog.ReadDelimited(bytes.NewReader(data), catalog.DelimiterFor(ws.path))
		if err != nil {
			return fmt.Errorf("parse catalog: %w", err)
		}
		ws.saveCache(ctx, source, records)
	}

	if err := ws.store.Load(records); err != nil {
		return err
	}
	ws.source = source
	return nil
}

// cached returns the records stored for source. Any cache failure is
// treated as a miss so a broken cache never blocks loading.
func (ws *Workspace) cached(ctx context.Context, source core.ID) ([]core.CatalogRecord, bool) {
	if ws.cache == nil {
		return nil, false
	}

	records, info, err := ws.cache.LoadCatalog(ctx, source)
	switch {
	case err == nil:
		ws.logger.Debug("catalog cache hit", "source", source, "records", info.Count, "stored_at", info.StoredAt)
		return records, true
	case errors.Is(err, storage.ErrNotFound):
		ws.logger.Debug("catalog cache miss", "source", source)
	default:
		ws.logger.Warn("catalog cache unreadable", "source", source, "err", err)
	}
	return nil, false
}

func (ws *Workspace) saveCache(ctx context.Context, source core.ID, records []core.CatalogRecord) {
	if ws.cache == nil || len(records) == 0 {
		return
	}
	if _, err := ws.cache.SaveCatalog(ctx, source, records); err != nil {
		ws.logger.Warn("failed to cache catalog", "source", source, "err", err)
	}
}

// CachedCatalogs lists the snapshots held in the cache.
func (ws *Workspace) CachedCatalogs(ctx context.Context) ([]*core.CatalogInfo, error) {
	if ws.cache == nil {
		return nil, ErrCacheDisabled
	}
	return ws.cache.ListCatalogs(ctx)
}

// PruneCache deletes every cached snapshot except the one for the loaded
// catalog and returns how many were removed.
func (ws *Workspace) PruneCache(ctx context.Context) (int, error) {
	infos, err := ws.CachedCatalogs(ctx)
	if err != nil {
		return 0, err
	}
	if !ws.Loaded() {
		return 0, core.ErrCatalogNotReady
	}

	removed := 0
	for _, info := range infos {
		if info.Source == ws.source {
			continue
		}
		if err := ws.cache.DeleteCatalog(ctx, info.Source); err != nil {
			return removed, fmt.Errorf("delete snapshot %d: %w", info.Source, err)
		}
		removed++
	}
	ws.logger.Info("pruned catalog cache", "removed", removed, "kept", len(infos)-removed)
	return removed, nil
}

// NewSession creates a session over the workspace catalog.
func (ws *Workspace) NewSession() (*session.Session, error) {
	return session.New(ws.store, ws.sessionOpts...)
}

// Store returns the workspace catalog.
func (ws *Workspace) Store() *catalog.Store {
	return ws.store
}

// Loaded reports whether the catalog has been loaded.
func (ws *Workspace) Loaded() bool {
	return ws.store.Loaded()
}

// Len returns the number of catalog records.
func (ws *Workspace) Len() int {
	return ws.store.Len()
}

// Fingerprint returns the catalog content hash, or 0 before Load.
func (ws *Workspace) Fingerprint() core.ID {
	return ws.store.Fingerprint()
}

// Close releases the cache, if any.
func (ws *Workspace) Close() error {
	if ws.cache == nil {
		return nil
	}
	if err := ws.cache.Close(); err != nil {
		ws.logger.Error("error closing catalog cache", "err", err)
		return err
	}
	if err := ws.backend.Close(); err != nil {
		ws.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
