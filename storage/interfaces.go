package storage

import (
	"context"

	"github.com/poiesic/layerscout/core"
)

// CatalogRepository caches parsed catalogs keyed by the content hash of
// their tabular source, so an unchanged file is not parsed twice.
// Implementations must be thread-safe and support concurrent access.
type CatalogRepository interface {
	// SaveCatalog stores records in order under source, replacing any
	// snapshot already stored for it.
	SaveCatalog(ctx context.Context, source core.ID, records []core.CatalogRecord) (*core.CatalogInfo, error)

	// LoadCatalog returns the records stored under source in their saved order.
	// Returns ErrNotFound if no snapshot exists.
	LoadCatalog(ctx context.Context, source core.ID) ([]core.CatalogRecord, *core.CatalogInfo, error)

	// GetCatalogInfo returns the snapshot info for source.
	// Returns ErrNotFound if no snapshot exists.
	GetCatalogInfo(ctx context.Context, source core.ID) (*core.CatalogInfo, error)

	// ListCatalogs returns the info of every stored snapshot.
	ListCatalogs(ctx context.Context) ([]*core.CatalogInfo, error)

	// DeleteCatalog removes the snapshot for source.
	// Returns ErrNotFound if no snapshot exists.
	DeleteCatalog(ctx context.Context, source core.ID) error

	// Close releases resources held by the repository.
	Close() error
}
