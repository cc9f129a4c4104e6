// Package interfaces defines service contracts for the Bourstad helper
package interfaces

import (
	"context"

	"github.com/MedNourS/Bourstad-Helper/internal/models"
)

// StorageManager coordinates the on-disk storage areas.
type StorageManager interface {
	// Storage accessors
	Snapshots() SnapshotStorage
	Highlights() HighlightsStorage
	Catalog() CatalogStorage
	Details() DetailStorage

	// WritePage saves a raw portal page capture atomically.
	WritePage(symbol string, data []byte) error

	// ReadPage loads a raw portal page capture.
	ReadPage(symbol string) ([]byte, error)

	// ListPages returns the symbols with captured pages on disk.
	ListPages() ([]string, error)

	// DataPath returns the base data directory path.
	DataPath() string

	// Lifecycle
	Close() error
}

// SnapshotStorage is the per-symbol market snapshot cache. Reads of
// missing entries fail with cachefs.ErrNotFound; undecodable entries
// fail with a *cachefs.CorruptEntryError and are left in place for the
// caller to deal with.
type SnapshotStorage interface {
	// Get retrieves a cached snapshot by provider symbol
	Get(ctx context.Context, symbol string) (*models.MarketSnapshot, error)

	// Save persists a snapshot atomically
	Save(ctx context.Context, snap *models.MarketSnapshot) error

	// Delete removes a cached snapshot, best effort
	Delete(ctx context.Context, symbol string)
}

// HighlightsStorage is the per-date market highlights cache, keyed by
// YYYY-MM-DD. Same error contract as SnapshotStorage.
type HighlightsStorage interface {
	// Get retrieves one day's highlights
	Get(ctx context.Context, date string) (*models.DayHighlights, error)

	// Save persists one day's highlights atomically
	Save(ctx context.Context, hl *models.DayHighlights) error

	// Delete removes one day's highlights, best effort
	Delete(ctx context.Context, date string)
}

// CatalogStorage persists the catalog fallback snapshot. Load returns
// an empty result when no snapshot exists yet.
type CatalogStorage interface {
	Save(ctx context.Context, entries []models.CatalogEntry) error
	Load(ctx context.Context) ([]models.CatalogEntry, error)
}

// DetailStorage persists the parsed security details for offline use.
// Load returns an empty result when no details were saved yet.
type DetailStorage interface {
	Save(ctx context.Context, details []models.SecurityDetail) error
	Load(ctx context.Context) ([]models.SecurityDetail, error)
}
