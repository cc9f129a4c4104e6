// Package interfaces defines service contracts for the Bourstad helper
package interfaces

import (
	"context"
	"time"

	"github.com/MedNourS/Bourstad-Helper/internal/models"
)

// CatalogService manages the security catalog and its offline snapshots.
type CatalogService interface {
	// Refresh fetches the catalog from the portal and persists the
	// fallback snapshot on success
	Refresh(ctx context.Context, session *models.Session) ([]models.CatalogEntry, error)

	// Load reads the last catalog snapshot from disk
	Load(ctx context.Context) ([]models.CatalogEntry, error)

	// Entries resolves the catalog: refresh when a session is usable,
	// otherwise (or on refresh failure) the disk snapshot
	Entries(ctx context.Context, session *models.Session) ([]models.CatalogEntry, error)

	// FetchDetails scrapes transaction pages for the given ids, saving
	// raw page captures and the parsed detail set
	FetchDetails(ctx context.Context, session *models.Session, ids []models.SecurityID) ([]models.SecurityDetail, error)

	// RebuildDetails re-parses the captured pages on disk into a fresh
	// detail set, without touching the portal
	RebuildDetails(ctx context.Context) ([]models.SecurityDetail, error)

	// LoadDetails reads the persisted detail set
	LoadDetails(ctx context.Context) ([]models.SecurityDetail, error)
}

// MarketService is the read-through market data cache.
type MarketService interface {
	// Snapshot returns the cached snapshot for a mapped symbol,
	// fetching from the provider on miss
	Snapshot(ctx context.Context, id models.SecurityID) (*models.MarketSnapshot, error)

	// SnapshotBatch resolves snapshots for every mapped id, skipping
	// per-symbol failures
	SnapshotBatch(ctx context.Context, ids []models.SecurityID) []*models.MarketSnapshot

	// Highlights returns one day's market highlights, building and
	// caching them on first request for that date
	Highlights(ctx context.Context, date time.Time, entries []models.CatalogEntry) (*models.DayHighlights, error)
}

// AdvisorService runs full analysis passes over catalog and holdings.
type AdvisorService interface {
	// Analyze produces the recommendation report for one pass; with a
	// usable session it also cross-references owned positions
	Analyze(ctx context.Context, session *models.Session) (*models.AnalysisReport, error)
}
