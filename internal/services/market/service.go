// Package market provides the cached market data services
package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/MedNourS/Bourstad-Helper/internal/common"
	"github.com/MedNourS/Bourstad-Helper/internal/interfaces"
	"github.com/MedNourS/Bourstad-Helper/internal/models"
	"github.com/MedNourS/Bourstad-Helper/internal/storage/cachefs"
)

// Service implements MarketService
type Service struct {
	storage  interfaces.StorageManager
	provider interfaces.MarketDataClient
	logger   *common.Logger
}

// NewService creates a new market service
func NewService(storage interfaces.StorageManager, provider interfaces.MarketDataClient, logger *common.Logger) *Service {
	return &Service{
		storage:  storage,
		provider: provider,
		logger:   logger,
	}
}

// Snapshot returns the snapshot for a mapped id, reading through the
// disk cache. A corrupt cache entry is deleted and the symbol refetched
// exactly once; a provider miss is returned as an error and never
// cached, so the next call tries again.
func (s *Service) Snapshot(ctx context.Context, id models.SecurityID) (*models.MarketSnapshot, error) {
	if !id.IsMapped() {
		return nil, fmt.Errorf("%q has no provider mapping", id.Native)
	}

	snap, err := s.storage.Snapshots().Get(ctx, id.Mapped)
	if err == nil {
		return snap, nil
	}
	if cachefs.IsCorrupt(err) {
		s.logger.Warn().Str("symbol", id.Mapped).Err(err).Msg("Corrupt snapshot entry, refetching")
		s.storage.Snapshots().Delete(ctx, id.Mapped)
	} else if !errors.Is(err, cachefs.ErrNotFound) {
		return nil, err
	}

	snap, err = s.provider.GetQuote(ctx, id.Mapped)
	if err != nil {
		return nil, err
	}

	if err := s.storage.Snapshots().Save(ctx, snap); err != nil {
		s.logger.Warn().Str("symbol", id.Mapped).Err(err).Msg("Failed to cache snapshot")
	}
	return snap, nil
}

// SnapshotBatch resolves snapshots for every mapped id in catalog
// order. Unmapped ids and per-symbol failures are skipped; the result
// holds only the symbols that produced a usable snapshot.
func (s *Service) SnapshotBatch(ctx context.Context, ids []models.SecurityID) []*models.MarketSnapshot {
	var snaps []*models.MarketSnapshot
	for _, id := range ids {
		if !id.IsMapped() {
			s.logger.Debug().Str("native", id.Native).Msg("Skipping unmapped symbol")
			continue
		}
		snap, err := s.Snapshot(ctx, id)
		if err != nil {
			s.logger.Debug().Str("symbol", id.Mapped).Err(err).Msg("Skipping symbol without usable data")
			continue
		}
		snaps = append(snaps, snap)
	}

	s.logger.Info().Int("requested", len(ids)).Int("resolved", len(snaps)).Msg("Snapshot batch complete")
	return snaps
}

// Ensure Service implements MarketService
var _ interfaces.MarketService = (*Service)(nil)
