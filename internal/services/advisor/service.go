// Package advisor runs analysis passes over the catalog and holdings
package advisor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MedNourS/Bourstad-Helper/internal/common"
	"github.com/MedNourS/Bourstad-Helper/internal/interfaces"
	"github.com/MedNourS/Bourstad-Helper/internal/models"
	"github.com/MedNourS/Bourstad-Helper/internal/recommend"
	"github.com/MedNourS/Bourstad-Helper/internal/symbols"
)

// Service implements AdvisorService
type Service struct {
	catalog interfaces.CatalogService
	market  interfaces.MarketService
	portal  interfaces.PortalClient
	logger  *common.Logger
}

// NewService creates a new advisor service. The portal client may be
// nil when no credentials are configured; in that case the pass skips
// the holdings analysis.
func NewService(catalog interfaces.CatalogService, market interfaces.MarketService, portal interfaces.PortalClient, logger *common.Logger) *Service {
	return &Service{
		catalog: catalog,
		market:  market,
		portal:  portal,
		logger:  logger,
	}
}

// Analyze runs one full pass: resolve the catalog, map identifiers,
// collect snapshots through the cache, evaluate every security, and
// with a usable session cross-reference the user's holdings. Missing
// pieces degrade the report instead of failing it.
func (s *Service) Analyze(ctx context.Context, session *models.Session) (*models.AnalysisReport, error) {
	runID := uuid.NewString()

	entries, err := s.catalog.Entries(ctx, session)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		s.logger.Warn().Str("run_id", runID).Msg("No catalog available, report will be empty")
	}

	ids := symbols.MapAll(entries)
	snaps := s.market.SnapshotBatch(ctx, ids)
	recs := recommend.EvaluateAll(snaps)

	report := &models.AnalysisReport{
		RunID:           runID,
		GeneratedAt:     time.Now(),
		CatalogSize:     len(entries),
		Snapshots:       len(snaps),
		Recommendations: recs,
	}

	if session.Valid() && s.portal != nil {
		positions, err := s.portal.GetHoldings(ctx, session)
		if err != nil {
			s.logger.Warn().Str("run_id", runID).Err(err).Msg("Failed to fetch holdings, skipping owned analysis")
		} else if len(positions) > 0 {
			report.Decisions = recommend.EvaluateOwnedAll(positions, recommend.Index(recs))
		}
	}

	s.logger.Info().
		Str("run_id", runID).
		Int("catalog", report.CatalogSize).
		Int("snapshots", report.Snapshots).
		Int("recommendations", len(report.Recommendations)).
		Int("decisions", len(report.Decisions)).
		Msg("Analysis pass complete")

	return report, nil
}

// Ensure Service implements AdvisorService
var _ interfaces.AdvisorService = (*Service)(nil)
