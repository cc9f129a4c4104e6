// Package catalog manages the security catalog and its offline snapshots
package catalog

import (
	"context"
	"fmt"

	"github.com/MedNourS/Bourstad-Helper/internal/clients/bourstad"
	"github.com/MedNourS/Bourstad-Helper/internal/common"
	"github.com/MedNourS/Bourstad-Helper/internal/interfaces"
	"github.com/MedNourS/Bourstad-Helper/internal/models"
	"github.com/MedNourS/Bourstad-Helper/internal/storage/cachefs"
)

// Service implements CatalogService
type Service struct {
	portal  interfaces.PortalClient
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new catalog service
func NewService(portal interfaces.PortalClient, storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		portal:  portal,
		storage: storage,
		logger:  logger,
	}
}

// Refresh fetches the catalog from the portal and, when the result is
// non-empty, overwrites the fallback snapshot. An empty fetch leaves
// the previous snapshot untouched.
func (s *Service) Refresh(ctx context.Context, session *models.Session) ([]models.CatalogEntry, error) {
	entries, err := s.portal.GetCatalog(ctx, session)
	if err != nil {
		return nil, err
	}

	if len(entries) > 0 {
		if err := s.storage.Catalog().Save(ctx, entries); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to persist catalog snapshot")
		}
	}

	s.logger.Info().Int("entries", len(entries)).Msg("Catalog refreshed")
	return entries, nil
}

// Load reads the last catalog snapshot from disk. Entries with empty
// identifiers were dropped at parse time.
func (s *Service) Load(ctx context.Context) ([]models.CatalogEntry, error) {
	return s.storage.Catalog().Load(ctx)
}

// Entries resolves the catalog for one pass: a usable session refreshes
// from the portal, anything else falls back to the disk snapshot. The
// live path drops placeholder entries without identifiers.
func (s *Service) Entries(ctx context.Context, session *models.Session) ([]models.CatalogEntry, error) {
	if session.Valid() {
		entries, err := s.Refresh(ctx, session)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Catalog refresh failed, using snapshot")
		} else if usable := dropEmptyIDs(entries); len(usable) > 0 {
			return usable, nil
		}
	}
	return s.Load(ctx)
}

// FetchDetails scrapes the transaction page for every identifier,
// archiving the raw capture and collecting the parsed records. A failed
// symbol is skipped; the parsed set is persisted when non-empty.
func (s *Service) FetchDetails(ctx context.Context, session *models.Session, ids []models.SecurityID) ([]models.SecurityDetail, error) {
	if !session.Valid() {
		return nil, fmt.Errorf("detail fetch requires a session")
	}

	var details []models.SecurityDetail
	for _, id := range ids {
		detail, page, err := s.portal.GetSecurityDetail(ctx, session, id.Native)
		if err != nil {
			s.logger.Warn().Str("symbol", id.Native).Err(err).Msg("Failed to fetch detail page")
			continue
		}

		if err := s.storage.WritePage(id.Native, page); err != nil {
			s.logger.Warn().Str("symbol", id.Native).Err(err).Msg("Failed to archive page capture")
		}
		details = append(details, *detail)
	}

	if len(details) > 0 {
		if err := s.storage.Details().Save(ctx, details); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to persist security details")
		}
	}

	s.logger.Info().Int("requested", len(ids)).Int("parsed", len(details)).Msg("Detail fetch complete")
	return details, nil
}

// RebuildDetails re-parses the archived page captures without touching
// the portal. File names are resolved back to catalog identifiers via
// the snapshot; unknown captures keep their file-derived name.
func (s *Service) RebuildDetails(ctx context.Context) ([]models.SecurityDetail, error) {
	keys, err := s.storage.ListPages()
	if err != nil {
		return nil, err
	}

	nativeByKey := make(map[string]string)
	if entries, err := s.Load(ctx); err == nil {
		for _, entry := range entries {
			nativeByKey[cachefs.SanitizeKey(entry.ID)] = entry.ID
		}
	}

	var details []models.SecurityDetail
	for _, key := range keys {
		page, err := s.storage.ReadPage(key)
		if err != nil {
			s.logger.Warn().Str("page", key).Err(err).Msg("Failed to read page capture")
			continue
		}

		symbol := key
		if native, ok := nativeByKey[key]; ok {
			symbol = native
		}

		detail, err := bourstad.ParseSecurityDetail(symbol, page)
		if err != nil {
			s.logger.Warn().Str("page", key).Err(err).Msg("Failed to parse page capture")
			continue
		}
		details = append(details, *detail)
	}

	if len(details) > 0 {
		if err := s.storage.Details().Save(ctx, details); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to persist security details")
		}
	}

	s.logger.Info().Int("pages", len(keys)).Int("parsed", len(details)).Msg("Details rebuilt from captures")
	return details, nil
}

// LoadDetails reads the persisted detail set.
func (s *Service) LoadDetails(ctx context.Context) ([]models.SecurityDetail, error) {
	return s.storage.Details().Load(ctx)
}

func dropEmptyIDs(entries []models.CatalogEntry) []models.CatalogEntry {
	var usable []models.CatalogEntry
	for _, entry := range entries {
		if entry.ID != "" {
			usable = append(usable, entry)
		}
	}
	return usable
}

// Ensure Service implements CatalogService
var _ interfaces.CatalogService = (*Service)(nil)
