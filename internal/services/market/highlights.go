package market

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/MedNourS/Bourstad-Helper/internal/models"
	"github.com/MedNourS/Bourstad-Helper/internal/storage/cachefs"
	"github.com/MedNourS/Bourstad-Helper/internal/symbols"
)

const (
	topCount = 3

	// Honorable-mention thresholds: absolute daily move above 5% or
	// more than a million shares traded.
	mentionChangePct = 5.0
	mentionVolume    = int64(1_000_000)
)

// Highlights returns the highlights for a date, building and caching
// them on first request. A cached day is immutable: later calls return
// the stored set even after the market has moved, so "that day's
// highlights" stays a point-in-time record.
func (s *Service) Highlights(ctx context.Context, date time.Time, entries []models.CatalogEntry) (*models.DayHighlights, error) {
	key := date.Format("2006-01-02")

	cached, err := s.storage.Highlights().Get(ctx, key)
	if err == nil {
		return cached, nil
	}
	if cachefs.IsCorrupt(err) {
		s.logger.Warn().Str("date", key).Err(err).Msg("Corrupt highlights entry, rebuilding")
		s.storage.Highlights().Delete(ctx, key)
	} else if !errors.Is(err, cachefs.ErrNotFound) {
		return nil, err
	}

	hl := s.buildHighlights(ctx, date, key, entries)
	if err := s.storage.Highlights().Save(ctx, hl); err != nil {
		s.logger.Warn().Str("date", key).Err(err).Msg("Failed to cache highlights")
	}
	return hl, nil
}

// buildHighlights collects one daily bar per mapped catalog entry and
// ranks the results. Symbols without a mapping or without a bar for the
// day are skipped.
func (s *Service) buildHighlights(ctx context.Context, date time.Time, key string, entries []models.CatalogEntry) *models.DayHighlights {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	hl := &models.DayHighlights{Date: key}
	for _, entry := range entries {
		mapped, ok := symbols.Map(entry.ID)
		if !ok {
			continue
		}

		bars, err := s.provider.GetDailyBars(ctx, mapped, dayStart, dayEnd)
		if err != nil || len(bars) == 0 {
			s.logger.Debug().Str("symbol", mapped).Str("date", key).Msg("No bar for day, skipping")
			continue
		}

		bar := bars[0]
		if bar.Open == 0 {
			continue
		}

		hl.Entries = append(hl.Entries, models.HighlightEntry{
			Symbol:    mapped,
			Name:      entry.Name,
			Open:      bar.Open,
			Close:     bar.Close,
			ChangePct: (bar.Close - bar.Open) / bar.Open * 100,
			Volume:    bar.Volume,
		})
	}

	rankHighlights(hl)

	s.logger.Info().Str("date", key).Int("entries", len(hl.Entries)).Msg("Highlights built")
	return hl
}

// rankHighlights fills the top-three boards and the honorable mentions
// from the collected entries.
func rankHighlights(hl *models.DayHighlights) {
	byChangeDesc := append([]models.HighlightEntry(nil), hl.Entries...)
	sort.Slice(byChangeDesc, func(i, j int) bool { return byChangeDesc[i].ChangePct > byChangeDesc[j].ChangePct })
	hl.TopGainers = head(byChangeDesc, topCount)

	byChangeAsc := append([]models.HighlightEntry(nil), hl.Entries...)
	sort.Slice(byChangeAsc, func(i, j int) bool { return byChangeAsc[i].ChangePct < byChangeAsc[j].ChangePct })
	hl.TopLosers = head(byChangeAsc, topCount)

	byVolume := append([]models.HighlightEntry(nil), hl.Entries...)
	sort.Slice(byVolume, func(i, j int) bool { return byVolume[i].Volume > byVolume[j].Volume })
	hl.TopVolume = head(byVolume, topCount)

	for _, e := range hl.Entries {
		if math.Abs(e.ChangePct) > mentionChangePct || e.Volume > mentionVolume {
			hl.HonorableMentions = append(hl.HonorableMentions, e)
		}
	}
}

func head(entries []models.HighlightEntry, n int) []models.HighlightEntry {
	if len(entries) < n {
		n = len(entries)
	}
	return entries[:n]
}
