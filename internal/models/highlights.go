package models

import (
	"time"
)

// HighlightEntry is one security's single-day performance line.
type HighlightEntry struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name,omitempty"`
	Open      float64 `json:"open"`
	Close     float64 `json:"close"`
	ChangePct float64 `json:"change_pct"`
	Volume    int64   `json:"volume"`
}

// DayHighlights aggregates one trading day across the catalog. A day's
// highlights are cached under their date key and never rebuilt once
// written.
type DayHighlights struct {
	Date              string           `json:"date"` // YYYY-MM-DD cache key
	Entries           []HighlightEntry `json:"entries"`
	TopGainers        []HighlightEntry `json:"top_gainers"`
	TopLosers         []HighlightEntry `json:"top_losers"`
	TopVolume         []HighlightEntry `json:"top_volume"`
	HonorableMentions []HighlightEntry `json:"honorable_mentions,omitempty"`
	GeneratedAt       time.Time        `json:"generated_at"`
}
