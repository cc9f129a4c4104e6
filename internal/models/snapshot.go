package models

import (
	"time"
)

// MarketSnapshot is the normalized per-symbol quote cached on disk.
// Pointer fields distinguish "provider did not supply this value" (nil)
// from a genuine zero; only the provider normalization or a cache decode
// constructs these.
type MarketSnapshot struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name,omitempty"`
	Currency      string    `json:"currency,omitempty"`
	Exchange      string    `json:"exchange,omitempty"`
	CurrentPrice  *float64  `json:"current_price,omitempty"`
	MarketCap     *float64  `json:"market_cap,omitempty"`
	High52Week    *float64  `json:"high_52_week,omitempty"`
	Low52Week     *float64  `json:"low_52_week,omitempty"`
	PE            *float64  `json:"pe_ratio,omitempty"`
	EPS           *float64  `json:"eps,omitempty"`
	DividendYield *float64  `json:"dividend_yield,omitempty"`
	Volume        *int64    `json:"volume,omitempty"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// DailyBar is a single day's open/close/volume for one symbol.
type DailyBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Float64 returns a pointer to v, for building optional snapshot fields.
func Float64(v float64) *float64 { return &v }

// Int64 returns a pointer to v, for building optional snapshot fields.
func Int64(v int64) *int64 { return &v }
