package models

import (
	"time"
)

// Label is a recommendation verdict on the portal's five-step scale,
// plus Neutral for securities with insufficient data.
type Label string

const (
	LabelStrongBuy  Label = "Strong Buy"
	LabelBuy        Label = "Buy"
	LabelHold       Label = "Hold"
	LabelSell       Label = "Sell"
	LabelStrongSell Label = "Strong Sell"
	LabelNeutral    Label = "Neutral"
)

// ScoreFor maps a label onto the portal's 0-100 conviction slider.
func ScoreFor(label Label) int {
	switch label {
	case LabelStrongBuy:
		return 100
	case LabelBuy:
		return 75
	case LabelSell:
		return 25
	case LabelStrongSell:
		return 0
	default:
		return 50
	}
}

// Recommendation is one derived verdict for a catalog security.
// Recommendations live only for the duration of an analysis pass.
type Recommendation struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name,omitempty"`
	Label  Label  `json:"label"`
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// Decision is one advisory line for an owned position. A position can
// carry several decisions; the rules are additive, not exclusive.
type Decision struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name,omitempty"`
	Label  Label  `json:"label"`
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// AnalysisReport is the in-memory result of one analysis pass. Reports
// are printed, never persisted; RunID ties log lines to the pass that
// produced them.
type AnalysisReport struct {
	RunID           string           `json:"run_id"`
	GeneratedAt     time.Time        `json:"generated_at"`
	CatalogSize     int              `json:"catalog_size"`
	Snapshots       int              `json:"snapshots"`
	Recommendations []Recommendation `json:"recommendations"`
	Decisions       []Decision       `json:"decisions,omitempty"`
}
