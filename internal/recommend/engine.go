// Package recommend derives rule-based trade guidance from market
// snapshots and portal holdings. Everything here is pure: same inputs,
// same verdicts, no I/O.
package recommend

import (
	"fmt"

	"github.com/MedNourS/Bourstad-Helper/internal/models"
)

// Proximity bands against the 52-week range.
const (
	strongBuyBand  = 1.10 // within 10% above the 52-week low
	buyBand        = 1.20 // within 20% above the 52-week low
	strongSellBand = 0.90 // within 10% below the 52-week high
	sellBand       = 0.80 // within 20% below the 52-week high
)

// Valuation thresholds for the fundamentals annotations.
const (
	lowPE        = 15.0
	highPE       = 30.0
	goodDivYield = 0.03
)

// Evaluate scores one security by where its price sits inside its
// 52-week range. A security missing price or range data (or reporting
// zeros) scores Neutral rather than being dropped from the pass.
// The low-side bands are checked before the high-side ones, and the
// strong band before its plain counterpart.
func Evaluate(snap *models.MarketSnapshot) models.Recommendation {
	if snap == nil {
		return models.Recommendation{
			Label:  models.LabelNeutral,
			Score:  models.ScoreFor(models.LabelNeutral),
			Reason: "insufficient data",
		}
	}

	rec := models.Recommendation{Symbol: snap.Symbol, Name: snap.Name}

	price := val(snap.CurrentPrice)
	low := val(snap.Low52Week)
	high := val(snap.High52Week)
	if price == 0 || low == 0 || high == 0 {
		rec.Label = models.LabelNeutral
		rec.Score = models.ScoreFor(rec.Label)
		rec.Reason = "insufficient data"
		return rec
	}

	switch {
	case price <= low*strongBuyBand:
		rec.Label = models.LabelStrongBuy
		rec.Reason = fmt.Sprintf("price %.2f within 10%% of 52-week low %.2f", price, low)
	case price <= low*buyBand:
		rec.Label = models.LabelBuy
		rec.Reason = fmt.Sprintf("price %.2f within 20%% of 52-week low %.2f", price, low)
	case price >= high*strongSellBand:
		rec.Label = models.LabelStrongSell
		rec.Reason = fmt.Sprintf("price %.2f within 10%% of 52-week high %.2f", price, high)
	case price >= high*sellBand:
		rec.Label = models.LabelSell
		rec.Reason = fmt.Sprintf("price %.2f within 20%% of 52-week high %.2f", price, high)
	default:
		rec.Label = models.LabelHold
		rec.Reason = "price inside the 52-week mid-range"
	}

	rec.Score = models.ScoreFor(rec.Label)
	return rec
}

// Fundamentals returns valuation annotations to surface alongside the
// proximity verdict. Absent ratios read as zero, matching how the
// portal tooling has always treated them: a missing yield keeps the
// buy arm quiet, while a missing PE counts as cheap only when a real
// dividend yield pushes the rule over.
func Fundamentals(snap *models.MarketSnapshot) []models.Recommendation {
	if snap == nil {
		return nil
	}

	pe := val(snap.PE)
	yield := val(snap.DividendYield)

	var recs []models.Recommendation
	if pe < lowPE && yield > goodDivYield {
		recs = append(recs, models.Recommendation{
			Symbol: snap.Symbol,
			Name:   snap.Name,
			Label:  models.LabelBuy,
			Score:  models.ScoreFor(models.LabelBuy),
			Reason: fmt.Sprintf("strong fundamentals: P/E %.1f, dividend yield %.1f%%", pe, yield*100),
		})
	}
	if pe > highPE {
		recs = append(recs, models.Recommendation{
			Symbol: snap.Symbol,
			Name:   snap.Name,
			Label:  models.LabelSell,
			Score:  models.ScoreFor(models.LabelSell),
			Reason: fmt.Sprintf("overvalued: P/E %.1f", pe),
		})
	}
	return recs
}

// EvaluateAll produces the recommendation list for one analysis pass:
// a proximity verdict per snapshot plus any fundamentals annotations,
// in catalog order.
func EvaluateAll(snaps []*models.MarketSnapshot) []models.Recommendation {
	recs := make([]models.Recommendation, 0, len(snaps))
	for _, snap := range snaps {
		if snap == nil {
			continue
		}
		recs = append(recs, Evaluate(snap))
		recs = append(recs, Fundamentals(snap)...)
	}
	return recs
}

// Index groups recommendations by exact symbol for owned-position
// cross-referencing. Exact keys mean "AAP" never collects "AAPL"
// verdicts.
func Index(recs []models.Recommendation) map[string][]models.Recommendation {
	idx := make(map[string][]models.Recommendation, len(recs))
	for _, rec := range recs {
		idx[rec.Symbol] = append(idx[rec.Symbol], rec)
	}
	return idx
}

func val(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
