package recommend

import (
	"fmt"
	"strings"

	"github.com/MedNourS/Bourstad-Helper/internal/models"
)

// Markers the portal embeds in the holdings gain/loss cell. The cell
// carries styling class text, so matching is case-insensitive substring.
const (
	profitMarker = "success"
	lossMarker   = "danger"
)

// Price drift bounds against average cost.
const (
	takeProfitRatio  = 1.20
	averageDownRatio = 0.80
)

// EvaluateOwned turns one holdings row into advisory lines. Rules are
// additive, not exclusive: a position can collect a status echo, a
// drift verdict and any catalog recommendations for the same symbol.
// Rows without usable prices short-circuit to a lone Hold.
func EvaluateOwned(pos models.OwnedPosition, index map[string][]models.Recommendation) []models.Decision {
	if pos.CurrentPrice <= 0 || pos.AveragePrice <= 0 {
		return []models.Decision{decision(pos, models.LabelHold, "insufficient data")}
	}

	var decisions []models.Decision

	status := strings.ToLower(pos.GainLossStatus)
	if strings.Contains(status, profitMarker) {
		decisions = append(decisions, decision(pos, models.LabelHold,
			fmt.Sprintf("position showing a gain (%s)", pos.GainLossStatus)))
	} else if strings.Contains(status, lossMarker) {
		decisions = append(decisions, decision(pos, models.LabelSell,
			fmt.Sprintf("position showing a loss (%s)", pos.GainLossStatus)))
	}

	switch {
	case pos.CurrentPrice > pos.AveragePrice*takeProfitRatio:
		decisions = append(decisions, decision(pos, models.LabelSell,
			fmt.Sprintf("price %.2f more than 20%% above average cost %.2f", pos.CurrentPrice, pos.AveragePrice)))
	case pos.CurrentPrice < pos.AveragePrice*averageDownRatio:
		decisions = append(decisions, decision(pos, models.LabelBuy,
			fmt.Sprintf("price %.2f more than 20%% below average cost %.2f", pos.CurrentPrice, pos.AveragePrice)))
	default:
		decisions = append(decisions, decision(pos, models.LabelHold, "price near average cost"))
	}

	for _, rec := range index[pos.Symbol] {
		decisions = append(decisions, models.Decision{
			Symbol: pos.Symbol,
			Name:   pos.Name,
			Label:  rec.Label,
			Score:  rec.Score,
			Reason: "catalog signal: " + rec.Reason,
		})
	}

	return decisions
}

// EvaluateOwnedAll evaluates every holding against the pass's
// recommendation index, preserving holdings order.
func EvaluateOwnedAll(positions []models.OwnedPosition, index map[string][]models.Recommendation) []models.Decision {
	var decisions []models.Decision
	for _, pos := range positions {
		decisions = append(decisions, EvaluateOwned(pos, index)...)
	}
	return decisions
}

func decision(pos models.OwnedPosition, label models.Label, reason string) models.Decision {
	return models.Decision{
		Symbol: pos.Symbol,
		Name:   pos.Name,
		Label:  label,
		Score:  models.ScoreFor(label),
		Reason: reason,
	}
}
