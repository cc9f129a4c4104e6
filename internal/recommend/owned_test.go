package recommend

import (
	"testing"

	"github.com/MedNourS/Bourstad-Helper/internal/models"
)

func position(avg, current float64, status string) models.OwnedPosition {
	return models.OwnedPosition{
		Symbol:         "RY.TO",
		Name:           "Royal Bank",
		Quantity:       10,
		AveragePrice:   avg,
		CurrentPrice:   current,
		GainLossStatus: status,
	}
}

func TestEvaluateOwned_InsufficientDataShortCircuits(t *testing.T) {
	decisions := EvaluateOwned(position(0, 125, "success"), nil)
	if len(decisions) != 1 {
		t.Fatalf("got %d decisions, want 1", len(decisions))
	}
	if decisions[0].Label != models.LabelHold || decisions[0].Reason != "insufficient data" {
		t.Errorf("decision = %q/%q, want Hold/insufficient data", decisions[0].Label, decisions[0].Reason)
	}
}

func TestEvaluateOwned_StatusMarkers(t *testing.T) {
	decisions := EvaluateOwned(position(100, 105, "label-SUCCESS badge"), nil)

	var sawGainHold bool
	for _, d := range decisions {
		if d.Label == models.LabelHold && d.Reason == "position showing a gain (label-SUCCESS badge)" {
			sawGainHold = true
		}
	}
	if !sawGainHold {
		t.Errorf("no gain Hold decision echoing the status in %v", decisions)
	}

	decisions = EvaluateOwned(position(100, 95, "text-danger"), nil)
	var sawLossSell bool
	for _, d := range decisions {
		if d.Label == models.LabelSell && d.Reason == "position showing a loss (text-danger)" {
			sawLossSell = true
		}
	}
	if !sawLossSell {
		t.Errorf("no loss Sell decision echoing the status in %v", decisions)
	}
}

func TestEvaluateOwned_GainMarkerWinsOverLoss(t *testing.T) {
	decisions := EvaluateOwned(position(100, 105, "success danger"), nil)
	for _, d := range decisions {
		if d.Label == models.LabelSell {
			t.Errorf("loss echo fired despite gain marker: %v", d)
		}
	}
}

func TestEvaluateOwned_DriftRules(t *testing.T) {
	tests := []struct {
		name    string
		avg     float64
		current float64
		want    models.Label
	}{
		{"take profit above 20 percent", 100, 125, models.LabelSell},
		{"average down below 20 percent", 100, 75, models.LabelBuy},
		{"near cost holds", 100, 110, models.LabelHold},
		{"exactly 20 percent up still holds", 100, 120, models.LabelHold},
		{"exactly 20 percent down still holds", 100, 80, models.LabelHold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decisions := EvaluateOwned(position(tt.avg, tt.current, ""), nil)
			if len(decisions) != 1 {
				t.Fatalf("got %d decisions, want 1 drift decision", len(decisions))
			}
			if decisions[0].Label != tt.want {
				t.Errorf("drift label = %q, want %q", decisions[0].Label, tt.want)
			}
		})
	}
}

func TestEvaluateOwned_CrossReferenceExactSymbol(t *testing.T) {
	index := map[string][]models.Recommendation{
		"RY.TO": {
			{Symbol: "RY.TO", Label: models.LabelStrongBuy, Score: 100, Reason: "price 90.00 within 10% of 52-week low 88.00"},
		},
		"RY": {
			{Symbol: "RY", Label: models.LabelStrongSell, Score: 0, Reason: "should never surface here"},
		},
	}

	decisions := EvaluateOwned(position(100, 105, ""), index)

	var crossRefs []models.Decision
	for _, d := range decisions {
		if d.Label == models.LabelStrongBuy || d.Label == models.LabelStrongSell {
			crossRefs = append(crossRefs, d)
		}
	}
	if len(crossRefs) != 1 {
		t.Fatalf("got %d cross-referenced decisions, want exactly 1", len(crossRefs))
	}
	if crossRefs[0].Label != models.LabelStrongBuy {
		t.Errorf("cross-ref label = %q, want Strong Buy from the exact symbol", crossRefs[0].Label)
	}
}

func TestEvaluateOwnedAll_Additive(t *testing.T) {
	index := map[string][]models.Recommendation{
		"RY.TO": {{Symbol: "RY.TO", Label: models.LabelBuy, Score: 75, Reason: "fundamentals"}},
	}
	positions := []models.OwnedPosition{
		position(100, 125, "success"), // gain echo + take profit + cross-ref
		position(100, 0, ""),          // insufficient data
	}

	decisions := EvaluateOwnedAll(positions, index)
	if len(decisions) != 4 {
		t.Fatalf("got %d decisions, want 4", len(decisions))
	}
	if decisions[3].Reason != "insufficient data" {
		t.Errorf("last decision = %q, want the insufficient-data hold", decisions[3].Reason)
	}
}
