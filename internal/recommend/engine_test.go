package recommend

import (
	"testing"

	"github.com/MedNourS/Bourstad-Helper/internal/models"
)

func snapshot(price, low, high float64) *models.MarketSnapshot {
	return &models.MarketSnapshot{
		Symbol:       "TEST",
		CurrentPrice: models.Float64(price),
		Low52Week:    models.Float64(low),
		High52Week:   models.Float64(high),
	}
}

func TestEvaluate_ProximityBands(t *testing.T) {
	tests := []struct {
		name      string
		price     float64
		low       float64
		high      float64
		wantLabel models.Label
		wantScore int
	}{
		{"at the 52-week low", 100, 100, 200, models.LabelStrongBuy, 100},
		{"strong buy boundary inclusive", 110, 100, 200, models.LabelStrongBuy, 100},
		{"just above strong buy band", 111, 100, 200, models.LabelBuy, 75},
		{"buy boundary inclusive", 120, 100, 200, models.LabelBuy, 75},
		{"mid range holds", 150, 100, 200, models.LabelHold, 50},
		{"sell boundary inclusive", 160, 100, 200, models.LabelSell, 25},
		{"just below strong sell band", 179, 100, 200, models.LabelSell, 25},
		{"strong sell boundary inclusive", 180, 100, 200, models.LabelStrongSell, 0},
		{"at the 52-week high", 200, 100, 200, models.LabelStrongSell, 0},
		{"narrow range prefers the low side", 105, 100, 105, models.LabelStrongBuy, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Evaluate(snapshot(tt.price, tt.low, tt.high))
			if rec.Label != tt.wantLabel {
				t.Errorf("Evaluate(%v, %v, %v) label = %q, want %q",
					tt.price, tt.low, tt.high, rec.Label, tt.wantLabel)
			}
			if rec.Score != tt.wantScore {
				t.Errorf("Evaluate(%v, %v, %v) score = %d, want %d",
					tt.price, tt.low, tt.high, rec.Score, tt.wantScore)
			}
		})
	}
}

func TestEvaluate_InsufficientData(t *testing.T) {
	tests := []struct {
		name string
		snap *models.MarketSnapshot
	}{
		{"nil snapshot", nil},
		{"missing price", &models.MarketSnapshot{
			Symbol:     "TEST",
			Low52Week:  models.Float64(100),
			High52Week: models.Float64(200),
		}},
		{"zero price", snapshot(0, 100, 200)},
		{"missing low", &models.MarketSnapshot{
			Symbol:       "TEST",
			CurrentPrice: models.Float64(150),
			High52Week:   models.Float64(200),
		}},
		{"zero high", snapshot(150, 100, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Evaluate(tt.snap)
			if rec.Label != models.LabelNeutral {
				t.Errorf("label = %q, want %q", rec.Label, models.LabelNeutral)
			}
			if rec.Score != 50 {
				t.Errorf("score = %d, want 50", rec.Score)
			}
		})
	}
}

func TestFundamentals(t *testing.T) {
	tests := []struct {
		name       string
		pe         *float64
		yield      *float64
		wantLabels []models.Label
	}{
		{"cheap dividend payer", models.Float64(12), models.Float64(0.04), []models.Label{models.LabelBuy}},
		{"expensive", models.Float64(35), nil, []models.Label{models.LabelSell}},
		{"fairly valued", models.Float64(20), models.Float64(0.05), nil},
		{"low pe without yield", models.Float64(12), models.Float64(0.01), nil},
		{"missing pe with yield still fires", nil, models.Float64(0.05), []models.Label{models.LabelBuy}},
		{"nothing known", nil, nil, nil},
		{"yield at threshold stays quiet", models.Float64(12), models.Float64(0.03), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := &models.MarketSnapshot{Symbol: "TEST", PE: tt.pe, DividendYield: tt.yield}
			recs := Fundamentals(snap)
			if len(recs) != len(tt.wantLabels) {
				t.Fatalf("Fundamentals returned %d annotations, want %d", len(recs), len(tt.wantLabels))
			}
			for i, want := range tt.wantLabels {
				if recs[i].Label != want {
					t.Errorf("annotation[%d] label = %q, want %q", i, recs[i].Label, want)
				}
			}
		})
	}
}

func TestEvaluateAll_OrderAndAnnotations(t *testing.T) {
	snaps := []*models.MarketSnapshot{
		{
			Symbol:        "CHEAP",
			CurrentPrice:  models.Float64(105),
			Low52Week:     models.Float64(100),
			High52Week:    models.Float64(300),
			PE:            models.Float64(10),
			DividendYield: models.Float64(0.05),
		},
		nil,
		{Symbol: "DARK"},
	}

	recs := EvaluateAll(snaps)
	if len(recs) != 3 {
		t.Fatalf("EvaluateAll returned %d recommendations, want 3", len(recs))
	}
	if recs[0].Symbol != "CHEAP" || recs[0].Label != models.LabelStrongBuy {
		t.Errorf("recs[0] = %s/%s, want CHEAP/Strong Buy", recs[0].Symbol, recs[0].Label)
	}
	if recs[1].Symbol != "CHEAP" || recs[1].Label != models.LabelBuy {
		t.Errorf("recs[1] = %s/%s, want CHEAP fundamentals Buy", recs[1].Symbol, recs[1].Label)
	}
	if recs[2].Symbol != "DARK" || recs[2].Label != models.LabelNeutral {
		t.Errorf("recs[2] = %s/%s, want DARK/Neutral", recs[2].Symbol, recs[2].Label)
	}
}

func TestIndex_ExactSymbolOnly(t *testing.T) {
	recs := []models.Recommendation{
		{Symbol: "AAPL", Label: models.LabelBuy},
		{Symbol: "AAP", Label: models.LabelSell},
		{Symbol: "AAPL", Label: models.LabelHold},
	}

	idx := Index(recs)
	if len(idx["AAPL"]) != 2 {
		t.Errorf("index[AAPL] has %d entries, want 2", len(idx["AAPL"]))
	}
	if len(idx["AAP"]) != 1 {
		t.Errorf("index[AAP] has %d entries, want 1", len(idx["AAP"]))
	}
	for _, rec := range idx["AAP"] {
		if rec.Label != models.LabelSell {
			t.Errorf("index[AAP] picked up %q from a different symbol", rec.Label)
		}
	}
}
