package main

import (
	"strings"
	"testing"
	"time"

	"github.com/MedNourS/Bourstad-Helper/internal/models"
)

func TestFormatCatalog_ListsEntries(t *testing.T) {
	entries := []models.CatalogEntry{
		{ID: "MMM:EGX", Name: "3M Company"},
		{ID: "RY:CA", Name: "Banque Royale du Canada"},
	}

	output := formatCatalog(entries)

	if !strings.Contains(output, "Catalog (2 securities)") {
		t.Errorf("missing header:\n%s", output)
	}
	if !strings.Contains(output, "MMM:EGX") || !strings.Contains(output, "Banque Royale du Canada") {
		t.Errorf("missing entries:\n%s", output)
	}
}

func TestFormatCatalog_EmptyPointsAtCollect(t *testing.T) {
	output := formatCatalog(nil)
	if !strings.Contains(output, "-action=collect") {
		t.Errorf("empty catalog output should point at collect:\n%s", output)
	}
}

func TestFormatDetails_DashesForMissingFields(t *testing.T) {
	details := []models.SecurityDetail{
		{Symbol: "MMM:EGX", Name: "3M Company", LastPrice: "98.76", MarketCap: "54B"},
		{Symbol: "GHOST"},
	}

	output := formatDetails(details)

	if !strings.Contains(output, "98.76") {
		t.Errorf("missing last price:\n%s", output)
	}
	if !strings.Contains(output, "GHOST") {
		t.Errorf("missing sparse row:\n%s", output)
	}
	lines := strings.Split(output, "\n")
	var ghostLine string
	for _, line := range lines {
		if strings.Contains(line, "GHOST") {
			ghostLine = line
		}
	}
	if !strings.Contains(ghostLine, "-") {
		t.Errorf("sparse fields should render as dashes: %q", ghostLine)
	}
}

func TestFormatReport_IncludesDecisionsWhenPresent(t *testing.T) {
	report := &models.AnalysisReport{
		RunID:       "run-1",
		GeneratedAt: time.Date(2025, 8, 20, 15, 4, 0, 0, time.UTC),
		CatalogSize: 2,
		Snapshots:   1,
		Recommendations: []models.Recommendation{
			{Symbol: "MMM", Name: "3M Company", Label: models.LabelStrongBuy, Score: 100, Reason: "price near 52-week low"},
		},
		Decisions: []models.Decision{
			{Symbol: "MMM", Label: models.LabelHold, Score: 50, Reason: "within expected range"},
		},
	}

	output := formatReport(report)

	if !strings.Contains(output, "run-1") {
		t.Errorf("missing run id:\n%s", output)
	}
	if !strings.Contains(output, "Strong Buy") {
		t.Errorf("missing recommendation label:\n%s", output)
	}
	if !strings.Contains(output, "Owned positions") {
		t.Errorf("missing decisions section:\n%s", output)
	}
}

func TestFormatReport_OmitsDecisionSectionWithoutHoldings(t *testing.T) {
	report := &models.AnalysisReport{
		RunID:       "run-2",
		GeneratedAt: time.Date(2025, 8, 20, 15, 4, 0, 0, time.UTC),
		CatalogSize: 1,
		Snapshots:   1,
		Recommendations: []models.Recommendation{
			{Symbol: "VNP.TO", Label: models.LabelNeutral, Score: 50, Reason: "insufficient data"},
		},
	}

	output := formatReport(report)

	if strings.Contains(output, "Owned positions") {
		t.Errorf("decision section rendered without decisions:\n%s", output)
	}
}

func TestFormatHighlights_SectionsAndSigns(t *testing.T) {
	hl := &models.DayHighlights{
		Date: "2025-08-20",
		Entries: []models.HighlightEntry{
			{Symbol: "A1", ChangePct: 12.0},
			{Symbol: "A2", ChangePct: -8.5},
		},
		TopGainers:        []models.HighlightEntry{{Symbol: "A1", ChangePct: 12.0, Close: 112, Volume: 900}},
		TopLosers:         []models.HighlightEntry{{Symbol: "A2", ChangePct: -8.5, Close: 91.5, Volume: 400}},
		TopVolume:         []models.HighlightEntry{{Symbol: "A1", ChangePct: 12.0, Close: 112, Volume: 900}},
		HonorableMentions: []models.HighlightEntry{{Symbol: "A2", ChangePct: -8.5, Close: 91.5, Volume: 400}},
	}

	output := formatHighlights(hl)

	for _, want := range []string{"Top gainers", "Top losers", "Most active", "Honorable mentions", "+12.00%", "-8.50%"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestFormatHighlights_EmptyDay(t *testing.T) {
	hl := &models.DayHighlights{Date: "2025-08-23"}

	output := formatHighlights(hl)

	if !strings.Contains(output, "No bar data") {
		t.Errorf("empty day not reported:\n%s", output)
	}
	if strings.Contains(output, "Top gainers") {
		t.Errorf("empty day rendered ranking sections:\n%s", output)
	}
}
