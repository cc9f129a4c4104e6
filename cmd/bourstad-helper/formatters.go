package main

import (
	"fmt"
	"strings"

	"github.com/MedNourS/Bourstad-Helper/internal/models"
)

// formatCatalog renders catalog entries as an aligned text table.
func formatCatalog(entries []models.CatalogEntry) string {
	if len(entries) == 0 {
		return "No catalog entries stored. Run -action=collect first.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Catalog (%d securities)\n\n", len(entries)))
	sb.WriteString(fmt.Sprintf("  %-14s %s\n", "ID", "NAME"))
	for _, entry := range entries {
		sb.WriteString(fmt.Sprintf("  %-14s %s\n", entry.ID, entry.Name))
	}
	return sb.String()
}

// formatDetails renders persisted security details.
func formatDetails(details []models.SecurityDetail) string {
	if len(details) == 0 {
		return "No security details stored. Run -action=collect first.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Security details (%d)\n\n", len(details)))
	sb.WriteString(fmt.Sprintf("  %-14s %-32s %-12s %s\n", "SYMBOL", "NAME", "LAST PRICE", "MARKET CAP"))
	for _, d := range details {
		sb.WriteString(fmt.Sprintf("  %-14s %-32s %-12s %s\n",
			d.Symbol, truncate(orDash(d.Name), 32), orDash(d.LastPrice), orDash(d.MarketCap)))
	}
	return sb.String()
}

// formatReport renders an analysis report: recommendations first, then
// the decisions for owned positions when a session produced any.
func formatReport(report *models.AnalysisReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Analysis %s\n", report.RunID))
	sb.WriteString(fmt.Sprintf("Generated %s | catalog %d | snapshots %d\n\n",
		report.GeneratedAt.Format("2006-01-02 15:04"), report.CatalogSize, report.Snapshots))

	if len(report.Recommendations) == 0 {
		sb.WriteString("No recommendations. Run -action=collect first.\n")
		return sb.String()
	}

	sb.WriteString("Recommendations\n")
	sb.WriteString(fmt.Sprintf("  %-10s %-26s %-12s %5s  %s\n", "SYMBOL", "NAME", "LABEL", "SCORE", "REASON"))
	for _, rec := range report.Recommendations {
		sb.WriteString(fmt.Sprintf("  %-10s %-26s %-12s %5d  %s\n",
			rec.Symbol, truncate(rec.Name, 26), rec.Label, rec.Score, rec.Reason))
	}

	if len(report.Decisions) > 0 {
		sb.WriteString("\nOwned positions\n")
		sb.WriteString(fmt.Sprintf("  %-10s %-12s %5s  %s\n", "SYMBOL", "LABEL", "SCORE", "REASON"))
		for _, d := range report.Decisions {
			sb.WriteString(fmt.Sprintf("  %-10s %-12s %5d  %s\n", d.Symbol, d.Label, d.Score, d.Reason))
		}
	}
	return sb.String()
}

// formatHighlights renders a day's ranked highlight tables.
func formatHighlights(hl *models.DayHighlights) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Market highlights for %s (%d securities)\n", hl.Date, len(hl.Entries)))

	writeSection := func(title string, entries []models.HighlightEntry) {
		if len(entries) == 0 {
			return
		}
		sb.WriteString(fmt.Sprintf("\n%s\n", title))
		for i, e := range entries {
			sb.WriteString(fmt.Sprintf("  %d. %-10s %8s  close %.2f  volume %d\n",
				i+1, e.Symbol, formatSignedPct(e.ChangePct), e.Close, e.Volume))
		}
	}

	writeSection("Top gainers", hl.TopGainers)
	writeSection("Top losers", hl.TopLosers)
	writeSection("Most active", hl.TopVolume)
	writeSection("Honorable mentions", hl.HonorableMentions)

	if len(hl.Entries) == 0 {
		sb.WriteString("\nNo bar data for this day.\n")
	}
	return sb.String()
}

// formatSignedPct renders a percentage with an explicit sign.
func formatSignedPct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
