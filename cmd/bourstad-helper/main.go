package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/MedNourS/Bourstad-Helper/internal/app"
	"github.com/MedNourS/Bourstad-Helper/internal/common"
	"github.com/MedNourS/Bourstad-Helper/internal/models"
	"github.com/MedNourS/Bourstad-Helper/internal/symbols"
)

func main() {
	action := flag.String("action", "recommend", "action to run: catalog, collect, recommend, highlights, details or rebuild")
	configPath := flag.String("config", "", "path to config file")
	dateStr := flag.String("date", "", "trading day for highlights (YYYY-MM-DD, defaults to today)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		common.LoadVersionFromFile()
		fmt.Printf("bourstad-helper %s (build %s, commit %s)\n",
			common.GetVersion(), common.GetBuild(), common.GetGitCommit())
		return
	}

	a, err := app.NewApp(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	common.PrintBanner(a.Config, a.Logger)

	ctx := context.Background()

	var runErr error
	switch *action {
	case "catalog":
		runErr = runCatalog(ctx, a)
	case "collect":
		runErr = runCollect(ctx, a)
	case "recommend":
		runErr = runRecommend(ctx, a)
	case "highlights":
		runErr = runHighlights(ctx, a, *dateStr)
	case "details":
		runErr = runDetails(ctx, a)
	case "rebuild":
		runErr = runRebuild(ctx, a)
	default:
		fmt.Fprintf(os.Stderr, "Unknown action %q\n\n", *action)
		flag.Usage()
		os.Exit(1)
	}

	if runErr != nil {
		a.Logger.Error().Err(runErr).Str("action", *action).Msg("Action failed")
		os.Exit(1)
	}
}

// optionalSession logs into the portal when credentials are configured.
// Anything short of a session degrades to offline operation.
func optionalSession(ctx context.Context, a *app.App) *models.Session {
	if a.PortalClient == nil {
		return nil
	}
	session, err := a.Login(ctx)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("Portal login failed, continuing offline")
		return nil
	}
	return session
}

func runCatalog(ctx context.Context, a *app.App) error {
	entries, err := a.CatalogService.Entries(ctx, optionalSession(ctx, a))
	if err != nil {
		return err
	}
	fmt.Print(formatCatalog(entries))
	return nil
}

// runCollect performs a full acquisition pass: catalog refresh, detail
// pages, and a snapshot fetch for every mapped security.
func runCollect(ctx context.Context, a *app.App) error {
	session, err := a.Login(ctx)
	if err != nil {
		return err
	}

	entries, err := a.CatalogService.Refresh(ctx, session)
	if err != nil {
		return err
	}

	ids := symbols.MapAll(entries)
	details, err := a.CatalogService.FetchDetails(ctx, session, ids)
	if err != nil {
		return err
	}
	snaps := a.MarketService.SnapshotBatch(ctx, ids)

	fmt.Printf("Collected %d catalog entries, %d detail pages, %d snapshots.\n",
		len(entries), len(details), len(snaps))
	return nil
}

func runRecommend(ctx context.Context, a *app.App) error {
	report, err := a.AdvisorService.Analyze(ctx, optionalSession(ctx, a))
	if err != nil {
		return err
	}
	fmt.Print(formatReport(report))
	return nil
}

func runHighlights(ctx context.Context, a *app.App, dateStr string) error {
	date := time.Now().UTC()
	if dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return fmt.Errorf("invalid -date %q: %w", dateStr, err)
		}
		date = parsed
	}

	entries, err := a.CatalogService.Entries(ctx, optionalSession(ctx, a))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no catalog entries available; run -action=collect first")
	}

	hl, err := a.MarketService.Highlights(ctx, date, entries)
	if err != nil {
		return err
	}
	fmt.Print(formatHighlights(hl))
	return nil
}

func runDetails(ctx context.Context, a *app.App) error {
	details, err := a.CatalogService.LoadDetails(ctx)
	if err != nil {
		return err
	}
	fmt.Print(formatDetails(details))
	return nil
}

// runRebuild re-parses the archived page captures into a fresh detail
// set without touching the portal.
func runRebuild(ctx context.Context, a *app.App) error {
	details, err := a.CatalogService.RebuildDetails(ctx)
	if err != nil {
		return err
	}
	fmt.Print(formatDetails(details))
	return nil
}
