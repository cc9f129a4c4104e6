package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MedNourS/Bourstad-Helper/internal/clients/bourstad"
	"github.com/MedNourS/Bourstad-Helper/internal/clients/yahoo"
	"github.com/MedNourS/Bourstad-Helper/internal/common"
	"github.com/MedNourS/Bourstad-Helper/internal/interfaces"
	"github.com/MedNourS/Bourstad-Helper/internal/models"
	"github.com/MedNourS/Bourstad-Helper/internal/services/advisor"
	"github.com/MedNourS/Bourstad-Helper/internal/services/catalog"
	"github.com/MedNourS/Bourstad-Helper/internal/services/market"
	"github.com/MedNourS/Bourstad-Helper/internal/storage/cachefs"
)

// App holds all initialized services, clients, and storage.
// It is the shared core behind every cmd/bourstad-helper action.
type App struct {
	Config         *common.Config
	Logger         *common.Logger
	Storage        interfaces.StorageManager
	PortalClient   interfaces.PortalClient
	MarketClient   interfaces.MarketDataClient
	CatalogService interfaces.CatalogService
	MarketService  interfaces.MarketService
	AdvisorService interfaces.AdvisorService
	StartupTime    time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	// Get binary directory for self-contained operation
	binDir := getBinaryDir()

	// Credentials come from the environment; .env files fill in what the
	// shell did not export.
	common.LoadEnvFile(".env", filepath.Join(binDir, ".env"))

	// Load configuration - check provided path, BOURSTAD_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("BOURSTAD_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "bourstad.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/bourstad.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := common.NewLoggerFromConfig(config.Logging)

	// Initialize storage. The data path stays relative to the working
	// directory so runs pick up the data/ tree they were started next to.
	store, err := cachefs.NewStore(logger, config.Storage.Data.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Initialize API clients
	var portalClient interfaces.PortalClient
	if config.Portal.Configured() {
		portalClient = bourstad.NewClient(config.Portal,
			bourstad.WithLogger(logger),
			bourstad.WithRateLimit(config.Portal.RateLimit),
			bourstad.WithTimeout(config.Portal.GetTimeout()),
		)
	} else {
		logger.Warn().Msg("Portal credentials not configured - catalog refresh and holdings will be unavailable")
	}

	marketClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Provider.BaseURL),
		yahoo.WithLogger(logger),
		yahoo.WithRateLimit(config.Provider.RateLimit),
		yahoo.WithTimeout(config.Provider.GetTimeout()),
	)

	// Initialize services
	catalogService := catalog.NewService(portalClient, store, logger)
	marketService := market.NewService(store, marketClient, logger)
	advisorService := advisor.NewService(catalogService, marketService, portalClient, logger)

	a := &App{
		Config:         config,
		Logger:         logger,
		Storage:        store,
		PortalClient:   portalClient,
		MarketClient:   marketClient,
		CatalogService: catalogService,
		MarketService:  marketService,
		AdvisorService: advisorService,
		StartupTime:    startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Login authenticates against the portal with the configured credentials.
// Credentials are read from config at call time and never retained.
func (a *App) Login(ctx context.Context) (*models.Session, error) {
	if a.PortalClient == nil {
		return nil, fmt.Errorf("portal is not configured: set BOURSTAD_LOGIN_URL, BOURSTAD_USERNAME and BOURSTAD_PASSWORD")
	}
	return a.PortalClient.Login(ctx, a.Config.Portal.Email, a.Config.Portal.Password)
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
