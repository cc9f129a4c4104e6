// Package interfaces defines service contracts for the Bourstad helper
package interfaces

import (
	"context"
	"time"

	"github.com/MedNourS/Bourstad-Helper/internal/models"
)

// PortalClient provides access to the Bourstad trading-simulation portal.
type PortalClient interface {
	// Login authenticates against the portal's HTML form and returns
	// the session tokens parsed from the post-login redirect URL
	Login(ctx context.Context, email, password string) (*models.Session, error)

	// GetCatalog retrieves the tradable-security catalog. An absent or
	// empty dropdown yields an empty result, not an error
	GetCatalog(ctx context.Context, session *models.Session) ([]models.CatalogEntry, error)

	// GetSecurityDetail scrapes one security's transaction page
	GetSecurityDetail(ctx context.Context, session *models.Session, symbol string) (*models.SecurityDetail, []byte, error)

	// GetHoldings retrieves the owned positions from the dashboard table
	GetHoldings(ctx context.Context, session *models.Session) ([]models.OwnedPosition, error)
}

// MarketDataClient provides access to the public market-data provider.
type MarketDataClient interface {
	// GetQuote retrieves and normalizes the current quote for a symbol
	GetQuote(ctx context.Context, symbol string) (*models.MarketSnapshot, error)

	// GetDailyBars retrieves daily open/close/volume bars for [from, to)
	GetDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.DailyBar, error)
}
