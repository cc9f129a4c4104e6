// Package models defines data structures for the Bourstad helper
package models

// Session holds the opaque tokens the Bourstad portal issues after login.
// Tokens are carried as query parameters on every authenticated request
// and are never persisted.
type Session struct {
	SUID string `json:"suid"`
	Aut  string `json:"aut"`
}

// Valid reports whether both session tokens are present.
func (s *Session) Valid() bool {
	return s != nil && s.SUID != "" && s.Aut != ""
}

// CatalogEntry is one tradable security from the portal's catalog dropdown.
type CatalogEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SecurityID pairs a portal-native identifier with its market-data
// provider symbol. An empty Mapped means the identifier has no known
// provider listing and is skipped by data fetches.
type SecurityID struct {
	Native string `json:"native"`
	Mapped string `json:"mapped,omitempty"`
}

// IsMapped reports whether the identifier resolved to a provider symbol.
func (id SecurityID) IsMapped() bool {
	return id.Mapped != ""
}

// SecurityDetail is the lightweight record scraped from a portal
// transaction page. Fields keep the portal's display text; an empty
// string marks a value the page did not carry.
type SecurityDetail struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name,omitempty"`
	LastPrice string `json:"last_price,omitempty"`
	MarketCap string `json:"market_cap,omitempty"`
}

// OwnedPosition is one row of the portal's holdings table.
type OwnedPosition struct {
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name"`
	Quantity       int     `json:"quantity"`
	AveragePrice   float64 `json:"average_price"`
	CurrentPrice   float64 `json:"current_price"`
	GainLossStatus string  `json:"gain_loss_status"` // portal status cell text, e.g. "success" / "danger"
}
