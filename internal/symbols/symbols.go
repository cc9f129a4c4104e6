// Package symbols translates Bourstad portal identifiers into
// market-data provider symbols. Mapping is pure and deterministic; the
// caller decides what to do with identifiers that have no listing.
package symbols

import (
	"strings"

	"github.com/MedNourS/Bourstad-Helper/internal/models"
)

// delimiter separates the base symbol from the portal's exchange suffix.
const delimiter = ":"

// overrides lists known irregular mappings that the suffix rules get
// wrong, mostly class shares whose dots the provider writes as dashes.
var overrides = map[string]string{
	"BRK.B:EGX":  "BRK-B",
	"BF.B:EGX":   "BF-B",
	"CTC.A:CA":   "CTC-A.TO",
	"TECK.B:CA":  "TECK-B.TO",
	"GIB.A:CA":   "GIB-A.TO",
	"RCI.B:CA":   "RCI-B.TO",
	"QBR.B:CA":   "QBR-B.TO",
	"ATD.B:CA":   "ATD.TO", // portal kept the pre-2021 class suffix
	"BBD.B:CA":   "BBD-B.TO",
	"CCL.B:CA":   "CCL-B.TO",
	"BRK.B:NYSE": "BRK-B",
}

// usDollarSuffixes are portal exchange markers for listings quoted in US
// dollars; the provider knows these by their bare base symbol.
var usDollarSuffixes = map[string]bool{
	"EGX":    true,
	"US":     true,
	"NYSE":   true,
	"NASDAQ": true,
}

// Map resolves a portal-native identifier to the provider symbol.
// Resolution order: override table, then suffix rules. It returns
// ok=false when the identifier carries a suffix with no known provider
// listing; identifiers without a suffix map to themselves.
func Map(native string) (string, bool) {
	if mapped, ok := overrides[native]; ok {
		return mapped, true
	}

	idx := strings.Index(native, delimiter)
	if idx < 0 {
		return native, true
	}

	base := native[:idx]
	suffix := native[idx+1:]
	switch {
	case suffix == "CA":
		return base + ".TO", true
	case usDollarSuffixes[suffix]:
		return base, true
	default:
		return "", false
	}
}

// MapAll resolves a catalog's identifiers, pairing each native ID with
// its provider symbol. Unresolved entries keep an empty Mapped field so
// callers can log and skip them.
func MapAll(entries []models.CatalogEntry) []models.SecurityID {
	ids := make([]models.SecurityID, 0, len(entries))
	for _, entry := range entries {
		mapped, ok := Map(entry.ID)
		if !ok {
			ids = append(ids, models.SecurityID{Native: entry.ID})
			continue
		}
		ids = append(ids, models.SecurityID{Native: entry.ID, Mapped: mapped})
	}
	return ids
}
