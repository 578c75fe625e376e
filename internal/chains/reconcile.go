package chains

import (
	"net/url"
	"strings"
)

// geckoOverrides maps a lowercase ranking-source chain name to the price
// source id. Entries win over whatever id the ranking source reports.
var geckoOverrides = map[string]string{
	"blast":    "blast",
	"base":     "base",
	"morph":    "morph",
	"goat":     "goat",
	"bob":      "bob",
	"taiko":    "taiko",
	"bsquared": "bsquared-network",
	"hemi":     "hemis",
	"bitlayer": "bitlayer-bitvm",
	"ailayer":  "ailayer-token",
}

// ReconcileGeckoID resolves the price source id for a ranking entry.
// ok is false when no usable id exists; such chains are dropped.
func ReconcileGeckoID(name, sourceID string) (string, bool) {
	if id, found := geckoOverrides[strings.ToLower(strings.TrimSpace(name))]; found {
		return id, true
	}
	id := strings.TrimSpace(sourceID)
	switch id {
	case "", "null", "undefined":
		return "", false
	}
	return id, true
}

const logoBase = "https://icons.llamao.fi/icons/chains/rsz_"

// LogoURL is the ranking source icon for a chain name.
func LogoURL(name string) string {
	return logoBase + url.PathEscape(strings.ToLower(strings.TrimSpace(name))) + "?w=48&h=48"
}
