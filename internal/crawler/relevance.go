package crawler

import (
	"strings"

	"sjsage522/pricewatch/helpers"
)

var (
	// categoryTerms denote the product category; at least one must appear
	categoryTerms = []string{"graphics", "gpu", "geforce", "video card"}

	// accessoryTerms mark accessories listed alongside the card
	accessoryTerms = []string{"case", "cable", "cooler", "water block", "support bracket", "power supply"}

	// unavailableTerms mark listings that cannot be bought now
	unavailableTerms = []string{"sold out", "out of stock", "currently unavailable", "preorder", "pre-order", "back-order", "backorder"}
)

// IsRelevant reports whether title names the target product: every relevance
// term present, some category term present, and no accessory or
// unavailability term present. Matching is case-insensitive substring matching.
func IsRelevant(title string, relevanceTerms []string) bool {
	lowered := strings.ToLower(strings.TrimSpace(title))
	if lowered == "" {
		return false
	}

	return helpers.ContainsAll(lowered, relevanceTerms) &&
		helpers.ContainsAny(lowered, categoryTerms) &&
		!helpers.ContainsAny(lowered, accessoryTerms) &&
		!helpers.ContainsAny(lowered, unavailableTerms)
}
