package crawler

import (
	"strings"

	"sjsage522/pricewatch/helpers"

	"github.com/PuerkitoBio/goquery"
)

var outOfStockPhrases = []string{"out of stock", "sold out", "currently unavailable", "unavailable"}

// InStock classifies a stock-status marker. A missing marker, or one without a
// negative phrase, means the item is available.
func InStock(marker *goquery.Selection) bool {
	if marker == nil || marker.Length() == 0 {
		return true
	}
	return !helpers.ContainsAny(strings.ToLower(marker.Text()), outOfStockPhrases)
}
