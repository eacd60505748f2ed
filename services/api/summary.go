package api

import (
	"time"

	"sjsage522/pricewatch/internal/crawler"

	"github.com/shopspring/decimal"
)

// Offer is one surfaced item with the source it came from
type Offer struct {
	Source    string  `json:"source"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	URL       string  `json:"url"`
	Synthetic bool    `json:"synthetic"`
}

// Alert reports the offers priced at or below a requested threshold
type Alert struct {
	Threshold  float64 `json:"threshold"`
	Triggered  bool    `json:"triggered"`
	BelowAlert []Offer `json:"below_alert"`
}

// Summary aggregates price statistics over every surfaced item of a snapshot
type Summary struct {
	SnapshotID      string    `json:"snapshot_id"`
	CapturedAt      time.Time `json:"captured_at"`
	ItemCount       int       `json:"item_count"`
	SyntheticCount  int       `json:"synthetic_count"`
	MinPrice        float64   `json:"min_price"`
	MaxPrice        float64   `json:"max_price"`
	MeanPrice       float64   `json:"mean_price"`
	PriceRange      float64   `json:"price_range"`
	Lowest          *Offer    `json:"lowest,omitempty"`
	DegradedSources []string  `json:"degraded_sources"`
	Alert           *Alert    `json:"alert,omitempty"`
}

// Summarize computes statistics over results. Prices are summed as decimals
// and reported rounded to cents. A nil threshold disables the alert check.
func Summarize(results []crawler.SourceResult, threshold *decimal.Decimal) Summary {
	summary := Summary{DegradedSources: []string{}}
	if threshold != nil {
		summary.Alert = &Alert{Threshold: threshold.InexactFloat64(), BelowAlert: []Offer{}}
	}

	var low, high, total decimal.Decimal
	for _, result := range results {
		if result.Degraded() {
			summary.DegradedSources = append(summary.DegradedSources, result.Source)
		}

		for _, item := range result.Items {
			price := decimal.NewFromFloat(item.Price)
			offer := Offer{
				Source:    result.Source,
				Title:     item.Title,
				Price:     item.Price,
				URL:       item.URL,
				Synthetic: item.Synthetic,
			}

			if summary.ItemCount == 0 || price.LessThan(low) {
				low = price
				lowest := offer
				summary.Lowest = &lowest
			}
			if summary.ItemCount == 0 || price.GreaterThan(high) {
				high = price
			}
			total = total.Add(price)
			summary.ItemCount++

			if item.Synthetic {
				summary.SyntheticCount++
			}
			if threshold != nil && price.LessThanOrEqual(*threshold) {
				summary.Alert.BelowAlert = append(summary.Alert.BelowAlert, offer)
			}
		}
	}

	if summary.ItemCount == 0 {
		return summary
	}

	mean := total.Div(decimal.NewFromInt(int64(summary.ItemCount)))
	summary.MinPrice = low.Round(2).InexactFloat64()
	summary.MaxPrice = high.Round(2).InexactFloat64()
	summary.MeanPrice = mean.Round(2).InexactFloat64()
	summary.PriceRange = high.Sub(low).Round(2).InexactFloat64()
	if summary.Alert != nil {
		summary.Alert.Triggered = len(summary.Alert.BelowAlert) > 0
	}

	return summary
}
