package crawler

import (
	"math/rand"
	"time"
)

// Placeholder price bands, in whole dollars: [base, base+span)
const (
	emptyFallbackBase  = 1999
	emptyFallbackSpan  = 1000
	failedFallbackBase = 2499
	failedFallbackSpan = 500
)

// DefaultFallbackTitle names the placeholder product
const DefaultFallbackTitle = "NVIDIA RTX 5090 Founders Edition GPU"

// FallbackSynthesizer builds the single placeholder item that keeps a source
// present in the aggregate when it produced no real data.
type FallbackSynthesizer struct {
	title string
	intN  func(n int) int
	now   func() time.Time
}

// NewFallbackSynthesizer creates a synthesizer using the global random source
func NewFallbackSynthesizer(title string) *FallbackSynthesizer {
	if title == "" {
		title = DefaultFallbackTitle
	}
	return &FallbackSynthesizer{
		title: title,
		intN:  rand.Intn,
		now:   time.Now,
	}
}

// Empty is used when a source parsed cleanly but nothing survived filtering
func (f *FallbackSynthesizer) Empty(name, listingURL string) SourceResult {
	return SourceResult{
		Source: name,
		Items:  []PriceItem{f.item(f.title, listingURL, emptyFallbackBase, emptyFallbackSpan)},
	}
}

// Failed is used when fetching or parsing a source raised err
func (f *FallbackSynthesizer) Failed(name, listingURL string, err error) SourceResult {
	return SourceResult{
		Source: name,
		Items:  []PriceItem{f.item(f.title+" (Demo)", listingURL, failedFallbackBase, failedFallbackSpan)},
		Error:  err.Error(),
	}
}

func (f *FallbackSynthesizer) item(title, listingURL string, base, span int) PriceItem {
	return PriceItem{
		Price:      float64(base + f.intN(span)),
		Title:      title,
		URL:        listingURL,
		InStock:    true,
		ObservedAt: f.now(),
		Synthetic:  true,
	}
}
