package crawler

import (
	"context"
	"io"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// PriceItem is a normalized listing surfaced to callers
type PriceItem struct {
	Price      float64   `json:"price"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	InStock    bool      `json:"in_stock"`
	ObservedAt time.Time `json:"observed_at"`
	// Synthetic marks placeholder items produced when a source had no real data
	Synthetic bool `json:"synthetic"`
}

// SourceResult is the outcome of one source for one acquisition cycle.
// Error is set only when the fetch or parse pipeline failed.
type SourceResult struct {
	Source string      `json:"source"`
	Items  []PriceItem `json:"items"`
	Error  string      `json:"error,omitempty"`
}

// Degraded reports whether the source failed and only carries a placeholder
func (r SourceResult) Degraded() bool {
	return r.Error != ""
}

// CandidateItem is a product node tentatively extracted from a listing page
type CandidateItem struct {
	Title        string
	RawPriceText string
	Price        float64
	URL          string
	InStock      bool
}

// Rule contains CSS selectors locating product, container, price, link and
// stock-status nodes within a listing page
type Rule struct {
	Product   string
	Container string
	Price     string
	Link      string
	Stock     string
}

// Extractor is the per-source capability set the parser works through.
// Implementations return empty selections when nothing matches.
type Extractor interface {
	// ProductNodes returns the candidate title nodes in document order
	ProductNodes(doc *goquery.Document) *goquery.Selection

	// Container returns the enclosing product card of a title node
	Container(node *goquery.Selection) *goquery.Selection

	// PriceNode returns the node holding the price text within a container
	PriceNode(container *goquery.Selection) *goquery.Selection

	// StockMarker returns the badge, button or promo text signalling stock status
	StockMarker(container *goquery.Selection) *goquery.Selection

	// Link returns the raw product href, or false when no link-bearing element exists
	Link(node, container *goquery.Selection) (string, bool)
}

// SourceSpec describes one retail source. It is immutable after start-up.
type SourceSpec struct {
	Name       string
	ListingURL string
	Extractor  Extractor
	// RelevanceTerms must all appear (case-insensitive) in a relevant title
	RelevanceTerms []string
}

// PageFetcher retrieves a listing page as UTF-8 markup
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (io.Reader, error)
}

// Crawler interface defines the contract for a single source pipeline
type Crawler interface {
	// FetchItems fetches and parses the source; zero items is not an error
	FetchItems(ctx context.Context) ([]PriceItem, error)

	// GetName returns the source name for logging and identification
	GetName() string

	// GetListingURL returns the page fetched by FetchItems
	GetListingURL() string
}
