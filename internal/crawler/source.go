package crawler

import (
	"context"
	"strings"
	"time"

	"sjsage522/pricewatch/services/cache"
)

// CrawlerOptions carries the dependencies shared by every source crawler
type CrawlerOptions struct {
	Fetcher   PageFetcher
	Cache     cache.CacheService
	BlockTime time.Duration
	MaxItems  int
}

// SourceCrawler runs fetch, parse and classification for one SourceSpec
type SourceCrawler struct {
	BaseCrawler
	parser *Parser
	now    func() time.Time
}

// NewSourceCrawler creates a crawler for spec
func NewSourceCrawler(spec SourceSpec, opts CrawlerOptions) *SourceCrawler {
	return &SourceCrawler{
		BaseCrawler: BaseCrawler{
			Spec:      spec,
			CacheKey:  cacheKeyFor(spec.Name),
			CacheSvc:  opts.Cache,
			BlockTime: opts.BlockTime,
			Fetcher:   opts.Fetcher,
		},
		parser: NewParser(opts.MaxItems),
		now:    time.Now,
	}
}

// FetchItems fetches the listing and returns its surfaced items in document order
func (c *SourceCrawler) FetchItems(ctx context.Context) ([]PriceItem, error) {
	body, err := c.fetchWithCache(ctx)
	if err != nil {
		return nil, err
	}

	candidates, err := c.parser.Parse(body, c.Spec)
	if err != nil {
		return nil, err
	}

	observedAt := c.now()
	items := make([]PriceItem, 0, len(candidates))
	for _, candidate := range candidates {
		items = append(items, PriceItem{
			Price:      candidate.Price,
			Title:      candidate.Title,
			URL:        candidate.URL,
			InStock:    candidate.InStock,
			ObservedAt: observedAt,
		})
	}

	return items, nil
}

// cacheKeyFor derives the rate-limit cache key, e.g. "Best Buy" -> "best_buy_rate_limited"
func cacheKeyFor(name string) string {
	key := strings.ToLower(strings.Join(strings.Fields(name), "_"))
	return key + "_rate_limited"
}
