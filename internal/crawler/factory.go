package crawler

import (
	"sjsage522/pricewatch/config"
	"sjsage522/pricewatch/logger"
	"sjsage522/pricewatch/services/cache"
)

// BuiltinSources returns the built-in retail sources in configuration order
func BuiltinSources(cfg *config.Config) []SourceSpec {
	return []SourceSpec{
		{
			Name:           "Amazon",
			ListingURL:     cfg.AmazonURL,
			Extractor:      NewAmazonExtractor(),
			RelevanceTerms: cfg.ProductTerms,
		},
		{
			Name:           "Newegg",
			ListingURL:     cfg.NeweggURL,
			Extractor:      NewNeweggExtractor(),
			RelevanceTerms: cfg.ProductTerms,
		},
		{
			Name:           "Best Buy",
			ListingURL:     cfg.BestBuyURL,
			Extractor:      NewBestBuyExtractor(),
			RelevanceTerms: cfg.ProductTerms,
		},
		{
			Name:           "Micro Center",
			ListingURL:     cfg.MicroCenterURL,
			Extractor:      NewMicroCenterExtractor(),
			RelevanceTerms: cfg.ProductTerms,
		},
	}
}

// CatalogSources converts sources-file entries into specs driven by the
// generic extractor
func CatalogSources(entries []config.SourceEntry, terms []string) []SourceSpec {
	specs := make([]SourceSpec, 0, len(entries))
	for _, entry := range entries {
		specs = append(specs, SourceSpec{
			Name:       entry.Name,
			ListingURL: entry.URL,
			Extractor: NewGenericExtractor(Rule{
				Product:   entry.Rule.Product,
				Container: entry.Rule.Container,
				Price:     entry.Rule.Price,
				Link:      entry.Rule.Link,
				Stock:     entry.Rule.Stock,
			}),
			RelevanceTerms: terms,
		})
	}
	return specs
}

// CreateCrawlers creates one crawler per configured source: built-ins first,
// then the sources file in file order. Catalog entries reusing a built-in
// name are skipped.
func CreateCrawlers(cfg *config.Config, cacheSvc cache.CacheService, fetcher PageFetcher) ([]Crawler, error) {
	entries, err := config.LoadSourcesFile(cfg.SourcesFile)
	if err != nil {
		return nil, err
	}

	specs := BuiltinSources(cfg)
	names := make(map[string]bool, len(specs))
	for _, spec := range specs {
		names[spec.Name] = true
	}
	for _, spec := range CatalogSources(entries, cfg.ProductTerms) {
		if names[spec.Name] {
			logger.Warn("Sources file entry %q shadows a built-in source, skipping", spec.Name)
			continue
		}
		specs = append(specs, spec)
	}

	opts := CrawlerOptions{
		Fetcher:   fetcher,
		Cache:     cacheSvc,
		BlockTime: cfg.RateLimitBlock,
		MaxItems:  cfg.MaxItemsPerSource,
	}

	crawlers := make([]Crawler, 0, len(specs))
	for _, spec := range specs {
		crawlers = append(crawlers, NewSourceCrawler(spec, opts))
		logger.Debug("Crawler %d: %s with URL %s", len(crawlers)-1, spec.Name, spec.ListingURL)
	}

	return crawlers, nil
}
