package crawler

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"sjsage522/pricewatch/helpers"
	"sjsage522/pricewatch/logger"
	"sjsage522/pricewatch/pkg/errors"
	"sjsage522/pricewatch/services/cache"
)

// BaseCrawler provides fetching with rate-limit memory for a source
type BaseCrawler struct {
	Spec      SourceSpec
	CacheKey  string
	CacheSvc  cache.CacheService
	BlockTime time.Duration
	Fetcher   PageFetcher
}

// fetchWithCache fetches the listing page unless the source is inside a block
// window recorded after an earlier 429 response
func (c *BaseCrawler) fetchWithCache(ctx context.Context) (io.Reader, error) {
	if c.CacheSvc != nil && c.CacheKey != "" {
		if _, err := c.CacheSvc.Get(c.CacheKey); err == nil {
			return nil, errors.NewRateLimit(c.Spec.Name, c.BlockTime)
		}
	}

	body, err := c.Fetcher.Fetch(ctx, c.Spec.ListingURL)
	if err == nil {
		return body, nil
	}

	if !stderrors.Is(err, helpers.ErrRateLimited) {
		return nil, errors.NewFetch(c.Spec.Name, "failed to fetch listing", err)
	}

	if c.CacheSvc != nil && c.CacheKey != "" && c.BlockTime > 0 {
		blockFor := []byte(fmt.Sprintf("%d", c.BlockTime/time.Second))
		if setErr := c.CacheSvc.Set(c.CacheKey, blockFor, c.BlockTime); setErr != nil {
			logger.ForSource(c.Spec.Name).Warn().Err(setErr).Msg("Failed to record rate limit block")
		}
	}
	return nil, errors.New(errors.ErrorTypeRateLimit, c.Spec.Name, "listing rate limited", err)
}

// GetName returns the source name
func (c *BaseCrawler) GetName() string {
	return c.Spec.Name
}

// GetListingURL returns the listing page URL
func (c *BaseCrawler) GetListingURL() string {
	return c.Spec.ListingURL
}
