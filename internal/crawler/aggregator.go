package crawler

import (
	"context"
	"fmt"
	"time"

	"sjsage522/pricewatch/logger"

	"golang.org/x/sync/errgroup"
)

// Aggregator runs every source pipeline concurrently and joins the outcomes
// in configuration order
type Aggregator struct {
	crawlers []Crawler
	fallback *FallbackSynthesizer
}

// NewAggregator creates an aggregator over crawlers
func NewAggregator(crawlers []Crawler, fallback *FallbackSynthesizer) *Aggregator {
	if fallback == nil {
		fallback = NewFallbackSynthesizer("")
	}
	return &Aggregator{
		crawlers: crawlers,
		fallback: fallback,
	}
}

// Acquire runs one acquisition cycle. It returns one SourceResult per crawler,
// in configuration order. Source failures are folded into their results; an
// error is returned only when a pipeline panics or ctx ends before the join.
func (a *Aggregator) Acquire(ctx context.Context) ([]SourceResult, error) {
	log := logger.ForComponent("aggregator")
	start := time.Now()

	results := make([]SourceResult, len(a.crawlers))

	var g errgroup.Group
	for i, c := range a.crawlers {
		i, c := i, c
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("source %s pipeline panicked: %v", c.GetName(), r)
				}
			}()
			results[i] = a.collect(ctx, c)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Acquisition cycle aborted")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("acquisition cancelled: %w", err)
	}

	degraded := 0
	for _, r := range results {
		if r.Degraded() {
			degraded++
		}
	}
	log.Info().
		Dur("elapsed", time.Since(start)).
		Int("sources", len(results)).
		Int("degraded", degraded).
		Msg("Acquisition cycle completed")

	return results, nil
}

// collect runs one source and converts every outcome into a SourceResult
func (a *Aggregator) collect(ctx context.Context, c Crawler) SourceResult {
	name := c.GetName()
	log := logger.ForSource(name)

	items, err := c.FetchItems(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Source failed, using fallback item")
		return a.fallback.Failed(name, c.GetListingURL(), err)
	}

	surfaced := make([]PriceItem, 0, len(items))
	for _, item := range items {
		if item.InStock && item.Price > 0 {
			surfaced = append(surfaced, item)
		}
	}

	if len(surfaced) == 0 {
		log.Info().Msg("No relevant in-stock items found, using fallback item")
		return a.fallback.Empty(name, c.GetListingURL())
	}

	log.Debug().Int("items", len(surfaced)).Msg("Source collected")
	return SourceResult{Source: name, Items: surfaced}
}
