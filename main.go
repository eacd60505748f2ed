// pricewatch tracks retail prices of one product across several stores.
//
// Usage:
//
//	pricewatch serve [--addr :3000]
//	pricewatch scrape [--pretty]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sjsage522/pricewatch/config"
	"sjsage522/pricewatch/helpers"
	"sjsage522/pricewatch/internal/crawler"
	"sjsage522/pricewatch/logger"
	"sjsage522/pricewatch/services/api"
	"sjsage522/pricewatch/services/cache"
	"sjsage522/pricewatch/services/publisher"
	"sjsage522/pricewatch/services/snapshot"
	"sjsage522/pricewatch/services/worker"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app := &cli.App{
		Name:  "pricewatch",
		Usage: "Aggregate product prices across retail listings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "Environment file loaded before configuration",
			},
		},
		Before: func(c *cli.Context) error {
			// A missing env file is fine; the process environment still applies
			_ = godotenv.Load(c.String("env-file"))
			logger.Init()
			return nil
		},
		Commands: []*cli.Command{
			serveCommand(),
			scrapeCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the price API and refresh prices on a schedule",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overrides HTTP_ADDR",
			},
		},
		Action: runServe,
	}
}

func scrapeCommand() *cli.Command {
	return &cli.Command{
		Name:  "scrape",
		Usage: "Run one acquisition cycle and print the results as JSON",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Indent the JSON output",
			},
		},
		Action: runScrape,
	}
}

func runServe(c *cli.Context) error {
	log := logger.Default

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if addr := c.String("addr"); addr != "" {
		cfg.HTTPAddr = addr
	}

	log.Info().
		Str("environment", cfg.Environment).
		Dur("refresh_interval", cfg.RefreshInterval).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("Starting application")

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	services, err := initializeServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer services.Cleanup()

	aggregator, err := newAggregator(cfg, services.Cache)
	if err != nil {
		return err
	}

	store := snapshot.NewStore(aggregator, services.Cache, services.Publisher, cfg.CacheTTL)
	if err := store.Restore(); err != nil {
		log.Warn().Err(err).Msg("Failed to restore snapshot")
	}

	w := worker.NewWorker(ctx, store, cfg.RefreshInterval)
	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting price worker")
		workerDone <- w.Start()
	}()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewServer(store, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverDone := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
		close(serverDone)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("Received shutdown signal")
	case err := <-serverDone:
		runErr = err
		log.Error().Err(err).Msg("API server stopped")
	case err := <-workerDone:
		runErr = err
		log.Warn().Err(err).Msg("Worker exited")
	}
	stop()

	log.Info().Msg("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("API shutdown incomplete")
	}

	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("Worker did not stop before the shutdown deadline")
	}

	return runErr
}

func runScrape(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	aggregator, err := newAggregator(cfg, newCache(cfg))
	if err != nil {
		return err
	}

	results, err := aggregator.Acquire(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	if c.Bool("pretty") {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(results)
}

func loadConfig() (*config.Config, error) {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newAggregator(cfg *config.Config, cacheSvc cache.CacheService) (*crawler.Aggregator, error) {
	crawlers, err := crawler.CreateCrawlers(cfg, cacheSvc, helpers.NewFetcher(cfg.FetchTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create crawlers: %w", err)
	}
	if len(crawlers) == 0 {
		return nil, errors.New("no crawlers were created")
	}

	logger.Default.Info().
		Int("crawler_count", len(crawlers)).
		Msg("Created crawlers")

	return crawler.NewAggregator(crawlers, crawler.NewFallbackSynthesizer(cfg.FallbackTitle)), nil
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		if err := s.Publisher.Close(); err != nil {
			logger.Warn("Failed to close publisher: %v", err)
		}
	}
}

// initializeServices initializes the cache and, when configured, the publisher
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{Cache: newCache(cfg)}

	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set, snapshot publishing disabled")
		return services, nil
	}

	redisPublisher := publisher.NewRedisPublisher(
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamMaxLength,
	)
	if err := redisPublisher.Ping(ctx); err != nil {
		logger.Warn("Redis at %s unreachable, publishing will be retried per snapshot: %v", cfg.RedisAddr, err)
	} else {
		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}
	services.Publisher = redisPublisher

	return services, nil
}

// newCache returns memcache when configured and reachable, else an in-process cache
func newCache(cfg *config.Config) cache.CacheService {
	if cfg.MemcacheAddr == "" {
		logger.Info("MEMCACHE_ADDR not set, using in-process cache")
		return cache.NewMemoryCache()
	}

	memcacheService := cache.NewMemcacheService(cfg.MemcacheAddr)
	if err := memcacheService.Ping(); err != nil {
		logger.Warn("Memcache at %s unreachable, using in-process cache: %v", cfg.MemcacheAddr, err)
		return cache.NewMemoryCache()
	}

	logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
	return memcacheService
}
