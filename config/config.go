package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"sjsage522/pricewatch/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// HTTP API configuration
	HTTPAddr       string
	AllowedOrigins []string

	// Acquisition configuration
	RefreshInterval   time.Duration
	CacheTTL          time.Duration
	FetchTimeout      time.Duration
	RateLimitBlock    time.Duration
	MaxItemsPerSource int
	ProductTerms      []string
	FallbackTitle     string

	// Listing URLs for the built-in sources
	AmazonURL      string
	NeweggURL      string
	BestBuyURL     string
	MicroCenterURL string

	// Optional YAML catalog of additional sources
	SourcesFile string

	// Memcache configuration; empty disables memcache in favour of the in-process cache
	MemcacheAddr string

	// Redis configuration; empty RedisAddr disables snapshot publishing
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "100"))
	refreshInterval, _ := strconv.Atoi(getEnv("REFRESH_INTERVAL_SECONDS", "3600"))
	cacheTTL, _ := strconv.Atoi(getEnv("CACHE_TTL_SECONDS", "900"))
	fetchTimeout, _ := strconv.Atoi(getEnv("FETCH_TIMEOUT_SECONDS", "10"))
	blockTime, _ := strconv.Atoi(getEnv("RATE_LIMIT_BLOCK_SECONDS", "500"))
	maxItems, _ := strconv.Atoi(getEnv("MAX_ITEMS_PER_SOURCE", "5"))

	return &Config{
		HTTPAddr:             getEnv("HTTP_ADDR", ":3000"),
		AllowedOrigins:       splitList(getEnv("ALLOWED_ORIGINS", "*")),
		RefreshInterval:      time.Duration(refreshInterval) * time.Second,
		CacheTTL:             time.Duration(cacheTTL) * time.Second,
		FetchTimeout:         time.Duration(fetchTimeout) * time.Second,
		RateLimitBlock:       time.Duration(blockTime) * time.Second,
		MaxItemsPerSource:    maxItems,
		ProductTerms:         splitList(getEnv("PRODUCT_TERMS", "rtx,5090")),
		FallbackTitle:        getEnv("FALLBACK_TITLE", "NVIDIA RTX 5090 Founders Edition GPU"),
		AmazonURL:            getEnv("AMAZON_URL", "https://www.amazon.com/s?k=nvidia+rtx+5090+graphics+card&rh=n%3A172282%2Cn%3A541966%2Cn%3A193870011%2Cn%3A17923671011&dc"),
		NeweggURL:            getEnv("NEWEGG_URL", "https://www.newegg.com/p/pl?d=rtx+5090+graphics+card&N=100007709&isdeptsrh=1"),
		BestBuyURL:           getEnv("BESTBUY_URL", "https://www.bestbuy.com/site/searchpage.jsp?st=rtx+5090+graphics+card&categoryId=abcat0507002"),
		MicroCenterURL:       getEnv("MICROCENTER_URL", "https://www.microcenter.com/search/search_results.aspx?N=&cat=&Ntt=rtx+5090+graphics+card"),
		SourcesFile:          getEnv("SOURCES_FILE", ""),
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "pricewatch:snapshots"),
		RedisStreamMaxLength: streamMaxLength,
		Environment:          getEnv("PRICEWATCH_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration can drive an acquisition cycle
func (c *Config) Validate() error {
	if c.RefreshInterval <= 0 {
		return errors.NewConfiguration("REFRESH_INTERVAL_SECONDS must be positive", nil)
	}
	if c.CacheTTL <= 0 {
		return errors.NewConfiguration("CACHE_TTL_SECONDS must be positive", nil)
	}
	if c.FetchTimeout <= 0 {
		return errors.NewConfiguration("FETCH_TIMEOUT_SECONDS must be positive", nil)
	}
	if c.MaxItemsPerSource <= 0 {
		return errors.NewConfiguration("MAX_ITEMS_PER_SOURCE must be positive", nil)
	}
	if len(c.ProductTerms) == 0 {
		return errors.NewConfiguration("PRODUCT_TERMS must name at least one term", nil)
	}

	for name, raw := range map[string]string{
		"AMAZON_URL":      c.AmazonURL,
		"NEWEGG_URL":      c.NeweggURL,
		"BESTBUY_URL":     c.BestBuyURL,
		"MICROCENTER_URL": c.MicroCenterURL,
	} {
		if err := validateURL(raw); err != nil {
			return errors.NewConfiguration(name+" is not an absolute http(s) URL", err)
		}
	}

	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return errors.NewConfiguration("unsupported url "+raw, nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitList splits a comma separated value, dropping blanks
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
