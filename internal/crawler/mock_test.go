package crawler

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"sjsage522/pricewatch/services/cache"
)

// MockCacheService implements a simple in-memory cache for testing
type MockCacheService struct {
	mu    sync.Mutex
	cache map[string][]byte
	ttls  map[string]time.Duration
}

func NewMockCacheService() *MockCacheService {
	return &MockCacheService{
		cache: make(map[string][]byte),
		ttls:  make(map[string]time.Duration),
	}
}

func (m *MockCacheService) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if val, ok := m.cache[key]; ok {
		return val, nil
	}
	return nil, cache.ErrCacheMiss
}

func (m *MockCacheService) Set(key string, value []byte, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[key] = value
	m.ttls[key] = expiration
	return nil
}

func (m *MockCacheService) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cache, key)
	delete(m.ttls, key)
	return nil
}

// MockFetcher serves canned markup or an error and counts calls
type MockFetcher struct {
	mu    sync.Mutex
	html  string
	err   error
	calls int
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) (io.Reader, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	return strings.NewReader(m.html), nil
}

func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockCrawler returns fixed items or an error, optionally after a delay
type MockCrawler struct {
	name  string
	url   string
	items []PriceItem
	err   error
	delay time.Duration
	panic bool
}

func (m *MockCrawler) FetchItems(ctx context.Context) ([]PriceItem, error) {
	if m.panic {
		panic("selector exploded")
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

func (m *MockCrawler) GetName() string {
	return m.name
}

func (m *MockCrawler) GetListingURL() string {
	return m.url
}

var errMockFetch = errors.New("connection refused")

// Ensure the mocks implement their interfaces
var (
	_ cache.CacheService = (*MockCacheService)(nil)
	_ PageFetcher        = (*MockFetcher)(nil)
	_ Crawler            = (*MockCrawler)(nil)
)
