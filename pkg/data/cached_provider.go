package data

import (
	"log"
	"path/filepath"
	"sync"

	"github.com/ducminhle1904/legend-candle-scanner/pkg/types"
)

// MemoryCache implements DataCache with an in-memory map. Entries are
// copied on both set and get so cached series stay immutable.
type MemoryCache struct {
	cache map[string][]types.OHLCV
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		cache: make(map[string][]types.OHLCV),
	}
}

// Get retrieves a series from cache if available
func (c *MemoryCache) Get(key string) ([]types.OHLCV, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	data, exists := c.cache[key]
	if !exists {
		return nil, false
	}

	result := make([]types.OHLCV, len(data))
	copy(result, data)
	return result, true
}

// Set stores a series in cache
func (c *MemoryCache) Set(key string, data []types.OHLCV) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	cached := make([]types.OHLCV, len(data))
	copy(cached, data)
	c.cache[key] = cached
}

// Clear removes all cached data
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[string][]types.OHLCV)
}

// Size returns the number of cached entries
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}

// CachedProvider wraps a DataProvider with an in-memory cache, so a batch
// scanning the same file across many configurations only reads it once
type CachedProvider struct {
	provider DataProvider
	cache    DataCache
}

// NewCachedProvider creates a cached data provider
func NewCachedProvider(provider DataProvider) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    NewMemoryCache(),
	}
}

// GetName returns the underlying provider name with cache indication
func (p *CachedProvider) GetName() string {
	return "Cached " + p.provider.GetName()
}

// LoadData loads a series, serving repeat requests from cache
func (p *CachedProvider) LoadData(source string) ([]types.OHLCV, error) {
	if cached, exists := p.cache.Get(source); exists {
		return cached, nil
	}

	log.Printf("🔄 Loading candle series from %s", filepath.Base(source))
	data, err := p.provider.LoadData(source)
	if err != nil {
		log.Printf("❌ Failed to load data from %s: %v", filepath.Base(source), err)
		return nil, err
	}

	p.cache.Set(source, data)

	log.Printf("✅ Loaded and cached data from %s (%d candles)", filepath.Base(source), len(data))
	return data, nil
}

// ValidateData validates data using the underlying provider
func (p *CachedProvider) ValidateData(data []types.OHLCV) error {
	return p.provider.ValidateData(data)
}

// CacheSize returns the number of cached series
func (p *CachedProvider) CacheSize() int {
	return p.cache.Size()
}

// ClearCache clears all cached data
func (p *CachedProvider) ClearCache() {
	p.cache.Clear()
}
