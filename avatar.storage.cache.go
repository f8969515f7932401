package avatar

import (
	"context"
	"errors"
	"sync"
	"time"
)

// CacheConfig configures CachedStorage.
type CacheConfig struct {
	// TTL is how long a fetched page is served from memory. Default: 5 minutes.
	TTL time.Duration

	// MaxEntries bounds the number of cached names; the oldest entry is
	// evicted when full. Default: 1000.
	MaxEntries int

	// NegativeTTL is how long a "page not found" result is remembered.
	// Zero disables negative caching.
	NegativeTTL time.Duration
}

// DefaultCacheConfig returns the default caching configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:         DefaultCacheTTL,
		MaxEntries:  DefaultCacheMaxEntries,
		NegativeTTL: DefaultCacheNegativeTTL,
	}
}

// CacheStats reports the current cache contents.
type CacheStats struct {
	Entries         int
	ValidEntries    int
	NegativeEntries int
}

type pageCacheEntry struct {
	page     *StoredPage
	notFound bool
	cachedAt time.Time
}

// CachedStorage wraps a PageStorage and serves repeated Get and Exists calls
// from memory. Writes through the wrapper invalidate the affected name;
// writes made directly to the underlying storage are seen after TTL.
type CachedStorage struct {
	storage PageStorage
	config  CacheConfig

	mu      sync.RWMutex
	entries map[string]*pageCacheEntry
	closed  bool
	// generation increments on every invalidation. A Get that read the
	// backend under an older generation does not cache its result.
	generation uint64
}

// NewCachedStorage wraps storage. Zero config fields take their defaults,
// except NegativeTTL.
func NewCachedStorage(storage PageStorage, config CacheConfig) *CachedStorage {
	if config.TTL <= 0 {
		config.TTL = DefaultCacheTTL
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultCacheMaxEntries
	}
	return &CachedStorage{
		storage: storage,
		config:  config,
		entries: make(map[string]*pageCacheEntry),
	}
}

// Get returns the latest version of a page, from cache when fresh.
func (s *CachedStorage) Get(ctx context.Context, name string) (*StoredPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, NewStorageClosedError()
	}
	entry, ok := s.entries[name]
	fresh := ok && s.fresh(entry)
	generation := s.generation
	s.mu.RUnlock()

	if fresh {
		if entry.notFound {
			return nil, NewPageNotFoundError(name)
		}
		return copyStoredPage(entry.page), nil
	}

	page, err := s.storage.Get(ctx, name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	stale := s.generation != generation
	if err != nil {
		if !stale && s.config.NegativeTTL > 0 && errors.Is(err, ErrPageNotFound) {
			s.put(name, nil)
		}
		return nil, err
	}
	if !stale {
		s.put(name, page)
	}
	return copyStoredPage(page), nil
}

// Save writes through and invalidates the page's cache entry.
func (s *CachedStorage) Save(ctx context.Context, page *StoredPage) error {
	if err := s.storage.Save(ctx, page); err != nil {
		return err
	}
	s.Invalidate(page.Name)
	return nil
}

// Delete removes the page and invalidates its cache entry.
func (s *CachedStorage) Delete(ctx context.Context, name string) error {
	if err := s.storage.Delete(ctx, name); err != nil {
		return err
	}
	s.Invalidate(name)
	return nil
}

// List always reads through.
func (s *CachedStorage) List(ctx context.Context) ([]*StoredPage, error) {
	return s.storage.List(ctx)
}

// Exists answers from a fresh cache entry when present.
func (s *CachedStorage) Exists(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return false, NewStorageClosedError()
	}
	entry, ok := s.entries[name]
	if ok && s.fresh(entry) {
		s.mu.RUnlock()
		return !entry.notFound, nil
	}
	s.mu.RUnlock()

	return s.storage.Exists(ctx, name)
}

// Close drops the cache and closes the underlying storage.
func (s *CachedStorage) Close() error {
	s.mu.Lock()
	s.closed = true
	s.entries = nil
	s.mu.Unlock()

	return s.storage.Close()
}

// Invalidate drops the cache entry for name.
func (s *CachedStorage) Invalidate(name string) {
	s.mu.Lock()
	delete(s.entries, name)
	s.generation++
	s.mu.Unlock()
}

// InvalidateAll clears the cache.
func (s *CachedStorage) InvalidateAll() {
	s.mu.Lock()
	s.entries = make(map[string]*pageCacheEntry)
	s.generation++
	s.mu.Unlock()
}

// Stats returns cache statistics.
func (s *CachedStorage) Stats() CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := CacheStats{Entries: len(s.entries)}
	for _, entry := range s.entries {
		if !s.fresh(entry) {
			continue
		}
		if entry.notFound {
			stats.NegativeEntries++
		} else {
			stats.ValidEntries++
		}
	}
	return stats
}

func (s *CachedStorage) fresh(entry *pageCacheEntry) bool {
	ttl := s.config.TTL
	if entry.notFound {
		ttl = s.config.NegativeTTL
	}
	return time.Since(entry.cachedAt) < ttl
}

// put stores an entry, evicting the oldest when full. Caller holds the write lock.
func (s *CachedStorage) put(name string, page *StoredPage) {
	if _, exists := s.entries[name]; !exists && len(s.entries) >= s.config.MaxEntries {
		var oldestName string
		var oldest time.Time
		for n, e := range s.entries {
			if oldestName == "" || e.cachedAt.Before(oldest) {
				oldestName, oldest = n, e.cachedAt
			}
		}
		delete(s.entries, oldestName)
	}
	s.entries[name] = &pageCacheEntry{
		page:     copyStoredPage(page),
		notFound: page == nil,
		cachedAt: time.Now(),
	}
}
