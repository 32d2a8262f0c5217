package services

import (
	"sync"
	"time"
)

// Source tags where a resilient fetch result came from, so callers can
// distinguish live data from degraded fallbacks instead of silently
// rendering sample content as if it were real.
type Source string

const (
	SourceLive     Source = "live"
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
)

// Result wraps a fetched value with its provenance.
type Result struct {
	Data   interface{} `json:"data"`
	Source Source      `json:"source"`
}

// FetchOptions tunes one FetchWithFallback call. The zero value keeps
// the defaults, so setting just CacheTTL leaves offline caching on.
type FetchOptions struct {
	CacheTTL       time.Duration
	DisableOffline bool
}

const defaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	value    interface{}
	storedAt time.Time
	ttl      time.Duration
}

// ResilientFetcher is a cache-aside fetcher with a two-tier fallback:
// primary, then a fresh cache entry, then the fallback supplier. It never
// retries the primary within one invocation. Constructed and injected
// rather than a package-level singleton so tests can isolate state and
// control time via Now.
type ResilientFetcher struct {
	Now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewResilientFetcher() *ResilientFetcher {
	return &ResilientFetcher{
		Now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// FetchWithFallback attempts primary; on success the result is cached
// under key (overwriting any previous entry) and returned tagged live.
// On failure a cache entry no older than its TTL is returned tagged
// cache; otherwise fallback supplies the result, tagged fallback. The
// error is non-nil only when primary and fallback both fail.
func (f *ResilientFetcher) FetchWithFallback(key string, primary func() (interface{}, error), fallback func() (interface{}, error), opts *FetchOptions) (Result, error) {
	ttl := defaultCacheTTL
	offline := true
	if opts != nil {
		if opts.CacheTTL > 0 {
			ttl = opts.CacheTTL
		}
		offline = !opts.DisableOffline
	}

	value, err := primary()
	if err == nil {
		if offline {
			f.mu.Lock()
			f.entries[key] = cacheEntry{value: value, storedAt: f.Now(), ttl: ttl}
			f.mu.Unlock()
		}
		return Result{Data: value, Source: SourceLive}, nil
	}

	if offline {
		f.mu.Lock()
		entry, ok := f.entries[key]
		if ok && f.Now().Sub(entry.storedAt) <= entry.ttl {
			f.mu.Unlock()
			return Result{Data: entry.value, Source: SourceCache}, nil
		}
		if ok {
			// lazy eviction: expired entries are dropped on read
			delete(f.entries, key)
		}
		f.mu.Unlock()
	}

	fallbackValue, fallbackErr := fallback()
	if fallbackErr != nil {
		return Result{}, fallbackErr
	}
	return Result{Data: fallbackValue, Source: SourceFallback}, nil
}

// Invalidate drops one cache entry, e.g. after a write that makes it stale.
func (f *ResilientFetcher) Invalidate(key string) {
	f.mu.Lock()
	delete(f.entries, key)
	f.mu.Unlock()
}
