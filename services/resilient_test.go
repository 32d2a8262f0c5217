package services

import (
	"errors"
	"testing"
	"time"
)

func fixedClock(t *time.Time) func() time.Time {
	return func() time.Time { return *t }
}

func TestFetchWithFallbackLiveResult(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewResilientFetcher()
	f.Now = fixedClock(&now)

	res, err := f.FetchWithFallback("home",
		func() (interface{}, error) { return "fresh", nil },
		func() (interface{}, error) { return "static", nil },
		nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Source != SourceLive || res.Data != "fresh" {
		t.Fatalf("expected live/fresh, got %s/%v", res.Source, res.Data)
	}
}

func TestFetchWithFallbackReturnsCacheWithinTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewResilientFetcher()
	f.Now = fixedClock(&now)

	if _, err := f.FetchWithFallback("home",
		func() (interface{}, error) { return "fresh", nil },
		func() (interface{}, error) { return "static", nil },
		nil); err != nil {
		t.Fatalf("priming call failed: %v", err)
	}

	now = now.Add(4 * time.Minute)
	res, err := f.FetchWithFallback("home",
		func() (interface{}, error) { return nil, errors.New("backend down") },
		func() (interface{}, error) { return "static", nil },
		nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Source != SourceCache || res.Data != "fresh" {
		t.Fatalf("expected cached value within TTL, got %s/%v", res.Source, res.Data)
	}
}

func TestFetchWithFallbackExpiredCacheUsesFallback(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewResilientFetcher()
	f.Now = fixedClock(&now)

	if _, err := f.FetchWithFallback("home",
		func() (interface{}, error) { return "fresh", nil },
		func() (interface{}, error) { return "static", nil },
		nil); err != nil {
		t.Fatalf("priming call failed: %v", err)
	}

	now = now.Add(6 * time.Minute)
	res, err := f.FetchWithFallback("home",
		func() (interface{}, error) { return nil, errors.New("backend down") },
		func() (interface{}, error) { return "static", nil },
		nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Source != SourceFallback || res.Data != "static" {
		t.Fatalf("expected fallback after TTL expiry, got %s/%v", res.Source, res.Data)
	}
}

func TestFetchWithFallbackCustomTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewResilientFetcher()
	f.Now = fixedClock(&now)
	opts := &FetchOptions{CacheTTL: 30 * time.Second}

	if _, err := f.FetchWithFallback("towns",
		func() (interface{}, error) { return 7, nil },
		func() (interface{}, error) { return 0, nil },
		opts); err != nil {
		t.Fatalf("priming call failed: %v", err)
	}

	now = now.Add(45 * time.Second)
	res, _ := f.FetchWithFallback("towns",
		func() (interface{}, error) { return nil, errors.New("down") },
		func() (interface{}, error) { return 0, nil },
		opts)
	if res.Source != SourceFallback {
		t.Fatalf("entry older than custom TTL must fall back, got %s", res.Source)
	}
}

func TestFetchWithFallbackTTLOnlyOptionsKeepOfflineCaching(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewResilientFetcher()
	f.Now = fixedClock(&now)
	opts := &FetchOptions{CacheTTL: 10 * time.Minute}

	if _, err := f.FetchWithFallback("home",
		func() (interface{}, error) { return "fresh", nil },
		func() (interface{}, error) { return "static", nil },
		opts); err != nil {
		t.Fatalf("priming call failed: %v", err)
	}

	now = now.Add(time.Minute)
	res, err := f.FetchWithFallback("home",
		func() (interface{}, error) { return nil, errors.New("backend down") },
		func() (interface{}, error) { return "static", nil },
		opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Source != SourceCache || res.Data != "fresh" {
		t.Fatalf("options with only a TTL must still serve the cache, got %s/%v", res.Source, res.Data)
	}
}

func TestFetchWithFallbackOfflineDisabledSkipsCache(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewResilientFetcher()
	f.Now = fixedClock(&now)
	opts := &FetchOptions{CacheTTL: time.Minute, DisableOffline: true}

	if _, err := f.FetchWithFallback("home",
		func() (interface{}, error) { return "fresh", nil },
		func() (interface{}, error) { return "static", nil },
		opts); err != nil {
		t.Fatalf("priming call failed: %v", err)
	}

	res, err := f.FetchWithFallback("home",
		func() (interface{}, error) { return nil, errors.New("down") },
		func() (interface{}, error) { return "static", nil },
		opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Source != SourceFallback {
		t.Fatalf("offline disabled must go straight to fallback, got %s", res.Source)
	}
}

func TestFetchWithFallbackBothFail(t *testing.T) {
	f := NewResilientFetcher()

	_, err := f.FetchWithFallback("home",
		func() (interface{}, error) { return nil, errors.New("down") },
		func() (interface{}, error) { return nil, errors.New("no static data") },
		nil)
	if err == nil {
		t.Fatalf("expected error when primary and fallback both fail")
	}
}

func TestInvalidateDropsCachedEntry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewResilientFetcher()
	f.Now = fixedClock(&now)

	if _, err := f.FetchWithFallback("home",
		func() (interface{}, error) { return "fresh", nil },
		func() (interface{}, error) { return "static", nil },
		nil); err != nil {
		t.Fatalf("priming call failed: %v", err)
	}

	f.Invalidate("home")

	res, err := f.FetchWithFallback("home",
		func() (interface{}, error) { return nil, errors.New("backend down") },
		func() (interface{}, error) { return "static", nil },
		nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Source != SourceFallback {
		t.Fatalf("invalidated key must not serve the cache, got %s", res.Source)
	}
}

func TestFetchWithFallbackOverwritesCache(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewResilientFetcher()
	f.Now = fixedClock(&now)

	f.FetchWithFallback("home",
		func() (interface{}, error) { return "v1", nil },
		func() (interface{}, error) { return "static", nil },
		nil)
	f.FetchWithFallback("home",
		func() (interface{}, error) { return "v2", nil },
		func() (interface{}, error) { return "static", nil },
		nil)

	res, _ := f.FetchWithFallback("home",
		func() (interface{}, error) { return nil, errors.New("down") },
		func() (interface{}, error) { return "static", nil },
		nil)
	if res.Data != "v2" {
		t.Fatalf("cache must hold the latest successful value, got %v", res.Data)
	}
}
