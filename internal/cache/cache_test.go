package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/job-radar/radar/pkg/models"
)

func testRec(strategy models.Strategy) *models.StrategyRecommendation {
	return &models.StrategyRecommendation{
		Strategy:   strategy,
		Confidence: 0.8,
		Rationale:  []string{"test"},
		AnalyzedAt: time.Now(),
	}
}

func TestMemoryCache_SetGet(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	rec := testRec(models.StrategyAPI)
	if err := mc.Set("https://example.com", rec, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := mc.Get("https://example.com")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != rec {
		t.Error("expected the identical cached recommendation value")
	}

	if _, ok := mc.Get("https://other.com"); ok {
		t.Error("expected miss for unknown origin")
	}
}

func TestMemoryCache_Overwrite(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	mc.Set("https://example.com", testRec(models.StrategyAPI), time.Minute)
	second := testRec(models.StrategySelenium)
	mc.Set("https://example.com", second, time.Minute)

	got, ok := mc.Get("https://example.com")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Strategy != models.StrategySelenium {
		t.Errorf("expected overwritten entry, got %s", got.Strategy)
	}
	if mc.Len() != 1 {
		t.Errorf("expected one live entry per origin, got %d", mc.Len())
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	mc.Set("https://example.com", testRec(models.StrategyRequests), 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	if _, ok := mc.Get("https://example.com"); ok {
		t.Error("expected expired entry to be treated as absent")
	}
	// Lazy eviction should have removed it
	if mc.Len() != 0 {
		t.Errorf("expected expired entry to be evicted, len=%d", mc.Len())
	}
}

func TestMemoryCache_DeleteClear(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	mc.Set("https://a.com", testRec(models.StrategyAPI), time.Minute)
	mc.Set("https://b.com", testRec(models.StrategyAPI), time.Minute)

	if err := mc.Delete("https://a.com"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := mc.Delete("https://missing.com"); err != nil {
		t.Fatalf("Delete of missing key should not error: %v", err)
	}
	if _, ok := mc.Get("https://a.com"); ok {
		t.Error("expected miss after delete")
	}

	if err := mc.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if mc.Len() != 0 {
		t.Errorf("expected empty cache after clear, len=%d", mc.Len())
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			origin := fmt.Sprintf("https://site%d.com", n%5)
			mc.Set(origin, testRec(models.StrategyRequests), time.Minute)
			mc.Get(origin)
		}(i)
	}
	wg.Wait()

	if mc.Len() != 5 {
		t.Errorf("expected 5 distinct origins, got %d", mc.Len())
	}
}
