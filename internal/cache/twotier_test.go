package cache

import (
	"context"
	"os"
	"testing"

	"sqlport/internal/convert"
	"sqlport/internal/fingerprint"
	"sqlport/internal/logging"
	"sqlport/internal/metrics"
	"sqlport/internal/storage"
)

func testCache(t *testing.T) (*TwoTier, *storage.ConvStore) {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "sqlport-cache-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	logger := logging.NewLogger(logging.Config{Level: logging.ErrorLevel})
	db, err := storage.Open(tmpDir, logger)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := storage.NewConvStore(db)
	return New(store, logger), store
}

func sampleResult(converted string) *convert.ConversionResult {
	return &convert.ConversionResult{
		ID:            "r-1",
		SourceUnit:    convert.SourceUnit{Identifier: "orders.sql", Text: "SELECT * FROM T"},
		Model:         "m1",
		ConvertedText: converted,
		Issues: []convert.ConversionIssue{
			{ID: "i-1", Severity: convert.SeverityWarning, Description: "check this"},
		},
		Performance: &metrics.PerformanceMetrics{
			PerformanceScore: 70,
			ConversionTimeMs: 900,
			Recommendations:  []string{"review loops"},
		},
		Status: convert.StatusSuccess,
	}
}

func TestRoundTrip(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()
	key := fingerprint.Compute("SELECT * FROM T", "m1", "v1")

	c.Put(ctx, key, sampleResult("SELECT 1"))

	got, ok := c.Get(ctx, key)
	if !ok {
		t.Fatal("expected hit after put")
	}
	if got.ConvertedText != "SELECT 1" {
		t.Errorf("converted text mismatch: %q", got.ConvertedText)
	}
	if len(got.Issues) != 1 || got.Issues[0].ID != "i-1" {
		t.Errorf("issues not preserved: %+v", got.Issues)
	}
	if got.Performance == nil || got.Performance.PerformanceScore != 70 {
		t.Errorf("performance not preserved: %+v", got.Performance)
	}
}

func TestTierPrecedence(t *testing.T) {
	c, store := testCache(t)
	ctx := context.Background()
	key := fingerprint.Compute("SELECT * FROM T", "m1", "v1")

	// The durable tier holds one value, the local tier a different one.
	shared := sampleResult("from shared tier")
	rec, err := resultToRecord(key, shared)
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}
	if err := store.Insert(rec); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	c.local.Put(key.Digest, sampleResult("from local tier"))

	got, ok := c.Get(ctx, key)
	if !ok {
		t.Fatal("expected hit")
	}
	if got.ConvertedText != "from local tier" {
		t.Errorf("local tier must win, got %q", got.ConvertedText)
	}
}

func TestSharedHitNotPromoted(t *testing.T) {
	c, store := testCache(t)
	ctx := context.Background()
	key := fingerprint.Compute("SELECT * FROM T", "m1", "v1")

	rec, err := resultToRecord(key, sampleResult("shared only"))
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}
	if err := store.Insert(rec); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	got, ok := c.Get(ctx, key)
	if !ok || got.ConvertedText != "shared only" {
		t.Fatalf("expected shared-tier hit, got ok=%v", ok)
	}
	if c.local.Len() != 0 {
		t.Error("shared hits must not be promoted into the local tier")
	}
}

func TestDeepCopyIsolation(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()
	key := fingerprint.Compute("SELECT * FROM T", "m1", "v1")

	original := sampleResult("pristine")
	c.Put(ctx, key, original)

	// Mutating the value we inserted must not affect the cache.
	original.ConvertedText = "mutated after put"
	original.Issues[0].Description = "mutated issue"

	got, _ := c.Get(ctx, key)
	if got.ConvertedText != "pristine" {
		t.Error("cache entry corrupted by post-put mutation")
	}
	if got.Issues[0].Description != "check this" {
		t.Error("cached issues corrupted by post-put mutation")
	}

	// Mutating a returned value must not affect later reads.
	got.ConvertedText = "mutated after get"
	got.Performance.Recommendations[0] = "mutated rec"

	again, _ := c.Get(ctx, key)
	if again.ConvertedText != "pristine" {
		t.Error("cache entry corrupted by post-get mutation")
	}
	if again.Performance.Recommendations[0] != "review loops" {
		t.Error("cached recommendations corrupted by post-get mutation")
	}
}

func TestInvalidSharedPayloadIsMiss(t *testing.T) {
	c, store := testCache(t)
	ctx := context.Background()
	key := fingerprint.Compute("SELECT * FROM T", "m1", "v1")

	rec, err := resultToRecord(key, sampleResult("x"))
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}
	rec.MetricsJSON = "{not json"
	if err := store.Insert(rec); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if _, ok := c.Get(ctx, key); ok {
		t.Error("structurally invalid durable row must be a miss, not a hit")
	}
}

func TestNilSharedTier(t *testing.T) {
	logger := logging.NewLogger(logging.Config{Level: logging.ErrorLevel})
	c := New(nil, logger)
	ctx := context.Background()
	key := fingerprint.Compute("SELECT 1", "m1", "v1")

	if _, ok := c.Get(ctx, key); ok {
		t.Error("expected miss with no tiers populated")
	}
	c.Put(ctx, key, sampleResult("local only"))
	if got, ok := c.Get(ctx, key); !ok || got.ConvertedText != "local only" {
		t.Error("local tier should work without a shared store")
	}
}

func TestStats(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()
	key := fingerprint.Compute("SELECT 1", "m1", "v1")

	c.Get(ctx, key) // miss
	c.Put(ctx, key, sampleResult("x"))
	c.Get(ctx, key) // hit

	snap := c.Stats()
	if snap.LocalEntries != 1 {
		t.Errorf("expected 1 local entry, got %d", snap.LocalEntries)
	}
	if snap.LocalHits != 1 || snap.LocalMisses != 1 {
		t.Errorf("expected 1 hit / 1 miss, got %d / %d", snap.LocalHits, snap.LocalMisses)
	}
	if snap.Shared == nil || snap.Shared.Entries != 1 {
		t.Errorf("expected 1 shared entry, got %+v", snap.Shared)
	}
}
