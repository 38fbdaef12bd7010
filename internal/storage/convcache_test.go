package storage

import (
	"os"
	"testing"

	"sqlport/internal/logging"
)

func testStore(t *testing.T) *ConvStore {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "sqlport-storage-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	logger := logging.NewLogger(logging.Config{Level: logging.ErrorLevel})
	db, err := Open(tmpDir, logger)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewConvStore(db)
}

func sampleRecord() *ConversionRecord {
	return &ConversionRecord{
		ContentHash:   "abc123",
		Model:         "m1",
		ResultID:      "r-1",
		Status:        "success",
		OriginalText:  "SELECT * FROM T",
		ConvertedText: "SELECT * FROM t_converted",
		MetricsJSON:   `{"performanceScore":70}`,
		IssuesJSON:    `[]`,
		MappingsJSON:  `[]`,
	}
}

func TestLookupMiss(t *testing.T) {
	store := testStore(t)

	rec, found, err := store.Lookup("nope", "m1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found || rec != nil {
		t.Error("expected miss on empty store")
	}
}

func TestInsertAndLookup(t *testing.T) {
	store := testStore(t)

	if err := store.Insert(sampleRecord()); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	rec, found, err := store.Lookup("abc123", "m1")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !found {
		t.Fatal("expected hit after insert")
	}
	if rec.OriginalText != "SELECT * FROM T" {
		t.Errorf("original text mismatch: %q", rec.OriginalText)
	}
	if rec.ConvertedText != "SELECT * FROM t_converted" {
		t.Errorf("converted text mismatch: %q", rec.ConvertedText)
	}
	if rec.Status != "success" || rec.ResultID != "r-1" {
		t.Errorf("metadata mismatch: %+v", rec)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("created_at should be set")
	}
}

func TestLookupModelNamespacing(t *testing.T) {
	store := testStore(t)

	if err := store.Insert(sampleRecord()); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	_, found, err := store.Lookup("abc123", "other-model")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("same hash under a different model should miss")
	}
}

func TestInsertOverwrites(t *testing.T) {
	store := testStore(t)

	if err := store.Insert(sampleRecord()); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	updated := sampleRecord()
	updated.ConvertedText = "SELECT 1 FROM dual"
	if err := store.Insert(updated); err != nil {
		t.Fatalf("duplicate-key insert should overwrite, got: %v", err)
	}

	rec, found, err := store.Lookup("abc123", "m1")
	if err != nil || !found {
		t.Fatalf("lookup failed: found=%v err=%v", found, err)
	}
	if rec.ConvertedText != "SELECT 1 FROM dual" {
		t.Errorf("expected overwritten text, got %q", rec.ConvertedText)
	}
}

func TestLookupCorruptPayload(t *testing.T) {
	store := testStore(t)

	// A row whose blob is not a zstd frame must surface an error so the
	// cache layer can treat it as a miss.
	_, err := store.db.Exec(`
		INSERT INTO conversion_cache (
			content_hash, ai_model, result_id, status,
			original_text, converted_text,
			metrics_json, issues_json, mappings_json, created_at
		) VALUES ('bad', 'm1', 'r-x', 'success', X'00FF00FF', X'00FF00FF', '{}', '[]', '[]', '2026-01-01T00:00:00Z')
	`)
	if err != nil {
		t.Fatalf("raw insert failed: %v", err)
	}

	_, found, err := store.Lookup("bad", "m1")
	if err == nil {
		t.Error("expected decode error for corrupt payload")
	}
	if found {
		t.Error("corrupt payload must not report found")
	}
}

func TestStatsAndClear(t *testing.T) {
	store := testStore(t)

	st, err := store.GetStats()
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if st.Entries != 0 {
		t.Errorf("expected 0 entries, got %d", st.Entries)
	}

	if err := store.Insert(sampleRecord()); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	st, err = store.GetStats()
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if st.Entries != 1 || st.TotalBytes <= 0 {
		t.Errorf("unexpected stats: %+v", st)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	st, _ = store.GetStats()
	if st.Entries != 0 {
		t.Errorf("expected empty store after clear, got %d entries", st.Entries)
	}
}

func TestReopenPersists(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "sqlport-storage-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)
	logger := logging.NewLogger(logging.Config{Level: logging.ErrorLevel})

	db, err := Open(tmpDir, logger)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := NewConvStore(db).Insert(sampleRecord()); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	db2, err := Open(tmpDir, logger)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db2.Close()

	_, found, err := NewConvStore(db2).Lookup("abc123", "m1")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !found {
		t.Error("durable tier should survive reopen")
	}
}
