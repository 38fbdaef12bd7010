package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// ConversionRecord is the durable-tier row for one cached conversion.
// Text columns are zstd-compressed on disk; JSON columns hold the
// serialized metrics, issues, and type mappings.
type ConversionRecord struct {
	ContentHash   string
	Model         string
	ResultID      string
	Status        string
	OriginalText  string
	ConvertedText string
	MetricsJSON   string
	IssuesJSON    string
	MappingsJSON  string
	CreatedAt     time.Time
}

// ConvStore provides keyed access to the conversion_cache table.
type ConvStore struct {
	db *DB
}

// NewConvStore creates a conversion store over an open database.
func NewConvStore(db *DB) *ConvStore {
	return &ConvStore{db: db}
}

// Insert writes a record, overwriting any existing row for the same
// (content_hash, ai_model) pair. Concurrent writers for the same key
// follow last-write-wins.
func (s *ConvStore) Insert(rec *ConversionRecord) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO conversion_cache (
			content_hash, ai_model, result_id, status,
			original_text, converted_text,
			metrics_json, issues_json, mappings_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ContentHash, rec.Model, rec.ResultID, rec.Status,
		compressText(rec.OriginalText), compressText(rec.ConvertedText),
		rec.MetricsJSON, rec.IssuesJSON, rec.MappingsJSON,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert conversion record: %w", err)
	}
	return nil
}

// Lookup fetches the record for (contentHash, model). A missing row
// returns found=false with no error; a row whose compressed payload
// fails to decode returns an error so the caller can treat it as a miss.
func (s *ConvStore) Lookup(contentHash, model string) (*ConversionRecord, bool, error) {
	var rec ConversionRecord
	var originalBlob, convertedBlob []byte
	var createdAt string

	err := s.db.QueryRow(`
		SELECT content_hash, ai_model, result_id, status,
		       original_text, converted_text,
		       metrics_json, issues_json, mappings_json, created_at
		FROM conversion_cache
		WHERE content_hash = ? AND ai_model = ?
	`, contentHash, model).Scan(
		&rec.ContentHash, &rec.Model, &rec.ResultID, &rec.Status,
		&originalBlob, &convertedBlob,
		&rec.MetricsJSON, &rec.IssuesJSON, &rec.MappingsJSON, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("conversion cache lookup failed: %w", err)
	}

	if rec.OriginalText, err = decompressText(originalBlob); err != nil {
		return nil, false, err
	}
	if rec.ConvertedText, err = decompressText(convertedBlob); err != nil {
		return nil, false, err
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, false, fmt.Errorf("invalid created_at format: %w", err)
	}

	return &rec, true, nil
}

// Stats summarizes the durable tier.
type Stats struct {
	Entries    int   `json:"entries"`
	TotalBytes int64 `json:"totalBytes"`
}

// GetStats returns entry count and stored payload bytes.
func (s *ConvStore) GetStats() (*Stats, error) {
	var st Stats
	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(LENGTH(original_text) + LENGTH(converted_text) +
		                    LENGTH(metrics_json) + LENGTH(issues_json) + LENGTH(mappings_json)), 0)
		FROM conversion_cache
	`).Scan(&st.Entries, &st.TotalBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to get cache stats: %w", err)
	}
	return &st, nil
}

// Clear removes all cached conversions.
func (s *ConvStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM conversion_cache"); err != nil {
		return fmt.Errorf("failed to clear conversion cache: %w", err)
	}
	return nil
}
