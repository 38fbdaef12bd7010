package cache

import (
	"context"
	"encoding/json"

	"sqlport/internal/convert"
	"sqlport/internal/fingerprint"
	"sqlport/internal/logging"
	"sqlport/internal/metrics"
	"sqlport/internal/storage"
	"sqlport/internal/typemap"
)

// TwoTier composes the local tier and the durable store. The durable
// tier is best-effort in both directions: lookup failures and malformed
// rows are misses, write failures are logged and swallowed.
type TwoTier struct {
	local  *Tier1
	shared *storage.ConvStore
	logger *logging.Logger
}

// New creates a two-tier cache. shared may be nil, leaving only the
// local tier active.
func New(shared *storage.ConvStore, logger *logging.Logger) *TwoTier {
	return &TwoTier{
		local:  NewTier1(),
		shared: shared,
		logger: logger,
	}
}

// Get looks up key in the local tier first, then the durable tier.
// A durable-tier hit is returned directly without promotion into the
// local tier.
func (c *TwoTier) Get(ctx context.Context, key fingerprint.Key) (*convert.ConversionResult, bool) {
	if res, ok := c.local.Get(key.Digest); ok {
		c.logger.Debug("Conversion cache hit", map[string]interface{}{
			"tier":   "local",
			"digest": key.Digest,
		})
		return res, true
	}

	if c.shared == nil {
		return nil, false
	}
	if err := ctx.Err(); err != nil {
		return nil, false
	}

	rec, found, err := c.shared.Lookup(key.Digest, key.Model)
	if err != nil {
		// Malformed or unreadable rows are misses, not errors.
		c.logger.Warn("Durable cache lookup failed, treating as miss", map[string]interface{}{
			"digest": key.Digest,
			"error":  err.Error(),
		})
		return nil, false
	}
	if !found {
		return nil, false
	}

	res, err := recordToResult(rec)
	if err != nil {
		c.logger.Warn("Durable cache row is invalid, treating as miss", map[string]interface{}{
			"digest": key.Digest,
			"error":  err.Error(),
		})
		return nil, false
	}

	c.logger.Debug("Conversion cache hit", map[string]interface{}{
		"tier":   "shared",
		"digest": key.Digest,
	})
	return res, true
}

// Put writes the local tier synchronously, then attempts the durable
// tier. A durable write failure never fails the conversion.
func (c *TwoTier) Put(ctx context.Context, key fingerprint.Key, result *convert.ConversionResult) {
	c.local.Put(key.Digest, result)

	if c.shared == nil {
		return
	}
	if err := ctx.Err(); err != nil {
		return
	}

	rec, err := resultToRecord(key, result)
	if err != nil {
		c.logger.Warn("Failed to serialize result for durable cache", map[string]interface{}{
			"digest": key.Digest,
			"error":  err.Error(),
		})
		return
	}
	if err := c.shared.Insert(rec); err != nil {
		c.logger.Warn("Durable cache write failed", map[string]interface{}{
			"digest": key.Digest,
			"error":  err.Error(),
		})
	}
}

// StatsSnapshot summarizes both tiers for the CLI.
type StatsSnapshot struct {
	LocalEntries int            `json:"localEntries"`
	LocalHits    int64          `json:"localHits"`
	LocalMisses  int64          `json:"localMisses"`
	Shared       *storage.Stats `json:"shared,omitempty"`
}

// Stats reports entry counts and hit/miss counters.
func (c *TwoTier) Stats() *StatsSnapshot {
	snap := &StatsSnapshot{LocalEntries: c.local.Len()}
	snap.LocalHits, snap.LocalMisses = c.local.Counters()

	if c.shared != nil {
		if st, err := c.shared.GetStats(); err == nil {
			snap.Shared = st
		} else {
			c.logger.Warn("Failed to read durable cache stats", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return snap
}

func resultToRecord(key fingerprint.Key, res *convert.ConversionResult) (*storage.ConversionRecord, error) {
	metricsJSON, err := json.Marshal(res.Performance)
	if err != nil {
		return nil, err
	}
	issuesJSON, err := json.Marshal(res.Issues)
	if err != nil {
		return nil, err
	}
	mappingsJSON, err := json.Marshal(res.DataTypeMappings)
	if err != nil {
		return nil, err
	}

	return &storage.ConversionRecord{
		ContentHash:   key.Digest,
		Model:         key.Model,
		ResultID:      res.ID,
		Status:        string(res.Status),
		OriginalText:  res.SourceUnit.Text,
		ConvertedText: res.ConvertedText,
		MetricsJSON:   string(metricsJSON),
		IssuesJSON:    string(issuesJSON),
		MappingsJSON:  string(mappingsJSON),
	}, nil
}

func recordToResult(rec *storage.ConversionRecord) (*convert.ConversionResult, error) {
	var perf metrics.PerformanceMetrics
	if err := json.Unmarshal([]byte(rec.MetricsJSON), &perf); err != nil {
		return nil, err
	}
	var issues []convert.ConversionIssue
	if err := json.Unmarshal([]byte(rec.IssuesJSON), &issues); err != nil {
		return nil, err
	}
	var mappings []typemap.Mapping
	if err := json.Unmarshal([]byte(rec.MappingsJSON), &mappings); err != nil {
		return nil, err
	}

	return &convert.ConversionResult{
		ID:               rec.ResultID,
		SourceUnit:       convert.SourceUnit{Text: rec.OriginalText},
		Model:            rec.Model,
		ConvertedText:    rec.ConvertedText,
		Issues:           issues,
		DataTypeMappings: mappings,
		Performance:      &perf,
		Status:           convert.Status(rec.Status),
	}, nil
}
