package convert

import (
	"context"
	"sync"
)

// BatchItem pairs one source unit with its outcome. Err is set only for
// input or context failures; collaborator failures surface as a Result
// with StatusError.
type BatchItem struct {
	Unit   SourceUnit        `json:"unit"`
	Result *ConversionResult `json:"result,omitempty"`
	Err    error             `json:"-"`
}

// BatchSummary aggregates a ConvertAll run.
type BatchSummary struct {
	Total     int         `json:"total"`
	Succeeded int         `json:"succeeded"`
	Warnings  int         `json:"warnings"`
	Failed    int         `json:"failed"`
	CacheHits int         `json:"cacheHits"`
	Items     []BatchItem `json:"items"`
}

// ConvertAll converts units with at most maxConcurrent in flight.
// Output order matches input order regardless of completion order.
func (o *Orchestrator) ConvertAll(ctx context.Context, units []SourceUnit, maxConcurrent int) *BatchSummary {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	items := make([]BatchItem, len(units))
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup

	for i, unit := range units {
		wg.Add(1)
		go func(i int, unit SourceUnit) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				items[i] = BatchItem{Unit: unit, Err: err}
				return
			}
			res, err := o.Convert(ctx, unit)
			items[i] = BatchItem{Unit: unit, Result: res, Err: err}
		}(i, unit)
	}
	wg.Wait()

	summary := &BatchSummary{Total: len(units), Items: items}
	for _, item := range items {
		if item.Err != nil || item.Result == nil {
			summary.Failed++
			continue
		}
		switch item.Result.Status {
		case StatusSuccess:
			summary.Succeeded++
		case StatusWarning:
			summary.Warnings++
		default:
			summary.Failed++
		}
		if item.Result.CacheHit {
			summary.CacheHits++
		}
	}
	return summary
}
