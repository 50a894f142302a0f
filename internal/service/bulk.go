package service

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BulkItemResult reports the outcome for one id of a bulk operation.
type BulkItemResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// BulkResult is the aggregate breakdown returned by every bulk operation.
// One failing item never aborts the batch.
type BulkResult struct {
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Items     []BulkItemResult `json:"items"`
}

// fanOut runs fn for every id through a worker pool of the given width and
// collects per-item outcomes in input order.
func fanOut(ctx context.Context, ids []string, limit int, fn func(ctx context.Context, id string) error) BulkResult {
	if limit <= 0 {
		limit = 4
	}

	results := make([]BulkItemResult, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := fn(gctx, id); err != nil {
				results[i] = BulkItemResult{ID: id, Error: err.Error()}
			} else {
				results[i] = BulkItemResult{ID: id, Success: true}
			}
			// Item failures are recorded, never propagated: returning an
			// error here would cancel the remaining workers.
			return nil
		})
	}
	_ = g.Wait()

	out := BulkResult{Items: results}
	for _, item := range results {
		if item.Success {
			out.Succeeded++
		} else {
			out.Failed++
		}
	}
	return out
}
