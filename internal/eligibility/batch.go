// internal/eligibility/batch.go
package eligibility

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const defaultBatchConcurrency = 8

// BatchItem is the outcome for one submission of a batch. Exactly one of
// Result and Errors is set.
type BatchItem struct {
	Index  int              `json:"index"`
	Result *Result          `json:"result,omitempty"`
	Errors ValidationErrors `json:"errors,omitempty"`
}

// AssessBatch assesses every submission and returns the items in input order.
// An invalid submission yields an item with Errors and does not stop the batch;
// only an internal invariant failure or context cancellation aborts it.
func (a *Assessor) AssessBatch(ctx context.Context, raws []map[string]interface{}, concurrency int) ([]BatchItem, error) {
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}

	items := make([]BatchItem, len(raws))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, raw := range raws {
		i, raw := i, raw
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := a.Assess(raw)
			if err != nil {
				ve, ok := AsValidationErrors(err)
				if !ok {
					return err
				}
				items[i] = BatchItem{Index: i, Errors: ve}
				return nil
			}
			items[i] = BatchItem{Index: i, Result: result}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}
