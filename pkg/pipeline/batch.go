package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/cablesection/pkg/cable"
)

// BatchItem is the outcome of one design in a batch. A failed design has
// a nil Result and a non-nil Err; it does not stop the others.
type BatchItem struct {
	Design string
	Result *Result
	Err    error
}

// Batch runs Execute for every design, at most opts.Parallelism at a time.
// Items are returned in input order. The returned error is only set when
// ctx is cancelled.
func (r *Runner) Batch(ctx context.Context, designs []cable.Cable, opts Options) ([]BatchItem, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	items := make([]BatchItem, len(designs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)
	for i, c := range designs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.Execute(gctx, c, opts)
			items[i] = BatchItem{Design: c.Name, Result: res, Err: err}
			if err != nil {
				opts.Logger.Warn("design failed", "design", c.Name, "err", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return items, err
	}
	return items, nil
}

// Failed returns the items that did not complete.
func Failed(items []BatchItem) []BatchItem {
	var out []BatchItem
	for _, it := range items {
		if it.Err != nil {
			out = append(out, it)
		}
	}
	return out
}
