package markov

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/touchpath/credit"
)

// RemovalEffects returns, for every channel of t, the relative drop of the
// conversion rate when the channel is removed: 1 − rate(t without c) / rate(t).
// Effects are floored at 0. Channels are processed concurrently with
// WithWorkers; each result lands in its own slot, so the output does not
// depend on scheduling.
//
// Errors:
//   - credit.ErrNoConversions (with all-zero effects) when the base rate is 0.
//   - ErrSingularMatrix from the base or any reduced chain.
//   - ctx.Err() on cancellation.
func RemovalEffects(ctx context.Context, t *TransitionMatrix, opts ...Option) (credit.Allocation, error) {
	o := gatherOptions(opts...)
	base, err := t.ConversionRate()
	if err != nil {
		return nil, err
	}
	if base == 0 {
		return credit.Zero(t.channels), credit.ErrNoConversions
	}

	effects := make([]float64, len(t.channels))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, c := range t.channels {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reduced, err := t.Remove(c)
			if err != nil {
				return err
			}
			rate, err := reduced.ConversionRate()
			if err != nil {
				return fmt.Errorf("without %q: %w", c, err)
			}
			if e := 1 - rate/base; e > 0 {
				effects[i] = e
			}

			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	out := make(credit.Allocation, len(effects))
	for i, c := range t.channels {
		out[c] = effects[i]
	}

	return out, nil
}
