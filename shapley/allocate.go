package shapley

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/touchpath/credit"
)

// ctxCheckEvery is the number of orderings walked between context checks.
const ctxCheckEvery = 4096

// Allocate computes the raw Shapley value of every channel of ch's universe:
// the mean, over grand-coalition orderings, of each channel's marginal
// contribution max(v(prefix) − assigned so far, 0).
//
// Exact mode walks all n! orderings, partitioned by the first channel; the
// partition sums are reduced in channel order, so the result does not depend
// on the worker count. Sampling mode (WithSampling) averages over random
// orderings drawn in fixed-size chunks, each from its own derived seed.
//
// Errors:
//   - ErrTooManyChannels in exact mode when n exceeds the exact limit.
//   - ctx.Err() when the context is cancelled between work units.
func Allocate(ctx context.Context, ch *Characteristic, opts ...Option) (credit.Allocation, error) {
	o := gatherOptions(opts...)
	n := ch.u.Len()
	if o.samples == 0 && n > o.maxExact {
		return nil, fmt.Errorf("shapley: exact allocation over %d channels, limit %d: %w", n, o.maxExact, ErrTooManyChannels)
	}
	if o.inherit {
		ch = ch.Inherited()
	}

	var (
		sums []float64
		div  float64
		err  error
	)
	if o.samples > 0 {
		sums, err = sampledSums(ctx, ch, o)
		div = float64(o.samples)
	} else {
		sums, err = exactSums(ctx, ch, o)
		div = float64(factorial(n))
	}
	if err != nil {
		return nil, err
	}

	out := make(credit.Allocation, n)
	for i := 0; i < n; i++ {
		out[ch.u.Channel(i)] = sums[i] / div
	}

	return out, nil
}

// exactSums returns, per channel index, the sum of marginals over all n!
// orderings.
func exactSums(ctx context.Context, ch *Characteristic, o Options) ([]float64, error) {
	n := ch.u.Len()
	parts := make([][]float64, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for first := 0; first < n; first++ {
		first := first
		g.Go(func() error {
			acc, err := walkPartition(gctx, ch, first)
			if err != nil {
				return err
			}
			parts[first] = acc

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reduce(parts, n), nil
}

// walkPartition sums marginals over every ordering that starts with first.
// The tail is enumerated in lexicographic order with nextPermutation.
func walkPartition(ctx context.Context, ch *Characteristic, first int) ([]float64, error) {
	n := ch.u.Len()
	acc := make([]float64, n)
	perm := make([]int, 0, n)
	perm = append(perm, first)
	for i := 0; i < n; i++ {
		if i != first {
			perm = append(perm, i)
		}
	}
	tail := perm[1:]

	for walked := 1; ; walked++ {
		accumulate(ch, perm, acc)
		if !nextPermutation(tail) {
			break
		}
		if walked%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}

	return acc, ctx.Err()
}

// sampledSums returns, per channel index, the sum of marginals over
// o.samples random orderings.
func sampledSums(ctx context.Context, ch *Characteristic, o Options) ([]float64, error) {
	n := ch.u.Len()
	chunks := (o.samples + sampleChunk - 1) / sampleChunk
	parts := make([][]float64, chunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for c := 0; c < chunks; c++ {
		c := c
		draws := sampleChunk
		if rest := o.samples - c*sampleChunk; rest < draws {
			draws = rest
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rngFromSeed(deriveSeed(o.seed, uint64(c)))
			acc := make([]float64, n)
			perm := make([]int, n)
			for s := 0; s < draws; s++ {
				for i := range perm {
					perm[i] = i
				}
				shuffleIntsInPlace(perm, rng)
				accumulate(ch, perm, acc)
			}
			parts[c] = acc

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reduce(parts, n), nil
}

// accumulate adds the marginals of one ordering into acc.
func accumulate(ch *Characteristic, perm []int, acc []float64) {
	var (
		prefix Coalition
		sum    float64
	)
	for _, p := range perm {
		prefix |= 1 << uint(p)
		m := ch.values[prefix] - sum
		if m < 0 {
			m = 0
		}
		acc[p] += m
		sum += m
	}
}

// reduce adds partial sums in index order.
func reduce(parts [][]float64, n int) []float64 {
	out := make([]float64, n)
	for _, p := range parts {
		for i, v := range p {
			out[i] += v
		}
	}

	return out
}
