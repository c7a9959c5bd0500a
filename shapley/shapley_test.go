package shapley_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/katalvlaran/touchpath/credit"
	"github.com/katalvlaran/touchpath/paths"
	"github.com/katalvlaran/touchpath/shapley"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustUniverse(t *testing.T, channels ...string) *shapley.Universe {
	t.Helper()
	u, err := shapley.NewUniverse(channels)
	require.NoError(t, err)

	return u
}

func mustCharacteristic(t *testing.T, u *shapley.Universe, counts paths.Counts) *shapley.Characteristic {
	t.Helper()
	ch := shapley.NewCharacteristic(u)
	require.NoError(t, ch.Overlay(counts))

	return ch
}

func TestUniverse(t *testing.T) {
	u := mustUniverse(t, "search", "email", "search", "display")
	assert.Equal(t, []string{"display", "email", "search"}, u.Channels())
	assert.Equal(t, shapley.Coalition(7), u.Grand())

	c, err := u.CoalitionOf([]string{"search", "display", "search"})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Size())
	assert.Equal(t, "display>search", u.Key(c))

	back, err := u.ParseKey("search>display")
	require.NoError(t, err)
	assert.Equal(t, c, back, "key order does not matter")

	_, err = u.CoalitionOf([]string{"tv"})
	assert.ErrorIs(t, err, shapley.ErrUnknownChannel)

	_, err = shapley.NewUniverse(nil)
	assert.ErrorIs(t, err, shapley.ErrEmptyUniverse)

	many := make([]string, shapley.MaxChannels+1)
	for i := range many {
		many[i] = fmt.Sprintf("c%02d", i)
	}
	_, err = shapley.NewUniverse(many)
	assert.ErrorIs(t, err, shapley.ErrTooManyChannels)
}

func TestCoalitionsAndOrderings(t *testing.T) {
	u := mustUniverse(t, "A", "B", "C")

	var keys []string
	for _, c := range u.Coalitions() {
		keys = append(keys, u.Key(c))
	}
	assert.Equal(t, []string{"A", "B", "C", "A>B", "A>C", "B>C", "A>B>C"}, keys)

	ord := u.Orderings()
	require.Len(t, ord, 6)
	assert.Equal(t, []int{0, 1, 2}, ord[0])
	assert.Equal(t, []int{2, 1, 0}, ord[5])
}

func TestOverlay(t *testing.T) {
	u := mustUniverse(t, "A", "B")
	ch := mustCharacteristic(t, u, paths.Counts{"A": 2, "A>B": 1})

	v, err := ch.ValueOf("A")
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
	v, err = ch.ValueOf("B>A")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	assert.Equal(t, 0.0, ch.Value(0), "empty coalition")

	err = ch.Overlay(paths.Counts{"A": 5, "Z": 1})
	assert.ErrorIs(t, err, shapley.ErrUnknownChannel)
	v, _ = ch.ValueOf("A")
	assert.Equal(t, 2.0, v, "failed overlay leaves values untouched")

	assert.ErrorIs(t, ch.Overlay(paths.Counts{"": 1}), shapley.ErrEmptyPath)
}

func TestInherited(t *testing.T) {
	u := mustUniverse(t, "A", "B", "C")
	ch := mustCharacteristic(t, u, paths.Counts{"A": 1, "B": 2, "A>B": 4, "C": 8})
	inh := ch.Inherited()

	for key, want := range map[string]float64{
		"A": 1, "B": 2, "C": 8, "A>B": 7, "A>C": 9, "B>C": 10, "A>B>C": 15,
	} {
		got, err := inh.ValueOf(key)
		require.NoError(t, err)
		assert.Equal(t, want, got, key)
	}
	orig, _ := ch.ValueOf("A>B")
	assert.Equal(t, 4.0, orig, "source not mutated")
}

func TestAllocateSymmetricSingles(t *testing.T) {
	u := mustUniverse(t, "A", "B")
	ch := mustCharacteristic(t, u, paths.Counts{"A": 1, "B": 1})

	raw, err := shapley.Allocate(context.Background(), ch)
	require.NoError(t, err)
	assert.Equal(t, credit.Allocation{"A": 0.5, "B": 0.5}, raw)
}

func TestAllocateMarginalsAreClamped(t *testing.T) {
	u := mustUniverse(t, "A", "B")
	// v(A)=2, v(B)=0, v(AB)=1: in order A,B the marginal of B is max(1-2, 0).
	ch := mustCharacteristic(t, u, paths.Counts{"A": 2, "A>B": 1})

	raw, err := shapley.Allocate(context.Background(), ch)
	require.NoError(t, err)
	assert.Equal(t, credit.Allocation{"A": 1.5, "B": 0}, raw)
}

func TestAllocateEfficiencyWithInheritance(t *testing.T) {
	u := mustUniverse(t, "A", "B", "C", "D")
	counts := paths.Counts{"A": 3, "A>B": 2, "B>C": 5, "A>C>D": 1, "D": 4}
	ch := mustCharacteristic(t, u, counts)

	raw, err := shapley.Allocate(context.Background(), ch, shapley.WithInheritedValues())
	require.NoError(t, err)
	assert.InDelta(t, ch.Inherited().Value(u.Grand()), raw.Sum(), 1e-9)
	assert.InDelta(t, float64(counts.Total()), raw.Sum(), 1e-9)
}

func TestAllocateRelabelingInvariance(t *testing.T) {
	ctx := context.Background()
	a, err := shapley.Attribute(ctx, paths.Counts{"A": 3, "A>B": 2, "B>C": 1}, []string{"A", "B", "C"}, 6)
	require.NoError(t, err)

	// A→z, B→y, C→x reverses the sorted order.
	b, err := shapley.Attribute(ctx, paths.Counts{"z": 3, "y>z": 2, "x>y": 1}, []string{"z", "y", "x"}, 6)
	require.NoError(t, err)

	assert.Equal(t, a["A"], b["z"])
	assert.Equal(t, a["B"], b["y"])
	assert.Equal(t, a["C"], b["x"])
}

func TestAllocateWorkerCountDoesNotChangeResult(t *testing.T) {
	u := mustUniverse(t, "a", "b", "c", "d", "e", "f")
	ch := mustCharacteristic(t, u, paths.Counts{"a": 7, "a>b": 3, "c>d>e": 2, "f": 1, "b>f": 9, "a>b>c>d>e>f": 4})

	one, err := shapley.Allocate(context.Background(), ch)
	require.NoError(t, err)
	four, err := shapley.Allocate(context.Background(), ch, shapley.WithWorkers(4))
	require.NoError(t, err)
	assert.Equal(t, one, four)
}

func TestAllocateExactLimit(t *testing.T) {
	u := mustUniverse(t, "a", "b", "c", "d")
	ch := mustCharacteristic(t, u, paths.Counts{"a": 1})

	_, err := shapley.Allocate(context.Background(), ch, shapley.WithMaxExactChannels(3))
	assert.ErrorIs(t, err, shapley.ErrTooManyChannels)

	_, err = shapley.Allocate(context.Background(), ch, shapley.WithMaxExactChannels(3), shapley.WithSampling(100, 7))
	assert.NoError(t, err, "sampling lifts the exact limit")

	assert.Panics(t, func() { shapley.WithMaxExactChannels(0) })
	assert.Panics(t, func() { shapley.WithMaxExactChannels(shapley.MaxExactLimit + 1) })
	assert.Panics(t, func() { shapley.WithWorkers(0) })
	assert.Panics(t, func() { shapley.WithSampling(0, 1) })
}

func TestAllocateSampling(t *testing.T) {
	u := mustUniverse(t, "a", "b", "c")
	ch := mustCharacteristic(t, u, paths.Counts{"a": 4, "a>b": 2, "b>c": 3, "c": 1})
	ctx := context.Background()

	exact, err := shapley.Allocate(ctx, ch)
	require.NoError(t, err)

	s1, err := shapley.Allocate(ctx, ch, shapley.WithSampling(5000, 42))
	require.NoError(t, err)
	s2, err := shapley.Allocate(ctx, ch, shapley.WithSampling(5000, 42), shapley.WithWorkers(3))
	require.NoError(t, err)
	assert.Equal(t, s1, s2, "same seed, any worker count")

	for _, k := range exact.Channels() {
		assert.InDelta(t, exact[k], s1[k], 0.25, k)
	}
}

func TestAllocateCancelled(t *testing.T) {
	u := mustUniverse(t, "a", "b", "c")
	ch := mustCharacteristic(t, u, paths.Counts{"a": 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := shapley.Allocate(ctx, ch)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = shapley.Allocate(ctx, ch, shapley.WithSampling(10, 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAttribute(t *testing.T) {
	ctx := context.Background()

	got, err := shapley.Attribute(ctx, paths.Counts{"A": 2, "A>B": 1}, []string{"A", "B"}, 3)
	require.NoError(t, err)
	assert.Equal(t, credit.Allocation{"A": 3, "B": 0}, got)

	got, err = shapley.Attribute(ctx, paths.Counts{"A": 1, "B": 1, "A>B": 1}, []string{"A", "B"}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got.Sum(), 0.011, "sum matches total up to rounding")
	assert.Equal(t, got["A"], got["B"])

	got, err = shapley.Attribute(ctx, paths.Counts{}, []string{"A", "B"}, 0)
	assert.ErrorIs(t, err, credit.ErrNoConversions)
	assert.Equal(t, credit.Allocation{"A": 0, "B": 0}, got)

	got, err = shapley.Attribute(ctx, paths.Counts{}, nil, 0)
	assert.ErrorIs(t, err, credit.ErrNoConversions)
	assert.Equal(t, credit.Allocation{}, got)
}

func ExampleAttribute() {
	alloc, err := shapley.Attribute(context.Background(), paths.Counts{"A": 1, "B": 1}, []string{"A", "B"}, 2)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(alloc)
	// Output: map[A:1 B:1]
}
