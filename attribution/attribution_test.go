package attribution_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/touchpath/attribution"
	"github.com/katalvlaran/touchpath/credit"
	"github.com/katalvlaran/touchpath/heuristic"
	"github.com/katalvlaran/touchpath/markov"
	"github.com/katalvlaran/touchpath/timing"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

// u1: A → B converts; u2: A and leaves; u3: B converts.
func records() [][]string {
	return [][]string{
		{"u1", "A", "0"},
		{"u1", "B", "1"},
		{"u2", "A", "0"},
		{"u3", "B", "1"},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func mustModel(t *testing.T, recs [][]string, opts ...attribution.Option) *attribution.Model {
	t.Helper()
	m, err := attribution.FromRecords(recs, append([]attribution.Option{attribution.WithLogger(quietLogger())}, opts...)...)
	require.NoError(t, err)

	return m
}

func TestRunAllMethods(t *testing.T) {
	m := mustModel(t, records())
	rep, err := m.Run(context.Background())
	require.NoError(t, err)

	want := map[attribution.Method]credit.Allocation{
		attribution.FirstTouch: {"A": 1, "B": 1},
		attribution.LastTouch:  {"A": 0, "B": 2},
		attribution.Linear:     {"A": 0.5, "B": 1.5},
		attribution.Shapley:    {"A": 0, "B": 2},
		attribution.Markov:     {"A": 0.6667, "B": 1.3333},
	}
	if diff := cmp.Diff(want, rep.Results, approx); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, attribution.Methods, rep.Methods)
	assert.Equal(t, []string{"A", "B"}, rep.Channels)
	assert.Equal(t, 3, rep.Users)
	assert.Equal(t, 4, rep.Touchpoints)
	assert.Equal(t, 2, rep.Conversions)
	assert.False(t, rep.Degenerate)
	for _, method := range rep.Methods {
		assert.InDelta(t, 2.0, rep.Total(method), 1e-9, string(method))
	}
	assert.Equal(t, 1.5, rep.Value(attribution.Linear, "B"))
}

func TestRunIsIdempotentAndWorkerIndependent(t *testing.T) {
	ctx := context.Background()
	a, err := mustModel(t, records()).Run(ctx)
	require.NoError(t, err)
	b, err := mustModel(t, records(), attribution.WithWorkers(4)).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, a.Results, b.Results)
}

func TestRunSubsetOfMethods(t *testing.T) {
	rep, err := mustModel(t, records()).Run(context.Background(), attribution.Shapley, "LINEAR")
	require.NoError(t, err)
	assert.Equal(t, []attribution.Method{attribution.Shapley, attribution.Linear}, rep.Methods)
	assert.Len(t, rep.Results, 2)

	_, err = mustModel(t, records()).Run(context.Background(), "u_shaped")
	assert.ErrorIs(t, err, attribution.ErrInvalidParameter)

	_, err = mustModel(t, records()).Run(context.Background(), attribution.Markov, attribution.Markov)
	assert.ErrorIs(t, err, attribution.ErrInvalidParameter)
}

func TestHeuristicsCreditSortedChannelSet(t *testing.T) {
	// search is touched twice and before email.
	recs := [][]string{
		{"u1", "search", "0"},
		{"u1", "email", "0"},
		{"u1", "search", "1"},
	}
	rep, err := mustModel(t, recs).Run(context.Background(), attribution.FirstTouch, attribution.LastTouch, attribution.Linear)
	require.NoError(t, err)
	want := map[attribution.Method]credit.Allocation{
		attribution.FirstTouch: {"email": 1, "search": 0},
		attribution.LastTouch:  {"email": 0, "search": 1},
		attribution.Linear:     {"email": 0.5, "search": 0.5},
	}
	if diff := cmp.Diff(want, rep.Results, approx); diff != "" {
		t.Errorf("sorted results mismatch (-want +got):\n%s", diff)
	}

	chrono := mustModel(t, recs, attribution.WithHeuristicOptions(heuristic.WithChronologicalPaths()))
	rep, err = chrono.Run(context.Background(), attribution.FirstTouch, attribution.Linear)
	require.NoError(t, err)
	want = map[attribution.Method]credit.Allocation{
		attribution.FirstTouch: {"email": 0, "search": 1},
		attribution.Linear:     {"email": 1.0 / 3.0, "search": 2.0 / 3.0},
	}
	if diff := cmp.Diff(want, rep.Results, approx); diff != "" {
		t.Errorf("chronological results mismatch (-want +got):\n%s", diff)
	}
}

// wideRecords gives n single-touch converting users, one channel each.
func wideRecords(n int) [][]string {
	recs := make([][]string, n)
	for i := range recs {
		recs[i] = []string{fmt.Sprintf("u%02d", i), fmt.Sprintf("c%02d", i), "1"}
	}

	return recs
}

func TestRunSkipsShapleyOverExactLimit(t *testing.T) {
	m := mustModel(t, wideRecords(11))
	rep, err := m.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []attribution.Method{
		attribution.FirstTouch, attribution.LastTouch, attribution.Linear, attribution.Markov,
	}, rep.Methods)
	assert.NotContains(t, rep.Results, attribution.Shapley)
	require.Contains(t, rep.Skipped, attribution.Shapley)
	assert.Contains(t, rep.Skipped[attribution.Shapley], "too many channels")
	for _, method := range rep.Methods {
		assert.InDelta(t, 11.0, rep.Total(method), 1e-3, string(method))
	}

	_, err = m.Run(context.Background(), attribution.Shapley)
	assert.ErrorIs(t, err, attribution.ErrTooManyChannels)
}

func TestDegenerateInput(t *testing.T) {
	recs := [][]string{
		{"u1", "A", "0"},
		{"u1", "B", "0"},
		{"u2", "C", "false"},
	}
	rep, err := mustModel(t, recs).Run(context.Background())
	require.ErrorIs(t, err, attribution.ErrDegenerateInput)
	require.NotNil(t, rep)
	assert.True(t, rep.Degenerate)

	zero := credit.Allocation{"A": 0, "B": 0, "C": 0}
	for _, method := range attribution.Methods {
		assert.Equal(t, zero, rep.Results[method], string(method))
	}
}

func TestModelMethods(t *testing.T) {
	ctx := context.Background()
	m := mustModel(t, records())

	s, err := m.Shapley(ctx)
	require.NoError(t, err)
	assert.Equal(t, credit.Allocation{"A": 0, "B": 2}, s)

	for order := markov.MinOrder; order <= markov.MaxOrder; order++ {
		mk, err := m.Markov(ctx, order)
		require.NoError(t, err)
		assert.Equal(t, credit.Allocation{"A": 0.6667, "B": 1.3333}, mk, "order %d", order)
	}

	h, err := m.Heuristic(ctx)
	require.NoError(t, err)
	assert.Equal(t, credit.Allocation{"A": 0, "B": 2}, h[heuristic.Last])

	_, err = m.Markov(ctx, 5)
	assert.ErrorIs(t, err, attribution.ErrInvalidParameter)
	assert.ErrorIs(t, err, markov.ErrInvalidOrder)
}

func TestValidationFailsFast(t *testing.T) {
	_, err := attribution.FromRecords([][]string{{"u1", "A"}})
	assert.ErrorIs(t, err, attribution.ErrInputFormat)

	_, err = attribution.FromRecords([][]string{{"u1", "A", "maybe"}})
	assert.ErrorIs(t, err, attribution.ErrInputFormat)

	_, err = attribution.New(nil)
	assert.ErrorIs(t, err, attribution.ErrInputFormat)

	_, err = attribution.FromRecords(records(), attribution.WithMarkovOrder(0))
	assert.ErrorIs(t, err, attribution.ErrInvalidParameter)

	assert.Panics(t, func() { attribution.WithWorkers(0) })
}

func TestRunIDAndLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m, err := attribution.FromRecords(records(), attribution.WithLogger(logger), attribution.WithRunID("run-42"))
	require.NoError(t, err)
	assert.Equal(t, "run-42", m.RunID())

	rep, err := m.Run(context.Background(), attribution.Linear)
	require.NoError(t, err)
	assert.Equal(t, "run-42", rep.RunID)
	assert.Contains(t, buf.String(), "run_id=run-42")
	assert.Contains(t, buf.String(), "method=linear")

	generated := mustModel(t, records())
	_, err = uuid.Parse(generated.RunID())
	assert.NoError(t, err)
}

func TestRecorderTimesEveryMethod(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := timing.NewRecorder(quietLogger(), reg)
	require.NoError(t, err)

	rep, err := mustModel(t, records(), attribution.WithRecorder(rec)).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, rep.Durations, len(attribution.Methods))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, mfs, 1)
	assert.Equal(t, timing.MetricName, mfs[0].GetName())
	assert.Len(t, mfs[0].GetMetric(), len(attribution.Methods))
}

func TestSingularMatrixIsExposed(t *testing.T) {
	assert.True(t, errors.Is(markov.ErrSingularMatrix, attribution.ErrSingularMatrix))
}

func TestParseMethod(t *testing.T) {
	m, err := attribution.ParseMethod(" Markov ")
	require.NoError(t, err)
	assert.Equal(t, attribution.Markov, m)

	m, err = attribution.ParseMethod("first")
	require.NoError(t, err)
	assert.Equal(t, attribution.FirstTouch, m)

	_, err = attribution.ParseMethod("")
	assert.ErrorIs(t, err, attribution.ErrInvalidParameter)
}
