package attribution

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/katalvlaran/touchpath/credit"
	"github.com/katalvlaran/touchpath/heuristic"
	"github.com/katalvlaran/touchpath/markov"
	"github.com/katalvlaran/touchpath/paths"
	"github.com/katalvlaran/touchpath/shapley"
	"github.com/katalvlaran/touchpath/touchpoint"
)

// Model runs attribution methods over one touchpoint table.
// A Model is immutable and safe for concurrent use.
type Model struct {
	table *touchpoint.Table
	opts  Options
	log   *slog.Logger
}

// New binds a validated table to a Model.
//
// Errors:
//   - ErrInputFormat for a nil table.
//   - ErrInvalidParameter for a Markov order outside 1..4.
func New(t *touchpoint.Table, opts ...Option) (*Model, error) {
	if t == nil {
		return nil, fmt.Errorf("attribution: nil table: %w", ErrInputFormat)
	}
	o := gatherOptions(opts...)
	if err := checkOrder(o.markovOrder); err != nil {
		return nil, err
	}
	if o.runID == "" {
		o.runID = uuid.NewString()
	}

	m := &Model{table: t, opts: o}
	m.log = o.logger.With(slog.String("run_id", o.runID))
	m.opts.recorder = o.recorder.With(m.log)

	return m, nil
}

// FromRecords validates raw (user_id, channel_id, converted) records and
// builds a Model over them.
func FromRecords(records [][]string, opts ...Option) (*Model, error) {
	t, err := touchpoint.FromRecords(records)
	if err != nil {
		return nil, err
	}

	return New(t, opts...)
}

func checkOrder(k int) error {
	if k < markov.MinOrder || k > markov.MaxOrder {
		return fmt.Errorf("%w: markov order %d: %w", ErrInvalidParameter, k, markov.ErrInvalidOrder)
	}

	return nil
}

// RunID returns the id attached to every log line of this Model.
func (m *Model) RunID() string { return m.opts.runID }

// Table returns the underlying touchpoint table.
func (m *Model) Table() *touchpoint.Table { return m.table }

// Shapley attributes conversions with the Shapley value.
func (m *Model) Shapley(ctx context.Context) (credit.Allocation, error) {
	defer m.opts.recorder.Track(string(Shapley))()
	a, err := m.shapley(ctx)

	return a, m.logResult(string(Shapley), err)
}

// Markov attributes conversions with the removal effect of an order-k chain.
func (m *Model) Markov(ctx context.Context, order int) (credit.Allocation, error) {
	if err := checkOrder(order); err != nil {
		return nil, err
	}
	defer m.opts.recorder.Track(string(Markov))()
	a, err := m.markov(ctx, order)

	return a, m.logResult(string(Markov), err)
}

// Heuristic runs first touch, last touch and linear over the sorted channel
// set of every converting journey, or over the journey in touch order when
// heuristic.WithChronologicalPaths is among the heuristic options.
func (m *Model) Heuristic(ctx context.Context) (map[heuristic.Rule]credit.Allocation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer m.opts.recorder.Track("heuristic")()
	out, err := heuristic.All(paths.Ordered(m.table), m.table.Channels(), m.opts.heuristic...)

	return out, m.logResult("heuristic", err)
}

func (m *Model) shapley(ctx context.Context) (credit.Allocation, error) {
	opts := append([]shapley.Option{shapley.WithWorkers(m.opts.workers)}, m.opts.shapley...)

	return shapley.Attribute(ctx, paths.Converting(m.table), m.table.Channels(), m.table.Conversions(), opts...)
}

func (m *Model) markov(ctx context.Context, order int) (credit.Allocation, error) {
	opts := append([]markov.Option{markov.WithWorkers(m.opts.workers)}, m.opts.markov...)
	opts = append(opts, markov.WithOrder(order))

	return markov.Attribute(ctx, paths.Markov(m.table), m.table.Channels(), m.table.Conversions(), opts...)
}

func (m *Model) heuristic(ctx context.Context, r heuristic.Rule) (credit.Allocation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return heuristic.Attribute(paths.Ordered(m.table), m.table.Channels(), r, m.opts.heuristic...)
}

// run dispatches one validated method.
func (m *Model) run(ctx context.Context, method Method) (credit.Allocation, error) {
	if r, ok := method.rule(); ok {
		return m.heuristic(ctx, r)
	}
	switch method {
	case Shapley:
		return m.shapley(ctx)
	case Markov:
		return m.markov(ctx, m.opts.markovOrder)
	}

	return nil, fmt.Errorf("%w: unknown method %q", ErrInvalidParameter, method)
}

// logResult logs the outcome of one method and passes err through.
func (m *Model) logResult(method string, err error) error {
	switch {
	case err == nil:
		m.log.Debug("method finished", slog.String("method", method))
	case degenerate(err):
		m.log.Warn("nothing to attribute", slog.String("method", method), slog.Any("error", err))
	default:
		m.log.Error("method failed", slog.String("method", method), slog.Any("error", err))
	}

	return err
}
