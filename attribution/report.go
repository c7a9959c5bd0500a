package attribution

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/katalvlaran/touchpath/credit"
)

// Report is the outcome of Run: one allocation per method over the same
// channel universe.
type Report struct {
	RunID       string                       `json:"run_id"`
	Channels    []string                     `json:"channels"`
	Users       int                          `json:"users"`
	Touchpoints int                          `json:"touchpoints"`
	Conversions int                          `json:"conversions"`
	MarkovOrder int                          `json:"markov_order"`
	Methods     []Method                     `json:"methods"`
	Results     map[Method]credit.Allocation `json:"results"`
	Degenerate  bool                         `json:"degenerate"`
	Skipped     map[Method]string            `json:"skipped,omitempty"`
	Durations   map[Method]time.Duration     `json:"-"`
}

// Value returns the credit of channel under method (0 when absent).
func (r *Report) Value(method Method, channel string) float64 {
	return r.Results[method][channel]
}

// Total returns the credit handed out by method.
func (r *Report) Total(method Method) float64 {
	return r.Results[method].Sum()
}

// Run executes methods (all of Methods when none is given) in order and
// collects their allocations. Methods are validated before any of them runs.
//
// When the data has nothing to attribute the Report is still returned, with
// all-zero allocations, Degenerate set and an error matching
// ErrDegenerateInput. A method refused for its channel count (see
// ErrTooManyChannels) is dropped from Methods and its reason kept in Skipped;
// the run fails only when every method was skipped. Any other failure aborts
// the run.
func (m *Model) Run(ctx context.Context, methods ...Method) (*Report, error) {
	if len(methods) == 0 {
		methods = Methods
	}
	names := make([]string, len(methods))
	for i, mt := range methods {
		names[i] = string(mt)
	}
	methods, err := ParseMethods(names)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		RunID:       m.opts.runID,
		Channels:    m.table.Channels(),
		Users:       m.table.Users(),
		Touchpoints: m.table.Len(),
		Conversions: m.table.Conversions(),
		MarkovOrder: m.opts.markovOrder,
		Methods:     methods,
		Results:     make(map[Method]credit.Allocation, len(methods)),
		Durations:   make(map[Method]time.Duration, len(methods)),
	}
	m.log.Info("attribution started",
		slog.Int("users", rep.Users),
		slog.Int("touchpoints", rep.Touchpoints),
		slog.Int("channels", len(rep.Channels)),
		slog.Int("conversions", rep.Conversions),
		slog.Any("methods", names),
	)

	ran := methods[:0:0]
	var skipErr error
	for _, method := range methods {
		stop := m.opts.recorder.Track(string(method))
		a, err := m.run(ctx, method)
		rep.Durations[method] = stop()
		if skippable(err) {
			m.log.Warn("method skipped", slog.String("method", string(method)), slog.Any("reason", err))
			if rep.Skipped == nil {
				rep.Skipped = make(map[Method]string)
			}
			rep.Skipped[method] = err.Error()
			skipErr = err
			continue
		}
		if err = m.logResult(string(method), err); err != nil && !degenerate(err) {
			return nil, fmt.Errorf("attribution: %s: %w", method, err)
		}
		if err != nil {
			rep.Degenerate = true
		}
		rep.Results[method] = a
		ran = append(ran, method)
	}
	rep.Methods = ran
	if len(ran) == 0 {
		return nil, fmt.Errorf("attribution: every method skipped: %w", skipErr)
	}

	m.log.Info("attribution finished", slog.Bool("degenerate", rep.Degenerate))
	if rep.Degenerate {
		return rep, fmt.Errorf("attribution: %w", ErrDegenerateInput)
	}

	return rep, nil
}
