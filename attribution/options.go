package attribution

import (
	"log/slog"

	"github.com/katalvlaran/touchpath/heuristic"
	"github.com/katalvlaran/touchpath/markov"
	"github.com/katalvlaran/touchpath/shapley"
	"github.com/katalvlaran/touchpath/timing"
)

const panicWorkersInvalid = "attribution: WithWorkers: workers must be >= 1"

// Option configures a Model.
type Option func(*Options)

// Options is the resolved configuration of a Model.
type Options struct {
	logger      *slog.Logger
	recorder    *timing.Recorder
	runID       string
	workers     int
	markovOrder int
	shapley     []shapley.Option
	markov      []markov.Option
	heuristic   []heuristic.Option
}

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithRecorder times every model run.
func WithRecorder(r *timing.Recorder) Option {
	return func(o *Options) { o.recorder = r }
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(o *Options) { o.runID = id }
}

// WithWorkers lets Shapley and Markov use up to n goroutines.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// WithMarkovOrder sets the chain order used by Run. Checked by New.
func WithMarkovOrder(k int) Option {
	return func(o *Options) { o.markovOrder = k }
}

// WithShapleyOptions forwards options to the Shapley model.
func WithShapleyOptions(opts ...shapley.Option) Option {
	return func(o *Options) { o.shapley = append(o.shapley, opts...) }
}

// WithMarkovOptions forwards options to the Markov model.
func WithMarkovOptions(opts ...markov.Option) Option {
	return func(o *Options) { o.markov = append(o.markov, opts...) }
}

// WithHeuristicOptions forwards options to the heuristic rules.
func WithHeuristicOptions(opts ...heuristic.Option) Option {
	return func(o *Options) { o.heuristic = append(o.heuristic, opts...) }
}

func gatherOptions(user ...Option) Options {
	o := Options{
		workers:     1,
		markovOrder: markov.DefaultOrder,
	}
	for _, fn := range user {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}
