package shapley

import "fmt"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultWorkers runs the allocation on a single goroutine.
	DefaultWorkers = 1

	// DefaultMaxExactChannels is the largest universe exact allocation accepts
	// (10! = 3 628 800 orderings).
	DefaultMaxExactChannels = 10

	// DefaultPrecision is the number of decimals Attribute rounds to.
	DefaultPrecision = 2

	// MaxExactLimit is the hard ceiling for WithMaxExactChannels: 20! is the
	// largest factorial representable in an int64.
	MaxExactLimit = 20
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicWorkersInvalid   = "shapley: WithWorkers: workers must be >= 1"
	panicSamplesInvalid   = "shapley: WithSampling: samples must be >= 1"
	panicMaxExactInvalid  = "shapley: WithMaxExactChannels: n must be in [1, 20]"
	panicPrecisionInvalid = "shapley: WithPrecision: places must be >= 0"
)

// Option mutates Options. Constructors panic only on nonsensical values
// (programmer error).
type Option func(*Options)

// Options is the resolved configuration of an allocation.
type Options struct {
	workers   int
	samples   int // 0 ⇒ exact
	seed      int64
	maxExact  int
	inherit   bool
	precision int
}

// WithWorkers fans the allocation out over up to n goroutines.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// WithSampling switches to Monte-Carlo allocation over `samples` random
// orderings drawn from a generator seeded with seed (seed==0 ⇒ default seed).
// Results are reproducible for equal (samples, seed) and any worker count.
func WithSampling(samples int, seed int64) Option {
	if samples < 1 {
		panic(panicSamplesInvalid)
	}

	return func(o *Options) {
		o.samples = samples
		o.seed = seed
	}
}

// WithMaxExactChannels raises or lowers the exact-mode universe limit.
func WithMaxExactChannels(n int) Option {
	if n < 1 || n > MaxExactLimit {
		panic(panicMaxExactInvalid)
	}

	return func(o *Options) { o.maxExact = n }
}

// WithInheritedValues makes every coalition inherit the observed value of
// all its subsets before allocation (see Characteristic.Inherited).
func WithInheritedValues() Option {
	return func(o *Options) { o.inherit = true }
}

// WithPrecision sets the decimals Attribute rounds to.
func WithPrecision(places int) Option {
	if places < 0 {
		panic(panicPrecisionInvalid)
	}

	return func(o *Options) { o.precision = places }
}

func defaultOptions() Options {
	return Options{
		workers:   DefaultWorkers,
		maxExact:  DefaultMaxExactChannels,
		precision: DefaultPrecision,
	}
}

func gatherOptions(user ...Option) Options {
	o := defaultOptions()
	for _, fn := range user {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

// String reports the mode for logs.
func (o Options) String() string {
	if o.samples > 0 {
		return fmt.Sprintf("sampled(samples=%d, seed=%d, workers=%d)", o.samples, o.seed, o.workers)
	}

	return fmt.Sprintf("exact(max=%d, workers=%d)", o.maxExact, o.workers)
}
