package markov

// ---------- Defaults ----------

const (
	// MinOrder and MaxOrder bound the chain order.
	MinOrder = 1
	MaxOrder = 4

	// DefaultOrder is a first-order chain.
	DefaultOrder = 1

	// DefaultWorkers computes removal effects on a single goroutine.
	DefaultWorkers = 1

	// DefaultPrecision is the number of decimals Attribute rounds to.
	DefaultPrecision = 4

	// RowTolerance is the allowed deviation of a transient row sum from 1.
	RowTolerance = 1e-9
)

const (
	panicWorkersInvalid   = "markov: WithWorkers: workers must be >= 1"
	panicPrecisionInvalid = "markov: WithPrecision: places must be >= 0"
)

// Option configures Attribute and RemovalEffects.
type Option func(*Options)

// Options is the resolved configuration.
type Options struct {
	order       int
	workers     int
	proportions bool
	precision   int
}

// WithOrder sets the chain order. The value is checked by Attribute, which
// returns ErrInvalidOrder outside [MinOrder, MaxOrder].
func WithOrder(k int) Option {
	return func(o *Options) { o.order = k }
}

// WithWorkers computes up to n removal effects concurrently.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// WithProportions makes Attribute return normalized effects (summing to 1)
// instead of conversion counts.
func WithProportions() Option {
	return func(o *Options) { o.proportions = true }
}

// WithPrecision sets the decimals Attribute rounds to.
func WithPrecision(places int) Option {
	if places < 0 {
		panic(panicPrecisionInvalid)
	}

	return func(o *Options) { o.precision = places }
}

func gatherOptions(user ...Option) Options {
	o := Options{
		order:     DefaultOrder,
		workers:   DefaultWorkers,
		precision: DefaultPrecision,
	}
	for _, fn := range user {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
