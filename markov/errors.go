package markov

import "errors"

var (
	// ErrInvalidOrder is returned for a chain order outside [MinOrder, MaxOrder].
	ErrInvalidOrder = errors.New("markov: order must be in [1, 4]")

	// ErrNoPaths is returned when there is no journey to build a chain from.
	ErrNoPaths = errors.New("markov: no paths")

	// ErrMalformedPath is returned for an empty journey, or one containing a
	// reserved state name.
	ErrMalformedPath = errors.New("markov: malformed path")

	// ErrNotStochastic is returned when an explicit transient row does not sum
	// to 1, or an absorbing row is not empty.
	ErrNotStochastic = errors.New("markov: matrix is not row-stochastic")

	// ErrUnknownState is returned when a state or channel is not in the chain.
	ErrUnknownState = errors.New("markov: unknown state")

	// ErrSingularMatrix is returned when I − R cannot be inverted.
	ErrSingularMatrix = errors.New("markov: singular transition matrix")

	// ErrNoRemovalEffect is returned (with an all-zero allocation) when every
	// channel's removal effect is zero.
	ErrNoRemovalEffect = errors.New("markov: no channel has a removal effect")
)
