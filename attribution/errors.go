package attribution

import (
	"errors"

	"github.com/katalvlaran/touchpath/credit"
	"github.com/katalvlaran/touchpath/markov"
	"github.com/katalvlaran/touchpath/shapley"
	"github.com/katalvlaran/touchpath/touchpoint"
)

// Error taxonomy. Match with errors.Is.
var (
	// ErrInputFormat marks malformed input records.
	ErrInputFormat = touchpoint.ErrInputFormat

	// ErrInvalidParameter marks an unsupported method or Markov order.
	ErrInvalidParameter = errors.New("attribution: invalid parameter")

	// ErrDegenerateInput marks a dataset with nothing to attribute.
	ErrDegenerateInput = credit.ErrNoConversions

	// ErrSingularMatrix marks a transition matrix that cannot be inverted.
	ErrSingularMatrix = markov.ErrSingularMatrix

	// ErrTooManyChannels marks a universe too large for exact Shapley.
	// Run skips the method instead of failing.
	ErrTooManyChannels = shapley.ErrTooManyChannels
)

// degenerate reports whether err only signals that there was nothing to
// attribute; the accompanying allocation is valid (all zero).
func degenerate(err error) bool {
	return errors.Is(err, credit.ErrNoConversions) || errors.Is(err, markov.ErrNoRemovalEffect)
}

// skippable reports whether err refuses one method without invalidating the
// others.
func skippable(err error) bool {
	return errors.Is(err, shapley.ErrTooManyChannels)
}
