// Package credit holds the common output of every attribution model: an
// Allocation of conversions to channels, plus the rescale/normalize/round
// helpers each model applies before returning it.
//
// Degenerate input is signalled explicitly: a model facing a dataset with no
// conversions returns an all-zero Allocation together with ErrNoConversions,
// so a caller can tell "nothing to attribute" apart from a legitimate zero.
package credit
