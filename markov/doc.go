// Package markov attributes conversions with the removal effect of a
// Markov chain built from user journeys.
//
// What:
//
//	Every journey becomes a chain of states
//	    (start) → c₁ → c₂ → … → cₖ → (conversion) | (null)
//	and the transition counts are row-normalized into a row-stochastic
//	TransitionMatrix. (null) and (conversion) are absorbing.
//
// How:
//
//   - Partition the matrix into R (transient → transient) and
//     Q (transient → {(null), (conversion)}).
//   - Fundamental matrix N = (I − R)⁻¹, absorption probabilities B = N·Q.
//   - The conversion rate is B[(start), (conversion)].
//   - Removing channel c drops every state that contains c; the mass that
//     flowed into those states is sent to (null). The removal effect is
//     1 − rate(without c) / rate.
//   - Effects are normalized to sum to 1 and, by default, scaled to the total
//     number of conversions.
//
// Higher orders:
//
//	WithOrder(k) for k in 1..4 replaces each channel by the composite state of
//	the last k channels ("search>email" for k=2). Removal still works per real
//	channel: every composite that mentions it disappears.
//
// Complexity:
//
//   - Build: O(L) over the total journey length L.
//   - ConversionRate: O(s³) for s transient states (LU inversion).
//   - RemovalEffects: O(n · s³) for n channels, fanned out with WithWorkers.
//
// Errors:
//
//   - ErrInvalidOrder    - order outside 1..4.
//   - ErrMalformedPath   - empty journey or a reserved state name inside one.
//   - ErrSingularMatrix  - I − R is not invertible; the message names the
//     states that can never reach an absorbing state.
//   - ErrNoRemovalEffect - every removal effect is zero.
package markov
