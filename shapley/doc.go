// Package shapley attributes conversions to channels with the Shapley value of
// a cooperative game whose players are channels.
//
// 🚀 What is computed?
//
//	Every converting journey is reduced to the set of channels it touched
//	(a coalition). The characteristic function v(S) is the number of
//	conversions whose channel set is exactly S. For every arrival order of
//	the full channel set (grand-coalition ordering) each channel receives
//	its marginal contribution max(v(prefix) − assigned so far, 0); the
//	Shapley value is the mean over all orderings.
//
// ✨ Key features:
//   - exact by default: all 2ⁿ−1 coalitions and all n! orderings
//   - optional sub-coalition inheritance v'(S) = Σ_{T⊆S} v(T) (WithInheritedValues)
//   - optional Monte-Carlo mode with a fixed seed (WithSampling)
//   - optional fan-out across orderings (WithWorkers); results are identical
//     for any worker count
//
// Performance:
//
//   - Coalitions: O(2ⁿ) memory, one float64 per subset
//   - Exact allocation: O(n · n!) time; n beyond MaxExactChannels (default 10)
//     is refused with ErrTooManyChannels rather than truncated
//   - Sampling: O(n · samples) time
//
// Typical use:
//
//	alloc, err := shapley.Attribute(ctx, paths.Converting(tbl), tbl.Channels(), tbl.Conversions())
package shapley
