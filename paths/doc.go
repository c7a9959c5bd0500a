// Package paths turns a touchpoint table into user journeys ("paths").
//
// Each user's rows are buffered in order; a conversion closes the current
// buffer and starts a new one. Two shapes are produced:
//
//   - Converting: order-insensitive keys (channels deduplicated and sorted,
//     joined by ">") with occurrence counts, for Shapley valuation. Trailing
//     non-converting touches are dropped, users that never convert emit nothing.
//   - Markov: ordered sequences with duplicates and an outcome flag. A trailing
//     non-converting buffer IS kept as a not-converted journey.
//
// Ordered is the chronological counterpart of Converting (order and duplicates
// kept, converting journeys only), used by the heuristic models.
package paths
