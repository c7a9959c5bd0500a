// Package attribution is the entry point of touchpath: it owns one validated
// touchpoint table and runs the attribution models over it.
//
//	m, err := attribution.FromRecords(records, attribution.WithWorkers(4))
//	if err != nil { ... }
//	rep, err := m.Run(ctx) // every method
//	if errors.Is(err, attribution.ErrDegenerateInput) { ... } // nothing converted
//
// Methods:
//
//   - first_touch, last_touch, linear: heuristic rules over converting journeys
//   - shapley: exact Shapley value over channel coalitions
//   - markov: removal effect of a Markov chain of order 1..4
//
// Every model returns a credit.Allocation that lists every channel of the
// table, zeros included. Degenerate input (no conversions) is reported with
// ErrDegenerateInput next to an all-zero allocation, never as NaN.
//
// Each Model carries a run id (a UUID unless WithRunID is given) that is
// attached to every log line it emits.
package attribution
