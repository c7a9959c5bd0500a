// Package touchpath attributes conversions to the marketing channels a user
// touched on the way there.
//
// What is touchpath?
//
//	A small, deterministic attribution engine that turns a flat table of
//	(user, channel, converted) rows into per-channel credit:
//		• Heuristics: first touch, last touch, linear
//		• Game theory: exact (or sampled) Shapley values over channel coalitions
//		• Probabilistic: Markov-chain removal effect, order 1 to 4
//
// Every model returns the same shape, a channel → credit map whose values sum
// to the number of conversions, so results compare side by side.
//
// Layout:
//
//	touchpoint/  - validated input table, reserved state names
//	paths/       - per-user journeys, path counts and conversion counts
//	credit/      - Allocation type: normalize, rescale, round, fill
//	heuristic/   - first / last / linear rules
//	shapley/     - characteristic function and Shapley allocation
//	markov/      - transition matrix, absorption, removal effects
//	matrix/      - dense row-major kernel (LU, inverse, products)
//	attribution/ - Model facade that runs every method and builds a Report
//	timing/      - Prometheus phase histogram plus slog debug lines
//	cmd/touchpath/ - CLI: run, matrix, version
//
// Quick start:
//
//	m, err := attribution.FromRecords(records)
//	if err != nil { ... }
//	rep, err := m.Run(ctx)
//	fmt.Println(rep.Results[attribution.Shapley])
//
// See examples/campaign_mix for a complete program.
package touchpath
