// Package touchpoint holds the validated input of an attribution run.
//
// A Touchpoint is one recorded user interaction with a marketing channel plus a
// conversion flag. A Table is an immutable, validated sequence of touchpoints in
// the caller's chronological order, with users factorized to a dense index by
// first appearance.
//
// Input contract:
//
//   - exactly three columns, in order: user_id, channel_id, converted;
//   - converted ∈ {0, 1, true, false} (case-insensitive);
//   - rows are already sorted chronologically per user; the table never re-sorts.
//
// Anything else is rejected with ErrInputFormat before any attribution work
// begins.
package touchpoint
