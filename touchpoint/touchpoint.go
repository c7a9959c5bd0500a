package touchpoint

import (
	"fmt"
	"sort"
	"strings"
)

// Columns is the number of fields in one input record.
const Columns = 3

// Reserved names cannot be used as channel ids: the Markov model uses them as
// synthetic states, and PathSeparator joins channels into path keys.
const (
	PathSeparator   = ">"
	StartState      = "(start)"
	NullState       = "(null)"
	ConversionState = "(conversion)"
)

// Touchpoint is one (user, channel, converted) event.
type Touchpoint struct {
	UserID    string
	Channel   string
	Converted bool
}

// Table is a validated, immutable touchpoint log.
type Table struct {
	rows        []Touchpoint
	userIdx     []int    // dense user index per row, by first appearance
	users       int      // number of distinct users
	channels    []string // sorted distinct channels
	conversions int
}

// New validates rows and builds a Table. The slice is copied.
//
// Errors:
//   - ErrInputFormat for an empty table, an empty user or channel id, or a
//     channel id that collides with a reserved name or contains PathSeparator.
func New(rows []Touchpoint) (*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInputFormat)
	}

	t := &Table{
		rows:    make([]Touchpoint, len(rows)),
		userIdx: make([]int, len(rows)),
	}
	copy(t.rows, rows)

	index := make(map[string]int)
	seen := make(map[string]struct{})
	for i, r := range t.rows {
		if r.UserID == "" {
			return nil, fmt.Errorf("%w: row %d: empty user id", ErrInputFormat, i)
		}
		if err := validateChannel(r.Channel); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrInputFormat, i, err)
		}

		// factorize: first appearance gets the next dense index
		u, ok := index[r.UserID]
		if !ok {
			u = len(index)
			index[r.UserID] = u
		}
		t.userIdx[i] = u

		if _, ok := seen[r.Channel]; !ok {
			seen[r.Channel] = struct{}{}
			t.channels = append(t.channels, r.Channel)
		}
		if r.Converted {
			t.conversions++
		}
	}
	t.users = len(index)
	sort.Strings(t.channels)

	return t, nil
}

func validateChannel(ch string) error {
	switch {
	case ch == "":
		return fmt.Errorf("empty channel id")
	case ch == StartState || ch == NullState || ch == ConversionState:
		return fmt.Errorf("channel id %q is reserved", ch)
	case strings.Contains(ch, PathSeparator):
		return fmt.Errorf("channel id %q contains %q", ch, PathSeparator)
	}

	return nil
}

// FromRecords builds a Table from raw string records, e.g. CSV rows without
// the header. Surrounding whitespace of every field is trimmed.
func FromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInputFormat)
	}
	rows := make([]Touchpoint, len(records))
	for i, rec := range records {
		if len(rec) != Columns {
			return nil, fmt.Errorf("%w: row %d: got %d columns, want %d (user_id, channel_id, converted)",
				ErrInputFormat, i, len(rec), Columns)
		}
		conv, err := ParseConverted(rec[2])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrInputFormat, i, err)
		}
		rows[i] = Touchpoint{
			UserID:    strings.TrimSpace(rec[0]),
			Channel:   strings.TrimSpace(rec[1]),
			Converted: conv,
		}
	}

	return New(rows)
}

// ParseConverted parses a conversion flag: 0/1 or true/false, case-insensitive.
func ParseConverted(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true":
		return true, nil
	case "0", "false":
		return false, nil
	}

	return false, fmt.Errorf("converted flag %q is not one of 0, 1, true, false", s)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Rows returns a copy of the rows in input order.
func (t *Table) Rows() []Touchpoint {
	out := make([]Touchpoint, len(t.rows))
	copy(out, t.rows)

	return out
}

// Users returns the number of distinct users.
func (t *Table) Users() int { return t.users }

// UserIndex returns the dense user index of row i.
func (t *Table) UserIndex(i int) int { return t.userIdx[i] }

// Channels returns the sorted distinct channel ids.
func (t *Table) Channels() []string {
	out := make([]string, len(t.channels))
	copy(out, t.channels)

	return out
}

// Conversions returns the number of converting rows.
func (t *Table) Conversions() int { return t.conversions }

// Groups returns each user's rows in input order, users ordered by dense index.
// Group membership and relative order are exactly those of the input.
func (t *Table) Groups() [][]Touchpoint {
	groups := make([][]Touchpoint, t.users)
	for i, r := range t.rows {
		u := t.userIdx[i]
		groups[u] = append(groups[u], r)
	}

	return groups
}
