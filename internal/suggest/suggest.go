// internal/suggest/suggest.go
//
// Autocomplete index over the catalog name list.
// Matching is case-insensitive and preserves the original list order;
// callers pick prefix or substring matching explicitly — the two modes
// are never mixed.

package suggest

import "strings"

// Mode selects the matching strategy.
type Mode string

const (
	ModePrefix    Mode = "prefix"
	ModeSubstring Mode = "substring"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool { return m == ModePrefix || m == ModeSubstring }

// Index holds a fixed name list with lowercase shadows for matching.
// It is read-only after construction and safe for concurrent use.
type Index struct {
	names  []string
	folded []string
	mode   Mode
}

// New builds an index over names. The slice is copied; later mutation of
// the caller's slice does not affect the index.
func New(names []string, mode Mode) *Index {
	ix := &Index{
		names:  make([]string, len(names)),
		folded: make([]string, len(names)),
		mode:   mode,
	}
	copy(ix.names, names)
	for i, n := range names {
		ix.folded[i] = strings.ToLower(n)
	}
	return ix
}

// Suggest returns the names matching query, in original list order.
// An empty query yields nil (the dropdown stays hidden).
func (ix *Index) Suggest(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []string
	for i, f := range ix.folded {
		if ix.match(f, q) {
			out = append(out, ix.names[i])
		}
	}
	return out
}

func (ix *Index) match(name, q string) bool {
	if ix.mode == ModeSubstring {
		return strings.Contains(name, q)
	}
	return strings.HasPrefix(name, q)
}
