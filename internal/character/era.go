// internal/character/era.go
//
// Parsing for epoch-relative birth years ("19BBY" / "5ABY").

package character

import (
	"errors"
	"strconv"
	"strings"
)

// ErrBadEra reports a birth-year string with no recognized epoch suffix
// or no parsable magnitude.
var ErrBadEra = errors.New("unrecognized era string")

// ParseEra converts a suffix-tagged year string to a signed offset from
// the epoch: before-epoch ("BBY") is negative, after-epoch ("ABY") is
// positive. Fractional magnitudes ("41.9BBY") truncate toward zero.
// Suffix matching is case-insensitive.
func ParseEra(s string) (int, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	var sign int
	switch {
	case strings.HasSuffix(s, "BBY"):
		sign = -1
	case strings.HasSuffix(s, "ABY"):
		sign = 1
	default:
		return 0, ErrBadEra
	}
	mag := strings.TrimSpace(s[:len(s)-3])
	f, err := strconv.ParseFloat(mag, 64)
	if err != nil {
		return 0, ErrBadEra
	}
	return sign * int(f), nil
}
