// internal/compare/compare.go
//
// Attribute comparators for the guessing game.
// Each comparator is a stateless pure function returning a three-valued
// Verdict plus an optional directional Hint. Reference resolution happens
// upstream (internal/game); these functions only see plain values.
//
// Arrow convention: HintHigh means the guessed value is above/after the
// target (renders as an up arrow), HintLow below/before it.

package compare

import (
	"strconv"
	"strings"

	"github.com/charactle/go-server/internal/character"
)

// Verdict is the three-valued outcome for one attribute.
type Verdict string

const (
	VerdictExact   Verdict = "exact"
	VerdictPartial Verdict = "partial"
	VerdictNone    Verdict = "none"
)

// Hint is an optional directional indicator alongside a non-exact verdict.
type Hint string

const (
	HintNone Hint = ""
	// HintHigh: the guess is above (height) or more recent (era) than the target.
	HintHigh Hint = "high"
	// HintLow: the guess is below or older than the target.
	HintLow Hint = "low"
	// HintUnavailable: a reference for this attribute could not be resolved.
	HintUnavailable Hint = "unavailable"
)

// Result pairs a verdict with its hint.
type Result struct {
	Verdict Verdict `json:"verdict"`
	Hint    Hint    `json:"hint,omitempty"`
}

// EraCloseWithin is the partial-verdict threshold for birth-year
// comparisons, in years.
const EraCloseWithin = 5

// Numeric compares two integer-valued strings (e.g. heights in cm).
// Either side failing to parse yields none with no hint. Otherwise the
// verdict is exact on equality, partial within closeWithin, none beyond,
// and the hint reports which side of the target the guess landed on.
func Numeric(target, guess string, closeWithin int) Result {
	t, err1 := strconv.Atoi(strings.TrimSpace(target))
	g, err2 := strconv.Atoi(strings.TrimSpace(guess))
	if err1 != nil || err2 != nil {
		return Result{Verdict: VerdictNone}
	}
	return scalar(t, g, closeWithin)
}

// Era compares two suffix-tagged birth years ("19BBY"/"5ABY").
// Unparsable strings degrade to none with no hint, never an error.
// HintHigh means the guessed year is more recent than the target's.
func Era(target, guess string) Result {
	t, err1 := character.ParseEra(target)
	g, err2 := character.ParseEra(guess)
	if err1 != nil || err2 != nil {
		return Result{Verdict: VerdictNone}
	}
	return scalar(t, g, EraCloseWithin)
}

// scalar is the shared verdict/hint logic for ordered numeric attributes.
func scalar(target, guess, closeWithin int) Result {
	if target == guess {
		return Result{Verdict: VerdictExact}
	}
	r := Result{Verdict: VerdictNone, Hint: HintLow}
	if guess > target {
		r.Hint = HintHigh
	}
	if diff := target - guess; diff <= closeWithin && -diff <= closeWithin {
		r.Verdict = VerdictPartial
	}
	return r
}

// Categorical compares two plain strings case-sensitively.
// There is no partial tier; close relations belong to Species.
func Categorical(target, guess string) Result {
	if target != "" && target == guess {
		return Result{Verdict: VerdictExact}
	}
	return Result{Verdict: VerdictNone}
}

// Species compares two resolved species entities. Matching names are
// exact; differing species from the same homeworld are partial when the
// tiebreak policy is enabled for the attribute; anything else is none.
// A nil entity (unresolved upstream) is a plain non-match here — callers
// that want the unavailable hint check resolution errors themselves.
func Species(target, guess *character.Species, homeworldTiebreak bool) Result {
	if target == nil || guess == nil {
		return Result{Verdict: VerdictNone}
	}
	if target.Name == guess.Name {
		return Result{Verdict: VerdictExact}
	}
	if homeworldTiebreak && target.Homeworld != "" && target.Homeworld == guess.Homeworld {
		return Result{Verdict: VerdictPartial}
	}
	return Result{Verdict: VerdictNone}
}

// Sets compares two collections of canonical tokens (films, allegiances).
// Equal sets are exact, intersecting sets partial, disjoint sets none —
// order and duplicates are irrelevant. Empty-string elements stand for
// references that failed to resolve: they never match anything, and their
// presence on either side rules out an exact verdict.
func Sets(target, guess []string) Result {
	ts, tUnresolved := toSet(target)
	gs, gUnresolved := toSet(guess)
	if len(ts) == 0 && len(gs) == 0 {
		return Result{Verdict: VerdictNone}
	}

	common := 0
	for tok := range gs {
		if _, ok := ts[tok]; ok {
			common++
		}
	}
	equal := common == len(ts) && common == len(gs) && !tUnresolved && !gUnresolved
	switch {
	case equal:
		return Result{Verdict: VerdictExact}
	case common > 0:
		return Result{Verdict: VerdictPartial}
	default:
		return Result{Verdict: VerdictNone}
	}
}

// toSet builds a token set, reporting whether any element was an
// unresolved placeholder.
func toSet(tokens []string) (map[string]struct{}, bool) {
	set := make(map[string]struct{}, len(tokens))
	unresolved := false
	for _, tok := range tokens {
		if tok == "" {
			unresolved = true
			continue
		}
		set[tok] = struct{}{}
	}
	return set, unresolved
}
