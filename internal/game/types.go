// internal/game/types.go
//
// Core type definitions for the character-guessing game.
// Defines:
//   - Status: coarse session state (playing/won/lost).
//   - GuessResult: per-guess, per-attribute comparison cells.
//   - AttributeSpec/Kind: the configurable ordered list of tracked attributes.

package game

import (
	"time"

	"github.com/charactle/go-server/internal/compare"
)

// Status is the session state. Won and lost are terminal.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// GuessResult is the structured outcome of one submitted guess: one cell
// per tracked attribute, keyed by attribute name, plus the insertion
// index within the session. Display order of rows is insertion order.
type GuessResult struct {
	CharacterName string                    `json:"characterName"`
	Cells         map[string]compare.Result `json:"cells"`
	Index         int                       `json:"index"`
	At            time.Time                 `json:"at"`
}

// Kind selects the comparator family for an attribute.
type Kind string

const (
	// KindName compares names case-insensitively; exact or none, never partial.
	KindName Kind = "name"
	// KindHeight is the numeric-scalar comparator over Character.Height.
	KindHeight Kind = "height"
	// KindGender is a direct categorical comparison.
	KindGender Kind = "gender"
	// KindSpecies resolves species entities, with an optional homeworld tiebreak.
	KindSpecies Kind = "species"
	// KindHomeworld resolves the homeworld reference, then compares names.
	KindHomeworld Kind = "homeworld"
	// KindBirthYear is the era-scalar comparator over Character.BirthYear.
	KindBirthYear Kind = "birth_year"
	// KindFilms resolves film references to canonical tokens, then compares sets.
	KindFilms Kind = "films"
	// KindAllegiances compares the literal allegiance sets.
	KindAllegiances Kind = "allegiances"
)

// AttributeSpec configures one tracked attribute. The ordered spec list
// is the evaluator's configuration; nothing is hardwired to a fixed set.
type AttributeSpec struct {
	// Name keys the cell in GuessResult.Cells and the grid column.
	Name string

	// Kind picks the comparator.
	Kind Kind

	// CloseWithin is the partial-verdict distance for numeric attributes.
	// Zero means the kind's default.
	CloseWithin int

	// CloseTiebreak enables the shared-homeworld partial tier for
	// reference-valued attributes (species today; a per-attribute policy
	// rather than a species-only rule).
	CloseTiebreak bool
}

// HeightCloseWithin is the default partial threshold for heights, in cm.
const HeightCloseWithin = 10

// DefaultAttributes is the tracked set of the classic game, in grid order.
func DefaultAttributes() []AttributeSpec {
	return []AttributeSpec{
		{Name: "name", Kind: KindName},
		{Name: "height", Kind: KindHeight, CloseWithin: HeightCloseWithin},
		{Name: "gender", Kind: KindGender},
		{Name: "species", Kind: KindSpecies, CloseTiebreak: true},
		{Name: "homeworld", Kind: KindHomeworld},
		{Name: "birth_year", Kind: KindBirthYear},
		{Name: "films", Kind: KindFilms},
	}
}

// AttributeNames returns the grid column order for a spec list.
func AttributeNames(attrs []AttributeSpec) []string {
	out := make([]string, len(attrs))
	for i, a := range attrs {
		out[i] = a.Name
	}
	return out
}
