// internal/character/character.go
//
// Canonical character schema for the guessing game.
// Every data source (SWAPI-style API, bundled JSON dataset) is normalized
// into these types by the adapters in adapt.go, so the game core never
// branches on field casing or record shape.

package character

// Character is one guessable record. Fields hold raw catalog values
// ("172", "19BBY", "unknown"); the comparators own all parsing, and an
// unparsable value compares as a non-match rather than an error.
type Character struct {
	// Name uniquely identifies the character within a catalog.
	Name string `json:"name"`

	// Height in centimeters as the catalog reports it. May be "unknown".
	Height string `json:"height"`

	// Gender as a plain categorical string.
	Gender string `json:"gender"`

	// BirthYear is a suffix-tagged year string relative to the epoch,
	// e.g. "19BBY" (before) or "5ABY" (after).
	BirthYear string `json:"birthYear"`

	// Species is a single reference: either a resolvable URL or an
	// embedded species name. Empty means unknown.
	Species string `json:"species"`

	// Homeworld is a reference (URL) or an embedded planet name.
	Homeworld string `json:"homeworld"`

	// Films are references to the works the character appears in.
	// Raw refs are never compared directly; they resolve to canonical
	// tokens first (see catalog.Provider.ResolveWork).
	Films []string `json:"films"`

	// Allegiances are literal faction names, already comparable.
	Allegiances []string `json:"allegiances"`
}

// Species is a resolved species entity. Homeworld is kept as the raw
// reference so two species from the same source compare directly; it is
// the tie-break for "close" species verdicts.
type Species struct {
	Name      string `json:"name"`
	Homeworld string `json:"homeworld"`
}

// Work is a resolved film/appearance entity. Token is the canonical
// identifier used for set comparisons (e.g. the episode numeral), stable
// across source representations of the same work.
type Work struct {
	Title string `json:"title"`
	Token string `json:"token"`
}
