// internal/catalog/catalog.go
//
// Character data provider contract.
// The game core depends only on this interface; concrete sources are a
// bundled JSON dataset (static.go) and a remote SWAPI-style API (swapi.go).
// All operations take a context and may fail transiently — the core
// treats any failure as "attribute unresolved" and never shows a raw
// transport error to the player.

package catalog

import (
	"context"
	"errors"

	"github.com/charactle/go-server/internal/character"
)

// ErrNotFound reports a name or reference unknown to the catalog.
var ErrNotFound = errors.New("catalog: not found")

// Provider supplies character records and resolves their references.
type Provider interface {
	// ListNames returns every known character name, in catalog order.
	ListNames(ctx context.Context) ([]string, error)

	// FindByName looks a character up case-insensitively.
	FindByName(ctx context.Context, name string) (*character.Character, error)

	// PickRandom draws a character uniformly from the catalog.
	PickRandom(ctx context.Context) (*character.Character, error)

	// ByIndex fetches the i-th character (0-based, catalog order).
	// Used for deterministic daily selection.
	ByIndex(ctx context.Context, i int) (*character.Character, error)

	// Count reports the catalog size.
	Count(ctx context.Context) (int, error)

	// ResolveSpecies resolves a species reference or embedded name.
	ResolveSpecies(ctx context.Context, ref string) (*character.Species, error)

	// ResolveHomeworld resolves a homeworld reference to a planet name.
	ResolveHomeworld(ctx context.Context, ref string) (string, error)

	// ResolveWork resolves a film reference to its title and canonical token.
	ResolveWork(ctx context.Context, ref string) (*character.Work, error)
}

// episodeTokens maps episode numbers to the roman-numeral tokens used for
// set comparison and grid display.
var episodeTokens = map[int]string{
	1: "I", 2: "II", 3: "III", 4: "IV", 5: "V", 6: "VI", 7: "VII", 8: "VIII", 9: "IX",
}

// EpisodeToken returns the canonical token for an episode number, or ""
// if the episode is unknown.
func EpisodeToken(episode int) string { return episodeTokens[episode] }
