// internal/character/adapt.go
//
// Adapters from observed source record shapes to the canonical Character.
// Two shapes exist in the wild:
//   - the SWAPI shape: lowercase snake_case keys, species/films as arrays
//     of reference URLs, homeworld as a URL;
//   - the flat dataset shape: capitalized keys, species/homeworld embedded
//     as plain names, allegiances as one comma-separated string.
// Decode detects the shape structurally (species array vs string), so a
// mixed file still normalizes record by record.

package character

import (
	"encoding/json"
	"strings"
)

// swapiRecord mirrors one entry of a SWAPI /people page.
type swapiRecord struct {
	Name      string   `json:"name"`
	Height    string   `json:"height"`
	Gender    string   `json:"gender"`
	BirthYear string   `json:"birth_year"`
	Species   []string `json:"species"`
	Homeworld string   `json:"homeworld"`
	Films     []string `json:"films"`
}

// flatRecord mirrors the bundled dataset shape (character_api.json style).
// encoding/json matches keys case-insensitively, so capitalized keys bind
// to the same tags.
type flatRecord struct {
	Name       string   `json:"name"`
	Height     string   `json:"height"`
	Gender     string   `json:"gender"`
	BirthYear  string   `json:"birth_year"`
	Species    string   `json:"species"`
	Homeworld  string   `json:"homeworld"`
	Allegiance string   `json:"allegiance"`
	Films      []string `json:"films"`
}

// Decode normalizes one raw record of either shape.
func Decode(raw json.RawMessage) (Character, error) {
	var sw swapiRecord
	if err := json.Unmarshal(raw, &sw); err == nil {
		return fromSWAPI(sw), nil
	}
	var fl flatRecord
	if err := json.Unmarshal(raw, &fl); err != nil {
		return Character{}, err
	}
	return fromFlat(fl), nil
}

// fromSWAPI keeps at most one species reference. A character with no
// species entry is human in the source data, so the embedded name is
// substituted to keep the record comparable.
func fromSWAPI(r swapiRecord) Character {
	species := "Human"
	if len(r.Species) > 0 {
		species = r.Species[0]
	}
	return Character{
		Name:      r.Name,
		Height:    r.Height,
		Gender:    r.Gender,
		BirthYear: r.BirthYear,
		Species:   species,
		Homeworld: r.Homeworld,
		Films:     r.Films,
	}
}

func fromFlat(r flatRecord) Character {
	return Character{
		Name:        r.Name,
		Height:      r.Height,
		Gender:      r.Gender,
		BirthYear:   r.BirthYear,
		Species:     r.Species,
		Homeworld:   r.Homeworld,
		Films:       r.Films,
		Allegiances: SplitList(r.Allegiance),
	}
}

// SplitList turns a comma-separated value into trimmed tokens.
// Empty input yields nil.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
