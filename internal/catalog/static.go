// internal/catalog/static.go
//
// Static Provider over a bundled JSON dataset.
//
// Dataset forms accepted:
//   1. An object with "people", "species", "films", and "planets" tables,
//      where people are raw records in either supported shape and the
//      side tables resolve URL references.
//   2. A bare array of records (the flat dataset shape); references are
//      then embedded names and the side tables are empty.
//
// Loading behavior (LoadStatic):
//   - If CHARACTERS_FILE is set, the dataset is read from that path.
//   - Otherwise the embedded default dataset (assets/characters.json) is used.
// The dataset is immutable after construction; all methods are safe for
// concurrent use.

package catalog

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/charactle/go-server/assets"
	"github.com/charactle/go-server/internal/character"
)

// Static is the in-process Provider implementation.
type Static struct {
	people  []character.Character
	names   []string
	species map[string]*character.Species // keyed by URL and by name
	films   map[string]*character.Work    // keyed by URL
	planets map[string]string             // URL → name
}

// dataset is the on-disk object form.
type dataset struct {
	People  []json.RawMessage `json:"people"`
	Species []speciesRow      `json:"species"`
	Films   []filmRow         `json:"films"`
	Planets []planetRow       `json:"planets"`
}

type speciesRow struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Homeworld string `json:"homeworld"`
}

type filmRow struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Episode int    `json:"episode_id"`
}

type planetRow struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// LoadStatic builds a Static provider from CHARACTERS_FILE or the
// embedded default dataset.
func LoadStatic() (*Static, error) {
	if path := os.Getenv("CHARACTERS_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return NewStatic(data)
	}
	return NewStatic(assets.CharacterData())
}

// NewStatic parses a dataset in either accepted form.
func NewStatic(data []byte) (*Static, error) {
	var ds dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		// Fall back to the bare-array form.
		var records []json.RawMessage
		if err2 := json.Unmarshal(data, &records); err2 != nil {
			return nil, fmt.Errorf("parse dataset: %w", err)
		}
		ds = dataset{People: records}
	}

	st := &Static{
		species: make(map[string]*character.Species),
		films:   make(map[string]*character.Work),
		planets: make(map[string]string),
	}
	for _, row := range ds.Species {
		sp := &character.Species{Name: row.Name, Homeworld: row.Homeworld}
		if row.URL != "" {
			st.species[row.URL] = sp
		}
		st.species[row.Name] = sp
	}
	for _, row := range ds.Films {
		st.films[row.URL] = &character.Work{Title: row.Title, Token: EpisodeToken(row.Episode)}
	}
	for _, row := range ds.Planets {
		st.planets[row.URL] = row.Name
	}
	for _, raw := range ds.People {
		c, err := character.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("decode character record: %w", err)
		}
		if c.Name == "" {
			continue
		}
		st.people = append(st.people, c)
		st.names = append(st.names, c.Name)
	}
	if len(st.people) == 0 {
		return nil, fmt.Errorf("dataset has no characters")
	}
	return st, nil
}

func (st *Static) ListNames(ctx context.Context) ([]string, error) {
	out := make([]string, len(st.names))
	copy(out, st.names)
	return out, nil
}

func (st *Static) FindByName(ctx context.Context, name string) (*character.Character, error) {
	for i := range st.people {
		if strings.EqualFold(st.people[i].Name, name) {
			c := st.people[i]
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// PickRandom draws uniformly using crypto/rand; the catalog is small and
// the draw happens once per session.
func (st *Static) PickRandom(ctx context.Context) (*character.Character, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(st.people))))
	if err != nil {
		return nil, err
	}
	c := st.people[n.Int64()]
	return &c, nil
}

func (st *Static) ByIndex(ctx context.Context, i int) (*character.Character, error) {
	if i < 0 || i >= len(st.people) {
		return nil, ErrNotFound
	}
	c := st.people[i]
	return &c, nil
}

func (st *Static) Count(ctx context.Context) (int, error) {
	return len(st.people), nil
}

// ResolveSpecies accepts a URL from the species table or an embedded
// species name. Unknown embedded names still resolve, as a species with
// no homeworld, so a dataset without a species table remains playable.
func (st *Static) ResolveSpecies(ctx context.Context, ref string) (*character.Species, error) {
	if ref == "" {
		return nil, ErrNotFound
	}
	if sp, ok := st.species[ref]; ok {
		return sp, nil
	}
	if strings.Contains(ref, "://") {
		return nil, ErrNotFound
	}
	return &character.Species{Name: ref}, nil
}

// ResolveHomeworld maps a planet URL to its name; embedded names pass
// through unchanged.
func (st *Static) ResolveHomeworld(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", ErrNotFound
	}
	if name, ok := st.planets[ref]; ok {
		return name, nil
	}
	if strings.Contains(ref, "://") {
		return "", ErrNotFound
	}
	return ref, nil
}

// ResolveWork maps a film URL to its work; a non-URL reference is treated
// as an already-canonical token.
func (st *Static) ResolveWork(ctx context.Context, ref string) (*character.Work, error) {
	if ref == "" {
		return nil, ErrNotFound
	}
	if w, ok := st.films[ref]; ok {
		return w, nil
	}
	if strings.Contains(ref, "://") {
		return nil, ErrNotFound
	}
	return &character.Work{Title: ref, Token: ref}, nil
}
