package game

import (
	"context"
	"errors"
	"strings"

	"github.com/charactle/go-server/internal/catalog"
	"github.com/charactle/go-server/internal/character"
)

var errFakeTransport = errors.New("fake transport failure")

// fakeProvider is an in-memory catalog for game tests. References listed
// in failRefs resolve with a transport-class error; anything else missing
// from the maps is a catalog miss.
type fakeProvider struct {
	chars    []character.Character
	species  map[string]character.Species
	planets  map[string]string
	films    map[string]character.Work
	failRefs map[string]bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		chars: []character.Character{
			{Name: "Luke Skywalker", Height: "172", Gender: "male", BirthYear: "19BBY",
				Species: "s/human", Homeworld: "p/tatooine", Films: []string{"f/4", "f/5", "f/6"},
				Allegiances: []string{"Rebel Alliance", "Jedi Order"}},
			{Name: "Leia Organa", Height: "150", Gender: "female", BirthYear: "19BBY",
				Species: "s/human", Homeworld: "p/alderaan", Films: []string{"f/4", "f/5", "f/6"},
				Allegiances: []string{"Rebel Alliance"}},
			{Name: "Chewbacca", Height: "228", Gender: "male", BirthYear: "200BBY",
				Species: "s/wookiee", Homeworld: "p/kashyyyk", Films: []string{"f/4", "f/5"},
				Allegiances: []string{"Rebel Alliance", "Smugglers"}},
			{Name: "Jabba Desilijic Tiure", Height: "175", Gender: "hermaphrodite", BirthYear: "600BBY",
				Species: "s/hutt", Homeworld: "p/nal_hutta", Films: []string{"f/4", "f/6"},
				Allegiances: []string{"Hutt Cartel"}},
			{Name: "Wilhuff Tarkin", Height: "180", Gender: "male", BirthYear: "64BBY",
				Species: "s/human", Homeworld: "p/eriadu", Films: []string{"f/4"},
				Allegiances: []string{"Galactic Empire"}},
			{Name: "Greedo", Height: "173", Gender: "male", BirthYear: "44BBY",
				Species: "s/rodian", Homeworld: "p/rodia", Films: []string{"f/4"},
				Allegiances: []string{"Hutt Cartel"}},
			{Name: "Obi-Wan Kenobi", Height: "182", Gender: "male", BirthYear: "57BBY",
				Species: "s/human", Homeworld: "p/stewjon", Films: []string{"f/4"},
				Allegiances: []string{"Jedi Order"}},
		},
		species: map[string]character.Species{
			"s/human":   {Name: "Human", Homeworld: "p/coruscant"},
			"s/wookiee": {Name: "Wookiee", Homeworld: "p/kashyyyk"},
			"s/hutt":    {Name: "Hutt", Homeworld: "p/nal_hutta"},
			"s/rodian":  {Name: "Rodian", Homeworld: "p/rodia"},
		},
		planets: map[string]string{
			"p/tatooine": "Tatooine", "p/alderaan": "Alderaan", "p/kashyyyk": "Kashyyyk",
			"p/nal_hutta": "Nal Hutta", "p/eriadu": "Eriadu", "p/rodia": "Rodia",
			"p/stewjon": "Stewjon", "p/coruscant": "Coruscant",
		},
		films: map[string]character.Work{
			"f/4": {Title: "A New Hope", Token: "IV"},
			"f/5": {Title: "The Empire Strikes Back", Token: "V"},
			"f/6": {Title: "Return of the Jedi", Token: "VI"},
		},
		failRefs: map[string]bool{},
	}
}

func (f *fakeProvider) ListNames(ctx context.Context) ([]string, error) {
	names := make([]string, len(f.chars))
	for i, c := range f.chars {
		names[i] = c.Name
	}
	return names, nil
}

func (f *fakeProvider) FindByName(ctx context.Context, name string) (*character.Character, error) {
	for i := range f.chars {
		if strings.EqualFold(f.chars[i].Name, name) {
			c := f.chars[i]
			return &c, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeProvider) PickRandom(ctx context.Context) (*character.Character, error) {
	c := f.chars[0]
	return &c, nil
}

func (f *fakeProvider) ByIndex(ctx context.Context, i int) (*character.Character, error) {
	if i < 0 || i >= len(f.chars) {
		return nil, catalog.ErrNotFound
	}
	c := f.chars[i]
	return &c, nil
}

func (f *fakeProvider) Count(ctx context.Context) (int, error) { return len(f.chars), nil }

func (f *fakeProvider) ResolveSpecies(ctx context.Context, ref string) (*character.Species, error) {
	if f.failRefs[ref] {
		return nil, errFakeTransport
	}
	if s, ok := f.species[ref]; ok {
		return &s, nil
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeProvider) ResolveHomeworld(ctx context.Context, ref string) (string, error) {
	if f.failRefs[ref] {
		return "", errFakeTransport
	}
	if name, ok := f.planets[ref]; ok {
		return name, nil
	}
	return "", catalog.ErrNotFound
}

func (f *fakeProvider) ResolveWork(ctx context.Context, ref string) (*character.Work, error) {
	if f.failRefs[ref] {
		return nil, errFakeTransport
	}
	if w, ok := f.films[ref]; ok {
		return &w, nil
	}
	return nil, catalog.ErrNotFound
}

func mustFind(p *fakeProvider, name string) *character.Character {
	c, err := p.FindByName(context.Background(), name)
	if err != nil {
		panic(err)
	}
	return c
}
