// internal/catalog/swapi.go
//
// Remote Provider over a SWAPI-style paginated HTTP API.
// Responsibilities:
//   - Walk /people/ pages to enumerate names.
//   - Look characters up with the ?search= endpoint.
//   - Resolve species/planet/film reference URLs.
// Failures surface as errors for the game layer to degrade on; nothing
// here retries or caches.

package catalog

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charactle/go-server/internal/character"
)

// DefaultSWAPIBase is the public API root used when none is configured.
const DefaultSWAPIBase = "https://swapi.dev/api"

// SWAPI is the remote Provider implementation.
type SWAPI struct {
	base   string
	client *http.Client
}

// NewSWAPI builds a client for the API rooted at base. A nil client gets
// a 10-second-timeout default.
func NewSWAPI(base string, client *http.Client) *SWAPI {
	if base == "" {
		base = DefaultSWAPIBase
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &SWAPI{base: strings.TrimRight(base, "/"), client: client}
}

// peoplePage mirrors one page of the /people/ listing.
type peoplePage struct {
	Count   int               `json:"count"`
	Next    string            `json:"next"`
	Results []json.RawMessage `json:"results"`
}

func (s *SWAPI) ListNames(ctx context.Context) ([]string, error) {
	var names []string
	next := s.base + "/people/"
	for next != "" {
		var page peoplePage
		if err := s.getJSON(ctx, next, &page); err != nil {
			return nil, err
		}
		for _, raw := range page.Results {
			c, err := character.Decode(raw)
			if err != nil {
				return nil, fmt.Errorf("decode person: %w", err)
			}
			names = append(names, c.Name)
		}
		next = page.Next
	}
	return names, nil
}

func (s *SWAPI) FindByName(ctx context.Context, name string) (*character.Character, error) {
	var page peoplePage
	u := s.base + "/people/?search=" + url.QueryEscape(name)
	if err := s.getJSON(ctx, u, &page); err != nil {
		return nil, err
	}
	var first *character.Character
	for _, raw := range page.Results {
		c, err := character.Decode(raw)
		if err != nil {
			continue
		}
		if strings.EqualFold(c.Name, name) {
			return &c, nil
		}
		if first == nil {
			first = &c
		}
	}
	// The search endpoint matches loosely; fall back to its best hit.
	if first != nil {
		return first, nil
	}
	return nil, ErrNotFound
}

func (s *SWAPI) PickRandom(ctx context.Context) (*character.Character, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, ErrNotFound
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(count)))
	if err != nil {
		return nil, err
	}
	return s.ByIndex(ctx, int(n.Int64()))
}

// ByIndex fetches /people/{i+1}/ — the API is 1-based.
func (s *SWAPI) ByIndex(ctx context.Context, i int) (*character.Character, error) {
	var raw json.RawMessage
	if err := s.getJSON(ctx, fmt.Sprintf("%s/people/%d/", s.base, i+1), &raw); err != nil {
		return nil, err
	}
	c, err := character.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode person: %w", err)
	}
	return &c, nil
}

func (s *SWAPI) Count(ctx context.Context) (int, error) {
	var page peoplePage
	if err := s.getJSON(ctx, s.base+"/people/", &page); err != nil {
		return 0, err
	}
	return page.Count, nil
}

func (s *SWAPI) ResolveSpecies(ctx context.Context, ref string) (*character.Species, error) {
	if !strings.Contains(ref, "://") {
		// Embedded name, nothing to fetch.
		if ref == "" {
			return nil, ErrNotFound
		}
		return &character.Species{Name: ref}, nil
	}
	var row struct {
		Name      string `json:"name"`
		Homeworld string `json:"homeworld"`
	}
	if err := s.getJSON(ctx, ref, &row); err != nil {
		return nil, err
	}
	return &character.Species{Name: row.Name, Homeworld: row.Homeworld}, nil
}

func (s *SWAPI) ResolveHomeworld(ctx context.Context, ref string) (string, error) {
	if !strings.Contains(ref, "://") {
		if ref == "" {
			return "", ErrNotFound
		}
		return ref, nil
	}
	var row struct {
		Name string `json:"name"`
	}
	if err := s.getJSON(ctx, ref, &row); err != nil {
		return "", err
	}
	return row.Name, nil
}

func (s *SWAPI) ResolveWork(ctx context.Context, ref string) (*character.Work, error) {
	if !strings.Contains(ref, "://") {
		if ref == "" {
			return nil, ErrNotFound
		}
		return &character.Work{Title: ref, Token: ref}, nil
	}
	var row struct {
		Title   string `json:"title"`
		Episode int    `json:"episode_id"`
	}
	if err := s.getJSON(ctx, ref, &row); err != nil {
		return nil, err
	}
	return &character.Work{Title: row.Title, Token: EpisodeToken(row.Episode)}, nil
}

// getJSON fetches u and decodes the body into v.
func (s *SWAPI) getJSON(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	res, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", u, err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: status %d", u, res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", u, err)
	}
	return nil
}
