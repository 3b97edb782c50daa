// internal/game/session.go
//
// One play-through of the guessing game.
// Responsibilities:
//   - Hold the secret target, the append-only guess history, and the
//     attempt budget.
//   - Resolve player input to a character via the catalog, evaluate it,
//     and drive the playing → won/lost state machine.
//   - Serialize submissions; concurrent guesses against one session are
//     never interleaved.
//
// Sessions are explicit instances owned by the caller — there is no
// process-wide game state, and independent sessions never interfere.

package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charactle/go-server/internal/catalog"
	"github.com/charactle/go-server/internal/character"
)

// DefaultMaxGuesses is the attempt budget of the classic game.
const DefaultMaxGuesses = 6

var (
	// ErrUnknownCharacter: the guessed name resolves to nothing. The
	// session is unchanged; the player just tries again.
	ErrUnknownCharacter = errors.New("character not found")

	// ErrGameOver: a guess arrived after the session reached a terminal
	// state. The session is unchanged.
	ErrGameOver = errors.New("game finished")

	// ErrCatalogUnavailable: the catalog could not serve a request that
	// game setup depends on. Distinct from a bad guess — no session
	// state exists or changes when it is returned.
	ErrCatalogUnavailable = errors.New("character catalog unavailable")
)

// Session is the state of a single game.
type Session struct {
	ID string

	mu       sync.Mutex
	provider catalog.Provider
	attrs    []AttributeSpec
	target   character.Character
	max      int
	guesses  []GuessResult
	won      bool
}

// NewSession draws a random target from the catalog and starts a session
// with the default attribute set and attempt budget.
func NewSession(ctx context.Context, p catalog.Provider) (*Session, error) {
	target, err := p.PickRandom(ctx)
	if err != nil {
		return nil, fmt.Errorf("pick target: %w", ErrCatalogUnavailable)
	}
	return NewSessionWith(p, *target), nil
}

// NewSessionWith starts a session against a fixed target (daily mode,
// tests). The target is copied and immutable for the session lifetime.
func NewSessionWith(p catalog.Provider, target character.Character) *Session {
	return &Session{
		ID:       randomID(),
		provider: p,
		attrs:    DefaultAttributes(),
		target:   target,
		max:      DefaultMaxGuesses,
	}
}

// SetAttributes replaces the tracked attribute configuration. Only valid
// before the first guess.
func (s *Session) SetAttributes(attrs []AttributeSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.guesses) == 0 && len(attrs) > 0 {
		s.attrs = append([]AttributeSpec(nil), attrs...)
	}
}

// SubmitGuess resolves name, evaluates it against the target, appends
// the result, and updates the session state.
//
// Outcomes:
//   - ErrUnknownCharacter if the name resolves to no known character.
//   - ErrGameOver if the session already ended; history is unchanged.
//   - Otherwise the appended GuessResult.
func (s *Session) SubmitGuess(ctx context.Context, name string) (*GuessResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	guess, err := s.provider.FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrUnknownCharacter
		}
		return nil, fmt.Errorf("lookup guess: %w", ErrCatalogUnavailable)
	}
	if s.statusLocked() != StatusPlaying {
		return nil, ErrGameOver
	}

	res := Evaluate(ctx, s.provider, s.attrs, &s.target, guess)
	res.Index = len(s.guesses)
	res.At = time.Now().UTC()
	s.guesses = append(s.guesses, res)

	if strings.EqualFold(guess.Name, s.target.Name) {
		s.won = true
	}
	return &res, nil
}

// Status reports the current state. Won and lost never regress.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *Session) statusLocked() Status {
	switch {
	case s.won:
		return StatusWon
	case len(s.guesses) >= s.max:
		return StatusLost
	default:
		return StatusPlaying
	}
}

// History returns the guesses in insertion order. The slice is a copy;
// results themselves are never reordered or deduplicated.
func (s *Session) History() []GuessResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]GuessResult, len(s.guesses))
	copy(out, s.guesses)
	return out
}

// MaxGuesses reports the attempt budget.
func (s *Session) MaxGuesses() int { return s.max }

// Target reveals the secret character. For end-of-game display and
// persistence only.
func (s *Session) Target() character.Character {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

// Attributes returns the tracked attribute names in grid order.
func (s *Session) Attributes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AttributeNames(s.attrs)
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
