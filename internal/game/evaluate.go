// internal/game/evaluate.go
//
// Guess evaluation: one comparator dispatch per tracked attribute.
// Reference lookups go through a single resolution helper; a failed
// lookup degrades the affected attribute alone to a none verdict with an
// "unavailable" hint and evaluation continues. Nothing here mutates the
// target or guessed record.

package game

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/charactle/go-server/internal/catalog"
	"github.com/charactle/go-server/internal/character"
	"github.com/charactle/go-server/internal/compare"
)

// Evaluate compares guess against target across the attribute spec list
// and returns the per-attribute cells. Index/At are left for the session
// to fill on append.
func Evaluate(ctx context.Context, p catalog.Provider, attrs []AttributeSpec, target, guess *character.Character) GuessResult {
	cells := make(map[string]compare.Result, len(attrs))
	for _, spec := range attrs {
		cells[spec.Name] = evaluateAttr(ctx, p, spec, target, guess)
	}
	return GuessResult{CharacterName: guess.Name, Cells: cells}
}

func evaluateAttr(ctx context.Context, p catalog.Provider, spec AttributeSpec, target, guess *character.Character) compare.Result {
	switch spec.Kind {
	case KindName:
		if strings.EqualFold(target.Name, guess.Name) {
			return compare.Result{Verdict: compare.VerdictExact}
		}
		return compare.Result{Verdict: compare.VerdictNone}

	case KindHeight:
		within := spec.CloseWithin
		if within == 0 {
			within = HeightCloseWithin
		}
		return compare.Numeric(target.Height, guess.Height, within)

	case KindGender:
		return compare.Categorical(target.Gender, guess.Gender)

	case KindBirthYear:
		return compare.Era(target.BirthYear, guess.BirthYear)

	case KindSpecies:
		return speciesCell(ctx, p, spec, target.Species, guess.Species)

	case KindHomeworld:
		return homeworldCell(ctx, p, target.Homeworld, guess.Homeworld)

	case KindFilms:
		tTokens, tErr := workTokens(ctx, p, target.Films)
		gTokens, gErr := workTokens(ctx, p, guess.Films)
		cell := compare.Sets(tTokens, gTokens)
		if (tErr || gErr) && cell.Verdict != compare.VerdictExact {
			cell.Hint = compare.HintUnavailable
		}
		return cell

	case KindAllegiances:
		return compare.Sets(target.Allegiances, guess.Allegiances)

	default:
		log.Warn().Str("kind", string(spec.Kind)).Msg("unknown attribute kind")
		return compare.Result{Verdict: compare.VerdictNone}
	}
}

// speciesCell resolves both species references and applies the optional
// homeworld tiebreak. Missing data is a plain non-match; a resolution
// failure degrades to none with the unavailable hint.
func speciesCell(ctx context.Context, p catalog.Provider, spec AttributeSpec, targetRef, guessRef string) compare.Result {
	if targetRef == "" || guessRef == "" {
		return compare.Result{Verdict: compare.VerdictNone}
	}
	t, err1 := p.ResolveSpecies(ctx, targetRef)
	g, err2 := p.ResolveSpecies(ctx, guessRef)
	if r, ok := degraded(err1, err2); ok {
		return r
	}
	return compare.Species(t, g, spec.CloseTiebreak)
}

func homeworldCell(ctx context.Context, p catalog.Provider, targetRef, guessRef string) compare.Result {
	if targetRef == "" || guessRef == "" {
		return compare.Result{Verdict: compare.VerdictNone}
	}
	t, err1 := p.ResolveHomeworld(ctx, targetRef)
	g, err2 := p.ResolveHomeworld(ctx, guessRef)
	if r, ok := degraded(err1, err2); ok {
		return r
	}
	return compare.Categorical(t, g)
}

// degraded folds resolution errors into a single cell outcome: a catalog
// miss is a plain non-match, anything else (transport, decode) is the
// unavailable degradation. Evaluation of other attributes is unaffected.
func degraded(errs ...error) (compare.Result, bool) {
	sawMiss := false
	for _, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, catalog.ErrNotFound) {
			sawMiss = true
			continue
		}
		log.Debug().Err(err).Msg("attribute resolution failed")
		return compare.Result{Verdict: compare.VerdictNone, Hint: compare.HintUnavailable}, true
	}
	if sawMiss {
		return compare.Result{Verdict: compare.VerdictNone}, true
	}
	return compare.Result{}, false
}

// workTokens maps film references to canonical tokens. An unresolvable
// element becomes the empty placeholder (a permanent non-match for set
// comparison); the boolean reports whether any element failed with a
// transport-class error.
func workTokens(ctx context.Context, p catalog.Provider, refs []string) ([]string, bool) {
	tokens := make([]string, len(refs))
	failed := false
	for i, ref := range refs {
		w, err := p.ResolveWork(ctx, ref)
		if err != nil {
			if !errors.Is(err, catalog.ErrNotFound) {
				failed = true
			}
			continue
		}
		tokens[i] = w.Token
	}
	return tokens, failed
}
