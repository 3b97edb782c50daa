// internal/httpserver/server.go
//
// HTTP wiring for the Charactle backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/suggest".
//   - Game endpoints (optional auth): POST /game/new, POST /game/guess,
//     GET /game/history.
//   - Daily challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints (require auth): /auth/*, /stats/me,
//     /games/mine — see auth.go.
//
// The server renders nothing: every game endpoint returns the structured
// per-attribute comparison cells and lets the front end draw the grid.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/charactle/go-server/internal/catalog"
	"github.com/charactle/go-server/internal/game"
	"github.com/charactle/go-server/internal/store"
	"github.com/charactle/go-server/internal/suggest"
)

// Server bundles router, session store, catalog, autocomplete, and DB.
type Server struct {
	r       *chi.Mux
	store   store.Store
	catalog catalog.Provider
	db      *sql.DB

	// One autocomplete index per mode; the request picks explicitly and
	// defaultMode fills in when it doesn't.
	suggestPrefix *suggest.Index
	suggestSub    *suggest.Index
	defaultMode   suggest.Mode
}

// New constructs a Server, installs middleware, and registers routes.
// names is the catalog name list for autocomplete (loaded once at start).
func New(st store.Store, cat catalog.Provider, names []string, db *sql.DB) *Server {
	s := &Server{
		r:             chi.NewRouter(),
		store:         st,
		catalog:       cat,
		db:            db,
		suggestPrefix: suggest.New(names, suggest.ModePrefix),
		suggestSub:    suggest.New(names, suggest.ModeSubstring),
		defaultMode:   suggest.Mode(getEnv("SUGGEST_MODE", string(suggest.ModePrefix))),
	}
	if !s.defaultMode.Valid() {
		log.Warn().Str("mode", string(s.defaultMode)).Msg("bad SUGGEST_MODE, using prefix")
		s.defaultMode = suggest.ModePrefix
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(15 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFromEnv)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "charactle-go",
			"endpoints": []string{"/health", "POST /game/new", "POST /game/guess", "GET /game/history", "GET /suggest", "/daily/*", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/debug/catalog", func(w http.ResponseWriter, r *http.Request) {
		n, err := s.catalog.Count(r.Context())
		if err != nil {
			writeErr(w, http.StatusServiceUnavailable, "catalog_unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"characters": n})
	})

	// Autocomplete — public, read-only.
	s.r.Get("/suggest", s.handleSuggest)

	// Game endpoints — OPTIONAL AUTH (guests can play).
	s.r.With(s.withOptionalAuth()).Post("/game/new", s.handleNewGame)
	s.r.With(s.withOptionalAuth()).Post("/game/guess", s.handleGuess)
	s.r.With(s.withOptionalAuth()).Get("/game/history", s.handleHistory)

	// Daily challenge — OPTIONAL AUTH (guests play; result persisted).
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats (require auth).
	s.mountAuthRoutes()

	// JSON 404 for easier debugging.
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := getEnv("CLIENT_ORIGIN", "http://localhost:5173")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ GAME ---------------------------------------

// newGameRes is the payload for POST /game/new.
type newGameRes struct {
	GameID     string   `json:"gameId"`
	Attributes []string `json:"attributes"`
	MaxGuesses int      `json:"maxGuesses"`
}

// handleNewGame creates a session with a random target and persists a DB
// "owner" row (user_id or anonymous_id) for history/stats. The target is
// never written to the DB while the game is live.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	sess, err := game.NewSession(r.Context(), s.catalog)
	if err != nil {
		log.Error().Err(err).Msg("new session")
		writeErr(w, http.StatusServiceUnavailable, "catalog_unavailable")
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)
	owner, column := s.ownerID(w, r)
	if _, err := s.db.Exec(`INSERT INTO games (id, `+column+`, started_at, status, guesses)
	                        VALUES (?,?,?,?,0)`, sess.ID, owner, now, string(game.StatusPlaying)); err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("insert game row")
	}

	writeJSON(w, http.StatusOK, newGameRes{
		GameID:     sess.ID,
		Attributes: sess.Attributes(),
		MaxGuesses: sess.MaxGuesses(),
	})
}

// guessReq/guessRes are the payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Name   string `json:"name"`
}
type guessRes struct {
	Result *game.GuessResult `json:"result"`
	State  game.Status       `json:"state"`
	// Target is revealed only once the game is over.
	Target string `json:"target,omitempty"`
}

// handleGuess submits one guess to an in-memory session, persists
// progress, and (if finished) updates user stats best-effort.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		writeErr(w, http.StatusNotFound, "game_not_found")
		return
	}

	res, err := sess.SubmitGuess(r.Context(), req.Name)
	switch {
	case errors.Is(err, game.ErrUnknownCharacter):
		writeErr(w, http.StatusNotFound, "character_not_found")
		return
	case errors.Is(err, game.ErrGameOver):
		writeErr(w, http.StatusConflict, "game_over")
		return
	case errors.Is(err, game.ErrCatalogUnavailable):
		writeErr(w, http.StatusServiceUnavailable, "catalog_unavailable")
		return
	case err != nil:
		log.Error().Err(err).Msg("submit guess")
		writeErr(w, http.StatusInternalServerError, "internal")
		return
	}

	state := sess.Status()
	s.persistProgress(w, r, sess, state)

	out := guessRes{Result: res, State: state}
	if state != game.StatusPlaying {
		out.Target = sess.Target().Name
	}
	writeJSON(w, http.StatusOK, out)
}

// historyRes is the payload for GET /game/history.
type historyRes struct {
	GameID     string             `json:"gameId"`
	State      game.Status        `json:"state"`
	Attributes []string           `json:"attributes"`
	Guesses    []game.GuessResult `json:"guesses"`
}

// handleHistory returns the ordered guess history of one session.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("gameId")
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeErr(w, http.StatusNotFound, "game_not_found")
		return
	}
	writeJSON(w, http.StatusOK, historyRes{
		GameID:     sess.ID,
		State:      sess.Status(),
		Attributes: sess.Attributes(),
		Guesses:    sess.History(),
	})
}

// persistProgress bumps the games row and, on a terminal state, closes
// it out and updates user stats. All best-effort; play continues even if
// the DB write fails.
func (s *Server) persistProgress(w http.ResponseWriter, r *http.Request, sess *game.Session, state game.Status) {
	owner, column := s.ownerID(w, r)

	tx, err := s.db.Begin()
	if err != nil {
		log.Warn().Err(err).Msg("begin tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE games SET guesses = guesses + 1 WHERE id=? AND `+column+`=?`, sess.ID, owner); err != nil {
		log.Warn().Err(err).Msg("update guesses")
	}
	if state != game.StatusPlaying {
		if _, err := tx.Exec(`UPDATE games SET status=?, finished_at=?, character_name=? WHERE id=? AND `+column+`=?`,
			string(state), time.Now().UTC().Format(time.RFC3339), sess.Target().Name, sess.ID, owner); err != nil {
			log.Warn().Err(err).Msg("finish game")
		}
		if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
			if err := s.bumpStats(tx, me.ID, state == game.StatusWon); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
	}
	_ = tx.Commit()
}

// ownerID returns the games-row owner value and column for the request:
// the authenticated user, or a stable anonymous cookie ID.
func (s *Server) ownerID(w http.ResponseWriter, r *http.Request) (string, string) {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID, "user_id"
	}
	return s.ensureAnonID(w, r), "anonymous_id"
}

// --------------------------- AUTOCOMPLETE ----------------------------------

// handleSuggest serves GET /suggest?q=...&mode=prefix|substring.
// An empty query returns an empty list; an unknown mode is a 400 rather
// than a silent fallback.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	mode := s.defaultMode
	if m := r.URL.Query().Get("mode"); m != "" {
		mode = suggest.Mode(m)
		if !mode.Valid() {
			writeErr(w, http.StatusBadRequest, "bad_mode")
			return
		}
	}
	ix := s.suggestPrefix
	if mode == suggest.ModeSubstring {
		ix = s.suggestSub
	}
	names := ix.Suggest(q)
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"names": names, "mode": mode})
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	http.Error(w, `{"error":"`+msg+`"}`, code)
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
