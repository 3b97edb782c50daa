// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily challenge.
// Endpoints under /daily:
//   - POST /daily/new         → start (or resume) today's game
//   - POST /daily/guess       → submit a guess for today's game
//   - GET  /daily/leaderboard → top results for today (or a given date)
//
// Everyone gets the same secret character on a given UTC date:
// HMAC(salt, date) picks a deterministic catalog index. Each user plays
// once per day; the finished run is persisted, active sessions are held
// in memory only.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/charactle/go-server/internal/daily"
	"github.com/charactle/go-server/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]*dailySession // keyed by userID|date
	mu       sync.Mutex               // guards sessions
}

// dailySession is the transient state of one in-progress daily run.
type dailySession struct {
	UserID string
	Date   string
	Index  int
	Sess   *game.Session
	Start  time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     getEnv("DAILY_SALT", "local_dev_salt"),
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// userID returns the authenticated user ID, or the anonymous cookie ID.
func (d *dailyServer) userID(w http.ResponseWriter, r *http.Request) string {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

type dailyNewRes struct {
	GameID     string   `json:"gameId"`
	Date       string   `json:"date"`
	Played     bool     `json:"played"`
	Attributes []string `json:"attributes,omitempty"`
	MaxGuesses int      `json:"maxGuesses,omitempty"`
}

// handleNew creates or resumes the caller's session for today's date.
// A user with a persisted result for today just gets Played=true.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.userID(w, r)
	date := daily.DateKey(time.Now())

	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	d.mu.Unlock()
	if !ok {
		count, err := d.srv.catalog.Count(r.Context())
		if err != nil || count <= 0 {
			writeErr(w, http.StatusServiceUnavailable, "catalog_unavailable")
			return
		}
		idx := daily.TargetIndex(time.Now(), d.salt, count)
		target, err := d.srv.catalog.ByIndex(r.Context(), idx)
		if err != nil {
			writeErr(w, http.StatusServiceUnavailable, "catalog_unavailable")
			return
		}
		sess = &dailySession{
			UserID: uid,
			Date:   date,
			Index:  idx,
			Sess:   game.NewSessionWith(d.srv.catalog, *target),
			Start:  time.Now(),
		}
		d.mu.Lock()
		// Another request may have raced us; keep the first session.
		if existing, ok := d.sessions[key]; ok {
			sess = existing
		} else {
			d.sessions[key] = sess
		}
		d.mu.Unlock()
	}

	writeJSON(w, http.StatusOK, dailyNewRes{
		GameID:     sess.Sess.ID,
		Date:       date,
		Attributes: sess.Sess.Attributes(),
		MaxGuesses: sess.Sess.MaxGuesses(),
	})
}

// -----------------------------------------------------------------------------
// /daily/guess

type dailyGuessReq struct {
	GameID string `json:"gameId"`
	Name   string `json:"name"`
}

type dailyGuessRes struct {
	Result  *game.GuessResult `json:"result"`
	State   game.Status       `json:"state"`
	Guesses int               `json:"guesses"`
	Target  string            `json:"target,omitempty"`
}

// handleGuess applies one guess to today's session and persists the run
// once it finishes.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid := d.userID(w, r)

	var p dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	date := daily.DateKey(time.Now())

	key := uid + "|" + date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	d.mu.Unlock()
	if !ok || sess.Sess.ID != p.GameID {
		writeErr(w, http.StatusConflict, "no_session")
		return
	}

	res, err := sess.Sess.SubmitGuess(r.Context(), p.Name)
	switch {
	case errors.Is(err, game.ErrUnknownCharacter):
		writeErr(w, http.StatusNotFound, "character_not_found")
		return
	case errors.Is(err, game.ErrGameOver):
		writeErr(w, http.StatusConflict, "game_over")
		return
	case err != nil:
		writeErr(w, http.StatusServiceUnavailable, "catalog_unavailable")
		return
	}

	state := sess.Sess.Status()
	guesses := len(sess.Sess.History())
	out := dailyGuessRes{Result: res, State: state, Guesses: guesses}
	if state != game.StatusPlaying {
		out.Target = sess.Sess.Target().Name
		elapsed := int(time.Since(sess.Start).Milliseconds())
		if err := d.store.InsertResult(r.Context(), daily.Result{
			UserID:         uid,
			Date:           date,
			CharacterIndex: sess.Index,
			Guesses:        guesses,
			Won:            state == game.StatusWon,
			ElapsedMs:      elapsed,
		}); err != nil {
			log.Warn().Err(err).Str("user", uid).Msg("insert daily result")
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

type dailyLBRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the top results for a date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(time.Now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	if rows == nil {
		rows = []daily.LBRow{}
	}
	writeJSON(w, http.StatusOK, dailyLBRes{Date: date, Top: rows})
}
