package httpserver

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/charactle/go-server/internal/catalog"
	"github.com/charactle/go-server/internal/store"
)

// oneCharDataset makes new-game target selection deterministic: with a
// single character in the catalog, every draw picks Luke.
const oneCharDataset = `{
  "people": [
    {"name": "Luke Skywalker", "height": "172", "gender": "male", "birth_year": "19BBY",
     "species": [], "homeworld": "p/1", "films": ["f/1"]}
  ],
  "species": [{"name": "Human", "url": "s/1", "homeworld": "p/2"}],
  "films": [{"title": "A New Hope", "url": "f/1", "episode_id": 4}],
  "planets": [{"name": "Tatooine", "url": "p/1"}, {"name": "Coruscant", "url": "p/2"}]
}`

// newTestEnv boots the full router against an in-memory SQLite loaded
// with the real migration schema, and returns a cookie-carrying client.
func newTestEnv(t *testing.T, dataset string) (*httptest.Server, *http.Client) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Every pooled connection would get its own empty in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../sql/001_init.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	cat, err := catalog.NewStatic([]byte(dataset))
	require.NoError(t, err)
	names, err := cat.ListNames(context.Background())
	require.NoError(t, err)

	srv := New(store.NewMemoryStore(), cat, names, db)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return ts, &http.Client{Jar: jar}
}

func postJSON(t *testing.T, c *http.Client, url string, body any, out any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := c.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func getJSON(t *testing.T, c *http.Client, url string, out any) *http.Response {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealth(t *testing.T) {
	ts, c := newTestEnv(t, oneCharDataset)
	var body map[string]bool
	resp := getJSON(t, c, ts.URL+"/health", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, body["ok"])
}

func TestGameFlowWin(t *testing.T) {
	ts, c := newTestEnv(t, oneCharDataset)

	var created struct {
		GameID     string   `json:"gameId"`
		Attributes []string `json:"attributes"`
		MaxGuesses int      `json:"maxGuesses"`
	}
	resp := postJSON(t, c, ts.URL+"/game/new", map[string]any{}, &created)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, created.GameID)
	require.Equal(t, 6, created.MaxGuesses)
	require.Contains(t, created.Attributes, "height")

	// Unknown guess is a 404 and consumes nothing.
	resp = postJSON(t, c, ts.URL+"/game/guess",
		map[string]string{"gameId": created.GameID, "name": "Darth Plagueis"}, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var guessed struct {
		Result struct {
			CharacterName string `json:"characterName"`
			Cells         map[string]struct {
				Verdict string `json:"verdict"`
			} `json:"cells"`
		} `json:"result"`
		State  string `json:"state"`
		Target string `json:"target"`
	}
	resp = postJSON(t, c, ts.URL+"/game/guess",
		map[string]string{"gameId": created.GameID, "name": "luke skywalker"}, &guessed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "won", guessed.State)
	require.Equal(t, "Luke Skywalker", guessed.Target)
	require.Equal(t, "exact", guessed.Result.Cells["name"].Verdict)
	require.Equal(t, "exact", guessed.Result.Cells["films"].Verdict)

	// The session is finished; further guesses conflict.
	resp = postJSON(t, c, ts.URL+"/game/guess",
		map[string]string{"gameId": created.GameID, "name": "Luke Skywalker"}, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var hist struct {
		State   string            `json:"state"`
		Guesses []json.RawMessage `json:"guesses"`
	}
	resp = getJSON(t, c, ts.URL+"/game/history?gameId="+created.GameID, &hist)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "won", hist.State)
	require.Len(t, hist.Guesses, 1)
}

func TestGuessUnknownGame(t *testing.T) {
	ts, c := newTestEnv(t, oneCharDataset)
	resp := postJSON(t, c, ts.URL+"/game/guess",
		map[string]string{"gameId": "missing", "name": "Luke Skywalker"}, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSuggestEndpoint(t *testing.T) {
	ts, c := newTestEnv(t, oneCharDataset)

	var body struct {
		Names []string `json:"names"`
	}
	resp := getJSON(t, c, ts.URL+"/suggest?q=lu", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{"Luke Skywalker"}, body.Names)

	// Substring mode matches mid-name; prefix would not.
	resp = getJSON(t, c, ts.URL+"/suggest?q=sky&mode=substring", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{"Luke Skywalker"}, body.Names)

	resp = getJSON(t, c, ts.URL+"/suggest?q=lu&mode=fuzzy", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = getJSON(t, c, ts.URL+"/suggest?q=", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, body.Names)
}

func TestAuthFlow(t *testing.T) {
	ts, c := newTestEnv(t, oneCharDataset)

	// Gated routes reject guests.
	resp := getJSON(t, c, ts.URL+"/auth/me", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = postJSON(t, c, ts.URL+"/auth/signup",
		map[string]string{"Username": "farmboy", "Password": "bluemilk42"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Duplicate username conflicts, case-insensitively.
	fresh := &http.Client{}
	resp = postJSON(t, fresh, ts.URL+"/auth/signup",
		map[string]string{"Username": "FARMBOY", "Password": "bluemilk42"}, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var me struct {
		Username string `json:"username"`
	}
	resp = getJSON(t, c, ts.URL+"/auth/me", &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "farmboy", me.Username)

	var stats struct {
		GamesPlayed int `json:"gamesPlayed"`
		Wins        int `json:"wins"`
		Streak      int `json:"streak"`
	}
	resp = getJSON(t, c, ts.URL+"/stats/me", &stats)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Zero(t, stats.GamesPlayed)

	// A finished game bumps the signed-in user's stats.
	var created struct {
		GameID string `json:"gameId"`
	}
	postJSON(t, c, ts.URL+"/game/new", map[string]any{}, &created)
	resp = postJSON(t, c, ts.URL+"/game/guess",
		map[string]string{"gameId": created.GameID, "name": "Luke Skywalker"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = getJSON(t, c, ts.URL+"/stats/me", &stats)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, stats.GamesPlayed)
	require.Equal(t, 1, stats.Wins)
	require.Equal(t, 1, stats.Streak)

	// Wrong password is rejected.
	resp = postJSON(t, c, ts.URL+"/auth/login",
		map[string]string{"Username": "farmboy", "Password": "wrong-password"}, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Logout drops the session.
	resp = postJSON(t, c, ts.URL+"/auth/logout", map[string]any{}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = getJSON(t, c, ts.URL+"/auth/me", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSignupValidation(t *testing.T) {
	ts, c := newTestEnv(t, oneCharDataset)
	for _, body := range []map[string]string{
		{"Username": "ab", "Password": "longenough1"},  // username too short
		{"Username": "okname", "Password": "short"},    // password too short
		{"Username": "bad name", "Password": "longenough1"}, // space in username
	} {
		resp := postJSON(t, c, ts.URL+"/auth/signup", body, nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "body %v", body)
	}
}

func TestDailyFlow(t *testing.T) {
	ts, c := newTestEnv(t, oneCharDataset)

	var created struct {
		GameID string `json:"gameId"`
		Date   string `json:"date"`
		Played bool   `json:"played"`
	}
	resp := postJSON(t, c, ts.URL+"/daily/new", map[string]any{}, &created)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.False(t, created.Played)
	require.NotEmpty(t, created.GameID)

	// Same caller, same day: the same session comes back.
	var again struct {
		GameID string `json:"gameId"`
	}
	resp = postJSON(t, c, ts.URL+"/daily/new", map[string]any{}, &again)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, created.GameID, again.GameID)

	var guessed struct {
		State   string `json:"state"`
		Guesses int    `json:"guesses"`
		Target  string `json:"target"`
	}
	resp = postJSON(t, c, ts.URL+"/daily/guess",
		map[string]string{"gameId": created.GameID, "name": "Luke Skywalker"}, &guessed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "won", guessed.State)
	require.Equal(t, 1, guessed.Guesses)

	// The run is persisted: a new /daily/new is a replay refusal ...
	var replay struct {
		Played bool `json:"played"`
	}
	resp = postJSON(t, c, ts.URL+"/daily/new", map[string]any{}, &replay)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, replay.Played)

	// ... and the result shows on today's leaderboard.
	var lb struct {
		Date string `json:"date"`
		Top  []struct {
			Guesses int `json:"guesses"`
		} `json:"top"`
	}
	resp = getJSON(t, c, ts.URL+"/daily/leaderboard", &lb)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, created.Date, lb.Date)
	require.Len(t, lb.Top, 1)
	require.Equal(t, 1, lb.Top[0].Guesses)
}

func TestDailyGuessWithoutSession(t *testing.T) {
	ts, c := newTestEnv(t, oneCharDataset)
	resp := postJSON(t, c, ts.URL+"/daily/guess",
		map[string]string{"gameId": "nope", "name": "Luke Skywalker"}, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}
