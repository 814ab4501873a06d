package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandrarotta/microestado/internal/catalog"
	"github.com/alexandrarotta/microestado/internal/entropy"
	"github.com/alexandrarotta/microestado/internal/persistence"
	"github.com/alexandrarotta/microestado/internal/session"
	"github.com/alexandrarotta/microestado/internal/state"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	t      *testing.T
	srv    *Server
	h      http.Handler
	player *persistence.Player
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := persistence.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cat, err := catalog.Default()
	require.NoError(t, err)
	g := session.NewGame(cat, entropy.NewSequence(0.99), func() time.Time { return testNow })

	srv := &Server{Sessions: session.NewManager(g, db), DB: db, AdminKey: "secret"}
	p, err := db.CreatePlayer("ana")
	require.NoError(t, err)
	return &testEnv{t: t, srv: srv, h: srv.Handler(), player: p}
}

func (e *testEnv) request(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(e.t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) as(method, path string, body any) *httptest.ResponseRecorder {
	return e.request(method, path, e.player.Token, body)
}

func (e *testEnv) newGame() state.Save {
	e.t.Helper()
	rec := e.as("POST", "/api/v1/game/new", map[string]any{
		"country":  map[string]any{"baseName": "Valle Alto", "stateTypeId": "REPUBLIC", "geography": "coastal"},
		"leader":   map[string]any{"name": "Ana", "gender": "FEMALE", "roleId": "PRESIDENT"},
		"presetId": "BALANCED",
		"seed":     42,
	})
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	var s state.Save
	require.NoError(e.t, json.Unmarshal(rec.Body.Bytes(), &s))
	return s
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestStatusAndCatalog(t *testing.T) {
	e := newTestEnv(t)

	rec := e.request("GET", "/api/v1/status", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[map[string]any](t, rec)
	assert.Equal(t, "MicroEstado", status["name"])
	assert.NotEmpty(t, status["catalogVersion"])

	rec = e.request("GET", "/api/v1/catalog", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest("GET", "/api/v1/catalog", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestPlayerAuth(t *testing.T) {
	e := newTestEnv(t)

	assert.Equal(t, http.StatusUnauthorized, e.request("GET", "/api/v1/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, e.request("GET", "/api/v1/me", "nope", nil).Code)

	rec := e.request("POST", "/api/v1/players", "", map[string]string{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.request("POST", "/api/v1/players", "", map[string]string{"name": "Bruno"})
	require.Equal(t, http.StatusCreated, rec.Code)
	p := decode[persistence.Player](t, rec)
	require.NotEmpty(t, p.Token)

	rec = e.request("GET", "/api/v1/me", p.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]any](t, rec)
	assert.Equal(t, "Bruno", me["name"])
	assert.Equal(t, []any{}, me["medals"])

	// Streams accept the token as a query parameter.
	req := httptest.NewRequest("GET", "/api/v1/me?token="+p.Token, nil)
	rec = httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGameLifecycle(t *testing.T) {
	e := newTestEnv(t)

	assert.Equal(t, http.StatusNotFound, e.as("GET", "/api/v1/game", nil).Code)
	assert.Equal(t, http.StatusNotFound, e.as("POST", "/api/v1/game/rescue", nil).Code)

	s := e.newGame()
	assert.Equal(t, "Valle Alto", s.Country.BaseName)
	assert.Equal(t, 1, s.Level)

	stored, err := e.srv.DB.LoadSave(e.player.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Treasury, stored.Treasury)

	rec := e.as("POST", "/api/v1/game/rescue", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[actionResponse](t, rec)
	assert.True(t, resp.Result.OK)
	require.NotNil(t, resp.Save)
	assert.Greater(t, resp.Save.Treasury, s.Treasury)

	rec = e.as("POST", "/api/v1/game/projects/NOPE/start", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp = decode[actionResponse](t, rec)
	assert.Equal(t, "Project not found", resp.Result.Error)
	assert.Nil(t, resp.Save)

	rec = e.as("POST", "/api/v1/game/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	reset := decode[state.Save](t, rec)
	assert.Equal(t, "Valle Alto", reset.Country.BaseName)
	assert.Zero(t, reset.TickCount)

	rec = e.as("GET", "/api/v1/archive", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]persistence.Archived](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "reset", list[0].Reason)

	rec = e.as("GET", "/api/v1/archive/"+jsonNumber(list[0].ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	archived := decode[state.Save](t, rec)
	assert.Greater(t, archived.Treasury, s.Treasury)

	assert.Equal(t, http.StatusNotFound, e.as("GET", "/api/v1/archive/999", nil).Code)
	assert.Equal(t, http.StatusBadRequest, e.as("GET", "/api/v1/archive/abc", nil).Code)
}

func jsonNumber(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestActionRejectsBadJSON(t *testing.T) {
	e := newTestEnv(t)
	e.newGame()

	rec := e.as("POST", "/api/v1/game/tax", "{")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.as("POST", "/api/v1/game/tax", map[string]float64{"ratePct": 20})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestUploadLastWriteWins(t *testing.T) {
	e := newTestEnv(t)
	s := e.newGame()

	older := s
	older.UpdatedAt = testNow.Add(-time.Hour)
	older.Treasury = 1
	rec := e.as("PUT", "/api/v1/game/save", older)
	require.Equal(t, http.StatusOK, rec.Code)
	up := decode[uploadResponse](t, rec)
	assert.False(t, up.Accepted)
	assert.Equal(t, s.Treasury, up.Save.Treasury)

	newer := s
	newer.UpdatedAt = testNow.Add(time.Hour)
	newer.Treasury = 9999
	rec = e.as("PUT", "/api/v1/game/save", newer)
	require.Equal(t, http.StatusOK, rec.Code)
	up = decode[uploadResponse](t, rec)
	assert.True(t, up.Accepted)
	assert.Equal(t, 9999.0, up.Save.Treasury)

	stored, err := e.srv.DB.LoadSave(e.player.ID)
	require.NoError(t, err)
	assert.Equal(t, 9999.0, stored.Treasury)

	rec = e.as("PUT", "/api/v1/game/save", map[string]any{"treasury": 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadWhileTicking(t *testing.T) {
	e := newTestEnv(t)
	s := e.newGame()

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for beat := uint64(1); ; beat++ {
			select {
			case <-stop:
				return
			default:
				e.srv.Sessions.Beat(beat)
			}
		}
	}()

	for i := range 20 {
		up := s
		up.UpdatedAt = testNow.Add(time.Duration(i+1) * time.Hour)
		up.Treasury = float64(1000 + i)
		rec := e.as("PUT", "/api/v1/game/save", up)
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, decode[uploadResponse](t, rec).Accepted)

		// The row is written before the clock can touch the new save.
		stored, err := e.srv.DB.LoadSave(e.player.ID)
		require.NoError(t, err)
		assert.Equal(t, float64(1000+i), stored.Treasury)
	}
	close(stop)
	<-done
}

func TestLevel2Routes(t *testing.T) {
	e := newTestEnv(t)
	s := e.newGame()

	rec := e.as("POST", "/api/v1/game/level2/continue", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Level 1 not complete", decode[actionResponse](t, rec).Result.Error)

	s.Level1Complete = true
	s.UpdatedAt = testNow.Add(time.Minute)
	require.True(t, decode[uploadResponse](t, e.as("PUT", "/api/v1/game/save", s)).Accepted)

	rec = e.as("POST", "/api/v1/game/level2/continue", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[actionResponse](t, rec)
	require.NotNil(t, resp.Save)
	assert.Equal(t, 2, resp.Save.Level)

	rec = e.as("GET", "/api/v1/game/level2/decrees", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[[]catalog.L2Decree](t, rec))

	rec = e.as("GET", "/api/v1/game/level2/cabinet", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[[]catalog.Advisor](t, rec))

	rec = e.as("GET", "/api/v1/game", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[state.Save](t, rec)
	require.NotNil(t, got.Level2)
	assert.GreaterOrEqual(t, got.Level2.Events.NextCheckTick, 10)

	rec = e.as("POST", "/api/v1/game/level2/central-bank", map[string]string{"action": "SIDEWAYS"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Unknown action", decode[actionResponse](t, rec).Result.Error)

	rec = e.as("POST", "/api/v1/game/level2/central-bank", map[string]string{"action": "LOWER"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAdminOverrides(t *testing.T) {
	e := newTestEnv(t)
	e.newGame()
	path := "/api/v1/admin/players/" + e.player.ID + "/overrides"
	body := map[string]any{"overrides": map[string]float64{"eventChancePerTick": 0.5}}

	assert.Equal(t, http.StatusUnauthorized, e.request("POST", path, "wrong", body).Code)

	rec := e.request("POST", path, "secret", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[actionResponse](t, rec)
	assert.Equal(t, 0.5, resp.Save.RemoteOverrides["eventChancePerTick"])

	rec = e.request("POST", "/api/v1/admin/players/ghost/overrides", "secret", body)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	e.srv.AdminKey = ""
	assert.Equal(t, http.StatusForbidden, e.request("POST", path, "secret", body).Code)
}

func TestCORSPreflight(t *testing.T) {
	e := newTestEnv(t)
	req := httptest.NewRequest("OPTIONS", "/api/v1/game", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(rec.Header().Get("Access-Control-Allow-Methods"), "PUT"))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := testNow
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"))
	assert.Equal(t, 61, rl.RetryAfter("1.2.3.4"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("1.2.3.4"))

	now = now.Add(3 * time.Minute)
	rl.cleanup()
	assert.Empty(t, rl.buckets)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(req))
}
