// Package api serves MicroEstado games over HTTP.
// Public endpoints are GET /status and /catalog. Player endpoints require
// the bearer token issued by POST /players. Admin endpoints require the
// server's admin key.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"github.com/alexandrarotta/microestado/internal/persistence"
	"github.com/alexandrarotta/microestado/internal/session"
	"github.com/alexandrarotta/microestado/internal/state"
)

const defaultMaxStreams = 64

// Server binds the live sessions and the store to HTTP.
type Server struct {
	Sessions *session.Manager
	DB       *persistence.DB
	Port     int
	AdminKey string   // Bearer token for admin endpoints. Empty = disabled.
	Origins  []string // Extra CORS origins besides the local dev servers.

	// MaxStreams caps concurrent SSE and websocket connections.
	MaxStreams int

	streams atomic.Int32
	started time.Time
	signups *RateLimiter
}

// Handler builds the routing tree. Streaming routes bypass compression.
func (s *Server) Handler() http.Handler {
	if s.started.IsZero() {
		s.started = time.Now()
	}
	if s.signups == nil {
		s.signups = NewRateLimiter(20, time.Hour)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/catalog", s.handleCatalog)
	mux.HandleFunc("POST /api/v1/players", RateLimitMiddleware(s.signups, s.handleCreatePlayer))

	mux.HandleFunc("GET /api/v1/me", s.player(s.handleMe))
	mux.HandleFunc("GET /api/v1/game", s.player(s.handleGame))
	mux.HandleFunc("POST /api/v1/game/new", s.player(s.handleNewGame))
	mux.HandleFunc("POST /api/v1/game/reset", s.player(s.handleReset))
	mux.HandleFunc("PUT /api/v1/game/save", s.player(s.handleUpload))
	mux.HandleFunc("GET /api/v1/game/level2/decrees", s.player(s.handleLevel2Decrees))
	mux.HandleFunc("GET /api/v1/game/level2/cabinet", s.player(s.handleCabinet))
	mux.HandleFunc("GET /api/v1/archive", s.player(s.handleArchive))
	mux.HandleFunc("GET /api/v1/archive/{id}", s.player(s.handleArchived))
	for _, a := range actions() {
		mux.HandleFunc(a.method+" /api/v1/game/"+a.path, s.player(s.action(a.bind)))
	}

	mux.HandleFunc("POST /api/v1/admin/players/{id}/overrides", s.adminOnly(s.handleOverrides))

	root := http.NewServeMux()
	root.HandleFunc("GET /api/v1/stream", s.player(s.handleStream))
	root.HandleFunc("GET /api/v1/live", s.player(s.handleLive))
	root.Handle("/", gzhttp.GzipHandler(mux))
	return corsMiddleware(s.Origins, root)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go s.signups.Janitor(ctx)

	slog.Info("HTTP API starting", "addr", srv.Addr, "admin_auth", s.AdminKey != "")
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// corsMiddleware adds CORS headers for the local dev servers and any
// configured origins.
func corsMiddleware(origins []string, next http.Handler) http.Handler {
	allowed := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = true
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken reads the Authorization header, or the token query parameter
// for clients such as EventSource that cannot set headers.
func bearerToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

type playerHandler func(w http.ResponseWriter, r *http.Request, p *persistence.Player)

// player resolves the caller's token to a player account.
func (s *Server) player(next playerHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}
		p, err := s.DB.PlayerByToken(token)
		if errors.Is(err, persistence.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unknown token")
			return
		}
		if err != nil {
			slog.Error("token lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		next(w, r, p)
	}
}

// adminOnly requires the admin bearer token.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			writeError(w, http.StatusForbidden, "admin endpoints disabled (no MICROESTADO_ADMIN_KEY set)")
			return
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != s.AdminKey {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

func (s *Server) now() time.Time { return s.Sessions.Game().L1.Now() }

// open returns the caller's live session, writing a 500 on failure.
func (s *Server) open(w http.ResponseWriter, playerID string) (*session.Session, bool) {
	sess, err := s.Sessions.Open(playerID)
	if err != nil {
		slog.Error("open session failed", "player", playerID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return sess, true
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// actionResponse is the body of every action endpoint.
type actionResponse struct {
	Result state.Result `json:"result"`
	Save   *state.Save  `json:"save,omitempty"`
}

// writeResult answers an action with its status and, on success, the
// updated save.
func writeResult(w http.ResponseWriter, sess *session.Session, res state.Result) {
	resp := actionResponse{Result: res}
	if res.OK {
		save, err := sess.Snapshot()
		if err != nil {
			slog.Error("snapshot failed", "player", sess.PlayerID, "error", err)
		}
		resp.Save = save
	}
	writeStatusJSON(w, res.HTTPStatus(), resp)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeStatusJSON(w, status, state.Fail(status, msg))
}

func writeJSON(w http.ResponseWriter, data any) {
	writeStatusJSON(w, http.StatusOK, data)
}

func writeStatusJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
