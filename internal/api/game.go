package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexandrarotta/microestado/internal/engine"
	"github.com/alexandrarotta/microestado/internal/persistence"
	"github.com/alexandrarotta/microestado/internal/session"
	"github.com/alexandrarotta/microestado/internal/state"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	cat := s.Sessions.Game().Catalog()
	writeJSON(w, map[string]any{
		"name":           "MicroEstado",
		"catalogVersion": cat.Version,
		"sessions":       s.Sessions.Len(),
		"streams":        s.streams.Load(),
		"uptime":         time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat := s.Sessions.Game().Catalog()
	if match := r.Header.Get("If-None-Match"); match != "" && strings.Trim(match, `"`) == cat.Version {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", `"`+cat.Version+`"`)
	writeJSON(w, cat)
}

type createPlayerRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 64 {
		writeError(w, http.StatusBadRequest, "name must be 1-64 characters")
		return
	}
	p, err := s.DB.CreatePlayer(name)
	if err != nil {
		slog.Error("create player failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeStatusJSON(w, http.StatusCreated, p)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, p *persistence.Player) {
	writeJSON(w, map[string]any{
		"id":        p.ID,
		"name":      p.Name,
		"createdAt": p.CreatedAt,
		"medals":    p.Medals(),
	})
}

// handleGame returns the live save. A Level-2 game whose event check is
// due draws its next event first.
func (s *Server) handleGame(w http.ResponseWriter, r *http.Request, p *persistence.Player) {
	sess, ok := s.open(w, p.ID)
	if !ok {
		return
	}
	g := s.Sessions.Game()
	found := sess.Mutate(s.now(), func(save *state.Save) bool {
		return save.Level >= 2 && g.L2.MaybeTriggerEvent(save)
	})
	if !found {
		writeError(w, http.StatusNotFound, "No game")
		return
	}
	save, err := sess.Snapshot()
	if err != nil {
		slog.Error("snapshot failed", "player", p.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, save)
}

// replace writes a fresh save through and installs it in the session. The
// write happens first, while no clock tick can reach the save.
func (s *Server) replace(w http.ResponseWriter, sess *session.Session, save *state.Save, status int) {
	if err := s.DB.WriteSave(sess.PlayerID, save); err != nil {
		slog.Error("write save failed", "player", sess.PlayerID, "error", err)
	}
	sess.Replace(save)
	snap, err := sess.Snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeStatusJSON(w, status, snap)
}

// archive stores the current save, if any, before it is replaced.
func (s *Server) archive(sess *session.Session, reason string) *state.Save {
	old, err := sess.Snapshot()
	if err != nil || old == nil {
		return nil
	}
	if _, err := s.DB.Archive(sess.PlayerID, old, reason); err != nil {
		slog.Warn("archive failed", "player", sess.PlayerID, "reason", reason, "error", err)
	}
	return old
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request, p *persistence.Player) {
	var in engine.NewGameInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	save, err := s.Sessions.Game().L1.NewGame(in)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess, ok := s.open(w, p.ID)
	if !ok {
		return
	}
	s.archive(sess, "new")
	slog.Info("new game", "player", p.ID, "country", save.Country.FormalName, "role", save.Leader.RoleID)
	s.replace(w, sess, save, http.StatusCreated)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, p *persistence.Player) {
	sess, ok := s.open(w, p.ID)
	if !ok {
		return
	}
	old := s.archive(sess, "reset")
	if old == nil {
		writeError(w, http.StatusNotFound, "No game")
		return
	}
	save, err := s.Sessions.Game().L1.Reset(old)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	slog.Info("game reset", "player", p.ID, "ticks", old.TickCount)
	s.replace(w, sess, save, http.StatusOK)
}

type uploadResponse struct {
	Accepted bool        `json:"accepted"`
	Save     *state.Save `json:"save"`
}

// handleUpload accepts a client snapshot when it is newer than the live
// save. Otherwise the live save is returned unchanged.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, p *persistence.Player) {
	var incoming state.Save
	if err := decodeBody(r, &incoming); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if incoming.UpdatedAt.IsZero() {
		writeError(w, http.StatusBadRequest, "updatedAt is required")
		return
	}
	incoming.Normalize()

	sess, ok := s.open(w, p.ID)
	if !ok {
		return
	}
	live, err := sess.Snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	kept := state.Merge(live, &incoming)
	accepted := kept == &incoming
	if accepted {
		if err := s.DB.WriteSave(p.ID, kept); err != nil {
			slog.Error("write save failed", "player", p.ID, "error", err)
		}
		sess.Replace(kept)
		kept, _ = sess.Snapshot()
	}
	writeJSON(w, uploadResponse{Accepted: accepted, Save: kept})
}

func (s *Server) handleLevel2Decrees(w http.ResponseWriter, r *http.Request, p *persistence.Player) {
	s.withRole(w, p, func(roleID string) any {
		return s.Sessions.Game().L2.DecreesFor(roleID)
	})
}

func (s *Server) handleCabinet(w http.ResponseWriter, r *http.Request, p *persistence.Player) {
	s.withRole(w, p, func(roleID string) any {
		return s.Sessions.Game().L2.Cabinet(roleID)
	})
}

// withRole answers with a catalog view that depends on the leader's role.
func (s *Server) withRole(w http.ResponseWriter, p *persistence.Player, view func(roleID string) any) {
	sess, ok := s.open(w, p.ID)
	if !ok {
		return
	}
	var roleID string
	if !sess.View(func(save *state.Save) { roleID = save.Leader.RoleID }) {
		writeError(w, http.StatusNotFound, "No game")
		return
	}
	writeJSON(w, view(roleID))
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request, p *persistence.Player) {
	limit := 20
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	list, err := s.DB.ArchivedGames(p.ID, limit)
	if err != nil {
		slog.Error("list archive failed", "player", p.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, list)
}

func (s *Server) handleArchived(w http.ResponseWriter, r *http.Request, p *persistence.Player) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid archive id")
		return
	}
	save, err := s.DB.LoadArchived(p.ID, id)
	if errors.Is(err, persistence.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Archive not found")
		return
	}
	if err != nil {
		slog.Error("load archive failed", "player", p.ID, "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, save)
}

type overridesRequest struct {
	Overrides map[string]float64 `json:"overrides"`
}

// handleOverrides sets the remote tuning overrides of one player's save.
func (s *Server) handleOverrides(w http.ResponseWriter, r *http.Request) {
	var req overridesRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	playerID := r.PathValue("id")
	if _, err := s.DB.Player(playerID); errors.Is(err, persistence.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Player not found")
		return
	}
	sess, ok := s.open(w, playerID)
	if !ok {
		return
	}
	g := s.Sessions.Game()
	res := sess.Do(s.now(), func(save *state.Save) state.Result {
		return g.L1.SetRemoteOverrides(save, req.Overrides)
	})
	slog.Info("remote overrides", "player", playerID, "keys", len(req.Overrides), "ok", res.OK)
	writeResult(w, sess, res)
}
