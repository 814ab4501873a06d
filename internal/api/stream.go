package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alexandrarotta/microestado/internal/persistence"
	"github.com/alexandrarotta/microestado/internal/session"
	"github.com/alexandrarotta/microestado/internal/state"
)

const (
	heartbeatInterval = 15 * time.Second
	sseCatchUp        = 20
	wsWriteWait       = 5 * time.Second
	wsReadWait        = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4 * 1024,
	WriteBufferSize: 16 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// acquireStream claims a streaming slot, answering 503 when none is left.
func (s *Server) acquireStream(w http.ResponseWriter) bool {
	limit := s.MaxStreams
	if limit <= 0 {
		limit = defaultMaxStreams
	}
	if s.streams.Add(1) > int32(limit) {
		s.streams.Add(-1)
		writeError(w, http.StatusServiceUnavailable, "too many streaming connections")
		return false
	}
	return true
}

func (s *Server) releaseStream() { s.streams.Add(-1) }

// handleStream pushes the player's news feed as server-sent events.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request, p *persistence.Player) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}
	sess, ok := s.open(w, p.ID)
	if !ok {
		return
	}
	if !s.acquireStream(w) {
		return
	}
	defer s.releaseStream()

	subID, ch := sess.Subscribe()
	defer sess.Unsubscribe(subID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// The feed is newest first; replay the tail oldest first.
	var recent []state.NewsItem
	sess.View(func(save *state.Save) {
		n := min(len(save.News), sseCatchUp)
		recent = append(recent, save.News[:n]...)
	})
	for i := len(recent) - 1; i >= 0; i-- {
		writeSSENews(w, recent[i])
	}
	flusher.Flush()

	slog.Info("SSE client connected", "player", p.ID, "sub_id", subID)

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case u, ok := <-ch:
			if !ok {
				return
			}
			for _, n := range u.News {
				writeSSENews(w, n)
			}
			if u.Summary != nil && u.Summary.GameOver {
				writeSSE(w, "gameover", u.Summary)
			}
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()
		case <-r.Context().Done():
			slog.Info("SSE client disconnected", "player", p.ID, "sub_id", subID)
			return
		}
	}
}

func writeSSENews(w http.ResponseWriter, n state.NewsItem) {
	writeSSE(w, "news", n)
}

func writeSSE(w http.ResponseWriter, event string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}

// handleLive streams every session update over a websocket. The client
// only needs to answer pings; anything it sends is ignored.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request, p *persistence.Player) {
	sess, ok := s.open(w, p.ID)
	if !ok {
		return
	}
	if !s.acquireStream(w) {
		return
	}
	defer s.releaseStream()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	subID, ch := sess.Subscribe()
	defer sess.Unsubscribe(subID)
	slog.Info("live client connected", "player", p.ID, "sub_id", subID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go s.liveWriter(ctx, cancel, conn, ch)

	conn.SetReadLimit(4 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(wsReadWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	slog.Info("live client disconnected", "player", p.ID, "sub_id", subID)
}

func (s *Server) liveWriter(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, ch <-chan session.Update) {
	defer cancel()
	ping := time.NewTicker(heartbeatInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "bye"), time.Now().Add(time.Second))
			return
		case u, ok := <-ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(u); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
