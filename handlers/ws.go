// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/quickly-judge/auth"
	"github.com/danielhkuo/quickly-judge/cliparse"
	"github.com/danielhkuo/quickly-judge/middleware"
	"github.com/danielhkuo/quickly-judge/models"
	"github.com/danielhkuo/quickly-judge/notify"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// WSHandler pushes live announcements to connected clients. A client
// subscribes to its declared role for as long as the socket stays open.
type WSHandler struct {
	hub      *notify.Hub
	cfg      cliparse.Config
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *notify.Hub, cfg cliparse.Config) *WSHandler {
	h := &WSHandler{hub: hub, cfg: cfg}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *WSHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	return slices.Contains(h.cfg.AllowedOrigins, origin)
}

// credential reads a value from the query string, falling back to the
// header. Browsers cannot set headers on a websocket handshake.
func credential(r *http.Request, query, header string) string {
	if v := r.URL.Query().Get(query); v != "" {
		return v
	}
	return r.Header.Get(header)
}

// authorize checks the connecting client's credentials for role
func (h *WSHandler) authorize(r *http.Request, role string) error {
	key := credential(r, "key", HeaderParticipantKey)
	if role == models.RoleAdmin {
		if key == "" {
			key = r.Header.Get(HeaderAdminKey)
		}
		return auth.ValidateAdminKey(h.cfg.EventName, key, h.cfg.AdminKeySalt)
	}
	id := credential(r, "id", HeaderParticipantID)
	return auth.ValidateParticipantKey(id, role, key, h.cfg.ParticipantSalt)
}

// Subscribe handles GET /ws?role=judge&id=...&key=...
func (h *WSHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	role := credential(r, "role", HeaderParticipantRole)
	if !models.IsValidRole(role) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "role must be one of judge, attendee, vendor, admin")
		return
	}
	if err := h.authorize(r, role); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	sub := h.hub.Subscribe(role)
	slog.Info("subscriber connected", "subscription_id", sub.ID, "role", role)

	done := make(chan struct{})
	go h.readPump(conn, done)
	h.writePump(conn, sub, done)

	sub.Close()
	conn.Close()
	slog.Info("subscriber disconnected", "subscription_id", sub.ID, "role", role)
}

// readPump discards client messages and closes done once the peer goes away
func (h *WSHandler) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *WSHandler) writePump(conn *websocket.Conn, sub *notify.Subscription, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-sub.Events():
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				slog.Debug("websocket write failed", "subscription_id", sub.ID, "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
