package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Dosada05/beach-cup/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub *live.Hub
}

func NewWebSocketHandler(hub *live.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeTournament handles /ws/tournaments/{sessionID}: live score updates of one tournament.
func (h *WebSocketHandler) ServeTournament(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "Missing sessionID", http.StatusBadRequest)
		return
	}
	h.serve(w, r, live.TournamentRoom(sessionID))
}

// ServeSeason handles /ws/season: leaderboard updates.
func (h *WebSocketHandler) ServeSeason(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, live.SeasonRoom)
}

func (h *WebSocketHandler) serve(w http.ResponseWriter, r *http.Request, roomID string) {
	logger := zerolog.Ctx(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		logger.Warn().Err(err).Str("room", roomID).Msg("failed to upgrade websocket connection")
		return
	}

	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: roomID,
	}
	if !client.Hub.Join(client) {
		logger.Debug().Str("room", roomID).Msg("websocket hub stopped, closing connection")
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()

	logger.Debug().Str("room", roomID).Msg("websocket client connected")
}
