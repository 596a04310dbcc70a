package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/fantasyfrc/draft-system/live"
	"github.com/fantasyfrc/draft-system/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the frontend origin once it is deployed.
		return true
	},
}

type WebSocketHandler struct {
	hub          *live.Hub
	draftService services.DraftService
}

func NewWebSocketHandler(hub *live.Hub, draftService services.DraftService) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, draftService: draftService}
}

// ServeWs handles GET /ws/rooms/{roomID}. The socket is one-way: the
// client receives room events and never sends anything the server acts on.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	roomID, err := getIDFromURL(r, "roomID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.draftService.GetRoom(r.Context(), roomID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		slog.Error("websocket upgrade failed", "room_id", roomID, "error", err)
		return
	}

	client := &live.Client{
		Hub:    h.hub,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		RoomID: roomID,
	}
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
