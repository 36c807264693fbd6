package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	ws "github.com/drivelog/drivelog-be/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the CORS layer; the upgrade itself accepts all.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler upgrades connections into the activity feed hub.
type WebSocketHandler struct {
	hub *ws.Hub
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// subscribePayload is what clients send to change topics after connecting.
type subscribePayload struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
}

// Serve upgrades the HTTP connection and registers the client with the hub.
// An optional ?topic= query parameter subscribes the client on connect.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	topic := r.URL.Query().Get("topic")
	client := ws.NewClient(h.hub, conn, topic)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump(h.handleMessage)
}

func (h *WebSocketHandler) handleMessage(client *ws.Client, raw []byte) {
	var payload subscribePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.hub.SendTo(client, ws.NewErrorMessage("invalid message"))
		return
	}

	switch payload.Action {
	case "subscribe":
		if payload.Topic != ws.TopicPosts && payload.Topic != ws.TopicEvents {
			h.hub.SendTo(client, ws.NewErrorMessage("unknown topic"))
			return
		}
		h.hub.Subscribe(client, payload.Topic)
	case "unsubscribe":
		h.hub.Unsubscribe(client, payload.Topic)
	default:
		h.hub.SendTo(client, ws.NewErrorMessage("unknown action"))
	}
}
