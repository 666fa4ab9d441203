package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"catan-tracker/internal/gamelog"
	"catan-tracker/internal/models"
	"catan-tracker/internal/tracker"
	"catan-tracker/internal/views"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS policy is enforced on the API routes
	},
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

type WebSocketHandler struct {
	tracker *tracker.Tracker
	hub     *Hub
}

// NewWebSocketHandler starts the hub and subscribes to tracker transitions,
// so every acknowledged mutation or upstream change reaches connected
// dashboards. Must be constructed before the tracker starts.
func NewWebSocketHandler(t *tracker.Tracker) *WebSocketHandler {
	hub := NewHub()
	go hub.Run()

	h := &WebSocketHandler{tracker: t, hub: hub}
	t.OnChange(func(state gamelog.State) {
		h.broadcastState(state)
	})
	return h
}

// DashboardMessage is the payload pushed to connected dashboards.
type DashboardMessage struct {
	Type    string         `json:"type"`
	Games   []models.Game  `json:"games"`
	Stats   []views.Row    `json:"stats"`
	Streaks StreaksSummary `json:"streaks"`
}

func stateMessage(state gamelog.State) ([]byte, error) {
	msg := DashboardMessage{
		Type:    "state",
		Games:   state.Games,
		Stats:   views.Table(state.Stats, views.ColumnWins, true),
		Streaks: BuildSummary(state.Games),
	}
	return json.Marshal(msg)
}

func (h *WebSocketHandler) broadcastState(state gamelog.State) {
	data, err := stateMessage(state)
	if err != nil {
		log.Printf("Failed to marshal dashboard state: %v", err)
		return
	}
	h.hub.Broadcast(data)
}

// HandleWebSocket upgrades the connection, sends a snapshot of the current
// state, and keeps streaming updates until the client disconnects.
// GET /ws
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, 8),
	}
	h.hub.register <- client

	// Snapshot before any broadcast so a fresh dashboard renders immediately
	if data, err := stateMessage(h.tracker.State()); err == nil {
		client.send <- data
	}

	go client.writePump()
	go client.readPump()
}

// Hub maintains the set of connected dashboard clients. There is a single
// broadcast group: every client sees the same state.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("Dashboard client connected (%d active)", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			log.Printf("Dashboard client disconnected (%d active)", len(h.clients))

		case msg := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Broadcast queues a message for every connected client.
func (h *Hub) Broadcast(msg []byte) {
	h.broadcast <- msg
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// readPump drains client messages. Dashboards only listen, so incoming
// frames are discarded; the pump exists to notice disconnects and answer
// pings.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
