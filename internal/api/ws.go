package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"clockwave/internal/models"
)

const (
	wsWriteWait  = 5 * time.Second
	wsPongWait   = 30 * time.Second
	wsPingPeriod = 20 * time.Second
	wsSendBuf    = 32
)

// wsEnvelope is the wire format for pushed messages.
type wsEnvelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Hub tracks connected websocket clients and fans status updates out to
// them. Each client gets its own write pump so one slow connection cannot
// stall the rest; a client whose queue fills is dropped.
type Hub struct {
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *wsClient

	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 128),
		register:   make(chan *wsClient, 16),
		unregister: make(chan *wsClient, 16),
		clients:    make(map[*wsClient]struct{}),
	}
}

// Run processes hub events until the context ends, then disconnects
// everyone.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				c.conn.Close()
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			log.Printf("🔌 WS client connected (%d total)", n)

		case c := <-h.unregister:
			h.drop(c)

		case msg := <-h.broadcast:
			var slow []*wsClient
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.Unlock()
			for _, c := range slow {
				h.drop(c)
			}
		}
	}
}

func (h *Hub) drop(c *wsClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		c.conn.Close()
		close(c.send)
		log.Printf("🔌 WS client disconnected (%d total)", n)
	}
}

// BroadcastStatus pushes a playback snapshot to every client. It never
// blocks; when the hub queue is full the update is dropped, the next one
// carries newer state anyway.
func (h *Hub) BroadcastStatus(status models.PlaybackStatus) {
	msg, err := json.Marshal(wsEnvelope{Type: "status", Data: status})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		log.Println("⚠️ WS broadcast queue full, dropping update")
	}
}

// BroadcastAlarm pushes an alarm runtime event to every client.
func (h *Hub) BroadcastAlarm(data any) {
	msg, err := json.Marshal(wsEnvelope{Type: "alarm", Data: data})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- msg:
	default:
	}
}

type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; it exists to detect disconnects and
// answer pings.
func (c *wsClient) readPump() {
	c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.hub.unregister <- c
			return
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWS upgrades the connection, registers the client and sends an
// initial status snapshot.
func (s *Server) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("⚠️ WS upgrade failed: %v", err)
		return
	}

	client := &wsClient{hub: s.hub, conn: conn, send: make(chan []byte, wsSendBuf)}
	s.hub.register <- client

	// Pumps outlive the HTTP handler: the request context is canceled
	// when this function returns, so the connection is owned by the hub
	// from here on.
	go client.writePump()
	go client.readPump()

	if msg, err := json.Marshal(wsEnvelope{Type: "status", Data: s.controller.Status()}); err == nil {
		select {
		case client.send <- msg:
		default:
			s.hub.unregister <- client
		}
	}
}
