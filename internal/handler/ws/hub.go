package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"InvenPulse/internal/domain/models"
	domrepo "InvenPulse/internal/domain/repository"
	"InvenPulse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 30 * time.Second
	sendBufferSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// dashboard is same-origin or behind the gateway; origin checks live there
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub broadcasts analytics events to connected dashboard clients. It also
// implements the domain EventPublisher so recompute outcomes reach the stream
// without the usecases knowing about websockets.
type Hub struct {
	logger  *logger.Logger
	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub(lgr *logger.Logger) *Hub {
	return &Hub{
		logger:  lgr,
		clients: make(map[*client]struct{}),
	}
}

// RegisterRoutes mounts the stream endpoint.
func (h *Hub) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/dashboard/stream", h.Serve)
}

// Serve upgrades the connection and starts the write pump.
func (h *Hub) Serve(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	cl := &client{conn: conn, send: make(chan []byte, sendBufferSize)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	h.clients[cl] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("dashboard client connected", logger.Int("clients", total))

	go h.writePump(cl)
	go h.readPump(cl)
	return nil
}

// Publish implements domain repository.EventPublisher.
func (h *Hub) Publish(_ context.Context, event models.AnalyticsEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	h.Broadcast(data)
	return nil
}

// Broadcast fans a frame out to every client. Slow clients are dropped
// instead of blocking the broadcaster.
func (h *Hub) Broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for cl := range h.clients {
		select {
		case cl.send <- data:
		default:
			go h.drop(cl)
		}
	}
}

func (h *Hub) drop(cl *client) {
	h.mu.Lock()
	if _, ok := h.clients[cl]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, cl)
	h.mu.Unlock()

	close(cl.send)
	_ = cl.conn.Close()
}

// readPump discards inbound frames; the stream is one-way. It exists to
// notice closed connections.
func (h *Hub) readPump(cl *client) {
	defer h.drop(cl)
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-cl.send:
			if !ok {
				_ = cl.conn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(writeWait))
				return
			}
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.drop(cl)
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.drop(cl)
				return
			}
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for cl := range h.clients {
		close(cl.send)
		_ = cl.conn.Close()
	}
	h.clients = make(map[*client]struct{})
}

var _ domrepo.EventPublisher = (*Hub)(nil)
