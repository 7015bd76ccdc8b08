// Package relay broadcasts the merged update feed to WebSocket clients.
//
// Protocol (server → client only):
//
//	{"type": "update", "kind": "message", "conversation": 5, "update": {...}}
//
// Client messages are read and ignored; they only keep the read deadline
// alive.
package relay

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dayuer/tgmux/internal/telegram"
)

const readTimeout = 60 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message is one broadcast frame.
type Message struct {
	Type         string          `json:"type"`
	Kind         telegram.Kind   `json:"kind"`
	Conversation telegram.ChatID `json:"conversation"`
	Update       telegram.Update `json:"update"`
}

// wsConn wraps a websocket.Conn with a write mutex for thread safety.
// gorilla/websocket does NOT support concurrent writes.
type wsConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (c *wsConn) WriteJSONSafe(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return c.Conn.WriteJSON(v)
}

func (c *wsConn) WriteCloseSafe(code int, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, text))
}

// Hub tracks connected clients and fans updates out to them.
type Hub struct {
	mu    sync.Mutex
	conns map[*wsConn]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[*wsConn]bool)}
}

// ServeHTTP upgrades the request and keeps the client registered until it
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Relay] ⚠️ Upgrade failed: %v", err)
		return
	}

	conn := &wsConn{Conn: raw}
	peer := r.RemoteAddr
	log.Printf("[Relay] 🔗 Connected: %s", peer)

	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()

	defer func() {
		raw.Close()
		h.mu.Lock()
		delete(h.conns, conn)
		h.mu.Unlock()
		log.Printf("[Relay] 🔌 Disconnected: %s", peer)
	}()

	raw.SetReadDeadline(time.Now().Add(readTimeout))
	raw.SetPongHandler(func(string) error {
		raw.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		if _, _, err := raw.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[Relay] ⚠️ Error: %v", err)
			}
			return
		}
		raw.SetReadDeadline(time.Now().Add(readTimeout))
	}
}

// Broadcast sends u to every client and drops the ones that fail. It returns
// the number of clients that received it.
func (h *Hub) Broadcast(u telegram.Update) int {
	h.mu.Lock()
	conns := make([]*wsConn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	msg := Message{Type: "update", Kind: u.Kind(), Conversation: u.Conversation(), Update: u}

	var dead []*wsConn
	sent := 0
	for _, c := range conns {
		if err := c.WriteJSONSafe(msg); err != nil {
			dead = append(dead, c)
			continue
		}
		sent++
	}

	if len(dead) > 0 {
		h.mu.Lock()
		for _, c := range dead {
			delete(h.conns, c)
			c.Close()
		}
		h.mu.Unlock()
	}
	return sent
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		c.WriteCloseSafe(websocket.CloseGoingAway, "server shutdown")
		c.Close()
		delete(h.conns, c)
	}
}

// ListenAndServe serves h at path on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr, path string, h *Hub) error {
	mux := http.NewServeMux()
	mux.Handle(path, h)
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Relay] Listening on %s%s", addr, path)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	h.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
