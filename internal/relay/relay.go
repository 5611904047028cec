// Package relay fans the framed packet-line stream out to WebSocket
// subscribers, so dashboards and tooling can watch live traffic without
// holding the logger connection themselves.
package relay

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/MorfSet/NosTale/internal/util"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// LineSource is the pull cursor the relay drains. *logger.LineReader
// satisfies it.
type LineSource interface {
	Next() (string, bool)
}

// Relay is a WebSocket broadcast hub for packet lines. Subscribers attach
// at /feed; each broadcast line is delivered to every attached client as one
// text message.
type Relay struct {
	listener net.Listener

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// New creates a relay with no clients.
func New() *Relay {
	return &Relay{clients: make(map[*websocket.Conn]struct{})}
}

// Start begins serving on addr (use ":0" for an ephemeral port) and returns
// the bound port number.
func (r *Relay) Start(addr string) (int, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return 0, fmt.Errorf("failed to start feed server: %w", err)
	}
	r.listener = listener
	port := listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.HandleFunc("/feed", r.handleFeed)

	go func() {
		_ = http.Serve(listener, mux)
	}()

	return port, nil
}

func (r *Relay) handleFeed(w http.ResponseWriter, req *http.Request) {
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	r.mu.Lock()
	r.clients[conn] = struct{}{}
	n := len(r.clients)
	r.mu.Unlock()

	util.LogInfo("feed client connected (%s), %d subscribed", conn.RemoteAddr(), n)

	// Drain (and discard) client messages so pings are answered and a
	// closed peer is noticed promptly.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				r.drop(conn)
				return
			}
		}
	}()
}

// Broadcast delivers one line to every subscribed client. Clients whose
// write fails are dropped.
func (r *Relay) Broadcast(line string) {
	r.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(r.clients))
	for c := range r.clients {
		conns = append(conns, c)
	}
	r.mu.Unlock()

	for _, c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
			r.drop(c)
		}
	}
}

// Run pumps lines from src to all subscribers until the sequence ends or
// ctx is cancelled. Cancellation is observed on the next yielded line; a
// blocked source read is unblocked by closing its connection.
func (r *Relay) Run(ctx context.Context, src LineSource) {
	for {
		line, ok := src.Next()
		if !ok {
			return
		}

		select {
		case <-ctx.Done():
			return
		default:
		}

		r.Broadcast(line)
	}
}

// drop removes a client and closes its connection. Safe to call twice for
// the same client.
func (r *Relay) drop(c *websocket.Conn) {
	r.mu.Lock()
	_, ok := r.clients[c]
	delete(r.clients, c)
	r.mu.Unlock()

	if ok {
		c.Close()
		util.LogDebug("feed client dropped (%s)", c.RemoteAddr())
	}
}

// Close stops the listener and disconnects all clients.
func (r *Relay) Close() {
	if r.listener != nil {
		r.listener.Close()
	}

	r.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(r.clients))
	for c := range r.clients {
		conns = append(conns, c)
	}
	r.clients = make(map[*websocket.Conn]struct{})
	r.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
}
