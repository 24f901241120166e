package server

import (
	"bufio"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// LiveReloadHub manages SSE clients for site-hash broadcasts. Browsers reload
// when the broadcast hash differs from the one they loaded with.
type LiveReloadHub struct {
	mu       sync.RWMutex
	nextID   int
	clients  map[int]*lrClient
	closed   bool
	lastHash string
}

type lrClient struct {
	id   int
	ch   chan string
	done chan struct{}
}

func NewLiveReloadHub() *LiveReloadHub {
	return &LiveReloadHub{clients: map[int]*lrClient{}}
}

// ServeHTTP implements the SSE endpoint at /livereload.
func (h *LiveReloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		http.Error(w, "livereload shutting down", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}

	client := &lrClient{ch: make(chan string, 8), done: make(chan struct{})}
	h.mu.Lock()
	client.id = h.nextID
	h.nextID++
	h.clients[client.id] = client
	current := h.lastHash
	h.mu.Unlock()

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(": connected\n\n"); err != nil {
		slog.Debug("livereload write", logfields.Error(err))
		return
	}
	if current != "" {
		if _, err := bw.WriteString("data: {\"hash\":\"" + current + "\"}\n\n"); err != nil {
			slog.Debug("livereload write", logfields.Error(err))
			return
		}
	}
	if err := bw.Flush(); err == nil {
		flusher.Flush()
	}

	hb := time.NewTicker(30 * time.Second)
	defer hb.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			h.removeClient(client.id)
			return
		case <-client.done:
			h.removeClient(client.id)
			return
		case <-hb.C:
			if _, err := bw.WriteString(": ping\n\n"); err == nil {
				_ = bw.Flush()
				flusher.Flush()
			} else {
				slog.Debug("livereload ping write", logfields.Error(err))
			}
		case hash := <-client.ch:
			if _, err := bw.WriteString("data: {\"hash\":\"" + hash + "\"}\n\n"); err == nil {
				_ = bw.Flush()
				flusher.Flush()
			} else {
				slog.Debug("livereload broadcast write", logfields.Error(err))
			}
		}
	}
}

// Broadcast sends a new site hash to every connected client.
func (h *LiveReloadHub) Broadcast(hash string) {
	h.mu.Lock()
	h.lastHash = hash
	clients := make([]*lrClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		select {
		case c.ch <- hash:
		default:
			// Slow client; it will pick up the hash on its next event.
		}
	}
}

// Close disconnects all clients and rejects new ones.
func (h *LiveReloadHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, c := range h.clients {
		close(c.done)
		delete(h.clients, id)
	}
}

func (h *LiveReloadHub) removeClient(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		select {
		case <-c.done:
		default:
			close(c.done)
		}
	}
}
