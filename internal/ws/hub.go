package ws

import (
	"context"
	"sync"
)

// Hub tracks open connections so they can be closed on shutdown
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex

	// ctx is the parent of every connection context
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients: make(map[*Client]bool),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Run blocks until ctx is done, then cancels in-flight work and closes every
// open connection
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.cancel()
	h.closeAll()
}

// Context is cancelled when the hub shuts down
func (h *Hub) Context() context.Context {
	return h.ctx
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients, client)
}

func (h *Hub) closeAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.conn != nil {
			_ = client.conn.Close()
		}
	}
}

// Connected returns the number of open connections
func (h *Hub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
