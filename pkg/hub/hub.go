// Package hub fans state broadcasts out to connected viewer clients
// over websocket.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/venuelab/gyrobeam/internal/log"
)

// Hub owns the viewer client set. Register, unregister and broadcast
// all flow through channels into the single Run goroutine, so the
// client map needs no lock of its own.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	closeOnce  sync.Once
}

// New creates a hub; call Run in its own goroutine before serving.
func New() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
	}
}

// Run processes hub events until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Debug("viewer connected", "viewers", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Debug("viewer disconnected", "viewers", len(h.clients))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Writer is not draining; drop the client rather
					// than stall every other viewer.
					delete(h.clients, client)
					close(client.send)
					log.Warn("viewer evicted, send buffer full")
				}
			}

		case <-h.done:
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return
		}
	}
}

// Stop shuts the hub down and disconnects all viewers.
func (h *Hub) Stop() {
	h.closeOnce.Do(func() { close(h.done) })
}

// Broadcast queues raw bytes for every viewer. Messages are dropped
// when the hub is stopped or the queue is full.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	default:
		log.Warn("broadcast queue full, frame dropped")
	}
}

// BroadcastJSON encodes v and broadcasts it.
func (h *Hub) BroadcastJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(data)
	return nil
}
