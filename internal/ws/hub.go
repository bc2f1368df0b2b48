package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// shiftEvent is an internal struct for routing events to specific shift rooms
type shiftEvent struct {
	ShiftID uuid.UUID
	Event   Event
}

// Hub maintains the set of active clients and broadcasts messages to them.
// Back-office screens subscribe per shift to watch forecourt activity come in
// live: closing entries being recorded and settlements being submitted.
type Hub struct {
	// Registered clients by shift ID
	rooms map[uuid.UUID]map[*Client]bool

	// Inbound messages from clients (register/unregister)
	register   chan *Client
	unregister chan *Client

	// Outbound messages to broadcast
	broadcast chan *shiftEvent

	// Mutex for thread-safe room access
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *shiftEvent, 256),
	}
}

// Run starts the hub's main loop
// This should be called as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.shiftID] == nil {
				h.rooms[client.shiftID] = make(map[*Client]bool)
			}
			h.rooms[client.shiftID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.shiftID]; ok {
				if _, exists := clients[client]; exists {
					delete(clients, client)
					close(client.send)
					// Clean up empty rooms
					if len(clients) == 0 {
						delete(h.rooms, client.shiftID)
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			clients := h.rooms[event.ShiftID]

			// Marshal event to JSON once
			message, err := json.Marshal(event.Event)
			if err != nil {
				h.mu.Unlock()
				continue
			}

			// Send to all clients watching this shift
			for client := range clients {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, close and unregister
					close(client.send)
					delete(h.rooms[event.ShiftID], client)
					if len(h.rooms[event.ShiftID]) == 0 {
						delete(h.rooms, event.ShiftID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToShift sends an event to all clients watching a specific shift
// This is the public API for handlers to broadcast events
func (h *Hub) BroadcastToShift(shiftID uuid.UUID, event Event) {
	h.broadcast <- &shiftEvent{
		ShiftID: shiftID,
		Event:   event,
	}
}
