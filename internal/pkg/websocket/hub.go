package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SeatUpdate is pushed to every client watching an exam
type SeatUpdate struct {
	Type        string    `json:"type"`
	ExamID      int64     `json:"exam_id"`
	Confirmed   int       `json:"confirmed"`
	MaxStudents int       `json:"max_students"`
	Available   int       `json:"available"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewSeatUpdate builds an update; available never goes below zero
func NewSeatUpdate(examID int64, confirmed, maxStudents int) *SeatUpdate {
	available := maxStudents - confirmed
	if available < 0 {
		available = 0
	}
	return &SeatUpdate{
		Type:        "seats",
		ExamID:      examID,
		Confirmed:   confirmed,
		MaxStudents: maxStudents,
		Available:   available,
		Timestamp:   time.Now().UTC(),
	}
}

// Hub maintains the clients of each exam feed and fans updates out to them
type Hub struct {
	// Registered clients organized by exam ID
	clients map[int64]map[*Client]bool

	broadcast  chan *SeatUpdate
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu     sync.RWMutex
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		broadcast:  make(chan *SeatUpdate, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run handles registrations and broadcasts until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case update := <-h.broadcast:
			h.broadcastUpdate(update)
		}
	}
}

// PublishSeats queues a seat update for an exam. It never blocks the caller;
// updates are dropped when the queue is full.
func (h *Hub) PublishSeats(examID int64, confirmed, maxStudents int) {
	select {
	case h.broadcast <- NewSeatUpdate(examID, confirmed, maxStudents):
	default:
		h.logger.Warn().Int64("examID", examID).Msg("Seat update queue full, dropping update")
	}
}

// ClientsCount returns the number of connected clients for an exam
func (h *Hub) ClientsCount(examID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[examID])
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.examID]; !ok {
		h.clients[client.examID] = make(map[*Client]bool)
	}
	h.clients[client.examID][client] = true

	h.logger.Debug().Int64("examID", client.examID).Int64("userID", client.userID).Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.examID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.examID)
	}
	h.logger.Debug().Int64("examID", client.examID).Int64("userID", client.userID).Msg("Client unregistered")
}

func (h *Hub) broadcastUpdate(update *SeatUpdate) {
	data, err := json.Marshal(update)
	if err != nil {
		h.logger.Error().Err(err).Int64("examID", update.ExamID).Msg("Failed to marshal seat update")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients[update.ExamID] {
		select {
		case client.send <- data:
		default:
			// Slow client, drop it
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}
