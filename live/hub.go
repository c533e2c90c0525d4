package live

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"

	"github.com/padelhq/club-manager/models"
)

// Event is the wire format pushed to availability feed subscribers.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	Room    string      `json:"room,omitempty"`
}

const EventReservationConfirmed = "RESERVATION_CONFIRMED"

// CourtRoom names the feed room for one court.
func CourtRoom(courtID int) string {
	return "court_" + strconv.Itoa(courtID)
}

// Hub fans committed reservation events out to websocket clients grouped by
// court room. It never feeds uncommitted state: the reservation service
// notifies only after its transaction commits.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.logger.Info("feed client registered",
				slog.String("client_id", client.id),
				slog.String("room", client.room),
				slog.Int("room_clients", len(h.rooms[client.room])),
			)
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok {
				if _, registered := clients[client]; registered {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.room)
					}
					h.logger.Info("feed client unregistered",
						slog.String("client_id", client.id),
						slog.String("room", client.room),
					)
				}
			}
			h.mu.Unlock()
		}
	}
}

// ReservationConfirmed implements services.ReservationNotifier.
func (h *Hub) ReservationConfirmed(reservation *models.Reservation) {
	room := CourtRoom(reservation.CourtID)
	h.BroadcastToRoom(room, Event{
		Type:    EventReservationConfirmed,
		Payload: reservation,
		Room:    room,
	})
}

// BroadcastToRoom sends the event to every client in the room. Clients with
// a full send buffer are skipped rather than blocking the broadcaster.
func (h *Hub) BroadcastToRoom(room string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[room]
	if !ok {
		return
	}

	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal feed event",
			slog.String("room", room),
			slog.Any("error", err),
		)
		return
	}

	for client := range clients {
		client.trySend(message)
	}
}
