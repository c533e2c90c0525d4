package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/padelhq/club-manager/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the front-desk dashboard origin once it has
		// a stable hostname.
		return true
	},
}

// FeedHandler upgrades availability feed subscriptions.
type FeedHandler struct {
	hub    *live.Hub
	logger *slog.Logger
}

func NewFeedHandler(hub *live.Hub, logger *slog.Logger) *FeedHandler {
	return &FeedHandler{hub: hub, logger: logger}
}

// ServeCourtFeed handles GET /ws/courts/{courtID}: a one-way stream of
// confirmed reservations for that court.
func (h *FeedHandler) ServeCourtFeed(w http.ResponseWriter, r *http.Request) {
	courtID, err := getIDFromURL(r, "courtID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Warn("feed upgrade failed",
			slog.Int("court_id", courtID),
			slog.Any("error", err),
		)
		return
	}

	client := live.NewClient(h.hub, conn, live.CourtRoom(courtID))
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump(h.logger)
}
