package websocket

import (
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/solwatch/swt/internal/domain"
)

// Hub fans processed trades out to every connected stream client. The
// tracker serves a single shared feed, so there is no per-user routing.
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan domain.TransactionRecord
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	logger     zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan domain.TransactionRecord, 100),
		register:   make(chan *websocket.Conn, 100),
		unregister: make(chan *websocket.Conn, 100),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.clients[conn] = true
			h.logger.Info().
				Int("client_count", len(h.clients)).
				Msg("Stream client registered")

		case conn := <-h.unregister:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
				h.logger.Info().
					Int("client_count", len(h.clients)).
					Msg("Stream client unregistered")
			}

		case record := <-h.broadcast:
			for conn := range h.clients {
				if err := conn.WriteJSON(record); err != nil {
					h.logger.Warn().
						Err(err).
						Str("signature", record.Signature).
						Msg("Failed to send stream message, dropping client")
					conn.Close()
					delete(h.clients, conn)
				}
			}
		}
	}
}

// BroadcastTrade queues one processed trade for delivery to all clients.
func (h *Hub) BroadcastTrade(record domain.TransactionRecord) {
	select {
	case h.broadcast <- record:
	default:
		h.logger.Warn().Str("signature", record.Signature).Msg("Stream broadcast queue full, dropping trade")
	}
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.register <- conn
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.unregister <- conn
}
