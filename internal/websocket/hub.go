package websocket

import (
	"encoding/json"
	"sync"

	"github.com/krale/krale-storefront/internal/app/model"
	"github.com/krale/krale-storefront/pkg/logger"
)

// CartEvent carries a cart snapshot to every live view of one session.
type CartEvent struct {
	SessionID string
	Payload   []byte
}

type cartUpdate struct {
	Type      string           `json:"type"`
	Lines     []model.LineItem `json:"lines"`
	Subtotal  float64          `json:"subtotal"`
	ItemCount int              `json:"item_count"`
}

// Hub manages websocket connections, keyed by shopper session. A
// session can hold several connections (multiple open tabs), and each
// gets every cart update for that session.
type Hub struct {
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *CartEvent

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan *CartEvent, 256),
	}
}

// Run processes registrations and broadcasts until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			logger.Debug("WebSocket client registered", map[string]interface{}{
				"session_id": client.SessionID,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if list, ok := h.clients[client.SessionID]; ok {
				remaining := make([]*Client, 0, len(list))
				for _, c := range list {
					if c != client {
						remaining = append(remaining, c)
					}
				}
				if len(remaining) == 0 {
					delete(h.clients, client.SessionID)
				} else {
					h.clients[client.SessionID] = remaining
				}
				close(client.Send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients[event.SessionID] {
				select {
				case client.Send <- event.Payload:
				default:
					// Slow consumer; drop the update rather than block
					// the hub.
					logger.Warn("Dropping cart update for slow client", map[string]interface{}{
						"session_id": event.SessionID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastCart pushes a cart snapshot to every connection of the
// session. Wired as a cart store observer.
func (h *Hub) BroadcastCart(sessionID string, cart model.Cart) {
	payload, err := json.Marshal(cartUpdate{
		Type:      "cart_updated",
		Lines:     cart.Lines,
		Subtotal:  cart.Subtotal(),
		ItemCount: cart.ItemCount(),
	})
	if err != nil {
		logger.Error("Failed to marshal cart update", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return
	}

	select {
	case h.broadcast <- &CartEvent{SessionID: sessionID, Payload: payload}:
	default:
		logger.Warn("Cart update channel full, dropping event", map[string]interface{}{
			"session_id": sessionID,
		})
	}
}
