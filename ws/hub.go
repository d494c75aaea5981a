package ws

import (
	"encoding/json"

	"github.com/novus318/resoi.server/models"
	"github.com/novus318/resoi.server/utils"
)

const (
	EventTableOrder  = "tableOrder"
	EventOnlineOrder = "onlineOrder"
)

// Message is the wire shape pushed to dashboard clients.
type Message struct {
	Type  string        `json:"type"`
	Order *models.Order `json:"order"`
}

// Hub owns the set of connected dashboard clients and fans order events out
// to them. It is constructed once at boot and runs on its own goroutine;
// delivery is best-effort, at-most-once, with no buffering for slow clients
// beyond each client's send queue. The set is process-local, which is the
// scaling boundary if the server ever runs more than one instance.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
		done:       make(chan struct{}),
	}
}

// Run is the dispatch loop. All mutation of the client set happens here.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client is not keeping up; drop it rather than block
					// the dispatch loop.
					close(client.send)
					delete(h.clients, client)
				}
			}
		case <-h.done:
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}

func (h *Hub) PublishTableOrder(order *models.Order) {
	h.publish(EventTableOrder, order)
}

func (h *Hub) PublishOnlineOrder(order *models.Order) {
	h.publish(EventOnlineOrder, order)
}

func (h *Hub) publish(eventType string, order *models.Order) {
	data, err := json.Marshal(Message{Type: eventType, Order: order})
	if err != nil {
		utils.ErrorLogger.Printf("ws: marshal %s event: %v", eventType, err)
		return
	}

	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}
