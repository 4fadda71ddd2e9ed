package hub

import (
	"encoding/json"
	"sync"

	"github.com/nkoncar/collecto-api/internal/models"
	"go.uber.org/zap"
)

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type NewItemEvent struct {
	Item           models.Item `json:"item"`
	CollectionName string      `json:"collectionName"`
}

type Client struct {
	ID   string
	Send chan []byte
}

// Hub fans events out to every connected client. A single Run loop drains
// the broadcast queue, so events are delivered to each client in the order
// they were enqueued. Delivery is best-effort: a client whose buffer is
// full, or an event that finds the queue full, is dropped rather than
// blocking the producer.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	logger     *zap.Logger
	mu         sync.RWMutex
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 256),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Warn("failed to encode event", zap.Error(err))
				continue
			}
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.Send <- data:
				default:
					// Client buffer full, skip
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// NewItem enqueues a newItem event for every connected client. It never
// blocks the caller: if the queue is full the event is dropped.
func (h *Hub) NewItem(item models.Item, collectionName string) {
	event := Event{
		Type: "newItem",
		Data: NewItemEvent{Item: item, CollectionName: collectionName},
	}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("event queue full, dropping newItem event",
			zap.String("collection", collectionName))
	}
}

// ClientCount reports how many clients are currently connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
