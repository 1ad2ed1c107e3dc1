package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"ai-studybot-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

type Hub struct {
	// Registered clients map: UserID -> List of Clients (multi-device)
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Send delivers an envelope to every open connection of one user, on this
// instance and (via Redis) on the others.
func (h *Hub) Send(userID string, envelope interface{}) {
	data, _ := json.Marshal(envelope)

	h.mu.RLock()
	clients, localFound := h.clients[userID]
	h.mu.RUnlock()

	if localFound {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				// The Run loop owns the single close of client.Send;
				// closing here too would double-close on unregister.
				h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"user_id": userID})
				h.unregister <- client
			}
		}
	}

	// Other instances may hold connections for the same user.
	if h.rdb != nil {
		payload := map[string]interface{}{
			"target_user_id": userID,
			"message":        json.RawMessage(data),
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), "studybot_cluster_events", jsonPayload)
	}
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to the shared channel; on delivery, each
	// checks whether it holds the target user locally.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "studybot_cluster_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetUserID string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		h.mu.RLock()
		clients, ok := h.clients[payload.TargetUserID]
		h.mu.RUnlock()

		if ok {
			for _, client := range clients {
				select {
				case client.Send <- payload.Message:
				default:
					h.unregister <- client
				}
			}
		}
	}
}
