package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"ai-chatbot-be/internal/pkg/logger"
)

// Hub fans pipeline telemetry out to live dashboard connections. Dashboards
// are keyed by company; a company can have several open at once.
type Hub struct {
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fanout
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.CompanyID] = append(h.clients[client.CompanyID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Dashboard connected", map[string]interface{}{"company_id": client.CompanyID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.CompanyID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.CompanyID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.CompanyID]) == 0 {
					delete(h.clients, client.CompanyID)
					h.logger.Info("Hub", "Last dashboard for company disconnected", map[string]interface{}{"company_id": client.CompanyID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Send delivers a telemetry message to one company's dashboards, locally and
// via Redis for dashboards connected to other instances.
func (h *Hub) Send(companyID uuid.UUID, eventType string, data map[string]interface{}) {
	message, _ := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": data,
	})

	h.mu.RLock()
	clients, localFound := h.clients[companyID]
	h.mu.RUnlock()

	if localFound {
		for _, client := range clients {
			select {
			case client.Send <- message:
			default:
				h.logger.Warn("Hub", "Dashboard send buffer full, dropping connection", map[string]interface{}{"company_id": companyID})
				close(client.Send)
				h.unregister <- client
			}
		}
	}

	if h.rdb != nil {
		payload := map[string]interface{}{
			"target_company_id": companyID.String(),
			"message":           message,
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
	}
}

// Broadcast delivers a telemetry message to every connected dashboard.
func (h *Hub) Broadcast(eventType string, data map[string]interface{}) {
	message, _ := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": data,
	})

	h.mu.RLock()
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				h.unregister <- client
			}
		}
	}
	h.mu.RUnlock()

	if h.rdb != nil {
		payload := map[string]interface{}{
			"target_company_id": "*",
			"message":           message,
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
	}
}

// subscribeToRedis listens on the shared cluster channel so dashboards follow
// their company regardless of which instance answered the turn. Messages
// carry a target company id or "*" for broadcast.
func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetCompanyID string          `json:"target_company_id"`
			Message         json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		if payload.TargetCompanyID == "*" {
			h.mu.RLock()
			for _, clients := range h.clients {
				for _, client := range clients {
					select {
					case client.Send <- payload.Message:
					default:
						close(client.Send)
						h.unregister <- client
					}
				}
			}
			h.mu.RUnlock()
			continue
		}

		companyID, err := uuid.Parse(payload.TargetCompanyID)
		if err != nil {
			continue
		}

		h.mu.RLock()
		clients, ok := h.clients[companyID]
		h.mu.RUnlock()

		if ok {
			for _, client := range clients {
				select {
				case client.Send <- payload.Message:
				default:
					close(client.Send)
					h.unregister <- client
				}
			}
		}
	}
}
