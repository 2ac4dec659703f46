package websocket

import (
	"context"
	"log/slog"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"dashgen/internal/dataprocessing"
	"dashgen/internal/infrastructure"
)

// Message type constants
const (
	TypeConnection = "connection"
	TypeProgress   = "progress"
	TypeError      = "error"

	// Message levels
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelError   = "error"
)

// envelope is what goes over the wire to subscribed clients.
type envelope struct {
	Type      string                       `json:"type"`
	Data      *dataprocessing.ProgressEvent `json:"data,omitempty"`
	Timestamp string                       `json:"timestamp"`
	TraceID   string                       `json:"trace_id,omitempty"`
}

// outbound pairs a serialized payload with the batch it concerns so the
// hub can route it to the right subscribers.
type outbound struct {
	batchID string
	payload []byte
}

// Hub maintains the set of active clients and routes progress events to
// the clients subscribed to each batch. Clients with no batch
// subscription receive everything.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	logger *slog.Logger

	totalConnections int64
	messagesSent     int64

	quit    chan struct{}
	running bool
}

// NewHub creates a new Hub instance with dependency injection
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	logger = logger.With(slog.String("component", "websocket.hub"))

	return &Hub{
		broadcast:  make(chan outbound, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     logger,
		quit:       make(chan struct{}),
	}
}

// Start starts the hub's main loop
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.Run()
}

// Stop shuts the hub down and disconnects all clients
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
}

// Run is the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case <-h.quit:
			h.logger.Info("Hub shutting down")
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.totalConnections++
			h.mu.Unlock()

			ctx := context.Background()
			if client.traceID != "" {
				ctx = infrastructure.WithTraceID(ctx, client.traceID)
			}

			h.logger.InfoContext(ctx, "Client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("batch_id", client.batchID),
				slog.String("remote_addr", client.remoteAddr))

			// Greet the new client so the frontend knows the stream is live
			connMsg := envelope{
				Type:      TypeConnection,
				Timestamp: time.Now().Format(time.RFC3339),
				TraceID:   client.traceID,
			}
			if payload, err := json.Marshal(connMsg); err == nil {
				select {
				case client.send <- payload:
				default:
					h.logger.WarnContext(ctx, "Failed to send connection message - client buffer full",
						slog.String("client_id", client.id))
				}
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				count := len(h.clients)
				h.mu.Unlock()

				ctx := context.Background()
				if client.traceID != "" {
					ctx = infrastructure.WithTraceID(ctx, client.traceID)
				}

				h.logger.InfoContext(ctx, "Client unregistered",
					slog.Int("total_clients", count),
					slog.String("client_id", client.id),
					slog.Duration("connection_duration", time.Since(client.connectedAt)))
			} else {
				h.mu.Unlock()
			}

		case msg := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				if client.batchID == "" || client.batchID == msg.batchID {
					clients = append(clients, client)
				}
			}
			h.mu.RUnlock()

			failCount := 0
			for _, client := range clients {
				select {
				case client.send <- msg.payload:
					h.messagesSent++
				default:
					failCount++
					// Client's send channel is full, close it
					h.mu.Lock()
					close(client.send)
					delete(h.clients, client)
					h.mu.Unlock()

					h.logger.Warn("Client send buffer full, disconnecting",
						slog.String("client_id", client.id))
				}
			}

			if failCount > 0 {
				h.logger.Warn("Some clients failed to receive broadcast",
					slog.Int("fail_count", failCount))
			}
		}
	}
}

// PublishProgress satisfies the pipeline's progress sink. Events are
// serialized once and routed to clients subscribed to the event's batch.
// Never blocks; events are dropped when the hub is saturated.
func (h *Hub) PublishProgress(event dataprocessing.ProgressEvent) {
	msg := envelope{
		Type:      TypeProgress,
		Data:      &event,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if event.Level == LevelError {
		msg.Type = TypeError
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to marshal progress event",
			slog.String("error", err.Error()))
		return
	}

	select {
	case h.broadcast <- outbound{batchID: event.BatchID, payload: payload}:
	default:
		h.logger.Warn("Progress broadcast queue full, dropping event",
			slog.String("batch_id", event.BatchID),
			slog.String("stage", event.Stage))
	}
}

// Register queues a client for registration
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister queues a client for removal
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
