package api

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"goincome/internal"

	"github.com/gin-gonic/gin"
)

// DatasetEventName is the SSE event name emitted when the loader completes
const DatasetEventName = "dataset"

// DatasetEvent announces the outcome of the initial load
type DatasetEvent struct {
	Records   int       `json:"records"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SSEHub fans dataset events out to connected browsers. The last event is
// kept so clients connecting after the load still receive it.
type SSEHub struct {
	clients    map[chan DatasetEvent]bool
	clientsMu  sync.RWMutex
	register   chan chan DatasetEvent
	unregister chan chan DatasetEvent
	broadcast  chan DatasetEvent
	last       *DatasetEvent
	logger     *internal.Logger
	keepAlive  time.Duration
}

// NewSSEHub creates a hub. Events flow once Run is started.
func NewSSEHub(logger *internal.Logger) *SSEHub {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &SSEHub{
		clients:    make(map[chan DatasetEvent]bool),
		register:   make(chan chan DatasetEvent, 10),
		unregister: make(chan chan DatasetEvent, 10),
		broadcast:  make(chan DatasetEvent, 10),
		logger:     logger.With("SSE"),
		keepAlive:  30 * time.Second,
	}
}

// Run processes hub operations until ctx is cancelled
func (h *SSEHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.clientsMu.Lock()
			for ch := range h.clients {
				close(ch)
			}
			h.clients = make(map[chan DatasetEvent]bool)
			h.clientsMu.Unlock()
			return

		case ch := <-h.register:
			h.clientsMu.Lock()
			h.clients[ch] = true
			if h.last != nil {
				ch <- *h.last
			}
			h.logger.Debug("client registered (total clients: %d)", len(h.clients))
			h.clientsMu.Unlock()

		case ch := <-h.unregister:
			h.clientsMu.Lock()
			if h.clients[ch] {
				delete(h.clients, ch)
				close(ch)
				h.logger.Debug("client unregistered (remaining clients: %d)", len(h.clients))
			}
			h.clientsMu.Unlock()

		case event := <-h.broadcast:
			h.clientsMu.Lock()
			h.last = &event
			for ch := range h.clients {
				select {
				case ch <- event:
				default:
					h.logger.Warn("client channel full, skipping event")
				}
			}
			h.clientsMu.Unlock()
		}
	}
}

// Broadcast queues an event for every connected client
func (h *SSEHub) Broadcast(event DatasetEvent) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("broadcast channel full, dropping event")
	}
}

// ClientCount returns the number of connected clients
func (h *SSEHub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// HandleSSE streams dataset events to the client
func (h *SSEHub) HandleSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	clientChan := make(chan DatasetEvent, 1)
	select {
	case h.register <- clientChan:
	default:
		c.JSON(503, gin.H{"error": "event stream unavailable"})
		return
	}
	defer func() {
		select {
		case h.unregister <- clientChan:
		default:
		}
	}()

	c.Status(200)
	c.Writer.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case event, ok := <-clientChan:
			if !ok {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("failed to marshal event: %v", err)
				continue
			}
			c.SSEvent(DatasetEventName, string(payload))
			c.Writer.Flush()

		case <-ticker.C:
			c.SSEvent("ping", `{"status":"alive"}`)
			c.Writer.Flush()

		case <-ctx.Done():
			return
		}
	}
}
