package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abrezinsky/eventvote/internal/logger"
	"github.com/abrezinsky/eventvote/internal/models"
)

// Message types pushed to clients
const (
	TypeResultsUpdated = "results_updated"
	TypeVotingStatus   = "voting_status"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// EventSource provides the events whose voting windows the hub reports on
type EventSource interface {
	GetEvent(ctx context.Context, id int) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
}

// ClientGauge receives the number of connected clients
type ClientGauge interface {
	SetWebsocketClients(n int)
}

// Hub maintains the set of active clients and broadcasts messages to the
// clients subscribed to the message's event
type Hub struct {
	log        logger.Logger
	events     EventSource
	gauge      ClientGauge
	clients    map[*Client]bool
	broadcast  chan models.WSMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	now        func() time.Time

	// last observed window state per event, owned by the watcher goroutine
	windows map[int]models.WindowState
}

// Client is a middleman between the websocket connection and the hub.
// eventID 0 subscribes to every event.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan models.WSMessage
	eventID int
}

// New creates a new Hub instance with injected dependencies
func New(log logger.Logger, events EventSource) *Hub {
	return &Hub{
		log:        log.With("component", "websocket"),
		events:     events,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan models.WSMessage, sendBufferSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		now:        time.Now,
		windows:    make(map[int]models.WindowState),
	}
}

// SetGauge sets the metric updated when clients connect and disconnect
func (h *Hub) SetGauge(g ClientGauge) {
	h.gauge = g
}

// Start begins the hub's main loop in a goroutine; it stops when ctx is done
func (h *Hub) Start(ctx context.Context) {
	go h.run(ctx)
}

// run handles client registration/unregistration and message broadcasting
func (h *Hub) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			h.clientsChanged(0)
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.clientsChanged(total)
			h.log.Debug("Client connected", "event_id", client.eventID, "total_clients", total)

			if client.eventID != 0 {
				go h.sendInitialStatus(ctx, client)
			}

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.clientsChanged(total)
			h.log.Debug("Client disconnected", "total_clients", total)

		case message := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				if client.eventID != 0 && client.eventID != message.EventID {
					continue
				}
				select {
				case client.send <- message:
				default:
					// Client's send channel is full, unregister
					go func(c *Client) {
						select {
						case h.unregister <- c:
						case <-h.done:
						}
					}(client)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

func (h *Hub) clientsChanged(total int) {
	if h.gauge != nil {
		h.gauge.SetWebsocketClients(total)
	}
}

// sendInitialStatus tells a newly subscribed client where its event's voting window stands
func (h *Hub) sendInitialStatus(ctx context.Context, client *Client) {
	event, err := h.events.GetEvent(ctx, client.eventID)
	if err != nil {
		h.log.Debug("No voting status for client", "event_id", client.eventID, "error", err)
		return
	}
	msg := statusMessage(event, event.WindowAt(h.now()))

	h.mutex.RLock()
	defer h.mutex.RUnlock()
	if !h.clients[client] {
		return
	}
	select {
	case client.send <- msg:
	default:
	}
}

// BroadcastMessage queues a message for every client subscribed to eventID.
// Messages are dropped when the queue is full so callers never block.
func (h *Hub) BroadcastMessage(eventID int, msgType string, payload interface{}) {
	msg := models.WSMessage{Type: msgType, EventID: eventID, Payload: payload}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("Broadcast queue full, message dropped", "type", msgType, "event_id", eventID)
	}
}

// BroadcastResultsUpdated implements services.Broadcaster
func (h *Hub) BroadcastResultsUpdated(eventID int, divisionIDs []int) {
	h.BroadcastMessage(eventID, TypeResultsUpdated, map[string]interface{}{
		"event_id":     eventID,
		"division_ids": divisionIDs,
	})
}

// BroadcastVotingStatus pushes an event's voting window state
func (h *Hub) BroadcastVotingStatus(event *models.Event, state models.WindowState) {
	msg := statusMessage(event, state)
	h.BroadcastMessage(msg.EventID, msg.Type, msg.Payload)
}

func statusMessage(event *models.Event, state models.WindowState) models.WSMessage {
	return models.WSMessage{
		Type:    TypeVotingStatus,
		EventID: event.ID,
		Payload: map[string]interface{}{
			"event_id":  event.ID,
			"open":      event.IsActive && state == models.WindowOpen,
			"state":     windowStateName(state),
			"starts_at": event.VotingStartsAt,
			"ends_at":   event.VotingEndsAt,
		},
	}
}

func windowStateName(s models.WindowState) string {
	switch s {
	case models.WindowNotYetOpen:
		return "not_yet_open"
	case models.WindowClosed:
		return "closed"
	default:
		return "open"
	}
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("WebSocket error", "error", err)
			}
			break
		}

		// Clients only listen; anything they send is logged and ignored
		var msg models.WSMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			c.hub.log.Debug("Received message", "type", msg.Type)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs handles websocket requests from clients. The optional "event" query
// parameter limits the connection to one event's messages.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	eventID := 0
	if raw := r.URL.Query().Get("event"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			http.Error(w, "invalid event", http.StatusBadRequest)
			return
		}
		eventID = id
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		hub:     h,
		conn:    conn,
		send:    make(chan models.WSMessage, sendBufferSize),
		eventID: eventID,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	// Allow collection of memory referenced by the caller by doing all work in new goroutines
	go client.writePump()
	go client.readPump()
}

// StartWindowWatcher polls event voting windows and broadcasts a voting_status
// message whenever an event's window opens or closes. It returns when ctx is done.
func (h *Hub) StartWindowWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.checkWindows(ctx)
	for {
		select {
		case <-ctx.Done():
			h.log.Info("Voting window watcher stopped")
			return
		case <-ticker.C:
			h.checkWindows(ctx)
		}
	}
}

// checkWindows compares each event's window state with the last one seen.
// The first observation of an event is recorded without a broadcast.
func (h *Hub) checkWindows(ctx context.Context) {
	events, err := h.events.ListEvents(ctx)
	if err != nil {
		h.log.Warn("Failed to list events for window watcher", "error", err)
		return
	}

	now := h.now()
	seen := make(map[int]bool, len(events))
	for i := range events {
		event := &events[i]
		seen[event.ID] = true
		state := event.WindowAt(now)

		prev, known := h.windows[event.ID]
		h.windows[event.ID] = state
		if known && prev != state {
			h.log.Info("Voting window changed", "event_id", event.ID, "state", windowStateName(state))
			h.BroadcastVotingStatus(event, state)
		}
	}
	for id := range h.windows {
		if !seen[id] {
			delete(h.windows, id)
		}
	}
}
