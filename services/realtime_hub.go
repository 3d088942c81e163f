package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/romana/rlog"
)

// Notifier delivers an event to every live connection of a user
type Notifier interface {
	Notify(userID uint, event Event)
}

// Event is the JSON envelope pushed to websocket clients
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const (
	EventOrderPlaced  = "order.placed"
	EventOrderUpdated = "order.updated"
)

// writeWait bounds a single socket write
const writeWait = 10 * time.Second

type WSClient struct {
	UserID uint
	Conn   *websocket.Conn
	wmu    sync.Mutex
}

// Write sends one message; gorilla connections allow a single writer
func (c *WSClient) Write(messageType int, data []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.Conn.WriteMessage(messageType, data)
}

type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[uint]map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*WSClient]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// Connected reports how many sockets a user has open
func (h *RealtimeHub) Connected(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Notify writes outside the hub lock; clients whose write fails are
// dropped
func (h *RealtimeHub) Notify(userID uint, event Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		rlog.Errorf("Encode %s event: %v", event.Type, err)
		return
	}
	h.mu.RLock()
	targets := make([]*WSClient, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.Write(websocket.TextMessage, msg); err != nil {
			rlog.Debugf("Websocket write to user %d failed, dropping client: %v", userID, err)
			h.Unregister(c)
		}
	}
}
