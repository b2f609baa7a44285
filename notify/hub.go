// notify/hub.go - Websocket notification hub
//
// Delivers achievement toasts to connected clients. Strictly best-effort:
// sends are non-blocking, a slow or absent client never delays the award
// path that triggered the notification.
package notify

import (
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Event is one user-facing notification.
type Event struct {
	Type        string `json:"type"` // "achievement_unlocked"
	Name        string `json:"name"`
	Description string `json:"description"`
	XPReward    int    `json:"xp_reward"`
}

type client struct {
	conn *websocket.Conn
	send chan Event
}

// Hub tracks connected clients per user and fans events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*client]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[*client]bool)}
}

// Serve runs one websocket connection for a user until it closes. Intended
// to be wrapped in websocket.New by the route table.
func (h *Hub) Serve(userID uint, conn *websocket.Conn) {
	cl := &client{conn: conn, send: make(chan Event, 16)}
	h.register(userID, cl)

	// Writer pump
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range cl.send {
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}()

	// Read loop only to detect disconnect; clients don't send anything
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	// Unregister before closing the channel: once the write lock is
	// released no sender can still hold a reference, so the close below
	// cannot race a NotifyAchievement send.
	h.unregister(userID, cl)
	close(cl.send)
	<-done
	conn.Close()
}

func (h *Hub) register(userID uint, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*client]bool)
	}
	h.clients[userID][cl] = true
}

func (h *Hub) unregister(userID uint, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[userID], cl)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

// NotifyAchievement pushes an unlock toast to every connection of the user.
// Non-blocking: a full client buffer drops the event for that client.
func (h *Hub) NotifyAchievement(userID uint, name, description string, xpReward int) {
	event := Event{
		Type:        "achievement_unlocked",
		Name:        name,
		Description: description,
		XPReward:    xpReward,
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for cl := range h.clients[userID] {
		select {
		case cl.send <- event:
		default:
			log.Printf("Dropping notification for user %d: client buffer full", userID)
		}
	}
}
