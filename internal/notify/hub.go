package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"eventManager/internal/models"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// StatusMessage is pushed to an organizer's sockets when one of their events
// changes.
type StatusMessage struct {
	Type      Kind          `json:"type"`
	EventID   int64         `json:"event_id"`
	Title     string        `json:"title"`
	Status    models.Status `json:"status"`
	Message   string        `json:"message,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// Hub fans messages out to websocket subscribers grouped by key.
type Hub struct {
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu     sync.Mutex
	groups map[string]map[*subscriber]struct{}
}

// subscriber serializes writes to one socket so that a slow client only
// delays its own messages.
type subscriber struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *subscriber) close(code int, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(writeWait))
	s.conn.Close()
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log: log.With(slog.String("component", "notify/hub")),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		groups: make(map[string]map[*subscriber]struct{}),
	}
}

func OrganizerGroup(organizerID int64) string {
	return "organizer_" + strconv.FormatInt(organizerID, 10)
}

// Serve upgrades the request and keeps the socket subscribed to group until
// the client disconnects.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, group string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("notify.Hub.Serve: %w", err)
	}

	sub := &subscriber{conn: conn}

	h.mu.Lock()
	if h.groups[group] == nil {
		h.groups[group] = make(map[*subscriber]struct{})
	}
	h.groups[group][sub] = struct{}{}
	h.mu.Unlock()

	h.log.Debug("subscriber joined", slog.String("group", group))

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(group, sub)
	return nil
}

func (h *Hub) remove(group string, sub *subscriber) {
	h.mu.Lock()
	if subs, ok := h.groups[group]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.groups, group)
		}
	}
	h.mu.Unlock()

	sub.conn.Close()
}

// Broadcast sends v to every socket of group and returns how many received
// it. Sockets that fail are dropped.
func (h *Hub) Broadcast(group string, v any) (int, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("notify.Hub.Broadcast: %w", err)
	}

	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.groups[group]))
	for sub := range h.groups[group] {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	sent := 0
	for _, sub := range subs {
		if err := sub.write(data); err != nil {
			h.remove(group, sub)
			continue
		}
		sent++
	}

	return sent, nil
}

func (h *Hub) Subscribers(group string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.groups[group])
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	var subs []*subscriber
	for group, members := range h.groups {
		for sub := range members {
			subs = append(subs, sub)
		}
		delete(h.groups, group)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.close(websocket.CloseGoingAway, "server shutdown")
	}
}

func (h *Hub) Name() string { return "websocket" }

// Deliver pushes status updates to the organizer. An organizer without open
// sockets is not an error.
func (h *Hub) Deliver(_ context.Context, t Task) error {
	if t.Kind != KindStatusUpdate {
		return nil
	}

	_, err := h.Broadcast(OrganizerGroup(t.OrganizerID), StatusMessage{
		Type:      KindStatusUpdate,
		EventID:   t.EventID,
		Title:     t.EventTitle,
		Status:    t.Status,
		Message:   t.Message,
		Timestamp: t.CreatedAt,
	})
	return err
}
