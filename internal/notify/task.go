// Package notify delivers event notifications asynchronously: status updates
// to the organizer's websocket feed, e-mails and webhooks.
package notify

import (
	"context"
	"time"

	"eventManager/internal/models"

	"github.com/google/uuid"
)

type Kind string

const (
	KindStatusUpdate Kind = "event_status_update"
	KindEventUpdated Kind = "event_updated"
)

type Task struct {
	ID          string        `json:"id"`
	Kind        Kind          `json:"kind"`
	EventID     int64         `json:"event_id"`
	EventTitle  string        `json:"event_title"`
	OrganizerID int64         `json:"organizer_id"`
	Status      models.Status `json:"status"`
	Message     string        `json:"message,omitempty"`
	// Target restricts delivery to one deliverer; empty means all of them.
	Target    string    `json:"target,omitempty"`
	Attempt   int       `json:"attempt"`
	CreatedAt time.Time `json:"created_at"`
}

func NewTask(kind Kind, event *models.Event, message string) Task {
	return Task{
		ID:          uuid.New().String(),
		Kind:        kind,
		EventID:     event.ID,
		EventTitle:  event.Title,
		OrganizerID: event.OrganizerID,
		Status:      event.Status,
		Message:     message,
		Attempt:     1,
		CreatedAt:   time.Now().UTC(),
	}
}

// Enqueuer accepts tasks for later delivery.
type Enqueuer interface {
	Enqueue(ctx context.Context, t Task) error
}

type Deliverer interface {
	Name() string
	Deliver(ctx context.Context, t Task) error
}
