package models

import "time"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusPublished Status = "published"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

type Category string

const (
	CategoryConference Category = "conference"
	CategoryWorkshop   Category = "workshop"
	CategorySeminar    Category = "seminar"
	CategoryMeetup     Category = "meetup"
	CategoryConcert    Category = "concert"
	CategorySports     Category = "sports"
	CategoryOther      Category = "other"
)

type Event struct {
	ID                   int64     `json:"id"`
	OrganizerID          int64     `json:"organizer_id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	Category             Category  `json:"category"`
	Status               Status    `json:"status"`
	StartAt              time.Time `json:"start_at"`
	EndAt                time.Time `json:"end_at"`
	IsOnline             bool      `json:"is_online"`
	Venue                string    `json:"venue,omitempty"`
	OnlineURL            string    `json:"online_url,omitempty"`
	Capacity             int       `json:"capacity"`
	RegistrationDeadline time.Time `json:"registration_deadline"`
	ViewsCount           int       `json:"views_count"`
	RegisteredCount      int       `json:"registered_count"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// EventDetails is the mutable part of an event, shared by create and edit.
type EventDetails struct {
	Title                string
	Description          string
	Category             Category
	StartAt              time.Time
	EndAt                time.Time
	IsOnline             bool
	Venue                string
	OnlineURL            string
	Capacity             int
	RegistrationDeadline time.Time
}

type Rejection struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	AdminID   int64     `json:"admin_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type EventScope string

const (
	ScopeUpcoming  EventScope = "upcoming"
	ScopeReview    EventScope = "review"
	ScopeOrganizer EventScope = "organizer"
)

type EventFilter struct {
	Scope       EventScope
	OrganizerID int64
	Now         time.Time
	Limit       int
	Offset      int
}
