package models

import "time"

type Registration struct {
	ID           int64     `json:"id"`
	EventID      int64     `json:"event_id"`
	UserID       *int64    `json:"user_id,omitempty"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	RegisteredAt time.Time `json:"registered_at"`
	Answers      []Answer  `json:"answers,omitempty"`
}

type Answer struct {
	FieldID int64     `json:"field_id"`
	Label   string    `json:"label,omitempty"`
	Type    FieldType `json:"type,omitempty"`
	Value   Value     `json:"value"`
}

type NewRegistration struct {
	EventID   int64
	UserID    *int64
	Email     string
	FirstName string
	LastName  string
	Answers   []Answer
}
