package models

import "time"

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleOrganizer Role = "organizer"
	RoleAttendee  Role = "attendee"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOrganizer, RoleAttendee:
		return true
	}
	return false
}

type User struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	ContactNumber string    `json:"contact_number,omitempty"`
	Role          Role      `json:"role"`
	PasswordHash  string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// Actor is the authenticated caller of a request. The zero value is an
// anonymous attendee.
type Actor struct {
	UserID int64
	Role   Role
}

func (a Actor) Anonymous() bool {
	return a.UserID == 0
}

type UserFilter struct {
	Email string
	Role  Role
	// Month of registration, 1..12; 0 means any.
	Month int
}
