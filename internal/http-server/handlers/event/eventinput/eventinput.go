// Package eventinput decodes the event body shared by the create and edit
// handlers.
package eventinput

import (
	"errors"
	"strings"
	"time"

	"eventManager/internal/models"
)

var (
	ErrStartInPast        = errors.New("start time must be in the future")
	ErrDeadlineAfterStart = errors.New("registration deadline must not be after the event starts")
	ErrTitleLineBreak     = errors.New("title must be a single line")
)

type Request struct {
	Title                string          `json:"title" validate:"required,max=200"`
	Description          string          `json:"description" validate:"max=5000"`
	Category             models.Category `json:"category" validate:"required,oneof=conference workshop seminar meetup concert sports other"`
	StartAt              time.Time       `json:"start_at" validate:"required"`
	EndAt                time.Time       `json:"end_at" validate:"required,gtfield=StartAt"`
	IsOnline             bool            `json:"is_online"`
	Venue                string          `json:"venue" validate:"required_unless=IsOnline true,max=300"`
	OnlineURL            string          `json:"online_url" validate:"required_if=IsOnline true,omitempty,url"`
	Capacity             int             `json:"capacity" validate:"gte=0"`
	RegistrationDeadline *time.Time      `json:"registration_deadline"`
}

// Details checks the rules the struct tags cannot express and converts the
// request. Times are normalized to UTC.
func (r Request) Details(now time.Time) (models.EventDetails, error) {
	// titles end up in mail subjects
	if strings.ContainsAny(r.Title, "\r\n") {
		return models.EventDetails{}, ErrTitleLineBreak
	}

	if !r.StartAt.After(now) {
		return models.EventDetails{}, ErrStartInPast
	}

	d := models.EventDetails{
		Title:       strings.TrimSpace(r.Title),
		Description: strings.TrimSpace(r.Description),
		Category:    r.Category,
		StartAt:     r.StartAt.UTC(),
		EndAt:       r.EndAt.UTC(),
		IsOnline:    r.IsOnline,
		Capacity:    r.Capacity,
	}

	if r.IsOnline {
		d.OnlineURL = strings.TrimSpace(r.OnlineURL)
	} else {
		d.Venue = strings.TrimSpace(r.Venue)
	}

	if r.RegistrationDeadline != nil {
		if r.RegistrationDeadline.After(r.StartAt) {
			return models.EventDetails{}, ErrDeadlineAfterStart
		}
		d.RegistrationDeadline = r.RegistrationDeadline.UTC()
	}

	return d, nil
}
