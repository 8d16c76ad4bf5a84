// Package lifecycle holds the event status state machine and the rules that
// gate registration.
package lifecycle

import (
	"errors"
	"strings"
	"time"

	"eventManager/internal/authz"
	"eventManager/internal/models"
)

type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionCancel  Action = "cancel"
)

var (
	ErrUnknownAction     = errors.New("unknown action")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrReasonRequired    = errors.New("rejection reason is required")
	ErrEventStarted      = errors.New("event has already started")
	ErrEventClosed       = errors.New("event is closed")

	ErrNotPublished     = errors.New("event is not published")
	ErrDeadlinePassed   = errors.New("registration deadline has passed")
	ErrCapacityExceeded = errors.New("event is full")
)

type edge struct {
	from       models.Status
	to         models.Status
	capability authz.Capability
}

var edges = map[Action]edge{
	ActionSubmit:  {from: models.StatusDraft, to: models.StatusPending, capability: authz.SubmitEvent},
	ActionApprove: {from: models.StatusPending, to: models.StatusPublished, capability: authz.ApproveEvent},
	ActionReject:  {from: models.StatusPending, to: models.StatusRejected, capability: authz.RejectEvent},
	ActionCancel:  {from: models.StatusPublished, to: models.StatusCancelled, capability: authz.CancelEvent},
}

func (a Action) Valid() bool {
	_, ok := edges[a]
	return ok
}

// Apply authorizes actor for action on event and returns the status the
// event moves to. The event itself is not modified.
func Apply(actor models.Actor, event *models.Event, action Action, reason string, now time.Time) (models.Status, error) {
	e, ok := edges[action]
	if !ok {
		return "", ErrUnknownAction
	}

	if err := authz.Check(actor, e.capability, event); err != nil {
		return "", err
	}

	if event.Status != e.from {
		return "", ErrInvalidTransition
	}

	switch action {
	case ActionReject:
		if strings.TrimSpace(reason) == "" {
			return "", ErrReasonRequired
		}
	case ActionCancel:
		if !event.StartAt.After(now) {
			return "", ErrEventStarted
		}
	}

	return e.to, nil
}

func IsTerminal(s models.Status) bool {
	return s == models.StatusRejected || s == models.StatusCancelled
}

// CheckEditable rejects changes to events in a terminal state.
func CheckEditable(event *models.Event) error {
	if IsTerminal(event.Status) {
		return ErrEventClosed
	}
	return nil
}

// CheckRegistration reports why a new registration cannot be accepted, given
// the number of registrations the event already has.
func CheckRegistration(event *models.Event, registered int, now time.Time) error {
	if event.Status != models.StatusPublished {
		return ErrNotPublished
	}

	deadline := event.RegistrationDeadline
	if deadline.IsZero() {
		deadline = event.StartAt
	}
	if now.After(deadline) {
		return ErrDeadlinePassed
	}

	if event.Capacity > 0 && registered >= event.Capacity {
		return ErrCapacityExceeded
	}

	return nil
}
