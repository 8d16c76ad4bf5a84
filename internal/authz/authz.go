// Package authz decides whether an actor may perform an operation on an event.
package authz

import (
	"errors"

	"eventManager/internal/models"
)

var (
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("authentication required")
)

type Capability string

const (
	CreateEvent       Capability = "create_event"
	ManageEvent       Capability = "manage_event"
	SubmitEvent       Capability = "submit_event"
	CancelEvent       Capability = "cancel_event"
	ApproveEvent      Capability = "approve_event"
	RejectEvent       Capability = "reject_event"
	ReviewEvents      Capability = "review_events"
	ManageUsers       Capability = "manage_users"
	ViewRegistrations Capability = "view_registrations"
	ViewAnalytics     Capability = "view_analytics"
	ViewBudget        Capability = "view_budget"
)

type rule struct {
	roles []models.Role
	// owner requires the actor to be the event's organizer.
	owner bool
	// adminBypass lets an admin through even when owner is set.
	adminBypass bool
}

var rules = map[Capability]rule{
	CreateEvent:       {roles: []models.Role{models.RoleOrganizer}},
	ManageEvent:       {roles: []models.Role{models.RoleOrganizer}, owner: true},
	SubmitEvent:       {roles: []models.Role{models.RoleOrganizer}, owner: true},
	CancelEvent:       {roles: []models.Role{models.RoleOrganizer}, owner: true},
	ApproveEvent:      {roles: []models.Role{models.RoleAdmin}},
	RejectEvent:       {roles: []models.Role{models.RoleAdmin}},
	ReviewEvents:      {roles: []models.Role{models.RoleAdmin}},
	ManageUsers:       {roles: []models.Role{models.RoleAdmin}},
	ViewRegistrations: {roles: []models.Role{models.RoleOrganizer, models.RoleAdmin}, owner: true, adminBypass: true},
	ViewAnalytics:     {roles: []models.Role{models.RoleOrganizer, models.RoleAdmin}, owner: true, adminBypass: true},
	ViewBudget:        {roles: []models.Role{models.RoleOrganizer, models.RoleAdmin}, owner: true, adminBypass: true},
}

// Check returns nil when actor holds capability c. event may be nil for
// capabilities that are not tied to a single event.
func Check(actor models.Actor, c Capability, event *models.Event) error {
	r, ok := rules[c]
	if !ok {
		return ErrForbidden
	}

	if actor.Anonymous() {
		return ErrUnauthenticated
	}

	if !hasRole(actor.Role, r.roles) {
		return ErrForbidden
	}

	if !r.owner {
		return nil
	}

	if r.adminBypass && actor.Role == models.RoleAdmin {
		return nil
	}

	if event == nil || event.OrganizerID != actor.UserID {
		return ErrForbidden
	}

	return nil
}

func hasRole(role models.Role, allowed []models.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
