package getAllEvents

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"eventManager/internal/authz"
	"eventManager/internal/http-server/handlers/apierr"
	"eventManager/internal/http-server/middleware/mwauth"
	"eventManager/internal/lib/api/request"
	"eventManager/internal/lib/api/response"
	"eventManager/internal/models"

	"github.com/go-chi/render"
)

const PageSize = 8

type EventsResponse struct {
	response.Response
	Events []models.Event `json:"events"`
	Page   int            `json:"page,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventsGetter
type EventsGetter interface {
	ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
}

// New lists events of one scope: upcoming published events for everyone
// (paginated), the caller's own events for organizers or the review queue for
// admins.
func New(log *slog.Logger, eventsGetter EventsGetter, scope models.EventScope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.getAllEvents.New"

		log := log.With(
			slog.String("op", op),
			slog.String("scope", string(scope)),
		)

		filter := models.EventFilter{Scope: scope, Now: time.Now()}
		actor := mwauth.ActorFrom(r.Context())

		var page int

		switch scope {
		case models.ScopeUpcoming:
			page = request.Page(r)
			filter.Limit = PageSize
			filter.Offset = (page - 1) * PageSize
		case models.ScopeOrganizer:
			if err := authz.Check(actor, authz.CreateEvent, nil); err != nil {
				apierr.Render(w, r, log, err, "failed to get events")
				return
			}
			filter.OrganizerID = actor.UserID
		case models.ScopeReview:
			if err := authz.Check(actor, authz.ReviewEvents, nil); err != nil {
				apierr.Render(w, r, log, err, "failed to get events")
				return
			}
		}

		events, err := eventsGetter.ListEvents(r.Context(), filter)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to get events")
			return
		}

		log.Info("events retrieved successfully", slog.Int("count", len(events)))

		responseOK(w, r, events, page)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, events []models.Event, page int) {
	render.JSON(w, r, EventsResponse{
		Response: response.OK(),
		Events:   events,
		Page:     page,
	})
}
