package getEventInfo

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"eventManager/internal/authz"
	"eventManager/internal/http-server/handlers/apierr"
	"eventManager/internal/http-server/middleware/mwauth"
	"eventManager/internal/lib/api/request"
	"eventManager/internal/lib/api/response"
	"eventManager/internal/lib/logger/sl"
	"eventManager/internal/models"
	"eventManager/internal/storage"

	"github.com/go-chi/render"
)

type EventInfoResponse struct {
	response.Response
	Event      *models.Event      `json:"event"`
	Rejections []models.Rejection `json:"rejections,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventGetter
type EventGetter interface {
	Event(ctx context.Context, id int64) (*models.Event, error)
	IncrementViews(ctx context.Context, id int64) error
	Rejections(ctx context.Context, eventID int64) ([]models.Rejection, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ViewTracker
type ViewTracker interface {
	FirstView(ctx context.Context, eventID int64, viewer string) (bool, error)
}

// New returns event details. Unpublished events are only visible to their
// organizer and to admins; views of published events are counted once per
// viewer.
func New(log *slog.Logger, info EventGetter, views ViewTracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.getEventInfo.New"

		log := log.With(slog.String("op", op))

		eventID, err := request.ID(r, "id")
		if err != nil {
			apierr.Render(w, r, log, err, "failed to get event information")
			return
		}

		log = log.With(slog.Int64("event_id", eventID))

		event, err := info.Event(r.Context(), eventID)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to get event information")
			return
		}

		actor := mwauth.ActorFrom(r.Context())
		privileged := canSeeUnpublished(actor, event)

		if event.Status != models.StatusPublished && !privileged {
			apierr.Render(w, r, log, storage.ErrEventNotFound, "failed to get event information")
			return
		}

		if event.Status == models.StatusPublished {
			countView(r, log, info, views, actor, event)
		}

		var rejections []models.Rejection
		if event.Status == models.StatusRejected {
			if rejections, err = info.Rejections(r.Context(), eventID); err != nil {
				apierr.Render(w, r, log, err, "failed to get event information")
				return
			}
		}

		log.Info("event info successfully received")

		responseOK(w, r, event, rejections)
	}
}

func canSeeUnpublished(actor models.Actor, event *models.Event) bool {
	return authz.Check(actor, authz.ManageEvent, event) == nil ||
		authz.Check(actor, authz.ReviewEvents, event) == nil
}

// countView failures never fail the request.
func countView(r *http.Request, log *slog.Logger, info EventGetter, views ViewTracker, actor models.Actor, event *models.Event) {
	first, err := views.FirstView(r.Context(), event.ID, viewer(r, actor))
	if err != nil {
		log.Warn("failed to track view", sl.Err(err))
		return
	}
	if !first {
		return
	}

	if err = info.IncrementViews(r.Context(), event.ID); err != nil {
		log.Warn("failed to count view", sl.Err(err))
		return
	}
	event.ViewsCount++
}

func viewer(r *http.Request, actor models.Actor) string {
	if !actor.Anonymous() {
		return "user:" + strconv.FormatInt(actor.UserID, 10)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

func responseOK(w http.ResponseWriter, r *http.Request, event *models.Event, rejections []models.Rejection) {
	render.JSON(w, r, EventInfoResponse{
		Response:   response.OK(),
		Event:      event,
		Rejections: rejections,
	})
}
