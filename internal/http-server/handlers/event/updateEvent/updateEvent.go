package updateEvent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"eventManager/internal/authz"
	"eventManager/internal/http-server/handlers/apierr"
	"eventManager/internal/http-server/handlers/event/eventinput"
	"eventManager/internal/http-server/middleware/mwauth"
	"eventManager/internal/lib/api/request"
	"eventManager/internal/lib/api/response"
	"eventManager/internal/lib/logger/sl"
	"eventManager/internal/lifecycle"
	"eventManager/internal/models"
	"eventManager/internal/notify"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventUpdater
type EventUpdater interface {
	Event(ctx context.Context, id int64) (*models.Event, error)
	UpdateEvent(ctx context.Context, id int64, d models.EventDetails) error
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Notifier
type Notifier interface {
	Enqueue(ctx context.Context, t notify.Task) error
}

// New edits an event that is not closed. Attendees of a published event are
// notified of the change.
func New(log *slog.Logger, updater EventUpdater, notifier Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.updateEvent.New"

		log := log.With(
			slog.String("op", op),
		)

		eventID, err := request.ID(r, "id")
		if err != nil {
			apierr.Render(w, r, log, err, "failed to update event")
			return
		}

		log = log.With(slog.Int64("event_id", eventID))

		var req eventinput.Request

		if err = render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))

			return
		}

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))

			return
		}

		details, err := req.Details(time.Now())
		if err != nil {
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))

			return
		}

		event, err := updater.Event(r.Context(), eventID)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to update event")
			return
		}

		if err = authz.Check(mwauth.ActorFrom(r.Context()), authz.ManageEvent, event); err != nil {
			apierr.Render(w, r, log, err, "failed to update event")
			return
		}

		if err = lifecycle.CheckEditable(event); err != nil {
			apierr.Render(w, r, log, err, "failed to update event")
			return
		}

		if err = updater.UpdateEvent(r.Context(), eventID, details); err != nil {
			apierr.Render(w, r, log, err, "failed to update event")
			return
		}

		log.Info("event updated")

		if event.Status == models.StatusPublished {
			event.Title = details.Title
			if err = notifier.Enqueue(r.Context(), notify.NewTask(notify.KindEventUpdated, event, "")); err != nil {
				log.Error("failed to enqueue notification", sl.Err(err))
			}
		}

		render.JSON(w, r, response.OK())
	}
}
