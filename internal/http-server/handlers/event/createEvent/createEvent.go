package createEvent

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
	"eventManager/internal/lib/api/response"
	"eventManager/internal/lib/logger/sl"
	"eventManager/internal/models"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type EventResponse struct {
	response.Response
	EventID int64         `json:"event_id"`
	Status  models.Status `json:"event_status"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventCreator
type EventCreator interface {
	CreateEvent(ctx context.Context, organizerID int64, d models.EventDetails) (int64, error)
}

func New(log *slog.Logger, event EventCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.createEvent.New"

		log := log.With(
			slog.String("op", op),
		)

		actor := mwauth.ActorFrom(r.Context())
		if err := authz.Check(actor, authz.CreateEvent, nil); err != nil {
			apierr.Render(w, r, log, err, "failed to add event")
			return
		}

		var req eventinput.Request

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))

			return
		}

		log.Info("request body decoded", slog.Any("request", req))

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

		eventID, err := event.CreateEvent(r.Context(), actor.UserID, details)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to add event")
			return
		}

		log.Info("event added", slog.Int64("id", eventID))

		responseOK(w, r, eventID)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, eventID int64) {
	render.JSON(w, r, EventResponse{
		Response: response.OK(),
		EventID:  eventID,
		Status:   models.StatusDraft,
	})
}
