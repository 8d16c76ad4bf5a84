package transitionEvent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventManager/internal/http-server/handlers/apierr"
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

type TransitionRequest struct {
	Action  lifecycle.Action `json:"action" validate:"required,oneof=submit approve reject cancel"`
	Message string           `json:"message" validate:"max=2000"`
}

type TransitionResponse struct {
	response.Response
	EventID int64         `json:"event_id"`
	Status  models.Status `json:"event_status"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=StatusChanger
type StatusChanger interface {
	Event(ctx context.Context, id int64) (*models.Event, error)
	SetStatus(ctx context.Context, id int64, from, to models.Status, rejection *models.Rejection) error
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Notifier
type Notifier interface {
	Enqueue(ctx context.Context, t notify.Task) error
}

// New moves an event along the lifecycle. The organizer is notified once the
// change is committed; notification failures do not fail the request.
func New(log *slog.Logger, events StatusChanger, notifier Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.transitionEvent.New"

		log := log.With(slog.String("op", op))

		eventID, err := request.ID(r, "id")
		if err != nil {
			apierr.Render(w, r, log, err, "failed to change event status")
			return
		}

		log = log.With(slog.Int64("event_id", eventID))

		var req TransitionRequest

		err = render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		log.Info("request body decoded", slog.Any("request", req))

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			if errors.As(err, &validateErr) {
				log.Error("invalid request", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ValidationError(validateErr))
				return
			}
		}

		event, err := events.Event(r.Context(), eventID)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to change event status")
			return
		}

		actor := mwauth.ActorFrom(r.Context())
		message := strings.TrimSpace(req.Message)
		now := time.Now()

		to, err := lifecycle.Apply(actor, event, req.Action, message, now)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to change event status")
			return
		}

		var rejection *models.Rejection
		if to == models.StatusRejected {
			rejection = &models.Rejection{
				EventID:   eventID,
				AdminID:   actor.UserID,
				Message:   message,
				CreatedAt: now.UTC(),
			}
		}

		if err = events.SetStatus(r.Context(), eventID, event.Status, to, rejection); err != nil {
			apierr.Render(w, r, log, err, "failed to change event status")
			return
		}

		log.Info("event status changed",
			slog.String("action", string(req.Action)),
			slog.String("from", string(event.Status)),
			slog.String("to", string(to)),
		)

		event.Status = to
		if err = notifier.Enqueue(r.Context(), notify.NewTask(notify.KindStatusUpdate, event, message)); err != nil {
			log.Error("failed to enqueue notification", sl.Err(err))
		}

		responseOK(w, r, eventID, to)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, eventID int64, status models.Status) {
	render.JSON(w, r, TransitionResponse{
		Response: response.OK(),
		EventID:  eventID,
		Status:   status,
	})
}
