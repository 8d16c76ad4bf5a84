package defineFields

import (
	"context"
	"log/slog"
	"net/http"

	"eventManager/internal/authz"
	"eventManager/internal/forms"
	"eventManager/internal/http-server/handlers/apierr"
	"eventManager/internal/http-server/middleware/mwauth"
	"eventManager/internal/lib/api/request"
	"eventManager/internal/lib/api/response"
	"eventManager/internal/lib/logger/sl"
	"eventManager/internal/lifecycle"
	"eventManager/internal/models"

	"github.com/go-chi/render"
)

type FieldsRequest struct {
	Fields []forms.FieldInput `json:"fields"`
}

type FieldsResponse struct {
	response.Response
	Fields []models.FormField `json:"fields"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=FieldDefiner
type FieldDefiner interface {
	Event(ctx context.Context, id int64) (*models.Event, error)
	NextFieldOrder(ctx context.Context, eventID int64) (int, error)
	AddFields(ctx context.Context, fields []models.FormField) ([]models.FormField, error)
}

// New appends registration fields to an event. Either all descriptors are
// stored or none.
func New(log *slog.Logger, definer FieldDefiner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.form.defineFields.New"

		log := log.With(slog.String("op", op))

		eventID, err := request.ID(r, "id")
		if err != nil {
			apierr.Render(w, r, log, err, "failed to define fields")
			return
		}

		log = log.With(slog.Int64("event_id", eventID))

		var req FieldsRequest
		if err = render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		event, err := definer.Event(r.Context(), eventID)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to define fields")
			return
		}

		if err = authz.Check(mwauth.ActorFrom(r.Context()), authz.ManageEvent, event); err != nil {
			apierr.Render(w, r, log, err, "failed to define fields")
			return
		}

		if err = lifecycle.CheckEditable(event); err != nil {
			apierr.Render(w, r, log, err, "failed to define fields")
			return
		}

		next, err := definer.NextFieldOrder(r.Context(), eventID)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to define fields")
			return
		}

		fields, err := forms.Define(eventID, req.Fields, next)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to define fields")
			return
		}

		stored, err := definer.AddFields(r.Context(), fields)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to define fields")
			return
		}

		log.Info("fields defined", slog.Int("count", len(stored)))

		render.JSON(w, r, FieldsResponse{
			Response: response.OK(),
			Fields:   stored,
		})
	}
}
