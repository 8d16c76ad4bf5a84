package getForm

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
	"eventManager/internal/models"
	"eventManager/internal/storage"

	"github.com/go-chi/render"
)

type FormResponse struct {
	response.Response
	Form *forms.Schema `json:"form"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=FieldGetter
type FieldGetter interface {
	Event(ctx context.Context, id int64) (*models.Event, error)
	Fields(ctx context.Context, eventID int64) ([]models.FormField, error)
}

// New renders the registration form of an event. Forms of unpublished events
// are only shown to their organizer.
func New(log *slog.Logger, getter FieldGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.form.getForm.New"

		log := log.With(slog.String("op", op))

		eventID, err := request.ID(r, "id")
		if err != nil {
			apierr.Render(w, r, log, err, "failed to get form")
			return
		}

		event, err := getter.Event(r.Context(), eventID)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to get form")
			return
		}

		if event.Status != models.StatusPublished &&
			authz.Check(mwauth.ActorFrom(r.Context()), authz.ManageEvent, event) != nil {
			apierr.Render(w, r, log, storage.ErrEventNotFound, "failed to get form")
			return
		}

		fields, err := getter.Fields(r.Context(), eventID)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to get form")
			return
		}

		render.JSON(w, r, FormResponse{
			Response: response.OK(),
			Form:     forms.Build(eventID, fields),
		})
	}
}
