package listRegistrations

import (
	"context"
	"log/slog"
	"net/http"

	"eventManager/internal/authz"
	"eventManager/internal/http-server/handlers/apierr"
	"eventManager/internal/http-server/middleware/mwauth"
	"eventManager/internal/lib/api/request"
	"eventManager/internal/lib/api/response"
	"eventManager/internal/models"

	"github.com/go-chi/render"
)

type RegistrationsResponse struct {
	response.Response
	Registrations []models.Registration `json:"registrations"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=RegistrationsGetter
type RegistrationsGetter interface {
	Event(ctx context.Context, id int64) (*models.Event, error)
	Registrations(ctx context.Context, eventID int64) ([]models.Registration, error)
}

func New(log *slog.Logger, getter RegistrationsGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.registration.listRegistrations.New"

		log := log.With(slog.String("op", op))

		eventID, err := request.ID(r, "id")
		if err != nil {
			apierr.Render(w, r, log, err, "failed to get registrations")
			return
		}

		event, err := getter.Event(r.Context(), eventID)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to get registrations")
			return
		}

		if err = authz.Check(mwauth.ActorFrom(r.Context()), authz.ViewRegistrations, event); err != nil {
			apierr.Render(w, r, log, err, "failed to get registrations")
			return
		}

		regs, err := getter.Registrations(r.Context(), eventID)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to get registrations")
			return
		}

		log.Info("registrations retrieved", slog.Int64("event_id", eventID), slog.Int("count", len(regs)))

		render.JSON(w, r, RegistrationsResponse{
			Response:      response.OK(),
			Registrations: regs,
		})
	}
}
