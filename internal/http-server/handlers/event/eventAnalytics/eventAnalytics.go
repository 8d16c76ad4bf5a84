package eventAnalytics

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

type AnalyticsResponse struct {
	response.Response
	Analytics *models.Analytics `json:"analytics"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=AnalyticsProvider
type AnalyticsProvider interface {
	Event(ctx context.Context, id int64) (*models.Event, error)
	Analytics(ctx context.Context, eventID int64) (*models.Analytics, error)
}

func New(log *slog.Logger, provider AnalyticsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.eventAnalytics.New"

		log := log.With(slog.String("op", op))

		eventID, err := request.ID(r, "id")
		if err != nil {
			apierr.Render(w, r, log, err, "failed to get analytics")
			return
		}

		event, err := provider.Event(r.Context(), eventID)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to get analytics")
			return
		}

		if err = authz.Check(mwauth.ActorFrom(r.Context()), authz.ViewAnalytics, event); err != nil {
			apierr.Render(w, r, log, err, "failed to get analytics")
			return
		}

		analytics, err := provider.Analytics(r.Context(), eventID)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to get analytics")
			return
		}

		render.JSON(w, r, AnalyticsResponse{
			Response:  response.OK(),
			Analytics: analytics,
		})
	}
}
