package getBudget

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

type BudgetResponse struct {
	response.Response
	Budget *models.Budget `json:"budget"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BudgetGetter
type BudgetGetter interface {
	Event(ctx context.Context, id int64) (*models.Event, error)
	Budget(ctx context.Context, eventID int64) (*models.Budget, error)
}

func New(log *slog.Logger, getter BudgetGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.budget.getBudget.New"

		log := log.With(slog.String("op", op))

		eventID, err := request.ID(r, "id")
		if err != nil {
			apierr.Render(w, r, log, err, "failed to get budget")
			return
		}

		event, err := getter.Event(r.Context(), eventID)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to get budget")
			return
		}

		if err = authz.Check(mwauth.ActorFrom(r.Context()), authz.ViewBudget, event); err != nil {
			apierr.Render(w, r, log, err, "failed to get budget")
			return
		}

		budget, err := getter.Budget(r.Context(), eventID)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to get budget")
			return
		}

		render.JSON(w, r, BudgetResponse{
			Response: response.OK(),
			Budget:   budget,
		})
	}
}
