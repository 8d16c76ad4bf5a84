package deleteBudgetItem

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

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BudgetItemDeleter
type BudgetItemDeleter interface {
	Event(ctx context.Context, id int64) (*models.Event, error)
	DeleteBudgetItem(ctx context.Context, eventID, itemID int64) error
}

func New(log *slog.Logger, deleter BudgetItemDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.budget.deleteBudgetItem.New"

		log := log.With(slog.String("op", op))

		eventID, err := request.ID(r, "id")
		if err != nil {
			apierr.Render(w, r, log, err, "failed to delete budget item")
			return
		}

		itemID, err := request.ID(r, "itemID")
		if err != nil {
			apierr.Render(w, r, log, err, "failed to delete budget item")
			return
		}

		event, err := deleter.Event(r.Context(), eventID)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to delete budget item")
			return
		}

		if err = authz.Check(mwauth.ActorFrom(r.Context()), authz.ManageEvent, event); err != nil {
			apierr.Render(w, r, log, err, "failed to delete budget item")
			return
		}

		if err = deleter.DeleteBudgetItem(r.Context(), eventID, itemID); err != nil {
			apierr.Render(w, r, log, err, "failed to delete budget item")
			return
		}

		log.Info("budget item deleted", slog.Int64("event_id", eventID), slog.Int64("item_id", itemID))

		render.JSON(w, r, response.OK())
	}
}
