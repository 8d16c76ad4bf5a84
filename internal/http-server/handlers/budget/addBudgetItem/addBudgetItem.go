package addBudgetItem

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"eventManager/internal/authz"
	"eventManager/internal/http-server/handlers/apierr"
	"eventManager/internal/http-server/middleware/mwauth"
	"eventManager/internal/lib/api/request"
	"eventManager/internal/lib/api/response"
	"eventManager/internal/lib/logger/sl"
	"eventManager/internal/models"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type ItemRequest struct {
	Category    models.BudgetCategory `json:"category" validate:"required,oneof=venue catering decor program other"`
	Description string                `json:"description" validate:"required,max=255"`
	Amount      float64               `json:"amount" validate:"gt=0,lte=1000000000"`
}

type ItemResponse struct {
	response.Response
	Item *models.BudgetItem `json:"item"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BudgetItemAdder
type BudgetItemAdder interface {
	Event(ctx context.Context, id int64) (*models.Event, error)
	AddBudgetItem(ctx context.Context, eventID int64, item models.BudgetItem) (*models.BudgetItem, error)
}

func New(log *slog.Logger, adder BudgetItemAdder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.budget.addBudgetItem.New"

		log := log.With(slog.String("op", op))

		eventID, err := request.ID(r, "id")
		if err != nil {
			apierr.Render(w, r, log, err, "failed to add budget item")
			return
		}

		var req ItemRequest

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

		event, err := adder.Event(r.Context(), eventID)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to add budget item")
			return
		}

		if err = authz.Check(mwauth.ActorFrom(r.Context()), authz.ManageEvent, event); err != nil {
			apierr.Render(w, r, log, err, "failed to add budget item")
			return
		}

		item, err := adder.AddBudgetItem(r.Context(), eventID, models.BudgetItem{
			Category:    req.Category,
			Description: strings.TrimSpace(req.Description),
			Amount:      req.Amount,
		})
		if err != nil {
			apierr.Render(w, r, log, err, "failed to add budget item")
			return
		}

		log.Info("budget item added", slog.Int64("event_id", eventID), slog.Int64("item_id", item.ID))

		render.JSON(w, r, ItemResponse{
			Response: response.OK(),
			Item:     item,
		})
	}
}
