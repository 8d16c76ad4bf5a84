package listUsers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"eventManager/internal/authz"
	"eventManager/internal/http-server/handlers/apierr"
	"eventManager/internal/http-server/middleware/mwauth"
	"eventManager/internal/lib/api/response"
	"eventManager/internal/models"

	"github.com/go-chi/render"
)

type UsersResponse struct {
	response.Response
	Users []models.User `json:"users"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=UsersGetter
type UsersGetter interface {
	ListUsers(ctx context.Context, filter models.UserFilter) ([]models.User, error)
}

func New(log *slog.Logger, getter UsersGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.listUsers.New"

		log := log.With(slog.String("op", op))

		if err := authz.Check(mwauth.ActorFrom(r.Context()), authz.ManageUsers, nil); err != nil {
			apierr.Render(w, r, log, err, "failed to list users")
			return
		}

		q := r.URL.Query()

		filter := models.UserFilter{
			Email: q.Get("email"),
			Role:  models.Role(q.Get("role")),
		}

		if filter.Role != "" && !filter.Role.Valid() {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid role"))
			return
		}

		if month := q.Get("month"); month != "" {
			m, err := strconv.Atoi(month)
			if err != nil || m < 1 || m > 12 {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("month must be between 1 and 12"))
				return
			}
			filter.Month = m
		}

		users, err := getter.ListUsers(r.Context(), filter)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to list users")
			return
		}

		render.JSON(w, r, UsersResponse{
			Response: response.OK(),
			Users:    users,
		})
	}
}
