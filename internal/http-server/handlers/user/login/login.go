package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"eventManager/internal/http-server/handlers/apierr"
	"eventManager/internal/lib/api/response"
	"eventManager/internal/lib/auth"
	"eventManager/internal/lib/logger/sl"
	"eventManager/internal/models"
	"eventManager/internal/storage"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	response.Response
	Token string      `json:"token"`
	Role  models.Role `json:"role"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=UserProvider
type UserProvider interface {
	UserByUsername(ctx context.Context, username string) (*models.User, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=TokenIssuer
type TokenIssuer interface {
	Issue(u *models.User) (string, error)
}

func New(log *slog.Logger, users UserProvider, tokens TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.login.New"

		log := log.With(slog.String("op", op))

		var req LoginRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err := validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		user, err := users.UserByUsername(r.Context(), req.Username)
		if errors.Is(err, storage.ErrUserNotFound) {
			err = auth.ErrInvalidCredentials
		}
		if err != nil {
			apierr.Render(w, r, log, err, "failed to log in")
			return
		}

		if err = auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
			apierr.Render(w, r, log, err, "failed to log in")
			return
		}

		token, err := tokens.Issue(user)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to log in")
			return
		}

		log.Info("user logged in", slog.Int64("user_id", user.ID))

		render.JSON(w, r, LoginResponse{
			Response: response.OK(),
			Token:    token,
			Role:     user.Role,
		})
	}
}
