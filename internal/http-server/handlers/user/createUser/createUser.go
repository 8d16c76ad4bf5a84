package createUser

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"eventManager/internal/authz"
	"eventManager/internal/http-server/handlers/apierr"
	"eventManager/internal/http-server/middleware/mwauth"
	"eventManager/internal/lib/api/response"
	"eventManager/internal/lib/auth"
	"eventManager/internal/lib/logger/sl"
	"eventManager/internal/models"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type UserRequest struct {
	Username      string      `json:"username" validate:"required,min=3,max=50"`
	Email         string      `json:"email" validate:"required,email"`
	FirstName     string      `json:"first_name" validate:"required,max=100"`
	LastName      string      `json:"last_name" validate:"required,max=100"`
	ContactNumber string      `json:"contact_number" validate:"omitempty,max=20"`
	Password      string      `json:"password" validate:"required,min=8,max=72"`
	Role          models.Role `json:"role" validate:"omitempty,oneof=admin organizer attendee"`
}

type UserResponse struct {
	response.Response
	UserID int64 `json:"user_id"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=UserCreator
type UserCreator interface {
	CreateUser(ctx context.Context, u models.User) (int64, error)
}

// New creates an account of any role on behalf of an admin. An empty role
// defaults to attendee.
func New(log *slog.Logger, creator UserCreator, cost int) http.HandlerFunc {
	return handler(log, creator, cost, false)
}

// NewSignup is the public registration endpoint. Accounts created through it
// are always organizers.
func NewSignup(log *slog.Logger, creator UserCreator, cost int) http.HandlerFunc {
	return handler(log, creator, cost, true)
}

func handler(log *slog.Logger, creator UserCreator, cost int, signup bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.createUser.New"

		log := log.With(slog.String("op", op))

		if !signup {
			if err := authz.Check(mwauth.ActorFrom(r.Context()), authz.ManageUsers, nil); err != nil {
				apierr.Render(w, r, log, err, "failed to create user")
				return
			}
		}

		var req UserRequest

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

		role := req.Role
		switch {
		case signup:
			role = models.RoleOrganizer
		case role == "":
			role = models.RoleAttendee
		}

		hash, err := auth.HashPassword(req.Password, cost)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to create user")
			return
		}

		id, err := creator.CreateUser(r.Context(), models.User{
			Username:      strings.TrimSpace(req.Username),
			Email:         req.Email,
			FirstName:     strings.TrimSpace(req.FirstName),
			LastName:      strings.TrimSpace(req.LastName),
			ContactNumber: strings.TrimSpace(req.ContactNumber),
			Role:          role,
			PasswordHash:  hash,
		})
		if err != nil {
			apierr.Render(w, r, log, err, "failed to create user")
			return
		}

		log.Info("user created", slog.Int64("user_id", id), slog.String("role", string(role)))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, UserResponse{
			Response: response.OK(),
			UserID:   id,
		})
	}
}
