// Package apierr renders domain errors as HTTP error responses.
package apierr

import (
	"errors"
	"log/slog"
	"net/http"

	"eventManager/internal/authz"
	"eventManager/internal/forms"
	"eventManager/internal/lib/api/request"
	"eventManager/internal/lib/api/response"
	"eventManager/internal/lib/auth"
	"eventManager/internal/lib/logger/sl"
	"eventManager/internal/lifecycle"
	"eventManager/internal/storage"

	"github.com/go-chi/render"
)

type mapping struct {
	err    error
	status int
	msg    string
}

var mappings = []mapping{
	{request.ErrMissingID, http.StatusBadRequest, ""},
	{request.ErrInvalidID, http.StatusBadRequest, ""},

	{authz.ErrUnauthenticated, http.StatusUnauthorized, ""},
	{authz.ErrForbidden, http.StatusForbidden, ""},
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, ""},

	{storage.ErrEventNotFound, http.StatusNotFound, ""},
	{storage.ErrUserNotFound, http.StatusNotFound, ""},
	{storage.ErrBudgetItemNotFound, http.StatusNotFound, ""},
	{storage.ErrUserExists, http.StatusConflict, ""},
	{storage.ErrDuplicateRegistration, http.StatusConflict, ""},
	{storage.ErrStatusChanged, http.StatusConflict, ""},
	{storage.ErrFieldNotFound, http.StatusBadRequest, ""},
	{storage.ErrValueKindMismatch, http.StatusBadRequest, ""},

	{lifecycle.ErrNotPublished, http.StatusConflict, "cannot register: "},
	{lifecycle.ErrDeadlinePassed, http.StatusConflict, "cannot register: "},
	{lifecycle.ErrCapacityExceeded, http.StatusConflict, "cannot register: "},
	{lifecycle.ErrInvalidTransition, http.StatusConflict, ""},
	{lifecycle.ErrEventClosed, http.StatusConflict, ""},
	{lifecycle.ErrEventStarted, http.StatusConflict, ""},
	{lifecycle.ErrReasonRequired, http.StatusBadRequest, ""},
	{lifecycle.ErrUnknownAction, http.StatusBadRequest, ""},
}

// Render writes the response for err. Errors outside the domain taxonomy are
// logged and reported as internalMsg with status 500.
func Render(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, internalMsg string) {
	var verrs forms.ValidationErrors
	if errors.As(err, &verrs) {
		log.Info("submission rejected", slog.Int("fields", len(verrs)))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.FieldErrors("validation failed", verrs))
		return
	}

	var cerr *forms.ConfigurationError
	if errors.As(err, &cerr) {
		log.Info("invalid field configuration", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(cerr.Error()))
		return
	}

	for _, m := range mappings {
		if errors.Is(err, m.err) {
			log.Info("request refused", sl.Err(err))
			render.Status(r, m.status)
			render.JSON(w, r, response.Error(m.msg+m.err.Error()))
			return
		}
	}

	log.Error(internalMsg, sl.Err(err))
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, response.Error(internalMsg))
}
