package register

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"eventManager/internal/forms"
	"eventManager/internal/http-server/handlers/apierr"
	"eventManager/internal/http-server/middleware/mwauth"
	"eventManager/internal/lib/api/request"
	"eventManager/internal/lib/api/response"
	"eventManager/internal/lib/logger/sl"
	"eventManager/internal/lifecycle"
	"eventManager/internal/models"

	"github.com/go-chi/render"
)

type RegistrationResponse struct {
	response.Response
	RegistrationID int64 `json:"registration_id"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Registrar
type Registrar interface {
	Event(ctx context.Context, id int64) (*models.Event, error)
	Fields(ctx context.Context, eventID int64) ([]models.FormField, error)
	Register(ctx context.Context, reg models.NewRegistration) (int64, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=FileStore
type FileStore interface {
	Save(original string, r io.Reader) (models.FileValue, error)
	Remove(path string) error
}

// New accepts a registration as JSON or multipart form data. Attachments are
// stored only after the whole submission validates and are removed again when
// the registration cannot be written.
func New(log *slog.Logger, registrar Registrar, files FileStore, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.registration.register.New"

		log := log.With(slog.String("op", op))

		eventID, err := request.ID(r, "id")
		if err != nil {
			apierr.Render(w, r, log, err, "failed to register")
			return
		}

		log = log.With(slog.Int64("event_id", eventID))

		event, err := registrar.Event(r.Context(), eventID)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to register")
			return
		}

		// the gate is checked again under lock when the registration is written
		if err = lifecycle.CheckRegistration(event, event.RegisteredCount, time.Now()); err != nil {
			apierr.Render(w, r, log, err, "failed to register")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		sub, err := decodeSubmission(r, maxBytes)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				log.Warn("request body too large", sl.Err(err))
				render.Status(r, http.StatusRequestEntityTooLarge)
				render.JSON(w, r, response.Error("request body too large"))
				return
			}
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}
		if r.MultipartForm != nil {
			defer r.MultipartForm.RemoveAll()
		}

		fields, err := registrar.Fields(r.Context(), eventID)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to register")
			return
		}

		cleaned, err := forms.Build(eventID, fields).Validate(sub)
		if err != nil {
			apierr.Render(w, r, log, err, "failed to register")
			return
		}

		saved, err := storeAttachments(files, cleaned)
		if err != nil {
			removeFiles(log, files, saved)
			log.Error("failed to store attachment", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to store attachment"))
			return
		}

		reg := models.NewRegistration{
			EventID:   eventID,
			Email:     cleaned.Email,
			FirstName: cleaned.FirstName,
			LastName:  cleaned.LastName,
			Answers:   cleaned.Answers,
		}
		if actor := mwauth.ActorFrom(r.Context()); !actor.Anonymous() {
			userID := actor.UserID
			reg.UserID = &userID
		}

		id, err := registrar.Register(r.Context(), reg)
		if err != nil {
			removeFiles(log, files, saved)
			apierr.Render(w, r, log, err, "failed to register")
			return
		}

		log.Info("registration created", slog.Int64("registration_id", id))

		responseOK(w, r, id)
	}
}

// storeAttachments saves every attachment of cleaned and fills in the file
// answers. It returns the paths saved so far, also on error.
func storeAttachments(files FileStore, cleaned *forms.Cleaned) ([]string, error) {
	var saved []string

	for i, ans := range cleaned.Answers {
		att := cleaned.Files[ans.FieldID]
		if att == nil {
			continue
		}

		fv, err := saveAttachment(files, att)
		if err != nil {
			return saved, err
		}
		saved = append(saved, fv.Path)
		cleaned.Answers[i].Value = fv
	}

	return saved, nil
}

func saveAttachment(files FileStore, att *forms.Attachment) (models.FileValue, error) {
	rc, err := att.Open()
	if err != nil {
		return models.FileValue{}, err
	}
	defer rc.Close()

	return files.Save(att.Filename, rc)
}

func removeFiles(log *slog.Logger, files FileStore, paths []string) {
	for _, p := range paths {
		if err := files.Remove(p); err != nil {
			log.Error("failed to remove attachment", slog.String("path", p), sl.Err(err))
		}
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, id int64) {
	render.JSON(w, r, RegistrationResponse{
		Response:       response.OK(),
		RegistrationID: id,
	})
}
