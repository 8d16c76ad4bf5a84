package statusFeed

import (
	"log/slog"
	"net/http"

	"eventManager/internal/authz"
	"eventManager/internal/http-server/handlers/apierr"
	"eventManager/internal/http-server/middleware/mwauth"
	"eventManager/internal/lib/logger/sl"
	"eventManager/internal/notify"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Subscriber
type Subscriber interface {
	Serve(w http.ResponseWriter, r *http.Request, group string) error
}

// New subscribes an organizer to status updates of their own events.
func New(log *slog.Logger, sub Subscriber) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ws.statusFeed.New"

		log := log.With(slog.String("op", op))

		actor := mwauth.ActorFrom(r.Context())
		if err := authz.Check(actor, authz.CreateEvent, nil); err != nil {
			apierr.Render(w, r, log, err, "failed to open status feed")
			return
		}

		// the upgrader has already answered the client on failure
		if err := sub.Serve(w, r, notify.OrganizerGroup(actor.UserID)); err != nil {
			log.Error("websocket upgrade failed", sl.Err(err))
		}
	}
}
