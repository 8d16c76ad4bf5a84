package mwauth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"eventManager/internal/lib/api/response"
	"eventManager/internal/lib/auth"
	"eventManager/internal/lib/logger/sl"
	"eventManager/internal/models"

	"github.com/go-chi/render"
	"github.com/gorilla/websocket"
)

type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

type ctxKey struct{}

// New resolves the caller from a bearer token or, for websocket clients, the
// token query parameter. Requests without a token continue as anonymous; an
// invalid token is rejected.
func New(log *slog.Logger, parser TokenParser) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		log := log.With(
			slog.String("component", "middleware/auth"),
		)

		log.Info("auth middleware enabled")

		fn := func(w http.ResponseWriter, r *http.Request) {
			token := tokenFrom(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := parser.Parse(token)
			if err == nil {
				var actor models.Actor
				if actor, err = claims.Actor(); err == nil {
					next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
					return
				}
			}

			log.Warn("rejected token", sl.Err(err), slog.String("path", r.URL.Path))
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid token"))
		}

		return http.HandlerFunc(fn)
	}
}

// Require rejects anonymous requests.
func Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ActorFrom(r.Context()).Anonymous() {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func tokenFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return h
	}
	// browsers cannot set headers on websocket handshakes
	if websocket.IsWebSocketUpgrade(r) {
		return r.URL.Query().Get("token")
	}
	return ""
}

func WithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, actor)
}

// ActorFrom returns the caller stored by New, or the anonymous actor.
func ActorFrom(ctx context.Context) models.Actor {
	actor, _ := ctx.Value(ctxKey{}).(models.Actor)
	return actor
}
