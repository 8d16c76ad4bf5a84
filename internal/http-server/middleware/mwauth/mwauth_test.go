package mwauth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventManager/internal/lib/auth"
	"eventManager/internal/lib/logger/handlers/slogdiscard"
	"eventManager/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()

	tokens := auth.NewTokens("secret", time.Hour)
	token, err := tokens.Issue(&models.User{ID: 5, Username: "org", Role: models.RoleOrganizer})
	require.NoError(t, err)

	testCases := []struct {
		name           string
		header         string
		query          string
		upgrade        bool
		expectedStatus int
		expectedActor  models.Actor
	}{
		{
			name:           "Anonymous",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Bearer token",
			header:         "Bearer " + token,
			expectedStatus: http.StatusOK,
			expectedActor:  models.Actor{UserID: 5, Role: models.RoleOrganizer},
		},
		{
			name:           "Query token on websocket handshake",
			query:          "?token=" + token,
			upgrade:        true,
			expectedStatus: http.StatusOK,
			expectedActor:  models.Actor{UserID: 5, Role: models.RoleOrganizer},
		},
		{
			name:           "Query token on plain request is ignored",
			query:          "?token=" + token,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid token",
			header:         "Bearer nope",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var got models.Actor
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = ActorFrom(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/events"+tc.query, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.upgrade {
				req.Header.Set("Connection", "Upgrade")
				req.Header.Set("Upgrade", "websocket")
			}
			rr := httptest.NewRecorder()

			New(slogdiscard.NewDiscardLogger(), tokens)(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectedActor, got)
		})
	}
}

func TestRequire(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	rr := httptest.NewRecorder()
	Require(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"status":"Error","error":"authentication required"}`, rr.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithActor(req.Context(), models.Actor{UserID: 1, Role: models.RoleAdmin}))
	rr = httptest.NewRecorder()
	Require(next).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
