package createEvent

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventManager/internal/http-server/handlers/event/createEvent/mocks"
	"eventManager/internal/http-server/middleware/mwauth"
	"eventManager/internal/lib/logger/handlers/slogdiscard"
	"eventManager/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateEventHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	organizer := models.Actor{UserID: 3, Role: models.RoleOrganizer}
	start := time.Date(2099, 5, 1, 18, 0, 0, 0, time.UTC)

	valid := `{
		"title": "Go Meetup",
		"category": "meetup",
		"start_at": "2099-05-01T18:00:00Z",
		"end_at": "2099-05-01T21:00:00Z",
		"venue": "Main hall",
		"capacity": 40
	}`

	testCases := []struct {
		name           string
		actor          models.Actor
		requestBody    string
		mockSetup      func(m *mocks.EventCreator)
		expectedStatus int
		expectedBody   string
		checkBody      func(t *testing.T, body string)
	}{
		{
			name:        "Success",
			actor:       organizer,
			requestBody: valid,
			mockSetup: func(m *mocks.EventCreator) {
				m.On("CreateEvent", mock.Anything, int64(3), models.EventDetails{
					Title:    "Go Meetup",
					Category: models.CategoryMeetup,
					StartAt:  start,
					EndAt:    start.Add(3 * time.Hour),
					Venue:    "Main hall",
					Capacity: 40,
				}).Return(int64(123), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","event_id":123,"event_status":"draft"}`,
		},
		{
			name:           "Anonymous",
			requestBody:    valid,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"authentication required"}`,
		},
		{
			name:           "Attendee",
			actor:          models.Actor{UserID: 9, Role: models.RoleAttendee},
			requestBody:    valid,
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"forbidden"}`,
		},
		{
			name:           "Invalid JSON",
			actor:          organizer,
			requestBody:    `invalid json`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode request"}`,
		},
		{
			name:  "Missing title",
			actor: organizer,
			requestBody: `{
				"category": "meetup",
				"start_at": "2099-05-01T18:00:00Z",
				"end_at": "2099-05-01T21:00:00Z",
				"venue": "Main hall"
			}`,
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"status":"Error"`)
				assert.Contains(t, body, "Title")
			},
		},
		{
			name:  "End before start",
			actor: organizer,
			requestBody: `{
				"title": "Go Meetup",
				"category": "meetup",
				"start_at": "2099-05-01T18:00:00Z",
				"end_at": "2099-05-01T17:00:00Z",
				"venue": "Main hall"
			}`,
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, "EndAt")
			},
		},
		{
			name:  "Start in the past",
			actor: organizer,
			requestBody: `{
				"title": "Go Meetup",
				"category": "meetup",
				"start_at": "2001-05-01T18:00:00Z",
				"end_at": "2001-05-01T21:00:00Z",
				"venue": "Main hall"
			}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"start time must be in the future"}`,
		},
		{
			name:        "Internal server error",
			actor:       organizer,
			requestBody: valid,
			mockSetup: func(m *mocks.EventCreator) {
				m.On("CreateEvent", mock.Anything, int64(3), mock.Anything).Return(int64(0), errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to add event"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockCreator := mocks.NewEventCreator(t)
			if tc.mockSetup != nil {
				tc.mockSetup(mockCreator)
			}

			handler := New(logger, mockCreator)

			req, err := http.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(tc.requestBody))
			require.NoError(t, err)
			req = req.WithContext(mwauth.WithActor(req.Context(), tc.actor))

			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
			} else if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.String())
			}
		})
	}
}

func TestResponseOK(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	responseOK(rr, req, 456)

	assert.Equal(t, http.StatusOK, rr.Code)

	var actualResponse EventResponse
	err := json.Unmarshal(rr.Body.Bytes(), &actualResponse)
	require.NoError(t, err)

	assert.Equal(t, "OK", actualResponse.Status)
	assert.Equal(t, int64(456), actualResponse.EventID)
}
