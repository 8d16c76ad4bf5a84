package eventAnalytics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"eventManager/internal/http-server/handlers/event/eventAnalytics/mocks"
	"eventManager/internal/http-server/middleware/mwauth"
	"eventManager/internal/lib/logger/handlers/slogdiscard"
	"eventManager/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestEventAnalyticsHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	event := &models.Event{ID: 1, OrganizerID: 3, Status: models.StatusPublished}
	analytics := &models.Analytics{
		EventID:            1,
		TotalViews:         3,
		TotalRegistrations: 2,
		ConversionRate:     66.7,
		RegistrationsOverTime: []models.DailyCount{
			{Date: "2099-01-01", Count: 2},
		},
	}

	testCases := []struct {
		name           string
		actor          models.Actor
		mockSetup      func(m *mocks.AnalyticsProvider)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "Organizer",
			actor: models.Actor{UserID: 3, Role: models.RoleOrganizer},
			mockSetup: func(m *mocks.AnalyticsProvider) {
				m.On("Event", mock.Anything, int64(1)).Return(event, nil)
				m.On("Analytics", mock.Anything, int64(1)).Return(analytics, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"status":"OK","analytics":{"event_id":1,"total_views":3,"total_registrations":2,
				"conversion_rate":66.7,"registrations_over_time":[{"date":"2099-01-01","count":2}]}}`,
		},
		{
			name:  "Admin",
			actor: models.Actor{UserID: 1, Role: models.RoleAdmin},
			mockSetup: func(m *mocks.AnalyticsProvider) {
				m.On("Event", mock.Anything, int64(1)).Return(event, nil)
				m.On("Analytics", mock.Anything, int64(1)).Return(analytics, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"status":"OK","analytics":{"event_id":1,"total_views":3,"total_registrations":2,
				"conversion_rate":66.7,"registrations_over_time":[{"date":"2099-01-01","count":2}]}}`,
		},
		{
			name:  "Other organizer",
			actor: models.Actor{UserID: 4, Role: models.RoleOrganizer},
			mockSetup: func(m *mocks.AnalyticsProvider) {
				m.On("Event", mock.Anything, int64(1)).Return(event, nil)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"forbidden"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			provider := mocks.NewAnalyticsProvider(t)
			tc.mockSetup(provider)

			router := chi.NewRouter()
			router.Get("/events/{id}/analytics", New(logger, provider))

			req := httptest.NewRequest(http.MethodGet, "/events/1/analytics", nil)
			req = req.WithContext(mwauth.WithActor(req.Context(), tc.actor))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}
