package getBudget

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventManager/internal/http-server/handlers/budget/getBudget/mocks"
	"eventManager/internal/http-server/middleware/mwauth"
	"eventManager/internal/lib/logger/handlers/slogdiscard"
	"eventManager/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGetBudgetHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	event := &models.Event{ID: 1, OrganizerID: 3}
	at := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)

	budget := &models.Budget{
		ID:      2,
		EventID: 1,
		Total:   35.75,
		Subtotals: map[models.BudgetCategory]float64{
			models.BudgetVenue:    15.25,
			models.BudgetCatering: 20.5,
		},
		Items: []models.BudgetItem{
			{ID: 1, BudgetID: 2, Category: models.BudgetVenue, Description: "Hall", Amount: 10, CreatedAt: at},
			{ID: 2, BudgetID: 2, Category: models.BudgetCatering, Description: "Lunch", Amount: 20.5, CreatedAt: at},
			{ID: 3, BudgetID: 2, Category: models.BudgetVenue, Description: "Chairs", Amount: 5.25, CreatedAt: at},
		},
		UpdatedAt: at,
	}

	testCases := []struct {
		name           string
		actor          models.Actor
		mockSetup      func(m *mocks.BudgetGetter)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "Organizer",
			actor: models.Actor{UserID: 3, Role: models.RoleOrganizer},
			mockSetup: func(m *mocks.BudgetGetter) {
				m.On("Event", mock.Anything, int64(1)).Return(event, nil)
				m.On("Budget", mock.Anything, int64(1)).Return(budget, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"status":"OK","budget":{"id":2,"event_id":1,"total":35.75,
				"subtotals":{"venue":15.25,"catering":20.5},
				"items":[
					{"id":1,"budget_id":2,"category":"venue","description":"Hall","amount":10,"created_at":"2099-01-01T00:00:00Z"},
					{"id":2,"budget_id":2,"category":"catering","description":"Lunch","amount":20.5,"created_at":"2099-01-01T00:00:00Z"},
					{"id":3,"budget_id":2,"category":"venue","description":"Chairs","amount":5.25,"created_at":"2099-01-01T00:00:00Z"}
				],
				"updated_at":"2099-01-01T00:00:00Z"}}`,
		},
		{
			name: "Anonymous",
			mockSetup: func(m *mocks.BudgetGetter) {
				m.On("Event", mock.Anything, int64(1)).Return(event, nil)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"authentication required"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			getter := mocks.NewBudgetGetter(t)
			tc.mockSetup(getter)

			router := chi.NewRouter()
			router.Get("/events/{id}/budget", New(logger, getter))

			req := httptest.NewRequest(http.MethodGet, "/events/1/budget", nil)
			req = req.WithContext(mwauth.WithActor(req.Context(), tc.actor))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}
