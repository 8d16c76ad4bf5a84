package deleteBudgetItem

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"eventManager/internal/http-server/handlers/budget/deleteBudgetItem/mocks"
	"eventManager/internal/http-server/middleware/mwauth"
	"eventManager/internal/lib/logger/handlers/slogdiscard"
	"eventManager/internal/models"
	"eventManager/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDeleteBudgetItemHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	owner := models.Actor{UserID: 3, Role: models.RoleOrganizer}
	event := &models.Event{ID: 1, OrganizerID: 3}

	testCases := []struct {
		name           string
		path           string
		mockSetup      func(m *mocks.BudgetItemDeleter)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Deleted",
			path: "/events/1/budget/items/4",
			mockSetup: func(m *mocks.BudgetItemDeleter) {
				m.On("Event", mock.Anything, int64(1)).Return(event, nil)
				m.On("DeleteBudgetItem", mock.Anything, int64(1), int64(4)).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK"}`,
		},
		{
			name: "Item of another event",
			path: "/events/1/budget/items/9",
			mockSetup: func(m *mocks.BudgetItemDeleter) {
				m.On("Event", mock.Anything, int64(1)).Return(event, nil)
				m.On("DeleteBudgetItem", mock.Anything, int64(1), int64(9)).Return(storage.ErrBudgetItemNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"budget item not found"}`,
		},
		{
			name:           "Bad item id",
			path:           "/events/1/budget/items/x",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid id format"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			deleter := mocks.NewBudgetItemDeleter(t)
			if tc.mockSetup != nil {
				tc.mockSetup(deleter)
			}

			router := chi.NewRouter()
			router.Delete("/events/{id}/budget/items/{itemID}", New(logger, deleter))

			req := httptest.NewRequest(http.MethodDelete, tc.path, nil)
			req = req.WithContext(mwauth.WithActor(req.Context(), owner))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}
