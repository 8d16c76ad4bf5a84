package createUser

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventManager/internal/http-server/handlers/user/createUser/mocks"
	"eventManager/internal/http-server/middleware/mwauth"
	"eventManager/internal/lib/auth"
	"eventManager/internal/lib/logger/handlers/slogdiscard"
	"eventManager/internal/models"
	"eventManager/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func userWith(role models.Role) interface{} {
	return mock.MatchedBy(func(u models.User) bool {
		return u.Username == "ann" &&
			u.Email == "Ann@Example.com" &&
			u.Role == role &&
			auth.CheckPassword(u.PasswordHash, "secret123") == nil
	})
}

func TestCreateUserHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	admin := models.Actor{UserID: 1, Role: models.RoleAdmin}

	testCases := []struct {
		name           string
		signup         bool
		actor          models.Actor
		requestBody    string
		mockSetup      func(m *mocks.UserCreator)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "Admin creates organizer",
			actor:       admin,
			requestBody: `{"username":"ann","email":"Ann@Example.com","first_name":"Ann","last_name":"Lee","password":"secret123","role":"organizer"}`,
			mockSetup: func(m *mocks.UserCreator) {
				m.On("CreateUser", mock.Anything, userWith(models.RoleOrganizer)).Return(int64(7), nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"status":"OK","user_id":7}`,
		},
		{
			name:        "Admin default role",
			actor:       admin,
			requestBody: `{"username":"ann","email":"Ann@Example.com","first_name":"Ann","last_name":"Lee","password":"secret123"}`,
			mockSetup: func(m *mocks.UserCreator) {
				m.On("CreateUser", mock.Anything, userWith(models.RoleAttendee)).Return(int64(8), nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"status":"OK","user_id":8}`,
		},
		{
			name:           "Organizer cannot create users",
			actor:          models.Actor{UserID: 2, Role: models.RoleOrganizer},
			requestBody:    `{}`,
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"forbidden"}`,
		},
		{
			name:        "Signup ignores requested role",
			signup:      true,
			requestBody: `{"username":"ann","email":"Ann@Example.com","first_name":"Ann","last_name":"Lee","password":"secret123","role":"admin"}`,
			mockSetup: func(m *mocks.UserCreator) {
				m.On("CreateUser", mock.Anything, userWith(models.RoleOrganizer)).Return(int64(9), nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"status":"OK","user_id":9}`,
		},
		{
			name:        "Duplicate username",
			signup:      true,
			requestBody: `{"username":"ann","email":"Ann@Example.com","first_name":"Ann","last_name":"Lee","password":"secret123"}`,
			mockSetup: func(m *mocks.UserCreator) {
				m.On("CreateUser", mock.Anything, userWith(models.RoleOrganizer)).Return(int64(0), storage.ErrUserExists)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"user already exists"}`,
		},
		{
			name:           "Invalid email",
			signup:         true,
			requestBody:    `{"username":"ann","email":"nope","first_name":"Ann","last_name":"Lee","password":"secret123"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"field Email is not a valid email"}`,
		},
		{
			name:           "Short password",
			signup:         true,
			requestBody:    `{"username":"ann","email":"a@b.co","first_name":"Ann","last_name":"Lee","password":"short"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"field Password must be at least 8"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			creator := mocks.NewUserCreator(t)
			if tc.mockSetup != nil {
				tc.mockSetup(creator)
			}

			h := New(logger, creator, bcrypt.MinCost)
			if tc.signup {
				h = NewSignup(logger, creator, bcrypt.MinCost)
			}

			router := chi.NewRouter()
			router.Post("/users", h)

			req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(tc.requestBody))
			req = req.WithContext(mwauth.WithActor(req.Context(), tc.actor))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}
