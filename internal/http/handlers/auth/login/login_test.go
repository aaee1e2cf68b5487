package login

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kpl-l002/Wblog/internal/models"
	services "github.com/kpl-l002/Wblog/internal/services/auth"
)

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, clientID, identifier, rawPassword string) (string, *models.User, error) {
	args := m.Called(ctx, clientID, identifier, rawPassword)
	user, _ := args.Get(1).(*models.User)
	return args.String(0), user, args.Error(2)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешный вход",
			body: `{"identifier": "alice", "password": "password1"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "203.0.113.7", "alice", "password1").
					Return("signed-token", &models.User{UID: "u1", Username: "alice", Role: models.RoleUser}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"token":"signed-token"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"identifier": `,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid request body"`,
		},
		{
			name:           "пустой пароль",
			body:           `{"identifier": "alice", "password": ""}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Password is a required field`,
		},
		{
			name: "неверные учетные данные",
			body: `{"identifier": "alice", "password": "wrongpass1"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "203.0.113.7", "alice", "wrongpass1").
					Return("", nil, services.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"invalid credentials"`,
		},
		{
			name: "блокировка за перебор",
			body: `{"identifier": "alice", "password": "wrongpass1"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "203.0.113.7", "alice", "wrongpass1").
					Return("", nil, &services.RateLimitedError{RetryAfterMinutes: 15})
			},
			expectedStatus: http.StatusTooManyRequests,
			expectedBody:   `"time_left":"15 minutes"`,
		},
		{
			name: "ошибка сервиса",
			body: `{"identifier": "alice", "password": "password1"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "203.0.113.7", "alice", "password1").
					Return("", nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"internal server error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body))
			req.Header.Set("X-Forwarded-For", "203.0.113.7")
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}

func TestLoginHandler_ClientIPFromRemoteAddr(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	mockService := new(MockService)
	mockService.On("Login", mock.Anything, "192.0.2.1", "alice", "password1").
		Return("signed-token", &models.User{UID: "u1", Username: "alice", Role: models.RoleUser}, nil)

	handler := New(logger, mockService)

	// Без X-Forwarded-For идентификатором клиента служит RemoteAddr.
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"identifier": "alice", "password": "password1"}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}
