package read

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kpl-l002/Wblog/internal/http/middlewarectx"
	"github.com/kpl-l002/Wblog/internal/models"
	"github.com/kpl-l002/Wblog/internal/storage/repository"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Get(ctx context.Context, id, callerRole string) (*models.Post, error) {
	args := m.Called(ctx, id, callerRole)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		postID         string
		ctxRole        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "успешное чтение статьи",
			postID: "p1",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, "p1", models.RoleAnonymous).
					Return(&models.Post{ID: "p1", Title: "Hello", Status: models.PostStatusPublished}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"title":"Hello"`,
		},
		{
			name:    "черновик доступен администратору",
			postID:  "p2",
			ctxRole: models.RoleAdmin,
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, "p2", models.RoleAdmin).
					Return(&models.Post{ID: "p2", Title: "WIP", Status: models.PostStatusDraft}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"draft"`,
		},
		{
			name:   "черновик скрыт от посетителя",
			postID: "p2",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, "p2", models.RoleAnonymous).
					Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"post not found"`,
		},
		{
			name:   "ошибка сервиса",
			postID: "p1",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, "p1", models.RoleAnonymous).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"could not read post"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/posts/"+tt.postID, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.postID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.ctxRole != "" {
				ctx = context.WithValue(ctx, middlewarectx.Role, tt.ctxRole)
			}
			req = req.WithContext(ctx)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
