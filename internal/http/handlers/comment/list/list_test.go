package list

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
)

// MockService реализует интерфейс list.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ListForPost(ctx context.Context, postID, callerRole string) ([]*models.Comment, error) {
	args := m.Called(ctx, postID, callerRole)
	comments, _ := args.Get(0).([]*models.Comment)
	return comments, args.Error(1)
}

func TestListHandler(t *testing.T) {
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
			name:   "анонимный запрос получает одобренные комментарии",
			postID: "p1",
			setupMock: func(m *MockService) {
				m.On("ListForPost", mock.Anything, "p1", models.RoleAnonymous).
					Return([]*models.Comment{{ID: "c1", PostID: "p1", Status: models.CommentStatusApproved}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"count":1`,
		},
		{
			name:    "администратору передается его роль",
			postID:  "p1",
			ctxRole: models.RoleAdmin,
			setupMock: func(m *MockService) {
				m.On("ListForPost", mock.Anything, "p1", models.RoleAdmin).
					Return([]*models.Comment{
						{ID: "c1", Status: models.CommentStatusApproved},
						{ID: "c2", Status: models.CommentStatusPending},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"count":2`,
		},
		{
			name:   "ошибка сервиса",
			postID: "p1",
			setupMock: func(m *MockService) {
				m.On("ListForPost", mock.Anything, "p1", models.RoleAnonymous).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"could not list comments"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/posts/"+tt.postID+"/comments", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("post_id", tt.postID)
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
