package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kpl-l002/Wblog/internal/models"
	services "github.com/kpl-l002/Wblog/internal/services/comment"
	"github.com/kpl-l002/Wblog/internal/storage/repository"
)

// Мок для CommentRepository
type CommentRepoMock struct {
	mock.Mock
}

func (m *CommentRepoMock) CreateComment(ctx context.Context, comment models.Comment) (*models.Comment, error) {
	args := m.Called(ctx, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *CommentRepoMock) ListCommentsByPost(ctx context.Context, postID string, includePending bool) ([]*models.Comment, error) {
	args := m.Called(ctx, postID, includePending)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *CommentRepoMock) UpdateCommentStatus(ctx context.Context, id, status string) (*models.Comment, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *CommentRepoMock) DeleteComment(ctx context.Context, id string) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *CommentRepoMock) CountCommentsByStatus(ctx context.Context) (*models.CommentStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CommentStats), args.Error(1)
}

// fakeCache — кеш в памяти, достаточный для проверки инвалидции.
type fakeCache struct {
	data map[string][]*models.Comment
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]*models.Comment)}
}

func (c *fakeCache) Get(_ context.Context, key string, result any) (bool, error) {
	cached, ok := c.data[key]
	if !ok {
		return false, nil
	}
	*result.(*[]*models.Comment) = cached
	return true, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.data[key] = value.([]*models.Comment)
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func validRequest() models.DummyComment {
	return models.DummyComment{
		PostID:  "p1",
		Author:  "Alice",
		Content: "Nice article!",
	}
}

func TestCommentService_Submit_StatusByRole(t *testing.T) {
	tests := []struct {
		name       string
		callerRole string
		wantStatus string
	}{
		{name: "anonymous submission is pending", callerRole: models.RoleAnonymous, wantStatus: models.CommentStatusPending},
		{name: "user submission is pending", callerRole: models.RoleUser, wantStatus: models.CommentStatusPending},
		{name: "admin submission is approved", callerRole: models.RoleAdmin, wantStatus: models.CommentStatusApproved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(CommentRepoMock)
			repo.On("CreateComment", mock.Anything, mock.MatchedBy(func(c models.Comment) bool {
				return c.Status == tt.wantStatus && c.ID != "" && c.PostID == "p1"
			})).Return(&models.Comment{ID: "c1", PostID: "p1", Status: tt.wantStatus}, nil).Once()

			svc := services.NewCommentService(repo, newFakeCache(), newNoopLogger())
			created, err := svc.Submit(context.Background(), validRequest(), tt.callerRole, "1.2.3.4", "test-agent")
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, created.Status)
			repo.AssertExpectations(t)
		})
	}
}

func TestCommentService_Submit_Validation(t *testing.T) {
	long := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = 'x'
		}
		return string(b)
	}

	tests := []struct {
		name string
		req  models.DummyComment
	}{
		{name: "missing post id", req: models.DummyComment{Author: "A", Content: "hi"}},
		{name: "empty author", req: models.DummyComment{PostID: "p1", Author: "   ", Content: "hi"}},
		{name: "author too long", req: models.DummyComment{PostID: "p1", Author: long(51), Content: "hi"}},
		{name: "empty content", req: models.DummyComment{PostID: "p1", Author: "A", Content: ""}},
		{name: "content too long", req: models.DummyComment{PostID: "p1", Author: "A", Content: long(1001)}},
		{name: "bad email", req: models.DummyComment{PostID: "p1", Author: "A", Content: "hi", Email: "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(CommentRepoMock)
			svc := services.NewCommentService(repo, newFakeCache(), newNoopLogger())

			_, err := svc.Submit(context.Background(), tt.req, models.RoleUser, "", "")
			require.ErrorIs(t, err, services.ErrValidation)
			repo.AssertNotCalled(t, "CreateComment")
		})
	}
}

func TestCommentService_ListForPost_Visibility(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	approved := &models.Comment{ID: "c1", PostID: "p1", Status: models.CommentStatusApproved, CreatedAt: now}
	pending := &models.Comment{ID: "c2", PostID: "p1", Status: models.CommentStatusPending, CreatedAt: now.Add(time.Minute)}

	t.Run("user sees only approved", func(t *testing.T) {
		repo := new(CommentRepoMock)
		repo.On("ListCommentsByPost", mock.Anything, "p1", false).
			Return([]*models.Comment{approved}, nil).Once()

		svc := services.NewCommentService(repo, newFakeCache(), newNoopLogger())
		comments, err := svc.ListForPost(context.Background(), "p1", models.RoleUser)
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, "c1", comments[0].ID)
		repo.AssertExpectations(t)
	})

	t.Run("admin sees everything oldest first", func(t *testing.T) {
		repo := new(CommentRepoMock)
		repo.On("ListCommentsByPost", mock.Anything, "p1", true).
			Return([]*models.Comment{approved, pending}, nil).Once()

		svc := services.NewCommentService(repo, newFakeCache(), newNoopLogger())
		comments, err := svc.ListForPost(context.Background(), "p1", models.RoleAdmin)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "c1", comments[0].ID)
		assert.Equal(t, "c2", comments[1].ID)
		repo.AssertExpectations(t)
	})

	t.Run("admin listing never reads or fills the public cache", func(t *testing.T) {
		repo := new(CommentRepoMock)
		repo.On("ListCommentsByPost", mock.Anything, "p1", true).
			Return([]*models.Comment{approved, pending}, nil).Once()

		cache := newFakeCache()
		svc := services.NewCommentService(repo, cache, newNoopLogger())
		_, err := svc.ListForPost(context.Background(), "p1", models.RoleAdmin)
		require.NoError(t, err)
		assert.Empty(t, cache.data, "pending comments must not leak into the public cache")
	})
}

func TestCommentService_ListForPost_CacheRoundTrip(t *testing.T) {
	approved := &models.Comment{ID: "c1", PostID: "p1", Status: models.CommentStatusApproved}

	repo := new(CommentRepoMock)
	repo.On("ListCommentsByPost", mock.Anything, "p1", false).
		Return([]*models.Comment{approved}, nil).Once()

	cache := newFakeCache()
	svc := services.NewCommentService(repo, cache, newNoopLogger())
	ctx := context.Background()

	// Первый запрос наполняет кеш, второй обслуживается из него.
	_, err := svc.ListForPost(ctx, "p1", models.RoleUser)
	require.NoError(t, err)
	comments, err := svc.ListForPost(ctx, "p1", models.RoleUser)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	repo.AssertNumberOfCalls(t, "ListCommentsByPost", 1)
}

func TestCommentService_Moderate(t *testing.T) {
	tests := []struct {
		name       string
		action     string
		callerRole string
		setupMocks func(r *CommentRepoMock)
		wantErr    error
		wantStatus string
	}{
		{
			name:       "approve",
			action:     services.ActionApprove,
			callerRole: models.RoleAdmin,
			setupMocks: func(r *CommentRepoMock) {
				r.On("UpdateCommentStatus", mock.Anything, "c1", models.CommentStatusApproved).
					Return(&models.Comment{ID: "c1", PostID: "p1", Status: models.CommentStatusApproved}, nil).Once()
			},
			wantStatus: models.CommentStatusApproved,
		},
		{
			name:       "reject",
			action:     services.ActionReject,
			callerRole: models.RoleAdmin,
			setupMocks: func(r *CommentRepoMock) {
				r.On("UpdateCommentStatus", mock.Anything, "c1", models.CommentStatusRejected).
					Return(&models.Comment{ID: "c1", PostID: "p1", Status: models.CommentStatusRejected}, nil).Once()
			},
			wantStatus: models.CommentStatusRejected,
		},
		{
			name:       "delete",
			action:     services.ActionDelete,
			callerRole: models.RoleAdmin,
			setupMocks: func(r *CommentRepoMock) {
				r.On("DeleteComment", mock.Anything, "c1").
					Return(&models.Comment{ID: "c1", PostID: "p1"}, nil).Once()
			},
		},
		{
			name:       "user is forbidden",
			action:     services.ActionApprove,
			callerRole: models.RoleUser,
			setupMocks: func(_ *CommentRepoMock) {},
			wantErr:    services.ErrForbidden,
		},
		{
			name:       "anonymous is forbidden",
			action:     services.ActionDelete,
			callerRole: models.RoleAnonymous,
			setupMocks: func(_ *CommentRepoMock) {},
			wantErr:    services.ErrForbidden,
		},
		{
			name:       "unknown action",
			action:     "promote",
			callerRole: models.RoleAdmin,
			setupMocks: func(_ *CommentRepoMock) {},
			wantErr:    services.ErrUnknownAction,
		},
		{
			name:       "missing comment",
			action:     services.ActionApprove,
			callerRole: models.RoleAdmin,
			setupMocks: func(r *CommentRepoMock) {
				r.On("UpdateCommentStatus", mock.Anything, "c1", models.CommentStatusApproved).
					Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: repository.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(CommentRepoMock)
			tt.setupMocks(repo)
			svc := services.NewCommentService(repo, newFakeCache(), newNoopLogger())

			comment, err := svc.Moderate(context.Background(), "c1", tt.action, tt.callerRole)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.NotNil(t, comment)
				if tt.wantStatus != "" {
					assert.Equal(t, tt.wantStatus, comment.Status)
				}
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestCommentService_Moderate_DeleteIdempotence(t *testing.T) {
	repo := new(CommentRepoMock)
	repo.On("DeleteComment", mock.Anything, "c1").
		Return(&models.Comment{ID: "c1", PostID: "p1"}, nil).Once()
	repo.On("DeleteComment", mock.Anything, "c1").
		Return(nil, repository.ErrNotFound).Once()

	svc := services.NewCommentService(repo, newFakeCache(), newNoopLogger())
	ctx := context.Background()

	first, err := svc.Moderate(ctx, "c1", services.ActionDelete, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "c1", first.ID)

	_, err = svc.Moderate(ctx, "c1", services.ActionDelete, models.RoleAdmin)
	require.ErrorIs(t, err, repository.ErrNotFound)
	repo.AssertExpectations(t)
}

func TestCommentService_Moderate_InvalidatesPublicCache(t *testing.T) {
	approvedBefore := &models.Comment{ID: "c1", PostID: "p1", Status: models.CommentStatusApproved}

	repo := new(CommentRepoMock)
	repo.On("ListCommentsByPost", mock.Anything, "p1", false).
		Return([]*models.Comment{approvedBefore}, nil).Once()
	repo.On("UpdateCommentStatus", mock.Anything, "c2", models.CommentStatusApproved).
		Return(&models.Comment{ID: "c2", PostID: "p1", Status: models.CommentStatusApproved}, nil).Once()
	repo.On("ListCommentsByPost", mock.Anything, "p1", false).
		Return([]*models.Comment{approvedBefore, {ID: "c2", PostID: "p1", Status: models.CommentStatusApproved}}, nil).Once()

	cache := newFakeCache()
	svc := services.NewCommentService(repo, cache, newNoopLogger())
	ctx := context.Background()

	_, err := svc.ListForPost(ctx, "p1", models.RoleUser)
	require.NoError(t, err)

	// Одобрение нового комментария сбрасывает публичный кеш,
	// следующий запрос видит свежую выборку.
	_, err = svc.Moderate(ctx, "c2", services.ActionApprove, models.RoleAdmin)
	require.NoError(t, err)

	comments, err := svc.ListForPost(ctx, "p1", models.RoleUser)
	require.NoError(t, err)
	assert.Len(t, comments, 2)
	repo.AssertExpectations(t)
}

func TestCommentService_Stats(t *testing.T) {
	repo := new(CommentRepoMock)
	repo.On("CountCommentsByStatus", mock.Anything).
		Return(&models.CommentStats{Total: 5, Approved: 2, Pending: 2, Rejected: 1}, nil).Once()

	svc := services.NewCommentService(repo, newFakeCache(), newNoopLogger())

	stats, err := svc.Stats(context.Background(), models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Total)

	_, err = svc.Stats(context.Background(), models.RoleUser)
	require.ErrorIs(t, err, services.ErrForbidden)
	repo.AssertExpectations(t)
}
