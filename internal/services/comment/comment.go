// Package services содержит бизнес-логику жизненного цикла комментариев:
// приём, модерацию и выдачу с учётом роли вызывающего.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kpl-l002/Wblog/internal/lib/sl"
	"github.com/kpl-l002/Wblog/internal/models"
)

// Ошибки бизнес-уровня модерации.
var (
	// ErrForbidden — операция доступна только администратору.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation — комментарий не прошёл структурные проверки.
	ErrValidation = errors.New("validation failed")
	// ErrUnknownAction — неизвестное действие модерации.
	ErrUnknownAction = errors.New("unknown moderation action")
)

// Действия модерации.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionDelete  = "delete"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CommentRepository определяет методы для работы с комментариями в хранилище.
type CommentRepository interface {
	// CreateComment сохраняет новый комментарий.
	CreateComment(ctx context.Context, comment models.Comment) (*models.Comment, error)
	// ListCommentsByPost возвращает комментарии статьи по возрастанию времени создания.
	ListCommentsByPost(ctx context.Context, postID string, includePending bool) ([]*models.Comment, error)
	// UpdateCommentStatus переводит комментарий в новый статус.
	UpdateCommentStatus(ctx context.Context, id, status string) (*models.Comment, error)
	// DeleteComment удаляет комментарий, повторное удаление возвращает ErrNotFound.
	DeleteComment(ctx context.Context, id string) (*models.Comment, error)
	// CountCommentsByStatus возвращает сводку по статусам.
	CountCommentsByStatus(ctx context.Context) (*models.CommentStats, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// CommentService реализует правила видимости и переходы статусов комментариев.
// В кеш попадает только публичная (одобренная) выборка: pending и rejected
// не должны утекать неадминистраторам ни по какому пути.
type CommentService struct {
	repo  CommentRepository
	cache Cache
	log   *slog.Logger
}

// NewCommentService создает новый экземпляр CommentService.
func NewCommentService(repo CommentRepository, cache Cache, log *slog.Logger) *CommentService {
	return &CommentService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Submit принимает новый комментарий. Комментарий администратора сразу
// получает статус approved, остальные ждут модерации в pending.
// ParentID не проверяется — это непрозрачная ссылка для построения веток.
func (s *CommentService) Submit(ctx context.Context, req models.DummyComment, callerRole, ip, userAgent string) (*models.Comment, error) {
	if err := validateSubmission(req); err != nil {
		return nil, err
	}

	status := models.CommentStatusPending
	if callerRole == models.RoleAdmin {
		status = models.CommentStatusApproved
	}

	comment := models.Comment{
		ID:        uuid.New().String(),
		PostID:    req.PostID,
		Author:    strings.TrimSpace(req.Author),
		Email:     req.Email,
		Content:   strings.TrimSpace(req.Content),
		ParentID:  req.ParentID,
		Status:    status,
		IP:        ip,
		UserAgent: userAgent,
	}

	created, err := s.repo.CreateComment(ctx, comment)
	if err != nil {
		return nil, err
	}
	s.log.Info("comment submitted",
		slog.String("id", created.ID),
		slog.String("post_id", created.PostID),
		slog.String("status", created.Status),
		sl.Role(callerRole))

	s.invalidatePublic(ctx, created.PostID)
	return created, nil
}

// ListForPost возвращает комментарии статьи, старые первыми.
// Администратор видит все статусы, остальные — только approved.
func (s *CommentService) ListForPost(ctx context.Context, postID, callerRole string) ([]*models.Comment, error) {
	if callerRole == models.RoleAdmin {
		return s.repo.ListCommentsByPost(ctx, postID, true)
	}

	cacheKey := publicCacheKey(postID)
	var cached []*models.Comment
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read comments cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	comments, err := s.repo.ListCommentsByPost(ctx, postID, false)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cacheKey, comments, time.Hour); err != nil {
		s.log.Warn("failed to cache comments", slog.String("key", cacheKey), sl.Err(err))
	}
	return comments, nil
}

// Moderate выполняет действие модерации над комментарием.
// Доступно только администратору. Delete идемпотентен на уровне ответа:
// повторное удаление возвращает repository.ErrNotFound, а не сбой.
func (s *CommentService) Moderate(ctx context.Context, commentID, action, callerRole string) (*models.Comment, error) {
	if callerRole != models.RoleAdmin {
		return nil, ErrForbidden
	}

	var (
		comment *models.Comment
		err     error
	)
	switch action {
	case ActionApprove:
		comment, err = s.repo.UpdateCommentStatus(ctx, commentID, models.CommentStatusApproved)
	case ActionReject:
		comment, err = s.repo.UpdateCommentStatus(ctx, commentID, models.CommentStatusRejected)
	case ActionDelete:
		comment, err = s.repo.DeleteComment(ctx, commentID)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("comment moderated",
		slog.String("id", commentID),
		slog.String("action", action))

	s.invalidatePublic(ctx, comment.PostID)
	return comment, nil
}

// Stats возвращает сводку по статусам комментариев для админ-панели.
func (s *CommentService) Stats(ctx context.Context, callerRole string) (*models.CommentStats, error) {
	if callerRole != models.RoleAdmin {
		return nil, ErrForbidden
	}
	return s.repo.CountCommentsByStatus(ctx)
}

func (s *CommentService) invalidatePublic(ctx context.Context, postID string) {
	cacheKey := publicCacheKey(postID)
	if err := s.cache.Invalidate(ctx, cacheKey); err != nil {
		s.log.Warn("failed to invalidate comments cache", slog.String("key", cacheKey), sl.Err(err))
	}
}

func publicCacheKey(postID string) string {
	return "comments:public:" + postID
}

func validateSubmission(req models.DummyComment) error {
	author := strings.TrimSpace(req.Author)
	content := strings.TrimSpace(req.Content)
	switch {
	case req.PostID == "":
		return fmt.Errorf("%w: post_id is required", ErrValidation)
	case author == "" || len([]rune(author)) > 50:
		return fmt.Errorf("%w: author must be 1-50 characters", ErrValidation)
	case content == "" || len([]rune(content)) > 1000:
		return fmt.Errorf("%w: content must be 1-1000 characters", ErrValidation)
	case req.Email != "" && !emailRegex.MatchString(req.Email):
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	return nil
}
