// Package services содержит бизнес-логику управления статьями блога.
package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kpl-l002/Wblog/internal/models"
	"github.com/kpl-l002/Wblog/internal/storage/repository"
)

// PostRepository определяет методы для работы со статьями в хранилище.
type PostRepository interface {
	CreatePost(ctx context.Context, post models.Post) (*models.Post, error)
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	UpdatePost(ctx context.Context, post models.Post) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
	ListPosts(ctx context.Context, filter models.PostFilter) ([]*models.Post, error)
	CountPosts(ctx context.Context, filter models.PostFilter) (int, error)
}

// PostService реализует бизнес-логику работы со статьями.
// Создание, изменение и удаление доступны только администратору —
// это обеспечивает middleware на уровне маршрутов.
type PostService struct {
	repo PostRepository
	log  *slog.Logger
}

// NewPostService создает новый экземпляр PostService.
func NewPostService(repo PostRepository, log *slog.Logger) *PostService {
	return &PostService{
		repo: repo,
		log:  log,
	}
}

// Create создает новую статью. Без явного статуса статья остаётся черновиком.
func (s *PostService) Create(ctx context.Context, req models.DummyPost) (*models.Post, error) {
	status := req.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	post := models.Post{
		ID:       uuid.New().String(),
		Title:    req.Title,
		Category: req.Category,
		Author:   req.Author,
		Image:    req.Image,
		Excerpt:  req.Excerpt,
		Content:  req.Content,
		Status:   status,
	}
	created, err := s.repo.CreatePost(ctx, post)
	if err != nil {
		return nil, err
	}
	s.log.Info("post created", slog.String("id", created.ID), slog.String("status", created.Status))
	return created, nil
}

// Get возвращает статью по идентификатору. Черновики видны только администратору,
// для остальных они неотличимы от несуществующих статей.
func (s *PostService) Get(ctx context.Context, id, callerRole string) (*models.Post, error) {
	post, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusPublished && callerRole != models.RoleAdmin {
		return nil, repository.ErrNotFound
	}
	return post, nil
}

// Update обновляет статью по идентификатору.
func (s *PostService) Update(ctx context.Context, id string, req models.DummyPost) (*models.Post, error) {
	status := req.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	post := models.Post{
		ID:       id,
		Title:    req.Title,
		Category: req.Category,
		Author:   req.Author,
		Image:    req.Image,
		Excerpt:  req.Excerpt,
		Content:  req.Content,
		Status:   status,
	}
	updated, err := s.repo.UpdatePost(ctx, post)
	if err != nil {
		return nil, err
	}
	s.log.Info("post updated", slog.String("id", id))
	return updated, nil
}

// Remove удаляет статью по идентификатору.
func (s *PostService) Remove(ctx context.Context, id string) error {
	if err := s.repo.DeletePost(ctx, id); err != nil {
		return err
	}
	s.log.Info("post removed", slog.String("id", id))
	return nil
}

// List возвращает страницу статей и общее количество под фильтром.
// Неадминистраторам всегда отдаются только опубликованные статьи,
// какой бы статус ни был запрошен.
func (s *PostService) List(ctx context.Context, filter models.PostFilter, callerRole string) ([]*models.Post, int, error) {
	if callerRole != models.RoleAdmin {
		filter.Status = models.PostStatusPublished
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 10
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	posts, err := s.repo.ListPosts(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountPosts(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
