package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/kpl-l002/Wblog/internal/models"
)

// likeEscaper экранирует служебные символы ILIKE, чтобы пользовательский
// поисковый запрос совпадал буквально, а не как шаблон.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}

// CreatePost сохраняет новую статью и возвращает её с выставленными базой полями.
func (s *Storage) CreatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	const op = "storage.CreatePost"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO posts (id, title, category, author, image, excerpt, content, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING created_at, updated_at;`
	if err := s.DB.QueryRowContext(ctx, query,
		post.ID, post.Title, nullable(post.Category), post.Author, nullable(post.Image),
		nullable(post.Excerpt), post.Content, post.Status).
		Scan(&post.CreatedAt, &post.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &post, nil
}

// GetPostByID возвращает статью по идентификатору.
func (s *Storage) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	const op = "storage.GetPostByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, category, author, image, excerpt, content, status, created_at, updated_at
			  FROM posts
			  WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// UpdatePost обновляет статью и возвращает новую версию записи.
func (s *Storage) UpdatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	const op = "storage.UpdatePost"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE posts
			  SET title = $1, category = $2, author = $3, image = $4,
			      excerpt = $5, content = $6, status = $7, updated_at = NOW()
			  WHERE id = $8
			  RETURNING id, title, category, author, image, excerpt, content, status, created_at, updated_at`
	row := s.DB.QueryRowContext(ctx, query,
		post.Title, nullable(post.Category), post.Author, nullable(post.Image),
		nullable(post.Excerpt), post.Content, post.Status, post.ID)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// DeletePost удаляет статью по идентификатору.
func (s *Storage) DeletePost(ctx context.Context, id string) error {
	const op = "storage.DeletePost"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// ListPosts возвращает страницу статей по фильтру, новые первыми.
// Пустой Status в фильтре означает "без ограничения по статусу".
func (s *Storage) ListPosts(ctx context.Context, filter models.PostFilter) ([]*models.Post, error) {
	const op = "storage.ListPosts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, category, author, image, excerpt, content, status, created_at, updated_at
			  FROM posts
			  WHERE 1=1`
	var args []any
	idx := 1
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", idx)
		args = append(args, filter.Category)
		idx++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (title ILIKE $%d OR content ILIKE $%d)", idx, idx)
		args = append(args, likePattern(filter.Search))
		idx++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountPosts возвращает общее число статей под фильтром для пагинации.
func (s *Storage) CountPosts(ctx context.Context, filter models.PostFilter) (int, error) {
	const op = "storage.CountPosts"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM posts WHERE 1=1`
	var args []any
	idx := 1
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", idx)
		args = append(args, filter.Category)
		idx++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (title ILIKE $%d OR content ILIKE $%d)", idx, idx)
		args = append(args, likePattern(filter.Search))
	}

	var total int
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

func scanPost(row rowScanner) (*models.Post, error) {
	p := &models.Post{}
	var category, image, excerpt sql.NullString
	if err := row.Scan(&p.ID, &p.Title, &category, &p.Author, &image,
		&excerpt, &p.Content, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if category.Valid {
		p.Category = category.String
	}
	if image.Valid {
		p.Image = image.String
	}
	if excerpt.Valid {
		p.Excerpt = excerpt.String
	}
	return p, nil
}
