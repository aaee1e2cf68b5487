package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kpl-l002/Wblog/internal/models"
)

// CreateComment сохраняет новый комментарий и возвращает его вместе с
// выставленными базой полями (время создания).
func (s *Storage) CreateComment(ctx context.Context, comment models.Comment) (*models.Comment, error) {
	const op = "storage.CreateComment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO comments (id, post_id, author, email, content, parent_id, status, ip, user_agent)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING created_at;`
	if err := s.DB.QueryRowContext(ctx, query,
		comment.ID, comment.PostID, comment.Author, nullable(comment.Email), comment.Content,
		nullable(comment.ParentID), comment.Status, comment.IP, comment.UserAgent).
		Scan(&comment.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &comment, nil
}

// ListCommentsByPost возвращает комментарии статьи по возрастанию времени создания.
// При includePending = false отдаются только одобренные комментарии —
// это граница видимости для неадминистраторов.
func (s *Storage) ListCommentsByPost(ctx context.Context, postID string, includePending bool) ([]*models.Comment, error) {
	const op = "storage.ListCommentsByPost"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, post_id, author, email, content, parent_id, status, created_at, ip, user_agent
			  FROM comments
			  WHERE post_id = $1`
	args := []any{postID}
	if !includePending {
		query += ` AND status = $2`
		args = append(args, models.CommentStatusApproved)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateCommentStatus переводит комментарий в новый статус и возвращает обновлённую запись.
func (s *Storage) UpdateCommentStatus(ctx context.Context, id, status string) (*models.Comment, error) {
	const op = "storage.UpdateCommentStatus"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE comments SET status = $1 WHERE id = $2
			  RETURNING id, post_id, author, email, content, parent_id, status, created_at, ip, user_agent`
	row := s.DB.QueryRowContext(ctx, query, status, id)
	c, err := scanComment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// DeleteComment удаляет комментарий. Повторное удаление того же
// идентификатора возвращает ErrNotFound.
func (s *Storage) DeleteComment(ctx context.Context, id string) (*models.Comment, error) {
	const op = "storage.DeleteComment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM comments WHERE id = $1
			  RETURNING id, post_id, author, email, content, parent_id, status, created_at, ip, user_agent`
	row := s.DB.QueryRowContext(ctx, query, id)
	c, err := scanComment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// CountCommentsByStatus возвращает сводку по статусам для админ-панели.
func (s *Storage) CountCommentsByStatus(ctx context.Context) (*models.CommentStats, error) {
	const op = "storage.CountCommentsByStatus"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
			      COUNT(*),
			      COUNT(*) FILTER (WHERE status = 'approved'),
			      COUNT(*) FILTER (WHERE status = 'pending'),
			      COUNT(*) FILTER (WHERE status = 'rejected')
			  FROM comments`
	stats := &models.CommentStats{}
	if err := s.DB.QueryRowContext(ctx, query).
		Scan(&stats.Total, &stats.Approved, &stats.Pending, &stats.Rejected); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (*models.Comment, error) {
	c := &models.Comment{}
	var email, parentID sql.NullString
	if err := row.Scan(&c.ID, &c.PostID, &c.Author, &email, &c.Content,
		&parentID, &c.Status, &c.CreatedAt, &c.IP, &c.UserAgent); err != nil {
		return nil, err
	}
	if email.Valid {
		c.Email = email.String
	}
	if parentID.Valid {
		c.ParentID = parentID.String
	}
	return c, nil
}

// nullable превращает пустую строку в NULL для необязательных колонок.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
