// Package models содержит доменные структуры комментариев
// и вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Статусы комментария. Новый комментарий попадает в pending,
// администратор переводит его в approved или rejected.
const (
	CommentStatusPending  = "pending"
	CommentStatusApproved = "approved"
	CommentStatusRejected = "rejected"
)

// Comment представляет комментарий к статье блога.
// Поля IP и UserAgent сохраняются для расследования злоупотреблений
// и в публичных ответах не участвуют.
type Comment struct {
	ID        string    `json:"id"`                  // Уникальный идентификатор
	PostID    string    `json:"post_id"`             // Идентификатор статьи
	Author    string    `json:"author"`              // Отображаемое имя автора
	Email     string    `json:"email,omitempty"`     // Почта автора (необязательная)
	Content   string    `json:"content"`             // Текст комментария
	ParentID  string    `json:"parent_id,omitempty"` // Идентификатор родительского комментария для веток
	Status    string    `json:"status"`              // pending, approved или rejected
	CreatedAt time.Time `json:"created_at"`          // Время создания
	IP        string    `json:"-"`
	UserAgent string    `json:"-"`
}

// DummyComment используется для приёма комментария из JSON-запроса,
// прежде чем конвертировать его в Comment.
type DummyComment struct {
	PostID   string `json:"post_id" validate:"required"`       // Идентификатор статьи
	Author   string `json:"author" validate:"required,max=50"` // Имя автора (до 50 символов)
	Email    string `json:"email" validate:"omitempty,email"`  // Почта (необязательная)
	Content  string `json:"content" validate:"required,max=1000"`
	ParentID string `json:"parent_id"` // Необязательная ссылка на родительский комментарий
}

// CommentStats содержит сводку по статусам комментариев для админ-панели.
type CommentStats struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
}
