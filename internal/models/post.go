// Package models содержит доменные структуры статей блога.
package models

import "time"

// Статусы статьи. Черновики видны только администратору.
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// Post представляет статью блога.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category,omitempty"`
	Author    string    `json:"author"`
	Image     string    `json:"image,omitempty"`
	Excerpt   string    `json:"excerpt,omitempty"`
	Content   string    `json:"content"`
	Status    string    `json:"status"` // draft или published
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DummyPost используется для приёма статьи из JSON-запроса.
type DummyPost struct {
	Title    string `json:"title" validate:"required,max=200"`
	Category string `json:"category"`
	Author   string `json:"author" validate:"required,max=100"`
	Image    string `json:"image"`
	Excerpt  string `json:"excerpt"`
	Content  string `json:"content" validate:"required"`
	Status   string `json:"status" validate:"omitempty,oneof=draft published"`
}

// PostFilter описывает параметры публичного и административного списка статей.
type PostFilter struct {
	Category string
	Search   string
	Status   string
	Limit    int
	Offset   int
}
