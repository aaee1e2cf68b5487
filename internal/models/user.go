// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и роль.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей. Роль хранится только в JWT и в записи пользователя,
// отдельной таблицы прав нет.
const (
	RoleAdmin     = "admin"
	RoleUser      = "user"
	RoleAnonymous = "anonymous"
)

// User представляет зарегистрированного пользователя или администратора блога.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Username     string    // Имя пользователя (уникальное)
	Email        string    // Электронная почта (уникальная)
	PasswordHash string    // Хэш пароля, наружу никогда не отдаётся
	Role         string    // Роль пользователя, admin или user
	FullName     string    // Отображаемое имя, по умолчанию равно username
	CreatedAt    time.Time // Дата регистрации
}

// PublicUser — представление пользователя для JSON-ответов,
// без хэша пароля и служебных полей.
type PublicUser struct {
	UID      string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Public возвращает безопасное для выдачи наружу представление пользователя.
func (u *User) Public() PublicUser {
	return PublicUser{
		UID:      u.UID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}
}
