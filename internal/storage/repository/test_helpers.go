package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя
func (f *TestDataFactory) CreateUser(t *testing.T, userUID, username, email, passwordHash, role string) {
	_, err := f.storage.DB.Exec(`INSERT INTO users (uid, username, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)`,
		userUID, username, email, passwordHash, role)
	require.NoError(t, err)
}

// CreatePost создает тестовую статью
func (f *TestDataFactory) CreatePost(t *testing.T, id, title, status string) {
	_, err := f.storage.DB.Exec(`INSERT INTO posts (id, title, author, content, status)
		VALUES ($1, $2, 'Author', 'body', $3)`,
		id, title, status)
	require.NoError(t, err)
}

// CreateComment создает тестовый комментарий и возвращает его идентификатор
func (f *TestDataFactory) CreateComment(t *testing.T, postID, author, content, status string, createdAt time.Time) string {
	id := uuid.New().String()
	_, err := f.storage.DB.Exec(`INSERT INTO comments (id, post_id, author, content, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, postID, author, content, status, createdAt)
	require.NoError(t, err)
	return id
}

// TestUserData содержит стандартные тестовые данные пользователя
type TestUserData struct {
	UID          string
	Username     string
	Email        string
	PasswordHash string
	Role         string
}

// GetTestUserData возвращает стандартные тестовые данные пользователя
func GetTestUserData() TestUserData {
	return TestUserData{
		UID:          uuid.New().String(),
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: "hashedpassword",
		Role:         "user",
	}
}
