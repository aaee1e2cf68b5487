// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/kpl-l002/Wblog/internal/lib/jwt"
	"github.com/kpl-l002/Wblog/internal/lib/password"
	"github.com/kpl-l002/Wblog/internal/lib/sl"
	"github.com/kpl-l002/Wblog/internal/lockout"
	"github.com/kpl-l002/Wblog/internal/models"
	"github.com/kpl-l002/Wblog/internal/storage/repository"
)

// Ошибки бизнес-уровня. Обработчики транслируют их в HTTP-статусы:
// невалидный ввод — 400, неверные учетные данные — 401, конфликт — 409.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password must be at least 8 characters and contain a letter and a digit")
	ErrInvalidEmail       = errors.New("invalid email format")
)

// RateLimitedError возвращается, когда идентификатор клиента заблокирован.
// RetryAfterMinutes — оценка оставшегося времени блокировки.
// Счётчики при этом не изменяются.
type RateLimitedError struct {
	RetryAfterMinutes int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("too many attempts, try again in %d minutes", e.RetryAfterMinutes)
}

// emailRegex — стандартная проверка формата почты, как в форме регистрации.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// compareDummy выполняет сравнение с фиктивным хешем, подменяется в тестах.
var compareDummy = password.CompareDummy

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или repository.ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByEmail возвращает пользователя по почте или repository.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
// Перед проверкой учетных данных запрос проходит через счётчики блокировок,
// ключом служит идентификатор клиента (IP).
type AuthService struct {
	users           UserRepository
	jwtMaker        jwt.Maker
	loginTracker    *lockout.Tracker
	registerTracker *lockout.Tracker
	log             *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker,
	loginTracker, registerTracker *lockout.Tracker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:           users,
		jwtMaker:        jwtMaker,
		loginTracker:    loginTracker,
		registerTracker: registerTracker,
		log:             log,
	}
}

// Login проверяет пароль пользователя и генерирует JWT.
// Identifier — username или email. Для заблокированного clientID возвращает
// RateLimitedError, не выполняя проверку учетных данных, чтобы блокировка
// не выдавала существование аккаунта.
func (s *AuthService) Login(ctx context.Context, clientID, identifier, rawPassword string) (string, *models.User, error) {
	const op = "services.auth.Login"

	if s.loginTracker.IsLockedOut(ctx, clientID) {
		return "", nil, &RateLimitedError{RetryAfterMinutes: s.loginTracker.RetryAfter(ctx, clientID)}
	}

	user, err := s.findUser(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Сравнение с фиктивным хешем: время ответа не должно отличаться
			// от случая "пользователь есть, пароль неверный".
			compareDummy(rawPassword)
			s.loginTracker.RecordFailure(ctx, clientID)
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		s.loginTracker.RecordFailure(ctx, clientID)
		return "", nil, ErrInvalidCredentials
	}

	s.loginTracker.RecordSuccess(ctx, clientID)

	token, err := s.jwtMaker.GenerateToken(user.UID, user.Username, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	user.PasswordHash = ""
	return token, user, nil
}

// Register создает нового пользователя с хэшированием пароля и дефолтной ролью "user".
// Структурные проверки (политика пароля, формат почты) выполняются до счётчиков
// блокировки: мусорный ввод не расходует бюджет попыток.
// Занятые username или email засчитываются как неудачная попытка.
func (s *AuthService) Register(ctx context.Context, clientID, username, email, rawPassword, fullName string) (string, *models.User, error) {
	const op = "services.auth.Register"

	if err := checkPasswordPolicy(rawPassword); err != nil {
		return "", nil, err
	}
	if !emailRegex.MatchString(email) {
		return "", nil, ErrInvalidEmail
	}

	if s.registerTracker.IsLockedOut(ctx, clientID) {
		return "", nil, &RateLimitedError{RetryAfterMinutes: s.registerTracker.RetryAfter(ctx, clientID)}
	}

	if err := s.checkTaken(ctx, op, clientID, username, email); err != nil {
		return "", nil, err
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if fullName == "" {
		fullName = username
	}
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleUser, // дефолтная роль при регистрации
		FullName:     fullName,
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		s.log.Error("failed to register user", sl.Err(err))
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	s.registerTracker.RecordSuccess(ctx, clientID)

	user.UID = uid
	user.PasswordHash = ""
	token, err := s.jwtMaker.GenerateToken(uid, username, models.RoleUser)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, &user, nil
}

// EnsureAdmin создает стартового администратора, если его ещё нет.
// Хеш пароля считается тем же кодом, которым потом проверяется вход.
// Повторный вызов с существующим администратором ничего не меняет.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, rawPassword string) error {
	const op = "services.auth.EnsureAdmin"

	_, err := s.users.GetUserByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	admin := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleAdmin,
		FullName:     username,
	}
	if _, err := s.users.RegisterUser(ctx, admin); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("admin account created", slog.String("username", username))
	return nil
}

// ValidateToken проверяет JWT и возвращает информацию о пользователе и роль.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.User, string, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, "", err
	}
	user := &models.User{
		UID:      claims.Subject,
		Username: claims.Username,
		Role:     claims.Role,
	}
	return user, claims.Role, nil
}

// findUser ищет пользователя сначала по username, затем по email.
func (s *AuthService) findUser(ctx context.Context, identifier string) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.users.GetUserByEmail(ctx, identifier)
}

func (s *AuthService) checkTaken(ctx context.Context, op, clientID, username, email string) error {
	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		s.registerTracker.RecordFailure(ctx, clientID)
		return ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		s.registerTracker.RecordFailure(ctx, clientID)
		return ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// checkPasswordPolicy проверяет минимальные требования к паролю:
// не короче 8 символов, есть хотя бы одна буква и одна цифра.
func checkPasswordPolicy(rawPassword string) error {
	if len(rawPassword) < 8 {
		return ErrWeakPassword
	}
	var hasLetter, hasDigit bool
	for _, r := range rawPassword {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ErrWeakPassword
	}
	if strings.TrimSpace(rawPassword) != rawPassword {
		return ErrWeakPassword
	}
	return nil
}
