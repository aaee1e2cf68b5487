// Package register реализует HTTP-обработчик регистрации новых пользователей.
//
// Handler декодирует JSON-запрос, валидирует поля и делегирует создание учетной
// записи сервису аутентификации. Политика пароля и проверка занятости имени
// выполняются в сервисе до учёта попыток; повторные конфликты блокируются.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/kpl-l002/Wblog/internal/http/middlewarectx"
	"github.com/kpl-l002/Wblog/internal/http/response"
	"github.com/kpl-l002/Wblog/internal/lib/sl"
	"github.com/kpl-l002/Wblog/internal/models"
	services "github.com/kpl-l002/Wblog/internal/services/auth"
)

// Request — структура входных данных для регистрации.
type Request struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"full_name" validate:"omitempty,max=100"`
}

// Handler обрабатывает HTTP-запросы на регистрацию.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, clientID, username, email, rawPassword, fullName string) (string, *models.User, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация нового пользователя
// @Description Создает учетную запись и возвращает JWT-токен для немедленного входа.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового пользователя"
// @Success 201 {object} map[string]any "Пользователь создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или слабый пароль"
// @Failure 409 {object} response.ErrorResponse "Имя или почта уже заняты"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 429 {object} response.RateLimitedResponse "Слишком много попыток регистрации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("username", req.Username))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	clientID := middlewarectx.ClientIP(r)
	token, user, err := h.service.Register(r.Context(), clientID, req.Username, req.Email, req.Password, req.FullName)
	if err != nil {
		var rateLimited *services.RateLimitedError
		switch {
		case errors.As(err, &rateLimited):
			log.Warn("registration blocked", slog.String("client_id", clientID))
			w.WriteHeader(http.StatusTooManyRequests)
			render.JSON(w, r, response.RateLimited(rateLimited.RetryAfterMinutes))
		case errors.Is(err, services.ErrWeakPassword), errors.Is(err, services.ErrInvalidEmail):
			log.Info("rejected registration input", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, services.ErrUsernameTaken), errors.Is(err, services.ErrEmailTaken):
			log.Info("registration conflict", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("registration failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal server error"))
		}
		return
	}

	log.Info("user registered", slog.String("username", user.Username))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"token": token,
		"user":  user.Public(),
	}))
}
