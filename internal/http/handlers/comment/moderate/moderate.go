// Package moderate реализует HTTP-обработчик действий модерации комментариев.
//
// Маршрут закрыт JWTMiddleware и RequireAdminMiddleware. Действие передаётся
// в теле запроса: approve, reject или delete. Повторное удаление возвращает 404.
package moderate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/kpl-l002/Wblog/internal/http/middlewarectx"
	"github.com/kpl-l002/Wblog/internal/http/response"
	"github.com/kpl-l002/Wblog/internal/lib/sl"
	"github.com/kpl-l002/Wblog/internal/models"
	services "github.com/kpl-l002/Wblog/internal/services/comment"
	"github.com/kpl-l002/Wblog/internal/storage/repository"
)

// Request — структура входных данных для действия модерации.
type Request struct {
	Action string `json:"action" validate:"required,oneof=approve reject delete"`
}

// Handler обрабатывает HTTP-запросы модерации комментариев.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики модерации.
type Service interface {
	Moderate(ctx context.Context, commentID, action, callerRole string) (*models.Comment, error)
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
// @Summary Модерация комментария
// @Description Выполняет действие approve, reject или delete над комментарием. Доступно только администратору.
// @Tags Comments
// @Accept  json
// @Produce  json
// @Param id path string true "Идентификатор комментария"
// @Param request body Request true "Действие модерации"
// @Success 200 {object} map[string]any "Результат модерации"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Требуются права администратора"
// @Failure 404 {object} response.ErrorResponse "Комментарий не найден"
// @Failure 422 {object} response.ErrorResponse "Неизвестное действие"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/comments/{id} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.comment.moderate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	commentID := chi.URLParam(r, "id")
	if commentID == "" {
		log.Error("missing comment id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing comment id"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	role, _ := r.Context().Value(middlewarectx.Role).(string)

	comment, err := h.service.Moderate(r.Context(), commentID, req.Action, role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			log.Warn("moderation denied", sl.Role(role))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("admin access required"))
		case errors.Is(err, repository.ErrNotFound):
			log.Info("comment not found", slog.String("id", commentID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("comment not found"))
		case errors.Is(err, services.ErrUnknownAction):
			log.Error("unknown action", slog.String("action", req.Action))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("unknown moderation action"))
		default:
			log.Error("moderation failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not moderate comment"))
		}
		return
	}

	log.Info("comment moderated", slog.String("id", commentID), slog.String("action", req.Action))
	render.JSON(w, r, response.StatusOKWithData(comment))
}
