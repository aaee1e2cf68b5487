// Package submit реализует HTTP-обработчик отправки комментария к статье.
//
// Маршрут публичный: комментировать могут и анонимные посетители. Роль из
// контекста определяет стартовый статус — комментарии администратора публикуются
// сразу, остальные ждут модерации.
package submit

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
	services "github.com/kpl-l002/Wblog/internal/services/comment"
)

// Handler обрабатывает HTTP-запросы на создание комментария.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики комментариев.
type Service interface {
	Submit(ctx context.Context, req models.DummyComment, callerRole, ip, userAgent string) (*models.Comment, error)
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
// @Summary Отправить комментарий
// @Description Создает комментарий к статье. Комментарии администратора публикуются сразу, остальные ждут модерации.
// @Tags Comments
// @Accept  json
// @Produce  json
// @Param request body models.DummyComment true "Данные комментария"
// @Success 201 {object} map[string]any "Комментарий создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /comments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.comment.submit"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyComment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("post_id", req.PostID))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	role, _ := r.Context().Value(middlewarectx.Role).(string)
	if role == "" {
		role = models.RoleAnonymous
	}

	comment, err := h.service.Submit(r.Context(), req, role, middlewarectx.ClientIP(r), r.UserAgent())
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			log.Info("rejected comment", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		log.Error("failed to create comment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create comment"))
		return
	}

	log.Info("comment created",
		slog.String("id", comment.ID),
		slog.String("status", comment.Status))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(comment))
}
