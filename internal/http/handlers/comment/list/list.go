// Package list реализует HTTP-обработчик списка комментариев статьи.
//
// Публичный маршрут с необязательной авторизацией: администратор видит все
// комментарии, включая ожидающие модерации, остальные — только одобренные.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/kpl-l002/Wblog/internal/http/middlewarectx"
	"github.com/kpl-l002/Wblog/internal/http/response"
	"github.com/kpl-l002/Wblog/internal/lib/sl"
	"github.com/kpl-l002/Wblog/internal/models"
)

// Handler обрабатывает HTTP-запросы на получение комментариев статьи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики комментариев.
type Service interface {
	ListForPost(ctx context.Context, postID, callerRole string) ([]*models.Comment, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Комментарии статьи
// @Description Возвращает комментарии статьи по возрастанию времени создания. Неодобренные видны только администратору.
// @Tags Comments
// @Produce  json
// @Param post_id path string true "Идентификатор статьи"
// @Success 200 {object} map[string]any "Список комментариев"
// @Failure 400 {object} response.ErrorResponse "Не указан идентификатор статьи"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /posts/{post_id}/comments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.comment.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	postID := chi.URLParam(r, "post_id")
	if postID == "" {
		log.Error("missing post id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing post id"))
		return
	}

	role, _ := r.Context().Value(middlewarectx.Role).(string)
	if role == "" {
		role = models.RoleAnonymous
	}

	comments, err := h.service.ListForPost(r.Context(), postID, role)
	if err != nil {
		log.Error("failed to list comments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list comments"))
		return
	}

	log.Info("comments listed", slog.String("post_id", postID), slog.Int("count", len(comments)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"comments": comments,
		"count":    len(comments),
	}))
}
