// Package remove реализует HTTP-обработчик удаления статьи.
//
// Маршрут закрыт JWTMiddleware и RequireAdminMiddleware. Повторное удаление
// возвращает 404.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/kpl-l002/Wblog/internal/http/response"
	"github.com/kpl-l002/Wblog/internal/lib/sl"
	"github.com/kpl-l002/Wblog/internal/storage/repository"
)

// Handler управляет HTTP-запросами на удаление статей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления статьи.
type Service interface {
	Remove(ctx context.Context, id string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить статью
// @Description Удаляет статью по идентификатору. Доступно только администратору.
// @Tags Posts
// @Produce  json
// @Param id path string true "Идентификатор статьи"
// @Success 200 {object} response.Response "Статья удалена"
// @Failure 403 {object} response.ErrorResponse "Требуются права администратора"
// @Failure 404 {object} response.ErrorResponse "Статья не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/posts/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	postID := chi.URLParam(r, "id")
	if postID == "" {
		log.Error("missing post id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing post id"))
		return
	}

	if err := h.service.Remove(r.Context(), postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("post not found", slog.String("id", postID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("post not found"))
			return
		}
		log.Error("failed to remove post", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove post"))
		return
	}

	log.Info("post removed", slog.String("id", postID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": postID,
	}))
}
