// Package read реализует HTTP-обработчик чтения статьи по идентификатору.
//
// Публичный маршрут с необязательной авторизацией: черновики возвращаются
// только администратору, для остальных они неотличимы от несуществующих.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/kpl-l002/Wblog/internal/http/middlewarectx"
	"github.com/kpl-l002/Wblog/internal/http/response"
	"github.com/kpl-l002/Wblog/internal/lib/sl"
	"github.com/kpl-l002/Wblog/internal/models"
	"github.com/kpl-l002/Wblog/internal/storage/repository"
)

// Handler управляет HTTP-запросами на чтение статьи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения статьи.
type Service interface {
	Get(ctx context.Context, id, callerRole string) (*models.Post, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить статью
// @Description Возвращает статью по идентификатору. Черновики видны только администратору.
// @Tags Posts
// @Produce  json
// @Param id path string true "Идентификатор статьи"
// @Success 200 {object} map[string]any "Статья"
// @Failure 404 {object} response.ErrorResponse "Статья не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /posts/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.read"
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

	role, _ := r.Context().Value(middlewarectx.Role).(string)
	if role == "" {
		role = models.RoleAnonymous
	}

	post, err := h.service.Get(r.Context(), postID, role)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("post not found", slog.String("id", postID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("post not found"))
			return
		}
		log.Error("failed to read post", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read post"))
		return
	}

	log.Info("post read", slog.String("id", post.ID))
	render.JSON(w, r, response.StatusOKWithData(post))
}
