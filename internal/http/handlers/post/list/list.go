// Package list реализует HTTP-обработчик списка статей с фильтрацией и пагинацией.
//
// Публичный маршрут с необязательной авторизацией: неадминистраторам всегда
// возвращаются только опубликованные статьи.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/kpl-l002/Wblog/internal/http/middlewarectx"
	"github.com/kpl-l002/Wblog/internal/http/response"
	"github.com/kpl-l002/Wblog/internal/lib/sl"
	"github.com/kpl-l002/Wblog/internal/models"
)

// Handler управляет HTTP-запросами на получение списка статей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка статей.
type Service interface {
	List(ctx context.Context, filter models.PostFilter, callerRole string) ([]*models.Post, int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список статей
// @Description Возвращает страницу статей с фильтрацией по категории, статусу и поисковой строке.
// @Tags Posts
// @Produce  json
// @Param category query string false "Категория"
// @Param search query string false "Поисковая строка по заголовку и тексту"
// @Param status query string false "Статус (учитывается только для администратора)"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Страница статей и общее количество"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /posts [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query()
	filter := models.PostFilter{
		Category: query.Get("category"),
		Search:   query.Get("search"),
		Status:   query.Get("status"),
	}
	filter.Limit, _ = strconv.Atoi(query.Get("limit"))
	filter.Offset, _ = strconv.Atoi(query.Get("offset"))

	role, _ := r.Context().Value(middlewarectx.Role).(string)
	if role == "" {
		role = models.RoleAnonymous
	}

	posts, total, err := h.service.List(r.Context(), filter, role)
	if err != nil {
		log.Error("failed to list posts", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list posts"))
		return
	}

	log.Info("posts listed", slog.Int("count", len(posts)), slog.Int("total", total))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"posts": posts,
		"total": total,
	}))
}
