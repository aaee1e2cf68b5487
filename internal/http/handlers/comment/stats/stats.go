// Package stats реализует HTTP-обработчик сводки по комментариям для админ-панели.
package stats

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/kpl-l002/Wblog/internal/http/middlewarectx"
	"github.com/kpl-l002/Wblog/internal/http/response"
	"github.com/kpl-l002/Wblog/internal/lib/sl"
	"github.com/kpl-l002/Wblog/internal/models"
	services "github.com/kpl-l002/Wblog/internal/services/comment"
)

// Handler обрабатывает HTTP-запросы статистики комментариев.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики статистики комментариев.
type Service interface {
	Stats(ctx context.Context, callerRole string) (*models.CommentStats, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статистика комментариев
// @Description Возвращает количество комментариев по статусам. Доступно только администратору.
// @Tags Comments
// @Produce  json
// @Success 200 {object} map[string]any "Сводка по статусам"
// @Failure 403 {object} response.ErrorResponse "Требуются права администратора"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/comments/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.comment.stats"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	role, _ := r.Context().Value(middlewarectx.Role).(string)

	stats, err := h.service.Stats(r.Context(), role)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			log.Warn("stats access denied", sl.Role(role))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("admin access required"))
			return
		}
		log.Error("failed to count comments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not count comments"))
		return
	}

	log.Info("stats collected", slog.Int("total", stats.Total))
	render.JSON(w, r, response.StatusOKWithData(stats))
}
