// Package health реализует проверку готовности сервиса: база данных и Redis.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/kpl-l002/Wblog/internal/http/response"
	"github.com/kpl-l002/Wblog/internal/lib/sl"
)

// Checker описывает зависимость, чья готовность проверяется.
type Checker interface {
	Ready(ctx context.Context) error
}

// Handler обрабатывает запросы проверки готовности.
type Handler struct {
	log      *slog.Logger
	checkers map[string]Checker
}

// New создает Handler с именованными проверками зависимостей.
func New(log *slog.Logger, checkers map[string]Checker) *Handler {
	return &Handler{
		log:      log,
		checkers: checkers,
	}
}

// ServeHTTP godoc
// @Summary Проверка готовности
// @Description Проверяет доступность базы данных и Redis.
// @Tags Health
// @Produce  json
// @Success 200 {object} map[string]any "Все зависимости доступны"
// @Failure 503 {object} map[string]any "Одна из зависимостей недоступна"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	statuses := make(map[string]string, len(h.checkers))
	healthy := true
	for name, checker := range h.checkers {
		if err := checker.Ready(r.Context()); err != nil {
			h.log.Error("dependency is not ready",
				slog.String("op", op),
				slog.String("dependency", name),
				sl.Err(err))
			statuses[name] = "unavailable"
			healthy = false
			continue
		}
		statuses[name] = "ok"
	}

	if !healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Response{
			Status: response.StatusError,
			Error:  "service is not ready",
			Data:   statuses,
		})
		return
	}
	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, response.StatusOKWithData(statuses))
}
