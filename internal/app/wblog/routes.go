// Package wblog предоставляет маршруты для основного приложения.
package wblog

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/kpl-l002/Wblog/internal/cache"
	"github.com/kpl-l002/Wblog/internal/http/handlers/auth/login"
	"github.com/kpl-l002/Wblog/internal/http/handlers/auth/register"
	commentlist "github.com/kpl-l002/Wblog/internal/http/handlers/comment/list"
	"github.com/kpl-l002/Wblog/internal/http/handlers/comment/moderate"
	"github.com/kpl-l002/Wblog/internal/http/handlers/comment/stats"
	"github.com/kpl-l002/Wblog/internal/http/handlers/comment/submit"
	"github.com/kpl-l002/Wblog/internal/http/handlers/health"
	"github.com/kpl-l002/Wblog/internal/http/handlers/post/create"
	postlist "github.com/kpl-l002/Wblog/internal/http/handlers/post/list"
	"github.com/kpl-l002/Wblog/internal/http/handlers/post/read"
	"github.com/kpl-l002/Wblog/internal/http/handlers/post/remove"
	"github.com/kpl-l002/Wblog/internal/http/handlers/post/update"
	"github.com/kpl-l002/Wblog/internal/http/middlewarectx"
	authservice "github.com/kpl-l002/Wblog/internal/services/auth"
	commentservice "github.com/kpl-l002/Wblog/internal/services/comment"
	postservice "github.com/kpl-l002/Wblog/internal/services/post"
	"github.com/kpl-l002/Wblog/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.AuthService,
	commentService *commentservice.CommentService,
	postService *postservice.PostService,
	db *repository.Storage, cacheRedis *cache.Cache) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	r.Use(middlewarectx.RateLimitMiddleware(logger, rate.NewLimiter(100, 200)))

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)

		// Публичные маршруты с необязательной авторизацией:
		// роль из токена влияет на видимость черновиков и неодобренных комментариев
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.OptionalJWTMiddleware(authService, logger))
			r.Get("/posts", postlist.New(logger, postService).ServeHTTP)
			r.Get("/posts/{id}", read.New(logger, postService).ServeHTTP)
			r.Get("/posts/{post_id}/comments", commentlist.New(logger, commentService).ServeHTTP)
			r.Post("/comments", submit.New(logger, commentService).ServeHTTP)
		})

		// Группа администратора
		r.Route("/admin", func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RequireAdminMiddleware(logger))
			r.Post("/posts", create.New(logger, postService).ServeHTTP)
			r.Put("/posts/{id}", update.New(logger, postService).ServeHTTP)
			r.Delete("/posts/{id}", remove.New(logger, postService).ServeHTTP)
			r.Post("/comments/{id}", moderate.New(logger, commentService).ServeHTTP)
			r.Get("/comments/stats", stats.New(logger, commentService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, map[string]health.Checker{
		"postgres": db,
		"redis":    cacheRedis,
	}).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
