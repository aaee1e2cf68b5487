// Package wblog собирает приложение блога: хранилище, миграции, кеш,
// счётчики блокировок, сервисы и HTTP-сервер.
package wblog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/kpl-l002/Wblog/internal/cache"
	"github.com/kpl-l002/Wblog/internal/config"
	jwtlib "github.com/kpl-l002/Wblog/internal/lib/jwt"
	"github.com/kpl-l002/Wblog/internal/lockout"
	"github.com/kpl-l002/Wblog/internal/migrations"
	authservice "github.com/kpl-l002/Wblog/internal/services/auth"
	commentservice "github.com/kpl-l002/Wblog/internal/services/comment"
	postservice "github.com/kpl-l002/Wblog/internal/services/post"
	"github.com/kpl-l002/Wblog/internal/storage/repository"
)

// App хранит собранный HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New собирает приложение из конфигурации: открывает базу, накатывает миграции,
// подключает Redis и регистрирует маршруты. Счётчики блокировок живут в Redis,
// чтобы переживать перезапуск и работать при нескольких экземплярах сервиса.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwtlib.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.AdminTTL, cfg.JWTToken.UserTTL)

	loginTracker := lockout.NewTracker(
		lockout.NewRedisStore(cacheRedis.Db, "lockout:login"),
		cfg.Lockout.LoginMaxAttempts, cfg.Lockout.LoginWindow, logger)
	registerTracker := lockout.NewTracker(
		lockout.NewRedisStore(cacheRedis.Db, "lockout:register"),
		cfg.Lockout.RegisterMaxAttempts, cfg.Lockout.RegisterWindow, logger)

	authService := authservice.NewAuthService(db, jwtMaker, loginTracker, registerTracker, logger)
	if err = authService.EnsureAdmin(ctx, cfg.Admin.AdminUsername, cfg.Admin.AdminEmail, cfg.Admin.AdminPassword); err != nil {
		return nil, err
	}
	commentService := commentservice.NewCommentService(db, cacheRedis, logger)
	postService := postservice.NewPostService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, commentService, postService, db, cacheRedis)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
