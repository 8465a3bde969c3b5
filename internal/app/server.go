package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/GoArmGo/VidShare/internal/handler"
)

// runServer запускает HTTP сервер и блокируется до отмены контекста
func (a *App) runServer(ctx context.Context) error {
	h := handler.NewHandler(
		a.authUseCase,
		a.uploadUseCase,
		a.catalogUseCase,
		a.Config.MaxUploadBytes,
		a.logger,
	)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(a.Config.RequestTimeout))
	r.Use(handler.RequestLogger(a.logger))

	// открытые маршруты
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/posts/recent", h.ListRecentPosts)
	r.Get("/posts/search", h.SearchPosts)
	r.Get("/posts/{postID}", h.GetPost)

	// защищенные маршруты
	r.Group(func(r chi.Router) {
		r.Use(handler.AuthGuard(a.sessionManager, a.logger))
		r.Post("/upload", h.Upload)
		r.Get("/profile", h.Profile)
	})

	serverAddr := fmt.Sprintf(":%s", a.Config.ServerPort)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server started", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("ошибка при запуске сервера: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutdown signal received, stopping http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.logger.Info("http server stopped")
	return nil
}
