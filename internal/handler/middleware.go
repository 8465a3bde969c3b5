package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/VidShare/internal/core/ports"
	"github.com/GoArmGo/VidShare/internal/domain"
)

// SessionCookieName — имя cookie с токеном сессии.
const SessionCookieName = "session_id"

type ctxKey int

const userCtxKey ctxKey = iota

// CurrentUser достает аутентифицированного пользователя из контекста запроса.
// Заполняется только AuthGuard'ом, глобального состояния нет.
func CurrentUser(ctx context.Context) (domain.AuthenticatedUser, bool) {
	user, ok := ctx.Value(userCtxKey).(domain.AuthenticatedUser)
	return user, ok
}

// withUser возвращает контекст с привязанным пользователем (для AuthGuard и тестов).
func withUser(ctx context.Context, user domain.AuthenticatedUser) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// AuthGuard — middleware, пускающее дальше только запросы с активной сессией.
// Отсутствующая или истекшая сессия — это не ошибка сервера: просто 401.
func AuthGuard(sessions ports.SessionStore, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				respondWithError(w, http.StatusUnauthorized, "требуется вход", logger)
				return
			}

			user, err := sessions.Resolve(r.Context(), cookie.Value)
			if err != nil {
				logger.Error("session resolve failed", "error", err)
				respondWithError(w, http.StatusInternalServerError, "внутренняя ошибка сервера", logger)
				return
			}
			if user == nil {
				respondWithError(w, http.StatusUnauthorized, "требуется вход", logger)
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), *user)))
		})
	}
}

// RequestLogger — middleware для логирования HTTP-запросов.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Оборачиваем ResponseWriter, чтобы знать статус
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration_ms", duration.Milliseconds(),
			)
		})
	}
}

// responseWriter нужен, чтобы перехватывать код ответа
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
