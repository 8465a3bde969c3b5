package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GoArmGo/VidShare/internal/domain"
)

const pgUniqueViolation = "23505"

// UserStorage реализует интерфейс ports.UserStorage поверх PostgreSQL
type UserStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewUserStorage создает новый экземпляр UserStorage
func NewUserStorage(db *sqlx.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, logger: logger}
}

// CreateUser вставляет нового пользователя.
// Нарушение уникального индекса по username или email — финальный арбитр
// уникальности при гонке регистраций — превращается в domain.ConflictError.
func (s *UserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	start := time.Now()

	_, err := s.db.NamedExecContext(ctx, `
        INSERT INTO users (id, username, email, password_hash, created_at)
        VALUES (:id, :username, :email, :password_hash, :created_at)
    `, user)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			s.logger.Warn("duplicate user rejected by unique index",
				"username", user.Username,
				"constraint", pqErr.Constraint,
			)
			return &domain.ConflictError{Resource: conflictResource(pqErr.Constraint)}
		}
		s.logger.Error("failed to insert user", "username", user.Username, "error", err)
		return fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	s.logger.Info("user created successfully",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetUserByEmail получает пользователя по email, (nil, nil) если не найден
func (s *UserStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = $1 LIMIT 1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("failed to get user by email", "error", err)
		return nil, fmt.Errorf("ошибка при получении пользователя по email: %w", err)
	}
	return &user, nil
}

// UserExists проверяет занятость username или email (быстрая предварительная
// проверка; окончательное слово за уникальными индексами в CreateUser)
func (s *UserStorage) UserExists(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`,
		username, email,
	)
	if err != nil {
		s.logger.Error("failed to check user existence", "username", username, "error", err)
		return false, fmt.Errorf("ошибка при проверке существования пользователя: %w", err)
	}
	return exists, nil
}

// conflictResource переводит имя нарушенного ограничения в понятный ресурс
func conflictResource(constraint string) string {
	switch {
	case strings.Contains(constraint, "email"):
		return "email"
	case strings.Contains(constraint, "username"):
		return "имя пользователя"
	default:
		return "имя пользователя или email"
	}
}
