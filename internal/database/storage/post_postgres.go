package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/GoArmGo/VidShare/internal/domain"
)

// PostStorage реализует интерфейс ports.PostStorage поверх PostgreSQL
type PostStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostStorage создает новый экземпляр PostStorage
func NewPostStorage(db *sqlx.DB, logger *slog.Logger) *PostStorage {
	return &PostStorage{db: db, logger: logger}
}

// SavePost сохраняет метаданные публикации в базе данных
func (s *PostStorage) SavePost(ctx context.Context, post *domain.Post) error {
	start := time.Now()

	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}

	query := `
	INSERT INTO posts (id, user_id, title, description, video_key, thumb_key, created_at)
	VALUES (:id, :user_id, :title, :description, :video_key, :thumb_key, :created_at)
	`

	_, err := s.db.NamedExecContext(ctx, query, post)
	if err != nil {
		s.logger.Error("failed to save post", "user_id", post.UserID, "error", err)
		return fmt.Errorf("ошибка при сохранении публикации: %w", err)
	}

	s.logger.Info("post saved successfully",
		"id", post.ID,
		"user_id", post.UserID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetPostByID получает публикацию вместе с username автора,
// (nil, nil) если публикации нет
func (s *PostStorage) GetPostByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	start := time.Now()

	var post domain.Post
	query := `
	SELECT p.id, p.user_id, p.title, COALESCE(p.description, '') AS description,
	       p.video_key, p.thumb_key, p.created_at,
	       u.username AS author_username
	FROM posts p
	JOIN users u ON u.id = p.user_id
	WHERE p.id = $1
	LIMIT 1`

	err := s.db.GetContext(ctx, &post, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("post not found by id", "id", id)
			return nil, nil
		}
		s.logger.Error("failed to get post by id", "id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении публикации по ID: %w", err)
	}

	s.logger.Info("post retrieved by id",
		"id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &post, nil
}

// ListRecentPosts получает последние публикации, новые первыми
func (s *PostStorage) ListRecentPosts(ctx context.Context, limit int) ([]domain.Post, error) {
	start := time.Now()

	q := `
	SELECT id, user_id, title, COALESCE(description, '') AS description,
	       video_key, thumb_key, created_at
	FROM posts
	ORDER BY created_at DESC
	LIMIT $1
	`

	var posts []domain.Post
	if err := s.db.SelectContext(ctx, &posts, q, limit); err != nil {
		s.logger.Error("failed to list recent posts", "limit", limit, "error", err)
		return nil, fmt.Errorf("ошибка при получении списка публикаций: %w", err)
	}

	s.logger.Info("listed recent posts successfully",
		"limit", limit,
		"count", len(posts),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return posts, nil
}

// SearchPosts ищет публикации по подстроке в title и description
// без учета регистра, новые первыми
func (s *PostStorage) SearchPosts(ctx context.Context, query string, limit int) ([]domain.Post, error) {
	start := time.Now()

	q := `
	SELECT id, user_id, title, COALESCE(description, '') AS description,
	       video_key, thumb_key, created_at
	FROM posts
	WHERE LOWER(title) LIKE LOWER($1) ESCAPE '\'
	   OR LOWER(COALESCE(description, '')) LIKE LOWER($1) ESCAPE '\'
	ORDER BY created_at DESC
	LIMIT $2
	`

	searchTerm := "%" + escapeLikePattern(query) + "%"
	var posts []domain.Post

	if err := s.db.SelectContext(ctx, &posts, q, searchTerm, limit); err != nil {
		s.logger.Error("failed to search posts", "query", query, "error", err)
		return nil, fmt.Errorf("ошибка при поиске публикаций: %w", err)
	}

	s.logger.Info("posts search completed",
		"query", query,
		"found", len(posts),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return posts, nil
}

// escapeLikePattern экранирует метасимволы LIKE (%, _, \),
// чтобы запрос искал буквальную подстроку
func escapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
