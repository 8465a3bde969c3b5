package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/GoArmGo/VidShare/internal/core/ports"
	"github.com/GoArmGo/VidShare/internal/domain"
)

// catalogUseCase implements CatalogUseCase
type catalogUseCase struct {
	postStorage ports.PostStorage
	logger      *slog.Logger
}

// NewCatalogUseCase создает новый экземпляр CatalogUseCase
func NewCatalogUseCase(postStorage ports.PostStorage, logger *slog.Logger) CatalogUseCase {
	return &catalogUseCase{postStorage: postStorage, logger: logger}
}

// ListRecent получает последние публикации из бд
func (uc *catalogUseCase) ListRecent(ctx context.Context, limit int) ([]domain.Post, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	posts, err := uc.postStorage.ListRecentPosts(ctx, limit)
	if err != nil {
		uc.logger.Error("recent posts listing failed", "error", err)
		return nil, &domain.StorageError{Op: "list recent", Err: err}
	}
	return posts, nil
}

// Search ищет публикации по подстроке. Пустой запрос не трогает хранилище.
func (uc *catalogUseCase) Search(ctx context.Context, query string) ([]domain.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Post{}, nil
	}

	posts, err := uc.postStorage.SearchPosts(ctx, query, defaultListLimit)
	if err != nil {
		uc.logger.Error("posts search failed", "query", query, "error", err)
		return nil, &domain.StorageError{Op: "search", Err: err}
	}
	return posts, nil
}

// GetPostByID получает публикацию с данными автора для страницы деталей
func (uc *catalogUseCase) GetPostByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	post, err := uc.postStorage.GetPostByID(ctx, id)
	if err != nil {
		uc.logger.Error("post details fetch failed", "post_id", id, "error", err)
		return nil, &domain.StorageError{Op: "get post", Err: err}
	}
	return post, nil
}
