package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/GoArmGo/VidShare/internal/domain"
)

// defaultListLimit — размер каталожной выборки по умолчанию и ее потолок.
const defaultListLimit = 24

// CatalogUseCase определяет интерфейс чтения каталога публикаций.
// Только чтение: записи в каталог делает исключительно пайплайн загрузки.
type CatalogUseCase interface {
	// ListRecent возвращает последние публикации, новые первыми.
	// limit вне диапазона (0, defaultListLimit] заменяется на defaultListLimit.
	ListRecent(ctx context.Context, limit int) ([]domain.Post, error)

	// Search ищет подстроку в title и description без учета регистра.
	// Пустой запрос дает пустой результат, а не весь каталог.
	Search(ctx context.Context, query string) ([]domain.Post, error)

	// GetPostByID возвращает публикацию с username автора
	// или (nil, nil), если ее нет.
	GetPostByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
}
