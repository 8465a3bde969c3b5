package ports

import (
	"context"
	"io"

	"github.com/GoArmGo/VidShare/internal/domain"
	"github.com/google/uuid"
)

// UserStorage определяет методы для взаимодействия с хранилищем пользователей.
// Уникальность username/email окончательно гарантируется индексами бд:
// CreateUser обязан вернуть *domain.ConflictError при их нарушении.
type UserStorage interface {
	CreateUser(ctx context.Context, user *domain.User) error

	// GetUserByEmail возвращает (nil, nil), если пользователь не найден.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// UserExists — быстрая проверка занятости username или email.
	UserExists(ctx context.Context, username, email string) (bool, error)
}

// PostStorage определяет методы для взаимодействия с хранилищем публикаций
type PostStorage interface {
	SavePost(ctx context.Context, post *domain.Post) error

	// GetPostByID возвращает публикацию вместе с username автора
	// или (nil, nil), если такой публикации нет.
	GetPostByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)

	// ListRecentPosts возвращает не более limit публикаций, новые первыми.
	ListRecentPosts(ctx context.Context, limit int) ([]domain.Post, error)

	// SearchPosts ищет подстроку query в title и description без учета регистра.
	SearchPosts(ctx context.Context, query string, limit int) ([]domain.Post, error)
}

// FileStorage определяет интерфейс для работы с файловым хранилищем
// (локальный content root или S3/MinIO). key — относительный путь объекта,
// например "videos/1712-abcd.mp4". Файлы только добавляются, никогда
// не перезаписываются.
type FileStorage interface {
	// UploadFile сохраняет содержимое под ключом key и возвращает итоговый ключ.
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)

	// GetFile открывает сохраненный объект на чтение.
	GetFile(ctx context.Context, key string) (io.ReadCloser, error)

	// DeleteFile удаляет объект (используется для отката неполных загрузок).
	DeleteFile(ctx context.Context, key string) error
}

// SessionStore определяет хранилище активных сессий.
// Реализация может быть памятью процесса или внешним KV-хранилищем,
// для AuthenticationService это несущественно.
type SessionStore interface {
	// Issue генерирует неугадываемый токен и записывает сессию пользователя.
	Issue(ctx context.Context, user domain.AuthenticatedUser) (*domain.Session, error)

	// Resolve возвращает (nil, nil) для неизвестного или истекшего токена.
	Resolve(ctx context.Context, token string) (*domain.AuthenticatedUser, error)

	// Destroy инвалидирует токен; повторный вызов — no-op.
	Destroy(ctx context.Context, token string) error
}
