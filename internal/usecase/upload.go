package usecase

import (
	"context"
	"io"

	"github.com/GoArmGo/VidShare/internal/domain"
)

// FileRole помечает назначение файла в загрузке.
type FileRole int

const (
	RoleVideo FileRole = iota
	RoleThumbnail
)

func (r FileRole) String() string {
	switch r {
	case RoleVideo:
		return "video"
	case RoleThumbnail:
		return "thumbnail"
	default:
		return "unknown"
	}
}

// FilePart — один файл из multipart-формы с явной ролью вместо
// диспетчеризации по имени поля.
type FilePart struct {
	Role     FileRole
	MIMEType string
	Size     int64
	Ext      string
	Data     io.Reader
}

// UploadRequest — проверяемое описание загрузки: метаданные и файлы.
type UploadRequest struct {
	Title       string
	Description string
	Parts       []FilePart
}

// UploadUseCase определяет интерфейс пайплайна загрузки
type UploadUseCase interface {
	// AcceptUpload валидирует запрос, сохраняет файлы под
	// коллизионно-устойчивыми именами и создает запись Post.
	// Вся валидация выполняется до первой записи на диск: при отказе
	// валидации ни один байт не сохраняется.
	AcceptUpload(ctx context.Context, user domain.AuthenticatedUser, req UploadRequest) (*domain.Post, error)
}

// Разрешенные MIME-типы
var (
	allowedVideoTypes = map[string]bool{
		"video/mp4":       true,
		"video/quicktime": true,
	}
	allowedImageTypes = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
	}
)

// extByMIME — запасное расширение, когда у исходного файла его не было
var extByMIME = map[string]string{
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
}
