package ports

import (
	"context"

	"github.com/GoArmGo/VidShare/internal/messaging/payloads"
)

// PostUploadedPublisher определяет методы для публикации событий о новых загрузках
// Этот интерфейс используется пайплайном загрузки после успешной записи Post
type PostUploadedPublisher interface {
	PublishPostUploaded(ctx context.Context, payload payloads.PostUploadedPayload) error
}

// PostUploadedConsumer определяет методы для потребления событий о загрузках
// используется воркером для получения задач проверки медиа из очереди
type PostUploadedConsumer interface {
	// StartConsumingPostUploaded начинает прослушивание очереди,
	// handler вызывается для каждого полученного события
	StartConsumingPostUploaded(ctx context.Context, handler func(context.Context, payloads.PostUploadedPayload) error) error
}
