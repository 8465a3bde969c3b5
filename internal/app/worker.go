package app

import (
	"context"
	"fmt"
	"io"

	"github.com/GoArmGo/VidShare/internal/messaging/payloads"
)

// runWorker запускает потребителя RabbitMQ, проверяющего доступность
// загруженного медиа, и блокируется до отмены контекста
func (a *App) runWorker(ctx context.Context) error {
	if a.consumer == nil {
		return fmt.Errorf("режим worker требует подключения к RabbitMQ")
	}

	a.logger.Info("worker started, waiting for post uploaded events")

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	messageHandler := func(ctx context.Context, payload payloads.PostUploadedPayload) error {
		a.logger.Info("verifying uploaded media", "post_id", payload.PostID, "video_key", payload.VideoKey)

		if err := a.verifyObject(ctx, payload.VideoKey); err != nil {
			return fmt.Errorf("проверка видео %s не удалась: %w", payload.VideoKey, err)
		}
		if payload.ThumbKey != nil {
			if err := a.verifyObject(ctx, *payload.ThumbKey); err != nil {
				return fmt.Errorf("проверка миниатюры %s не удалась: %w", *payload.ThumbKey, err)
			}
		}

		a.logger.Info("uploaded media verified", "post_id", payload.PostID)
		return nil
	}

	if err := a.consumer.StartConsumingPostUploaded(workerCtx, messageHandler); err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}

	<-ctx.Done()
	a.logger.Info("shutdown signal received, stopping worker")
	return nil
}

// verifyObject вычитывает объект целиком, подтверждая что он сохранен и читается
func (a *App) verifyObject(ctx context.Context, key string) error {
	rc, err := a.fileStorage.GetFile(ctx, key)
	if err != nil {
		return err
	}
	defer rc.Close()

	size, err := io.Copy(io.Discard, rc)
	if err != nil {
		return err
	}
	if size == 0 {
		return fmt.Errorf("объект %s пуст", key)
	}

	a.logger.Debug("object readable", "key", key, "bytes", size)
	return nil
}
