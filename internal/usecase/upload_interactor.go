package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/GoArmGo/VidShare/internal/core/ports"
	"github.com/GoArmGo/VidShare/internal/domain"
	"github.com/GoArmGo/VidShare/internal/messaging/payloads"
)

// uploadUseCase implements UploadUseCase
type uploadUseCase struct {
	postStorage ports.PostStorage
	fileStorage ports.FileStorage
	publisher   ports.PostUploadedPublisher
	maxBytes    int64
	logger      *slog.Logger
}

// NewUploadUseCase создает новый экземпляр UploadUseCase.
// publisher может быть nil — тогда события о загрузках не публикуются.
func NewUploadUseCase(
	postStorage ports.PostStorage,
	fileStorage ports.FileStorage,
	publisher ports.PostUploadedPublisher,
	maxBytes int64,
	logger *slog.Logger,
) UploadUseCase {
	return &uploadUseCase{
		postStorage: postStorage,
		fileStorage: fileStorage,
		publisher:   publisher,
		maxBytes:    maxBytes,
		logger:      logger,
	}
}

// AcceptUpload валидирует запрос, сохраняет файлы и создает Post.
func (uc *uploadUseCase) AcceptUpload(ctx context.Context, user domain.AuthenticatedUser, req UploadRequest) (*domain.Post, error) {
	video, thumb, err := uc.validate(req)
	if err != nil {
		return nil, err
	}

	// Валидация пройдена, дальше только записи.
	videoKey, err := uc.fileStorage.UploadFile(ctx, storedKey("videos", video), video.Data, video.MIMEType)
	if err != nil {
		uc.logger.Error("video write failed", "user_id", user.ID, "error", err)
		return nil, &domain.StorageError{Op: "upload video", Err: err}
	}

	var thumbKey *string
	if thumb != nil {
		key, err := uc.fileStorage.UploadFile(ctx, storedKey("thumbs", thumb), thumb.Data, thumb.MIMEType)
		if err != nil {
			// не оставляем осиротевшее видео без записи Post
			if delErr := uc.fileStorage.DeleteFile(ctx, videoKey); delErr != nil {
				uc.logger.Error("orphaned video cleanup failed", "key", videoKey, "error", delErr)
			}
			uc.logger.Error("thumbnail write failed", "user_id", user.ID, "error", err)
			return nil, &domain.StorageError{Op: "upload thumbnail", Err: err}
		}
		thumbKey = &key
	}

	post := &domain.Post{
		ID:          uuid.New(),
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		VideoKey:    videoKey,
		ThumbKey:    thumbKey,
		CreatedAt:   time.Now(),
	}

	if err := uc.postStorage.SavePost(ctx, post); err != nil {
		if delErr := uc.fileStorage.DeleteFile(ctx, videoKey); delErr != nil {
			uc.logger.Error("video cleanup after db failure failed", "key", videoKey, "error", delErr)
		}
		if thumbKey != nil {
			if delErr := uc.fileStorage.DeleteFile(ctx, *thumbKey); delErr != nil {
				uc.logger.Error("thumbnail cleanup after db failure failed", "key", *thumbKey, "error", delErr)
			}
		}
		uc.logger.Error("post insert failed", "user_id", user.ID, "error", err)
		return nil, &domain.StorageError{Op: "save post", Err: err}
	}

	uc.publishUploaded(ctx, post)

	uc.logger.Info("upload accepted",
		"post_id", post.ID,
		"user_id", user.ID,
		"video_key", post.VideoKey,
		"has_thumb", thumbKey != nil,
	)
	return post, nil
}

// validate проверяет весь запрос до первой записи.
// Порядок: наличие и тип видео, тип миниатюры, размеры, заголовок.
func (uc *uploadUseCase) validate(req UploadRequest) (video, thumb *FilePart, err error) {
	for i := range req.Parts {
		part := &req.Parts[i]
		switch part.Role {
		case RoleVideo:
			if video != nil {
				return nil, nil, domain.NewValidationError("video", "допускается только один видеофайл")
			}
			video = part
		case RoleThumbnail:
			if thumb != nil {
				return nil, nil, domain.NewValidationError("thumb", "допускается только одна миниатюра")
			}
			thumb = part
		default:
			return nil, nil, domain.NewValidationError("file", fmt.Sprintf("неизвестная роль файла: %d", part.Role))
		}
	}

	if video == nil {
		return nil, nil, domain.NewValidationError("video", "видеофайл обязателен")
	}
	if !allowedVideoTypes[video.MIMEType] {
		return nil, nil, &domain.UnsupportedMediaError{
			Kind:     domain.MediaKindUnsupportedType,
			MIMEType: video.MIMEType,
			Size:     video.Size,
			Reason:   fmt.Sprintf("недопустимый тип видео: %s", video.MIMEType),
		}
	}
	if thumb != nil && !allowedImageTypes[thumb.MIMEType] {
		return nil, nil, &domain.UnsupportedMediaError{
			Kind:     domain.MediaKindUnsupportedType,
			MIMEType: thumb.MIMEType,
			Size:     thumb.Size,
			Reason:   fmt.Sprintf("недопустимый тип миниатюры: %s", thumb.MIMEType),
		}
	}

	for _, part := range []*FilePart{video, thumb} {
		if part == nil {
			continue
		}
		if part.Size > uc.maxBytes {
			return nil, nil, &domain.UnsupportedMediaError{
				Kind:     domain.MediaKindTooLarge,
				MIMEType: part.MIMEType,
				Size:     part.Size,
				Reason:   fmt.Sprintf("файл %s превышает потолок %d байт", part.Role, uc.maxBytes),
			}
		}
	}

	if req.Title == "" {
		return nil, nil, domain.NewValidationError("title", "обязательное поле")
	}

	return video, thumb, nil
}

// publishUploaded отправляет событие о загрузке. Сбой публикации не
// отменяет уже принятую загрузку и только логируется.
func (uc *uploadUseCase) publishUploaded(ctx context.Context, post *domain.Post) {
	if uc.publisher == nil {
		return
	}
	payload := payloads.PostUploadedPayload{
		PostID:   post.ID.String(),
		UserID:   post.UserID.String(),
		Title:    post.Title,
		VideoKey: post.VideoKey,
		ThumbKey: post.ThumbKey,
	}
	if err := uc.publisher.PublishPostUploaded(ctx, payload); err != nil {
		uc.logger.Error("post uploaded event publish failed", "post_id", post.ID, "error", err)
	}
}

// storedKey строит имя хранимого объекта: временная метка + случайная
// компонента + исходное расширение. Конкурентные загрузки не коллидируют,
// исходное имя файла наружу не попадает.
func storedKey(dir string, part *FilePart) string {
	ext := part.Ext
	if ext == "" {
		ext = extByMIME[part.MIMEType]
	}
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString(), ext)
	return path.Join(dir, name)
}
