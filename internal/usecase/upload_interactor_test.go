package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/VidShare/internal/domain"
)

const testMaxBytes = 200 << 20

func uploader() domain.AuthenticatedUser {
	return domain.AuthenticatedUser{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@x.com",
	}
}

func videoPart(mime string, size int64) FilePart {
	return FilePart{
		Role:     RoleVideo,
		MIMEType: mime,
		Size:     size,
		Ext:      ".mp4",
		Data:     strings.NewReader("видеоданные"),
	}
}

func thumbPart(mime string) FilePart {
	return FilePart{
		Role:     RoleThumbnail,
		MIMEType: mime,
		Size:     1024,
		Ext:      ".jpg",
		Data:     strings.NewReader("картинка"),
	}
}

func newUploadFixture() (UploadUseCase, *fakePostStorage, *fakeFileStorage, *fakePublisher) {
	posts := &fakePostStorage{}
	files := newFakeFileStorage()
	pub := &fakePublisher{}
	uc := NewUploadUseCase(posts, files, pub, testMaxBytes, testLogger())
	return uc, posts, files, pub
}

func TestAcceptUpload_Success(t *testing.T) {
	uc, posts, files, pub := newUploadFixture()
	user := uploader()

	post, err := uc.AcceptUpload(context.Background(), user, UploadRequest{
		Title:       "Cats",
		Description: "видео про котов",
		Parts:       []FilePart{videoPart("video/mp4", 1000), thumbPart("image/jpeg")},
	})
	require.NoError(t, err)
	require.NotNil(t, post)

	assert.Equal(t, "Cats", post.Title)
	assert.Equal(t, user.ID, post.UserID)
	assert.NotEqual(t, uuid.Nil, post.ID)
	assert.True(t, strings.HasPrefix(post.VideoKey, "videos/"))
	require.NotNil(t, post.ThumbKey)
	assert.True(t, strings.HasPrefix(*post.ThumbKey, "thumbs/"))

	require.Len(t, posts.posts, 1)
	assert.Len(t, files.objects, 2)

	require.Len(t, pub.published, 1)
	assert.Equal(t, post.ID.String(), pub.published[0].PostID)
}

func TestAcceptUpload_NoThumbnail(t *testing.T) {
	uc, posts, files, _ := newUploadFixture()

	post, err := uc.AcceptUpload(context.Background(), uploader(), UploadRequest{
		Title: "Cats",
		Parts: []FilePart{videoPart("video/quicktime", 1000)},
	})
	require.NoError(t, err)
	assert.Nil(t, post.ThumbKey)
	assert.Len(t, files.objects, 1)
	assert.Len(t, posts.posts, 1)
}

func TestAcceptUpload_RejectedVideoType(t *testing.T) {
	uc, posts, files, _ := newUploadFixture()

	_, err := uc.AcceptUpload(context.Background(), uploader(), UploadRequest{
		Title: "Cats",
		Parts: []FilePart{videoPart("video/webm", 1000)},
	})

	var mediaErr *domain.UnsupportedMediaError
	require.ErrorAs(t, err, &mediaErr)
	assert.Equal(t, domain.MediaKindUnsupportedType, mediaErr.Kind)

	// ни байта на диске, ни записи в каталоге
	assert.Empty(t, files.objects)
	assert.Empty(t, posts.posts)
}

func TestAcceptUpload_RejectedThumbnailType(t *testing.T) {
	uc, _, files, _ := newUploadFixture()

	_, err := uc.AcceptUpload(context.Background(), uploader(), UploadRequest{
		Title: "Cats",
		Parts: []FilePart{videoPart("video/mp4", 1000), thumbPart("image/gif")},
	})

	var mediaErr *domain.UnsupportedMediaError
	require.ErrorAs(t, err, &mediaErr)
	assert.Equal(t, domain.MediaKindUnsupportedType, mediaErr.Kind)
	assert.Empty(t, files.objects)
}

func TestAcceptUpload_OversizedFile(t *testing.T) {
	uc, posts, files, _ := newUploadFixture()

	_, err := uc.AcceptUpload(context.Background(), uploader(), UploadRequest{
		Title: "Cats",
		Parts: []FilePart{videoPart("video/mp4", testMaxBytes+1)},
	})

	var mediaErr *domain.UnsupportedMediaError
	require.ErrorAs(t, err, &mediaErr)
	assert.Equal(t, domain.MediaKindTooLarge, mediaErr.Kind)
	assert.Empty(t, files.objects)
	assert.Empty(t, posts.posts)
}

func TestAcceptUpload_MissingVideo(t *testing.T) {
	uc, _, files, _ := newUploadFixture()

	_, err := uc.AcceptUpload(context.Background(), uploader(), UploadRequest{
		Title: "Cats",
		Parts: []FilePart{thumbPart("image/png")},
	})

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Empty(t, files.objects)
}

func TestAcceptUpload_MissingTitle(t *testing.T) {
	uc, _, files, _ := newUploadFixture()

	_, err := uc.AcceptUpload(context.Background(), uploader(), UploadRequest{
		Parts: []FilePart{videoPart("video/mp4", 1000)},
	})

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Empty(t, files.objects)
}

func TestAcceptUpload_DuplicateVideoParts(t *testing.T) {
	uc, _, files, _ := newUploadFixture()

	_, err := uc.AcceptUpload(context.Background(), uploader(), UploadRequest{
		Title: "Cats",
		Parts: []FilePart{videoPart("video/mp4", 1000), videoPart("video/mp4", 1000)},
	})

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Empty(t, files.objects)
}

func TestAcceptUpload_ThumbnailWriteFailureCleansVideo(t *testing.T) {
	posts := &fakePostStorage{}
	files := newFakeFileStorage()
	files.uploadErr = errors.New("диск переполнен")
	files.failOnDir = "thumbs/"
	uc := NewUploadUseCase(posts, files, &fakePublisher{}, testMaxBytes, testLogger())

	_, err := uc.AcceptUpload(context.Background(), uploader(), UploadRequest{
		Title: "Cats",
		Parts: []FilePart{videoPart("video/mp4", 1000), thumbPart("image/jpeg")},
	})

	var storageErr *domain.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Empty(t, files.objects, "видео удалено после сбоя миниатюры")
	assert.Empty(t, posts.posts)
	require.Len(t, files.deleted, 1)
	assert.True(t, strings.HasPrefix(files.deleted[0], "videos/"))
}

func TestAcceptUpload_DBFailureCleansFiles(t *testing.T) {
	posts := &fakePostStorage{saveErr: errors.New("бд недоступна")}
	files := newFakeFileStorage()
	uc := NewUploadUseCase(posts, files, &fakePublisher{}, testMaxBytes, testLogger())

	_, err := uc.AcceptUpload(context.Background(), uploader(), UploadRequest{
		Title: "Cats",
		Parts: []FilePart{videoPart("video/mp4", 1000), thumbPart("image/jpeg")},
	})

	var storageErr *domain.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Empty(t, files.objects)
	assert.Len(t, files.deleted, 2)
}

func TestAcceptUpload_PublishFailureDoesNotFailUpload(t *testing.T) {
	posts := &fakePostStorage{}
	files := newFakeFileStorage()
	pub := &fakePublisher{publishErr: errors.New("брокер недоступен")}
	uc := NewUploadUseCase(posts, files, pub, testMaxBytes, testLogger())

	post, err := uc.AcceptUpload(context.Background(), uploader(), UploadRequest{
		Title: "Cats",
		Parts: []FilePart{videoPart("video/mp4", 1000)},
	})
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Len(t, posts.posts, 1)
}

func TestStoredKey_Unique(t *testing.T) {
	part := videoPart("video/mp4", 1000)
	seen := make(map[string]bool)
	for range 50 {
		key := storedKey("videos", &part)
		assert.True(t, strings.HasPrefix(key, "videos/"))
		assert.True(t, strings.HasSuffix(key, ".mp4"))
		require.False(t, seen[key], "имена хранимых файлов не должны коллидировать")
		seen[key] = true
	}
}

func TestStoredKey_ExtFallbackFromMIME(t *testing.T) {
	part := FilePart{Role: RoleVideo, MIMEType: "video/quicktime"}
	key := storedKey("videos", &part)
	assert.True(t, strings.HasSuffix(key, ".mov"))
}
