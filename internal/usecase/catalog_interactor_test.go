package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/VidShare/internal/domain"
)

func seedPosts(posts *fakePostStorage) {
	posts.posts = []domain.Post{
		{ID: uuid.New(), Title: "Dogs playing", Description: "собаки"},
		{ID: uuid.New(), Title: "Cats sleeping", Description: "видео про котов"},
		{ID: uuid.New(), Title: "Nature", Description: "scattered clouds"},
	}
}

func TestSearch_EmptyQueryReturnsNothing(t *testing.T) {
	posts := &fakePostStorage{}
	seedPosts(posts)
	uc := NewCatalogUseCase(posts, testLogger())

	result, err := uc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.NotNil(t, result)
	assert.Empty(t, posts.searchCalls, "пустой запрос не должен трогать хранилище")

	result, err = uc.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Empty(t, posts.searchCalls)
}

func TestSearch_CaseInsensitiveSubstring(t *testing.T) {
	posts := &fakePostStorage{}
	seedPosts(posts)
	uc := NewCatalogUseCase(posts, testLogger())

	result, err := uc.Search(context.Background(), "cat")
	require.NoError(t, err)

	// "Cats sleeping" по заголовку и "Nature" по "scattered" в описании
	require.Len(t, result, 2)
	titles := []string{result[0].Title, result[1].Title}
	assert.Contains(t, titles, "Cats sleeping")
	assert.Contains(t, titles, "Nature")
}

func TestSearch_MetacharactersAreLiteral(t *testing.T) {
	posts := &fakePostStorage{}
	posts.posts = []domain.Post{
		{ID: uuid.New(), Title: "Скидка 100% на монтаж"},
		{ID: uuid.New(), Title: "snake_case naming"},
		{ID: uuid.New(), Title: "Обычный заголовок"},
	}
	uc := NewCatalogUseCase(posts, testLogger())
	ctx := context.Background()

	// "_" и "%" — буквальные символы, а не шаблоны LIKE
	result, err := uc.Search(ctx, "_")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "snake_case naming", result[0].Title)

	result, err = uc.Search(ctx, "100%")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Скидка 100% на монтаж", result[0].Title)

	result, err = uc.Search(ctx, "100%%")
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestListRecent_LimitClamped(t *testing.T) {
	posts := &fakePostStorage{}
	uc := NewCatalogUseCase(posts, testLogger())
	ctx := context.Background()

	_, err := uc.ListRecent(ctx, 0)
	require.NoError(t, err)
	_, err = uc.ListRecent(ctx, 1000)
	require.NoError(t, err)
	_, err = uc.ListRecent(ctx, 10)
	require.NoError(t, err)

	assert.Equal(t, []int{defaultListLimit, defaultListLimit, 10}, posts.listCalls)
}

func TestListRecent_NewestFirst(t *testing.T) {
	posts := &fakePostStorage{}
	seedPosts(posts)
	uc := NewCatalogUseCase(posts, testLogger())

	result, err := uc.ListRecent(context.Background(), 24)
	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, "Nature", result[0].Title)
	assert.Equal(t, "Dogs playing", result[2].Title)
}

func TestGetPostByID_NotFound(t *testing.T) {
	uc := NewCatalogUseCase(&fakePostStorage{}, testLogger())

	post, err := uc.GetPostByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, post)
}

func TestGetPostByID_Found(t *testing.T) {
	posts := &fakePostStorage{}
	seedPosts(posts)
	uc := NewCatalogUseCase(posts, testLogger())

	want := posts.posts[1]
	post, err := uc.GetPostByID(context.Background(), want.ID)
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, want.Title, post.Title)
}
