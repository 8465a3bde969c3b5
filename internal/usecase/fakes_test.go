package usecase

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/GoArmGo/VidShare/internal/domain"
	"github.com/GoArmGo/VidShare/internal/messaging/payloads"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeUserStorage хранит пользователей в памяти и, как и настоящая бд,
// отвергает дубликаты username/email в CreateUser.
type fakeUserStorage struct {
	users      []*domain.User
	existsErr  error
	createErr  error
	failExists bool // UserExists лжет "свободно", имитируя гонку регистраций
}

func (f *fakeUserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return &domain.ConflictError{Resource: "email"}
		}
		if u.Username == user.Username {
			return &domain.ConflictError{Resource: "имя пользователя"}
		}
	}
	cp := *user
	f.users = append(f.users, &cp)
	return nil
}

func (f *fakeUserStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStorage) UserExists(ctx context.Context, username, email string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	if f.failExists {
		return false, nil
	}
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// fakeSessionStore выдает предсказуемые токены и помнит уничтоженные.
type fakeSessionStore struct {
	issued    []domain.Session
	destroyed []string
	issueErr  error
}

func (f *fakeSessionStore) Issue(ctx context.Context, user domain.AuthenticatedUser) (*domain.Session, error) {
	if f.issueErr != nil {
		return nil, f.issueErr
	}
	sess := domain.Session{
		Token: uuid.NewString(),
		User:  user,
	}
	f.issued = append(f.issued, sess)
	return &sess, nil
}

func (f *fakeSessionStore) Resolve(ctx context.Context, token string) (*domain.AuthenticatedUser, error) {
	for _, d := range f.destroyed {
		if d == token {
			return nil, nil
		}
	}
	for _, s := range f.issued {
		if s.Token == token {
			user := s.User
			return &user, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionStore) Destroy(ctx context.Context, token string) error {
	f.destroyed = append(f.destroyed, token)
	return nil
}

// fakePostStorage пишет публикации в память.
type fakePostStorage struct {
	posts       []domain.Post
	saveErr     error
	searchCalls []string
	listCalls   []int
}

func (f *fakePostStorage) SavePost(ctx context.Context, post *domain.Post) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.posts = append(f.posts, *post)
	return nil
}

func (f *fakePostStorage) GetPostByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	for _, p := range f.posts {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePostStorage) ListRecentPosts(ctx context.Context, limit int) ([]domain.Post, error) {
	f.listCalls = append(f.listCalls, limit)
	if limit > len(f.posts) {
		limit = len(f.posts)
	}
	out := make([]domain.Post, 0, limit)
	// новые первыми
	for i := len(f.posts) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.posts[i])
	}
	return out, nil
}

func (f *fakePostStorage) SearchPosts(ctx context.Context, query string, limit int) ([]domain.Post, error) {
	f.searchCalls = append(f.searchCalls, query)
	needle := strings.ToLower(query)
	var out []domain.Post
	for i := len(f.posts) - 1; i >= 0; i-- {
		p := f.posts[i]
		if strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeFileStorage складывает объекты в память и считает записи.
type fakeFileStorage struct {
	objects   map[string][]byte
	deleted   []string
	failOnDir string // подстрока ключа, на которой UploadFile падает
	uploadErr error
}

func newFakeFileStorage() *fakeFileStorage {
	return &fakeFileStorage{objects: map[string][]byte{}}
}

func (f *fakeFileStorage) UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	if f.uploadErr != nil && (f.failOnDir == "" || strings.Contains(key, f.failOnDir)) {
		return "", f.uploadErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	f.objects[key] = data
	return key, nil
}

func (f *fakeFileStorage) GetFile(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeFileStorage) DeleteFile(ctx context.Context, key string) error {
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

// fakePublisher запоминает опубликованные события.
type fakePublisher struct {
	published  []payloads.PostUploadedPayload
	publishErr error
}

func (f *fakePublisher) PublishPostUploaded(ctx context.Context, payload payloads.PostUploadedPayload) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, payload)
	return nil
}
