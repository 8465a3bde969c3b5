package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/GoArmGo/VidShare/internal/core/ports"
	"github.com/GoArmGo/VidShare/internal/domain"
)

// authUseCase implements AuthUseCase
type authUseCase struct {
	userStorage ports.UserStorage
	sessions    ports.SessionStore
	hasher      PasswordHasher
	logger      *slog.Logger
}

// NewAuthUseCase создает новый экземпляр AuthUseCase
func NewAuthUseCase(
	userStorage ports.UserStorage,
	sessions ports.SessionStore,
	hasher PasswordHasher,
	logger *slog.Logger,
) AuthUseCase {
	return &authUseCase{
		userStorage: userStorage,
		sessions:    sessions,
		hasher:      hasher,
		logger:      logger,
	}
}

// Register проверяет ввод, хэширует пароль, создает пользователя и выдает сессию.
// Предварительная проверка занятости — быстрый путь; гонку двух одинаковых
// регистраций окончательно разрешают уникальные индексы бд в CreateUser.
func (uc *authUseCase) Register(ctx context.Context, username, email, password string) (*domain.Session, error) {
	if err := validateRegistration(username, email, password); err != nil {
		return nil, err
	}

	exists, err := uc.userStorage.UserExists(ctx, username, email)
	if err != nil {
		uc.logger.Error("registration existence check failed", "error", err)
		return nil, &domain.StorageError{Op: "register", Err: err}
	}
	if exists {
		// до хэширования: не тратим work factor на заведомый конфликт
		return nil, &domain.ConflictError{Resource: "имя пользователя или email"}
	}

	hash, err := uc.hasher.Hash(password)
	if err != nil {
		uc.logger.Error("password hashing failed", "error", err)
		return nil, &domain.StorageError{Op: "register", Err: err}
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := uc.userStorage.CreateUser(ctx, user); err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			return nil, conflict
		}
		uc.logger.Error("user insert failed", "error", err)
		return nil, &domain.StorageError{Op: "register", Err: err}
	}

	sess, err := uc.sessions.Issue(ctx, domain.AuthenticatedUser{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	if err != nil {
		uc.logger.Error("session issue failed after registration", "user_id", user.ID, "error", err)
		return nil, &domain.StorageError{Op: "register", Err: err}
	}

	uc.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return sess, nil
}

// Login ищет пользователя по email и сверяет пароль.
func (uc *authUseCase) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if email == "" {
		return nil, domain.NewValidationError("email", "обязательное поле")
	}
	if password == "" {
		return nil, domain.NewValidationError("password", "обязательное поле")
	}

	user, err := uc.userStorage.GetUserByEmail(ctx, email)
	if err != nil {
		uc.logger.Error("login lookup failed", "error", err)
		return nil, &domain.StorageError{Op: "login", Err: err}
	}
	if user == nil {
		// тот же ответ, что и при неверном пароле
		return nil, domain.ErrInvalidCredentials
	}

	if err := uc.hasher.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return nil, domain.ErrInvalidCredentials
		}
		uc.logger.Error("password verification failed unexpectedly", "user_id", user.ID, "error", err)
		return nil, &domain.StorageError{Op: "login", Err: err}
	}

	sess, err := uc.sessions.Issue(ctx, domain.AuthenticatedUser{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	if err != nil {
		uc.logger.Error("session issue failed after login", "user_id", user.ID, "error", err)
		return nil, &domain.StorageError{Op: "login", Err: err}
	}

	uc.logger.Info("user logged in", "user_id", user.ID)
	return sess, nil
}

// Logout уничтожает сессию; идемпотентен.
func (uc *authUseCase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := uc.sessions.Destroy(ctx, token); err != nil {
		return fmt.Errorf("usecase: ошибка при уничтожении сессии: %w", err)
	}
	return nil
}

// validateRegistration проверяет все поля регистрации до обращения к бд
func validateRegistration(username, email, password string) error {
	if username == "" {
		return domain.NewValidationError("username", "обязательное поле")
	}
	if email == "" {
		return domain.NewValidationError("email", "обязательное поле")
	}
	if password == "" {
		return domain.NewValidationError("password", "обязательное поле")
	}
	// границы считаем в символах, не в байтах
	if n := utf8.RuneCountInString(username); n < usernameMinLen || n > usernameMaxLen {
		return domain.NewValidationError("username",
			fmt.Sprintf("длина должна быть от %d до %d символов", usernameMinLen, usernameMaxLen))
	}
	if len(password) < passwordMinLen {
		return domain.NewValidationError("password",
			fmt.Sprintf("минимальная длина %d символов", passwordMinLen))
	}
	return nil
}
