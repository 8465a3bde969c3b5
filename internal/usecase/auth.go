package usecase

import (
	"context"

	"github.com/GoArmGo/VidShare/internal/domain"
)

// PasswordHasher определяет одностороннее хэширование учетных данных.
// Work factor выбирается реализацией (bcrypt, стоимость 12 по умолчанию).
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Verify возвращает domain.ErrInvalidCredentials при несовпадении пароля.
	Verify(hash, password string) error
}

// AuthUseCase определяет интерфейс бизнес-логики аутентификации:
// регистрация, вход и выход.
type AuthUseCase interface {
	// Register проверяет ввод, создает пользователя и выдает сессию.
	// Возвращает *domain.ValidationError при некорректном вводе
	// и *domain.ConflictError при занятом username или email.
	Register(ctx context.Context, username, email, password string) (*domain.Session, error)

	// Login проверяет учетные данные и выдает сессию.
	// Неизвестный email и неверный пароль возвращают один и тот же
	// domain.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*domain.Session, error)

	// Logout уничтожает сессию; для несуществующего токена — no-op.
	Logout(ctx context.Context, token string) error
}

// Ограничения полей регистрации
const (
	usernameMinLen = 3
	usernameMaxLen = 24
	passwordMinLen = 6
)
