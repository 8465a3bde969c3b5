package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/GoArmGo/VidShare/internal/domain"
)

// BcryptHasher хэширует пароли через bcrypt с настраиваемой стоимостью.
// Соль и work factor bcrypt встраивает в сам дайджест.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher создает хэшер со стоимостью cost.
// Значения вне диапазона bcrypt заменяются на DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash возвращает одностороннее представление пароля.
func (h *BcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("ошибка хэширования пароля: %w", err)
	}
	return string(digest), nil
}

// Verify сравнивает пароль с сохраненным хэшем.
// Несовпадение возвращается как domain.ErrInvalidCredentials,
// любая другая ошибка bcrypt (битый хэш) — как есть.
func (h *BcryptHasher) Verify(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return domain.ErrInvalidCredentials
	}
	return fmt.Errorf("ошибка проверки пароля: %w", err)
}
