package domain

import (
	"time"

	"github.com/google/uuid"
)

// User представляет модель пользователя в системе.
// Соответствует таблице 'users' в базе данных.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// AuthenticatedUser — публичная часть пользователя, привязанная к сессии.
// Хэш пароля сюда никогда не попадает.
type AuthenticatedUser struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// Session — серверная запись активной сессии.
// Токен непрозрачный, передается клиенту в cookie.
type Session struct {
	Token     string            `json:"token"`
	User      AuthenticatedUser `json:"user"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// Expired сообщает, истекла ли сессия на момент now.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
