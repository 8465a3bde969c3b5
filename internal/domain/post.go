package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post представляет модель публикации (видео с метаданными),
// соответствует таблице posts в бд
type Post struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	VideoKey    string    `json:"video_key" db:"video_key"`
	ThumbKey    *string   `json:"thumb_key" db:"thumb_key"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// AuthorUsername заполняется только при выборке с JOIN по users,
	// в таблице posts такой колонки нет.
	AuthorUsername string `json:"author_username,omitempty" db:"author_username"`
}
