package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials возвращается при любой неудаче входа:
// неизвестный email и неверный пароль намеренно неразличимы,
// чтобы по тексту ошибки нельзя было перебирать аккаунты.
var ErrInvalidCredentials = errors.New("неверный email или пароль")

// ValidationError — некорректный или отсутствующий ввод пользователя.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("некорректное поле %q: %s", e.Field, e.Reason)
}

// NewValidationError создает ValidationError для поля field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ConflictError — нарушение уникальности (username или email уже заняты).
type ConflictError struct {
	Resource string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s уже используется", e.Resource)
}

// MediaErrorKind различает причины отклонения файла.
type MediaErrorKind int

const (
	// MediaKindUnsupportedType — MIME-тип вне разрешенного набора.
	MediaKindUnsupportedType MediaErrorKind = iota
	// MediaKindTooLarge — файл превышает потолок размера.
	MediaKindTooLarge
)

// UnsupportedMediaError — файл отклонен валидацией до записи на диск.
type UnsupportedMediaError struct {
	Kind     MediaErrorKind
	MIMEType string
	Size     int64
	Reason   string
}

func (e *UnsupportedMediaError) Error() string {
	return e.Reason
}

// StorageError — неожиданный сбой хранилища (бд или файловая система).
// Подробности логируются внутри, наружу уходит только общий текст.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("ошибка хранилища при операции %q: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
