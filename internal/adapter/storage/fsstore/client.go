package fsstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client — файловое хранилище поверх локального content root.
// Реализует ports.FileStorage. Объекты только добавляются: запись идет
// во временный файл с O_EXCL и затем переименовывается, существующие
// файлы никогда не перезаписываются.
type Client struct {
	root   string
	logger *slog.Logger
}

// NewClient создает хранилище под каталогом root и заводит подкаталоги
// videos/ и thumbs/, если их еще нет.
func NewClient(root string, logger *slog.Logger) (*Client, error) {
	for _, sub := range []string{"videos", "thumbs"} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			return nil, fmt.Errorf("ошибка создания каталога %s: %w", sub, err)
		}
	}

	logger.Info("content root initialized", "root", root)
	return &Client{root: root, logger: logger}, nil
}

// UploadFile записывает содержимое под ключом key и возвращает key.
func (c *Client) UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	start := time.Now()

	dst, err := c.resolve(key)
	if err != nil {
		return "", err
	}

	// сначала пишем во временный файл, чтобы незавершенная запись
	// не была видна под финальным именем
	tmp := dst + ".part"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		c.logger.Error("failed to create content file", "key", key, "error", err)
		return "", fmt.Errorf("ошибка создания файла %s: %w", key, err)
	}

	written, err := io.Copy(f, reader)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		c.logger.Error("failed to write content file", "key", key, "error", err)
		return "", fmt.Errorf("ошибка записи файла %s: %w", key, err)
	}

	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		c.logger.Error("failed to finalize content file", "key", key, "error", err)
		return "", fmt.Errorf("ошибка завершения записи файла %s: %w", key, err)
	}

	c.logger.Info("file stored",
		"key", key,
		"content_type", contentType,
		"bytes", written,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return key, nil
}

// GetFile открывает сохраненный объект на чтение.
func (c *Client) GetFile(ctx context.Context, key string) (io.ReadCloser, error) {
	dst, err := c.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(dst)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла %s: %w", key, err)
	}
	return f, nil
}

// DeleteFile удаляет объект. Отсутствующий файл не считается ошибкой.
func (c *Client) DeleteFile(ctx context.Context, key string) error {
	dst, err := c.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		c.logger.Error("failed to delete content file", "key", key, "error", err)
		return fmt.Errorf("ошибка удаления файла %s: %w", key, err)
	}
	return nil
}

// resolve превращает ключ объекта в абсолютный путь внутри content root
// и отвергает ключи, выводящие за его пределы.
func (c *Client) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("недопустимый ключ объекта: %q", key)
	}
	return filepath.Join(c.root, clean), nil
}
