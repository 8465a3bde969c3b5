package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	ServerPort  string `env:"SERVER_PORT"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Настройки пайплайна загрузки
	ContentRoot    string `env:"CONTENT_ROOT"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES"`

	// Настройки аутентификации
	SessionTTL time.Duration `env:"SESSION_TTL"`
	BcryptCost int           `env:"BCRYPT_COST"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// MediaBackend выбирает реализацию файлового хранилища: "fs" или "s3"
	MediaBackend string `env:"MEDIA_BACKEND"`

	// Настройки для MinIO (нужны только при MEDIA_BACKEND=s3)
	MinioEndpoint        string `env:"MINIO_ENDPOINT"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME"`
	MinioRegion          string `env:"MINIO_REGION"`

	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL,required"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"post_uploaded_queue"`
	}
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	// Вручную устанавливаем значения по умолчанию для тех полей, где они нужны
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.ContentRoot == "" {
		cfg.ContentRoot = "./content"
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 200 << 20 // 200 MiB
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}
	if cfg.BcryptCost <= 0 {
		cfg.BcryptCost = 12
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if cfg.MediaBackend == "" {
		cfg.MediaBackend = "fs"
	}

	if cfg.MediaBackend != "fs" && cfg.MediaBackend != "s3" {
		return nil, fmt.Errorf("недопустимое значение MEDIA_BACKEND: %q (ожидается fs или s3)", cfg.MediaBackend)
	}

	return &cfg, nil
}
