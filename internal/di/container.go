package di

import (
	"fmt"
	"time"

	"github.com/GoArmGo/VidShare/internal/adapter/storage/fsstore"
	"github.com/GoArmGo/VidShare/internal/adapter/storage/minio"
	"github.com/GoArmGo/VidShare/internal/app"
	"github.com/GoArmGo/VidShare/internal/auth"
	"github.com/GoArmGo/VidShare/internal/config"
	"github.com/GoArmGo/VidShare/internal/core/ports"
	"github.com/GoArmGo/VidShare/internal/database/client"
	"github.com/GoArmGo/VidShare/internal/database/storage"
	"github.com/GoArmGo/VidShare/internal/logger"
	"github.com/GoArmGo/VidShare/internal/rabbitmq"
	"github.com/GoArmGo/VidShare/internal/session"
	"github.com/GoArmGo/VidShare/internal/usecase"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp() (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// 2. PostgreSQL клиент с миграциями
	dbClient, err := client.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}

	// 3. Хранилища метаданных
	userStorage := storage.NewUserStorage(dbClient.DB, slogger)
	postStorage := storage.NewPostStorage(dbClient.DB, slogger)

	// 4. Файловое хранилище по выбранному бэкенду
	var fileStorage ports.FileStorage
	switch cfg.MediaBackend {
	case "s3":
		fileStorage, err = minio.NewClient(cfg, slogger)
	default:
		fileStorage, err = fsstore.NewClient(cfg.ContentRoot, slogger)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации файлового хранилища: %w", err)
	}

	// 5. RabbitMQ клиент (publisher + consumer)
	rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}

	// 6. Сессии и хэширование паролей
	sessionManager := session.NewManager(cfg.SessionTTL, time.Minute, slogger)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	// 7. Бизнес-логика (usecases)
	authUseCase := usecase.NewAuthUseCase(userStorage, sessionManager, hasher, slogger)
	uploadUseCase := usecase.NewUploadUseCase(postStorage, fileStorage, rabbitMQClient, cfg.MaxUploadBytes, slogger)
	catalogUseCase := usecase.NewCatalogUseCase(postStorage, slogger)

	// 8. Сборка итогового приложения
	application := app.NewApp(
		cfg,
		slogger,
		dbClient,
		sessionManager,
		authUseCase,
		uploadUseCase,
		catalogUseCase,
		fileStorage,
		rabbitMQClient,
		rabbitMQClient,
	)

	slogger.Info("all dependencies initialized")
	return application, nil
}
