package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/VidShare/internal/config"
	"github.com/GoArmGo/VidShare/internal/core/ports"
	"github.com/GoArmGo/VidShare/internal/database/client"
	"github.com/GoArmGo/VidShare/internal/session"
	"github.com/GoArmGo/VidShare/internal/usecase"
)

type App struct {
	Config         *config.Config
	logger         *slog.Logger
	dbClient       *client.Client
	sessionManager *session.Manager
	authUseCase    usecase.AuthUseCase
	uploadUseCase  usecase.UploadUseCase
	catalogUseCase usecase.CatalogUseCase
	fileStorage    ports.FileStorage
	consumer       ports.PostUploadedConsumer
	queueCloser    interface{ Close() error }
}

func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	dbClient *client.Client,
	sessionManager *session.Manager,
	authUseCase usecase.AuthUseCase,
	uploadUseCase usecase.UploadUseCase,
	catalogUseCase usecase.CatalogUseCase,
	fileStorage ports.FileStorage,
	consumer ports.PostUploadedConsumer,
	queueCloser interface{ Close() error },
) *App {
	return &App{
		Config:         cfg,
		logger:         logger,
		dbClient:       dbClient,
		sessionManager: sessionManager,
		authUseCase:    authUseCase,
		uploadUseCase:  uploadUseCase,
		catalogUseCase: catalogUseCase,
		fileStorage:    fileStorage,
		consumer:       consumer,
		queueCloser:    queueCloser,
	}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает приложение в выбранном режиме и блокируется
// до сигнала завершения.
func (a *App) Run(ctx context.Context, mode *string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("application starting", "mode", *mode)

	var err error
	switch *mode {
	case "server":
		err = a.runServer(ctx)
	case "worker":
		err = a.runWorker(ctx)
	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте 'server' или 'worker')", *mode)
	}

	if shutdownErr := a.Shutdown(); shutdownErr != nil {
		a.logger.Error("shutdown finished with error", "error", shutdownErr)
	}

	return err
}

// Shutdown аккуратно закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	if a.sessionManager != nil {
		a.sessionManager.Close()
	}

	if a.queueCloser != nil {
		if err := a.queueCloser.Close(); err != nil {
			a.logger.Error("failed to close queue client", "error", err)
		}
	}

	if a.dbClient != nil {
		if err := a.dbClient.Close(); err != nil {
			return fmt.Errorf("ошибка закрытия БД: %w", err)
		}
	}

	a.logger.Info("application resources released")
	return nil
}
