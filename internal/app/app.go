package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/critterpost/critterpost/internal/config"
	"github.com/critterpost/critterpost/internal/db"
	"github.com/critterpost/critterpost/internal/repository"
	"github.com/critterpost/critterpost/internal/service"
	"github.com/critterpost/critterpost/internal/storage"
	"github.com/critterpost/critterpost/internal/task"
	"github.com/critterpost/critterpost/internal/token"
)

type App struct {
	Cfg         *config.Config
	DB          *sqlx.DB
	Queue       *task.Queue
	AuthService *service.AuthService
	PostService *service.PostService
	Storage     storage.Storage
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	postRepository := repository.NewPostRepository(database)
	commentRepository := repository.NewCommentRepository(database)
	likeRepository := repository.NewLikeRepository(database)

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Deferred task workers
	queue := task.NewQueue(cfg.TaskWorkers, cfg.TaskQueueSize)

	// Services
	tokenService := token.NewService(cfg.JWTSecret, cfg.AccessTokenExpiry, cfg.ConfirmTokenExpiry)
	emailService := service.NewEmailService(
		cfg.MailgunDomain,
		cfg.MailgunAPIKey,
		cfg.MailgunAPIBase,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	imageGenService := service.NewImageGenService(cfg.ImageGenAPIKey, cfg.ImageGenAPIBase, cfg.ImageFormat)
	enrichmentService := service.NewEnrichmentService(imageGenService, postRepository, emailService)
	authService := service.NewAuthService(userRepository, tokenService, emailService, queue, cfg.AppURL)
	postService := service.NewPostService(
		postRepository,
		commentRepository,
		likeRepository,
		enrichmentService,
		queue,
		cfg.AppURL,
	)

	return &App{
		Cfg:         cfg,
		DB:          database,
		Queue:       queue,
		AuthService: authService,
		PostService: postService,
		Storage:     fileStorage,
	}, nil
}

// Close drains the task queue, then closes the database.
func (a *App) Close() error {
	if a.Queue != nil {
		a.Queue.Shutdown()
	}
	return db.Close(a.DB)
}
