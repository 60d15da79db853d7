package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"todo/api"
	"todo/api/admin"
	"todo/api/health"
	apitodo "todo/api/todo"
	todoapp "todo/application/todo"
	"todo/config"
	"todo/domain/todo"
	"todo/infrastructure/persistence/file"
	"todo/infrastructure/persistence/memory"
	"todo/infrastructure/persistence/mysql"
	"todo/infrastructure/persistence/retry"
	"todo/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AppBuilder builds an App with customizable components
type AppBuilder struct {
	cfg         *config.Config
	controllers []api.Controller
	repo        todo.Repository
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{
		cfg:         cfg,
		controllers: []api.Controller{},
	}
}

// WithController adds a controller to the app
func (b *AppBuilder) WithController(c api.Controller) *AppBuilder {
	b.controllers = append(b.controllers, c)
	return b
}

// WithRepository 替换按 store.type 创建的快照仓储
func (b *AppBuilder) WithRepository(repo todo.Repository) *AppBuilder {
	b.repo = repo
	return b
}

// Build creates the App instance
func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if err := logger.Init(&b.cfg.Log, b.cfg.App.Env); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env),
		zap.String("store", b.cfg.Store.Type))

	var db *gorm.DB
	repo := b.repo
	if repo == nil {
		var err error
		repo, db, err = OpenRepository(ctx, b.cfg)
		if err != nil {
			return nil, err
		}
	}

	todoService := todoapp.NewApplicationService(ctx, repo)

	var sqlDB *sql.DB
	if db != nil {
		sqlDB, _ = db.DB()
	}

	controllers := []api.Controller{
		health.NewController(b.cfg, todoService, sqlDB),
		apitodo.NewController(todoService),
	}
	if b.cfg.Admin.Enabled {
		controllers = append(controllers, admin.NewController(todoService))
	} else {
		logger.Info("Admin endpoints disabled")
	}
	controllers = append(controllers, b.controllers...)

	router := api.NewRouter(b.cfg, controllers...)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}

	return &App{
		config:  b.cfg,
		router:  router,
		server:  server,
		service: todoService,
		db:      db,
	}, nil
}

// OpenRepository 按 store.type 创建快照仓储；mysql 时同时返回连接
func OpenRepository(ctx context.Context, cfg *config.Config) (todo.Repository, *gorm.DB, error) {
	switch cfg.Store.Type {
	case config.StoreTypeFile:
		logger.Info("Using file snapshot store", zap.String("path", cfg.Store.Path))
		return file.NewSnapshotRepository(cfg.Store.Path), nil, nil

	case config.StoreTypeMemory:
		logger.Warn("Using in-memory store; tasks are lost on restart")
		return memory.NewSnapshotRepository(), nil, nil

	case config.StoreTypeMySQL:
		logger.Info("Using MySQL/GORM snapshot store")
		db, err := mysql.NewConfig(&cfg.Database).Connect()
		if err != nil {
			return nil, nil, err
		}
		if err := mysql.Ping(ctx, db); err != nil {
			return nil, nil, fmt.Errorf("failed to ping MySQL: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := mysql.AutoMigrate(db); err != nil {
				return nil, nil, err
			}
		}
		return mysql.NewSnapshotRepository(db, retry.FromAppConfig(cfg)), db, nil
	}

	return nil, nil, fmt.Errorf("unknown store.type %q", cfg.Store.Type)
}
