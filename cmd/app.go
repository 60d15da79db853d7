package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"todo/api"
	todoapp "todo/application/todo"
	"todo/config"
	"todo/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用程序
type App struct {
	config  *config.Config
	router  *api.Router
	server  *http.Server
	service *todoapp.ApplicationService
	db      *gorm.DB
}

// Run 启动 HTTP 服务，ctx 取消后优雅关闭
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			zap.String("addr", a.server.Addr),
			zap.Bool("admin", a.config.Admin.Enabled))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.closeDB()
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down server", zap.Duration("timeout", a.config.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	a.closeDB()
	if err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

// Handler 返回 HTTP 处理器（用于测试）
func (a *App) Handler() http.Handler {
	return a.router.GetEngine()
}

// Service 返回任务存储
func (a *App) Service() *todoapp.ApplicationService {
	return a.service
}

func (a *App) closeDB() {
	if a.db == nil {
		return
	}
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
	}
}
