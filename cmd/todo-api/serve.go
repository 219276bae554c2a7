package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"todo_api/internal/config"
	"todo_api/internal/database"
	"todo_api/internal/logging"
	"todo_api/internal/todo"
)

func serve(cfg config.Config) error {
	// 主流程：初始化日志、打开存储、启动 HTTP 服务并等待退出信号
	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
	})

	backend, db, err := openBackend(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	handlerCfg := todo.HandlerConfig{
		Version:        version,
		Environment:    cfg.Environment,
		AllowedOrigins: cfg.AllowedOrigins,
	}
	if pinger, ok := backend.(todo.Pinger); ok {
		handlerCfg.Database = pinger
	}
	handler := todo.NewHandler(todo.NewManager(backend, logger), logger, handlerCfg)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler.Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		// 启动 HTTP 服务，非正常关闭才返回错误
		logger.Info("listening", "addr", cfg.Addr, "backend", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// 监听系统信号，触发优雅退出
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	logger.Info("shutting down")
	// 给予超时时间完成正在处理的请求
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openBackend builds the configured storage backend. The returned *sql.DB is
// nil for the in-memory backend.
func openBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (todo.Backend, *sql.DB, error) {
	var (
		dialect database.Dialect
		dsn     string
	)
	switch cfg.StorageBackend {
	case config.BackendMemory:
		return todo.NewMemoryBackend(), nil, nil
	case config.BackendPostgres:
		dialect, dsn = database.Postgres, cfg.PostgresDSN()
	case config.BackendSQLite:
		dialect, dsn = database.SQLite, database.SQLiteDSN(cfg.SQLitePath)
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	db, err := database.Open(dialect, dsn, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("db connect failed: %w", err)
	}
	if err := database.EnsureSchema(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return todo.NewSQLBackend(db, dialect), db, nil
}
