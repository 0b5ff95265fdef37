// Package main 购物助手 API 服务入口
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop-assist-api/internal/bootstrap"
	"shop-assist-api/internal/config"
	"shop-assist-api/internal/interfaces/http/handler"
	"shop-assist-api/internal/interfaces/http/router"
	"shop-assist-api/pkg/logger"
	"shop-assist-api/pkg/tracer"

	"github.com/joho/godotenv"
)

// Version 版本信息，构建时注入
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件（如果存在）
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger.Init(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
	)

	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Info("starting assistant-api",
		"version", Version,
		"build_time", BuildTime,
		"env", cfg.App.Env,
		"offline", cfg.Assistant.Offline,
	)

	// 初始化追踪
	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName: cfg.App.Name,
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		log.Error("failed to init tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			log.Error("failed to shutdown tracer", "error", err)
		}
	}()

	// 装配基础设施
	infra, cleanup, err := bootstrap.NewInfra(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize infrastructure", err)
	}
	defer cleanup()

	// 装配模型后端与助手应用层
	chatModel, err := bootstrap.NewChatModel(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize chat model", err)
	}
	embedder, err := bootstrap.NewEmbedder(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize embedder", err)
	}
	app := bootstrap.NewAssistant(cfg, chatModel, embedder, infra)

	// 装配 HTTP 层
	r := router.New(cfg, router.Handlers{
		Chat:   handler.NewChatHandler(app.Router),
		Search: handler.NewSearchHandler(app.Search, app.Recommender),
		Health: handler.NewHealthHandler(infra.PG, infra.Redis, infra.Milvus),
	}, infra.Limiter)

	// 创建 HTTP 服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, cfg.Server.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
	}

	// 启动服务器
	go func() {
		log.Info("http server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// 优雅关闭
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
