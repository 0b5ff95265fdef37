// Package main 客服知识库摄取任务入口
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"shop-assist-api/internal/application/ingest"
	"shop-assist-api/internal/bootstrap"
	"shop-assist-api/internal/config"
	"shop-assist-api/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	var dir string
	flag.StringVar(&dir, "dir", "", "knowledge base directory (overrides config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
	)

	if dir == "" {
		dir = cfg.SupportKB.Dir
	}

	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Info("starting kb ingest",
		"dir", dir,
		"chunk_size", cfg.SupportKB.ChunkSize,
		"chunk_overlap", cfg.SupportKB.ChunkOverlap,
		"offline", cfg.Assistant.Offline,
	)

	infra, cleanup, err := bootstrap.NewInfra(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize infrastructure", err)
	}
	defer cleanup()

	embedder, err := bootstrap.NewEmbedder(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize embedder", err)
	}

	ingestor := ingest.NewKBIngestor(&cfg.SupportKB, embedder, infra.Vector, cfg.Embedding.BatchSize)

	chunks, err := ingestor.Run(ctx, dir)
	if err != nil {
		logger.Fatal(ctx, "kb ingest failed", err)
	}

	log.Info("kb ingest finished", "chunks", chunks)
}
