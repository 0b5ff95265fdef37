// Package main 商品目录摄取任务入口
package main

import (
	"context"
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

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
	)

	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Info("starting catalog ingest",
		"source", cfg.Catalog.FakeStoreURL,
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

	ingestor := ingest.NewCatalogIngestor(
		&cfg.Catalog,
		infra.Products,
		embedder,
		infra.Vector,
		infra.Cache,
		cfg.Embedding.BatchSize,
	)

	count, err := ingestor.Run(ctx)
	if err != nil {
		logger.Fatal(ctx, "catalog ingest failed", err)
	}

	log.Info("catalog ingest finished", "products", count)
}
