// Package bootstrap 提供进程启动时的依赖装配
package bootstrap

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"

	"shop-assist-api/internal/application/assistant"
	"shop-assist-api/internal/config"
	embeddinginfra "shop-assist-api/internal/infrastructure/embedding"
	"shop-assist-api/internal/infrastructure/llm"
	"shop-assist-api/internal/infrastructure/persistence/milvus"
	"shop-assist-api/internal/infrastructure/persistence/postgres"
	"shop-assist-api/internal/infrastructure/persistence/redis"
	"shop-assist-api/pkg/logger"
)

// Infra 基础设施客户端集合
type Infra struct {
	PG     *postgres.Client
	Redis  *redis.Client
	Milvus *milvus.Client

	Products *postgres.ProductRepository
	Vector   *milvus.Repository
	Cache    *redis.Cache
	Limiter  *redis.RateLimiter
}

// NewInfra 装配基础设施层，返回的清理函数按逆序关闭连接
func NewInfra(ctx context.Context, cfg *config.Config) (*Infra, func(), error) {
	pg, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := pg.AutoMigrate(); err != nil {
		_ = pg.Close()
		return nil, nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	redisClient, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		_ = pg.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	milvusClient, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		_ = redisClient.Close()
		_ = pg.Close()
		return nil, nil, fmt.Errorf("failed to connect to milvus: %w", err)
	}

	vector := milvus.NewRepository(milvusClient, cfg.Embedding.Dimension)
	if err := vector.EnsureCollections(ctx); err != nil {
		// 集合缺失只影响检索路径，检索策略自身会降级
		logger.Warn(ctx, "failed to ensure vector collections", "reason", err.Error())
	}

	infra := &Infra{
		PG:       pg,
		Redis:    redisClient,
		Milvus:   milvusClient,
		Products: postgres.NewProductRepository(pg),
		Vector:   vector,
		Cache:    redis.NewCache(redisClient),
		Limiter:  redis.NewRateLimiter(redisClient),
	}

	cleanup := func() {
		_ = milvusClient.Close()
		_ = redisClient.Close()
		_ = pg.Close()
	}
	return infra, cleanup, nil
}

// NewEmbedder 按配置选择真实或离线 Embedder
func NewEmbedder(ctx context.Context, cfg *config.Config) (embedding.Embedder, error) {
	if cfg.Assistant.Offline {
		return embeddinginfra.NewOfflineEmbedder(cfg.Embedding.Dimension), nil
	}
	return embeddinginfra.NewEinoEmbedder(ctx, &cfg.Embedding)
}

// NewChatModel 按配置选择真实或离线 ChatModel
func NewChatModel(ctx context.Context, cfg *config.Config) (model.BaseChatModel, error) {
	if cfg.Assistant.Offline {
		return llm.NewFakeChatModel(), nil
	}
	return llm.NewEinoFactory(cfg).Default(ctx)
}

// Assistant 助手应用层组件集合
type Assistant struct {
	Router      *assistant.Router
	Search      *assistant.ProductSearch
	Recommender *assistant.Recommender
	Support     *assistant.SupportAnswerer
}

// NewAssistant 装配助手应用层
func NewAssistant(cfg *config.Config, chatModel model.BaseChatModel, embedder embedding.Embedder, infra *Infra) *Assistant {
	classifier := assistant.NewClassifier(chatModel)
	recommender := assistant.NewRecommender(infra.Products, infra.Cache, cfg.Cache.RecommendTTL)
	search := assistant.NewProductSearch(embedder, infra.Vector, infra.Products, recommender, cfg.Assistant.SearchTopK)
	support := assistant.NewSupportAnswerer(embedder, infra.Vector, cfg.Assistant.SupportTopK)

	return &Assistant{
		Router:      assistant.NewRouter(classifier, search, recommender, support, cfg.Assistant.SearchTopK),
		Search:      search,
		Recommender: recommender,
		Support:     support,
	}
}
