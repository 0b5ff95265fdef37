package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shop-assist-api/internal/domain/entity"
	"shop-assist-api/internal/domain/repository"
	"shop-assist-api/pkg/logger"
)

const defaultTopK = 5

// RecommendCache 读穿透缓存端口，由 Redis 实现。
// loader 的返回值序列化为 JSON 后缓存。
type RecommendCache interface {
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error)
}

// Recommender 基于热门度的推荐策略。
// 确定性：按 ID 升序取前 k 个，同样的 k 多次调用结果（内容与顺序）一致。
type Recommender struct {
	products repository.ProductRepository
	cache    RecommendCache
	ttl      time.Duration
}

// NewRecommender 创建推荐策略，cache 可为 nil（直连仓储）
func NewRecommender(products repository.ProductRepository, cache RecommendCache, ttl time.Duration) *Recommender {
	return &Recommender{products: products, cache: cache, ttl: ttl}
}

// Recommend 返回前 k 个商品。
// 数据量不足 k 时返回实际数量，k 过大不视为错误。
// 缓存故障只降级为直连查询，不向上传播。
func (r *Recommender) Recommend(ctx context.Context, k int) ([]*entity.Product, error) {
	if r == nil || r.products == nil {
		return nil, fmt.Errorf("product repository not configured")
	}
	if k <= 0 {
		k = defaultTopK
	}

	if r.cache != nil && r.ttl > 0 {
		key := fmt.Sprintf("recommend:top:%d", k)
		raw, err := r.cache.GetOrLoad(ctx, key, r.ttl, func() (interface{}, error) {
			return r.products.ListOrdered(ctx, k)
		})
		if err == nil {
			var items []*entity.Product
			if uerr := json.Unmarshal(raw, &items); uerr == nil {
				return items, nil
			}
			logger.Warn(ctx, "recommend cache payload invalid, falling back to repository", "key", key)
		} else {
			logger.Warn(ctx, "recommend cache unavailable, falling back to repository", "key", key, "reason", err.Error())
		}
	}

	return r.products.ListOrdered(ctx, k)
}
