package assistant

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/embedding"

	"shop-assist-api/internal/domain/entity"
	"shop-assist-api/internal/domain/repository"
	"shop-assist-api/pkg/logger"
	"shop-assist-api/pkg/metrics"
)

// ProductSearch 语义商品检索策略。
// 向量召回为空或检索失败时降级到 Recommender。
type ProductSearch struct {
	embedder    embedding.Embedder
	vector      VectorIndex
	products    repository.ProductRepository
	recommender *Recommender

	topK int
}

// NewProductSearch 创建商品检索策略
func NewProductSearch(embedder embedding.Embedder, vector VectorIndex, products repository.ProductRepository, recommender *Recommender, topK int) *ProductSearch {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &ProductSearch{
		embedder:    embedder,
		vector:      vector,
		products:    products,
		recommender: recommender,
		topK:        topK,
	}
}

// Search 在 products 集合中检索与 query 语义相近的商品。
// 返回顺序与向量索引的近邻排名一致，而不是仓储的取数顺序。
func (s *ProductSearch) Search(ctx context.Context, query string) ([]*entity.Product, error) {
	matches, err := s.vectorPass(ctx, query)
	if err != nil {
		logger.Warn(ctx, "product vector search degraded to recommender", "reason", err.Error())
		metrics.RetrievalFallbacksTotal.WithLabelValues("product_search", "vector_error").Inc()
		return s.recommender.Recommend(ctx, s.topK)
	}
	if len(matches) == 0 {
		metrics.RetrievalFallbacksTotal.WithLabelValues("product_search", "empty_index").Inc()
		return s.recommender.Recommend(ctx, s.topK)
	}

	ids := make([]int64, 0, len(matches))
	rank := make(map[int64]int, len(matches))
	for _, m := range matches {
		id, err := strconv.ParseInt(strings.TrimSpace(m.ID), 10, 64)
		if err != nil {
			continue
		}
		if _, seen := rank[id]; seen {
			continue
		}
		rank[id] = len(ids)
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		metrics.RetrievalFallbacksTotal.WithLabelValues("product_search", "empty_index").Inc()
		return s.recommender.Recommend(ctx, s.topK)
	}

	items, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch products by ids: %w", err)
	}

	// 仓储批量取数不保证入参顺序，按近邻排名重排
	ordered := make([]*entity.Product, len(ids))
	for _, p := range items {
		if pos, ok := rank[p.ID]; ok {
			ordered[pos] = p
		}
	}
	out := make([]*entity.Product, 0, len(ordered))
	for _, p := range ordered {
		if p != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *ProductSearch) vectorPass(ctx context.Context, query string) ([]*Match, error) {
	if s == nil || s.embedder == nil || s.vector == nil {
		return nil, fmt.Errorf("%w: vector search not configured", ErrRetrieval)
	}

	vec, err := embedQuery(ctx, s.embedder, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}

	start := time.Now()
	matches, err := s.vector.Search(ctx, CollectionProducts, vec, s.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}
	metrics.VectorSearchDuration.WithLabelValues(CollectionProducts).Observe(time.Since(start).Seconds())
	return matches, nil
}

// embedQuery 单条文本向量化
func embedQuery(ctx context.Context, embedder embedding.Embedder, query string) ([]float32, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, fmt.Errorf("query is empty")
	}
	vecs, err := embedder.EmbedStrings(ctx, []string{q})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	out := make([]float32, 0, len(vecs[0]))
	for _, x := range vecs[0] {
		out = append(out, float32(x))
	}
	return out, nil
}
