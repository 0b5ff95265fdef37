// Package ingest 提供商品目录与客服知识库的离线摄取
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/embedding"

	"shop-assist-api/internal/application/assistant"
	"shop-assist-api/internal/config"
	"shop-assist-api/internal/domain/entity"
	"shop-assist-api/internal/domain/repository"
	"shop-assist-api/pkg/logger"
	"shop-assist-api/pkg/metrics"
)

// CacheInvalidator 摄取完成后需要失效的缓存
type CacheInvalidator interface {
	InvalidateRecommendations(ctx context.Context) error
}

// fakeStoreProduct FakeStore API 的商品结构
type fakeStoreProduct struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

// CatalogIngestor 商品目录摄取器。
// 从 FakeStore API 拉取商品，写入关系库并重建商品向量索引。
// 重复执行幂等：同一商品覆盖写，不产生重复行或重复向量。
type CatalogIngestor struct {
	baseURL    string
	httpClient *http.Client

	products repository.ProductRepository
	embedder embedding.Embedder
	vector   assistant.VectorIndex
	cache    CacheInvalidator

	batchSize int
}

// NewCatalogIngestor 创建商品目录摄取器，cache 可为 nil
func NewCatalogIngestor(
	cfg *config.CatalogConfig,
	products repository.ProductRepository,
	embedder embedding.Embedder,
	vector assistant.VectorIndex,
	cache CacheInvalidator,
	batchSize int,
) *CatalogIngestor {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CatalogIngestor{
		baseURL:    strings.TrimRight(cfg.FakeStoreURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		products:   products,
		embedder:   embedder,
		vector:     vector,
		cache:      cache,
		batchSize:  batchSize,
	}
}

// Run 执行一次完整摄取，返回处理的商品数
func (c *CatalogIngestor) Run(ctx context.Context) (int, error) {
	items, err := c.fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	if len(items) == 0 {
		logger.Warn(ctx, "catalog source returned no products")
		return 0, nil
	}

	products := make([]*entity.Product, 0, len(items))
	for _, item := range items {
		products = append(products, &entity.Product{
			ID:          item.ID,
			Title:       item.Title,
			Description: item.Description,
			Category:    item.Category,
			Price:       item.Price,
			Image:       item.Image,
		})
	}

	if err := c.products.Upsert(ctx, products); err != nil {
		return 0, fmt.Errorf("failed to store catalog: %w", err)
	}

	if err := c.index(ctx, products); err != nil {
		return 0, err
	}

	if c.cache != nil {
		if err := c.cache.InvalidateRecommendations(ctx); err != nil {
			// 缓存最迟 TTL 后自愈，失效失败不算摄取失败
			logger.Warn(ctx, "failed to invalidate recommendation cache", "reason", err.Error())
		}
	}

	metrics.IngestedItemsTotal.WithLabelValues("catalog").Add(float64(len(products)))
	logger.Info(ctx, "catalog ingested", "count", len(products))
	return len(products), nil
}

func (c *CatalogIngestor) fetch(ctx context.Context) ([]*fakeStoreProduct, error) {
	url := c.baseURL + "/products"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	var items []*fakeStoreProduct
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}
	return items, nil
}

// index 用商品文案重建向量索引，文档 ID 即商品 ID
func (c *CatalogIngestor) index(ctx context.Context, products []*entity.Product) error {
	texts := make([]string, 0, len(products))
	docs := make([]*assistant.Document, 0, len(products))

	for _, p := range products {
		text := p.IndexText()
		if strings.TrimSpace(text) == "" {
			continue
		}
		texts = append(texts, text)
		docs = append(docs, &assistant.Document{
			ID:   strconv.FormatInt(p.ID, 10),
			Text: text,
			Metadata: map[string]string{
				"title":    p.Title,
				"category": p.Category,
			},
		})
	}
	if len(docs) == 0 {
		return nil
	}

	vectors, err := embedBatch(ctx, c.embedder, texts, c.batchSize)
	if err != nil {
		return fmt.Errorf("failed to embed catalog: %w", err)
	}
	for i := range docs {
		docs[i].Vector = vectors[i]
	}

	if err := c.vector.Upsert(ctx, assistant.CollectionProducts, docs); err != nil {
		return fmt.Errorf("failed to index catalog: %w", err)
	}
	return nil
}
