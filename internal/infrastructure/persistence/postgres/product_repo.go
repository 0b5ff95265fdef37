// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"shop-assist-api/internal/domain/entity"
)

// ProductRepository 商品仓储实现
type ProductRepository struct {
	client *Client
}

// NewProductRepository 创建商品仓储
func NewProductRepository(client *Client) *ProductRepository {
	return &ProductRepository{client: client}
}

// GetByIDs 批量获取商品，返回顺序不保证与入参一致
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Product, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProductRepository.GetByIDs")
	defer span.End()

	if len(ids) == 0 {
		return []*entity.Product{}, nil
	}

	var products []*entity.Product
	db := r.client.db.WithContext(ctx)
	if err := db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

// ListOrdered 按 ID 升序返回前 limit 个商品
func (r *ProductRepository) ListOrdered(ctx context.Context, limit int) ([]*entity.Product, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProductRepository.ListOrdered")
	defer span.End()

	var products []*entity.Product
	db := r.client.db.WithContext(ctx)
	if err := db.Order("id ASC").Limit(limit).Find(&products).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Upsert 批量写入商品，主键冲突时整行覆盖
func (r *ProductRepository) Upsert(ctx context.Context, products []*entity.Product) error {
	ctx, span := tracer.Start(ctx, "postgres.ProductRepository.Upsert")
	defer span.End()

	if len(products) == 0 {
		return nil
	}

	db := r.client.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&products).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upsert products: %w", err)
	}
	return nil
}

// Count 商品总数
func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProductRepository.Count")
	defer span.End()

	var count int64
	db := r.client.db.WithContext(ctx)
	if err := db.Model(&entity.Product{}).Count(&count).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}
