// Package repository 定义领域仓储接口
package repository

import (
	"context"

	"shop-assist-api/internal/domain/entity"
)

// ProductRepository 商品仓储接口
// GetByIDs 不保证返回顺序与入参一致，调用方需要按自己的排序要求重排。
type ProductRepository interface {
	// GetByIDs 按 ID 集合批量获取商品
	GetByIDs(ctx context.Context, ids []int64) ([]*entity.Product, error)
	// ListOrdered 按 ID 升序返回前 limit 个商品
	ListOrdered(ctx context.Context, limit int) ([]*entity.Product, error)
	// Upsert 批量写入商品（主键冲突时覆盖）
	Upsert(ctx context.Context, products []*entity.Product) error
	// Count 返回商品总数
	Count(ctx context.Context) (int64, error)
}
