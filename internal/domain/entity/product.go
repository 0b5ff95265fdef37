// Package entity 定义领域实体
package entity

// Product 商品目录条目
// 由批量摄取任务写入，查询链路只读。
type Product struct {
	ID          int64   `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"size:255;not null"`
	Description string  `json:"description,omitempty" gorm:"type:text"`
	Category    string  `json:"category,omitempty" gorm:"size:100"`
	Price       float64 `json:"price" gorm:"type:numeric(10,2);not null"`
	Image       string  `json:"image,omitempty" gorm:"size:255"`
}

// TableName GORM 表名
func (Product) TableName() string {
	return "products"
}

// IndexText 返回用于向量索引的文本（优先描述，回退标题）
func (p *Product) IndexText() string {
	if p.Description != "" {
		return p.Description
	}
	return p.Title
}
