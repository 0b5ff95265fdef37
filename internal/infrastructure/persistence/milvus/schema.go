// Package milvus 提供 Milvus 向量数据库访问层实现
package milvus

import (
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// 集合 Schema 统一为四个字段：主键、向量、原文、元数据（JSON 字符串）。
// 两个集合结构相同，只是语料不同（商品文案 / 客服知识库分块）。

// CollectionSchema 构建检索集合的 Schema，dim 为向量维度
func CollectionSchema(name, description string, dim int) *entity.Schema {
	return &entity.Schema{
		CollectionName: name,
		Description:    description,
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "128",
				},
			},
			{
				Name:     "vector",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": fmt.Sprintf("%d", dim),
				},
			},
			{
				Name:     "text",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "65535",
				},
			},
			{
				Name:     "metadata",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "65535",
				},
			},
		},
	}
}

// ProductsSchema 商品语料集合 Schema
func ProductsSchema(dim int) *entity.Schema {
	return CollectionSchema("products", "Product copy for semantic search", dim)
}

// SupportKBSchema 客服知识库集合 Schema
func SupportKBSchema(dim int) *entity.Schema {
	return CollectionSchema("support_kb", "Support knowledge base chunks", dim)
}
