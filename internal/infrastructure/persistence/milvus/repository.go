// Package milvus 提供 Milvus 向量数据库访问层实现
package milvus

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"shop-assist-api/internal/application/assistant"
)

// Repository 向量索引仓储，实现 assistant.VectorIndex
type Repository struct {
	client *Client
	dim    int
}

// NewRepository 创建向量索引仓储，dim 为向量维度
func NewRepository(client *Client, dim int) *Repository {
	return &Repository{client: client, dim: dim}
}

// EnsureCollections 确保两个检索集合与索引可用（不存在则创建）。
// 约束：不会做 drop/rebuild 等破坏性操作。
func (r *Repository) EnsureCollections(ctx context.Context) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}

	for _, schema := range []*entity.Schema{
		ProductsSchema(r.dim),
		SupportKBSchema(r.dim),
	} {
		name := schema.CollectionName
		exists, err := r.client.HasCollection(ctx, name)
		if err != nil {
			return err
		}
		if !exists {
			if err := r.createCollection(ctx, schema); err != nil {
				return err
			}
			if err := r.createIndex(ctx, name); err != nil {
				return err
			}
		}
		if err := r.client.LoadCollection(ctx, name); err != nil {
			return fmt.Errorf("failed to load collection %s: %w", name, err)
		}
	}
	return nil
}

func (r *Repository) createCollection(ctx context.Context, schema *entity.Schema) error {
	ctx, span := tracer.Start(ctx, "milvus.CreateCollection",
		trace.WithAttributes(attribute.String("collection", schema.CollectionName)))
	defer span.End()

	schema.CollectionName = r.client.CollectionName(schema.CollectionName)

	if err := r.client.milvus.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

func (r *Repository) createIndex(ctx context.Context, collection string) error {
	ctx, span := tracer.Start(ctx, "milvus.CreateIndex",
		trace.WithAttributes(attribute.String("collection", collection)))
	defer span.End()

	idx, err := entity.NewIndexHNSW(
		entity.COSINE,
		r.client.config.HNSWM,
		r.client.config.HNSWEfConstruction,
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create index: %w", err)
	}

	collName := r.client.CollectionName(collection)
	if err := r.client.milvus.CreateIndex(ctx, collName, "vector", idx, false); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create index: %w", err)
	}
	return nil
}

// Upsert 按 ID 覆盖写入文档：先按主键删除旧版本，再整批插入。
// Milvus varchar 主键不支持原生 upsert 语义时以 delete+insert 等价实现。
func (r *Repository) Upsert(ctx context.Context, collection string, docs []*assistant.Document) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.Upsert",
		trace.WithAttributes(
			attribute.String("collection", collection),
			attribute.Int("count", len(docs)),
		))
	defer span.End()

	if len(docs) == 0 {
		return nil
	}

	collName := r.client.CollectionName(collection)

	ids := make([]string, len(docs))
	vectors := make([][]float32, len(docs))
	texts := make([]string, len(docs))
	metas := make([]string, len(docs))

	for i, doc := range docs {
		ids[i] = doc.ID
		vectors[i] = doc.Vector
		texts[i] = doc.Text

		meta := doc.Metadata
		if meta == nil {
			meta = map[string]string{}
		}
		raw, err := json.Marshal(meta)
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to encode metadata for %s: %w", doc.ID, err)
		}
		metas[i] = string(raw)
	}

	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = strconv.Quote(id)
	}
	expr := fmt.Sprintf("id in [%s]", strings.Join(quoted, ", "))
	if err := r.client.milvus.Delete(ctx, collName, "", expr); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete stale documents: %w", err)
	}

	idCol := entity.NewColumnVarChar("id", ids)
	vectorCol := entity.NewColumnFloatVector("vector", r.dim, vectors)
	textCol := entity.NewColumnVarChar("text", texts)
	metaCol := entity.NewColumnVarChar("metadata", metas)

	if _, err := r.client.milvus.Insert(ctx, collName, "", idCol, vectorCol, textCol, metaCol); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to insert documents: %w", err)
	}

	if err := r.client.milvus.Flush(ctx, collName, false); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to flush collection: %w", err)
	}
	return nil
}

// Search 按向量近邻检索 topK 条文档
func (r *Repository) Search(ctx context.Context, collection string, vector []float32, topK int) ([]*assistant.Match, error) {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return nil, fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.Search",
		trace.WithAttributes(
			attribute.String("collection", collection),
			attribute.Int("top_k", topK),
		))
	defer span.End()

	collName := r.client.CollectionName(collection)

	sp, err := entity.NewIndexHNSWSearchParam(128)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create search param: %w", err)
	}

	results, err := r.client.milvus.Search(ctx,
		collName,
		nil,
		"",
		[]string{"id", "text", "metadata"},
		[]entity.Vector{entity.FloatVector(vector)},
		"vector",
		entity.COSINE,
		topK,
		sp,
	)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var matches []*assistant.Match
	for _, result := range results {
		idCol, _ := result.Fields.GetColumn("id").(*entity.ColumnVarChar)
		textCol, _ := result.Fields.GetColumn("text").(*entity.ColumnVarChar)
		metaCol, _ := result.Fields.GetColumn("metadata").(*entity.ColumnVarChar)

		for i := 0; i < result.ResultCount; i++ {
			m := &assistant.Match{Score: result.Scores[i]}
			if idCol != nil {
				m.ID = idCol.Data()[i]
			}
			if textCol != nil {
				m.Text = textCol.Data()[i]
			}
			if metaCol != nil {
				m.Metadata = decodeMetadata(metaCol.Data()[i])
			}
			matches = append(matches, m)
		}
	}

	span.SetAttributes(attribute.Int("result_count", len(matches)))
	return matches, nil
}

// QueryAll 返回集合内全部文档，按主键升序保证扫描顺序稳定
func (r *Repository) QueryAll(ctx context.Context, collection string) ([]*assistant.Document, error) {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return nil, fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.QueryAll",
		trace.WithAttributes(attribute.String("collection", collection)))
	defer span.End()

	collName := r.client.CollectionName(collection)

	rs, err := r.client.milvus.Query(ctx,
		collName,
		nil,
		`id != ""`,
		[]string{"id", "text", "metadata"},
		client.WithLimit(16384),
	)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	var idCol, textCol, metaCol *entity.ColumnVarChar
	for _, col := range rs {
		switch col.Name() {
		case "id":
			idCol, _ = col.(*entity.ColumnVarChar)
		case "text":
			textCol, _ = col.(*entity.ColumnVarChar)
		case "metadata":
			metaCol, _ = col.(*entity.ColumnVarChar)
		}
	}
	if idCol == nil {
		return []*assistant.Document{}, nil
	}

	docs := make([]*assistant.Document, 0, idCol.Len())
	for i := 0; i < idCol.Len(); i++ {
		doc := &assistant.Document{ID: idCol.Data()[i]}
		if textCol != nil && i < textCol.Len() {
			doc.Text = textCol.Data()[i]
		}
		if metaCol != nil && i < metaCol.Len() {
			doc.Metadata = decodeMetadata(metaCol.Data()[i])
		}
		docs = append(docs, doc)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })

	span.SetAttributes(attribute.Int("result_count", len(docs)))
	return docs, nil
}

func decodeMetadata(raw string) map[string]string {
	if raw == "" {
		return map[string]string{}
	}
	meta := map[string]string{}
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return map[string]string{}
	}
	return meta
}
