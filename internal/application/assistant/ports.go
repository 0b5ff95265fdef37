package assistant

import "context"

// 向量集合名称
const (
	CollectionProducts  = "products"
	CollectionSupportKB = "support_kb"
)

// Document 向量索引中的一条文档
type Document struct {
	ID       string
	Vector   []float32
	Text     string
	Metadata map[string]string
}

// Match 一次近邻检索的命中，Score 为索引原生度量下的距离/得分
type Match struct {
	Document
	Score float32
}

// VectorIndex 定义应用层对向量存储/检索的最小依赖（port）。
// 由基础设施层提供具体实现（例如 Milvus）；进程启动时构造一次，
// 显式传入各策略，不做包级单例。
type VectorIndex interface {
	// Upsert 按 ID 覆盖写入文档
	Upsert(ctx context.Context, collection string, docs []*Document) error
	// Search 按向量近邻检索 topK 条文档，按相关度排序
	Search(ctx context.Context, collection string, vector []float32, topK int) ([]*Match, error)
	// QueryAll 返回集合内全部文档，保持存储顺序（用于词法兜底扫描）
	QueryAll(ctx context.Context, collection string) ([]*Document, error)
}
