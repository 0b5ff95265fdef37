// Package embedding 提供文本向量化实现
package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math/rand"

	"github.com/cloudwego/eino/components/embedding"
)

// OfflineEmbedder 确定性伪随机向量化替身，供离线与测试环境使用。
// 向量由文本哈希播种生成：同一文本任何时刻得到同一向量，
// 不同文本几乎必然不同。向量之间不具备语义邻近性。
type OfflineEmbedder struct {
	dim int
}

// NewOfflineEmbedder 创建离线 Embedder
func NewOfflineEmbedder(dim int) *OfflineEmbedder {
	if dim <= 0 {
		dim = 1536
	}
	return &OfflineEmbedder{dim: dim}
}

// Dimension 向量维度
func (e *OfflineEmbedder) Dimension() int {
	return e.dim
}

// EmbedStrings 为每段文本生成确定性向量
func (e *OfflineEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = e.embed(text)
	}
	return vectors, nil
}

func (e *OfflineEmbedder) embed(text string) []float64 {
	sum := sha256.Sum256([]byte(text))
	seed := int64(binary.BigEndian.Uint64(sum[:8]))

	rng := rand.New(rand.NewSource(seed))
	vec := make([]float64, e.dim)
	for i := range vec {
		vec[i] = rng.Float64()*2 - 1
	}
	return vec
}
