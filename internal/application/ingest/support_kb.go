package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cloudwego/eino/components/embedding"

	"shop-assist-api/internal/application/assistant"
	"shop-assist-api/internal/config"
	"shop-assist-api/pkg/logger"
	"shop-assist-api/pkg/metrics"
)

const (
	defaultChunkSizeRunes    = 500
	defaultChunkOverlapRunes = 50
)

// KBIngestor 客服知识库摄取器。
// 读取目录下的 Markdown 文档，解析 front matter，按固定窗口分块后
// 写入客服向量集合。分块 ID 由文件名与块序号拼成，重复摄取覆盖旧块。
type KBIngestor struct {
	embedder embedding.Embedder
	vector   assistant.VectorIndex

	chunkSizeRunes    int
	chunkOverlapRunes int
	batchSize         int
}

// NewKBIngestor 创建知识库摄取器
func NewKBIngestor(cfg *config.SupportKBConfig, embedder embedding.Embedder, vector assistant.VectorIndex, batchSize int) *KBIngestor {
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSizeRunes
	}
	overlap := cfg.ChunkOverlap
	if overlap < 0 {
		overlap = defaultChunkOverlapRunes
	}
	return &KBIngestor{
		embedder:          embedder,
		vector:            vector,
		chunkSizeRunes:    chunkSize,
		chunkOverlapRunes: overlap,
		batchSize:         batchSize,
	}
}

// Run 摄取目录下全部 Markdown 文档，返回写入的分块数
func (k *KBIngestor) Run(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read kb directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		logger.Warn(ctx, "kb directory contains no markdown documents", "dir", dir)
		return 0, nil
	}

	var texts []string
	var docs []*assistant.Document

	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return 0, fmt.Errorf("failed to read %s: %w", name, err)
		}

		meta, body := parseFrontMatter(string(raw))
		if strings.TrimSpace(body) == "" {
			logger.Warn(ctx, "kb document has empty body, skipped", "file", name)
			continue
		}

		title := strings.TrimSpace(meta["title"])
		if title == "" {
			title = firstHeading(body)
		}
		if title == "" {
			title = docSlug(name)
		}

		chunks := splitByRunes(body, k.chunkSizeRunes, k.chunkOverlapRunes)
		for i, chunk := range chunks {
			chunkMeta := map[string]string{
				"title":  title,
				"source": name,
				"chunk":  fmt.Sprintf("%d", i),
			}
			for key, val := range meta {
				if _, taken := chunkMeta[key]; !taken {
					chunkMeta[key] = val
				}
			}

			texts = append(texts, title+"\n"+chunk)
			docs = append(docs, &assistant.Document{
				ID:       fmt.Sprintf("%s:%04d", docSlug(name), i),
				Text:     chunk,
				Metadata: chunkMeta,
			})
		}
	}

	if len(docs) == 0 {
		return 0, nil
	}

	vectors, err := embedBatch(ctx, k.embedder, texts, k.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to embed kb chunks: %w", err)
	}
	for i := range docs {
		docs[i].Vector = vectors[i]
	}

	if err := k.vector.Upsert(ctx, assistant.CollectionSupportKB, docs); err != nil {
		return 0, fmt.Errorf("failed to index kb chunks: %w", err)
	}

	metrics.IngestedItemsTotal.WithLabelValues("support_kb").Add(float64(len(docs)))
	logger.Info(ctx, "support kb ingested", "documents", len(names), "chunks", len(docs))
	return len(docs), nil
}

// docSlug 由文件名生成稳定的文档标识
func docSlug(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.ToLower(base)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, base)
}
