package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/embedding"

	"shop-assist-api/pkg/logger"
	"shop-assist-api/pkg/metrics"
)

const defaultSupportTopK = 3

// SupportAnswer 客服问答结果
type SupportAnswer struct {
	Answer string
	// Sources 是所有存活候选的 metadata，顺序与筛选顺序一致
	Sources []map[string]string
}

// SupportAnswerer 客服知识库混合检索问答。
//
// 检索分两道：向量召回 + 词法复核。词法复核通过的候选优先，
// 全部未通过时回退到原始向量排名；向量召回本身失败或为空时，
// 全量扫描集合做纯词法匹配。两道都为空时返回固定道歉话术，
// 这是合法的终止状态而不是错误。
type SupportAnswerer struct {
	embedder embedding.Embedder
	vector   VectorIndex

	topK int
}

// NewSupportAnswerer 创建客服问答策略
func NewSupportAnswerer(embedder embedding.Embedder, vector VectorIndex, topK int) *SupportAnswerer {
	if topK <= 0 {
		topK = defaultSupportTopK
	}
	return &SupportAnswerer{
		embedder: embedder,
		vector:   vector,
		topK:     topK,
	}
}

// Answer 回答一个客服问题。检索失败就地降级，不向调用方返回错误。
func (a *SupportAnswerer) Answer(ctx context.Context, query string) *SupportAnswer {
	tokens := queryTokens(query)

	survivors, source := a.selectCandidates(ctx, query, tokens)
	if len(survivors) == 0 {
		return &SupportAnswer{
			Answer:  AnswerNoMatch,
			Sources: []map[string]string{},
		}
	}

	sources := make([]map[string]string, 0, len(survivors))
	for _, d := range survivors {
		meta := d.Metadata
		if meta == nil {
			meta = map[string]string{}
		}
		sources = append(sources, meta)
	}

	logger.Debug(ctx, "support answer selected", "source", source, "candidates", len(survivors))
	return &SupportAnswer{
		Answer:  composeAnswer(survivors[0]),
		Sources: sources,
	}
}

// selectCandidates 执行两道检索，返回存活候选及其来源（vector / lexical）。
func (a *SupportAnswerer) selectCandidates(ctx context.Context, query string, tokens []string) ([]*Document, string) {
	matches, err := a.vectorPass(ctx, query)
	if err != nil {
		logger.Warn(ctx, "support vector search degraded to lexical scan", "reason", err.Error())
		metrics.RetrievalFallbacksTotal.WithLabelValues("support", "vector_error").Inc()
	}

	if len(matches) > 0 {
		// 词法复核：离线伪随机向量的排名不可靠，词面命中的候选优先
		confirmed := make([]*Document, 0, len(matches))
		for _, m := range matches {
			if containsAnyToken(m.Text, m.Metadata, tokens) {
				d := m.Document
				confirmed = append(confirmed, &d)
			}
		}
		if len(confirmed) > 0 {
			return confirmed, "vector"
		}
		out := make([]*Document, 0, len(matches))
		for _, m := range matches {
			d := m.Document
			out = append(out, &d)
		}
		return out, "vector"
	}

	// 向量召回为空：全量扫描做纯词法匹配，保持集合顺序，截断 topK
	if a.vector == nil || len(tokens) == 0 {
		return nil, "none"
	}
	docs, err := a.vector.QueryAll(ctx, CollectionSupportKB)
	if err != nil {
		logger.Warn(ctx, "support lexical scan failed", "reason", err.Error())
		return nil, "none"
	}
	kept := make([]*Document, 0, a.topK)
	for _, d := range docs {
		if containsAnyToken(d.Text, d.Metadata, tokens) {
			kept = append(kept, d)
			if len(kept) >= a.topK {
				break
			}
		}
	}
	if len(kept) == 0 {
		return nil, "none"
	}
	metrics.RetrievalFallbacksTotal.WithLabelValues("support", "lexical_fallback").Inc()
	return kept, "lexical"
}

func (a *SupportAnswerer) vectorPass(ctx context.Context, query string) ([]*Match, error) {
	if a == nil || a.embedder == nil || a.vector == nil {
		return nil, fmt.Errorf("%w: vector search not configured", ErrRetrieval)
	}

	vec, err := embedQuery(ctx, a.embedder, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}

	start := time.Now()
	matches, err := a.vector.Search(ctx, CollectionSupportKB, vec, a.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}
	metrics.VectorSearchDuration.WithLabelValues(CollectionSupportKB).Observe(time.Since(start).Seconds())
	return matches, nil
}

// composeAnswer 用最优候选的正文组装回答。
// metadata 的 title/heading 未出现在正文中时作为标题前置。
func composeAnswer(doc *Document) string {
	body := strings.TrimSpace(doc.Text)

	title := strings.TrimSpace(doc.Metadata["title"])
	if title == "" {
		title = strings.TrimSpace(doc.Metadata["heading"])
	}
	if title != "" && !strings.Contains(strings.ToLower(body), strings.ToLower(title)) {
		return title + "\n\n" + body
	}
	return body
}
