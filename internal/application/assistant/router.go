package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/compose"

	"shop-assist-api/pkg/logger"
	"shop-assist-api/pkg/metrics"
)

// Router 意图路由状态机：classify -> {search | recommend | support}。
// 严格顺序执行，单次调用内无回边、无并发；每次 Invoke 构造独立的 State。
type Router struct {
	classifier  *Classifier
	search      *ProductSearch
	recommender *Recommender
	support     *SupportAnswerer

	topK int

	graphOnce sync.Once
	graph     compose.Runnable[*State, *State]
	graphErr  error
}

// NewRouter 创建路由器
func NewRouter(classifier *Classifier, search *ProductSearch, recommender *Recommender, support *SupportAnswerer, topK int) *Router {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &Router{
		classifier:  classifier,
		search:      search,
		recommender: recommender,
		support:     support,
		topK:        topK,
	}
}

// Invoke 路由一次用户查询，返回终态 State。
// 使用真实模型后端时 Label 不保证可复现；离线替身下完全确定。
func (r *Router) Invoke(ctx context.Context, query string) (*State, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	graph, err := r.getGraph()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	st, err := graph.Invoke(ctx, &State{Query: query})
	if err != nil {
		metrics.ChatRequestsTotal.WithLabelValues("unknown", "error").Inc()
		return nil, err
	}

	metrics.ChatRequestsTotal.WithLabelValues(string(st.Label), "ok").Inc()
	metrics.ChatDuration.WithLabelValues(string(st.Label)).Observe(time.Since(start).Seconds())
	return st, nil
}

func (r *Router) getGraph() (compose.Runnable[*State, *State], error) {
	r.graphOnce.Do(func() {
		r.graph, r.graphErr = r.buildGraph(context.Background())
	})
	return r.graph, r.graphErr
}

// buildGraph 构建路由图：START -> classify -> <分支> -> handler -> END
func (r *Router) buildGraph(ctx context.Context) (compose.Runnable[*State, *State], error) {
	graph := compose.NewGraph[*State, *State]()

	// classify: 写入 Label，后续阶段只读
	if err := graph.AddLambdaNode("classify", compose.InvokableLambda(func(ctx context.Context, st *State) (*State, error) {
		if st == nil || st.Query == "" {
			return nil, fmt.Errorf("state is nil")
		}

		label, err := r.classifier.Classify(ctx, st.Query)
		if err != nil {
			// 分类服务不可用时兜底到 support：查询保留在状态里，
			// 由客服策略用原始 query 继续检索
			logger.Warn(ctx, "classification failed, routing to support", "reason", err.Error())
			label = DefaultLabel
		}
		st.Label = label
		return st, nil
	}), compose.WithNodeName("assistant.classify")); err != nil {
		return nil, err
	}

	// search: 语义商品检索（空召回降级到推荐）
	if err := graph.AddLambdaNode("search", compose.InvokableLambda(func(ctx context.Context, st *State) (*State, error) {
		if st == nil {
			return nil, fmt.Errorf("state is nil")
		}
		results, err := r.search.Search(ctx, st.Query)
		if err != nil {
			return nil, err
		}
		st.Results = results
		st.Answer = AnswerSearch
		return st, nil
	}), compose.WithNodeName("assistant.search")); err != nil {
		return nil, err
	}

	// recommend: 确定性热门推荐
	if err := graph.AddLambdaNode("recommend", compose.InvokableLambda(func(ctx context.Context, st *State) (*State, error) {
		if st == nil {
			return nil, fmt.Errorf("state is nil")
		}
		results, err := r.recommender.Recommend(ctx, r.topK)
		if err != nil {
			return nil, err
		}
		st.Results = results
		st.Answer = AnswerRecommend
		return st, nil
	}), compose.WithNodeName("assistant.recommend")); err != nil {
		return nil, err
	}

	// support: 混合检索问答（内部降级，不返回错误）
	if err := graph.AddLambdaNode("support", compose.InvokableLambda(func(ctx context.Context, st *State) (*State, error) {
		if st == nil {
			return nil, fmt.Errorf("state is nil")
		}
		ans := r.support.Answer(ctx, st.Query)
		st.Answer = ans.Answer
		st.Sources = ans.Sources
		return st, nil
	}), compose.WithNodeName("assistant.support")); err != nil {
		return nil, err
	}

	if err := graph.AddEdge(compose.START, "classify"); err != nil {
		return nil, err
	}

	branch := func(ctx context.Context, st *State) (string, error) {
		if st == nil {
			return "", fmt.Errorf("state is nil")
		}
		switch st.Label {
		case LabelSearch:
			return "search", nil
		case LabelRecommend:
			return "recommend", nil
		default:
			return "support", nil
		}
	}
	if err := graph.AddBranch("classify", compose.NewGraphBranch(branch, map[string]bool{
		"search":    true,
		"recommend": true,
		"support":   true,
	})); err != nil {
		return nil, err
	}

	for _, node := range []string{"search", "recommend", "support"} {
		if err := graph.AddEdge(node, compose.END); err != nil {
			return nil, err
		}
	}

	return graph.Compile(ctx, compose.WithGraphName("assistant_router"))
}
