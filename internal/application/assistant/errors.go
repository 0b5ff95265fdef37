package assistant

import "errors"

var (
	// ErrClassification 表示意图分类服务不可达或调用失败。
	// 路由层捕获后转入 support 兜底话术，不向调用方透出。
	ErrClassification = errors.New("intent classification failed")

	// ErrRetrieval 表示向量索引不可达或检索失败。
	// 各策略就地降级（商品检索 -> 推荐；客服问答 -> 纯词法扫描）。
	ErrRetrieval = errors.New("vector retrieval failed")
)
