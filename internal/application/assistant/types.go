package assistant

import (
	"strings"

	"shop-assist-api/internal/domain/entity"
)

// Label 路由意图标签
type Label string

const (
	LabelSearch    Label = "search"
	LabelRecommend Label = "recommend"
	LabelSupport   Label = "support"

	// DefaultLabel 分类结果无法识别时的兜底标签。
	// 选 support：兜底到客服话术比返回空的搜索结果更安全。
	DefaultLabel = LabelSupport
)

// ParseLabel 解析分类服务的原始输出为意图标签。
// 历史版本的分类 prompt 用 "fallback" 表示推荐路径，这里保留为别名。
func ParseLabel(raw string) (Label, bool) {
	switch Label(strings.ToLower(strings.TrimSpace(raw))) {
	case LabelSearch:
		return LabelSearch, true
	case LabelRecommend, Label("fallback"):
		return LabelRecommend, true
	case LabelSupport:
		return LabelSupport, true
	default:
		return DefaultLabel, false
	}
}

// 固定回答文案
const (
	AnswerSearch    = "Here are some products I found"
	AnswerRecommend = "Here are popular picks"
	AnswerNoMatch   = "Sorry, I couldn't find an article that answers that. " +
		"Please contact support for further assistance."
)

// State 单次路由的累积状态。
// 字段按阶段单调写入：Query -> Label -> Answer/Results/Sources，
// 一次调用内已写入的字段不会被清空或覆盖。
type State struct {
	Query string

	Label Label

	Answer  string
	Results []*entity.Product
	Sources []map[string]string
}
