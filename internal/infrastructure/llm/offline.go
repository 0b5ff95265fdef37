// Package llm 提供 ChatModel 客户端管理
package llm

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// supportKeywords 命中即判定为客服意图
var supportKeywords = []string{"how", "return", "policy", "shipping", "order"}

// recommendKeywords 命中即判定为推荐意图
var recommendKeywords = []string{"recommend", "suggest"}

// FakeChatModel 确定性的 ChatModel 替身，供离线与测试环境使用。
// 只认识分类任务：按关键词对最后一条用户消息打标签，
// 同一输入永远产生同一标签。
type FakeChatModel struct{}

// NewFakeChatModel 创建离线 ChatModel
func NewFakeChatModel() *FakeChatModel {
	return &FakeChatModel{}
}

// Generate 根据最后一条用户消息返回意图标签
func (m *FakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	return schema.AssistantMessage(classify(lastUserContent(input)), nil), nil
}

// Stream 以单帧流返回 Generate 的结果
func (m *FakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func lastUserContent(input []*schema.Message) string {
	for i := len(input) - 1; i >= 0; i-- {
		if input[i] != nil && input[i].Role == schema.User {
			return input[i].Content
		}
	}
	return ""
}

func classify(query string) string {
	lowered := strings.ToLower(query)

	for _, kw := range supportKeywords {
		if strings.Contains(lowered, kw) {
			return "support"
		}
	}
	for _, kw := range recommendKeywords {
		if strings.Contains(lowered, kw) {
			return "recommend"
		}
	}
	return "search"
}
